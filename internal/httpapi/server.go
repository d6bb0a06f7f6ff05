// Package httpapi is the thin presentation shell over the pipeline:
// JSON endpoints for analyses and cells, a WebSocket stream for
// progress, CSV download. It renders pipeline output; it never reaches
// into pipeline internals.
package httpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/kapu/comp-table-go/internal/analysis"
	"github.com/kapu/comp-table-go/internal/constants"
	"github.com/kapu/comp-table-go/internal/domain"
	"github.com/kapu/comp-table-go/internal/export"
	"github.com/kapu/comp-table-go/internal/service/database"
)

type Server struct {
	pipeline *analysis.Pipeline
	cells    *analysis.CellResolver
	archive  *database.Archive
	logger   *zap.Logger
	httpSrv  *http.Server
}

func NewServer(addr string, pipeline *analysis.Pipeline, cells *analysis.CellResolver, archive *database.Archive, logger *zap.Logger) *Server {
	s := &Server{
		pipeline: pipeline,
		cells:    cells,
		archive:  archive,
		logger:   logger,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/analyze", s.handleAnalyze)
	mux.HandleFunc("POST /api/cell", s.handleCell)
	mux.HandleFunc("GET /api/analyses", s.handleListAnalyses)
	mux.HandleFunc("GET /api/analyses/{id}", s.handleGetAnalysis)
	mux.HandleFunc("GET /api/analyses/{id}/csv", s.handleExportCSV)
	mux.HandleFunc("GET /ws/analyze", s.handleAnalyzeWS)

	s.httpSrv = &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  constants.ServerConfig.ReadTimeout,
		WriteTimeout: constants.ServerConfig.WriteTimeout,
	}
	return s
}

func (s *Server) Start() error {
	s.logger.Info("HTTP server listening", zap.String("addr", s.httpSrv.Addr))
	if err := s.httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpSrv.Shutdown(ctx)
}

type analyzeRequest struct {
	Target       string `json:"target"`
	ResolveCells bool   `json:"resolve_cells,omitempty"`
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.Target = strings.TrimSpace(req.Target)
	if req.Target == "" {
		writeError(w, http.StatusBadRequest, "target is required")
		return
	}

	result, err := s.pipeline.Run(r.Context(), req.Target, nil)
	if err != nil {
		s.logger.Error("Analysis failed", zap.String("target", req.Target), zap.Error(err))
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}

	if req.ResolveCells {
		if err := s.cells.ResolveAll(r.Context(), result); err != nil {
			s.logger.Warn("Bulk cell resolution interrupted", zap.Error(err))
		}
	}

	s.archiveResult(r.Context(), result)
	writeJSON(w, http.StatusOK, result)
}

type cellRequest struct {
	Competitor string `json:"competitor"`
	Criterion  string `json:"criterion"`
}

func (s *Server) handleCell(w http.ResponseWriter, r *http.Request) {
	var req cellRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Competitor == "" || req.Criterion == "" {
		writeError(w, http.StatusBadRequest, "competitor and criterion are required")
		return
	}

	// Cell resolution never fails outward; errors surface as
	// error-flagged answers.
	answer := s.cells.Answer(r.Context(), req.Competitor, req.Criterion)
	writeJSON(w, http.StatusOK, answer)
}

func (s *Server) handleListAnalyses(w http.ResponseWriter, r *http.Request) {
	if s.archive == nil {
		writeError(w, http.StatusNotFound, "archive not configured")
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	entries, err := s.archive.List(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func (s *Server) handleGetAnalysis(w http.ResponseWriter, r *http.Request) {
	result := s.loadArchived(w, r)
	if result == nil {
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	result := s.loadArchived(w, r)
	if result == nil {
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.Target+".csv"))
	if err := export.WriteCSV(w, result); err != nil {
		s.logger.Error("CSV export failed", zap.Error(err))
	}
}

func (s *Server) loadArchived(w http.ResponseWriter, r *http.Request) *domain.AnalysisResult {
	if s.archive == nil {
		writeError(w, http.StatusNotFound, "archive not configured")
		return nil
	}

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid analysis id")
		return nil
	}

	result, err := s.archive.Get(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return nil
	}
	if result == nil {
		writeError(w, http.StatusNotFound, "analysis not found")
		return nil
	}
	return result
}

func (s *Server) archiveResult(ctx context.Context, result *domain.AnalysisResult) {
	if s.archive == nil {
		return
	}
	if _, err := s.archive.Save(ctx, result); err != nil {
		s.logger.Warn("Failed to archive analysis", zap.Error(err))
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
