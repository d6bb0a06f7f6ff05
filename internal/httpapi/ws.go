package httpapi

import (
	"net/http"
	"strings"
	"sync"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/kapu/comp-table-go/internal/domain"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	// Browser clients connect cross-origin during local development.
	CheckOrigin: func(*http.Request) bool { return true },
}

type progressFrame struct {
	Type    string       `json:"type"`
	Stage   domain.Stage `json:"stage,omitempty"`
	Message string       `json:"message,omitempty"`
}

type resultFrame struct {
	Type   string                 `json:"type"`
	Result *domain.AnalysisResult `json:"result,omitempty"`
	Error  string                 `json:"error,omitempty"`
}

// handleAnalyzeWS runs one analysis and streams stage transitions as
// they happen, then the final result (or the top-level error) as the
// closing frame.
func (s *Server) handleAnalyzeWS(w http.ResponseWriter, r *http.Request) {
	target := strings.TrimSpace(r.URL.Query().Get("target"))
	if target == "" {
		writeError(w, http.StatusBadRequest, "target is required")
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("WebSocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	// Gorilla allows one concurrent writer; progress callbacks fire
	// from pipeline goroutines.
	var writeMu sync.Mutex
	send := func(frame any) {
		writeMu.Lock()
		defer writeMu.Unlock()
		if err := conn.WriteJSON(frame); err != nil {
			s.logger.Debug("WebSocket write failed", zap.Error(err))
		}
	}

	progress := func(stage domain.Stage, message string) {
		send(progressFrame{Type: "progress", Stage: stage, Message: message})
	}

	result, err := s.pipeline.Run(r.Context(), target, progress)
	if err != nil {
		send(resultFrame{Type: "error", Error: err.Error()})
		return
	}

	s.archiveResult(r.Context(), result)
	send(resultFrame{Type: "result", Result: result})
}
