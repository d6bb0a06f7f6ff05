// Package database holds the optional Postgres-backed analysis
// archive. It is an attachment: the pipeline itself stays stateless
// and never reads the archive.
package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/kapu/comp-table-go/internal/domain"
	"github.com/kapu/comp-table-go/pkg/errors"
)

type Config struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
}

// Archive keeps completed analysis results as an audit trail.
type Archive struct {
	db     *sql.DB
	logger *zap.Logger
}

type ArchiveEntry struct {
	ID        int64     `json:"id"`
	Target    string    `json:"target"`
	CreatedAt time.Time `json:"created_at"`
}

const archiveSchema = `
CREATE TABLE IF NOT EXISTS analyses (
	id         BIGSERIAL PRIMARY KEY,
	target     TEXT        NOT NULL,
	result     JSONB       NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS analyses_target_idx ON analyses (target);
`

// Open connects to Postgres and ensures the archive schema. The
// archive writes one JSONB row per completed analysis and serves
// occasional list/get reads, so the pool stays small.
func Open(cfg Config, logger *zap.Logger) (*Archive, error) {
	db, err := sql.Open("postgres", buildDSN(cfg))
	if err != nil {
		return nil, errors.NewArchiveError("failed to open postgres", err)
	}

	db.SetMaxOpenConns(8)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, errors.NewArchiveError("failed to ping postgres", err)
	}

	if _, err := db.ExecContext(ctx, archiveSchema); err != nil {
		db.Close()
		return nil, errors.NewArchiveError("failed to ensure archive schema", err)
	}

	logger.Info("Analysis archive ready",
		zap.String("host", cfg.Host),
		zap.Int("port", cfg.Port),
		zap.String("database", cfg.Database),
	)

	return &Archive{
		db:     db,
		logger: logger,
	}, nil
}

func buildDSN(cfg Config) string {
	sslMode := cfg.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Database, sslMode)
}

func (a *Archive) Close() error {
	if a == nil || a.db == nil {
		return nil
	}
	return a.db.Close()
}

// Save stores one completed result and returns its archive id.
func (a *Archive) Save(ctx context.Context, result *domain.AnalysisResult) (int64, error) {
	payload, err := json.Marshal(result)
	if err != nil {
		return 0, errors.NewArchiveError("failed to marshal result", err)
	}

	var id int64
	err = a.db.QueryRowContext(ctx,
		`INSERT INTO analyses (target, result, created_at) VALUES ($1, $2, $3) RETURNING id`,
		result.Target, payload, result.Timestamp,
	).Scan(&id)
	if err != nil {
		return 0, errors.NewArchiveError("failed to insert analysis", err)
	}

	a.logger.Info("Analysis archived",
		zap.Int64("id", id),
		zap.String("target", result.Target),
	)
	return id, nil
}

// Get loads one archived result by id, returning (nil, nil) when absent.
func (a *Archive) Get(ctx context.Context, id int64) (*domain.AnalysisResult, error) {
	var payload []byte
	err := a.db.QueryRowContext(ctx,
		`SELECT result FROM analyses WHERE id = $1`, id,
	).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, errors.NewArchiveError("failed to load analysis", err)
	}

	var result domain.AnalysisResult
	if err := json.Unmarshal(payload, &result); err != nil {
		return nil, errors.NewArchiveError("failed to unmarshal analysis", err)
	}
	return &result, nil
}

// List returns the most recent entries, newest first.
func (a *Archive) List(ctx context.Context, limit int) ([]*ArchiveEntry, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := a.db.QueryContext(ctx,
		`SELECT id, target, created_at FROM analyses ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, errors.NewArchiveError("failed to list analyses", err)
	}
	defer rows.Close()

	entries := make([]*ArchiveEntry, 0, limit)
	for rows.Next() {
		entry := &ArchiveEntry{}
		if err := rows.Scan(&entry.ID, &entry.Target, &entry.CreatedAt); err != nil {
			return nil, errors.NewArchiveError("failed to scan analysis row", err)
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}
