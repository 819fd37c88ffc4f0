package core

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
)

// GenerationEvent is one audited generation. It describes the shape of the
// request only; column names and category values are never recorded.
type GenerationEvent struct {
	ID           uuid.UUID
	Source       Source
	Rows         int
	Columns      int
	Kinds        []string
	Seed         uint64
	SeedProvided bool
	Duration     time.Duration
	IPAddress    string
	UserAgent    string
	CreatedAt    time.Time
}

// AuditRecorder stores generation events.
type AuditRecorder interface {
	RecordGeneration(ctx context.Context, e GenerationEvent) error
}

// DBTX is the subset of *pgxpool.Pool and pgx.Tx the audit table needs.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

const createAuditTableSQL = `
CREATE TABLE IF NOT EXISTS generation_audit (
    id            UUID PRIMARY KEY,
    source        TEXT        NOT NULL,
    row_count     INTEGER     NOT NULL,
    column_count  INTEGER     NOT NULL,
    column_kinds  TEXT[]      NOT NULL,
    seed          TEXT        NOT NULL,
    seed_provided BOOLEAN     NOT NULL,
    duration_ms   BIGINT      NOT NULL,
    ip_address    TEXT,
    user_agent    TEXT,
    created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

const insertAuditSQL = `
INSERT INTO generation_audit (
    id, source, row_count, column_count, column_kinds,
    seed, seed_provided, duration_ms, ip_address, user_agent, created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

// PostgresAudit writes events to the generation_audit table.
type PostgresAudit struct {
	db DBTX
}

// NewPostgresAudit returns a recorder backed by db.
func NewPostgresAudit(db DBTX) *PostgresAudit {
	return &PostgresAudit{db: db}
}

// EnsureSchema creates the audit table if it does not exist.
func (a *PostgresAudit) EnsureSchema(ctx context.Context) error {
	if _, err := a.db.Exec(ctx, createAuditTableSQL); err != nil {
		return fmt.Errorf("create generation_audit: %w", err)
	}
	return nil
}

// RecordGeneration inserts e.
func (a *PostgresAudit) RecordGeneration(ctx context.Context, e GenerationEvent) error {
	createdAt := e.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	tag, err := a.db.Exec(ctx, insertAuditSQL,
		e.ID,
		string(e.Source),
		e.Rows,
		e.Columns,
		e.Kinds,
		// uint64 seeds overflow BIGINT
		strconv.FormatUint(e.Seed, 10),
		e.SeedProvided,
		e.Duration.Milliseconds(),
		toPgText(e.IPAddress),
		toPgText(e.UserAgent),
		pgtype.Timestamptz{Time: createdAt, Valid: true},
	)
	if err != nil {
		return fmt.Errorf("insert generation_audit: %w", err)
	}
	if tag.RowsAffected() != 1 {
		return fmt.Errorf("insert generation_audit: %d rows affected", tag.RowsAffected())
	}
	return nil
}

// toPgText maps an empty string to NULL.
func toPgText(s string) pgtype.Text {
	return pgtype.Text{String: s, Valid: s != ""}
}

// LogAudit writes events to a structured logger instead of a database.
type LogAudit struct {
	logger *slog.Logger
}

// NewLogAudit returns a recorder that logs to logger, or to slog.Default
// when logger is nil.
func NewLogAudit(logger *slog.Logger) *LogAudit {
	return &LogAudit{logger: logger}
}

// RecordGeneration logs e at info level.
func (a *LogAudit) RecordGeneration(ctx context.Context, e GenerationEvent) error {
	logger := a.logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.InfoContext(ctx, "generation audit",
		"generation_id", e.ID.String(),
		"source", string(e.Source),
		"rows", e.Rows,
		"columns", e.Columns,
		"kinds", e.Kinds,
		"seed_provided", e.SeedProvided,
		"duration_ms", e.Duration.Milliseconds(),
		"ip", e.IPAddress,
	)
	return nil
}
