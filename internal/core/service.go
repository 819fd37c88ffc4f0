package core

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/JonMunkholm/synthdata/internal/config"
	"github.com/JonMunkholm/synthdata/internal/generate"
	"github.com/JonMunkholm/synthdata/internal/logging"
	"github.com/JonMunkholm/synthdata/internal/schema"
)

// Source names the surface a generation request arrived through.
type Source string

const (
	SourceUnknown Source = "unknown"
	SourceForm    Source = "form"
	SourceAPI     Source = "api"
	SourceCLI     Source = "cli"
)

// Limit fields reported by LimitError.
const (
	LimitRows    = "rows"
	LimitColumns = "columns"
	LimitLength  = "characters per string"
)

// LimitError reports a request larger than the configured bounds.
type LimitError struct {
	Field string // LimitRows, LimitColumns or LimitLength
	Value int
	Max   int
}

func (e *LimitError) Error() string {
	return fmt.Sprintf("%d %s requested, maximum is %d", e.Value, e.Field, e.Max)
}

// Result is one generated table and how to reproduce it.
type Result struct {
	ID       string
	Table    *generate.Table
	Seed     uint64
	Duration time.Duration
}

// Limits describes the bounds requests are held to.
type Limits struct {
	MaxRows         int           `json:"max_rows"`
	MaxColumns      int           `json:"max_columns"`
	MaxStringLength int           `json:"max_string_length"`
	DefaultRows     int           `json:"default_rows"`
	DefaultColumns  int           `json:"default_columns"`
	PreviewRows     int           `json:"preview_rows"`
	Limiter         LimiterStatus `json:"limiter"`
}

// Service validates, throttles, seeds and audits generation requests.
// It is safe for concurrent use; each request gets its own generator.
type Service struct {
	cfg     config.GenerationConfig
	limiter *GenerationLimiter
	audit   AuditRecorder
}

// NewService creates a Service. A nil recorder records to the log.
func NewService(cfg config.GenerationConfig, recorder AuditRecorder) *Service {
	if recorder == nil {
		recorder = NewLogAudit(nil)
	}
	return &Service{
		cfg:     cfg,
		limiter: NewGenerationLimiter(cfg.MaxConcurrent, cfg.MaxWaitTime),
		audit:   recorder,
	}
}

// CheckLimits rejects requests above the row or column bounds. Callers
// that decode documents use it before building the schema.
func (s *Service) CheckLimits(rows, columns int) error {
	if s.cfg.MaxRows > 0 && rows > s.cfg.MaxRows {
		return &LimitError{Field: LimitRows, Value: rows, Max: s.cfg.MaxRows}
	}
	if s.cfg.MaxColumns > 0 && columns > s.cfg.MaxColumns {
		return &LimitError{Field: LimitColumns, Value: columns, Max: s.cfg.MaxColumns}
	}
	return nil
}

// checkStringLengths rejects string columns longer than the configured
// maximum. Row, column and length bounds together cap the table's size.
func (s *Service) checkStringLengths(sch schema.Schema) error {
	if s.cfg.MaxStringLength <= 0 {
		return nil
	}
	for _, col := range sch {
		if c, ok := col.(schema.StringColumn); ok && c.Length > s.cfg.MaxStringLength {
			return &LimitError{Field: LimitLength, Value: c.Length, Max: s.cfg.MaxStringLength}
		}
	}
	return nil
}

// Generate produces the table for req. Without a seed one is drawn at
// random and returned in the result.
func (s *Service) Generate(ctx context.Context, req schema.Request) (*Result, error) {
	if err := s.CheckLimits(req.Rows, len(req.Schema)); err != nil {
		return nil, err
	}
	if err := s.checkStringLengths(req.Schema); err != nil {
		return nil, err
	}

	if s.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.Timeout)
		defer cancel()
	}

	if err := s.limiter.Acquire(ctx); err != nil {
		return nil, err
	}
	defer s.limiter.Release()

	seed := generate.RandomSeed()
	if req.Seed != nil {
		seed = *req.Seed
	}

	id := uuid.New()
	logger := logging.WithFields(ctx, "generation_id", id.String())

	start := time.Now()
	tbl, err := generate.NewSeeded(seed).Generate(req.Rows, req.Schema)
	if err != nil {
		logger.Debug("generation rejected", "error", err)
		return nil, err
	}
	elapsed := time.Since(start)

	logger.Info("table generated",
		"rows", tbl.NumRows(),
		"columns", tbl.NumColumns(),
		"seed", seed,
		"duration", elapsed,
	)

	event := GenerationEvent{
		ID:           id,
		Source:       SourceFromContext(ctx),
		Rows:         tbl.NumRows(),
		Columns:      tbl.NumColumns(),
		Kinds:        kindStrings(tbl.Kinds()),
		Seed:         seed,
		SeedProvided: req.Seed != nil,
		Duration:     elapsed,
		IPAddress:    IPAddressFromContext(ctx),
		UserAgent:    UserAgentFromContext(ctx),
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.audit.RecordGeneration(ctx, event); err != nil {
		logger.Warn("failed to record generation", "error", err)
	}

	return &Result{
		ID:       id.String(),
		Table:    tbl,
		Seed:     seed,
		Duration: elapsed,
	}, nil
}

// Limits returns the configured bounds and current limiter state.
func (s *Service) Limits() Limits {
	return Limits{
		MaxRows:         s.cfg.MaxRows,
		MaxColumns:      s.cfg.MaxColumns,
		MaxStringLength: s.cfg.MaxStringLength,
		DefaultRows:     s.cfg.DefaultRows,
		DefaultColumns:  s.cfg.DefaultColumns,
		PreviewRows:     s.cfg.PreviewRows,
		Limiter:         s.LimiterStatus(),
	}
}

// LimiterStatus returns the generation limiter state.
func (s *Service) LimiterStatus() LimiterStatus {
	return s.limiter.Status()
}

// WaitForGenerations blocks until in-flight generations finish or ctx ends.
func (s *Service) WaitForGenerations(ctx context.Context) error {
	return s.limiter.WaitForDrain(ctx)
}

func kindStrings(kinds []schema.Kind) []string {
	out := make([]string, len(kinds))
	for i, k := range kinds {
		out[i] = string(k)
	}
	return out
}
