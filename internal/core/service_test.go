package core

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/JonMunkholm/synthdata/internal/config"
	"github.com/JonMunkholm/synthdata/internal/schema"
)

type recordingAudit struct {
	mu     sync.Mutex
	events []GenerationEvent
	err    error
}

func (r *recordingAudit) RecordGeneration(_ context.Context, e GenerationEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return r.err
}

func testConfig() config.GenerationConfig {
	return config.GenerationConfig{
		MaxRows:         1000,
		MaxColumns:      3,
		MaxStringLength: 32,
		DefaultRows:     10,
		DefaultColumns:  2,
		PreviewRows:     5,
		MaxConcurrent:   2,
		MaxWaitTime:     50 * time.Millisecond,
		Timeout:         5 * time.Second,
	}
}

func testSchema() schema.Schema {
	return schema.Schema{
		schema.IntColumn{Name: "age", Min: 18, Max: 65},
		schema.NewCategoryColumn("status", "Open, Closed"),
	}
}

func seedPtr(v uint64) *uint64 { return &v }

func TestService_Generate(t *testing.T) {
	audit := &recordingAudit{}
	svc := NewService(testConfig(), audit)

	ctx := ContextWithClient(context.Background(), "10.0.0.1", "test-agent")
	ctx = ContextWithSource(ctx, SourceAPI)

	res, err := svc.Generate(ctx, schema.Request{Rows: 25, Schema: testSchema()})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if res.Table.NumRows() != 25 || res.Table.NumColumns() != 2 {
		t.Errorf("table is %dx%d, want 25x2", res.Table.NumRows(), res.Table.NumColumns())
	}
	if res.ID == "" {
		t.Error("Result.ID is empty")
	}

	if len(audit.events) != 1 {
		t.Fatalf("recorded %d events, want 1", len(audit.events))
	}
	e := audit.events[0]
	if e.ID.String() != res.ID {
		t.Errorf("event ID = %s, want %s", e.ID, res.ID)
	}
	if e.Source != SourceAPI || e.IPAddress != "10.0.0.1" || e.UserAgent != "test-agent" {
		t.Errorf("event client = %q %q %q", e.Source, e.IPAddress, e.UserAgent)
	}
	if e.Rows != 25 || e.Columns != 2 || e.SeedProvided || e.Seed != res.Seed {
		t.Errorf("event = %+v", e)
	}
	if len(e.Kinds) != 2 || e.Kinds[0] != "int" || e.Kinds[1] != "category" {
		t.Errorf("event kinds = %v", e.Kinds)
	}
}

func TestService_GenerateReproducibleWithSeed(t *testing.T) {
	svc := NewService(testConfig(), &recordingAudit{})
	ctx := context.Background()

	first, err := svc.Generate(ctx, schema.Request{Rows: 50, Schema: testSchema()})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	again, err := svc.Generate(ctx, schema.Request{Rows: 50, Seed: seedPtr(first.Seed), Schema: testSchema()})
	if err != nil {
		t.Fatalf("Generate() with seed error = %v", err)
	}
	if !first.Table.Equal(again.Table) {
		t.Error("same seed produced a different table")
	}
	if first.ID == again.ID {
		t.Error("generation IDs should be unique")
	}
}

func TestService_Limits(t *testing.T) {
	svc := NewService(testConfig(), &recordingAudit{})

	tests := []struct {
		name      string
		req       schema.Request
		wantField string
	}{
		{"too many rows", schema.Request{Rows: 1001, Schema: testSchema()}, LimitRows},
		{"too many columns", schema.Request{Rows: 1, Schema: schema.Schema{
			schema.StringColumn{Name: "a", Length: 1},
			schema.StringColumn{Name: "b", Length: 1},
			schema.StringColumn{Name: "c", Length: 1},
			schema.StringColumn{Name: "d", Length: 1},
		}}, LimitColumns},
		{"string too long", schema.Request{Rows: 1, Schema: schema.Schema{
			schema.StringColumn{Name: "a", Length: 33},
		}}, LimitLength},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Generate(context.Background(), tt.req)
			var le *LimitError
			if !errors.As(err, &le) {
				t.Fatalf("Generate() error = %v, want LimitError", err)
			}
			if le.Field != tt.wantField {
				t.Errorf("LimitError.Field = %q, want %q", le.Field, tt.wantField)
			}
		})
	}

	if _, err := svc.Generate(context.Background(), schema.Request{Rows: 1000, Schema: testSchema()}); err != nil {
		t.Errorf("request at the row limit failed: %v", err)
	}
}

func TestService_ValidationErrorsPassThrough(t *testing.T) {
	audit := &recordingAudit{}
	svc := NewService(testConfig(), audit)

	_, err := svc.Generate(context.Background(), schema.Request{Rows: 0, Schema: testSchema()})
	var ve schema.ValidationError
	if !errors.As(err, &ve) || ve.Field != "rows" {
		t.Fatalf("Generate(rows=0) error = %v, want rows ValidationError", err)
	}

	_, err = svc.Generate(context.Background(), schema.Request{Rows: 5, Schema: schema.Schema{
		schema.IntColumn{Name: "n", Min: 5, Max: 5},
	}})
	if !errors.As(err, &ve) {
		t.Fatalf("Generate(bad range) error = %v, want ValidationError", err)
	}

	if len(audit.events) != 0 {
		t.Errorf("failed generations were audited: %d", len(audit.events))
	}
	if got := svc.LimiterStatus().Active; got != 0 {
		t.Errorf("slot leaked: Active = %d", got)
	}
}

func TestService_AuditFailureDoesNotFailGeneration(t *testing.T) {
	svc := NewService(testConfig(), &recordingAudit{err: errors.New("db down")})

	if _, err := svc.Generate(context.Background(), schema.Request{Rows: 3, Schema: testSchema()}); err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
}

func TestService_BusyWhenSlotsTaken(t *testing.T) {
	cfg := testConfig()
	cfg.MaxConcurrent = 1
	svc := NewService(cfg, &recordingAudit{})

	if err := svc.limiter.Acquire(context.Background()); err != nil {
		t.Fatalf("could not occupy the only slot: %v", err)
	}
	defer svc.limiter.Release()

	_, err := svc.Generate(context.Background(), schema.Request{Rows: 1, Schema: testSchema()})
	if !errors.Is(err, ErrTooManyGenerations) {
		t.Errorf("Generate() error = %v, want ErrTooManyGenerations", err)
	}
}

func TestService_LimitsReport(t *testing.T) {
	svc := NewService(testConfig(), nil)
	got := svc.Limits()
	if got.MaxRows != 1000 || got.MaxColumns != 3 || got.MaxStringLength != 32 || got.PreviewRows != 5 {
		t.Errorf("Limits() = %+v", got)
	}
	if got.Limiter.MaxConcurrent != 2 || got.Limiter.Available != 2 {
		t.Errorf("Limits().Limiter = %+v", got.Limiter)
	}
}

func TestService_WaitForGenerations(t *testing.T) {
	svc := NewService(testConfig(), nil)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := svc.WaitForGenerations(ctx); err != nil {
		t.Errorf("WaitForGenerations() on idle service = %v", err)
	}
}

func TestContextHelpers(t *testing.T) {
	ctx := context.Background()
	if SourceFromContext(ctx) != SourceUnknown {
		t.Error("unset source should be SourceUnknown")
	}
	if IPAddressFromContext(ctx) != "" || UserAgentFromContext(ctx) != "" {
		t.Error("unset client should be empty")
	}

	ctx = ContextWithSource(ContextWithClient(ctx, "1.2.3.4", "curl/8"), SourceForm)
	if SourceFromContext(ctx) != SourceForm {
		t.Errorf("SourceFromContext() = %q", SourceFromContext(ctx))
	}
	if IPAddressFromContext(ctx) != "1.2.3.4" || UserAgentFromContext(ctx) != "curl/8" {
		t.Error("client values lost")
	}
}
