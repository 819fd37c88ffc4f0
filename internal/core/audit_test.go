package core

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
)

type execCall struct {
	sql  string
	args []any
}

type fakeDB struct {
	calls []execCall
	tag   string
	err   error
}

func (f *fakeDB) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	f.calls = append(f.calls, execCall{sql: sql, args: args})
	if f.err != nil {
		return pgconn.CommandTag{}, f.err
	}
	return pgconn.NewCommandTag(f.tag), nil
}

func sampleEvent() GenerationEvent {
	return GenerationEvent{
		ID:           uuid.MustParse("0b7c6a9e-2f7d-4d7b-9a53-3f0a9b1c2d3e"),
		Source:       SourceForm,
		Rows:         100,
		Columns:      2,
		Kinds:        []string{"int", "date"},
		Seed:         18446744073709551615,
		SeedProvided: true,
		Duration:     1500 * time.Millisecond,
		IPAddress:    "192.0.2.1",
	}
}

func TestPostgresAudit_EnsureSchema(t *testing.T) {
	db := &fakeDB{tag: "CREATE TABLE"}
	if err := NewPostgresAudit(db).EnsureSchema(context.Background()); err != nil {
		t.Fatalf("EnsureSchema() error = %v", err)
	}
	if len(db.calls) != 1 || !strings.Contains(db.calls[0].sql, "CREATE TABLE IF NOT EXISTS generation_audit") {
		t.Errorf("calls = %+v", db.calls)
	}

	db.err = errors.New("permission denied")
	if err := NewPostgresAudit(db).EnsureSchema(context.Background()); err == nil {
		t.Error("EnsureSchema() should return the database error")
	}
}

func TestPostgresAudit_RecordGeneration(t *testing.T) {
	db := &fakeDB{tag: "INSERT 0 1"}
	e := sampleEvent()

	if err := NewPostgresAudit(db).RecordGeneration(context.Background(), e); err != nil {
		t.Fatalf("RecordGeneration() error = %v", err)
	}
	if len(db.calls) != 1 {
		t.Fatalf("got %d calls, want 1", len(db.calls))
	}
	args := db.calls[0].args
	if len(args) != 11 {
		t.Fatalf("got %d args, want 11", len(args))
	}
	if args[0] != e.ID {
		t.Errorf("id arg = %v", args[0])
	}
	if args[1] != "form" || args[2] != 100 || args[3] != 2 {
		t.Errorf("source/rows/columns = %v %v %v", args[1], args[2], args[3])
	}
	if args[5] != "18446744073709551615" {
		t.Errorf("seed arg = %v, want the full uint64 as text", args[5])
	}
	if args[7] != int64(1500) {
		t.Errorf("duration_ms arg = %v", args[7])
	}
	if ip := args[8].(pgtype.Text); !ip.Valid || ip.String != "192.0.2.1" {
		t.Errorf("ip arg = %+v", ip)
	}
	if ua := args[9].(pgtype.Text); ua.Valid {
		t.Errorf("empty user agent should be NULL, got %+v", ua)
	}
	if ts := args[10].(pgtype.Timestamptz); !ts.Valid || ts.Time.IsZero() {
		t.Errorf("created_at arg = %+v", ts)
	}
}

func TestPostgresAudit_RecordGenerationErrors(t *testing.T) {
	db := &fakeDB{err: errors.New("connection refused")}
	err := NewPostgresAudit(db).RecordGeneration(context.Background(), sampleEvent())
	if err == nil || !strings.Contains(err.Error(), "connection refused") {
		t.Errorf("RecordGeneration() error = %v", err)
	}

	db = &fakeDB{tag: "INSERT 0 0"}
	if err := NewPostgresAudit(db).RecordGeneration(context.Background(), sampleEvent()); err == nil {
		t.Error("RecordGeneration() should fail when no row is inserted")
	}
}

func TestLogAudit(t *testing.T) {
	var buf bytes.Buffer
	audit := NewLogAudit(slog.New(slog.NewTextHandler(&buf, nil)))

	if err := audit.RecordGeneration(context.Background(), sampleEvent()); err != nil {
		t.Fatalf("RecordGeneration() error = %v", err)
	}
	out := buf.String()
	for _, want := range []string{"generation audit", "rows=100", "source=form", "0b7c6a9e-"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q: %s", want, out)
		}
	}
}
