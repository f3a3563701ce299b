// Package audit implements the audit sink consumed via
// storage.AuditEmitter: an append-only log of every state-changing store
// operation (§4.3, §7 StorageError). MemorySink is the default, in-process
// sink; SQLiteSink additionally persists events to a durable table,
// mirroring the teacher's write-through-cache-over-a-durable-backend split
// (internal/storage/sqlite.go's SQLiteConceptStore over ConceptStore).
package audit

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// Event is one audit record: a named operation plus the structured
// key-value detail the emitting call site attached to it.
type Event struct {
	Seq       int64          `json:"seq"`
	Timestamp time.Time      `json:"timestamp"`
	Kind      string         `json:"kind"`
	Detail    map[string]any `json:"detail"`
}

// MemorySink is an in-process, append-only event log. It implements
// storage.AuditEmitter without importing the storage package (Emit's
// signature matches structurally; Go interfaces are satisfied implicitly,
// avoiding an import cycle between storage and audit).
type MemorySink struct {
	mu     sync.RWMutex
	events []Event
	nextSeq int64
}

// NewMemorySink returns an empty in-memory audit sink.
func NewMemorySink() *MemorySink {
	return &MemorySink{}
}

// Emit appends one event. Never returns an error or panics: a full audit
// log is a memory-bound concern for the caller to manage via Events()/
// Truncate(), not a per-call failure.
func (s *MemorySink) Emit(kind string, detail map[string]any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextSeq++
	s.events = append(s.events, Event{Seq: s.nextSeq, Timestamp: time.Now(), Kind: kind, Detail: detail})
}

// Events returns a copy of every recorded event, oldest first.
func (s *MemorySink) Events() []Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Event, len(s.events))
	copy(out, s.events)
	return out
}

// EventsByKind filters Events() to one kind.
func (s *MemorySink) EventsByKind(kind string) []Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Event
	for _, e := range s.events {
		if e.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}

// Truncate discards every recorded event, keeping the sequence counter
// monotone (the next Emit continues numbering rather than restarting).
func (s *MemorySink) Truncate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = nil
}

// Count reports how many events are currently retained.
func (s *MemorySink) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.events)
}

// SQLiteSink persists every event to an append-only SQLite table on top of
// a MemorySink (so recent events remain readable without a query).
type SQLiteSink struct {
	mem *MemorySink
	db  *sql.DB
}

// NewSQLiteSink opens (creating if necessary) a SQLite database at dbPath
// and prepares its append-only audit_events table.
func NewSQLiteSink(dbPath string) (*SQLiteSink, error) {
	if dbPath == "" {
		return nil, fmt.Errorf("audit: database path cannot be empty")
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("audit: failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("audit: failed to ping database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("audit: failed to create schema: %w", err)
	}
	return &SQLiteSink{mem: NewMemorySink(), db: db}, nil
}

const schema = `
CREATE TABLE IF NOT EXISTS audit_events (
    seq INTEGER PRIMARY KEY AUTOINCREMENT,
    ts INTEGER NOT NULL,
    kind TEXT NOT NULL,
    detail TEXT
);
`

// Emit records the event in both the in-memory tail and the durable
// table. A durable-write failure is logged to the in-memory sink under a
// synthetic "audit_write_failed" event rather than propagated, since
// AuditEmitter.Emit has no error return (§7's StorageError covers
// ConceptStore operations, not best-effort audit persistence).
func (s *SQLiteSink) Emit(kind string, detail map[string]any) {
	s.mem.Emit(kind, detail)
	detailJSON := detailToJSON(detail)
	if _, err := s.db.Exec(
		`INSERT INTO audit_events (ts, kind, detail) VALUES (?, ?, ?)`,
		time.Now().Unix(), kind, detailJSON,
	); err != nil {
		s.mem.Emit("audit_write_failed", map[string]any{"original_kind": kind, "error": err.Error()})
	}
}

// Events returns the in-memory tail (see MemorySink.Events).
func (s *SQLiteSink) Events() []Event { return s.mem.Events() }

// Close closes the underlying database handle.
func (s *SQLiteSink) Close() error { return s.db.Close() }

func detailToJSON(detail map[string]any) string {
	if len(detail) == 0 {
		return "{}"
	}
	b, err := json.Marshal(detail)
	if err != nil {
		return "{}"
	}
	return string(b)
}
