package record

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/ripplekit/ripple"
)

//go:embed schema.sql
var schemaSQL string

// Recorder owns a trace database. Safe for concurrent use; SQLite is
// limited to a single writer connection to avoid SQLITE_BUSY.
type Recorder struct {
	db *sql.DB
}

// Open creates or opens a trace database at path. Applies pragmas and
// schema; idempotent.
//
// The database is configured with:
//   - WAL mode for concurrent reads during writes
//   - NORMAL synchronous mode
//   - 5-second busy timeout for lock contention
//   - Foreign key enforcement
func Open(path string) (*Recorder, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open trace database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to trace database: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply pragmas: %w", err)
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &Recorder{db: db}, nil
}

// Close closes the database connection.
func (r *Recorder) Close() error {
	if r.db == nil {
		return nil
	}
	return r.db.Close()
}

// applyPragmas sets required SQLite configuration.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}
	return nil
}

// Run is an open trace. Record calls append emissions with a
// monotonically increasing per-run sequence number.
type Run struct {
	recorder *Recorder
	id       string

	mu  sync.Mutex
	seq int64
}

// BeginRun registers a new run for the named pipeline and returns its
// handle. Run IDs are random UUIDs.
func (r *Recorder) BeginRun(ctx context.Context, pipeline string) (*Run, error) {
	id := uuid.NewString()
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO runs (id, pipeline, started_at)
		VALUES (?, ?, ?)
	`, id, pipeline, time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return nil, fmt.Errorf("begin run: %w", err)
	}
	return &Run{recorder: r, id: id}, nil
}

// ID returns the run's UUID.
func (run *Run) ID() string {
	return run.id
}

// Record appends one emission to the trace.
func (run *Run) Record(ctx context.Context, stream string, value any) error {
	encoded, err := marshalValue(value)
	if err != nil {
		return fmt.Errorf("record emission: %w", err)
	}

	run.mu.Lock()
	seq := run.seq
	run.seq++
	run.mu.Unlock()

	_, err = run.recorder.db.ExecContext(ctx, `
		INSERT INTO emissions (run_id, seq, stream, value)
		VALUES (?, ?, ?, ?)
	`, run.id, seq, stream, encoded)
	if err != nil {
		return fmt.Errorf("record emission: %w", err)
	}
	return nil
}

// SubscriberFor returns a subscriber that records every received value
// under the given stream label. Attach it to any publisher or topic to
// trace it.
func (run *Run) SubscriberFor(stream string) ripple.Subscriber {
	return ripple.NewSink(func(v any) error {
		return run.Record(context.Background(), stream, v)
	})
}
