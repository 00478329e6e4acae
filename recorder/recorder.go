// Package recorder persists simulation events to a local SQLite database
// for post-run analysis.
package recorder

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/pthm-cable/horde/telemetry"
)

// Recorder writes simulation events to SQLite. It implements
// telemetry.Sink.
type Recorder struct {
	db    *sql.DB
	runID string
}

// Open initializes the database at the given path, creates the schema,
// and registers a new run.
func Open(dbPath string) (*Recorder, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging sqlite database: %w", err)
	}

	if err := createSchemas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schemas: %w", err)
	}

	r := &Recorder{
		db:    db,
		runID: uuid.NewString(),
	}

	if _, err := db.Exec(
		`INSERT INTO runs (run_id, started_at) VALUES (?, ?)`,
		r.runID, time.Now().UTC(),
	); err != nil {
		db.Close()
		return nil, fmt.Errorf("registering run: %w", err)
	}

	return r, nil
}

func createSchemas(db *sql.DB) error {
	schemas := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			run_id TEXT PRIMARY KEY,
			started_at DATETIME NOT NULL,
			finished_at DATETIME
		);`,
		`CREATE TABLE IF NOT EXISTS events (
			id TEXT PRIMARY KEY,
			run_id TEXT NOT NULL,
			tick INTEGER NOT NULL,
			event_type TEXT NOT NULL,
			entity_id INTEGER NOT NULL,
			from_state TEXT,
			to_state TEXT,
			noise_kind TEXT,
			x REAL, y REAL, z REAL,
			radius REAL,
			FOREIGN KEY (run_id) REFERENCES runs(run_id)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_events_run_id ON events(run_id);`,
		`CREATE INDEX IF NOT EXISTS idx_events_tick ON events(tick);`,
		`CREATE INDEX IF NOT EXISTS idx_events_type ON events(event_type);`,
	}

	for _, query := range schemas {
		if _, err := db.Exec(query); err != nil {
			return err
		}
	}

	return nil
}

// RunID returns the identifier assigned to this run.
func (r *Recorder) RunID() string { return r.runID }

// Record persists a single simulation event. Errors are swallowed so a
// failing disk never stalls the simulation loop; the final Close
// reports whether the database is still healthy.
func (r *Recorder) Record(ev telemetry.Event) {
	_, _ = r.db.Exec(
		`INSERT INTO events (id, run_id, tick, event_type, entity_id, from_state, to_state, noise_kind, x, y, z, radius)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		uuid.NewString(), r.runID, ev.Tick, ev.Type.String(), ev.EntityID,
		ev.From, ev.To, ev.Kind,
		ev.Position.X, ev.Position.Y, ev.Position.Z, ev.Radius,
	)
}

// RecordedEvent is an event row read back from the database.
type RecordedEvent struct {
	Tick      int64
	EventType string
	EntityID  uint32
	From      string
	To        string
	NoiseKind string
	X, Y, Z   float32
	Radius    float32
}

// Events returns all events for this run ordered by tick.
func (r *Recorder) Events() ([]RecordedEvent, error) {
	rows, err := r.db.Query(
		`SELECT tick, event_type, entity_id, from_state, to_state, noise_kind, x, y, z, radius
		 FROM events WHERE run_id = ? ORDER BY tick, id`,
		r.runID,
	)
	if err != nil {
		return nil, fmt.Errorf("querying events: %w", err)
	}
	defer rows.Close()

	var events []RecordedEvent
	for rows.Next() {
		var e RecordedEvent
		if err := rows.Scan(
			&e.Tick, &e.EventType, &e.EntityID,
			&e.From, &e.To, &e.NoiseKind,
			&e.X, &e.Y, &e.Z, &e.Radius,
		); err != nil {
			return nil, fmt.Errorf("scanning event: %w", err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// Close marks the run finished and closes the database.
func (r *Recorder) Close() error {
	if _, err := r.db.Exec(
		`UPDATE runs SET finished_at = ? WHERE run_id = ?`,
		time.Now().UTC(), r.runID,
	); err != nil {
		r.db.Close()
		return fmt.Errorf("finishing run: %w", err)
	}
	return r.db.Close()
}
