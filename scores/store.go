// Package scores keeps a local history of finished runs in SQLite, using the
// pure-Go modernc.org/sqlite driver.
package scores

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// DefaultPath is where the CLI keeps the database unless told otherwise.
const DefaultPath = "~/.platformer/scores.db"

type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Run is one completed playthrough of a level.
type Run struct {
	ID        string
	Level     string
	Gems      int
	Duration  time.Duration
	CreatedAt time.Time
}

// Open creates or opens the database at dbPath, creating parent directories
// and running migrations.
func Open(dbPath string) (*Store, error) {
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("scores: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("scores: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("scores: cannot open database: %w", err)
	}
	// SQLite allows a single writer
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("scores: cannot connect to database: %w", err)
	}

	store := &Store{db: db, now: time.Now}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("scores: migration failed: %w", err)
	}
	return store, nil
}

func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			level TEXT NOT NULL,
			gems INTEGER NOT NULL,
			duration_ms INTEGER NOT NULL DEFAULT 0,
			created_at INTEGER NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_runs_top ON runs(level, gems DESC, duration_ms ASC);
	`
	_, err := s.db.Exec(schema)
	return err
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveRun records r, assigning an id and timestamp when they are unset.
func (s *Store) SaveRun(ctx context.Context, r Run) (Run, error) {
	if r.Level == "" {
		return Run{}, errors.New("scores: run has no level")
	}
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = s.now()
	}
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO runs (id, level, gems, duration_ms, created_at) VALUES (?, ?, ?, ?, ?)",
		r.ID, r.Level, r.Gems, r.Duration.Milliseconds(), r.CreatedAt.UnixMilli(),
	)
	if err != nil {
		return Run{}, fmt.Errorf("scores: cannot save run: %w", err)
	}
	return r, nil
}

// Best returns the highest gem count recorded for level. ok is false when
// the level has never been finished.
func (s *Store) Best(ctx context.Context, level string) (best int, ok bool, err error) {
	var gems sql.NullInt64
	err = s.db.QueryRowContext(ctx, "SELECT MAX(gems) FROM runs WHERE level = ?", level).Scan(&gems)
	if err != nil {
		return 0, false, fmt.Errorf("scores: cannot query best: %w", err)
	}
	if !gems.Valid {
		return 0, false, nil
	}
	return int(gems.Int64), true, nil
}

// TopRuns returns up to limit runs for level, most gems first and faster
// runs breaking ties. An empty level lists every level.
func (s *Store) TopRuns(ctx context.Context, level string, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, level, gems, duration_ms, created_at
		 FROM runs
		 WHERE ? = '' OR level = ?
		 ORDER BY gems DESC, duration_ms ASC, created_at ASC
		 LIMIT ?`,
		level, level, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("scores: cannot query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			r          Run
			durationMS int64
			createdMS  int64
		)
		if err := rows.Scan(&r.ID, &r.Level, &r.Gems, &durationMS, &createdMS); err != nil {
			return nil, fmt.Errorf("scores: cannot scan row: %w", err)
		}
		r.Duration = time.Duration(durationMS) * time.Millisecond
		r.CreatedAt = time.UnixMilli(createdMS)
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("scores: row iteration error: %w", err)
	}
	return runs, nil
}
