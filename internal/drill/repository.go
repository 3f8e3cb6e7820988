package drill

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"fieldtimer/internal/runlog"

	_ "modernc.org/sqlite"
)

type Repository struct {
	db *sql.DB
}

// NewRepository opens the sqlite database at path. ":memory:" gives a private in-memory store.
func NewRepository(path string) (*Repository, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// every pooled connection would get its own :memory: database
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}

	repo := &Repository{db: db}
	if err := repo.init(); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return repo, nil
}

func (r *Repository) init() error {
	setupQuery := `
	CREATE TABLE IF NOT EXISTS setup (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		fire_duration INTEGER NOT NULL,
		badges_visible INTEGER NOT NULL DEFAULT 1
	)
	`
	if _, err := r.db.Exec(setupQuery); err != nil {
		return err
	}

	ticksQuery := `
	CREATE TABLE IF NOT EXISTS ticks (
		position INTEGER PRIMARY KEY,
		value REAL NOT NULL
	)
	`
	if _, err := r.db.Exec(ticksQuery); err != nil {
		return err
	}

	runsQuery := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		started_at TEXT NOT NULL,
		stopped_at TEXT NOT NULL,
		fire_duration INTEGER NOT NULL,
		elapsed INTEGER NOT NULL,
		total INTEGER NOT NULL,
		final_state TEXT NOT NULL,
		cues_fired INTEGER NOT NULL DEFAULT 0,
		ticks_passed INTEGER NOT NULL DEFAULT 0
	)
	`
	_, err := r.db.Exec(runsQuery)
	return err
}

// LoadSetup returns the saved setup. The bool is false when nothing has been saved yet.
func (r *Repository) LoadSetup() (*Setup, bool, error) {
	var s Setup
	var badges int
	err := r.db.QueryRow("SELECT fire_duration, badges_visible FROM setup WHERE id = 1").
		Scan(&s.FireDuration, &badges)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	s.BadgesVisible = badges == 1

	rows, err := r.db.Query("SELECT value FROM ticks ORDER BY position")
	if err != nil {
		return nil, false, err
	}
	defer rows.Close()

	for rows.Next() {
		var v float64
		if err := rows.Scan(&v); err != nil {
			return nil, false, err
		}
		s.Ticks = append(s.Ticks, v)
	}
	if err := rows.Err(); err != nil {
		return nil, false, err
	}
	return &s, true, nil
}

// SaveSetup replaces the saved setup.
func (r *Repository) SaveSetup(s *Setup) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	badges := 0
	if s.BadgesVisible {
		badges = 1
	}
	if _, err := tx.Exec(
		`INSERT INTO setup (id, fire_duration, badges_visible) VALUES (1, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET fire_duration = excluded.fire_duration, badges_visible = excluded.badges_visible`,
		s.FireDuration, badges,
	); err != nil {
		return err
	}

	if _, err := tx.Exec("DELETE FROM ticks"); err != nil {
		return err
	}
	for i, v := range s.Ticks {
		if _, err := tx.Exec("INSERT INTO ticks (position, value) VALUES (?, ?)", i, v); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (r *Repository) CreateRun(run *runlog.Run) error {
	_, err := r.db.Exec(
		`INSERT INTO runs (id, started_at, stopped_at, fire_duration, elapsed, total, final_state, cues_fired, ticks_passed)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID,
		run.StartedAt.Format(time.RFC3339Nano),
		run.StoppedAt.Format(time.RFC3339Nano),
		run.FireDuration,
		int64(run.Elapsed),
		int64(run.Total),
		run.FinalState,
		run.CuesFired,
		run.TicksPassed,
	)
	return err
}

// GetRuns returns up to limit runs, most recently stopped first.
func (r *Repository) GetRuns(limit int) ([]runlog.Run, error) {
	rows, err := r.db.Query(
		`SELECT id, started_at, stopped_at, fire_duration, elapsed, total, final_state, cues_fired, ticks_passed
		 FROM runs ORDER BY stopped_at DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []runlog.Run
	for rows.Next() {
		var run runlog.Run
		var startedAt, stoppedAt string
		var elapsed, total int64
		if err := rows.Scan(
			&run.ID, &startedAt, &stoppedAt, &run.FireDuration,
			&elapsed, &total, &run.FinalState, &run.CuesFired, &run.TicksPassed,
		); err != nil {
			return nil, err
		}
		run.StartedAt, _ = time.Parse(time.RFC3339Nano, startedAt)
		run.StoppedAt, _ = time.Parse(time.RFC3339Nano, stoppedAt)
		run.Elapsed = time.Duration(elapsed)
		run.Total = time.Duration(total)
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

func (r *Repository) Close() error {
	return r.db.Close()
}
