package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"
)

// Run is one aggregation pass, keyed by a uuid.
type Run struct {
	ID         string
	StartedAt  time.Time
	FinishedAt time.Time
	Found      int
	Kept       int
	Added      int
	Blocked    []string
}

func SaveRun(ctx context.Context, db *sql.DB, r Run) error {
	_, err := db.ExecContext(ctx, `
INSERT INTO runs (id, started_at, finished_at, found, kept, added, blocked)
VALUES (?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
  finished_at = excluded.finished_at,
  found = excluded.found,
  kept = excluded.kept,
  added = excluded.added,
  blocked = excluded.blocked;`,
		r.ID,
		r.StartedAt.UTC().Format(sqliteTime),
		r.FinishedAt.UTC().Format(sqliteTime),
		r.Found, r.Kept, r.Added,
		strings.Join(r.Blocked, ","),
	)
	if err != nil {
		return fmt.Errorf("save run: %w", err)
	}
	return nil
}

func GetRun(ctx context.Context, db *sql.DB, id string) (Run, error) {
	var (
		r                 Run
		started, finished string
		blocked           string
	)
	err := db.QueryRowContext(ctx, `
SELECT id, started_at, finished_at, found, kept, added, blocked FROM runs WHERE id = ?;`, id).
		Scan(&r.ID, &started, &finished, &r.Found, &r.Kept, &r.Added, &blocked)
	if err != nil {
		return Run{}, fmt.Errorf("get run: %w", err)
	}
	r.StartedAt, _ = time.Parse(sqliteTime, started)
	r.FinishedAt, _ = time.Parse(sqliteTime, finished)
	if blocked != "" {
		r.Blocked = strings.Split(blocked, ",")
	}
	return r, nil
}
