package store

import (
	"database/sql"
)

const sqliteTime = "2006-01-02 15:04:05"

func Migrate(db *sql.DB) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var v int
	if err := tx.QueryRow(`PRAGMA user_version;`).Scan(&v); err != nil {
		return err
	}
	if v >= 1 {
		return tx.Commit()
	}

	stmts := []string{`
CREATE TABLE IF NOT EXISTS jobs (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  job_id TEXT NOT NULL,
  site TEXT NOT NULL,
  title TEXT NOT NULL,
  company TEXT NOT NULL,
  city TEXT NOT NULL DEFAULT '',
  country TEXT NOT NULL DEFAULT '',
  date_posted TEXT NOT NULL DEFAULT '',
  job_url TEXT NOT NULL,
  description TEXT NOT NULL DEFAULT '',
  is_remote INTEGER NOT NULL DEFAULT 0,
  emails TEXT NOT NULL DEFAULT '',
  comp_interval TEXT NOT NULL DEFAULT '',
  comp_min REAL,
  comp_max REAL,
  comp_currency TEXT NOT NULL DEFAULT '',
  first_seen TEXT NOT NULL,
  run_id TEXT NOT NULL DEFAULT ''
);`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_jobs_url ON jobs(job_url);`,
		`CREATE INDEX IF NOT EXISTS idx_jobs_first_seen ON jobs(first_seen);`,
		`CREATE INDEX IF NOT EXISTS idx_jobs_date_posted ON jobs(date_posted);`,
		`
CREATE TABLE IF NOT EXISTS runs (
  id TEXT PRIMARY KEY,
  started_at TEXT NOT NULL,
  finished_at TEXT NOT NULL,
  found INTEGER NOT NULL DEFAULT 0,
  kept INTEGER NOT NULL DEFAULT 0,
  added INTEGER NOT NULL DEFAULT 0,
  blocked TEXT NOT NULL DEFAULT ''
);`,
		`PRAGMA user_version = 1;`,
	}
	for _, s := range stmts {
		if _, err := tx.Exec(s); err != nil {
			return err
		}
	}
	return tx.Commit()
}
