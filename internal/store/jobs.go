package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"impactjobs-engine/internal/domain"
)

// Job is a stored posting as listed back out of the database.
type Job struct {
	ID          int64
	JobID       string
	Site        string
	Title       string
	Company     string
	Location    string
	DatePosted  string
	URL         string
	IsRemote    bool
	Emails      []string
	FirstSeen   time.Time
	Description string
}

type ListJobsOpts struct {
	Sort   string // date | company | title
	Window string // 24h | 7d | all
	Limit  int
	Now    time.Time
}

// InsertJobIgnore stores post unless its URL is already known.
func InsertJobIgnore(ctx context.Context, db *sql.DB, post domain.JobPost, runID string, seen time.Time) (added bool, err error) {
	if post.JobURL == "" {
		return false, fmt.Errorf("insert job: missing url")
	}
	var (
		datePosted string
		interval   string
		currency   string
		minAmt     sql.NullFloat64
		maxAmt     sql.NullFloat64
	)
	if post.DatePosted != nil {
		datePosted = post.DatePosted.Format("2006-01-02")
	}
	if c := post.Compensation; c != nil {
		interval, currency = string(c.Interval), c.Currency
		minAmt = sql.NullFloat64{Float64: c.Min, Valid: true}
		maxAmt = sql.NullFloat64{Float64: c.Max, Valid: true}
	}

	// Exec and changes() must run on the same connection.
	conn, err := db.Conn(ctx)
	if err != nil {
		return false, fmt.Errorf("insert job: %w", err)
	}
	defer conn.Close()

	_, err = conn.ExecContext(ctx, `
INSERT OR IGNORE INTO jobs (job_id, site, title, company, city, country, date_posted, job_url,
  description, is_remote, emails, comp_interval, comp_min, comp_max, comp_currency, first_seen, run_id)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);`,
		post.ID, post.Site, post.Title, post.CompanyName,
		post.Location.City, string(post.Location.Country), datePosted, post.JobURL,
		post.Description, post.IsRemote, strings.Join(post.Emails, ","),
		interval, minAmt, maxAmt, currency,
		seen.UTC().Format(sqliteTime), runID,
	)
	if err != nil {
		return false, fmt.Errorf("insert job: %w", err)
	}

	var changes int
	if err := conn.QueryRowContext(ctx, `SELECT changes();`).Scan(&changes); err != nil {
		return false, fmt.Errorf("insert job changes: %w", err)
	}
	return changes > 0, nil
}

func ListJobs(ctx context.Context, db *sql.DB, opts ListJobsOpts) ([]Job, error) {
	if opts.Now.IsZero() {
		opts.Now = time.Now()
	}
	if opts.Limit <= 0 {
		opts.Limit = 500
	}

	// whitelist sort columns (prevents SQL injection)
	order := map[string]string{
		"date":    "date_posted = '' ASC, date_posted DESC, id ASC",
		"company": "company COLLATE NOCASE ASC, id ASC",
		"title":   "title COLLATE NOCASE ASC, id ASC",
	}[opts.Sort]
	if order == "" {
		order = "date_posted = '' ASC, date_posted DESC, id ASC"
	}

	where := ""
	var args []any
	switch opts.Window {
	case "24h":
		where = "WHERE first_seen >= ?"
		args = append(args, opts.Now.Add(-24*time.Hour).UTC().Format(sqliteTime))
	case "7d", "":
		where = "WHERE first_seen >= ?"
		args = append(args, opts.Now.AddDate(0, 0, -7).UTC().Format(sqliteTime))
	case "all":
	default:
		return nil, fmt.Errorf("list jobs: unknown window %q", opts.Window)
	}
	args = append(args, opts.Limit)

	query := fmt.Sprintf(`
SELECT id, job_id, site, title, company, city, country, date_posted, job_url, is_remote, emails, first_seen, description
FROM jobs
%s
ORDER BY %s
LIMIT ?;`, where, order)

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	defer rows.Close()

	var out []Job
	for rows.Next() {
		var (
			j             Job
			city, country string
			emails        string
			firstSeen     string
		)
		if err := rows.Scan(&j.ID, &j.JobID, &j.Site, &j.Title, &j.Company, &city, &country,
			&j.DatePosted, &j.URL, &j.IsRemote, &emails, &firstSeen, &j.Description); err != nil {
			return nil, fmt.Errorf("list jobs scan: %w", err)
		}
		j.Location = domain.Location{City: city, Country: domain.Country(country)}.String()
		if emails != "" {
			j.Emails = strings.Split(emails, ",")
		}
		j.FirstSeen, _ = time.Parse(sqliteTime, firstSeen)
		out = append(out, j)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// CleanupOldJobs deletes jobs first seen before cutoff.
func CleanupOldJobs(ctx context.Context, db *sql.DB, cutoff time.Time) (deleted int64, err error) {
	res, err := db.ExecContext(ctx, `DELETE FROM jobs WHERE first_seen < ?;`, cutoff.UTC().Format(sqliteTime))
	if err != nil {
		return 0, fmt.Errorf("cleanup old jobs: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}
