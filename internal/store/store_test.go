package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"impactjobs-engine/internal/domain"
)

var testNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func openTest(t *testing.T) *DB {
	t.Helper()
	db, err := Open(context.Background(), filepath.Join(t.TempDir(), "nested", "jobs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func post(id, title, company string, posted *time.Time) domain.JobPost {
	return domain.JobPost{
		ID:          id,
		Site:        "jobstreet",
		Title:       title,
		CompanyName: company,
		Location:    domain.Location{City: "Singapore", Country: domain.Singapore},
		DatePosted:  posted,
		JobURL:      "https://example.com/job/" + id,
		Description: "ESG reporting",
		Emails:      []string{"hr@example.com"},
	}
}

func day(d int) *time.Time {
	t := time.Date(2025, 6, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func TestOpen_MigratesOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jobs.db")
	db, err := Open(context.Background(), path)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	db, err = Open(context.Background(), path)
	require.NoError(t, err)
	defer db.Close()

	var v int
	require.NoError(t, db.Pool.QueryRow(`PRAGMA user_version;`).Scan(&v))
	assert.Equal(t, 1, v)
}

func TestInsertJobIgnore(t *testing.T) {
	ctx := context.Background()
	db := openTest(t)
	p := post("1", "ESG Analyst", "Acme", day(10))
	p.Compensation = &domain.Compensation{Interval: domain.Monthly, Min: 6000, Max: 9000, Currency: "SGD"}

	added, err := InsertJobIgnore(ctx, db.Pool, p, "run-1", testNow)
	require.NoError(t, err)
	assert.True(t, added)

	added, err = InsertJobIgnore(ctx, db.Pool, p, "run-2", testNow)
	require.NoError(t, err)
	assert.False(t, added, "same url is ignored")

	_, err = InsertJobIgnore(ctx, db.Pool, domain.JobPost{Title: "no url"}, "run-1", testNow)
	assert.Error(t, err)

	jobs, err := ListJobs(ctx, db.Pool, ListJobsOpts{Window: "all", Now: testNow})
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	got := jobs[0]
	assert.Equal(t, "1", got.JobID)
	assert.Equal(t, "Singapore, Singapore", got.Location)
	assert.Equal(t, "2025-06-10", got.DatePosted)
	assert.Equal(t, []string{"hr@example.com"}, got.Emails)
	assert.True(t, got.FirstSeen.Equal(testNow))
}

func TestListJobs(t *testing.T) {
	ctx := context.Background()
	db := openTest(t)

	seed := []struct {
		p    domain.JobPost
		seen time.Time
	}{
		{post("a", "Climate Analyst", "Zeta", day(5)), testNow.Add(-2 * time.Hour)},
		{post("b", "ESG Manager", "alpha", nil), testNow.Add(-3 * 24 * time.Hour)},
		{post("c", "Sustainability Lead", "Beta", day(12)), testNow.Add(-30 * 24 * time.Hour)},
	}
	for _, s := range seed {
		_, err := InsertJobIgnore(ctx, db.Pool, s.p, "run", s.seen)
		require.NoError(t, err)
	}

	ids := func(jobs []Job) []string {
		out := make([]string, 0, len(jobs))
		for _, j := range jobs {
			out = append(out, j.JobID)
		}
		return out
	}

	tests := []struct {
		name string
		opts ListJobsOpts
		want []string
	}{
		{"default window is a week", ListJobsOpts{}, []string{"a", "b"}},
		{"last day", ListJobsOpts{Window: "24h"}, []string{"a"}},
		{"all by date", ListJobsOpts{Window: "all", Sort: "date"}, []string{"c", "a", "b"}},
		{"all by company", ListJobsOpts{Window: "all", Sort: "company"}, []string{"b", "c", "a"}},
		{"all by title", ListJobsOpts{Window: "all", Sort: "title"}, []string{"a", "b", "c"}},
		{"limit", ListJobsOpts{Window: "all", Limit: 1}, []string{"c"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.opts.Now = testNow
			jobs, err := ListJobs(ctx, db.Pool, tt.opts)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids(jobs))
		})
	}

	_, err := ListJobs(ctx, db.Pool, ListJobsOpts{Window: "fortnight", Now: testNow})
	assert.Error(t, err)
}

func TestCleanupOldJobs(t *testing.T) {
	ctx := context.Background()
	db := openTest(t)
	_, err := InsertJobIgnore(ctx, db.Pool, post("old", "ESG Analyst", "Acme", nil), "run", testNow.AddDate(0, -4, 0))
	require.NoError(t, err)
	_, err = InsertJobIgnore(ctx, db.Pool, post("new", "ESG Analyst", "Acme", nil), "run", testNow)
	require.NoError(t, err)

	n, err := CleanupOldJobs(ctx, db.Pool, testNow.AddDate(0, -3, 0))
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	jobs, err := ListJobs(ctx, db.Pool, ListJobsOpts{Window: "all", Now: testNow})
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, "new", jobs[0].JobID)
}

func TestRuns(t *testing.T) {
	ctx := context.Background()
	db := openTest(t)
	r := Run{
		ID:         "run-1",
		StartedAt:  testNow.Add(-time.Minute),
		FinishedAt: testNow,
		Found:      40,
		Kept:       6,
		Added:      4,
		Blocked:    []string{"jobsdb", "ctgoodjobs"},
	}
	require.NoError(t, SaveRun(ctx, db.Pool, r))

	got, err := GetRun(ctx, db.Pool, "run-1")
	require.NoError(t, err)
	assert.Equal(t, r.Found, got.Found)
	assert.Equal(t, r.Blocked, got.Blocked)
	assert.True(t, got.StartedAt.Equal(r.StartedAt))

	r.Added = 5
	r.Blocked = nil
	require.NoError(t, SaveRun(ctx, db.Pool, r))
	got, err = GetRun(ctx, db.Pool, "run-1")
	require.NoError(t, err)
	assert.Equal(t, 5, got.Added)
	assert.Nil(t, got.Blocked)

	_, err = GetRun(ctx, db.Pool, "missing")
	assert.Error(t, err)
}
