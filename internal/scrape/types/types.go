package types

import (
	"context"

	"impactjobs-engine/internal/domain"
)

// Source is what every job board adapter implements. FetchPage never fails
// past its own boundary: problems are logged and come back as (nil, false).
type Source interface {
	Name() string
	Countries() []domain.Country
	FirstPage() int
	FetchPage(ctx context.Context, in domain.ScraperInput, page int) ([]domain.JobPost, bool)
}

// QueryRewriter is implemented by sources that can't take boolean OR queries.
type QueryRewriter interface {
	RewriteQuery(term string) string
}

// BlockReporter is implemented by sources that can tell a challenge page
// apart from an empty result. It describes the most recent FetchPage call.
type BlockReporter interface {
	LastPageBlocked() bool
}

type RunStats struct {
	Source   string
	Location string
	Term     string
	Pages    int
	Fetched  int
	Kept     int
	Blocked  bool
	Panicked bool
}
