package scrape

import (
	"context"

	"github.com/google/uuid"

	"impactjobs-engine/internal/logger"
)

// RunOnce aggregates plan and processes the result under a fresh run id.
func RunOnce(ctx context.Context, agg *Aggregator, proc *Processor, plan Plan) (Summary, error) {
	runID := uuid.NewString()
	started := proc.now()
	proc.Log.Info("run started", logger.String("run_id", runID),
		logger.Int("terms", len(plan.Terms)),
		logger.Int("locations", len(plan.Locations)),
	)
	return proc.Process(ctx, runID, started, agg.Run(ctx, plan))
}
