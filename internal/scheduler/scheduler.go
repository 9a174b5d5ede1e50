package scheduler

import (
	"context"
	"time"

	"impactjobs-engine/internal/logger"
)

type Task func(ctx context.Context) error

// Every runs task now and then once per interval until ctx is done. Runs
// never overlap. A zero interval runs task once.
func Every(ctx context.Context, interval time.Duration, name string, log logger.Logger, task Task) {
	run := func() {
		if err := task(ctx); err != nil {
			log.Error("scheduled task failed", logger.String("task", name), logger.Error(err))
		}
	}

	run()
	if interval <= 0 {
		return
	}

	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			run()
		}
	}
}
