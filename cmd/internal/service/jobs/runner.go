package jobs

import (
	"context"
	"time"

	"github.com/labstack/gommon/log"

	"qualiobra/cmd/internal/metrics"
)

// runEvery calls fn on every tick until ctx is done. A run that panics is
// logged and the loop keeps going.
func runEvery(ctx context.Context, name string, interval time.Duration, fn func(context.Context)) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	log.Infof("%s cron started, interval %s", name, interval)

	for {
		select {
		case <-ctx.Done():
			log.Infof("Stopping %s...", name)
			return
		case <-ticker.C:
			runOnce(ctx, name, fn)
		}
	}
}

func runOnce(ctx context.Context, name string, fn func(context.Context)) {
	defer func() {
		if r := recover(); r != nil {
			log.Errorf("%s: run panicked: %v", name, r)
			metrics.JobRuns.WithLabelValues(name, metrics.OutcomeFailed).Inc()
		}
	}()

	fn(ctx)
	metrics.JobRuns.WithLabelValues(name, metrics.OutcomeOK).Inc()
}
