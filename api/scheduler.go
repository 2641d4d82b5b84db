/*
scheduler.go - Recurring rollover scheduler

PURPOSE:
  Periodically invokes the engine's rollover check. The engine itself
  decides whether a period boundary was crossed, so the cadence only
  bounds detection latency: hourly is plenty for midnight resolution.

DESIGN:
  - robfig/cron drives an "@every <interval>" job
  - The rollover runs under the engine's own lock, so it can never race
    a foreground submission
  - Each boundary-crossing run is logged with a run id

CONFIGURATION:
  - Interval: How often to check (default: 1 hour)
  - Enabled: Whether the scheduler is active (default: true)

USAGE:
  scheduler := NewRolloverScheduler(eng, logger, time.Hour)
  if err := scheduler.Start(); err != nil { ... }
  // ... later
  scheduler.Stop()

SEE ALSO:
  - handlers.go: TriggerRollover endpoint (manual rollover)
  - engine/engine.go: Rollover semantics
*/
package api

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/warp/rewards-engine/engine"
)

// RolloverScheduler runs the periodic rollover check.
type RolloverScheduler struct {
	Engine   *engine.Engine
	Interval time.Duration
	Enabled  bool

	logger *zap.Logger
	cron   *cron.Cron
}

// NewRolloverScheduler creates a new scheduler.
func NewRolloverScheduler(eng *engine.Engine, logger *zap.Logger, interval time.Duration) *RolloverScheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RolloverScheduler{
		Engine:   eng,
		Interval: interval,
		Enabled:  true,
		logger:   logger,
		cron:     cron.New(),
	}
}

// Start begins the scheduler.
func (rs *RolloverScheduler) Start() error {
	if !rs.Enabled {
		rs.logger.Info("rollover scheduler disabled, not starting")
		return nil
	}

	spec := fmt.Sprintf("@every %s", rs.Interval)
	if _, err := rs.cron.AddFunc(spec, rs.RunNow); err != nil {
		return fmt.Errorf("failed to add cron job: %w", err)
	}

	rs.cron.Start()
	rs.logger.Info("rollover scheduler started", zap.Duration("interval", rs.Interval))
	return nil
}

// Stop stops the scheduler and waits for a running job to finish.
func (rs *RolloverScheduler) Stop() {
	ctx := rs.cron.Stop()
	<-ctx.Done()
	rs.logger.Info("rollover scheduler stopped")
}

// RunNow triggers an immediate check (also used by the cron job).
func (rs *RolloverScheduler) RunNow() {
	stats := rs.Engine.Rollover()
	observeRollover(stats)
	if stats == (engine.RolloverStats{}) {
		return
	}
	rs.logger.Info("scheduled rollover crossed a boundary",
		zap.String("run_id", uuid.NewString()),
		zap.Int("daily_reset", stats.DailyReset),
		zap.Int("weekly_reset", stats.WeeklyReset),
		zap.Int("monthly_reset", stats.MonthlyReset),
		zap.Int("history_pruned", stats.HistoryPruned))
}
