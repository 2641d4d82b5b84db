package api

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/warp/rewards-engine/engine"
)

// =============================================================================
// METRICS - Submission and rollover counters
// =============================================================================

var (
	submissionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "rewards_engine",
		Subsystem: "activities",
		Name:      "submissions_total",
		Help:      "Activity submissions by type and outcome.",
	}, []string{"activity_type", "outcome"})

	xpAwardedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "rewards_engine",
		Subsystem: "activities",
		Name:      "xp_awarded_total",
		Help:      "Total experience points awarded.",
	})

	rewardsUnlockedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "rewards_engine",
		Subsystem: "rewards",
		Name:      "unlocked_total",
		Help:      "Rewards unlocked.",
	})

	levelUpsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "rewards_engine",
		Subsystem: "progress",
		Name:      "level_ups_total",
		Help:      "Level-up events emitted.",
	})

	rolloverRunsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "rewards_engine",
		Subsystem: "scheduler",
		Name:      "rollover_runs_total",
		Help:      "Rollover checks that crossed a period boundary.",
	})
)

func init() {
	prometheus.MustRegister(
		submissionsTotal,
		xpAwardedTotal,
		rewardsUnlockedTotal,
		levelUpsTotal,
		rolloverRunsTotal,
	)
}

func observeSubmission(at engine.ActivityType, result engine.ActivityResult) {
	outcome := "admitted"
	if !result.Success {
		outcome = "rejected"
	}
	submissionsTotal.WithLabelValues(string(at), outcome).Inc()
	if result.Success {
		xpAwardedTotal.Add(float64(result.XPEarned))
		rewardsUnlockedTotal.Add(float64(len(result.NewRewards)))
		if result.LevelUp != nil {
			levelUpsTotal.Inc()
		}
	}
}

func observeRollover(stats engine.RolloverStats) {
	if stats != (engine.RolloverStats{}) {
		rolloverRunsTotal.Inc()
	}
}
