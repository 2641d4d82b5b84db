/*
challenge.go - Time-boxed challenge progress

PURPOSE:
  A Challenge is a static definition: a daily, weekly, or monthly target
  tied to one activity type. ChallengeProgress pairs a definition with a
  mutable counter. Every admitted event increments each matching
  incomplete instance; reaching the target completes it with a timestamp
  and further matching events are no-ops until the period boundary reset.

  Resets are driven by the rollover: daily instances reset when local
  midnight is crossed, weekly instances when a new ISO week begins,
  monthly instances on the first of the month.

SEE ALSO:
  - catalog/: JSON seed definitions (daily_meal, weekly_calorie, ...)
  - engine.go: Rollover entry point holding the lock
*/
package engine

import (
	"sort"
	"time"
)

// =============================================================================
// CHALLENGE - Static definition plus mutable progress
// =============================================================================

type ChallengePeriod string

const (
	PeriodDaily   ChallengePeriod = "daily"
	PeriodWeekly  ChallengePeriod = "weekly"
	PeriodMonthly ChallengePeriod = "monthly"
)

func (p ChallengePeriod) Valid() bool {
	return p == PeriodDaily || p == PeriodWeekly || p == PeriodMonthly
}

// Challenge is one immutable catalog definition.
type Challenge struct {
	ID               string
	Title            string
	Period           ChallengePeriod
	RequiredActivity ActivityType
	TargetValue      int
	XPReward         int
}

// ChallengeProgress is the live state of one challenge instance.
type ChallengeProgress struct {
	Challenge       Challenge
	CurrentProgress int
	IsCompleted     bool
	CompletedAt     *time.Time
}

// =============================================================================
// TRACKER
// =============================================================================

// ChallengeTracker owns all challenge instances.
type ChallengeTracker struct {
	instances []*ChallengeProgress
}

func NewChallengeTracker(challenges []Challenge) *ChallengeTracker {
	tracker := &ChallengeTracker{}
	for _, c := range challenges {
		tracker.instances = append(tracker.instances, &ChallengeProgress{Challenge: c})
	}
	return tracker
}

// Advance increments every matching incomplete instance and returns the
// instances completed by this event. Completed instances ignore further
// events until their period resets.
func (t *ChallengeTracker) Advance(at ActivityType, now time.Time) []ChallengeProgress {
	var completed []ChallengeProgress
	for _, inst := range t.instances {
		if inst.IsCompleted || inst.Challenge.RequiredActivity != at {
			continue
		}
		inst.CurrentProgress++
		if inst.CurrentProgress >= inst.Challenge.TargetValue {
			inst.IsCompleted = true
			ts := now
			inst.CompletedAt = &ts
			completed = append(completed, *inst)
		}
	}
	return completed
}

// ResetPeriod clears progress and completion for every instance of the
// given period. Called by the rollover at the matching boundary.
func (t *ChallengeTracker) ResetPeriod(period ChallengePeriod) int {
	reset := 0
	for _, inst := range t.instances {
		if inst.Challenge.Period != period {
			continue
		}
		inst.CurrentProgress = 0
		inst.IsCompleted = false
		inst.CompletedAt = nil
		reset++
	}
	return reset
}

// All returns a copy of every instance, ordered by id.
func (t *ChallengeTracker) All() []ChallengeProgress {
	out := make([]ChallengeProgress, 0, len(t.instances))
	for _, inst := range t.instances {
		out = append(out, *inst)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Challenge.ID < out[j].Challenge.ID })
	return out
}

// Definitions returns the static definitions, for the API listing.
func (t *ChallengeTracker) Definitions() []Challenge {
	out := make([]Challenge, 0, len(t.instances))
	for _, inst := range t.instances {
		out = append(out, inst.Challenge)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Restore seeds instance state from a persisted snapshot, matching by id.
// Unknown ids in the snapshot are dropped; new catalog entries start fresh.
func (t *ChallengeTracker) Restore(saved []ChallengeProgress) {
	byID := make(map[string]ChallengeProgress, len(saved))
	for _, cp := range saved {
		byID[cp.Challenge.ID] = cp
	}
	for _, inst := range t.instances {
		if cp, ok := byID[inst.Challenge.ID]; ok {
			inst.CurrentProgress = cp.CurrentProgress
			inst.IsCompleted = cp.IsCompleted
			inst.CompletedAt = cp.CompletedAt
		}
	}
}
