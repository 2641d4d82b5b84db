/*
validator.go - Event admission rules

PURPOSE:
  Decides whether a raw activity submission is admissible before any
  streak/XP/reward state is touched. Three rules run in order; the first
  failing rule rejects the event and nothing downstream mutates:

  1. Plausibility bound  - per-type sanity limits on payload fields
                           (exercise: calories must not exceed 5000)
  2. Burst limit         - at most 10 admissions per type per rolling hour
  3. Retroactive quota   - events dated >24h in the past are rejected once
                           3 prior admissions older than one day exist

  Rate-limit history mutates ONLY on admission, never on rejection, and
  retains the 100 most recent entries per type. The scheduler prunes
  entries older than 7 days during rollover.

SEE ALSO:
  - engine.go: Calls Admit before any state transition
  - scheduler (api package): Calls PruneBefore on the daily rollover
*/
package engine

import (
	"time"
)

// =============================================================================
// BOUNDS - Per-type plausibility limits
// =============================================================================

// PayloadBound caps a single payload field for one activity type.
// The bounds table is extensible; the reference behavior only bounds
// exercise calories.
type PayloadBound struct {
	Field string
	Max   float64
}

func defaultBounds() map[ActivityType][]PayloadBound {
	return map[ActivityType][]PayloadBound{
		ActivityExercise: {{Field: "calories", Max: 5000}},
	}
}

// =============================================================================
// VALIDATOR - Admission state per activity type
// =============================================================================

const (
	maxEntriesPerHour    = 10
	maxRetroactiveEntries = 3
	maxHistoryEntries    = 100
	retroactiveWindow    = 24 * time.Hour
	historyRetention     = 7 * 24 * time.Hour
)

// Validator holds the rolling admission history. It is not safe for
// concurrent use on its own; the engine's mutex serializes access.
type Validator struct {
	bounds  map[ActivityType][]PayloadBound
	history map[ActivityType][]time.Time
}

func NewValidator() *Validator {
	return &Validator{
		bounds:  defaultBounds(),
		history: make(map[ActivityType][]time.Time),
	}
}

// Admit applies the admission rules in order and, on acceptance, records
// the event in the type's history. The returned reason is RejectNone
// exactly when the event was admitted.
func (v *Validator) Admit(event ActivityEvent, now time.Time) RejectionReason {
	if !v.plausible(event) {
		return RejectImplausible
	}

	history := v.history[event.Type]

	// Burst limit: count prior admissions inside the trailing hour.
	hourAgo := now.Add(-time.Hour)
	recent := 0
	for _, ts := range history {
		if ts.After(hourAgo) {
			recent++
		}
	}
	if recent >= maxEntriesPerHour {
		return RejectBurstLimit
	}

	// Retroactive quota: backdated events share a small budget.
	if now.Sub(event.OccurredAt) > retroactiveWindow {
		dayAgo := now.Add(-24 * time.Hour)
		retro := 0
		for _, ts := range history {
			if ts.Before(dayAgo) {
				retro++
			}
		}
		if retro >= maxRetroactiveEntries {
			return RejectRetroQuota
		}
	}

	v.record(event.Type, event.OccurredAt)
	return RejectNone
}

func (v *Validator) plausible(event ActivityEvent) bool {
	for _, b := range v.bounds[event.Type] {
		if value, ok := event.Payload[b.Field]; ok && value > b.Max {
			return false
		}
	}
	return true
}

// record appends to history, dropping oldest-first beyond the cap.
func (v *Validator) record(at ActivityType, ts time.Time) {
	history := append(v.history[at], ts)
	if len(history) > maxHistoryEntries {
		history = history[len(history)-maxHistoryEntries:]
	}
	v.history[at] = history
}

// PruneBefore drops history entries older than the cutoff across all
// activity types. Called by the rollover, under the engine lock.
func (v *Validator) PruneBefore(cutoff time.Time) int {
	pruned := 0
	for at, history := range v.history {
		kept := history[:0]
		for _, ts := range history {
			if !ts.Before(cutoff) {
				kept = append(kept, ts)
			}
		}
		pruned += len(history) - len(kept)
		v.history[at] = kept
	}
	return pruned
}

// HistoryLen reports the number of retained admissions for a type.
func (v *Validator) HistoryLen(at ActivityType) int { return len(v.history[at]) }
