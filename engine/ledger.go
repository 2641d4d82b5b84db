/*
ledger.go - Cumulative counters and level derivation

PURPOSE:
  The progress ledger keeps two occurrence counters per activity type:
  a lifetime total (never reset) and a per-calendar-year total. Both
  increment by exactly 1 per admitted event; payload magnitudes such as
  step counts never scale the counter. Milestone rewards key off these
  occurrence counts.

  Level is derived from the MAXIMUM current streak across all tracked
  types through the injected LevelCurve. A level-up event fires exactly
  on the tick where the derived level differs from the stored level.

SEE ALSO:
  - rewards.go: Reads lifetime counters for milestone predicates
  - leveling/: The LevelCurve collaborator implementation
*/
package engine

import "time"

// =============================================================================
// LEVEL CURVE - Collaborator hook, a pure lookup owned elsewhere
// =============================================================================

// LevelCurve maps a streak length to level information. The engine treats
// it as a pure table lookup; the leveling package provides the default.
type LevelCurve interface {
	LevelForStreak(streak int) LevelInfo
}

// =============================================================================
// PROGRESS LEDGER
// =============================================================================

type yearKey struct {
	Type ActivityType
	Year int
}

// ProgressLedger owns lifetime and yearly occurrence counters plus the
// stored level on UserProgress. Serialized by the engine's mutex.
type ProgressLedger struct {
	lifetime map[ActivityType]int
	yearly   map[yearKey]int
	progress *UserProgress
	curve    LevelCurve
}

func NewProgressLedger(progress *UserProgress, curve LevelCurve) *ProgressLedger {
	return &ProgressLedger{
		lifetime: make(map[ActivityType]int),
		yearly:   make(map[yearKey]int),
		progress: progress,
		curve:    curve,
	}
}

// ApplyEvent increments the counters for one admitted event.
func (l *ProgressLedger) ApplyEvent(at ActivityType, occurredAt time.Time) {
	l.lifetime[at]++
	l.yearly[yearKey{Type: at, Year: occurredAt.Year()}]++
}

// CheckLevelUp recomputes the level from the maximum streak and updates
// the stored progress. Returns a LevelUpEvent only when the level changed.
func (l *ProgressLedger) CheckLevelUp(maxStreak int) *LevelUpEvent {
	info := l.curve.LevelForStreak(maxStreak)

	old := l.progress.CurrentLevel
	l.progress.CurrentLevel = info.Level
	l.progress.DaysToNextLevel = info.DaysToNextLevel
	l.progress.LevelProgress = info.LevelProgress

	if info.Level == old {
		return nil
	}
	// TotalXP stays zero: there is no separate lifetime-XP accumulator.
	return &LevelUpEvent{OldLevel: old, NewLevel: info.Level}
}

// LifetimeCount returns the lifetime occurrence counter for a type.
func (l *ProgressLedger) LifetimeCount(at ActivityType) int { return l.lifetime[at] }

// YearlyCount returns the occurrence counter for a type within a year.
func (l *ProgressLedger) YearlyCount(at ActivityType, year int) int {
	return l.yearly[yearKey{Type: at, Year: year}]
}

// LifetimeCounts returns a copy of all lifetime counters, for snapshots.
func (l *ProgressLedger) LifetimeCounts() map[ActivityType]int {
	out := make(map[ActivityType]int, len(l.lifetime))
	for at, n := range l.lifetime {
		out[at] = n
	}
	return out
}

// Restore seeds the counters from persisted snapshot state.
func (l *ProgressLedger) Restore(lifetime map[ActivityType]int) {
	for at, n := range lifetime {
		l.lifetime[at] = n
	}
}
