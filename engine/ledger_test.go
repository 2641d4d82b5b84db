/*
ledger_test.go - Counter and level-derivation tests
*/
package engine

import (
	"testing"
	"time"
)

// stepCurve is a minimal LevelCurve for ledger tests: one level per
// 5 streak days.
type stepCurve struct{}

func (stepCurve) LevelForStreak(streak int) LevelInfo {
	return LevelInfo{Level: streak/5 + 1, DaysToNextLevel: 5 - streak%5}
}

func TestLedger_ApplyEvent_IncrementsByOne(t *testing.T) {
	// Counters increment by exactly 1 per event; payload magnitudes are
	// irrelevant here.

	l := NewProgressLedger(NewUserProgress(), stepCurve{})
	ts := time.Date(2026, time.April, 1, 9, 0, 0, 0, time.UTC)

	l.ApplyEvent(ActivitySteps, ts)
	l.ApplyEvent(ActivitySteps, ts)
	l.ApplyEvent(ActivityMealLogging, ts)

	if got := l.LifetimeCount(ActivitySteps); got != 2 {
		t.Errorf("expected lifetime steps 2, got %d", got)
	}
	if got := l.LifetimeCount(ActivityMealLogging); got != 1 {
		t.Errorf("expected lifetime meals 1, got %d", got)
	}
	if got := l.LifetimeCount(ActivityExercise); got != 0 {
		t.Errorf("expected lifetime exercise 0, got %d", got)
	}
}

func TestLedger_YearlyCounters_SplitByYear(t *testing.T) {
	l := NewProgressLedger(NewUserProgress(), stepCurve{})

	l.ApplyEvent(ActivityMealLogging, time.Date(2025, time.December, 31, 23, 0, 0, 0, time.UTC))
	l.ApplyEvent(ActivityMealLogging, time.Date(2026, time.January, 1, 1, 0, 0, 0, time.UTC))

	if got := l.YearlyCount(ActivityMealLogging, 2025); got != 1 {
		t.Errorf("expected 2025 count 1, got %d", got)
	}
	if got := l.YearlyCount(ActivityMealLogging, 2026); got != 1 {
		t.Errorf("expected 2026 count 1, got %d", got)
	}
	if got := l.LifetimeCount(ActivityMealLogging); got != 2 {
		t.Errorf("expected lifetime 2, got %d", got)
	}
}

func TestLedger_CheckLevelUp_FiresOnlyOnChange(t *testing.T) {
	// GIVEN: A progress record at level 1
	// WHEN: The max streak crosses a curve threshold
	// THEN: Exactly one LevelUpEvent fires, with TotalXP zero

	progress := NewUserProgress()
	l := NewProgressLedger(progress, stepCurve{})

	if up := l.CheckLevelUp(2); up != nil {
		t.Errorf("expected no level-up at streak 2, got %+v", up)
	}

	up := l.CheckLevelUp(5)
	if up == nil {
		t.Fatal("expected a level-up at streak 5")
	}
	if up.OldLevel != 1 || up.NewLevel != 2 {
		t.Errorf("expected 1 -> 2, got %d -> %d", up.OldLevel, up.NewLevel)
	}
	if up.TotalXP != 0 {
		t.Errorf("TotalXP must stay 0, got %d", up.TotalXP)
	}

	// Same streak again: level unchanged, no event.
	if up := l.CheckLevelUp(6); up != nil {
		t.Errorf("expected no repeat event inside the band, got %+v", up)
	}
	if progress.CurrentLevel != 2 {
		t.Errorf("expected stored level 2, got %d", progress.CurrentLevel)
	}
}

func TestLedger_Restore_SeedsLifetime(t *testing.T) {
	l := NewProgressLedger(NewUserProgress(), stepCurve{})
	l.Restore(map[ActivityType]int{ActivityMealLogging: 99})

	l.ApplyEvent(ActivityMealLogging, time.Date(2026, time.April, 1, 9, 0, 0, 0, time.UTC))
	if got := l.LifetimeCount(ActivityMealLogging); got != 100 {
		t.Errorf("expected restored counter to continue to 100, got %d", got)
	}
}
