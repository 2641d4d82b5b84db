/*
streak_test.go - Day-gap streak transition tests

Tests for:
- First event and consecutive-day increments
- Same-day repeats (no-op)
- One-day grace (a single skipped day keeps the streak alive)
- Genuine discontinuity (reset to 1)
- Longest-streak retention and cross-type maximum
*/
package engine

import (
	"testing"
	"time"
)

// baseDate anchors streak tests at a fixed local midday so day arithmetic
// never straddles a date boundary.
var baseDate = time.Date(2026, time.January, 5, 12, 0, 0, 0, time.UTC)

func onDay(n int) time.Time {
	return baseDate.AddDate(0, 0, n)
}

func TestStreak_FirstEvent_StartsAtOne(t *testing.T) {
	// GIVEN: No prior events for the type
	// WHEN: The first event arrives
	// THEN: The streak starts at 1

	st := NewStreakTracker()
	s := st.Advance(ActivityMealLogging, onDay(0))

	if s.CurrentStreak != 1 {
		t.Errorf("expected streak 1, got %d", s.CurrentStreak)
	}
	if s.LongestStreak != 1 {
		t.Errorf("expected longest 1, got %d", s.LongestStreak)
	}
	if !s.LastActivityDate.Equal(DayOf(onDay(0))) {
		t.Errorf("expected last date %s, got %s", DayOf(onDay(0)), s.LastActivityDate)
	}
}

func TestStreak_ConsecutiveDays_Increment(t *testing.T) {
	// GIVEN: An event on each of N consecutive days
	// THEN: The streak equals N

	st := NewStreakTracker()
	var s ActivityStreak
	for d := 0; d < 7; d++ {
		s = st.Advance(ActivityMealLogging, onDay(d))
	}

	if s.CurrentStreak != 7 {
		t.Errorf("expected streak 7, got %d", s.CurrentStreak)
	}
}

func TestStreak_SameDayRepeat_NoChange(t *testing.T) {
	// GIVEN: A streak of 3
	// WHEN: A second event arrives on the same calendar day
	// THEN: The streak is unchanged

	st := NewStreakTracker()
	for d := 0; d < 3; d++ {
		st.Advance(ActivityExercise, onDay(d))
	}

	s := st.Advance(ActivityExercise, onDay(2).Add(4*time.Hour))
	if s.CurrentStreak != 3 {
		t.Errorf("expected streak 3 after same-day repeat, got %d", s.CurrentStreak)
	}
}

func TestStreak_OneSkippedDay_GraceKeepsStreak(t *testing.T) {
	// GIVEN: A streak of 5 ending on day 4
	// WHEN: Day 5 is skipped and an event arrives on day 6
	// THEN: The streak continues to 6

	st := NewStreakTracker()
	for d := 0; d < 5; d++ {
		st.Advance(ActivityMealLogging, onDay(d))
	}

	s := st.Advance(ActivityMealLogging, onDay(6))
	if s.CurrentStreak != 6 {
		t.Errorf("expected streak 6 after grace day, got %d", s.CurrentStreak)
	}
}

func TestStreak_TwoSkippedDays_Resets(t *testing.T) {
	// GIVEN: A streak of 5 ending on day 4
	// WHEN: Days 5 and 6 are skipped and an event arrives on day 7 (gap 3)
	// THEN: The streak resets to 1, longest is retained

	st := NewStreakTracker()
	for d := 0; d < 5; d++ {
		st.Advance(ActivityMealLogging, onDay(d))
	}

	s := st.Advance(ActivityMealLogging, onDay(7))
	if s.CurrentStreak != 1 {
		t.Errorf("expected streak reset to 1, got %d", s.CurrentStreak)
	}
	if s.LongestStreak != 5 {
		t.Errorf("expected longest 5 retained, got %d", s.LongestStreak)
	}
}

func TestStreak_PerType_Independent(t *testing.T) {
	// GIVEN: Meals logged daily, exercise logged once
	// THEN: Each type keeps its own streak

	st := NewStreakTracker()
	for d := 0; d < 4; d++ {
		st.Advance(ActivityMealLogging, onDay(d))
	}
	st.Advance(ActivityExercise, onDay(3))

	if got := st.Get(ActivityMealLogging).CurrentStreak; got != 4 {
		t.Errorf("expected meal streak 4, got %d", got)
	}
	if got := st.Get(ActivityExercise).CurrentStreak; got != 1 {
		t.Errorf("expected exercise streak 1, got %d", got)
	}
}

func TestStreak_MaxCurrent(t *testing.T) {
	st := NewStreakTracker()
	for d := 0; d < 4; d++ {
		st.Advance(ActivityMealLogging, onDay(d))
	}
	st.Advance(ActivitySteps, onDay(3))

	if got := st.MaxCurrent(); got != 4 {
		t.Errorf("expected max streak 4, got %d", got)
	}
}

func TestStreak_UntrackedType_ZeroValue(t *testing.T) {
	st := NewStreakTracker()
	s := st.Get(ActivityMeditation)

	if s.CurrentStreak != 0 || s.LongestStreak != 0 {
		t.Errorf("expected zero streak for untracked type, got %+v", s)
	}
	if s.Type != ActivityMeditation {
		t.Errorf("expected type carried through, got %q", s.Type)
	}
}

func TestStreak_Restore_RoundTrip(t *testing.T) {
	// GIVEN: A tracker seeded from a snapshot
	// WHEN: The next consecutive day arrives
	// THEN: The restored streak continues

	st := NewStreakTracker()
	st.Restore([]ActivityStreak{{
		Type:             ActivityMealLogging,
		CurrentStreak:    9,
		LongestStreak:    12,
		LastActivityDate: DayOf(onDay(0)),
	}})

	s := st.Advance(ActivityMealLogging, onDay(1))
	if s.CurrentStreak != 10 {
		t.Errorf("expected restored streak to continue to 10, got %d", s.CurrentStreak)
	}
	if s.LongestStreak != 12 {
		t.Errorf("expected longest 12 retained, got %d", s.LongestStreak)
	}
}

func TestDaysBetween(t *testing.T) {
	a := NewDay(2026, time.January, 31)
	b := NewDay(2026, time.February, 2)

	if got := DaysBetween(a, b); got != 2 {
		t.Errorf("expected 2 days across month boundary, got %d", got)
	}
	if got := DaysBetween(b, a); got != -2 {
		t.Errorf("expected -2 days reversed, got %d", got)
	}
	if got := DaysBetween(a, a); got != 0 {
		t.Errorf("expected 0 days for same day, got %d", got)
	}
}
