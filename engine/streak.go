/*
streak.go - Day-gap streak transitions

PURPOSE:
  Maintains one continuity streak per activity type. The transition is a
  pure function of the stored streak and the new event's calendar date:

    gap = 0 days   same calendar day; only LastActivityDate refreshes
    gap = 1 day    consecutive day; streak += 1
    gap = 2 days   one missed day absorbed as grace; streak += 1
    gap > 2 days   genuine discontinuity; streak resets to 1
    no record      first event for the type; streak starts at 1

  The one-day grace absorbs timezone edge effects and late logging
  without penalizing the user.

KNOWN LIMITATION:
  Gap classification compares the new event's date against the stored
  LastActivityDate and assumes non-decreasing submission order. A
  retroactively-dated event admitted under the retroactive quota can
  regress LastActivityDate and misclassify the next gap. Kept as-is;
  see DESIGN.md.

SEE ALSO:
  - xp.go: Multiplier tiers keyed on CurrentStreak
  - ledger.go: Level derivation from the maximum streak
*/
package engine

import "time"

// =============================================================================
// STREAK TRACKER
// =============================================================================

// StreakTracker owns the per-type streak map. State is created lazily on
// the first event for a type and never removed within a session.
type StreakTracker struct {
	streaks map[ActivityType]*ActivityStreak
}

func NewStreakTracker() *StreakTracker {
	return &StreakTracker{streaks: make(map[ActivityType]*ActivityStreak)}
}

// Advance applies the day-gap transition for an admitted event and returns
// the updated streak. It has no failure mode.
func (st *StreakTracker) Advance(at ActivityType, occurredAt time.Time) ActivityStreak {
	day := DayOf(occurredAt)
	s, ok := st.streaks[at]
	if !ok {
		s = &ActivityStreak{Type: at}
		st.streaks[at] = s
	}

	switch gap := DaysBetween(s.LastActivityDate, day); {
	case s.CurrentStreak == 0 || s.LastActivityDate.IsZero():
		s.CurrentStreak = 1
	case gap == 0:
		// Same calendar day: streak unchanged.
	case gap == 1 || gap == 2:
		s.CurrentStreak++
	default:
		s.CurrentStreak = 1
	}
	s.LastActivityDate = day

	if s.CurrentStreak > s.LongestStreak {
		s.LongestStreak = s.CurrentStreak
	}
	return *s
}

// Get returns the streak for a type. A type with no events yet reports a
// zero streak rather than an error.
func (st *StreakTracker) Get(at ActivityType) ActivityStreak {
	if s, ok := st.streaks[at]; ok {
		return *s
	}
	return ActivityStreak{Type: at}
}

// MaxCurrent returns the largest current streak across all tracked types.
// Level derivation keys off this value.
func (st *StreakTracker) MaxCurrent() int {
	max := 0
	for _, s := range st.streaks {
		if s.CurrentStreak > max {
			max = s.CurrentStreak
		}
	}
	return max
}

// All returns a copy of every tracked streak, for snapshots and the API.
func (st *StreakTracker) All() []ActivityStreak {
	out := make([]ActivityStreak, 0, len(st.streaks))
	for _, s := range st.streaks {
		out = append(out, *s)
	}
	sortStreaks(out)
	return out
}

// Restore seeds the tracker from persisted snapshot state.
func (st *StreakTracker) Restore(streaks []ActivityStreak) {
	for _, s := range streaks {
		copied := s
		st.streaks[s.Type] = &copied
	}
}
