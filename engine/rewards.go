/*
rewards.go - Static reward catalog and unlock evaluation

PURPOSE:
  A Reward is an id plus a pure unlock predicate over current counters and
  streak state. The evaluator scans the catalog after every admitted
  event, skips ids already unlocked, and appends newly satisfied rewards
  to UserProgress with EarnedAt = now. Unlocks are idempotent: membership
  in the unlocked set filters predicates that stay true forever (all
  milestone counters are monotonic).

PREDICATE FAMILIES:
  streak_{7,30,100,365}          triggering type's current streak
  meals_{10,100,500,1000}        lifetime meal-logging occurrences
  exercise_{10,100,500}          lifetime exercise occurrences
  steps_{10000,100000,1000000}   lifetime steps occurrences
  first_meal                     fires on the very first logged meal

  perfect_week, early_bird and night_owl_restraint need daily-summary
  history this engine does not consume; they are permanently unsatisfied
  stubs (see DESIGN.md).

SEE ALSO:
  - catalog/: JSON definitions parsed into this package's Reward values
*/
package engine

import (
	"sort"
	"time"
)

// =============================================================================
// REWARD - Catalog entry with a pure unlock predicate
// =============================================================================

type RewardID string

// UnlockContext is the read-only state a predicate may inspect.
type UnlockContext struct {
	Event         ActivityEvent
	Streak        ActivityStreak // streak of the triggering type, post-advance
	LifetimeCount func(ActivityType) int
}

// UnlockPredicate reports whether a reward's condition is satisfied.
type UnlockPredicate func(UnlockContext) bool

// Reward is one immutable catalog entry.
type Reward struct {
	ID          RewardID
	Title       string
	Description string
	Unlock      UnlockPredicate
}

// UserReward is an unlocked instance, created exactly once per reward id.
type UserReward struct {
	Reward   Reward
	EarnedAt time.Time
}

// =============================================================================
// PREDICATE CONSTRUCTORS
// =============================================================================

// StreakAtLeast is satisfied when the triggering activity's streak reaches
// the threshold.
func StreakAtLeast(days int) UnlockPredicate {
	return func(ctx UnlockContext) bool { return ctx.Streak.CurrentStreak >= days }
}

// LifetimeAtLeast is satisfied when a type's lifetime occurrence counter
// reaches the threshold.
func LifetimeAtLeast(at ActivityType, count int) UnlockPredicate {
	return func(ctx UnlockContext) bool { return ctx.LifetimeCount(at) >= count }
}

// FirstOccurrence fires only on the event that brings a type's lifetime
// counter from 0 to exactly 1.
func FirstOccurrence(at ActivityType) UnlockPredicate {
	return func(ctx UnlockContext) bool {
		return ctx.Event.Type == at && ctx.LifetimeCount(at) == 1
	}
}

// NeverSatisfied is the stub for predicates that would need daily-summary
// history. It is deliberately never true.
func NeverSatisfied() UnlockPredicate {
	return func(UnlockContext) bool { return false }
}

// =============================================================================
// EVALUATOR
// =============================================================================

// RewardEvaluator scans the static catalog against the unlocked set.
type RewardEvaluator struct {
	catalog  []Reward
	progress *UserProgress
}

func NewRewardEvaluator(catalog []Reward, progress *UserProgress) *RewardEvaluator {
	return &RewardEvaluator{catalog: catalog, progress: progress}
}

// Evaluate returns the rewards newly satisfied by the current state and
// records them on UserProgress with EarnedAt = now. Calling it again with
// no intervening event returns nothing: the unlocked-set check prevents
// double unlocks.
func (e *RewardEvaluator) Evaluate(ctx UnlockContext, now time.Time) []UserReward {
	var unlocked []UserReward
	for _, reward := range e.catalog {
		if _, done := e.progress.Unlocked[reward.ID]; done {
			continue
		}
		if !reward.Unlock(ctx) {
			continue
		}
		ur := UserReward{Reward: reward, EarnedAt: now}
		e.progress.Unlocked[reward.ID] = ur
		unlocked = append(unlocked, ur)
	}
	return unlocked
}

// Catalog returns the full catalog, for the API listing.
func (e *RewardEvaluator) Catalog() []Reward {
	out := make([]Reward, len(e.catalog))
	copy(out, e.catalog)
	return out
}

// =============================================================================
// SORT HELPERS - Stable output for snapshots and API responses
// =============================================================================

func sortUserRewards(rewards []UserReward) {
	sort.Slice(rewards, func(i, j int) bool {
		if !rewards[i].EarnedAt.Equal(rewards[j].EarnedAt) {
			return rewards[i].EarnedAt.Before(rewards[j].EarnedAt)
		}
		return rewards[i].Reward.ID < rewards[j].Reward.ID
	})
}

func sortStreaks(streaks []ActivityStreak) {
	sort.Slice(streaks, func(i, j int) bool { return streaks[i].Type < streaks[j].Type })
}
