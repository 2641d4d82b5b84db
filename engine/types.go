/*
Package engine provides the activity rewards and streak engine.

PURPOSE:
  This package contains the core types and algorithms that turn discrete
  user-activity events (meal logged, exercise completed, steps recorded,
  weight checked in, meditation finished, daily-goal completion) into
  experience points, continuity streaks, unlocked rewards, and challenge
  progress.

KEY CONCEPTS IN THIS FILE (types.go):
  - ActivityType: Closed enumeration of loggable actions
  - ActivityEvent: One admissible occurrence of an activity
  - ActivityStreak: Per-type continuity state with a one-day grace period
  - UserProgress: Level, level progress, and the unlocked-reward set
  - ActivityResult: What the caller gets back from a submission

DESIGN PRINCIPLES:
  1. Single writer: one mutex serializes submissions and rollover
  2. Precision: decimal.Decimal for XP multiplier math, no float drift
  3. Type Safety: typed maps keyed by ActivityType, no stringly keys
  4. Determinism: every admitted event produces a defined state transition

USAGE:
  eng, err := engine.New(engine.Options{Store: store, Curve: curve})
  result := eng.SubmitActivity(engine.ActivityExercise,
      engine.Payload{"calories": 450}, time.Now())

SEE ALSO:
  - validator.go: Admission rules (bounds, burst limit, retroactive quota)
  - streak.go: Day-gap streak transitions
  - xp.go: Base award table and multiplier tiers
*/
package engine

import (
	"time"
)

// =============================================================================
// ACTIVITY TYPE - Closed enumeration of loggable actions
// =============================================================================

type ActivityType string

const (
	ActivityMealLogging         ActivityType = "meal_logging"
	ActivityExercise            ActivityType = "exercise"
	ActivityCalorieGoal         ActivityType = "calorie_goal"
	ActivitySteps               ActivityType = "steps"
	ActivityWeightCheckIn       ActivityType = "weight_check_in"
	ActivityMeditation          ActivityType = "meditation"
	ActivityDailyGoalCompletion ActivityType = "daily_goal_completion"
)

// AllActivityTypes lists every member of the enumeration, in declaration
// order. The engine lazily creates per-type state, so this is only needed
// where the full set matters (catalog validation, API listings).
func AllActivityTypes() []ActivityType {
	return []ActivityType{
		ActivityMealLogging,
		ActivityExercise,
		ActivityCalorieGoal,
		ActivitySteps,
		ActivityWeightCheckIn,
		ActivityMeditation,
		ActivityDailyGoalCompletion,
	}
}

// ParseActivityType converts a wire string into an ActivityType.
// Unknown values are a caller error, surfaced before any engine state
// is touched.
func ParseActivityType(s string) (ActivityType, error) {
	at := ActivityType(s)
	if !at.Valid() {
		return "", &UnknownActivityTypeError{Value: s}
	}
	return at, nil
}

func (at ActivityType) Valid() bool {
	switch at {
	case ActivityMealLogging, ActivityExercise, ActivityCalorieGoal,
		ActivitySteps, ActivityWeightCheckIn, ActivityMeditation,
		ActivityDailyGoalCompletion:
		return true
	}
	return false
}

func (at ActivityType) String() string { return string(at) }

// =============================================================================
// ACTIVITY EVENT - One occurrence, consumed once, never persisted here
// =============================================================================

// Payload carries activity-specific fields (calories burned, step count).
// It is used only for validation bounds and is otherwise opaque to the
// streak/XP logic.
type Payload map[string]float64

// ActivityEvent is a single validated occurrence of an activity.
type ActivityEvent struct {
	Type       ActivityType
	Payload    Payload
	OccurredAt time.Time
}

// =============================================================================
// STREAK - Consecutive qualifying calendar days, with a one-day grace
// =============================================================================

// ActivityStreak tracks continuity for one activity type.
// CurrentStreak counts consecutive qualifying calendar days; a single
// skipped day does not break the streak (see streak.go). LongestStreak
// is never reset.
type ActivityStreak struct {
	Type             ActivityType
	CurrentStreak    int
	LongestStreak    int
	LastActivityDate Day
}

// =============================================================================
// PROGRESS - Level state and unlocked rewards
// =============================================================================

// LevelInfo is produced by the leveling-curve collaborator for a given
// streak length. The curve itself lives outside the engine (leveling
// package in this repo) and is treated as a pure lookup.
type LevelInfo struct {
	Level           int
	DaysToNextLevel int
	LevelProgress   float64 // 0..1 within the current level band
}

// UserProgress is the singleton holder of level state and unlocked rewards.
type UserProgress struct {
	CurrentLevel    int
	DaysToNextLevel int
	LevelProgress   float64
	Unlocked        map[RewardID]UserReward
}

// NewUserProgress returns the default zero-state progress record used when
// the store has nothing persisted yet.
func NewUserProgress() *UserProgress {
	return &UserProgress{
		CurrentLevel: 1,
		Unlocked:     make(map[RewardID]UserReward),
	}
}

// UnlockedList returns the unlocked rewards ordered by EarnedAt then id,
// for stable API output.
func (p *UserProgress) UnlockedList() []UserReward {
	out := make([]UserReward, 0, len(p.Unlocked))
	for _, ur := range p.Unlocked {
		out = append(out, ur)
	}
	sortUserRewards(out)
	return out
}

// LevelUpEvent is emitted on the tick where the derived level changes.
// TotalXP is always zero: leveling is driven by streak length, not by a
// cumulative XP balance.
type LevelUpEvent struct {
	OldLevel int
	NewLevel int
	TotalXP  int
}

// =============================================================================
// RESULT - Synchronous outcome of one submission
// =============================================================================

// ActivityResult is returned to the caller of SubmitActivity. The caller
// owns notification rendering and durable persistence of anything beyond
// the engine's own snapshot.
type ActivityResult struct {
	Success             bool
	Message             string
	XPEarned            int
	NewRewards          []UserReward
	CompletedChallenges []ChallengeProgress
	LevelUp             *LevelUpEvent
}

func rejected(reason RejectionReason) ActivityResult {
	return ActivityResult{Success: false, Message: reason.Message()}
}
