/*
xp.go - Base award table and streak multiplier tiers

PURPOSE:
  Maps (activity type, streak length) to an experience-point award.
  Base values are fixed per activity type; the multiplier is the highest
  satisfied streak tier, never stacked:

    streak >= 365   x2.0
    streak >= 100   x1.5
    streak >=  30   x1.2
    streak >=   7   x1.1
    otherwise       x1.0

  Awards round half-up via decimal arithmetic so the x1.1 tier yields
  11 XP for a 10-point base rather than drifting through float math.

SEE ALSO:
  - engine.go: Applies the award to the submission result
*/
package engine

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// BASE AWARDS - Fixed per activity type
// =============================================================================

// baseXP is the award before streak multipliers. Steps are awarded per
// pre-normalized qualifying unit (typically per 1000 steps); the caller
// supplies normalized counts.
var baseXP = map[ActivityType]int{
	ActivityMealLogging:         10,
	ActivityExercise:            20,
	ActivityCalorieGoal:         20,
	ActivitySteps:               5,
	ActivityWeightCheckIn:       15,
	ActivityMeditation:          15,
	ActivityDailyGoalCompletion: 50,
}

// BaseXP exposes the base award for a type (catalog validation, API).
func BaseXP(at ActivityType) int { return baseXP[at] }

// =============================================================================
// MULTIPLIER TIERS - Highest satisfied threshold wins
// =============================================================================

type multiplierTier struct {
	MinStreak  int
	Multiplier decimal.Decimal
}

var multiplierTiers = []multiplierTier{
	{MinStreak: 365, Multiplier: decimal.NewFromFloat(2.0)},
	{MinStreak: 100, Multiplier: decimal.NewFromFloat(1.5)},
	{MinStreak: 30, Multiplier: decimal.NewFromFloat(1.2)},
	{MinStreak: 7, Multiplier: decimal.NewFromFloat(1.1)},
}

// StreakMultiplier returns the multiplier for a streak length.
func StreakMultiplier(streak int) decimal.Decimal {
	for _, tier := range multiplierTiers {
		if streak >= tier.MinStreak {
			return tier.Multiplier
		}
	}
	return decimal.NewFromInt(1)
}

// ComputeXP returns round(base * multiplier) for the event's type and the
// streak state after the event was applied. Unknown activity types are a
// configuration error caught at startup, so this is total at runtime.
func ComputeXP(at ActivityType, streak ActivityStreak) int {
	base := decimal.NewFromInt(int64(baseXP[at]))
	award := base.Mul(StreakMultiplier(streak.CurrentStreak)).Round(0)
	return int(award.IntPart())
}
