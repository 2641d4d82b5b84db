/*
Package leveling provides the streak-to-level lookup curve.

PURPOSE:
  The engine derives the user's level from the maximum current streak
  across activity types, but it does not own the curve. This package is
  that collaborator: a pure lookup table from streak length to level,
  days remaining to the next level, and fractional progress inside the
  current band.

  There is deliberately no cumulative-XP input here. Leveling is
  streak-driven, which is why LevelUpEvent.TotalXP is always zero.

USAGE:
  curve := leveling.Default()
  info := curve.LevelForStreak(12)   // level 3, 2 days to level 4

  custom, err := leveling.NewCurve([]int{0, 3, 10, 25})
*/
package leveling

import (
	"fmt"
	"sort"

	"github.com/warp/rewards-engine/engine"
)

// =============================================================================
// CURVE - Ascending streak thresholds, one per level
// =============================================================================

// Curve maps streak lengths to levels. thresholds[i] is the minimum
// streak for level i+1; thresholds[0] must be 0 so every streak maps to
// at least level 1.
type Curve struct {
	thresholds []int
}

// Default returns the standard curve. Bands widen with tenure the same
// way the XP multiplier tiers do: early levels come quickly, the last
// band needs a year-long streak.
func Default() *Curve {
	c, _ := NewCurve([]int{0, 3, 7, 14, 30, 60, 100, 180, 270, 365})
	return c
}

// NewCurve validates a threshold table. Tables must start at zero and be
// strictly ascending; anything else is a configuration error and should
// abort startup.
func NewCurve(thresholds []int) (*Curve, error) {
	if len(thresholds) == 0 {
		return nil, fmt.Errorf("leveling curve needs at least one threshold")
	}
	if thresholds[0] != 0 {
		return nil, fmt.Errorf("leveling curve must start at streak 0, got %d", thresholds[0])
	}
	if !sort.IntsAreSorted(thresholds) {
		return nil, fmt.Errorf("leveling curve thresholds must be ascending")
	}
	for i := 1; i < len(thresholds); i++ {
		if thresholds[i] == thresholds[i-1] {
			return nil, fmt.Errorf("duplicate leveling threshold %d", thresholds[i])
		}
	}
	copied := append([]int(nil), thresholds...)
	return &Curve{thresholds: copied}, nil
}

// LevelForStreak returns the level information for a streak length.
// Negative streaks clamp to zero. At the top level DaysToNextLevel is 0
// and LevelProgress is 1.
func (c *Curve) LevelForStreak(streak int) engine.LevelInfo {
	if streak < 0 {
		streak = 0
	}

	// Find the highest band whose threshold is satisfied.
	level := 1
	for i, min := range c.thresholds {
		if streak >= min {
			level = i + 1
		}
	}

	if level >= len(c.thresholds) {
		return engine.LevelInfo{Level: level, DaysToNextLevel: 0, LevelProgress: 1}
	}

	floor := c.thresholds[level-1]
	next := c.thresholds[level]
	return engine.LevelInfo{
		Level:           level,
		DaysToNextLevel: next - streak,
		LevelProgress:   float64(streak-floor) / float64(next-floor),
	}
}

// MaxLevel reports the highest reachable level.
func (c *Curve) MaxLevel() int { return len(c.thresholds) }
