/*
Package catalog provides JSON to Go catalog conversion.

PURPOSE:
  Converts JSON reward and challenge definitions into engine.Reward and
  engine.Challenge values. This keeps the catalogs data, not code: product
  can adjust thresholds and add challenges without a rebuild, and the
  definitions can live in version control or an admin store.

  Malformed entries are configuration errors. They fail Parse, and the
  server refuses to boot; there is no runtime fallback for a bad catalog.

JSON SCHEMA (rewards):
  {
    "rewards": [
      {"id": "streak_7",  "title": "One Week Strong", "kind": "streak",
       "threshold": 7},
      {"id": "meals_100", "title": "Century of Meals", "kind": "lifetime",
       "activity_type": "meal_logging", "threshold": 100},
      {"id": "first_meal", "title": "First Bite", "kind": "first",
       "activity_type": "meal_logging"},
      {"id": "perfect_week", "title": "Perfect Week", "kind": "stub"}
    ],
    "challenges": [
      {"id": "daily_meal", "title": "Log a meal", "period": "daily",
       "required_activity": "meal_logging", "target_value": 1,
       "xp_reward": 25}
    ]
  }

KINDS:
  streak    unlocks when the triggering type's streak reaches threshold
  lifetime  unlocks when activity_type's lifetime counter reaches threshold
  first     unlocks on the very first event of activity_type
  stub      permanently unsatisfied (needs daily-summary history the
            engine does not consume)

USAGE:
  cats, err := catalog.ParseFile("catalog.json")
  cats, err  = catalog.Parse(jsonBytes)
  cats       = catalog.Default()

SEE ALSO:
  - engine/rewards.go: Predicate constructors used here
  - engine/challenge.go: Challenge definitions
*/
package catalog

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/warp/rewards-engine/engine"
)

// =============================================================================
// JSON SCHEMA TYPES
// =============================================================================

// FileJSON is the top-level catalog document.
type FileJSON struct {
	Rewards    []RewardJSON    `json:"rewards"`
	Challenges []ChallengeJSON `json:"challenges"`
}

// RewardJSON is the JSON representation of one reward definition.
type RewardJSON struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Description  string `json:"description,omitempty"`
	Kind         string `json:"kind"` // streak, lifetime, first, stub
	ActivityType string `json:"activity_type,omitempty"`
	Threshold    int    `json:"threshold,omitempty"`
}

// ChallengeJSON is the JSON representation of one challenge definition.
type ChallengeJSON struct {
	ID               string `json:"id"`
	Title            string `json:"title"`
	Period           string `json:"period"` // daily, weekly, monthly
	RequiredActivity string `json:"required_activity"`
	TargetValue      int    `json:"target_value"`
	XPReward         int    `json:"xp_reward"`
}

// Catalogs bundles the parsed outputs.
type Catalogs struct {
	Rewards    []engine.Reward
	Challenges []engine.Challenge
}

// =============================================================================
// PARSING
// =============================================================================

// ParseFile reads and parses a catalog document from disk.
func ParseFile(path string) (*Catalogs, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}
	return Parse(data)
}

// Parse converts a catalog document into engine values, validating every
// entry. The first invalid entry fails the whole parse.
func Parse(data []byte) (*Catalogs, error) {
	var doc FileJSON
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse catalog JSON: %w", err)
	}

	cats := &Catalogs{}
	seen := make(map[string]bool)

	for _, rj := range doc.Rewards {
		reward, err := rewardFromJSON(rj)
		if err != nil {
			return nil, err
		}
		if seen["r:"+rj.ID] {
			return nil, fmt.Errorf("reward %q: duplicate id", rj.ID)
		}
		seen["r:"+rj.ID] = true
		cats.Rewards = append(cats.Rewards, reward)
	}

	for _, cj := range doc.Challenges {
		challenge, err := challengeFromJSON(cj)
		if err != nil {
			return nil, err
		}
		if seen["c:"+cj.ID] {
			return nil, fmt.Errorf("challenge %q: duplicate id", cj.ID)
		}
		seen["c:"+cj.ID] = true
		cats.Challenges = append(cats.Challenges, challenge)
	}

	return cats, nil
}

func rewardFromJSON(rj RewardJSON) (engine.Reward, error) {
	if rj.ID == "" {
		return engine.Reward{}, fmt.Errorf("reward with empty id")
	}

	reward := engine.Reward{
		ID:          engine.RewardID(rj.ID),
		Title:       rj.Title,
		Description: rj.Description,
	}

	switch rj.Kind {
	case "streak":
		if rj.Threshold <= 0 {
			return engine.Reward{}, fmt.Errorf("reward %q: streak kind needs a positive threshold", rj.ID)
		}
		reward.Unlock = engine.StreakAtLeast(rj.Threshold)

	case "lifetime":
		at, err := engine.ParseActivityType(rj.ActivityType)
		if err != nil {
			return engine.Reward{}, fmt.Errorf("reward %q: %w", rj.ID, err)
		}
		if rj.Threshold <= 0 {
			return engine.Reward{}, fmt.Errorf("reward %q: lifetime kind needs a positive threshold", rj.ID)
		}
		reward.Unlock = engine.LifetimeAtLeast(at, rj.Threshold)

	case "first":
		at, err := engine.ParseActivityType(rj.ActivityType)
		if err != nil {
			return engine.Reward{}, fmt.Errorf("reward %q: %w", rj.ID, err)
		}
		reward.Unlock = engine.FirstOccurrence(at)

	case "stub":
		reward.Unlock = engine.NeverSatisfied()

	default:
		return engine.Reward{}, fmt.Errorf("reward %q: unknown kind %q", rj.ID, rj.Kind)
	}

	return reward, nil
}

func challengeFromJSON(cj ChallengeJSON) (engine.Challenge, error) {
	if cj.ID == "" {
		return engine.Challenge{}, fmt.Errorf("challenge with empty id")
	}
	period := engine.ChallengePeriod(cj.Period)
	if !period.Valid() {
		return engine.Challenge{}, fmt.Errorf("challenge %q: unknown period %q", cj.ID, cj.Period)
	}
	at, err := engine.ParseActivityType(cj.RequiredActivity)
	if err != nil {
		return engine.Challenge{}, fmt.Errorf("challenge %q: %w", cj.ID, err)
	}
	if cj.TargetValue <= 0 {
		return engine.Challenge{}, fmt.Errorf("challenge %q: target_value must be positive", cj.ID)
	}
	if cj.XPReward < 0 {
		return engine.Challenge{}, fmt.Errorf("challenge %q: xp_reward must not be negative", cj.ID)
	}

	return engine.Challenge{
		ID:               cj.ID,
		Title:            cj.Title,
		Period:           period,
		RequiredActivity: at,
		TargetValue:      cj.TargetValue,
		XPReward:         cj.XPReward,
	}, nil
}

// =============================================================================
// DEFAULT CATALOGS - The canonical seed data
// =============================================================================

// Default returns the built-in catalogs: the canonical streak, milestone
// and first-meal rewards plus the three seed challenges. Used when no
// catalog file is configured.
func Default() *Catalogs {
	cats, err := Parse([]byte(defaultJSON))
	if err != nil {
		// The built-in document is covered by tests; a parse failure here
		// is a programming error.
		panic(fmt.Sprintf("built-in catalog invalid: %v", err))
	}
	return cats
}

const defaultJSON = `{
  "rewards": [
    {"id": "streak_7",   "title": "One Week Strong",    "kind": "streak", "threshold": 7},
    {"id": "streak_30",  "title": "Monthly Momentum",   "kind": "streak", "threshold": 30},
    {"id": "streak_100", "title": "Century Streak",     "kind": "streak", "threshold": 100},
    {"id": "streak_365", "title": "A Full Year",        "kind": "streak", "threshold": 365},

    {"id": "first_meal", "title": "First Bite", "kind": "first", "activity_type": "meal_logging"},

    {"id": "meals_10",   "title": "Ten Meals Logged",    "kind": "lifetime", "activity_type": "meal_logging", "threshold": 10},
    {"id": "meals_100",  "title": "Century of Meals",    "kind": "lifetime", "activity_type": "meal_logging", "threshold": 100},
    {"id": "meals_500",  "title": "Meal Devotee",        "kind": "lifetime", "activity_type": "meal_logging", "threshold": 500},
    {"id": "meals_1000", "title": "Thousand Meals",      "kind": "lifetime", "activity_type": "meal_logging", "threshold": 1000},

    {"id": "exercise_10",  "title": "Getting Moving",    "kind": "lifetime", "activity_type": "exercise", "threshold": 10},
    {"id": "exercise_100", "title": "Workout Regular",   "kind": "lifetime", "activity_type": "exercise", "threshold": 100},
    {"id": "exercise_500", "title": "Iron Discipline",   "kind": "lifetime", "activity_type": "exercise", "threshold": 500},

    {"id": "steps_10000",   "title": "First Steps",      "kind": "lifetime", "activity_type": "steps", "threshold": 10000},
    {"id": "steps_100000",  "title": "Long Hauler",      "kind": "lifetime", "activity_type": "steps", "threshold": 100000},
    {"id": "steps_1000000", "title": "Million Stepper",  "kind": "lifetime", "activity_type": "steps", "threshold": 1000000},

    {"id": "perfect_week",        "title": "Perfect Week",        "kind": "stub"},
    {"id": "early_bird",          "title": "Early Bird",          "kind": "stub"},
    {"id": "night_owl_restraint", "title": "Night Owl Restraint", "kind": "stub"}
  ],
  "challenges": [
    {"id": "daily_meal",      "title": "Log a meal today",          "period": "daily",   "required_activity": "meal_logging", "target_value": 1,  "xp_reward": 25},
    {"id": "weekly_calorie",  "title": "Hit your calorie goal 5x",  "period": "weekly",  "required_activity": "calorie_goal", "target_value": 5,  "xp_reward": 100},
    {"id": "monthly_perfect", "title": "Complete 20 daily goals",   "period": "monthly", "required_activity": "daily_goal_completion", "target_value": 20, "xp_reward": 500}
  ]
}`
