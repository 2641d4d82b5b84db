/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the engine's domain model from the external API contract.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

VALIDATION:
  Request structs carry go-playground/validator tags; handlers run the
  shared validator instance before touching the engine. This is transport
  hygiene only - the engine applies its own admission rules (rate limits,
  plausibility bounds) afterwards.

SEE ALSO:
  - handlers.go: Uses these types
*/
package api

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/warp/rewards-engine/engine"
)

var validate = validator.New()

// =============================================================================
// REQUEST TYPES
// =============================================================================

// SubmitActivityRequest is the body of POST /api/activities.
// occurred_at is optional RFC3339; omitted means "now".
type SubmitActivityRequest struct {
	ActivityType string             `json:"activity_type" validate:"required"`
	Payload      map[string]float64 `json:"payload,omitempty"`
	OccurredAt   string             `json:"occurred_at,omitempty" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
}

// =============================================================================
// RESPONSE TYPES
// =============================================================================

// ActivityResultDTO is the synchronous outcome of one submission.
type ActivityResultDTO struct {
	SubmissionID        string                  `json:"submission_id"`
	Success             bool                    `json:"success"`
	Message             string                  `json:"message"`
	XPEarned            int                     `json:"xp_earned"`
	NewRewards          []UserRewardDTO         `json:"new_rewards"`
	CompletedChallenges []ChallengeProgressDTO  `json:"completed_challenges"`
	LevelUp             *LevelUpDTO             `json:"level_up,omitempty"`
}

// UserRewardDTO is one unlocked reward.
type UserRewardDTO struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	EarnedAt    string `json:"earned_at"`
}

// RewardDTO is one static catalog entry.
type RewardDTO struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

// LevelUpDTO reports a level transition.
type LevelUpDTO struct {
	OldLevel int `json:"old_level"`
	NewLevel int `json:"new_level"`
	TotalXP  int `json:"total_xp"`
}

// ProgressDTO is the user's level state and unlocked rewards.
type ProgressDTO struct {
	CurrentLevel    int             `json:"current_level"`
	DaysToNextLevel int             `json:"days_to_next_level"`
	LevelProgress   float64         `json:"level_progress"`
	UnlockedRewards []UserRewardDTO `json:"unlocked_rewards"`
}

// StreakDTO is continuity state for one activity type.
type StreakDTO struct {
	ActivityType     string `json:"activity_type"`
	CurrentStreak    int    `json:"current_streak"`
	LongestStreak    int    `json:"longest_streak"`
	LastActivityDate string `json:"last_activity_date,omitempty"`
}

// ChallengeDTO is one static challenge definition.
type ChallengeDTO struct {
	ID               string `json:"id"`
	Title            string `json:"title"`
	Period           string `json:"period"`
	RequiredActivity string `json:"required_activity"`
	TargetValue      int    `json:"target_value"`
	XPReward         int    `json:"xp_reward"`
}

// ChallengeProgressDTO pairs a challenge with its live counter.
type ChallengeProgressDTO struct {
	Challenge       ChallengeDTO `json:"challenge"`
	CurrentProgress int          `json:"current_progress"`
	IsCompleted     bool         `json:"is_completed"`
	CompletedAt     string       `json:"completed_at,omitempty"`
}

// RolloverDTO summarizes a manual rollover run.
type RolloverDTO struct {
	RunID         string `json:"run_id"`
	DailyReset    int    `json:"daily_reset"`
	WeeklyReset   int    `json:"weekly_reset"`
	MonthlyReset  int    `json:"monthly_reset"`
	HistoryPruned int    `json:"history_pruned"`
}

// =============================================================================
// CONVERTERS
// =============================================================================

func toUserRewardDTO(ur engine.UserReward) UserRewardDTO {
	return UserRewardDTO{
		ID:          string(ur.Reward.ID),
		Title:       ur.Reward.Title,
		Description: ur.Reward.Description,
		EarnedAt:    ur.EarnedAt.UTC().Format(time.RFC3339),
	}
}

func toUserRewardDTOs(rewards []engine.UserReward) []UserRewardDTO {
	out := make([]UserRewardDTO, len(rewards))
	for i, ur := range rewards {
		out[i] = toUserRewardDTO(ur)
	}
	return out
}

func toStreakDTO(s engine.ActivityStreak) StreakDTO {
	dto := StreakDTO{
		ActivityType:  string(s.Type),
		CurrentStreak: s.CurrentStreak,
		LongestStreak: s.LongestStreak,
	}
	if !s.LastActivityDate.IsZero() {
		dto.LastActivityDate = s.LastActivityDate.String()
	}
	return dto
}

func toChallengeDTO(c engine.Challenge) ChallengeDTO {
	return ChallengeDTO{
		ID:               c.ID,
		Title:            c.Title,
		Period:           string(c.Period),
		RequiredActivity: string(c.RequiredActivity),
		TargetValue:      c.TargetValue,
		XPReward:         c.XPReward,
	}
}

func toChallengeProgressDTO(cp engine.ChallengeProgress) ChallengeProgressDTO {
	dto := ChallengeProgressDTO{
		Challenge:       toChallengeDTO(cp.Challenge),
		CurrentProgress: cp.CurrentProgress,
		IsCompleted:     cp.IsCompleted,
	}
	if cp.CompletedAt != nil {
		dto.CompletedAt = cp.CompletedAt.UTC().Format(time.RFC3339)
	}
	return dto
}

func toChallengeProgressDTOs(cps []engine.ChallengeProgress) []ChallengeProgressDTO {
	out := make([]ChallengeProgressDTO, len(cps))
	for i, cp := range cps {
		out[i] = toChallengeProgressDTO(cp)
	}
	return out
}
