/*
handlers.go - HTTP API handlers for the rewards engine

PURPOSE:
  Exposes the rewards engine via REST API. Handles HTTP request/response,
  JSON serialization, and delegates to the engine.

ENDPOINTS:
  Activities:
    POST   /api/activities           Submit an activity event

  State:
    GET    /api/progress             Level state and unlocked rewards
    GET    /api/streaks              All tracked streaks
    GET    /api/streaks/{type}       Streak for one activity type
    GET    /api/rewards              Unlocked rewards
    GET    /api/rewards/catalog      Full static reward catalog
    GET    /api/challenges           Challenge progress
    GET    /api/challenges/catalog   Static challenge definitions

  Admin:
    POST   /api/admin/rollover       Run the rollover check now

ERROR HANDLING:
  A submission rejected by the engine's admission rules is NOT an HTTP
  error: it returns 200 with success=false, zero XP and a generic
  message, mirroring the engine's result contract. HTTP status codes are
  reserved for transport problems:
  - 400: Malformed body, unknown activity type, bad timestamp
  - 500: Internal errors

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/warp/rewards-engine/engine"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Engine *engine.Engine
	Logger *zap.Logger
}

// NewHandler creates a new handler around an engine instance.
func NewHandler(eng *engine.Engine, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{Engine: eng, Logger: logger}
}

// =============================================================================
// ACTIVITY SUBMISSION
// =============================================================================

// SubmitActivity accepts one activity event and returns the result.
func (h *Handler) SubmitActivity(w http.ResponseWriter, r *http.Request) {
	var req SubmitActivityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request", err)
		return
	}

	at, err := engine.ParseActivityType(req.ActivityType)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Unknown activity type", err)
		return
	}

	var occurredAt time.Time
	if req.OccurredAt != "" {
		occurredAt, err = time.Parse(time.RFC3339, req.OccurredAt)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid occurred_at format (use RFC3339)", err)
			return
		}
	}

	result := h.Engine.SubmitActivity(at, engine.Payload(req.Payload), occurredAt)
	observeSubmission(at, result)

	dto := ActivityResultDTO{
		SubmissionID:        uuid.NewString(),
		Success:             result.Success,
		Message:             result.Message,
		XPEarned:            result.XPEarned,
		NewRewards:          toUserRewardDTOs(result.NewRewards),
		CompletedChallenges: toChallengeProgressDTOs(result.CompletedChallenges),
	}
	if dto.NewRewards == nil {
		dto.NewRewards = []UserRewardDTO{}
	}
	if dto.CompletedChallenges == nil {
		dto.CompletedChallenges = []ChallengeProgressDTO{}
	}
	if result.LevelUp != nil {
		dto.LevelUp = &LevelUpDTO{
			OldLevel: result.LevelUp.OldLevel,
			NewLevel: result.LevelUp.NewLevel,
			TotalXP:  result.LevelUp.TotalXP,
		}
	}

	writeJSON(w, http.StatusOK, dto)
}

// =============================================================================
// STATE ACCESSORS
// =============================================================================

// GetProgress returns the user's level state and unlocked rewards.
func (h *Handler) GetProgress(w http.ResponseWriter, r *http.Request) {
	progress := h.Engine.Progress()
	writeJSON(w, http.StatusOK, ProgressDTO{
		CurrentLevel:    progress.CurrentLevel,
		DaysToNextLevel: progress.DaysToNextLevel,
		LevelProgress:   progress.LevelProgress,
		UnlockedRewards: toUserRewardDTOs(progress.UnlockedList()),
	})
}

// ListStreaks returns every tracked streak.
func (h *Handler) ListStreaks(w http.ResponseWriter, r *http.Request) {
	streaks := h.Engine.Streaks()
	dtos := make([]StreakDTO, len(streaks))
	for i, s := range streaks {
		dtos[i] = toStreakDTO(s)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetStreak returns the streak for one activity type.
func (h *Handler) GetStreak(w http.ResponseWriter, r *http.Request) {
	at, err := engine.ParseActivityType(chi.URLParam(r, "type"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Unknown activity type", err)
		return
	}
	writeJSON(w, http.StatusOK, toStreakDTO(h.Engine.StreakFor(at)))
}

// ListRewards returns the unlocked rewards, oldest first.
func (h *Handler) ListRewards(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, toUserRewardDTOs(h.Engine.UnlockedRewards()))
}

// ListRewardCatalog returns the full static catalog.
func (h *Handler) ListRewardCatalog(w http.ResponseWriter, r *http.Request) {
	catalog := h.Engine.RewardCatalog()
	dtos := make([]RewardDTO, len(catalog))
	for i, reward := range catalog {
		dtos[i] = RewardDTO{
			ID:          string(reward.ID),
			Title:       reward.Title,
			Description: reward.Description,
		}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// ListChallenges returns the live state of every challenge instance.
func (h *Handler) ListChallenges(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, toChallengeProgressDTOs(h.Engine.Challenges()))
}

// ListChallengeCatalog returns the static challenge definitions.
func (h *Handler) ListChallengeCatalog(w http.ResponseWriter, r *http.Request) {
	definitions := h.Engine.AvailableChallenges()
	dtos := make([]ChallengeDTO, len(definitions))
	for i, c := range definitions {
		dtos[i] = toChallengeDTO(c)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// =============================================================================
// ADMIN
// =============================================================================

// TriggerRollover runs the rollover check immediately.
func (h *Handler) TriggerRollover(w http.ResponseWriter, r *http.Request) {
	runID := uuid.NewString()
	stats := h.Engine.Rollover()
	observeRollover(stats)

	h.Logger.Info("manual rollover",
		zap.String("run_id", runID),
		zap.Int("daily_reset", stats.DailyReset),
		zap.Int("history_pruned", stats.HistoryPruned))

	writeJSON(w, http.StatusOK, RolloverDTO{
		RunID:         runID,
		DailyReset:    stats.DailyReset,
		WeeklyReset:   stats.WeeklyReset,
		MonthlyReset:  stats.MonthlyReset,
		HistoryPruned: stats.HistoryPruned,
	})
}

// Health is the liveness endpoint.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// =============================================================================
// RESPONSE HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type errorBody struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	body := errorBody{Error: message}
	if err != nil {
		body.Details = err.Error()
	}
	writeJSON(w, status, body)
}
