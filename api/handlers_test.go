/*
handlers_test.go - HTTP surface tests

Tests for:
- Activity submission (success, engine rejection, transport errors)
- State accessors (progress, streaks, rewards, challenges)
- Manual rollover and liveness
*/
package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/warp/rewards-engine/catalog"
	"github.com/warp/rewards-engine/engine"
	"github.com/warp/rewards-engine/engine/store"
	"github.com/warp/rewards-engine/leveling"
)

func newTestRouter(t *testing.T) (http.Handler, *engine.FixedClock) {
	t.Helper()

	clk := &engine.FixedClock{Current: time.Date(2026, time.January, 5, 12, 0, 0, 0, time.UTC)}
	cats := catalog.Default()

	eng, err := engine.New(engine.Options{
		Store:      store.NewMemory(),
		Curve:      leveling.Default(),
		Catalog:    cats.Rewards,
		Challenges: cats.Challenges,
		Clock:      clk,
	})
	if err != nil {
		t.Fatalf("failed to construct engine: %v", err)
	}

	h := NewHandler(eng, nil)
	return NewRouter(h, []string{"http://localhost:5173"}), clk
}

func doJSON(t *testing.T, router http.Handler, method, path string, body any, out any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("failed to encode body: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if out != nil && rec.Code == http.StatusOK {
		if err := json.Unmarshal(rec.Body.Bytes(), out); err != nil {
			t.Fatalf("failed to decode response %q: %v", rec.Body.String(), err)
		}
	}
	return rec
}

// =============================================================================
// ACTIVITY SUBMISSION
// =============================================================================

func TestSubmitActivity_Success(t *testing.T) {
	// GIVEN: A fresh engine behind the router
	// WHEN: A meal is submitted
	// THEN: 200 with XP, the first-meal reward, and a submission id

	router, _ := newTestRouter(t)

	var result ActivityResultDTO
	rec := doJSON(t, router, http.MethodPost, "/api/activities",
		SubmitActivityRequest{ActivityType: "meal_logging"}, &result)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if !result.Success {
		t.Errorf("expected success, got %+v", result)
	}
	if result.XPEarned != 10 {
		t.Errorf("expected 10 XP, got %d", result.XPEarned)
	}
	if result.SubmissionID == "" {
		t.Error("expected a submission id")
	}

	found := false
	for _, r := range result.NewRewards {
		if r.ID == "first_meal" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected first_meal in new rewards, got %+v", result.NewRewards)
	}
	if len(result.CompletedChallenges) != 1 || result.CompletedChallenges[0].Challenge.ID != "daily_meal" {
		t.Errorf("expected daily_meal completed, got %+v", result.CompletedChallenges)
	}
}

func TestSubmitActivity_EngineRejection_Is200WithFailure(t *testing.T) {
	// An implausible payload is a domain outcome, not a transport error.

	router, _ := newTestRouter(t)

	var result ActivityResultDTO
	rec := doJSON(t, router, http.MethodPost, "/api/activities",
		SubmitActivityRequest{
			ActivityType: "exercise",
			Payload:      map[string]float64{"calories": 6000},
		}, &result)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for a rejected submission, got %d", rec.Code)
	}
	if result.Success {
		t.Error("expected success=false")
	}
	if result.XPEarned != 0 {
		t.Errorf("expected 0 XP, got %d", result.XPEarned)
	}
	if result.NewRewards == nil || result.CompletedChallenges == nil {
		t.Error("expected empty arrays, not null")
	}
}

func TestSubmitActivity_WithOccurredAt(t *testing.T) {
	router, clk := newTestRouter(t)
	occurredAt := clk.Now().Add(-2 * time.Hour).Format(time.RFC3339)

	var result ActivityResultDTO
	rec := doJSON(t, router, http.MethodPost, "/api/activities",
		SubmitActivityRequest{ActivityType: "meditation", OccurredAt: occurredAt}, &result)

	if rec.Code != http.StatusOK || !result.Success {
		t.Fatalf("expected successful submission, got %d %+v", rec.Code, result)
	}
	if result.XPEarned != 15 {
		t.Errorf("expected 15 XP for meditation, got %d", result.XPEarned)
	}
}

func TestSubmitActivity_TransportErrors(t *testing.T) {
	router, _ := newTestRouter(t)

	cases := []struct {
		name string
		body any
		raw  string
	}{
		{"unknown activity type", SubmitActivityRequest{ActivityType: "nap"}, ""},
		{"missing activity type", SubmitActivityRequest{}, ""},
		{"bad occurred_at", SubmitActivityRequest{ActivityType: "meal_logging", OccurredAt: "yesterday"}, ""},
		{"malformed body", nil, `{"activity_type":`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var rec *httptest.ResponseRecorder
			if tc.raw != "" {
				req := httptest.NewRequest(http.MethodPost, "/api/activities",
					bytes.NewBufferString(tc.raw))
				rec = httptest.NewRecorder()
				router.ServeHTTP(rec, req)
			} else {
				rec = doJSON(t, router, http.MethodPost, "/api/activities", tc.body, nil)
			}
			if rec.Code != http.StatusBadRequest {
				t.Errorf("expected 400, got %d: %s", rec.Code, rec.Body.String())
			}
		})
	}
}

// =============================================================================
// STATE ACCESSORS
// =============================================================================

func TestGetProgress(t *testing.T) {
	router, _ := newTestRouter(t)
	doJSON(t, router, http.MethodPost, "/api/activities",
		SubmitActivityRequest{ActivityType: "meal_logging"}, nil)

	var progress ProgressDTO
	rec := doJSON(t, router, http.MethodGet, "/api/progress", nil, &progress)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if progress.CurrentLevel != 1 {
		t.Errorf("expected level 1, got %d", progress.CurrentLevel)
	}
	if len(progress.UnlockedRewards) == 0 {
		t.Error("expected unlocked rewards after first meal")
	}
}

func TestGetStreak(t *testing.T) {
	router, _ := newTestRouter(t)
	doJSON(t, router, http.MethodPost, "/api/activities",
		SubmitActivityRequest{ActivityType: "meal_logging"}, nil)

	var streak StreakDTO
	rec := doJSON(t, router, http.MethodGet, "/api/streaks/meal_logging", nil, &streak)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if streak.CurrentStreak != 1 || streak.ActivityType != "meal_logging" {
		t.Errorf("unexpected streak: %+v", streak)
	}
	if streak.LastActivityDate != "2026-01-05" {
		t.Errorf("expected last date 2026-01-05, got %q", streak.LastActivityDate)
	}

	rec = doJSON(t, router, http.MethodGet, "/api/streaks/nap", nil, nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for unknown type, got %d", rec.Code)
	}
}

func TestListStreaks(t *testing.T) {
	router, _ := newTestRouter(t)
	doJSON(t, router, http.MethodPost, "/api/activities",
		SubmitActivityRequest{ActivityType: "meal_logging"}, nil)
	doJSON(t, router, http.MethodPost, "/api/activities",
		SubmitActivityRequest{ActivityType: "exercise"}, nil)

	var streaks []StreakDTO
	rec := doJSON(t, router, http.MethodGet, "/api/streaks", nil, &streaks)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if len(streaks) != 2 {
		t.Errorf("expected 2 streaks, got %d", len(streaks))
	}
}

func TestListRewardCatalog(t *testing.T) {
	router, _ := newTestRouter(t)

	var rewards []RewardDTO
	rec := doJSON(t, router, http.MethodGet, "/api/rewards/catalog", nil, &rewards)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if len(rewards) != 18 {
		t.Errorf("expected the 18 built-in rewards, got %d", len(rewards))
	}
}

func TestListChallenges(t *testing.T) {
	router, _ := newTestRouter(t)

	var challenges []ChallengeProgressDTO
	rec := doJSON(t, router, http.MethodGet, "/api/challenges", nil, &challenges)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if len(challenges) != 3 {
		t.Errorf("expected 3 challenge instances, got %d", len(challenges))
	}
}

func TestListChallengeCatalog(t *testing.T) {
	router, _ := newTestRouter(t)

	var definitions []ChallengeDTO
	rec := doJSON(t, router, http.MethodGet, "/api/challenges/catalog", nil, &definitions)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if len(definitions) != 3 {
		t.Fatalf("expected 3 challenge definitions, got %d", len(definitions))
	}
	for _, d := range definitions {
		if d.Period == "" || d.RequiredActivity == "" || d.TargetValue <= 0 {
			t.Errorf("incomplete definition: %+v", d)
		}
	}
}

// =============================================================================
// ADMIN AND LIVENESS
// =============================================================================

func TestTriggerRollover(t *testing.T) {
	router, clk := newTestRouter(t)
	doJSON(t, router, http.MethodPost, "/api/activities",
		SubmitActivityRequest{ActivityType: "meal_logging"}, nil)

	clk.Advance(24 * time.Hour)

	var rollover RolloverDTO
	rec := doJSON(t, router, http.MethodPost, "/api/admin/rollover", nil, &rollover)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if rollover.RunID == "" {
		t.Error("expected a run id")
	}
	if rollover.DailyReset != 1 {
		t.Errorf("expected 1 daily reset, got %d", rollover.DailyReset)
	}
}

func TestHealth(t *testing.T) {
	router, _ := newTestRouter(t)

	var body map[string]string
	rec := doJSON(t, router, http.MethodGet, "/healthz", nil, &body)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if body["status"] != "ok" {
		t.Errorf("expected status ok, got %q", body["status"])
	}
}
