/*
xp_test.go - Award table and multiplier tier tests
*/
package engine

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestStreakMultiplier_HighestTierWins(t *testing.T) {
	cases := []struct {
		streak int
		want   string
	}{
		{0, "1"},
		{6, "1"},
		{7, "1.1"},
		{29, "1.1"},
		{30, "1.2"},
		{99, "1.2"},
		{100, "1.5"},
		{364, "1.5"},
		{365, "2"},
		{1000, "2"},
	}
	for _, tc := range cases {
		want, _ := decimal.NewFromString(tc.want)
		if got := StreakMultiplier(tc.streak); !got.Equal(want) {
			t.Errorf("streak %d: expected multiplier %s, got %s", tc.streak, want, got)
		}
	}
}

func TestComputeXP_BaseAwards(t *testing.T) {
	// Streak below every tier: the base table applies unmodified.
	cases := []struct {
		at   ActivityType
		want int
	}{
		{ActivityMealLogging, 10},
		{ActivityExercise, 20},
		{ActivityCalorieGoal, 20},
		{ActivitySteps, 5},
		{ActivityWeightCheckIn, 15},
		{ActivityMeditation, 15},
		{ActivityDailyGoalCompletion, 50},
	}
	for _, tc := range cases {
		streak := ActivityStreak{Type: tc.at, CurrentStreak: 1}
		if got := ComputeXP(tc.at, streak); got != tc.want {
			t.Errorf("%s: expected %d XP, got %d", tc.at, tc.want, got)
		}
	}
}

func TestComputeXP_MultipliedAwards(t *testing.T) {
	cases := []struct {
		name   string
		at     ActivityType
		streak int
		want   int
	}{
		{"meal at 7-day tier rounds 11.0 to 11", ActivityMealLogging, 7, 11},
		{"steps at 30-day tier", ActivitySteps, 30, 6},
		{"weight at 100-day tier rounds 22.5 up", ActivityWeightCheckIn, 100, 23},
		{"meditation at 7-day tier rounds 16.5 up", ActivityMeditation, 7, 17},
		{"meal at year tier doubles", ActivityMealLogging, 365, 20},
		{"exercise at year tier doubles", ActivityExercise, 365, 40},
		{"daily goal at year tier", ActivityDailyGoalCompletion, 365, 100},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			streak := ActivityStreak{Type: tc.at, CurrentStreak: tc.streak}
			if got := ComputeXP(tc.at, streak); got != tc.want {
				t.Errorf("expected %d XP, got %d", tc.want, got)
			}
		})
	}
}
