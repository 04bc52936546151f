package gamification

import (
	"agent_academy_backend/internal/model"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestApplyCompletionDoesNotMutateInput(t *testing.T) {
	prev := &model.UserProgress{TotalXP: 100, ChallengesCompleted: 2, CurrentStreak: 2, AverageScore: 80}
	chProg := &model.ChallengeProgress{Attempts: 1, BestScore: 90, MinutesSpent: 5}

	next := ApplyCompletion(prev, chProg, XPResult{TotalXP: 50})

	assert.Equal(t, 100, prev.TotalXP)
	assert.Equal(t, 2, prev.ChallengesCompleted)
	assert.Equal(t, 150, next.TotalXP)
	assert.Equal(t, 3, next.ChallengesCompleted)
}

func TestApplyCompletionStreakIncrementsOnFirstAttempt(t *testing.T) {
	prev := &model.UserProgress{CurrentStreak: 4, LongestStreak: 4}
	chProg := &model.ChallengeProgress{Attempts: 1, BestScore: 85}

	next := ApplyCompletion(prev, chProg, XPResult{})

	assert.Equal(t, 5, next.CurrentStreak)
	assert.Equal(t, 5, next.LongestStreak)
}

func TestApplyCompletionStreakResetsOnRetry(t *testing.T) {
	prev := &model.UserProgress{CurrentStreak: 7, LongestStreak: 7}
	chProg := &model.ChallengeProgress{Attempts: 3, BestScore: 85}

	next := ApplyCompletion(prev, chProg, XPResult{})

	assert.Zero(t, next.CurrentStreak)
	assert.Equal(t, 7, next.LongestStreak)
}

func TestApplyCompletionRunningAverage(t *testing.T) {
	prev := &model.UserProgress{ChallengesCompleted: 2, AverageScore: 80}
	chProg := &model.ChallengeProgress{Attempts: 2, BestScore: 95}

	next := ApplyCompletion(prev, chProg, XPResult{})

	// (80*2 + 95) / 3
	assert.InDelta(t, 85.0, next.AverageScore, 1e-9)
}

func TestApplyCompletionAccumulatesTime(t *testing.T) {
	prev := &model.UserProgress{TotalMinutesSpent: 40}
	chProg := &model.ChallengeProgress{Attempts: 1, BestScore: 70, MinutesSpent: 12}

	next := ApplyCompletion(prev, chProg, XPResult{})

	assert.Equal(t, 52, next.TotalMinutesSpent)
}
