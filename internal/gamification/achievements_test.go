package gamification

import (
	"agent_academy_backend/internal/model"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func unlockedCodes(list []model.Achievement) []string {
	codes := make([]string, 0, len(list))
	for _, a := range list {
		codes = append(codes, a.Code)
	}
	return codes
}

func TestEvaluateAchievementsFirstCompletion(t *testing.T) {
	now := time.Now()
	prog := &model.UserProgress{UserID: 7, ChallengesCompleted: 1, TotalXP: 120}
	chProg := &model.ChallengeProgress{Attempts: 2, BestScore: 70}
	sess := &model.ChallengeSession{StartedAt: now.Add(-9 * time.Minute)}
	sess.AddHint("hint-1")

	got := EvaluateAchievements(prog, chProg, sess, testChallenge(), now)

	require.Len(t, got, 1)
	assert.Equal(t, "first_steps", got[0].Code)
	assert.Equal(t, uint(7), got[0].UserID)
	assert.Equal(t, "First Steps", got[0].Name)
	assert.Equal(t, now, got[0].UnlockedAt)
}

func TestEvaluateAchievementsMultipleFireTogether(t *testing.T) {
	// First completion, perfect score, fast, no hints: four rules fire from
	// one submission.
	now := time.Now()
	prog := &model.UserProgress{ChallengesCompleted: 1, TotalXP: 235}
	chProg := &model.ChallengeProgress{Attempts: 1, BestScore: 100}
	sess := &model.ChallengeSession{StartedAt: now.Add(-2 * time.Minute)}

	got := EvaluateAchievements(prog, chProg, sess, testChallenge(), now)

	assert.ElementsMatch(t,
		[]string{"first_steps", "perfectionist", "speed_demon", "independent_learner"},
		unlockedCodes(got))
}

func TestEvaluateAchievementsStreaks(t *testing.T) {
	now := time.Now()
	chProg := &model.ChallengeProgress{Attempts: 1, BestScore: 80}
	sess := &model.ChallengeSession{StartedAt: now.Add(-9 * time.Minute)}
	sess.AddHint("hint-1")

	five := EvaluateAchievements(&model.UserProgress{ChallengesCompleted: 5, CurrentStreak: 5}, chProg, sess, testChallenge(), now)
	assert.Contains(t, unlockedCodes(five), "on_fire")

	ten := EvaluateAchievements(&model.UserProgress{ChallengesCompleted: 10, CurrentStreak: 10}, chProg, sess, testChallenge(), now)
	assert.Contains(t, unlockedCodes(ten), "unstoppable")
	assert.Contains(t, unlockedCodes(ten), "rising_agent")

	six := EvaluateAchievements(&model.UserProgress{ChallengesCompleted: 6, CurrentStreak: 6}, chProg, sess, testChallenge(), now)
	assert.NotContains(t, unlockedCodes(six), "on_fire")
}

func TestEvaluateAchievementsMilestones(t *testing.T) {
	now := time.Now()
	chProg := &model.ChallengeProgress{Attempts: 2, BestScore: 60}
	sess := &model.ChallengeSession{StartedAt: now.Add(-9 * time.Minute)}
	sess.AddHint("hint-1")

	got := EvaluateAchievements(&model.UserProgress{ChallengesCompleted: 25}, chProg, sess, testChallenge(), now)
	assert.Contains(t, unlockedCodes(got), "elite_agent")
}

func TestEvaluateAchievementsLevelUps(t *testing.T) {
	now := time.Now()
	chProg := &model.ChallengeProgress{Attempts: 2, BestScore: 60}
	sess := &model.ChallengeSession{StartedAt: now.Add(-9 * time.Minute)}
	sess.AddHint("hint-1")

	// Level 5 starts at 1600 XP, level 10 at 8100.
	warrior := EvaluateAchievements(&model.UserProgress{ChallengesCompleted: 8, TotalXP: 1600}, chProg, sess, testChallenge(), now)
	assert.Contains(t, unlockedCodes(warrior), "code_warrior")

	master := EvaluateAchievements(&model.UserProgress{ChallengesCompleted: 40, TotalXP: 8100}, chProg, sess, testChallenge(), now)
	assert.Contains(t, unlockedCodes(master), "code_master")
	assert.NotContains(t, unlockedCodes(master), "code_warrior")
}

func TestEvaluateAchievementsNoneQualify(t *testing.T) {
	now := time.Now()
	prog := &model.UserProgress{ChallengesCompleted: 3, CurrentStreak: 1, TotalXP: 300}
	chProg := &model.ChallengeProgress{Attempts: 4, BestScore: 55}
	sess := &model.ChallengeSession{StartedAt: now.Add(-9 * time.Minute)}
	sess.AddHint("hint-1")

	assert.Empty(t, EvaluateAchievements(prog, chProg, sess, testChallenge(), now))
}
