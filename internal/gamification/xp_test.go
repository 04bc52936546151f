package gamification

import (
	"agent_academy_backend/internal/model"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testChallenge() *model.Challenge {
	return &model.Challenge{
		Title:            "Decode the Cipher",
		XPReward:         100,
		EstimatedMinutes: 10,
	}
}

func TestCalculateXPInvalidSubmission(t *testing.T) {
	now := time.Now()
	sess := &model.ChallengeSession{StartedAt: now.Add(-2 * time.Minute), Attempts: 1}
	sub := &model.CodeSubmission{Valid: false, Score: 80}

	result := CalculateXP(testChallenge(), sub, sess, &model.UserProgress{}, now)

	assert.Zero(t, result.BaseXP)
	assert.Zero(t, result.BonusXP)
	assert.Zero(t, result.TotalXP)
	assert.Equal(t, []string{"not completed"}, result.Reasons)
}

func TestCalculateXPFullBonusStack(t *testing.T) {
	// xpReward=100, estimated=10min, score=100, attempts=1, no hints,
	// elapsed 2min, streak=5: base 100, bonuses 50+30+20+25+10 = 135.
	now := time.Now()
	sess := &model.ChallengeSession{StartedAt: now.Add(-2 * time.Minute), Attempts: 1}
	sub := &model.CodeSubmission{Valid: true, Score: 100}
	prog := &model.UserProgress{CurrentStreak: 5}

	result := CalculateXP(testChallenge(), sub, sess, prog, now)

	require.Equal(t, 100, result.BaseXP)
	assert.Equal(t, 135, result.BonusXP)
	assert.Equal(t, 235, result.TotalXP)
	assert.Len(t, result.Reasons, 6)
}

func TestCalculateXPBonusAdditivity(t *testing.T) {
	// Every bonus gate off: total must equal base exactly.
	now := time.Now()
	sess := &model.ChallengeSession{StartedAt: now.Add(-8 * time.Minute), Attempts: 3}
	sess.AddHint("hint-1")
	sub := &model.CodeSubmission{Valid: true, Score: 73}
	prog := &model.UserProgress{CurrentStreak: 2}

	result := CalculateXP(testChallenge(), sub, sess, prog, now)

	assert.Equal(t, 73, result.BaseXP)
	assert.Zero(t, result.BonusXP)
	assert.Equal(t, result.BaseXP, result.TotalXP)
}

func TestCalculateXPStreakMultiplierCap(t *testing.T) {
	now := time.Now()
	sub := &model.CodeSubmission{Valid: true, Score: 80}

	bonusAt := func(streak int) int {
		sess := &model.ChallengeSession{StartedAt: now.Add(-8 * time.Minute), Attempts: 2}
		sess.AddHint("hint-1")
		prog := &model.UserProgress{CurrentStreak: streak}
		r := CalculateXP(testChallenge(), sub, sess, prog, now)
		return r.BonusXP
	}

	// 15 and 20 both clamp to the 3x multiplier.
	assert.Equal(t, bonusAt(15), bonusAt(20))
	assert.Greater(t, bonusAt(15), bonusAt(5))
}

func TestCalculateXPSpeedBonusBoundary(t *testing.T) {
	now := time.Now()
	sub := &model.CodeSubmission{Valid: true, Score: 50}
	prog := &model.UserProgress{}

	// Exactly half the estimated time does not qualify; strictly less does.
	atBoundary := &model.ChallengeSession{StartedAt: now.Add(-5 * time.Minute), Attempts: 2}
	atBoundary.AddHint("hint-1")
	under := &model.ChallengeSession{StartedAt: now.Add(-4 * time.Minute), Attempts: 2}
	under.AddHint("hint-1")

	assert.Zero(t, CalculateXP(testChallenge(), sub, atBoundary, prog, now).BonusXP)
	assert.Equal(t, 25, CalculateXP(testChallenge(), sub, under, prog, now).BonusXP)
}

func TestCalculateXPBaseFloors(t *testing.T) {
	now := time.Now()
	ch := &model.Challenge{XPReward: 75, EstimatedMinutes: 10}
	sess := &model.ChallengeSession{StartedAt: now.Add(-9 * time.Minute), Attempts: 2}
	sess.AddHint("hint-1")
	sub := &model.CodeSubmission{Valid: true, Score: 33}

	result := CalculateXP(ch, sub, sess, &model.UserProgress{}, now)

	// floor(75 * 33 / 100) = 24
	assert.Equal(t, 24, result.BaseXP)
}

func TestCalculateXPNeverNegative(t *testing.T) {
	now := time.Now()
	sess := &model.ChallengeSession{StartedAt: now, Attempts: 5}
	sess.AddHint("hint-1")
	sub := &model.CodeSubmission{Valid: true, Score: 0}

	result := CalculateXP(testChallenge(), sub, sess, &model.UserProgress{}, now)
	assert.GreaterOrEqual(t, result.TotalXP, 0)
}
