package gamification

import (
	"agent_academy_backend/internal/model"
	"fmt"
	"math"
	"time"
)

// XPResult is the reward breakdown for one completed submission.
// swagger:model XPResult
type XPResult struct {
	BaseXP  int      `json:"baseXp"`
	BonusXP int      `json:"bonusXp"`
	TotalXP int      `json:"totalXp"`
	Reasons []string `json:"reasons"`
}

// Streak bonus multiplier caps at 3x (reached at a 15 streak).
const maxStreakMultiplier = 3.0

// CalculateXP computes base plus bonus XP for a submission. Pure: the caller
// supplies now so the speed bonus never reads the wall clock itself.
func CalculateXP(ch *model.Challenge, sub *model.CodeSubmission, sess *model.ChallengeSession, prog *model.UserProgress, now time.Time) XPResult {
	if !sub.Valid {
		return XPResult{Reasons: []string{"not completed"}}
	}

	baseXP := ch.XPReward * sub.Score / 100
	result := XPResult{
		BaseXP:  baseXP,
		Reasons: []string{fmt.Sprintf("Mission reward: +%d XP (score %d%%)", baseXP, sub.Score)},
	}

	if sess.Attempts == 1 {
		bonus := int(math.Floor(float64(ch.XPReward) * 0.5))
		result.BonusXP += bonus
		result.Reasons = append(result.Reasons, fmt.Sprintf("First attempt: +%d XP", bonus))
	}

	if len(sess.HintIDs()) == 0 {
		bonus := int(math.Floor(float64(ch.XPReward) * 0.3))
		result.BonusXP += bonus
		result.Reasons = append(result.Reasons, fmt.Sprintf("No hints used: +%d XP", bonus))
	}

	if sub.Score == 100 {
		bonus := int(math.Floor(float64(ch.XPReward) * 0.2))
		result.BonusXP += bonus
		result.Reasons = append(result.Reasons, fmt.Sprintf("Perfect score: +%d XP", bonus))
	}

	elapsedMinutes := now.Sub(sess.StartedAt).Minutes()
	if elapsedMinutes < float64(ch.EstimatedMinutes)*0.5 {
		bonus := int(math.Floor(float64(ch.XPReward) * 0.25))
		result.BonusXP += bonus
		result.Reasons = append(result.Reasons, fmt.Sprintf("Speed bonus: +%d XP", bonus))
	}

	if prog.CurrentStreak >= 5 {
		multiplier := math.Min(float64(prog.CurrentStreak)/5.0, maxStreakMultiplier)
		bonus := int(math.Floor(float64(baseXP) * 0.1 * multiplier))
		result.BonusXP += bonus
		result.Reasons = append(result.Reasons, fmt.Sprintf("Streak bonus (x%.1f): +%d XP", multiplier, bonus))
	}

	result.TotalXP = result.BaseXP + result.BonusXP
	return result
}
