package gamification

import (
	"agent_academy_backend/internal/model"
	"time"
)

// AchievementDef defines a single achievement.
type AchievementDef struct {
	Code        string
	Name        string
	Description string
	Icon        string
	Category    string
	XP          int
}

// AchievementDefs maps achievement codes to their definitions.
var AchievementDefs = map[string]AchievementDef{
	"first_steps":         {Code: "first_steps", Name: "First Steps", Description: "Complete your first mission", Icon: "👣", Category: "milestone", XP: 25},
	"perfectionist":       {Code: "perfectionist", Name: "Perfectionist", Description: "Score 100% on a mission", Icon: "💯", Category: "mastery", XP: 50},
	"speed_demon":         {Code: "speed_demon", Name: "Speed Demon", Description: "Finish a mission in under 30% of the estimated time", Icon: "⚡", Category: "mastery", XP: 50},
	"independent_learner": {Code: "independent_learner", Name: "Independent Learner", Description: "Score 90%+ without unlocking a single hint", Icon: "🧭", Category: "mastery", XP: 40},
	"on_fire":             {Code: "on_fire", Name: "On Fire", Description: "Reach a 5 mission streak", Icon: "🔥", Category: "streak", XP: 50},
	"unstoppable":         {Code: "unstoppable", Name: "Unstoppable", Description: "Reach a 10 mission streak", Icon: "🚀", Category: "streak", XP: 100},
	"rising_agent":        {Code: "rising_agent", Name: "Rising Agent", Description: "Complete 10 missions", Icon: "🕵️", Category: "milestone", XP: 75},
	"elite_agent":         {Code: "elite_agent", Name: "Elite Agent", Description: "Complete 25 missions", Icon: "🎖️", Category: "milestone", XP: 150},
	"code_warrior":        {Code: "code_warrior", Name: "Code Warrior", Description: "Reach level 5", Icon: "⚔️", Category: "level", XP: 100},
	"code_master":         {Code: "code_master", Name: "Code Master", Description: "Reach level 10", Icon: "🏆", Category: "level", XP: 250},
}

// EvaluateAchievements scans the post-submission state for threshold crossings
// and returns the achievements that qualify. Stateless: it has no memory of
// past grants, so the caller must filter against already-unlocked codes.
func EvaluateAchievements(prog *model.UserProgress, chProg *model.ChallengeProgress, sess *model.ChallengeSession, ch *model.Challenge, now time.Time) []model.Achievement {
	var codes []string

	if prog.ChallengesCompleted == 1 {
		codes = append(codes, "first_steps")
	}
	if chProg.BestScore == 100 {
		codes = append(codes, "perfectionist")
	}
	elapsedMinutes := now.Sub(sess.StartedAt).Minutes()
	if elapsedMinutes < float64(ch.EstimatedMinutes)*0.3 {
		codes = append(codes, "speed_demon")
	}
	if len(sess.HintIDs()) == 0 && chProg.BestScore >= 90 {
		codes = append(codes, "independent_learner")
	}
	if prog.CurrentStreak == 5 {
		codes = append(codes, "on_fire")
	}
	if prog.CurrentStreak == 10 {
		codes = append(codes, "unstoppable")
	}
	if prog.ChallengesCompleted == 10 {
		codes = append(codes, "rising_agent")
	}
	if prog.ChallengesCompleted == 25 {
		codes = append(codes, "elite_agent")
	}

	switch ResolveLevel(prog.TotalXP).Level {
	case 5:
		codes = append(codes, "code_warrior")
	case 10:
		codes = append(codes, "code_master")
	}

	unlocked := make([]model.Achievement, 0, len(codes))
	for _, code := range codes {
		def := AchievementDefs[code]
		unlocked = append(unlocked, model.Achievement{
			UserID:      prog.UserID,
			Code:        def.Code,
			Name:        def.Name,
			Description: def.Description,
			Icon:        def.Icon,
			Category:    def.Category,
			XPReward:    def.XP,
			UnlockedAt:  now,
		})
	}
	return unlocked
}
