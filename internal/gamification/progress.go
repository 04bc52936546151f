package gamification

import "agent_academy_backend/internal/model"

// ApplyCompletion folds one completed challenge into the student's cumulative
// progress and returns a new snapshot; the input is never mutated.
//
// The streak counts consecutive first-attempt completions: it increments only
// when the challenge was solved on attempt one and resets to zero otherwise.
func ApplyCompletion(prev *model.UserProgress, chProg *model.ChallengeProgress, xp XPResult) model.UserProgress {
	next := *prev

	next.TotalXP += xp.TotalXP
	next.ChallengesCompleted++

	if chProg.Attempts == 1 {
		next.CurrentStreak++
	} else {
		next.CurrentStreak = 0
	}
	if next.CurrentStreak > next.LongestStreak {
		next.LongestStreak = next.CurrentStreak
	}

	n := float64(next.ChallengesCompleted)
	next.AverageScore = (prev.AverageScore*(n-1) + float64(chProg.BestScore)) / n

	next.TotalMinutesSpent += chProg.MinutesSpent

	return next
}
