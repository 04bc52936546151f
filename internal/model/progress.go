package model

// UserProgress is the cumulative per-student state. TotalXP never decreases;
// CurrentStreak resets to 0 when a completion needed more than one attempt.
// swagger:model UserProgress
type UserProgress struct {
	BaseModel
	UserID              uint    `gorm:"uniqueIndex;type:bigint unsigned" json:"userId"`
	TotalXP             int     `gorm:"default:0" json:"totalXp"`
	ChallengesCompleted int     `gorm:"default:0" json:"challengesCompleted"`
	CurrentStreak       int     `gorm:"default:0" json:"currentStreak"`
	LongestStreak       int     `gorm:"default:0" json:"longestStreak"`
	AverageScore        float64 `gorm:"default:0" json:"averageScore"`
	TotalMinutesSpent   int     `gorm:"default:0" json:"totalMinutesSpent"`
}

func (UserProgress) TableName() string {
	return "user_progresses"
}

// ChallengeProgress is the per-challenge-per-student record.
// BestScore only increases.
// swagger:model ChallengeProgress
type ChallengeProgress struct {
	BaseModel
	UserID       uint `gorm:"index:idx_user_challenge,unique;type:bigint unsigned" json:"userId"`
	ChallengeID  uint `gorm:"index:idx_user_challenge,unique;type:bigint unsigned" json:"challengeId"`
	Attempts     int  `gorm:"default:0" json:"attempts"`
	BestScore    int  `gorm:"default:0" json:"bestScore"`
	MinutesSpent int  `gorm:"default:0" json:"minutesSpent"`
}

func (ChallengeProgress) TableName() string {
	return "challenge_progresses"
}
