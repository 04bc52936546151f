package model

import (
	"encoding/json"
	"time"
)

type ChallengeDifficulty string

const (
	DifficultyBeginner     ChallengeDifficulty = "beginner"
	DifficultyIntermediate ChallengeDifficulty = "intermediate"
	DifficultyAdvanced     ChallengeDifficulty = "advanced"
)

// swagger:model Challenge
type Challenge struct {
	BaseModel
	Title            string              `gorm:"size:200;not null" json:"title"`
	Brief            string              `gorm:"type:text" json:"brief"` // mission briefing shown to the student
	Category         string              `gorm:"size:50;index" json:"category"`
	Difficulty       ChallengeDifficulty `gorm:"type:varchar(20);default:'beginner'" json:"difficulty"`
	XPReward         int                 `gorm:"default:0" json:"xpReward"`
	EstimatedMinutes int                 `gorm:"default:10" json:"estimatedMinutes"`
	Published        bool                `gorm:"default:true" json:"published"`
}

func (Challenge) TableName() string {
	return "challenges"
}

// ChallengeSession is the live attempt context for one student on one challenge.
// Attempts bump on every run/check; unlocked hint ids accumulate as JSON.
// swagger:model ChallengeSession
type ChallengeSession struct {
	BaseModel
	UserID        uint       `gorm:"index;type:bigint unsigned" json:"userId"`
	ChallengeID   uint       `gorm:"index;type:bigint unsigned" json:"challengeId"`
	StartedAt     time.Time  `json:"startedAt"`
	Attempts      int        `gorm:"default:0" json:"attempts"`
	HintsUnlocked string     `gorm:"type:json" json:"hintsUnlocked"`
	CompletedAt   *time.Time `json:"completedAt,omitempty"`
}

func (ChallengeSession) TableName() string {
	return "challenge_sessions"
}

func (s *ChallengeSession) HintIDs() []string {
	if s.HintsUnlocked == "" {
		return nil
	}
	var ids []string
	if err := json.Unmarshal([]byte(s.HintsUnlocked), &ids); err != nil {
		return nil
	}
	return ids
}

func (s *ChallengeSession) AddHint(hintID string) {
	ids := s.HintIDs()
	for _, id := range ids {
		if id == hintID {
			return
		}
	}
	ids = append(ids, hintID)
	raw, _ := json.Marshal(ids)
	s.HintsUnlocked = string(raw)
}

// CodeSubmission is one run/check attempt. Append-only audit row; the
// validation result arrives with the request, produced by the lesson runner.
// swagger:model CodeSubmission
type CodeSubmission struct {
	BaseModel
	UserID      uint   `gorm:"index;type:bigint unsigned" json:"userId"`
	ChallengeID uint   `gorm:"index;type:bigint unsigned" json:"challengeId"`
	SessionID   uint   `gorm:"index;type:bigint unsigned" json:"sessionId"`
	Code        string `gorm:"type:text" json:"code"`
	Valid       bool   `gorm:"default:false" json:"valid"`
	Score       int    `gorm:"default:0" json:"score"`
	XPAwarded   int    `gorm:"default:0" json:"xpAwarded"`
}

func (CodeSubmission) TableName() string {
	return "code_submissions"
}
