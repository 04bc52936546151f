package model

import "time"

// Achievement is an immutable fact once unlocked. The (user_id, code) unique
// index guarantees each achievement is granted at most once per student.
// swagger:model Achievement
type Achievement struct {
	BaseModel
	UserID      uint      `gorm:"index:idx_user_achievement,unique;type:bigint unsigned" json:"userId"`
	Code        string    `gorm:"index:idx_user_achievement,unique;size:50;not null" json:"code"`
	Name        string    `gorm:"size:100;not null" json:"name"`
	Description string    `gorm:"size:255" json:"description"`
	Icon        string    `gorm:"size:16" json:"icon"`
	Category    string    `gorm:"size:50" json:"category"`
	XPReward    int       `gorm:"default:0" json:"xpReward"`
	UnlockedAt  time.Time `json:"unlockedAt"`
}

func (Achievement) TableName() string {
	return "achievements"
}
