package repository

import (
	"agent_academy_backend/internal/model"

	"gorm.io/gorm"
)

type AchievementRepository struct {
	DB *gorm.DB
}

func NewAchievementRepository(db *gorm.DB) *AchievementRepository {
	return &AchievementRepository{DB: db}
}

func (r *AchievementRepository) FindByUserID(userID uint) ([]model.Achievement, error) {
	var achievements []model.Achievement
	err := r.DB.Where("user_id = ?", userID).Order("unlocked_at desc").Find(&achievements).Error
	if err != nil {
		return nil, err
	}
	return achievements, nil
}

// UnlockedCodes returns the set of achievement codes already granted to the
// student. The submission pipeline filters evaluator output through it so an
// achievement is never granted twice.
func (r *AchievementRepository) UnlockedCodes(userID uint) (map[string]bool, error) {
	var codes []string
	err := r.DB.Model(&model.Achievement{}).Where("user_id = ?", userID).Pluck("code", &codes).Error
	if err != nil {
		return nil, err
	}

	set := make(map[string]bool, len(codes))
	for _, c := range codes {
		set[c] = true
	}
	return set, nil
}
