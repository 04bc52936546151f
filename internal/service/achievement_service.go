package service

import (
	"agent_academy_backend/internal/gamification"
	"agent_academy_backend/internal/model"
	"agent_academy_backend/internal/repository"
	"context"
	"errors"

	"gorm.io/gorm"
)

const defaultLeaderboardSize = 10

type AchievementService struct {
	AchievementRepo *repository.AchievementRepository
	ProgressRepo    *repository.ProgressRepository
	UserRepo        *repository.UserRepository
}

func NewAchievementService(achievementRepo *repository.AchievementRepository, progressRepo *repository.ProgressRepository, userRepo *repository.UserRepository) *AchievementService {
	return &AchievementService{
		AchievementRepo: achievementRepo,
		ProgressRepo:    progressRepo,
		UserRepo:        userRepo,
	}
}

type AchievementOverview struct {
	Achievements []model.Achievement    `json:"achievements"`
	TotalXP      int                    `json:"totalXp"`
	Level        gamification.LevelInfo `json:"level"`
}

func (s *AchievementService) GetUserAchievements(userID uint) (*AchievementOverview, error) {
	achievements, err := s.AchievementRepo.FindByUserID(userID)
	if err != nil {
		return nil, err
	}

	totalXP := 0
	prog, err := s.ProgressRepo.FindByUserID(userID)
	if err == nil {
		totalXP = prog.TotalXP
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	return &AchievementOverview{
		Achievements: achievements,
		TotalXP:      totalXP,
		Level:        gamification.ResolveLevel(totalXP),
	}, nil
}

// LeaderboardRow is one ranked entry with the agent identity resolved.
type LeaderboardRow struct {
	Rank     int    `json:"rank"`
	UserID   uint   `json:"userId"`
	Name     string `json:"name"`
	CodeName string `json:"codeName"`
	XP       int    `json:"xp"`
	Level    int    `json:"level"`
	Badge    string `json:"badge"`
}

func (s *AchievementService) GetLeaderboard(ctx context.Context, limit int) ([]LeaderboardRow, error) {
	if limit <= 0 {
		limit = defaultLeaderboardSize
	}

	entries, err := s.ProgressRepo.TopByXP(ctx, limit)
	if err != nil {
		return nil, err
	}

	ids := make([]uint, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, e.UserID)
	}
	users, err := s.UserRepo.FindByIDs(ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uint]model.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}

	rows := make([]LeaderboardRow, 0, len(entries))
	for i, e := range entries {
		level := gamification.ResolveLevel(e.XP)
		row := LeaderboardRow{
			Rank:   i + 1,
			UserID: e.UserID,
			XP:     e.XP,
			Level:  level.Level,
			Badge:  level.Badge,
		}
		if u, ok := byID[e.UserID]; ok {
			row.Name = u.Name
			row.CodeName = u.CodeName
		}
		rows = append(rows, row)
	}
	return rows, nil
}
