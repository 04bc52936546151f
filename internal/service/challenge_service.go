package service

import (
	"agent_academy_backend/internal/model"
	"agent_academy_backend/internal/repository"
	"agent_academy_backend/internal/util"
	"errors"
	"time"

	"gorm.io/gorm"
)

type ChallengeService struct {
	ChallengeRepo *repository.ChallengeRepository
	SessionRepo   *repository.SessionRepository

	now func() time.Time
}

func NewChallengeService(challengeRepo *repository.ChallengeRepository, sessionRepo *repository.SessionRepository) *ChallengeService {
	return &ChallengeService{
		ChallengeRepo: challengeRepo,
		SessionRepo:   sessionRepo,
		now:           time.Now,
	}
}

func (s *ChallengeService) ListChallenges(category string, limit, offset int) ([]model.Challenge, int64, error) {
	return s.ChallengeRepo.ListPublished(category, limit, offset)
}

func (s *ChallengeService) GetChallenge(id uint) (*model.Challenge, error) {
	ch, err := s.ChallengeRepo.FindByID(id)
	if err != nil {
		return nil, util.ErrChallengeNotFound
	}
	return ch, nil
}

type CreateChallengeRequest struct {
	Title            string                    `json:"title" binding:"required"`
	Brief            string                    `json:"brief"`
	Category         string                    `json:"category"`
	Difficulty       model.ChallengeDifficulty `json:"difficulty"`
	XPReward         int                       `json:"xpReward" binding:"required,min=1"`
	EstimatedMinutes int                       `json:"estimatedMinutes"`
	Published        *bool                     `json:"published"`
}

func (s *ChallengeService) CreateChallenge(req CreateChallengeRequest) (*model.Challenge, error) {
	ch := &model.Challenge{
		Title:            req.Title,
		Brief:            req.Brief,
		Category:         req.Category,
		Difficulty:       req.Difficulty,
		XPReward:         req.XPReward,
		EstimatedMinutes: req.EstimatedMinutes,
		Published:        true,
	}
	if ch.Difficulty == "" {
		ch.Difficulty = model.DifficultyBeginner
	}
	if ch.EstimatedMinutes <= 0 {
		ch.EstimatedMinutes = 10
	}
	if req.Published != nil {
		ch.Published = *req.Published
	}

	if err := s.ChallengeRepo.Create(ch); err != nil {
		return nil, err
	}
	return ch, nil
}

type UpdateChallengeRequest struct {
	Title            *string                    `json:"title"`
	Brief            *string                    `json:"brief"`
	Category         *string                    `json:"category"`
	Difficulty       *model.ChallengeDifficulty `json:"difficulty"`
	XPReward         *int                       `json:"xpReward"`
	EstimatedMinutes *int                       `json:"estimatedMinutes"`
	Published        *bool                      `json:"published"`
}

func (s *ChallengeService) UpdateChallenge(id uint, req UpdateChallengeRequest) (*model.Challenge, error) {
	ch, err := s.ChallengeRepo.FindByID(id)
	if err != nil {
		return nil, util.ErrChallengeNotFound
	}

	if req.Title != nil {
		ch.Title = *req.Title
	}
	if req.Brief != nil {
		ch.Brief = *req.Brief
	}
	if req.Category != nil {
		ch.Category = *req.Category
	}
	if req.Difficulty != nil {
		ch.Difficulty = *req.Difficulty
	}
	if req.XPReward != nil && *req.XPReward > 0 {
		ch.XPReward = *req.XPReward
	}
	if req.EstimatedMinutes != nil && *req.EstimatedMinutes > 0 {
		ch.EstimatedMinutes = *req.EstimatedMinutes
	}
	if req.Published != nil {
		ch.Published = *req.Published
	}

	if err := s.ChallengeRepo.Update(ch); err != nil {
		return nil, err
	}
	return ch, nil
}

// StartChallenge opens an attempt session. Re-opening a challenge the student
// has not finished reuses the existing session so elapsed time and attempts
// keep accumulating.
func (s *ChallengeService) StartChallenge(userID, challengeID uint) (*model.ChallengeSession, error) {
	if _, err := s.ChallengeRepo.FindByID(challengeID); err != nil {
		return nil, util.ErrChallengeNotFound
	}

	sess, err := s.SessionRepo.FindOpen(userID, challengeID)
	if err == nil {
		return sess, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	sess = &model.ChallengeSession{
		UserID:      userID,
		ChallengeID: challengeID,
		StartedAt:   s.now(),
	}
	if err := s.SessionRepo.Create(sess); err != nil {
		return nil, err
	}
	return sess, nil
}

type UnlockHintRequest struct {
	HintID string `json:"hintId" binding:"required"`
}

// UnlockHint records a hint view on the open session. Any unlocked hint costs
// the hint-free XP bonus for that completion.
func (s *ChallengeService) UnlockHint(userID, challengeID uint, hintID string) (*model.ChallengeSession, error) {
	sess, err := s.SessionRepo.FindOpen(userID, challengeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrSessionNotStarted
		}
		return nil, err
	}

	sess.AddHint(hintID)
	if err := s.SessionRepo.Update(sess); err != nil {
		return nil, err
	}
	return sess, nil
}
