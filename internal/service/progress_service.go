package service

import (
	"agent_academy_backend/internal/gamification"
	"agent_academy_backend/internal/model"
	"agent_academy_backend/internal/repository"
	"agent_academy_backend/internal/util"
	"agent_academy_backend/pkg/logger"
	"agent_academy_backend/pkg/monitoring"
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// userLocks serializes the read-modify-write pipeline per student. Concurrent
// submissions by different students proceed in parallel.
type userLocks struct {
	mu    sync.Mutex
	locks map[uint]*sync.Mutex
}

func (l *userLocks) forUser(userID uint) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.locks == nil {
		l.locks = make(map[uint]*sync.Mutex)
	}
	lock, ok := l.locks[userID]
	if !ok {
		lock = &sync.Mutex{}
		l.locks[userID] = lock
	}
	return lock
}

type ProgressService struct {
	db              *gorm.DB
	ProgressRepo    *repository.ProgressRepository
	AchievementRepo *repository.AchievementRepository
	Storage         *StorageService

	locks userLocks
	now   func() time.Time
}

func NewProgressService(db *gorm.DB, progressRepo *repository.ProgressRepository, achievementRepo *repository.AchievementRepository, storage *StorageService) *ProgressService {
	return &ProgressService{
		db:              db,
		ProgressRepo:    progressRepo,
		AchievementRepo: achievementRepo,
		Storage:         storage,
		now:             time.Now,
	}
}

type SubmitRequest struct {
	Code  string `json:"code" binding:"required"`
	Valid bool   `json:"valid"`
	Score int    `json:"score" binding:"min=0,max=100"`
}

type SubmitResult struct {
	Completed       bool                    `json:"completed"`
	XP              gamification.XPResult   `json:"xp"`
	Level           *gamification.LevelInfo `json:"level,omitempty"`
	Progress        *model.UserProgress     `json:"progress,omitempty"`
	NewAchievements []model.Achievement     `json:"newAchievements"`
}

// SubmitChallenge runs one run/check attempt through the XP pipeline.
// An invalid submission is a normal zero-XP outcome, not an error.
func (s *ProgressService) SubmitChallenge(ctx context.Context, userID, challengeID uint, req SubmitRequest) (*SubmitResult, error) {
	if req.Score < 0 || req.Score > 100 {
		return nil, util.ErrScoreOutOfRange
	}

	lock := s.locks.forUser(userID)
	lock.Lock()
	defer lock.Unlock()

	now := s.now()
	result := &SubmitResult{NewAchievements: []model.Achievement{}}
	var submissionID uint
	totalAwarded := 0

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var ch model.Challenge
		if err := tx.First(&ch, challengeID).Error; err != nil {
			return util.ErrChallengeNotFound
		}

		var sess model.ChallengeSession
		err := tx.Where("user_id = ? AND challenge_id = ? AND completed_at IS NULL", userID, challengeID).
			Order("id desc").First(&sess).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return util.ErrSessionNotStarted
			}
			return err
		}

		sess.Attempts++

		sub := model.CodeSubmission{
			UserID:      userID,
			ChallengeID: challengeID,
			SessionID:   sess.ID,
			Code:        req.Code,
			Valid:       req.Valid,
			Score:       req.Score,
		}

		chProg, err := s.loadOrInitChallengeProgress(tx, userID, challengeID)
		if err != nil {
			return err
		}
		chProg.Attempts++
		if req.Score > chProg.BestScore {
			chProg.BestScore = req.Score
		}

		prog, err := s.loadOrInitUserProgress(tx, userID)
		if err != nil {
			return err
		}

		result.XP = gamification.CalculateXP(&ch, &sub, &sess, prog, now)

		if req.Valid {
			sessionMinutes := int(now.Sub(sess.StartedAt).Minutes())
			if sessionMinutes < 0 {
				sessionMinutes = 0
			}
			chProg.MinutesSpent += sessionMinutes

			next := gamification.ApplyCompletion(prog, chProg, result.XP)

			unlocked := gamification.EvaluateAchievements(&next, chProg, &sess, &ch, now)
			newOnes, err := s.filterAlreadyUnlocked(tx, userID, unlocked)
			if err != nil {
				return err
			}
			for i := range newOnes {
				if err := tx.Create(&newOnes[i]).Error; err != nil {
					return err
				}
				// Achievement XP is folded in after evaluation; no second
				// evaluation pass, so unlocks cannot cascade.
				next.TotalXP += newOnes[i].XPReward
			}
			result.NewAchievements = newOnes

			if err := tx.Save(&next).Error; err != nil {
				return err
			}

			sess.CompletedAt = &now
			sub.XPAwarded = result.XP.TotalXP

			level := gamification.ResolveLevel(next.TotalXP)
			result.Completed = true
			result.Level = &level
			result.Progress = &next

			totalAwarded = result.XP.TotalXP
			for _, a := range newOnes {
				totalAwarded += a.XPReward
			}
		}

		if err := tx.Save(&sess).Error; err != nil {
			return err
		}
		if err := tx.Save(chProg).Error; err != nil {
			return err
		}
		if err := tx.Create(&sub).Error; err != nil {
			return err
		}
		submissionID = sub.ID
		return nil
	})
	if err != nil {
		return nil, err
	}

	if result.Completed {
		if err := s.ProgressRepo.BumpLeaderboard(ctx, userID, totalAwarded); err != nil {
			logger.Log.Warn("leaderboard update failed", zap.Uint("user", userID), zap.Error(err))
		}
		monitoring.XPAwarded.Add(float64(totalAwarded))
		for _, a := range result.NewAchievements {
			monitoring.AchievementsUnlocked.WithLabelValues(a.Code).Inc()
		}
	}

	if s.Storage != nil {
		go s.Storage.ArchiveSubmission(context.Background(), userID, challengeID, submissionID, req.Code)
	}

	return result, nil
}

func (s *ProgressService) loadOrInitChallengeProgress(tx *gorm.DB, userID, challengeID uint) (*model.ChallengeProgress, error) {
	var chProg model.ChallengeProgress
	err := tx.Where("user_id = ? AND challenge_id = ?", userID, challengeID).First(&chProg).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &model.ChallengeProgress{UserID: userID, ChallengeID: challengeID}, nil
	}
	if err != nil {
		return nil, err
	}
	return &chProg, nil
}

func (s *ProgressService) loadOrInitUserProgress(tx *gorm.DB, userID uint) (*model.UserProgress, error) {
	var prog model.UserProgress
	err := tx.Where("user_id = ?", userID).First(&prog).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &model.UserProgress{UserID: userID}, nil
	}
	if err != nil {
		return nil, err
	}
	return &prog, nil
}

func (s *ProgressService) filterAlreadyUnlocked(tx *gorm.DB, userID uint, unlocked []model.Achievement) ([]model.Achievement, error) {
	if len(unlocked) == 0 {
		return []model.Achievement{}, nil
	}

	var codes []string
	if err := tx.Model(&model.Achievement{}).Where("user_id = ?", userID).Pluck("code", &codes).Error; err != nil {
		return nil, err
	}
	have := make(map[string]bool, len(codes))
	for _, c := range codes {
		have[c] = true
	}

	fresh := make([]model.Achievement, 0, len(unlocked))
	for _, a := range unlocked {
		if !have[a.Code] {
			fresh = append(fresh, a)
		}
	}
	return fresh, nil
}

type ProgressOverview struct {
	Progress model.UserProgress     `json:"progress"`
	Level    gamification.LevelInfo `json:"level"`
}

// GetProgress returns the student's cumulative snapshot with level info.
// A student who has completed nothing gets a zeroed snapshot, not a 404.
func (s *ProgressService) GetProgress(userID uint) (*ProgressOverview, error) {
	prog, err := s.ProgressRepo.FindByUserID(userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		prog = &model.UserProgress{UserID: userID}
	} else if err != nil {
		return nil, err
	}

	return &ProgressOverview{
		Progress: *prog,
		Level:    gamification.ResolveLevel(prog.TotalXP),
	}, nil
}
