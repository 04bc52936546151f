package repository

import (
	"agent_academy_backend/internal/model"

	"gorm.io/gorm"
)

type ChallengeRepository struct {
	DB *gorm.DB
}

func NewChallengeRepository(db *gorm.DB) *ChallengeRepository {
	return &ChallengeRepository{DB: db}
}

func (r *ChallengeRepository) Create(ch *model.Challenge) error {
	return r.DB.Create(ch).Error
}

func (r *ChallengeRepository) Update(ch *model.Challenge) error {
	return r.DB.Save(ch).Error
}

func (r *ChallengeRepository) FindByID(id uint) (*model.Challenge, error) {
	var ch model.Challenge
	err := r.DB.First(&ch, id).Error
	if err != nil {
		return nil, err
	}
	return &ch, nil
}

func (r *ChallengeRepository) ListPublished(category string, limit, offset int) ([]model.Challenge, int64, error) {
	var challenges []model.Challenge
	var total int64

	db := r.DB.Model(&model.Challenge{}).Where("published = ?", true)
	if category != "" {
		db = db.Where("category = ?", category)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := db.Order("difficulty asc, id asc").Limit(limit).Offset(offset).Find(&challenges).Error
	return challenges, total, err
}

// SessionRepository handles the live attempt context rows.
type SessionRepository struct {
	DB *gorm.DB
}

func NewSessionRepository(db *gorm.DB) *SessionRepository {
	return &SessionRepository{DB: db}
}

func (r *SessionRepository) Create(sess *model.ChallengeSession) error {
	return r.DB.Create(sess).Error
}

func (r *SessionRepository) Update(sess *model.ChallengeSession) error {
	return r.DB.Save(sess).Error
}

// FindOpen returns the student's open (not yet completed) session for a
// challenge, newest first.
func (r *SessionRepository) FindOpen(userID, challengeID uint) (*model.ChallengeSession, error) {
	var sess model.ChallengeSession
	err := r.DB.Where("user_id = ? AND challenge_id = ? AND completed_at IS NULL", userID, challengeID).
		Order("id desc").
		First(&sess).Error
	if err != nil {
		return nil, err
	}
	return &sess, nil
}

// SubmissionRepository stores the append-only run/check audit trail.
type SubmissionRepository struct {
	DB *gorm.DB
}

func NewSubmissionRepository(db *gorm.DB) *SubmissionRepository {
	return &SubmissionRepository{DB: db}
}

func (r *SubmissionRepository) Create(sub *model.CodeSubmission) error {
	return r.DB.Create(sub).Error
}

func (r *SubmissionRepository) FindBySession(sessionID uint) ([]model.CodeSubmission, error) {
	var subs []model.CodeSubmission
	err := r.DB.Where("session_id = ?", sessionID).Order("id asc").Find(&subs).Error
	return subs, err
}
