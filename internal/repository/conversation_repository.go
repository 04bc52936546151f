package repository

import (
	"agent_academy_backend/internal/model"
	"errors"

	"gorm.io/gorm"
)

type ConversationRepository struct {
	DB *gorm.DB
}

func NewConversationRepository(db *gorm.DB) *ConversationRepository {
	return &ConversationRepository{DB: db}
}

// GetOrCreateActive returns the student's open conversation for a lesson
// section, creating it lazily on first tutor-panel open. Resolved threads are
// not reused; a fresh one is started instead.
func (r *ConversationRepository) GetOrCreateActive(userID uint, lessonID, lessonTitle, section string) (*model.AIConversation, error) {
	var conv model.AIConversation
	err := r.DB.Where("user_id = ? AND lesson_id = ? AND section = ? AND status <> ?",
		userID, lessonID, section, model.ConversationResolved).
		Order("created_at desc").
		First(&conv).Error
	if err == nil {
		return &conv, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	conv = model.AIConversation{
		UserID:      userID,
		LessonID:    lessonID,
		LessonTitle: lessonTitle,
		Section:     section,
		Status:      model.ConversationActive,
	}
	if err := r.DB.Create(&conv).Error; err != nil {
		return nil, err
	}
	return &conv, nil
}

func (r *ConversationRepository) FindByID(id string) (*model.AIConversation, error) {
	var conv model.AIConversation
	err := r.DB.First(&conv, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &conv, nil
}

func (r *ConversationRepository) GetMessages(conversationID string) ([]model.AIMessage, error) {
	var messages []model.AIMessage
	err := r.DB.Where("conversation_id = ?", conversationID).Order("id asc").Find(&messages).Error
	return messages, err
}

// LastMessages returns up to limit most recent messages in chronological
// order, used to build the bounded model context.
func (r *ConversationRepository) LastMessages(conversationID string, limit int) ([]model.AIMessage, error) {
	var messages []model.AIMessage
	err := r.DB.Where("conversation_id = ?", conversationID).
		Order("id desc").
		Limit(limit).
		Find(&messages).Error
	if err != nil {
		return nil, err
	}

	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}

func (r *ConversationRepository) AddMessage(msg *model.AIMessage) error {
	return r.DB.Create(msg).Error
}

func (r *ConversationRepository) UpdateStatus(conversationID string, status model.ConversationStatus) error {
	return r.DB.Model(&model.AIConversation{}).
		Where("id = ?", conversationID).
		Update("status", status).Error
}

// ListByStatus returns conversations in a given status, for the teacher
// console's flagged-thread view.
func (r *ConversationRepository) ListByStatus(status model.ConversationStatus, limit, offset int) ([]model.AIConversation, int64, error) {
	var convs []model.AIConversation
	var total int64

	db := r.DB.Model(&model.AIConversation{}).Where("status = ?", status)
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := db.Order("updated_at desc").Limit(limit).Offset(offset).Find(&convs).Error
	return convs, total, err
}
