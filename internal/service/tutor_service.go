package service

import (
	"agent_academy_backend/internal/config"
	"agent_academy_backend/internal/model"
	"agent_academy_backend/internal/repository"
	"agent_academy_backend/internal/util"
	"agent_academy_backend/pkg/logger"
	"agent_academy_backend/pkg/monitoring"
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
)

// contextWindow bounds how many persisted messages travel to the backend.
const contextWindow = 4

type TutorService struct {
	ConvRepo  *repository.ConversationRepository
	responder Responder
	fallback  *SimulatedResponder
	cfg       config.AIConfig
}

func NewTutorService(convRepo *repository.ConversationRepository, responder Responder, cfg config.AIConfig) *TutorService {
	return &TutorService{
		ConvRepo:  convRepo,
		responder: responder,
		fallback:  NewSimulatedResponder(),
		cfg:       cfg,
	}
}

type InitializeRequest struct {
	LessonID    string `json:"lessonId" binding:"required"`
	LessonTitle string `json:"lessonTitle"`
	Section     string `json:"section" binding:"required"`
}

type ConversationView struct {
	Conversation model.AIConversation `json:"conversation"`
	Messages     []model.AIMessage    `json:"messages"`
}

// Initialize looks up or lazily creates the conversation for a lesson section
// and hydrates its history. A brand-new thread gets a synthesized welcome
// message in the payload; the welcome is not persisted as a turn.
func (s *TutorService) Initialize(userID uint, req InitializeRequest) (*ConversationView, error) {
	conv, err := s.ConvRepo.GetOrCreateActive(userID, req.LessonID, req.LessonTitle, req.Section)
	if err != nil {
		return nil, err
	}

	messages, err := s.ConvRepo.GetMessages(conv.ID)
	if err != nil {
		return nil, err
	}

	if len(messages) == 0 {
		messages = append(messages, model.AIMessage{
			ConversationID: conv.ID,
			Role:           model.RoleAI,
			Content:        welcomeMessage(conv.LessonTitle),
		})
	}

	return &ConversationView{Conversation: *conv, Messages: messages}, nil
}

func welcomeMessage(lessonTitle string) string {
	if lessonTitle == "" {
		return "Welcome back, Agent. I'm A.D.A., your mission support AI. Ask me anything about your current objective — I'll guide you, but cracking the code is your job."
	}
	return fmt.Sprintf("Welcome back, Agent. I'm A.D.A., your mission support AI for %q. Ask me anything about the objective — I'll guide you, but cracking the code is your job.", lessonTitle)
}

type SendMessageRequest struct {
	Content      string `json:"content" binding:"required"`
	CodeSnapshot string `json:"codeSnapshot"`
}

type SendMessageResult struct {
	Reply    model.AIMessage          `json:"reply"`
	Status   model.ConversationStatus `json:"status"`
	Fallback bool                     `json:"fallback"`
}

// SendMessage persists the student's turn, asks the backend for a reply with
// bounded context, and persists the answer. Backend and persistence failures
// are downgraded: the student always receives some reply.
func (s *TutorService) SendMessage(ctx context.Context, conversationID string, userID uint, req SendMessageRequest) (*SendMessageResult, error) {
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, util.ErrEmptyMessage
	}

	conv, err := s.ConvRepo.FindByID(conversationID)
	if err != nil {
		return nil, util.ErrConversationNotFound
	}
	if conv.UserID != userID {
		return nil, util.ErrPermissionDenied
	}

	userMsg := &model.AIMessage{
		ConversationID: conv.ID,
		Role:           model.RoleUser,
		Content:        content,
		CodeSnapshot:   req.CodeSnapshot,
	}
	if err := s.ConvRepo.AddMessage(userMsg); err != nil {
		// Fire and log: a lost save must not cost the student their turn.
		logger.Log.Error("failed to persist student message",
			zap.String("conversation", conv.ID), zap.Error(err))
	}

	// Distress scan runs on the student's original message.
	flagged := s.fallback.ShouldFlagForTeacher(content)
	status := conv.Status
	if flagged && conv.Status == model.ConversationActive {
		if err := s.ConvRepo.UpdateStatus(conv.ID, model.ConversationNeedsHelp); err != nil {
			logger.Log.Error("failed to flag conversation",
				zap.String("conversation", conv.ID), zap.Error(err))
		} else {
			status = model.ConversationNeedsHelp
		}
	}

	reply, usedFallback := s.requestReply(ctx, conv, content, req.CodeSnapshot)

	aiMsg := &model.AIMessage{
		ConversationID: conv.ID,
		Role:           model.RoleAI,
		Content:        reply,
		FlagForTeacher: flagged,
	}
	if err := s.ConvRepo.AddMessage(aiMsg); err != nil {
		logger.Log.Error("failed to persist tutor reply",
			zap.String("conversation", conv.ID), zap.Error(err))
	}

	return &SendMessageResult{Reply: *aiMsg, Status: status, Fallback: usedFallback}, nil
}

// requestReply calls the configured backend with a deadline and falls back to
// the simulated responder on any failure.
func (s *TutorService) requestReply(ctx context.Context, conv *model.AIConversation, content, codeSnapshot string) (string, bool) {
	ctx, cancel := context.WithTimeout(ctx, time.Duration(s.cfg.TimeoutSeconds)*time.Second)
	defer cancel()

	req := ResponderRequest{
		System:      s.systemPrompt(conv, codeSnapshot),
		Messages:    s.buildContext(conv.ID, content),
		MaxTokens:   s.cfg.MaxTokens,
		Temperature: s.cfg.Temperature,
	}

	reply, err := s.responder.Respond(ctx, req)
	if err != nil {
		logger.Log.Warn("tutor backend failed, serving simulated reply",
			zap.String("conversation", conv.ID),
			zap.String("responder", s.responder.Name()),
			zap.Error(err))
		monitoring.TutorFallbacks.Inc()
		return s.fallback.Reply(content), true
	}
	return reply, false
}

func (s *TutorService) systemPrompt(conv *model.AIConversation, codeSnapshot string) string {
	var b strings.Builder
	b.WriteString("You are A.D.A., the AI tutor of a spy-themed coding academy for K-12 students. ")
	b.WriteString("Guide the student with questions and small hints in character; never hand out the full solution. ")
	b.WriteString("Keep answers short, encouraging, and age-appropriate.\n\n")
	fmt.Fprintf(&b, "Lesson: %s (%s), section: %s.", conv.LessonTitle, conv.LessonID, conv.Section)
	if codeSnapshot != "" {
		fmt.Fprintf(&b, "\n\nThe student's current code:\n%s", codeSnapshot)
	}
	return b.String()
}

// buildContext returns the last few persisted turns mapped to backend roles.
// If the student's message failed to persist it is appended so the backend
// still sees it.
func (s *TutorService) buildContext(conversationID, content string) []ResponderMessage {
	history, err := s.ConvRepo.LastMessages(conversationID, contextWindow)
	if err != nil {
		logger.Log.Error("failed to load conversation context",
			zap.String("conversation", conversationID), zap.Error(err))
		history = nil
	}

	messages := make([]ResponderMessage, 0, len(history)+1)
	for _, m := range history {
		role := "assistant"
		if m.Role == model.RoleUser {
			role = "user"
		}
		messages = append(messages, ResponderMessage{Role: role, Content: m.Content})
	}

	if len(messages) == 0 || messages[len(messages)-1].Role != "user" || messages[len(messages)-1].Content != content {
		messages = append(messages, ResponderMessage{Role: "user", Content: content})
	}

	return messages
}

func (s *TutorService) GetMessages(conversationID string, userID uint, role model.UserRole) ([]model.AIMessage, error) {
	conv, err := s.ConvRepo.FindByID(conversationID)
	if err != nil {
		return nil, util.ErrConversationNotFound
	}
	if conv.UserID != userID && role == model.Student {
		return nil, util.ErrPermissionDenied
	}
	return s.ConvRepo.GetMessages(conversationID)
}

// ListFlagged returns conversations waiting on a teacher.
func (s *TutorService) ListFlagged(limit, offset int) ([]model.AIConversation, int64, error) {
	return s.ConvRepo.ListByStatus(model.ConversationNeedsHelp, limit, offset)
}

// Intervene posts a teacher message into a conversation.
func (s *TutorService) Intervene(conversationID string, content string) (*model.AIMessage, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, util.ErrEmptyMessage
	}
	if _, err := s.ConvRepo.FindByID(conversationID); err != nil {
		return nil, util.ErrConversationNotFound
	}

	msg := &model.AIMessage{
		ConversationID: conversationID,
		Role:           model.RoleTeacher,
		Content:        content,
	}
	if err := s.ConvRepo.AddMessage(msg); err != nil {
		return nil, err
	}
	return msg, nil
}

// Resolve is the only path out of needs_help.
func (s *TutorService) Resolve(conversationID string) error {
	if _, err := s.ConvRepo.FindByID(conversationID); err != nil {
		return util.ErrConversationNotFound
	}
	return s.ConvRepo.UpdateStatus(conversationID, model.ConversationResolved)
}
