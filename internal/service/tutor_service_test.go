package service

import (
	"agent_academy_backend/internal/config"
	"agent_academy_backend/internal/model"
	"agent_academy_backend/internal/repository"
	"agent_academy_backend/internal/util"
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type stubResponder struct {
	reply   string
	err     error
	lastReq ResponderRequest
}

func (s *stubResponder) Name() string { return "stub" }

func (s *stubResponder) Respond(_ context.Context, req ResponderRequest) (string, error) {
	s.lastReq = req
	if s.err != nil {
		return "", s.err
	}
	return s.reply, nil
}

func newTutorService(db *gorm.DB, responder Responder) *TutorService {
	return NewTutorService(
		repository.NewConversationRepository(db),
		responder,
		config.AIConfig{MaxTokens: 256, TimeoutSeconds: 5},
	)
}

func TestInitializeWelcomeNotPersisted(t *testing.T) {
	db := newTestDB(t)
	svc := newTutorService(db, &stubResponder{reply: "ok"})

	view, err := svc.Initialize(1, InitializeRequest{LessonID: "python-101", LessonTitle: "Loops", Section: "intro"})
	require.NoError(t, err)
	require.Len(t, view.Messages, 1)
	assert.Equal(t, model.RoleAI, view.Messages[0].Role)
	assert.Contains(t, view.Messages[0].Content, "A.D.A.")

	// The welcome is synthesized, never stored.
	stored, err := svc.ConvRepo.GetMessages(view.Conversation.ID)
	require.NoError(t, err)
	assert.Empty(t, stored)

	// Reopening the panel lands on the same thread.
	again, err := svc.Initialize(1, InitializeRequest{LessonID: "python-101", LessonTitle: "Loops", Section: "intro"})
	require.NoError(t, err)
	assert.Equal(t, view.Conversation.ID, again.Conversation.ID)
}

func TestSendMessageRoundTrip(t *testing.T) {
	db := newTestDB(t)
	stub := &stubResponder{reply: "What does your loop counter start at?"}
	svc := newTutorService(db, stub)

	view, err := svc.Initialize(1, InitializeRequest{LessonID: "python-101", Section: "intro"})
	require.NoError(t, err)

	result, err := svc.SendMessage(context.Background(), view.Conversation.ID, 1, SendMessageRequest{
		Content:      "Hi, my loop never stops",
		CodeSnapshot: "while True:\n    pass",
	})
	require.NoError(t, err)

	assert.False(t, result.Fallback)
	assert.Equal(t, model.ConversationActive, result.Status)
	assert.Equal(t, stub.reply, result.Reply.Content)

	messages, err := svc.GetMessages(view.Conversation.ID, 1, model.Student)
	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.Equal(t, model.RoleUser, messages[0].Role)
	assert.Equal(t, "Hi, my loop never stops", messages[0].Content)
	assert.Equal(t, "while True:\n    pass", messages[0].CodeSnapshot)
	assert.Equal(t, model.RoleAI, messages[1].Role)

	// The backend saw the lesson scope and the student's code.
	assert.Contains(t, stub.lastReq.System, "python-101")
	assert.Contains(t, stub.lastReq.System, "while True:")
}

func TestSendMessageBackendFailureFallsBack(t *testing.T) {
	db := newTestDB(t)
	svc := newTutorService(db, &stubResponder{err: errors.New("upstream 500")})

	view, err := svc.Initialize(1, InitializeRequest{LessonID: "python-101", Section: "intro"})
	require.NoError(t, err)

	result, err := svc.SendMessage(context.Background(), view.Conversation.ID, 1, SendMessageRequest{
		Content: "my loop is broken",
	})
	require.NoError(t, err)

	assert.True(t, result.Fallback)
	assert.Equal(t, NewSimulatedResponder().Reply("my loop is broken"), result.Reply.Content)

	// Both turns are still on record.
	messages, err := svc.GetMessages(view.Conversation.ID, 1, model.Student)
	require.NoError(t, err)
	assert.Len(t, messages, 2)
}

func TestSendMessageDistressFlagsConversation(t *testing.T) {
	db := newTestDB(t)
	svc := newTutorService(db, &stubResponder{reply: "You are closer than you think."})

	view, err := svc.Initialize(1, InitializeRequest{LessonID: "python-101", Section: "intro"})
	require.NoError(t, err)

	result, err := svc.SendMessage(context.Background(), view.Conversation.ID, 1, SendMessageRequest{
		Content: "this is impossible, I give up",
	})
	require.NoError(t, err)
	assert.Equal(t, model.ConversationNeedsHelp, result.Status)
	assert.True(t, result.Reply.FlagForTeacher)

	// A calm follow-up does not clear the flag; only a teacher can.
	result, err = svc.SendMessage(context.Background(), view.Conversation.ID, 1, SendMessageRequest{
		Content: "ok trying again",
	})
	require.NoError(t, err)
	assert.Equal(t, model.ConversationNeedsHelp, result.Status)

	flagged, total, err := svc.ListFlagged(10, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, flagged, 1)
	assert.Equal(t, view.Conversation.ID, flagged[0].ID)

	msg, err := svc.Intervene(view.Conversation.ID, "Agent, let's look at this together.")
	require.NoError(t, err)
	assert.Equal(t, model.RoleTeacher, msg.Role)

	require.NoError(t, svc.Resolve(view.Conversation.ID))
	flagged, total, err = svc.ListFlagged(10, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 0, total)
	assert.Empty(t, flagged)
}

func TestSendMessageValidation(t *testing.T) {
	db := newTestDB(t)
	svc := newTutorService(db, &stubResponder{reply: "ok"})

	view, err := svc.Initialize(1, InitializeRequest{LessonID: "python-101", Section: "intro"})
	require.NoError(t, err)

	_, err = svc.SendMessage(context.Background(), view.Conversation.ID, 1, SendMessageRequest{Content: "   "})
	assert.ErrorIs(t, err, util.ErrEmptyMessage)

	_, err = svc.SendMessage(context.Background(), view.Conversation.ID, 2, SendMessageRequest{Content: "hello"})
	assert.ErrorIs(t, err, util.ErrPermissionDenied)

	_, err = svc.SendMessage(context.Background(), "no-such-conversation", 1, SendMessageRequest{Content: "hello"})
	assert.ErrorIs(t, err, util.ErrConversationNotFound)
}

func TestGetMessagesAccessControl(t *testing.T) {
	db := newTestDB(t)
	svc := newTutorService(db, &stubResponder{reply: "ok"})

	view, err := svc.Initialize(1, InitializeRequest{LessonID: "python-101", Section: "intro"})
	require.NoError(t, err)

	_, err = svc.GetMessages(view.Conversation.ID, 2, model.Student)
	assert.ErrorIs(t, err, util.ErrPermissionDenied)

	_, err = svc.GetMessages(view.Conversation.ID, 2, model.Teacher)
	assert.NoError(t, err)
}

func TestSendMessageBoundedContext(t *testing.T) {
	db := newTestDB(t)
	stub := &stubResponder{reply: "noted"}
	svc := newTutorService(db, stub)

	view, err := svc.Initialize(1, InitializeRequest{LessonID: "python-101", Section: "intro"})
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		_, err := svc.SendMessage(context.Background(), view.Conversation.ID, 1, SendMessageRequest{
			Content: fmt.Sprintf("question %d", i),
		})
		require.NoError(t, err)
	}

	assert.Len(t, stub.lastReq.Messages, contextWindow)
	last := stub.lastReq.Messages[len(stub.lastReq.Messages)-1]
	assert.Equal(t, "user", last.Role)
	assert.Equal(t, "question 4", last.Content)
}
