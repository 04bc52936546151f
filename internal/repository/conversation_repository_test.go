package repository

import (
	"agent_academy_backend/internal/model"
	"agent_academy_backend/pkg/database"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func TestGetOrCreateActiveScoping(t *testing.T) {
	repo := NewConversationRepository(newTestDB(t))

	conv, err := repo.GetOrCreateActive(1, "python-101", "Loops", "intro")
	require.NoError(t, err)
	assert.NotEmpty(t, conv.ID)
	assert.Equal(t, model.ConversationActive, conv.Status)

	// Same scope returns the same thread.
	same, err := repo.GetOrCreateActive(1, "python-101", "Loops", "intro")
	require.NoError(t, err)
	assert.Equal(t, conv.ID, same.ID)

	// A different section or student is a different thread.
	otherSection, err := repo.GetOrCreateActive(1, "python-101", "Loops", "exercise")
	require.NoError(t, err)
	assert.NotEqual(t, conv.ID, otherSection.ID)

	otherUser, err := repo.GetOrCreateActive(2, "python-101", "Loops", "intro")
	require.NoError(t, err)
	assert.NotEqual(t, conv.ID, otherUser.ID)

	// A resolved thread is never reused.
	require.NoError(t, repo.UpdateStatus(conv.ID, model.ConversationResolved))
	fresh, err := repo.GetOrCreateActive(1, "python-101", "Loops", "intro")
	require.NoError(t, err)
	assert.NotEqual(t, conv.ID, fresh.ID)
}

func TestMessagesRoundTrip(t *testing.T) {
	repo := NewConversationRepository(newTestDB(t))

	conv, err := repo.GetOrCreateActive(1, "python-101", "Loops", "intro")
	require.NoError(t, err)

	require.NoError(t, repo.AddMessage(&model.AIMessage{ConversationID: conv.ID, Role: model.RoleUser, Content: "Hi"}))
	require.NoError(t, repo.AddMessage(&model.AIMessage{ConversationID: conv.ID, Role: model.RoleAI, Content: "Hello, Agent."}))
	require.NoError(t, repo.AddMessage(&model.AIMessage{ConversationID: conv.ID, Role: model.RoleUser, Content: "What is a loop?"}))

	messages, err := repo.GetMessages(conv.ID)
	require.NoError(t, err)
	require.Len(t, messages, 3)
	assert.Equal(t, "Hi", messages[0].Content)
	assert.Equal(t, model.RoleAI, messages[1].Role)
	assert.Equal(t, "What is a loop?", messages[2].Content)

	// LastMessages trims from the front but keeps chronological order.
	last, err := repo.LastMessages(conv.ID, 2)
	require.NoError(t, err)
	require.Len(t, last, 2)
	assert.Equal(t, "Hello, Agent.", last[0].Content)
	assert.Equal(t, "What is a loop?", last[1].Content)
}

func TestListByStatus(t *testing.T) {
	repo := NewConversationRepository(newTestDB(t))

	a, err := repo.GetOrCreateActive(1, "python-101", "Loops", "intro")
	require.NoError(t, err)
	_, err = repo.GetOrCreateActive(2, "python-101", "Loops", "intro")
	require.NoError(t, err)

	require.NoError(t, repo.UpdateStatus(a.ID, model.ConversationNeedsHelp))

	flagged, total, err := repo.ListByStatus(model.ConversationNeedsHelp, 10, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, flagged, 1)
	assert.Equal(t, a.ID, flagged[0].ID)
}
