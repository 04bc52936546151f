package service

import (
	"agent_academy_backend/internal/repository"
	"agent_academy_backend/internal/util"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newChallengeService(db *gorm.DB) *ChallengeService {
	return NewChallengeService(repository.NewChallengeRepository(db), repository.NewSessionRepository(db))
}

func TestStartChallengeReusesOpenSession(t *testing.T) {
	db := newTestDB(t)
	svc := newChallengeService(db)

	ch, err := svc.CreateChallenge(CreateChallengeRequest{Title: "Decode the Cipher", XPReward: 100})
	require.NoError(t, err)

	first, err := svc.StartChallenge(1, ch.ID)
	require.NoError(t, err)

	second, err := svc.StartChallenge(1, ch.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	// A different student gets their own session.
	other, err := svc.StartChallenge(2, ch.ID)
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, other.ID)
}

func TestStartChallengeUnknownChallenge(t *testing.T) {
	db := newTestDB(t)
	svc := newChallengeService(db)

	_, err := svc.StartChallenge(1, 999)
	assert.ErrorIs(t, err, util.ErrChallengeNotFound)
}

func TestUnlockHintAccumulates(t *testing.T) {
	db := newTestDB(t)
	svc := newChallengeService(db)

	ch, err := svc.CreateChallenge(CreateChallengeRequest{Title: "Decode the Cipher", XPReward: 100})
	require.NoError(t, err)

	_, err = svc.UnlockHint(1, ch.ID, "hint-1")
	assert.ErrorIs(t, err, util.ErrSessionNotStarted)

	_, err = svc.StartChallenge(1, ch.ID)
	require.NoError(t, err)

	sess, err := svc.UnlockHint(1, ch.ID, "hint-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"hint-1"}, sess.HintIDs())

	// Unlocking the same hint again is a no-op.
	sess, err = svc.UnlockHint(1, ch.ID, "hint-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"hint-1"}, sess.HintIDs())

	sess, err = svc.UnlockHint(1, ch.ID, "hint-2")
	require.NoError(t, err)
	assert.Equal(t, []string{"hint-1", "hint-2"}, sess.HintIDs())
}

func TestUpdateChallengePartial(t *testing.T) {
	db := newTestDB(t)
	svc := newChallengeService(db)

	ch, err := svc.CreateChallenge(CreateChallengeRequest{Title: "Decode the Cipher", XPReward: 100})
	require.NoError(t, err)

	published := false
	updated, err := svc.UpdateChallenge(ch.ID, UpdateChallengeRequest{Published: &published})
	require.NoError(t, err)
	assert.False(t, updated.Published)
	assert.Equal(t, "Decode the Cipher", updated.Title)
	assert.Equal(t, 100, updated.XPReward)

	_, err = svc.UpdateChallenge(999, UpdateChallengeRequest{})
	assert.ErrorIs(t, err, util.ErrChallengeNotFound)
}
