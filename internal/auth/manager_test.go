package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/suPer8Hu/paper-explorer/internal/common"
)

func TestManager_IssueResolveRevoke(t *testing.T) {
	ctx := context.Background()
	m := NewManager(NewMemoryStore(), "test-secret", time.Hour)

	tok, err := m.Issue(ctx, 7, "alice")
	require.NoError(t, err)

	p, err := m.Resolve(ctx, tok)
	require.NoError(t, err)
	assert.Equal(t, Principal{UserID: 7, Username: "alice"}, p)

	require.NoError(t, m.Revoke(ctx, tok))
	_, err = m.Resolve(ctx, tok)
	assert.ErrorIs(t, err, common.ErrAuth)

	// revoking twice is harmless
	assert.NoError(t, m.Revoke(ctx, tok))
}

func TestManager_RejectsBadTokens(t *testing.T) {
	ctx := context.Background()
	m := NewManager(NewMemoryStore(), "test-secret", time.Hour)

	_, err := m.Resolve(ctx, "")
	assert.ErrorIs(t, err, common.ErrAuth)

	_, err = m.Resolve(ctx, "not-a-token")
	assert.ErrorIs(t, err, common.ErrAuth)

	other := NewManager(NewMemoryStore(), "other-secret", time.Hour)
	tok, err := other.Issue(ctx, 1, "mallory")
	require.NoError(t, err)
	_, err = m.Resolve(ctx, tok)
	assert.ErrorIs(t, err, common.ErrAuth)
}

func TestManager_TokenWithoutServerSession(t *testing.T) {
	ctx := context.Background()
	m := NewManager(NewMemoryStore(), "test-secret", time.Hour)

	// correctly signed, but never stored
	tok, err := SignToken("test-secret", "01FORGEDSESSION0000000000", 1, "alice", time.Now(), time.Hour)
	require.NoError(t, err)

	_, err = m.Resolve(ctx, tok)
	assert.ErrorIs(t, err, common.ErrAuth)
}

func TestMemoryStore_Expiry(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	require.NoError(t, s.Save(ctx, "sid", Principal{UserID: 1}, time.Minute))
	_, err := s.Get(ctx, "sid")
	require.NoError(t, err)

	now = now.Add(time.Minute)
	_, err = s.Get(ctx, "sid")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}
