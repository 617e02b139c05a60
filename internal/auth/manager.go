package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/suPer8Hu/paper-explorer/internal/common"
)

// Manager issues, resolves and revokes auth sessions. A token is only
// honoured while its server-side record exists, so logout takes effect
// immediately even though tokens are self-describing.
type Manager struct {
	store  SessionStore
	secret string
	ttl    time.Duration
	now    func() time.Time
}

func NewManager(store SessionStore, secret string, ttl time.Duration) *Manager {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Manager{store: store, secret: secret, ttl: ttl, now: time.Now}
}

func (m *Manager) TTL() time.Duration { return m.ttl }

// Issue opens a new auth session for the user and returns its token.
func (m *Manager) Issue(ctx context.Context, userID uint64, username string) (string, error) {
	sid, err := common.NewULID()
	if err != nil {
		return "", fmt.Errorf("new session id: %w", err)
	}
	p := Principal{UserID: userID, Username: username}
	if err := m.store.Save(ctx, sid, p, m.ttl); err != nil {
		return "", fmt.Errorf("save auth session: %w", err)
	}
	tok, err := SignToken(m.secret, sid, userID, username, m.now(), m.ttl)
	if err != nil {
		_ = m.store.Delete(ctx, sid)
		return "", fmt.Errorf("sign token: %w", err)
	}
	return tok, nil
}

// Resolve maps a token to its principal. Any failure to authenticate is a
// common.KindAuth error; store outages are returned unclassified.
func (m *Manager) Resolve(ctx context.Context, token string) (Principal, error) {
	if token == "" {
		return Principal{}, common.Unauthorized("not authenticated")
	}
	claims, err := ParseToken(m.secret, token)
	if err != nil {
		return Principal{}, common.Unauthorized("invalid session")
	}
	p, err := m.store.Get(ctx, claims.ID)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return Principal{}, common.Unauthorized("session expired")
		}
		return Principal{}, fmt.Errorf("load auth session: %w", err)
	}
	if p.UserID != claims.UserID {
		return Principal{}, common.Unauthorized("invalid session")
	}
	return p, nil
}

// Revoke ends the auth session behind token. Unknown or invalid tokens are ignored.
func (m *Manager) Revoke(ctx context.Context, token string) error {
	claims, err := ParseToken(m.secret, token)
	if err != nil {
		return nil
	}
	return m.store.Delete(ctx, claims.ID)
}
