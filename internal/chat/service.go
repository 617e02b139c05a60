package chat

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/suPer8Hu/paper-explorer/internal/common"
)

const (
	DefaultModelType = "researcher"

	maxSessionIDLen = 128
	maxNameLen      = 255
)

var errSessionNotFound = common.NotFound("Session not found")

type Service struct {
	repo *Repo
	now  func() time.Time
}

func NewService(repo *Repo) *Service {
	return &Service{repo: repo, now: func() time.Time { return time.Now().UTC() }}
}

// PostMessage appends a message to sessionID, creating the session for
// userID on first use. A session id already bound to another user is
// reported as not found. The id is stored exactly as given. Session upsert,
// activity bump and message insert commit together.
func (s *Service) PostMessage(ctx context.Context, userID uint64, sessionID string, role Role, content, modelType string) (uint64, error) {
	if strings.TrimSpace(sessionID) == "" || strings.TrimSpace(string(role)) == "" || strings.TrimSpace(content) == "" {
		return 0, common.Validation("", "Missing required fields")
	}
	if utf8.RuneCountInString(sessionID) > maxSessionIDLen {
		return 0, common.Validation("session_id", "session_id is too long")
	}
	if !role.Valid() {
		return 0, common.Validation("role", "role must be user or assistant")
	}
	if strings.TrimSpace(modelType) == "" {
		modelType = DefaultModelType
	}

	now := s.now()
	msg := &Message{
		SessionID: sessionID,
		UserID:    userID,
		Role:      role,
		Content:   content,
		ModelType: modelType,
		CreatedAt: now,
	}

	err := s.repo.Tx(ctx, func(tx *Repo) error {
		sess, err := tx.EnsureSession(ctx, &Session{
			SessionID:    sessionID,
			UserID:       userID,
			CreatedAt:    now,
			LastActivity: now,
		})
		if err != nil {
			return fmt.Errorf("ensure session: %w", err)
		}
		if sess.UserID != userID {
			return errSessionNotFound
		}
		if err := tx.TouchSession(ctx, sess.ID, now); err != nil {
			return fmt.Errorf("touch session: %w", err)
		}
		if err := tx.InsertMessage(ctx, msg); err != nil {
			return fmt.Errorf("insert message: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return msg.ID, nil
}

func (s *Service) ListSessions(ctx context.Context, userID uint64) ([]SessionSummary, error) {
	sessions, err := s.repo.ListSessions(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	ids := make([]string, 0, len(sessions))
	for _, sess := range sessions {
		ids = append(ids, sess.SessionID)
	}
	counts, err := s.repo.CountMessages(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("count messages: %w", err)
	}

	out := make([]SessionSummary, 0, len(sessions))
	for i := range sessions {
		sess := &sessions[i]
		out = append(out, SessionSummary{
			SessionID:    sess.SessionID,
			SessionName:  sess.DisplayName(),
			CreatedAt:    sess.CreatedAt,
			LastActivity: sess.LastActivity,
			MessageCount: counts[sess.SessionID],
		})
	}
	return out, nil
}

// ownedSession loads sessionID if userID owns it. Missing and foreign
// sessions are indistinguishable to the caller.
func (s *Service) ownedSession(ctx context.Context, repo *Repo, userID uint64, sessionID string) (*Session, error) {
	sess, err := repo.GetOwnedSession(ctx, userID, sessionID)
	if err != nil {
		if isNotFound(err) {
			return nil, errSessionNotFound
		}
		return nil, fmt.Errorf("load session: %w", err)
	}
	return sess, nil
}

func (s *Service) GetSession(ctx context.Context, userID uint64, sessionID string) ([]Message, error) {
	sess, err := s.ownedSession(ctx, s.repo, userID, sessionID)
	if err != nil {
		return nil, err
	}
	msgs, err := s.repo.ListMessages(ctx, sess.SessionID)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	return msgs, nil
}

// RenameSession sets the display name. Sessions that do not exist or
// belong to someone else are left untouched without error.
func (s *Service) RenameSession(ctx context.Context, userID uint64, sessionID, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return common.Validation("session_name", "Session name required")
	}
	if utf8.RuneCountInString(name) > maxNameLen {
		return common.Validation("session_name", "Session name is too long")
	}
	if err := s.repo.RenameSession(ctx, userID, sessionID, name); err != nil {
		return fmt.Errorf("rename session: %w", err)
	}
	return nil
}

func (s *Service) DeleteSession(ctx context.Context, userID uint64, sessionID string) error {
	err := s.repo.Tx(ctx, func(tx *Repo) error {
		return tx.DeleteSession(ctx, userID, sessionID)
	})
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (s *Service) ExportSession(ctx context.Context, userID uint64, sessionID string) (*Export, error) {
	var out *Export
	err := s.repo.Tx(ctx, func(tx *Repo) error {
		sess, err := s.ownedSession(ctx, tx, userID, sessionID)
		if err != nil {
			return err
		}
		msgs, err := tx.ListMessages(ctx, sess.SessionID)
		if err != nil {
			return fmt.Errorf("list messages: %w", err)
		}

		questions := 0
		for _, m := range msgs {
			if m.Role == RoleUser {
				questions++
			}
		}
		out = &Export{
			SessionInfo: ExportInfo{
				SessionID:      sess.SessionID,
				SessionName:    sess.DisplayName(),
				CreatedAt:      sess.CreatedAt,
				LastActivity:   sess.LastActivity,
				TotalMessages:  len(msgs),
				TotalQuestions: questions,
			},
			Messages: msgs,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Service) ClearAllSessions(ctx context.Context, userID uint64) error {
	err := s.repo.Tx(ctx, func(tx *Repo) error {
		return tx.DeleteAllSessions(ctx, userID)
	})
	if err != nil {
		return fmt.Errorf("clear sessions: %w", err)
	}
	return nil
}
