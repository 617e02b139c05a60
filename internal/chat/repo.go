package chat

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repo struct {
	db *gorm.DB
}

func NewRepo(db *gorm.DB) *Repo {
	return &Repo{db: db}
}

// Tx runs fn in a transaction; fn receives a Repo bound to it.
func (r *Repo) Tx(ctx context.Context, fn func(tx *Repo) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Repo{db: tx})
	})
}

// EnsureSession inserts s unless a row with the same session_id exists,
// then returns the stored row. Concurrent callers racing on the same id
// all observe the single winning row.
func (r *Repo) EnsureSession(ctx context.Context, s *Session) (*Session, error) {
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "session_id"}}, DoNothing: true}).
		Create(s).Error; err != nil {
		return nil, err
	}
	return r.GetSessionBySessionID(ctx, s.SessionID)
}

func (r *Repo) GetSessionBySessionID(ctx context.Context, sessionID string) (*Session, error) {
	var s Session
	if err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		First(&s).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *Repo) GetOwnedSession(ctx context.Context, userID uint64, sessionID string) (*Session, error) {
	var s Session
	if err := r.db.WithContext(ctx).
		Where("session_id = ? AND user_id = ?", sessionID, userID).
		First(&s).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *Repo) TouchSession(ctx context.Context, id uint64, at time.Time) error {
	return r.db.WithContext(ctx).Model(&Session{}).
		Where("id = ?", id).
		Update("last_activity", at).Error
}

func (r *Repo) InsertMessage(ctx context.Context, m *Message) error {
	return r.db.WithContext(ctx).Create(m).Error
}

// ListSessions returns the user's sessions, most recently active first.
func (r *Repo) ListSessions(ctx context.Context, userID uint64) ([]Session, error) {
	var out []Session
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("last_activity DESC").
		Order("id DESC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// CountMessages returns message counts keyed by session id. Sessions with
// no messages are absent from the map.
func (r *Repo) CountMessages(ctx context.Context, sessionIDs []string) (map[string]int64, error) {
	counts := make(map[string]int64, len(sessionIDs))
	if len(sessionIDs) == 0 {
		return counts, nil
	}
	var rows []struct {
		SessionID string
		N         int64
	}
	if err := r.db.WithContext(ctx).Model(&Message{}).
		Select("session_id, COUNT(*) AS n").
		Where("session_id IN ?", sessionIDs).
		Group("session_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		counts[row.SessionID] = row.N
	}
	return counts, nil
}

// ListMessages returns a session's messages oldest first; equal timestamps
// keep insertion order.
func (r *Repo) ListMessages(ctx context.Context, sessionID string) ([]Message, error) {
	var msgs []Message
	if err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "timestamp"}}).
		Order("id ASC").
		Find(&msgs).Error; err != nil {
		return nil, err
	}
	return msgs, nil
}

func (r *Repo) RenameSession(ctx context.Context, userID uint64, sessionID, name string) error {
	return r.db.WithContext(ctx).Model(&Session{}).
		Where("session_id = ? AND user_id = ?", sessionID, userID).
		Update("session_name", name).Error
}

func (r *Repo) DeleteSession(ctx context.Context, userID uint64, sessionID string) error {
	if err := r.db.WithContext(ctx).
		Where("session_id = ? AND user_id = ?", sessionID, userID).
		Delete(&Message{}).Error; err != nil {
		return fmt.Errorf("delete messages: %w", err)
	}
	return r.db.WithContext(ctx).
		Where("session_id = ? AND user_id = ?", sessionID, userID).
		Delete(&Session{}).Error
}

func (r *Repo) DeleteAllSessions(ctx context.Context, userID uint64) error {
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&Message{}).Error; err != nil {
		return fmt.Errorf("delete messages: %w", err)
	}
	return r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&Session{}).Error
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
