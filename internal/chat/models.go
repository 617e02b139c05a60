package chat

import (
	"time"

	"github.com/suPer8Hu/paper-explorer/internal/models"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAssistant
}

// Session groups the messages of one conversation. SessionID is chosen by
// the client and stays bound to the user that first posted under it.
type Session struct {
	ID           uint64    `gorm:"primaryKey;autoIncrement" json:"-"`
	SessionID    string    `gorm:"type:varchar(128);uniqueIndex;not null" json:"session_id"`
	UserID       uint64    `gorm:"not null;index:idx_chat_sessions_user_activity,priority:1" json:"-"`
	Name         *string   `gorm:"column:session_name;type:varchar(255)" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	LastActivity time.Time `gorm:"not null;index:idx_chat_sessions_user_activity,priority:2" json:"last_activity"`

	User     *models.User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Messages []Message    `gorm:"foreignKey:SessionID;references:SessionID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Session) TableName() string { return "chat_sessions" }

// DisplayName returns the stored name, or a label derived from the id.
func (s *Session) DisplayName() string {
	if s.Name != nil && *s.Name != "" {
		return *s.Name
	}
	return DefaultName(s.SessionID)
}

// DefaultName is "Conversation " followed by the first 8 characters of id.
func DefaultName(sessionID string) string {
	r := []rune(sessionID)
	if len(r) > 8 {
		r = r[:8]
	}
	return "Conversation " + string(r)
}

type Message struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	SessionID string    `gorm:"type:varchar(128);not null;index:idx_chat_msg_session_ts,priority:1" json:"-"`
	UserID    uint64    `gorm:"not null;index" json:"-"`
	Role      Role      `gorm:"type:varchar(16);not null" json:"role"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	ModelType string    `gorm:"type:varchar(64)" json:"model_type"`
	CreatedAt time.Time `gorm:"column:timestamp;index:idx_chat_msg_session_ts,priority:2" json:"timestamp"`

	User *models.User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Message) TableName() string { return "chat_messages" }

// SessionSummary is a session as listed to its owner.
type SessionSummary struct {
	SessionID    string    `json:"session_id"`
	SessionName  string    `json:"session_name"`
	CreatedAt    time.Time `json:"created_at"`
	LastActivity time.Time `json:"last_activity"`
	MessageCount int64     `json:"message_count"`
}

type ExportInfo struct {
	SessionID      string    `json:"session_id"`
	SessionName    string    `json:"session_name"`
	CreatedAt      time.Time `json:"created_at"`
	LastActivity   time.Time `json:"last_activity"`
	TotalMessages  int       `json:"total_messages"`
	TotalQuestions int       `json:"total_questions"`
}

type Export struct {
	SessionInfo ExportInfo `json:"session_info"`
	Messages    []Message  `json:"messages"`
}
