package history

import (
	"time"

	"github.com/suPer8Hu/paper-explorer/internal/models"
	"gorm.io/datatypes"
)

// Entry is one saved search: the query, the answer shown and its sources.
type Entry struct {
	ID        uint64         `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    uint64         `gorm:"not null;index:idx_search_history_user_ts,priority:1" json:"-"`
	Query     string         `gorm:"type:text;not null" json:"query"`
	ModelType string         `gorm:"type:varchar(64);not null" json:"model_type"`
	Response  string         `gorm:"type:text" json:"response"`
	Sources   datatypes.JSON `json:"sources"`
	CreatedAt time.Time      `gorm:"column:timestamp;index:idx_search_history_user_ts,priority:2" json:"timestamp"`

	User *models.User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Entry) TableName() string { return "search_history" }
