package quiz

import (
	"time"

	"github.com/suPer8Hu/paper-explorer/internal/models"
	"gorm.io/datatypes"
)

// Result is one scored submission. Ref is assigned at submit time so a
// redelivered queue message cannot store the same result twice.
type Result struct {
	ID             uint64         `gorm:"primaryKey;autoIncrement" json:"id"`
	Ref            string         `gorm:"type:varchar(26);uniqueIndex;not null" json:"ref"`
	UserID         uint64         `gorm:"not null;index:idx_quiz_results_user_ts,priority:1" json:"user_id"`
	PaperTitle     string         `gorm:"type:varchar(512);not null" json:"paper_title"`
	Score          int            `gorm:"not null" json:"score"`
	TotalQuestions int            `gorm:"not null" json:"total_questions"`
	Answers        datatypes.JSON `json:"answers"`
	CreatedAt      time.Time      `gorm:"column:timestamp;index:idx_quiz_results_user_ts,priority:2" json:"timestamp"`

	User *models.User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Result) TableName() string { return "quiz_results" }

type Question struct {
	Question    string            `json:"question"`
	Options     map[string]string `json:"options"`
	Correct     string            `json:"correct"`
	Explanation string            `json:"explanation"`
}

type Quiz struct {
	PaperTitle string     `json:"paper_title"`
	Questions  []Question `json:"questions"`
}

type Outcome struct {
	Score      int     `json:"score"`
	Total      int     `json:"total"`
	Percentage float64 `json:"percentage"`
	Passed     bool    `json:"passed"`
}

type HistoryItem struct {
	PaperTitle     string    `json:"paper_title"`
	Score          int       `json:"score"`
	TotalQuestions int       `json:"total_questions"`
	Percentage     float64   `json:"percentage"`
	Timestamp      time.Time `json:"timestamp"`
}
