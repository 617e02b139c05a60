package quiz

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repo struct {
	db *gorm.DB
}

func NewRepo(db *gorm.DB) *Repo {
	return &Repo{db: db}
}

// Insert stores r. A result whose Ref is already stored is ignored.
func (r *Repo) Insert(ctx context.Context, res *Result) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "ref"}}, DoNothing: true}).
		Create(res).Error
}

// Record lets the repo act as a synchronous Recorder.
func (r *Repo) Record(ctx context.Context, res *Result) error {
	return r.Insert(ctx, res)
}

func (r *Repo) ListByUser(ctx context.Context, userID uint64, limit int) ([]Result, error) {
	var out []Result
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "timestamp"}, Desc: true}).
		Order("id DESC").
		Limit(limit).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
