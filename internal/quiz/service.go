package quiz

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/suPer8Hu/paper-explorer/internal/common"
)

const HistoryLimit = 50

// Recorder persists a scored result, either directly or through a queue.
type Recorder interface {
	Record(ctx context.Context, r *Result) error
}

type Service struct {
	repo     *Repo
	recorder Recorder
	log      *slog.Logger
	now      func() time.Time
}

// NewService records through recorder, or straight into repo when nil.
func NewService(repo *Repo, recorder Recorder, log *slog.Logger) *Service {
	if recorder == nil {
		recorder = repo
	}
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		repo:     repo,
		recorder: recorder,
		log:      log,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Submit scores answers for userID. Failing to record the result is logged
// and never fails the submission.
func (s *Service) Submit(ctx context.Context, userID uint64, paperTitle string, answers map[string]string) (*Outcome, error) {
	paperTitle = strings.TrimSpace(paperTitle)
	if paperTitle == "" {
		return nil, common.Validation("paper_title", "Paper title and answers are required")
	}
	out, err := Score(answers)
	if err != nil {
		return nil, err
	}

	if err := s.record(ctx, userID, paperTitle, answers, out); err != nil {
		s.log.WarnContext(ctx, "quiz result not recorded", "user_id", userID, "err", err)
	}
	return out, nil
}

func (s *Service) record(ctx context.Context, userID uint64, paperTitle string, answers map[string]string, out *Outcome) error {
	ref, err := common.NewULID()
	if err != nil {
		return fmt.Errorf("result ref: %w", err)
	}
	raw, err := json.Marshal(answers)
	if err != nil {
		return fmt.Errorf("encode answers: %w", err)
	}
	return s.recorder.Record(ctx, &Result{
		Ref:            ref,
		UserID:         userID,
		PaperTitle:     paperTitle,
		Score:          out.Score,
		TotalQuestions: out.Total,
		Answers:        raw,
		CreatedAt:      s.now(),
	})
}

func (s *Service) History(ctx context.Context, userID uint64) ([]HistoryItem, error) {
	rows, err := s.repo.ListByUser(ctx, userID, HistoryLimit)
	if err != nil {
		return nil, fmt.Errorf("list quiz results: %w", err)
	}
	out := make([]HistoryItem, 0, len(rows))
	for _, r := range rows {
		out = append(out, HistoryItem{
			PaperTitle:     r.PaperTitle,
			Score:          r.Score,
			TotalQuestions: r.TotalQuestions,
			Percentage:     round1(percentage(r.Score, r.TotalQuestions)),
			Timestamp:      r.CreatedAt,
		})
	}
	return out, nil
}
