package history

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/suPer8Hu/paper-explorer/internal/common"
	"gorm.io/datatypes"
)

const (
	DefaultModelType = "researcher"
	ListLimit        = 100
)

type Service struct {
	repo *Repo
	now  func() time.Time
}

func NewService(repo *Repo) *Service {
	return &Service{repo: repo, now: func() time.Time { return time.Now().UTC() }}
}

// Append stores one record. sources must be a JSON array (or empty, which
// is stored as []); its elements are not inspected.
func (s *Service) Append(ctx context.Context, userID uint64, query, modelType, response string, sources json.RawMessage) (*Entry, error) {
	src, err := normalizeSources(sources)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(modelType) == "" {
		modelType = DefaultModelType
	}

	e := &Entry{
		UserID:    userID,
		Query:     query,
		ModelType: modelType,
		Response:  response,
		Sources:   src,
		CreatedAt: s.now(),
	}
	if err := s.repo.Insert(ctx, e); err != nil {
		return nil, fmt.Errorf("insert history: %w", err)
	}
	return e, nil
}

func normalizeSources(raw json.RawMessage) (datatypes.JSON, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return datatypes.JSON("[]"), nil
	}
	if trimmed[0] != '[' || !json.Valid(trimmed) {
		return nil, common.Validation("sources", "sources must be a list")
	}
	return datatypes.JSON(trimmed), nil
}

func (s *Service) List(ctx context.Context, userID uint64) ([]Entry, error) {
	out, err := s.repo.ListByUser(ctx, userID, ListLimit)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	return out, nil
}

// DeleteOne removes the entry if userID owns it; anything else is a no-op.
func (s *Service) DeleteOne(ctx context.Context, userID, entryID uint64) error {
	if err := s.repo.DeleteByID(ctx, userID, entryID); err != nil {
		return fmt.Errorf("delete history %d: %w", entryID, err)
	}
	return nil
}

func (s *Service) ClearAll(ctx context.Context, userID uint64) error {
	if err := s.repo.DeleteByUser(ctx, userID); err != nil {
		return fmt.Errorf("clear history: %w", err)
	}
	return nil
}
