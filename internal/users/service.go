package users

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/suPer8Hu/paper-explorer/internal/auth"
	"github.com/suPer8Hu/paper-explorer/internal/common"
	"github.com/suPer8Hu/paper-explorer/internal/models"
	"gorm.io/gorm"
)

type Service struct {
	repo *Repo
}

func NewService(repo *Repo) *Service {
	return &Service{repo: repo}
}

// Register creates an account. Duplicate usernames and emails surface as
// common.KindConflict errors whose Field names the clashing column.
func (s *Service) Register(ctx context.Context, username, email, password string) (*models.User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	if username == "" || email == "" || password == "" {
		return nil, common.Validation("", "all fields required")
	}
	if len(password) < auth.MinPasswordLength {
		return nil, common.Validation("password", "password must be at least 8 characters")
	}

	if err := s.checkTaken(ctx, username, email); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
	}
	if err := s.repo.Create(ctx, u); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// lost a race with a concurrent registration; find out which field
			if cerr := s.checkTaken(ctx, username, email); cerr != nil {
				return nil, cerr
			}
			return nil, common.Conflict("", "account already exists")
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return u, nil
}

func (s *Service) checkTaken(ctx context.Context, username, email string) error {
	field, err := s.repo.Taken(ctx, username, email)
	if err != nil {
		return fmt.Errorf("check uniqueness: %w", err)
	}
	switch field {
	case "username":
		return common.Conflict("username", "Username already exists")
	case "email":
		return common.Conflict("email", "Email already registered")
	}
	return nil
}

var errInvalidCredentials = common.Unauthorized("Invalid credentials")

// Authenticate verifies a username/password pair. Unknown users and wrong
// passwords produce the same error.
func (s *Service) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, common.Validation("", "username and password required")
	}

	u, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		if isNotFound(err) {
			return nil, errInvalidCredentials
		}
		return nil, fmt.Errorf("load user: %w", err)
	}
	if err := auth.CheckPassword(u.PasswordHash, password); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			return nil, errInvalidCredentials
		}
		return nil, fmt.Errorf("verify password: %w", err)
	}
	return u, nil
}

func (s *Service) Get(ctx context.Context, id uint64) (*models.User, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, common.NotFound("User not found")
		}
		return nil, fmt.Errorf("load user: %w", err)
	}
	return u, nil
}
