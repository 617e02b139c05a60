package common

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorIs(t *testing.T) {
	err := fmt.Errorf("register: %w", Conflict("email", "Email already registered"))

	assert.ErrorIs(t, err, ErrConflict)
	assert.ErrorIs(t, err, &Error{Kind: KindConflict, Field: "email"})
	assert.NotErrorIs(t, err, &Error{Kind: KindConflict, Field: "username"})
	assert.NotErrorIs(t, err, ErrValidation)
	assert.NotErrorIs(t, errors.New("plain"), ErrNotFound)
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindNotFound, KindOf(fmt.Errorf("wrap: %w", NotFound("gone"))))
	assert.Equal(t, KindAuth, KindOf(Unauthorized("nope")))
	assert.Equal(t, KindValidation, KindOf(Validation("", "bad")))
	assert.Equal(t, KindInternal, KindOf(errors.New("db down")))
	assert.Equal(t, KindInternal, KindOf(nil))
}

func TestErrorString(t *testing.T) {
	assert.Equal(t, "validation: Password too short (password)", Validation("password", "Password too short").Error())
	assert.Equal(t, "not_found: Session not found", NotFound("Session not found").Error())
}
