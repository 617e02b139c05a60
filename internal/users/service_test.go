package users

import (
	"context"
	"path/filepath"
	"testing"

	gormsqlite "github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/suPer8Hu/paper-explorer/internal/common"
	"github.com/suPer8Hu/paper-explorer/internal/db"
	"github.com/suPer8Hu/paper-explorer/internal/models"
	"gorm.io/gorm"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := db.SQLiteDSN(filepath.Join(t.TempDir(), "users.db"))
	gdb, err := gorm.Open(gormsqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, gdb.AutoMigrate(&models.User{}))
	return gdb
}

func TestRegister_StoresHashAndPublicFields(t *testing.T) {
	svc := NewService(NewRepo(openTestDB(t)))
	ctx := context.Background()

	u, err := svc.Register(ctx, "  alice ", "alice@example.com", "password123")
	require.NoError(t, err)
	assert.NotZero(t, u.ID)
	assert.Equal(t, "alice", u.Username)
	assert.NotEqual(t, "password123", u.PasswordHash)

	pub := u.Public()
	assert.Equal(t, u.ID, pub.ID)
	assert.Equal(t, "alice@example.com", pub.Email)
}

func TestRegister_Validation(t *testing.T) {
	svc := NewService(NewRepo(openTestDB(t)))
	ctx := context.Background()

	cases := []struct {
		name, username, email, password string
	}{
		{"missing username", " ", "a@example.com", "password123"},
		{"missing email", "alice", "", "password123"},
		{"missing password", "alice", "a@example.com", ""},
		{"short password", "alice", "a@example.com", "short"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Register(ctx, tc.username, tc.email, tc.password)
			assert.ErrorIs(t, err, common.ErrValidation)
		})
	}
}

func TestRegister_ConflictNamesField(t *testing.T) {
	svc := NewService(NewRepo(openTestDB(t)))
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice", "alice@example.com", "password123")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "alice", "other@example.com", "password123")
	assert.ErrorIs(t, err, &common.Error{Kind: common.KindConflict, Field: "username"})

	_, err = svc.Register(ctx, "bob", "alice@example.com", "password123")
	assert.ErrorIs(t, err, &common.Error{Kind: common.KindConflict, Field: "email"})
}

func TestAuthenticate_GenericFailure(t *testing.T) {
	svc := NewService(NewRepo(openTestDB(t)))
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice", "alice@example.com", "password123")
	require.NoError(t, err)

	u, err := svc.Authenticate(ctx, "alice", "password123")
	require.NoError(t, err)
	assert.Equal(t, "alice", u.Username)

	_, unknownErr := svc.Authenticate(ctx, "nobody", "password123")
	_, wrongErr := svc.Authenticate(ctx, "alice", "wrong-password")
	require.Error(t, unknownErr)
	require.Error(t, wrongErr)
	assert.ErrorIs(t, unknownErr, common.ErrAuth)
	assert.Equal(t, unknownErr.Error(), wrongErr.Error())

	_, err = svc.Authenticate(ctx, "", "")
	assert.ErrorIs(t, err, common.ErrValidation)
}

func TestGet_MissingUser(t *testing.T) {
	svc := NewService(NewRepo(openTestDB(t)))

	_, err := svc.Get(context.Background(), 42)
	assert.ErrorIs(t, err, common.ErrNotFound)
}
