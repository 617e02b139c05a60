package quiz

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

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
	dsn := db.SQLiteDSN(filepath.Join(t.TempDir(), "quiz.db"))
	gdb, err := gorm.Open(gormsqlite.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := gdb.AutoMigrate(&models.User{}, &Result{}); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return gdb
}

func seedUser(t *testing.T, gdb *gorm.DB, name string) uint64 {
	t.Helper()
	u := &models.User{Username: name, Email: name + "@example.com", PasswordHash: "x"}
	require.NoError(t, gdb.Create(u).Error)
	return u.ID
}

type failingRecorder struct{ calls int }

func (f *failingRecorder) Record(context.Context, *Result) error {
	f.calls++
	return errors.New("broker down")
}

func TestGenerate(t *testing.T) {
	q, err := Generate(" Bone Density ", 0)
	require.NoError(t, err)
	assert.Equal(t, "Bone Density", q.PaperTitle)
	require.Len(t, q.Questions, DefaultQuestions)
	assert.Contains(t, q.Questions[0].Question, "'Bone Density'")
	for i, qq := range q.Questions {
		assert.Len(t, qq.Options, 4)
		assert.Equal(t, answerKey[i], qq.Correct)
	}

	q, err = Generate("x", 2)
	require.NoError(t, err)
	assert.Len(t, q.Questions, 2)

	q, err = Generate("x", 99)
	require.NoError(t, err)
	assert.Len(t, q.Questions, 5)

	_, err = Generate("", 3)
	assert.ErrorIs(t, err, common.ErrValidation)
}

func TestScore(t *testing.T) {
	cases := []struct {
		name    string
		answers map[string]string
		want    Outcome
	}{
		{"all correct", map[string]string{"0": "A", "1": "B", "2": "A", "3": "D", "4": "D"}, Outcome{5, 5, 100, true}},
		{"two of three", map[string]string{"0": "A", "1": "C", "2": "A"}, Outcome{2, 3, 66.7, false}},
		{"four of five passes", map[string]string{"0": "A", "1": "B", "2": "A", "3": "D", "4": "A"}, Outcome{4, 5, 80, true}},
		{"unknown index counts towards total", map[string]string{"0": "A", "42": "A"}, Outcome{1, 2, 50, false}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Score(tc.answers)
			require.NoError(t, err)
			assert.Equal(t, tc.want, *got)
		})
	}

	_, err := Score(nil)
	assert.ErrorIs(t, err, common.ErrValidation)
	_, err = Score(map[string]string{"first": "A"})
	assert.ErrorIs(t, err, common.ErrValidation)
}

func TestSubmit_RecordsAndHistory(t *testing.T) {
	gdb := openTestDB(t)
	ctx := context.Background()
	alice := seedUser(t, gdb, "alice")
	bob := seedUser(t, gdb, "bob")

	svc := NewService(NewRepo(gdb), nil, nil)
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	n := 0
	svc.now = func() time.Time { n++; return base.Add(time.Duration(n) * time.Minute) }

	out, err := svc.Submit(ctx, alice, "First paper", map[string]string{"0": "A", "1": "B", "2": "C"})
	require.NoError(t, err)
	assert.Equal(t, Outcome{2, 3, 66.7, false}, *out)

	_, err = svc.Submit(ctx, alice, "Second paper", map[string]string{"0": "A"})
	require.NoError(t, err)
	_, err = svc.Submit(ctx, bob, "Bob paper", map[string]string{"0": "B"})
	require.NoError(t, err)

	hist, err := svc.History(ctx, alice)
	require.NoError(t, err)
	require.Len(t, hist, 2)
	assert.Equal(t, "Second paper", hist[0].PaperTitle)
	assert.Equal(t, 100.0, hist[0].Percentage)
	assert.Equal(t, "First paper", hist[1].PaperTitle)
	assert.Equal(t, 66.7, hist[1].Percentage)
	assert.Equal(t, 3, hist[1].TotalQuestions)

	_, err = svc.Submit(ctx, alice, "  ", map[string]string{"0": "A"})
	assert.ErrorIs(t, err, common.ErrValidation)
}

func TestSubmit_RecorderFailureIsNotFatal(t *testing.T) {
	gdb := openTestDB(t)
	rec := &failingRecorder{}
	svc := NewService(NewRepo(gdb), rec, nil)

	out, err := svc.Submit(context.Background(), 1, "Paper", map[string]string{"0": "A"})
	require.NoError(t, err)
	assert.True(t, out.Passed)
	assert.Equal(t, 1, rec.calls)
}

func TestRepoInsert_DuplicateRefIgnored(t *testing.T) {
	gdb := openTestDB(t)
	ctx := context.Background()
	alice := seedUser(t, gdb, "alice")
	repo := NewRepo(gdb)

	mk := func() *Result {
		return &Result{Ref: "01HZZZZZZZZZZZZZZZZZZZZZZZ", UserID: alice, PaperTitle: "p", Score: 1, TotalQuestions: 1}
	}
	require.NoError(t, repo.Insert(ctx, mk()))
	require.NoError(t, repo.Insert(ctx, mk()))

	rows, err := repo.ListByUser(ctx, alice, HistoryLimit)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestHistory_CapAndCascade(t *testing.T) {
	gdb := openTestDB(t)
	ctx := context.Background()
	alice := seedUser(t, gdb, "alice")
	svc := NewService(NewRepo(gdb), nil, nil)

	for i := 0; i < HistoryLimit+5; i++ {
		_, err := svc.Submit(ctx, alice, "p", map[string]string{"0": "A"})
		require.NoError(t, err)
	}
	hist, err := svc.History(ctx, alice)
	require.NoError(t, err)
	assert.Len(t, hist, HistoryLimit)

	require.NoError(t, gdb.Delete(&models.User{}, alice).Error)
	hist, err = svc.History(ctx, alice)
	require.NoError(t, err)
	assert.Empty(t, hist)
}
