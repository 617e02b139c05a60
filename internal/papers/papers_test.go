package papers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/suPer8Hu/paper-explorer/internal/common"
)

func TestSummarize(t *testing.T) {
	svc := NewService()
	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	got, err := svc.Summarize("  Bone Density Changes  ")
	require.NoError(t, err)
	assert.Equal(t, "Bone Density Changes", got.PaperTitle)
	assert.Contains(t, got.Summary, `"Bone Density Changes"`)
	assert.Len(t, got.KeyFindings, 3)
	assert.Equal(t, fixed, got.GeneratedAt)

	_, err = svc.Summarize("   ")
	assert.ErrorIs(t, err, common.ErrValidation)
}

func TestSuggestions(t *testing.T) {
	svc := NewService()

	assert.Empty(t, svc.Suggestions("m", 0))
	assert.Empty(t, svc.Suggestions("", 0))
	assert.NotNil(t, svc.Suggestions("", 0))

	got := svc.Suggestions("MICROGRAVITY", 0)
	require.Len(t, got, 3)
	for i := 1; i < len(got); i++ {
		assert.LessOrEqual(t, len(got[i-1].Title), len(got[i].Title))
	}
	assert.Equal(t, "Protein Crystallization in Microgravity Conditions", got[0].Title)
	assert.Equal(t, "Garcia, M.E., Wilson, D.K., Taylor, B.J.", got[0].Authors)

	assert.Len(t, svc.Suggestions("in", 2), 2)
	assert.Len(t, svc.Suggestions("e", 100), 0)
	assert.LessOrEqual(t, len(svc.Suggestions("es", 100)), MaxSuggestionLimit)
}

func TestSearch(t *testing.T) {
	svc := NewService()

	assert.Empty(t, svc.Search("  ", 0))

	got := svc.Search("microgravity", 0)
	require.Len(t, got, 3)
	for _, m := range got {
		assert.Equal(t, 4, m.RelevanceScore, m.Title)
	}

	// ties keep catalog order
	got = svc.Search("space", 0)
	require.NotEmpty(t, got)
	assert.Equal(t, "DNA Repair Mechanisms in Space Radiation Environment", got[0].Title)
	assert.Equal(t, 4, got[0].RelevanceScore)

	got = svc.Search("chen", 0)
	require.Len(t, got, 1)
	assert.Equal(t, 2, got[0].RelevanceScore)

	assert.Len(t, svc.Search("a", 2), 2)
	assert.Empty(t, svc.Search("nothing-matches-this", 0))
}

func TestClampLimit(t *testing.T) {
	assert.Equal(t, 10, clampLimit(0, 10, 50))
	assert.Equal(t, 10, clampLimit(-3, 10, 50))
	assert.Equal(t, 7, clampLimit(7, 10, 50))
	assert.Equal(t, 50, clampLimit(500, 10, 50))
}
