package keyword

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDefaultModel(t *testing.T) *Model {
	t.Helper()
	lex, err := LoadLexicon("")
	require.NoError(t, err)
	m, err := NewModel("", lex)
	require.NoError(t, err)
	return m
}

func TestLoadLexicon_Default(t *testing.T) {
	lex, err := LoadLexicon("")

	require.NoError(t, err)
	assert.Equal(t, "expense-keywords", lex.Name)
	assert.Equal(t, "Other", lex.Fallback)
	for _, label := range []string{"Transport", "Food", "Entertainment", "Travel", "Health and Fitness", "Education"} {
		assert.NotEmpty(t, lex.Labels[label], label)
	}
}

func TestLoadLexicon_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lexicon.yaml")
	require.NoError(t, os.WriteFile(path, []byte("name: sentiment\nfallback: neutral\nlabels:\n  positive: [great, love]\n  negative: [awful]\n"), 0o600))

	lex, err := LoadLexicon(path)

	require.NoError(t, err)
	assert.Equal(t, "sentiment", lex.Name)
	assert.Equal(t, []string{"great", "love"}, lex.Labels["positive"])
}

func TestLoadLexicon_Errors(t *testing.T) {
	_, err := LoadLexicon(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "failed to read lexicon")

	_, err = ParseLexicon([]byte("labels: [not, a, map]"))
	assert.ErrorContains(t, err, "failed to parse lexicon")
}

func TestNewModel(t *testing.T) {
	t.Run("name defaults to lexicon name", func(t *testing.T) {
		m := newDefaultModel(t)
		assert.Equal(t, "expense-keywords", m.Name())
		assert.NoError(t, m.Load(context.Background()))
	})

	t.Run("explicit name wins", func(t *testing.T) {
		m, err := NewModel("offline", &Lexicon{Name: "x", Labels: map[string][]string{"a": {"alpha"}}})
		require.NoError(t, err)
		assert.Equal(t, "offline", m.Name())
	})

	t.Run("empty lexicon", func(t *testing.T) {
		_, err := NewModel("x", &Lexicon{Labels: map[string][]string{"a": {"", "  "}}})
		assert.ErrorIs(t, err, ErrEmptyLexicon)
	})

	t.Run("duplicate keyword", func(t *testing.T) {
		_, err := NewModel("x", &Lexicon{Labels: map[string][]string{
			"Food":   {"Coffee"},
			"Travel": {"coffee"},
		}})
		assert.ErrorIs(t, err, ErrDuplicateKeyword)
	})
}

func TestModel_Predict(t *testing.T) {
	m := newDefaultModel(t)
	ctx := context.Background()

	tests := []struct {
		name      string
		text      string
		wantLabel string
		wantScore float64
		wantLen   int
	}{
		{name: "single hit", text: "Taxi home", wantLabel: "Transport", wantScore: 1, wantLen: 1},
		{name: "case insensitive", text: "NETFLIX subscription", wantLabel: "Entertainment", wantScore: 1, wantLen: 1},
		{name: "majority label wins", text: "coffee and lunch then bus", wantLabel: "Food", wantScore: 2.0 / 3.0, wantLen: 2},
		{name: "equal shares ordered by label", text: "Grab to airport", wantLabel: "Transport", wantScore: 0.5, wantLen: 2},
		{name: "multi-word keyword", text: "bubble   tea", wantLabel: "Food", wantScore: 1, wantLen: 1},
		{name: "partial word is not a hit", text: "business lunch", wantLabel: "Food", wantScore: 1, wantLen: 1},
		{name: "no hits falls back", text: "misc stuff", wantLabel: "Other", wantScore: 0, wantLen: 1},
		{name: "empty text falls back", text: "", wantLabel: "Other", wantScore: 0, wantLen: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ranking, err := m.Predict(ctx, tt.text)

			require.NoError(t, err)
			require.Len(t, ranking, tt.wantLen)
			top, err := ranking.Top()
			require.NoError(t, err)
			assert.Equal(t, tt.wantLabel, top.Label)
			assert.InDelta(t, tt.wantScore, top.Score, 1e-9)
			for _, p := range ranking {
				assert.NoError(t, p.Validate())
			}
		})
	}
}

func TestModel_Predict_Deterministic(t *testing.T) {
	m := newDefaultModel(t)
	ctx := context.Background()

	first, err := m.Predict(ctx, "hotel, flight and taxi")
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := m.Predict(ctx, "hotel, flight and taxi")
			assert.NoError(t, err)
			assert.Equal(t, first, got)
		}()
	}
	wg.Wait()

	assert.Equal(t, "Travel", first[0].Label)
	assert.InDelta(t, 2.0/3.0, first[0].Score, 1e-9)
}
