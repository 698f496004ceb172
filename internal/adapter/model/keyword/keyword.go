// Package keyword implements an offline lexicon model. Each label owns a
// keyword list; a label's score is its share of all keyword hits in the text.
package keyword

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"
	"unicode"

	goahocorasick "github.com/anknown/ahocorasick"
	"github.com/samber/lo"
	"gopkg.in/yaml.v3"

	"github.com/Expenditure-Tracking-App/Expenditure-Tracking-Service/internal/domain/entity"
)

//go:embed lexicon.yaml
var defaultLexicon []byte

var (
	// ErrEmptyLexicon is returned when the lexicon defines no keywords
	ErrEmptyLexicon = errors.New("lexicon has no keywords")
	// ErrDuplicateKeyword is returned when a keyword is listed under two labels
	ErrDuplicateKeyword = errors.New("keyword listed under more than one label")
)

// Lexicon maps labels to the keywords that indicate them
type Lexicon struct {
	Name     string              `yaml:"name"`
	Fallback string              `yaml:"fallback"`
	Labels   map[string][]string `yaml:"labels"`
}

// ParseLexicon decodes a YAML lexicon
func ParseLexicon(data []byte) (*Lexicon, error) {
	var lex Lexicon
	if err := yaml.Unmarshal(data, &lex); err != nil {
		return nil, fmt.Errorf("failed to parse lexicon: %w", err)
	}
	return &lex, nil
}

// LoadLexicon reads a lexicon file. An empty path selects the embedded
// expense lexicon.
func LoadLexicon(path string) (*Lexicon, error) {
	if path == "" {
		return ParseLexicon(defaultLexicon)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read lexicon: %w", err)
	}
	return ParseLexicon(data)
}

// Model classifies text by keyword hits. It is immutable after construction
// and safe for concurrent use.
type Model struct {
	name     string
	fallback string
	matcher  *goahocorasick.Machine
	labelOf  map[string]string
}

// NewModel builds the keyword automaton for a lexicon
func NewModel(name string, lex *Lexicon) (*Model, error) {
	if name == "" {
		name = lex.Name
	}

	labelOf := make(map[string]string)
	// Sorted for a deterministic duplicate report
	for _, label := range sortedKeys(lex.Labels) {
		for _, kw := range lex.Labels[label] {
			normalized := normalize(kw)
			if normalized == "" {
				continue
			}
			if owner, ok := labelOf[normalized]; ok && owner != label {
				return nil, fmt.Errorf("%w: %q in %q and %q", ErrDuplicateKeyword, kw, owner, label)
			}
			labelOf[normalized] = label
		}
	}
	if len(labelOf) == 0 {
		return nil, ErrEmptyLexicon
	}

	patterns := lo.Map(sortedKeys(labelOf), func(kw string, _ int) []rune {
		return []rune(kw)
	})

	m := new(goahocorasick.Machine)
	if err := m.Build(patterns); err != nil {
		return nil, fmt.Errorf("failed to build keyword matcher: %w", err)
	}

	fallback := lex.Fallback
	if fallback == "" {
		fallback = "Other"
	}

	return &Model{
		name:     name,
		fallback: fallback,
		matcher:  m,
		labelOf:  labelOf,
	}, nil
}

// Name returns the model identifier
func (m *Model) Name() string {
	return m.name
}

// Load is a no-op; the automaton is built by NewModel.
func (m *Model) Load(context.Context) error {
	return nil
}

// Predict ranks labels by their share of keyword hits. Text without hits
// yields the fallback label with a zero score.
func (m *Model) Predict(_ context.Context, text string) (entity.Ranking, error) {
	content := []rune(normalize(text))
	hits := make(map[string]int)
	total := 0

	if len(content) > 0 {
		for _, term := range m.matcher.MultiPatternSearch(content, false) {
			if !isWholeWord(content, term.Pos, len(term.Word)) {
				continue
			}
			hits[m.labelOf[string(term.Word)]]++
			total++
		}
	}

	if total == 0 {
		return entity.Ranking{{Label: m.fallback, Score: 0}}, nil
	}

	ranking := make(entity.Ranking, 0, len(hits))
	for label, n := range hits {
		ranking = append(ranking, entity.Prediction{
			Label: label,
			Score: float64(n) / float64(total),
		})
	}
	ranking.Sort()

	return ranking, nil
}

// normalize lowercases text and collapses whitespace runs to single spaces
func normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

func isWholeWord(content []rune, pos, length int) bool {
	if pos > 0 && isWordRune(content[pos-1]) {
		return false
	}
	end := pos + length
	if end < len(content) && isWordRune(content[end]) {
		return false
	}
	return true
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := lo.Keys(m)
	slices.Sort(keys)
	return keys
}
