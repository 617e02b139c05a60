// Package papers serves the static paper catalog: placeholder summaries,
// title autocomplete and keyword search. Nothing here calls a model.
package papers

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/suPer8Hu/paper-explorer/internal/common"
)

const (
	DefaultSearchLimit     = 10
	MaxSearchLimit         = 50
	DefaultSuggestionLimit = 5
	MaxSuggestionLimit     = 10

	minSuggestionQuery = 2
)

type Summary struct {
	PaperTitle   string    `json:"paper_title"`
	Summary      string    `json:"summary"`
	KeyFindings  []string  `json:"key_findings"`
	Methodology  string    `json:"methodology"`
	Significance string    `json:"significance"`
	GeneratedAt  time.Time `json:"generated_at"`
}

type Suggestion struct {
	Title   string `json:"title"`
	Authors string `json:"authors"`
	Year    int    `json:"year"`
}

type Match struct {
	Paper
	RelevanceScore int `json:"relevance_score"`
}

type Service struct {
	papers []Paper
	now    func() time.Time
}

func NewService() *Service {
	return &Service{papers: catalog, now: func() time.Time { return time.Now().UTC() }}
}

func (s *Service) Summarize(title string) (*Summary, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, common.Validation("paper_title", "Paper title is required")
	}
	return &Summary{
		PaperTitle: title,
		Summary: fmt.Sprintf("This research paper examines the effects of microgravity conditions on biological systems. "+
			"The study %q investigates how the absence of gravitational forces influences cellular processes, "+
			"physiological adaptations, and molecular mechanisms. The research contributes to our understanding "+
			"of space biology and has implications for long-duration spaceflight missions.", title),
		KeyFindings: []string{
			"Microgravity significantly alters cellular behavior and gene expression patterns",
			"Physiological adaptations occur rapidly in weightless environments",
			"Countermeasures may be necessary to mitigate negative effects during spaceflight",
		},
		Methodology: "The study likely employed ground-based microgravity simulation facilities, flight experiments, " +
			"or analysis of astronaut data to investigate the biological responses to weightless conditions.",
		Significance: "This research is crucial for understanding how living organisms adapt to space environments " +
			"and for developing strategies to maintain crew health during long-duration missions to Mars and beyond.",
		GeneratedAt: s.now(),
	}, nil
}

// Suggestions returns titles containing q, shortest first. Queries under
// two characters yield nothing.
func (s *Service) Suggestions(q string, limit int) []Suggestion {
	q = strings.ToLower(strings.TrimSpace(q))
	out := []Suggestion{}
	if len([]rune(q)) < minSuggestionQuery {
		return out
	}
	for _, p := range s.papers {
		if strings.Contains(strings.ToLower(p.Title), q) {
			out = append(out, Suggestion{Title: p.Title, Authors: strings.Join(p.Authors, ", "), Year: p.Year})
		}
	}
	slices.SortStableFunc(out, func(a, b Suggestion) int { return len(a.Title) - len(b.Title) })
	return out[:min(len(out), clampLimit(limit, DefaultSuggestionLimit, MaxSuggestionLimit))]
}

// Search scores every paper against q (title 3, author 2, keyword 1) and
// returns the matches by descending score.
func (s *Service) Search(q string, limit int) []Match {
	q = strings.ToLower(strings.TrimSpace(q))
	out := []Match{}
	if q == "" {
		return out
	}
	for _, p := range s.papers {
		score := 0
		if strings.Contains(strings.ToLower(p.Title), q) {
			score += 3
		}
		if containsAny(p.Authors, q) {
			score += 2
		}
		if containsAny(p.Keywords, q) {
			score++
		}
		if score > 0 {
			out = append(out, Match{Paper: p, RelevanceScore: score})
		}
	}
	slices.SortStableFunc(out, func(a, b Match) int { return b.RelevanceScore - a.RelevanceScore })
	return out[:min(len(out), clampLimit(limit, DefaultSearchLimit, MaxSearchLimit))]
}

func containsAny(values []string, q string) bool {
	for _, v := range values {
		if strings.Contains(strings.ToLower(v), q) {
			return true
		}
	}
	return false
}

func clampLimit(n, def, hi int) int {
	if n <= 0 {
		return def
	}
	return min(n, hi)
}
