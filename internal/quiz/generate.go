package quiz

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/suPer8Hu/paper-explorer/internal/common"
)

const (
	DefaultQuestions = 5
	MaxQuestions     = 10
	PassPercentage   = 70.0
)

// answerKey is the fixed key submissions are graded against, by question index.
var answerKey = map[int]string{0: "A", 1: "B", 2: "A", 3: "D", 4: "D"}

func questionBank(title string) []Question {
	return []Question{
		{
			Question: fmt.Sprintf("What is the primary focus of the research paper '%s'?", title),
			Options: map[string]string{
				"A": "Investigating the effects of microgravity on biological processes",
				"B": "Developing new space exploration technologies",
				"C": "Analyzing atmospheric conditions on Mars",
				"D": "Studying solar radiation patterns",
			},
			Correct:     "A",
			Explanation: "The paper primarily focuses on biological processes and their response to space conditions.",
		},
		{
			Question: "Which methodology was most likely used in this research?",
			Options: map[string]string{
				"A": "Theoretical modeling only",
				"B": "Ground-based experiments with simulated conditions",
				"C": "Observational studies from Earth",
				"D": "Computer simulations exclusively",
			},
			Correct:     "B",
			Explanation: "Most space biology research uses ground-based experiments that simulate space conditions.",
		},
		{
			Question: "What are the potential applications of this research?",
			Options: map[string]string{
				"A": "Improving astronaut health during long missions",
				"B": "Developing better spacecraft materials",
				"C": "Enhancing communication systems",
				"D": "Creating new propulsion technologies",
			},
			Correct:     "A",
			Explanation: "Space biology research primarily aims to understand and mitigate the effects of space on living organisms.",
		},
		{
			Question: "Which of the following is a common challenge in space biology research?",
			Options: map[string]string{
				"A": "Limited access to space-based experimental facilities",
				"B": "Lack of funding for research projects",
				"C": "Difficulty in replicating space conditions on Earth",
				"D": "All of the above",
			},
			Correct:     "D",
			Explanation: "Space biology research faces multiple challenges including limited access to space, funding constraints, and technical difficulties.",
		},
		{
			Question: "What type of controls would be essential in this type of study?",
			Options: map[string]string{
				"A": "Earth gravity conditions as a baseline",
				"B": "Different time intervals for observation",
				"C": "Multiple biological specimens",
				"D": "All of the above",
			},
			Correct:     "D",
			Explanation: "Proper scientific methodology requires multiple types of controls to ensure valid results.",
		},
	}
}

// Generate builds the placeholder quiz for title. n <= 0 means the
// default; the bank holds fewer questions than MaxQuestions.
func Generate(title string, n int) (*Quiz, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, common.Validation("paper_title", "Paper title is required")
	}
	if n <= 0 {
		n = DefaultQuestions
	}
	n = min(n, MaxQuestions)

	qs := questionBank(title)
	return &Quiz{PaperTitle: title, Questions: qs[:min(n, len(qs))]}, nil
}

// Score grades answers (question index -> chosen option) against the key.
// Every submitted answer counts towards the total.
func Score(answers map[string]string) (*Outcome, error) {
	if len(answers) == 0 {
		return nil, common.Validation("answers", "Paper title and answers are required")
	}
	correct := 0
	for k, v := range answers {
		idx, err := strconv.Atoi(strings.TrimSpace(k))
		if err != nil {
			return nil, common.Validation("answers", "answer keys must be question indexes")
		}
		if want, ok := answerKey[idx]; ok && want == strings.TrimSpace(v) {
			correct++
		}
	}
	pct := percentage(correct, len(answers))
	return &Outcome{
		Score:      correct,
		Total:      len(answers),
		Percentage: round1(pct),
		Passed:     pct >= PassPercentage,
	}, nil
}

func percentage(score, total int) float64 {
	if total <= 0 {
		return 0
	}
	return float64(score) / float64(total) * 100
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
