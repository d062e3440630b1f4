package session

import (
	"strings"

	"github.com/saulo-duarte/aizzler/internal/aiquiz"
)

type Result struct {
	Index    int
	Question aiquiz.Question
	Given    string
	Answered bool
	Correct  bool
}

type Report struct {
	Results    []Result
	Score      int
	Total      int
	Percentage float64
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func isCorrect(q aiquiz.Question, answer *string) bool {
	return answer != nil && normalize(*answer) == normalize(q.Answer)
}

// Score counts the answers that match the expected answer after trimming and
// case folding. Absent answers never match.
func Score(questions []aiquiz.Question, answers []*string) int {
	score := 0
	for i, q := range questions {
		if i < len(answers) && isCorrect(q, answers[i]) {
			score++
		}
	}
	return score
}

// Evaluate builds the per-question breakdown shown on the results view.
func Evaluate(questions []aiquiz.Question, answers []*string) Report {
	report := Report{
		Results: make([]Result, 0, len(questions)),
		Total:   len(questions),
	}
	for i, q := range questions {
		r := Result{Index: i, Question: q}
		if i < len(answers) && answers[i] != nil {
			r.Given = *answers[i]
			r.Answered = true
			r.Correct = isCorrect(q, answers[i])
		}
		if r.Correct {
			report.Score++
		}
		report.Results = append(report.Results, r)
	}
	if report.Total > 0 {
		report.Percentage = float64(report.Score) / float64(report.Total) * 100
	}
	return report
}
