package form

import (
	"fmt"
	"strconv"
	"strings"

	"clientbrief/internal/analysis"
)

// valueText is the comparison form of an answer or condition value. Answers
// arrive as decoded JSON (string, float64, bool) while YAML definitions
// decode numbers as int, so both sides are compared as canonical text.
func valueText(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case float64:
		return strconv.FormatFloat(t, 'g', -1, 64)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	default:
		return fmt.Sprintf("%v", t)
	}
}

func equalValues(have, want any) bool {
	return valueText(have) == valueText(want)
}

// containsValue reports whether the answer contains the condition value:
// element match for multi-select answers, substring match for text.
func containsValue(have, want any) bool {
	wantText := valueText(want)
	switch t := have.(type) {
	case []any:
		for _, item := range t {
			if valueText(item) == wantText {
				return true
			}
		}
		return false
	case []string:
		for _, item := range t {
			if item == wantText {
				return true
			}
		}
		return false
	default:
		return strings.Contains(valueText(have), wantText)
	}
}

// Visible evaluates a question's visibility condition against the answers
// collected so far. It is total: no condition or an unknown operator leaves
// the question visible, and a dangling question reference behaves as
// unanswered, so a stale definition can never fail the form.
func Visible(q Question, answers map[string]any) bool {
	c := q.VisibleIf
	if c == nil {
		return true
	}
	answer := answers[c.QuestionID]
	answered := analysis.IsValidAnswer(answer)

	switch c.Operator {
	case OpAnswered:
		return answered
	case OpEquals:
		return answered && equalValues(answer, c.Value)
	case OpNotEquals:
		return !answered || !equalValues(answer, c.Value)
	case OpContains:
		return answered && containsValue(answer, c.Value)
	default:
		return true
	}
}

// VisibleQuestions flattens the form's questions in section order, keeping
// only those visible under the given answers.
func VisibleQuestions(f *Form, answers map[string]any) []Question {
	var out []Question
	for _, s := range f.Sections {
		for _, q := range s.Questions {
			if Visible(q, answers) {
				out = append(out, q)
			}
		}
	}
	return out
}

// Responses assembles the analysis input for a set of answers: one entry
// per visible question in section order. Unanswered visible questions are
// included with a nil answer so the synthesizer still sees their question
// text and the normalizer renders its absent-answer sentinel.
func Responses(f *Form, answers map[string]any) []analysis.RawResponse {
	questions := VisibleQuestions(f, answers)
	out := make([]analysis.RawResponse, 0, len(questions))
	for _, q := range questions {
		out = append(out, analysis.RawResponse{
			Question:     q.Label,
			Answer:       answers[q.ID],
			QuestionType: q.Type,
		})
	}
	return out
}
