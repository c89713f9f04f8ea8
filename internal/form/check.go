package form

import (
	"fmt"
	"strings"

	"clientbrief/internal/analysis"
)

// CheckAnswer verifies that a submitted answer has the right shape for the
// question's type. A nil answer always passes; whether an answer may be
// absent is the intake service's required-question check, not a shape
// concern. Option membership is enforced for select, radio, and checkbox.
func CheckAnswer(q Question, answer any) error {
	if answer == nil {
		return nil
	}

	switch q.Type {
	case analysis.TypeText, analysis.TypeTextarea:
		if _, ok := answer.(string); !ok {
			return fmt.Errorf("question %q: expected text, got %T", q.ID, answer)
		}
	case analysis.TypeEmail:
		s, ok := answer.(string)
		if !ok {
			return fmt.Errorf("question %q: expected text, got %T", q.ID, answer)
		}
		if s != "" && !looksLikeEmail(s) {
			return fmt.Errorf("question %q: %q is not an email address", q.ID, s)
		}
	case analysis.TypeNumber:
		switch answer.(type) {
		case float64, float32, int, int64:
		default:
			return fmt.Errorf("question %q: expected a number, got %T", q.ID, answer)
		}
	case analysis.TypeDate:
		s, ok := answer.(string)
		if !ok {
			return fmt.Errorf("question %q: expected a date string, got %T", q.ID, answer)
		}
		if s != "" {
			if _, ok := analysis.ParseDate(s); !ok {
				return fmt.Errorf("question %q: %q is not a recognized date", q.ID, s)
			}
		}
	case analysis.TypeSelect, analysis.TypeRadio:
		s, ok := answer.(string)
		if !ok {
			return fmt.Errorf("question %q: expected one selected option, got %T", q.ID, answer)
		}
		if s != "" && !hasOption(q, s) {
			return fmt.Errorf("question %q: %q is not one of the options", q.ID, s)
		}
	case analysis.TypeCheckbox:
		selected, err := stringSlice(answer)
		if err != nil {
			return fmt.Errorf("question %q: %w", q.ID, err)
		}
		for _, s := range selected {
			if !hasOption(q, s) {
				return fmt.Errorf("question %q: %q is not one of the options", q.ID, s)
			}
		}
	}
	return nil
}

func hasOption(q Question, value string) bool {
	for _, opt := range q.Options {
		if opt == value {
			return true
		}
	}
	return false
}

func stringSlice(answer any) ([]string, error) {
	switch v := answer.(type) {
	case []string:
		return v, nil
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("expected selected options as text, got %T", item)
			}
			out = append(out, s)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("expected a list of selected options, got %T", answer)
	}
}

// looksLikeEmail is a shape check, not an RFC validation: exactly one "@"
// with a non-empty local part and a dotted domain.
func looksLikeEmail(s string) bool {
	at := strings.Index(s, "@")
	if at <= 0 || at != strings.LastIndex(s, "@") {
		return false
	}
	domain := s[at+1:]
	dot := strings.Index(domain, ".")
	return dot > 0 && dot < len(domain)-1
}
