// Package form holds the questionnaire schema: sections of typed questions
// with optional per-question visibility conditions, plus the validation and
// visibility rules the intake service applies to client answers.
package form

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"clientbrief/internal/analysis"
)

// Operator names a visibility-condition comparison.
type Operator string

const (
	OpEquals    Operator = "equals"
	OpNotEquals Operator = "not_equals"
	OpContains  Operator = "contains"
	OpAnswered  Operator = "answered"
)

// Condition gates a question's visibility on another question's answer.
// Value is ignored for the answered operator.
type Condition struct {
	QuestionID string   `json:"question_id" yaml:"question_id"`
	Operator   Operator `json:"operator" yaml:"operator"`
	Value      any      `json:"value,omitempty" yaml:"value,omitempty"`
}

// Question is one prompt shown to the client. Options apply to the
// select, radio, and checkbox types only.
type Question struct {
	ID        string                `json:"id" yaml:"id"`
	Label     string                `json:"label" yaml:"label"`
	Type      analysis.QuestionType `json:"type" yaml:"type"`
	Required  bool                  `json:"required,omitempty" yaml:"required,omitempty"`
	Options   []string              `json:"options,omitempty" yaml:"options,omitempty"`
	VisibleIf *Condition            `json:"visible_if,omitempty" yaml:"visible_if,omitempty"`
}

// Section groups questions into one step of the multi-step client form.
type Section struct {
	Title       string     `json:"title" yaml:"title"`
	Description string     `json:"description,omitempty" yaml:"description,omitempty"`
	Questions   []Question `json:"questions" yaml:"questions"`
}

// Form is a stored questionnaire. Slug and the publish fields are set by
// the forms service when the operator publishes; everything else is
// authorable through the API or a YAML definition.
type Form struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	ClientName  string     `json:"client_name"`
	Slug        string     `json:"slug,omitempty"`
	Published   bool       `json:"published"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	Sections    []Section  `json:"sections"`
}

// Questions flattens the form's questions in section order.
func (f *Form) Questions() []Question {
	var out []Question
	for _, s := range f.Sections {
		out = append(out, s.Questions...)
	}
	return out
}

// Question returns the question with the given id.
func (f *Form) Question(id string) (Question, bool) {
	for _, s := range f.Sections {
		for _, q := range s.Questions {
			if q.ID == id {
				return q, true
			}
		}
	}
	return Question{}, false
}

var knownOperators = map[Operator]struct{}{
	OpEquals:    {},
	OpNotEquals: {},
	OpContains:  {},
	OpAnswered:  {},
}

func optionType(qt analysis.QuestionType) bool {
	return qt == analysis.TypeSelect || qt == analysis.TypeRadio || qt == analysis.TypeCheckbox
}

func knownType(qt analysis.QuestionType) bool {
	for _, t := range analysis.QuestionTypes() {
		if qt == t {
			return true
		}
	}
	return false
}

// Validate checks the authorable schema and returns the first problem found.
// Server-managed fields (ID, Slug, timestamps) are not inspected.
func (f *Form) Validate() error {
	if strings.TrimSpace(f.Title) == "" {
		return errors.New("form title is required")
	}
	if len(f.Sections) == 0 {
		return errors.New("form needs at least one section")
	}

	ids := make(map[string]struct{})
	total := 0
	for si, s := range f.Sections {
		if strings.TrimSpace(s.Title) == "" {
			return fmt.Errorf("section %d: title is required", si+1)
		}
		for qi, q := range s.Questions {
			total++
			if strings.TrimSpace(q.ID) == "" {
				return fmt.Errorf("section %d question %d: id is required", si+1, qi+1)
			}
			if _, dup := ids[q.ID]; dup {
				return fmt.Errorf("duplicate question id %q", q.ID)
			}
			ids[q.ID] = struct{}{}
			if strings.TrimSpace(q.Label) == "" {
				return fmt.Errorf("question %q: label is required", q.ID)
			}
			if !knownType(q.Type) {
				return fmt.Errorf("question %q: unknown type %q", q.ID, q.Type)
			}
			if optionType(q.Type) && len(q.Options) == 0 {
				return fmt.Errorf("question %q: %s questions need options", q.ID, q.Type)
			}
		}
	}
	if total == 0 {
		return errors.New("form needs at least one question")
	}

	// Conditions can reference questions in any section, so they are
	// checked after all ids are known.
	for _, s := range f.Sections {
		for _, q := range s.Questions {
			c := q.VisibleIf
			if c == nil {
				continue
			}
			if _, ok := knownOperators[c.Operator]; !ok {
				return fmt.Errorf("question %q: unknown operator %q", q.ID, c.Operator)
			}
			if c.QuestionID == q.ID {
				return fmt.Errorf("question %q: visibility condition references itself", q.ID)
			}
			if _, ok := ids[c.QuestionID]; !ok {
				return fmt.Errorf("question %q: visibility condition references unknown question %q", q.ID, c.QuestionID)
			}
		}
	}
	return nil
}
