// Package analysis turns raw questionnaire responses into the structured
// content of a Business Requirements Document.
//
// The whole package is a deterministic rule engine: ordered keyword tables,
// fixed template sentences, and canned baseline lists. Every operation is
// total. Malformed input degrades to fallback text instead of failing, so
// a document can always be rendered, however sparse the client's answers.
package analysis

// QuestionType tags a question with its input widget on the client form.
type QuestionType string

const (
	TypeText     QuestionType = "text"
	TypeTextarea QuestionType = "textarea"
	TypeEmail    QuestionType = "email"
	TypeNumber   QuestionType = "number"
	TypeDate     QuestionType = "date"
	TypeSelect   QuestionType = "select"
	TypeRadio    QuestionType = "radio"
	TypeCheckbox QuestionType = "checkbox"
)

// QuestionTypes lists every valid question type tag.
func QuestionTypes() []QuestionType {
	return []QuestionType{
		TypeText, TypeTextarea, TypeEmail, TypeNumber,
		TypeDate, TypeSelect, TypeRadio, TypeCheckbox,
	}
}

// Priority tiers for extracted requirements.
const (
	PriorityHigh   = "High"
	PriorityMedium = "Medium"
	PriorityLow    = "Low"
)

// RawResponse is one question/answer pair as collected from a client.
// Answer carries decoded-JSON shapes: nil, string, float64, bool,
// []any of scalars, or map[string]any. The package never mutates it.
type RawResponse struct {
	Question     string       `json:"question"`
	Answer       any          `json:"answer"`
	QuestionType QuestionType `json:"question_type"`
}

// Requirement is one structured requirement extracted from a valid response.
type Requirement struct {
	ID                 string   `json:"id"`
	Category           string   `json:"category"`
	Priority           string   `json:"priority"`
	Description        string   `json:"description"`
	AcceptanceCriteria []string `json:"acceptance_criteria"`
	BusinessValue      string   `json:"business_value"`
	TechnicalNotes     string   `json:"technical_notes,omitempty"`
}

// Input carries everything one analysis run consumes.
type Input struct {
	FormTitle   string        `json:"form_title"`
	ClientName  string        `json:"client_name"`
	Description string        `json:"description,omitempty"`
	Responses   []RawResponse `json:"responses"`
}

// Result is the aggregate payload handed to the document renderer.
type Result struct {
	ExecutiveSummary   string        `json:"executive_summary"`
	ProjectOverview    string        `json:"project_overview"`
	BusinessObjectives []string      `json:"business_objectives"`
	Stakeholders       []string      `json:"stakeholders"`
	Requirements       []Requirement `json:"requirements"`
	Assumptions        []string      `json:"assumptions"`
	Constraints        []string      `json:"constraints"`
	Risks              []string      `json:"risks"`
	SuccessCriteria    []string      `json:"success_criteria"`
}

// Engine is the single entry point for running the pipeline. It holds no
// state; the zero value is ready to use and safe for concurrent calls.
type Engine struct{}

// NewEngine returns a ready Engine.
func NewEngine() Engine { return Engine{} }

// Analyze runs Normalizer -> Extractor -> Synthesizer over the input and
// returns one Result. Two calls with equal inputs return equal results.
func (Engine) Analyze(in Input) Result {
	reqs := ExtractRequirements(in.Responses)
	objectives := BusinessObjectives(in.Responses, in.FormTitle)
	return Result{
		ExecutiveSummary:   ExecutiveSummary(in.FormTitle, in.ClientName, reqs, objectives),
		ProjectOverview:    ProjectOverview(in.FormTitle, in.Description, in.Responses),
		BusinessObjectives: objectives,
		Stakeholders:       Stakeholders(in.Responses, in.ClientName),
		Requirements:       reqs,
		Assumptions:        Assumptions(in.Responses),
		Constraints:        Constraints(in.Responses),
		Risks:              Risks(in.Responses),
		SuccessCriteria:    SuccessCriteria(in.Responses, objectives),
	}
}
