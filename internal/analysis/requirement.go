package analysis

import (
	"fmt"
	"strings"
)

// GeneralCategory is the fallback when no category keyword matches.
const GeneralCategory = "General Requirements"

// categoryRules is evaluated top to bottom and the first matching group
// wins. The order is load-bearing: groups are not mutually exclusive
// ("security access control" carries both a Security and a User Interface
// keyword and must classify as Security), so never reorder or convert
// this to a map.
var categoryRules = []struct {
	terms []string
	label string
}{
	{[]string{"function", "feature", "capability", "workflow", "behavior"},
		"Functional Requirements"},
	{[]string{"performance", "speed", "fast", "load", "response time", "latency", "concurrent", "volume"},
		"Performance Requirements"},
	{[]string{"security", "secure", "permission", "authentication", "authorization", "login", "password", "encrypt", "privacy", "confidential"},
		"Security Requirements"},
	{[]string{"interface", "screen", "display", "design", "layout", "navigation", "menu", "usability", "access"},
		"User Interface Requirements"},
	{[]string{"integration", "integrate", "api", "third-party", "external system", "sync", "webhook"},
		"Integration Requirements"},
	{[]string{"data", "database", "storage", "record", "field", "import", "export", "migration", "backup"},
		"Data Requirements"},
	{[]string{"process", "procedure", "approval", "automation", "operation", "billing", "invoice"},
		"Business Process Requirements"},
	{[]string{"compliance", "regulation", "regulatory", "legal", "audit", "gdpr", "hipaa", "policy"},
		"Compliance Requirements"},
}

var (
	highPriorityTerms = []string{
		"critical", "essential", "must", "required", "mandatory", "urgent",
		"important", "vital", "crucial", "necessary", "core", "primary",
	}
	lowPriorityTerms = []string{
		"nice to have", "optional", "future", "enhancement", "wish",
		"would like", "could", "maybe", "eventually", "later",
	}
)

// baselineCriteria open every acceptance-criteria list, in this order.
var baselineCriteria = []string{
	"Requirement is clearly defined and testable",
	"Implementation meets specified functionality",
	"User acceptance testing passes successfully",
}

// ExtractRequirements converts each valid response into one Requirement,
// preserving input order. Invalid responses are skipped and do not consume
// an id, so numbering stays dense over valid responses only.
func ExtractRequirements(responses []RawResponse) []Requirement {
	out := make([]Requirement, 0, len(responses))
	for _, r := range responses {
		if !IsValidAnswer(r.Answer) {
			continue
		}
		out = append(out, Requirement{
			ID:                 fmt.Sprintf("REQ-%03d", len(out)+1),
			Category:           categorize(r.Question),
			Priority:           priorityFor(r.Question, r.Answer),
			Description:        describeRequirement(r.Question, r.Answer, r.QuestionType),
			AcceptanceCriteria: acceptanceCriteria(r.Question, r.Answer, r.QuestionType),
			BusinessValue:      businessValue(r.Question, r.Answer),
			TechnicalNotes:     technicalNotes(r.Question, r.QuestionType),
		})
	}
	return out
}

// categorize picks the first category whose keyword group matches the
// question text, falling back to GeneralCategory.
func categorize(question string) string {
	q := strings.ToLower(question)
	for _, rule := range categoryRules {
		if containsAny(q, rule.terms) {
			return rule.label
		}
	}
	return GeneralCategory
}

// priorityFor walks a strict fallthrough chain: urgency terms in the
// question, deferral terms in the question, then the same two sets against
// the answer text, then a length heuristic, then Medium.
func priorityFor(question string, answer any) string {
	q := strings.ToLower(question)
	if containsAny(q, highPriorityTerms) {
		return PriorityHigh
	}
	if containsAny(q, lowPriorityTerms) {
		return PriorityLow
	}
	a := strings.ToLower(answerText(answer))
	if containsAny(a, highPriorityTerms) {
		return PriorityHigh
	}
	if containsAny(a, lowPriorityTerms) {
		return PriorityLow
	}
	if s, ok := answer.(string); ok && len(s) > 100 {
		return PriorityHigh
	}
	if n, ok := sequenceLen(answer); ok && n > 3 {
		return PriorityHigh
	}
	return PriorityMedium
}

// cleanQuestion lower-cases the question and strips trailing "?" and ":"
// so it can sit mid-sentence in a requirement description.
func cleanQuestion(question string) string {
	q := strings.TrimSpace(question)
	q = strings.TrimRight(q, "?:")
	q = strings.TrimSpace(q)
	return strings.ToLower(q)
}

func describeRequirement(question string, answer any, qt QuestionType) string {
	q := cleanQuestion(question)
	a := FormatAnswer(answer, qt)
	switch qt {
	case TypeCheckbox:
		return fmt.Sprintf("The system shall support %s with the following capabilities: %s", q, a)
	case TypeRadio, TypeSelect:
		return fmt.Sprintf("For %s, the system shall implement: %s", q, a)
	case TypeNumber:
		return fmt.Sprintf("The system shall meet the requirement for %s with a value of %s", q, a)
	case TypeDate:
		return fmt.Sprintf("The system shall handle %s with the specified date: %s", q, a)
	default:
		return fmt.Sprintf("Regarding %s: %s", q, a)
	}
}

// acceptanceCriteria builds the ordered criteria list: the three baseline
// entries, then type-specific entries, then keyword-triggered entries.
func acceptanceCriteria(question string, answer any, qt QuestionType) []string {
	criteria := make([]string, 0, len(baselineCriteria)+6)
	criteria = append(criteria, baselineCriteria...)

	switch qt {
	case TypeCheckbox:
		if opts, ok := answer.([]any); ok {
			for _, opt := range opts {
				criteria = append(criteria, fmt.Sprintf("%s functionality is implemented and working", scalarText(opt)))
			}
			criteria = append(criteria, "All selected options are fully functional")
		} else if opts, ok := answer.([]string); ok {
			for _, opt := range opts {
				criteria = append(criteria, fmt.Sprintf("%s functionality is implemented and working", opt))
			}
			criteria = append(criteria, "All selected options are fully functional")
		}
	case TypeNumber:
		criteria = append(criteria,
			"Numeric value is validated and within acceptable range",
			"Input validation prevents invalid numeric entries")
	case TypeEmail:
		criteria = append(criteria,
			"Email format is validated according to standard conventions",
			"Invalid email addresses are rejected with a clear error message")
	case TypeDate:
		criteria = append(criteria,
			"Date format is validated and parsed correctly",
			"Date values are stored and displayed consistently",
			"Date handling accounts for timezone differences")
	}

	q := strings.ToLower(question)
	if strings.Contains(q, "security") {
		criteria = append(criteria,
			"Security requirements are met and verified through testing",
			"Access controls are properly implemented and audited")
	}
	if strings.Contains(q, "performance") {
		criteria = append(criteria,
			"Performance benchmarks are met under expected load",
			"Response times stay within acceptable limits")
	}
	if strings.Contains(q, "integration") {
		criteria = append(criteria,
			"Integration with external systems is tested end to end",
			"Data flows correctly between connected systems")
	}
	return criteria
}

// valueRules is a fixed-order cascade over question+answer text; the first
// matching rule supplies the business-value line.
var valueRules = []struct {
	terms []string
	value string
}{
	{[]string{"revenue", "cost", "profit", "budget", "roi", "saving", "price", "financial"},
		"High - Direct financial impact through improved revenue generation or cost reduction"},
	{[]string{"customer", "user", "client", "satisfaction", "experience"},
		"High - Enhances customer experience and user satisfaction"},
	{[]string{"efficiency", "efficient", "automat", "streamline", "productivity", "manual"},
		"Medium - Improves operational efficiency and reduces manual effort"},
	{[]string{"compliance", "legal", "regulation", "regulatory", "audit"},
		"High - Ensures regulatory compliance and reduces legal risk"},
	{[]string{"report", "analytic", "insight", "dashboard", "metric"},
		"Medium - Provides better visibility and supports data-driven decisions"},
}

const defaultBusinessValue = "Medium - Supports overall business operations and project objectives"

func businessValue(question string, answer any) string {
	text := strings.ToLower(question + " " + answerText(answer))
	for _, rule := range valueRules {
		if containsAny(text, rule.terms) {
			return rule.value
		}
	}
	return defaultBusinessValue
}

// technicalNotes joins a type-driven note with keyword-driven notes using
// "; ". The result may be empty when no rule fires.
func technicalNotes(question string, qt QuestionType) string {
	var notes []string
	switch qt {
	case TypeCheckbox, TypeRadio:
		notes = append(notes, "Consider an enumeration or lookup table for the selectable options")
	case TypeNumber:
		notes = append(notes, "Implement numeric validation with appropriate range constraints")
	case TypeDate:
		notes = append(notes, "Handle timezone conversion and locale-specific date formats")
	case TypeEmail:
		notes = append(notes, "Apply RFC 5322 compliant email validation")
	}

	q := strings.ToLower(question)
	if strings.Contains(q, "integration") {
		notes = append(notes, "Design API contracts with versioning to protect downstream consumers")
	}
	if strings.Contains(q, "security") {
		notes = append(notes, "Schedule a security review and penetration testing before release")
	}
	if strings.Contains(q, "performance") {
		notes = append(notes, "Add caching and monitoring to meet expected load")
	}
	return strings.Join(notes, "; ")
}
