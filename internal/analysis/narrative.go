package analysis

import (
	"fmt"
	"strings"
)

// objectiveThemes map a theme keyword to its canned objective sentence.
// Scanned in this order against the combined form text.
var objectiveThemes = []struct {
	term      string
	objective string
}{
	{"efficiency", "Improve operational efficiency and streamline business processes"},
	{"customer", "Enhance customer experience and satisfaction"},
	{"automation", "Reduce manual effort through process automation"},
	{"integration", "Integrate systems for seamless data flow across the organization"},
	{"reporting", "Provide comprehensive reporting and analytics capabilities"},
	{"security", "Strengthen security posture and protect sensitive information"},
	{"scalability", "Build a scalable foundation that supports business growth"},
	{"compliance", "Ensure compliance with applicable regulations and standards"},
}

// defaultObjectives substitute when no theme keyword appears anywhere.
var defaultObjectives = []string{
	"Improve business operations through technology implementation",
	"Enhance organizational productivity and effectiveness",
	"Support strategic business goals and objectives",
}

// combinedText concatenates extra fragments plus every question and answer,
// lower-cased, for keyword gating. All synthesizer scans share this form.
func combinedText(responses []RawResponse, extra ...string) string {
	var b strings.Builder
	for _, s := range extra {
		b.WriteString(s)
		b.WriteByte(' ')
	}
	for _, r := range responses {
		b.WriteString(r.Question)
		b.WriteByte(' ')
		b.WriteString(answerText(r.Answer))
		b.WriteByte(' ')
	}
	return strings.ToLower(b.String())
}

// BusinessObjectives scans title and responses for the eight fixed themes
// and returns their canned objectives, de-duplicated in first-occurrence
// order. Zero matches yield the three generic defaults.
func BusinessObjectives(responses []RawResponse, formTitle string) []string {
	text := combinedText(responses, formTitle)
	var objectives []string
	for _, theme := range objectiveThemes {
		if strings.Contains(text, theme.term) {
			objectives = append(objectives, theme.objective)
		}
	}
	if len(objectives) == 0 {
		objectives = append(objectives, defaultObjectives...)
	}
	return dedupe(objectives)
}

// dedupe removes repeated entries keeping the first occurrence of each.
func dedupe(items []string) []string {
	seen := make(map[string]struct{}, len(items))
	out := make([]string, 0, len(items))
	for _, item := range items {
		if _, ok := seen[item]; ok {
			continue
		}
		seen[item] = struct{}{}
		out = append(out, item)
	}
	return out
}

// Stakeholders returns the six fixed project roles, the first line naming
// the client, plus up to four roles gated by independent keyword checks.
func Stakeholders(responses []RawResponse, clientName string) []string {
	roles := []string{
		fmt.Sprintf("%s - Primary client and project sponsor", clientName),
		"Project Manager - Oversees project delivery and coordination",
		"Business Analyst - Captures and refines business requirements",
		"Development Team - Designs and implements the solution",
		"Quality Assurance Team - Validates functionality and quality",
		"End Users - Work with the delivered system day to day",
	}

	text := combinedText(responses)
	if strings.Contains(text, "admin") {
		roles = append(roles, "System Administrator - Maintains and configures the system")
	}
	if strings.Contains(text, "management") {
		roles = append(roles, "Management Team - Provides oversight and strategic direction")
	}
	if strings.Contains(text, "support") {
		roles = append(roles, "Customer Support Team - Assists end users and resolves issues")
	}
	if strings.Contains(text, "finance") {
		roles = append(roles, "Finance Team - Manages budgeting and financial tracking")
	}
	return roles
}

// Assumptions returns the five baseline assumptions plus extras gated on
// integration, data, and mobile topics in the response text.
func Assumptions(responses []RawResponse) []string {
	assumptions := []string{
		"Client will provide timely feedback during development cycles",
		"Key business stakeholders will be available for requirement clarifications",
		"Existing business processes are documented or can be explained by staff",
		"Client holds the necessary licenses for any third-party software",
		"Project scope will remain stable as defined in this document",
	}

	text := combinedText(responses)
	if strings.Contains(text, "integration") {
		assumptions = append(assumptions,
			"Third-party systems expose stable APIs for integration",
			"Credentials and documentation for external systems will be provided")
	}
	if strings.Contains(text, "data") || strings.Contains(text, "database") {
		assumptions = append(assumptions,
			"Existing data is accessible and of sufficient quality for migration",
			"Data ownership and stewardship responsibilities are defined")
	}
	if strings.Contains(text, "mobile") {
		assumptions = append(assumptions,
			"End users have access to modern mobile devices and browsers")
	}
	return assumptions
}

// Constraints returns the four baseline constraints plus extras gated on
// budget, timeline, legacy, and regulation topics.
func Constraints(responses []RawResponse) []string {
	constraints := []string{
		"Project must be delivered within the agreed timeline and budget",
		"Solution must operate within the client's existing technology stack",
		"Development resources are limited to the allocated team size",
		"Scope changes require formal approval through change control",
	}

	text := combinedText(responses)
	if strings.Contains(text, "budget") || strings.Contains(text, "cost") {
		constraints = append(constraints,
			"Budget limits may restrict the choice of commercial components")
	}
	if strings.Contains(text, "timeline") || strings.Contains(text, "deadline") {
		constraints = append(constraints,
			"The fixed deadline constrains the scope feasible for the initial release")
	}
	if strings.Contains(text, "legacy") {
		constraints = append(constraints,
			"Legacy system dependencies restrict modernization options",
			"Compatibility with legacy data formats must be maintained")
	}
	if strings.Contains(text, "regulation") || strings.Contains(text, "compliance") {
		constraints = append(constraints,
			"Regulatory requirements constrain how data is handled and stored")
	}
	return constraints
}

// Risks returns the five baseline delivery risks plus extras gated on
// integration, performance, security, and data/migration topics.
func Risks(responses []RawResponse) []string {
	risks := []string{
		"Scope creep may impact the delivery timeline and budget",
		"Limited stakeholder availability may delay key decisions",
		"Incomplete requirements may surface during development",
		"Staff turnover could affect project continuity",
		"Third-party dependencies may introduce unforeseen delays",
	}

	text := combinedText(responses)
	if strings.Contains(text, "integration") {
		risks = append(risks,
			"Integration complexity may exceed initial estimates",
			"Changes in external systems could break integration points")
	}
	if strings.Contains(text, "performance") {
		risks = append(risks,
			"Performance targets may require additional optimization cycles")
	}
	if strings.Contains(text, "security") {
		risks = append(risks,
			"Security vulnerabilities could be discovered during testing",
			"An evolving threat landscape may require additional safeguards")
	}
	if strings.Contains(text, "data") || strings.Contains(text, "migration") {
		risks = append(risks,
			"Data quality issues may complicate migration",
			"Data loss during migration could disrupt business operations")
	}
	return risks
}

// SuccessCriteria returns the five baseline criteria plus one extra per
// identified objective that speaks to efficiency, customers, or automation.
func SuccessCriteria(responses []RawResponse, objectives []string) []string {
	criteria := []string{
		"All high-priority requirements are implemented and verified",
		"User acceptance testing is completed with stakeholder sign-off",
		"The system performs reliably under expected production load",
		"End users are trained and able to work with the system effectively",
		"The project is delivered within the approved timeline and budget",
	}

	for _, objective := range objectives {
		o := strings.ToLower(objective)
		switch {
		case strings.Contains(o, "efficiency"):
			criteria = append(criteria,
				"Measurable reduction in time spent on routine business processes")
		case strings.Contains(o, "customer"):
			criteria = append(criteria,
				"Improved customer satisfaction scores after rollout")
		case strings.Contains(o, "automation"):
			criteria = append(criteria,
				"Fewer manual processing errors after automation is in place")
		}
	}
	return criteria
}

// ExecutiveSummary writes the three-paragraph summary: exact requirement
// counts, the first two objectives restated in lower case, and up to the
// first three distinct requirement categories.
func ExecutiveSummary(formTitle, clientName string, requirements []Requirement, objectives []string) string {
	distinct := distinctCategories(requirements)
	high := 0
	for _, r := range requirements {
		if r.Priority == PriorityHigh {
			high++
		}
	}

	p1 := fmt.Sprintf(
		"This Business Requirements Document summarizes the findings of the %s completed by %s. "+
			"The analysis identified %d requirements spanning %d categories, %d of which are classified as high priority.",
		formTitle, clientName, len(requirements), len(distinct), high)

	var p2 string
	lead := objectives
	if len(lead) > 2 {
		lead = lead[:2]
	}
	if len(lead) == 0 {
		p2 = "The primary business objectives will be refined during the discovery phase."
	} else {
		lowered := make([]string, len(lead))
		for i, o := range lead {
			lowered[i] = strings.ToLower(o)
		}
		p2 = fmt.Sprintf("The primary business objectives are to %s.", strings.Join(lowered, " and "))
	}

	var p3 string
	focus := distinct
	if len(focus) > 3 {
		focus = focus[:3]
	}
	if len(focus) == 0 {
		p3 = "Key focus areas will be identified as requirements are gathered."
	} else {
		p3 = fmt.Sprintf("Key focus areas include %s.", strings.Join(focus, ", "))
	}

	return p1 + "\n\n" + p2 + "\n\n" + p3
}

// distinctCategories lists categories in order of first appearance.
func distinctCategories(requirements []Requirement) []string {
	seen := make(map[string]struct{}, len(requirements))
	var out []string
	for _, r := range requirements {
		if _, ok := seen[r.Category]; ok {
			continue
		}
		seen[r.Category] = struct{}{}
		out = append(out, r.Category)
	}
	return out
}

// ProjectOverview emits the title+description sentence when a description
// was supplied, otherwise a sentence reporting how many responses were
// analyzed (zero when none were).
func ProjectOverview(formTitle, description string, responses []RawResponse) string {
	if strings.TrimSpace(description) != "" {
		return fmt.Sprintf("This document defines the business requirements for %s. %s", formTitle, description)
	}
	return fmt.Sprintf(
		"This document defines the business requirements for %s, based on the analysis of %d questionnaire responses.",
		formTitle, len(responses))
}
