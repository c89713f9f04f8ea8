// Package document assembles the generated Business Requirements Document
// as Markdown. The layout is fixed: given the same analysis result and
// generation time, Build returns byte-identical output.
package document

import (
	"fmt"
	"strings"
	"time"

	"clientbrief/internal/analysis"
)

// Meta describes one stored document.
type Meta struct {
	SessionID   string    `json:"session_id"`
	FormID      string    `json:"form_id"`
	Title       string    `json:"title"`
	ClientName  string    `json:"client_name"`
	GeneratedAt time.Time `json:"generated_at"`
	Path        string    `json:"path"`
}

// Build renders the BRD for one analysis result. Sections are numbered;
// requirements are grouped by category in order of first appearance.
func Build(title, client string, generatedAt time.Time, res analysis.Result) string {
	var buf strings.Builder

	buf.WriteString("# Business Requirements Document\n\n")
	fmt.Fprintf(&buf, "**Project:** %s\n", title)
	fmt.Fprintf(&buf, "**Client:** %s\n", client)
	fmt.Fprintf(&buf, "**Date:** %s\n", generatedAt.Format("January 2, 2006"))
	buf.WriteString("**Status:** Draft\n")

	writeSection(&buf, "1. Executive Summary", res.ExecutiveSummary)
	writeSection(&buf, "2. Project Overview", res.ProjectOverview)
	writeSection(&buf, "3. Business Objectives", bulletList(res.BusinessObjectives))
	writeSection(&buf, "4. Stakeholders", bulletList(res.Stakeholders))
	writeSection(&buf, "5. Requirements", requirementsBody(res.Requirements))
	writeSection(&buf, "6. Assumptions", bulletList(res.Assumptions))
	writeSection(&buf, "7. Constraints", bulletList(res.Constraints))
	writeSection(&buf, "8. Risks", bulletList(res.Risks))
	writeSection(&buf, "9. Success Criteria", bulletList(res.SuccessCriteria))

	return strings.TrimRight(buf.String(), "\n") + "\n"
}

func writeSection(buf *strings.Builder, heading, body string) {
	fmt.Fprintf(buf, "\n## %s\n\n", heading)
	if strings.TrimSpace(body) == "" {
		buf.WriteString("None identified.\n")
		return
	}
	buf.WriteString(body)
	if !strings.HasSuffix(body, "\n") {
		buf.WriteString("\n")
	}
}

func bulletList(items []string) string {
	if len(items) == 0 {
		return ""
	}
	var buf strings.Builder
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		fmt.Fprintf(&buf, "- %s\n", item)
	}
	return buf.String()
}

type categoryGroup struct {
	name         string
	requirements []analysis.Requirement
}

// groupByCategory keeps category order stable: first requirement to carry a
// category fixes that category's position.
func groupByCategory(requirements []analysis.Requirement) []categoryGroup {
	index := make(map[string]int, len(requirements))
	var groups []categoryGroup
	for _, req := range requirements {
		i, ok := index[req.Category]
		if !ok {
			i = len(groups)
			index[req.Category] = i
			groups = append(groups, categoryGroup{name: req.Category})
		}
		groups[i].requirements = append(groups[i].requirements, req)
	}
	return groups
}

func requirementsBody(requirements []analysis.Requirement) string {
	if len(requirements) == 0 {
		return ""
	}
	var buf strings.Builder
	for gi, group := range groupByCategory(requirements) {
		if gi > 0 {
			buf.WriteString("\n")
		}
		fmt.Fprintf(&buf, "### 5.%d %s\n", gi+1, group.name)
		for _, req := range group.requirements {
			fmt.Fprintf(&buf, "\n#### %s (Priority: %s)\n\n", req.ID, req.Priority)
			fmt.Fprintf(&buf, "%s\n", req.Description)
			if len(req.AcceptanceCriteria) > 0 {
				buf.WriteString("\n**Acceptance Criteria:**\n\n")
				buf.WriteString(bulletList(req.AcceptanceCriteria))
			}
			fmt.Fprintf(&buf, "\n**Business Value:** %s\n", req.BusinessValue)
			if req.TechnicalNotes != "" {
				fmt.Fprintf(&buf, "\n**Technical Notes:** %s\n", req.TechnicalNotes)
			}
		}
	}
	return buf.String()
}
