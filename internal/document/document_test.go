package document

import (
	"strings"
	"testing"
	"time"

	"clientbrief/internal/analysis"
)

func sampleResult() analysis.Result {
	return analysis.Result{
		ExecutiveSummary: "Summary paragraph one.\n\nSummary paragraph two.",
		ProjectOverview:  "This document defines the business requirements for Discovery Intake.",
		BusinessObjectives: []string{
			"Improve operational efficiency and streamline business processes",
		},
		Stakeholders: []string{"acme-corp - Primary client and project sponsor"},
		Requirements: []analysis.Requirement{
			{
				ID: "REQ-001", Category: "Security Requirements", Priority: "High",
				Description:        "Regarding login policy: strict",
				AcceptanceCriteria: []string{"Requirement is clearly defined and testable"},
				BusinessValue:      "High - Ensures regulatory compliance and reduces legal risk",
				TechnicalNotes:     "Schedule a security review and penetration testing before release",
			},
			{
				ID: "REQ-002", Category: "Data Requirements", Priority: "Medium",
				Description:        "Regarding data retention: two years",
				AcceptanceCriteria: []string{"Requirement is clearly defined and testable"},
				BusinessValue:      "Medium - Supports overall business operations and project objectives",
			},
			{
				ID: "REQ-003", Category: "Security Requirements", Priority: "Medium",
				Description:        "Regarding audit trail: required",
				AcceptanceCriteria: []string{"Requirement is clearly defined and testable"},
				BusinessValue:      "Medium - Supports overall business operations and project objectives",
			},
		},
		Assumptions:     []string{"Client will provide timely feedback during development cycles"},
		Constraints:     []string{"Project must be delivered within the agreed timeline and budget"},
		Risks:           []string{"Scope creep may impact the delivery timeline and budget"},
		SuccessCriteria: []string{"All high-priority requirements are implemented and verified"},
	}
}

var generatedAt = time.Date(2025, time.March, 15, 10, 30, 0, 0, time.UTC)

func TestBuild_HeaderAndSectionNumbers(t *testing.T) {
	out := Build("Discovery Intake", "acme-corp", generatedAt, sampleResult())

	for _, want := range []string{
		"# Business Requirements Document",
		"**Project:** Discovery Intake",
		"**Client:** acme-corp",
		"**Date:** March 15, 2025",
		"**Status:** Draft",
		"## 1. Executive Summary",
		"## 2. Project Overview",
		"## 3. Business Objectives",
		"## 4. Stakeholders",
		"## 5. Requirements",
		"## 6. Assumptions",
		"## 7. Constraints",
		"## 8. Risks",
		"## 9. Success Criteria",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
	if !strings.HasSuffix(out, "\n") || strings.HasSuffix(out, "\n\n") {
		t.Fatal("output must end with exactly one newline")
	}
}

func TestBuild_GroupsRequirementsByFirstAppearance(t *testing.T) {
	out := Build("Discovery Intake", "acme-corp", generatedAt, sampleResult())

	security := strings.Index(out, "### 5.1 Security Requirements")
	data := strings.Index(out, "### 5.2 Data Requirements")
	if security == -1 || data == -1 || security > data {
		t.Fatalf("category groups wrong or out of order:\n%s", out)
	}

	// REQ-003 shares the security category and must render inside group 5.1,
	// after REQ-001 and before the data group.
	third := strings.Index(out, "#### REQ-003")
	if third == -1 || third < security || third > data {
		t.Fatalf("REQ-003 not grouped under its category:\n%s", out)
	}
	if !strings.Contains(out, "#### REQ-001 (Priority: High)") {
		t.Fatalf("requirement heading missing:\n%s", out)
	}
}

func TestBuild_OmitsEmptyTechnicalNotes(t *testing.T) {
	out := Build("Discovery Intake", "acme-corp", generatedAt, sampleResult())

	if strings.Count(out, "**Technical Notes:**") != 1 {
		t.Fatalf("only REQ-001 carries technical notes:\n%s", out)
	}
	if strings.Count(out, "**Business Value:**") != 3 {
		t.Fatalf("business value must render for every requirement:\n%s", out)
	}
}

func TestBuild_EmptySectionsRenderPlaceholder(t *testing.T) {
	out := Build("Intake", "client", generatedAt, analysis.Result{
		ExecutiveSummary: "Short summary.",
		ProjectOverview:  "Short overview.",
	})
	if strings.Count(out, "None identified.") != 7 {
		t.Fatalf("the seven empty list sections must carry the placeholder:\n%s", out)
	}
}

func TestBuild_Deterministic(t *testing.T) {
	first := Build("Discovery Intake", "acme-corp", generatedAt, sampleResult())
	second := Build("Discovery Intake", "acme-corp", generatedAt, sampleResult())
	if first != second {
		t.Fatal("two builds over equal input diverged")
	}
}
