package analysis

import (
	"strings"
	"testing"
)

func TestFormatAnswer_NilAlwaysSentinel(t *testing.T) {
	for _, qt := range QuestionTypes() {
		if got := FormatAnswer(nil, qt); got != NoAnswer {
			t.Fatalf("FormatAnswer(nil, %s) = %q, want %q", qt, got, NoAnswer)
		}
	}
}

func TestFormatAnswer_EmptySequenceAlwaysEmpty(t *testing.T) {
	for _, qt := range QuestionTypes() {
		if got := FormatAnswer([]any{}, qt); got != "" {
			t.Fatalf("FormatAnswer([], %s) = %q, want empty", qt, got)
		}
	}
}

func TestFormatAnswer_JoinsSequenceInOrder(t *testing.T) {
	got := FormatAnswer([]any{"a", "b", "c"}, TypeCheckbox)
	if got != "a, b, c" {
		t.Fatalf("FormatAnswer = %q, want %q", got, "a, b, c")
	}
}

func TestFormatAnswer_DateRendering(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"2024-03-15", "March 15, 2024"},
		{"2023-01-02", "January 2, 2023"},
		{"not a date", "not a date"}, // parse failure falls back to raw text
		{"soon", "soon"},
	}
	for _, tt := range tests {
		if got := FormatAnswer(tt.in, TypeDate); got != tt.want {
			t.Fatalf("FormatAnswer(%q, date) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatAnswer_DateTypeLeavesNonDateTypesAlone(t *testing.T) {
	if got := FormatAnswer("2024-03-15", TypeText); got != "2024-03-15" {
		t.Fatalf("FormatAnswer(date string, text) = %q, want raw string", got)
	}
}

func TestFormatAnswer_ScalarForms(t *testing.T) {
	tests := []struct {
		in   any
		want string
	}{
		{"hello", "hello"},
		{float64(3), "3"},
		{float64(3.5), "3.5"},
		{true, "true"},
		{false, "false"},
	}
	for _, tt := range tests {
		if got := FormatAnswer(tt.in, TypeText); got != tt.want {
			t.Fatalf("FormatAnswer(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatAnswer_KeyedStructureStableOrder(t *testing.T) {
	in := map[string]any{"zeta": "z", "alpha": "a"}
	got := FormatAnswer(in, TypeText)
	if !strings.Contains(got, "\"alpha\"") || !strings.Contains(got, "\"zeta\"") {
		t.Fatalf("FormatAnswer(map) = %q, want both keys present", got)
	}
	if strings.Index(got, "alpha") > strings.Index(got, "zeta") {
		t.Fatalf("FormatAnswer(map) = %q, want keys in sorted order", got)
	}
	if got != FormatAnswer(map[string]any{"alpha": "a", "zeta": "z"}, TypeText) {
		t.Fatalf("FormatAnswer(map) not stable across key insertion order")
	}
}

func TestIsValidAnswer(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want bool
	}{
		{"nil", nil, false},
		{"empty string", "", false},
		{"sentinel", NoAnswer, false},
		{"false", false, false},
		{"zero", float64(0), false},
		{"empty sequence", []any{}, false},
		{"text", "yes", true},
		{"true", true, true},
		{"number", float64(7), true},
		{"sequence", []any{"a"}, true},
		{"structure", map[string]any{"k": "v"}, true},
	}
	for _, tt := range tests {
		if got := IsValidAnswer(tt.in); got != tt.want {
			t.Fatalf("IsValidAnswer(%s) = %v, want %v", tt.name, got, tt.want)
		}
	}
}
