package analysis

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// NoAnswer is the sentinel shown for absent answers. A stored answer equal
// to this string is treated as missing by IsValidAnswer.
const NoAnswer = "No answer provided"

// dateLayouts are tried in order when rendering a date-typed answer.
// The HTML date input produces the first form; the rest cover common
// client variations. Parse failures fall back to the raw string.
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"01/02/2006",
	"January 2, 2006",
}

// FormatAnswer renders any answer value as display text. It never fails:
// nil becomes the NoAnswer sentinel, sequences join with ", ", date-typed
// scalars render as a long-form date when parseable, keyed structures
// pretty-print as stable JSON, and everything else uses its plain form.
func FormatAnswer(answer any, qt QuestionType) string {
	switch v := answer.(type) {
	case nil:
		return NoAnswer
	case []any:
		parts := make([]string, 0, len(v))
		for _, item := range v {
			parts = append(parts, scalarText(item))
		}
		return strings.Join(parts, ", ")
	case []string:
		return strings.Join(v, ", ")
	case map[string]any:
		// Debug-style fallback; encoding/json sorts map keys.
		b, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(b)
	}
	if qt == TypeDate {
		if s, ok := answer.(string); ok {
			if t, ok := ParseDate(s); ok {
				return t.Format("January 2, 2006")
			}
		}
	}
	return scalarText(answer)
}

// ParseDate tries the known date layouts in order. It reports false rather
// than an error so callers can fall back without branching on failure kinds.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// scalarText is the canonical plain-string form of a scalar value.
// Floats use the shortest representation that round-trips, so JSON
// numbers like 3 render as "3" rather than "3.000000".
func scalarText(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case float64:
		return strconv.FormatFloat(t, 'g', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'g', -1, 32)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case json.Number:
		return t.String()
	default:
		return fmt.Sprintf("%v", t)
	}
}

// answerText is the lower-matchable text of an answer: sequences join with
// ", ", keyed structures flatten to compact JSON, scalars use scalarText.
// Keyword rules match against this, never against locale-formatted dates.
func answerText(answer any) string {
	switch v := answer.(type) {
	case nil:
		return ""
	case []any:
		parts := make([]string, 0, len(v))
		for _, item := range v {
			parts = append(parts, scalarText(item))
		}
		return strings.Join(parts, ", ")
	case []string:
		return strings.Join(v, ", ")
	case map[string]any:
		b, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(b)
	default:
		return scalarText(answer)
	}
}

// IsValidAnswer reports whether an answer counts as a real response.
// Falsy values (nil, empty string, false, zero including NaN), empty
// sequences, and the NoAnswer sentinel are all invalid. Numeric zero being
// invalid is a deliberate carry-over: a "0" count answer is treated as
// unanswered, and changing that would shift requirement numbering.
func IsValidAnswer(answer any) bool {
	switch v := answer.(type) {
	case nil:
		return false
	case string:
		return v != "" && v != NoAnswer
	case bool:
		return v
	case float64:
		return v != 0 && !math.IsNaN(v)
	case float32:
		return v != 0 && !math.IsNaN(float64(v))
	case int:
		return v != 0
	case int64:
		return v != 0
	case []any:
		return len(v) > 0
	case []string:
		return len(v) > 0
	default:
		return true
	}
}

// sequenceLen returns the element count when the answer is a sequence.
func sequenceLen(answer any) (int, bool) {
	switch v := answer.(type) {
	case []any:
		return len(v), true
	case []string:
		return len(v), true
	default:
		return 0, false
	}
}

// containsAny reports whether text contains at least one of the terms.
// Callers pass text already lower-cased; terms are stored lower-cased.
func containsAny(text string, terms []string) bool {
	for _, term := range terms {
		if strings.Contains(text, term) {
			return true
		}
	}
	return false
}
