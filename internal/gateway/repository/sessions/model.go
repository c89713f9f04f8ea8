package sessions

import (
	"strings"
	"time"
)

// Session lifecycle states. A session moves forward only: in_progress ->
// submitted -> analyzed.
const (
	StatusInProgress = "in_progress"
	StatusSubmitted  = "submitted"
	StatusAnalyzed   = "analyzed"
)

// Session is one client's pass through a published form.
type Session struct {
	ID          string         `json:"id"`
	FormID      string         `json:"form_id"`
	Answers     map[string]any `json:"answers"`
	Status      string         `json:"status"`
	StartedAt   time.Time      `json:"started_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	SubmittedAt *time.Time     `json:"submitted_at,omitempty"`
	AnalyzedAt  *time.Time     `json:"analyzed_at,omitempty"`
}

func normalizeSession(sess Session) Session {
	sess.ID = strings.TrimSpace(sess.ID)
	sess.FormID = strings.TrimSpace(sess.FormID)
	if sess.Status == "" {
		sess.Status = StatusInProgress
	}
	if sess.Answers == nil {
		sess.Answers = make(map[string]any)
	}
	return sess
}

type rowScanner interface {
	Scan(dest ...any) error
}
