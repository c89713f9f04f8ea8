// Package intake runs the client side of a questionnaire: sessions are
// started against a published slug, answers arrive in increments, and
// submit freezes them after the visibility and required checks.
package intake

import (
	"context"
	"fmt"
	"strings"
	"time"

	"clientbrief/internal/analysis"
	"clientbrief/internal/form"
	formsrepo "clientbrief/internal/gateway/repository/forms"
	sessionsrepo "clientbrief/internal/gateway/repository/sessions"
	"clientbrief/internal/gateway/service/events"
)

var (
	ErrFormNotFound     = fmt.Errorf("form not found")
	ErrSessionNotFound  = fmt.Errorf("session not found")
	ErrAlreadySubmitted = fmt.Errorf("session already submitted")
)

type Service struct {
	forms    *formsrepo.Store
	sessions *sessionsrepo.Store
	events   *events.Service
}

func New(forms *formsrepo.Store, sessions *sessionsrepo.Store, ev *events.Service) *Service {
	return &Service{
		forms:    forms,
		sessions: sessions,
		events:   ev,
	}
}

// Start opens a fresh session for the published form behind slug.
func (s *Service) Start(_ context.Context, slug string) (sessionsrepo.Session, error) {
	s.forms.EnsureLoaded()
	s.sessions.EnsureLoaded()

	f, ok := s.forms.GetBySlug(slug)
	if !ok {
		return sessionsrepo.Session{}, fmt.Errorf("form %q: %w", strings.TrimSpace(slug), ErrFormNotFound)
	}

	now := time.Now().UTC()
	sess := sessionsrepo.Session{
		ID:        fmt.Sprintf("session-%d", time.Now().UnixNano()),
		FormID:    f.ID,
		Answers:   map[string]any{},
		Status:    sessionsrepo.StatusInProgress,
		StartedAt: now,
		UpdatedAt: now,
	}
	s.sessions.Put(sess)

	s.events.Publish(events.Event{
		Type:      events.TypeSessionStarted,
		FormID:    f.ID,
		SessionID: sess.ID,
	})

	got, ok := s.sessions.Get(sess.ID)
	if !ok {
		return sessionsrepo.Session{}, fmt.Errorf("session %s was not stored", sess.ID)
	}
	return got, nil
}

// SaveAnswers merges a batch of answers into an in-progress session.
// Every key must name a question on the form and every value must fit
// that question's type; required-ness is only enforced at submit.
func (s *Service) SaveAnswers(_ context.Context, slug, sessionID string, answers map[string]any) (sessionsrepo.Session, error) {
	f, sess, err := s.resolve(slug, sessionID)
	if err != nil {
		return sessionsrepo.Session{}, err
	}
	if sess.Status != sessionsrepo.StatusInProgress {
		return sessionsrepo.Session{}, fmt.Errorf("session %s: %w", sess.ID, ErrAlreadySubmitted)
	}

	for qid, v := range answers {
		q, ok := f.Question(qid)
		if !ok {
			return sessionsrepo.Session{}, fmt.Errorf("unknown question %q", qid)
		}
		if err := form.CheckAnswer(q, v); err != nil {
			return sessionsrepo.Session{}, err
		}
	}

	now := time.Now().UTC()
	updated, ok := s.sessions.Update(sess.ID, func(st *sessionsrepo.Session) {
		for qid, v := range answers {
			st.Answers[qid] = v
		}
		st.UpdatedAt = now
	})
	if !ok {
		return sessionsrepo.Session{}, fmt.Errorf("session %s: %w", sess.ID, ErrSessionNotFound)
	}
	return updated, nil
}

// Submit freezes a session. Every required question that is visible
// under the current answers must hold a valid answer, and answers to
// questions hidden by visibility conditions are dropped so they never
// reach the analysis.
func (s *Service) Submit(_ context.Context, slug, sessionID string) (sessionsrepo.Session, error) {
	f, sess, err := s.resolve(slug, sessionID)
	if err != nil {
		return sessionsrepo.Session{}, err
	}
	if sess.Status != sessionsrepo.StatusInProgress {
		return sessionsrepo.Session{}, fmt.Errorf("session %s: %w", sess.ID, ErrAlreadySubmitted)
	}

	visible := form.VisibleQuestions(&f, sess.Answers)
	visibleSet := make(map[string]struct{}, len(visible))
	var missing []string
	for _, q := range visible {
		visibleSet[q.ID] = struct{}{}
		if q.Required && !analysis.IsValidAnswer(sess.Answers[q.ID]) {
			missing = append(missing, q.ID)
		}
	}
	if len(missing) > 0 {
		return sessionsrepo.Session{}, fmt.Errorf("required questions unanswered: %s", strings.Join(missing, ", "))
	}

	now := time.Now().UTC()
	updated, ok := s.sessions.Update(sess.ID, func(st *sessionsrepo.Session) {
		for qid := range st.Answers {
			if _, keep := visibleSet[qid]; !keep {
				delete(st.Answers, qid)
			}
		}
		st.Status = sessionsrepo.StatusSubmitted
		st.SubmittedAt = &now
		st.UpdatedAt = now
	})
	if !ok {
		return sessionsrepo.Session{}, fmt.Errorf("session %s: %w", sess.ID, ErrSessionNotFound)
	}

	s.events.Publish(events.Event{
		Type:      events.TypeSessionSubmitted,
		FormID:    f.ID,
		SessionID: updated.ID,
	})
	return updated, nil
}

func (s *Service) Get(_ context.Context, sessionID string) (sessionsrepo.Session, error) {
	s.sessions.EnsureLoaded()

	sess, ok := s.sessions.Get(sessionID)
	if !ok {
		return sessionsrepo.Session{}, fmt.Errorf("session %s: %w", strings.TrimSpace(sessionID), ErrSessionNotFound)
	}
	return sess, nil
}

// ListByForm returns a form's sessions, most recently started first.
func (s *Service) ListByForm(_ context.Context, formID string) ([]sessionsrepo.Session, error) {
	s.forms.EnsureLoaded()
	s.sessions.EnsureLoaded()

	if _, ok := s.forms.Get(formID); !ok {
		return nil, fmt.Errorf("form %s: %w", strings.TrimSpace(formID), ErrFormNotFound)
	}
	return s.sessions.ListByForm(formID), nil
}

// resolve loads the published form and one of its sessions. A session
// reached through the wrong slug reports not found rather than leaking
// that it exists.
func (s *Service) resolve(slug, sessionID string) (form.Form, sessionsrepo.Session, error) {
	s.forms.EnsureLoaded()
	s.sessions.EnsureLoaded()

	f, ok := s.forms.GetBySlug(slug)
	if !ok {
		return form.Form{}, sessionsrepo.Session{}, fmt.Errorf("form %q: %w", strings.TrimSpace(slug), ErrFormNotFound)
	}
	sess, ok := s.sessions.Get(sessionID)
	if !ok || sess.FormID != f.ID {
		return form.Form{}, sessionsrepo.Session{}, fmt.Errorf("session %s: %w", strings.TrimSpace(sessionID), ErrSessionNotFound)
	}
	return f, sess, nil
}
