// Package briefing turns a submitted session into its deliverables: the
// analysis result and the markdown Business Requirements Document, both
// persisted per session in the documents store.
package briefing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"clientbrief/internal/analysis"
	"clientbrief/internal/document"
	"clientbrief/internal/form"
	docrepo "clientbrief/internal/gateway/repository/documents"
	formsrepo "clientbrief/internal/gateway/repository/forms"
	sessionsrepo "clientbrief/internal/gateway/repository/sessions"
	"clientbrief/internal/gateway/service/events"
)

const (
	DocumentPath = "brd.md"
	AnalysisPath = "analysis.json"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrNotSubmitted    = errors.New("session not submitted")
	ErrNoDocument      = errors.New("document not found")
)

type Service struct {
	forms     *formsrepo.Store
	sessions  *sessionsrepo.Store
	documents docrepo.Store
	events    *events.Service
	engine    analysis.Engine
}

func New(forms *formsrepo.Store, sessions *sessionsrepo.Store, documents docrepo.Store, ev *events.Service) *Service {
	return &Service{
		forms:     forms,
		sessions:  sessions,
		documents: documents,
		events:    ev,
		engine:    analysis.NewEngine(),
	}
}

// Analyze runs the rule engine over a submitted session and stores the
// markdown BRD plus the raw analysis payload. Running it again on an
// already analyzed session regenerates both documents.
func (s *Service) Analyze(ctx context.Context, sessionID string) (document.Meta, error) {
	s.forms.EnsureLoaded()
	s.sessions.EnsureLoaded()

	sess, ok := s.sessions.Get(sessionID)
	if !ok {
		return document.Meta{}, fmt.Errorf("session %s: %w", strings.TrimSpace(sessionID), ErrSessionNotFound)
	}
	if sess.Status == sessionsrepo.StatusInProgress {
		return document.Meta{}, fmt.Errorf("session %s: %w", sess.ID, ErrNotSubmitted)
	}
	f, ok := s.forms.Get(sess.FormID)
	if !ok {
		return document.Meta{}, fmt.Errorf("form %s not found for session %s", sess.FormID, sess.ID)
	}

	res := s.engine.Analyze(analysis.Input{
		FormTitle:   f.Title,
		ClientName:  f.ClientName,
		Description: f.Description,
		Responses:   form.Responses(&f, sess.Answers),
	})

	generatedAt := time.Now().UTC()
	md := document.Build(f.Title, f.ClientName, generatedAt, res)
	payload, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return document.Meta{}, fmt.Errorf("encoding analysis result: %w", err)
	}

	if err := s.documents.Put(ctx, sess.ID, DocumentPath, []byte(md)); err != nil {
		return document.Meta{}, fmt.Errorf("storing %s: %w", DocumentPath, err)
	}
	if err := s.documents.Put(ctx, sess.ID, AnalysisPath, payload); err != nil {
		return document.Meta{}, fmt.Errorf("storing %s: %w", AnalysisPath, err)
	}

	s.sessions.Update(sess.ID, func(st *sessionsrepo.Session) {
		st.Status = sessionsrepo.StatusAnalyzed
		st.AnalyzedAt = &generatedAt
		st.UpdatedAt = generatedAt
	})

	s.events.Publish(events.Event{
		Type:      events.TypeDocumentGenerated,
		FormID:    f.ID,
		SessionID: sess.ID,
		Path:      DocumentPath,
	})

	return document.Meta{
		SessionID:   sess.ID,
		FormID:      f.ID,
		Title:       f.Title,
		ClientName:  f.ClientName,
		GeneratedAt: generatedAt,
		Path:        DocumentPath,
	}, nil
}

// Document returns the stored markdown BRD for a session.
func (s *Service) Document(ctx context.Context, sessionID string) ([]byte, error) {
	return s.fetch(ctx, sessionID, DocumentPath)
}

// Analysis returns the stored analysis payload for a session.
func (s *Service) Analysis(ctx context.Context, sessionID string) ([]byte, error) {
	return s.fetch(ctx, sessionID, AnalysisPath)
}

// DocumentURL returns a direct link to the BRD when the backing store
// can mint one, "" otherwise. Callers fall back to the content route.
func (s *Service) DocumentURL(ctx context.Context, sessionID string) (string, error) {
	sess, err := s.session(sessionID)
	if err != nil {
		return "", err
	}
	url, err := s.documents.GetURL(ctx, sess.ID, DocumentPath)
	if err != nil {
		return "", fmt.Errorf("resolving document url: %w", err)
	}
	return url, nil
}

// Files lists the document paths stored for a session.
func (s *Service) Files(ctx context.Context, sessionID string) ([]string, error) {
	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	list, err := s.documents.List(ctx, sess.ID)
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}
	return list, nil
}

func (s *Service) fetch(ctx context.Context, sessionID, path string) ([]byte, error) {
	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	raw, err := s.documents.Get(ctx, sess.ID, path)
	if err != nil {
		if errors.Is(err, docrepo.ErrNotFound) {
			return nil, fmt.Errorf("session %s: %w", sess.ID, ErrNoDocument)
		}
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	return raw, nil
}

func (s *Service) session(sessionID string) (sessionsrepo.Session, error) {
	s.sessions.EnsureLoaded()

	sess, ok := s.sessions.Get(sessionID)
	if !ok {
		return sessionsrepo.Session{}, fmt.Errorf("session %s: %w", strings.TrimSpace(sessionID), ErrSessionNotFound)
	}
	return sess, nil
}
