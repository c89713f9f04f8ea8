// Package forms implements the operator-side questionnaire lifecycle:
// create a draft, edit it, publish it under a client slug.
package forms

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"clientbrief/internal/form"
	formsrepo "clientbrief/internal/gateway/repository/forms"
)

var (
	ErrNotFound  = errors.New("form not found")
	ErrPublished = errors.New("form already published")
)

type Service struct {
	store *formsrepo.Store
}

func New(store *formsrepo.Store) *Service {
	return &Service{store: store}
}

// Store returns the underlying form persistence store.
func (s *Service) Store() *formsrepo.Store { return s.store }

// Create validates a draft and assigns its identity. Publication fields
// submitted by the caller are discarded; drafts always start unpublished.
func (s *Service) Create(_ context.Context, f form.Form) (form.Form, error) {
	s.store.EnsureLoaded()

	now := time.Now().UTC()
	f.ID = fmt.Sprintf("form-%d", time.Now().UnixNano())
	f.Slug = ""
	f.Published = false
	f.PublishedAt = nil
	f.CreatedAt = now
	f.UpdatedAt = now

	if err := f.Validate(); err != nil {
		return form.Form{}, err
	}

	s.store.Put(f)
	got, ok := s.store.Get(f.ID)
	if !ok {
		return form.Form{}, fmt.Errorf("form %s was not stored", f.ID)
	}
	return got, nil
}

func (s *Service) Get(_ context.Context, formID string) (form.Form, error) {
	s.store.EnsureLoaded()

	f, ok := s.store.Get(formID)
	if !ok {
		return form.Form{}, fmt.Errorf("form %s: %w", strings.TrimSpace(formID), ErrNotFound)
	}
	return f, nil
}

func (s *Service) List(_ context.Context) ([]form.Form, error) {
	s.store.EnsureLoaded()
	return s.store.List(), nil
}

// Update replaces the editable content of a draft. Published forms are
// frozen; clients already hold their question ids.
func (s *Service) Update(_ context.Context, formID string, updated form.Form) (form.Form, error) {
	s.store.EnsureLoaded()

	current, ok := s.store.Get(formID)
	if !ok {
		return form.Form{}, fmt.Errorf("form %s: %w", strings.TrimSpace(formID), ErrNotFound)
	}
	if current.Published {
		return form.Form{}, fmt.Errorf("form %s: %w", current.ID, ErrPublished)
	}

	updated.ID = current.ID
	updated.Slug = current.Slug
	updated.Published = current.Published
	updated.PublishedAt = current.PublishedAt
	updated.CreatedAt = current.CreatedAt
	updated.UpdatedAt = time.Now().UTC()

	if err := updated.Validate(); err != nil {
		return form.Form{}, err
	}

	got, ok := s.store.Update(current.ID, func(f *form.Form) {
		*f = updated
	})
	if !ok {
		return form.Form{}, fmt.Errorf("form %s: %w", current.ID, ErrNotFound)
	}
	return got, nil
}

// Publish makes a form reachable under a client slug. The slug derives
// from the client name (falling back to the title), and the store keeps
// it unique. Publishing an already published form is a no-op that
// returns the current state.
func (s *Service) Publish(_ context.Context, formID string) (form.Form, error) {
	s.store.EnsureLoaded()

	f, ok := s.store.Get(formID)
	if !ok {
		return form.Form{}, fmt.Errorf("form %s: %w", strings.TrimSpace(formID), ErrNotFound)
	}

	base := strings.TrimSpace(f.ClientName)
	if base == "" {
		base = f.Title
	}
	published, ok := s.store.Publish(f.ID, form.Slugify(base))
	if !ok {
		return form.Form{}, fmt.Errorf("form %s: %w", f.ID, ErrNotFound)
	}
	return published, nil
}

// GetBySlug resolves the published form a client sees.
func (s *Service) GetBySlug(_ context.Context, slug string) (form.Form, error) {
	s.store.EnsureLoaded()

	f, ok := s.store.GetBySlug(slug)
	if !ok {
		return form.Form{}, fmt.Errorf("form %q: %w", strings.TrimSpace(slug), ErrNotFound)
	}
	return f, nil
}
