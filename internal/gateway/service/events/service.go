// Package events is the in-memory feed behind the watch endpoints. Each
// form has its own set of subscribers; publishing never blocks, a slow
// subscriber loses its oldest undelivered event instead.
package events

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"
)

type Type string

const (
	TypeSessionStarted    Type = "session_started"
	TypeSessionSubmitted  Type = "session_submitted"
	TypeDocumentGenerated Type = "document_generated"
)

type Event struct {
	Type      Type      `json:"type"`
	FormID    string    `json:"form_id"`
	SessionID string    `json:"session_id,omitempty"`
	Path      string    `json:"path,omitempty"`
	At        time.Time `json:"at"`
}

const recentLimit = 32

type Service struct {
	mu     sync.Mutex
	nextID int64
	subs   map[string]map[int64]chan Event
	recent map[string][]Event
}

func New() *Service {
	return &Service{
		subs:   make(map[string]map[int64]chan Event),
		recent: make(map[string][]Event),
	}
}

func (s *Service) Publish(ev Event) {
	if s == nil {
		return
	}
	formID := strings.TrimSpace(ev.FormID)
	if formID == "" {
		return
	}
	ev.FormID = formID
	if ev.At.IsZero() {
		ev.At = time.Now().UTC()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	log := append(s.recent[formID], ev)
	if len(log) > recentLimit {
		log = log[len(log)-recentLimit:]
	}
	s.recent[formID] = log

	for _, ch := range s.subs[formID] {
		pushEvent(ch, ev)
	}
}

// Subscribe delivers events for a form until ctx is canceled, then closes
// the channel.
func (s *Service) Subscribe(ctx context.Context, formID string) (<-chan Event, error) {
	formID = strings.TrimSpace(formID)
	if formID == "" {
		return nil, fmt.Errorf("form_id is required")
	}

	ch := make(chan Event, 16)

	s.mu.Lock()
	s.nextID++
	id := s.nextID
	if s.subs[formID] == nil {
		s.subs[formID] = make(map[int64]chan Event)
	}
	s.subs[formID][id] = ch
	s.mu.Unlock()

	go func() {
		<-ctx.Done()
		s.mu.Lock()
		if set, ok := s.subs[formID]; ok {
			delete(set, id)
			if len(set) == 0 {
				delete(s.subs, formID)
			}
		}
		s.mu.Unlock()
		close(ch)
	}()

	return ch, nil
}

// Recent returns the retained tail of a form's event log, oldest first.
func (s *Service) Recent(formID string) []Event {
	if s == nil {
		return nil
	}
	formID = strings.TrimSpace(formID)
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Event(nil), s.recent[formID]...)
}

func pushEvent(ch chan Event, ev Event) {
	if ch == nil {
		return
	}
	select {
	case ch <- ev:
		return
	default:
	}
	select {
	case <-ch:
	default:
	}
	select {
	case ch <- ev:
	default:
	}
}
