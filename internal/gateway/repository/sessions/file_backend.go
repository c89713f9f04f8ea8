package sessions

import (
	"encoding/json"
	"os"
	"sort"
	"strings"

	"clientbrief/internal/safeio"
)

func (s *Store) ensureLoadedFile() {
	s.loadOnce.Do(func() {
		if s.path == "" {
			return
		}
		b, err := os.ReadFile(s.path)
		if err != nil {
			return
		}
		var rows []Session
		if err := json.Unmarshal(b, &rows); err != nil {
			return
		}
		s.mu.Lock()
		defer s.mu.Unlock()
		for _, row := range rows {
			sess := normalizeSession(row)
			if sess.ID == "" {
				continue
			}
			s.byID[sess.ID] = sess
		}
	})
}

func (s *Store) saveFile() {
	if s.path == "" {
		return
	}
	s.ensureLoadedFile()
	s.mu.RLock()
	rows := make([]Session, 0, len(s.byID))
	for _, sess := range s.byID {
		rows = append(rows, sess)
	}
	s.mu.RUnlock()
	sort.Slice(rows, func(i, j int) bool { return rows[i].ID < rows[j].ID })

	b, err := json.MarshalIndent(rows, "", "  ")
	if err != nil {
		return
	}
	_ = safeio.WriteFileAtomic(s.path, b, 0o644)
}

func (s *Store) getFile(sessionID string) (Session, bool) {
	s.ensureLoadedFile()
	id := strings.TrimSpace(sessionID)
	if id == "" {
		return Session{}, false
	}
	s.mu.RLock()
	sess, ok := s.byID[id]
	s.mu.RUnlock()
	return sess, ok
}

func (s *Store) putFile(sess Session) {
	s.ensureLoadedFile()
	sess = normalizeSession(sess)
	if sess.ID == "" {
		return
	}
	s.mu.Lock()
	s.byID[sess.ID] = sess
	s.mu.Unlock()
	s.saveFile()
}

func (s *Store) updateFile(sessionID string, update func(*Session)) (Session, bool) {
	s.ensureLoadedFile()
	id := strings.TrimSpace(sessionID)
	if id == "" {
		return Session{}, false
	}
	s.mu.Lock()
	sess, ok := s.byID[id]
	if !ok {
		s.mu.Unlock()
		return Session{}, false
	}
	update(&sess)
	sess.ID = id
	sess = normalizeSession(sess)
	s.byID[id] = sess
	s.mu.Unlock()
	s.saveFile()
	return sess, true
}

func (s *Store) listByFormFile(formID string) []Session {
	s.ensureLoadedFile()
	fid := strings.TrimSpace(formID)
	s.mu.RLock()
	out := make([]Session, 0, len(s.byID))
	for _, sess := range s.byID {
		if fid != "" && sess.FormID != fid {
			continue
		}
		out = append(out, sess)
	}
	s.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].StartedAt.After(out[j].StartedAt) })
	return out
}
