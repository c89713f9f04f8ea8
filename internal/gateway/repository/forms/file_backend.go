package forms

import (
	"encoding/json"
	"os"
	"sort"
	"strings"
	"time"

	"clientbrief/internal/form"
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
		var rows []form.Form
		if err := json.Unmarshal(b, &rows); err != nil {
			return
		}
		s.mu.Lock()
		defer s.mu.Unlock()
		for _, row := range rows {
			f := normalizeForm(row)
			if f.ID == "" {
				continue
			}
			s.byID[f.ID] = f
		}
	})
}

func (s *Store) saveFile() {
	if s.path == "" {
		return
	}
	s.ensureLoadedFile()
	s.mu.RLock()
	rows := make([]form.Form, 0, len(s.byID))
	for _, f := range s.byID {
		rows = append(rows, f)
	}
	s.mu.RUnlock()
	sort.Slice(rows, func(i, j int) bool { return rows[i].ID < rows[j].ID })

	b, err := json.MarshalIndent(rows, "", "  ")
	if err != nil {
		return
	}
	_ = safeio.WriteFileAtomic(s.path, b, 0o644)
}

func (s *Store) getFile(formID string) (form.Form, bool) {
	s.ensureLoadedFile()
	id := strings.TrimSpace(formID)
	if id == "" {
		return form.Form{}, false
	}
	s.mu.RLock()
	f, ok := s.byID[id]
	s.mu.RUnlock()
	return f, ok
}

func (s *Store) getBySlugFile(slug string) (form.Form, bool) {
	s.ensureLoadedFile()
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, f := range s.byID {
		if f.Published && f.Slug == slug {
			return f, true
		}
	}
	return form.Form{}, false
}

func (s *Store) putFile(f form.Form) {
	s.ensureLoadedFile()
	f = normalizeForm(f)
	if f.ID == "" {
		return
	}
	s.mu.Lock()
	s.byID[f.ID] = f
	s.mu.Unlock()
	s.saveFile()
}

func (s *Store) listFile() []form.Form {
	s.ensureLoadedFile()
	s.mu.RLock()
	out := make([]form.Form, 0, len(s.byID))
	for _, f := range s.byID {
		out = append(out, f)
	}
	s.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (s *Store) updateFile(formID string, update func(*form.Form)) (form.Form, bool) {
	s.ensureLoadedFile()
	id := strings.TrimSpace(formID)
	if id == "" {
		return form.Form{}, false
	}
	s.mu.Lock()
	f, ok := s.byID[id]
	if !ok {
		s.mu.Unlock()
		return form.Form{}, false
	}
	update(&f)
	f.ID = id
	f = normalizeForm(f)
	s.byID[id] = f
	s.mu.Unlock()
	s.saveFile()
	return f, true
}

func (s *Store) publishFile(formID, slugBase string) (form.Form, bool) {
	s.ensureLoadedFile()
	id := strings.TrimSpace(formID)
	if id == "" {
		return form.Form{}, false
	}
	s.mu.Lock()
	f, ok := s.byID[id]
	if !ok {
		s.mu.Unlock()
		return form.Form{}, false
	}
	if f.Slug == "" {
		taken := make(map[string]struct{}, len(s.byID))
		for key, other := range s.byID {
			if key == id || other.Slug == "" {
				continue
			}
			taken[other.Slug] = struct{}{}
		}
		f.Slug = uniqueSlug(slugBase, taken)
	}
	now := time.Now().UTC()
	f.Published = true
	if f.PublishedAt == nil {
		f.PublishedAt = &now
	}
	f.UpdatedAt = now
	s.byID[id] = f
	s.mu.Unlock()
	s.saveFile()
	return f, true
}
