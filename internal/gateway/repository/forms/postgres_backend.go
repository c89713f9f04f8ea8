package forms

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"clientbrief/internal/form"
)

// The definition column carries the whole form as JSON and is the source
// of truth; slug and published are mirrored into columns for lookups.
func (s *Store) ensureSchema() error {
	if s == nil || s.db == nil {
		return nil
	}
	s.schemaOnce.Do(func() {
		_, s.schemaErr = s.db.Exec(`
CREATE TABLE IF NOT EXISTS forms (
  form_id TEXT PRIMARY KEY,
  slug TEXT NOT NULL DEFAULT '',
  published BOOLEAN NOT NULL DEFAULT FALSE,
  definition TEXT NOT NULL,
  created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
  updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_forms_slug ON forms (slug) WHERE slug <> '';
`)
	})
	return s.schemaErr
}

func scanFormDB(row rowScanner) (form.Form, bool) {
	var definition string
	if err := row.Scan(&definition); err != nil {
		return form.Form{}, false
	}
	var f form.Form
	if err := json.Unmarshal([]byte(definition), &f); err != nil {
		return form.Form{}, false
	}
	return normalizeForm(f), true
}

func (s *Store) getDB(formID string) (form.Form, bool) {
	if err := s.ensureSchema(); err != nil {
		return form.Form{}, false
	}
	id := strings.TrimSpace(formID)
	if id == "" {
		return form.Form{}, false
	}
	row := s.db.QueryRow(`SELECT definition FROM forms WHERE form_id = $1`, id)
	return scanFormDB(row)
}

func (s *Store) getBySlugDB(slug string) (form.Form, bool) {
	if err := s.ensureSchema(); err != nil {
		return form.Form{}, false
	}
	row := s.db.QueryRow(`SELECT definition FROM forms WHERE slug = $1 AND published = TRUE`, slug)
	return scanFormDB(row)
}

func (s *Store) putDB(f form.Form) {
	if err := s.ensureSchema(); err != nil {
		return
	}
	n := normalizeForm(f)
	if n.ID == "" {
		return
	}
	definition, err := json.Marshal(n)
	if err != nil {
		return
	}
	_, _ = s.db.Exec(`
INSERT INTO forms (form_id, slug, published, definition, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (form_id)
DO UPDATE SET slug=EXCLUDED.slug,
  published=EXCLUDED.published,
  definition=EXCLUDED.definition,
  updated_at=EXCLUDED.updated_at`,
		n.ID, n.Slug, n.Published, string(definition), n.CreatedAt, n.UpdatedAt)
}

func (s *Store) listDB() []form.Form {
	if err := s.ensureSchema(); err != nil {
		return nil
	}
	rows, err := s.db.Query(`SELECT definition FROM forms ORDER BY created_at DESC`)
	if err != nil {
		return nil
	}
	defer rows.Close()
	out := make([]form.Form, 0, 32)
	for rows.Next() {
		if f, ok := scanFormDB(rows); ok {
			out = append(out, f)
		}
	}
	return out
}

func (s *Store) updateDB(formID string, update func(*form.Form)) (form.Form, bool) {
	if err := s.ensureSchema(); err != nil {
		return form.Form{}, false
	}
	tx, err := s.db.Begin()
	if err != nil {
		return form.Form{}, false
	}
	defer func() { _ = tx.Rollback() }()

	id := strings.TrimSpace(formID)
	row := tx.QueryRow(`SELECT definition FROM forms WHERE form_id = $1 FOR UPDATE`, id)
	cur, ok := scanFormDB(row)
	if !ok {
		return form.Form{}, false
	}
	update(&cur)
	cur.ID = id
	cur = normalizeForm(cur)
	if !writeFormTx(tx, cur) {
		return form.Form{}, false
	}
	if err := tx.Commit(); err != nil {
		return form.Form{}, false
	}
	return cur, true
}

func (s *Store) publishDB(formID, slugBase string) (form.Form, bool) {
	if err := s.ensureSchema(); err != nil {
		return form.Form{}, false
	}
	tx, err := s.db.Begin()
	if err != nil {
		return form.Form{}, false
	}
	defer func() { _ = tx.Rollback() }()

	id := strings.TrimSpace(formID)
	row := tx.QueryRow(`SELECT definition FROM forms WHERE form_id = $1 FOR UPDATE`, id)
	cur, ok := scanFormDB(row)
	if !ok {
		return form.Form{}, false
	}
	if cur.Slug == "" {
		base := strings.TrimSpace(slugBase)
		if base == "" {
			base = "form"
		}
		candidate := base
		for n := 2; ; n++ {
			var exists bool
			err := tx.QueryRow(
				`SELECT EXISTS (SELECT 1 FROM forms WHERE slug = $1 AND form_id <> $2)`,
				candidate, id).Scan(&exists)
			if err != nil {
				return form.Form{}, false
			}
			if !exists {
				break
			}
			candidate = fmt.Sprintf("%s-%d", base, n)
		}
		cur.Slug = candidate
	}
	now := time.Now().UTC()
	cur.Published = true
	if cur.PublishedAt == nil {
		cur.PublishedAt = &now
	}
	cur.UpdatedAt = now
	if !writeFormTx(tx, cur) {
		return form.Form{}, false
	}
	if err := tx.Commit(); err != nil {
		return form.Form{}, false
	}
	return cur, true
}

func writeFormTx(tx *sql.Tx, f form.Form) bool {
	definition, err := json.Marshal(f)
	if err != nil {
		return false
	}
	_, err = tx.Exec(`
UPDATE forms
SET slug=$2, published=$3, definition=$4, updated_at=$5
WHERE form_id=$1`,
		f.ID, f.Slug, f.Published, string(definition), f.UpdatedAt)
	return err == nil
}
