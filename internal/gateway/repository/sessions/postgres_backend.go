package sessions

import (
	"database/sql"
	"encoding/json"
	"strings"
)

func (s *Store) ensureSchema() error {
	if s == nil || s.db == nil {
		return nil
	}
	s.schemaOnce.Do(func() {
		_, s.schemaErr = s.db.Exec(`
CREATE TABLE IF NOT EXISTS sessions (
  session_id TEXT PRIMARY KEY,
  form_id TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'in_progress',
  answers TEXT NOT NULL DEFAULT '{}',
  started_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
  updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
  submitted_at TIMESTAMP WITH TIME ZONE,
  analyzed_at TIMESTAMP WITH TIME ZONE
);
CREATE INDEX IF NOT EXISTS idx_sessions_form_id ON sessions (form_id);
`)
	})
	return s.schemaErr
}

const sessionColumns = `session_id, form_id, status, answers, started_at, updated_at, submitted_at, analyzed_at`

func scanSessionDB(row rowScanner) (Session, bool) {
	var sess Session
	var answers string
	var submitted, analyzed sql.NullTime
	err := row.Scan(
		&sess.ID,
		&sess.FormID,
		&sess.Status,
		&answers,
		&sess.StartedAt,
		&sess.UpdatedAt,
		&submitted,
		&analyzed,
	)
	if err != nil {
		return Session{}, false
	}
	if answers != "" {
		_ = json.Unmarshal([]byte(answers), &sess.Answers)
	}
	if submitted.Valid {
		t := submitted.Time
		sess.SubmittedAt = &t
	}
	if analyzed.Valid {
		t := analyzed.Time
		sess.AnalyzedAt = &t
	}
	return normalizeSession(sess), true
}

func (s *Store) getDB(sessionID string) (Session, bool) {
	if err := s.ensureSchema(); err != nil {
		return Session{}, false
	}
	id := strings.TrimSpace(sessionID)
	if id == "" {
		return Session{}, false
	}
	row := s.db.QueryRow(`SELECT `+sessionColumns+` FROM sessions WHERE session_id = $1`, id)
	return scanSessionDB(row)
}

func (s *Store) putDB(sess Session) {
	if err := s.ensureSchema(); err != nil {
		return
	}
	n := normalizeSession(sess)
	if n.ID == "" {
		return
	}
	answers, err := json.Marshal(n.Answers)
	if err != nil {
		return
	}
	var submitted, analyzed any
	if n.SubmittedAt != nil {
		submitted = *n.SubmittedAt
	}
	if n.AnalyzedAt != nil {
		analyzed = *n.AnalyzedAt
	}
	_, _ = s.db.Exec(`
INSERT INTO sessions (session_id, form_id, status, answers, started_at, updated_at, submitted_at, analyzed_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
ON CONFLICT (session_id)
DO UPDATE SET form_id=EXCLUDED.form_id,
  status=EXCLUDED.status,
  answers=EXCLUDED.answers,
  updated_at=EXCLUDED.updated_at,
  submitted_at=EXCLUDED.submitted_at,
  analyzed_at=EXCLUDED.analyzed_at`,
		n.ID, n.FormID, n.Status, string(answers), n.StartedAt, n.UpdatedAt, submitted, analyzed)
}

func (s *Store) updateDB(sessionID string, update func(*Session)) (Session, bool) {
	if err := s.ensureSchema(); err != nil {
		return Session{}, false
	}
	tx, err := s.db.Begin()
	if err != nil {
		return Session{}, false
	}
	defer func() { _ = tx.Rollback() }()

	id := strings.TrimSpace(sessionID)
	row := tx.QueryRow(`SELECT `+sessionColumns+` FROM sessions WHERE session_id = $1 FOR UPDATE`, id)
	cur, ok := scanSessionDB(row)
	if !ok {
		return Session{}, false
	}
	update(&cur)
	cur.ID = id
	cur = normalizeSession(cur)

	answers, err := json.Marshal(cur.Answers)
	if err != nil {
		return Session{}, false
	}
	var submitted, analyzed any
	if cur.SubmittedAt != nil {
		submitted = *cur.SubmittedAt
	}
	if cur.AnalyzedAt != nil {
		analyzed = *cur.AnalyzedAt
	}
	_, err = tx.Exec(`
UPDATE sessions
SET form_id=$2, status=$3, answers=$4, updated_at=$5, submitted_at=$6, analyzed_at=$7
WHERE session_id=$1`,
		cur.ID, cur.FormID, cur.Status, string(answers), cur.UpdatedAt, submitted, analyzed)
	if err != nil {
		return Session{}, false
	}
	if err := tx.Commit(); err != nil {
		return Session{}, false
	}
	return cur, true
}

func (s *Store) listByFormDB(formID string) []Session {
	if err := s.ensureSchema(); err != nil {
		return nil
	}
	fid := strings.TrimSpace(formID)
	var (
		rows *sql.Rows
		err  error
	)
	if fid == "" {
		rows, err = s.db.Query(`SELECT ` + sessionColumns + ` FROM sessions ORDER BY started_at DESC`)
	} else {
		rows, err = s.db.Query(`SELECT `+sessionColumns+` FROM sessions WHERE form_id = $1 ORDER BY started_at DESC`, fid)
	}
	if err != nil {
		return nil
	}
	defer rows.Close()
	out := make([]Session, 0, 32)
	for rows.Next() {
		if sess, ok := scanSessionDB(rows); ok {
			out = append(out, sess)
		}
	}
	return out
}
