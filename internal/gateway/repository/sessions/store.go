// Package sessions stores client response sessions, file-backed or in
// postgres when a DSN is configured.
package sessions

import (
	"database/sql"
	"os"
	"strings"
	"sync"

	_ "github.com/jackc/pgx/v5/stdlib"
)

type Store struct {
	path string
	db   *sql.DB

	loadOnce sync.Once
	mu       sync.RWMutex
	byID     map[string]Session

	schemaOnce sync.Once
	schemaErr  error
}

// New returns a file-backed store; an empty path keeps sessions in memory.
func New(path string) *Store {
	return &Store{
		path: path,
		byID: make(map[string]Session),
	}
}

func NewPostgres(dsn string) (*Store, error) {
	db, err := sql.Open("pgx", strings.TrimSpace(dsn))
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

func NewFromEnv(path string) *Store {
	dsn := strings.TrimSpace(os.Getenv("DATABASE_URL"))
	if dsn == "" {
		return New(path)
	}
	s, err := NewPostgres(dsn)
	if err != nil {
		return New(path)
	}
	return s
}

func (s *Store) EnsureLoaded() {
	if s == nil {
		return
	}
	if s.db != nil {
		_ = s.ensureSchema()
		return
	}
	s.ensureLoadedFile()
}

func (s *Store) Save() {
	if s == nil || s.db != nil {
		return
	}
	s.saveFile()
}

func (s *Store) Put(sess Session) {
	if s == nil {
		return
	}
	if s.db != nil {
		s.putDB(sess)
		return
	}
	s.putFile(sess)
}

func (s *Store) Get(sessionID string) (Session, bool) {
	if s == nil {
		return Session{}, false
	}
	if s.db != nil {
		return s.getDB(sessionID)
	}
	return s.getFile(sessionID)
}

func (s *Store) Update(sessionID string, update func(*Session)) (Session, bool) {
	if s == nil {
		return Session{}, false
	}
	if s.db != nil {
		return s.updateDB(sessionID, update)
	}
	return s.updateFile(sessionID, update)
}

// ListByForm returns a form's sessions, most recently started first.
func (s *Store) ListByForm(formID string) []Session {
	if s == nil {
		return nil
	}
	if s.db != nil {
		return s.listByFormDB(formID)
	}
	return s.listByFormFile(formID)
}
