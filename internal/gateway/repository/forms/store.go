// Package forms stores questionnaire definitions. One Store serves both
// backends: a JSON file (or plain memory when the path is empty) for local
// runs, and postgres when a DSN is configured. Published-slug lookups on
// the postgres path go through a small LRU since every client page load
// hits them.
package forms

import (
	"database/sql"
	"os"
	"strings"
	"sync"

	"github.com/hashicorp/golang-lru/v2"
	_ "github.com/jackc/pgx/v5/stdlib"

	"clientbrief/internal/form"
)

type Store struct {
	path string
	db   *sql.DB

	loadOnce sync.Once
	mu       sync.RWMutex
	byID     map[string]form.Form

	schemaOnce sync.Once
	schemaErr  error

	slugCache *lru.Cache[string, form.Form]
}

// New returns a file-backed store. An empty path keeps everything in
// memory, which is what the tests and the default dev setup use.
func New(path string) *Store {
	return &Store{
		path: path,
		byID: make(map[string]form.Form),
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
	cache, err := lru.New[string, form.Form](1024)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{
		db:        db,
		slugCache: cache,
	}, nil
}

// NewFromEnv picks postgres when DATABASE_URL is set and reachable,
// otherwise the file backend at path.
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

// Save flushes the file backend. The postgres backend persists on write.
func (s *Store) Save() {
	if s == nil || s.db != nil {
		return
	}
	s.saveFile()
}

func (s *Store) Put(f form.Form) {
	if s == nil {
		return
	}
	if s.db != nil {
		s.putDB(f)
		return
	}
	s.putFile(f)
}

func (s *Store) Get(formID string) (form.Form, bool) {
	if s == nil {
		return form.Form{}, false
	}
	if s.db != nil {
		return s.getDB(formID)
	}
	return s.getFile(formID)
}

// GetBySlug resolves a published form by its client slug. Unpublished
// forms are never returned here.
func (s *Store) GetBySlug(slug string) (form.Form, bool) {
	if s == nil {
		return form.Form{}, false
	}
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return form.Form{}, false
	}
	if s.db != nil {
		if s.slugCache != nil {
			if cached, ok := s.slugCache.Get(slug); ok {
				return cached, true
			}
		}
		f, ok := s.getBySlugDB(slug)
		if ok && s.slugCache != nil {
			s.slugCache.Add(slug, f)
		}
		return f, ok
	}
	return s.getBySlugFile(slug)
}

func (s *Store) List() []form.Form {
	if s == nil {
		return nil
	}
	if s.db != nil {
		return s.listDB()
	}
	return s.listFile()
}

func (s *Store) Update(formID string, update func(*form.Form)) (form.Form, bool) {
	if s == nil {
		return form.Form{}, false
	}
	if s.db != nil {
		f, ok := s.updateDB(formID, update)
		if ok && s.slugCache != nil && f.Slug != "" {
			s.slugCache.Remove(f.Slug)
		}
		return f, ok
	}
	return s.updateFile(formID, update)
}

// Publish marks a form published under a slug derived from slugBase,
// suffixed until unique within the store. A form that already carries a
// slug keeps it, so republishing never breaks a shared client URL.
func (s *Store) Publish(formID, slugBase string) (form.Form, bool) {
	if s == nil {
		return form.Form{}, false
	}
	if s.db != nil {
		f, ok := s.publishDB(formID, slugBase)
		if ok && s.slugCache != nil && f.Slug != "" {
			s.slugCache.Remove(f.Slug)
		}
		return f, ok
	}
	return s.publishFile(formID, slugBase)
}
