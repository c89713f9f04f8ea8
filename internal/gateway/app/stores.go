package app

import (
	"fmt"
	"log"
	"path/filepath"
	"strings"

	cacheddocs "clientbrief/internal/cache/documents"
	"clientbrief/internal/gateway/config"
	docrepo "clientbrief/internal/gateway/repository/documents"
	formsrepo "clientbrief/internal/gateway/repository/forms"
	sessionsrepo "clientbrief/internal/gateway/repository/sessions"
)

type gatewayStores struct {
	forms     *formsrepo.Store
	sessions  *sessionsrepo.Store
	documents *cacheddocs.CachedStore
}

func initStores(cfg *config.Config) (*gatewayStores, error) {
	s3Factory := newDocumentS3StoreFactory(cfg)

	if dsn := strings.TrimSpace(cfg.DatabaseURL); dsn != "" {
		return initPostgresStores(dsn, cfg, s3Factory)
	}
	return initFileStores(cfg, s3Factory)
}

func newDocumentS3StoreFactory(cfg *config.Config) func() (docrepo.Store, error) {
	return func() (docrepo.Store, error) {
		s3Cfg := docrepo.S3Config{
			Endpoint:  cfg.Document.Endpoint,
			Region:    cfg.Document.Region,
			AccessKey: cfg.Document.AccessKey,
			SecretKey: cfg.Document.SecretKey,
			Bucket:    cfg.Document.Bucket,
			UseSSL:    cfg.Document.UseSSL,
		}
		s3Store, err := docrepo.NewS3Store(s3Cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize document s3 store: %w", err)
		}
		log.Printf("document store: s3 bucket=%s endpoint=%s", s3Cfg.Bucket, s3Cfg.Endpoint)
		return s3Store, nil
	}
}

func initPostgresStores(dsn string, cfg *config.Config, s3Factory func() (docrepo.Store, error)) (*gatewayStores, error) {
	formsStore, err := formsrepo.NewPostgres(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open forms store: %w", err)
	}
	sessionsStore, err := sessionsrepo.NewPostgres(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open sessions store: %w", err)
	}
	docsStore, err := docrepo.NewPostgresStore(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open documents store: %w", err)
	}

	documents, err := chooseDocumentStore(cfg, docsStore, "postgres", s3Factory)
	if err != nil {
		return nil, err
	}
	return &gatewayStores{
		forms:     formsStore,
		sessions:  sessionsStore,
		documents: documents,
	}, nil
}

func initFileStores(cfg *config.Config, s3Factory func() (docrepo.Store, error)) (*gatewayStores, error) {
	documents, err := chooseDocumentStore(cfg, docrepo.NewMemoryStore(), "in-memory", s3Factory)
	if err != nil {
		return nil, err
	}
	return &gatewayStores{
		forms:     formsrepo.New(filepath.Join(cfg.DataDir, "forms.json")),
		sessions:  sessionsrepo.New(filepath.Join(cfg.DataDir, "sessions.json")),
		documents: documents,
	}, nil
}

func chooseDocumentStore(
	cfg *config.Config,
	fallback docrepo.Store,
	fallbackLabel string,
	s3Factory func() (docrepo.Store, error),
) (*cacheddocs.CachedStore, error) {
	var origin docrepo.Store
	if cfg.Document.CanUseS3() {
		s3Store, err := s3Factory()
		if err != nil {
			return nil, err
		}
		origin = s3Store
	} else {
		if cfg.Document.Enabled {
			log.Printf("document store: using %s fallback (s3 config incomplete)", fallbackLabel)
		}
		origin = fallback
	}
	if origin == nil {
		return nil, fmt.Errorf("document origin store is nil")
	}
	return cacheddocs.NewCachedStore(origin, cacheddocs.DefaultCacheConfig()), nil
}
