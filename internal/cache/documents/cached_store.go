// Package documents wraps a document store with in-memory read caches
// so repeated BRD downloads do not hammer the backing store.
package documents

import (
	"context"
	"strings"
	"sync/atomic"
	"time"

	memcache "clientbrief/internal/cache/memory"
	docrepo "clientbrief/internal/gateway/repository/documents"
)

type Store = docrepo.Store

type CacheConfig struct {
	DocTTL        time.Duration
	DocMaxEntries int
	DocMaxBytes   int

	ListTTL        time.Duration
	ListMaxEntries int

	URLTTL        time.Duration
	URLMaxEntries int
}

func DefaultCacheConfig() CacheConfig {
	return CacheConfig{
		DocTTL:         5 * time.Minute,
		DocMaxEntries:  1024,
		DocMaxBytes:    64 * 1024 * 1024, // 64MiB
		ListTTL:        30 * time.Second,
		ListMaxEntries: 512,
		URLTTL:         5 * time.Minute,
		URLMaxEntries:  1024,
	}
}

func (cfg CacheConfig) withDefaults() CacheConfig {
	def := DefaultCacheConfig()
	if cfg.DocTTL <= 0 {
		cfg.DocTTL = def.DocTTL
	}
	if cfg.DocMaxEntries <= 0 {
		cfg.DocMaxEntries = def.DocMaxEntries
	}
	if cfg.DocMaxBytes < 0 {
		cfg.DocMaxBytes = def.DocMaxBytes
	}
	if cfg.ListTTL <= 0 {
		cfg.ListTTL = def.ListTTL
	}
	if cfg.ListMaxEntries <= 0 {
		cfg.ListMaxEntries = def.ListMaxEntries
	}
	if cfg.URLTTL <= 0 {
		cfg.URLTTL = def.URLTTL
	}
	if cfg.URLMaxEntries <= 0 {
		cfg.URLMaxEntries = def.URLMaxEntries
	}
	return cfg
}

type MetricsSnapshot struct {
	DocHits        uint64 `json:"doc_hits"`
	DocMisses      uint64 `json:"doc_misses"`
	ListHits       uint64 `json:"list_hits"`
	ListMisses     uint64 `json:"list_misses"`
	URLHits        uint64 `json:"url_hits"`
	URLMisses      uint64 `json:"url_misses"`
	OriginReads    uint64 `json:"origin_reads"`
	OriginWrites   uint64 `json:"origin_writes"`
	OriginReadErr  uint64 `json:"origin_read_errors"`
	OriginWriteErr uint64 `json:"origin_write_errors"`
}

type Metrics struct {
	docHits        atomic.Uint64
	docMisses      atomic.Uint64
	listHits       atomic.Uint64
	listMisses     atomic.Uint64
	urlHits        atomic.Uint64
	urlMisses      atomic.Uint64
	originReads    atomic.Uint64
	originWrites   atomic.Uint64
	originReadErr  atomic.Uint64
	originWriteErr atomic.Uint64
}

func (m *Metrics) snapshot() MetricsSnapshot {
	if m == nil {
		return MetricsSnapshot{}
	}
	return MetricsSnapshot{
		DocHits:        m.docHits.Load(),
		DocMisses:      m.docMisses.Load(),
		ListHits:       m.listHits.Load(),
		ListMisses:     m.listMisses.Load(),
		URLHits:        m.urlHits.Load(),
		URLMisses:      m.urlMisses.Load(),
		OriginReads:    m.originReads.Load(),
		OriginWrites:   m.originWrites.Load(),
		OriginReadErr:  m.originReadErr.Load(),
		OriginWriteErr: m.originWriteErr.Load(),
	}
}

type CachedStore struct {
	origin Store

	docCache  *memcache.LRUTTL[string, []byte]
	listCache *memcache.LRUTTL[string, []string]
	urlCache  *memcache.LRUTTL[string, string]
	metrics   Metrics
}

func NewCachedStore(origin Store, cfg CacheConfig) *CachedStore {
	cfg = cfg.withDefaults()
	return &CachedStore{
		origin:    origin,
		docCache:  memcache.NewLRUTTL[string, []byte](cfg.DocMaxEntries, cfg.DocMaxBytes, cfg.DocTTL),
		listCache: memcache.NewLRUTTL[string, []string](cfg.ListMaxEntries, 0, cfg.ListTTL),
		urlCache:  memcache.NewLRUTTL[string, string](cfg.URLMaxEntries, 0, cfg.URLTTL),
	}
}

func (s *CachedStore) Put(ctx context.Context, sessionID, path string, content []byte) error {
	s.metrics.originWrites.Add(1)
	if err := s.origin.Put(ctx, sessionID, path, content); err != nil {
		s.metrics.originWriteErr.Add(1)
		return err
	}

	key := documentKey(sessionID, path)
	copied := append([]byte(nil), content...)
	s.docCache.Set(key, copied, len(copied))
	s.listCache.Delete(strings.TrimSpace(sessionID))
	s.urlCache.Delete(key)
	return nil
}

func (s *CachedStore) Get(ctx context.Context, sessionID, path string) ([]byte, error) {
	key := documentKey(sessionID, path)
	if raw, ok := s.docCache.Get(key); ok {
		s.metrics.docHits.Add(1)
		return append([]byte(nil), raw...), nil
	}
	s.metrics.docMisses.Add(1)
	s.metrics.originReads.Add(1)

	raw, err := s.origin.Get(ctx, sessionID, path)
	if err != nil {
		s.metrics.originReadErr.Add(1)
		return nil, err
	}
	copied := append([]byte(nil), raw...)
	s.docCache.Set(key, copied, len(copied))
	return append([]byte(nil), copied...), nil
}

func (s *CachedStore) GetURL(ctx context.Context, sessionID, path string) (string, error) {
	key := documentKey(sessionID, path)
	if cached, ok := s.urlCache.Get(key); ok {
		s.metrics.urlHits.Add(1)
		return cached, nil
	}
	s.metrics.urlMisses.Add(1)
	s.metrics.originReads.Add(1)

	url, err := s.origin.GetURL(ctx, sessionID, path)
	if err != nil {
		s.metrics.originReadErr.Add(1)
		return "", err
	}
	// Stores without URL support report "" and should stay uncached so a
	// later backend swap is picked up.
	if strings.TrimSpace(url) != "" {
		s.urlCache.Set(key, url, len(url))
	}
	return url, nil
}

func (s *CachedStore) List(ctx context.Context, sessionID string) ([]string, error) {
	sessionID = strings.TrimSpace(sessionID)
	if list, ok := s.listCache.Get(sessionID); ok {
		s.metrics.listHits.Add(1)
		return append([]string(nil), list...), nil
	}
	s.metrics.listMisses.Add(1)
	s.metrics.originReads.Add(1)

	list, err := s.origin.List(ctx, sessionID)
	if err != nil {
		s.metrics.originReadErr.Add(1)
		return nil, err
	}
	copied := append([]string(nil), list...)
	approxBytes := 0
	for _, v := range copied {
		approxBytes += len(v)
	}
	s.listCache.Set(sessionID, copied, approxBytes)
	return append([]string(nil), copied...), nil
}

func (s *CachedStore) Metrics() MetricsSnapshot {
	if s == nil {
		return MetricsSnapshot{}
	}
	return s.metrics.snapshot()
}

func documentKey(sessionID, path string) string {
	return strings.TrimSpace(sessionID) + "/" + strings.TrimLeft(strings.TrimSpace(path), "/")
}
