package openapi

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/olreppe/pyWATS-sub001/client"
	"github.com/olreppe/pyWATS-sub001/config"
	"github.com/olreppe/pyWATS-sub001/internal/logging"
)

// Store manages the API documents of every configured group.
type Store struct {
	c       *client.Client
	paths   map[string]string
	cache   *Cache
	indices map[string]*Index
	mu      sync.RWMutex
}

// NewStore creates a store that reads the groups in cfg.DocPaths from the
// server c talks to. The internal group is only served to requests that
// carry a Referer matching the server, so every document request sends one.
func NewStore(c *client.Client, cfg *config.Config) (*Store, error) {
	paths := cfg.DocPaths
	if len(paths) == 0 {
		paths = config.DefaultDocPaths
	}
	dir := cfg.CacheDir
	if dir == "" {
		dir = config.DefaultCacheDir()
	}

	cache, err := NewCache(dir, config.DefaultDocCacheTTL)
	if err != nil {
		return nil, err
	}

	return &Store{
		c:       c.WithHeaders(map[string]string{"Referer": c.BaseURL()}),
		paths:   paths,
		cache:   cache,
		indices: make(map[string]*Index),
	}, nil
}

// LoadAll fetches and parses documents for all configured groups. Failures
// are logged and the group is left unindexed.
func (s *Store) LoadAll(ctx context.Context) {
	for _, group := range s.configured() {
		if err := s.load(ctx, group); err != nil {
			logging.Error("loading api doc", zap.String("group", group), zap.Error(err))
			continue
		}
		if idx := s.GetIndex(group); idx != nil {
			logging.Info("loaded api doc", zap.String("group", group), zap.Int("endpoints", idx.Count()))
		}
	}
}

func (s *Store) load(ctx context.Context, group string) error {
	path := s.paths[group]
	key := s.c.BaseURL() + path

	if data := s.cache.Get(key); data != nil {
		if idx, err := Parse(ctx, group, data); err == nil {
			s.mu.Lock()
			s.indices[group] = idx
			s.mu.Unlock()
			return nil
		}
		s.cache.Invalidate(key)
	}

	data, err := Fetch(ctx, s.c, path)
	if err != nil {
		return err
	}

	// Only documents that parse are cached, so a maintenance page served
	// with 200 is retried on the next load.
	idx, err := Parse(ctx, group, data)
	if err != nil {
		return err
	}
	if err := s.cache.Put(key, data); err != nil {
		logging.Warn("failed to cache api doc", zap.String("path", path), zap.Error(err))
	}

	s.mu.Lock()
	s.indices[group] = idx
	s.mu.Unlock()

	return nil
}

// GetIndex returns the index for a group, or nil if it is not loaded.
func (s *Store) GetIndex(group string) *Index {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.indices[group]
}

// Groups returns the loaded groups, sorted.
func (s *Store) Groups() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	groups := make([]string, 0, len(s.indices))
	for g := range s.indices {
		groups = append(groups, g)
	}
	sort.Strings(groups)
	return groups
}

// Search searches across all groups, or only the named one.
func (s *Store) Search(query, group string) []EndpointSummary {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var results []EndpointSummary
	for name, idx := range s.indices {
		if group != "" && name != group {
			continue
		}
		results = append(results, idx.Search(query)...)
	}
	sortSummaries(results)
	return results
}

// Refresh re-fetches the document for a group, bypassing the cache.
func (s *Store) Refresh(ctx context.Context, group string) error {
	path, ok := s.paths[group]
	if !ok || path == "" {
		return fmt.Errorf("api group %q not configured", group)
	}

	s.cache.Invalidate(s.c.BaseURL() + path)

	return s.load(ctx, group)
}

// RefreshAll re-fetches documents for all groups.
func (s *Store) RefreshAll(ctx context.Context) map[string]error {
	errs := make(map[string]error)
	for _, group := range s.configured() {
		if err := s.Refresh(ctx, group); err != nil {
			errs[group] = err
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

func (s *Store) configured() []string {
	groups := make([]string, 0, len(s.paths))
	for g, p := range s.paths {
		if p != "" {
			groups = append(groups, g)
		}
	}
	sort.Strings(groups)
	return groups
}
