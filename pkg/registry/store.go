package registry

import (
	"context"
	"errors"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/swcatalog/pkg/cache"
)

// Store loads and saves registry snapshots. Unlike [cache.Store] it never
// fails: an unreadable snapshot is logged and treated as empty, which makes
// the caller refetch from the remote source.
type Store struct {
	Cache  cache.Store
	Logger *log.Logger
}

// NewStore wraps c. A nil logger uses log.Default().
func NewStore(c cache.Store, logger *log.Logger) *Store {
	if c == nil {
		c = cache.NewNullStore()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Store{Cache: c, Logger: logger}
}

// LoadVendors returns the cached vendors, or an empty map.
func (s *Store) LoadVendors(ctx context.Context) map[string]*Vendor {
	m := load[*Vendor](ctx, s, cache.KindVendor)
	for id, v := range m {
		if v == nil {
			delete(m, id)
			continue
		}
		v.ID = id
		if v.Software == nil {
			v.Software = []string{}
		}
	}
	return m
}

// LoadSoftware returns the cached software, or an empty map.
func (s *Store) LoadSoftware(ctx context.Context) map[string]*Software {
	m := load[*Software](ctx, s, cache.KindSoftware)
	for id, sw := range m {
		if sw == nil {
			delete(m, id)
			continue
		}
		sw.ID = id
		if sw.PublisherID == "" {
			sw.PublisherID = Unregistered
		}
	}
	return m
}

// SaveVendors writes the vendor snapshot and reports whether it succeeded.
func (s *Store) SaveVendors(ctx context.Context, vendors map[string]*Vendor) bool {
	return save(ctx, s, cache.KindVendor, vendors)
}

// SaveSoftware writes the software snapshot and reports whether it succeeded.
func (s *Store) SaveSoftware(ctx context.Context, software map[string]*Software) bool {
	return save(ctx, s, cache.KindSoftware, software)
}

func load[T any](ctx context.Context, s *Store, kind cache.Kind) map[string]T {
	m := make(map[string]T)
	err := s.Cache.Read(ctx, kind, &m)
	switch {
	case err == nil:
		s.Logger.Debug("loaded cache", "kind", kind, "records", len(m))
		if m == nil {
			m = make(map[string]T)
		}
		return m
	case errors.Is(err, cache.ErrCacheMiss):
		s.Logger.Debug("no cache", "kind", kind)
	default:
		s.Logger.Warn("ignoring unreadable cache", "kind", kind, "err", err)
	}
	return make(map[string]T)
}

func save[T any](ctx context.Context, s *Store, kind cache.Kind, m map[string]T) bool {
	if err := s.Cache.Write(ctx, kind, m); err != nil {
		s.Logger.Warn("failed to save cache", "kind", kind, "err", err)
		return false
	}
	s.Logger.Debug("saved cache", "kind", kind, "records", len(m))
	return true
}
