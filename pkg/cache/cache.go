// Package cache stores fetched profiles with a freshness window.
package cache

import (
	"context"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"parsifly/pkg/logger"
	"parsifly/pkg/profile"
	"parsifly/pkg/storage"
)

// DefaultTTL is how long an entry stays fresh after Put
const DefaultTTL = 30 * time.Minute

// DefaultPrefix namespaces cache keys
const DefaultPrefix = "parsifly"

// Entry is the persisted form of a cached profile
type Entry struct {
	Data      *profile.Profile `json:"data"`
	Timestamp int64            `json:"timestamp"` // unix milliseconds
}

// Options configures a Store
type Options struct {
	TTL    time.Duration
	Prefix string
	// Now overrides the clock; defaults to time.Now
	Now func() time.Time
}

// Store reads and writes profiles through a storage.KV. Backend failures
// are logged and reported as a miss or a no-op.
type Store struct {
	kv     storage.KV
	ttl    time.Duration
	prefix string
	now    func() time.Time
	logger logger.Logger
}

// New creates a Store on kv
func New(kv storage.KV, opts Options, log logger.Logger) *Store {
	if opts.TTL <= 0 {
		opts.TTL = DefaultTTL
	}
	if opts.Prefix == "" {
		opts.Prefix = DefaultPrefix
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &Store{
		kv:     kv,
		ttl:    opts.TTL,
		prefix: opts.Prefix,
		now:    opts.Now,
		logger: log.WithField("component", "cache"),
	}
}

// Key builds the storage key for a platform/username pair
func (s *Store) Key(platform profile.Platform, username string) string {
	return strings.ToLower(s.prefix + "_" + string(platform) + "_" + username)
}

// Get returns the cached profile when an entry exists and is younger than the TTL
func (s *Store) Get(ctx context.Context, platform profile.Platform, username string) (*profile.Profile, bool) {
	key := s.Key(platform, username)
	log := s.logger.WithField("key", key)

	raw, found, err := s.kv.GetItem(ctx, key)
	if err != nil {
		log.WithError(err).Warn("Cache read failed")
		return nil, false
	}
	if !found {
		log.Debug("Cache miss")
		return nil, false
	}

	var entry Entry
	if err := json.Unmarshal(raw, &entry); err != nil {
		log.WithError(err).Warn("Cache entry could not be decoded")
		return nil, false
	}
	if entry.Data == nil {
		log.Warn("Cache entry has no data")
		return nil, false
	}

	age := s.now().Sub(time.UnixMilli(entry.Timestamp))
	if age >= s.ttl {
		log.WithField("age", age).Debug("Cache entry expired")
		return nil, false
	}

	log.WithField("age", age).Debug("Cache hit")
	return entry.Data, true
}

// Put stores p stamped with the current time
func (s *Store) Put(ctx context.Context, platform profile.Platform, username string, p *profile.Profile) {
	if p == nil {
		return
	}
	key := s.Key(platform, username)

	raw, err := json.Marshal(Entry{Data: p, Timestamp: s.now().UnixMilli()})
	if err != nil {
		s.logger.WithField("key", key).WithError(err).Warn("Cache entry could not be encoded")
		return
	}
	if err := s.kv.SetItem(ctx, key, raw); err != nil {
		s.logger.WithField("key", key).WithError(err).Warn("Cache write failed")
		return
	}
	s.logger.WithField("key", key).Debug("Cache entry stored")
}

// TTL returns the freshness window
func (s *Store) TTL() time.Duration {
	return s.ttl
}
