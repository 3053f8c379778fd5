package store

import (
	"sort"
	"sync"
	"time"

	"github.com/go-logr/logr"
)

// Options configures a memory cache.
type Options struct {
	// DefaultTTL applies to Set. Zero means DefaultTTL.
	DefaultTTL time.Duration
	Logger     logr.Logger
	// Clock replaces time.Now when set.
	Clock func() time.Time
}

// NewMemoryCache implements Cache with an in-memory store
func NewMemoryCache(options *Options) Cache {
	if options == nil {
		options = &Options{}
	}
	ttl := options.DefaultTTL
	if ttl == 0 {
		ttl = DefaultTTL
	}
	log := options.Logger
	if log.GetSink() == nil {
		log = logr.Discard()
	}
	return &memory{now: options.Clock, ttl: ttl, log: log, data: map[string]*cacheValue{}}
}

type clockFn func() time.Time

type memory struct {
	mu   sync.Mutex
	now  clockFn
	ttl  time.Duration
	log  logr.Logger
	data map[string]*cacheValue
}

func (m *memory) Get(key string) (interface{}, error) {
	if m == nil {
		return nil, ErrInternal
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.data == nil {
		return nil, ErrInternal
	}

	v, ok := m.data[key]
	if !ok {
		m.log.V(1).Info("cache miss", "key", key)
		return nil, ErrCacheMiss
	}
	if !v.live(m.clock()) {
		delete(m.data, key)
		m.log.V(1).Info("cache expired", "key", key)
		return nil, ErrCacheMiss
	}
	m.log.V(1).Info("cache hit", "key", key)
	return v.Value, nil
}

func (m *memory) Set(key string, value interface{}) error {
	if m == nil {
		return ErrInternal
	}
	ttl := m.ttl
	if ttl == 0 {
		ttl = DefaultTTL
	}
	return m.SetTTL(key, value, ttl)
}

func (m *memory) SetTTL(key string, value interface{}, ttl time.Duration) error {
	if m == nil {
		return ErrInternal
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.data == nil {
		return ErrInternal
	}

	m.data[key] = &cacheValue{Key: key, Created: m.clock(), TTL: ttl, Value: value}
	m.log.V(1).Info("cache set", "key", key, "ttl", ttl.String())
	return nil
}

func (m *memory) Delete(key string) error {
	if m == nil {
		return ErrInternal
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.data == nil {
		return ErrInternal
	}
	delete(m.data, key)
	return nil
}

func (m *memory) Clear() error {
	if m == nil {
		return ErrInternal
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.data == nil {
		return ErrInternal
	}
	for k := range m.data {
		delete(m.data, k)
	}
	return nil
}

// Purge evicts every entry that is no longer live and reports how many
// were removed.
func (m *memory) Purge() int {
	if m == nil {
		return 0
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.clock()
	n := 0
	for k, v := range m.data {
		if !v.live(now) {
			delete(m.data, k)
			n++
		}
	}
	if n > 0 {
		m.log.V(1).Info("cache purged", "evicted", n)
	}
	return n
}

// Stats evaluates every entry against a single clock reading while
// holding the lock, so the counts always add up.
func (m *memory) Stats() Stats {
	var s Stats
	if m == nil {
		return s
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.clock()
	for _, v := range m.data {
		s.TotalKeys++
		if v.live(now) {
			s.ActiveKeys++
		} else {
			s.ExpiredKeys++
		}
		if s.OldestEntry == nil || v.Created.Before(*s.OldestEntry) {
			created := v.Created
			s.OldestEntry = &created
		}
	}
	return s
}

func (m *memory) Keys() []string {
	var keys []string
	if m == nil {
		return keys
	}
	m.mu.Lock()
	for k := range m.data {
		keys = append(keys, k)
	}
	m.mu.Unlock()
	sort.Strings(keys)
	return keys
}

// clock must be called with the lock held.
func (m *memory) clock() time.Time {
	if m.now == nil {
		m.now = time.Now
	}
	return m.now()
}
