package store // import "github.com/CarlosBertoldo/acervo-educacional/store"

import (
	"time"

	"github.com/pkg/errors"
)

// Errors
var (
	ErrCacheMiss = errors.New("cache miss")
	ErrInternal  = errors.New("internal error")
)

// DefaultTTL is used by Set when the cache was created without one.
const DefaultTTL = 300 * time.Second

// Cache describes a very simple TTL cache interface.
//
// An entry is live while less than its TTL has passed since it was
// set. Reading an entry that is no longer live is the same as reading a
// key that was never set: both return ErrCacheMiss.
type Cache interface {
	Get(key string) (interface{}, error)
	Set(key string, value interface{}) error
	SetTTL(key string, value interface{}, ttl time.Duration) error
	Delete(key string) error
	Clear() error
	Stats() Stats
	Keys() []string
	// Purge evicts entries that are no longer live.
	Purge() int
}

// Stats is a point in time summary of the cache contents.
type Stats struct {
	TotalKeys   int        `json:"total_keys"`
	ActiveKeys  int        `json:"active_keys"`
	ExpiredKeys int        `json:"expired_keys"`
	OldestEntry *time.Time `json:"oldest_entry"`
}

type cacheValue struct {
	Key     string
	Created time.Time
	TTL     time.Duration
	Value   interface{}
}

func (v *cacheValue) live(now time.Time) bool {
	return now.Sub(v.Created) < v.TTL
}
