package dashboard // import "github.com/CarlosBertoldo/acervo-educacional/dashboard"

import (
	"net/http"
	"time"

	"github.com/go-logr/logr"
	"github.com/pkg/errors"
	"golang.org/x/sync/singleflight"

	"github.com/CarlosBertoldo/acervo-educacional/common"
	"github.com/CarlosBertoldo/acervo-educacional/course"
	"github.com/CarlosBertoldo/acervo-educacional/store"
	"github.com/CarlosBertoldo/acervo-educacional/user"
)

// CacheKey is where computed stats are memoized.
const CacheKey = "dashboard_stats"

// DefaultTTL is how long computed stats are served from the cache.
const DefaultTTL = 120 * time.Second

// Stats summarizes the catalog for the dashboard.
type Stats struct {
	TotalCourses         int       `json:"total_cursos"`
	TotalUsers           int       `json:"total_usuarios"`
	PublishedCourses     int       `json:"cursos_ativos"`
	InDevelopmentCourses int       `json:"cursos_desenvolvimento"`
	CacheInfo            string    `json:"cache_info"`
	Timestamp            time.Time `json:"timestamp"`
}

// Options configure the stats service.
type Options struct {
	Cache   store.Cache
	Courses *course.Catalog
	Users   *user.Registry
	// TTL defaults to DefaultTTL when zero.
	TTL    time.Duration
	Logger logr.Logger
}

// Service computes dashboard stats, serving them from the cache while
// they are fresh.
type Service struct {
	opts  Options
	group singleflight.Group
	now   func() time.Time
	log   logr.Logger
}

// NewService creates a stats service.
func NewService(opts Options) (*Service, error) {
	if opts.Cache == nil || opts.Courses == nil || opts.Users == nil {
		return nil, errors.New("dashboard: cache, courses and users are required")
	}
	if opts.TTL == 0 {
		opts.TTL = DefaultTTL
	}
	return &Service{opts: opts, now: time.Now, log: common.ResolveLogger(opts.Logger)}, nil
}

// Stats returns the memoized stats, recomputing them on a cache miss.
// Concurrent misses share a single computation.
func (s *Service) Stats() (*Stats, error) {
	if v, err := s.opts.Cache.Get(CacheKey); err == nil {
		if st, ok := v.(*Stats); ok {
			return st, nil
		}
	} else if !errors.Is(err, store.ErrCacheMiss) {
		return nil, errors.Wrap(err, "reading stats cache")
	}

	v, err, _ := s.group.Do(CacheKey, func() (interface{}, error) {
		st := s.compute()
		if err := s.opts.Cache.SetTTL(CacheKey, st, s.opts.TTL); err != nil {
			return nil, errors.Wrap(err, "caching stats")
		}
		s.log.V(1).Info("stats computed", "ttl", s.opts.TTL.String())
		return st, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Stats), nil
}

func (s *Service) compute() *Stats {
	return &Stats{
		TotalCourses:         s.opts.Courses.Len(),
		TotalUsers:           s.opts.Users.Len(),
		PublishedCourses:     s.opts.Courses.CountByStatus(course.StatusPublished),
		InDevelopmentCourses: s.opts.Courses.CountByStatus(course.StatusInDevelopment),
		CacheInfo:            "computed and stored in cache",
		Timestamp:            s.now().UTC(),
	}
}

// ServeHTTP answers with the current stats.
func (s *Service) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	st, err := s.Stats()
	if err != nil {
		s.log.Error(err, "dashboard stats")
		common.JSONStatusResponse(http.StatusInternalServerError, w, common.Message{Message: "internal server error"})
		return
	}
	common.JSONResponse(w, st)
}
