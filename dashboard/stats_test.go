package dashboard

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CarlosBertoldo/acervo-educacional/course"
	"github.com/CarlosBertoldo/acervo-educacional/store"
	"github.com/CarlosBertoldo/acervo-educacional/user"
)

func newTestService(t *testing.T, cache store.Cache) *Service {
	t.Helper()
	s, err := NewService(Options{
		Cache:   cache,
		Courses: course.NewCatalog(course.SampleCourses()...),
		Users:   user.NewRegistry(user.SampleUsers()...),
	})
	require.NoError(t, err)
	return s
}

func TestNewServiceRequiresCollaborators(t *testing.T) {
	_, err := NewService(Options{})
	assert.Error(t, err)
}

func TestStatsComputed(t *testing.T) {
	s := newTestService(t, store.NewMemoryCache(nil))
	st, err := s.Stats()
	require.NoError(t, err)

	assert.Equal(t, 3, st.TotalCourses)
	assert.Equal(t, 1, st.TotalUsers)
	assert.Equal(t, 1, st.PublishedCourses)
	assert.Equal(t, 1, st.InDevelopmentCourses)
	assert.Equal(t, DefaultTTL, s.opts.TTL)
}

func TestStatsMemoized(t *testing.T) {
	cache := store.NewMemoryCache(nil)
	s := newTestService(t, cache)

	var calls int32
	s.now = func() time.Time {
		atomic.AddInt32(&calls, 1)
		return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	}

	first, err := s.Stats()
	require.NoError(t, err)
	second, err := s.Stats()
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	assert.Equal(t, []string{CacheKey}, cache.Keys())

	// dropping the entry forces a recompute
	require.NoError(t, cache.Delete(CacheKey))
	third, err := s.Stats()
	require.NoError(t, err)
	assert.NotSame(t, first, third)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestStatsConcurrent(t *testing.T) {
	s := newTestService(t, store.NewMemoryCache(nil))

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			st, err := s.Stats()
			assert.NoError(t, err)
			assert.Equal(t, 3, st.TotalCourses)
		}()
	}
	wg.Wait()
}

func TestServeHTTP(t *testing.T) {
	s := newTestService(t, store.NewMemoryCache(nil))

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/dashboard/stats", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	for _, k := range []string{"total_cursos", "total_usuarios", "cursos_ativos", "cursos_desenvolvimento", "cache_info", "timestamp"} {
		assert.Contains(t, out, k)
	}
}

type brokenCache struct{ store.Cache }

func (brokenCache) Get(string) (interface{}, error) { return nil, store.ErrInternal }

func TestServeHTTPCacheFailure(t *testing.T) {
	s := newTestService(t, brokenCache{store.NewMemoryCache(nil)})

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/dashboard/stats", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
