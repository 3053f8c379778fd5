package acervo // import "github.com/CarlosBertoldo/acervo-educacional"

import (
	"net/http"
	"time"

	"github.com/CarlosBertoldo/acervo-educacional/common"
	"github.com/CarlosBertoldo/acervo-educacional/store"
)

type health struct {
	opts *Options
	now  func() time.Time
}

type healthResponse struct {
	Status        string            `json:"status"`
	Timestamp     time.Time         `json:"timestamp"`
	Version       string            `json:"version"`
	Environment   string            `json:"environment"`
	Services      map[string]string `json:"services"`
	CacheStats    store.Stats       `json:"cache_stats"`
	Endpoints     map[string]string `json:"endpoints"`
	UptimeSeconds float64           `json:"uptime_seconds"`
}

func (h *health) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	now := h.now()
	common.JSONResponse(w, &healthResponse{
		Status:      "healthy",
		Timestamp:   now.UTC(),
		Version:     h.opts.Version,
		Environment: h.opts.Environment,
		Services: map[string]string{
			"api":     "healthy",
			"cache":   "healthy",
			"logging": "healthy",
		},
		CacheStats: h.opts.Cache.Stats(),
		Endpoints: map[string]string{
			"auth":      "active",
			"dashboard": "active",
			"cursos":    "active",
			"usuarios":  "active",
		},
		UptimeSeconds: now.Sub(h.opts.Started).Seconds(),
	})
}
