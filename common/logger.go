package common // import "github.com/CarlosBertoldo/acervo-educacional/common"

import (
	"fmt"
	"net/http"
	"net/http/httputil"
	"time"

	"github.com/go-logr/logr"
	"github.com/google/uuid"
	"github.com/urfave/negroni"
)

// RequestIDHeader carries the request correlation id.
const RequestIDHeader = "X-Request-Id"

// NewRequestLogger provides middleware that logs every request and its
// response. With verbose set the request headers are dumped at V(1).
func NewRequestLogger(log logr.Logger, verbose bool) Middleware {
	return &requestLogger{verbose: verbose, log: ResolveLogger(log)}
}

type requestLogger struct {
	verbose bool
	log     logr.Logger
}

func (l *requestLogger) ServeHTTP(w http.ResponseWriter, r *http.Request, next http.HandlerFunc) {
	start := time.Now()

	id := r.Header.Get(RequestIDHeader)
	if id == "" {
		id = uuid.NewString()
	}
	w.Header().Set(RequestIDHeader, id)

	log := l.log.WithValues("request_id", id, "method", r.Method, "url", r.URL.String())
	log.Info("REQUEST", "remote_addr", ClientIP(r), "user_agent", r.UserAgent())
	if l.verbose {
		if b, err := httputil.DumpRequest(r, false); err == nil {
			log.V(1).Info("request dump", "dump", string(b))
		}
	}

	rw, ok := w.(negroni.ResponseWriter)
	if !ok {
		rw = negroni.NewResponseWriter(w)
	}

	defer func() {
		if p := recover(); p != nil {
			log.Error(fmt.Errorf("%v", p), "ERROR", "duration_seconds", time.Since(start).Seconds())
			panic(p)
		}
	}()

	next(rw, r)

	status := rw.Status()
	if status == 0 {
		status = http.StatusOK
	}
	log.Info("RESPONSE", "status_code", status, "duration_seconds", time.Since(start).Seconds())
}
