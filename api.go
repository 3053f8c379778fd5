package acervo // import "github.com/CarlosBertoldo/acervo-educacional"

import (
	"net/http"
	"time"

	"github.com/go-logr/logr"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"github.com/rs/cors"
	"github.com/unrolled/secure"
	"github.com/urfave/negroni"

	"github.com/CarlosBertoldo/acervo-educacional/authentication"
	"github.com/CarlosBertoldo/acervo-educacional/common"
	"github.com/CarlosBertoldo/acervo-educacional/course"
	"github.com/CarlosBertoldo/acervo-educacional/dashboard"
	"github.com/CarlosBertoldo/acervo-educacional/store"
	"github.com/CarlosBertoldo/acervo-educacional/user"
)

// Route roots.
const (
	AuthRoot      = "/api/auth/"
	AuthV1Root    = "/api/v1/auth/"
	DashboardPath = "/api/dashboard/stats"
	CoursesRoot   = "/api/cursos"
	UsersRoot     = "/api/usuarios"
	HealthPath    = "/api/health"
	DocsPath      = "/swagger"
)

// Options wire the collaborators of the API. The cache, authenticator
// and records are owned by the caller.
type Options struct {
	Version     string
	Environment string
	Realm       string
	Origins     []string
	Debug       bool
	Started     time.Time
	StatsTTL    time.Duration
	Logger      logr.Logger

	Auth    *authentication.Authenticator
	Cache   store.Cache
	Users   *user.Registry
	Courses *course.Catalog
	// LoginLimiter, when set, throttles the login routes.
	LoginLimiter common.Middleware
}

// NewHandler returns the complete API: middleware chain, public auth
// routes, bearer protected resources, health and docs.
func NewHandler(opts Options) (http.Handler, error) {
	if opts.Auth == nil || opts.Cache == nil || opts.Users == nil || opts.Courses == nil {
		return nil, errors.New("authenticator, cache, users and courses are required")
	}
	if opts.Started.IsZero() {
		opts.Started = time.Now()
	}
	log := common.ResolveLogger(opts.Logger)

	stats, err := dashboard.NewService(dashboard.Options{
		Cache:   opts.Cache,
		Courses: opts.Courses,
		Users:   opts.Users,
		TTL:     opts.StatsTTL,
		Logger:  log.WithName("dashboard"),
	})
	if err != nil {
		return nil, err
	}

	sec := secure.New(secure.Options{
		BrowserXssFilter:   true,
		ContentTypeNosniff: true,
		FrameDeny:          true,

		IsDevelopment: true,
	})

	c := cors.New(cors.Options{
		AllowedOrigins:   opts.Origins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{common.RequestIDHeader},
		AllowCredentials: true,

		Debug: opts.Debug,
	})

	recovery := negroni.NewRecovery()
	recovery.PrintStack = opts.Debug

	n := negroni.New(
		recovery,
		common.NewRequestLogger(log.WithName("http"), opts.Debug),
		negroni.HandlerFunc(sec.HandlerFuncWithNext),
		negroni.HandlerFunc(c.ServeHTTP),
	)
	hopts := authentication.HandlerOptions{Realm: opts.Realm, Logger: log.WithName("auth"), Limiter: opts.LoginLimiter}
	a := n.With(authentication.NewMiddleware(opts.Auth, hopts))

	r := mux.NewRouter()
	r.NotFoundHandler = n.With(negroni.WrapFunc(common.NotFound))

	login := authentication.LoginHandler(opts.Auth, hopts, AuthRoot, AuthV1Root)
	r.PathPrefix(AuthRoot).Handler(n.With(negroni.Wrap(login)))
	r.PathPrefix(AuthV1Root).Handler(n.With(negroni.Wrap(login)))

	r.Path(DashboardPath).Handler(a.With(negroni.Wrap(stats)))
	r.PathPrefix(CoursesRoot).Handler(a.With(negroni.Wrap(withNotFound(course.RegisterAPI(course.Options{Root: CoursesRoot, Catalog: opts.Courses})))))
	r.PathPrefix(UsersRoot).Handler(a.With(negroni.Wrap(withNotFound(user.RegisterAPI(user.Options{Root: UsersRoot, Users: opts.Users})))))

	h := &health{opts: &opts, now: time.Now}
	r.Path(HealthPath).Handler(n.With(negroni.Wrap(h)))
	r.Path(DocsPath).Handler(n.With(negroni.Wrap(newDocsHandler(opts.Version))))

	return r, nil
}

func withNotFound(r *mux.Router) *mux.Router {
	r.NotFoundHandler = http.HandlerFunc(common.NotFound)
	return r
}
