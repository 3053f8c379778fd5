package cmd // import "github.com/CarlosBertoldo/acervo-educacional/cmd"

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/go-logr/logr"
	"github.com/pkg/errors"
	"github.com/urfave/cli"
	"golang.org/x/time/rate"

	acervo "github.com/CarlosBertoldo/acervo-educacional"
	"github.com/CarlosBertoldo/acervo-educacional/authentication"
	"github.com/CarlosBertoldo/acervo-educacional/common"
	"github.com/CarlosBertoldo/acervo-educacional/course"
	"github.com/CarlosBertoldo/acervo-educacional/store"
	"github.com/CarlosBertoldo/acervo-educacional/user"
)

func newServeCmd() cli.Command {
	return cli.Command{
		Name:   "serve",
		Usage:  "run the mock api server",
		Action: serve,
		Flags: []cli.Flag{
			portFlag,
			bindFlag,
			debugFlag,
			environmentFlag,
			corsOriginsFlag,
			secretFlag,
			tokenTTLFlag,
			cacheTTLFlag,
			statsTTLFlag,
			usersFileFlag,
			bcryptFlag,
			loginRateFlag,
			loginBurstFlag,
			trustProxyFlag,
		},
	}
}

func serve(ctx *cli.Context) error {
	started := time.Now()
	log := common.NewLogger(ctx.App.ErrWriter, logPrefix, ctx.Bool(debug))

	users, err := loadUsers(ctx.String(usersFile))
	if err != nil {
		return err
	}
	if ctx.String(tokenSecret) == "" {
		log.Info("no signing secret configured, tokens will not survive a restart")
	}
	auth, err := newAuthenticator(ctx, users, log.WithName("auth"))
	if err != nil {
		return err
	}

	cache := store.NewMemoryCache(&store.Options{
		DefaultTTL: ctx.Duration(cacheTTL),
		Logger:     log.WithName("cache"),
	})

	limiter := common.NewRateLimiter(rate.Limit(ctx.Float64(loginRate)), ctx.Int(loginBurst), 0)
	limiter.TrustProxy = ctx.Bool(trustProxy)

	h, err := acervo.NewHandler(acervo.Options{
		Version:      ctx.App.Version,
		Environment:  ctx.String(environment),
		Realm:        realm,
		Origins:      ctx.StringSlice(corsOrigins),
		Debug:        ctx.Bool(debug),
		Started:      started,
		StatsTTL:     ctx.Duration(statsTTL),
		Logger:       log,
		Auth:         auth,
		Cache:        cache,
		Users:        users,
		Courses:      course.NewCatalog(course.SampleCourses()...),
		LoginLimiter: limiter,
	})
	if err != nil {
		return err
	}

	s := &http.Server{
		Addr:           fmt.Sprintf("%s:%d", ctx.String(listenIP), ctx.Int(listenPort)),
		Handler:        h,
		ReadTimeout:    15 * time.Second,
		WriteTimeout:   15 * time.Second,
		MaxHeaderBytes: 1 << 16,
	}

	log.Info("starting", "name", ctx.App.Name, "version", ctx.App.Version, "users", users.Len(), "bcrypt", ctx.Bool(bcryptPasswords))
	log.Info("listening", "addr", s.Addr)
	return s.ListenAndServe()
}

// newAuthenticator builds the token authenticator from the secret, ttl
// and password flags.
func newAuthenticator(ctx *cli.Context, users *user.Registry, log logr.Logger) (*authentication.Authenticator, error) {
	secret, err := common.NewSecret(ctx.String(tokenSecret))
	if err != nil {
		return nil, err
	}
	checker := users.PlainTextChecker()
	if ctx.Bool(bcryptPasswords) {
		checker = users.BcryptChecker()
	}
	return authentication.NewAuthenticator(&authentication.Options{
		Secret:   secret,
		Validity: ctx.Duration(tokenTTL),
		Issuer:   realm,
		Users:    users,
		Checker:  checker,
		Logger:   log,
	})
}

// loadUsers reads user records from name, or returns the sample users
// when name is empty.
func loadUsers(name string) (*user.Registry, error) {
	if name == "" {
		return user.NewRegistry(user.SampleUsers()...), nil
	}
	fd, err := os.Open(name)
	if err != nil {
		return nil, errors.Wrap(err, "opening users file")
	}
	defer func() { _ = fd.Close() }()

	r := user.NewRegistry()
	if err = r.LoadFromJSON(fd); err != nil {
		return nil, errors.Wrapf(err, "loading %s", name)
	}
	if r.Len() == 0 {
		return nil, errors.Errorf("no users in %s", name)
	}
	return r, nil
}
