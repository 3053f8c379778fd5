package cmd // import "github.com/CarlosBertoldo/acervo-educacional/cmd"

import (
	"github.com/urfave/cli"

	"github.com/CarlosBertoldo/acervo-educacional/authentication"
	"github.com/CarlosBertoldo/acervo-educacional/dashboard"
	"github.com/CarlosBertoldo/acervo-educacional/store"
)

const (
	realm = "acervo-educacional"

	logPrefix = "[acervo] "

	listenPort      = "port"
	listenIP        = "bind"
	debug           = "debug"
	environment     = "environment"
	corsOrigins     = "origins"
	tokenSecret     = "secret"
	tokenTTL        = "token-ttl"
	cacheTTL        = "cache-ttl"
	statsTTL        = "stats-ttl"
	usersFile       = "users"
	bcryptPasswords = "bcrypt"
	loginRate       = "login-rate"
	loginBurst      = "login-burst"
	trustProxy      = "trust-proxy"
)

var (
	portFlag = cli.IntFlag{
		Name:   listenPort,
		Usage:  "listen port",
		EnvVar: "PORT",
		Value:  5007,
	}
	bindFlag = cli.StringFlag{
		Name:   listenIP,
		Usage:  "IP address to bind listener to",
		EnvVar: "BIND_IP",
		Value:  "0.0.0.0",
	}
	debugFlag = cli.BoolFlag{
		Name:   debug,
		Usage:  "extra debug logging",
		EnvVar: "DEBUG",
	}
	environmentFlag = cli.StringFlag{
		Name:   environment,
		Usage:  "environment name reported by the health check",
		EnvVar: "ENVIRONMENT",
		Value:  "development",
	}
	corsOriginsFlag = cli.StringSliceFlag{
		Name:   corsOrigins,
		Usage:  "CORS Origins values",
		EnvVar: "CORS_ORIGINS",
		Value: &cli.StringSlice{
			"http://localhost:5175",
			"http://localhost:5174",
			"http://localhost:5176",
			"http://localhost:3000",
			"http://localhost:5004",
		},
	}
	secretFlag = cli.StringFlag{
		Name:   tokenSecret,
		Usage:  "base64 encoded token signing secret (if this is empty a random secret is used, valid for this run only)",
		EnvVar: "TOKEN_SECRET",
	}
	tokenTTLFlag = cli.DurationFlag{
		Name:   tokenTTL,
		Usage:  "token validity window",
		EnvVar: "TOKEN_TTL",
		Value:  authentication.DefaultValidity,
	}
	cacheTTLFlag = cli.DurationFlag{
		Name:   cacheTTL,
		Usage:  "default cache entry lifetime",
		EnvVar: "CACHE_TTL",
		Value:  store.DefaultTTL,
	}
	statsTTLFlag = cli.DurationFlag{
		Name:   statsTTL,
		Usage:  "dashboard statistics cache lifetime",
		EnvVar: "STATS_TTL",
		Value:  dashboard.DefaultTTL,
	}
	usersFileFlag = cli.StringFlag{
		Name:   usersFile,
		Usage:  "optional JSON file with user records (the built-in sample users are used when empty)",
		EnvVar: "USERS_FILE",
	}
	bcryptFlag = cli.BoolFlag{
		Name:   bcryptPasswords,
		Usage:  "user passwords are bcrypt hashes instead of plain text",
		EnvVar: "BCRYPT_PASSWORDS",
	}
	loginRateFlag = cli.Float64Flag{
		Name:   loginRate,
		Usage:  "login attempts per second allowed per client (0 disables throttling)",
		EnvVar: "LOGIN_RATE",
		Value:  1,
	}
	loginBurstFlag = cli.IntFlag{
		Name:   loginBurst,
		Usage:  "login attempts a client may burst above the rate",
		EnvVar: "LOGIN_BURST",
		Value:  10,
	}
	trustProxyFlag = cli.BoolFlag{
		Name:   trustProxy,
		Usage:  "throttle logins by X-Forwarded-For instead of the peer address",
		EnvVar: "TRUST_PROXY",
	}
)
