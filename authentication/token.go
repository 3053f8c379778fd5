package authentication // import "github.com/CarlosBertoldo/acervo-educacional/authentication"

import (
	"encoding/base64"
	"strconv"
	"strings"
	"time"

	"github.com/go-logr/logr"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/CarlosBertoldo/acervo-educacional/common"
	"github.com/CarlosBertoldo/acervo-educacional/user"
)

// Errors
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidSignature   = errors.New("invalid token signature")
	ErrExpired            = errors.New("token expired")
	ErrMalformedToken     = errors.New("malformed token")
	ErrNoSecret           = errors.New("signing secret is required")
)

// DefaultValidity is how long an issued token stays valid.
const DefaultValidity = 24 * time.Hour

// Identity is a resolved user, as embedded in a token.
type Identity struct {
	UserID  uint64 `json:"user_id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	IsAdmin bool   `json:"is_admin"`
}

// Claims are the signed contents of a token.
type Claims struct {
	Identity
	jwt.RegisteredClaims
}

// Options configures an Authenticator.
type Options struct {
	Secret []byte
	// Validity defaults to DefaultValidity when zero.
	Validity time.Duration
	Issuer   string
	Users    *user.Registry
	Checker  common.PasswordChecker
	Logger   logr.Logger
}

// Authenticator issues and verifies HS256 bearer tokens. It holds no
// per-token state; rotating the secret invalidates every token.
type Authenticator struct {
	secret   []byte
	validity time.Duration
	issuer   string
	method   *jwt.SigningMethodHMAC
	parser   *jwt.Parser
	users    *user.Registry
	checker  common.PasswordChecker
	now      func() time.Time
	log      logr.Logger
}

// NewAuthenticator creates an Authenticator from options.
func NewAuthenticator(options *Options) (*Authenticator, error) {
	if options == nil || len(options.Secret) == 0 {
		return nil, ErrNoSecret
	}
	validity := options.Validity
	if validity == 0 {
		validity = DefaultValidity
	}
	method := jwt.SigningMethodHS256
	secret := make([]byte, len(options.Secret))
	copy(secret, options.Secret)
	return &Authenticator{
		secret:   secret,
		validity: validity,
		issuer:   options.Issuer,
		method:   method,
		parser:   jwt.NewParser(jwt.WithValidMethods([]string{method.Alg()}), jwt.WithoutClaimsValidation()),
		users:    options.Users,
		checker:  options.Checker,
		now:      time.Now,
		log:      common.ResolveLogger(options.Logger),
	}, nil
}

// Validity returns the configured token lifetime.
func (a *Authenticator) Validity() time.Duration { return a.validity }

// Issue signs a token for id, valid from now for the configured window.
func (a *Authenticator) Issue(id Identity) (string, error) {
	tok, _, err := a.issue(id)
	return tok, err
}

func (a *Authenticator) issue(id Identity) (string, *Claims, error) {
	// claims carry whole seconds; truncating first keeps exp - iat equal
	// to the validity window
	now := a.now().Truncate(time.Second)
	claims := &Claims{
		Identity: id,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    a.issuer,
			Subject:   strconv.FormatUint(id.UserID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(a.validity)),
			ID:        uuid.NewString(),
		},
	}
	tok, err := jwt.NewWithClaims(a.method, claims).SignedString(a.secret)
	if err != nil {
		return "", nil, errors.Wrap(err, "signing token")
	}
	return tok, claims, nil
}

// Verify checks the token signature and expiry and returns its claims.
//
// The signature is checked over the raw segments before anything is
// decoded, so a mutation anywhere in the token reports
// ErrInvalidSignature. Only a token that does not have the three
// segment shape is ErrMalformedToken.
func (a *Authenticator) Verify(token string) (*Claims, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 || parts[0] == "" || parts[1] == "" {
		return nil, ErrMalformedToken
	}
	sig, err := base64.RawURLEncoding.Strict().DecodeString(parts[2])
	if err != nil {
		return nil, ErrInvalidSignature
	}
	if err = a.method.Verify(parts[0]+"."+parts[1], sig, a.secret); err != nil {
		return nil, ErrInvalidSignature
	}

	claims := &Claims{}
	if _, err = a.parser.ParseWithClaims(token, claims, a.key); err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
			return nil, ErrInvalidSignature
		default:
			return nil, ErrMalformedToken
		}
	}
	if claims.ExpiresAt == nil {
		return nil, ErrMalformedToken
	}
	// compared at the precision exp was issued with
	if a.now().Truncate(time.Second).After(claims.ExpiresAt.Time) {
		return nil, ErrExpired
	}
	return claims, nil
}

func (a *Authenticator) key(t *jwt.Token) (interface{}, error) {
	if t.Method.Alg() != a.method.Alg() {
		return nil, ErrInvalidSignature
	}
	return a.secret, nil
}

// Login checks email and password against the credential records and
// issues a token on success. Every failure is ErrInvalidCredentials, so
// callers cannot tell a wrong password from an unknown email.
func (a *Authenticator) Login(email, password string) (string, *Claims, error) {
	if a.users == nil || a.checker == nil {
		return "", nil, ErrInvalidCredentials
	}
	if !a.checker.IsAuthenticated(email, password) {
		a.log.V(1).Info("login rejected", "email", user.NormalizeEmail(email))
		return "", nil, ErrInvalidCredentials
	}
	d, err := a.users.Get(email)
	if err != nil {
		return "", nil, ErrInvalidCredentials
	}
	tok, claims, err := a.issue(Identity{UserID: d.ID, Email: d.Email, Name: d.Name, IsAdmin: d.IsAdmin})
	if err != nil {
		return "", nil, err
	}
	a.log.Info("login", "user_id", d.ID)
	return tok, claims, nil
}
