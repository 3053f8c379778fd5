package authentication // import "github.com/CarlosBertoldo/acervo-educacional/authentication"

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-logr/logr"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"github.com/urfave/negroni"

	"github.com/CarlosBertoldo/acervo-educacional/common"
	"github.com/CarlosBertoldo/acervo-educacional/user"
)

var (
	loginPath    = "login"
	verifyPath   = "verify"
	mePath       = "me"
	validatePath = "validate"
)

// HandlerOptions configures the middleware and the login handler.
type HandlerOptions struct {
	Realm  string
	Logger logr.Logger
	// Limiter, when set, guards the login route.
	Limiter common.Middleware
}

// NewMiddleware returns a middleware that rejects requests without a
// valid bearer token and stores the verified claims in the request
// context.
func NewMiddleware(auth *Authenticator, opts HandlerOptions) common.Middleware {
	return &middleware{auth: auth, realm: opts.Realm, log: common.ResolveLogger(opts.Logger)}
}

type middleware struct {
	auth  *Authenticator
	realm string
	log   logr.Logger
}

func (m *middleware) ServeHTTP(w http.ResponseWriter, r *http.Request, n http.HandlerFunc) {
	tok := common.BearerToken(r)
	if tok == "" {
		unauthorized(w, m.realm, nil, &denied{Message: "token not provided"})
		return
	}
	claims, err := m.auth.Verify(tok)
	if err != nil {
		m.log.Info("token rejected", "path", r.URL.Path, "reason", err.Error())
		unauthorized(w, m.realm, err, &denied{Message: "invalid or expired token"})
		return
	}
	n(w, r.WithContext(SetClaims(r.Context(), claims)))
}

// denied is the 401 body. It fits both the resource routes, which
// report success, and the token routes, which report valid.
type denied struct {
	Success bool   `json:"success"`
	Valid   bool   `json:"valid"`
	Message string `json:"message"`
}

// unauthorized writes a 401. The token failure kind is never exposed to
// the client.
func unauthorized(w http.ResponseWriter, realm string, err error, body interface{}) {
	parts := []string{}
	if realm != "" {
		parts = append(parts, fmt.Sprintf("realm=%q", realm))
	}
	if err != nil {
		parts = append(parts, `error="invalid_token"`)
	}

	challenge := "Bearer"
	if len(parts) > 0 {
		challenge += " " + strings.Join(parts, ", ")
	}
	w.Header().Set("WWW-Authenticate", challenge)
	common.JSONStatusResponse(http.StatusUnauthorized, w, body)
}

// LoginHandler returns a router that handles the login and token
// verification routes under each root.
func LoginHandler(auth *Authenticator, opts HandlerOptions, roots ...string) http.Handler {
	h := &loginHandler{auth: auth, realm: opts.Realm, log: common.ResolveLogger(opts.Logger)}
	me := negroni.New(NewMiddleware(auth, opts), negroni.WrapFunc(h.meGET))

	r := mux.NewRouter()
	r.NotFoundHandler = http.HandlerFunc(common.NotFound)
	for _, root := range roots {
		if !strings.HasSuffix(root, "/") {
			root += "/"
		}
		var login http.Handler = http.HandlerFunc(h.loginPOST)
		if opts.Limiter != nil {
			login = negroni.New(opts.Limiter, negroni.Wrap(login))
		}
		r.Handle(root+loginPath, login).Methods("POST")
		r.HandleFunc(root+verifyPath, h.verifyGET).Methods("GET")
		r.Handle(root+mePath, me).Methods("GET")
		r.HandleFunc(root+validatePath, h.validatePOST).Methods("POST")
	}
	return r
}

type loginHandler struct {
	auth  *Authenticator
	realm string
	log   logr.Logger
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginData struct {
	AccessToken  string      `json:"accessToken"`
	RefreshToken string      `json:"refreshToken"`
	ExpiresAt    time.Time   `json:"expiresAt"`
	User         user.Public `json:"usuario"`
}

type loginResponse struct {
	Success      bool        `json:"success"`
	Message      string      `json:"message"`
	Data         loginData   `json:"data"`
	AccessToken  string      `json:"accessToken"`
	RefreshToken string      `json:"refreshToken"`
	Token        string      `json:"token"`
	User         user.Public `json:"user"`
}

type verifyResponse struct {
	Valid   bool         `json:"valid"`
	Message string       `json:"message,omitempty"`
	User    *user.Public `json:"user,omitempty"`
}

func (m *loginHandler) loginPOST(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || (req.Email == "" && req.Password == "") {
		common.JSONStatusResponse(http.StatusBadRequest, w, common.Message{Message: "missing credentials"})
		return
	}

	tok, claims, err := m.auth.Login(req.Email, req.Password)
	switch {
	case err == nil:
	case errors.Is(err, ErrInvalidCredentials):
		common.JSONStatusResponse(http.StatusUnauthorized, w, common.Message{Message: "invalid credentials"})
		return
	default:
		m.log.Error(err, "login failed")
		common.JSONStatusResponse(http.StatusInternalServerError, w, common.Message{Message: "internal server error"})
		return
	}

	// The same token serves as refresh token; there is no rotation.
	u := publicUser(claims)
	common.JSONResponse(w, &loginResponse{
		Success: true,
		Message: "login successful",
		Data: loginData{
			AccessToken:  tok,
			RefreshToken: tok,
			ExpiresAt:    claims.ExpiresAt.Time,
			User:         u,
		},
		AccessToken:  tok,
		RefreshToken: tok,
		Token:        tok,
		User:         u,
	})
}

func (m *loginHandler) verifyGET(w http.ResponseWriter, r *http.Request) {
	m.verify(w, common.BearerToken(r))
}

// meGET answers from the claims the middleware verified.
func (m *loginHandler) meGET(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())
	if claims == nil {
		unauthorized(w, m.realm, nil, &denied{Message: "token not provided"})
		return
	}
	u := publicUser(claims)
	common.JSONResponse(w, &verifyResponse{Valid: true, User: &u})
}

func (m *loginHandler) validatePOST(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.JSONStatusResponse(http.StatusBadRequest, w, &verifyResponse{Message: "malformed request"})
		return
	}
	m.verify(w, req.Token)
}

func (m *loginHandler) verify(w http.ResponseWriter, tok string) {
	if tok == "" {
		unauthorized(w, m.realm, nil, &verifyResponse{Message: "token not provided"})
		return
	}
	claims, err := m.auth.Verify(tok)
	if err != nil {
		m.log.Info("token rejected", "reason", err.Error())
		unauthorized(w, m.realm, err, &verifyResponse{Message: "invalid or expired token"})
		return
	}
	u := publicUser(claims)
	common.JSONResponse(w, &verifyResponse{Valid: true, User: &u})
}

func publicUser(c *Claims) user.Public {
	return user.Public{ID: c.UserID, Email: c.Email, Name: c.Name, IsAdmin: c.IsAdmin}
}
