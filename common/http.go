package common // import "github.com/CarlosBertoldo/acervo-educacional/common"

import (
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"strings"
)

// Middleware describes common middleware
type Middleware interface {
	ServeHTTP(http.ResponseWriter, *http.Request, http.HandlerFunc)
}

// JSONResponse writes the interface{} o as a JSON object response body.
func JSONResponse(w http.ResponseWriter, o interface{}) {
	JSONStatusResponse(http.StatusOK, w, o)
}

// JSONStatusResponse writes the interface{} o as a JSON object response
// body with the given http status code.
func JSONStatusResponse(code int, w http.ResponseWriter, o interface{}) {
	if o == nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		return
	}
	b, err := json.Marshal(o)
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprintf(w, `{"error": %q}`, err.Error())
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(append(b, '\n'))
}

// Message is the body of simple status responses.
type Message struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// NotFound answers every request with a JSON 404.
func NotFound(w http.ResponseWriter, r *http.Request) {
	JSONStatusResponse(http.StatusNotFound, w, Message{Message: "not found: " + r.URL.Path})
}

// ClientIP returns the best guess at the address of the caller. The
// forwarding headers it prefers are client supplied.
func ClientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		return strings.TrimSpace(strings.Split(fwd, ",")[0])
	}
	if real := r.Header.Get("X-Real-Ip"); real != "" {
		return strings.TrimSpace(real)
	}
	return RemoteIP(r)
}

// RemoteIP returns the host of the connection peer.
func RemoteIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// BearerToken extracts the token from an "Authorization: Bearer" header.
func BearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if len(auth) > 7 && strings.EqualFold(auth[:7], "Bearer ") {
		return strings.TrimSpace(auth[7:])
	}
	return ""
}
