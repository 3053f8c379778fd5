package authentication // import "github.com/CarlosBertoldo/acervo-educacional/authentication"

import "context"

// SetClaims returns a context carrying the verified token claims.
func SetClaims(ctx context.Context, claims *Claims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

// GetClaims retrieves the verified claims from ctx, or nil.
func GetClaims(ctx context.Context) *Claims {
	if c, ok := ctx.Value(claimsKey).(*Claims); ok {
		return c
	}
	return nil
}

type contextKey string

const (
	claimsKey contextKey = "claims"
)
