package common // import "github.com/CarlosBertoldo/acervo-educacional/common"

// PasswordChecker describes functionality to verify passwords
type PasswordChecker interface {
	IsAuthenticated(username string, password string) bool
}
