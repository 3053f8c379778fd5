package authentication

import (
	"encoding/base64"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CarlosBertoldo/acervo-educacional/user"
)

var (
	testSecret = []byte("0123456789abcdef0123456789abcdef")
	testStart  = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	testID     = Identity{UserID: 1, Email: "admin@x.com", Name: "Admin", IsAdmin: true}
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

func newTestAuthenticator(t *testing.T, secret []byte) (*Authenticator, *fakeClock) {
	t.Helper()
	users := user.NewRegistry(user.Details{ID: 1, Email: "admin@x.com", Name: "Admin", Password: "correct", IsAdmin: true})
	a, err := NewAuthenticator(&Options{
		Secret:  secret,
		Users:   users,
		Checker: users.PlainTextChecker(),
	})
	require.NoError(t, err)
	clk := &fakeClock{t: testStart}
	a.now = clk.Now
	return a, clk
}

func TestNewAuthenticator(t *testing.T) {
	_, err := NewAuthenticator(nil)
	assert.Equal(t, ErrNoSecret, err)
	_, err = NewAuthenticator(&Options{})
	assert.Equal(t, ErrNoSecret, err)

	a, err := NewAuthenticator(&Options{Secret: testSecret})
	require.NoError(t, err)
	assert.Equal(t, DefaultValidity, a.Validity())

	a, err = NewAuthenticator(&Options{Secret: testSecret, Validity: time.Hour})
	require.NoError(t, err)
	assert.Equal(t, time.Hour, a.Validity())
}

func TestIssueVerify(t *testing.T) {
	a, _ := newTestAuthenticator(t, testSecret)

	tok, err := a.Issue(testID)
	require.NoError(t, err)
	require.Len(t, strings.Split(tok, "."), 3)

	c, err := a.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, testID, c.Identity)
	assert.Equal(t, "1", c.Subject)
	assert.True(t, testStart.Equal(c.IssuedAt.Time), "iat %v", c.IssuedAt)
	assert.True(t, testStart.Add(DefaultValidity).Equal(c.ExpiresAt.Time), "exp %v", c.ExpiresAt)
	assert.NotEmpty(t, c.ID)
}

func TestVerifyExpiry(t *testing.T) {
	a, clk := newTestAuthenticator(t, testSecret)
	tok, err := a.Issue(testID)
	require.NoError(t, err)

	clk.Advance(DefaultValidity)
	_, err = a.Verify(tok)
	assert.NoError(t, err, "valid at exactly exp")

	clk.Advance(time.Second)
	_, err = a.Verify(tok)
	assert.Equal(t, ErrExpired, err)
}

func TestVerifySubSecondIssue(t *testing.T) {
	a, clk := newTestAuthenticator(t, testSecret)
	clk.Advance(900 * time.Millisecond)

	tok, err := a.Issue(testID)
	require.NoError(t, err)
	c, err := a.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, DefaultValidity, c.ExpiresAt.Time.Sub(c.IssuedAt.Time))
	assert.True(t, testStart.Equal(c.IssuedAt.Time), "iat %v", c.IssuedAt)

	// still inside the window measured from the real issue instant
	clk.Advance(DefaultValidity - 500*time.Millisecond)
	_, err = a.Verify(tok)
	assert.NoError(t, err)

	clk.Advance(600 * time.Millisecond)
	_, err = a.Verify(tok)
	assert.Equal(t, ErrExpired, err)
}

func TestVerifyZeroAndNegativeValidity(t *testing.T) {
	a, clk := newTestAuthenticator(t, testSecret)

	a.validity = 0
	tok, err := a.Issue(testID)
	require.NoError(t, err)
	_, err = a.Verify(tok)
	assert.NoError(t, err, "exp == now is not yet expired")
	clk.Advance(time.Second)
	_, err = a.Verify(tok)
	assert.Equal(t, ErrExpired, err)

	a.validity = -time.Minute
	tok, err = a.Issue(testID)
	require.NoError(t, err)
	_, err = a.Verify(tok)
	assert.Equal(t, ErrExpired, err)
}

func TestVerifyRejectsTampering(t *testing.T) {
	a, _ := newTestAuthenticator(t, testSecret)
	tok, err := a.Issue(testID)
	require.NoError(t, err)
	parts := strings.Split(tok, ".")

	flip := func(s string, i int) string {
		b := []byte(s)
		if b[i] == 'A' {
			b[i] = 'B'
		} else {
			b[i] = 'A'
		}
		return string(b)
	}
	enc := base64.RawURLEncoding.EncodeToString

	// the final signature char carries unused low bits; flipping one of
	// them still decodes to the same bytes unless decoding is strict
	padBit := func(s string) string {
		const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-_"
		last := strings.IndexByte(alphabet, s[len(s)-1])
		return s[:len(s)-1] + string(alphabet[last^1])
	}

	other, _ := newTestAuthenticator(t, []byte("fedcba9876543210fedcba9876543210"))
	otherTok, err := other.Issue(testID)
	require.NoError(t, err)

	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, &Claims{Identity: testID}).SignedString(testSecret)
	require.NoError(t, err)

	testCases := map[string]string{
		"signature char":   parts[0] + "." + parts[1] + "." + flip(parts[2], len(parts[2])/2),
		"last sig char":    parts[0] + "." + parts[1] + "." + padBit(parts[2]),
		"payload char":     parts[0] + "." + flip(parts[1], len(parts[1])/2) + "." + parts[2],
		"header char":      flip(parts[0], len(parts[0])/2) + "." + parts[1] + "." + parts[2],
		"admin escalation": parts[0] + "." + enc([]byte(`{"user_id":2,"email":"eve@x.com","is_admin":true,"exp":9999999999}`)) + "." + parts[2],
		"alg none":         enc([]byte(`{"alg":"none","typ":"JWT"}`)) + "." + parts[1] + ".",
		"alg hs512":        hs512,
		"other secret":     otherTok,
		"not base64 sig":   parts[0] + "." + parts[1] + ".***",
		"empty signature":  parts[0] + "." + parts[1] + ".",
	}

	for tn, tc := range testCases {
		_, err := a.Verify(tc)
		assert.Equal(t, ErrInvalidSignature, err, tn)
	}
}

func TestVerifyMalformed(t *testing.T) {
	a, _ := newTestAuthenticator(t, testSecret)

	sign := func(header, payload string) string {
		enc := base64.RawURLEncoding.EncodeToString
		s := enc([]byte(header)) + "." + enc([]byte(payload))
		sig, err := jwt.SigningMethodHS256.Sign(s, testSecret)
		require.NoError(t, err)
		return s + "." + enc(sig)
	}

	testCases := map[string]string{
		"empty":          "",
		"one segment":    "abc",
		"two segments":   "abc.def",
		"four segments":  "a.b.c.d",
		"empty header":   ".b.c",
		"empty payload":  "a..c",
		"payload binary": sign(`{"alg":"HS256","typ":"JWT"}`, "not json"),
		"header binary":  sign("not json", `{"exp":9999999999}`),
		"missing exp":    sign(`{"alg":"HS256","typ":"JWT"}`, `{"user_id":1}`),
	}

	for tn, tc := range testCases {
		_, err := a.Verify(tc)
		assert.Equal(t, ErrMalformedToken, err, tn)
	}
}

func TestSecretRotationInvalidates(t *testing.T) {
	a, _ := newTestAuthenticator(t, testSecret)
	tok, err := a.Issue(testID)
	require.NoError(t, err)

	rotated, _ := newTestAuthenticator(t, []byte("another-secret-another-secret-32"))
	_, err = rotated.Verify(tok)
	assert.Equal(t, ErrInvalidSignature, err)
}

func TestLogin(t *testing.T) {
	a, _ := newTestAuthenticator(t, testSecret)

	tok, claims, err := a.Login("admin@x.com", "correct")
	require.NoError(t, err)
	assert.Equal(t, uint64(1), claims.UserID)
	assert.Equal(t, "Admin", claims.Name)
	assert.True(t, claims.IsAdmin)

	verified, err := a.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, claims.Identity, verified.Identity)

	// email is matched case-insensitively
	_, _, err = a.Login("  ADMIN@X.COM ", "correct")
	assert.NoError(t, err)

	testCases := map[string]struct{ email, password string }{
		"wrong password": {"admin@x.com", "wrong"},
		"unknown email":  {"nobody@x.com", "correct"},
		"password case":  {"admin@x.com", "CORRECT"},
		"empty password": {"admin@x.com", ""},
		"empty email":    {"", "correct"},
	}
	for tn, tc := range testCases {
		tok, claims, err := a.Login(tc.email, tc.password)
		assert.Equal(t, ErrInvalidCredentials, err, tn)
		assert.Empty(t, tok, tn)
		assert.Nil(t, claims, tn)
	}
}

func TestLoginWithoutUsers(t *testing.T) {
	a, err := NewAuthenticator(&Options{Secret: testSecret})
	require.NoError(t, err)
	_, _, err = a.Login("admin@x.com", "correct")
	assert.Equal(t, ErrInvalidCredentials, err)
}

func TestConcurrentIssueVerify(t *testing.T) {
	a, _ := newTestAuthenticator(t, testSecret)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(id uint64) {
			defer wg.Done()
			tok, err := a.Issue(Identity{UserID: id, Email: "u@x.com"})
			if !assert.NoError(t, err) {
				return
			}
			c, err := a.Verify(tok)
			if assert.NoError(t, err) {
				assert.Equal(t, id, c.UserID)
			}
		}(uint64(i))
	}
	wg.Wait()
}
