package user // import "github.com/CarlosBertoldo/acervo-educacional/user"

import (
	"crypto/subtle"
	"encoding/json"
	"io"
	"io/ioutil"
	"sort"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"

	"github.com/CarlosBertoldo/acervo-educacional/common"
)

// Common Errors
var (
	ErrInvalidUser = errors.New("invalid user")
	ErrNotFound    = errors.New("user not found")
)

// Details describes a credential record.
type Details struct {
	ID       uint64 `json:"id"`
	Email    string `json:"email"`
	Name     string `json:"nome"`
	Password string `json:"password"`
	IsAdmin  bool   `json:"is_admin"`
}

// Public is the user representation that is safe to return to clients.
type Public struct {
	ID      uint64 `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"nome"`
	IsAdmin bool   `json:"is_admin"`
}

// Public strips the password.
func (d *Details) Public() Public {
	return Public{ID: d.ID, Email: d.Email, Name: d.Name, IsAdmin: d.IsAdmin}
}

// NormalizeEmail is the lookup key for a credential record.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Registry maintains the known users. It is read-mostly reference
// data; records are keyed by normalized email.
type Registry struct {
	mu    sync.RWMutex
	users map[string]*Details
}

// NewRegistry returns an initialized Registry holding users.
func NewRegistry(users ...Details) *Registry {
	r := &Registry{users: map[string]*Details{}}
	for i := range users {
		_ = r.Put(&users[i])
	}
	return r
}

// Get returns a user registration by email, or an error if not found
func (u *Registry) Get(email string) (*Details, error) {
	u.mu.RLock()
	defer u.mu.RUnlock()
	d, ok := u.users[NormalizeEmail(email)]
	if !ok {
		return nil, ErrNotFound
	}
	c := *d
	return &c, nil
}

// Put saves the user registration
func (u *Registry) Put(user *Details) error {
	if user == nil || NormalizeEmail(user.Email) == "" {
		return ErrInvalidUser
	}
	c := *user
	u.mu.Lock()
	u.users[NormalizeEmail(c.Email)] = &c
	u.mu.Unlock()
	return nil
}

// Len returns the number of registered users.
func (u *Registry) Len() int {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return len(u.users)
}

// List returns the users ordered by id.
func (u *Registry) List() []Details {
	u.mu.RLock()
	list := make([]Details, 0, len(u.users))
	for _, d := range u.users {
		list = append(list, *d)
	}
	u.mu.RUnlock()
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list
}

// LoadFromJSON loads users encoded in JSON, either a list or a single
// object.
func (u *Registry) LoadFromJSON(r io.Reader) error {
	data, err := ioutil.ReadAll(r)
	if err != nil {
		return errors.Wrap(err, "reading users")
	}
	var userSlice []Details
	if err = json.Unmarshal(data, &userSlice); err != nil {
		var user Details
		if err = json.Unmarshal(data, &user); err != nil {
			return errors.Wrap(err, "decoding users")
		}
		userSlice = append(userSlice, user)
	}
	for i := range userSlice {
		if err := u.Put(&userSlice[i]); err != nil {
			return errors.Wrapf(err, "user %d", userSlice[i].ID)
		}
	}
	return nil
}

// SaveToJSON stores the registry users to the io.Writer as JSON
func (u *Registry) SaveToJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(u.List())
}

// BcryptChecker creates an implementation of common.PasswordChecker
// that compares the supplied password against a bcrypt hash stored in
// the password field.
func (u *Registry) BcryptChecker() common.PasswordChecker {
	return &bchecker{r: u}
}

type bchecker struct {
	r *Registry
}

// IsAuthenticated requires that neither email nor password is empty,
// the email is registered, the stored password is not empty, and that
// the supplied password matches the stored hash.
func (b *bchecker) IsAuthenticated(email, password string) bool {
	if email == "" || password == "" {
		return false
	}
	u, err := b.r.Get(email)
	if err != nil || u.Password == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)) == nil
}

// PlainTextChecker creates an implementation of common.PasswordChecker
// that compares the supplied password to the stored one as plain text.
//
// The sample records carry plaintext passwords, so this is the default.
// Anything beyond a local mock should store bcrypt hashes and use
// BcryptChecker instead.
func (u *Registry) PlainTextChecker() common.PasswordChecker {
	return &pchecker{r: u}
}

type pchecker struct {
	r *Registry
}

func (p *pchecker) IsAuthenticated(email, password string) bool {
	if email == "" || password == "" {
		return false
	}
	u, err := p.r.Get(email)
	if err != nil || u.Password == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(password), []byte(u.Password)) == 1
}
