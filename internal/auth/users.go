package auth

import (
	"errors"
	"strings"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrUsernameTaken      = errors.New("username already exists")
	ErrInvalidSignup      = errors.New("username and password are required")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrAccountLocked      = errors.New("account locked")
)

const (
	MinPasswordLength = 4
	MaxPasswordLength = 72
	RoleUser          = "USER"
)

type User struct {
	ID       int64
	Username string
	Email    string
	Role     string
}

type account struct {
	user     User
	hash     []byte
	failures int
}

// Registry is the emulator's in-memory account table. Accounts lock after
// maxFailures consecutive bad passwords.
type Registry struct {
	mu          sync.Mutex
	nextID      int64
	accounts    map[string]*account
	maxFailures int
	cost        int
	log         *zap.Logger
}

func NewRegistry(maxFailures int, logger *zap.Logger) *Registry {
	if maxFailures <= 0 {
		maxFailures = 5
	}
	return &Registry{
		nextID:      1,
		accounts:    make(map[string]*account),
		maxFailures: maxFailures,
		cost:        bcrypt.DefaultCost,
		log:         logger,
	}
}

func (r *Registry) Signup(username, password, email string) (User, error) {
	username = strings.TrimSpace(username)
	if username == "" || len(password) < MinPasswordLength || len(password) > MaxPasswordLength {
		return User{}, ErrInvalidSignup
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), r.cost)
	if err != nil {
		return User{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.accounts[username]; ok {
		return User{}, ErrUsernameTaken
	}
	u := User{ID: r.nextID, Username: username, Email: email, Role: RoleUser}
	r.nextID++
	r.accounts[username] = &account{user: u, hash: hash}
	r.log.Info("account created", zap.Int64("user_id", u.ID), zap.String("username", username))
	return u, nil
}

// Authenticate checks the password. A locked account stays locked even when
// the right password is supplied.
func (r *Registry) Authenticate(username, password string) (User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	acc, ok := r.accounts[strings.TrimSpace(username)]
	if !ok {
		return User{}, ErrInvalidCredentials
	}
	if acc.failures >= r.maxFailures {
		return User{}, ErrAccountLocked
	}
	if err := bcrypt.CompareHashAndPassword(acc.hash, []byte(password)); err != nil {
		acc.failures++
		r.log.Warn("login failed", zap.String("username", username), zap.Int("failures", acc.failures))
		if acc.failures >= r.maxFailures {
			return User{}, ErrAccountLocked
		}
		return User{}, ErrInvalidCredentials
	}
	acc.failures = 0
	return acc.user, nil
}

func (r *Registry) Exists(username string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.accounts[strings.TrimSpace(username)]
	return ok
}

func (r *Registry) Lookup(id int64) (User, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, acc := range r.accounts {
		if acc.user.ID == id {
			return acc.user, true
		}
	}
	return User{}, false
}
