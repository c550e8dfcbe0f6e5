package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

func newRegistry(maxFailures int) *Registry {
	r := NewRegistry(maxFailures, zap.NewNop())
	r.cost = bcrypt.MinCost
	return r
}

func TestRegistry(t *testing.T) {
	t.Run("signup and authenticate", func(t *testing.T) {
		r := newRegistry(5)
		u, err := r.Signup("alice", "secret", "a@example.com")
		require.NoError(t, err)
		require.Equal(t, int64(1), u.ID)
		require.True(t, r.Exists("alice"))

		got, err := r.Authenticate("alice", "secret")
		require.NoError(t, err)
		require.Equal(t, u, got)

		found, ok := r.Lookup(u.ID)
		require.True(t, ok)
		require.Equal(t, "alice", found.Username)
	})

	t.Run("duplicate username", func(t *testing.T) {
		r := newRegistry(5)
		_, err := r.Signup("bob", "secret", "")
		require.NoError(t, err)
		_, err = r.Signup("bob", "other", "")
		require.ErrorIs(t, err, ErrUsernameTaken)
	})

	t.Run("invalid signup", func(t *testing.T) {
		r := newRegistry(5)
		_, err := r.Signup(" ", "secret", "")
		require.ErrorIs(t, err, ErrInvalidSignup)
		_, err = r.Signup("carol", "abc", "")
		require.ErrorIs(t, err, ErrInvalidSignup)
	})

	t.Run("locks after repeated failures", func(t *testing.T) {
		r := newRegistry(3)
		_, err := r.Signup("dave", "secret", "")
		require.NoError(t, err)

		for i := 0; i < 2; i++ {
			_, err = r.Authenticate("dave", "wrong")
			require.ErrorIs(t, err, ErrInvalidCredentials)
		}
		_, err = r.Authenticate("dave", "wrong")
		require.ErrorIs(t, err, ErrAccountLocked)
		_, err = r.Authenticate("dave", "secret")
		require.ErrorIs(t, err, ErrAccountLocked)
	})

	t.Run("success resets failures", func(t *testing.T) {
		r := newRegistry(2)
		_, err := r.Signup("erin", "secret", "")
		require.NoError(t, err)

		_, err = r.Authenticate("erin", "wrong")
		require.ErrorIs(t, err, ErrInvalidCredentials)
		_, err = r.Authenticate("erin", "secret")
		require.NoError(t, err)
		_, err = r.Authenticate("erin", "wrong")
		require.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown user", func(t *testing.T) {
		r := newRegistry(5)
		_, err := r.Authenticate("nobody", "x")
		require.ErrorIs(t, err, ErrInvalidCredentials)
		require.False(t, r.Exists("nobody"))
	})
}

func TestTokenManager(t *testing.T) {
	user := User{ID: 7, Username: "alice", Role: RoleUser}

	t.Run("round trip", func(t *testing.T) {
		tm := NewTokenManager("secret", time.Hour)
		token, err := tm.GenerateToken(user)
		require.NoError(t, err)

		claims, err := tm.ValidateToken(token)
		require.NoError(t, err)
		require.Equal(t, int64(7), claims.UserID)
		require.Equal(t, "alice", claims.Username)
		require.Equal(t, "7", claims.Subject)
	})

	t.Run("wrong secret", func(t *testing.T) {
		token, err := NewTokenManager("one", time.Hour).GenerateToken(user)
		require.NoError(t, err)
		_, err = NewTokenManager("two", time.Hour).ValidateToken(token)
		require.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired", func(t *testing.T) {
		tm := NewTokenManager("secret", time.Minute)
		tm.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
		token, err := tm.GenerateToken(user)
		require.NoError(t, err)

		tm.now = time.Now
		_, err = tm.ValidateToken(token)
		require.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("empty", func(t *testing.T) {
		_, err := NewTokenManager("secret", time.Hour).ValidateToken("")
		require.ErrorIs(t, err, ErrInvalidToken)
	})
}
