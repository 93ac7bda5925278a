package domain

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUser(t *testing.T) {
	t.Run("valid user verifies its own password", func(t *testing.T) {
		user, err := NewUser(UserConfig{
			ID:            uuid.New(),
			Username:      "walker_01",
			PlainPassword: "correct-horse-battery",
		})
		require.NoError(t, err)
		assert.True(t, user.VerifyPassword("correct-horse-battery"))
		assert.False(t, user.VerifyPassword("wrong"))
	})

	t.Run("username validation", func(t *testing.T) {
		_, err := NewUser(UserConfig{Username: "ab", PlainPassword: "correct-horse-battery"})
		assert.ErrorIs(t, err, ErrUsernameTooShort)

		_, err = NewUser(UserConfig{Username: strings.Repeat("a", 21), PlainPassword: "correct-horse-battery"})
		assert.ErrorIs(t, err, ErrUsernameTooLong)

		_, err = NewUser(UserConfig{Username: "bad name!", PlainPassword: "correct-horse-battery"})
		assert.ErrorIs(t, err, ErrInvalidUsernameFormat)
	})

	t.Run("weak passwords are rejected", func(t *testing.T) {
		_, err := NewUser(UserConfig{Username: "walker_01", PlainPassword: "password"})
		assert.ErrorIs(t, err, ErrWeakPassword)
	})
}
