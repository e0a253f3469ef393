package services

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"givemap/internal/models"
)

var tokenInLink = regexp.MustCompile(`token=([0-9a-f]+)`)

func resetTokenFromMail(t *testing.T, env *testEnv) string {
	t.Helper()
	env.mail.Wait()
	msgs := env.mailer.messages()
	require.NotEmpty(t, msgs)
	m := tokenInLink.FindStringSubmatch(msgs[len(msgs)-1].Body)
	require.Len(t, m, 2)
	return m[1]
}

func TestRegisterDuplicateEmail(t *testing.T) {
	env := setup(t)
	ctx := context.Background()

	u, err := env.auth.Register(ctx, "Donor@Example.com", "password123", "donor")
	require.NoError(t, err)
	assert.Equal(t, "donor@example.com", u.Email)
	assert.Equal(t, models.RoleUser, u.Role)
	assert.NotEqual(t, "password123", u.Password)

	_, err = env.auth.Register(ctx, "  donor@example.com ", "another123", "")
	assert.ErrorIs(t, err, ErrConflict)

	var count int64
	env.db.Model(&models.User{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestRegisterDefaultsUsername(t *testing.T) {
	env := setup(t)
	u := env.user(t, "nobody@example.com")
	assert.Equal(t, "nobody@example.com", u.Username)
}

func TestAuthenticate(t *testing.T) {
	env := setup(t)
	ctx := context.Background()
	env.user(t, "a@b.com")

	_, _, err := env.auth.Authenticate(ctx, "missing@b.com", "password123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = env.auth.Authenticate(ctx, "a@b.com", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	token, user, err := env.auth.Authenticate(ctx, "A@B.com", "password123")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	require.NotNil(t, user.LastLoginAt)
	assert.WithinDuration(t, time.Now(), *user.LastLoginAt, 5*time.Second)

	stored, err := env.auth.GetUser(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.LastLoginAt)
	assert.WithinDuration(t, time.Now(), *stored.LastLoginAt, 5*time.Second)
}

func TestPasswordResetSingleUse(t *testing.T) {
	env := setup(t)
	ctx := context.Background()
	env.user(t, "a@b.com")

	ok, err := env.auth.RequestPasswordReset(ctx, "a@b.com")
	require.NoError(t, err)
	assert.True(t, ok)
	token := resetTokenFromMail(t, env)

	ok, err = env.auth.ResetPassword(ctx, "a@b.com", "not-the-token", "newpassword1")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = env.auth.ResetPassword(ctx, "a@b.com", token, "newpassword1")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = env.auth.ResetPassword(ctx, "a@b.com", token, "newpassword2")
	require.NoError(t, err)
	assert.False(t, ok)

	_, _, err = env.auth.Authenticate(ctx, "a@b.com", "newpassword1")
	assert.NoError(t, err)
	_, _, err = env.auth.Authenticate(ctx, "a@b.com", "password123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestPasswordResetExpires(t *testing.T) {
	env := setup(t)
	ctx := context.Background()
	env.user(t, "a@b.com")

	ok, err := env.auth.RequestPasswordReset(ctx, "a@b.com")
	require.NoError(t, err)
	require.True(t, ok)
	token := resetTokenFromMail(t, env)

	env.auth.now = func() time.Time { return time.Now().UTC().Add(61 * time.Minute) }
	ok, err = env.auth.ResetPassword(ctx, "a@b.com", token, "newpassword1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPasswordResetUnknownEmail(t *testing.T) {
	env := setup(t)
	ok, err := env.auth.RequestPasswordReset(context.Background(), "ghost@b.com")
	require.NoError(t, err)
	assert.False(t, ok)

	env.mail.Wait()
	assert.Empty(t, env.mailer.messages())

	ok, err = env.auth.ResetPassword(context.Background(), "ghost@b.com", "abc", "newpassword1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPurgeExpiredResetTokens(t *testing.T) {
	env := setup(t)
	ctx := context.Background()
	env.user(t, "a@b.com")
	env.user(t, "b@b.com")

	_, err := env.auth.RequestPasswordReset(ctx, "a@b.com")
	require.NoError(t, err)

	n, err := env.auth.PurgeExpiredResetTokens(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)

	env.auth.now = func() time.Time { return time.Now().UTC().Add(2 * time.Hour) }
	n, err = env.auth.PurgeExpiredResetTokens(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	var u models.User
	require.NoError(t, env.db.Where("email = ?", "a@b.com").First(&u).Error)
	assert.Empty(t, u.ResetTokenHash)
	assert.Nil(t, u.ResetTokenExpiresAt)
}
