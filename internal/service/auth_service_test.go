package service

import (
	"context"
	"testing"
	"time"

	"shipment-tracking-service/internal/apperror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAuthenticator(t *testing.T) *SharedSecretAuthenticator {
	t.Helper()
	a, err := NewSharedSecretAuthenticator("Wantranz2026", []byte("test-signing-key"), time.Hour)
	require.NoError(t, err)
	return a
}

func TestLoginIssuesAdminSession(t *testing.T) {
	a := newTestAuthenticator(t)

	token, expiresAt, err := a.Login(context.Background(), "Wantranz2026")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	session, err := a.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, RoleAdmin, session.Role)
	assert.Equal(t, "operator", session.Subject)
	assert.WithinDuration(t, expiresAt, session.ExpiresAt, time.Second)
}

func TestLoginRejectsWrongSecret(t *testing.T) {
	a := newTestAuthenticator(t)

	_, _, err := a.Login(context.Background(), "wantranz2026")
	require.Error(t, err)
	appErr, ok := apperror.As(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeUnauthorized, appErr.Code)
}

func TestValidateTokenRejectsExpiredToken(t *testing.T) {
	a := newTestAuthenticator(t)
	issued := time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC)
	a.now = func() time.Time { return issued }

	token, _, err := a.Login(context.Background(), "Wantranz2026")
	require.NoError(t, err)

	a.now = func() time.Time { return issued.Add(2 * time.Hour) }
	_, err = a.ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateTokenRejectsForeignSignature(t *testing.T) {
	a := newTestAuthenticator(t)
	other, err := NewSharedSecretAuthenticator("Wantranz2026", []byte("another-key"), time.Hour)
	require.NoError(t, err)

	token, _, err := other.Login(context.Background(), "Wantranz2026")
	require.NoError(t, err)

	_, err = a.ValidateToken(token)
	assert.Error(t, err)

	_, err = a.ValidateToken("not-a-token")
	assert.Error(t, err)
}

func TestNewSharedSecretAuthenticatorValidatesArguments(t *testing.T) {
	_, err := NewSharedSecretAuthenticator("", []byte("k"), time.Hour)
	assert.Error(t, err)

	_, err = NewSharedSecretAuthenticator("s", nil, time.Hour)
	assert.Error(t, err)

	_, err = NewSharedSecretAuthenticator("s", []byte("k"), 0)
	assert.Error(t, err)
}
