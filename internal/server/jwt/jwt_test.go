package jwt

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestService_IssueAndVerify(t *testing.T) {
	s := NewService("test-secret", time.Hour)

	token, err := s.Issue("user-123")
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	userID, err := s.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "user-123", userID)
}

func TestService_Issue_UniquePerCall(t *testing.T) {
	s := NewService("test-secret", time.Hour)
	fixed := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return fixed }

	first, err := s.Issue("user-123")
	require.NoError(t, err)
	second, err := s.Issue("user-123")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestService_DefaultTTL(t *testing.T) {
	s := NewService("test-secret", 0)
	assert.Equal(t, DefaultTTL, s.TTL())
}

func TestService_IssueEmptyUser(t *testing.T) {
	s := NewService("test-secret", time.Hour)

	_, err := s.Issue("")
	assert.Error(t, err)
}

func TestService_Verify_Invalid(t *testing.T) {
	s := NewService("test-secret", time.Hour)
	other := NewService("other-secret", time.Hour)

	foreign, err := other.Issue("user-1")
	require.NoError(t, err)

	// Токен с алгоритмом none
	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{UserID: "user-1"})
	noneToken, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{name: "empty", token: ""},
		{name: "garbage", token: "not.a.token"},
		{name: "wrong secret", token: foreign},
		{name: "alg none", token: noneToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			userID, err := s.Verify(tt.token)
			assert.ErrorIs(t, err, ErrInvalidToken)
			assert.Empty(t, userID)
		})
	}
}

func TestService_Verify_Expired(t *testing.T) {
	s := NewService("test-secret", time.Minute)
	issuedAt := time.Now().Add(-time.Hour)
	s.now = func() time.Time { return issuedAt }

	token, err := s.Issue("user-1")
	require.NoError(t, err)

	s.now = time.Now
	_, err = s.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestService_Verify_TamperedPayload(t *testing.T) {
	s := NewService("test-secret", time.Hour)

	token, err := s.Issue("user-1")
	require.NoError(t, err)

	other, err := s.Issue("user-2")
	require.NoError(t, err)

	// Подменяем payload, оставляя подпись первого токена
	parts := strings.Split(token, ".")
	otherParts := strings.Split(other, ".")
	require.Len(t, parts, 3)
	require.Len(t, otherParts, 3)
	tampered := parts[0] + "." + otherParts[1] + "." + parts[2]

	_, err = s.Verify(tampered)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
