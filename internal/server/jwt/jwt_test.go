package jwt

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-0123456789"

func TestService_IssueAndValidate(t *testing.T) {
	svc := NewService(testSecret, time.Hour)

	token, expiresIn, err := svc.Issue("user-1", 0)
	require.NoError(t, err)
	assert.Equal(t, int64(3600), expiresIn)

	claims, err := svc.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID())
	assert.Equal(t, "fitsync", claims.Issuer)

	_, expiresIn, err = svc.Issue("user-1", 10*time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(600), expiresIn)

	_, _, err = svc.Issue("", 0)
	assert.Error(t, err)
}

func TestService_ValidateRejects(t *testing.T) {
	svc := NewService(testSecret, time.Hour)
	valid, _, err := svc.Issue("user-1", 0)
	require.NoError(t, err)

	expiredSvc := NewService(testSecret, time.Hour)
	expiredSvc.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	expired, _, err := expiredSvc.Issue("user-1", 0)
	require.NoError(t, err)

	otherSecret, _, err := NewService("another-secret-0123456789", time.Hour).Issue("user-1", 0)
	require.NoError(t, err)

	noneAlg, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{RegisteredClaims: jwt.RegisteredClaims{
		Subject:   "user-1",
		Issuer:    issuer,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{name: "garbage", token: "not-a-token"},
		{name: "expired", token: expired},
		{name: "wrong secret", token: otherSecret},
		{name: "alg none", token: noneAlg},
		{name: "truncated", token: valid[:len(valid)-4]},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Validate(tt.token)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}
