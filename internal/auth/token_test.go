package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestTokenService_IssueAndVerify(t *testing.T) {
	svc := NewTokenService(testSecret, "cart-service", time.Hour)

	token, expiresAt, err := svc.Issue("user-42")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	claims, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "user-42", claims.UserID)
	assert.Equal(t, "user-42", claims.Subject)
	assert.NotEmpty(t, claims.ID)
}

func TestTokenService_IssueWithoutUser(t *testing.T) {
	svc := NewTokenService(testSecret, "cart-service", time.Hour)

	_, _, err := svc.Issue("")
	require.ErrorIs(t, err, ErrMissingUserID)
}

func TestTokenService_Verify(t *testing.T) {
	svc := NewTokenService(testSecret, "cart-service", time.Hour)

	valid, _, err := svc.Issue("user-1")
	require.NoError(t, err)

	expiredSvc := NewTokenService(testSecret, "cart-service", time.Hour)
	expiredSvc.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	expired, _, err := expiredSvc.Issue("user-1")
	require.NoError(t, err)

	otherKey, _, err := NewTokenService("another-secret-another-secret-xx", "cart-service", time.Hour).Issue("user-1")
	require.NoError(t, err)

	otherIssuer, _, err := NewTokenService(testSecret, "someone-else", time.Hour).Issue("user-1")
	require.NoError(t, err)

	noUser, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "cart-service",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	noneAlg, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
		RegisteredClaims: jwt.RegisteredClaims{Issuer: "cart-service"},
		UserID:           "user-1",
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := []struct {
		name    string
		token   string
		wantErr error
	}{
		{name: "valid", token: valid},
		{name: "expired", token: expired, wantErr: ErrExpiredToken},
		{name: "wrong key", token: otherKey, wantErr: ErrInvalidToken},
		{name: "wrong issuer", token: otherIssuer, wantErr: ErrInvalidToken},
		{name: "garbage", token: "not-a-jwt", wantErr: ErrInvalidToken},
		{name: "alg none", token: noneAlg, wantErr: ErrInvalidToken},
		{name: "missing user", token: noUser, wantErr: ErrMissingUserID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := svc.Verify(tt.token)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, claims)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "user-1", claims.UserID)
		})
	}
}
