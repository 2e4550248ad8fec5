package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campregistration/internal/domain"
)

func TestJWT_Issue(t *testing.T) {
	secret := "test-secret"
	issuer := NewJWT(secret)

	token, err := issuer.Issue("admin-123", "lead@camp.test", []string{domain.RoleAdmin}, time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	parsed, err := jwt.ParseWithClaims(token, &jwtClaims{}, func(t *jwt.Token) (any, error) {
		return []byte(secret), nil
	})
	require.NoError(t, err)
	require.True(t, parsed.Valid)
	claims, ok := parsed.Claims.(*jwtClaims)
	require.True(t, ok)
	assert.Equal(t, "admin-123", claims.Subject)
	assert.Equal(t, "lead@camp.test", claims.Email)
	assert.Equal(t, []string{"admin"}, claims.Roles)
}

func TestJWT_Verify(t *testing.T) {
	j := NewJWT("test-secret")
	valid, err := j.Issue("admin-123", "lead@camp.test", []string{domain.RoleAdmin}, time.Hour)
	require.NoError(t, err)

	expired, err := j.Issue("admin-123", "lead@camp.test", []string{domain.RoleAdmin}, -time.Minute)
	require.NoError(t, err)

	foreign, err := NewJWT("other-secret").Issue("admin-123", "lead@camp.test", []string{domain.RoleAdmin}, time.Hour)
	require.NoError(t, err)

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwtClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "admin-123",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		Roles: []string{domain.RoleAdmin},
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := []struct {
		name    string
		token   string
		wantErr bool
	}{
		{"valid", valid, false},
		{"expired", expired, true},
		{"wrong secret", foreign, true},
		{"unsigned", none, true},
		{"garbage", "not-a-token", true},
		{"empty", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := j.Verify(tt.token)
			if tt.wantErr {
				require.ErrorIs(t, err, domain.ErrUnauthorized)
				assert.Nil(t, id)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "admin-123", id.UserID)
			assert.Equal(t, "lead@camp.test", id.Email)
			assert.True(t, id.HasRole(domain.RoleAdmin))
		})
	}
}
