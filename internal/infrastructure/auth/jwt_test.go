package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wareline/backend/internal/infrastructure/config"
)

func testVerifier() *Verifier {
	return NewVerifier(config.JWTConfig{
		Secret: "test-secret-at-least-32-characters-long",
		Issuer: "wareline",
	})
}

func TestVerifier_Parse(t *testing.T) {
	orgID := uuid.New()
	userID := uuid.New()

	t.Run("round trips a signed token", func(t *testing.T) {
		v := testVerifier()

		token, err := v.Sign(orgID, userID, time.Hour)
		require.NoError(t, err)

		claims, err := v.Parse(token)
		require.NoError(t, err)

		gotOrg, err := claims.OrgUUID()
		require.NoError(t, err)
		assert.Equal(t, orgID, gotOrg)

		gotUser, err := claims.UserUUID()
		require.NoError(t, err)
		assert.Equal(t, userID, gotUser)
	})

	t.Run("rejects an expired token", func(t *testing.T) {
		v := testVerifier()

		token, err := v.Sign(orgID, userID, -time.Minute)
		require.NoError(t, err)

		_, err = v.Parse(token)
		assert.ErrorIs(t, err, ErrExpiredToken)
	})

	t.Run("rejects a token signed with another secret", func(t *testing.T) {
		other := NewVerifier(config.JWTConfig{
			Secret: "another-secret-also-32-characters-xx",
			Issuer: "wareline",
		})

		token, err := other.Sign(orgID, userID, time.Hour)
		require.NoError(t, err)

		_, err = testVerifier().Parse(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("rejects a garbage token", func(t *testing.T) {
		_, err := testVerifier().Parse("not-a-jwt")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("rejects a token from another issuer", func(t *testing.T) {
		foreign := NewVerifier(config.JWTConfig{
			Secret: "test-secret-at-least-32-characters-long",
			Issuer: "someone-else",
		})

		token, err := foreign.Sign(orgID, userID, time.Hour)
		require.NoError(t, err)

		_, err = testVerifier().Parse(token)
		assert.ErrorIs(t, err, ErrInvalidClaims)
	})

	t.Run("rejects claims without an organization", func(t *testing.T) {
		v := testVerifier()
		now := time.Now()
		claims := &Claims{
			RegisteredClaims: jwt.RegisteredClaims{
				Issuer:    "wareline",
				ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
				IssuedAt:  jwt.NewNumericDate(now),
			},
			UserID: userID.String(),
		}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).
			SignedString([]byte("test-secret-at-least-32-characters-long"))
		require.NoError(t, err)

		_, err = v.Parse(token)
		assert.ErrorIs(t, err, ErrMissingOrgID)
	})

	t.Run("rejects an unsigned token", func(t *testing.T) {
		now := time.Now()
		claims := &Claims{
			RegisteredClaims: jwt.RegisteredClaims{
				Issuer:    "wareline",
				ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
				IssuedAt:  jwt.NewNumericDate(now),
			},
			OrgID:  orgID.String(),
			UserID: userID.String(),
		}
		token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).
			SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = testVerifier().Parse(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}
