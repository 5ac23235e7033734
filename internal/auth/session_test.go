package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

func sign(t *testing.T, claims jwt.MapClaims, secret string) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func adminClaims() jwt.MapClaims {
	return jwt.MapClaims{
		"user_id":            float64(42),
		"preferred_username": "ada",
		"email":              "ada@example.com",
		"roles":              []string{"enterprise_admin:ent-2", "enterprise_learner:ent-9", "enterprise_admin:ent-1", "enterprise_admin:ent-1"},
		"exp":                now.Add(time.Hour).Unix(),
	}
}

func TestParseToken_Claims(t *testing.T) {
	s, err := ParseToken(sign(t, adminClaims(), "any"), now)
	require.NoError(t, err)

	assert.Equal(t, int64(42), s.UserID)
	assert.Equal(t, "ada", s.Username)
	assert.Equal(t, "ada@example.com", s.Email)
	assert.Equal(t, []string{"ent-1", "ent-2"}, s.EnterpriseIDs())
	assert.True(t, s.CanAdminister("ent-2"))
	assert.False(t, s.CanAdminister("ent-9"), "learner role does not grant curation")

	_, ok := s.DefaultEnterprise()
	assert.False(t, ok, "ambiguous with two enterprises")
}

func TestParseToken_Expired(t *testing.T) {
	claims := adminClaims()
	claims["exp"] = now.Add(-time.Minute).Unix()

	_, err := ParseToken(sign(t, claims, "x"), now)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestParseToken_Garbage(t *testing.T) {
	_, err := ParseToken("not-a-jwt", now)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyToken(t *testing.T) {
	token := sign(t, jwt.MapClaims{"roles": []string{"enterprise_admin:ent-1"}}, "s3cret")

	s, err := VerifyToken(token, "s3cret", now)
	require.NoError(t, err)
	id, ok := s.DefaultEnterprise()
	assert.True(t, ok)
	assert.Equal(t, "ent-1", id)

	_, err = VerifyToken(token, "wrong", now)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestSession_WildcardAndStaffGrants(t *testing.T) {
	wild := Session{Roles: []string{"enterprise_admin:*"}}
	assert.True(t, wild.CanAdminister("anything"))
	assert.Empty(t, wild.EnterpriseIDs())

	staff := Session{Administrator: true}
	assert.True(t, staff.CanAdminister("ent-1"))
}

func TestSession_Expired(t *testing.T) {
	assert.False(t, Session{}.Expired(now), "no exp claim never expires")
	assert.True(t, Session{ExpiresAt: now}.Expired(now))
}
