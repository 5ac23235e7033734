// Package auth decodes the admin identity carried by the API access token.
package auth

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

var (
	ErrInvalidToken = errors.New("invalid access token")
	ErrTokenExpired = errors.New("access token expired")
)

const (
	roleEnterpriseAdmin = "enterprise_admin"
	wildcardEnterprise  = "*"
)

// Session is the identity of the admin using the curator.
type Session struct {
	UserID        int64
	Username      string
	Email         string
	Administrator bool
	Roles         []string
	ExpiresAt     time.Time
	Token         string
}

// ParseToken decodes the claims without checking the signature. The API
// verifies the token on every call, so this is only used to pick defaults
// and fail fast on expiry.
func ParseToken(token string, now time.Time) (Session, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return Session{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return sessionFromClaims(token, claims, now)
}

// VerifyToken decodes the claims after checking an HMAC signature with secret.
func VerifyToken(token, secret string, now time.Time) (Session, error) {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		var ve *jwt.ValidationError
		if errors.As(err, &ve) && ve.Errors&jwt.ValidationErrorExpired != 0 {
			return Session{}, ErrTokenExpired
		}
		return Session{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok || !parsed.Valid {
		return Session{}, ErrInvalidToken
	}
	return sessionFromClaims(token, claims, now)
}

func sessionFromClaims(token string, claims jwt.MapClaims, now time.Time) (Session, error) {
	s := Session{Token: token}
	if v, ok := claims["user_id"].(float64); ok {
		s.UserID = int64(v)
	}
	s.Username, _ = claims["preferred_username"].(string)
	if s.Username == "" {
		s.Username, _ = claims["username"].(string)
	}
	s.Email, _ = claims["email"].(string)
	s.Administrator, _ = claims["administrator"].(bool)
	if roles, ok := claims["roles"].([]any); ok {
		for _, r := range roles {
			if str, ok := r.(string); ok {
				s.Roles = append(s.Roles, str)
			}
		}
	}
	if exp, ok := claims["exp"].(float64); ok {
		s.ExpiresAt = time.Unix(int64(exp), 0).UTC()
	}
	if s.Expired(now) {
		return s, ErrTokenExpired
	}
	return s, nil
}

func (s Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

// EnterpriseIDs lists the enterprises the session holds the admin role for,
// sorted. The wildcard grant is not included.
func (s Session) EnterpriseIDs() []string {
	seen := map[string]bool{}
	for _, role := range s.Roles {
		name, ctx, ok := strings.Cut(role, ":")
		if !ok || name != roleEnterpriseAdmin || ctx == "" || ctx == wildcardEnterprise {
			continue
		}
		seen[ctx] = true
	}
	out := make([]string, 0, len(seen))
	for id := range seen {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// CanAdminister reports whether the session may curate enterpriseID.
func (s Session) CanAdminister(enterpriseID string) bool {
	if s.Administrator {
		return true
	}
	for _, role := range s.Roles {
		name, ctx, ok := strings.Cut(role, ":")
		if ok && name == roleEnterpriseAdmin && (ctx == enterpriseID || ctx == wildcardEnterprise) {
			return true
		}
	}
	return false
}

// DefaultEnterprise returns the only enterprise the session administers.
func (s Session) DefaultEnterprise() (string, bool) {
	ids := s.EnterpriseIDs()
	if len(ids) != 1 {
		return "", false
	}
	return ids[0], true
}
