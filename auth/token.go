package auth

import (
	"dfss-dashboard/errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const RoleAdmin = "admin"

// Claims is the payload of the session token issued by the DFSS API at login.
type Claims struct {
	UserID int64  `json:"user_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

func (c Claims) IsAdmin() bool {
	return c.Role == RoleAdmin
}

// TokenSource hands out the bearer token of the current session.
// The signature is checked by the API; the client only reads the expiry so an
// expired session fails before any round trip.
type TokenSource struct {
	token  string
	leeway time.Duration
	now    func() time.Time
}

func NewTokenSource(token string, leeway time.Duration) *TokenSource {
	return &TokenSource{
		token:  strings.TrimSpace(strings.TrimPrefix(token, "Bearer ")),
		leeway: leeway,
		now:    time.Now,
	}
}

// Token returns the raw token, or errors.ErrUnauthorized when it is missing,
// unreadable or expired.
func (s *TokenSource) Token() (string, error) {
	if _, err := s.parse(); err != nil {
		return "", err
	}
	return s.token, nil
}

// Claims returns the unverified claims of the token. The role decides
// between the admin and the user dashboard.
func (s *TokenSource) Claims() (*Claims, error) {
	return s.parse()
}

func (s *TokenSource) parse() (*Claims, error) {
	if s.token == "" {
		return nil, fmt.Errorf("no session token: %w", errors.ErrUnauthorized)
	}
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(s.token, claims); err != nil {
		return nil, fmt.Errorf("%w: %w", errors.ErrUnauthorized, err)
	}
	if claims.ExpiresAt != nil && s.now().After(claims.ExpiresAt.Add(s.leeway)) {
		return nil, fmt.Errorf("session expired at %s: %w", claims.ExpiresAt.Format(time.RFC3339), errors.ErrUnauthorized)
	}
	return claims, nil
}
