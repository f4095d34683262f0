package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"player-auction/internal/biddingerrors"
	"player-auction/internal/models"

	"github.com/golang-jwt/jwt/v5"
)

// UserClaims is the identity embedded in a token
type UserClaims struct {
	ID       string      `json:"id"`
	Username string      `json:"username"`
	Role     models.Role `json:"role"`
}

// Claims is the JWT payload
type Claims struct {
	User UserClaims `json:"user"`
	jwt.RegisteredClaims
}

// Authenticator resolves bearer tokens to callers
type Authenticator struct {
	secret []byte
}

// NewAuthenticator creates an Authenticator for HS256 tokens signed with secret.
// With an empty secret every token is refused.
func NewAuthenticator(secret string) *Authenticator {
	return &Authenticator{secret: []byte(secret)}
}

// Authenticate parses an Authorization header value ("Bearer <token>")
func (a *Authenticator) Authenticate(header string) (models.Caller, error) {
	raw, ok := strings.CutPrefix(header, "Bearer ")
	raw = strings.TrimSpace(raw)
	if !ok || raw == "" {
		return models.Caller{}, biddingerrors.ErrMissingToken
	}
	// HMAC verification accepts an empty key, which anyone can sign with
	if len(a.secret) == 0 {
		return models.Caller{}, fmt.Errorf("%w: no signing secret configured", biddingerrors.ErrInvalidToken)
	}

	var claims Claims
	_, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (any, error) {
		return a.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return models.Caller{}, fmt.Errorf("%w: %v", biddingerrors.ErrInvalidToken, err)
	}

	u := claims.User
	if u.ID == "" {
		return models.Caller{}, fmt.Errorf("%w: missing user id", biddingerrors.ErrInvalidToken)
	}
	if u.Role != models.RoleAdmin && u.Role != models.RoleTeamOwner {
		return models.Caller{}, fmt.Errorf("%w: unknown role %q", biddingerrors.ErrInvalidToken, u.Role)
	}
	return models.Caller{ID: u.ID, Username: u.Username, Role: u.Role}, nil
}

// Issuer mints tokens for operators and tests
type Issuer struct {
	secret []byte
	ttl    time.Duration
}

// NewIssuer creates an Issuer; ttl <= 0 means tokens never expire
func NewIssuer(secret string, ttl time.Duration) (*Issuer, error) {
	if secret == "" {
		return nil, errors.New("auth: empty signing secret")
	}
	return &Issuer{secret: []byte(secret), ttl: ttl}, nil
}

// Issue signs a token for caller
func (i *Issuer) Issue(caller models.Caller) (string, error) {
	now := time.Now()
	claims := Claims{
		User: UserClaims{ID: caller.ID, Username: caller.Username, Role: caller.Role},
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  caller.ID,
			IssuedAt: jwt.NewNumericDate(now),
		},
	}
	if i.ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(i.ttl))
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(i.secret)
}
