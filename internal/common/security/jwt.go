package security

import (
	"errors"
	"fmt"
	"time"

	"minimarket/internal/common"

	"github.com/go-chi/jwtauth/v5"
	"github.com/golang-jwt/jwt/v5"
)

// Claims is the verified payload of a bearer token. Subject carries the
// user's email.
type Claims struct {
	jwt.RegisteredClaims
}

// TokenService issues and verifies signed, time-limited bearer tokens.
// Tokens are stateless and self-contained: there is no revocation list, a
// valid unexpired token authenticates its subject for its full lifetime.
type TokenService struct {
	auth *jwtauth.JWTAuth
	key  []byte
	exp  time.Duration
}

// NewTokenService fails when the signing key is empty; that is a deployment
// mistake and the server must not start with it.
func NewTokenService(key []byte, defaultTTL time.Duration) (*TokenService, error) {
	if len(key) == 0 {
		return nil, errors.New("config: JWT signing key is not set")
	}
	if defaultTTL <= 0 {
		return nil, errors.New("config: token lifetime must be positive")
	}
	return &TokenService{
		auth: jwtauth.New("HS256", key, nil),
		key:  key,
		exp:  defaultTTL,
	}, nil
}

// Auth exposes the underlying JWTAuth for the router's Verifier middleware.
func (s *TokenService) Auth() *jwtauth.JWTAuth {
	return s.auth
}

// Issue signs a token for subject expiring after the given ttl, or after the
// configured default when ttl is omitted.
func (s *TokenService) Issue(subject string, ttl ...time.Duration) (string, error) {
	if subject == "" {
		return "", fmt.Errorf("token subject is empty: %w", common.ErrInvalidInput)
	}
	exp := s.exp
	if len(ttl) > 0 {
		exp = ttl[0]
	}
	now := time.Now()
	claims := jwt.MapClaims{
		"sub": subject,
		"exp": now.Add(exp).Unix(),
		"iat": now.Unix(),
	}
	_, tokenString, err := s.auth.Encode(claims)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return tokenString, nil
}

// Verify checks the signature and expiry of tokenString and returns its
// claims. Expired tokens yield ErrExpiredToken; any other defect (bad
// signature, wrong algorithm, missing subject) yields ErrInvalidToken.
func (s *TokenService) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.key, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, common.ErrExpiredToken
		}
		return nil, common.ErrInvalidToken
	}
	if !token.Valid || claims.Subject == "" {
		return nil, common.ErrInvalidToken
	}
	return claims, nil
}
