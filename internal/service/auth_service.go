package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"goodtime-diagnostic/internal/model"
)

var ErrInvalidToken = errors.New("invalid or expired token")

// AuthService issues and checks the tokens binding a client to its session
type AuthService struct {
	jwtSecret []byte
	ttl       time.Duration
	now       func() time.Time
}

// NewAuthService creates a new auth service. Tokens live as long as the
// session snapshot.
func NewAuthService(secret string, ttl time.Duration) *AuthService {
	return &AuthService{
		jwtSecret: []byte(secret),
		ttl:       ttl,
		now:       time.Now,
	}
}

// GenerateSessionToken creates a token scoped to one diagnostic session
func (s *AuthService) GenerateSessionToken(sessionID string) (string, error) {
	now := s.now()
	claims := &model.SessionClaims{
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sessionID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

// ValidateSessionToken validates a session JWT and returns claims
func (s *AuthService) ValidateSessionToken(tokenString string) (*model.SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &model.SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		return s.jwtSecret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*model.SessionClaims)
	if !ok || !token.Valid || claims.SessionID == "" {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
