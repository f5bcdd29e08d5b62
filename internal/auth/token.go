package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"nexafolio/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// DefaultSessionTTL is the reference session lifetime.
const DefaultSessionTTL = 7 * 24 * time.Hour

// ErrInvalidToken is returned by Verify for any token that cannot be
// trusted: bad signature, wrong algorithm, expired, or malformed.
// Callers treat it uniformly as "no session".
var ErrInvalidToken = errors.New("invalid or expired token")

// SessionClaims is the identity carried by a verified session token.
type SessionClaims struct {
	UserID   uint
	Username string
	Role     string
}

// TokenManager issues and verifies signed session tokens.
type TokenManager struct {
	secret []byte
	ttl    time.Duration

	// now is overridable for expiry tests.
	now func() time.Time
}

// NewTokenManager creates a TokenManager signing with secret. A
// non-positive ttl falls back to DefaultSessionTTL.
func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &TokenManager{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

// Issue creates a signed HS256 token encoding the user's id, username and role.
func (m *TokenManager) Issue(user *models.User) (string, error) {
	now := m.now()
	claims := jwt.MapClaims{
		"sub":      strconv.FormatUint(uint64(user.ID), 10),
		"username": user.Username,
		"role":     user.Role,
		"iat":      now.Unix(),
		"nbf":      now.Unix(),
		"exp":      now.Add(m.ttl).Unix(),
		"jti":      uuid.NewString(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return signed, nil
}

// Verify checks the signature and validity window and returns the session
// claims. All failure modes collapse into ErrInvalidToken.
func (m *TokenManager) Verify(tokenString string) (*SessionClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return m.secret, nil
	}, jwt.WithTimeFunc(m.now))
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}

	sub, ok := claims["sub"].(string)
	if !ok {
		return nil, ErrInvalidToken
	}
	userID, err := strconv.ParseUint(sub, 10, 32)
	if err != nil || userID == 0 {
		return nil, ErrInvalidToken
	}

	username, _ := claims["username"].(string)
	role, _ := claims["role"].(string)

	return &SessionClaims{
		UserID:   uint(userID),
		Username: username,
		Role:     role,
	}, nil
}
