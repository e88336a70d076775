package services

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// TokenService issues and verifies the HS256 bearer tokens used on every
// authenticated endpoint.
type TokenService struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenService(secret string) *TokenService {
	return &TokenService{secret: []byte(secret), ttl: 24 * time.Hour}
}

// TokenClaims is what a verified token carries.
type TokenClaims struct {
	UserID   string
	Username string
	Role     string
}

// Generate issues a token with user ID, username, and role.
func (t *TokenService) Generate(userID, username, role string) (string, error) {
	claims := jwt.MapClaims{
		"user_id":  userID,
		"username": username,
		"role":     role,
		"exp":      time.Now().Add(t.ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.secret)
}

// Verify parses and validates a token string.
func (t *TokenService) Verify(tokenString string) (*TokenClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return t.secret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	get := func(key string) string {
		if v, ok := claims[key].(string); ok {
			return v
		}
		return ""
	}
	parsed := &TokenClaims{
		UserID:   get("user_id"),
		Username: get("username"),
		Role:     get("role"),
	}
	if parsed.UserID == "" {
		return nil, fmt.Errorf("token missing user_id claim")
	}
	return parsed, nil
}
