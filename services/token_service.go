package services

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

const operatorTokenType = "operator"

// TokenService mints and validates short-lived operator tokens. Holders of
// the static operator key can exchange it for a token scoped to the operator
// role, so the long-lived secret stays out of day-to-day requests.
type TokenService struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenService(secret string) *TokenService {
	return &TokenService{secret: []byte(secret), ttl: 15 * time.Minute}
}

func (s *TokenService) Enabled() bool {
	return len(s.secret) > 0
}

func (s *TokenService) GenerateOperatorToken() (string, error) {
	if !s.Enabled() {
		return "", fmt.Errorf("JWT secret not configured")
	}
	now := time.Now()
	claims := jwt.MapClaims{
		"typ": operatorTokenType,
		"iat": now.Unix(),
		"exp": now.Add(s.ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// ValidateOperatorToken parses the token and checks the signing method,
// expiry and the typ claim.
func (s *TokenService) ValidateOperatorToken(tokenStr string) error {
	if !s.Enabled() {
		return fmt.Errorf("JWT secret not configured")
	}

	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || token == nil || !token.Valid {
		return fmt.Errorf("invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return fmt.Errorf("invalid token claims")
	}
	if typ, ok := claims["typ"].(string); !ok || typ != operatorTokenType {
		return fmt.Errorf("invalid token type")
	}
	return nil
}
