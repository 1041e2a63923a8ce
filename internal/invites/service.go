package invites

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims carries the invited address and target organization inside the
// signed invite token.
type Claims struct {
	OrganizationID string `json:"org_id"`
	Email          string `json:"email"`
	jwt.RegisteredClaims
}

// Service issues and verifies organization invite tokens.
type Service struct {
	secret []byte
	ttl    time.Duration
}

// NewService creates an invite token service.
func NewService(secret string, expireHours int) *Service {
	return &Service{
		secret: []byte(secret),
		ttl:    time.Duration(expireHours) * time.Hour,
	}
}

// Generate signs an invite for email to join the organization.
func (s *Service) Generate(organizationID, email string) (string, error) {
	now := time.Now()
	claims := Claims{
		OrganizationID: organizationID,
		Email:          email,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign invite: %w", err)
	}
	return signed, nil
}

// Verify parses and validates an invite token.
func (s *Service) Verify(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("parse invite: %w", err)
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid invite token")
	}
	return claims, nil
}
