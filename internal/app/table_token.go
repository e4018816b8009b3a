package app

import (
	"fmt"
	"time"

	"github.com/form3tech-oss/jwt-go"
)

// TableTokenService issues and verifies invite tokens for private tables.
// A host requests a token for an opponent; the match handler only seats a
// joining player at a private table when the presented token verifies.
type TableTokenService struct {
	secret string
	issuer string
	ttl    time.Duration
}

// NewTableTokenService constructs the service. A zero ttl falls back to one
// hour.
func NewTableTokenService(secret, issuer string, ttl time.Duration) *TableTokenService {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &TableTokenService{secret: secret, issuer: issuer, ttl: ttl}
}

// GenerateToken signs an invite for the given guest to join the given match.
func (s *TableTokenService) GenerateToken(guestUserID, matchID string) (string, error) {
	if s == nil {
		return "", fmt.Errorf("table token service is nil")
	}
	if guestUserID == "" || matchID == "" {
		return "", fmt.Errorf("guest and match are required")
	}
	if s.secret == "" || s.issuer == "" {
		return "", fmt.Errorf("table token config is incomplete")
	}

	claims := jwt.MapClaims{
		"iss": s.issuer,
		"sub": guestUserID,
		"mid": matchID,
		"exp": time.Now().Add(s.ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.secret))
}

// VerifyToken checks the signature and expiry of an invite and returns the
// guest user id and match id it grants.
func (s *TableTokenService) VerifyToken(tokenString string) (guestUserID, matchID string, err error) {
	if s == nil || s.secret == "" {
		return "", "", fmt.Errorf("table token service is not configured")
	}

	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.secret), nil
	})
	if err != nil {
		return "", "", fmt.Errorf("invalid table token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", "", fmt.Errorf("invalid table token claims")
	}
	if iss, _ := claims["iss"].(string); iss != s.issuer {
		return "", "", fmt.Errorf("table token issuer mismatch")
	}

	guestUserID, _ = claims["sub"].(string)
	matchID, _ = claims["mid"].(string)
	if guestUserID == "" || matchID == "" {
		return "", "", fmt.Errorf("table token claims incomplete")
	}
	return guestUserID, matchID, nil
}
