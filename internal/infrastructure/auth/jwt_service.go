package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/identitykit/account-api/internal/core/domain"
	"github.com/identitykit/account-api/internal/core/ports"
)

const defaultTokenTTL = time.Hour

// JWTService implements ports.TokenService with HS256-signed JWTs.
type JWTService struct {
	secret   string
	tokenTTL time.Duration
}

// NewJWTService creates a JWTService. A non-positive ttl falls back to the
// one-hour default. An empty secret is tolerated here so construction never
// fails; Issue reports it as a configuration error.
func NewJWTService(secret string, ttl time.Duration) *JWTService {
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	return &JWTService{secret: secret, tokenTTL: ttl}
}

// Issue builds a signed token carrying the identity claims. The "id" claim
// holds the store's actual primary key.
func (s *JWTService) Issue(user *domain.User) (string, error) {
	if s.secret == "" {
		return "", domain.ErrTokenSecretMissing
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"id":       user.ID,
		"username": user.Username,
		"email":    user.Email,
		"role":     user.Role,
		"iat":      now.Unix(),
		"exp":      now.Add(s.tokenTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.secret))
}

// Verify validates signature and expiry and returns the embedded claims.
func (s *JWTService) Verify(token string) (*ports.TokenClaims, error) {
	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return []byte(s.secret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domain.ErrTokenExpired
		}
		return nil, domain.ErrTokenInvalid
	}
	if !parsed.Valid {
		return nil, domain.ErrTokenInvalid
	}

	return &ports.TokenClaims{
		UserID:   stringClaim(claims, "id"),
		Username: stringClaim(claims, "username"),
		Email:    stringClaim(claims, "email"),
		Role:     stringClaim(claims, "role"),
	}, nil
}

func stringClaim(claims jwt.MapClaims, key string) string {
	v, _ := claims[key].(string)
	return v
}
