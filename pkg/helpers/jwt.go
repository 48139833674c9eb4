package helpers

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/oksasatya/user-profile-service/internal/domain/entity"
)

var ErrInvalidToken = errors.New("invalid token")

// JWTManager validates bearer tokens issued by the auth service.
// Issuing is kept for local tooling and tests.
type JWTManager struct {
	Secret []byte
	TTL    time.Duration
}

func NewJWTManager(secret string, ttl time.Duration) *JWTManager {
	return &JWTManager{Secret: []byte(secret), TTL: ttl}
}

// Claims mirrors the payload shared with the auth service.
type Claims struct {
	ID         string  `json:"id"`
	Username   string  `json:"username"`
	City       int64   `json:"city"`
	Categories []int64 `json:"categories"`
	jwt.RegisteredClaims
}

func (m *JWTManager) GenerateAccessToken(p entity.Principal) (string, time.Time, error) {
	exp := time.Now().Add(m.TTL)
	claims := &Claims{
		ID:         p.ID,
		Username:   p.Username,
		City:       p.CityID,
		Categories: p.Categories,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := t.SignedString(m.Secret)
	return s, exp, err
}

// ParsePrincipal decodes and verifies a bearer token.
func (m *JWTManager) ParsePrincipal(tokenStr string) (entity.Principal, error) {
	claims, err := parseToken(tokenStr, m.Secret)
	if err != nil {
		return entity.Principal{}, err
	}
	if claims.ID == "" {
		return entity.Principal{}, ErrInvalidToken
	}
	return entity.Principal{
		ID:         claims.ID,
		Username:   claims.Username,
		CityID:     claims.City,
		Categories: claims.Categories,
	}, nil
}

func parseToken(tokenStr string, secret []byte) (*Claims, error) {
	claims := &Claims{}
	tkn, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !tkn.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
