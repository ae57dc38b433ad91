package helpers

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// UnknownFullName is the display-name claim used when an identity has no
// profile or the profile's composed name is absent.
const UnknownFullName = "UNKNOWN"

// JWTManager signs and validates the bearer tokens issued on login.
type JWTManager struct {
	Secret []byte
	TTL    time.Duration
}

func NewJWTManager(secret string, ttl time.Duration) *JWTManager {
	return &JWTManager{Secret: []byte(secret), TTL: ttl}
}

// Claims carried by an issued token: subject is the username, roles is
// the identity's role-name set and fullName the profile display name.
type Claims struct {
	Roles    []string `json:"roles"`
	FullName string   `json:"fullName"`
	jwt.RegisteredClaims
}

// GenerateToken mints an HS256 token for the given identity view.
// roles serializes as an empty array, never null, and an absent fullName
// falls back to UnknownFullName rather than failing.
func (m *JWTManager) GenerateToken(username, fullName string, roles []string) (string, time.Time, error) {
	if roles == nil {
		roles = []string{}
	}
	if fullName == "" {
		fullName = UnknownFullName
	}
	now := time.Now()
	exp := now.Add(m.TTL)
	claims := &Claims{
		Roles:    roles,
		FullName: fullName,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := t.SignedString(m.Secret)
	return s, exp, err
}

// ParseToken validates a token string and returns its claims.
func (m *JWTManager) ParseToken(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	tkn, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return m.Secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !tkn.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}
