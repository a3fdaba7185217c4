package helpers

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid token")

// JWTManager handles generation and validation of bearer tokens
type JWTManager struct {
	Secret []byte
	TTL    time.Duration

	now func() time.Time
}

func NewJWTManager(secret string, ttl time.Duration) *JWTManager {
	return &JWTManager{Secret: []byte(secret), TTL: ttl, now: time.Now}
}

// WithClock replaces the time source used for issuing and validating tokens.
func (m *JWTManager) WithClock(now func() time.Time) *JWTManager {
	m.now = now
	return m
}

func (m *JWTManager) clock() time.Time {
	if m.now == nil {
		return time.Now()
	}
	return m.now()
}

// TokenPayload is the identity embedded in a token.
type TokenPayload struct {
	UserID    string
	Name      string
	Role      string
	ShelterID string
}

type Claims struct {
	UserID    string `json:"id"`
	Name      string `json:"name"`
	Role      string `json:"type"`
	ShelterID string `json:"shelterId,omitempty"`
	jwt.RegisteredClaims
}

// Payload returns the identity carried by the claims.
func (c *Claims) Payload() TokenPayload {
	return TokenPayload{UserID: c.UserID, Name: c.Name, Role: c.Role, ShelterID: c.ShelterID}
}

func (m *JWTManager) Generate(p TokenPayload) (string, time.Time, error) {
	now := m.clock()
	exp := now.Add(m.TTL)
	claims := &Claims{
		UserID:    p.UserID,
		Name:      p.Name,
		Role:      p.Role,
		ShelterID: p.ShelterID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   p.UserID,
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := t.SignedString(m.Secret)
	return s, exp, err
}

// Parse validates tokenStr and returns its claims. Any failure yields
// ErrInvalidToken wrapping the cause.
func (m *JWTManager) Parse(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	tkn, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return m.Secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.clock),
	)
	if err != nil {
		return nil, errors.Join(ErrInvalidToken, err)
	}
	if !tkn.Valid || claims.UserID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
