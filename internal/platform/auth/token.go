package auth

import (
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/clinicore/clinicore/internal/platform/apperr"
)

// Roles carried in token claims. Comparison is always case-insensitive.
const (
	RoleAdmin   = "admin"
	RoleDoctor  = "doctor"
	RolePatient = "patient"
)

// Config holds the signing material and lifetime for issued tokens. It is
// injected into the codec explicitly so tests can run with their own secret.
type Config struct {
	Secret []byte
	TTL    time.Duration
}

// Claims is the payload of a bearer token: who (subject + numeric account
// id) and what they are (role).
type Claims struct {
	Role string `json:"role"`
	UID  int64  `json:"uid"`
	jwt.RegisteredClaims
}

// Codec signs and verifies bearer tokens with an HMAC key.
type Codec struct {
	cfg Config
}

func NewCodec(cfg Config) *Codec {
	return &Codec{cfg: cfg}
}

// Issue creates a signed token for the given account.
func (c *Codec) Issue(subject, role string, uid int64) (string, error) {
	now := time.Now()
	claims := Claims{
		Role: strings.ToLower(role),
		UID:  uid,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.cfg.TTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(c.cfg.Secret)
	if err != nil {
		return "", apperr.Wrap(apperr.Internal, "sign token", err)
	}
	return signed, nil
}

// Parse verifies a raw bearer value and returns its claims. An optional
// "Bearer " prefix is stripped first. Any decoding failure (malformed,
// expired, bad signature) yields an Unauthenticated error.
func (c *Codec) Parse(raw string) (*Claims, error) {
	tokenStr := StripBearer(raw)
	if tokenStr == "" {
		return nil, apperr.New(apperr.Unauthenticated, "missing credential")
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		return c.cfg.Secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil || !token.Valid {
		return nil, apperr.Wrap(apperr.Unauthenticated, "invalid or expired credential", err)
	}
	return claims, nil
}

// StripBearer removes an optional "Bearer " prefix, case-insensitively, and
// trims surrounding whitespace.
func StripBearer(raw string) string {
	raw = strings.TrimSpace(raw)
	parts := strings.SplitN(raw, " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
		return strings.TrimSpace(parts[1])
	}
	return raw
}
