// Package devicetoken issues and validates short-lived bearer tokens that
// identify a connected client to the hub's HTTP surface (SPEC_FULL.md §4.7),
// grounded on the teacher's user-facing JWT service
// (internal/controlplane/api/auth.JWTService) but carrying a device
// identity — MAC address plus machine id — instead of a username/role pair,
// since this traffic authenticates an unattended agent, not an operator.
package devicetoken

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Default token lifetime (spec.md §9 "device tokens are short-lived").
const defaultTokenDuration = 15 * time.Minute

var (
	ErrInvalidToken        = errors.New("devicetoken: invalid token")
	ErrExpiredToken        = errors.New("devicetoken: token has expired")
	ErrInvalidSecretLength = errors.New("devicetoken: signing secret must be at least 32 characters")
)

// Config configures a Service.
type Config struct {
	// Secret is the HMAC signing key. Must be at least 32 characters.
	Secret string
	// Issuer is the token issuer claim. Default: "arcadefleet-hub".
	Issuer string
	// TokenDuration is the access token lifetime. Default: 15 minutes.
	TokenDuration time.Duration
}

// Identity is the device identity a token asserts: the MAC address used for
// game-sync traffic, the machine id used for self-update traffic, or both.
type Identity struct {
	MACAddress string
	MachineID  string
}

// Claims are the JWT claims a device token carries.
type Claims struct {
	jwt.RegisteredClaims
	MACAddress string `json:"mac_address,omitempty"`
	MachineID  string `json:"machine_id,omitempty"`
}

// Identity extracts the Identity these claims assert.
func (c *Claims) Identity() Identity {
	return Identity{MACAddress: c.MACAddress, MachineID: c.MachineID}
}

// Service signs and validates device tokens.
type Service struct {
	cfg Config
}

// New builds a Service. The secret must be at least 32 characters.
func New(cfg Config) (*Service, error) {
	if len(cfg.Secret) < 32 {
		return nil, ErrInvalidSecretLength
	}
	if cfg.Issuer == "" {
		cfg.Issuer = "arcadefleet-hub"
	}
	if cfg.TokenDuration == 0 {
		cfg.TokenDuration = defaultTokenDuration
	}
	return &Service{cfg: cfg}, nil
}

// Issue mints a signed token asserting identity, valid for the service's
// configured TokenDuration.
func (s *Service) Issue(identity Identity) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(s.cfg.TokenDuration)

	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.cfg.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		MACAddress: identity.MACAddress,
		MachineID:  identity.MachineID,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.Secret))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("devicetoken: sign: %w", err)
	}
	return signed, expiresAt, nil
}

// Validate parses and verifies a device token, returning its claims.
func (s *Service) Validate(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.cfg.Secret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
