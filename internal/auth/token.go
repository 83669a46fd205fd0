package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const tokenTTL = 24 * time.Hour

var (
	ErrTokenExpired = errors.New("token has expired")
	ErrTokenInvalid = errors.New("invalid token")
)

// hostClaims is the internal claims type used for JWT signing and parsing.
type hostClaims struct {
	jwt.RegisteredClaims
	HostID string `json:"host_id"`
	Email  string `json:"email"`
}

// TokenIssuer mints and verifies host session tokens with an HMAC secret.
type TokenIssuer struct {
	secret []byte
	now    func() time.Time
}

func NewTokenIssuer(secret string) *TokenIssuer {
	return &TokenIssuer{
		secret: []byte(secret),
		now:    time.Now,
	}
}

// Mint signs a 24h token for the given host.
func (t *TokenIssuer) Mint(hostID, email string) (string, error) {
	now := t.now()
	claims := hostClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
		},
		HostID: hostID,
		Email:  email,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify parses and validates a token, returning the host id it carries.
// Expired tokens are distinguished from otherwise-invalid ones so the
// handler can report which it was.
func (t *TokenIssuer) Verify(token string) (string, error) {
	var claims hostClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(token *jwt.Token) (any, error) {
		return t.secret, nil
	},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithTimeFunc(func() time.Time { return t.now() }),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrTokenExpired
		}
		return "", ErrTokenInvalid
	}
	if claims.HostID == "" {
		return "", ErrTokenInvalid
	}
	return claims.HostID, nil
}
