package auth

import (
	"errors"
	"fmt"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
)

// TokenTTL is the fixed lifetime of every issued token.
const TokenTTL = 24 * time.Hour

// Errors returned by TokenAuthority.
var (
	ErrTokenIssuance  = errors.New("token issuance failed")
	ErrMalformedToken = errors.New("malformed token")
	ErrTokenExpired   = errors.New("token expired")
)

// Claims describes JWT payload.
type Claims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// TokenAuthority issues and verifies HS256 tokens with one symmetric secret.
// Verification is stateless: any holder of the secret can check a token.
type TokenAuthority struct {
	secret []byte
	now    func() time.Time
	parser *jwt.Parser
}

// TokenOption customizes a TokenAuthority.
type TokenOption func(*TokenAuthority)

// WithClock replaces time.Now for issuance and expiry checks.
func WithClock(now func() time.Time) TokenOption {
	return func(ta *TokenAuthority) {
		ta.now = now
	}
}

// NewTokenAuthority builds an authority over secret.
func NewTokenAuthority(secret string, opts ...TokenOption) (*TokenAuthority, error) {
	if secret == "" {
		return nil, errors.New("token secret must not be empty")
	}

	ta := &TokenAuthority{secret: []byte(secret), now: time.Now}
	for _, opt := range opts {
		opt(ta)
	}

	ta.parser = jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(ta.now),
	)
	return ta, nil
}

// Issue signs a claim set for the subject that expires TokenTTL from now.
func (ta *TokenAuthority) Issue(subjectID, username string) (string, time.Time, error) {
	now := ta.now()
	expiresAt := now.Add(TokenTTL)
	claims := &Claims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subjectID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(ta.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("%w: %v", ErrTokenIssuance, err)
	}
	return tokenString, expiresAt, nil
}

// Verify checks signature, structure and expiry, in that order. A token whose
// signature fails is ErrMalformedToken even if it is also past its expiry.
func (ta *TokenAuthority) Verify(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := ta.parser.ParseWithClaims(tokenStr, claims, func(*jwt.Token) (interface{}, error) {
		return ta.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}
	if !parsed.Valid || claims.Subject == "" {
		return nil, ErrMalformedToken
	}
	return claims, nil
}
