// Package handoff mints the short-lived token a signed contract carries to
// the external checkout.
package handoff

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/blake2b"

	"github.com/primelife/signup/internal/wizard"
)

var (
	ErrInvalidToken = errors.New("invalid or expired checkout token")
	ErrMissingToken = errors.New("checkout token required")
)

// Claims are the checkout token claims. The signature itself never leaves
// the wizard; only its digest does.
type Claims struct {
	SessionID       string `json:"session"`
	PlanID          string `json:"plan"`
	Dependents      int    `json:"dependents"`
	SignatureDigest string `json:"signature_digest"`
	jwt.RegisteredClaims
}

// Issuer signs and validates checkout tokens with HS256.
type Issuer struct {
	secretKey     []byte
	tokenDuration time.Duration
	now           func() time.Time
}

// NewIssuer creates an Issuer. secretKey should be a strong random string;
// tokenDuration is how long checkout has to redeem a token.
func NewIssuer(secretKey string, tokenDuration time.Duration) *Issuer {
	return &Issuer{
		secretKey:     []byte(secretKey),
		tokenDuration: tokenDuration,
		now:           time.Now,
	}
}

// Issue creates a token for a contract signed in session sessionID.
func (i *Issuer) Issue(sessionID string, c wizard.SignedContract) (string, error) {
	now := i.now()
	claims := &Claims{
		SessionID:       sessionID,
		PlanID:          c.Plan.ID,
		Dependents:      len(c.Dependents),
		SignatureDigest: SignatureDigest(c.Signature),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sessionID,
			ExpiresAt: jwt.NewNumericDate(now.Add(i.tokenDuration)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(i.secretKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return tokenString, nil
}

// Validate parses and validates a checkout token, returning its claims.
func (i *Issuer) Validate(tokenString string) (*Claims, error) {
	if tokenString == "" {
		return nil, ErrMissingToken
	}
	token, err := jwt.ParseWithClaims(
		tokenString,
		&Claims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return i.secretKey, nil
		},
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// Navigator returns a wizard.Navigator that hands session sessionID off to
// base with a fresh token.
func (i *Issuer) Navigator(base, sessionID string) wizard.Navigator {
	return func(_ context.Context, c wizard.SignedContract) (string, error) {
		token, err := i.Issue(sessionID, c)
		if err != nil {
			return "", err
		}
		return CheckoutURL(base, token)
	}
}

// CheckoutURL adds token to base's query, keeping existing parameters.
func CheckoutURL(base, token string) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("invalid checkout URL: %w", err)
	}
	q := u.Query()
	q.Set("token", token)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// SignatureDigest returns the hex BLAKE2b-256 digest of a signature artifact.
func SignatureDigest(signature string) string {
	sum := blake2b.Sum256([]byte(signature))
	return hex.EncodeToString(sum[:])
}
