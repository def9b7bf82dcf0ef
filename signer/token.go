package signer

import (
	"crypto/ed25519"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"ticketescrow/entities"
)

var ErrInvalidToken = errors.New("invalid signer token")

const DefaultTokenTTL = 15 * time.Minute

// IssueToken signs a token whose subject is the keypair address.
func IssueToken(k Keypair, ttl time.Duration, now time.Time) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:   k.Address().String(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodEdDSA, claims).SignedString(k.private)
	if err != nil {
		return "", fmt.Errorf("could not sign token: %w", err)
	}

	return signed, nil
}

// Verify returns the address that signed raw. The signature is checked against
// the subject itself, so no key registry is needed.
func Verify(raw string) (entities.Address, error) {
	claims := &jwt.RegisteredClaims{}

	_, err := jwt.ParseWithClaims(
		raw,
		claims,
		func(t *jwt.Token) (any, error) {
			subject, err := t.Claims.GetSubject()
			if err != nil {
				return nil, err
			}

			addr, err := entities.ParseAddress(subject)
			if err != nil {
				return nil, err
			}

			return ed25519.PublicKey(addr.Bytes()), nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodEdDSA.Alg()}),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return entities.Address{}, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	return entities.ParseAddress(claims.Subject)
}
