// Package auth issues and checks the bearer tokens that bind a player to one
// side of one game.
package auth

import (
	"crypto/ecdsa"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/justinabrahms/zombiechess/internal/chess"
)

const issuerName = "zombiechess"

var (
	ErrInvalidToken = errors.New("invalid player token")
	ErrWrongGame    = errors.New("token was issued for another game")
)

// PlayerClaims are the claims of a player token.
type PlayerClaims struct {
	GameID string     `json:"gid"`
	Side   chess.Side `json:"side"`
	jwt.RegisteredClaims
}

// Issuer signs and verifies player tokens with one ES256 key.
type Issuer struct {
	key *ecdsa.PrivateKey
	ttl time.Duration
	now func() time.Time
}

func NewIssuer(key *ecdsa.PrivateKey, ttl time.Duration) *Issuer {
	return &Issuer{key: key, ttl: ttl, now: time.Now}
}

// Issue returns a signed token for side of game gameID.
func (i *Issuer) Issue(gameID string, side chess.Side) (string, error) {
	now := i.now()
	claims := PlayerClaims{
		GameID: gameID,
		Side:   side,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuerName,
			Subject:   gameID + ":" + side.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
			ID:        uuid.NewString(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodES256, claims)
	signed, err := token.SignedString(i.key)
	if err != nil {
		return "", fmt.Errorf("failed to sign player token: %w", err)
	}
	return signed, nil
}

// Verify checks the signature, expiry and issuer of raw and that it belongs
// to gameID.
func (i *Issuer) Verify(raw, gameID string) (*PlayerClaims, error) {
	claims := &PlayerClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (interface{}, error) {
		return &i.key.PublicKey, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodES256.Alg()}),
		jwt.WithIssuer(issuerName),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if claims.GameID != gameID {
		return nil, ErrWrongGame
	}
	return claims, nil
}
