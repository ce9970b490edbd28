package auth

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"errors"
	"fmt"
	"os"
)

// GenerateKey creates a P-256 key for ES256 signing.
func GenerateKey() (*ecdsa.PrivateKey, error) {
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("failed to generate private key: %w", err)
	}
	return key, nil
}

// EncodeKeyPEM renders key as an "EC PRIVATE KEY" PEM block.
func EncodeKeyPEM(key *ecdsa.PrivateKey) ([]byte, error) {
	der, err := x509.MarshalECPrivateKey(key)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal private key: %w", err)
	}
	return pem.EncodeToMemory(&pem.Block{Type: "EC PRIVATE KEY", Bytes: der}), nil
}

// ParseKeyPEM parses a PEM encoded EC private key.
func ParseKeyPEM(data []byte) (*ecdsa.PrivateKey, error) {
	block, _ := pem.Decode(data)
	if block == nil {
		return nil, fmt.Errorf("failed to parse PEM block")
	}

	key, err := x509.ParseECPrivateKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("failed to parse EC private key: %w", err)
	}
	return key, nil
}

// LoadKey reads the signing key from path. An empty path, or a path that
// does not exist yet, yields a fresh key that lives only as long as the
// process; generated reports that case.
func LoadKey(path string) (key *ecdsa.PrivateKey, generated bool, err error) {
	if path == "" {
		key, err = GenerateKey()
		return key, true, err
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		key, err = GenerateKey()
		return key, true, err
	}
	if err != nil {
		return nil, false, fmt.Errorf("read key file: %w", err)
	}
	key, err = ParseKeyPEM(data)
	return key, false, err
}

// PublicJWK returns the JWK representation of the public half of key.
func PublicJWK(key *ecdsa.PrivateKey, kid string) map[string]interface{} {
	return map[string]interface{}{
		"kty": "EC",
		"crv": "P-256",
		"x":   base64.RawURLEncoding.EncodeToString(key.PublicKey.X.FillBytes(make([]byte, 32))),
		"y":   base64.RawURLEncoding.EncodeToString(key.PublicKey.Y.FillBytes(make([]byte, 32))),
		"use": "sig",
		"alg": "ES256",
		"kid": kid,
	}
}
