package apikeys

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
)

const (
	tokenScheme  = "pk"
	prefixBytes  = 4
	secretBytes  = 24
	prefixLength = prefixBytes * 2
	secretLength = secretBytes * 2
)

func generateToken() (prefix, secret, token string, err error) {
	rawPrefix := make([]byte, prefixBytes)
	rawSecret := make([]byte, secretBytes)
	if _, err := rand.Read(rawPrefix); err != nil {
		return "", "", "", err
	}
	if _, err := rand.Read(rawSecret); err != nil {
		return "", "", "", err
	}
	prefix = hex.EncodeToString(rawPrefix)
	secret = hex.EncodeToString(rawSecret)
	return prefix, secret, fmt.Sprintf("%s_%s_%s", tokenScheme, prefix, secret), nil
}

// ParseToken splits pk_<prefix>_<secret> into its lookup prefix and secret.
func ParseToken(token string) (prefix, secret string, err error) {
	parts := strings.Split(strings.TrimSpace(token), "_")
	if len(parts) != 3 || parts[0] != tokenScheme {
		return "", "", ErrInvalidKey
	}
	if len(parts[1]) != prefixLength || len(parts[2]) != secretLength {
		return "", "", ErrInvalidKey
	}
	if _, err := hex.DecodeString(parts[1]); err != nil {
		return "", "", ErrInvalidKey
	}
	return parts[1], parts[2], nil
}
