package apikeys

import "errors"

var (
	ErrKeyNotFound = errors.New("api key not found")
	ErrInvalidKey  = errors.New("invalid api key")
	ErrKeyRevoked  = errors.New("api key revoked")
	ErrInvalidName = errors.New("api key name is required")
)
