package salary

import "errors"

var (
	ErrInvalidRole    = errors.New("invalid role")
	ErrInvalidInput   = errors.New("invalid input")
	ErrConfiguration  = errors.New("invalid salary configuration")
	ErrConfigNotFound = errors.New("salary configuration not found")
)
