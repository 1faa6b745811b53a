package domain

import "errors"

var (
	ErrInvalidArgument   = errors.New("invalid argument")
	ErrMalformedState    = errors.New("malformed persisted state")
	ErrSourceUnavailable = errors.New("product source unavailable")
	ErrNotFound          = errors.New("not found")
	ErrFeatureDisabled   = errors.New("feature disabled")
)
