package types

import "errors"

// Domain errors for type validation
var (
	ErrInvalidPayloadID = errors.New("invalid payload ID")
	ErrEmptyContent     = errors.New("content cannot be empty")
)
