package offline

import "errors"

var (
	ErrUnknownKind    = errors.New("unknown offline action kind")
	ErrInvalidPayload = errors.New("invalid offline action payload")

	ErrActionNotFound  = errors.New("offline action not found")
	ErrDuplicateAction = errors.New("offline action already exists")
)
