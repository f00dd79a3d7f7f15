package verification

import "errors"

var (
	ErrUnknownUpdate    = errors.New("unknown update")
	ErrInvalidCondition = errors.New("invalid package condition")
	ErrInvalidMedia     = errors.New("media reference must have id")
	ErrPhotoNotFound    = errors.New("photo not found")
	ErrDuplicatePhoto   = errors.New("photo already attached")
)
