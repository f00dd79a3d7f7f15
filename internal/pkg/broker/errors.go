package broker

import "errors"

var (
	ErrClosed             = errors.New("event broker closed")
	ErrSubscriptionClosed = errors.New("redis subscription closed")
)
