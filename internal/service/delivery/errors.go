package delivery

import (
	"errors"
	"fmt"
)

// ErrGuardViolation общий предок локальных отказов: действие не выполнено,
// сетевых вызовов не было, состояние не изменилось.
var ErrGuardViolation = errors.New("guard violation")

var (
	ErrWrongStage             = fmt.Errorf("%w: action not allowed in current stage", ErrGuardViolation)
	ErrOutsideGeofence        = fmt.Errorf("%w: courier is outside the geofence", ErrGuardViolation)
	ErrIncompleteVerification = fmt.Errorf("%w: verification is incomplete", ErrGuardViolation)
	ErrLocationUnavailable    = fmt.Errorf("%w: current location is unavailable", ErrGuardViolation)
	ErrNoActiveOrder          = fmt.Errorf("%w: no active order", ErrGuardViolation)
	ErrInvalidTarget          = fmt.Errorf("%w: invalid target", ErrGuardViolation)
	ErrInvalidToken           = fmt.Errorf("%w: token must be 6 characters", ErrGuardViolation)
	ErrInvalidUpdate          = fmt.Errorf("%w: invalid verification update", ErrGuardViolation)
	ErrNavigationDebounced    = fmt.Errorf("%w: navigation restarted too soon", ErrGuardViolation)
	ErrInvalidReason          = fmt.Errorf("%w: invalid cancel reason", ErrGuardViolation)
	ErrInvalidOrderID         = fmt.Errorf("%w: invalid order id", ErrGuardViolation)
	ErrInvalidIssue           = fmt.Errorf("%w: issue category is required", ErrGuardViolation)
	ErrInvalidSettings        = fmt.Errorf("%w: invalid discovery settings", ErrGuardViolation)
	ErrOffline                = fmt.Errorf("%w: courier is offline", ErrGuardViolation)
)

var (
	// отдельная ошибка, в UI показывается как "обратитесь в поддержку"
	ErrCannotCancelAfterPickup = errors.New("cannot cancel after pickup")

	ErrTransportFailure = errors.New("backend transport failure")
	ErrBackendRejected  = errors.New("backend rejected request")
	ErrTokenMismatch    = errors.New("delivery token mismatch")

	ErrStateNotFound  = errors.New("delivery state not found")
	ErrAlreadyStarted = errors.New("engine already started")
	ErrClosed         = errors.New("engine closed")
)
