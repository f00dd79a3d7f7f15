package respond

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"courier-engine/internal/handlers/rest/dto"
	"courier-engine/internal/pkg/locationfeed"
	"courier-engine/internal/service/delivery"
	"courier-engine/pkg/logger"
)

const (
	CodeBadRequest              = "bad_request"
	CodeGuardViolation          = "guard_violation"
	CodeInvalidInput            = "invalid_input"
	CodeCannotCancelAfterPickup = "cannot_cancel_after_pickup"
	CodeNavigationDebounced     = "navigation_debounced"
	CodeTokenMismatch           = "token_mismatch"
	CodeBackendRejected         = "backend_rejected"
	CodeTransportFailure        = "transport_failure"
	CodeUnavailable             = "unavailable"
	CodeTimeout                 = "timeout"
	CodeInternal                = "internal"
)

// invalidInput отказы из-за содержимого запроса, а не стадии доставки.
var invalidInput = []error{
	delivery.ErrIncompleteVerification,
	delivery.ErrInvalidUpdate,
	delivery.ErrInvalidToken,
	delivery.ErrInvalidTarget,
	delivery.ErrInvalidReason,
	delivery.ErrInvalidOrderID,
	delivery.ErrInvalidIssue,
	delivery.ErrInvalidSettings,
}

func JSON(w http.ResponseWriter, log handlerLogger, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	err := json.NewEncoder(w).Encode(body)
	if err != nil {
		log.With(
			logger.NewField("error", err),
		).Error("encode JSON response")
	}
}

func BadRequest(w http.ResponseWriter, log handlerLogger, message string) {
	JSON(w, log, http.StatusBadRequest, dto.ErrorResponse{Code: CodeBadRequest, Message: message})
}

// Error отвечает статусом по ошибке движка. Неизвестные ошибки логируются,
// клиенту уходит только код.
func Error(w http.ResponseWriter, log handlerLogger, err error) {
	status, code := Status(err)

	message := err.Error()
	switch {
	case status >= http.StatusInternalServerError && status != http.StatusBadGateway:
		log.With(logger.NewField("error", err)).Error("request failed")
		message = http.StatusText(status)
	case status == http.StatusBadGateway:
		log.With(logger.NewField("error", err)).Warn("backend unavailable")
	}

	JSON(w, log, status, dto.ErrorResponse{Code: code, Message: message})
}

func Status(err error) (int, string) {
	switch {
	case errors.Is(err, delivery.ErrCannotCancelAfterPickup):
		return http.StatusConflict, CodeCannotCancelAfterPickup
	case errors.Is(err, delivery.ErrNavigationDebounced):
		return http.StatusTooManyRequests, CodeNavigationDebounced
	case isInvalidInput(err):
		return http.StatusUnprocessableEntity, CodeInvalidInput
	case errors.Is(err, delivery.ErrGuardViolation):
		return http.StatusConflict, CodeGuardViolation
	case errors.Is(err, delivery.ErrTokenMismatch):
		return http.StatusForbidden, CodeTokenMismatch
	case errors.Is(err, delivery.ErrBackendRejected):
		return http.StatusConflict, CodeBackendRejected
	case errors.Is(err, delivery.ErrTransportFailure):
		return http.StatusBadGateway, CodeTransportFailure
	case errors.Is(err, delivery.ErrClosed), errors.Is(err, locationfeed.ErrClosed):
		return http.StatusServiceUnavailable, CodeUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, CodeTimeout
	default:
		return http.StatusInternalServerError, CodeInternal
	}
}

func isInvalidInput(err error) bool {
	for _, target := range invalidInput {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
