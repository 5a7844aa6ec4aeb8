package http

import (
	"errors"
	"net/http"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/domain/model/outcome"
	"dispatch/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// StatusClientClosedRequest is reported when the caller went away or its deadline passed
// before the operation finished.
const StatusClientClosedRequest = 499

var reasonStatus = map[outcome.Reason]int{
	outcome.ReasonNotFound:               http.StatusNotFound,
	outcome.ReasonAgentAtCapacity:        http.StatusConflict,
	outcome.ReasonDeliveryAlreadyStarted: http.StatusConflict,
	outcome.ReasonAlreadyMember:          http.StatusConflict,
	outcome.ReasonAlreadyGrouped:         http.StatusConflict,
	outcome.ReasonInvalidTransition:      http.StatusUnprocessableEntity,
	outcome.ReasonCancelled:              StatusClientClosedRequest,
	outcome.ReasonBusy:                   http.StatusConflict,
}

// classify maps an error to its HTTP status and the reason reported to the client.
func classify(err error) (int, string) {
	if reason, ok := commands.ReasonFor(err); ok {
		return reasonStatus[reason], reason.String()
	}

	switch {
	case errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsOutOfRange):
		return http.StatusBadRequest, "InvalidRequest"
	default:
		return http.StatusInternalServerError, ""
	}
}

// errorResponse renders err. partial is attached when a multi-order operation stopped
// halfway so the caller still learns which orders landed.
func (s *Server) errorResponse(c echo.Context, err error, partial *outcome.AllocationOutcome) error {
	status, reason := classify(err)

	message := err.Error()
	if status == http.StatusInternalServerError {
		s.logger.ErrorContext(c.Request().Context(), "request failed",
			"method", c.Request().Method,
			"path", c.Path(),
			"error", err,
		)
		message = "internal error"
	}

	return c.JSON(status, Error{
		Code:    status,
		Reason:  reason,
		Message: message,
		Outcome: partial,
	})
}

func badRequest(c echo.Context, message string) error {
	return c.JSON(http.StatusBadRequest, Error{
		Code:    http.StatusBadRequest,
		Reason:  "InvalidRequest",
		Message: message,
	})
}
