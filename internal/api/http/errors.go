package http

import (
	"errors"
	"net/http"

	"wardrobe-rental-backend/internal/domain"
	"wardrobe-rental-backend/internal/logger"
)

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Reason  string `json:"reason,omitempty"`
	Detail  string `json:"detail,omitempty"`
}

type errorMapping struct {
	status  int
	message string
	// detail exposes the error's own message. Only set for kinds whose messages are
	// written for customers.
	detail bool
}

var errorMappings = map[domain.ErrorKind]errorMapping{
	domain.ErrorKindInvalidWindow:          {http.StatusBadRequest, "The requested dates are invalid or outside the booking horizon.", true},
	domain.ErrorKindUnitUnavailable:        {http.StatusConflict, "The item is not available for the requested dates.", false},
	domain.ErrorKindReservationNotFound:    {http.StatusNotFound, "The reservation could not be found.", false},
	domain.ErrorKindIllegalStateTransition: {http.StatusConflict, "This action is not allowed for the reservation in its current state.", true},
	domain.ErrorKindPaymentFailed:          {http.StatusPaymentRequired, "The payment could not be completed.", false},
	domain.ErrorKindTaxServiceFailed:       {http.StatusBadGateway, "Tax could not be calculated right now. Please try again.", false},
	domain.ErrorKindPreconditionMissing:    {http.StatusUnprocessableEntity, "The reservation is missing information required to continue.", true},
	domain.ErrorKindNotFound:               {http.StatusNotFound, "The requested resource could not be found.", false},
	domain.ErrorKindInvalidArgument:        {http.StatusBadRequest, "The request is invalid.", true},
}

// writeError maps err onto a stable code and templated message. Unknown errors are
// logged and reported as internal_error.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var de *domain.Error
	if !errors.As(err, &de) {
		logger.ErrorContext(r.Context(), "Unhandled request error", "method", r.Method, "path", r.URL.Path, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]errorBody{"error": {
			Code:    "internal_error",
			Message: "An internal error occurred.",
		}})
		return
	}

	m, ok := errorMappings[de.Kind]
	if !ok {
		m = errorMapping{status: http.StatusInternalServerError, message: "An internal error occurred."}
	}
	body := errorBody{Code: string(de.Kind), Message: m.message, Reason: de.Reason}
	if m.detail {
		body.Detail = de.Message
	}
	if m.status >= http.StatusInternalServerError {
		logger.WarnContext(r.Context(), "Request failed", "method", r.Method, "path", r.URL.Path, "code", body.Code, "error", err)
	}
	writeJSON(w, m.status, map[string]errorBody{"error": body})
}

func badRequest(w http.ResponseWriter, r *http.Request, msg string) {
	writeError(w, r, domain.NewError(domain.ErrorKindInvalidArgument, msg))
}
