package api

import (
	"net/http"

	"github.com/epccam/directory-api/internal/api/shared"
	"github.com/epccam/directory-api/internal/domain"
)

// Generic messages of the catch-all responses.
const (
	MsgBadRequest       = "Bad request"
	MsgNotFound         = "Resource not found"
	MsgMethodNotAllowed = "Method Not Allowed"
	MsgInvalidEntry     = "Invalid data entry"
	MsgInternal         = "Internal Server Error"
)

// StatusFor maps a domain error kind to its HTTP status code.
func StatusFor(kind domain.Kind) int {
	switch kind {
	case domain.KindValidation, domain.KindConflict:
		return http.StatusBadRequest
	case domain.KindInvalidPayload:
		return http.StatusConflict
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindUnauthorized:
		return http.StatusUnauthorized
	case domain.KindForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// HandleAPIError writes the envelope for err. The error member is the
// field→message map when err carries one and the status code otherwise.
// 5xx responses never expose the underlying cause.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error) {
	status := StatusFor(domain.KindOf(err))
	message := domain.MessageOf(err)
	if status >= http.StatusInternalServerError {
		message = MsgInternal
	}

	var detail any = status
	if fields := domain.FieldsOf(err); len(fields) > 0 {
		detail = fields
	}
	shared.RespondWithErrorAndLog(w, r, status, message, detail, err)
}

// NotFound answers requests for unknown routes.
func NotFound(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithError(w, r, http.StatusNotFound, MsgNotFound)
}

// MethodNotAllowed answers requests with a verb the route does not serve.
func MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithError(w, r, http.StatusMethodNotAllowed, MsgMethodNotAllowed)
}
