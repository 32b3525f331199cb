package http

import (
	"errors"
	"net/http"

	"github.com/reqdesk/reqdesk/internal/adapter"
	"github.com/reqdesk/reqdesk/internal/logger"
	"github.com/reqdesk/reqdesk/internal/service"
	"github.com/reqdesk/reqdesk/internal/store"
	"github.com/reqdesk/reqdesk/internal/utils"
)

var errorStatusMap = map[error]int{
	service.ErrInvalidDataProvided:     http.StatusBadRequest,
	service.ErrUserInactive:            http.StatusBadRequest,
	service.ErrWrongPassword:           http.StatusUnauthorized,
	service.ErrTokenIsExpiredOrInvalid: http.StatusUnauthorized,
	service.ErrPermissionDenied:        http.StatusForbidden,
	service.ErrRegistrationNotPending:  http.StatusForbidden,
	service.ErrAttachmentTooLarge:      http.StatusRequestEntityTooLarge,
	service.ErrTokenCreationFailed:     http.StatusInternalServerError,

	adapter.ErrInvalidSignature:    http.StatusUnauthorized,
	adapter.ErrVerifierUnavailable: http.StatusBadGateway,

	store.ErrEmailAlreadyExists:      http.StatusConflict,
	store.ErrIINAlreadyExists:        http.StatusConflict,
	store.ErrDepartmentAlreadyExists: http.StatusConflict,
	store.ErrNoUserWasFound:          http.StatusNotFound,
	store.ErrDepartmentNotFound:      http.StatusNotFound,
	store.ErrRequestNotFound:         http.StatusNotFound,
	store.ErrCommentNotFound:         http.StatusNotFound,
	store.ErrAttachmentNotFound:      http.StatusNotFound,
	store.ErrForeignKeyViolation:     http.StatusBadRequest,
	store.ErrNothingToUpdate:         http.StatusBadRequest,

	store.ErrBuildingSQLQuery:   http.StatusInternalServerError,
	store.ErrExecutingQuery:     http.StatusInternalServerError,
	store.ErrExecutingStatement: http.StatusInternalServerError,
	store.ErrScanningRow:        http.StatusInternalServerError,
	store.ErrScanningRows:       http.StatusInternalServerError,
}

func statusFromError(err error) int {
	for target, status := range errorStatusMap {
		if errors.Is(err, target) {
			return status
		}
	}
	return http.StatusInternalServerError
}

// errorResponse is the JSON body written for every failed handler call.
type errorResponse struct {
	Error string `json:"error"`
}

// writeError maps err to an HTTP status via the sentinel table, logs it and
// writes a JSON error body. Server-side failures get a generic message so
// that internals do not leak to clients.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	log := logger.FromRequest(r)

	status := statusFromError(err)
	log.Err(err).Int("status", status).Msg("request failed")

	message := err.Error()
	if status == http.StatusInternalServerError {
		message = http.StatusText(http.StatusInternalServerError)
	}

	utils.WriteJSON(w, errorResponse{Error: message}, status)
}
