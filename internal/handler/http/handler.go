package http

import (
	"net/http"

	"github.com/reqdesk/reqdesk/internal/logger"
	"github.com/reqdesk/reqdesk/internal/service"
	"github.com/reqdesk/reqdesk/internal/utils"
)

type Handler struct {
	services *service.Services

	version string

	logger *logger.Logger
}

func NewHandler(services *service.Services, version string, logger *logger.Logger) *Handler {
	logger.Info().Msg("http handler created")
	return &Handler{
		services: services,
		version:  version,
		logger:   logger,
	}
}

// callerFromRequest assembles the service.Caller from the values the auth
// middleware stored in the request context.
func callerFromRequest(r *http.Request) (service.Caller, bool) {
	ctx := r.Context()

	userID, ok := utils.GetUserIDFromContext(ctx)
	if !ok {
		return service.Caller{}, false
	}
	role, ok := utils.GetRoleFromContext(ctx)
	if !ok {
		return service.Caller{}, false
	}

	return service.Caller{UserID: userID, Role: role}, true
}
