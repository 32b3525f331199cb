package handler

import (
	"github.com/reqdesk/reqdesk/internal/config"
	"github.com/reqdesk/reqdesk/internal/handler/http"
	"github.com/reqdesk/reqdesk/internal/logger"
	"github.com/reqdesk/reqdesk/internal/service"
)

// Handlers bundles the transport handlers of the application. Only HTTP is
// served today; the struct keeps the door open for further transports.
type Handlers struct {
	HTTP *http.Handler
}

// NewHandlers creates the transport handlers enabled by the server
// configuration.
func NewHandlers(services *service.Services, cfg config.StructuredConfig, logger *logger.Logger) (*Handlers, error) {
	logger.Info().Msg("creating new handlers...")

	handlers := &Handlers{}

	if cfg.Server.HTTPAddress != "" {
		handlers.HTTP = http.NewHandler(services, cfg.App.Version, logger)
	}

	if handlers.HTTP == nil {
		return nil, errNoHandlersAreCreated
	}

	return handlers, nil
}
