package service

import (
	"github.com/reqdesk/reqdesk/internal/adapter"
	"github.com/reqdesk/reqdesk/internal/config"
	"github.com/reqdesk/reqdesk/internal/logger"
	"github.com/reqdesk/reqdesk/internal/store"
)

// Services bundles every business-logic service for injection into the
// transport layer.
type Services struct {
	AuthService       AuthService
	UserService       UserService
	DepartmentService DepartmentService
	RequestService    RequestService
	CommentService    CommentService
	AttachmentService AttachmentService
	StatisticsService StatisticsService
}

// NewServices wires all services to their repositories and the EDS verifier.
func NewServices(storages *store.Storages, edsVerifier adapter.EDSVerifier, cfg config.StructuredConfig, logger *logger.Logger) *Services {
	authService := NewAuthService(storages.UserRepository, edsVerifier, cfg.App, logger)

	return &Services{
		AuthService:       authService,
		UserService:       NewUserService(storages.UserRepository, authService, logger),
		DepartmentService: NewDepartmentService(storages.DepartmentRepository, logger),
		RequestService:    NewRequestService(storages.RequestRepository, storages.DepartmentRepository, logger),
		CommentService:    NewCommentService(storages.CommentRepository, storages.RequestRepository, logger),
		AttachmentService: NewAttachmentService(storages.AttachmentRepository, storages.RequestRepository, storages.AttachmentFileStorage, cfg.Storage.Files, logger),
		StatisticsService: NewStatisticsService(storages.StatisticsRepository, logger),
	}
}
