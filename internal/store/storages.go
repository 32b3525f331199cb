package store

import (
	"github.com/reqdesk/reqdesk/internal/config"
	"github.com/reqdesk/reqdesk/internal/logger"
)

// Storages bundles every repository and the attachment file storage for
// injection into the service layer.
type Storages struct {
	UserRepository        UserRepository
	DepartmentRepository  DepartmentRepository
	RequestRepository     RequestRepository
	CommentRepository     CommentRepository
	AttachmentRepository  AttachmentRepository
	StatisticsRepository  StatisticsRepository
	AttachmentFileStorage AttachmentFileStorage
}

// NewStorages constructs every repository on top of the shared database
// connection and initializes the filesystem attachment store.
func NewStorages(db *DB, cfg config.Storage, log *logger.Logger) (*Storages, error) {
	fileStorage, err := NewAttachmentFileStorage(cfg.Files, log)
	if err != nil {
		return nil, err
	}

	return &Storages{
		UserRepository:        NewUserRepository(db, log),
		DepartmentRepository:  NewDepartmentRepository(db, log),
		RequestRepository:     NewRequestRepository(db, log),
		CommentRepository:     NewCommentRepository(db, log),
		AttachmentRepository:  NewAttachmentRepository(db, log),
		StatisticsRepository:  NewStatisticsRepository(db, log),
		AttachmentFileStorage: fileStorage,
	}, nil
}
