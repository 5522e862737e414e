package cleanup

import (
	"log/slog"
	"media-pipeline/internal/core/port"
)

type cleanupService struct {
	uow    port.UnitOfWork
	store  port.ObjectStore
	audit  port.AuditLog
	logger *slog.Logger
}

// NewCleanupService creates a new cleanup service
func NewCleanupService(uow port.UnitOfWork, store port.ObjectStore, audit port.AuditLog, logger *slog.Logger) port.CleanupService {
	return &cleanupService{
		uow:    uow,
		store:  store,
		audit:  audit,
		logger: logger,
	}
}
