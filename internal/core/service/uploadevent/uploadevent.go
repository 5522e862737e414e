package uploadevent

import (
	"log/slog"
	"media-pipeline/internal/core/port"
)

type uploadEventService struct {
	ingestion    port.IngestionService
	uploadBucket string
	uploadPrefix string
	logger       *slog.Logger
}

// NewUploadEventService creates a handler for storage upload notifications
func NewUploadEventService(ingestion port.IngestionService, uploadBucket, uploadPrefix string, logger *slog.Logger) port.MessageService {
	return &uploadEventService{
		ingestion:    ingestion,
		uploadBucket: uploadBucket,
		uploadPrefix: uploadPrefix,
		logger:       logger,
	}
}
