package port

import (
	"context"
	"time"
)

// CleanupService is service that handles cleanup
type CleanupService interface {
	CleanupStaleUploads(ctx context.Context, before time.Time) error
}
