package uploadevent

import (
	"context"
	"encoding/json"
	"fmt"
	"media-pipeline/internal/core/domain"
	"net/url"
	"strings"
)

func (u *uploadEventService) HandleMessage(ctx context.Context, data []byte) error {
	var event domain.MinIOEvent

	if err := json.Unmarshal(data, &event); err != nil {
		return fmt.Errorf("%w: could not unmarshal upload event: %v", domain.ErrValidation, err)
	}
	if len(event.Records) == 0 {
		return fmt.Errorf("%w: no records in upload event", domain.ErrValidation)
	}

	for _, record := range event.Records {
		decodedKey, err := url.QueryUnescape(record.S3.Object.Key)
		if err != nil {
			return fmt.Errorf("%w: object key %q: %v", domain.ErrValidation, record.S3.Object.Key, err)
		}

		notification := domain.UploadNotification{
			EventName: record.EventName,
			EventType: eventTypeOf(record.EventName),
			Bucket:    record.S3.Bucket.Name,
			ObjectKey: decodedKey,
			Size:      record.S3.Object.Size,
			ETag:      record.S3.Object.ETag,
		}

		u.logger.Info("handling event", "eventtype", notification.EventName, "bucket", notification.Bucket, "key", decodedKey)

		if notification.EventType != domain.EventTypeObjectCreated {
			continue
		}
		if u.uploadBucket != "" && notification.Bucket != u.uploadBucket {
			continue
		}
		if !strings.HasPrefix(decodedKey, u.uploadPrefix) {
			continue
		}

		if err := u.ingestion.CompleteFromStorageEvent(ctx, notification); err != nil {
			return fmt.Errorf("complete %s: %w", decodedKey, err)
		}
	}
	return nil
}

func eventTypeOf(name string) domain.EventType {
	if strings.HasPrefix(name, "s3:ObjectCreated:") {
		return domain.EventTypeObjectCreated
	}
	return domain.EventTypeUnknown
}
