package minio

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"media-pipeline/internal/config"
	"media-pipeline/internal/core/domain"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Adapter is an adapter for minio implementing port.ObjectStore
type Adapter struct {
	client *minio.Client
	core   *minio.Core
	config config.MinioConfig
	logger *slog.Logger
}

// NewAdapter returns Adapter, creating the given buckets when missing
func NewAdapter(ctx context.Context, cfg config.MinioConfig, buckets []string, logger *slog.Logger) (*Adapter, error) {
	if cfg.CallTimeout <= 0 {
		cfg.CallTimeout = 5 * time.Second
	}
	if cfg.MaxTries == 0 {
		cfg.MaxTries = 1
	}

	transport, err := newTransport(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create minio transport: %w", err)
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:     credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure:    cfg.UseSSL,
		Transport: transport,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	for _, bucket := range buckets {
		if bucket == "" {
			continue
		}
		exists, err := client.BucketExists(ctx, bucket)
		if err != nil {
			return nil, fmt.Errorf("failed to check if bucket %s exists: %w", bucket, err)
		}
		if !exists {
			if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
				return nil, fmt.Errorf("failed to create bucket %s: %w", bucket, err)
			}
		}
	}

	core := minio.Core{Client: client}
	return &Adapter{client: client, config: cfg, core: &core, logger: logger}, nil
}

// newTransport bounds the wait for response headers by the call timeout. Calls without a
// context, like Core.ListObjectsV2, cannot hang longer than that. Bodies are not bounded.
func newTransport(cfg config.MinioConfig) (*http.Transport, error) {
	transport, err := minio.DefaultTransport(cfg.UseSSL)
	if err != nil {
		return nil, err
	}
	transport.ResponseHeaderTimeout = cfg.CallTimeout
	return transport, nil
}

// classify maps a storage error to a domain error. Missing objects and rejected requests
// are permanent, anything else is worth another try.
func classify(op, bucket, key string, err error) error {
	if err == nil {
		return nil
	}
	resp := minio.ToErrorResponse(err)
	switch {
	case resp.StatusCode == http.StatusNotFound || resp.Code == "NoSuchKey":
		return backoff.Permanent(fmt.Errorf("%w: %s/%s", domain.ErrObjectNotFound, bucket, key))
	case resp.StatusCode == http.StatusForbidden || resp.StatusCode == http.StatusBadRequest:
		return backoff.Permanent(fmt.Errorf("%w: %s %s/%s: %w", domain.ErrUpstreamUnavailable, op, bucket, key, err))
	}
	return fmt.Errorf("%w: %s %s/%s: %w", domain.ErrUpstreamUnavailable, op, bucket, key, err)
}

// retry runs op with a per-attempt timeout and exponential backoff between attempts
func retry[T any](ctx context.Context, a *Adapter, op func(ctx context.Context) (T, error)) (T, error) {
	return backoff.Retry(ctx, func() (T, error) {
		callCtx, cancel := context.WithTimeout(ctx, a.config.CallTimeout)
		defer cancel()
		return op(callCtx)
	}, backoff.WithBackOff(backoff.NewExponentialBackOff()), backoff.WithMaxTries(a.config.MaxTries))
}

// Head retrieves object info. A missing object is domain.ErrObjectNotFound.
func (a *Adapter) Head(ctx context.Context, bucket, key string) (*domain.ObjectInfo, error) {
	return retry(ctx, a, func(ctx context.Context) (*domain.ObjectInfo, error) {
		info, err := a.client.StatObject(ctx, bucket, key, minio.StatObjectOptions{})
		if err != nil {
			return nil, classify("head", bucket, key, err)
		}
		return &domain.ObjectInfo{
			Bucket:       bucket,
			Key:          info.Key,
			Size:         info.Size,
			ETag:         strings.Trim(info.ETag, "\""),
			ContentType:  info.ContentType,
			LastModified: info.LastModified,
		}, nil
	})
}

// Open streams an object. rangeHeader is forwarded as the Range header when set.
// The body outlives this call, so only the caller context bounds it.
func (a *Adapter) Open(ctx context.Context, bucket, key, rangeHeader string) (*domain.ObjectStream, error) {
	opts := minio.GetObjectOptions{}
	if rangeHeader != "" {
		opts.Set("Range", rangeHeader)
	}

	body, info, headers, err := a.core.GetObject(ctx, bucket, key, opts)
	if err != nil {
		return nil, classifyFinal("open", bucket, key, err)
	}

	contentRange := headers.Get("Content-Range")
	return &domain.ObjectStream{
		Body:         body,
		Size:         info.Size,
		ContentType:  info.ContentType,
		ContentRange: contentRange,
		ETag:         strings.Trim(info.ETag, "\""),
		LastModified: info.LastModified,
		Partial:      contentRange != "",
	}, nil
}

// PresignPost generates a browser POST policy scoped to one exact key
func (a *Adapter) PresignPost(ctx context.Context, p domain.PostPolicy) (*domain.PresignedPost, error) {
	policy := minio.NewPostPolicy()
	if err := policy.SetBucket(p.Bucket); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrValidation, err)
	}
	if err := policy.SetKey(p.Key); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrValidation, err)
	}
	if err := policy.SetExpires(p.ExpiresAt.UTC()); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrValidation, err)
	}
	if p.ContentTypePrefix != "" {
		if err := policy.SetContentTypeStartsWith(p.ContentTypePrefix); err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrValidation, err)
		}
	}
	if err := policy.SetContentLengthRange(p.MinSizeBytes, p.MaxSizeBytes); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrValidation, err)
	}

	callCtx, cancel := context.WithTimeout(ctx, a.config.CallTimeout)
	defer cancel()

	u, fields, err := a.client.PresignedPostPolicy(callCtx, policy)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to presign post policy: %w", domain.ErrUpstreamUnavailable, err)
	}
	return &domain.PresignedPost{URL: u.String(), Fields: fields}, nil
}

// PresignGet generates a presigned URL for downloading an object
func (a *Adapter) PresignGet(ctx context.Context, bucket, key string, ttl time.Duration) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, a.config.CallTimeout)
	defer cancel()

	presignedURL, err := a.client.PresignedGetObject(callCtx, bucket, key, ttl, nil)
	if err != nil {
		return "", fmt.Errorf("%w: failed to generate presigned download URL: %w", domain.ErrUpstreamUnavailable, err)
	}
	return presignedURL.String(), nil
}

type listResult struct {
	page *domain.ObjectPage
	err  error
}

// ListPage lists one page of keys under prefix
func (a *Adapter) ListPage(ctx context.Context, bucket, prefix, continuationToken string, maxKeys int) (*domain.ObjectPage, error) {
	if maxKeys <= 0 || maxKeys > 1000 {
		maxKeys = 1000 //max size for minio
	}

	return retry(ctx, a, func(ctx context.Context) (*domain.ObjectPage, error) {
		// Core.ListObjectsV2 takes no context. The select bounds the wait and the
		// transport header timeout bounds the abandoned goroutine.
		done := make(chan listResult, 1)
		go func() {
			res, err := a.core.ListObjectsV2(bucket, prefix, "", continuationToken, "", maxKeys)
			if err != nil {
				done <- listResult{err: err}
				return
			}
			page := &domain.ObjectPage{
				Keys:                  make([]string, 0, len(res.Contents)),
				NextContinuationToken: res.NextContinuationToken,
				Truncated:             res.IsTruncated,
			}
			for _, obj := range res.Contents {
				page.Keys = append(page.Keys, obj.Key)
			}
			done <- listResult{page: page}
		}()

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: list %s/%s: %w", domain.ErrUpstreamUnavailable, bucket, prefix, ctx.Err())
		case res := <-done:
			if res.err != nil {
				resp := minio.ToErrorResponse(res.err)
				if resp.StatusCode == http.StatusForbidden || resp.Code == "NoSuchBucket" {
					return nil, backoff.Permanent(fmt.Errorf("%w: list %s/%s: %w", domain.ErrUpstreamUnavailable, bucket, prefix, res.err))
				}
				return nil, fmt.Errorf("%w: list %s/%s: %w", domain.ErrUpstreamUnavailable, bucket, prefix, res.err)
			}
			return res.page, nil
		}
	})
}

// DeleteBatch removes keys in one multi-object delete. The first per-key failure is returned.
func (a *Adapter) DeleteBatch(ctx context.Context, bucket string, keys []string) error {
	if len(keys) == 0 {
		return nil
	}

	callCtx, cancel := context.WithTimeout(ctx, a.config.CallTimeout)
	defer cancel()

	objects := make(chan minio.ObjectInfo, len(keys))
	for _, key := range keys {
		objects <- minio.ObjectInfo{Key: key}
	}
	close(objects)

	var errs []error
	for rmErr := range a.client.RemoveObjects(callCtx, bucket, objects, minio.RemoveObjectsOptions{}) {
		if rmErr.Err == nil || minio.ToErrorResponse(rmErr.Err).Code == "NoSuchKey" {
			continue
		}
		errs = append(errs, fmt.Errorf("%s: %w", rmErr.ObjectName, rmErr.Err))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %d of %d keys failed: %w", domain.ErrUpstreamUnavailable, len(errs), len(keys), errs[0])
	}

	a.logger.Debug("objects deleted", slog.String("bucket", bucket), slog.Int("count", len(keys)))
	return nil
}

// DeleteObject deletes an object from storage
func (a *Adapter) DeleteObject(ctx context.Context, bucket, key string) error {
	callCtx, cancel := context.WithTimeout(ctx, a.config.CallTimeout)
	defer cancel()

	err := a.client.RemoveObject(callCtx, bucket, key, minio.RemoveObjectOptions{})
	if err != nil {
		return classifyFinal("delete", bucket, key, err)
	}

	a.logger.Info("object deleted",
		slog.String("key", key),
		slog.String("bucket", bucket))

	return nil
}

// classifyFinal is classify for calls that are not retried
func classifyFinal(op, bucket, key string, err error) error {
	err = classify(op, bucket, key, err)
	var permanent *backoff.PermanentError
	if errors.As(err, &permanent) {
		return permanent.Unwrap()
	}
	return err
}
