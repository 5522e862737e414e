// Package cloudfront signs canned-policy CloudFront URLs so the edge can serve artifacts
// without going back to the object store.
package cloudfront

import (
	"context"
	"crypto/rsa"
	"fmt"
	"log/slog"
	"media-pipeline/internal/config"
	"media-pipeline/internal/core/domain"
	"net/url"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/cloudfront/sign"
)

type Signer struct {
	domain string
	signer *sign.URLSigner
	logger *slog.Logger
}

// NewSigner loads the PEM private key from cfg.CloudFrontPrivateKey
func NewSigner(cfg config.DeliveryConfig, logger *slog.Logger) (*Signer, error) {
	key, err := sign.LoadPEMPrivKeyFile(cfg.CloudFrontPrivateKey)
	if err != nil {
		return nil, fmt.Errorf("failed to load cloudfront private key: %w", err)
	}
	return NewSignerWithKey(cfg.CloudFrontDomain, cfg.CloudFrontKeyPairID, key, logger), nil
}

func NewSignerWithKey(distributionDomain, keyPairID string, key *rsa.PrivateKey, logger *slog.Logger) *Signer {
	return &Signer{
		domain: strings.TrimSuffix(strings.TrimPrefix(strings.TrimPrefix(distributionDomain, "https://"), "http://"), "/"),
		signer: sign.NewURLSigner(keyPairID, key),
		logger: logger,
	}
}

// Sign returns https://<domain>/<key>?Expires=..&Signature=..&Key-Pair-Id=..
// The distribution maps the bucket to its origin, so bucket is not part of the path.
func (s *Signer) Sign(_ context.Context, bucket, key string, expiresAt time.Time) (string, error) {
	if key == "" {
		return "", fmt.Errorf("%w: empty key", domain.ErrValidation)
	}

	resource := (&url.URL{Scheme: "https", Host: s.domain, Path: "/" + key}).String()
	signed, err := s.signer.Sign(resource, expiresAt)
	if err != nil {
		return "", fmt.Errorf("failed to sign cloudfront url: %w", err)
	}

	s.logger.Debug("delivery url signed",
		slog.String("bucket", bucket),
		slog.String("key", key),
		slog.Time("expires_at", expiresAt))

	return signed, nil
}
