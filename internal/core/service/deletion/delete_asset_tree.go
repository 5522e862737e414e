package deletion

import (
	"context"
	"fmt"
	"media-pipeline/internal/core/artifactkey"
	"media-pipeline/internal/core/domain"

	"golang.org/x/sync/errgroup"
)

type target struct {
	bucket string
	prefix string
	// exact keeps only the listed key equal to prefix
	exact bool
}

// DeleteAssetTree clears every object belonging to asset. The upload bucket and the output
// bucket are cleared concurrently; prefixes inside a bucket run one after the other.
// A failure stops the prefix it happened in and nothing else.
func (s *deletionService) DeleteAssetTree(ctx context.Context, asset domain.Asset) (*domain.DeletionReport, error) {
	sourcePrefix, exact := artifactkey.SourcePrefix(s.cfg.UploadPrefix, asset.Key)
	sourceGroup := []target{{bucket: asset.Bucket, prefix: sourcePrefix, exact: exact}}
	for _, prefix := range artifactkey.ArtifactPrefixes(asset.ID) {
		sourceGroup = append(sourceGroup, target{bucket: asset.Bucket, prefix: prefix})
	}

	var renderedGroup []target
	if s.cfg.OutputBucket != "" {
		renderedGroup = []target{{bucket: s.cfg.OutputBucket, prefix: artifactkey.RenderedPrefix(asset.ID)}}
	}

	sourceReports := make([]domain.PrefixReport, len(sourceGroup))
	renderedReports := make([]domain.PrefixReport, len(renderedGroup))

	// the group never returns an error, failures are collected per prefix
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		for i, t := range sourceGroup {
			sourceReports[i] = s.clearPrefix(gctx, t)
		}
		return nil
	})
	g.Go(func() error {
		for i, t := range renderedGroup {
			renderedReports[i] = s.clearPrefix(gctx, t)
		}
		return nil
	})
	_ = g.Wait()

	report := &domain.DeletionReport{AssetID: asset.ID}
	for _, pr := range append(sourceReports, renderedReports...) {
		report.Deleted += pr.Deleted
		report.Errors = append(report.Errors, pr.Errors...)
		report.Prefixes = append(report.Prefixes, pr)
	}

	s.logger.Info("asset tree deleted", "asset_id", asset.ID, "deleted", report.Deleted, "errors", len(report.Errors))
	if !report.Clean() {
		return report, fmt.Errorf("%w: asset %d: %d errors", domain.ErrPartialDeletion, asset.ID, len(report.Errors))
	}
	return report, nil
}

// clearPrefix lists and deletes one prefix page by page
func (s *deletionService) clearPrefix(ctx context.Context, t target) domain.PrefixReport {
	pr := domain.PrefixReport{Bucket: t.bucket, Prefix: t.prefix}
	token := ""
	for {
		page, err := s.store.ListPage(ctx, t.bucket, t.prefix, token, s.cfg.PageSize)
		if err != nil {
			s.logger.Error("failed to list prefix", "error", err, "bucket", t.bucket, "prefix", t.prefix)
			pr.Errors = append(pr.Errors, fmt.Sprintf("list:%s:%s:%v", t.bucket, t.prefix, err))
			return pr
		}

		keys := page.Keys
		if t.exact {
			keys = onlyKey(keys, t.prefix)
		}

		for start := 0; start < len(keys); start += s.cfg.BatchSize {
			end := min(start+s.cfg.BatchSize, len(keys))
			batch := keys[start:end]
			if err := s.store.DeleteBatch(ctx, t.bucket, batch); err != nil {
				s.logger.Error("failed to delete batch", "error", err, "bucket", t.bucket, "prefix", t.prefix, "size", len(batch))
				pr.Errors = append(pr.Errors, fmt.Sprintf("delete:%s:%s:%v", t.bucket, t.prefix, err))
				return pr
			}
			pr.Deleted += len(batch)
			pr.Batches++
		}

		if !page.Truncated || page.NextContinuationToken == "" {
			return pr
		}
		token = page.NextContinuationToken
	}
}

func onlyKey(keys []string, key string) []string {
	for _, k := range keys {
		if k == key {
			return []string{k}
		}
	}
	return nil
}
