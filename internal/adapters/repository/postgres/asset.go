package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"media-pipeline/internal/core/domain"
	"media-pipeline/internal/core/port"
	"time"

	"github.com/lib/pq"
)

const uniqueViolation = "23505"

const assetColumns = `id, owner_id, kind, role, s3_bucket, s3_key, original_filename, content_type,
       size_bytes, status, is_system, source_asset_id, source_deleted_at, created_at, updated_at, uploaded_at`

type sqlAssetRepository struct {
	db SQLQuerier
}

// NewSqlAssetRepository creates sqlAssetRepository that implements port.AssetRepository
func NewSqlAssetRepository(db SQLQuerier) port.AssetRepository {
	return &sqlAssetRepository{
		db: db,
	}
}

// Create inserts a new asset row and returns its id
func (s *sqlAssetRepository) Create(ctx context.Context, asset domain.Asset) (int64, error) {
	query := `INSERT INTO assets (owner_id, kind, role, s3_bucket, s3_key, original_filename, content_type,
                                  size_bytes, status, is_system, source_asset_id)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
              RETURNING id`

	var role sql.NullString
	if asset.Role != "" {
		role = sql.NullString{String: string(asset.Role), Valid: true}
	}

	var id int64
	err := s.db.QueryRowContext(ctx, query,
		asset.OwnerID, asset.Kind, role, asset.Bucket, asset.Key, asset.Filename, asset.ContentType,
		asset.SizeBytes, asset.Status, asset.IsSystem, asset.SourceAssetID,
	).Scan(&id)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return 0, fmt.Errorf("%w: asset %s/%s already exists", domain.ErrConflict, asset.Bucket, asset.Key)
		}
		return 0, fmt.Errorf("error inserting asset: %w", err)
	}
	return id, nil
}

// FindByID finds by id
func (s *sqlAssetRepository) FindByID(ctx context.Context, id int64) (*domain.Asset, error) {
	query := `SELECT ` + assetColumns + ` FROM assets WHERE id = $1`
	return s.findOne(ctx, query, id)
}

// FindByLocation finds the asset stored at bucket/key
func (s *sqlAssetRepository) FindByLocation(ctx context.Context, bucket, key string) (*domain.Asset, error) {
	query := `SELECT ` + assetColumns + ` FROM assets WHERE s3_bucket = $1 AND s3_key = $2`
	return s.findOne(ctx, query, bucket, key)
}

func (s *sqlAssetRepository) findOne(ctx context.Context, query string, args ...any) (*domain.Asset, error) {
	var dbAsset dbAsset
	if err := dbAsset.scan(s.db.QueryRowContext(ctx, query, args...)); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrAssetNotFound
		}
		return nil, err
	}
	return dbAsset.ToDomain(), nil
}

// MarkUploaded moves a signed asset to uploaded. Any other status is a conflict.
func (s *sqlAssetRepository) MarkUploaded(ctx context.Context, id int64, sizeBytes int64) error {
	query := `UPDATE assets
              SET status = 'uploaded', size_bytes = $2, uploaded_at = now(), updated_at = now()
              WHERE id = $1 AND status = 'signed'`

	result, err := s.db.ExecContext(ctx, query, id, sizeBytes)
	if err != nil {
		return fmt.Errorf("error updating asset status: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("error checking rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("%w: asset %d is not signed", domain.ErrInvalidStatusTransition, id)
	}

	return nil
}

// MarkSourceDeleted tombstones the asset. The first timestamp wins.
func (s *sqlAssetRepository) MarkSourceDeleted(ctx context.Context, id int64, at time.Time) error {
	query := `UPDATE assets
              SET source_deleted_at = COALESCE(source_deleted_at, $2), updated_at = now()
              WHERE id = $1`

	result, err := s.db.ExecContext(ctx, query, id, at)
	if err != nil {
		return fmt.Errorf("error tombstoning asset: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("error checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return domain.ErrAssetNotFound
	}
	return nil
}

// Delete hard deletes
func (s *sqlAssetRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM assets WHERE id = $1`

	result, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("error deleting asset: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("error checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return domain.ErrAssetNotFound
	}
	return nil
}

// FindStaleSigned finds signed assets created before the given time
func (s *sqlAssetRepository) FindStaleSigned(ctx context.Context, before time.Time) ([]domain.Asset, error) {
	query := `SELECT ` + assetColumns + `
              FROM assets
              WHERE status = 'signed' AND created_at < $1
              ORDER BY id`
	return s.findMany(ctx, query, before)
}

// ListDispatchable pages through assets of kind whose source is in place, by ascending id
func (s *sqlAssetRepository) ListDispatchable(ctx context.Context, kind domain.AssetKind, afterID int64, limit int) ([]domain.Asset, error) {
	query := `SELECT ` + assetColumns + `
              FROM assets
              WHERE kind = $1
                AND id > $2
                AND status IN ('uploaded', 'completed')
                AND source_deleted_at IS NULL
              ORDER BY id
              LIMIT $3`
	return s.findMany(ctx, query, kind, afterID, limit)
}

func (s *sqlAssetRepository) findMany(ctx context.Context, query string, args ...any) ([]domain.Asset, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying assets: %w", err)
	}
	defer rows.Close()

	assets := []domain.Asset{}
	for rows.Next() {
		var dbAsset dbAsset
		if err := dbAsset.scan(rows); err != nil {
			return nil, fmt.Errorf("error scanning asset: %w", err)
		}
		assets = append(assets, *dbAsset.ToDomain())
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating assets: %w", err)
	}

	return assets, nil
}

type scanner interface {
	Scan(dest ...any) error
}

// dbAsset represents an asset in DB
type dbAsset struct {
	ID              int64          `db:"id"`
	OwnerID         sql.NullInt64  `db:"owner_id"`
	Kind            string         `db:"kind"`
	Role            sql.NullString `db:"role"`
	Bucket          string         `db:"s3_bucket"`
	Key             string         `db:"s3_key"`
	Filename        string         `db:"original_filename"`
	ContentType     string         `db:"content_type"`
	SizeBytes       int64          `db:"size_bytes"`
	Status          string         `db:"status"`
	IsSystem        bool           `db:"is_system"`
	SourceAssetID   sql.NullInt64  `db:"source_asset_id"`
	SourceDeletedAt sql.NullTime   `db:"source_deleted_at"`
	CreatedAt       time.Time      `db:"created_at"`
	UpdatedAt       time.Time      `db:"updated_at"`
	UploadedAt      sql.NullTime   `db:"uploaded_at"`
}

func (a *dbAsset) scan(row scanner) error {
	return row.Scan(
		&a.ID,
		&a.OwnerID,
		&a.Kind,
		&a.Role,
		&a.Bucket,
		&a.Key,
		&a.Filename,
		&a.ContentType,
		&a.SizeBytes,
		&a.Status,
		&a.IsSystem,
		&a.SourceAssetID,
		&a.SourceDeletedAt,
		&a.CreatedAt,
		&a.UpdatedAt,
		&a.UploadedAt,
	)
}

// ToDomain converts to domain.Asset
func (a *dbAsset) ToDomain() *domain.Asset {
	asset := &domain.Asset{
		ID:          a.ID,
		Kind:        domain.AssetKind(a.Kind),
		Role:        domain.AssetRole(a.Role.String),
		Bucket:      a.Bucket,
		Key:         a.Key,
		Filename:    a.Filename,
		ContentType: a.ContentType,
		SizeBytes:   a.SizeBytes,
		Status:      domain.AssetStatus(a.Status),
		IsSystem:    a.IsSystem,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
	if !a.Role.Valid || a.Role.String == "" {
		asset.Role = domain.LegacyRoleFromKey(a.Key)
	}
	if a.OwnerID.Valid {
		asset.OwnerID = &a.OwnerID.Int64
	}
	if a.SourceAssetID.Valid {
		asset.SourceAssetID = &a.SourceAssetID.Int64
	}
	if a.SourceDeletedAt.Valid {
		asset.SourceDeletedAt = &a.SourceDeletedAt.Time
	}
	if a.UploadedAt.Valid {
		asset.UploadedAt = &a.UploadedAt.Time
	}
	return asset
}
