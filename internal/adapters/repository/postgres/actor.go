package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"media-pipeline/internal/core/domain"
	"media-pipeline/internal/core/port"
)

type sqlActorRepository struct {
	db SQLQuerier
}

// NewSqlActorRepository creates sqlActorRepository that implements port.ActorRepository
func NewSqlActorRepository(db SQLQuerier) port.ActorRepository {
	return &sqlActorRepository{
		db: db,
	}
}

// FindByID resolves a user and the permissions granted through its roles
func (s *sqlActorRepository) FindByID(ctx context.Context, id int64) (*domain.Actor, error) {
	var email string
	err := s.db.QueryRowContext(ctx, `SELECT email FROM users WHERE id = $1`, id).Scan(&email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrActorNotFound
		}
		return nil, err
	}

	query := `SELECT DISTINCT p.name
              FROM user_roles ur
              JOIN role_permissions rp ON rp.role_id = ur.role_id
              JOIN permissions p ON p.id = rp.permission_id
              WHERE ur.user_id = $1`

	rows, err := s.db.QueryContext(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("error querying permissions: %w", err)
	}
	defer rows.Close()

	var permissions []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("error scanning permission: %w", err)
		}
		permissions = append(permissions, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating permissions: %w", err)
	}

	return domain.NewActor(id, email, permissions), nil
}
