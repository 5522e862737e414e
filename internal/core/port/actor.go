package port

import (
	"context"
	"media-pipeline/internal/core/domain"
)

// ActorRepository resolves users and their permissions
type ActorRepository interface {
	FindByID(ctx context.Context, id int64) (*domain.Actor, error)
}

// AccessGate decides whether an actor may use an asset
type AccessGate interface {
	Authorize(ctx context.Context, actorID int64, asset domain.Asset, need domain.Capability) (domain.Grant, error)
	HasPermission(ctx context.Context, actorID int64, permission string) (bool, error)
}
