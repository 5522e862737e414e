package access

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"media-pipeline/internal/core/domain"
	"media-pipeline/internal/core/port"
)

type gate struct {
	actors port.ActorRepository
	logger *slog.Logger
}

// NewAccessGate creates the access gate
func NewAccessGate(actors port.ActorRepository, logger *slog.Logger) port.AccessGate {
	return &gate{actors: actors, logger: logger}
}

// Evaluate applies the access rules in priority order:
//  1. system-shared asset, read, resolvable actor: shared read
//  2. owner: owner
//  3. manage-any-asset permission: admin
//  4. anything else: denied
//
// A nil actor is an unresolvable actor and is always denied.
func Evaluate(actor *domain.Actor, asset domain.Asset, need domain.Capability) domain.Grant {
	if actor == nil || actor.ID <= 0 {
		return domain.Denied
	}
	if asset.IsSystem && need == domain.CapabilityRead {
		return domain.Grant{Kind: domain.GrantSharedRead}
	}
	if asset.OwnedBy(actor.ID) {
		return domain.Grant{Kind: domain.GrantOwner}
	}
	if actor.Has(domain.PermissionManageAnyAsset) {
		return domain.Grant{Kind: domain.GrantAdmin}
	}
	return domain.Denied
}

// Authorize resolves the actor and evaluates the rules. The error is only set when the
// actor store failed; callers must treat it as a deny.
func (g *gate) Authorize(ctx context.Context, actorID int64, asset domain.Asset, need domain.Capability) (domain.Grant, error) {
	if actorID <= 0 {
		return domain.Denied, nil
	}

	actor, err := g.actors.FindByID(ctx, actorID)
	if err != nil {
		if errors.Is(err, domain.ErrActorNotFound) {
			g.logger.Warn("unknown actor denied", "actor_id", actorID, "asset_id", asset.ID)
			return domain.Denied, nil
		}
		return domain.Denied, fmt.Errorf("%w: resolve actor: %w", domain.ErrUpstreamUnavailable, err)
	}

	return Evaluate(actor, asset, need), nil
}

// HasPermission checks an elevated capability. Manage-any-asset implies every other one.
func (g *gate) HasPermission(ctx context.Context, actorID int64, permission string) (bool, error) {
	if actorID <= 0 {
		return false, nil
	}

	actor, err := g.actors.FindByID(ctx, actorID)
	if err != nil {
		if errors.Is(err, domain.ErrActorNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("%w: resolve actor: %w", domain.ErrUpstreamUnavailable, err)
	}

	return actor.Has(permission) || actor.Has(domain.PermissionManageAnyAsset), nil
}
