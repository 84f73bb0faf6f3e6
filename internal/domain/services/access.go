package services

import (
	"context"

	"atrium/internal/domain/models"
	"atrium/internal/domain/models/content"
)

// AccessEvaluator answers "what may this actor do to this folder".
// Pure capability derivation: notes folders reduce to ownership, room
// folders to the actor's role in the folder's room.
type AccessEvaluator interface {
	// Evaluate returns the actor's grant on a folder. A missing room
	// behind a room folder surfaces as domain.ErrNotFound.
	Evaluate(ctx context.Context, actorID string, folder *content.Folder) (models.Grant, error)

	// EvaluateScope returns the actor's grant on a namespace root,
	// used before any folder exists (creation at root, root listings).
	EvaluateScope(ctx context.Context, actorID string, scope content.Scope) (models.Grant, error)
}
