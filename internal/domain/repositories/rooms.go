package repositories

import (
	"context"

	"atrium/internal/domain/models"
)

// RoomDirectory is the boundary to the room/membership registry. The
// registry itself is owned elsewhere; the content subsystem only asks
// two questions of it.
type RoomDirectory interface {
	// GetRoom returns the room's access-relevant view.
	// Returns domain.ErrNotFound when the room does not exist.
	GetRoom(ctx context.Context, roomID string) (*models.Room, error)

	// GetMembership returns the actor's membership record in a room.
	// Returns domain.ErrNotFound when the actor is not a member; the
	// room admin has no membership row.
	GetMembership(ctx context.Context, roomID, userID string) (*models.Membership, error)
}
