package access

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"atrium/internal/domain"
	"atrium/internal/domain/models"
	"atrium/internal/domain/models/content"
	"atrium/internal/domain/repositories"
	"atrium/internal/domain/services"
)

// RoleBasedEvaluator derives folder grants from ownership and room
// roles. Grants are computed per call and never persisted.
type RoleBasedEvaluator struct {
	rooms  repositories.RoomDirectory
	logger *slog.Logger
}

// NewEvaluator creates a role-based access evaluator backed by the
// given room directory
func NewEvaluator(rooms repositories.RoomDirectory, logger *slog.Logger) services.AccessEvaluator {
	return &RoleBasedEvaluator{rooms: rooms, logger: logger}
}

// Evaluate derives the actor's grant on a folder. Personal folders
// grant everything to their owner and nothing to anyone else; room
// folder grants follow the actor's role in the room.
func (e *RoleBasedEvaluator) Evaluate(ctx context.Context, actorID string, folder *content.Folder) (models.Grant, error) {
	switch folder.Kind {
	case content.KindNotes:
		if folder.OwnerID == actorID {
			return models.FullAccess(), nil
		}
		return models.Grant{}, nil

	case content.KindRoom:
		if folder.RoomID == nil {
			return models.Grant{}, &domain.InternalError{
				Message: fmt.Sprintf("room folder %s has no room id", folder.ID),
			}
		}
		return e.roomGrant(ctx, actorID, *folder.RoomID, false)

	default:
		return models.Grant{}, &domain.InternalError{
			Message: fmt.Sprintf("folder %s has unknown kind %q", folder.ID, folder.Kind),
		}
	}
}

// EvaluateScope derives the actor's grant on a namespace root. A
// public room's root is readable without membership, so its content
// can be browsed before joining.
func (e *RoleBasedEvaluator) EvaluateScope(ctx context.Context, actorID string, scope content.Scope) (models.Grant, error) {
	switch scope.Kind {
	case content.KindNotes:
		if scope.OwnerID == actorID {
			return models.FullAccess(), nil
		}
		return models.Grant{}, nil

	case content.KindRoom:
		return e.roomGrant(ctx, actorID, scope.RoomID, true)

	default:
		return models.Grant{}, &domain.InternalError{
			Message: fmt.Sprintf("unknown scope kind %q", scope.Kind),
		}
	}
}

// roomGrant maps the actor's standing in a room to a grant. The admin
// holds full access without a membership row; publicRead additionally
// lets non-members read public rooms.
func (e *RoleBasedEvaluator) roomGrant(ctx context.Context, actorID, roomID string, publicRead bool) (models.Grant, error) {
	room, err := e.rooms.GetRoom(ctx, roomID)
	if err != nil {
		return models.Grant{}, err
	}

	if room.AdminID == actorID {
		return models.FullAccess(), nil
	}

	membership, err := e.rooms.GetMembership(ctx, roomID, actorID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			if publicRead && room.IsPublic {
				return models.ReadOnly(), nil
			}
			return models.Grant{}, nil
		}
		return models.Grant{}, err
	}

	switch membership.Role {
	case models.RoleModerator:
		return models.FullAccess(), nil
	case models.RoleMember:
		return models.ReadOnly(), nil
	default:
		e.logger.Warn("membership has unknown role, denying access",
			"room_id", roomID, "user_id", actorID, "role", membership.Role)
		return models.Grant{}, nil
	}
}
