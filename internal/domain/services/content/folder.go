package content

import (
	"context"

	"atrium/internal/domain/models/content"
)

// FolderService handles folder tree business logic
type FolderService interface {
	// CreateRoomFolder creates a room-scoped folder
	CreateRoomFolder(ctx context.Context, req *CreateRoomFolderRequest) (*content.Folder, error)

	// CreateNotesFolder creates a personal folder scoped to the actor
	CreateNotesFolder(ctx context.Context, req *CreateNotesFolderRequest) (*content.Folder, error)

	// GetFolder retrieves a folder the actor can read
	GetFolder(ctx context.Context, actorID, folderID string) (*content.Folder, error)

	// Rename changes a folder's name. Sibling uniqueness is NOT
	// re-checked on rename; duplicates introduced here are tolerated.
	Rename(ctx context.Context, actorID, folderID, newName string) (*content.Folder, error)

	// Reparent moves a folder under a new parent of the same scope, or
	// detaches it to the scope root when newParentID is nil
	Reparent(ctx context.Context, actorID, folderID string, newParentID *string) (*content.Folder, error)

	// Remove deletes a folder and everything transitively inside it,
	// returning per-kind counts of removed rows
	Remove(ctx context.Context, actorID, folderID string) (*RemovedFolder, error)

	// Ancestry returns the folder's breadcrumb, root-first
	Ancestry(ctx context.Context, actorID, folderID string) ([]content.Crumb, error)
}

// CreateRoomFolderRequest creates a folder inside a room
type CreateRoomFolderRequest struct {
	ActorID  string  `json:"-"`
	RoomID   string  `json:"room_id"`
	Name     string  `json:"name"`
	ParentID *string `json:"parent_id,omitempty"` // nil = room root
}

// CreateNotesFolderRequest creates a folder in the actor's personal space
type CreateNotesFolderRequest struct {
	ActorID  string  `json:"-"`
	Name     string  `json:"name"`
	ParentID *string `json:"parent_id,omitempty"` // nil = personal root
}

// RemovedFolder reports a completed cascade
type RemovedFolder struct {
	Folder *content.Folder         `json:"folder"`
	Counts content.DeletionSummary `json:"counts"`
}
