package content

import (
	"context"

	"atrium/internal/domain/models/content"
)

// ListingService produces combined folder+file pages over a scope
type ListingService interface {
	// List returns one page of a folder's (or a namespace root's)
	// content: subfolders first, then files, sliced from the virtual
	// sequence [folders...][files...]
	List(ctx context.Context, req *ListRequest) (*content.Listing, error)
}

// ListRequest identifies the scope and the page. Exactly one of
// FolderID or Scope addresses the level to list: a non-nil FolderID
// wins and the folder's own scope applies.
type ListRequest struct {
	ActorID  string
	FolderID *string
	// Scope is used when FolderID is nil: the root of the actor's
	// personal space or of a room
	Scope   content.Scope
	Options content.ListOptions
}
