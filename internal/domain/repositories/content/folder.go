package content

import (
	"context"

	"atrium/internal/domain/models/content"
)

// FolderRepository defines data access operations for folders
type FolderRepository interface {
	// Create creates a new folder
	Create(ctx context.Context, folder *content.Folder) error

	// GetByID retrieves a folder by ID
	GetByID(ctx context.Context, id string) (*content.Folder, error)

	// Update persists a rename or re-parent
	Update(ctx context.Context, folder *content.Folder) error

	// Delete removes a single folder row
	Delete(ctx context.Context, id string) error

	// ListChildren lists immediate child folders of a folder
	ListChildren(ctx context.Context, parentID string) ([]content.Folder, error)

	// SiblingExists reports whether a same-scope sibling with the given
	// name already exists under parentID (nil = scope root)
	SiblingExists(ctx context.Context, scope content.Scope, parentID *string, name string) (bool, error)

	// CountAt counts folders directly at the given level of a scope,
	// optionally filtered by a case-insensitive name search
	CountAt(ctx context.Context, scope content.Scope, parentID *string, search string) (int, error)

	// ListAt returns one ordered slice of the folders directly at the
	// given level of a scope
	ListAt(ctx context.Context, scope content.Scope, parentID *string, search string, skip, take int, sortKey content.SortKey, sortDir content.SortDir) ([]content.Folder, error)

	// CountChildrenGrouped returns direct subfolder counts for a set of
	// folders in a single grouped query
	CountChildrenGrouped(ctx context.Context, folderIDs []string) (map[string]int, error)
}
