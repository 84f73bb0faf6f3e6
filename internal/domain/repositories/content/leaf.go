package content

import (
	"context"

	"atrium/internal/domain/models/content"
)

// LeafKind names a concrete leaf item kind for deletion summaries.
type LeafKind string

const (
	LeafNotes LeafKind = "notes"
	LeafFiles LeafKind = "files"
)

// LeafAdapter is the capability surface the folder cascade and the
// listing aggregates need from a leaf kind. The tree store iterates
// registered adapters, so a third leaf kind plugs in without touching
// the cascade or the listing engine.
type LeafAdapter interface {
	// Kind identifies the adapter in deletion summaries
	Kind() LeafKind

	// CountInFolder counts leaf items directly inside a folder
	CountInFolder(ctx context.Context, folderID string) (int, error)

	// CountGrouped returns direct leaf counts for a set of folders in a
	// single grouped query
	CountGrouped(ctx context.Context, folderIDs []string) (map[string]int, error)

	// ListIDsInFolder returns the ids of leaf items directly inside a
	// folder, for the deletion cascade
	ListIDsInFolder(ctx context.Context, folderID string) ([]string, error)

	// DeleteByID removes one leaf item. Deletion authority is
	// folder-scoped, not item-scoped: the actor is recorded, not
	// re-checked against item ownership.
	DeleteByID(ctx context.Context, id, actorID string) error
}

// NoteRepository is the notes leaf adapter plus the note lifecycle the
// platform needs around it.
type NoteRepository interface {
	LeafAdapter

	Create(ctx context.Context, note *content.Note) error
	GetByID(ctx context.Context, id string) (*content.Note, error)

	// Move re-files a note under another folder of the same scope
	// (nil = unfiled at the owner's root)
	Move(ctx context.Context, id string, folderID *string) error

	// ListInFolder returns notes directly inside a folder (nil = the
	// owner's unfiled root), ordered and windowed
	ListInFolder(ctx context.Context, ownerID string, folderID *string, skip, take int, sortKey content.SortKey, sortDir content.SortDir) ([]content.Note, error)
}

// FileRepository is the files leaf adapter plus the metadata lifecycle.
// File bytes never pass through here.
type FileRepository interface {
	LeafAdapter

	Create(ctx context.Context, file *content.File) error
	GetByID(ctx context.Context, id string) (*content.File, error)

	// Move re-files a file under another folder of the same scope
	Move(ctx context.Context, id string, folderID *string) error

	// CountAt counts files directly at the given level of a scope,
	// optionally filtered by a case-insensitive name search
	CountAt(ctx context.Context, scope content.Scope, folderID *string, search string) (int, error)

	// ListAt returns one ordered slice of the files directly at the
	// given level of a scope
	ListAt(ctx context.Context, scope content.Scope, folderID *string, search string, skip, take int, sortKey content.SortKey, sortDir content.SortDir) ([]content.File, error)
}
