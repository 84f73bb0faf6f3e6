package content

import (
	"time"
)

// Note is the personal leaf item. Content is opaque to the tree: the
// folder subsystem only files, counts and deletes notes.
type Note struct {
	ID string `json:"id" db:"id"`
	// FolderID is NULL for unfiled notes at the owner's root
	FolderID  *string   `json:"folder_id,omitempty" db:"folder_id"`
	OwnerID   string    `json:"owner_id" db:"owner_id"`
	Title     string    `json:"title" db:"title"`
	Body      string    `json:"body" db:"body"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
