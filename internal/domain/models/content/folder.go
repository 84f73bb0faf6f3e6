package content

import (
	"time"
)

// FolderKind discriminates the two folder scopes. Fixed at creation,
// never changes.
type FolderKind string

const (
	// KindNotes is a personal folder scoped to its owner
	KindNotes FolderKind = "notes"

	// KindRoom is a shared folder scoped to a room
	KindRoom FolderKind = "room"
)

type Folder struct {
	ID      string     `json:"id" db:"id"`
	Name    string     `json:"name" db:"name"`
	Kind    FolderKind `json:"kind" db:"kind"`
	OwnerID string     `json:"owner_id" db:"owner_id"`
	// RoomID is set if and only if Kind == KindRoom
	RoomID *string `json:"room_id,omitempty" db:"room_id"`
	// ParentID is NULL for folders at the scope root. A parent always
	// has the same kind and, for room folders, the same room.
	ParentID  *string   `json:"parent_id,omitempty" db:"parent_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// InRoom reports whether the folder belongs to the given room.
func (f *Folder) InRoom(roomID string) bool {
	return f.RoomID != nil && *f.RoomID == roomID
}

// SameScope reports whether other shares this folder's discriminator and,
// for room folders, its room. Only same-scope folders may be linked by a
// parent pointer.
func (f *Folder) SameScope(other *Folder) bool {
	if f.Kind != other.Kind {
		return false
	}
	if f.Kind == KindNotes {
		return f.OwnerID == other.OwnerID
	}
	return f.RoomID != nil && other.RoomID != nil && *f.RoomID == *other.RoomID
}

// Crumb is one breadcrumb segment. Ancestry walks return crumbs
// root-first.
type Crumb struct {
	ID   string     `json:"id"`
	Name string     `json:"name"`
	Kind FolderKind `json:"kind"`
}

// DeletionSummary reports exactly how many rows a cascading folder
// delete removed, per kind. The deleted folder itself is not counted as
// one of its own subfolders.
type DeletionSummary struct {
	Subfolders int `json:"subfolders"`
	Notes      int `json:"notes"`
	Files      int `json:"files"`
}

// Total is the combined number of removed rows, excluding the root
// folder of the cascade.
func (s DeletionSummary) Total() int {
	return s.Subfolders + s.Notes + s.Files
}

// Add accumulates counts from a child cascade.
func (s *DeletionSummary) Add(other DeletionSummary) {
	s.Subfolders += other.Subfolders
	s.Notes += other.Notes
	s.Files += other.Files
}
