package content

import (
	"time"
)

// File carries metadata only. Bytes live behind StorageKey in an
// external object store and are never loaded here.
type File struct {
	ID string `json:"id" db:"id"`
	// FolderID is NULL for files at the scope root
	FolderID   *string `json:"folder_id,omitempty" db:"folder_id"`
	UploaderID string  `json:"uploader_id" db:"uploader_id"`
	// RoomID is set for room-scoped files, NULL for personal ones
	RoomID     *string   `json:"room_id,omitempty" db:"room_id"`
	Name       string    `json:"name" db:"name"`
	SizeBytes  int64     `json:"size_bytes" db:"size_bytes"`
	MimeType   string    `json:"mime_type" db:"mime_type"`
	StorageKey string    `json:"storage_key" db:"storage_key"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
}
