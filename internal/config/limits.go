package config

const (
	// MaxFolderNameLength is the maximum length for folder names.
	// Limited to 50 to fit in PostgreSQL VARCHAR(50) and provide
	// reasonable UX (names should be short and descriptive).
	MaxFolderNameLength = 50

	// MaxNoteTitleLength is the maximum length for note titles.
	MaxNoteTitleLength = 255

	// MaxFileNameLength is the maximum length for file names.
	MaxFileNameLength = 255

	// MaxTreeDepth bounds every upward walk through folder parent
	// pointers. A chain longer than this indicates corrupted parent
	// references (or a cycle written by a racing mutation) and the walk
	// is aborted instead of looping forever.
	MaxTreeDepth = 128
)
