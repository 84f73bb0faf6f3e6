package content

import (
	"fmt"
)

// SortKey selects the field a listing is ordered by. Each collection
// applies it to its own matching column (folders sort by name, files by
// name; timestamps are shared).
type SortKey string

const (
	SortByName      SortKey = "name"
	SortByCreatedAt SortKey = "created_at"
	SortByUpdatedAt SortKey = "updated_at"
)

// SortDir is the shared direction for both collections of a page.
type SortDir string

const (
	SortAsc  SortDir = "asc"
	SortDesc SortDir = "desc"
)

// Default listing configuration values
const (
	DefaultListPage     = 1
	DefaultListPageSize = 20
	MaxListPageSize     = 100
)

// ListOptions configures a combined folder+file listing page.
type ListOptions struct {
	// Page is 1-based
	Page     int
	PageSize int
	SortKey  SortKey
	SortDir  SortDir
	// Search optionally filters both collections by a case-insensitive
	// substring match on name/title
	Search string
}

// ApplyDefaults fills in default values for unset fields
func (o *ListOptions) ApplyDefaults() {
	if o.Page <= 0 {
		o.Page = DefaultListPage
	}
	if o.PageSize <= 0 {
		o.PageSize = DefaultListPageSize
	}
	if o.SortKey == "" {
		o.SortKey = SortByName
	}
	if o.SortDir == "" {
		o.SortDir = SortAsc
	}
}

// Validate checks that values are within bounds
func (o *ListOptions) Validate() error {
	if o.Page < 1 {
		return fmt.Errorf("page must be >= 1 (requested: %d)", o.Page)
	}
	if o.PageSize < 1 {
		return fmt.Errorf("page size must be >= 1 (requested: %d)", o.PageSize)
	}
	if o.PageSize > MaxListPageSize {
		return fmt.Errorf("page size cannot exceed %d (requested: %d)", MaxListPageSize, o.PageSize)
	}
	switch o.SortKey {
	case SortByName, SortByCreatedAt, SortByUpdatedAt:
	default:
		return fmt.Errorf("unknown sort key: %q", o.SortKey)
	}
	switch o.SortDir {
	case SortAsc, SortDesc:
	default:
		return fmt.Errorf("unknown sort direction: %q", o.SortDir)
	}
	return nil
}

// PageWindow is a page's slice boundaries over the virtual sequence
// [all matching folders...][all matching files...]. Takes are upper
// bounds handed to the two collection queries, not exact result counts.
type PageWindow struct {
	FoldersSkip int
	FoldersTake int
	FilesSkip   int
	FilesTake   int
}

// SplitWindow splits the requested page across the two independently
// sized collections. Folders always precede files, so across the whole
// paginated sequence the folder/file boundary is crossed exactly once:
// on the page where the cumulative folder count runs out.
func SplitWindow(page, pageSize, totalFolders, totalFiles int) PageWindow {
	skip := (page - 1) * pageSize

	foldersSkip := min(skip, totalFolders)
	foldersTake := clamp(pageSize-max(0, skip-totalFolders), 0, totalFolders-foldersSkip)

	filesSkip := max(0, skip-totalFolders)
	filesTake := pageSize - foldersTake
	if filesTake < 0 {
		filesTake = 0
	}

	return PageWindow{
		FoldersSkip: foldersSkip,
		FoldersTake: foldersTake,
		FilesSkip:   filesSkip,
		FilesTake:   filesTake,
	}
}

// TotalPages is ceil((totalFolders+totalFiles)/pageSize), never less
// than 1 so an empty scope still reports one (empty) page.
func TotalPages(totalFolders, totalFiles, pageSize int) int {
	total := totalFolders + totalFiles
	if total == 0 {
		return 1
	}
	return (total + pageSize - 1) / pageSize
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// FolderEntry is a listed subfolder together with its cheap direct
// aggregates (one grouped query per kind, not per folder).
type FolderEntry struct {
	Folder
	DirectFolders int `json:"direct_folders"`
	DirectLeaves  int `json:"direct_leaves"`
}

// Listing is one combined page of a scope's content.
type Listing struct {
	// Folder is nil when the scope is the namespace root
	Folder     *Folder       `json:"folder,omitempty"`
	Breadcrumb []Crumb       `json:"breadcrumb,omitempty"`
	Folders    []FolderEntry `json:"folders"`
	Files      []File        `json:"files"`

	TotalFolders int `json:"total_folders"`
	TotalFiles   int `json:"total_files"`
	Page         int `json:"page"`
	PageSize     int `json:"page_size"`
	TotalPages   int `json:"total_pages"`
}
