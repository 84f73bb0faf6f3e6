package content

import (
	"testing"
)

func TestListOptions_ApplyDefaults(t *testing.T) {
	tests := []struct {
		name     string
		input    ListOptions
		expected ListOptions
	}{
		{
			name:  "applies all defaults",
			input: ListOptions{},
			expected: ListOptions{
				Page:     1,
				PageSize: 20,
				SortKey:  SortByName,
				SortDir:  SortAsc,
			},
		},
		{
			name: "preserves custom values",
			input: ListOptions{
				Page:     3,
				PageSize: 50,
				SortKey:  SortByUpdatedAt,
				SortDir:  SortDesc,
				Search:   "week",
			},
			expected: ListOptions{
				Page:     3,
				PageSize: 50,
				SortKey:  SortByUpdatedAt,
				SortDir:  SortDesc,
				Search:   "week",
			},
		},
		{
			name:  "corrects non-positive page and page size",
			input: ListOptions{Page: -1, PageSize: 0},
			expected: ListOptions{
				Page:     1,
				PageSize: 20,
				SortKey:  SortByName,
				SortDir:  SortAsc,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := tt.input
			opts.ApplyDefaults()
			if opts != tt.expected {
				t.Errorf("got %+v, want %+v", opts, tt.expected)
			}
		})
	}
}

func TestListOptions_Validate(t *testing.T) {
	tests := []struct {
		name    string
		input   ListOptions
		wantErr bool
	}{
		{
			name:    "valid options",
			input:   ListOptions{Page: 1, PageSize: 20, SortKey: SortByName, SortDir: SortAsc},
			wantErr: false,
		},
		{
			name:    "page size at maximum",
			input:   ListOptions{Page: 1, PageSize: 100, SortKey: SortByCreatedAt, SortDir: SortDesc},
			wantErr: false,
		},
		{
			name:    "page size over maximum",
			input:   ListOptions{Page: 1, PageSize: 101, SortKey: SortByName, SortDir: SortAsc},
			wantErr: true,
		},
		{
			name:    "zero page",
			input:   ListOptions{Page: 0, PageSize: 20, SortKey: SortByName, SortDir: SortAsc},
			wantErr: true,
		},
		{
			name:    "unknown sort key",
			input:   ListOptions{Page: 1, PageSize: 20, SortKey: "size", SortDir: SortAsc},
			wantErr: true,
		},
		{
			name:    "unknown sort direction",
			input:   ListOptions{Page: 1, PageSize: 20, SortKey: SortByName, SortDir: "sideways"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.input.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestSplitWindow(t *testing.T) {
	tests := []struct {
		name         string
		page         int
		pageSize     int
		totalFolders int
		totalFiles   int
		expected     PageWindow
	}{
		{
			name: "first page all folders",
			page: 1, pageSize: 10, totalFolders: 25, totalFiles: 5,
			expected: PageWindow{FoldersSkip: 0, FoldersTake: 10, FilesSkip: 0, FilesTake: 0},
		},
		{
			name: "page crossing the folder file boundary",
			page: 3, pageSize: 10, totalFolders: 25, totalFiles: 30,
			expected: PageWindow{FoldersSkip: 20, FoldersTake: 5, FilesSkip: 0, FilesTake: 5},
		},
		{
			name: "page entirely in files",
			page: 4, pageSize: 10, totalFolders: 25, totalFiles: 30,
			expected: PageWindow{FoldersSkip: 25, FoldersTake: 0, FilesSkip: 5, FilesTake: 10},
		},
		{
			name: "three folders two files on one page of five",
			page: 1, pageSize: 5, totalFolders: 3, totalFiles: 2,
			expected: PageWindow{FoldersSkip: 0, FoldersTake: 3, FilesSkip: 0, FilesTake: 2},
		},
		{
			name: "no folders at all",
			page: 2, pageSize: 10, totalFolders: 0, totalFiles: 35,
			expected: PageWindow{FoldersSkip: 0, FoldersTake: 0, FilesSkip: 10, FilesTake: 10},
		},
		{
			name: "no files at all",
			page: 2, pageSize: 10, totalFolders: 15, totalFiles: 0,
			expected: PageWindow{FoldersSkip: 10, FoldersTake: 5, FilesSkip: 0, FilesTake: 5},
		},
		{
			name: "page past the end of everything",
			page: 9, pageSize: 10, totalFolders: 5, totalFiles: 5,
			expected: PageWindow{FoldersSkip: 5, FoldersTake: 0, FilesSkip: 75, FilesTake: 10},
		},
		{
			name: "empty level",
			page: 1, pageSize: 20, totalFolders: 0, totalFiles: 0,
			expected: PageWindow{FoldersSkip: 0, FoldersTake: 0, FilesSkip: 0, FilesTake: 20},
		},
		{
			name: "exact boundary between pages",
			page: 2, pageSize: 10, totalFolders: 10, totalFiles: 10,
			expected: PageWindow{FoldersSkip: 10, FoldersTake: 0, FilesSkip: 0, FilesTake: 10},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitWindow(tt.page, tt.pageSize, tt.totalFolders, tt.totalFiles)
			if got != tt.expected {
				t.Errorf("SplitWindow(%d, %d, %d, %d) = %+v, want %+v",
					tt.page, tt.pageSize, tt.totalFolders, tt.totalFiles, got, tt.expected)
			}
		})
	}
}

// Sweeping every page of a level must visit every folder and file
// exactly once, in order, with the folder/file boundary crossed once.
func TestSplitWindow_PageSweep(t *testing.T) {
	cases := []struct {
		totalFolders int
		totalFiles   int
		pageSize     int
	}{
		{totalFolders: 25, totalFiles: 30, pageSize: 10},
		{totalFolders: 3, totalFiles: 2, pageSize: 5},
		{totalFolders: 0, totalFiles: 17, pageSize: 4},
		{totalFolders: 17, totalFiles: 0, pageSize: 4},
		{totalFolders: 1, totalFiles: 1, pageSize: 1},
		{totalFolders: 7, totalFiles: 13, pageSize: 100},
	}

	for _, tc := range cases {
		pages := TotalPages(tc.totalFolders, tc.totalFiles, tc.pageSize)

		seenFolders := 0
		seenFiles := 0
		for page := 1; page <= pages; page++ {
			w := SplitWindow(page, tc.pageSize, tc.totalFolders, tc.totalFiles)

			if w.FoldersSkip != seenFolders {
				t.Errorf("case %+v page %d: folders skip %d, want %d (gap or overlap)",
					tc, page, w.FoldersSkip, seenFolders)
			}

			gotFolders := w.FoldersTake
			if remaining := tc.totalFolders - w.FoldersSkip; gotFolders > remaining {
				gotFolders = remaining
			}
			seenFolders += gotFolders

			if gotFolders > 0 && w.FilesTake > 0 && w.FilesSkip != seenFiles {
				t.Errorf("case %+v page %d: files skip %d, want %d on boundary page",
					tc, page, w.FilesSkip, seenFiles)
			}

			gotFiles := w.FilesTake
			if remaining := tc.totalFiles - w.FilesSkip; gotFiles > remaining {
				gotFiles = remaining
			}
			if gotFiles < 0 {
				gotFiles = 0
			}
			seenFiles += gotFiles

			if gotFolders+gotFiles > tc.pageSize {
				t.Errorf("case %+v page %d: page holds %d items, page size %d",
					tc, page, gotFolders+gotFiles, tc.pageSize)
			}
		}

		if seenFolders != tc.totalFolders {
			t.Errorf("case %+v: sweep saw %d folders, want %d", tc, seenFolders, tc.totalFolders)
		}
		if seenFiles != tc.totalFiles {
			t.Errorf("case %+v: sweep saw %d files, want %d", tc, seenFiles, tc.totalFiles)
		}
	}
}

func TestTotalPages(t *testing.T) {
	tests := []struct {
		totalFolders int
		totalFiles   int
		pageSize     int
		expected     int
	}{
		{totalFolders: 0, totalFiles: 0, pageSize: 20, expected: 1},
		{totalFolders: 5, totalFiles: 5, pageSize: 10, expected: 1},
		{totalFolders: 5, totalFiles: 6, pageSize: 10, expected: 2},
		{totalFolders: 25, totalFiles: 30, pageSize: 10, expected: 6},
		{totalFolders: 1, totalFiles: 0, pageSize: 100, expected: 1},
	}

	for _, tt := range tests {
		got := TotalPages(tt.totalFolders, tt.totalFiles, tt.pageSize)
		if got != tt.expected {
			t.Errorf("TotalPages(%d, %d, %d) = %d, want %d",
				tt.totalFolders, tt.totalFiles, tt.pageSize, got, tt.expected)
		}
	}
}

func TestDeletionSummary(t *testing.T) {
	var total DeletionSummary
	total.Add(DeletionSummary{Subfolders: 2, Notes: 3})
	total.Add(DeletionSummary{Subfolders: 1, Files: 4})

	if total.Subfolders != 3 || total.Notes != 3 || total.Files != 4 {
		t.Errorf("unexpected summary after Add: %+v", total)
	}
	if got := total.Total(); got != 10 {
		t.Errorf("Total() = %d, want 10", got)
	}
}
