package content

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"atrium/internal/domain"
	content "atrium/internal/domain/models/content"
	"atrium/internal/domain/repositories"
	contentRepo "atrium/internal/domain/repositories/content"
)

// memFolderRepo is an in-memory FolderRepository for service tests
type memFolderRepo struct {
	mu      sync.Mutex
	nextID  int
	folders map[string]content.Folder

	failDeletes map[string]bool
}

func newMemFolderRepo() *memFolderRepo {
	return &memFolderRepo{
		folders:     make(map[string]content.Folder),
		failDeletes: make(map[string]bool),
	}
}

func (r *memFolderRepo) Create(ctx context.Context, folder *content.Folder) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	folder.ID = fmt.Sprintf("folder-%d", r.nextID)
	r.folders[folder.ID] = *folder
	return nil
}

func (r *memFolderRepo) GetByID(ctx context.Context, id string) (*content.Folder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	folder, ok := r.folders[id]
	if !ok {
		return nil, fmt.Errorf("folder %s: %w", id, domain.ErrNotFound)
	}
	return &folder, nil
}

func (r *memFolderRepo) Update(ctx context.Context, folder *content.Folder) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.folders[folder.ID]; !ok {
		return fmt.Errorf("folder %s: %w", folder.ID, domain.ErrNotFound)
	}
	r.folders[folder.ID] = *folder
	return nil
}

func (r *memFolderRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.failDeletes[id] {
		return fmt.Errorf("folder %s: simulated storage failure", id)
	}
	if _, ok := r.folders[id]; !ok {
		return fmt.Errorf("folder %s: %w", id, domain.ErrNotFound)
	}
	delete(r.folders, id)
	return nil
}

func (r *memFolderRepo) ListChildren(ctx context.Context, parentID string) ([]content.Folder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var children []content.Folder
	for _, f := range r.folders {
		if f.ParentID != nil && *f.ParentID == parentID {
			children = append(children, f)
		}
	}
	sort.Slice(children, func(i, j int) bool { return children[i].ID < children[j].ID })
	return children, nil
}

func (r *memFolderRepo) SiblingExists(ctx context.Context, scope content.Scope, parentID *string, name string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, f := range r.folders {
		if content.ScopeOf(&f) == scope && sameParent(f.ParentID, parentID) && f.Name == name {
			return true, nil
		}
	}
	return false, nil
}

func (r *memFolderRepo) CountAt(ctx context.Context, scope content.Scope, parentID *string, search string) (int, error) {
	folders, err := r.at(scope, parentID, search)
	return len(folders), err
}

func (r *memFolderRepo) ListAt(ctx context.Context, scope content.Scope, parentID *string, search string, skip, take int, sortKey content.SortKey, sortDir content.SortDir) ([]content.Folder, error) {
	folders, err := r.at(scope, parentID, search)
	if err != nil {
		return nil, err
	}

	sort.Slice(folders, func(i, j int) bool {
		var less bool
		switch sortKey {
		case content.SortByCreatedAt:
			less = folders[i].CreatedAt.Before(folders[j].CreatedAt)
		case content.SortByUpdatedAt:
			less = folders[i].UpdatedAt.Before(folders[j].UpdatedAt)
		default:
			less = folders[i].Name < folders[j].Name
		}
		if sortDir == content.SortDesc {
			return !less
		}
		return less
	})

	if skip > len(folders) {
		skip = len(folders)
	}
	folders = folders[skip:]
	if take < len(folders) {
		folders = folders[:take]
	}
	return folders, nil
}

func (r *memFolderRepo) CountChildrenGrouped(ctx context.Context, folderIDs []string) (map[string]int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	counts := make(map[string]int)
	for _, f := range r.folders {
		if f.ParentID == nil {
			continue
		}
		for _, id := range folderIDs {
			if *f.ParentID == id {
				counts[id]++
			}
		}
	}
	return counts, nil
}

func (r *memFolderRepo) at(scope content.Scope, parentID *string, search string) ([]content.Folder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []content.Folder
	for _, f := range r.folders {
		if content.ScopeOf(&f) != scope || !sameParent(f.ParentID, parentID) {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(f.Name), strings.ToLower(search)) {
			continue
		}
		out = append(out, f)
	}
	return out, nil
}

// passTx runs the function directly; the in-memory stores have no
// transactional behavior to exercise
type passTx struct{}

func (passTx) ExecTx(ctx context.Context, fn repositories.TxFn) error {
	return fn(ctx)
}

func sameParent(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// memLeafAdapter is an in-memory LeafAdapter. Items are (id, folderID)
// pairs; ids marked in failDeletes refuse deletion.
type memLeafAdapter struct {
	mu          sync.Mutex
	kind        contentRepo.LeafKind
	items       map[string]string
	failDeletes map[string]bool
	deleted     []string
}

func newMemLeafAdapter(kind contentRepo.LeafKind) *memLeafAdapter {
	return &memLeafAdapter{
		kind:        kind,
		items:       make(map[string]string),
		failDeletes: make(map[string]bool),
	}
}

func (a *memLeafAdapter) add(id, folderID string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.items[id] = folderID
}

func (a *memLeafAdapter) Kind() contentRepo.LeafKind { return a.kind }

func (a *memLeafAdapter) CountInFolder(ctx context.Context, folderID string) (int, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	count := 0
	for _, fid := range a.items {
		if fid == folderID {
			count++
		}
	}
	return count, nil
}

func (a *memLeafAdapter) CountGrouped(ctx context.Context, folderIDs []string) (map[string]int, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	counts := make(map[string]int)
	for _, fid := range a.items {
		for _, id := range folderIDs {
			if fid == id {
				counts[id]++
			}
		}
	}
	return counts, nil
}

func (a *memLeafAdapter) ListIDsInFolder(ctx context.Context, folderID string) ([]string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	var ids []string
	for id, fid := range a.items {
		if fid == folderID {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

func (a *memLeafAdapter) DeleteByID(ctx context.Context, id, actorID string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.failDeletes[id] {
		return fmt.Errorf("%s %s: simulated storage failure", a.kind, id)
	}
	if _, ok := a.items[id]; !ok {
		return fmt.Errorf("%s %s: %w", a.kind, id, domain.ErrNotFound)
	}
	delete(a.items, id)
	a.deleted = append(a.deleted, id)
	return nil
}

// memFileRepo extends the leaf adapter with the scope-level queries the
// listing engine needs. Files carry names so sorting is observable.
type memFileRepo struct {
	*memLeafAdapter
	mu    sync.Mutex
	files map[string]content.File
}

func newMemFileRepo() *memFileRepo {
	return &memFileRepo{
		memLeafAdapter: newMemLeafAdapter(contentRepo.LeafFiles),
		files:          make(map[string]content.File),
	}
}

func (r *memFileRepo) addFile(f content.File) {
	r.mu.Lock()
	r.files[f.ID] = f
	r.mu.Unlock()

	folderID := ""
	if f.FolderID != nil {
		folderID = *f.FolderID
	}
	r.add(f.ID, folderID)
}

func (r *memFileRepo) Create(ctx context.Context, file *content.File) error {
	r.addFile(*file)
	return nil
}

func (r *memFileRepo) GetByID(ctx context.Context, id string) (*content.File, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	f, ok := r.files[id]
	if !ok {
		return nil, fmt.Errorf("file %s: %w", id, domain.ErrNotFound)
	}
	return &f, nil
}

func (r *memFileRepo) Move(ctx context.Context, id string, folderID *string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	f, ok := r.files[id]
	if !ok {
		return fmt.Errorf("file %s: %w", id, domain.ErrNotFound)
	}
	f.FolderID = folderID
	r.files[id] = f
	return nil
}

func (r *memFileRepo) DeleteByID(ctx context.Context, id, actorID string) error {
	if err := r.memLeafAdapter.DeleteByID(ctx, id, actorID); err != nil {
		return err
	}
	r.mu.Lock()
	delete(r.files, id)
	r.mu.Unlock()
	return nil
}

func (r *memFileRepo) CountAt(ctx context.Context, scope content.Scope, folderID *string, search string) (int, error) {
	files, err := r.at(scope, folderID, search)
	return len(files), err
}

func (r *memFileRepo) ListAt(ctx context.Context, scope content.Scope, folderID *string, search string, skip, take int, sortKey content.SortKey, sortDir content.SortDir) ([]content.File, error) {
	files, err := r.at(scope, folderID, search)
	if err != nil {
		return nil, err
	}

	sort.Slice(files, func(i, j int) bool {
		var less bool
		switch sortKey {
		case content.SortByCreatedAt:
			less = files[i].CreatedAt.Before(files[j].CreatedAt)
		case content.SortByUpdatedAt:
			less = files[i].UpdatedAt.Before(files[j].UpdatedAt)
		default:
			less = files[i].Name < files[j].Name
		}
		if sortDir == content.SortDesc {
			return !less
		}
		return less
	})

	if skip > len(files) {
		skip = len(files)
	}
	files = files[skip:]
	if take < len(files) {
		files = files[:take]
	}
	return files, nil
}

func (r *memFileRepo) at(scope content.Scope, folderID *string, search string) ([]content.File, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []content.File
	for _, f := range r.files {
		if !fileInScope(f, scope) || !sameParent(f.FolderID, folderID) {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(f.Name), strings.ToLower(search)) {
			continue
		}
		out = append(out, f)
	}
	return out, nil
}

func fileInScope(f content.File, scope content.Scope) bool {
	if scope.Kind == content.KindRoom {
		return f.RoomID != nil && *f.RoomID == scope.RoomID
	}
	return f.RoomID == nil && f.UploaderID == scope.OwnerID
}
