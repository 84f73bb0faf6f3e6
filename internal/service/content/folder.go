package content

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"atrium/internal/config"
	"atrium/internal/domain"
	"atrium/internal/domain/models"
	content "atrium/internal/domain/models/content"
	"atrium/internal/domain/repositories"
	contentRepo "atrium/internal/domain/repositories/content"
	"atrium/internal/domain/services"
	contentSvc "atrium/internal/domain/services/content"
)

type folderService struct {
	folders   contentRepo.FolderRepository
	leaves    []contentRepo.LeafAdapter
	access    services.AccessEvaluator
	txManager repositories.TransactionManager
	logger    *slog.Logger
}

// NewFolderService creates a new folder tree service. leaves is the
// set of registered leaf adapters the deletion cascade fans out over.
func NewFolderService(
	folders contentRepo.FolderRepository,
	leaves []contentRepo.LeafAdapter,
	access services.AccessEvaluator,
	txManager repositories.TransactionManager,
	logger *slog.Logger,
) contentSvc.FolderService {
	return &folderService{
		folders:   folders,
		leaves:    leaves,
		access:    access,
		txManager: txManager,
		logger:    logger,
	}
}

// CreateRoomFolder creates a room-scoped folder.
//
// Check order matters here: the room lookup resolves first (missing
// room means not found), then read access, then the parent, then the
// sibling name, and write capability last. A duplicate name reports
// Conflict to any actor who can list the level, even one who could
// not have created the folder. Actors without read access are turned
// away before the name check so folder names in private rooms stay
// unguessable.
func (s *folderService) CreateRoomFolder(ctx context.Context, req *contentSvc.CreateRoomFolderRequest) (*content.Folder, error) {
	if err := validateFolderName(req.Name); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	if req.RoomID == "" {
		return nil, fmt.Errorf("%w: room id is required", domain.ErrValidation)
	}

	scope := content.RoomScope(req.RoomID)
	grant, err := s.access.EvaluateScope(ctx, req.ActorID, scope)
	if err != nil {
		return nil, err
	}
	if !grant.CanRead {
		return nil, &domain.ForbiddenError{
			Message: fmt.Sprintf("user %s cannot create folders in room %s", req.ActorID, req.RoomID),
		}
	}

	if req.ParentID != nil {
		parent, err := s.folders.GetByID(ctx, *req.ParentID)
		if err != nil {
			return nil, err
		}
		if parent.Kind != content.KindRoom || !parent.InRoom(req.RoomID) {
			return nil, &domain.ConflictError{
				Message:      "parent folder belongs to a different scope",
				ResourceType: "folder",
				ResourceID:   parent.ID,
			}
		}
	}

	now := time.Now()
	folder := &content.Folder{
		Name:      strings.TrimSpace(req.Name),
		Kind:      content.KindRoom,
		OwnerID:   req.ActorID,
		RoomID:    &req.RoomID,
		ParentID:  req.ParentID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	// The sibling check and the insert run under one transaction
	err = s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		if err := s.checkSiblingName(txCtx, scope, req.ParentID, req.Name); err != nil {
			return err
		}
		if !grant.CanWrite {
			return &domain.ForbiddenError{
				Message: fmt.Sprintf("user %s cannot create folders in room %s", req.ActorID, req.RoomID),
			}
		}
		return s.folders.Create(txCtx, folder)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("room folder created",
		"id", folder.ID,
		"name", folder.Name,
		"room_id", req.RoomID,
		"parent_id", folder.ParentID,
	)

	return folder, nil
}

// CreateNotesFolder creates a personal folder scoped to the actor
func (s *folderService) CreateNotesFolder(ctx context.Context, req *contentSvc.CreateNotesFolderRequest) (*content.Folder, error) {
	if err := validateFolderName(req.Name); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	scope := content.NotesScope(req.ActorID)

	if req.ParentID != nil {
		parent, err := s.folders.GetByID(ctx, *req.ParentID)
		if err != nil {
			return nil, err
		}
		// A foreign parent is reported as missing, not forbidden, so
		// folder ids of other users stay unguessable
		if parent.Kind == content.KindNotes && parent.OwnerID != req.ActorID {
			return nil, fmt.Errorf("folder %s: %w", parent.ID, domain.ErrNotFound)
		}
		if parent.Kind != content.KindNotes {
			return nil, &domain.ConflictError{
				Message:      "parent folder belongs to a different scope",
				ResourceType: "folder",
				ResourceID:   parent.ID,
			}
		}
	}

	now := time.Now()
	folder := &content.Folder{
		Name:      strings.TrimSpace(req.Name),
		Kind:      content.KindNotes,
		OwnerID:   req.ActorID,
		ParentID:  req.ParentID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		if err := s.checkSiblingName(txCtx, scope, req.ParentID, req.Name); err != nil {
			return err
		}
		return s.folders.Create(txCtx, folder)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("notes folder created",
		"id", folder.ID,
		"name", folder.Name,
		"owner_id", req.ActorID,
		"parent_id", folder.ParentID,
	)

	return folder, nil
}

// GetFolder retrieves a folder the actor can read
func (s *folderService) GetFolder(ctx context.Context, actorID, folderID string) (*content.Folder, error) {
	folder, _, err := s.loadReadable(ctx, actorID, folderID)
	return folder, err
}

// Rename changes a folder's name. Sibling uniqueness is checked at
// creation only; a rename onto an existing sibling name is tolerated.
func (s *folderService) Rename(ctx context.Context, actorID, folderID, newName string) (*content.Folder, error) {
	if err := validateFolderName(newName); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	folder, grant, err := s.loadReadable(ctx, actorID, folderID)
	if err != nil {
		return nil, err
	}
	if !grant.CanWrite {
		return nil, &domain.ForbiddenError{
			Message: fmt.Sprintf("user %s cannot modify folder %s", actorID, folderID),
		}
	}

	folder.Name = strings.TrimSpace(newName)
	folder.UpdatedAt = time.Now()

	if err := s.folders.Update(ctx, folder); err != nil {
		return nil, err
	}

	s.logger.Info("folder renamed", "id", folder.ID, "name", folder.Name)

	return folder, nil
}

// Reparent moves a folder under a new parent of the same scope, or
// detaches it to the scope root when newParentID is nil
func (s *folderService) Reparent(ctx context.Context, actorID, folderID string, newParentID *string) (*content.Folder, error) {
	folder, grant, err := s.loadReadable(ctx, actorID, folderID)
	if err != nil {
		return nil, err
	}
	if !grant.CanWrite {
		return nil, &domain.ForbiddenError{
			Message: fmt.Sprintf("user %s cannot modify folder %s", actorID, folderID),
		}
	}

	if newParentID != nil {
		if *newParentID == folder.ID {
			return nil, &domain.ConflictError{
				Message:      "cannot move a folder into itself",
				ResourceType: "folder",
				ResourceID:   folder.ID,
			}
		}

		parent, err := s.folders.GetByID(ctx, *newParentID)
		if err != nil {
			return nil, fmt.Errorf("new parent: %w", err)
		}
		if !folder.SameScope(parent) {
			return nil, &domain.ConflictError{
				Message:      "new parent belongs to a different scope",
				ResourceType: "folder",
				ResourceID:   parent.ID,
			}
		}

		if err := s.ensureNoCycle(ctx, folder.ID, parent); err != nil {
			return nil, err
		}

		folder.ParentID = &parent.ID
	} else {
		folder.ParentID = nil
	}

	folder.UpdatedAt = time.Now()

	if err := s.folders.Update(ctx, folder); err != nil {
		return nil, err
	}

	s.logger.Info("folder moved", "id", folder.ID, "parent_id", folder.ParentID)

	return folder, nil
}

// Remove deletes a folder and everything transitively inside it.
// The cascade is depth-first and post-order: a child's contents are
// gone before the child row, and the child rows before the parent.
func (s *folderService) Remove(ctx context.Context, actorID, folderID string) (*contentSvc.RemovedFolder, error) {
	folder, grant, err := s.loadReadable(ctx, actorID, folderID)
	if err != nil {
		return nil, err
	}
	if !grant.CanDelete {
		return nil, &domain.ForbiddenError{
			Message: fmt.Sprintf("user %s cannot delete folder %s", actorID, folderID),
		}
	}

	var counts content.DeletionSummary
	if err := s.deleteDescendants(ctx, actorID, folder.ID, &counts); err != nil {
		return nil, err
	}

	// The root of the cascade is deleted last and not counted as one of
	// its own subfolders
	if err := s.folders.Delete(ctx, folder.ID); err != nil {
		return nil, err
	}

	s.logger.Info("folder removed",
		"id", folder.ID,
		"name", folder.Name,
		"subfolders", counts.Subfolders,
		"notes", counts.Notes,
		"files", counts.Files,
	)

	return &contentSvc.RemovedFolder{Folder: folder, Counts: counts}, nil
}

// deleteDescendants recursively deletes child folders, then this
// folder's leaf items. Leaf failures are logged and skipped; the
// cascade is best-effort and counts only what was actually removed.
func (s *folderService) deleteDescendants(ctx context.Context, actorID, folderID string, counts *content.DeletionSummary) error {
	children, err := s.folders.ListChildren(ctx, folderID)
	if err != nil {
		return fmt.Errorf("list child folders: %w", err)
	}

	for _, child := range children {
		if err := s.deleteDescendants(ctx, actorID, child.ID, counts); err != nil {
			return err
		}
		if err := s.folders.Delete(ctx, child.ID); err != nil {
			s.logger.Warn("failed to delete child folder, continuing cascade",
				"id", child.ID, "name", child.Name, "error", err)
			continue
		}
		counts.Subfolders++
	}

	for _, adapter := range s.leaves {
		ids, err := adapter.ListIDsInFolder(ctx, folderID)
		if err != nil {
			return fmt.Errorf("list %s in folder: %w", adapter.Kind(), err)
		}

		deleted := 0
		for _, id := range ids {
			if err := adapter.DeleteByID(ctx, id, actorID); err != nil {
				s.logger.Warn("failed to delete leaf item, continuing cascade",
					"kind", adapter.Kind(), "id", id, "error", err)
				continue
			}
			deleted++
		}

		switch adapter.Kind() {
		case contentRepo.LeafNotes:
			counts.Notes += deleted
		case contentRepo.LeafFiles:
			counts.Files += deleted
		}
	}

	return nil
}

// Ancestry returns the folder's breadcrumb, root-first
func (s *folderService) Ancestry(ctx context.Context, actorID, folderID string) ([]content.Crumb, error) {
	folder, _, err := s.loadReadable(ctx, actorID, folderID)
	if err != nil {
		return nil, err
	}

	return s.ancestryOf(ctx, folder)
}

// ancestryOf walks parent pointers up to the scope root. The walk is
// bounded: parent chains longer than config.MaxTreeDepth indicate
// corrupted pointers and abort instead of looping forever.
func (s *folderService) ancestryOf(ctx context.Context, folder *content.Folder) ([]content.Crumb, error) {
	crumbs := []content.Crumb{{ID: folder.ID, Name: folder.Name, Kind: folder.Kind}}

	current := folder
	for depth := 0; current.ParentID != nil; depth++ {
		if depth >= config.MaxTreeDepth {
			s.logger.Error("ancestry walk exceeded depth bound",
				"folder_id", folder.ID, "max_depth", config.MaxTreeDepth)
			return nil, &domain.InternalError{
				Message: fmt.Sprintf("folder %s: parent chain exceeds depth %d", folder.ID, config.MaxTreeDepth),
			}
		}

		parent, err := s.folders.GetByID(ctx, *current.ParentID)
		if err != nil {
			return nil, fmt.Errorf("walk ancestry: %w", err)
		}

		crumbs = append(crumbs, content.Crumb{ID: parent.ID, Name: parent.Name, Kind: parent.Kind})
		current = parent
	}

	// Collected leaf-first; breadcrumbs read root-first
	for i, j := 0, len(crumbs)-1; i < j; i, j = i+1, j-1 {
		crumbs[i], crumbs[j] = crumbs[j], crumbs[i]
	}

	return crumbs, nil
}

// ensureNoCycle rejects a re-parent that would make folderID an
// ancestor of itself. The walk starts at the candidate parent and
// chases ids upward to the root.
func (s *folderService) ensureNoCycle(ctx context.Context, folderID string, newParent *content.Folder) error {
	current := newParent
	for depth := 0; ; depth++ {
		if depth >= config.MaxTreeDepth {
			s.logger.Error("cycle check exceeded depth bound",
				"folder_id", folderID, "max_depth", config.MaxTreeDepth)
			return &domain.InternalError{
				Message: fmt.Sprintf("folder %s: parent chain exceeds depth %d", newParent.ID, config.MaxTreeDepth),
			}
		}

		if current.ID == folderID {
			return &domain.ConflictError{
				Message:      "cannot move a folder into its own descendant",
				ResourceType: "folder",
				ResourceID:   folderID,
			}
		}

		if current.ParentID == nil {
			return nil
		}

		parent, err := s.folders.GetByID(ctx, *current.ParentID)
		if err != nil {
			return fmt.Errorf("cycle check: %w", err)
		}
		current = parent
	}
}

// loadReadable fetches a folder and masks it as missing when the actor
// has no read access, so existence never leaks.
func (s *folderService) loadReadable(ctx context.Context, actorID, folderID string) (*content.Folder, models.Grant, error) {
	folder, err := s.folders.GetByID(ctx, folderID)
	if err != nil {
		return nil, models.Grant{}, err
	}

	grant, err := s.access.Evaluate(ctx, actorID, folder)
	if err != nil {
		return nil, models.Grant{}, err
	}
	if !grant.CanRead {
		return nil, models.Grant{}, fmt.Errorf("folder %s: %w", folderID, domain.ErrNotFound)
	}

	return folder, grant, nil
}

// checkSiblingName enforces name uniqueness among same-scope siblings
// at creation time
func (s *folderService) checkSiblingName(ctx context.Context, scope content.Scope, parentID *string, name string) error {
	exists, err := s.folders.SiblingExists(ctx, scope, parentID, strings.TrimSpace(name))
	if err != nil {
		return fmt.Errorf("check sibling name: %w", err)
	}
	if exists {
		return &domain.ConflictError{
			Message:      fmt.Sprintf("a folder named %q already exists at this level", strings.TrimSpace(name)),
			ResourceType: "folder",
		}
	}
	return nil
}

func validateFolderName(name string) error {
	trimmed := strings.TrimSpace(name)
	return validation.Validate(trimmed,
		validation.Required.Error("folder name is required"),
		validation.Length(1, config.MaxFolderNameLength),
	)
}
