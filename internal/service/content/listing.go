package content

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"atrium/internal/domain"
	content "atrium/internal/domain/models/content"
	contentRepo "atrium/internal/domain/repositories/content"
	"atrium/internal/domain/services"
	contentSvc "atrium/internal/domain/services/content"
)

type listingService struct {
	folders contentRepo.FolderRepository
	files   contentRepo.FileRepository
	leaves  []contentRepo.LeafAdapter
	access  services.AccessEvaluator
	tree    contentSvc.FolderService
	logger  *slog.Logger
}

// NewListingService creates the combined folder+file listing engine.
// tree supplies breadcrumbs for non-root listings.
func NewListingService(
	folders contentRepo.FolderRepository,
	files contentRepo.FileRepository,
	leaves []contentRepo.LeafAdapter,
	access services.AccessEvaluator,
	tree contentSvc.FolderService,
	logger *slog.Logger,
) contentSvc.ListingService {
	return &listingService{
		folders: folders,
		files:   files,
		leaves:  leaves,
		access:  access,
		tree:    tree,
		logger:  logger,
	}
}

// List returns one page of a level's content: subfolders first, then
// files, sliced from the virtual sequence [folders...][files...].
func (s *listingService) List(ctx context.Context, req *contentSvc.ListRequest) (*content.Listing, error) {
	req.Options.ApplyDefaults()
	if err := req.Options.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	scope, folder, err := s.resolveLevel(ctx, req)
	if err != nil {
		return nil, err
	}

	var parentID *string
	if folder != nil {
		parentID = &folder.ID
	}

	// Both totals are needed before the page can be split, so they run
	// concurrently and independently of the row fetches
	var totalFolders, totalFiles int
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		totalFolders, err = s.folders.CountAt(gctx, scope, parentID, req.Options.Search)
		if err != nil {
			return fmt.Errorf("count folders: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		totalFiles, err = s.files.CountAt(gctx, scope, parentID, req.Options.Search)
		if err != nil {
			return fmt.Errorf("count files: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	window := content.SplitWindow(req.Options.Page, req.Options.PageSize, totalFolders, totalFiles)

	var pageFolders []content.Folder
	var pageFiles []content.File
	g, gctx = errgroup.WithContext(ctx)
	if window.FoldersTake > 0 {
		g.Go(func() error {
			var err error
			pageFolders, err = s.folders.ListAt(gctx, scope, parentID, req.Options.Search,
				window.FoldersSkip, window.FoldersTake, req.Options.SortKey, req.Options.SortDir)
			if err != nil {
				return fmt.Errorf("list folders: %w", err)
			}
			return nil
		})
	}
	if window.FilesTake > 0 {
		g.Go(func() error {
			var err error
			pageFiles, err = s.files.ListAt(gctx, scope, parentID, req.Options.Search,
				window.FilesSkip, window.FilesTake, req.Options.SortKey, req.Options.SortDir)
			if err != nil {
				return fmt.Errorf("list files: %w", err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	entries, err := s.decorate(ctx, pageFolders)
	if err != nil {
		return nil, err
	}

	listing := &content.Listing{
		Folder:       folder,
		Folders:      entries,
		Files:        pageFiles,
		TotalFolders: totalFolders,
		TotalFiles:   totalFiles,
		Page:         req.Options.Page,
		PageSize:     req.Options.PageSize,
		TotalPages:   content.TotalPages(totalFolders, totalFiles, req.Options.PageSize),
	}
	if listing.Files == nil {
		listing.Files = []content.File{}
	}

	if folder != nil {
		crumbs, err := s.tree.Ancestry(ctx, req.ActorID, folder.ID)
		if err != nil {
			return nil, err
		}
		listing.Breadcrumb = crumbs
	}

	return listing, nil
}

// resolveLevel identifies the level being listed and checks the actor
// can read it. An unreadable folder or scope is reported as missing.
func (s *listingService) resolveLevel(ctx context.Context, req *contentSvc.ListRequest) (content.Scope, *content.Folder, error) {
	if req.FolderID != nil {
		folder, err := s.folders.GetByID(ctx, *req.FolderID)
		if err != nil {
			return content.Scope{}, nil, err
		}
		grant, err := s.access.Evaluate(ctx, req.ActorID, folder)
		if err != nil {
			return content.Scope{}, nil, err
		}
		if !grant.CanRead {
			return content.Scope{}, nil, fmt.Errorf("folder %s: %w", folder.ID, domain.ErrNotFound)
		}
		return content.ScopeOf(folder), folder, nil
	}

	grant, err := s.access.EvaluateScope(ctx, req.ActorID, req.Scope)
	if err != nil {
		return content.Scope{}, nil, err
	}
	if !grant.CanRead {
		return content.Scope{}, nil, fmt.Errorf("scope root: %w", domain.ErrNotFound)
	}
	return req.Scope, nil, nil
}

// decorate attaches direct child aggregates to the page's folders with
// one grouped query per kind instead of one query per folder
func (s *listingService) decorate(ctx context.Context, folders []content.Folder) ([]content.FolderEntry, error) {
	entries := make([]content.FolderEntry, 0, len(folders))
	if len(folders) == 0 {
		return entries, nil
	}

	ids := make([]string, len(folders))
	for i, f := range folders {
		ids[i] = f.ID
	}

	var subfolderCounts map[string]int
	leafCounts := make([]map[string]int, len(s.leaves))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		subfolderCounts, err = s.folders.CountChildrenGrouped(gctx, ids)
		if err != nil {
			return fmt.Errorf("count grouped subfolders: %w", err)
		}
		return nil
	})
	for i, adapter := range s.leaves {
		g.Go(func() error {
			counts, err := adapter.CountGrouped(gctx, ids)
			if err != nil {
				return fmt.Errorf("count grouped %s: %w", adapter.Kind(), err)
			}
			leafCounts[i] = counts
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, f := range folders {
		entry := content.FolderEntry{
			Folder:        f,
			DirectFolders: subfolderCounts[f.ID],
		}
		for _, counts := range leafCounts {
			entry.DirectLeaves += counts[f.ID]
		}
		entries = append(entries, entry)
	}

	return entries, nil
}
