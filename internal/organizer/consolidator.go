package organizer

import (
	"context"
	"fmt"
	"log/slog"

	"tidymark/internal/model"
	"tidymark/internal/store"
)

// DefaultMinBookmarks is the default consolidation threshold.
const DefaultMinBookmarks = 3

// DefaultFallbackFolder receives bookmarks from sparse folders whose
// parent is a system folder.
const DefaultFallbackFolder = "Uncategorized"

// FolderConsolidator merges sparse folders (below a bookmark-count
// threshold) into their parent or a fallback bucket and removes folders
// left empty. System folders are never touched.
//
// Like FolderManager, a consolidator is single-session state and not safe
// for concurrent use.
type FolderConsolidator struct {
	store     store.BookmarkStore
	manager   *FolderManager
	log       *slog.Logger
	threshold int
	fallback  string
	reserved  map[string]bool
	result    model.ConsolidationResult
}

// FolderConsolidatorParams holds parameters for creating a FolderConsolidator.
type FolderConsolidatorParams struct {
	Store store.BookmarkStore
	// Manager resolves the fallback bucket; a private manager is created
	// when nil.
	Manager *FolderManager
	// Threshold is the minimum bookmark count a folder needs to survive
	// consolidation. Defaults to DefaultMinBookmarks.
	Threshold int
	// FallbackFolder names the bucket used when a sparse folder's parent
	// is a system folder. Defaults to DefaultFallbackFolder.
	FallbackFolder string
	// ReservedTitles overrides the store's reserved container names.
	ReservedTitles []string
	Logger         *slog.Logger
}

// NewFolderConsolidator creates a FolderConsolidator.
func NewFolderConsolidator(params FolderConsolidatorParams) *FolderConsolidator {
	logger := params.Logger
	if logger == nil {
		logger = slog.Default()
	}
	manager := params.Manager
	if manager == nil {
		manager = NewFolderManager(FolderManagerParams{
			Store:          params.Store,
			ReservedTitles: params.ReservedTitles,
			Logger:         logger,
		})
	}
	threshold := params.Threshold
	if threshold < 1 {
		threshold = DefaultMinBookmarks
	}
	fallback := params.FallbackFolder
	if fallback == "" {
		fallback = DefaultFallbackFolder
	}
	reserved := reservedTitles()
	if len(params.ReservedTitles) > 0 {
		reserved = titleSet(params.ReservedTitles)
	}
	return &FolderConsolidator{
		store:     params.Store,
		manager:   manager,
		log:       logger,
		threshold: threshold,
		fallback:  fallback,
		reserved:  reserved,
	}
}

// MinBookmarksThreshold returns the current threshold.
func (c *FolderConsolidator) MinBookmarksThreshold() int {
	return c.threshold
}

// SetMinBookmarksThreshold updates the threshold. Values below 1 are
// silently ignored and the current threshold is kept.
func (c *FolderConsolidator) SetMinBookmarksThreshold(n int) {
	if n < 1 {
		return
	}
	c.threshold = n
}

// ConsolidateSparseFolders walks the folder tree from each top-level
// container and consolidates every non-system folder whose bookmark count
// is below the threshold. Empty folders are removed outright. A store
// error on one folder skips that folder and continues with the rest.
func (c *FolderConsolidator) ConsolidateSparseFolders(ctx context.Context) model.ConsolidationResult {
	c.result = model.ConsolidationResult{Paths: []model.ConsolidationPath{}}

	roots, err := c.store.Tree(ctx)
	if err != nil {
		c.log.Warn("consolidation skipped, bookmark tree unavailable", "err", err)
		return c.result
	}

	for i := range roots {
		root := &roots[i]
		if !root.IsFolder() {
			continue
		}
		// Top-level containers are system folders; only their
		// descendants are candidates.
		for j := range root.Children {
			c.consolidateNode(ctx, &root.Children[j], root)
		}
	}
	return c.result
}

// consolidateNode processes one folder's subtree in post-order: sparse
// children are merged into n before n itself is evaluated, so a sparse
// folder holds only direct bookmarks by the time it is consolidated.
func (c *FolderConsolidator) consolidateNode(ctx context.Context, n, parent *model.Node) {
	if !n.IsFolder() || isSystemFolder(n, c.reserved) {
		return
	}
	// The fallback bucket is a merge target, never a candidate.
	if n.Title == c.fallback {
		return
	}

	for i := range n.Children {
		c.consolidateNode(ctx, &n.Children[i], n)
	}

	count := countBookmarks(n)
	switch {
	case count == 0:
		c.removeEmptyFolder(ctx, n.ID, n.Title)
	case count < c.threshold:
		if err := c.consolidateFolder(ctx, n, parent, count); err != nil {
			c.log.Warn("folder not consolidated", "folder", n.Title, "err", err)
			return
		}
	default:
		c.result.FoldersProcessed++
	}
}

// consolidateFolder moves n's bookmarks up to its parent (or the fallback
// bucket when the parent is a system folder) and removes the emptied
// folder. Counters are only updated when the whole operation succeeds:
// bookmarks moved before a later failure stay where they landed but are
// not reported, and the folder is retried on the next run.
func (c *FolderConsolidator) consolidateFolder(ctx context.Context, n, parent *model.Node, count int) error {
	targetID := parent.ID
	if isSystemFolder(parent, c.reserved) {
		id, err := c.manager.ResolveCategoryFolder(ctx, c.fallback, parent.ID)
		if err != nil {
			return fmt.Errorf("resolve fallback folder: %w", err)
		}
		targetID = id
	}

	children, err := c.store.ListChildren(ctx, n.ID)
	if err != nil {
		return fmt.Errorf("list folder contents: %w", err)
	}

	moved := 0
	for _, child := range children {
		if child.IsFolder() {
			// Post-order left an unconsolidatable subfolder behind;
			// leave this folder in place rather than gut it.
			return fmt.Errorf("folder %q still has subfolder %q", n.Title, child.Title)
		}
		if _, err := c.store.Move(ctx, child.ID, targetID); err != nil {
			return fmt.Errorf("move bookmark %q: %w", child.Title, err)
		}
		moved++
	}

	if err := c.store.Remove(ctx, n.ID); err != nil {
		return fmt.Errorf("remove folder: %w", err)
	}

	c.result.FoldersProcessed++
	c.result.BookmarksMoved += moved
	c.result.FoldersRemoved++
	c.result.Paths = append(c.result.Paths, model.ConsolidationPath{
		FolderName:    n.Title,
		BookmarkCount: count,
		Action:        model.ActionConsolidated,
	})
	return nil
}

// removeEmptyFolder removes a folder with no bookmark descendants. A
// failed removal is logged and leaves all counters unchanged.
func (c *FolderConsolidator) removeEmptyFolder(ctx context.Context, id, title string) {
	if err := c.store.Remove(ctx, id); err != nil {
		c.log.Warn("empty folder not removed", "folder", title, "err", err)
		return
	}
	c.result.FoldersProcessed++
	c.result.FoldersRemoved++
	c.result.Paths = append(c.result.Paths, model.ConsolidationPath{
		FolderName:    title,
		BookmarkCount: 0,
		Action:        model.ActionRemovedEmpty,
	})
}
