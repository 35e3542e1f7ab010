// Package organizer materializes category paths into bookmark store
// folders, moves bookmarks into them, and keeps the resulting folder tree
// tidy. Batch operations isolate failures per item: a single bad category
// or move never aborts its siblings.
package organizer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"tidymark/internal/model"
	"tidymark/internal/store"
)

const exportVersion = "1.0"

// ErrInvalidPath is returned for category strings with no usable segments.
var ErrInvalidPath = errors.New("empty category path")

// cacheKey identifies a resolved folder by its parent and title.
type cacheKey struct {
	parentID string
	name     string
}

// FolderManager resolves category paths into store folder IDs, creating
// missing segments and caching resolutions for its own lifetime.
//
// A FolderManager is not safe for concurrent use; run one organizing
// session per instance so the cache stays consistent.
type FolderManager struct {
	store    store.BookmarkStore
	log      *slog.Logger
	baseID   string
	reserved map[string]bool
	cache    map[cacheKey]string
}

// FolderManagerParams holds parameters for creating a FolderManager.
type FolderManagerParams struct {
	Store store.BookmarkStore
	// BaseID is the parent for top-level category folders.
	// Defaults to the store root.
	BaseID string
	// ReservedTitles overrides the store's reserved container names.
	ReservedTitles []string
	Logger         *slog.Logger
}

// NewFolderManager creates a FolderManager with an empty cache.
func NewFolderManager(params FolderManagerParams) *FolderManager {
	logger := params.Logger
	if logger == nil {
		logger = slog.Default()
	}
	baseID := params.BaseID
	if baseID == "" {
		baseID = store.RootID
	}
	reserved := reservedTitles()
	if len(params.ReservedTitles) > 0 {
		reserved = titleSet(params.ReservedTitles)
	}
	return &FolderManager{
		store:    params.Store,
		log:      logger,
		baseID:   baseID,
		reserved: reserved,
		cache:    make(map[cacheKey]string),
	}
}

// CreateCategoryFolders resolves each category path under the manager's
// base folder, creating missing segments. Categories that fail to resolve
// are logged and left out of the result; the batch never aborts.
func (m *FolderManager) CreateCategoryFolders(ctx context.Context, categories []string) map[string]string {
	resolved := make(map[string]string)
	for _, category := range categories {
		id, err := m.ResolveCategoryFolder(ctx, category, m.baseID)
		if err != nil {
			m.log.Warn("category folder not created", "category", category, "err", err)
			continue
		}
		resolved[category] = id
	}
	return resolved
}

// ResolveCategoryFolder walks the category's segments left to right under
// parentID, reusing cached or existing folders and creating the rest.
// Returns the ID of the final segment's folder. An empty parentID means
// the store root.
func (m *FolderManager) ResolveCategoryFolder(ctx context.Context, category, parentID string) (string, error) {
	segments := model.SplitCategoryPath(category)
	if len(segments) == 0 {
		return "", fmt.Errorf("category %q: %w", category, ErrInvalidPath)
	}

	if parentID == "" {
		parentID = store.RootID
	}

	current := parentID
	for _, name := range segments {
		id, err := m.resolveSegment(ctx, current, name)
		if err != nil {
			return "", err
		}
		current = id
	}
	return current, nil
}

// resolveSegment resolves one path segment under a parent: cache first,
// then an existing folder with the exact title, then a fresh folder. The
// cache is populated on every branch. When duplicate same-named folders
// already exist, the first one in listing order wins.
func (m *FolderManager) resolveSegment(ctx context.Context, parentID, name string) (string, error) {
	key := cacheKey{parentID: parentID, name: name}
	if id, ok := m.cache[key]; ok {
		return id, nil
	}

	children, err := m.store.ListChildren(ctx, parentID)
	if err != nil {
		return "", fmt.Errorf("list children of %s: %w", parentID, err)
	}
	for _, child := range children {
		if child.IsFolder() && child.Title == name {
			m.cache[key] = child.ID
			return child.ID, nil
		}
	}

	node, err := m.store.CreateFolder(ctx, parentID, name)
	if err != nil {
		return "", fmt.Errorf("create folder %q: %w", name, err)
	}
	m.cache[key] = node.ID
	return node.ID, nil
}

// MoveBookmarks attempts every move exactly once. Failures are captured in
// the result's error details; siblings keep processing.
func (m *FolderManager) MoveBookmarks(ctx context.Context, moves []model.MoveRequest) model.MoveResult {
	result := model.MoveResult{ErrorDetails: []model.MoveError{}}
	for _, mv := range moves {
		if _, err := m.store.Move(ctx, mv.BookmarkID, mv.FolderID); err != nil {
			m.log.Warn("bookmark move failed", "bookmark", mv.BookmarkID, "folder", mv.FolderID, "err", err)
			result.Errors++
			result.ErrorDetails = append(result.ErrorDetails, model.MoveError{
				BookmarkID: mv.BookmarkID,
				Err:        err.Error(),
			})
			continue
		}
		result.Success++
	}
	return result
}

// FolderStructure builds the statistics tree for the subtree at rootID.
// Returns nil when the subtree cannot be fetched; callers must treat nil
// as "structure unavailable", not as an empty tree.
func (m *FolderManager) FolderStructure(ctx context.Context, rootID string) *model.FolderNode {
	root, err := m.store.Subtree(ctx, rootID)
	if err != nil {
		m.log.Warn("folder structure unavailable", "root", rootID, "err", err)
		return nil
	}
	return buildFolderNode(root)
}

// buildFolderNode recursively converts a store subtree into a FolderNode.
// A folder's BookmarkCount is its direct bookmark children plus the counts
// of its folder children.
func buildFolderNode(n *model.Node) *model.FolderNode {
	node := &model.FolderNode{
		ID:       n.ID,
		Title:    n.Title,
		Children: []*model.FolderNode{},
	}
	for i := range n.Children {
		child := &n.Children[i]
		if !child.IsFolder() {
			node.BookmarkCount++
			continue
		}
		sub := buildFolderNode(child)
		node.BookmarkCount += sub.BookmarkCount
		node.Children = append(node.Children, sub)
	}
	return node
}

// CleanupEmptyFolders removes empty folders below rootID in post-order, so
// a folder that becomes empty once its empty children are gone is itself
// removed. The rootID node and system folders are never removed. Removal
// failures are swallowed and not counted. Returns the number removed.
func (m *FolderManager) CleanupEmptyFolders(ctx context.Context, rootID string) int {
	root, err := m.store.Subtree(ctx, rootID)
	if err != nil {
		m.log.Warn("cleanup skipped, subtree unavailable", "root", rootID, "err", err)
		return 0
	}

	removed := 0
	for i := range root.Children {
		n, _ := m.cleanupNode(ctx, &root.Children[i])
		removed += n
	}
	return removed
}

// cleanupNode processes one folder's subtree and reports how many folders
// were removed and whether the folder itself was.
func (m *FolderManager) cleanupNode(ctx context.Context, n *model.Node) (removed int, self bool) {
	if !n.IsFolder() {
		return 0, false
	}

	hasBookmark := false
	remaining := 0
	for i := range n.Children {
		child := &n.Children[i]
		if !child.IsFolder() {
			hasBookmark = true
			continue
		}
		r, gone := m.cleanupNode(ctx, child)
		removed += r
		if !gone {
			remaining++
		}
	}

	if hasBookmark || remaining > 0 || isSystemFolder(n, m.reserved) {
		return removed, false
	}

	if err := m.store.Remove(ctx, n.ID); err != nil {
		m.log.Warn("empty folder not removed", "folder", n.Title, "err", err)
		return removed, false
	}
	m.invalidate(n.ID)
	return removed + 1, true
}

// invalidate drops cache entries that resolve to the given folder or live
// directly under it, so a removed folder can never be handed out again.
func (m *FolderManager) invalidate(folderID string) {
	for key, id := range m.cache {
		if id == folderID || key.parentID == folderID {
			delete(m.cache, key)
		}
	}
}

// ExportOrganization walks the full store tree once and flattens every
// bookmark into a record carrying its containing folder path. Read-only.
func (m *FolderManager) ExportOrganization(ctx context.Context) (*model.Export, error) {
	roots, err := m.store.Tree(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch bookmark tree: %w", err)
	}

	export := &model.Export{
		ExportDate: time.Now(),
		Version:    exportVersion,
		Bookmarks:  []model.ExportedBookmark{},
	}
	for i := range roots {
		flattenBookmarks(&roots[i], "", &export.Bookmarks)
	}
	return export, nil
}

// flattenBookmarks appends every bookmark under n with its folder path.
func flattenBookmarks(n *model.Node, path string, out *[]model.ExportedBookmark) {
	if !n.IsFolder() {
		*out = append(*out, model.ExportedBookmark{
			ID:         n.ID,
			Title:      n.Title,
			URL:        n.URL,
			DateAdded:  n.DateAdded,
			FolderPath: path,
		})
		return
	}

	childPath := n.Title
	if path != "" {
		childPath = model.JoinFolderPath(path, n.Title)
	}
	for i := range n.Children {
		flattenBookmarks(&n.Children[i], childPath, out)
	}
}

// ClearCache drops all cached folder resolutions. Subsequent calls
// re-resolve from the store. Use after structural changes made outside
// this manager.
func (m *FolderManager) ClearCache() {
	m.cache = make(map[cacheKey]string)
}
