package store

import (
	"context"
	"errors"

	"tidymark/internal/model"
)

// RootID identifies the synthetic root of the bookmark tree. The root and
// the reserved containers directly under it are system folders: they are
// never created, moved, consolidated, or removed by the engine.
const RootID = "0"

// Reserved top-level container titles.
const (
	TitleBookmarksBar    = "Bookmarks Bar"
	TitleOtherBookmarks  = "Other Bookmarks"
	TitleMobileBookmarks = "Mobile Bookmarks"
	TitleRecentlyAdded   = "Recently Added"
)

var (
	// ErrNotFound is returned when a node ID does not exist.
	ErrNotFound = errors.New("node not found")
	// ErrNotEmpty is returned when removing a folder that still has children.
	ErrNotEmpty = errors.New("folder not empty")
	// ErrInvalidParent is returned when a destination folder is missing,
	// not a folder, or would create a cycle.
	ErrInvalidParent = errors.New("invalid parent folder")
	// ErrProtected is returned when mutating the root or a reserved container.
	ErrProtected = errors.New("node is protected")
)

// ReservedTitles returns the store-defined container titles that mark a
// folder as a system folder.
func ReservedTitles() []string {
	return []string{
		TitleBookmarksBar,
		TitleOtherBookmarks,
		TitleMobileBookmarks,
		TitleRecentlyAdded,
	}
}

// BookmarkStore is the adapter contract over an external bookmark tree.
// All mutations go through this interface; implementations resolve or
// reject each call and impose no retry or timeout behavior of their own.
type BookmarkStore interface {
	// ListChildren returns the direct children of a folder in listing order.
	ListChildren(ctx context.Context, parentID string) ([]model.Node, error)
	// CreateFolder creates a folder under the given parent.
	CreateFolder(ctx context.Context, parentID, title string) (model.Node, error)
	// Move reparents a node. Fails if the node or destination is invalid.
	Move(ctx context.Context, nodeID, newParentID string) (model.Node, error)
	// Remove deletes a node. Fails for missing nodes and non-empty folders.
	Remove(ctx context.Context, nodeID string) error
	// Subtree returns the node with all descendants nested under Children.
	Subtree(ctx context.Context, rootID string) (*model.Node, error)
	// Tree returns the top-level containers with nested children.
	Tree(ctx context.Context) ([]model.Node, error)
}
