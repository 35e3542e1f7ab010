package store_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"tidymark/internal/store"
)

func openTestStore(t *testing.T) *store.SQLiteStore {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "bookmarks.db"))
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpen_SeedsContainers(t *testing.T) {
	s := openTestStore(t)

	containers, err := s.Tree(context.Background())
	if err != nil {
		t.Fatalf("failed to read tree: %v", err)
	}

	if len(containers) != 3 {
		t.Fatalf("expected 3 top-level containers, got %d", len(containers))
	}

	expected := []string{
		store.TitleBookmarksBar,
		store.TitleOtherBookmarks,
		store.TitleMobileBookmarks,
	}
	for i, title := range expected {
		if containers[i].Title != title {
			t.Errorf("container %d: expected %q, got %q", i, title, containers[i].Title)
		}
		if containers[i].ParentID != store.RootID {
			t.Errorf("container %q: expected parent %q, got %q", title, store.RootID, containers[i].ParentID)
		}
	}
}

func TestOpen_SeedIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bookmarks.db")

	s, err := store.Open(path)
	if err != nil {
		t.Fatalf("first open: %v", err)
	}
	if _, err := s.CreateFolder(context.Background(), "2", "Development"); err != nil {
		t.Fatalf("create folder: %v", err)
	}
	s.Close()

	s, err = store.Open(path)
	if err != nil {
		t.Fatalf("second open: %v", err)
	}
	defer s.Close()

	children, err := s.ListChildren(context.Background(), "2")
	if err != nil {
		t.Fatalf("list children: %v", err)
	}
	if len(children) != 1 || children[0].Title != "Development" {
		t.Errorf("expected created folder to survive reopen, got %v", children)
	}
}

func TestCreateFolder_AndListOrder(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	for _, title := range []string{"First", "Second", "Third"} {
		if _, err := s.CreateFolder(ctx, "2", title); err != nil {
			t.Fatalf("create %q: %v", title, err)
		}
	}

	children, err := s.ListChildren(ctx, "2")
	if err != nil {
		t.Fatalf("list children: %v", err)
	}

	expected := []string{"First", "Second", "Third"}
	for i, title := range expected {
		if children[i].Title != title {
			t.Errorf("listing order: expected %q at %d, got %q", title, i, children[i].Title)
		}
	}
}

func TestCreateFolder_InvalidParent(t *testing.T) {
	s := openTestStore(t)

	_, err := s.CreateFolder(context.Background(), "nope", "Development")
	if !errors.Is(err, store.ErrInvalidParent) {
		t.Errorf("expected ErrInvalidParent, got %v", err)
	}
}

func TestCreateBookmark_UnderBookmarkFails(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	b, err := s.CreateBookmark(ctx, "2", "GitHub", "https://github.com", time.Time{})
	if err != nil {
		t.Fatalf("create bookmark: %v", err)
	}

	_, err = s.CreateBookmark(ctx, b.ID, "Nested", "https://example.com", time.Time{})
	if !errors.Is(err, store.ErrInvalidParent) {
		t.Errorf("expected ErrInvalidParent for bookmark parent, got %v", err)
	}
}

func TestMove_Bookmark(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	folder, err := s.CreateFolder(ctx, "2", "Development")
	if err != nil {
		t.Fatalf("create folder: %v", err)
	}
	b, err := s.CreateBookmark(ctx, "2", "GitHub", "https://github.com", time.Time{})
	if err != nil {
		t.Fatalf("create bookmark: %v", err)
	}

	moved, err := s.Move(ctx, b.ID, folder.ID)
	if err != nil {
		t.Fatalf("move: %v", err)
	}
	if moved.ParentID != folder.ID {
		t.Errorf("expected parent %q, got %q", folder.ID, moved.ParentID)
	}

	children, err := s.ListChildren(ctx, folder.ID)
	if err != nil {
		t.Fatalf("list children: %v", err)
	}
	if len(children) != 1 || children[0].ID != b.ID {
		t.Errorf("expected bookmark in destination, got %v", children)
	}
}

func TestMove_MissingNodeAndParent(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if _, err := s.Move(ctx, "nope", "2"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound for missing node, got %v", err)
	}

	b, err := s.CreateBookmark(ctx, "2", "GitHub", "https://github.com", time.Time{})
	if err != nil {
		t.Fatalf("create bookmark: %v", err)
	}
	if _, err := s.Move(ctx, b.ID, "nope"); !errors.Is(err, store.ErrInvalidParent) {
		t.Errorf("expected ErrInvalidParent for missing destination, got %v", err)
	}
}

func TestMove_FolderIntoOwnSubtreeFails(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	parent, err := s.CreateFolder(ctx, "2", "Parent")
	if err != nil {
		t.Fatalf("create parent: %v", err)
	}
	child, err := s.CreateFolder(ctx, parent.ID, "Child")
	if err != nil {
		t.Fatalf("create child: %v", err)
	}

	if _, err := s.Move(ctx, parent.ID, child.ID); !errors.Is(err, store.ErrInvalidParent) {
		t.Errorf("expected ErrInvalidParent for cycle, got %v", err)
	}
}

func TestRemove_Bookmark(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	b, err := s.CreateBookmark(ctx, "2", "GitHub", "https://github.com", time.Time{})
	if err != nil {
		t.Fatalf("create bookmark: %v", err)
	}

	if err := s.Remove(ctx, b.ID); err != nil {
		t.Fatalf("remove: %v", err)
	}

	children, err := s.ListChildren(ctx, "2")
	if err != nil {
		t.Fatalf("list children: %v", err)
	}
	if len(children) != 0 {
		t.Errorf("expected no children after removal, got %d", len(children))
	}
}

func TestRemove_NonEmptyFolderFails(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	folder, err := s.CreateFolder(ctx, "2", "Development")
	if err != nil {
		t.Fatalf("create folder: %v", err)
	}
	if _, err := s.CreateBookmark(ctx, folder.ID, "GitHub", "https://github.com", time.Time{}); err != nil {
		t.Fatalf("create bookmark: %v", err)
	}

	if err := s.Remove(ctx, folder.ID); !errors.Is(err, store.ErrNotEmpty) {
		t.Errorf("expected ErrNotEmpty, got %v", err)
	}
}

func TestRemove_MissingNode(t *testing.T) {
	s := openTestStore(t)

	if err := s.Remove(context.Background(), "nope"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestRemove_RootIsProtected(t *testing.T) {
	s := openTestStore(t)

	if err := s.Remove(context.Background(), store.RootID); !errors.Is(err, store.ErrProtected) {
		t.Errorf("expected ErrProtected, got %v", err)
	}
}

func TestSubtree_NestsChildren(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	dev, err := s.CreateFolder(ctx, "2", "Development")
	if err != nil {
		t.Fatalf("create folder: %v", err)
	}
	goFolder, err := s.CreateFolder(ctx, dev.ID, "Go")
	if err != nil {
		t.Fatalf("create folder: %v", err)
	}
	if _, err := s.CreateBookmark(ctx, goFolder.ID, "Go Docs", "https://go.dev", time.Time{}); err != nil {
		t.Fatalf("create bookmark: %v", err)
	}

	tree, err := s.Subtree(ctx, dev.ID)
	if err != nil {
		t.Fatalf("subtree: %v", err)
	}

	if tree.Title != "Development" {
		t.Errorf("expected root Development, got %q", tree.Title)
	}
	if len(tree.Children) != 1 || tree.Children[0].Title != "Go" {
		t.Fatalf("expected nested Go folder, got %v", tree.Children)
	}
	leaf := tree.Children[0].Children
	if len(leaf) != 1 || leaf[0].URL != "https://go.dev" {
		t.Errorf("expected nested bookmark, got %v", leaf)
	}
}

func TestSubtree_MissingNode(t *testing.T) {
	s := openTestStore(t)

	if _, err := s.Subtree(context.Background(), "nope"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
