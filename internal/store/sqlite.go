package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"tidymark/internal/model"
)

const currentSchemaVersion = 1

// SQLiteStore implements BookmarkStore on a local SQLite database.
type SQLiteStore struct {
	db   *sql.DB
	path string
}

// Open opens (or creates) the bookmark database at the given path and
// seeds the synthetic root and the reserved top-level containers.
func Open(path string) (*SQLiteStore, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, err
		}
	}

	s := &SQLiteStore{db: db, path: path}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	if err := s.seed(); err != nil {
		db.Close()
		return nil, err
	}

	return s, nil
}

// Path returns the database file path.
func (s *SQLiteStore) Path() string {
	return s.path
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// migrate runs database migrations.
func (s *SQLiteStore) migrate() error {
	var version int
	err := s.db.QueryRow("SELECT version FROM schema_version LIMIT 1").Scan(&version)
	if err != nil {
		// Table doesn't exist or is empty, start fresh
		version = 0
	}

	if version < 1 {
		if err := s.migrateV1(); err != nil {
			return err
		}
	}

	return nil
}

// migrateV1 creates the initial schema.
func (s *SQLiteStore) migrateV1() error {
	schema := `
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY
		);

		CREATE TABLE IF NOT EXISTS nodes (
			id TEXT PRIMARY KEY NOT NULL,
			parent_id TEXT,
			title TEXT NOT NULL,
			url TEXT NOT NULL DEFAULT '',
			date_added TEXT NOT NULL,
			position INTEGER NOT NULL DEFAULT 0,
			FOREIGN KEY (parent_id) REFERENCES nodes(id) ON DELETE CASCADE
		);

		CREATE INDEX IF NOT EXISTS idx_nodes_parent_id ON nodes(parent_id);

		INSERT OR REPLACE INTO schema_version (version) VALUES (1);
	`
	_, err := s.db.Exec(schema)
	return err
}

// seed inserts the synthetic root and the reserved containers. The fixed
// IDs mirror the numbering browsers use for their default containers.
func (s *SQLiteStore) seed() error {
	now := time.Now().Format(time.RFC3339)

	roots := []struct {
		id       string
		parentID any
		title    string
		position int
	}{
		{RootID, nil, "", 0},
		{"1", RootID, TitleBookmarksBar, 1},
		{"2", RootID, TitleOtherBookmarks, 2},
		{"3", RootID, TitleMobileBookmarks, 3},
	}

	for _, r := range roots {
		_, err := s.db.Exec(`
			INSERT OR IGNORE INTO nodes (id, parent_id, title, url, date_added, position)
			VALUES (?, ?, ?, '', ?, ?)
		`, r.id, r.parentID, r.title, now, r.position)
		if err != nil {
			return err
		}
	}
	return nil
}

// getNode loads a single node without children.
func (s *SQLiteStore) getNode(ctx context.Context, id string) (model.Node, error) {
	var n model.Node
	var parentID sql.NullString
	var dateAdded string

	err := s.db.QueryRowContext(ctx, `
		SELECT id, parent_id, title, url, date_added
		FROM nodes
		WHERE id = ?
	`, id).Scan(&n.ID, &parentID, &n.Title, &n.URL, &dateAdded)
	if err == sql.ErrNoRows {
		return model.Node{}, fmt.Errorf("node %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return model.Node{}, err
	}

	if parentID.Valid {
		n.ParentID = parentID.String
	}
	n.DateAdded, _ = time.Parse(time.RFC3339, dateAdded)

	return n, nil
}

// ListChildren returns the direct children of a folder in listing order.
func (s *SQLiteStore) ListChildren(ctx context.Context, parentID string) ([]model.Node, error) {
	parent, err := s.getNode(ctx, parentID)
	if err != nil {
		return nil, err
	}
	if !parent.IsFolder() {
		return nil, fmt.Errorf("node %s: %w", parentID, ErrInvalidParent)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, parent_id, title, url, date_added
		FROM nodes
		WHERE parent_id = ?
		ORDER BY position
	`, parentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	children := []model.Node{}
	for rows.Next() {
		var n model.Node
		var pid sql.NullString
		var dateAdded string

		if err := rows.Scan(&n.ID, &pid, &n.Title, &n.URL, &dateAdded); err != nil {
			return nil, err
		}
		if pid.Valid {
			n.ParentID = pid.String
		}
		n.DateAdded, _ = time.Parse(time.RFC3339, dateAdded)
		children = append(children, n)
	}
	return children, rows.Err()
}

// nextPosition returns the listing position for a new child of parentID.
func (s *SQLiteStore) nextPosition(ctx context.Context, parentID string) (int, error) {
	var max sql.NullInt64
	err := s.db.QueryRowContext(ctx,
		"SELECT MAX(position) FROM nodes WHERE parent_id = ?", parentID,
	).Scan(&max)
	if err != nil {
		return 0, err
	}
	return int(max.Int64) + 1, nil
}

// checkParent verifies that parentID exists and is a folder.
func (s *SQLiteStore) checkParent(ctx context.Context, parentID string) error {
	parent, err := s.getNode(ctx, parentID)
	if err != nil {
		return fmt.Errorf("parent %s: %w", parentID, ErrInvalidParent)
	}
	if !parent.IsFolder() {
		return fmt.Errorf("parent %s: %w", parentID, ErrInvalidParent)
	}
	return nil
}

// CreateFolder creates a folder under the given parent.
func (s *SQLiteStore) CreateFolder(ctx context.Context, parentID, title string) (model.Node, error) {
	if err := s.checkParent(ctx, parentID); err != nil {
		return model.Node{}, err
	}

	pos, err := s.nextPosition(ctx, parentID)
	if err != nil {
		return model.Node{}, err
	}

	n := model.Node{
		ID:        model.GenerateUUID(),
		ParentID:  parentID,
		Title:     title,
		DateAdded: time.Now(),
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO nodes (id, parent_id, title, url, date_added, position)
		VALUES (?, ?, ?, '', ?, ?)
	`, n.ID, n.ParentID, n.Title, n.DateAdded.Format(time.RFC3339), pos)
	if err != nil {
		return model.Node{}, err
	}

	return n, nil
}

// CreateBookmark creates a bookmark leaf under the given parent.
func (s *SQLiteStore) CreateBookmark(ctx context.Context, parentID, title, url string, dateAdded time.Time) (model.Node, error) {
	if url == "" {
		return model.Node{}, fmt.Errorf("bookmark %q: empty URL", title)
	}
	if err := s.checkParent(ctx, parentID); err != nil {
		return model.Node{}, err
	}

	pos, err := s.nextPosition(ctx, parentID)
	if err != nil {
		return model.Node{}, err
	}

	if dateAdded.IsZero() {
		dateAdded = time.Now()
	}

	n := model.Node{
		ID:        model.GenerateUUID(),
		ParentID:  parentID,
		Title:     title,
		URL:       url,
		DateAdded: dateAdded,
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO nodes (id, parent_id, title, url, date_added, position)
		VALUES (?, ?, ?, ?, ?, ?)
	`, n.ID, n.ParentID, n.Title, n.URL, n.DateAdded.Format(time.RFC3339), pos)
	if err != nil {
		return model.Node{}, err
	}

	return n, nil
}

// Move reparents a node to the end of the destination's listing order.
func (s *SQLiteStore) Move(ctx context.Context, nodeID, newParentID string) (model.Node, error) {
	n, err := s.getNode(ctx, nodeID)
	if err != nil {
		return model.Node{}, err
	}
	if nodeID == RootID {
		return model.Node{}, fmt.Errorf("node %s: %w", nodeID, ErrProtected)
	}
	if err := s.checkParent(ctx, newParentID); err != nil {
		return model.Node{}, err
	}

	// A folder must not be moved into its own subtree.
	if n.IsFolder() {
		ancestor := newParentID
		for ancestor != "" {
			if ancestor == nodeID {
				return model.Node{}, fmt.Errorf("destination %s is inside %s: %w", newParentID, nodeID, ErrInvalidParent)
			}
			parent, err := s.getNode(ctx, ancestor)
			if err != nil {
				break
			}
			ancestor = parent.ParentID
		}
	}

	pos, err := s.nextPosition(ctx, newParentID)
	if err != nil {
		return model.Node{}, err
	}

	_, err = s.db.ExecContext(ctx,
		"UPDATE nodes SET parent_id = ?, position = ? WHERE id = ?",
		newParentID, pos, nodeID,
	)
	if err != nil {
		return model.Node{}, err
	}

	n.ParentID = newParentID
	return n, nil
}

// Remove deletes a node. Folders must be empty.
func (s *SQLiteStore) Remove(ctx context.Context, nodeID string) error {
	n, err := s.getNode(ctx, nodeID)
	if err != nil {
		return err
	}
	if nodeID == RootID {
		return fmt.Errorf("node %s: %w", nodeID, ErrProtected)
	}

	if n.IsFolder() {
		var count int
		err := s.db.QueryRowContext(ctx,
			"SELECT COUNT(*) FROM nodes WHERE parent_id = ?", nodeID,
		).Scan(&count)
		if err != nil {
			return err
		}
		if count > 0 {
			return fmt.Errorf("folder %q: %w", n.Title, ErrNotEmpty)
		}
	}

	_, err = s.db.ExecContext(ctx, "DELETE FROM nodes WHERE id = ?", nodeID)
	return err
}

// Subtree returns the node with all descendants nested under Children.
func (s *SQLiteStore) Subtree(ctx context.Context, rootID string) (*model.Node, error) {
	nodes, children, err := s.loadAll(ctx)
	if err != nil {
		return nil, err
	}

	root, ok := nodes[rootID]
	if !ok {
		return nil, fmt.Errorf("node %s: %w", rootID, ErrNotFound)
	}

	tree := assemble(root, nodes, children)
	return &tree, nil
}

// Tree returns the top-level containers with nested children.
func (s *SQLiteStore) Tree(ctx context.Context) ([]model.Node, error) {
	nodes, children, err := s.loadAll(ctx)
	if err != nil {
		return nil, err
	}

	containers := []model.Node{}
	for _, id := range children[RootID] {
		containers = append(containers, assemble(nodes[id], nodes, children))
	}
	return containers, nil
}

// loadAll reads every node once and returns a node map plus child ID lists
// in listing order, keyed by parent ID.
func (s *SQLiteStore) loadAll(ctx context.Context) (map[string]model.Node, map[string][]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, parent_id, title, url, date_added
		FROM nodes
		ORDER BY parent_id, position
	`)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	nodes := make(map[string]model.Node)
	children := make(map[string][]string)

	for rows.Next() {
		var n model.Node
		var pid sql.NullString
		var dateAdded string

		if err := rows.Scan(&n.ID, &pid, &n.Title, &n.URL, &dateAdded); err != nil {
			return nil, nil, err
		}
		if pid.Valid {
			n.ParentID = pid.String
		}
		n.DateAdded, _ = time.Parse(time.RFC3339, dateAdded)

		nodes[n.ID] = n
		if pid.Valid {
			children[pid.String] = append(children[pid.String], n.ID)
		}
	}
	return nodes, children, rows.Err()
}

// assemble recursively attaches children to a node copy.
func assemble(n model.Node, nodes map[string]model.Node, children map[string][]string) model.Node {
	for _, childID := range children[n.ID] {
		n.Children = append(n.Children, assemble(nodes[childID], nodes, children))
	}
	return n
}

// DefaultDatabasePath returns the default database path: ~/.config/tidymark/bookmarks.db
func DefaultDatabasePath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".config", "tidymark", "bookmarks.db"), nil
}
