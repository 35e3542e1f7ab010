package model

import "time"

// Node is a raw node from the bookmark store. A node carrying a URL is a
// bookmark leaf; a node without one is a folder that may carry children.
// Consumers should tag nodes once at tree-construction time via IsFolder
// instead of re-checking the URL field ad hoc.
type Node struct {
	ID        string    `json:"id"`
	ParentID  string    `json:"parentId"`
	Title     string    `json:"title"`
	URL       string    `json:"url,omitempty"`
	DateAdded time.Time `json:"dateAdded"`
	Children  []Node    `json:"children,omitempty"`
}

// IsFolder reports whether the node is a folder.
func (n Node) IsFolder() bool {
	return n.URL == ""
}

// FolderNode is a derived statistics view of a folder subtree. It is built
// fresh on each pass and never mutated afterwards; bookmark leaves are not
// represented as nodes, they only contribute to BookmarkCount.
type FolderNode struct {
	ID            string        `json:"id"`
	Title         string        `json:"title"`
	Children      []*FolderNode `json:"children"`
	BookmarkCount int           `json:"bookmarkCount"`
}
