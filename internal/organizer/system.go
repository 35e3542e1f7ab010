package organizer

import (
	"tidymark/internal/model"
	"tidymark/internal/store"
)

var defaultReserved = titleSet(store.ReservedTitles())

// titleSet builds a lookup set from a list of folder titles.
func titleSet(titles []string) map[string]bool {
	set := make(map[string]bool, len(titles))
	for _, t := range titles {
		set[t] = true
	}
	return set
}

func reservedTitles() map[string]bool {
	return defaultReserved
}

// isSystemFolder reports whether a folder must never be modified: a nil
// node, the synthetic root or a folder directly under it, or a folder
// whose title exactly matches a reserved container name at any depth.
func isSystemFolder(n *model.Node, reserved map[string]bool) bool {
	if n == nil {
		return true
	}
	if n.ParentID == "" || n.ParentID == store.RootID {
		return true
	}
	return reserved[n.Title]
}

// countBookmarks returns the number of bookmark descendants of a node,
// direct and indirect. Folders themselves do not count.
func countBookmarks(n *model.Node) int {
	if !n.IsFolder() {
		return 1
	}
	count := 0
	for i := range n.Children {
		count += countBookmarks(&n.Children[i])
	}
	return count
}
