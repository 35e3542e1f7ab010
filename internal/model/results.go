package model

// MoveRequest asks for a single bookmark to be moved into a folder.
type MoveRequest struct {
	BookmarkID string `json:"bookmarkId"`
	FolderID   string `json:"folderId"`
}

// MoveError records a single failed move within a batch.
type MoveError struct {
	BookmarkID string `json:"bookmarkId"`
	Err        string `json:"error"`
}

// MoveResult aggregates the outcome of a move batch.
// Invariant: Success + Errors equals the number of requests processed.
type MoveResult struct {
	Success      int         `json:"success"`
	Errors       int         `json:"errors"`
	ErrorDetails []MoveError `json:"errorDetails"`
}

// Consolidation actions recorded in ConsolidationPath.
const (
	ActionConsolidated = "consolidated"
	ActionRemovedEmpty = "removed_empty"
)

// ConsolidationPath records what happened to one folder during a
// consolidation run.
type ConsolidationPath struct {
	FolderName    string `json:"folderName"`
	BookmarkCount int    `json:"bookmarkCount"`
	Action        string `json:"action"`
}

// ConsolidationResult aggregates one consolidation run. It is reset at the
// start of every run and never accumulates across runs.
type ConsolidationResult struct {
	FoldersProcessed int                 `json:"foldersProcessed"`
	BookmarksMoved   int                 `json:"bookmarksMoved"`
	FoldersRemoved   int                 `json:"foldersRemoved"`
	Paths            []ConsolidationPath `json:"consolidationPaths"`
}
