package model

import "time"

// ExportedBookmark is a flattened bookmark record with the joined titles of
// its ancestor folders.
type ExportedBookmark struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	URL        string    `json:"url"`
	DateAdded  time.Time `json:"dateAdded"`
	FolderPath string    `json:"folderPath"`
}

// Export is a read-only snapshot of the whole bookmark collection, used for
// backup files and as input to search and categorization.
type Export struct {
	ExportDate time.Time          `json:"exportDate"`
	Version    string             `json:"version"`
	Bookmarks  []ExportedBookmark `json:"bookmarks"`
}
