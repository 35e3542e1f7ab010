package model

import "strings"

// SplitCategoryPath splits a category string into folder name segments.
// Both "/" and ">" act as delimiters. Segments are trimmed and empty
// segments are dropped; a result with zero segments means the category
// string is not a usable path.
func SplitCategoryPath(category string) []string {
	parts := strings.FieldsFunc(category, func(r rune) bool {
		return r == '/' || r == '>'
	})

	segments := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part != "" {
			segments = append(segments, part)
		}
	}
	return segments
}

// JoinFolderPath joins folder titles into a display path.
func JoinFolderPath(titles ...string) string {
	return strings.Join(titles, "/")
}
