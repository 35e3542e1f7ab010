package search

import (
	"github.com/sahilm/fuzzy"

	"tidymark/internal/model"
)

// Result represents a fuzzy search match against the export snapshot.
type Result struct {
	Bookmark       model.ExportedBookmark
	MatchedIndexes []int
	Score          int
}

// bookmarkTitles implements fuzzy.Source for exported bookmark records.
type bookmarkTitles []model.ExportedBookmark

func (bt bookmarkTitles) String(i int) string {
	return bt[i].Title
}

func (bt bookmarkTitles) Len() int {
	return len(bt)
}

// FuzzySearch searches bookmark records by title using fuzzy matching.
// Returns results sorted by match score (best first).
func FuzzySearch(bookmarks []model.ExportedBookmark, query string) []Result {
	if query == "" {
		return nil
	}

	matches := fuzzy.FindFrom(query, bookmarkTitles(bookmarks))

	results := make([]Result, len(matches))
	for i, m := range matches {
		results[i] = Result{
			Bookmark:       bookmarks[m.Index],
			MatchedIndexes: m.MatchedIndexes,
			Score:          m.Score,
		}
	}

	return results
}
