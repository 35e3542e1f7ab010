package search

import (
	"testing"

	"tidymark/internal/model"
)

func TestFuzzySearch_EmptyQuery(t *testing.T) {
	bookmarks := []model.ExportedBookmark{
		{ID: "b1", Title: "GitHub", URL: "https://github.com"},
	}

	results := FuzzySearch(bookmarks, "")

	if len(results) != 0 {
		t.Errorf("expected 0 results for empty query, got %d", len(results))
	}
}

func TestFuzzySearch_ExactMatch(t *testing.T) {
	bookmarks := []model.ExportedBookmark{
		{ID: "b1", Title: "GitHub", URL: "https://github.com", FolderPath: "Development"},
		{ID: "b2", Title: "GitLab", URL: "https://gitlab.com", FolderPath: "Development"},
	}

	results := FuzzySearch(bookmarks, "GitHub")

	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if results[0].Bookmark.Title != "GitHub" {
		t.Errorf("expected GitHub, got %s", results[0].Bookmark.Title)
	}
}

func TestFuzzySearch_FuzzyMatch(t *testing.T) {
	bookmarks := []model.ExportedBookmark{
		{ID: "b1", Title: "TanStack Router", URL: "https://tanstack.com/router"},
		{ID: "b2", Title: "React Router", URL: "https://reactrouter.com"},
	}

	// "tanrou" should fuzzy match "TanStack Router"
	results := FuzzySearch(bookmarks, "tanrou")

	if len(results) < 1 {
		t.Fatalf("expected at least 1 result for 'tanrou', got %d", len(results))
	}
	// TanStack Router should be first (better match)
	if results[0].Bookmark.Title != "TanStack Router" {
		t.Errorf("expected TanStack Router as first result, got %s", results[0].Bookmark.Title)
	}
}

func TestFuzzySearch_NoMatch(t *testing.T) {
	bookmarks := []model.ExportedBookmark{
		{ID: "b1", Title: "GitHub", URL: "https://github.com"},
	}

	results := FuzzySearch(bookmarks, "zzzzzz")

	if len(results) != 0 {
		t.Errorf("expected 0 results, got %d", len(results))
	}
}
