package ai

import (
	"fmt"
	"strings"

	"tidymark/internal/model"
)

const maxSampleTitles = 3

// BuildContext generates a compressed representation of the current
// organization suitable for AI context: every folder path with up to a
// few sample bookmark titles.
func BuildContext(export *model.Export) string {
	var sb strings.Builder
	sb.WriteString("Existing folders (with sample bookmarks):\n")

	var order []string
	samples := make(map[string][]string)
	for _, b := range export.Bookmarks {
		if b.FolderPath == "" {
			continue
		}
		if _, seen := samples[b.FolderPath]; !seen {
			order = append(order, b.FolderPath)
		}
		if len(samples[b.FolderPath]) < maxSampleTitles {
			samples[b.FolderPath] = append(samples[b.FolderPath], b.Title)
		}
	}

	for _, path := range order {
		sb.WriteString("/")
		sb.WriteString(path)
		sb.WriteString("\n")

		titles := make([]string, len(samples[path]))
		for i, title := range samples[path] {
			titles[i] = fmt.Sprintf("%q", title)
		}
		sb.WriteString("  - ")
		sb.WriteString(strings.Join(titles, ", "))
		sb.WriteString("\n")
	}

	return sb.String()
}
