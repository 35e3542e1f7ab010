// Package exporter writes backup files: a JSON snapshot of the flattened
// organization and Netscape bookmark HTML built from the store tree.
package exporter

import (
	"fmt"
	"html"
	"os"
	"path/filepath"
	"strings"
	"time"

	"tidymark/internal/model"
)

// DefaultExportPath returns the default export file path.
// Format: ~/Downloads/bookmarks-export-YYYY-MM-DD.<ext>
func DefaultExportPath(ext string) (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	filename := fmt.Sprintf("bookmarks-export-%s.%s", time.Now().Format("2006-01-02"), ext)
	return filepath.Join(home, "Downloads", filename), nil
}

// ExportHTML renders store nodes to Netscape bookmark HTML format.
func ExportHTML(roots []model.Node) string {
	var b strings.Builder

	b.WriteString("<!DOCTYPE NETSCAPE-Bookmark-file-1>\n")
	b.WriteString("<META HTTP-EQUIV=\"Content-Type\" CONTENT=\"text/html; charset=UTF-8\">\n")
	b.WriteString("<TITLE>Bookmarks</TITLE>\n")
	b.WriteString("<H1>Bookmarks</H1>\n")
	b.WriteString("<DL><p>\n")

	for i := range roots {
		writeNode(&b, &roots[i], 1)
	}

	b.WriteString("</DL><p>\n")

	return b.String()
}

// writeNode recursively writes one node and its children.
func writeNode(b *strings.Builder, n *model.Node, indent int) {
	prefix := strings.Repeat("    ", indent)

	if !n.IsFolder() {
		fmt.Fprintf(b,
			"%s<DT><A HREF=\"%s\" ADD_DATE=\"%d\">%s</A>\n",
			prefix,
			html.EscapeString(n.URL),
			n.DateAdded.Unix(),
			html.EscapeString(n.Title),
		)
		return
	}

	fmt.Fprintf(b, "%s<DT><H3>%s</H3>\n", prefix, html.EscapeString(n.Title))
	fmt.Fprintf(b, "%s<DL><p>\n", prefix)
	for i := range n.Children {
		writeNode(b, &n.Children[i], indent+1)
	}
	fmt.Fprintf(b, "%s</DL><p>\n", prefix)
}
