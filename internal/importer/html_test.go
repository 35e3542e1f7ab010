package importer_test

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"tidymark/internal/importer"
	"tidymark/internal/model"
)

func TestParse_SingleBookmark(t *testing.T) {
	html := `<!DOCTYPE NETSCAPE-Bookmark-file-1>
<TITLE>Bookmarks</TITLE>
<H1>Bookmarks</H1>
<DL><p>
    <DT><A HREF="https://example.com" ADD_DATE="1234567890">Example Site</A>
</DL><p>`

	nodes, err := importer.Parse(strings.NewReader(html))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(nodes) != 1 {
		t.Fatalf("expected 1 node, got %d", len(nodes))
	}

	b := nodes[0]
	if b.IsFolder() {
		t.Error("expected a bookmark, got a folder")
	}
	if b.Title != "Example Site" {
		t.Errorf("expected title 'Example Site', got %q", b.Title)
	}
	if b.URL != "https://example.com" {
		t.Errorf("expected URL 'https://example.com', got %q", b.URL)
	}
	if b.DateAdded.Unix() != 1234567890 {
		t.Errorf("expected ADD_DATE 1234567890, got %d", b.DateAdded.Unix())
	}
}

func TestParse_NestedFolders(t *testing.T) {
	html := `<!DOCTYPE NETSCAPE-Bookmark-file-1>
<DL><p>
    <DT><H3 ADD_DATE="1234567890">Development</H3>
    <DL><p>
        <DT><H3 ADD_DATE="1234567890">React</H3>
        <DL><p>
            <DT><A HREF="https://react.dev" ADD_DATE="1234567890">React Docs</A>
        </DL><p>
        <DT><A HREF="https://github.com" ADD_DATE="1234567890">GitHub</A>
    </DL><p>
    <DT><A HREF="https://google.com" ADD_DATE="1234567890">Google</A>
</DL><p>`

	nodes, err := importer.Parse(strings.NewReader(html))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Top level: Development folder + Google bookmark
	if len(nodes) != 2 {
		t.Fatalf("expected 2 top-level nodes, got %d", len(nodes))
	}

	dev := nodes[0]
	if !dev.IsFolder() || dev.Title != "Development" {
		t.Fatalf("expected Development folder, got %+v", dev)
	}
	if len(dev.Children) != 2 {
		t.Fatalf("expected 2 children in Development, got %d", len(dev.Children))
	}

	react := dev.Children[0]
	if !react.IsFolder() || react.Title != "React" {
		t.Fatalf("expected nested React folder, got %+v", react)
	}
	if len(react.Children) != 1 || react.Children[0].URL != "https://react.dev" {
		t.Errorf("expected React Docs inside React, got %v", react.Children)
	}

	if dev.Children[1].Title != "GitHub" {
		t.Errorf("expected GitHub in Development, got %q", dev.Children[1].Title)
	}

	if nodes[1].Title != "Google" {
		t.Errorf("expected Google at top level, got %q", nodes[1].Title)
	}
}

func TestParse_SkipsAnchorsWithoutHref(t *testing.T) {
	html := `<DL><p>
    <DT><A>No URL here</A>
    <DT><A HREF="https://example.com">Real</A>
</DL><p>`

	nodes, err := importer.Parse(strings.NewReader(html))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(nodes) != 1 || nodes[0].Title != "Real" {
		t.Errorf("expected only the bookmark with a URL, got %v", nodes)
	}
}

func TestParse_TitleFallsBackToURL(t *testing.T) {
	html := `<DL><p>
    <DT><A HREF="https://example.com"></A>
</DL><p>`

	nodes, err := importer.Parse(strings.NewReader(html))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(nodes) != 1 || nodes[0].Title != "https://example.com" {
		t.Errorf("expected URL used as title, got %v", nodes)
	}
}

// recordingWriter records created nodes for Import tests.
type recordingWriter struct {
	folders   []string // "parentID/title"
	bookmarks []string // "parentID/title"
	nextID    int
}

func (w *recordingWriter) CreateFolder(ctx context.Context, parentID, title string) (model.Node, error) {
	w.folders = append(w.folders, parentID+"/"+title)
	w.nextID++
	return model.Node{ID: fmt.Sprintf("f%d", w.nextID), ParentID: parentID, Title: title}, nil
}

func (w *recordingWriter) CreateBookmark(ctx context.Context, parentID, title, url string, dateAdded time.Time) (model.Node, error) {
	w.bookmarks = append(w.bookmarks, parentID+"/"+title)
	w.nextID++
	return model.Node{ID: fmt.Sprintf("b%d", w.nextID), ParentID: parentID, Title: title, URL: url}, nil
}

func TestImport_CreatesHierarchyUnderBase(t *testing.T) {
	html := `<DL><p>
    <DT><H3>Development</H3>
    <DL><p>
        <DT><A HREF="https://go.dev">Go</A>
    </DL><p>
    <DT><A HREF="https://example.com">Loose</A>
</DL><p>`

	w := &recordingWriter{}
	stats, err := importer.Import(context.Background(), w, "base", strings.NewReader(html))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if stats.Folders != 1 || stats.Bookmarks != 2 {
		t.Errorf("expected 1 folder and 2 bookmarks, got %+v", stats)
	}

	if len(w.folders) != 1 || w.folders[0] != "base/Development" {
		t.Errorf("expected Development under base, got %v", w.folders)
	}
	// The Go bookmark goes under the created folder, Loose under base
	if w.bookmarks[0] != "f1/Go" {
		t.Errorf("expected Go under created folder, got %q", w.bookmarks[0])
	}
	if w.bookmarks[1] != "base/Loose" {
		t.Errorf("expected Loose under base, got %q", w.bookmarks[1])
	}
}
