// Package importer reads Netscape bookmark HTML files (the format every
// browser exports) and loads them into the bookmark store.
package importer

import (
	"context"
	"io"
	"strconv"
	"strings"
	"time"

	"golang.org/x/net/html"

	"tidymark/internal/model"
)

// NodeWriter is the subset of store operations the importer needs.
type NodeWriter interface {
	CreateFolder(ctx context.Context, parentID, title string) (model.Node, error)
	CreateBookmark(ctx context.Context, parentID, title, url string, dateAdded time.Time) (model.Node, error)
}

// Stats counts what an import created.
type Stats struct {
	Folders   int
	Bookmarks int
}

// entry is an intermediate parse node. Children are held by pointer so
// nested appends never move siblings.
type entry struct {
	title    string
	url      string
	added    time.Time
	children []*entry
}

// Parse parses Netscape bookmark HTML into a node tree. Returned nodes
// have no IDs; they exist only as input to Import.
func Parse(r io.Reader) ([]model.Node, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, err
	}

	root := &entry{}
	stack := []*entry{root}
	var pending *entry // folder waiting to be pushed on its DL

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch strings.ToLower(n.Data) {
			case "h3":
				title := textContent(n)
				if title != "" {
					pending = &entry{title: title, added: parseAddDate(attr(n, "add_date"))}
				}
				return

			case "a":
				href := attr(n, "href")
				if href == "" {
					return
				}
				title := textContent(n)
				if title == "" {
					title = href
				}
				top := stack[len(stack)-1]
				top.children = append(top.children, &entry{
					title: title,
					url:   href,
					added: parseAddDate(attr(n, "add_date")),
				})
				return

			case "dl":
				pushed := false
				if pending != nil {
					top := stack[len(stack)-1]
					top.children = append(top.children, pending)
					stack = append(stack, pending)
					pending = nil
					pushed = true
				}

				for c := n.FirstChild; c != nil; c = c.NextSibling {
					walk(c)
				}

				if pushed {
					stack = stack[:len(stack)-1]
				}
				return
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	walk(doc)
	return toNodes(root.children), nil
}

// toNodes converts parse entries into the model's node shape.
func toNodes(entries []*entry) []model.Node {
	nodes := make([]model.Node, 0, len(entries))
	for _, e := range entries {
		nodes = append(nodes, model.Node{
			Title:     e.title,
			URL:       e.url,
			DateAdded: e.added,
			Children:  toNodes(e.children),
		})
	}
	return nodes
}

// Import parses r and creates every folder and bookmark under baseID.
func Import(ctx context.Context, w NodeWriter, baseID string, r io.Reader) (Stats, error) {
	nodes, err := Parse(r)
	if err != nil {
		return Stats{}, err
	}

	var stats Stats
	for _, n := range nodes {
		if err := load(ctx, w, baseID, n, &stats); err != nil {
			return stats, err
		}
	}
	return stats, nil
}

// load creates one parsed node and its descendants under parentID.
func load(ctx context.Context, w NodeWriter, parentID string, n model.Node, stats *Stats) error {
	if !n.IsFolder() {
		if _, err := w.CreateBookmark(ctx, parentID, n.Title, n.URL, n.DateAdded); err != nil {
			return err
		}
		stats.Bookmarks++
		return nil
	}

	created, err := w.CreateFolder(ctx, parentID, n.Title)
	if err != nil {
		return err
	}
	stats.Folders++
	for _, child := range n.Children {
		if err := load(ctx, w, created.ID, child, stats); err != nil {
			return err
		}
	}
	return nil
}

// parseAddDate parses a Netscape ADD_DATE unix timestamp, falling back to
// the current time.
func parseAddDate(value string) time.Time {
	if value != "" {
		if ts, err := strconv.ParseInt(value, 10, 64); err == nil {
			return time.Unix(ts, 0)
		}
	}
	return time.Now()
}

// textContent returns the text content of a node.
func textContent(n *html.Node) string {
	var text strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			text.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return strings.TrimSpace(text.String())
}

// attr returns the value of an attribute, case-insensitive.
func attr(n *html.Node, key string) string {
	key = strings.ToLower(key)
	for _, a := range n.Attr {
		if strings.ToLower(a.Key) == key {
			return a.Val
		}
	}
	return ""
}
