package organizer_test

import (
	"context"
	"fmt"

	"tidymark/internal/model"
	"tidymark/internal/store"
)

// fakeStore is an in-memory BookmarkStore with scriptable failures and
// call counters.
type fakeStore struct {
	nodes    map[string]model.Node
	children map[string][]string // listing order

	createCalls int
	listCalls   int

	failCreate map[string]error // by folder title
	failMove   map[string]error // by node ID
	failRemove map[string]error // by node ID
	failList   map[string]error // by parent ID
	failTree   error

	removed []string
	nextID  int
}

func newFakeStore() *fakeStore {
	f := &fakeStore{
		nodes:      make(map[string]model.Node),
		children:   make(map[string][]string),
		failCreate: make(map[string]error),
		failMove:   make(map[string]error),
		failRemove: make(map[string]error),
		failList:   make(map[string]error),
	}
	f.addNode(store.RootID, "", "", "")
	f.addNode("bar", store.RootID, store.TitleBookmarksBar, "")
	f.addNode("other", store.RootID, store.TitleOtherBookmarks, "")
	return f
}

// addNode registers a node with a fixed ID. Empty url means folder.
func (f *fakeStore) addNode(id, parentID, title, url string) {
	f.nodes[id] = model.Node{ID: id, ParentID: parentID, Title: title, URL: url}
	if parentID != "" || id != store.RootID {
		f.children[parentID] = append(f.children[parentID], id)
	}
}

func (f *fakeStore) ListChildren(ctx context.Context, parentID string) ([]model.Node, error) {
	f.listCalls++
	if err := f.failList[parentID]; err != nil {
		return nil, err
	}
	if _, ok := f.nodes[parentID]; !ok {
		return nil, store.ErrNotFound
	}
	out := []model.Node{}
	for _, id := range f.children[parentID] {
		out = append(out, f.nodes[id])
	}
	return out, nil
}

func (f *fakeStore) CreateFolder(ctx context.Context, parentID, title string) (model.Node, error) {
	f.createCalls++
	if err := f.failCreate[title]; err != nil {
		return model.Node{}, err
	}
	if _, ok := f.nodes[parentID]; !ok {
		return model.Node{}, store.ErrInvalidParent
	}
	f.nextID++
	id := fmt.Sprintf("n%d", f.nextID)
	f.addNode(id, parentID, title, "")
	return f.nodes[id], nil
}

func (f *fakeStore) Move(ctx context.Context, nodeID, newParentID string) (model.Node, error) {
	if err := f.failMove[nodeID]; err != nil {
		return model.Node{}, err
	}
	n, ok := f.nodes[nodeID]
	if !ok {
		return model.Node{}, store.ErrNotFound
	}
	if _, ok := f.nodes[newParentID]; !ok {
		return model.Node{}, store.ErrInvalidParent
	}
	f.unlink(nodeID)
	n.ParentID = newParentID
	f.nodes[nodeID] = n
	f.children[newParentID] = append(f.children[newParentID], nodeID)
	return n, nil
}

func (f *fakeStore) Remove(ctx context.Context, nodeID string) error {
	if err := f.failRemove[nodeID]; err != nil {
		return err
	}
	n, ok := f.nodes[nodeID]
	if !ok {
		return store.ErrNotFound
	}
	if n.IsFolder() && len(f.children[nodeID]) > 0 {
		return store.ErrNotEmpty
	}
	f.unlink(nodeID)
	delete(f.nodes, nodeID)
	f.removed = append(f.removed, nodeID)
	return nil
}

func (f *fakeStore) unlink(nodeID string) {
	parentID := f.nodes[nodeID].ParentID
	siblings := f.children[parentID]
	for i, id := range siblings {
		if id == nodeID {
			f.children[parentID] = append(siblings[:i:i], siblings[i+1:]...)
			break
		}
	}
}

func (f *fakeStore) Subtree(ctx context.Context, rootID string) (*model.Node, error) {
	if f.failTree != nil {
		return nil, f.failTree
	}
	n, ok := f.nodes[rootID]
	if !ok {
		return nil, store.ErrNotFound
	}
	tree := f.assemble(n)
	return &tree, nil
}

func (f *fakeStore) Tree(ctx context.Context) ([]model.Node, error) {
	if f.failTree != nil {
		return nil, f.failTree
	}
	out := []model.Node{}
	for _, id := range f.children[store.RootID] {
		out = append(out, f.assemble(f.nodes[id]))
	}
	return out, nil
}

func (f *fakeStore) assemble(n model.Node) model.Node {
	for _, childID := range f.children[n.ID] {
		n.Children = append(n.Children, f.assemble(f.nodes[childID]))
	}
	return n
}

// has reports whether a node still exists.
func (f *fakeStore) has(id string) bool {
	_, ok := f.nodes[id]
	return ok
}

// parentOf returns a node's current parent ID.
func (f *fakeStore) parentOf(id string) string {
	return f.nodes[id].ParentID
}
