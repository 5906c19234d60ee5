package graph

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/matzehuels/lineage/pkg/familytree"
	"github.com/matzehuels/lineage/pkg/layout"
)

// LayoutMeta carries the request parameters recorded alongside a layout.
type LayoutMeta struct {
	ID           string
	Root         string
	Direction    familytree.Direction
	MaxDepth     int
	SnapshotHash string
}

// FromResult converts a computed layout and its viewport transform to the
// serialization format. Nodes and edges keep their breadth-first order.
func FromResult(r layout.Result, t layout.Transform, meta LayoutMeta) Layout {
	out := Layout{
		ID:           meta.ID,
		Root:         meta.Root,
		Direction:    string(meta.Direction),
		MaxDepth:     meta.MaxDepth,
		Orientation:  string(r.Orientation),
		SnapshotHash: meta.SnapshotHash,
		Empty:        r.Empty(),
		Spacing:      Spacing{Sibling: r.Spacing.Sibling, Depth: r.Spacing.Depth},
		Viewport:     Viewport{TranslateX: t.TranslateX, TranslateY: t.TranslateY, Scale: t.Scale},
		Nodes:        make([]Node, len(r.Nodes)),
		Edges:        make([]Edge, len(r.Links)),
	}
	if out.Orientation == "" {
		out.Orientation = string(layout.Vertical)
	}
	for i, n := range r.Nodes {
		out.Nodes[i] = Node{
			ID:        n.ID,
			Name:      n.Name,
			BirthYear: n.BirthYear,
			DeathYear: n.DeathYear,
			ImageURL:  n.ImageURL,
			Relation:  string(n.Relation),
			Depth:     n.Depth,
			ParentID:  n.ParentID,
			X:         n.X,
			Y:         n.Y,
		}
	}
	for i, l := range r.Links {
		out.Edges[i] = Edge{From: l.Source.ID, To: l.Target.ID}
	}
	if !out.Empty {
		minX, minY, maxX, maxY := r.Bounds()
		out.Width, out.Height = maxX-minX, maxY-minY
	}
	return out
}

// ToResult converts a serialized layout back to a [layout.Result]. The
// sibling and depth axis coordinates are recovered from the orientation.
func (l Layout) ToResult() layout.Result {
	o := layout.Orientation(l.Orientation)
	res := layout.Result{
		Orientation: o,
		Spacing:     layout.Spacing{Sibling: l.Spacing.Sibling, Depth: l.Spacing.Depth},
		Nodes:       make([]layout.Node, len(l.Nodes)),
		Links:       make([]layout.Link, 0, len(l.Edges)),
	}
	pos := make(map[string]layout.Endpoint, len(l.Nodes))
	for i, n := range l.Nodes {
		along, depth := n.X, n.Y
		if o == layout.Horizontal {
			along, depth = n.Y, n.X
		}
		res.Nodes[i] = layout.Node{
			ID:        n.ID,
			Name:      n.Name,
			BirthYear: n.BirthYear,
			DeathYear: n.DeathYear,
			ImageURL:  n.ImageURL,
			Relation:  familytree.Relation(n.Relation),
			Depth:     n.Depth,
			ParentID:  n.ParentID,
			Along:     along,
			DepthPos:  depth,
			X:         n.X,
			Y:         n.Y,
		}
		pos[n.ID] = layout.Endpoint{ID: n.ID, X: n.X, Y: n.Y}
	}
	for _, e := range l.Edges {
		res.Links = append(res.Links, layout.Link{Source: pos[e.From], Target: pos[e.To]})
	}
	return res
}

// Transform returns the viewport as a [layout.Transform].
func (l Layout) Transform() layout.Transform {
	return layout.Transform{
		TranslateX: l.Viewport.TranslateX,
		TranslateY: l.Viewport.TranslateY,
		Scale:      l.Viewport.Scale,
	}
}

// Node returns the node with the given ID.
func (l Layout) Node(id string) (Node, bool) {
	for _, n := range l.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return Node{}, false
}

// Validate checks that the orientation is known and that every edge joins
// two nodes of the layout.
func (l Layout) Validate() error {
	if _, err := layout.ParseOrientation(l.Orientation); err != nil {
		return fmt.Errorf("%w: %q", err, l.Orientation)
	}
	ids := make(map[string]bool, len(l.Nodes))
	for _, n := range l.Nodes {
		if n.ID == "" {
			return fmt.Errorf("layout node with empty id")
		}
		ids[n.ID] = true
	}
	for _, e := range l.Edges {
		if !ids[e.From] || !ids[e.To] {
			return fmt.Errorf("edge %s→%s references unknown node", e.From, e.To)
		}
	}
	if l.Empty != (len(l.Nodes) == 0) {
		return fmt.Errorf("empty flag disagrees with %d nodes", len(l.Nodes))
	}
	return nil
}

// MarshalLayout serializes a Layout to pretty-printed JSON bytes.
func MarshalLayout(l Layout) ([]byte, error) {
	return json.MarshalIndent(l, "", "  ")
}

// UnmarshalLayout deserializes JSON bytes into a Layout and validates it.
func UnmarshalLayout(data []byte) (Layout, error) {
	var l Layout
	if err := json.Unmarshal(data, &l); err != nil {
		return Layout{}, fmt.Errorf("unmarshal layout: %w", err)
	}
	if l.Orientation == "" {
		l.Orientation = string(layout.Vertical)
	}
	if err := l.Validate(); err != nil {
		return Layout{}, err
	}
	return l, nil
}

// WriteLayoutFile writes a Layout to a JSON file.
func WriteLayoutFile(l Layout, path string) error {
	data, err := MarshalLayout(l)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ReadLayoutFile reads a Layout from a JSON file.
func ReadLayoutFile(path string) (Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Layout{}, fmt.Errorf("read %s: %w", path, err)
	}
	return UnmarshalLayout(data)
}
