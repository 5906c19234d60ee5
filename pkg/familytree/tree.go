package familytree

import (
	"errors"
	"strings"
)

// Direction selects which parent links a traversal follows.
type Direction string

const (
	Ancestors   Direction = "ancestors"
	Descendants Direction = "descendants"
	Both        Direction = "both" // ancestors plus the root's direct children
)

// ErrInvalidDirection is returned by [ParseDirection] for unknown values.
var ErrInvalidDirection = errors.New("invalid direction")

// ParseDirection parses a direction name, case-insensitively. The empty
// string parses as [Ancestors].
func ParseDirection(s string) (Direction, error) {
	switch Direction(strings.ToLower(strings.TrimSpace(s))) {
	case "", Ancestors:
		return Ancestors, nil
	case Descendants:
		return Descendants, nil
	case Both:
		return Both, nil
	}
	return "", ErrInvalidDirection
}

// Relation describes how a node is linked to its tree parent.
type Relation string

const (
	RelRoot   Relation = "root"
	RelFather Relation = "father"
	RelMother Relation = "mother"
	RelChild  Relation = "child"
)

// TreeNode is one person's position in a single rendered tree.
//
// Nodes are built fresh for every call to [Build] and never shared with the
// repository. ImageURL is empty until an enrichment step fills it.
type TreeNode struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	BirthYear string      `json:"birth_year,omitempty"`
	DeathYear string      `json:"death_year,omitempty"`
	ImageURL  string      `json:"image_url,omitempty"`
	Relation  Relation    `json:"relation"`
	Depth     int         `json:"depth"`
	Children  []*TreeNode `json:"children,omitempty"`
}

// IsLeaf reports whether the node has no tree children.
func (n *TreeNode) IsLeaf() bool { return len(n.Children) == 0 }

// Walk visits n and its descendants in pre-order. Returning false from fn
// skips the subtree below the current node.
func (n *TreeNode) Walk(fn func(*TreeNode) bool) {
	if n == nil || !fn(n) {
		return
	}
	for _, c := range n.Children {
		c.Walk(fn)
	}
}

// Flatten returns every node of the tree in pre-order.
func (n *TreeNode) Flatten() []*TreeNode {
	var out []*TreeNode
	n.Walk(func(t *TreeNode) bool {
		out = append(out, t)
		return true
	})
	return out
}

// Count returns the number of nodes in the tree.
func (n *TreeNode) Count() int {
	c := 0
	n.Walk(func(*TreeNode) bool { c++; return true })
	return c
}

// Height returns the greatest node depth below n, relative to n.
// A nil tree has height -1; a single node has height 0.
func (n *TreeNode) Height() int {
	if n == nil {
		return -1
	}
	h := 0
	for _, c := range n.Children {
		if ch := c.Height() + 1; ch > h {
			h = ch
		}
	}
	return h
}

// Find returns the first node with the given ID in pre-order, or nil.
func (n *TreeNode) Find(id string) *TreeNode {
	var found *TreeNode
	n.Walk(func(t *TreeNode) bool {
		if found != nil {
			return false
		}
		if t.ID == id {
			found = t
			return false
		}
		return true
	})
	return found
}
