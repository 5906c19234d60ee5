package layout

import (
	"errors"
	"strings"

	"github.com/matzehuels/lineage/pkg/familytree"
)

// Orientation maps layout axes to screen axes.
type Orientation string

const (
	Vertical   Orientation = "vertical"   // generations stacked top to bottom
	Horizontal Orientation = "horizontal" // generations stacked left to right
)

// ErrInvalidOrientation is returned by [ParseOrientation] for unknown values.
var ErrInvalidOrientation = errors.New("invalid orientation")

// ParseOrientation parses an orientation name. The empty string parses as
// [Vertical].
func ParseOrientation(s string) (Orientation, error) {
	switch Orientation(strings.ToLower(strings.TrimSpace(s))) {
	case "", Vertical:
		return Vertical, nil
	case Horizontal:
		return Horizontal, nil
	}
	return "", ErrInvalidOrientation
}

// Spacing holds the distance between neighbouring leaves (Sibling) and
// between generations (Depth), in screen units.
type Spacing struct {
	Sibling float64 `json:"sibling"`
	Depth   float64 `json:"depth"`
}

// DefaultSpacing returns the node size used for o. Vertical trees need room
// for a name card beside each sibling; horizontal trees need it along the
// depth axis.
func DefaultSpacing(o Orientation) Spacing {
	if o == Horizontal {
		return Spacing{Sibling: 180, Depth: 160}
	}
	return Spacing{Sibling: 120, Depth: 260}
}

// Node is a tree node with assigned coordinates. It copies the display
// fields it needs and refers back to its person by ID only.
type Node struct {
	ID        string              `json:"id"`
	Name      string              `json:"name"`
	BirthYear string              `json:"birth_year,omitempty"`
	DeathYear string              `json:"death_year,omitempty"`
	ImageURL  string              `json:"image_url,omitempty"`
	Relation  familytree.Relation `json:"relation"`
	Depth     int                 `json:"depth"`
	ParentID  string              `json:"parent_id,omitempty"`

	Along    float64 `json:"along"`     // sibling-axis coordinate
	DepthPos float64 `json:"depth_pos"` // depth-axis coordinate
	X        float64 `json:"x"`         // screen coordinates after orientation
	Y        float64 `json:"y"`
}

// Endpoint is one end of a [Link].
type Endpoint struct {
	ID string  `json:"id"`
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
}

// Link is a parent-child edge in the rendered tree.
type Link struct {
	Source Endpoint `json:"source"`
	Target Endpoint `json:"target"`
}

// Result is the output of [Compute].
type Result struct {
	Orientation Orientation `json:"orientation"`
	Spacing     Spacing     `json:"spacing"`
	Nodes       []Node      `json:"nodes"`
	Links       []Link      `json:"links"`
}

// Empty reports whether the result has no nodes.
func (r Result) Empty() bool { return len(r.Nodes) == 0 }

// Node returns the node with the given ID.
func (r Result) Node(id string) (Node, bool) {
	for _, n := range r.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return Node{}, false
}

// Bounds returns the screen-space bounding box of all nodes.
func (r Result) Bounds() (minX, minY, maxX, maxY float64) {
	for i, n := range r.Nodes {
		if i == 0 {
			minX, maxX, minY, maxY = n.X, n.X, n.Y, n.Y
			continue
		}
		minX, maxX = min(minX, n.X), max(maxX, n.X)
		minY, maxY = min(minY, n.Y), max(maxY, n.Y)
	}
	return minX, minY, maxX, maxY
}
