package graph

import (
	"time"

	"github.com/matzehuels/lineage/pkg/person"
)

// FormatVersion is the current snapshot format version.
const FormatVersion = 1

// Snapshot is the canonical serialization format for a people collection.
type Snapshot struct {
	Version   int             `json:"version" bson:"version"`
	Source    string          `json:"source,omitempty" bson:"source,omitempty"`
	FetchedAt time.Time       `json:"fetched_at,omitzero" bson:"fetched_at,omitempty"`
	People    []person.Person `json:"people" bson:"people"`
}

// Layout is the serialization format for a rendered family tree.
type Layout struct {
	ID           string  `json:"id,omitempty" bson:"id,omitempty"` // render ID
	Root         string  `json:"root" bson:"root"`
	Direction    string  `json:"direction" bson:"direction"`
	MaxDepth     int     `json:"max_depth" bson:"max_depth"`
	Orientation  string  `json:"orientation" bson:"orientation"`
	SnapshotHash string  `json:"snapshot_hash,omitempty" bson:"snapshot_hash,omitempty"`
	Empty        bool    `json:"empty,omitempty" bson:"empty,omitempty"`
	Width        float64 `json:"width" bson:"width"`
	Height       float64 `json:"height" bson:"height"`

	Spacing  Spacing  `json:"spacing" bson:"spacing"`
	Viewport Viewport `json:"viewport" bson:"viewport"`
	Nodes    []Node   `json:"nodes" bson:"nodes"`
	Edges    []Edge   `json:"edges" bson:"edges"`

	// Resolved and Missing count enrichment outcomes.
	Resolved int `json:"resolved,omitempty" bson:"resolved,omitempty"`
	Missing  int `json:"missing,omitempty" bson:"missing,omitempty"`
}

// Spacing is the serialized node size.
type Spacing struct {
	Sibling float64 `json:"sibling" bson:"sibling"`
	Depth   float64 `json:"depth" bson:"depth"`
}

// Viewport is the serialized initial transform.
type Viewport struct {
	TranslateX float64 `json:"translate_x" bson:"translate_x"`
	TranslateY float64 `json:"translate_y" bson:"translate_y"`
	Scale      float64 `json:"scale" bson:"scale"`
}

// Node is a positioned person in a layout.
type Node struct {
	ID        string  `json:"id" bson:"id"`
	Name      string  `json:"name" bson:"name"`
	BirthYear string  `json:"birth_year,omitempty" bson:"birth_year,omitempty"`
	DeathYear string  `json:"death_year,omitempty" bson:"death_year,omitempty"`
	ImageURL  string  `json:"image_url,omitempty" bson:"image_url,omitempty"`
	Relation  string  `json:"relation" bson:"relation"`
	Depth     int     `json:"depth" bson:"depth"`
	ParentID  string  `json:"parent_id,omitempty" bson:"parent_id,omitempty"`
	X         float64 `json:"x" bson:"x"`
	Y         float64 `json:"y" bson:"y"`
}

// DisplayLabel returns the name if set, otherwise the ID.
func (n *Node) DisplayLabel() string {
	if n.Name != "" {
		return n.Name
	}
	return n.ID
}

// Lifespan formats the years as "1950 - 2020", "b. 1950" or "".
func (n *Node) Lifespan() string {
	switch {
	case n.BirthYear != "" && n.DeathYear != "":
		return n.BirthYear + " - " + n.DeathYear
	case n.BirthYear != "":
		return "b. " + n.BirthYear
	case n.DeathYear != "":
		return "d. " + n.DeathYear
	}
	return ""
}

// Edge links a tree parent to a tree child.
type Edge struct {
	From string `json:"from" bson:"from"`
	To   string `json:"to" bson:"to"`
}
