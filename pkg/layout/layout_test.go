package layout

import (
	"fmt"
	"math"
	"testing"

	"github.com/matzehuels/lineage/pkg/familytree"
	"github.com/matzehuels/lineage/pkg/person"
)

const eps = 1e-9

func fixtureTree(t *testing.T, dir familytree.Direction) *familytree.TreeNode {
	t.Helper()
	repo := person.Index([]person.Person{
		{ID: "GF"}, {ID: "GM"}, {ID: "MGF"}, {ID: "MGM"},
		{ID: "F", FatherID: "GF", MotherID: "GM"},
		{ID: "M", FatherID: "MGF", MotherID: "MGM"},
		{ID: "C", FatherID: "F", MotherID: "M"},
		{ID: "S", FatherID: "F", MotherID: "M"},
		{ID: "GC", FatherID: "C"},
	})
	root := familytree.Build("C", repo, familytree.Options{Direction: dir, MaxDepth: 5, IncludeBothParents: true})
	if dir == familytree.Descendants {
		root = familytree.Build("GF", repo, familytree.Options{Direction: dir, MaxDepth: 5})
	}
	if root == nil {
		t.Fatal("fixture tree is nil")
	}
	return root
}

func TestComputeEmpty(t *testing.T) {
	res := Compute(nil, Vertical)
	if len(res.Nodes) != 0 || len(res.Links) != 0 || !res.Empty() {
		t.Errorf("Compute(nil) = %+v, want empty", res)
	}
	if res.Nodes == nil || res.Links == nil {
		t.Error("empty result should use non-nil slices")
	}
}

func TestComputeSingleNode(t *testing.T) {
	root := &familytree.TreeNode{ID: "Q1"}
	res := Compute(root, Vertical)
	if len(res.Nodes) != 1 || len(res.Links) != 0 {
		t.Fatalf("got %d nodes, %d links", len(res.Nodes), len(res.Links))
	}
	if n := res.Nodes[0]; n.X != 0 || n.Y != 0 {
		t.Errorf("root at (%v, %v), want origin", n.X, n.Y)
	}
}

func TestComputeParentAtMidpoint(t *testing.T) {
	for _, dir := range []familytree.Direction{familytree.Ancestors, familytree.Descendants} {
		for _, o := range []Orientation{Vertical, Horizontal} {
			t.Run(fmt.Sprintf("%s/%s", dir, o), func(t *testing.T) {
				res := Compute(fixtureTree(t, dir), o)
				children := map[string][]Node{}
				for _, n := range res.Nodes {
					if n.ParentID != "" {
						children[n.ParentID] = append(children[n.ParentID], n)
					}
				}
				for _, n := range res.Nodes {
					kids := children[n.ID]
					if len(kids) == 0 {
						continue
					}
					mid := (kids[0].Along + kids[len(kids)-1].Along) / 2
					if math.Abs(n.Along-mid) > eps {
						t.Errorf("%s: Along = %v, children midpoint = %v", n.ID, n.Along, mid)
					}
				}
			})
		}
	}
}

func TestComputeNoOverlap(t *testing.T) {
	res := Compute(fixtureTree(t, familytree.Ancestors), Vertical)
	seen := map[[2]float64]string{}
	for _, n := range res.Nodes {
		key := [2]float64{n.X, n.Y}
		if other, ok := seen[key]; ok {
			t.Errorf("%s and %s share position %v", n.ID, other, key)
		}
		seen[key] = n.ID
	}

	// Leaves at the deepest generation are spaced by exactly one unit.
	var leaves []Node
	for _, n := range res.Nodes {
		if n.Depth == 2 {
			leaves = append(leaves, n)
		}
	}
	sp := DefaultSpacing(Vertical)
	for i := 1; i < len(leaves); i++ {
		if d := leaves[i].Along - leaves[i-1].Along; math.Abs(d-sp.Sibling) > eps {
			t.Errorf("leaf gap %s..%s = %v, want %v", leaves[i-1].ID, leaves[i].ID, d, sp.Sibling)
		}
	}
}

func TestComputeDepthAxis(t *testing.T) {
	sp := Spacing{Sibling: 10, Depth: 100}
	res := ComputeWithSpacing(fixtureTree(t, familytree.Ancestors), Vertical, sp)
	for _, n := range res.Nodes {
		if want := float64(n.Depth) * 100; n.DepthPos != want || n.Y != want {
			t.Errorf("%s: DepthPos = %v, Y = %v, want %v", n.ID, n.DepthPos, n.Y, want)
		}
	}
	root, _ := res.Node("C")
	if root.Along != 0 {
		t.Errorf("root Along = %v, want 0", root.Along)
	}
}

func TestComputeOrientationSwapsAxes(t *testing.T) {
	tree := fixtureTree(t, familytree.Ancestors)
	sp := Spacing{Sibling: 50, Depth: 80}
	v := ComputeWithSpacing(tree, Vertical, sp)
	h := ComputeWithSpacing(tree, Horizontal, sp)

	for i := range v.Nodes {
		vn, hn := v.Nodes[i], h.Nodes[i]
		if vn.ID != hn.ID {
			t.Fatalf("node order differs: %s vs %s", vn.ID, hn.ID)
		}
		if vn.X != hn.Y || vn.Y != hn.X {
			t.Errorf("%s: vertical (%v,%v) horizontal (%v,%v)", vn.ID, vn.X, vn.Y, hn.X, hn.Y)
		}
	}
}

func TestComputeLinks(t *testing.T) {
	tree := fixtureTree(t, familytree.Ancestors)
	res := Compute(tree, Vertical)

	if len(res.Links) != len(res.Nodes)-1 {
		t.Fatalf("links = %d, want %d", len(res.Links), len(res.Nodes)-1)
	}
	pos := map[string]Node{}
	for _, n := range res.Nodes {
		pos[n.ID] = n
	}
	for _, l := range res.Links {
		src, dst := pos[l.Source.ID], pos[l.Target.ID]
		if dst.ParentID != src.ID {
			t.Errorf("link %s->%s is not a parent-child pair", l.Source.ID, l.Target.ID)
		}
		if l.Source.X != src.X || l.Source.Y != src.Y || l.Target.X != dst.X || l.Target.Y != dst.Y {
			t.Errorf("link %s->%s endpoints do not match node coordinates", l.Source.ID, l.Target.ID)
		}
	}
	if res.Links[0].Source.ID != "C" || res.Links[0].Target.ID != "F" {
		t.Errorf("first link = %s->%s, want C->F", res.Links[0].Source.ID, res.Links[0].Target.ID)
	}
}

func TestComputeDoesNotMutateTree(t *testing.T) {
	tree := fixtureTree(t, familytree.Ancestors)
	before := tree.Flatten()
	n := len(before)
	Compute(tree, Horizontal)
	if after := tree.Flatten(); len(after) != n || after[0] != before[0] {
		t.Error("Compute changed the tree")
	}
}

func TestCenterOn(t *testing.T) {
	nodes := []Node{{ID: "A", X: 100, Y: 0}, {ID: "B", X: -50, Y: 260}}

	got := CenterOn(nodes, "A", 800)
	want := Transform{TranslateX: 300, TranslateY: DefaultTopOffset, Scale: 1}
	if got != want {
		t.Errorf("CenterOn(A) = %+v, want %+v", got, want)
	}
	if got := CenterOn(nodes, "missing", 800); got != Identity {
		t.Errorf("CenterOn(missing) = %+v, want identity", got)
	}
	if got := CenterOn(nil, "A", 800); got != Identity {
		t.Errorf("CenterOn(nil) = %+v, want identity", got)
	}
}

func TestFit(t *testing.T) {
	res := Result{Nodes: []Node{{X: -100, Y: 0}, {X: 100, Y: 400}}}
	tr := Fit(res, 400, 200, 0)
	if math.Abs(tr.Scale-0.5) > eps {
		t.Errorf("Scale = %v, want 0.5", tr.Scale)
	}
	if math.Abs(tr.TranslateX-200) > eps || math.Abs(tr.TranslateY-0) > eps {
		t.Errorf("translate = (%v, %v), want (200, 0)", tr.TranslateX, tr.TranslateY)
	}
	if got := Fit(Result{}, 400, 200, 0); got != Identity {
		t.Errorf("Fit(empty) = %+v", got)
	}
}

func TestParseOrientation(t *testing.T) {
	if o, err := ParseOrientation(""); err != nil || o != Vertical {
		t.Errorf("ParseOrientation(\"\") = %q, %v", o, err)
	}
	if o, err := ParseOrientation("Horizontal"); err != nil || o != Horizontal {
		t.Errorf("ParseOrientation(Horizontal) = %q, %v", o, err)
	}
	if _, err := ParseOrientation("diagonal"); err != ErrInvalidOrientation {
		t.Errorf("ParseOrientation(diagonal) err = %v", err)
	}
}
