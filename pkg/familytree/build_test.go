package familytree

import (
	"fmt"
	"reflect"
	"strings"
	"testing"

	"github.com/matzehuels/lineage/pkg/person"
)

// shape renders a tree as "id(child child)" for compact comparisons.
func shape(n *TreeNode) string {
	if n == nil {
		return "<nil>"
	}
	if n.IsLeaf() {
		return n.ID
	}
	parts := make([]string, len(n.Children))
	for i, c := range n.Children {
		parts[i] = shape(c)
	}
	return n.ID + "(" + strings.Join(parts, " ") + ")"
}

func TestBuildSinglePerson(t *testing.T) {
	repo := person.Index([]person.Person{{ID: "Q1"}})
	root := Build("Q1", repo, Options{Direction: Ancestors, MaxDepth: 5, IncludeBothParents: true})
	if root == nil {
		t.Fatal("Build returned nil for a resolvable root")
	}
	if root.ID != "Q1" || len(root.Children) != 0 || root.Depth != 0 {
		t.Errorf("root = %+v, want leaf Q1 at depth 0", root)
	}
	if root.Relation != RelRoot {
		t.Errorf("Relation = %q, want root", root.Relation)
	}
}

func TestBuildParentCycle(t *testing.T) {
	repo := person.Index([]person.Person{
		{ID: "Q1", FatherID: "Q2"},
		{ID: "Q2", FatherID: "Q1"},
	})
	root := Build("Q1", repo, Options{Direction: Ancestors, MaxDepth: 5})
	if got := shape(root); got != "Q1(Q2)" {
		t.Errorf("shape = %s, want Q1(Q2)", got)
	}
}

func TestBuildSelfParent(t *testing.T) {
	repo := person.Index([]person.Person{{ID: "A", FatherID: "A", MotherID: "A"}})
	root := Build("A", repo, DefaultOptions())
	if got := shape(root); got != "A" {
		t.Errorf("shape = %s, want A", got)
	}
}

func TestBuildDescendantsSourceOrder(t *testing.T) {
	repo := person.Index([]person.Person{
		{ID: "Q1"},
		{ID: "Q2", FatherID: "Q1"},
		{ID: "Q3", FatherID: "Q1"},
	})
	root := Build("Q1", repo, Options{Direction: Descendants, MaxDepth: 5})
	if got := shape(root); got != "Q1(Q2 Q3)" {
		t.Errorf("shape = %s, want Q1(Q2 Q3)", got)
	}
	for _, c := range root.Children {
		if c.Relation != RelChild || c.Depth != 1 {
			t.Errorf("child %s: relation=%q depth=%d", c.ID, c.Relation, c.Depth)
		}
	}
}

func TestBuildMaxDepthZero(t *testing.T) {
	repo := person.Index(lineageFixture())
	for _, dir := range []Direction{Ancestors, Descendants, Both} {
		root := Build("C", repo, Options{Direction: dir, MaxDepth: 0, IncludeBothParents: true})
		if root == nil || !root.IsLeaf() {
			t.Errorf("%s: MaxDepth 0 should give a single node, got %s", dir, shape(root))
		}
	}
}

func TestBuildMissingRoot(t *testing.T) {
	repo := person.Index(lineageFixture())
	if root := Build("nobody", repo, DefaultOptions()); root != nil {
		t.Errorf("Build(nobody) = %s, want nil", shape(root))
	}
	if root := Build("", repo, DefaultOptions()); root != nil {
		t.Errorf("Build(\"\") = %s, want nil", shape(root))
	}
	if root := Build("C", nil, DefaultOptions()); root != nil {
		t.Error("Build on nil repository should return nil")
	}
}

func TestBuildAncestorsOrder(t *testing.T) {
	repo := person.Index(lineageFixture())

	both := Build("C", repo, Options{Direction: Ancestors, MaxDepth: 5, IncludeBothParents: true})
	if got := shape(both); got != "C(F(GF GM) M(MGF))" {
		t.Errorf("both parents: shape = %s", got)
	}

	fatherOnly := Build("C", repo, Options{Direction: Ancestors, MaxDepth: 5, IncludeBothParents: false})
	if got := shape(fatherOnly); got != "C(F(GF))" {
		t.Errorf("father only: shape = %s", got)
	}
	fatherOnly.Walk(func(n *TreeNode) bool {
		if n.Relation == RelMother {
			t.Errorf("father-only tree contains mother %s", n.ID)
		}
		return true
	})
}

func TestBuildDanglingParent(t *testing.T) {
	repo := person.Index([]person.Person{
		{ID: "A", FatherID: "ghost", MotherID: "B"},
		{ID: "B"},
	})
	root := Build("A", repo, DefaultOptions())
	if got := shape(root); got != "A(B)" {
		t.Errorf("shape = %s, want A(B)", got)
	}
	if root.Children[0].Relation != RelMother {
		t.Errorf("Relation = %q, want mother", root.Children[0].Relation)
	}
}

func TestBuildDepthBound(t *testing.T) {
	// A chain P0 <- P1 <- ... <- P9 (P0's father is P1).
	var people []person.Person
	for i := 0; i < 10; i++ {
		p := person.Person{ID: fmt.Sprintf("P%d", i)}
		if i < 9 {
			p.FatherID = fmt.Sprintf("P%d", i+1)
		}
		people = append(people, p)
	}
	repo := person.Index(people)

	for d := 0; d < 12; d++ {
		root := Build("P0", repo, Options{Direction: Ancestors, MaxDepth: d})
		root.Walk(func(n *TreeNode) bool {
			if n.Depth > d {
				t.Errorf("MaxDepth %d: node %s at depth %d", d, n.ID, n.Depth)
			}
			if n.Depth == d && !n.IsLeaf() {
				t.Errorf("MaxDepth %d: node %s at the bound has children", d, n.ID)
			}
			return true
		})
		want := min(d, 9)
		if h := root.Height(); h != want {
			t.Errorf("MaxDepth %d: height = %d, want %d", d, h, want)
		}
	}
}

func TestBuildIdempotent(t *testing.T) {
	repo := person.Index(lineageFixture())
	for _, dir := range []Direction{Ancestors, Descendants, Both} {
		opts := Options{Direction: dir, MaxDepth: 4, IncludeBothParents: true}
		a := Build("GF", repo, opts)
		b := Build("GF", repo, opts)
		if !reflect.DeepEqual(a, b) {
			t.Errorf("%s: trees differ between identical calls", dir)
		}
		if a == b {
			t.Errorf("%s: Build reused a tree", dir)
		}
	}
}

func TestBuildDerivedFields(t *testing.T) {
	repo := person.Index([]person.Person{
		{ID: "Q1", Name: "John Smith", BirthDate: "+1950-05-15T00:00:00Z", DeathDate: "2020"},
		{ID: "Q9"},
	})
	root := Build("Q1", repo, DefaultOptions())
	if root.Name != "John Smith" || root.BirthYear != "1950" || root.DeathYear != "2020" {
		t.Errorf("root = %+v", root)
	}
	if n := Build("Q9", repo, DefaultOptions()); n.Name != "Q9" {
		t.Errorf("Name = %q, want ID fallback", n.Name)
	}
}

func TestBuildCombined(t *testing.T) {
	repo := person.Index(lineageFixture())
	root := BuildCombined("F", repo, Options{MaxDepth: 3, IncludeBothParents: true})
	if got := shape(root); got != "F(GF GM C S)" {
		t.Errorf("shape = %s, want F(GF GM C S)", got)
	}
	if root.Children[2].Relation != RelChild {
		t.Errorf("Relation = %q, want child", root.Children[2].Relation)
	}

	viaBuild := Build("F", repo, Options{Direction: Both, MaxDepth: 3, IncludeBothParents: true})
	if !reflect.DeepEqual(root, viaBuild) {
		t.Error("Build with Both should match BuildCombined")
	}
}

func TestBuildCombinedSkipsPlacedAncestors(t *testing.T) {
	// A is both B's father and B's child.
	repo := person.Index([]person.Person{
		{ID: "A", FatherID: "B"},
		{ID: "B", FatherID: "A"},
	})
	root := BuildCombined("B", repo, Options{MaxDepth: 3})
	if got := shape(root); got != "B(A)" {
		t.Errorf("shape = %s, want B(A)", got)
	}
}

func TestParseDirection(t *testing.T) {
	tests := []struct {
		in      string
		want    Direction
		wantErr bool
	}{
		{"", Ancestors, false},
		{"ancestors", Ancestors, false},
		{"Descendants", Descendants, false},
		{" both ", Both, false},
		{"sideways", "", true},
	}
	for _, tt := range tests {
		got, err := ParseDirection(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseDirection(%q) = %q, %v", tt.in, got, err)
		}
	}
}

func TestTreeHelpers(t *testing.T) {
	repo := person.Index(lineageFixture())
	root := Build("C", repo, DefaultOptions())

	if n := root.Count(); n != 6 {
		t.Errorf("Count = %d, want 6", n)
	}
	flat := root.Flatten()
	var ids []string
	for _, n := range flat {
		ids = append(ids, n.ID)
	}
	if got := strings.Join(ids, ","); got != "C,F,GF,GM,M,MGF" {
		t.Errorf("Flatten = %s", got)
	}
	if n := root.Find("GM"); n == nil || n.Depth != 2 {
		t.Errorf("Find(GM) = %+v", n)
	}
	if root.Find("nobody") != nil {
		t.Error("Find(nobody) should be nil")
	}
	var nilTree *TreeNode
	if nilTree.Height() != -1 || nilTree.Count() != 0 {
		t.Error("nil tree helpers misbehave")
	}
}

// lineageFixture is a three-generation family:
//
//	GF + GM -> F;  MGF -> M;  F + M -> C, S
func lineageFixture() []person.Person {
	return []person.Person{
		{ID: "GF", Name: "Grandfather"},
		{ID: "GM", Name: "Grandmother"},
		{ID: "MGF", Name: "Maternal Grandfather"},
		{ID: "F", Name: "Father", FatherID: "GF", MotherID: "GM"},
		{ID: "M", Name: "Mother", FatherID: "MGF"},
		{ID: "C", Name: "Child", FatherID: "F", MotherID: "M"},
		{ID: "S", Name: "Sibling", FatherID: "F", MotherID: "M"},
	}
}
