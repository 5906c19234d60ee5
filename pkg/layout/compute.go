package layout

import "github.com/matzehuels/lineage/pkg/familytree"

// Compute lays out root using [DefaultSpacing] for o.
func Compute(root *familytree.TreeNode, o Orientation) Result {
	return ComputeWithSpacing(root, o, DefaultSpacing(o))
}

// ComputeWithSpacing lays out root with explicit spacing. A nil root yields
// an empty result. The tree is read, never modified.
//
// Nodes are emitted breadth-first and links in the same order, one per
// parent-child pair. The root's Along coordinate is 0.
func ComputeWithSpacing(root *familytree.TreeNode, o Orientation, sp Spacing) Result {
	if o != Horizontal {
		o = Vertical
	}
	res := Result{Orientation: o, Spacing: sp, Nodes: []Node{}, Links: []Link{}}
	if root == nil {
		return res
	}

	along := make(map[*familytree.TreeNode]float64)
	cursor := 0.0
	var place func(n *familytree.TreeNode) float64
	place = func(n *familytree.TreeNode) float64 {
		if n.IsLeaf() {
			a := cursor
			cursor += sp.Sibling
			along[n] = a
			return a
		}
		first := place(n.Children[0])
		last := first
		for _, c := range n.Children[1:] {
			last = place(c)
		}
		a := (first + last) / 2
		along[n] = a
		return a
	}
	shift := place(root)

	type item struct {
		n      *familytree.TreeNode
		parent string
	}
	index := make(map[*familytree.TreeNode]int)
	var order []*familytree.TreeNode
	queue := []item{{n: root}}
	for len(queue) > 0 {
		it := queue[0]
		queue = queue[1:]
		n := it.n

		ln := Node{
			ID:        n.ID,
			Name:      n.Name,
			BirthYear: n.BirthYear,
			DeathYear: n.DeathYear,
			ImageURL:  n.ImageURL,
			Relation:  n.Relation,
			Depth:     n.Depth - root.Depth,
			ParentID:  it.parent,
			Along:     along[n] - shift,
			DepthPos:  float64(n.Depth-root.Depth) * sp.Depth,
		}
		ln.X, ln.Y = project(o, ln.Along, ln.DepthPos)
		index[n] = len(res.Nodes)
		order = append(order, n)
		res.Nodes = append(res.Nodes, ln)

		for _, c := range n.Children {
			queue = append(queue, item{n: c, parent: n.ID})
		}
	}

	for _, n := range order {
		src := res.Nodes[index[n]]
		for _, c := range n.Children {
			dst := res.Nodes[index[c]]
			res.Links = append(res.Links, Link{
				Source: Endpoint{ID: src.ID, X: src.X, Y: src.Y},
				Target: Endpoint{ID: dst.ID, X: dst.X, Y: dst.Y},
			})
		}
	}
	return res
}

func project(o Orientation, along, depth float64) (x, y float64) {
	if o == Horizontal {
		return depth, along
	}
	return along, depth
}
