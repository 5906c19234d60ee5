package familytree

import "github.com/matzehuels/lineage/pkg/person"

// DefaultMaxDepth is the generation bound used when Options is zero-valued
// through [DefaultOptions].
const DefaultMaxDepth = 5

// Options configures a traversal.
type Options struct {
	Direction          Direction
	MaxDepth           int  // inclusive bound on node depth; negative is treated as 0
	IncludeBothParents bool // ancestors only: follow mother links as well as father links
}

// DefaultOptions returns ancestors to depth 5 with both parents.
func DefaultOptions() Options {
	return Options{
		Direction:          Ancestors,
		MaxDepth:           DefaultMaxDepth,
		IncludeBothParents: true,
	}
}

// Build constructs the tree rooted at rootID. It returns nil when rootID
// does not resolve in repo.
//
// [Both] is handled by [BuildCombined]; an empty Direction means [Ancestors].
func Build(rootID string, repo *person.Repository, opts Options) *TreeNode {
	switch opts.Direction {
	case Both:
		return BuildCombined(rootID, repo, opts)
	case Descendants:
	default:
		opts.Direction = Ancestors
	}
	b := &builder{
		repo:    repo,
		opts:    opts,
		visited: make(map[string]bool),
	}
	if b.opts.MaxDepth < 0 {
		b.opts.MaxDepth = 0
	}
	return b.visit(rootID, 0, RelRoot)
}

// BuildCombined returns the ancestor tree of rootID with the root's direct
// descendants appended to the root's children. People already placed as
// ancestors are not repeated as children.
func BuildCombined(rootID string, repo *person.Repository, opts Options) *TreeNode {
	opts.Direction = Ancestors
	root := Build(rootID, repo, opts)
	if root == nil || opts.MaxDepth < 1 {
		return root
	}

	desc := Build(rootID, repo, Options{Direction: Descendants, MaxDepth: 1})
	placed := make(map[string]bool)
	root.Walk(func(n *TreeNode) bool {
		placed[n.ID] = true
		return true
	})
	for _, c := range desc.Children {
		if !placed[c.ID] {
			root.Children = append(root.Children, c)
		}
	}
	return root
}

type builder struct {
	repo    *person.Repository
	opts    Options
	visited map[string]bool
}

func (b *builder) visit(id string, depth int, rel Relation) *TreeNode {
	if b.visited[id] {
		return nil
	}
	p, ok := b.repo.ByID(id)
	if !ok {
		return nil
	}
	b.visited[id] = true

	node := &TreeNode{
		ID:        p.ID,
		Name:      p.DisplayName(),
		BirthYear: p.BirthYear(),
		DeathYear: p.DeathYear(),
		Relation:  rel,
		Depth:     depth,
	}
	if depth >= b.opts.MaxDepth {
		return node
	}

	switch b.opts.Direction {
	case Descendants:
		for _, c := range b.repo.ChildrenOf(id) {
			b.add(node, c.ID, depth+1, RelChild)
		}
	default:
		b.add(node, p.FatherID, depth+1, RelFather)
		if b.opts.IncludeBothParents {
			b.add(node, p.MotherID, depth+1, RelMother)
		}
	}
	return node
}

func (b *builder) add(parent *TreeNode, id string, depth int, rel Relation) {
	if id == "" {
		return
	}
	if child := b.visit(id, depth, rel); child != nil {
		parent.Children = append(parent.Children, child)
	}
}
