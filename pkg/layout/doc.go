// Package layout assigns 2-D coordinates to a family tree.
//
// [Compute] implements a tidy hierarchical layout. Every node gets two
// coordinates:
//
//   - Along: position across a generation. Leaves are placed one sibling
//     unit apart in visit order; an internal node sits at the midpoint of
//     its first and last child.
//   - DepthPos: generation index times the depth unit.
//
// [Orientation] maps those axes to screen X and Y. [Vertical] grows the tree
// downward (Along is X); [Horizontal] grows it rightward (Along is Y).
//
// The result is plain data. Links carry endpoint IDs and coordinates only,
// so the presentation layer can bind its own handlers and pick its own
// curve style. [CenterOn] computes the initial viewport transform.
package layout
