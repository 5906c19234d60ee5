// Package familytree builds bounded, cycle-safe family trees from a person
// repository.
//
// # Directions
//
// A tree is rooted at one person and expands in one [Direction]:
//
//   - [Ancestors]: a node's tree children are its father and, when
//     Options.IncludeBothParents is set, its mother, in that order.
//   - [Descendants]: a node's tree children are the people who list it as
//     father or mother, in repository order.
//
// The two modes are separate traversals over the same [TreeNode] type. The
// [TreeNode.Relation] field records which link produced each node so that
// callers never have to guess what "children" means for a given tree.
// [BuildCombined] merges an ancestor tree with the root's direct children
// by composing two calls to [Build].
//
// # Bounds and Cycles
//
// MaxDepth is inclusive: nodes at exactly MaxDepth are part of the tree and
// their links are not followed. Each call keeps its own visited set, so a
// person is placed at most once per tree and parent cycles in malformed data
// terminate.
//
// # Absent Results
//
// [Build] returns nil only when the root ID does not resolve. A root without
// relatives yields a single leaf node.
package familytree
