// Package family provides the relationship graph at the heart of kintree.
//
// A [Tree] stores people and typed relationship edges (parent, spouse,
// sibling) and enforces the invariants of a family graph:
//
//   - No person is related to itself.
//   - A person has at most two parents.
//   - Spouse and sibling edges are undirected and stored once per pair.
//   - No chain of parent edges forms a cycle.
//
// # Representation
//
// The graph is an ordered edge list over opaque person IDs plus adjacency
// indices (parents, children, spouses, explicit siblings) keyed by ID. There
// are no pointers between people, which keeps snapshots for undo/redo a plain
// value copy.
//
// # Mutations
//
// All mutations validate first and then apply, so a returned error always
// leaves the tree exactly as it was:
//
//	t := family.NewTree()
//	a, _ := t.AddPerson(family.Person{Name: "Ada", Gender: family.GenderFemale, BirthYear: 1950})
//	b, _ := t.AddPerson(family.Person{Name: "Ben", Gender: family.GenderMale, BirthYear: 1975})
//	err := t.AddRelationship(a, b, family.RelParent)
//
// Every successful mutation increments [Tree.Version], which callers use to
// key memoized derivations.
//
// # History
//
// [Editor] wraps a tree with a linear undo/redo history of snapshots.
//
// # Concurrency
//
// Tree and Editor are not safe for concurrent use without external
// synchronization.
package family
