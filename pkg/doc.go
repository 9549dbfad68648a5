// Package pkg provides the core libraries for Kintree family tree layouts.
//
// # Overview
//
// Kintree keeps a family tree of people and their parent, spouse and sibling
// relationships, and derives from it everything a renderer needs: card
// positions, connecting lines, slots for new relatives and review
// suggestions. Drawing itself is left to the client.
//
// # Architecture
//
// The data flow through Kintree:
//
//	tree.json / stored tree
//	         ↓
//	    [family] package (people, relationships, invariants, undo/redo)
//	         ↓
//	    [layout] package (card positions)
//	         ↓
//	    [links], [placeholder], [suggest] (lines, slots, findings)
//	         ↓
//	    [graph] layout.json
//
// [pipeline] runs those stages in order and caches the result.
//
// # Quick Start
//
//	t := family.NewTree()
//	_, _ = t.AddPerson(family.Person{ID: "ada", Name: "Ada", Gender: family.GenderFemale, BirthYear: 1950})
//	_, _ = t.AddPerson(family.Person{ID: "ben", Name: "Ben", Gender: family.GenderMale, BirthYear: 1975})
//	_ = t.AddRelationship("ada", "ben", family.RelParent)
//
//	nodes, _ := layout.Compute(t, layout.DefaultSettings(), "")
//	lines := links.Compute(nodes, t.Edges(), layout.DefaultSettings())
//
// # Main Packages
//
// ## Domain
//
// [family] - The tree: people, typed edges and the invariants on them (at
// most two parents, no parent cycles, no duplicates). [family.Editor] adds
// bounded undo and redo.
//
// [layout] - Tidy-tree placement of every person in four orientations.
// Spouses without parents in the tree sit beside their partner; unrelated
// people form further trees beside the first.
//
// [links] - Parent-child, spouse and sibling lines between placed cards.
//
// [placeholder] - Collision-free slots for a new parent, spouse, child or
// sibling of a focused person.
//
// [suggest] - Missing parents, implausible ages and likely duplicates.
//
// ## Serialization
//
// [graph] - The tree document (tree.json) and the derived layout
// (layout.json).
//
// ## Infrastructure
//
// [pipeline] - Derivation shared by CLI and API, cached by content hash.
//
// [cache] - Byte caches: file, Redis and a no-op.
//
// [storage] - Named tree stores: file and MongoDB.
//
// [config] - TOML configuration and backend construction.
//
// [observability] - Hooks for stage timings, cache outcomes and HTTP traffic.
//
// [errors] - Coded errors shared by every package.
//
// # Testing
//
//	go test ./...                        # All tests
//	go test -run Example ./pkg/...       # Examples only
//	go test -tags integration ./pkg/...  # Against Redis and MongoDB
//
// [family]: https://pkg.go.dev/github.com/matzehuels/kintree/pkg/family
// [family.Editor]: https://pkg.go.dev/github.com/matzehuels/kintree/pkg/family#Editor
// [layout]: https://pkg.go.dev/github.com/matzehuels/kintree/pkg/layout
// [links]: https://pkg.go.dev/github.com/matzehuels/kintree/pkg/links
// [placeholder]: https://pkg.go.dev/github.com/matzehuels/kintree/pkg/placeholder
// [suggest]: https://pkg.go.dev/github.com/matzehuels/kintree/pkg/suggest
// [graph]: https://pkg.go.dev/github.com/matzehuels/kintree/pkg/graph
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/kintree/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/kintree/pkg/cache
// [storage]: https://pkg.go.dev/github.com/matzehuels/kintree/pkg/storage
// [config]: https://pkg.go.dev/github.com/matzehuels/kintree/pkg/config
// [observability]: https://pkg.go.dev/github.com/matzehuels/kintree/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/kintree/pkg/errors
package pkg
