package family

import (
	"fmt"
	"maps"
	"slices"
)

// Snapshot is a value copy of a tree's people and edges, in insertion order.
type Snapshot struct {
	People []Person
	Edges  []Edge
}

// Snapshot returns a value copy of the tree.
func (t *Tree) Snapshot() Snapshot {
	return Snapshot{People: t.People(), Edges: t.Edges()}
}

// FromSnapshot rebuilds a tree from a snapshot, re-validating every person and
// edge through the regular mutation path.
func FromSnapshot(s Snapshot) (*Tree, error) {
	t := NewTree()
	for _, p := range s.People {
		if _, err := t.AddPerson(p); err != nil {
			return nil, fmt.Errorf("person %s: %w", p.ID, err)
		}
	}
	for _, e := range s.Edges {
		if err := t.AddRelationship(e.From, e.To, e.Type); err != nil {
			return nil, fmt.Errorf("edge %s->%s: %w", e.From, e.To, err)
		}
	}
	return t, nil
}

// Clone returns a deep copy of the tree, version included.
func (t *Tree) Clone() *Tree {
	c := &Tree{
		people:   make(map[string]*Person, len(t.people)),
		order:    slices.Clone(t.order),
		edges:    slices.Clone(t.edges),
		parents:  cloneIndex(t.parents),
		children: cloneIndex(t.children),
		spouses:  cloneIndex(t.spouses),
		siblings: cloneIndex(t.siblings),
		version:  t.version,
	}
	for id, p := range t.people {
		cp := *p
		c.people[id] = &cp
	}
	return c
}

func cloneIndex(m map[string][]string) map[string][]string {
	out := maps.Clone(m)
	for k, v := range out {
		out[k] = slices.Clone(v)
	}
	return out
}
