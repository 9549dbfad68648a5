package family

import "slices"

// Has reports whether a person with the given ID exists.
func (t *Tree) Has(id string) bool {
	_, ok := t.people[id]
	return ok
}

// Person returns a copy of the person with the given ID and true, or the zero
// Person and false if not found.
func (t *Tree) Person(id string) (Person, bool) {
	p, ok := t.people[id]
	if !ok {
		return Person{}, false
	}
	return *p, true
}

// People returns copies of all people in insertion order.
func (t *Tree) People() []Person {
	out := make([]Person, len(t.order))
	for i, id := range t.order {
		out[i] = *t.people[id]
	}
	return out
}

// IDs returns all person IDs in insertion order.
func (t *Tree) IDs() []string { return slices.Clone(t.order) }

// Len returns the number of people.
func (t *Tree) Len() int { return len(t.order) }

// Edges returns a copy of all edges in insertion order.
func (t *Tree) Edges() []Edge { return slices.Clone(t.edges) }

// EdgeCount returns the number of stored edges.
func (t *Tree) EdgeCount() int { return len(t.edges) }

// HasRelationship reports whether a and b are connected with type rt. For
// RelParent the direction matters: a must be the parent.
func (t *Tree) HasRelationship(a, b string, rt RelType) bool {
	switch rt {
	case RelParent:
		return slices.Contains(t.children[a], b)
	case RelSpouse:
		return slices.Contains(t.spouses[a], b)
	case RelSibling:
		return slices.Contains(t.siblings[a], b)
	}
	return false
}

// ParentsOf returns the IDs of id's parents in the order they were linked.
func (t *Tree) ParentsOf(id string) []string { return slices.Clone(t.parents[id]) }

// ChildrenOf returns the IDs of id's children in the order they were linked.
func (t *Tree) ChildrenOf(id string) []string { return slices.Clone(t.children[id]) }

// SpousesOf returns the IDs of id's spouses.
func (t *Tree) SpousesOf(id string) []string { return slices.Clone(t.spouses[id]) }

// ExplicitSiblingsOf returns only the siblings linked by explicit sibling edges.
func (t *Tree) ExplicitSiblingsOf(id string) []string { return slices.Clone(t.siblings[id]) }

// SiblingsOf returns the union of every child of id's parents and id's
// explicit siblings, without id itself and without duplicates. Derived
// siblings come first, in parent then child link order.
func (t *Tree) SiblingsOf(id string) []string {
	seen := map[string]bool{id: true}
	var out []string
	add := func(s string) {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	for _, p := range t.parents[id] {
		for _, c := range t.children[p] {
			add(c)
		}
	}
	for _, s := range t.siblings[id] {
		add(s)
	}
	return out
}

// AncestorsOf returns every ancestor of id, breadth first.
func (t *Tree) AncestorsOf(id string) []string {
	seen := map[string]bool{id: true}
	var out []string
	queue := slices.Clone(t.parents[id])
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if seen[cur] {
			continue
		}
		seen[cur] = true
		out = append(out, cur)
		queue = append(queue, t.parents[cur]...)
	}
	return out
}

// IsAncestor reports whether anc is reachable from id by following parent
// edges upward. A person is considered its own ancestor, which makes the
// check usable as the cycle guard for new parent edges.
func (t *Tree) IsAncestor(anc, id string) bool {
	if anc == id {
		return true
	}
	return slices.Contains(t.AncestorsOf(id), anc)
}

// Roots returns the people without parents, in insertion order.
func (t *Tree) Roots() []string {
	var roots []string
	for _, id := range t.order {
		if len(t.parents[id]) == 0 {
			roots = append(roots, id)
		}
	}
	return roots
}

// OrderIndex maps every person ID to its insertion index. Derivations use it
// as a deterministic tie-breaker.
func (t *Tree) OrderIndex() map[string]int {
	m := make(map[string]int, len(t.order))
	for i, id := range t.order {
		m[id] = i
	}
	return m
}
