package family

import (
	"slices"

	"github.com/google/uuid"

	kerrors "github.com/matzehuels/kintree/pkg/errors"
)

// MaxParents is the maximum number of parent edges a person may have.
const MaxParents = 2

// Tree is the canonical store of people and relationship edges.
//
// The zero value is not usable - use NewTree to create a valid Tree.
// Tree is not safe for concurrent use without external synchronization.
type Tree struct {
	people   map[string]*Person
	order    []string // person IDs in insertion order
	edges    []Edge
	parents  map[string][]string // childID -> parent IDs
	children map[string][]string // parentID -> child IDs
	spouses  map[string][]string // personID -> spouse IDs
	siblings map[string][]string // personID -> explicit sibling IDs
	version  uint64
}

// NewTree creates an empty tree.
func NewTree() *Tree {
	return &Tree{
		people:   make(map[string]*Person),
		parents:  make(map[string][]string),
		children: make(map[string][]string),
		spouses:  make(map[string][]string),
		siblings: make(map[string][]string),
	}
}

// Version returns a counter that increases with every successful mutation.
func (t *Tree) Version() uint64 { return t.version }

// AddPerson validates p and adds it to the tree, returning its ID.
// An empty ID is replaced by a freshly generated UUID. Returns
// ErrCodeValidation for malformed fields and ErrCodeDuplicatePerson if the
// ID is already taken.
func (t *Tree) AddPerson(p Person) (string, error) {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if err := p.Validate(); err != nil {
		return "", err
	}
	if _, exists := t.people[p.ID]; exists {
		return "", kerrors.New(kerrors.ErrCodeDuplicatePerson, "person already exists").WithIDs(p.ID)
	}
	t.people[p.ID] = &p
	t.order = append(t.order, p.ID)
	t.version++
	return p.ID, nil
}

// UpdatePerson replaces the fields of an existing person. Relationships are
// left untouched.
func (t *Tree) UpdatePerson(p Person) error {
	cur, ok := t.people[p.ID]
	if !ok {
		return notFound(p.ID)
	}
	if err := p.Validate(); err != nil {
		return err
	}
	*cur = p
	t.version++
	return nil
}

// AddRelationship connects from and to with a relationship of type rt.
//
// For RelParent, from is the parent and to the child. The call fails with
// ErrCodeInvalidRelationship for self edges, a third parent or a parent
// cycle, and with ErrCodeDuplicateRelationship if the pair is already
// connected with the same type. The tree is left unchanged on error.
func (t *Tree) AddRelationship(from, to string, rt RelType) error {
	if err := t.checkRelationship(from, to, rt); err != nil {
		return err
	}

	e := Edge{From: from, To: to, Type: rt, Bidirectional: rt.Undirected()}
	t.edges = append(t.edges, e)
	t.index(e)
	t.version++
	return nil
}

func (t *Tree) checkRelationship(from, to string, rt RelType) error {
	if !rt.Valid() {
		return kerrors.New(kerrors.ErrCodeInvalidRelationship, "unknown relationship type %q", rt).WithIDs(from, to)
	}
	if !t.Has(from) {
		return notFound(from)
	}
	if !t.Has(to) {
		return notFound(to)
	}
	if from == to {
		return kerrors.New(kerrors.ErrCodeInvalidRelationship, "a person cannot be related to itself").WithIDs(from)
	}
	if t.HasRelationship(from, to, rt) {
		return kerrors.New(kerrors.ErrCodeDuplicateRelationship, "%s relationship already exists", rt).WithIDs(from, to)
	}

	if rt != RelParent {
		return nil
	}
	if len(t.parents[to]) >= MaxParents {
		return kerrors.New(kerrors.ErrCodeInvalidRelationship, "a person cannot have more than %d parents", MaxParents).WithIDs(to)
	}
	if t.IsAncestor(to, from) {
		return kerrors.New(kerrors.ErrCodeInvalidRelationship, "relationship would create a parent cycle").WithIDs(from, to)
	}
	return nil
}

// RemoveRelationship removes the edge between from and to of type rt.
// Removing an edge that does not exist is a no-op.
func (t *Tree) RemoveRelationship(from, to string, rt RelType) {
	i := slices.IndexFunc(t.edges, func(e Edge) bool { return e.Connects(from, to, rt) })
	if i < 0 {
		return
	}
	e := t.edges[i]
	t.edges = slices.Delete(t.edges, i, i+1)
	t.unindex(e)
	t.version++
}

// RemoveOptions controls RemovePerson.
type RemoveOptions struct {
	// Cascade allows removing a person that still has children. The children
	// stay in the tree; only the connecting edges are removed.
	Cascade bool
}

// RemoveResult reports what RemovePerson took out of the tree.
type RemoveResult struct {
	// Edges are the removed incident edges, in tree order.
	Edges []Edge
	// Orphaned lists former children that have no parent left. They are not
	// removed; offering to remove them is up to the caller.
	Orphaned []string
}

// RemovePerson removes a person together with every edge touching it.
//
// A person that still has children is only removed when opts.Cascade is set;
// otherwise the call fails with ErrCodeOrphanWouldResult carrying the child IDs.
func (t *Tree) RemovePerson(id string, opts RemoveOptions) (RemoveResult, error) {
	if !t.Has(id) {
		return RemoveResult{}, notFound(id)
	}
	kids := slices.Clone(t.children[id])
	if len(kids) > 0 && !opts.Cascade {
		return RemoveResult{}, kerrors.New(kerrors.ErrCodeOrphanWouldResult,
			"person has %d children; removing it would orphan them", len(kids)).WithIDs(kids...)
	}

	var res RemoveResult
	t.edges = slices.DeleteFunc(t.edges, func(e Edge) bool {
		if e.Touches(id) {
			res.Edges = append(res.Edges, e)
			return true
		}
		return false
	})
	for _, e := range res.Edges {
		t.unindex(e)
	}
	for _, k := range kids {
		if len(t.parents[k]) == 0 {
			res.Orphaned = append(res.Orphaned, k)
		}
	}

	delete(t.people, id)
	delete(t.parents, id)
	delete(t.children, id)
	delete(t.spouses, id)
	delete(t.siblings, id)
	t.order = slices.DeleteFunc(t.order, func(s string) bool { return s == id })
	t.version++
	return res, nil
}

func (t *Tree) index(e Edge) {
	switch e.Type {
	case RelParent:
		t.children[e.From] = append(t.children[e.From], e.To)
		t.parents[e.To] = append(t.parents[e.To], e.From)
	case RelSpouse:
		t.spouses[e.From] = append(t.spouses[e.From], e.To)
		t.spouses[e.To] = append(t.spouses[e.To], e.From)
	case RelSibling:
		t.siblings[e.From] = append(t.siblings[e.From], e.To)
		t.siblings[e.To] = append(t.siblings[e.To], e.From)
	}
}

func (t *Tree) unindex(e Edge) {
	drop := func(m map[string][]string, key, val string) {
		m[key] = slices.DeleteFunc(m[key], func(s string) bool { return s == val })
		if len(m[key]) == 0 {
			delete(m, key)
		}
	}
	switch e.Type {
	case RelParent:
		drop(t.children, e.From, e.To)
		drop(t.parents, e.To, e.From)
	case RelSpouse:
		drop(t.spouses, e.From, e.To)
		drop(t.spouses, e.To, e.From)
	case RelSibling:
		drop(t.siblings, e.From, e.To)
		drop(t.siblings, e.To, e.From)
	}
}

func notFound(id string) error {
	return kerrors.New(kerrors.ErrCodePersonNotFound, "person not found").WithIDs(id)
}
