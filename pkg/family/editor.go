package family

import kerrors "github.com/matzehuels/kintree/pkg/errors"

// DefaultHistoryLimit is the number of undo steps an Editor keeps by default.
const DefaultHistoryLimit = 100

// Editor wraps a Tree with a linear undo/redo history.
//
// Each successful mutation records the state before it. Undo restores that
// state and moves the current one onto the redo stack; any new mutation
// clears the redo stack. Failed mutations are not recorded.
type Editor struct {
	tree  *Tree
	undo  []*Tree
	redo  []*Tree
	limit int
}

// NewEditor creates an editor over t. A limit <= 0 selects DefaultHistoryLimit.
// The editor takes ownership of t.
func NewEditor(t *Tree, limit int) *Editor {
	if t == nil {
		t = NewTree()
	}
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	return &Editor{tree: t, limit: limit}
}

// Tree returns the current tree. Callers must not mutate it directly, or the
// history will no longer match.
func (e *Editor) Tree() *Tree { return e.tree }

// CanUndo reports whether there is a step to undo.
func (e *Editor) CanUndo() bool { return len(e.undo) > 0 }

// CanRedo reports whether there is a step to redo.
func (e *Editor) CanRedo() bool { return len(e.redo) > 0 }

// AddPerson adds a person and records the step.
func (e *Editor) AddPerson(p Person) (string, error) {
	var id string
	err := e.apply(func(t *Tree) error {
		var err error
		id, err = t.AddPerson(p)
		return err
	})
	return id, err
}

// UpdatePerson updates a person and records the step.
func (e *Editor) UpdatePerson(p Person) error {
	return e.apply(func(t *Tree) error { return t.UpdatePerson(p) })
}

// AddRelationship adds an edge and records the step.
func (e *Editor) AddRelationship(from, to string, rt RelType) error {
	return e.apply(func(t *Tree) error { return t.AddRelationship(from, to, rt) })
}

// RemoveRelationship removes an edge and records the step. Removing a missing
// edge records nothing.
func (e *Editor) RemoveRelationship(from, to string, rt RelType) {
	if !e.tree.HasRelationship(from, to, rt) && !(rt.Undirected() && e.tree.HasRelationship(to, from, rt)) {
		return
	}
	_ = e.apply(func(t *Tree) error {
		t.RemoveRelationship(from, to, rt)
		return nil
	})
}

// RemovePerson removes a person and records the step.
func (e *Editor) RemovePerson(id string, opts RemoveOptions) (RemoveResult, error) {
	var res RemoveResult
	err := e.apply(func(t *Tree) error {
		var err error
		res, err = t.RemovePerson(id, opts)
		return err
	})
	return res, err
}

// Undo reverts the most recent step.
func (e *Editor) Undo() error {
	if len(e.undo) == 0 {
		return kerrors.New(kerrors.ErrCodeNothingToUndo, "nothing to undo")
	}
	prev := e.undo[len(e.undo)-1]
	e.undo = e.undo[:len(e.undo)-1]
	e.redo = append(e.redo, e.tree)
	e.restore(prev)
	return nil
}

// Redo re-applies the most recently undone step.
func (e *Editor) Redo() error {
	if len(e.redo) == 0 {
		return kerrors.New(kerrors.ErrCodeNothingToRedo, "nothing to redo")
	}
	next := e.redo[len(e.redo)-1]
	e.redo = e.redo[:len(e.redo)-1]
	e.undo = append(e.undo, e.tree)
	e.restore(next)
	return nil
}

// restore makes t current with a version above every version seen so far,
// so memo keys derived from the version never repeat.
func (e *Editor) restore(t *Tree) {
	v := e.tree.version
	e.tree = t
	if t.version <= v {
		t.version = v + 1
	}
}

func (e *Editor) apply(fn func(t *Tree) error) error {
	before := e.tree.Clone()
	if err := fn(e.tree); err != nil {
		return err
	}
	e.undo = append(e.undo, before)
	if len(e.undo) > e.limit {
		e.undo = e.undo[len(e.undo)-e.limit:]
	}
	e.redo = nil
	return nil
}
