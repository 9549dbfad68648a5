// Package placeholder proposes where "add relative" cards go around a focused
// person.
//
// A slot is offered only when the tree still has room for that relationship:
// a parent while fewer than two are known, a spouse while none is known, a
// child always, and a sibling once at least one parent is known (siblinghood
// is derived through parents). Positions avoid existing cards on a best
// effort basis: a candidate is shifted along the sibling axis a bounded
// number of times and the last position is accepted even if it still
// overlaps in a dense tree.
package placeholder

import (
	"math"

	kerrors "github.com/matzehuels/kintree/pkg/errors"
	"github.com/matzehuels/kintree/pkg/family"
	"github.com/matzehuels/kintree/pkg/layout"
)

// Kind is the relationship a placeholder would create.
type Kind string

const (
	KindParent  Kind = "parent"
	KindSpouse  Kind = "spouse"
	KindChild   Kind = "child"
	KindSibling Kind = "sibling"
)

const (
	// MaxAttempts bounds how often a colliding candidate is shifted.
	MaxAttempts = 10

	// ClearanceRatio is the fraction of a step on each axis that another card
	// must keep away from a slot.
	ClearanceRatio = 0.8
)

// Slot is a proposed card position, in the same space as layout nodes.
type Slot struct {
	Kind     Kind    `json:"kind"`
	FocusID  string  `json:"focusId"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Attempts int     `json:"attempts"` // shifts applied to resolve collisions
	Clear    bool    `json:"clear"`    // false when the final position still overlaps
}

// Compute returns the eligible slots for focusID in the order parent,
// spouse, child, sibling. The focus must be a person of t that is present in
// nodes.
func Compute(focusID string, t *family.Tree, nodes []layout.Node, s layout.Settings) ([]Slot, error) {
	if !t.Has(focusID) {
		return nil, kerrors.New(kerrors.ErrCodePersonNotFound, "focus person not found").WithIDs(focusID)
	}
	s = s.WithDefaults()
	if err := s.Validate(); err != nil {
		return nil, err
	}
	pos := layout.Index(nodes)
	focus, ok := pos[focusID]
	if !ok {
		return nil, kerrors.New(kerrors.ErrCodePersonNotFound, "focus person is not laid out").WithIDs(focusID)
	}

	pl := planner{
		gen:     s.GenerationDir(),
		sib:     s.SiblingDir(),
		sibStep: s.SiblingStep(),
		genStep: s.GenerationStep(),
		nodes:   nodes,
	}
	fb, fg := pl.b(focus.X, focus.Y), pl.g(focus.X, focus.Y)

	parents := t.ParentsOf(focusID)
	spouses := t.SpousesOf(focusID)

	var slots []Slot
	if len(parents) < family.MaxParents {
		slots = append(slots, pl.place(KindParent, focusID, fb, fg-pl.genStep, 1))
	}
	if len(spouses) == 0 {
		slots = append(slots, pl.place(KindSpouse, focusID, fb+pl.sibStep, fg, 1))
	}

	// Next to the far-side child, or one generation below when none is laid out.
	cb, cg := fb, fg+pl.genStep
	far := math.Inf(-1)
	for _, c := range t.ChildrenOf(focusID) {
		if n, ok := pos[c]; ok && pl.b(n.X, n.Y) > far {
			far = pl.b(n.X, n.Y)
			cb, cg = far+pl.sibStep, pl.g(n.X, n.Y)
		}
	}
	slots = append(slots, pl.place(KindChild, focusID, cb, cg, 1))

	if len(parents) > 0 {
		side := 1.0
		for _, sp := range spouses {
			if n, ok := pos[sp]; ok {
				if pl.b(n.X, n.Y) > fb {
					side = -1
				}
				break
			}
		}
		slots = append(slots, pl.place(KindSibling, focusID, fb+side*pl.sibStep, fg, side))
	}
	return slots, nil
}

type planner struct {
	gen, sib         layout.Vec
	sibStep, genStep float64
	nodes            []layout.Node
	placed           []Slot
}

func (p *planner) b(x, y float64) float64 { return x*p.sib.X + y*p.sib.Y }
func (p *planner) g(x, y float64) float64 { return x*p.gen.X + y*p.gen.Y }

// place resolves collisions for the candidate at (b, g), shifting it by one
// sibling step in direction dir, and records the result as an obstacle for
// later slots.
func (p *planner) place(kind Kind, focusID string, b, g, dir float64) Slot {
	attempts := 0
	for attempts < MaxAttempts && p.collides(b, g) {
		b += dir * p.sibStep
		attempts++
	}
	x := b*p.sib.X + g*p.gen.X
	y := b*p.sib.Y + g*p.gen.Y
	slot := Slot{
		Kind:     kind,
		FocusID:  focusID,
		X:        round(x),
		Y:        round(y),
		Attempts: attempts,
		Clear:    !p.collides(b, g),
	}
	p.placed = append(p.placed, slot)
	return slot
}

func (p *planner) collides(b, g float64) bool {
	near := func(x, y float64) bool {
		return math.Abs(p.b(x, y)-b) < ClearanceRatio*p.sibStep &&
			math.Abs(p.g(x, y)-g) < ClearanceRatio*p.genStep
	}
	for _, n := range p.nodes {
		if near(n.X, n.Y) {
			return true
		}
	}
	for _, s := range p.placed {
		if near(s.X, s.Y) {
			return true
		}
	}
	return false
}

func round(f float64) float64 {
	r := math.Round(f*1e6) / 1e6
	if r == 0 {
		return 0
	}
	return r
}
