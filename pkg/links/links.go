package links

import (
	"math"
	"slices"
	"strings"

	"github.com/matzehuels/kintree/pkg/family"
	"github.com/matzehuels/kintree/pkg/layout"
)

const (
	// StraightThreshold is the largest offset, in layout units, between a
	// parent anchor and a child anchor along either axis that is still drawn
	// as a straight line.
	StraightThreshold = 2.0

	// BendRatio places the cross run of an elbow, and the bus of a family,
	// at this fraction of the generation distance from the parent side.
	BendRatio = 0.7
)

// Segment identifies the role of a link in the drawing.
type Segment string

const (
	SegmentDirect    Segment = "direct"    // one parent to one child, or a spouse or sibling line
	SegmentStem      Segment = "stem"      // parents' midpoint down to a family bus
	SegmentBus       Segment = "bus"       // line spanning all children of a family
	SegmentConnector Segment = "connector" // bus down to one child
	SegmentDescent   Segment = "descent"   // parents' midpoint to their only child
)

// Link is the geometry of one line between related cards.
type Link struct {
	ID        string         `json:"id"`
	Type      family.RelType `json:"type"`
	Segment   Segment        `json:"segment"`
	PersonIDs []string       `json:"personIds"` // parents first for parent links
	Path      Path           `json:"path"`
}

// Compute derives the lines connecting laid out people.
//
// Children that share the same two parents are grouped: two or more of them
// share one stem, one bus and a connector each, a single one gets a descent
// path from the parents' midpoint. Children with one laid out parent get a
// direct path. Spouse and explicit sibling edges become straight lines
// between the facing sides of the two cards. Edges touching people missing
// from nodes are skipped, and every link is emitted once even when edges
// repeat.
func Compute(nodes []layout.Node, edges []family.Edge, s layout.Settings) []Link {
	s = s.WithDefaults()
	d := deriver{
		pos: layout.Index(nodes),
		f: frame{
			gen:     s.GenerationDir(),
			sib:     s.SiblingDir(),
			genHalf: s.GenerationExtent() / 2,
			sibHalf: s.SiblingExtent() / 2,
		},
		seen: make(map[string]bool),
	}
	fams := d.families(edges)

	for _, e := range edges {
		if !d.placed(e.From) || !d.placed(e.To) {
			continue
		}
		switch e.Type {
		case family.RelParent:
			if fam := fams[e.To]; fam != nil {
				if !fam.done {
					fam.done = true
					d.family(fam)
				}
				continue
			}
			d.direct(e.From, e.To)
		case family.RelSpouse, family.RelSibling:
			d.side(e)
		}
	}
	return d.out
}

// ByPerson returns the links that involve id.
func ByPerson(links []Link, id string) []Link {
	var out []Link
	for _, l := range links {
		for _, p := range l.PersonIDs {
			if p == id {
				out = append(out, l)
				break
			}
		}
	}
	return out
}

type deriver struct {
	pos  map[string]layout.Node
	f    frame
	seen map[string]bool
	out  []Link
}

// familyGroup is a set of children sharing the same two laid out parents.
type familyGroup struct {
	parents  [2]string
	children []string
	done     bool
}

func (d *deriver) placed(id string) bool {
	_, ok := d.pos[id]
	return ok
}

func (d *deriver) add(l Link) {
	if d.seen[l.ID] {
		return
	}
	d.seen[l.ID] = true
	d.out = append(d.out, l)
}

// families maps every child with exactly two laid out parents to its group.
func (d *deriver) families(edges []family.Edge) map[string]*familyGroup {
	parents := make(map[string][]string)
	for _, e := range edges {
		if e.Type != family.RelParent || !d.placed(e.From) || !d.placed(e.To) {
			continue
		}
		if !slices.Contains(parents[e.To], e.From) {
			parents[e.To] = append(parents[e.To], e.From)
		}
	}

	groups := make(map[string]*familyGroup)
	byChild := make(map[string]*familyGroup)
	for _, e := range edges {
		if e.Type != family.RelParent || byChild[e.To] != nil || len(parents[e.To]) != 2 {
			continue
		}
		a, b := family.SortedPair(parents[e.To][0], parents[e.To][1])
		key := a + "+" + b
		g := groups[key]
		if g == nil {
			g = &familyGroup{parents: [2]string{a, b}}
			groups[key] = g
		}
		g.children = append(g.children, e.To)
		byChild[e.To] = g
	}
	return byChild
}

func (d *deriver) center(id string) Point {
	n := d.pos[id]
	return Point{X: n.X, Y: n.Y}
}

func (d *deriver) direct(parent, child string) {
	d.add(Link{
		ID:        linkID(family.RelParent, SegmentDirect, parent, ">", child),
		Type:      family.RelParent,
		Segment:   SegmentDirect,
		PersonIDs: []string{parent, child},
		Path:      d.f.elbow(d.f.toward(d.center(parent)), d.f.away(d.center(child))),
	})
}

func (d *deriver) family(g *familyGroup) {
	p1, p2 := g.parents[0], g.parents[1]
	pair := p1 + "+" + p2
	mid := midpoint(d.f.toward(d.center(p1)), d.f.toward(d.center(p2)))

	if len(g.children) == 1 {
		c := g.children[0]
		d.add(Link{
			ID:        linkID(family.RelParent, SegmentDescent, pair, ">", c),
			Type:      family.RelParent,
			Segment:   SegmentDescent,
			PersonIDs: []string{p1, p2, c},
			Path:      d.f.elbow(mid, d.f.away(d.center(c))),
		})
		return
	}

	// The bus sits at the bend distance toward the nearest child row.
	mg := d.f.g(mid)
	nearest := math.Inf(1)
	lo, hi := d.f.b(mid), d.f.b(mid)
	for _, c := range g.children {
		a := d.f.away(d.center(c))
		if dist := d.f.g(a) - mg; math.Abs(dist) < math.Abs(nearest) {
			nearest = dist
		}
		lo = math.Min(lo, d.f.b(a))
		hi = math.Max(hi, d.f.b(a))
	}
	bus := mg + BendRatio*nearest

	everyone := append([]string{p1, p2}, g.children...)
	d.add(Link{
		ID:        linkID(family.RelParent, SegmentStem, pair),
		Type:      family.RelParent,
		Segment:   SegmentStem,
		PersonIDs: everyone,
		Path:      straight(mid, d.f.at(d.f.b(mid), bus)),
	})
	d.add(Link{
		ID:        linkID(family.RelParent, SegmentBus, pair),
		Type:      family.RelParent,
		Segment:   SegmentBus,
		PersonIDs: slices.Clone(everyone),
		Path:      straight(d.f.at(lo, bus), d.f.at(hi, bus)),
	})
	for _, c := range g.children {
		a := d.f.away(d.center(c))
		d.add(Link{
			ID:        linkID(family.RelParent, SegmentConnector, pair, ">", c),
			Type:      family.RelParent,
			Segment:   SegmentConnector,
			PersonIDs: []string{p1, p2, c},
			Path:      straight(d.f.at(d.f.b(a), bus), a),
		})
	}
}

// side links two cards at their facing sides along the sibling axis.
func (d *deriver) side(e family.Edge) {
	a, b := d.center(e.From), d.center(e.To)
	sign := 1.0
	if d.f.b(b) < d.f.b(a) {
		sign = -1
	}
	from := d.f.shift(a, sign*d.f.sibHalf)
	to := d.f.shift(b, -sign*d.f.sibHalf)

	x, y := family.SortedPair(e.From, e.To)
	d.add(Link{
		ID:        linkID(e.Type, SegmentDirect, x, "~", y),
		Type:      e.Type,
		Segment:   SegmentDirect,
		PersonIDs: []string{e.From, e.To},
		Path:      straight(from, to),
	})
}

func linkID(t family.RelType, seg Segment, parts ...string) string {
	return string(t) + ":" + string(seg) + ":" + strings.Join(parts, "")
}

func midpoint(a, b Point) Point {
	return Point{X: (a.X + b.X) / 2, Y: (a.Y + b.Y) / 2}
}

// frame converts between screen space and the (sibling, generation) axes of
// a layout.
type frame struct {
	gen, sib         layout.Vec
	genHalf, sibHalf float64
}

func (f frame) g(p Point) float64 { return p.X*f.gen.X + p.Y*f.gen.Y }
func (f frame) b(p Point) float64 { return p.X*f.sib.X + p.Y*f.sib.Y }

func (f frame) at(b, g float64) Point {
	return Point{X: b*f.sib.X + g*f.gen.X, Y: b*f.sib.Y + g*f.gen.Y}
}

// toward is the centre of a card's edge facing the next generation.
func (f frame) toward(c Point) Point {
	return Point{X: c.X + f.gen.X*f.genHalf, Y: c.Y + f.gen.Y*f.genHalf}
}

// away is the centre of a card's edge facing the previous generation.
func (f frame) away(c Point) Point {
	return Point{X: c.X - f.gen.X*f.genHalf, Y: c.Y - f.gen.Y*f.genHalf}
}

func (f frame) shift(c Point, along float64) Point {
	return Point{X: c.X + f.sib.X*along, Y: c.Y + f.sib.Y*along}
}

// elbow runs from a along the generation axis, crosses over at BendRatio of
// the distance and finishes at c. Anchors that are nearly aligned on either
// axis get a straight line. When c does not lie ahead of a, the path detours
// around both cards.
func (f frame) elbow(a, c Point) Path {
	dist := f.g(c) - f.g(a)
	if math.Abs(f.b(a)-f.b(c)) < StraightThreshold || math.Abs(dist) < StraightThreshold {
		return straight(a, c)
	}
	if dist < 0 {
		return f.detour(a, c)
	}
	bend := f.g(a) + BendRatio*dist
	return Path{Kind: PathElbow, Points: []Point{
		snap(a),
		snap(f.at(f.b(a), bend)),
		snap(f.at(f.b(c), bend)),
		snap(c),
	}}
}

// detour leaves a's card forward, crosses in the gutter between the two
// cards, and enters c from the generation before it. The gutter lies past
// both cards when they overlap on the sibling axis.
func (f frame) detour(a, c Point) Path {
	gap := f.genHalf / 2
	ba, bc := f.b(a), f.b(c)
	gutter := (ba + bc) / 2
	if math.Abs(bc-ba) < 2*f.sibHalf {
		gutter = math.Max(ba, bc) + f.sibHalf + gap
	}
	out, in := f.g(a)+gap, f.g(c)-gap
	return Path{Kind: PathDetour, Points: []Point{
		snap(a),
		snap(f.at(ba, out)),
		snap(f.at(gutter, out)),
		snap(f.at(gutter, in)),
		snap(f.at(bc, in)),
		snap(c),
	}}
}
