package layout

import (
	"cmp"
	"math"
	"slices"

	kerrors "github.com/matzehuels/kintree/pkg/errors"
	"github.com/matzehuels/kintree/pkg/family"
)

// Node is a person placed in layout space. X and Y are the centre of the
// person's card.
type Node struct {
	ID        string  `json:"id"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Depth     int     `json:"depth"`     // generation index below the component root
	Component int     `json:"component"` // index of the independent tree the node belongs to

	// Person refers back to the laid out person. The layout does not own it.
	Person *family.Person `json:"-"`
}

// Compute lays out every person of t and returns one Node per person, in the
// tree's insertion order.
//
// The component containing rootID is laid out first, rooted at the topmost
// ancestor reachable from rootID. An empty rootID starts from the first
// person in the tree. People not connected to that component form additional
// trees placed beside it. Identical input always yields identical output.
func Compute(t *family.Tree, s Settings, rootID string) ([]Node, error) {
	s = s.WithDefaults()
	if err := s.Validate(); err != nil {
		return nil, err
	}
	if rootID != "" && !t.Has(rootID) {
		return nil, kerrors.New(kerrors.ErrCodePersonNotFound, "layout root not found").WithIDs(rootID)
	}
	if t.Len() == 0 {
		return nil, nil
	}

	h := buildHierarchy(t, rootID)
	pk := packer{
		siblingGap: s.SiblingStep() - s.SiblingExtent(),
		cousinGap:  s.CousinStep() - s.SiblingExtent(),
		memberStep: s.SiblingStep(),
		extent:     s.SiblingExtent(),
	}
	pk.place(h.top, true)

	type uv struct {
		u, v  float64
		depth int
		comp  int
	}
	coords := make(map[string]uv, t.Len())
	var walk func(u *unit, centre float64, comp int)
	walk = func(u *unit, centre float64, comp int) {
		first := centre - float64(len(u.members)-1)*pk.memberStep/2
		for i, id := range u.members {
			coords[id] = uv{
				u:     first + float64(i)*pk.memberStep,
				v:     float64(u.depth) * s.GenerationStep(),
				depth: u.depth,
				comp:  comp,
			}
		}
		for i, c := range u.children {
			walk(c, centre+u.offsets[i], comp)
		}
	}
	for i, c := range h.top.children {
		walk(c, h.top.offsets[i], i)
	}

	nodes := make([]Node, 0, t.Len())
	for _, p := range t.People() {
		c := coords[p.ID]
		x, y := s.toScreen(c.u, c.v)
		nodes = append(nodes, Node{ID: p.ID, X: x, Y: y, Depth: c.depth, Component: c.comp, Person: &p})
	}
	normalize(nodes, s)
	return nodes, nil
}

// normalize moves the nodes so the top-left card corner sits at (Margin, Margin).
func normalize(nodes []Node, s Settings) {
	minX, minY := math.Inf(1), math.Inf(1)
	for _, n := range nodes {
		minX = math.Min(minX, n.X)
		minY = math.Min(minY, n.Y)
	}
	dx := s.CardWidth/2 + s.Margin - minX
	dy := s.CardHeight/2 + s.Margin - minY
	for i := range nodes {
		nodes[i].X = round(nodes[i].X + dx)
		nodes[i].Y = round(nodes[i].Y + dy)
	}
}

// round trims floating point noise so equal layouts compare byte-for-byte.
func round(f float64) float64 {
	r := math.Round(f*1e6) / 1e6
	if r == 0 {
		return 0
	}
	return r
}

// Index maps node IDs to nodes.
func Index(nodes []Node) map[string]Node {
	m := make(map[string]Node, len(nodes))
	for _, n := range nodes {
		m[n.ID] = n
	}
	return m
}

// Bounds returns the width and height of the area covered by the nodes,
// including the margin on every side.
func Bounds(nodes []Node, s Settings) (float64, float64) {
	s = s.WithDefaults()
	if len(nodes) == 0 {
		return 0, 0
	}
	var maxX, maxY float64
	for _, n := range nodes {
		maxX = math.Max(maxX, n.X+s.CardWidth/2)
		maxY = math.Max(maxY, n.Y+s.CardHeight/2)
	}
	return maxX + s.Margin, maxY + s.Margin
}

// =============================================================================
// Hierarchy
// =============================================================================

// unit is one layout slot: a person plus the parentless partners drawn next
// to them. Children hang below the unit's centre.
type unit struct {
	members  []string
	depth    int
	children []*unit
	offsets  []float64 // child centre relative to this unit's centre
}

type hierarchy struct {
	top *unit // virtual super-root whose children are component roots
}

type builder struct {
	t      *family.Tree
	order  map[string]int
	placed map[string]bool
}

func buildHierarchy(t *family.Tree, rootID string) hierarchy {
	b := &builder{t: t, order: t.OrderIndex(), placed: make(map[string]bool, t.Len())}
	top := &unit{depth: -1}

	starts := t.IDs()
	if rootID != "" {
		starts = append([]string{rootID}, starts...)
	}
	for _, id := range starts {
		if b.placed[id] {
			continue
		}
		top.children = append(top.children, b.component(b.climb(id)))
	}
	return hierarchy{top: top}
}

// climb walks from id to the topmost ancestor along first parents. A
// parentless person married into a family climbs through their spouse.
func (b *builder) climb(id string) string {
	seen := map[string]bool{id: true}
	cur := id
	for {
		next := ""
		if ps := b.t.ParentsOf(cur); len(ps) > 0 {
			next = ps[0]
		} else {
			for _, sp := range b.t.SpousesOf(cur) {
				if len(b.t.ParentsOf(sp)) > 0 {
					next = sp
					break
				}
			}
		}
		if next == "" || seen[next] || b.placed[next] {
			return cur
		}
		seen[next] = true
		cur = next
	}
}

// component builds the unit tree below root breadth first, so a child with
// two parents is attached under whichever parent is reached first.
func (b *builder) component(root string) *unit {
	r := b.newUnit(root, 0)
	queue := []*unit{r}
	for len(queue) > 0 {
		u := queue[0]
		queue = queue[1:]
		for _, c := range b.childrenOf(u) {
			cu := b.newUnit(c, u.depth+1)
			u.children = append(u.children, cu)
			queue = append(queue, cu)
		}
	}
	return r
}

func (b *builder) newUnit(id string, depth int) *unit {
	b.placed[id] = true
	u := &unit{members: []string{id}, depth: depth}
	for _, sp := range b.t.SpousesOf(id) {
		if b.placed[sp] || len(b.t.ParentsOf(sp)) > 0 {
			continue
		}
		b.placed[sp] = true
		u.members = append(u.members, sp)
	}
	return u
}

// childrenOf claims the unplaced children of every member of u, ordered by
// birth year and then insertion order.
func (b *builder) childrenOf(u *unit) []string {
	var kids []string
	for _, m := range u.members {
		for _, c := range b.t.ChildrenOf(m) {
			if !b.placed[c] && !slices.Contains(kids, c) {
				kids = append(kids, c)
			}
		}
	}
	slices.SortFunc(kids, func(x, y string) int {
		px, _ := b.t.Person(x)
		py, _ := b.t.Person(y)
		return cmp.Or(cmp.Compare(px.BirthYear, py.BirthYear), cmp.Compare(b.order[x], b.order[y]))
	})
	for _, c := range kids {
		b.placed[c] = true
	}
	return kids
}
