package links

import (
	"testing"

	"github.com/matzehuels/kintree/pkg/family"
	"github.com/matzehuels/kintree/pkg/layout"
)

func node(id string, x, y float64) layout.Node {
	return layout.Node{ID: id, X: x, Y: y}
}

func parent(from, to string) family.Edge {
	return family.Edge{From: from, To: to, Type: family.RelParent}
}

func countSegments(links []Link) map[Segment]int {
	m := make(map[Segment]int)
	for _, l := range links {
		m[l.Segment]++
	}
	return m
}

func find(t *testing.T, links []Link, id string) Link {
	t.Helper()
	for _, l := range links {
		if l.ID == id {
			return l
		}
	}
	t.Fatalf("link %s not found in %d links", id, len(links))
	return Link{}
}

func TestFamilyWithThreeChildren(t *testing.T) {
	nodes := []layout.Node{
		node("h", 100, 100), node("w", 400, 100),
		node("k1", 100, 300), node("k2", 250, 300), node("k3", 400, 300),
	}
	edges := []family.Edge{
		{From: "h", To: "w", Type: family.RelSpouse},
		parent("h", "k1"), parent("w", "k1"),
		parent("h", "k2"), parent("w", "k2"),
		parent("h", "k3"), parent("w", "k3"),
	}
	links := Compute(nodes, edges, layout.DefaultSettings())

	got := countSegments(links)
	want := map[Segment]int{SegmentDirect: 1, SegmentStem: 1, SegmentBus: 1, SegmentConnector: 3}
	if len(got) != len(want) {
		t.Fatalf("segments = %v, want %v", got, want)
	}
	for seg, n := range want {
		if got[seg] != n {
			t.Errorf("%s count = %d, want %d", seg, got[seg], n)
		}
	}

	tests := []struct {
		id   string
		want string
	}{
		{"spouse:direct:h~w", "M 200 100 L 300 100"},
		{"parent:stem:h+w", "M 250 140 L 250 224"},
		{"parent:bus:h+w", "M 100 224 L 400 224"},
		{"parent:connector:h+w>k1", "M 100 224 L 100 260"},
		{"parent:connector:h+w>k3", "M 400 224 L 400 260"},
	}
	for _, tt := range tests {
		if d := find(t, links, tt.id).Path.D(); d != tt.want {
			t.Errorf("%s path = %q, want %q", tt.id, d, tt.want)
		}
	}
	if ids := find(t, links, "parent:stem:h+w").PersonIDs; ids[0] != "h" || ids[1] != "w" || len(ids) != 5 {
		t.Errorf("stem person ids = %v", ids)
	}
}

func TestSingleParentElbow(t *testing.T) {
	nodes := []layout.Node{node("p", 100, 100), node("c", 400, 300)}
	links := Compute(nodes, []family.Edge{parent("p", "c")}, layout.DefaultSettings())
	if len(links) != 1 {
		t.Fatalf("len = %d", len(links))
	}
	l := links[0]
	if l.Segment != SegmentDirect || l.Path.Kind != PathElbow {
		t.Errorf("got %s/%s, want direct elbow", l.Segment, l.Path.Kind)
	}
	if d := l.Path.D(); d != "M 100 140 L 100 224 L 400 224 L 400 260" {
		t.Errorf("path = %q", d)
	}
	if l.PersonIDs[0] != "p" {
		t.Errorf("parent must come first: %v", l.PersonIDs)
	}
}

func TestAlignedParentIsStraight(t *testing.T) {
	nodes := []layout.Node{node("p", 100, 100), node("c", 101, 300)}
	links := Compute(nodes, []family.Edge{parent("p", "c")}, layout.DefaultSettings())
	if len(links) != 1 || links[0].Path.Kind != PathStraight || len(links[0].Path.Points) != 2 {
		t.Fatalf("links = %+v", links)
	}
}

func TestCrossLinkedParent(t *testing.T) {
	tests := []struct {
		name   string
		parent layout.Node
		child  layout.Node
		kind   PathKind
		d      string
	}{
		{
			name:   "same row",
			parent: node("p", 100, 100), child: node("c", 400, 100),
			kind: PathDetour,
			d:    "M 100 140 L 100 160 L 250 160 L 250 40 L 400 40 L 400 60",
		},
		{
			name:   "anchors on one line",
			parent: node("p", 100, 100), child: node("c", 400, 180),
			kind: PathStraight,
			d:    "M 100 140 L 400 140",
		},
		{
			name:   "child above and overlapping",
			parent: node("p", 100, 300), child: node("c", 150, 100),
			kind: PathDetour,
			d:    "M 100 340 L 100 360 L 270 360 L 270 40 L 150 40 L 150 60",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nodes := []layout.Node{tt.parent, tt.child}
			links := Compute(nodes, []family.Edge{parent("p", "c")}, layout.DefaultSettings())
			if len(links) != 1 {
				t.Fatalf("len = %d", len(links))
			}
			path := links[0].Path
			if path.Kind != tt.kind || path.D() != tt.d {
				t.Errorf("path = %s %q, want %s %q", path.Kind, path.D(), tt.kind, tt.d)
			}
			for _, n := range nodes {
				if crossesCard(path, n, layout.DefaultSettings()) {
					t.Errorf("path %q runs through card %s", path.D(), n.ID)
				}
			}
		})
	}
}

// crossesCard reports whether any segment of p passes through the interior
// of n's card. Segments are axis-aligned or end on the card's edge.
func crossesCard(p Path, n layout.Node, s layout.Settings) bool {
	minX, maxX := n.X-s.CardWidth/2, n.X+s.CardWidth/2
	minY, maxY := n.Y-s.CardHeight/2, n.Y+s.CardHeight/2
	for i := 1; i < len(p.Points); i++ {
		a, b := p.Points[i-1], p.Points[i]
		mid := Point{X: (a.X + b.X) / 2, Y: (a.Y + b.Y) / 2}
		if mid.X > minX && mid.X < maxX && mid.Y > minY && mid.Y < maxY {
			return true
		}
	}
	return false
}

func TestOnlyChildDescent(t *testing.T) {
	nodes := []layout.Node{node("a", 100, 100), node("b", 400, 100), node("c", 400, 300)}
	edges := []family.Edge{parent("b", "c"), parent("a", "c")}
	links := Compute(nodes, edges, layout.DefaultSettings())
	if len(links) != 1 {
		t.Fatalf("len = %d, want 1", len(links))
	}
	l := links[0]
	if l.Segment != SegmentDescent || l.ID != "parent:descent:a+b>c" {
		t.Errorf("got %s %s", l.ID, l.Segment)
	}
	if d := l.Path.D(); d != "M 250 140 L 250 224 L 400 224 L 400 260" {
		t.Errorf("path = %q", d)
	}
}

func TestHorizontalElbow(t *testing.T) {
	s := layout.DefaultSettings()
	s.Orientation, s.Direction = layout.OrientationHorizontal, layout.LeftToRight
	nodes := []layout.Node{node("p", 100, 100), node("c", 460, 200)}
	links := Compute(nodes, []family.Edge{parent("p", "c")}, s)
	if d := links[0].Path.D(); d != "M 200 100 L 312 100 L 312 200 L 360 200" {
		t.Errorf("path = %q", d)
	}
}

func TestDeduplicatesAndSkips(t *testing.T) {
	nodes := []layout.Node{node("a", 100, 100), node("b", 400, 100)}
	edges := []family.Edge{
		{From: "a", To: "b", Type: family.RelSpouse},
		{From: "b", To: "a", Type: family.RelSpouse},
		{From: "b", To: "a", Type: family.RelSibling},
		parent("a", "ghost"),
		parent("ghost", "b"),
	}
	links := Compute(nodes, edges, layout.DefaultSettings())
	if len(links) != 2 {
		t.Fatalf("len = %d, want 2: %+v", len(links), links)
	}
	sib := find(t, links, "sibling:direct:a~b")
	if sib.Type != family.RelSibling {
		t.Errorf("type = %s", sib.Type)
	}
	// b lies to the right of a: the line leaves b's left side.
	if d := sib.Path.D(); d != "M 300 100 L 200 100" {
		t.Errorf("path = %q", d)
	}
}

func TestHalfLaidOutFamilyFallsBackToDirect(t *testing.T) {
	nodes := []layout.Node{node("a", 100, 100), node("c1", 100, 300), node("c2", 340, 300)}
	edges := []family.Edge{parent("a", "c1"), parent("b", "c1"), parent("a", "c2"), parent("b", "c2")}
	links := Compute(nodes, edges, layout.DefaultSettings())
	if got := countSegments(links); got[SegmentDirect] != 2 || len(got) != 1 {
		t.Errorf("segments = %v", got)
	}
}

func TestComputeFromLayout(t *testing.T) {
	tr := family.NewTree()
	add := func(id string, g family.Gender, year int) {
		if _, err := tr.AddPerson(family.Person{ID: id, Name: id, Gender: g, BirthYear: year}); err != nil {
			t.Fatal(err)
		}
	}
	add("h", family.GenderMale, 1950)
	add("w", family.GenderFemale, 1952)
	for i, id := range []string{"k1", "k2", "k3"} {
		add(id, family.GenderFemale, 1980+i)
	}
	rel := func(from, to string, rt family.RelType) {
		if err := tr.AddRelationship(from, to, rt); err != nil {
			t.Fatal(err)
		}
	}
	rel("h", "w", family.RelSpouse)
	for _, k := range []string{"k1", "k2", "k3"} {
		rel("h", k, family.RelParent)
		rel("w", k, family.RelParent)
	}

	s := layout.DefaultSettings()
	nodes, err := layout.Compute(tr, s, "")
	if err != nil {
		t.Fatal(err)
	}
	links := Compute(nodes, tr.Edges(), s)
	got := countSegments(links)
	if got[SegmentStem] != 1 || got[SegmentBus] != 1 || got[SegmentConnector] != 3 || got[SegmentDirect] != 1 {
		t.Errorf("segments = %v", got)
	}
	if n := len(ByPerson(links, "k2")); n != 3 {
		t.Errorf("links touching k2 = %d, want 3", n)
	}
}

func TestPathLength(t *testing.T) {
	p := Path{Kind: PathElbow, Points: []Point{{0, 0}, {0, 10}, {5, 10}, {5, 20}}}
	if p.Length() != 25 {
		t.Errorf("Length = %g", p.Length())
	}
	if (Path{}).D() != "" {
		t.Error("empty path should have empty data")
	}
}
