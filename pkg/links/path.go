package links

import (
	"math"
	"strconv"
	"strings"
)

// PathKind describes how a path should be drawn.
type PathKind string

const (
	PathStraight PathKind = "straight"
	PathElbow    PathKind = "elbow"
	PathDetour   PathKind = "detour" // child not ahead of the parent along the generation axis
)

// Point is a position in layout space.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Path is an ordered polyline. Straight paths have exactly two points, elbow
// paths four and detour paths six.
type Path struct {
	Kind   PathKind `json:"kind"`
	Points []Point  `json:"points"`
}

// D returns the path as SVG path data, e.g. "M 0 0 L 0 10".
func (p Path) D() string {
	var sb strings.Builder
	for i, pt := range p.Points {
		if i == 0 {
			sb.WriteString("M ")
		} else {
			sb.WriteString(" L ")
		}
		sb.WriteString(num(pt.X))
		sb.WriteByte(' ')
		sb.WriteString(num(pt.Y))
	}
	return sb.String()
}

// Length is the total length of the path.
func (p Path) Length() float64 {
	var l float64
	for i := 1; i < len(p.Points); i++ {
		a, b := p.Points[i-1], p.Points[i]
		l += math.Hypot(b.X-a.X, b.Y-a.Y)
	}
	return l
}

func num(f float64) string {
	return strconv.FormatFloat(round(f), 'f', -1, 64)
}

func round(f float64) float64 {
	r := math.Round(f*1e6) / 1e6
	if r == 0 {
		return 0
	}
	return r
}

func straight(a, b Point) Path {
	return Path{Kind: PathStraight, Points: []Point{snap(a), snap(b)}}
}

func snap(p Point) Point { return Point{X: round(p.X), Y: round(p.Y)} }
