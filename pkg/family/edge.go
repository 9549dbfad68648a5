package family

import kerrors "github.com/matzehuels/kintree/pkg/errors"

// RelType is the closed set of relationship kinds.
type RelType string

const (
	// RelParent means From is a parent of To.
	RelParent RelType = "parent"
	// RelSpouse connects two partners. The edge is undirected.
	RelSpouse RelType = "spouse"
	// RelSibling is an explicit sibling edge, used for half- and step-siblings
	// that share no parent in the data. The edge is undirected.
	RelSibling RelType = "sibling"
)

// RelTypes lists every relationship type in a stable order.
var RelTypes = []RelType{RelParent, RelSpouse, RelSibling}

// Valid reports whether t is a known relationship type.
func (t RelType) Valid() bool {
	switch t {
	case RelParent, RelSpouse, RelSibling:
		return true
	}
	return false
}

// Undirected reports whether edges of this type have no meaningful direction.
func (t RelType) Undirected() bool {
	return t == RelSpouse || t == RelSibling
}

// ParseRelType converts a string into a RelType.
func ParseRelType(s string) (RelType, error) {
	t := RelType(s)
	if !t.Valid() {
		return "", kerrors.New(kerrors.ErrCodeInvalidInput, "invalid relationship type %q (must be parent, spouse or sibling)", s)
	}
	return t, nil
}

// Edge is a typed connection between two people.
type Edge struct {
	From          string  `json:"fromId" bson:"fromId"`
	To            string  `json:"toId" bson:"toId"`
	Type          RelType `json:"type" bson:"type"`
	Bidirectional bool    `json:"bidirectional" bson:"bidirectional"`
}

// Pair returns the endpoints with the lexically smaller ID first.
func (e Edge) Pair() (string, string) {
	return SortedPair(e.From, e.To)
}

// Key identifies the edge by type and endpoints. Undirected edges produce the
// same key regardless of the order of their endpoints.
func (e Edge) Key() string {
	a, b := e.From, e.To
	if e.Type.Undirected() {
		a, b = e.Pair()
	}
	return string(e.Type) + ":" + a + "->" + b
}

// Touches reports whether id is one of the edge's endpoints.
func (e Edge) Touches(id string) bool {
	return e.From == id || e.To == id
}

// Other returns the endpoint opposite to id.
func (e Edge) Other(id string) string {
	if e.From == id {
		return e.To
	}
	return e.From
}

// Connects reports whether the edge joins a and b with type t, ignoring
// direction for undirected types.
func (e Edge) Connects(a, b string, t RelType) bool {
	if e.Type != t {
		return false
	}
	if e.From == a && e.To == b {
		return true
	}
	return t.Undirected() && e.From == b && e.To == a
}

// SortedPair returns a and b in lexical order.
func SortedPair(a, b string) (string, string) {
	if b < a {
		return b, a
	}
	return a, b
}
