package graph

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/matzehuels/kintree/pkg/layout"
	"github.com/matzehuels/kintree/pkg/links"
	"github.com/matzehuels/kintree/pkg/placeholder"
	"github.com/matzehuels/kintree/pkg/suggest"
)

// =============================================================================
// Layout - Derived View Format
// =============================================================================

// Layout is the serialization format for everything derived from a tree:
// positioned cards, connecting lines, placeholder slots and suggestions.
//
// Placeholders are only present when the layout was derived for a focused
// person. Width and Height cover every card plus the margin.
type Layout struct {
	Version  uint64          `json:"version" bson:"version"` // tree version the layout was derived from
	Settings layout.Settings `json:"settings" bson:"settings"`
	Width    float64         `json:"width" bson:"width"`
	Height   float64         `json:"height" bson:"height"`

	Nodes        []Node               `json:"nodes" bson:"nodes"`
	Links        []links.Link         `json:"links" bson:"links"`
	FocusID      string               `json:"focusId,omitempty" bson:"focus_id,omitempty"`
	Placeholders []placeholder.Slot   `json:"placeholders,omitempty" bson:"placeholders,omitempty"`
	Suggestions  []suggest.Suggestion `json:"suggestions,omitempty" bson:"suggestions,omitempty"`
}

// =============================================================================
// Node - Positioned Card
// =============================================================================

// Node is a positioned person card. X and Y are the card centre.
type Node struct {
	ID        string  `json:"id" bson:"id"`
	Label     string  `json:"label" bson:"label"`
	X         float64 `json:"x" bson:"x"`
	Y         float64 `json:"y" bson:"y"`
	Depth     int     `json:"depth" bson:"depth"`
	Component int     `json:"component" bson:"component"`
}

// NodesFrom converts layout nodes to their serialization format, labelling
// each card with the person's name.
func NodesFrom(nodes []layout.Node) []Node {
	out := make([]Node, len(nodes))
	for i, n := range nodes {
		label := n.ID
		if n.Person != nil && n.Person.Name != "" {
			label = n.Person.Name
		}
		out[i] = Node{ID: n.ID, Label: label, X: n.X, Y: n.Y, Depth: n.Depth, Component: n.Component}
	}
	return out
}

// LayoutNodes converts serialized nodes back to layout nodes. Person
// back-references are not restored.
func (l Layout) LayoutNodes() []layout.Node {
	out := make([]layout.Node, len(l.Nodes))
	for i, n := range l.Nodes {
		out[i] = layout.Node{ID: n.ID, X: n.X, Y: n.Y, Depth: n.Depth, Component: n.Component}
	}
	return out
}

// =============================================================================
// Layout Serialization API
// =============================================================================

// MarshalLayout serializes a Layout to pretty-printed JSON bytes.
func MarshalLayout(l Layout) ([]byte, error) {
	return json.MarshalIndent(l, "", "  ")
}

// UnmarshalLayout deserializes JSON bytes into a Layout.
func UnmarshalLayout(data []byte) (Layout, error) {
	var l Layout
	if err := json.Unmarshal(data, &l); err != nil {
		return Layout{}, fmt.Errorf("unmarshal layout: %w", err)
	}
	return l, nil
}

// WriteLayoutFile writes a Layout to a JSON file.
func WriteLayoutFile(l Layout, path string) error {
	data, err := MarshalLayout(l)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ReadLayoutFile reads a Layout from a JSON file.
func ReadLayoutFile(path string) (Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Layout{}, fmt.Errorf("read %s: %w", path, err)
	}
	return UnmarshalLayout(data)
}
