package graph

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/kintree/pkg/cache"
	kerrors "github.com/matzehuels/kintree/pkg/errors"
	"github.com/matzehuels/kintree/pkg/family"
)

// =============================================================================
// Document - Tree Serialization
// =============================================================================

// Document is the canonical serialization format for family trees.
// Used for files, API payloads, storage and cache keys.
//
// Order is significant: people and edges are replayed in list order, which
// keeps layouts identical across a round trip.
type Document struct {
	People []family.Person `json:"people" bson:"people"`
	Edges  []family.Edge   `json:"edges" bson:"edges"`
}

// FromTree converts a tree to its serialization format.
func FromTree(t *family.Tree) Document {
	s := t.Snapshot()
	doc := Document{People: s.People, Edges: s.Edges}
	if doc.People == nil {
		doc.People = []family.Person{}
	}
	if doc.Edges == nil {
		doc.Edges = []family.Edge{}
	}
	return doc
}

// ToTree rebuilds a tree from a document, validating every person and edge.
func ToTree(doc Document) (*family.Tree, error) {
	return family.FromSnapshot(family.Snapshot{People: doc.People, Edges: doc.Edges})
}

// =============================================================================
// Tree Serialization API
// =============================================================================

// MarshalTree converts a tree to indented JSON bytes.
func MarshalTree(t *family.Tree) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteTree(t, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalTree decodes JSON bytes into a tree.
func UnmarshalTree(data []byte) (*family.Tree, error) {
	return ReadTree(bytes.NewReader(data))
}

// WriteTree writes a tree as JSON to w.
func WriteTree(t *family.Tree, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(FromTree(t)); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ReadTree decodes a JSON document from r into a tree.
// Malformed JSON fails with ErrCodeInvalidInput; documents that break a tree
// invariant fail with the code of the violated rule.
func ReadTree(r io.Reader) (*family.Tree, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, kerrors.Wrap(kerrors.ErrCodeInvalidInput, err, "decode tree document")
	}
	return ToTree(doc)
}

// WriteTreeFile writes a tree to a JSON file.
// The file is created with 0644 permissions.
func WriteTreeFile(t *family.Tree, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteTree(t, f)
}

// ReadTreeFile reads a JSON file and returns the decoded tree.
func ReadTreeFile(path string) (*family.Tree, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadTree(f)
}

// Hash returns the SHA-256 of the tree's canonical JSON encoding. Trees with
// the same people and edges in the same order hash equal, whatever their
// version.
func Hash(t *family.Tree) (string, error) {
	data, err := json.Marshal(FromTree(t))
	if err != nil {
		return "", fmt.Errorf("encode: %w", err)
	}
	return cache.Hash(data), nil
}
