// Package graph provides the serialization types for family trees and their
// derived layouts.
//
// This package defines the wire format used for JSON files, API payloads,
// stored documents and cache entries. It sits at the boundary between the
// in-memory [family.Tree] and external formats:
//
//   - [Document]: people and edges of a tree, in insertion order
//   - [Layout]: positioned nodes, links, placeholders and suggestions
//
// # Tree Documents
//
// Trees use a simple person/edge JSON format:
//
//	{
//	  "people": [{"id": "ada", "name": "Ada", "gender": "female", "birthYear": 1950}],
//	  "edges":  [{"fromId": "ada", "toId": "ben", "type": "parent", "bidirectional": false}]
//	}
//
// Common operations:
//
//	t, _ := graph.ReadTreeFile("family.json")   // File → Tree
//	graph.WriteTreeFile(t, "family.json")       // Tree → File
//	data, _ := graph.MarshalTree(t)             // Tree → []byte
//	hash, _ := graph.Hash(t)                    // content hash for cache keys
//
// Decoding always rebuilds the tree through its mutation operations, so a
// document that breaks a tree invariant (a third parent, a cycle, a missing
// birth year) is rejected with the corresponding error code.
//
// # Concurrency
//
// All functions are safe for concurrent use on distinct trees.
package graph
