// Package storage persists family trees by name.
//
// Two backends implement [Store]:
//
//   - [FileStore]: one JSON document per tree in a directory, for the CLI and
//     single-node servers
//   - [MongoStore]: one document per tree in a MongoDB collection, for
//     shared deployments
//
// Both store the [graph.Document] form of a tree, so loading re-validates
// every invariant. Names are restricted to a filesystem and URL safe
// alphabet, see [ValidateName].
package storage

import (
	"context"
	"regexp"
	"time"

	kerrors "github.com/matzehuels/kintree/pkg/errors"
	"github.com/matzehuels/kintree/pkg/family"
	"github.com/matzehuels/kintree/pkg/graph"
)

// ErrNotFound is returned when no tree is stored under a name.
var ErrNotFound = kerrors.New(kerrors.ErrCodeNotFound, "tree not found")

// Store persists trees by name. Implementations are safe for concurrent use.
type Store interface {
	Load(ctx context.Context, name string) (*family.Tree, error)
	Save(ctx context.Context, name string, t *family.Tree) error
	Delete(ctx context.Context, name string) error
	List(ctx context.Context) ([]Info, error)
	Close() error
}

// Info summarizes a stored tree.
type Info struct {
	Name      string    `json:"name" bson:"_id"`
	People    int       `json:"people" bson:"people"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updated_at"`
}

// record is the stored form of a tree.
type record struct {
	Name      string         `json:"name" bson:"_id"`
	Document  graph.Document `json:"document" bson:"document"`
	UpdatedAt time.Time      `json:"updatedAt" bson:"updated_at"`
}

func newRecord(name string, t *family.Tree) record {
	return record{Name: name, Document: graph.FromTree(t), UpdatedAt: time.Now().UTC()}
}

var namePattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]{0,63}$`)

// ValidateName checks that name is 1-64 lowercase letters, digits, '-' or
// '_', starting with a letter or digit.
func ValidateName(name string) error {
	if !namePattern.MatchString(name) {
		return kerrors.New(kerrors.ErrCodeInvalidInput, "invalid tree name %q (use lowercase letters, digits, '-' and '_')", name)
	}
	return nil
}
