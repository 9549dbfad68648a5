package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	kerrors "github.com/matzehuels/kintree/pkg/errors"
	"github.com/matzehuels/kintree/pkg/family"
	"github.com/matzehuels/kintree/pkg/graph"
	"github.com/matzehuels/kintree/pkg/storage"
)

// treeRef names the tree a command works on: a JSON file or a stored tree.
type treeRef struct {
	file string
	name string
}

func (c *CLI) treeFlags(cmd *cobra.Command, r *treeRef) {
	cmd.Flags().StringVarP(&r.file, "file", "f", "", "tree JSON file")
	cmd.Flags().StringVarP(&r.name, "tree", "t", "", "stored tree name")
	cmd.MarkFlagsMutuallyExclusive("file", "tree")
	cmd.MarkFlagsOneRequired("file", "tree")
	_ = cmd.MarkFlagFilename("file", "json")
	_ = cmd.RegisterFlagCompletionFunc("tree", c.completeTrees)
}

// completeTrees lists stored tree names for shell completion.
func (c *CLI) completeTrees(cmd *cobra.Command, _ []string, prefix string) ([]string, cobra.ShellCompDirective) {
	if err := c.loadConfig(); err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	store, err := c.newStore(cmd.Context())
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	defer store.Close()

	infos, err := store.List(cmd.Context())
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	var names []string
	for _, info := range infos {
		if strings.HasPrefix(info.Name, prefix) {
			names = append(names, info.Name)
		}
	}
	return names, cobra.ShellCompDirectiveNoFileComp
}

// flag renders the reference as a command-line flag.
func (r *treeRef) flag() string {
	if r.file != "" {
		return "-f " + r.file
	}
	return "-t " + r.name
}

// load reads the tree. With create set, a missing tree yields an empty one.
func (c *CLI) load(ctx context.Context, r *treeRef, create bool) (*family.Tree, error) {
	prog := newProgress(c.Logger)
	if r.file != "" {
		t, err := graph.ReadTreeFile(r.file)
		if create && errors.Is(err, os.ErrNotExist) {
			return family.NewTree(), nil
		}
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", r.file, err)
		}
		prog.done("tree loaded", "file", r.file, "people", t.Len())
		return t, nil
	}

	store, err := c.newStore(ctx)
	if err != nil {
		return nil, err
	}
	defer store.Close()

	t, err := store.Load(ctx, r.name)
	if create && errors.Is(err, storage.ErrNotFound) {
		return family.NewTree(), nil
	}
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, kerrors.New(kerrors.ErrCodeNotFound, "tree %q not found", r.name)
		}
		return nil, err
	}
	prog.done("tree loaded", "tree", r.name, "people", t.Len())
	return t, nil
}

// save writes the tree back to where it was loaded from.
func (c *CLI) save(ctx context.Context, r *treeRef, t *family.Tree) error {
	prog := newProgress(c.Logger)
	if r.file != "" {
		if err := graph.WriteTreeFile(t, r.file); err != nil {
			return fmt.Errorf("write %s: %w", r.file, err)
		}
		prog.done("tree saved", "file", r.file)
		return nil
	}

	store, err := c.newStore(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.Save(ctx, r.name, t); err != nil {
		return err
	}
	prog.done("tree saved", "tree", r.name)
	return nil
}

// edit loads the tree, applies fn and saves the result.
func (c *CLI) edit(ctx context.Context, r *treeRef, create bool, fn func(t *family.Tree) error) (*family.Tree, error) {
	t, err := c.load(ctx, r, create)
	if err != nil {
		return nil, err
	}
	if err := fn(t); err != nil {
		return nil, err
	}
	if err := c.save(ctx, r, t); err != nil {
		return nil, err
	}
	return t, nil
}

func personNotFound(id string) error {
	return kerrors.New(kerrors.ErrCodePersonNotFound, "person not found").WithIDs(id)
}
