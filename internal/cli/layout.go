package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/kintree/pkg/graph"
	"github.com/matzehuels/kintree/pkg/layout"
	"github.com/matzehuels/kintree/pkg/pipeline"
)

// layoutFlags are the derivation flags shared by layout and placeholders.
type layoutFlags struct {
	orientation string
	direction   string
	root        string
	noCache     bool
	refresh     bool
}

func (f *layoutFlags) add(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.orientation, "orientation", "", "vertical or horizontal (default from config)")
	cmd.Flags().StringVar(&f.direction, "direction", "", "top-to-bottom, bottom-to-top, left-to-right or right-to-left")
	cmd.Flags().StringVar(&f.root, "root", "", "person the layout is rooted at (default: first person)")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&f.refresh, "refresh", false, "recompute even when a cached result exists")
}

// options merges the flags over the configured pipeline options. Changing the
// orientation without a direction selects that orientation's default
// direction.
func (f *layoutFlags) options(base pipeline.Options) pipeline.Options {
	opts := base
	if f.orientation != "" {
		opts.Settings.Orientation = layout.Orientation(f.orientation)
		opts.Settings.Direction = ""
	}
	if f.direction != "" {
		opts.Settings.Direction = layout.Direction(f.direction)
	}
	opts.RootID = f.root
	opts.Refresh = f.refresh
	return opts
}

// layoutCommand creates the layout command for deriving the view of a tree.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		ref    treeRef
		flags  layoutFlags
		output string
		focus  string
	)

	cmd := &cobra.Command{
		Use:   "layout",
		Short: "Derive the layout of a family tree",
		Long: `Derive the layout of a family tree.

The layout command positions every person's card, computes the connecting
lines and the review suggestions, and writes the result as layout.json. With
--focus the placeholder slots for that person are included.

Results are cached, keyed by tree content, version and settings.`,
		Example: `  kintree layout -f smith.json
  kintree layout -t smith --orientation horizontal --focus ada -o smith.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := flags.options(c.pipelineOptions())
			opts.FocusID = focus
			return c.runLayout(cmd.Context(), &ref, opts, output, flags.noCache)
		},
	}

	c.treeFlags(cmd, &ref)
	flags.add(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <tree>.layout.json)")
	cmd.Flags().StringVar(&focus, "focus", "", "person to plan placeholder slots for")

	return cmd
}

// runLayout loads the tree, derives the view, and writes output.
func (c *CLI) runLayout(ctx context.Context, ref *treeRef, opts pipeline.Options, output string, noCache bool) error {
	t, err := c.load(ctx, ref, false)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := newSpinner(ctx, "Deriving layout...")
	spinner.Start()
	res, err := runner.Derive(ctx, t, opts)
	spinner.Stop()
	if err != nil {
		return err
	}
	// A cache hit can return after an interrupt; don't write it.
	if spinner.Cancelled() {
		return ctx.Err()
	}

	outputPath := output
	if outputPath == "" {
		outputPath = defaultLayoutPath(ref)
	}
	if err := graph.WriteLayoutFile(res.Layout, outputPath); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	printSuccess("Layout complete")
	printFile(outputPath)
	printStats(res.Stats.People, res.Stats.Links, res.Stats.Suggestions, res.CacheHit)
	if res.Stats.Suggestions > 0 {
		printNewline()
		printNextStep("Review", fmt.Sprintf("%s suggest %s", appName, ref.flag()))
	}
	return nil
}

// defaultLayoutPath is <input>.layout.json next to a tree file, or
// <name>.layout.json in the working directory for a stored tree.
func defaultLayoutPath(ref *treeRef) string {
	if ref.file != "" {
		return strings.TrimSuffix(ref.file, filepath.Ext(ref.file)) + ".layout.json"
	}
	return ref.name + ".layout.json"
}
