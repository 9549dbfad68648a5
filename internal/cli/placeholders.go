package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (c *CLI) placeholdersCommand() *cobra.Command {
	var (
		ref   treeRef
		flags layoutFlags
		focus string
	)

	cmd := &cobra.Command{
		Use:   "placeholders",
		Short: "Show where new relatives of a person would be placed",
		Long: `Show the placeholder slots around a person: where a new parent, spouse,
child or sibling card would go in the current layout. Slots that still
overlap another card after shifting are marked as not clear.`,
		Example: `  kintree placeholders -f smith.json --focus ada`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			t, err := c.load(ctx, &ref, false)
			if err != nil {
				return err
			}

			runner, err := c.newRunner(ctx, flags.noCache)
			if err != nil {
				return fmt.Errorf("initialize runner: %w", err)
			}
			defer runner.Close()

			opts := flags.options(c.pipelineOptions())
			opts.FocusID = focus
			opts.SkipSuggestions = true
			res, err := runner.Derive(ctx, t, opts)
			if err != nil {
				return err
			}

			slots := res.Layout.Placeholders
			if len(slots) == 0 {
				printInfo("No open slots around %s", displayName(t, focus))
				return nil
			}
			fmt.Fprintln(stdout, renderPlaceholders(slots))
			printDetail("%d slots around %s", len(slots), displayName(t, focus))
			return nil
		},
	}

	c.treeFlags(cmd, &ref)
	flags.add(cmd)
	cmd.Flags().StringVar(&focus, "focus", "", "person to plan slots for")
	_ = cmd.MarkFlagRequired("focus")

	return cmd
}
