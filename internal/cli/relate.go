package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/kintree/pkg/family"
)

func (c *CLI) relateCommand() *cobra.Command {
	var (
		ref     treeRef
		relType string
	)

	cmd := &cobra.Command{
		Use:   "relate <from> <to>",
		Short: "Connect two people",
		Long: `Connect two people. With --type parent (the default), <from> becomes a
parent of <to>. Spouse and sibling relationships have no direction.`,
		Example: `  kintree relate -f smith.json ada ben
  kintree relate -f smith.json ada carl --type spouse`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := family.ParseRelType(relType)
			if err != nil {
				return err
			}
			_, err = c.edit(cmd.Context(), &ref, false, func(t *family.Tree) error {
				return t.AddRelationship(args[0], args[1], rt)
			})
			if err != nil {
				return err
			}
			printSuccess("Related %s %s %s", args[0], StyleDim.Render(fmt.Sprintf("-%s->", rt)), args[1])
			return nil
		},
	}

	c.treeFlags(cmd, &ref)
	cmd.Flags().StringVar(&relType, "type", string(family.RelParent), "relationship type: parent, spouse, sibling")
	_ = cmd.RegisterFlagCompletionFunc("type", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return []string{string(family.RelParent), string(family.RelSpouse), string(family.RelSibling)}, cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

func (c *CLI) unrelateCommand() *cobra.Command {
	var (
		ref     treeRef
		relType string
	)

	cmd := &cobra.Command{
		Use:   "unrelate <from> <to>",
		Short: "Remove a relationship",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := family.ParseRelType(relType)
			if err != nil {
				return err
			}
			removed := false
			_, err = c.edit(cmd.Context(), &ref, false, func(t *family.Tree) error {
				removed = t.HasRelationship(args[0], args[1], rt) || (rt.Undirected() && t.HasRelationship(args[1], args[0], rt))
				t.RemoveRelationship(args[0], args[1], rt)
				return nil
			})
			if err != nil {
				return err
			}
			if !removed {
				printInfo("No %s relationship between %s and %s", rt, args[0], args[1])
				return nil
			}
			printSuccess("Removed %s relationship between %s and %s", rt, args[0], args[1])
			return nil
		},
	}

	c.treeFlags(cmd, &ref)
	cmd.Flags().StringVar(&relType, "type", string(family.RelParent), "relationship type: parent, spouse, sibling")

	return cmd
}
