package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/kintree/pkg/suggest"
)

func (c *CLI) suggestCommand() *cobra.Command {
	var (
		ref         treeRef
		person      string
		interactive bool
	)

	cmd := &cobra.Command{
		Use:   "suggest",
		Short: "List review suggestions for a tree",
		Long: `List people whose records look incomplete or implausible: missing parents,
parents too young at a child's birth, large spouse age gaps and likely
duplicates. Thresholds come from the [suggest] config section.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := c.load(cmd.Context(), &ref, false)
			if err != nil {
				return err
			}
			if person != "" && !t.Has(person) {
				return personNotFound(person)
			}

			list := suggest.Compute(t, c.Config.Suggest)
			if person != "" {
				list = suggest.ForPerson(list, person)
			}

			if interactive {
				_, err := tea.NewProgram(NewSuggestionListModel(t, list), tea.WithContext(cmd.Context())).Run()
				return err
			}
			if len(list) == 0 {
				printSuccess("Nothing to review")
				return nil
			}
			fmt.Fprintln(stdout, renderSuggestions(t, list))
			printDetail("%d suggestions", len(list))
			return nil
		},
	}

	c.treeFlags(cmd, &ref)
	cmd.Flags().StringVar(&person, "person", "", "only show suggestions about this person")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "browse suggestions interactively")

	return cmd
}
