package cli

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

func (c *CLI) listCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List stored trees",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := c.newStore(cmd.Context())
			if err != nil {
				return err
			}
			defer store.Close()

			infos, err := store.List(cmd.Context())
			if err != nil {
				return err
			}
			if len(infos) == 0 {
				printInfo("No stored trees")
				printNextStep("Create one", appName+` person add -t <name> --name "..." --gender female --birth 1950`)
				return nil
			}

			rows := make([][]string, len(infos))
			for i, info := range infos {
				rows[i] = []string{info.Name, fmt.Sprint(info.People), formatRelativeTime(info.UpdatedAt)}
			}
			fmt.Fprintln(stdout, newTable("Tree", "People", "Updated").
				Rows(rows...).
				StyleFunc(func(row, col int) lipgloss.Style {
					if row == headerRow {
						return styleHeader
					}
					if col == 2 {
						return StyleDim
					}
					return lipgloss.NewStyle()
				}).
				Render())
			return nil
		},
	}
}

func formatRelativeTime(t time.Time) string {
	if t.IsZero() {
		return "—"
	}
	diff := time.Since(t)

	switch {
	case diff < time.Minute:
		return "just now"
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	case diff < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(diff.Hours()/24))
	default:
		return t.Format("Jan 2, 2006")
	}
}
