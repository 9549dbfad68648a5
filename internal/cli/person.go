package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/kintree/pkg/family"
)

// personCommand groups the person editing subcommands.
func (c *CLI) personCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "person",
		Short: "Add, update or remove people",
	}

	cmd.AddCommand(c.personAddCommand())
	cmd.AddCommand(c.personUpdateCommand())
	cmd.AddCommand(c.personRemoveCommand())

	return cmd
}

// personFlags binds the editable person fields.
func personFlags(cmd *cobra.Command, p *family.Person, gender *string) {
	cmd.Flags().StringVar(&p.Name, "name", "", "full name")
	cmd.Flags().StringVar(gender, "gender", "", "male or female")
	cmd.Flags().IntVar(&p.BirthYear, "birth", 0, "birth year")
	cmd.Flags().IntVar(&p.DeathYear, "death", 0, "death year (0 if alive)")
	cmd.Flags().StringVar(&p.Occupation, "occupation", "", "occupation")
	cmd.Flags().StringVar(&p.Birthplace, "birthplace", "", "birthplace")
	cmd.Flags().StringVar(&p.Notes, "notes", "", "free-form notes")
	cmd.Flags().StringVar(&p.ImageRef, "image", "", "image reference")
}

func (c *CLI) personAddCommand() *cobra.Command {
	var (
		ref    treeRef
		p      family.Person
		gender string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a person",
		Long: `Add a person to a tree. A missing tree file or stored tree is created.

Without --id a random UUID is assigned.`,
		Example: `  kintree person add -f smith.json --id ada --name "Ada Smith" --gender female --birth 1950`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p.Gender = family.Gender(gender)
			var id string
			_, err := c.edit(cmd.Context(), &ref, true, func(t *family.Tree) error {
				var err error
				id, err = t.AddPerson(p)
				return err
			})
			if err != nil {
				return err
			}
			printSuccess("Added %s", StyleValue.Render(p.Name))
			printKeyValue("id", id)
			return nil
		},
	}

	c.treeFlags(cmd, &ref)
	personFlags(cmd, &p, &gender)
	cmd.Flags().StringVar(&p.ID, "id", "", "person id (default: random UUID)")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("gender")
	_ = cmd.MarkFlagRequired("birth")

	return cmd
}

func (c *CLI) personUpdateCommand() *cobra.Command {
	var (
		ref    treeRef
		upd    family.Person
		gender string
	)

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a person's fields",
		Long:  `Update a person. Only the flags given are changed; relationships are kept.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]
			_, err := c.edit(cmd.Context(), &ref, false, func(t *family.Tree) error {
				p, ok := t.Person(id)
				if !ok {
					return personNotFound(id)
				}
				flags := cmd.Flags()
				if flags.Changed("name") {
					p.Name = upd.Name
				}
				if flags.Changed("gender") {
					p.Gender = family.Gender(gender)
				}
				if flags.Changed("birth") {
					p.BirthYear = upd.BirthYear
				}
				if flags.Changed("death") {
					p.DeathYear = upd.DeathYear
				}
				if flags.Changed("occupation") {
					p.Occupation = upd.Occupation
				}
				if flags.Changed("birthplace") {
					p.Birthplace = upd.Birthplace
				}
				if flags.Changed("notes") {
					p.Notes = upd.Notes
				}
				if flags.Changed("image") {
					p.ImageRef = upd.ImageRef
				}
				return t.UpdatePerson(p)
			})
			if err != nil {
				return err
			}
			printSuccess("Updated %s", id)
			return nil
		},
	}

	c.treeFlags(cmd, &ref)
	personFlags(cmd, &upd, &gender)

	return cmd
}

func (c *CLI) personRemoveCommand() *cobra.Command {
	var (
		ref     treeRef
		cascade bool
	)

	cmd := &cobra.Command{
		Use:   "remove <id>",
		Short: "Remove a person and their relationships",
		Long: `Remove a person together with every relationship touching them.

A person with children is only removed with --cascade. The children stay in
the tree; those left without parents are listed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var res family.RemoveResult
			_, err := c.edit(cmd.Context(), &ref, false, func(t *family.Tree) error {
				var err error
				res, err = t.RemovePerson(args[0], family.RemoveOptions{Cascade: cascade})
				return err
			})
			if err != nil {
				return err
			}
			printSuccess("Removed %s", args[0])
			printDetail("%d relationships removed", len(res.Edges))
			for _, id := range res.Orphaned {
				printInfo("%s has no parents left", id)
			}
			return nil
		},
	}

	c.treeFlags(cmd, &ref)
	cmd.Flags().BoolVar(&cascade, "cascade", false, "remove even if the person has children")

	return cmd
}
