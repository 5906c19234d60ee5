package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/lineage/pkg/person"
)

// listOpts holds the command-line flags for the list command.
type listOpts struct {
	search  string
	limit   int
	refresh bool
}

// listCommand creates the list command, which prints people as a table.
func (c *CLI) listCommand() *cobra.Command {
	var opts listOpts

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List people, optionally filtered by a search term",
		Example: `  lineage list
  lineage list --search smith
  lineage list -s Q42 --limit 5`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runList(cmd.Context(), os.Stdout, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.search, "search", "s", "", "match names, aliases, IDs and descriptions")
	cmd.Flags().IntVarP(&opts.limit, "limit", "n", 0, "maximum number of rows (0 for all)")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "bypass cached query results")

	return cmd
}

func (c *CLI) runList(ctx context.Context, w io.Writer, opts listOpts) error {
	runner, err := c.newRunner(ctx)
	if err != nil {
		return err
	}
	defer runner.Close()

	data, err := c.load(ctx, runner, opts.refresh, true)
	if err != nil {
		return err
	}

	people := data.Repo.Search(opts.search, opts.limit)
	if len(people) == 0 {
		if opts.search != "" {
			printInfo("No people match %q", opts.search)
		} else {
			printInfo("No people in the snapshot")
		}
		return nil
	}

	fmt.Fprintln(w, peopleTable(people, data.Repo))
	printDetail("%d of %d people", len(people), data.Repo.Len())
	return nil
}

// peopleTable renders people as a bordered table. Parent columns show the
// parent's name when it is known to repo and the raw ID otherwise.
func peopleTable(people []*person.Person, repo *person.Repository) string {
	rows := make([][]string, 0, len(people))
	for _, p := range people {
		rows = append(rows, []string{
			p.ID,
			p.DisplayName(),
			orDash(p.BirthYear()),
			orDash(p.DeathYear()),
			parentName(repo, p.FatherID),
			parentName(repo, p.MotherID),
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true).Padding(0, 1)
	cellStyle := lipgloss.NewStyle().Padding(0, 1)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("ID", "Name", "Born", "Died", "Father", "Mother").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return headerStyle
			case col == 0:
				return cellStyle.Foreground(colorCyan)
			case col >= 4:
				return cellStyle.Foreground(colorGray)
			}
			return cellStyle
		})
	return t.Render()
}

func parentName(repo *person.Repository, id string) string {
	if id == "" {
		return "—"
	}
	if p, ok := repo.ByID(id); ok {
		return p.DisplayName()
	}
	return id
}

func orDash(s string) string {
	if s == "" {
		return "—"
	}
	return s
}
