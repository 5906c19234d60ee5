package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/matzehuels/lineage/pkg/graph"
	"github.com/matzehuels/lineage/pkg/pipeline"
)

// fetchOpts holds the command-line flags for the fetch command.
type fetchOpts struct {
	output  string // snapshot file; stdout when empty
	refresh bool   // bypass cached query results
}

// fetchCommand creates the fetch command, which downloads all people and
// writes them as a snapshot file usable with --data.
func (c *CLI) fetchCommand() *cobra.Command {
	var opts fetchOpts

	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Download all people into a snapshot file",
		Long: `Fetch runs the person query against the configured Wikibase and writes the
result as a JSON snapshot. The snapshot can be fed back with --data to work
offline or to pin a known state.`,
		Example: `  lineage fetch -o people.json
  lineage fetch --refresh -o people.json
  lineage --offline fetch`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runFetch(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "bypass cached query results")

	return cmd
}

func (c *CLI) runFetch(ctx context.Context, opts fetchOpts) error {
	runner, err := c.newRunner(ctx)
	if err != nil {
		return err
	}
	defer runner.Close()

	data, err := c.load(ctx, runner, opts.refresh, opts.output != "")
	if err != nil {
		return err
	}

	out, err := openOutput(opts.output)
	if err != nil {
		return err
	}
	defer out.Close()
	if err := graph.WriteSnapshot(data.Snapshot, out); err != nil {
		return err
	}

	if opts.output != "" {
		printSuccess("Fetched %d people", data.Repo.Len())
		printKeyValue("Source", data.Snapshot.Source)
		printKeyValue("Hash", data.Hash[:12])
		if refs := data.Repo.Dangling(); len(refs) > 0 {
			printWarning("%d parent references point outside the snapshot", len(refs))
		}
		printFile(opts.output)
		printNewline()
		printNextStep("Draw a tree", "lineage --data "+opts.output+" tree <id>")
	}
	return nil
}

// load fetches the snapshot through runner, with a spinner when the
// terminal is not busy with other output.
func (c *CLI) load(ctx context.Context, runner *pipeline.Runner, refresh, spin bool) (*pipeline.Data, error) {
	prog := newProgress(c.Logger)
	if !spin {
		data, err := runner.Load(ctx, refresh)
		if err == nil {
			prog.done("Loaded people")
		}
		return data, err
	}

	s := newSpinnerWithContext(ctx, "Fetching people...")
	s.Start()
	data, err := runner.Load(ctx, refresh)
	if err != nil {
		if s.Cancelled() {
			s.Stop()
		} else {
			s.StopWithError("Fetch failed")
		}
		return nil, err
	}
	s.Stop()
	prog.done("Loaded people")
	return data, nil
}
