package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss/tree"
	"github.com/spf13/cobra"

	"github.com/matzehuels/lineage/pkg/graph"
	"github.com/matzehuels/lineage/pkg/pipeline"
)

// noDataMessage is printed when the root does not resolve.
const noDataMessage = "No family data available."

// treeOpts holds the command-line flags for the tree command.
type treeOpts struct {
	direction   string
	depth       int
	mother      bool
	noMother    bool
	orientation string
	width       float64
	noImages    bool
	formats     string
	output      string
	detailed    bool
	refresh     bool
}

// treeCommand creates the tree command, which builds, enriches and lays out
// the tree around one person.
func (c *CLI) treeCommand() *cobra.Command {
	var opts treeOpts

	cmd := &cobra.Command{
		Use:   "tree <person-id>",
		Short: "Draw the family tree around a person",
		Long: `Tree builds the ancestor or descendant tree of a person, attaches portrait
images, and lays it out. Text output is printed as an indented tree; json,
dot, svg, png and pdf are written to files or stdout.

Unset flags fall back to the [tree] section of the config file.`,
		Example: `  lineage tree Q1
  lineage tree Q1 --direction descendants --depth 3
  lineage tree Q1 --no-mother -f svg -o smith.svg
  lineage tree Q1 -f json,svg -o out/smith`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runTree(cmd, args[0], opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.direction, "direction", "d", "", "ancestors, descendants or both")
	flags.IntVar(&opts.depth, "depth", 0, "generations to follow from the root")
	flags.BoolVar(&opts.mother, "mother", true, "follow mother links when walking ancestors")
	flags.BoolVar(&opts.noMother, "no-mother", false, "follow father links only")
	flags.StringVar(&opts.orientation, "orientation", "", "vertical or horizontal")
	flags.Float64Var(&opts.width, "width", 0, "viewport width used to center the root")
	flags.BoolVar(&opts.noImages, "no-images", false, "skip portrait lookup")
	flags.StringVarP(&opts.formats, "format", "f", "", "output format(s): text (default), json, dot, svg, png, pdf (comma-separated)")
	flags.StringVarP(&opts.output, "output", "o", "", "output file, or base path for several formats")
	flags.BoolVar(&opts.detailed, "detailed", false, "include years and IDs in node labels")
	flags.BoolVar(&opts.refresh, "refresh", false, "bypass cached query results and layouts")
	cmd.MarkFlagsMutuallyExclusive("mother", "no-mother")

	return cmd
}

func (c *CLI) runTree(cmd *cobra.Command, root string, opts treeOpts) error {
	ctx := cmd.Context()
	formats := parseFormats(opts.formats)
	for _, f := range formats {
		if err := pipeline.ValidateFormat(f); err != nil {
			return err
		}
	}

	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	popts := cfg.TreeOptions(root)
	flags := cmd.Flags()
	if flags.Changed("direction") {
		popts.Direction = opts.direction
	}
	if flags.Changed("depth") {
		popts.MaxDepth = pipeline.Depth(opts.depth)
	}
	if flags.Changed("mother") {
		popts.FatherOnly = !opts.mother
	}
	if opts.noMother {
		popts.FatherOnly = true
	}
	if flags.Changed("orientation") {
		popts.Orientation = opts.orientation
	}
	if flags.Changed("width") {
		popts.ViewportWidth = opts.width
	}
	popts.SkipImages = opts.noImages
	popts.Refresh = opts.refresh
	if err := popts.ValidateAndSetDefaults(); err != nil {
		return err
	}

	runner, err := c.newRunner(ctx)
	if err != nil {
		return err
	}
	defer runner.Close()

	prog := newProgress(c.Logger)
	_, res, err := runner.Run(ctx, popts)
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Rendered %s", popts.String()))

	if res.Empty() {
		printInfo(noDataMessage)
		return nil
	}
	return writeTree(res, formats, opts)
}

// writeTree emits res in every requested format. A single format goes to
// the output path (or stdout); several go to <base>.<format>.
func writeTree(res *pipeline.Result, formats []string, opts treeOpts) error {
	toStdout := opts.output == "" && len(formats) == 1

	var files []string
	for _, format := range formats {
		var data []byte
		if format == pipeline.FormatText {
			data = []byte(textTree(res.Layout, toStdout) + "\n")
		} else {
			artifacts, err := pipeline.Artifacts(res.Layout, []string{format}, opts.detailed)
			if err != nil {
				return err
			}
			data = artifacts[format]
		}

		path := opts.output
		if len(formats) > 1 {
			path = basePath(opts.output, res.Layout.Root) + "." + format
		}
		if err := writeOutput(path, data); err != nil {
			return err
		}
		if path != "" {
			files = append(files, path)
		}
	}

	if toStdout && formats[0] != pipeline.FormatText {
		return nil
	}
	if len(files) > 0 {
		printSuccess("Rendered tree of %s", res.Layout.Root)
		for _, f := range files {
			printFile(f)
		}
	}
	printTreeStats(res.Stats.Nodes, res.Stats.Resolved, res.Stats.Missing, res.CacheHit)
	return nil
}

// textTree draws l as an indented tree, children in layout order.
func textTree(l graph.Layout, styled bool) string {
	root, ok := l.Node(l.Root)
	if l.Empty || !ok {
		return noDataMessage
	}

	children := make(map[string][]graph.Node, len(l.Nodes))
	for _, n := range l.Nodes {
		if n.ParentID != "" {
			children[n.ParentID] = append(children[n.ParentID], n)
		}
	}

	var build func(n graph.Node) *tree.Tree
	build = func(n graph.Node) *tree.Tree {
		t := tree.Root(nodeLabel(n, styled))
		for _, child := range children[n.ID] {
			if len(children[child.ID]) == 0 {
				t.Child(nodeLabel(child, styled))
				continue
			}
			t.Child(build(child))
		}
		return t
	}

	t := build(root).Enumerator(tree.RoundedEnumerator)
	if styled {
		t.EnumeratorStyle(StyleDim)
	}
	return t.String()
}

func nodeLabel(n graph.Node, styled bool) string {
	parts := []string{n.DisplayLabel()}
	if span := n.Lifespan(); span != "" {
		parts = append(parts, "("+span+")")
	}
	label := strings.Join(parts, " ")
	tag := "[" + n.ID + "]"
	if n.ImageURL != "" {
		tag += " *"
	}
	if !styled {
		return label + " " + tag
	}
	return StyleValue.Render(label) + " " + StyleDim.Render(tag)
}
