package cli

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/lineage/pkg/errors"
	"github.com/matzehuels/lineage/pkg/familytree"
	"github.com/matzehuels/lineage/pkg/person"
	"github.com/matzehuels/lineage/pkg/pipeline"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
	previewStyle      = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(colorDim).
				Padding(0, 1)
)

// browseCommand creates the interactive browser.
func (c *CLI) browseCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Browse people and their trees interactively",
		Long: `Browse opens a terminal UI listing every person. Selecting a person draws
their tree next to the list; selecting another person while a tree is still
loading abandons the older one.

Keys: ↑/↓ move, ⏎ show tree, / filter, a/d/b direction, m mother links,
r refresh, q quit.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runBrowse(cmd.Context())
		},
	}
}

func (c *CLI) runBrowse(ctx context.Context) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	runner, err := c.newRunner(ctx)
	if err != nil {
		return err
	}
	defer runner.Close()

	view := pipeline.NewView(runner)
	defer view.Close()

	s := newSpinnerWithContext(ctx, "Fetching people...")
	s.Start()
	_, err = view.Load(ctx, false)
	s.Stop()
	if err != nil {
		return err
	}

	// Log lines would tear the alt screen.
	level := c.Logger.GetLevel()
	c.Logger.SetLevel(log.FatalLevel)
	defer c.Logger.SetLevel(level)

	model := NewBrowseModel(ctx, view, cfg.TreeOptions(""))
	_, err = tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}

// =============================================================================
// BrowseModel - Person list with live tree preview
// =============================================================================

// renderedMsg carries the outcome of a tree render back to the model.
type renderedMsg struct {
	root string
	res  *pipeline.Result
	err  error
}

// refreshedMsg reports a completed snapshot reload.
type refreshedMsg struct {
	res *pipeline.Result
	err error
}

// BrowseModel is the bubbletea model behind "lineage browse".
type BrowseModel struct {
	ctx  context.Context
	view *pipeline.View
	base pipeline.Options

	People []*person.Person
	Cursor int
	Offset int
	Height int

	Filter    string
	Filtering bool

	Pending string // root of the render in flight
	Preview string
	Status  string
}

// NewBrowseModel creates a browser over the view's current snapshot. base
// seeds direction, depth and layout for every render.
func NewBrowseModel(ctx context.Context, view *pipeline.View, base pipeline.Options) BrowseModel {
	m := BrowseModel{
		ctx:    ctx,
		view:   view,
		base:   base,
		Height: 15,
	}
	m.applyFilter()
	return m
}

func (m BrowseModel) Init() tea.Cmd {
	return nil
}

func (m BrowseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.Filtering {
			return m.updateFilter(msg)
		}
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.People)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "/":
			m.Filtering = true
		case "enter":
			if len(m.People) == 0 {
				return m, nil
			}
			return m.show(m.People[m.Cursor].ID)
		case "a":
			return m.withDirection(familytree.Ancestors)
		case "d":
			return m.withDirection(familytree.Descendants)
		case "b":
			return m.withDirection(familytree.Both)
		case "m":
			m.base.FatherOnly = !m.base.FatherOnly
			return m.reshow()
		case "r":
			m.Status = "Refreshing..."
			return m, m.refresh()
		}

	case renderedMsg:
		if msg.root != m.Pending {
			return m, nil
		}
		if msg.err != nil {
			if isSuperseded(msg.err) {
				return m, nil
			}
			m.Pending = ""
			m.Status = errors.UserMessage(msg.err)
			return m, nil
		}
		m.Pending = ""
		m.setPreview(msg.res)

	case refreshedMsg:
		if msg.err != nil {
			m.Status = errors.UserMessage(msg.err)
			return m, nil
		}
		m.Pending = ""
		m.applyFilter()
		m.Status = fmt.Sprintf("Reloaded %d people", m.view.Data().Repo.Len())
		if msg.res != nil {
			m.setPreview(msg.res)
		}

	case tea.WindowSizeMsg:
		m.Height = msg.Height - 6
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m BrowseModel) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter, tea.KeyEsc:
		m.Filtering = false
	case tea.KeyBackspace:
		if r := []rune(m.Filter); len(r) > 0 {
			m.Filter = string(r[:len(r)-1])
		}
	case tea.KeyRunes:
		m.Filter += string(msg.Runes)
	case tea.KeySpace:
		m.Filter += " "
	case tea.KeyCtrlC:
		return m, tea.Quit
	}
	m.applyFilter()
	return m, nil
}

// applyFilter recomputes the visible list and clamps the cursor.
func (m *BrowseModel) applyFilter() {
	m.People = m.view.Data().Repo.Search(m.Filter, 0)
	if m.Cursor >= len(m.People) {
		m.Cursor = max(len(m.People)-1, 0)
	}
	if m.Offset > m.Cursor {
		m.Offset = m.Cursor
	}
}

// show starts a render for root. Any render still in flight is cancelled by
// the view and its message is dropped once it arrives.
func (m BrowseModel) show(root string) (tea.Model, tea.Cmd) {
	m.Pending = root
	m.Status = "Loading " + root + "..."
	opts := m.base
	opts.Root = root
	view, ctx := m.view, m.ctx
	return m, func() tea.Msg {
		res, err := view.Show(ctx, opts)
		return renderedMsg{root: root, res: res, err: err}
	}
}

func (m BrowseModel) withDirection(d familytree.Direction) (tea.Model, tea.Cmd) {
	m.base.Direction = string(d)
	return m.reshow()
}

// reshow re-renders the last shown root with the current options.
func (m BrowseModel) reshow() (tea.Model, tea.Cmd) {
	root := m.Pending
	if root == "" {
		root = m.view.Root()
	}
	if root == "" {
		return m, nil
	}
	return m.show(root)
}

func (m BrowseModel) refresh() tea.Cmd {
	view, ctx := m.view, m.ctx
	return func() tea.Msg {
		res, err := view.Refresh(ctx)
		return refreshedMsg{res: res, err: err}
	}
}

func (m *BrowseModel) setPreview(res *pipeline.Result) {
	if res.Empty() {
		m.Preview = noDataMessage
		m.Status = ""
		return
	}
	m.Preview = textTree(res.Layout, true)
	cached := ""
	if res.CacheHit {
		cached = ", cached"
	}
	m.Status = fmt.Sprintf("%s: %d people, %d portraits%s", res.Layout.Root, res.Stats.Nodes, res.Stats.Resolved, cached)
}

// isSuperseded reports errors caused by a newer selection.
func isSuperseded(err error) bool {
	return errors.Is(err, errors.ErrCodeStaleRender) || stderrors.Is(err, context.Canceled)
}

func (m BrowseModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Lineage"))
	b.WriteString("  ")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("%s · depth %d · mother links %s",
		m.direction(), m.depth(), onOff(!m.base.FatherOnly))))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ tree  / filter  a/d/b direction  m mother  r refresh  q quit"))
	b.WriteString("\n\n")

	left := m.listView()
	right := m.Preview
	if right == "" {
		right = listDimStyle.Render("Select a person to draw their tree.")
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, left, "  ", previewStyle.Render(right)))
	b.WriteString("\n")

	if m.Filtering || m.Filter != "" {
		b.WriteString(StyleHighlight.Render("/" + m.Filter))
		if m.Filtering {
			b.WriteString(listDimStyle.Render("▏"))
		}
		b.WriteString("\n")
	}
	if m.Status != "" {
		b.WriteString(listDimStyle.Render(m.Status))
		b.WriteString("\n")
	}
	return b.String()
}

func (m BrowseModel) listView() string {
	if len(m.People) == 0 {
		return listDimStyle.Render("No people match.")
	}
	end := min(m.Offset+m.Height, len(m.People))

	var b strings.Builder
	for i := m.Offset; i < end; i++ {
		p := m.People[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		line := fmt.Sprintf("%s%-28s %s", cursor, truncate(p.DisplayName(), 28), listDimStyle.Render(p.ID))
		if i == m.Cursor {
			b.WriteString(listSelectedStyle.Render(line))
		} else {
			b.WriteString(listNormalStyle.Render(line))
		}
		if i < end-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (m BrowseModel) direction() string {
	if m.base.Direction == "" {
		return string(pipeline.DefaultDirection)
	}
	return m.base.Direction
}

func (m BrowseModel) depth() int {
	return m.base.Depth()
}

// =============================================================================
// Helpers
// =============================================================================

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
