package cli

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/lineage/pkg/cache"
	"github.com/matzehuels/lineage/pkg/graph"
	"github.com/matzehuels/lineage/pkg/person"
	"github.com/matzehuels/lineage/pkg/pipeline"
)

func newTestBrowser(t *testing.T) BrowseModel {
	t.Helper()
	src := &graph.StaticSource{Label: "test", People: []person.Person{
		{ID: "Q1", Name: "John Smith", FatherID: "Q3", MotherID: "Q4"},
		{ID: "Q2", Name: "Jane Smith"},
		{ID: "Q3", Name: "Robert Smith"},
		{ID: "Q4", Name: "Mary Jones"},
		{ID: "Q5", Name: "Tom Smith", FatherID: "Q1", MotherID: "Q2"},
	}}
	runner := pipeline.NewRunner(src, nil, cache.NewNullCache(), nil, nil)
	view := pipeline.NewView(runner)
	t.Cleanup(view.Close)
	if _, err := view.Load(context.Background(), false); err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	return NewBrowseModel(context.Background(), view, pipeline.Options{})
}

func press(t *testing.T, m BrowseModel, key tea.KeyMsg) (BrowseModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(key)
	return next.(BrowseModel), cmd
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestBrowseNavigation(t *testing.T) {
	m := newTestBrowser(t)
	if len(m.People) != 5 {
		t.Fatalf("People = %d, want 5", len(m.People))
	}

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyDown})
	m, _ = press(t, m, keyRunes("j"))
	if m.Cursor != 2 {
		t.Errorf("Cursor = %d, want 2", m.Cursor)
	}
	m, _ = press(t, m, keyRunes("k"))
	if m.Cursor != 1 {
		t.Errorf("Cursor = %d, want 1", m.Cursor)
	}
	for range 10 {
		m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyUp})
	}
	if m.Cursor != 0 {
		t.Errorf("Cursor = %d, want 0 after moving past the top", m.Cursor)
	}
}

func TestBrowseScrollsWithCursor(t *testing.T) {
	m := newTestBrowser(t)
	m.Height = 2
	for range 3 {
		m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyDown})
	}
	if m.Cursor != 3 || m.Offset != 2 {
		t.Errorf("Cursor/Offset = %d/%d, want 3/2", m.Cursor, m.Offset)
	}
}

func TestBrowseShowTree(t *testing.T) {
	m := newTestBrowser(t)

	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("enter should start a render")
	}
	if m.Pending != "Q1" {
		t.Errorf("Pending = %q, want Q1", m.Pending)
	}

	msg := cmd()
	next, _ := m.Update(msg)
	m = next.(BrowseModel)

	if m.Pending != "" {
		t.Errorf("Pending = %q after render, want empty", m.Pending)
	}
	for _, want := range []string{"John Smith", "Robert Smith", "Mary Jones"} {
		if !strings.Contains(m.Preview, want) {
			t.Errorf("Preview missing %q:\n%s", want, m.Preview)
		}
	}
	if !strings.Contains(m.Status, "3 people") {
		t.Errorf("Status = %q", m.Status)
	}
	if !strings.Contains(m.View(), "Robert Smith") {
		t.Error("View() should include the preview")
	}
}

func TestBrowseDropsSupersededRender(t *testing.T) {
	m := newTestBrowser(t)

	m, first := press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyDown})
	m, second := press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.Pending != "Q2" {
		t.Fatalf("Pending = %q, want Q2", m.Pending)
	}

	// The first render belongs to Q1 and must not replace the Q2 selection.
	next, _ := m.Update(first())
	m = next.(BrowseModel)
	if m.Preview != "" || m.Pending != "Q2" {
		t.Errorf("stale render applied: Preview=%q Pending=%q", m.Preview, m.Pending)
	}

	next, _ = m.Update(second())
	m = next.(BrowseModel)
	if !strings.Contains(m.Preview, "Jane Smith") {
		t.Errorf("Preview = %q, want Jane Smith's tree", m.Preview)
	}
}

func TestBrowseDirectionKeys(t *testing.T) {
	m := newTestBrowser(t)

	m, cmd := press(t, m, keyRunes("d"))
	if cmd != nil {
		t.Error("direction change without a selection should not render")
	}
	if m.base.Direction != "descendants" {
		t.Errorf("Direction = %q, want descendants", m.base.Direction)
	}

	m, cmd = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	next, _ := m.Update(cmd())
	m = next.(BrowseModel)
	if !strings.Contains(m.Preview, "Tom Smith") {
		t.Errorf("descendant preview should list Tom Smith:\n%s", m.Preview)
	}

	m, cmd = press(t, m, keyRunes("m"))
	if !m.base.FatherOnly || cmd == nil {
		t.Errorf("m should toggle mother links and re-render, FatherOnly=%v", m.base.FatherOnly)
	}
}

func TestBrowseFilter(t *testing.T) {
	m := newTestBrowser(t)

	m, _ = press(t, m, keyRunes("/"))
	if !m.Filtering {
		t.Fatal("/ should start filtering")
	}
	m, _ = press(t, m, keyRunes("tom"))
	if len(m.People) != 1 || m.People[0].ID != "Q5" {
		t.Errorf("filtered People = %v, want [Q5]", m.People)
	}

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyBackspace})
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyBackspace})
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyBackspace})
	if m.Filter != "" || len(m.People) != 5 {
		t.Errorf("Filter = %q, People = %d after clearing", m.Filter, len(m.People))
	}

	m, _ = press(t, m, keyRunes("jones"))
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.Filtering {
		t.Error("enter should end filtering")
	}
	if len(m.People) != 1 || m.Cursor != 0 {
		t.Errorf("People = %d, Cursor = %d", len(m.People), m.Cursor)
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("Short", 10); got != "Short" {
		t.Errorf("truncate() = %q", got)
	}
	if got := truncate("Maximilian Alexander", 10); got != "Maximilia…" {
		t.Errorf("truncate() = %q", got)
	}
}
