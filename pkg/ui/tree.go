// tree.go - Terminal host for the virtualized tree list
package ui

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	json "github.com/goccy/go-json"

	"github.com/vanderheijden86/treelist/pkg/debug"
	"github.com/vanderheijden86/treelist/pkg/treelist"
)

// TreeState is the persisted selection, restored on the next start.
//
// File format (JSON):
//
//	{
//	  "version": 1,
//	  "parent": 2,
//	  "child": 0
//	}
//
// A corrupted or missing file means the default selection (0, 0).
type TreeState struct {
	Version int `json:"version"`
	Parent  int `json:"parent"`
	Child   int `json:"child"`
}

// TreeStateVersion is the current schema version for tree persistence
const TreeStateVersion = 1

// loadState reads a persisted selection. ok is false when there is nothing
// usable on disk.
func loadState(path string) (sel treelist.Selection, ok bool) {
	if path == "" {
		return sel, false
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return sel, false
	}
	var state TreeState
	if err := json.Unmarshal(data, &state); err != nil || state.Version != TreeStateVersion {
		debug.Log("warning: invalid tree state file %s, using defaults: %v", path, err)
		return sel, false
	}
	return treelist.Selection{Parent: state.Parent, Child: state.Child}, true
}

// saveState persists sel. Errors are logged and otherwise ignored.
func saveState(path string, sel treelist.Selection) {
	if path == "" {
		return
	}
	data, err := json.MarshalIndent(TreeState{Version: TreeStateVersion, Parent: sel.Parent, Child: sel.Child}, "", "  ")
	if err != nil {
		debug.Log("warning: failed to marshal tree state: %v", err)
		return
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		debug.Log("warning: failed to create state directory: %v", err)
		return
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		debug.Log("warning: failed to write tree state to %s: %v", path, err)
	}
}

// DataMsg delivers freshly loaded data, e.g. from the file watcher or a
// reload request.
type DataMsg struct {
	Data   []treelist.ParentNode
	Source string
	Err    error
}

type copiedMsg struct {
	text string
	err  error
}

// Options configures a TreeModel.
type Options struct {
	List       treelist.Options
	ParentSize treelist.Size
	ChildSize  treelist.Size
	Title      string
	Mouse      bool
	StatePath  string         // empty disables persistence
	Reload     func() tea.Msg // run on the reload key; usually returns a DataMsg
}

// statusLine is shared by the model copies bubbletea passes around and by
// the list's selection callbacks.
type statusLine struct {
	text  string
	isErr bool
}

func (s *statusLine) set(format string, args ...any) {
	s.text, s.isErr = fmt.Sprintf(format, args...), false
}

func (s *statusLine) fail(err error) {
	s.text, s.isErr = err.Error(), true
}

const (
	headerHeight = 1
	footerHeight = 1
)

// TreeModel hosts a treelist.TreeList in a bubbletea program. The list
// initializes on the first WindowSizeMsg, once the window size is known.
type TreeModel struct {
	list   *treelist.TreeList
	scroll *ScrollView
	theme  Theme
	keys   KeyMap
	help   help.Model
	opts   Options
	status *statusLine

	pending []treelist.ParentNode // data received before the list is ready
	initial treelist.Selection
	pointer int // index into list.Slots()

	width    int
	height   int
	ready    bool
	showHelp bool
}

// NewTreeModel creates a host for data. The persisted selection, if any,
// replaces the default (0, 0).
func NewTreeModel(data []treelist.ParentNode, opts Options, theme Theme) TreeModel {
	if opts.Title == "" {
		opts.Title = "Tree List"
	}
	scroll := NewScrollView(0, 0)
	list := treelist.New(scroll,
		ParentPrototype(scroll, theme, opts.ParentSize),
		ChildPrototype(scroll, theme, opts.ChildSize),
		opts.List)

	status := &statusLine{}
	statePath := opts.StatePath
	list.OnParentSelected = func(n *treelist.ParentNode, i int, _ *treelist.Handle[treelist.ParentCell]) {
		status.set("expanded %s (%d children)", n.DisplayName(), len(n.Children))
		saveState(statePath, list.Selection())
	}
	list.OnChildSelected = func(v any, i int, _ *treelist.Handle[treelist.ChildCell]) {
		status.set("selected %v", v)
		saveState(statePath, list.Selection())
	}

	m := TreeModel{
		list:    list,
		scroll:  scroll,
		theme:   theme,
		keys:    DefaultKeyMap(opts.List.Axis),
		help:    newHelp(theme),
		opts:    opts,
		status:  status,
		pending: data,
	}
	if sel, ok := loadState(opts.StatePath); ok {
		m.initial = sel
	}
	return m
}

func (m TreeModel) Init() tea.Cmd {
	return nil
}

func (m TreeModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.scroll.SetViewport(m.bodySize())
		if !m.ready {
			m.ready = true
			if m.initial.Parent < 0 || m.initial.Parent >= len(m.pending) {
				m.initial = treelist.Selection{}
			}
			if err := m.list.ShowTreeList(m.pending, m.initial); err != nil {
				m.status.fail(err)
			}
			m.pending = nil
			m.restorePointer(treelist.Key{Kind: treelist.SlotParent, ParentIndex: m.initial.Parent, ChildIndex: -1})
		} else {
			m.list.Resize()
		}

	case DataMsg:
		if msg.Err != nil {
			m.status.fail(fmt.Errorf("reloading %s: %w", msg.Source, msg.Err))
			return m, nil
		}
		data := msg.Data
		if data == nil {
			data = []treelist.ParentNode{}
		}
		if !m.ready {
			m.pending = data
			return m, nil
		}
		k, _ := m.pointerKey()
		if err := m.list.ForceRefresh(data); err != nil {
			m.status.fail(err)
			return m, nil
		}
		m.restorePointer(k)
		m.status.set("reloaded %s (%d parents)", msg.Source, len(data))

	case copiedMsg:
		if msg.err != nil {
			m.status.fail(fmt.Errorf("copy: %w", msg.err))
		} else {
			m.status.set("copied %q", msg.text)
		}

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		if m.opts.Mouse && !m.showHelp {
			m.handleMouse(msg)
		}
	}

	m.syncFocus()
	return m, nil
}

func (m TreeModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		return m, tea.Quit
	}
	if !m.ready {
		return m, nil
	}
	if m.showHelp {
		if key.Matches(msg, m.keys.Close) {
			m.showHelp = false
		}
		return m, nil
	}

	var cmd tea.Cmd
	switch {
	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
	case key.Matches(msg, m.keys.Prev):
		m.setPointer(m.pointer - 1)
	case key.Matches(msg, m.keys.Next):
		m.setPointer(m.pointer + 1)
	case key.Matches(msg, m.keys.PageUp):
		m.page(-1)
	case key.Matches(msg, m.keys.PageDown):
		m.page(1)
	case key.Matches(msg, m.keys.Home):
		m.setPointer(0)
	case key.Matches(msg, m.keys.End):
		m.setPointer(len(m.list.Slots()) - 1)
	case key.Matches(msg, m.keys.Click):
		m.clickPointer()
	case key.Matches(msg, m.keys.Copy):
		cmd = m.copySelected()
	case key.Matches(msg, m.keys.Reload):
		if m.opts.Reload != nil {
			cmd = m.opts.Reload
		}
	}

	m.syncFocus()
	return m, cmd
}

func (m *TreeModel) handleMouse(msg tea.MouseMsg) {
	if !m.ready {
		return
	}
	switch msg.Button {
	case tea.MouseButtonWheelUp, tea.MouseButtonWheelLeft:
		m.scroll.ScrollBy(-3)
	case tea.MouseButtonWheelDown, tea.MouseButtonWheelRight:
		m.scroll.ScrollBy(3)
	case tea.MouseButtonLeft:
		if msg.Action != tea.MouseActionPress {
			return
		}
		c := m.scroll.hitTest(msg.X, msg.Y-headerHeight)
		if c == nil {
			return
		}
		slots := m.list.Slots()
		i := sort.Search(len(slots), func(i int) bool { return slots[i].Offset >= c.offset })
		if i == len(slots) {
			return
		}
		m.pointer = i
		k := slots[i].Key()
		c.Click()
		m.restorePointer(k)
	}
}

// bodySize is the window left for the list between header and footer.
func (m TreeModel) bodySize() treelist.Size {
	return treelist.Size{Width: m.width, Height: max(0, m.height-headerHeight-footerHeight)}
}

func (m TreeModel) pointerKey() (treelist.Key, bool) {
	slots := m.list.Slots()
	if m.pointer < 0 || m.pointer >= len(slots) {
		return treelist.Key{}, false
	}
	return slots[m.pointer].Key(), true
}

// restorePointer moves the pointer to the slot with key k, or clamps it to
// the new layout when k is gone.
func (m *TreeModel) restorePointer(k treelist.Key) {
	slots := m.list.Slots()
	for i, s := range slots {
		if s.Key() == k {
			m.pointer = i
			return
		}
	}
	m.pointer = max(0, min(m.pointer, len(slots)-1))
}

// setPointer moves the pointer to slot i and scrolls it into view.
func (m *TreeModel) setPointer(i int) {
	slots := m.list.Slots()
	if len(slots) == 0 {
		m.pointer = 0
		return
	}
	m.pointer = max(0, min(i, len(slots)-1))
	m.ensureVisible(slots[m.pointer])
}

func (m *TreeModel) ensureVisible(s treelist.Slot) {
	axis := m.opts.List.Axis
	origin, window := m.scroll.ScrollOffset(), m.scroll.Window()
	end := s.Offset + s.Size.Extent(axis)
	switch {
	case s.Offset < origin:
		m.scroll.SetScrollOffset(s.Offset)
	case end > origin+window:
		m.scroll.SetScrollOffset(end - window)
	}
}

// page scrolls one window in dir and puts the pointer on the first slot
// that starts inside the new window.
func (m *TreeModel) page(dir int) {
	m.scroll.ScrollBy(dir * max(1, m.scroll.Window()))
	slots := m.list.Slots()
	origin := m.scroll.ScrollOffset()
	i := sort.Search(len(slots), func(i int) bool { return slots[i].Offset >= origin })
	if i == len(slots) {
		i = len(slots) - 1
	}
	m.pointer = max(0, i)
}

// clickPointer clicks the cell under the pointer, scrolling it into view
// first.
func (m *TreeModel) clickPointer() {
	slots := m.list.Slots()
	if m.pointer < 0 || m.pointer >= len(slots) {
		return
	}
	s := slots[m.pointer]
	m.ensureVisible(s)
	c := m.scroll.cellAt(s.Offset)
	if c == nil {
		return
	}
	c.Click()
	m.restorePointer(s.Key())
}

func (m *TreeModel) syncFocus() {
	slots := m.list.Slots()
	if m.pointer < 0 || m.pointer >= len(slots) {
		m.scroll.SetFocus(-1)
		return
	}
	m.scroll.SetFocus(slots[m.pointer].Offset)
}

// copySelected copies the selected child's text to the system clipboard.
func (m *TreeModel) copySelected() tea.Cmd {
	sel, data := m.list.Selection(), m.list.Data()
	if sel.Parent < 0 || sel.Parent >= len(data) || sel.Child < 0 || sel.Child >= len(data[sel.Parent].Children) {
		m.status.set("nothing selected")
		return nil
	}
	text := fmt.Sprint(data[sel.Parent].Children[sel.Child])
	return func() tea.Msg {
		return copiedMsg{text: text, err: clipboard.WriteAll(text)}
	}
}

func (m TreeModel) View() string {
	if !m.ready {
		return "Initializing..."
	}
	header := m.theme.Header.Width(m.width).MaxWidth(m.width).Render(m.opts.Title)

	var body string
	if m.showHelp {
		size := m.bodySize()
		body = renderHelp(m.help, m.keys, m.theme, size.Width, size.Height)
	} else if len(m.list.Data()) == 0 {
		body = m.renderEmptyState()
	} else {
		body = m.scroll.View()
	}
	return lipgloss.JoinVertical(lipgloss.Left, header, body, m.renderFooter())
}

// renderEmptyState renders the body when there is no data.
func (m TreeModel) renderEmptyState() string {
	size := m.bodySize()
	muted := m.theme.Renderer.NewStyle().Foreground(m.theme.Muted)
	msg := muted.Render("No items to display.")
	if m.opts.Reload != nil {
		msg += "\n" + muted.Render("Press r to reload.")
	}
	return lipgloss.Place(size.Width, size.Height, lipgloss.Center, lipgloss.Center, msg)
}

func (m TreeModel) renderFooter() string {
	var left string
	switch {
	case m.status.text != "" && m.status.isErr:
		left = m.theme.StatusErr.Render(m.status.text)
	case m.status.text != "":
		left = m.theme.Status.Render(m.status.text)
	default:
		left = m.help.ShortHelpView(m.keys.ShortHelp())
	}

	ps, cs := m.list.Stats()
	right := m.theme.Status.Render(fmt.Sprintf(" %d/%d  cells %d+%d ",
		min(m.pointer+1, len(m.list.Slots())), len(m.list.Slots()), ps.Allocated, cs.Allocated))

	room := m.width - lipgloss.Width(right)
	if room < 0 {
		return fit(right, m.width)
	}
	return fit(left, room) + right
}

// List returns the hosted list.
func (m TreeModel) List() *treelist.TreeList { return m.list }

// Scroll returns the scroll container the list lives in.
func (m TreeModel) Scroll() *ScrollView { return m.scroll }

// Pointer returns the index of the slot under the keyboard pointer.
func (m TreeModel) Pointer() int { return m.pointer }

// HelpVisible reports whether the help overlay is open.
func (m TreeModel) HelpVisible() bool { return m.showHelp }

// Status returns the status line text and whether it reports an error.
func (m TreeModel) Status() (string, bool) { return m.status.text, m.status.isErr }
