// Package tui is the interactive list view over a todo store.
package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/idilsaglam/todos/internal/model"
	"github.com/idilsaglam/todos/internal/store/jsonstore"
	"github.com/idilsaglam/todos/internal/ui"
)

// listItem adapts model.Item to bubbles/list.Item
type listItem struct {
	model.Item
}

func (i listItem) Title() string       { return i.Text }
func (i listItem) Description() string { return "" }
func (i listItem) FilterValue() string { return i.Text }

type modelTUI struct {
	store *jsonstore.Store
	theme ui.Theme
	list  list.Model

	// Inline add / edit share one text input
	ti      textinput.Model
	adding  bool
	editing bool
	editID  int
	status  string // last store error, shown under the list

	width, height int
}

// Custom delegate to control how items render (single line)
type itemDelegate struct {
	theme ui.Theme
}

func (d itemDelegate) Height() int                               { return 1 }
func (d itemDelegate) Spacing() int                              { return 0 }
func (d itemDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }
func (d itemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(listItem)
	if !ok {
		return
	}
	th := d.theme

	box, text := th.Muted.Render(th.BoxUnchecked), th.Pending.Render(it.Text)
	if it.Completed {
		box, text = th.Success.Render(th.BoxChecked), th.Done.Render(it.Text)
	}
	line := fmt.Sprintf("%3d %s %s %s", it.ID, box, text, th.Muted.Render(fmt.Sprintf("p%d", it.Priority)))

	prefix := "  "
	if index == m.Index() {
		prefix = th.Selected.Render("> ")
	}
	fmt.Fprintln(w, prefix+line)
}

var (
	addBind      = key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add"))
	editBind     = key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit"))
	toggleBind   = key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "toggle"))
	deleteBind   = key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete"))
	raiseBind    = key.NewBinding(key.WithKeys("+"), key.WithHelp("+", "raise priority"))
	lowerBind    = key.NewBinding(key.WithKeys("-"), key.WithHelp("-", "lower priority"))
	shortHelp    = []key.Binding{addBind, editBind, toggleBind, deleteBind}
	extendedHelp = []key.Binding{addBind, editBind, toggleBind, deleteBind, raiseBind, lowerBind}
)

func newModel(s *jsonstore.Store, th ui.Theme) modelTUI {
	l := list.New(nil, itemDelegate{theme: th}, 0, 0)
	l.SetShowHelp(true)
	l.SetShowPagination(true)
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.Styles.Title = th.Title
	l.Styles.HelpStyle = th.Muted
	l.Styles.PaginationStyle = th.Muted
	l.FilterInput.Prompt = "/ "
	l.SetStatusBarItemName("item", "items")
	l.AdditionalShortHelpKeys = func() []key.Binding { return shortHelp }
	l.AdditionalFullHelpKeys = func() []key.Binding { return extendedHelp }

	m := modelTUI{
		store:  s,
		theme:  th,
		list:   l,
		width:  80,
		height: 24,
	}
	m.ti = textinput.New()
	m.ti.Prompt = "> "
	m.ti.CharLimit = 200
	m.resize()
	m.refresh()
	return m
}

// Run starts the interactive list and publishes the store on quit if anything changed.
// It reports whether the file was written.
func Run(s *jsonstore.Store, th ui.Theme) (bool, error) {
	p := tea.NewProgram(newModel(s, th), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return false, err
	}
	return publishIfDirty(s)
}

// publishIfDirty writes the store once if the session changed anything.
func publishIfDirty(s *jsonstore.Store) (bool, error) {
	if !s.Dirty() {
		return false, nil
	}
	if err := s.Publish(); err != nil {
		return false, err
	}
	return true, nil
}

// refresh rebuilds the list from the store in display order, keeping the cursor in range.
func (m *modelTUI) refresh() {
	items := m.store.Sorted()
	li := make([]list.Item, 0, len(items))
	for _, it := range items {
		li = append(li, listItem{Item: it})
	}
	idx := m.list.Index()
	m.list.SetItems(li)
	if idx >= len(li) {
		idx = len(li) - 1
	}
	if idx >= 0 {
		m.list.Select(idx)
	}

	dn, pn := model.Stats(items)
	m.list.Title = fmt.Sprintf("%s   %s %d  %s %d  %s %d",
		m.theme.Title.Render("Todos"),
		m.theme.Success.Render(m.theme.SymDone), dn,
		m.theme.Pending.Render(m.theme.SymPending), pn,
		m.theme.Accent.Render("Total"), len(items),
	)
}

// selectID moves the cursor to the item with the given id, if it is listed.
func (m *modelTUI) selectID(id int) {
	for i, it := range m.list.Items() {
		if li, ok := it.(listItem); ok && li.ID == id {
			m.list.Select(i)
			return
		}
	}
}

func (m modelTUI) selected() (listItem, bool) {
	li, ok := m.list.SelectedItem().(listItem)
	return li, ok
}

// Update and View implement Bubble Tea's Model on modelTUI
func (m modelTUI) Init() tea.Cmd { return nil }

func (m modelTUI) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if ws, ok := msg.(tea.WindowSizeMsg); ok {
		m.width, m.height = ws.Width, ws.Height
		m.resize()
		return m, nil
	}

	if m.adding || m.editing {
		return m.updateInput(msg)
	}

	// keys go to the filter prompt while it is open
	if m.list.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		m.status = ""
		switch msg.String() {
		case "q", "esc":
			return m, tea.Quit
		case " ":
			if li, ok := m.selected(); ok {
				m.apply(m.store.Toggle(li.ID))
				m.selectID(li.ID)
			}
			return m, nil
		case "d":
			if li, ok := m.selected(); ok {
				m.apply(m.store.Delete(li.ID))
			}
			return m, nil
		case "+", "-":
			if li, ok := m.selected(); ok {
				p := li.Priority + 1
				if msg.String() == "+" {
					p = li.Priority - 1
				}
				if p >= 1 {
					m.apply(m.store.SetPriority(li.ID, p))
					m.selectID(li.ID)
				}
			}
			return m, nil
		case "a":
			m.adding = true
			m.ti.SetValue("")
			m.ti.Placeholder = "New item text..."
			m.resize()
			cmd := m.ti.Focus()
			return m, cmd
		case "e":
			if li, ok := m.selected(); ok {
				m.editing = true
				m.editID = li.ID
				m.ti.SetValue(li.Text)
				m.ti.CursorEnd()
				m.ti.Placeholder = "Edit item text..."
				m.resize()
				cmd := m.ti.Focus()
				return m, cmd
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m modelTUI) updateInput(msg tea.Msg) (tea.Model, tea.Cmd) {
	if x, ok := msg.(tea.KeyMsg); ok {
		switch x.String() {
		case "enter":
			// empty text is a valid item, as on the command line
			text := strings.TrimSpace(m.ti.Value())
			if m.adding {
				it, err := m.store.Add(text, 0)
				m.apply(err)
				if err == nil {
					m.selectID(it.ID)
				}
			} else {
				m.apply(m.store.UpdateText(m.editID, text))
				m.selectID(m.editID)
			}
			m.closeInput()
			return m, nil
		case "esc":
			m.closeInput()
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.ti, cmd = m.ti.Update(msg)
	return m, cmd
}

// apply records a store error for display and re-reads the store.
func (m *modelTUI) apply(err error) {
	if err != nil {
		m.status = err.Error()
	}
	m.refresh()
}

func (m *modelTUI) closeInput() {
	m.adding, m.editing = false, false
	m.ti.SetValue("")
	m.ti.Blur()
	m.resize()
}

func (m *modelTUI) resize() {
	h := m.height - 4
	if m.adding || m.editing {
		h = m.height - 7
	}
	if h < 1 {
		h = 1
	}
	m.list.SetSize(m.width-4, h)
}

func (m modelTUI) View() string {
	content := m.list.View()
	if m.adding || m.editing {
		title := "Add new item"
		if m.editing {
			title = fmt.Sprintf("Edit item %d", m.editID)
		}
		if m.status != "" {
			title += " " + m.theme.Error.Render(m.status)
		}
		content += "\n" + boxStyle().Render(title+"\n"+m.ti.View())
	} else if m.status != "" {
		content += "\n" + m.theme.Error.Render(m.status)
	}
	return boxStyle().Render(content)
}

func boxStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("8")).
		Padding(0, 1)
}
