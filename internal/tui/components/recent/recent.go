package recent

import (
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/deedlog/internal/models"
)

type Item struct {
	Entry models.DeedEntry
}

func (i Item) Title() string       { return i.Entry.Emoji.String() + " " + i.Entry.Deed }
func (i Item) Description() string { return i.Entry.Date }
func (i Item) FilterValue() string { return i.Entry.Deed }

// Model lists the newest entries, most recent first.
type Model struct {
	list list.Model
}

func New(entries []models.DeedEntry, width, height int) Model {
	l := list.New(toItems(entries), list.NewDefaultDelegate(), width, height)
	l.Title = "Recent W's"
	l.SetShowHelp(false) // We handle help globally in the main model
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowPagination(false)

	return Model{list: l}
}

func toItems(entries []models.DeedEntry) []list.Item {
	items := make([]list.Item, len(entries))
	for i, e := range entries {
		items[i] = Item{Entry: e}
	}
	return items
}

func (m *Model) SetEntries(entries []models.DeedEntry) {
	m.list.SetItems(toItems(entries))
}

func (m Model) Len() int {
	return len(m.list.Items())
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if len(m.list.Items()) == 0 {
		return "\n  No deeds yet.\n  Press 'a' to record your first W."
	}
	return m.list.View()
}

func (m *Model) SetSize(width, height int) {
	m.list.SetSize(width, height)
}
