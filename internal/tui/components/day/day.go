package day

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/deedlog/internal/models"
	"github.com/julianstephens/deedlog/internal/streak"
)

var (
	dateStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	deedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Bold(true)

	emptyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)
)

// Model shows the deed recorded on one day.
type Model struct {
	viewport viewport.Model
	date     time.Time
	entry    *models.DeedEntry
	width    int
	height   int
}

// New builds the day pane. It scrolls with page up/down only; the arrow
// keys belong to the calendar.
func New(width, height int) Model {
	vp := viewport.New(width, height)
	vp.KeyMap = viewport.KeyMap{
		PageDown: key.NewBinding(key.WithKeys("pgdown"), key.WithHelp("pgdn", "scroll down")),
		PageUp:   key.NewBinding(key.WithKeys("pgup"), key.WithHelp("pgup", "scroll up")),
	}
	return Model{viewport: vp}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	return m.viewport.View()
}

func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height
	m.Render()
}

// SetDay shows the first entry of state recorded on date.
func (m *Model) SetDay(state models.JournalState, date time.Time) {
	m.date = date
	m.entry = nil
	if e, ok := streak.EntryFor(state, date); ok {
		m.entry = &e
	}
	m.Render()
	m.viewport.GotoTop()
}

func (m *Model) Render() {
	header := dateStyle.Render(m.date.UTC().Format("Monday, January 2, 2006"))
	if m.entry == nil {
		m.viewport.SetContent(header + "\n" + emptyStyle.Render("No deed recorded."))
		return
	}

	body := fmt.Sprintf("%s %s", m.entry.Emoji, m.entry.Deed)
	if m.width > 0 {
		body = deedStyle.Width(m.width).Render(body)
	} else {
		body = deedStyle.Render(body)
	}
	m.viewport.SetContent(header + "\n" + body)
}
