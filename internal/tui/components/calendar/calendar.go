// Package calendar is a month grid that highlights completed days and lets
// the user move a selection across days and months.
package calendar

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/deedlog/internal/streak"
)

// SelectMsg is sent whenever the selected day changes.
type SelectMsg struct {
	Date time.Time
}

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205"))

	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	dayStyle = lipgloss.NewStyle().
			Width(3).
			Align(lipgloss.Right)

	completedStyle = dayStyle.
			Foreground(lipgloss.Color("42")).
			Bold(true)
)

type KeyMap struct {
	Left      key.Binding
	Right     key.Binding
	Up        key.Binding
	Down      key.Binding
	PrevMonth key.Binding
	NextMonth key.Binding
	Today     key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Left: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "prev day"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "next day"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "prev week"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "next week"),
		),
		PrevMonth: key.NewBinding(
			key.WithKeys("["),
			key.WithHelp("[", "prev month"),
		),
		NextMonth: key.NewBinding(
			key.WithKeys("]"),
			key.WithHelp("]", "next month"),
		),
		Today: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "today"),
		),
	}
}

type Model struct {
	keys      KeyMap
	today     time.Time
	selected  time.Time
	completed func(time.Time) bool
}

// New returns a calendar showing today's month with today selected.
func New(today time.Time, completed func(time.Time) bool) Model {
	today = midnight(today)
	return Model{
		keys:      DefaultKeyMap(),
		today:     today,
		selected:  today,
		completed: completed,
	}
}

func midnight(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func (m Model) Keys() KeyMap {
	return m.keys
}

func (m Model) Selected() time.Time {
	return m.selected
}

// SetCompleted replaces the highlight predicate, e.g. after a check-in.
func (m *Model) SetCompleted(completed func(time.Time) bool) {
	m.completed = completed
}

// Select moves the selection to d.
func (m *Model) Select(d time.Time) {
	m.selected = midnight(d)
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	prev := m.selected
	switch {
	case key.Matches(keyMsg, m.keys.Left):
		m.selected = streak.AddDays(m.selected, -1)
	case key.Matches(keyMsg, m.keys.Right):
		m.selected = streak.AddDays(m.selected, 1)
	case key.Matches(keyMsg, m.keys.Up):
		m.selected = streak.AddDays(m.selected, -7)
	case key.Matches(keyMsg, m.keys.Down):
		m.selected = streak.AddDays(m.selected, 7)
	case key.Matches(keyMsg, m.keys.PrevMonth):
		m.selected = addMonths(m.selected, -1)
	case key.Matches(keyMsg, m.keys.NextMonth):
		m.selected = addMonths(m.selected, 1)
	case key.Matches(keyMsg, m.keys.Today):
		m.selected = m.today
	}

	if m.selected.Equal(prev) {
		return m, nil
	}
	selected := m.selected
	return m, func() tea.Msg { return SelectMsg{Date: selected} }
}

// addMonths keeps the day of month, clamped to the target month's length.
func addMonths(d time.Time, n int) time.Time {
	first := time.Date(d.Year(), d.Month()+time.Month(n), 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1).Day()
	day := d.Day()
	if day > last {
		day = last
	}
	return time.Date(first.Year(), first.Month(), day, 0, 0, 0, 0, time.UTC)
}

func (m Model) View() string {
	first := time.Date(m.selected.Year(), m.selected.Month(), 1, 0, 0, 0, 0, time.UTC)
	daysInMonth := first.AddDate(0, 1, -1).Day()

	var b strings.Builder
	b.WriteString(titleStyle.Render(first.Format("January 2006")))
	b.WriteString("\n")

	var header []string
	for _, d := range []string{"Su", "Mo", "Tu", "We", "Th", "Fr", "Sa"} {
		header = append(header, dayStyle.Render(d))
	}
	b.WriteString(headerStyle.Render(strings.Join(header, " ")))
	b.WriteString("\n")

	cells := make([]string, 0, 7)
	for i := 0; i < int(first.Weekday()); i++ {
		cells = append(cells, dayStyle.Render(""))
	}

	done := 0
	for day := 1; day <= daysInMonth; day++ {
		date := first.AddDate(0, 0, day-1)
		isDone := m.completed != nil && m.completed(date)
		if isDone {
			done++
		}
		cells = append(cells, m.renderDay(date, isDone))
		if len(cells) == 7 {
			b.WriteString(strings.Join(cells, " ") + "\n")
			cells = cells[:0]
		}
	}
	if len(cells) > 0 {
		b.WriteString(strings.Join(cells, " ") + "\n")
	}

	b.WriteString(headerStyle.Render(fmt.Sprintf("%d of %d days", done, daysInMonth)))
	return b.String()
}

func (m Model) renderDay(date time.Time, done bool) string {
	label := fmt.Sprintf("%d", date.Day())
	style := dayStyle
	if done {
		style = completedStyle
	}
	if date.Equal(m.today) {
		style = style.Underline(true)
	}
	if date.Equal(m.selected) {
		style = style.Reverse(true)
	}
	return style.Render(label)
}
