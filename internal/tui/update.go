package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/deedlog/internal/tui/components/calendar"
)

const tabCount = 2

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.recent.SetSize(msg.Width-4, max(msg.Height-12, 6))
		m.day.SetSize(msg.Width-4, 4)
		return m, nil

	case calendar.SelectMsg:
		m.day.SetDay(m.snapshot, msg.Date)
		return m, nil
	}

	if m.state == StateCheckIn {
		return m.updateCheckIn(msg)
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		case key.Matches(msg, m.keys.Tab):
			m.state = (m.state + 1) % tabCount
			return m, nil
		case key.Matches(msg, m.keys.ShiftTab):
			m.state = (m.state - 1 + tabCount) % tabCount
			return m, nil
		case key.Matches(msg, m.keys.CheckIn):
			return m, m.startCheckIn()
		}
	}

	var cmd tea.Cmd
	switch m.state {
	case StateHome:
		m.recent, cmd = m.recent.Update(msg)
	case StateCalendar:
		var dayCmd tea.Cmd
		m.calendar, cmd = m.calendar.Update(msg)
		m.day, dayCmd = m.day.Update(msg)
		cmd = tea.Batch(cmd, dayCmd)
	}
	return m, cmd
}

func (m Model) updateCheckIn(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.Type {
		case tea.KeyEsc:
			m.state = m.previousState
			return m, nil
		case tea.KeyCtrlC:
			m.quitting = true
			return m, tea.Quit
		}
	}

	var cmds []tea.Cmd
	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}
	cmds = append(cmds, cmd)

	switch m.form.State {
	case huh.StateCompleted:
		m.submitCheckIn()
	case huh.StateAborted:
		m.state = m.previousState
	}
	return m, tea.Batch(cmds...)
}
