package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/deedlog/internal/constants"
	"github.com/julianstephens/deedlog/internal/streak"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string
	switch m.state {
	case StateHome:
		content = m.viewHome()
	case StateCalendar:
		content = m.viewCalendar()
	case StateCheckIn:
		content = docStyle.Render(m.form.View())
	}

	parts := []string{m.viewTabs(), content}
	if m.errMsg != "" {
		parts = append(parts, errorStyle.Render(m.errMsg))
	} else if m.statusMsg != "" {
		parts = append(parts, onStreakStyle.Render(m.statusMsg))
	}
	if m.validationWarning != "" {
		parts = append(parts, warningStyle.Render(m.validationWarning))
	}
	parts = append(parts, m.help.View(m))

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m Model) viewTabs() string {
	active := m.state
	if active == StateCheckIn {
		active = m.previousState
	}

	var tabs []string
	for i, title := range tabTitles {
		if active == SessionState(i) {
			tabs = append(tabs, activeTabStyle.Render(title))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(title))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) viewHome() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(constants.AppName))
	b.WriteString("\n\n")

	message := streak.Message(m.snapshot)
	if m.snapshot.IsDownBad {
		b.WriteString(downBadStyle.Render(message))
	} else {
		b.WriteString(onStreakStyle.Render(message))
	}
	b.WriteString("\n")

	if m.snapshot.Streak > 0 {
		b.WriteString("\n")
		b.WriteString(streakStyle.Render(streak.StreakLabel(m.snapshot.Streak)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.recent.View())
	return docStyle.Render(b.String())
}

func (m Model) viewCalendar() string {
	return docStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		m.calendar.View(),
		"",
		m.day.View(),
	))
}
