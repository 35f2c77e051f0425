package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/deedlog/internal/constants"
	"github.com/julianstephens/deedlog/internal/journal"
	"github.com/julianstephens/deedlog/internal/models"
	"github.com/julianstephens/deedlog/internal/streak"
	"github.com/julianstephens/deedlog/internal/tui/components/calendar"
	"github.com/julianstephens/deedlog/internal/tui/components/day"
	"github.com/julianstephens/deedlog/internal/tui/components/recent"
	"github.com/julianstephens/deedlog/internal/validation"
)

type SessionState int

const (
	StateHome SessionState = iota
	StateCalendar
	StateCheckIn
)

var tabTitles = []string{"Home", "Calendar"}

type Model struct {
	journal             *journal.Journal
	state               SessionState
	previousState       SessionState
	keys                KeyMap
	help                help.Model
	recent              recent.Model
	calendar            calendar.Model
	day                 day.Model
	form                *huh.Form
	checkInForm         *CheckInFormModel
	snapshot            models.JournalState
	quitting            bool
	width               int
	height              int
	statusMsg           string
	errMsg              string
	validationWarning   string                // Validation warning message to display
	validationConflicts []validation.Conflict // Detailed conflict information
}

func NewModel(j *journal.Journal) Model {
	state := j.State()
	m := Model{
		journal:  j,
		state:    StateHome,
		keys:     DefaultKeyMap(),
		help:     help.New(),
		recent:   recent.New(nil, 0, 0),
		calendar: calendar.New(j.Now(), nil),
		day:      day.New(0, 0),
	}
	m.refresh(state)
	return m
}

// refresh pushes a new journal snapshot into every component.
func (m *Model) refresh(state models.JournalState) {
	m.snapshot = state
	m.recent.SetEntries(streak.RecentEntries(state, constants.RecentLimit))
	m.calendar.SetCompleted(streak.CompletedPredicate(state))
	m.day.SetDay(state, m.calendar.Selected())
	m.updateValidationStatus()
}

func (m Model) ShortHelp() []key.Binding {
	keys := []key.Binding{m.keys.Tab, m.keys.CheckIn, m.keys.Quit, m.keys.Help}
	if m.state == StateCalendar {
		ck := m.calendar.Keys()
		keys = append(keys, ck.PrevMonth, ck.NextMonth)
	}
	return keys
}

func (m Model) FullHelp() [][]key.Binding {
	groups := m.keys.FullHelp()
	if m.state == StateCalendar {
		ck := m.calendar.Keys()
		groups = append(groups, []key.Binding{ck.Left, ck.Right, ck.Up, ck.Down, ck.PrevMonth, ck.NextMonth, ck.Today})
	}
	return groups
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m *Model) startCheckIn() tea.Cmd {
	m.checkInForm = &CheckInFormModel{}
	m.form = NewCheckInForm(m.checkInForm)
	m.previousState = m.state
	m.state = StateCheckIn
	m.statusMsg = ""
	m.errMsg = ""
	return m.form.Init()
}

// submitCheckIn records the completed form. A failed write leaves the
// journal as it was and reports the error on the home screen.
func (m *Model) submitCheckIn() {
	state, err := m.journal.CheckIn(m.checkInForm.Deed, m.checkInForm.Emoji)
	m.state = m.previousState
	if err != nil {
		m.errMsg = fmt.Sprintf("Check-in not saved: %v", err)
		return
	}

	m.statusMsg = fmt.Sprintf("✓ Recorded %s %s", m.checkInForm.Emoji, m.checkInForm.Deed)
	m.calendar.Select(m.journal.Now())
	m.refresh(state)
}

// updateValidationStatus runs validation and updates the warning message
func (m *Model) updateValidationStatus() {
	result := validation.New().ValidateState(m.snapshot)
	m.validationConflicts = result.Conflicts
	if result.HasConflicts() {
		m.validationWarning = fmt.Sprintf("⚠ %d journal warning(s), run 'deedlog doctor' for details", len(result.Conflicts))
	} else {
		m.validationWarning = ""
	}
}
