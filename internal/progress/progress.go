// Package progress renders a passive, read-only view of a build's
// task graph while it runs, for the CLI's --interactive flag. It has
// no retry or pause controls: a build either finishes or fails, and
// this package only ever reports which of those happened.
package progress

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/murkdown/murkdown/internal/graph"
	"github.com/murkdown/murkdown/internal/theme"
)

// Status is a task row's current state in the progress view.
type Status int

// Recognized task statuses.
const (
	StatusPending Status = iota
	StatusRunning
	StatusDone
	StatusFailed
)

// Row is one line of the progress view: a single graph task.
type Row struct {
	ID     string
	Status Status
	Err    error
}

// TaskStartMsg is sent when a task begins executing.
type TaskStartMsg struct{ TaskID string }

// TaskDoneMsg is sent when a task finishes successfully.
type TaskDoneMsg struct{ TaskID string }

// TaskFailMsg is sent when a task returns an error.
type TaskFailMsg struct {
	TaskID string
	Err    error
}

// Model is the Bubble Tea model for the build progress view.
type Model struct {
	rows    []*Row
	index   map[string]int
	theme   *theme.Theme
	spinner spinner.Model
	done    bool
	err     error
}

// New returns a Model with one pending row per task ID, in the order
// given; it does not sort the rows.
func New(taskIDs []string, th *theme.Theme) *Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(th.Warning)

	m := &Model{
		rows:    make([]*Row, 0, len(taskIDs)),
		index:   make(map[string]int, len(taskIDs)),
		theme:   th,
		spinner: sp,
	}

	for i, id := range taskIDs {
		m.rows = append(m.rows, &Row{ID: id, Status: StatusPending})
		m.index[id] = i
	}

	return m
}

// Init satisfies tea.Model, starting the spinner driving any
// StatusRunning row's animation.
func (m *Model) Init() tea.Cmd { return m.spinner.Tick }

// Update satisfies tea.Model, applying task lifecycle messages and
// quitting on 'q'/ctrl+c or once every task has resolved.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		}

	case TaskStartMsg:
		m.setStatus(msg.TaskID, StatusRunning, nil)

	case TaskDoneMsg:
		m.setStatus(msg.TaskID, StatusDone, nil)
		if m.allResolved() {
			m.done = true

			return m, tea.Quit
		}

	case TaskFailMsg:
		m.setStatus(msg.TaskID, StatusFailed, msg.Err)
		m.err = msg.Err
		m.done = true

		return m, tea.Quit

	case spinner.TickMsg:
		if m.done {
			return m, nil
		}

		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)

		return m, cmd
	}

	return m, nil
}

func (m *Model) setStatus(taskID string, status Status, err error) {
	i, ok := m.index[taskID]
	if !ok {
		return
	}

	m.rows[i].Status = status
	m.rows[i].Err = err
}

func (m *Model) allResolved() bool {
	for _, r := range m.rows {
		if r.Status != StatusDone {
			return false
		}
	}

	return true
}

// View satisfies tea.Model.
func (m *Model) View() string {
	var b strings.Builder

	header := lipgloss.NewStyle().Bold(true).Foreground(m.theme.Primary).Render("murkdown build")
	b.WriteString(header)
	b.WriteString("\n\n")

	for _, r := range m.rows {
		b.WriteString(m.renderRow(r))
		b.WriteString("\n")
	}

	if m.done && m.err == nil {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Foreground(m.theme.Success).Render("build complete"))
		b.WriteString("\n")
	}

	return b.String()
}

func (m *Model) renderRow(r *Row) string {
	icon := m.iconFor(r.Status)
	line := fmt.Sprintf("%s %s", icon, r.ID)

	if r.Status == StatusFailed && r.Err != nil {
		line += lipgloss.NewStyle().Foreground(m.theme.Error).Render(fmt.Sprintf(" (%s)", r.Err))
	}

	return line
}

// iconFor renders a row's leading glyph. StatusRunning defers to the
// animated spinner rather than a static glyph; every other status is
// a fixed, pre-styled character.
func (m *Model) iconFor(s Status) string {
	switch s {
	case StatusDone:
		return lipgloss.NewStyle().Foreground(m.theme.Success).Render("✓")
	case StatusRunning:
		return m.spinner.View()
	case StatusFailed:
		return lipgloss.NewStyle().Foreground(m.theme.Error).Render("✗")
	default:
		return lipgloss.NewStyle().Foreground(m.theme.Muted).Render("○")
	}
}
