package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/taskport/internal/migrate"
)

// maxVisibleLines bounds the scrollback kept on screen.
const maxVisibleLines = 20

// progressMsg wraps one engine update pulled off the channel.
type progressMsg migrate.ProgressUpdate

// runDoneMsg signals that the progress channel closed.
type runDoneMsg struct{}

// Model is the watcher state: a live tail of record outcomes fed by the
// engine's progress channel.
type Model struct {
	updates  <-chan migrate.ProgressUpdate
	spinner  spinner.Model
	keys     keyMap
	lines    []string
	current  string
	migrated int
	skipped  int
	failed   int
	total    int
	done     bool
}

// NewModel creates a watcher model reading from the given progress channel.
func NewModel(updates <-chan migrate.ProgressUpdate) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.title

	return Model{
		updates: updates,
		spinner: sp,
		keys:    newKeyMap(),
	}
}

// waitForUpdate pulls the next engine update; a closed channel ends the run.
func (m Model) waitForUpdate() tea.Cmd {
	return func() tea.Msg {
		update, ok := <-m.updates
		if !ok {
			return runDoneMsg{}
		}
		return progressMsg(update)
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.waitForUpdate())
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if key.Matches(msg, m.keys.quit) {
			return m, tea.Quit
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case progressMsg:
		m.apply(migrate.ProgressUpdate(msg))
		return m, m.waitForUpdate()

	case runDoneMsg:
		m.done = true
		m.current = ""
		return m, nil
	}

	return m, nil
}

// apply folds one engine update into the view state. Terminal phases add a
// scrollback line; intermediate phases only move the spinner caption.
func (m *Model) apply(u migrate.ProgressUpdate) {
	m.total = u.Total

	switch u.Phase {
	case migrate.Checkpointed:
		m.migrated++
		m.push(styles.ok.Render(u.Message))
		m.current = ""
	case migrate.Skipped:
		m.skipped++
		m.push(styles.warn.Render(u.Message))
		m.current = ""
	case migrate.Failed:
		m.failed++
		m.push(styles.err.Render(u.Message))
		m.current = ""
	default:
		m.current = u.Message
	}
}

func (m *Model) push(line string) {
	m.lines = append(m.lines, line)
	if len(m.lines) > maxVisibleLines {
		m.lines = m.lines[len(m.lines)-maxVisibleLines:]
	}
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(styles.title.Render("Migrating tasks"))
	b.WriteString("\n")

	for _, line := range m.lines {
		b.WriteString(line)
		b.WriteString("\n")
	}

	if m.done {
		summary := fmt.Sprintf("Done: %d migrated, %d skipped, %d failed (%d total)",
			m.migrated, m.skipped, m.failed, m.total)
		b.WriteString(styles.ok.Render(summary))
		b.WriteString("\n")
		b.WriteString(styles.help.Render("press q to exit"))
	} else if m.current != "" {
		b.WriteString(fmt.Sprintf("%s %s", m.spinner.View(), m.current))
	} else {
		b.WriteString(m.spinner.View())
	}

	b.WriteString("\n")
	return b.String()
}
