// Package watch provides a live terminal view of a running simulation.
//
// CORSIKA writes its progress to the captured log file; the watcher
// follows that file with filesystem notifications and shows the tail
// plus a shower counter until the user quits.
package watch

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/fsnotify/fsnotify"
)

const tailLines = 18

var (
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	logStyle    = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("240")).PaddingLeft(1)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
)

type changedMsg struct{}

type errMsg struct{ err error }

// Model follows one log file. It is a bubbletea model; run it with
// tea.NewProgram(m).
type Model struct {
	path    string
	watcher *fsnotify.Watcher

	lines  []string
	events int
	err    error
}

// New sets up a watcher on the directory containing the log file, so
// a log that appears after startup is picked up too.
func New(path string) (Model, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return Model{}, err
	}
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		watcher.Close()
		return Model{}, err
	}

	m := Model{path: path, watcher: watcher}
	m.reload()
	return m, nil
}

func (m Model) Init() tea.Cmd {
	return m.waitForChange()
}

func (m Model) waitForChange() tea.Cmd {
	return func() tea.Msg {
		for {
			select {
			case ev, ok := <-m.watcher.Events:
				if !ok {
					return errMsg{nil}
				}
				if ev.Name == m.path && ev.Op&(fsnotify.Write|fsnotify.Create) != 0 {
					return changedMsg{}
				}
			case err, ok := <-m.watcher.Errors:
				if !ok {
					return errMsg{nil}
				}
				return errMsg{err}
			}
		}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.watcher.Close()
			return m, tea.Quit
		}
	case changedMsg:
		m.reload()
		return m, m.waitForChange()
	case errMsg:
		m.err = msg.err
		return m, tea.Quit
	}
	return m, nil
}

func (m *Model) reload() {
	data, err := os.ReadFile(m.path)
	if err != nil {
		// Not written yet; keep waiting.
		return
	}
	m.lines, m.events = digest(string(data), tailLines)
}

func (m Model) View() string {
	var sb strings.Builder
	sb.WriteString(headerStyle.Render("showerpipe watch — " + filepath.Base(filepath.Dir(m.path))))
	sb.WriteString("\n")
	sb.WriteString(labelStyle.Render("showers started: "))
	sb.WriteString(lipgloss.NewStyle().Bold(true).Render(strconv.Itoa(m.events)))
	sb.WriteString("\n\n")

	if len(m.lines) == 0 {
		sb.WriteString(labelStyle.Render("waiting for " + filepath.Base(m.path) + " ..."))
	} else {
		sb.WriteString(logStyle.Render(strings.Join(m.lines, "\n")))
	}

	sb.WriteString("\n")
	sb.WriteString(helpStyle.Render("q: quit"))
	return sb.String()
}

// digest keeps the last n non-empty log lines and counts the shower
// banners CORSIKA prints at each event start.
func digest(log string, n int) ([]string, int) {
	var lines []string
	events := 0
	for _, line := range strings.Split(log, "\n") {
		trimmed := strings.TrimRight(line, " \r")
		if strings.TrimSpace(trimmed) == "" {
			continue
		}
		if strings.Contains(trimmed, "EVENT") {
			events++
		}
		lines = append(lines, trimmed)
	}
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return lines, events
}
