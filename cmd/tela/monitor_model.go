package main

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type monitorLine struct {
	stream string
	text   string
	at     time.Time
}

type monitorTick struct{ line monitorLine }

var (
	monitorStreamStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("99"))
	monitorTimeStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	monitorHelpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Padding(1, 0, 0, 0)
)

const monitorMaxLines = 500

type monitorModel struct {
	lines  <-chan monitorLine
	buffer []monitorLine
	height int
}

func newMonitorModel(lines <-chan monitorLine) monitorModel {
	return monitorModel{lines: lines, height: 30}
}

func (m monitorModel) Init() tea.Cmd {
	return waitForMonitorLine(m.lines)
}

func waitForMonitorLine(lines <-chan monitorLine) tea.Cmd {
	return func() tea.Msg {
		line, ok := <-lines
		if !ok {
			return tea.Quit()
		}
		return monitorTick{line: line}
	}
}

func (m monitorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.height = msg.Height
		return m, nil
	case tea.KeyMsg:
		if msg.String() == "q" || msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	case monitorTick:
		m.buffer = append(m.buffer, msg.line)
		if len(m.buffer) > monitorMaxLines {
			m.buffer = m.buffer[len(m.buffer)-monitorMaxLines:]
		}
		return m, waitForMonitorLine(m.lines)
	}
	return m, nil
}

func (m monitorModel) View() string {
	visible := m.buffer
	max := m.height - 2
	if max < 1 {
		max = 1
	}
	if len(visible) > max {
		visible = visible[len(visible)-max:]
	}

	var out string
	for _, l := range visible {
		out += fmt.Sprintf("%s %s %s\n",
			monitorTimeStyle.Render(l.at.Format("15:04:05.000")),
			monitorStreamStyle.Render(l.stream+":"),
			l.text)
	}
	out += monitorHelpStyle.Render("q to quit")
	return out
}
