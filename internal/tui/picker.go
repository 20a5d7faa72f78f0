// Package tui provides an interactive picker over a service snapshot:
// type to filter, arrows to move, enter to choose.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"portdash/internal/scan"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true)
	cursorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

type pickerModel struct {
	input    textinput.Model
	services []scan.ServiceRecord
	haystack []string
	filtered []int
	cursor   int
	choice   int // index into services, -1 until chosen
}

func newPicker(services []scan.ServiceRecord) pickerModel {
	ti := textinput.New()
	ti.Placeholder = "filter by name, port or path"
	ti.Focus()

	haystack := make([]string, len(services))
	filtered := make([]int, len(services))
	for i, svc := range services {
		haystack[i] = fmt.Sprintf("%s %d %s", svc.Name, svc.Port, svc.Path)
		filtered[i] = i
	}

	return pickerModel{
		input:    ti,
		services: services,
		haystack: haystack,
		filtered: filtered,
		choice:   -1,
	}
}

func (m pickerModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m pickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}

	switch keyMsg.String() {
	case "ctrl+c", "esc":
		return m, tea.Quit
	case "enter":
		if len(m.filtered) > 0 {
			m.choice = m.filtered[m.cursor]
		}
		return m, tea.Quit
	case "up", "ctrl+k":
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil
	case "down", "ctrl+j":
		if m.cursor < len(m.filtered)-1 {
			m.cursor++
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.refilter()
	return m, cmd
}

func (m *pickerModel) refilter() {
	query := strings.TrimSpace(m.input.Value())
	if query == "" {
		m.filtered = m.filtered[:0]
		for i := range m.services {
			m.filtered = append(m.filtered, i)
		}
	} else {
		matches := fuzzy.Find(query, m.haystack)
		m.filtered = m.filtered[:0]
		for _, match := range matches {
			m.filtered = append(m.filtered, match.Index)
		}
	}
	if m.cursor >= len(m.filtered) {
		m.cursor = 0
	}
}

func (m pickerModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Select a service to stop"))
	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n\n")

	if len(m.filtered) == 0 {
		b.WriteString(dimStyle.Render("no matching services"))
		b.WriteString("\n")
	}
	for pos, idx := range m.filtered {
		svc := m.services[idx]
		line := fmt.Sprintf("%-20s port %-5d pid %-6d %s", svc.Name, svc.Port, svc.PID, svc.Protocol)
		if pos == m.cursor {
			b.WriteString(cursorStyle.Render("> "))
			b.WriteString(selectedStyle.Render(line))
		} else {
			b.WriteString("  ")
			b.WriteString(line)
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render("enter: select • esc: cancel"))
	b.WriteString("\n")
	return b.String()
}

// Pick runs the picker and returns the chosen service. ok is false when the
// user cancelled or nothing matched.
func Pick(services []scan.ServiceRecord) (scan.ServiceRecord, bool, error) {
	final, err := tea.NewProgram(newPicker(services)).Run()
	if err != nil {
		return scan.ServiceRecord{}, false, err
	}
	m, ok := final.(pickerModel)
	if !ok || m.choice < 0 {
		return scan.ServiceRecord{}, false, nil
	}
	return m.services[m.choice], true, nil
}
