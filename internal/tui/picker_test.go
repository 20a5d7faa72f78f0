package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"portdash/internal/scan"
)

func sampleServices() []scan.ServiceRecord {
	return []scan.ServiceRecord{
		{PID: 1, Name: "http.server", Port: 8080, Protocol: scan.ProtocolTCP},
		{PID: 2, Name: "nginx", Port: 80, Protocol: scan.ProtocolTCP},
		{PID: 3, Name: "dnsmasq", Port: 53, Protocol: scan.ProtocolUDP},
	}
}

func update(m pickerModel, msg tea.Msg) pickerModel {
	next, _ := m.Update(msg)
	return next.(pickerModel)
}

func typeString(m pickerModel, s string) pickerModel {
	for _, r := range s {
		m = update(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return m
}

func TestPickerStartsUnfiltered(t *testing.T) {
	m := newPicker(sampleServices())
	if len(m.filtered) != 3 {
		t.Fatalf("expected all services visible, got %d", len(m.filtered))
	}
}

func TestPickerFiltersOnInput(t *testing.T) {
	m := typeString(newPicker(sampleServices()), "nginx")
	if len(m.filtered) != 1 {
		t.Fatalf("expected one match, got %d", len(m.filtered))
	}
	if got := m.services[m.filtered[0]].Name; got != "nginx" {
		t.Fatalf("expected nginx, got %q", got)
	}
}

func TestPickerEnterSelectsUnderCursor(t *testing.T) {
	m := newPicker(sampleServices())
	m = update(m, tea.KeyMsg{Type: tea.KeyDown})
	m = update(m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.choice != 1 {
		t.Fatalf("expected choice 1, got %d", m.choice)
	}
}

func TestPickerEscapeLeavesNoChoice(t *testing.T) {
	m := newPicker(sampleServices())
	m = update(m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.choice != -1 {
		t.Fatalf("expected no choice, got %d", m.choice)
	}
}

func TestPickerCursorStaysInBounds(t *testing.T) {
	m := newPicker(sampleServices())
	for range 10 {
		m = update(m, tea.KeyMsg{Type: tea.KeyDown})
	}
	if m.cursor != 2 {
		t.Fatalf("cursor escaped the list: %d", m.cursor)
	}
	m = typeString(m, "dnsmasq")
	if m.cursor >= len(m.filtered) {
		t.Fatalf("cursor %d out of bounds after filtering to %d items", m.cursor, len(m.filtered))
	}
}
