// ============================================================================
// EchoVerse - Tone-Aware Audiobook Generator
// ============================================================================
//
// Package:     tonepicker
// Description: Interactive tone selection for the generate command
// Author:      Mike Stoffels with Claude
// Created:     2026-08-16
// License:     MIT
// ============================================================================

package tonepicker

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7C3AED")).
			MarginBottom(1)

	selectedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7C3AED"))

	customStyle = lipgloss.NewStyle().
			Italic(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6B7280")).
			Italic(true)
)

// Model is the tone picker: a cursor list of preset tones plus a Custom
// entry that switches to free-form input
type Model struct {
	tones    []string
	cursor   int
	input    textinput.Model
	entering bool

	choice    string
	cancelled bool
}

// NewModel creates a picker over the given tones
func NewModel(tones []string) Model {
	ti := textinput.New()
	ti.Placeholder = "e.g. Like a weather report"
	ti.CharLimit = 60
	ti.Prompt = "> "

	return Model{
		tones: tones,
		input: ti,
	}
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		if m.entering {
			var cmd tea.Cmd
			m.input, cmd = m.input.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	if m.entering {
		switch keyMsg.String() {
		case "ctrl+c":
			m.cancelled = true
			return m, tea.Quit
		case "esc":
			m.entering = false
			m.input.Blur()
			return m, nil
		case "enter":
			tone := strings.TrimSpace(m.input.Value())
			if tone == "" {
				return m, nil
			}
			m.choice = tone
			return m, tea.Quit
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}

	switch keyMsg.String() {
	case "ctrl+c", "esc", "q":
		m.cancelled = true
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.tones) {
			m.cursor++
		}
	case "enter":
		if m.cursor == len(m.tones) {
			m.entering = true
			m.input.Focus()
			return m, textinput.Blink
		}
		m.choice = m.tones[m.cursor]
		return m, tea.Quit
	}

	return m, nil
}

// View implements tea.Model
func (m Model) View() string {
	if m.choice != "" || m.cancelled {
		return ""
	}

	var b strings.Builder

	if m.entering {
		b.WriteString(titleStyle.Render("Enter your custom tone:"))
		b.WriteString("\n")
		b.WriteString(m.input.View())
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("enter confirm · esc back"))
		b.WriteString("\n")
		return b.String()
	}

	b.WriteString(titleStyle.Render("Select a tone:"))
	b.WriteString("\n")

	for i, tone := range m.tones {
		if i == m.cursor {
			b.WriteString(selectedStyle.Render(fmt.Sprintf("▸ %s", tone)))
		} else {
			b.WriteString(fmt.Sprintf("  %s", tone))
		}
		b.WriteString("\n")
	}

	custom := customStyle.Render("Custom...")
	if m.cursor == len(m.tones) {
		custom = selectedStyle.Render("▸ Custom...")
	} else {
		custom = "  " + custom
	}
	b.WriteString(custom)
	b.WriteString("\n\n")
	b.WriteString(helpStyle.Render("↑/↓ move · enter select · esc cancel"))
	b.WriteString("\n")

	return b.String()
}

// Choice returns the picked tone, empty when cancelled
func (m Model) Choice() string {
	return m.choice
}

// Cancelled reports whether the user aborted the picker
func (m Model) Cancelled() bool {
	return m.cancelled
}

// Pick runs the picker and returns the chosen tone
func Pick(tones []string) (string, error) {
	p := tea.NewProgram(NewModel(tones))
	final, err := p.Run()
	if err != nil {
		return "", fmt.Errorf("tone picker failed: %w", err)
	}

	m, ok := final.(Model)
	if !ok || m.Cancelled() {
		return "", fmt.Errorf("tone selection cancelled")
	}
	return m.Choice(), nil
}
