package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Update implements tea.Model interface
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)
	case TickMsg:
		return m, tea.Batch(pollStatus(m.Client), tickCmd())
	case StatusUpdateMsg:
		return m.handleStatusUpdate(msg)
	case RunStartedMsg:
		m.Starting = false
		m.Err = msg.Err
		return m, pollStatus(m.Client)
	}
	return m, nil
}

func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "r", "R", "b", "B":
		if !m.Connected || m.Running() || m.Starting {
			return m, nil
		}
		m.Starting = true
		m.Err = nil
		bypass := msg.String() == "b" || msg.String() == "B"
		return m, startRun(m.Client, bypass)
	}
	return m, nil
}

func (m Model) handleStatusUpdate(msg StatusUpdateMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		m.Connected = false
		m.Err = msg.Err
		return m, nil
	}
	m.Connected = true
	m.Err = nil
	if msg.Status != nil {
		m.Status = *msg.Status
	}
	if msg.Summary != nil {
		m.Summary = msg.Summary
	}
	return m, nil
}
