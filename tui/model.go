// Package tui is a terminal dashboard that follows a running `toolscout serve`.
package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"toolscout/pipeline"
)

// Model represents the TUI client state (thin client)
type Model struct {
	Client *APIClient

	// Local UI state (synced from the ops API)
	Status  pipeline.Status
	Summary *SummaryResponse
	Err     error

	// Connection status
	Connected bool
	Starting  bool
}

// NewModel creates a new TUI model
func NewModel(baseURL string) Model {
	return Model{
		Client: NewAPIClient(baseURL),
		Status: pipeline.Status{Phase: pipeline.PhaseIdle},
	}
}

// Init implements tea.Model interface
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		pollStatus(m.Client),
		tickCmd(),
	)
}

// Running reports whether a run is in flight on the server
func (m Model) Running() bool {
	switch m.Status.Phase {
	case pipeline.PhaseOrchestrating, pipeline.PhaseCurating, pipeline.PhasePublishing:
		return true
	}
	return false
}
