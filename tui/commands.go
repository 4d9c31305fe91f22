package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"toolscout/pipeline"
)

const pollInterval = 500 * time.Millisecond

// Messages for the tea program (polling-based)

// StatusUpdateMsg is sent when we receive status and summary from the API
type StatusUpdateMsg struct {
	Status  *pipeline.Status
	Summary *SummaryResponse
	Err     error
}

// TickMsg is sent periodically to trigger polling
type TickMsg struct {
	Time time.Time
}

// RunStartedMsg is sent once a run trigger returns
type RunStartedMsg struct {
	Err error
}

func pollStatus(client *APIClient) tea.Cmd {
	return func() tea.Msg {
		status, err := client.GetStatus()
		if err != nil {
			return StatusUpdateMsg{Err: err}
		}
		summary, err := client.GetSummary()
		return StatusUpdateMsg{Status: status, Summary: summary, Err: err}
	}
}

func startRun(client *APIClient, bypass bool) tea.Cmd {
	return func() tea.Msg {
		return RunStartedMsg{Err: client.StartRun(bypass)}
	}
}

func tickCmd() tea.Cmd {
	return tea.Tick(pollInterval, func(t time.Time) tea.Msg {
		return TickMsg{Time: t}
	})
}
