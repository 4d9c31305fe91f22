package tui

import (
	"fmt"
	"strings"

	"toolscout/pipeline"
)

// View implements tea.Model interface
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render("🔭 toolscout"))
	b.WriteString("\n")

	b.WriteString(m.phaseText())
	b.WriteString("\n\n")

	if m.Summary != nil {
		b.WriteString(InfoStyle.Render("💰 " + m.Summary.Cost.String()))
		b.WriteString("\n")
		if last := m.Summary.LastRun; last != nil {
			b.WriteString(BoxStyle.Render(formatLastRun(*last)))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	if len(m.Status.Logs) > 0 {
		b.WriteString(InfoStyle.Render("📝 Recent Activity:"))
		b.WriteString("\n")
		for _, entry := range m.Status.Logs {
			line := fmt.Sprintf("   %s  %s", entry.Timestamp.Format("15:04:05"), entry.Message)
			b.WriteString(InfoStyle.Render(line))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	if m.Err != nil && m.Connected {
		b.WriteString(ErrorStyle.Render(fmt.Sprintf("❌ %v", m.Err)))
		b.WriteString("\n\n")
	}

	if m.Connected && !m.Running() && !m.Starting {
		b.WriteString(InfoStyle.Render("Press 'r' to run | 'b' to run bypassing the pick minimum | 'q' to quit"))
	} else {
		b.WriteString(InfoStyle.Render("Press 'q' or Ctrl+C to quit (the server keeps running)"))
	}
	return b.String()
}

func (m Model) phaseText() string {
	if !m.Connected {
		msg := "❌ Not connected to toolscout"
		if m.Err != nil {
			msg += ": " + m.Err.Error()
		}
		return ErrorStyle.Render(msg)
	}
	if m.Starting {
		return StatusStyle.Render("🚀 Starting run...")
	}

	switch m.Status.Phase {
	case pipeline.PhaseIdle:
		return HighlightStyle.Render("👋 Idle")
	case pipeline.PhaseOrchestrating:
		return StatusStyle.Render(fmt.Sprintf("⏳ Fetching and judging batches (run %s)...", m.Status.RunID))
	case pipeline.PhaseCurating:
		return StatusStyle.Render("🔍 Curating discoveries...")
	case pipeline.PhasePublishing:
		return StatusStyle.Render("📤 Publishing picks...")
	case pipeline.PhaseComplete:
		return HighlightStyle.Render("✅ COMPLETE")
	case pipeline.PhaseScrapped:
		return ErrorStyle.Render("🗑️  Scrapped: " + m.Status.Error)
	default:
		return string(m.Status.Phase)
	}
}

func formatLastRun(s pipeline.Summary) string {
	var b strings.Builder
	b.WriteString(HighlightStyle.Render("Last run"))
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "ID:        %s\n", s.RunID)
	fmt.Fprintf(&b, "Batches:   %d (%s)\n", s.Batches, strings.Join(s.Plan, ", "))
	fmt.Fprintf(&b, "Stopped:   %s\n", s.Stop)
	fmt.Fprintf(&b, "Accepted:  %d, picks %d, duplicates %d\n", s.Accepted, s.Picks, s.Duplicates)
	if s.Scrapped {
		b.WriteString(ErrorStyle.Render("Scrapped: too few discoveries"))
	} else {
		fmt.Fprintf(&b, "Published: %d", s.Published)
	}
	return b.String()
}
