package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"toolscout/tui"
)

var watchFlags struct {
	url string
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Follow a running `toolscout serve` in a terminal dashboard",
	RunE:  runWatch,
}

func init() {
	watchCmd.Flags().StringVar(&watchFlags.url, "url", "http://localhost:8080", "toolscout ops API URL")
}

func runWatch(cmd *cobra.Command, _ []string) error {
	program := tea.NewProgram(tui.NewModel(watchFlags.url), tea.WithContext(cmd.Context()))
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("error running dashboard: %w", err)
	}
	return nil
}
