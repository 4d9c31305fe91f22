package main

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"toolscout/curation"
	"toolscout/pipeline"
)

var runFlags struct {
	bypass bool
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one compilation cycle and print the discoveries as JSON",
	Long: `Runs one bounded curation cycle. Discoveries are written to stdout as JSON,
logs go to stderr. A run with fewer than the minimum picks exits with status 2
unless --bypass-min-picks is set.`,
	RunE: runRun,
}

func init() {
	runCmd.Flags().BoolVar(&runFlags.bypass, "bypass-min-picks", false, "Accept a short run (backfill/seed)")
}

func runRun(cmd *cobra.Command, _ []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	p, err := pipeline.Build(cmd.Context(), cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := p.Close(); err != nil {
			log.Warnf("⚠️  Close: %v", err)
		}
	}()

	out, err := p.RunOnce(cmd.Context(), runFlags.bypass)
	if errors.Is(err, curation.ErrInsufficientDiscoveries) {
		return &exitCodeError{code: 2, err: err}
	}
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("write discoveries: %w", err)
	}
	return nil
}
