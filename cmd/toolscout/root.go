// toolscout curates installable developer tools from social feeds and the web.
//
// Usage:
//
//	toolscout run [--bypass-min-picks]
//	toolscout serve [--addr=:8080]
//	toolscout watch [--url=http://localhost:8080]
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"toolscout/config"
	"toolscout/logging"
)

// version is set at build time via -ldflags.
var version = "dev"

// exitCodeError carries a process exit code out of a command
type exitCodeError struct {
	code int
	err  error
}

func (e *exitCodeError) Error() string { return e.err.Error() }
func (e *exitCodeError) Unwrap() error { return e.err }

var rootCmd = &cobra.Command{
	Use:   "toolscout",
	Short: "Curate actionable developer tools from feeds, search and the web",
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.Version = version
}

// setup loads configuration and builds the process logger
func setup() (config.Config, *zap.SugaredLogger, error) {
	cfg := config.Load()
	log, err := logging.New(cfg.LogLevel, cfg.LogJSON)
	if err != nil {
		return cfg, nil, fmt.Errorf("init logger: %w", err)
	}
	return cfg, log, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		var ec *exitCodeError
		if errors.As(err, &ec) {
			os.Exit(ec.code)
		}
		os.Exit(1)
	}
}
