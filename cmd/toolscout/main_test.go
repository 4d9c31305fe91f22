package main

import (
	"errors"
	"fmt"
	"testing"

	"toolscout/curation"
)

func TestCommandsRegistered(t *testing.T) {
	for _, name := range []string{"run", "serve", "watch"} {
		cmd, _, err := rootCmd.Find([]string{name})
		if err != nil || cmd.Name() != name {
			t.Fatalf("command %q not registered: %v", name, err)
		}
	}
	if runCmd.Flags().Lookup("bypass-min-picks") == nil {
		t.Fatal("run is missing --bypass-min-picks")
	}
}

func TestExitCodeErrorUnwraps(t *testing.T) {
	err := fmt.Errorf("run: %w", &exitCodeError{code: 2, err: curation.ErrInsufficientDiscoveries})
	var ec *exitCodeError
	if !errors.As(err, &ec) || ec.code != 2 {
		t.Fatalf("exit code lost: %v", err)
	}
	if !errors.Is(err, curation.ErrInsufficientDiscoveries) {
		t.Fatal("sentinel lost through exitCodeError")
	}
}
