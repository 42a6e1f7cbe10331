// Package cli contains the cobra command tree. Commands parse flags and
// arguments, then delegate to the application services through wire; no
// business logic lives here.
package cli

import (
	"fmt"
	"strconv"

	"github.com/example/strata/internal/config"
)

// parseID parses a numeric id argument.
func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q", arg)
	}
	return id, nil
}

// resolveProject returns the project to operate on: the --project flag when
// given, otherwise the current project from config.
func resolveProject(flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}

	home, err := config.HomeDir()
	if err != nil {
		return "", err
	}
	cfg, err := config.LoadConfig(home)
	if err == nil && cfg.CurrentProject != "" {
		return cfg.CurrentProject, nil
	}
	return "", fmt.Errorf("no project selected - pass --project or run 'strata project use <name>'")
}
