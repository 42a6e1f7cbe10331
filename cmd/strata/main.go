package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/strata/internal/cli"
	"github.com/example/strata/internal/version"
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "strata",
		Short:   "strata - versioned spatial overlay engine",
		Version: version.String(),
		Long: `strata manages projects of SpatiaLite stores, runs versioned overlay
computations between polygon layers, and records the provenance of every
processing step.`,
	}

	rootCmd.AddCommand(cli.InitCmd())
	rootCmd.AddCommand(cli.DoctorCmd())
	rootCmd.AddCommand(cli.StatusCmd())
	rootCmd.AddCommand(cli.ProjectCmd())
	rootCmd.AddCommand(cli.ScenarioCmd())
	rootCmd.AddCommand(cli.LayerCmd())
	rootCmd.AddCommand(cli.OverlayCmd())
	rootCmd.AddCommand(cli.ProvenanceCmd())
	rootCmd.AddCommand(cli.ConfigCmd())
	rootCmd.AddCommand(cli.AdminCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
