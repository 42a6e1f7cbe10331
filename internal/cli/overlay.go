package cli

import (
	"context"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/example/strata/internal/ports/primary"
	"github.com/example/strata/internal/wire"
)

// OverlayCmd returns the overlay command
func OverlayCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "overlay",
		Short: "Run versioned overlay computations",
		Long: `Combine a target table with a comparison table and publish the result as
the next version of a named output. Every run appends to the output's version
chain; rollback moves the current pointer without touching table data.`,
	}

	cmd.AddCommand(overlayRunCmd())
	cmd.AddCommand(overlayRollbackCmd())
	cmd.AddCommand(overlayCompareCmd())
	cmd.AddCommand(overlayVersionsCmd())
	cmd.AddCommand(overlaySummaryCmd())

	return cmd
}

func overlayRunCmd() *cobra.Command {
	var (
		project     string
		description string
		group       string
		skipPresent bool
	)

	cmd := &cobra.Command{
		Use:   "run [target-table] [comparison-table] [output-name]",
		Short: "Run an overlay and publish the next version",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			projectName, err := resolveProject(project)
			if err != nil {
				return err
			}

			return wire.OverlayAdapter().Run(context.Background(), primary.OverlayRequest{
				ProjectName:     projectName,
				TargetTable:     args[0],
				ComparisonTable: args[1],
				OutputName:      args[2],
				Description:     description,
				DisplayGroup:    group,
				SkipPresent:     skipPresent,
			})
		},
	}
	cmd.Flags().StringVarP(&project, "project", "p", "", "Project name")
	cmd.Flags().StringVarP(&description, "description", "d", "", "Version description")
	cmd.Flags().StringVarP(&group, "group", "g", "", "Display group (defaults to the configured output group)")
	cmd.Flags().BoolVar(&skipPresent, "no-present", false, "Skip the display manifest update")

	return cmd
}

func overlayRollbackCmd() *cobra.Command {
	var project string

	cmd := &cobra.Command{
		Use:   "rollback [output-name] [version-id]",
		Short: "Make an earlier version current",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			projectName, err := resolveProject(project)
			if err != nil {
				return err
			}
			versionID, err := strconv.ParseInt(args[1], 10, 64)
			if err != nil {
				return err
			}

			return wire.OverlayAdapter().Rollback(context.Background(), primary.RollbackRequest{
				ProjectName: projectName,
				OutputName:  args[0],
				VersionID:   versionID,
			})
		},
	}
	cmd.Flags().StringVarP(&project, "project", "p", "", "Project name")

	return cmd
}

func overlayCompareCmd() *cobra.Command {
	var (
		project string
		group   string
	)

	cmd := &cobra.Command{
		Use:   "compare [output-name] [version-a] [version-b]",
		Short: "Materialize two versions side by side (read-only)",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			projectName, err := resolveProject(project)
			if err != nil {
				return err
			}
			versionA, err := strconv.ParseInt(args[1], 10, 64)
			if err != nil {
				return err
			}
			versionB, err := strconv.ParseInt(args[2], 10, 64)
			if err != nil {
				return err
			}

			return wire.OverlayAdapter().Compare(context.Background(), primary.CompareRequest{
				ProjectName:  projectName,
				OutputName:   args[0],
				VersionA:     versionA,
				VersionB:     versionB,
				DisplayGroup: group,
			})
		},
	}
	cmd.Flags().StringVarP(&project, "project", "p", "", "Project name")
	cmd.Flags().StringVarP(&group, "group", "g", "", "Display group (defaults to the configured output group)")

	return cmd
}

func overlayVersionsCmd() *cobra.Command {
	var project string

	cmd := &cobra.Command{
		Use:   "versions [output-name]",
		Short: "List the version chain of an output",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			projectName, err := resolveProject(project)
			if err != nil {
				return err
			}
			return wire.OverlayAdapter().ListVersions(context.Background(), projectName, args[0])
		},
	}
	cmd.Flags().StringVarP(&project, "project", "p", "", "Project name")

	return cmd
}

func overlaySummaryCmd() *cobra.Command {
	var project string

	cmd := &cobra.Command{
		Use:   "summary [table]",
		Short: "Show aggregate statistics of a result table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			projectName, err := resolveProject(project)
			if err != nil {
				return err
			}
			_, err = wire.OverlayAdapter().Summary(context.Background(), projectName, args[0])
			return err
		},
	}
	cmd.Flags().StringVarP(&project, "project", "p", "", "Project name")

	return cmd
}
