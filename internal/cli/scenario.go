package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/example/strata/internal/ports/primary"
	"github.com/example/strata/internal/wire"
)

// ScenarioCmd returns the scenario command
func ScenarioCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scenario",
		Short: "Manage analysis scenarios",
		Long:  "A scenario binds a target layer to assessment and marker layers within a project.",
	}

	cmd.AddCommand(scenarioCreateCmd())
	cmd.AddCommand(scenarioListCmd())
	cmd.AddCommand(scenarioShowCmd())
	cmd.AddCommand(scenarioDeleteCmd())
	cmd.AddCommand(scenarioPurgeCmd())
	cmd.AddCommand(scenarioVisibilityCmd())
	cmd.AddCommand(scenarioRecordOutputCmd())

	return cmd
}

func scenarioRecordOutputCmd() *cobra.Command {
	var (
		project string
		sources []string
		srid    int
	)

	cmd := &cobra.Command{
		Use:   "record-output [scenario] [layer] [table]",
		Short: "Bind a materialized output table to a scenario layer",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			projectName, err := resolveProject(project)
			if err != nil {
				return err
			}
			err = wire.ScenarioService().RecordOutputTable(context.Background(), primary.RecordOutputTableRequest{
				ProjectName:  projectName,
				ScenarioName: args[0],
				LayerName:    args[1],
				TableName:    args[2],
				SourceTables: sources,
				SRID:         srid,
			})
			if err != nil {
				return err
			}
			fmt.Printf("✓ %s now backs layer %s in %s\n", args[2], args[1], args[0])
			return nil
		},
	}
	cmd.Flags().StringVarP(&project, "project", "p", "", "Project name")
	cmd.Flags().StringSliceVarP(&sources, "source", "s", nil, "Source tables (recorded as lineage)")
	cmd.Flags().IntVar(&srid, "srid", 0, "SRID of the output table")

	return cmd
}

func scenarioCreateCmd() *cobra.Command {
	var (
		project     string
		description string
		target      string
		assessment  []string
		markers     []string
	)

	cmd := &cobra.Command{
		Use:   "create [name]",
		Short: "Create a scenario",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			projectName, err := resolveProject(project)
			if err != nil {
				return err
			}

			resp, err := wire.ScenarioService().CreateScenario(context.Background(), primary.CreateScenarioRequest{
				ProjectName:      projectName,
				Name:             args[0],
				Description:      description,
				TargetLayer:      target,
				AssessmentLayers: assessment,
				MarkerLayers:     markers,
			})
			if err != nil {
				return err
			}

			fmt.Printf("✓ Created scenario %q (target: %s)\n", resp.Scenario.Name, target)
			return nil
		},
	}
	cmd.Flags().StringVarP(&project, "project", "p", "", "Project name")
	cmd.Flags().StringVarP(&description, "description", "d", "", "Scenario description")
	cmd.Flags().StringVarP(&target, "target", "t", "", "Target layer (required)")
	cmd.Flags().StringSliceVarP(&assessment, "assessment", "a", nil, "Assessment layers")
	cmd.Flags().StringSliceVarP(&markers, "marker", "m", nil, "Marker layers (reference only)")
	cmd.MarkFlagRequired("target")

	return cmd
}

func scenarioListCmd() *cobra.Command {
	var project string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List scenarios of a project",
		RunE: func(cmd *cobra.Command, args []string) error {
			projectName, err := resolveProject(project)
			if err != nil {
				return err
			}

			scenarios, err := wire.ScenarioService().ListScenarios(context.Background(), projectName)
			if err != nil {
				return err
			}
			if len(scenarios) == 0 {
				fmt.Println("No scenarios found")
				return nil
			}

			fmt.Printf("\n%-25s %-20s %s\n", "NAME", "TARGET", "OUTPUTS")
			fmt.Println("────────────────────────────────────────────────────────────────")
			for _, s := range scenarios {
				target := "-"
				if s.TargetLayer != nil {
					target = s.TargetLayer.Name
				}
				fmt.Printf("%-25s %-20s %d\n", s.Name, target, len(s.OutputTables))
			}
			fmt.Println()

			return nil
		},
	}
	cmd.Flags().StringVarP(&project, "project", "p", "", "Project name")

	return cmd
}

func scenarioShowCmd() *cobra.Command {
	var project string

	cmd := &cobra.Command{
		Use:   "show [name]",
		Short: "Show scenario details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			projectName, err := resolveProject(project)
			if err != nil {
				return err
			}

			scenario, err := wire.ScenarioService().GetScenario(context.Background(), projectName, args[0])
			if err != nil {
				return err
			}

			fmt.Printf("\nScenario: %s\n", scenario.Name)
			if scenario.Description != "" {
				fmt.Printf("Description: %s\n", scenario.Description)
			}
			if scenario.TargetLayer != nil {
				fmt.Printf("Target:  %s\n", scenario.TargetLayer.Name)
			}
			if len(scenario.AssessmentLayers) > 0 {
				fmt.Println("Assessment layers:")
				for _, layer := range scenario.AssessmentLayers {
					fmt.Printf("  - %s\n", layer.Name)
				}
			}
			if len(scenario.MarkerLayers) > 0 {
				fmt.Println("Marker layers:")
				for _, layer := range scenario.MarkerLayers {
					fmt.Printf("  - %s\n", layer.Name)
				}
			}
			if len(scenario.OutputTables) > 0 {
				fmt.Println("Output tables:")
				for _, table := range scenario.OutputTables {
					fmt.Printf("  - %s\n", table)
				}
			}

			refs, err := wire.ScenarioService().ListSpatialRefs(context.Background(), projectName, args[0])
			if err == nil && len(refs) > 0 {
				fmt.Println("Lineage:")
				for _, ref := range refs {
					fmt.Printf("  - %s ← %s\n", ref.OverlayLayerName, strings.Join(ref.SourceTables, " + "))
				}
			}
			fmt.Println()

			return nil
		},
	}
	cmd.Flags().StringVarP(&project, "project", "p", "", "Project name")

	return cmd
}

func scenarioDeleteCmd() *cobra.Command {
	var project string

	cmd := &cobra.Command{
		Use:   "delete [name]",
		Short: "Soft-delete a scenario",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			projectName, err := resolveProject(project)
			if err != nil {
				return err
			}
			if err := wire.ScenarioService().DeleteScenario(context.Background(), projectName, args[0]); err != nil {
				return err
			}
			fmt.Printf("✓ Deleted scenario %q\n", args[0])
			return nil
		},
	}
	cmd.Flags().StringVarP(&project, "project", "p", "", "Project name")

	return cmd
}

func scenarioPurgeCmd() *cobra.Command {
	var (
		project string
		force   bool
	)

	cmd := &cobra.Command{
		Use:   "purge [name]",
		Short: "Permanently remove a scenario and drop its output tables",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !force {
				return fmt.Errorf("purge drops output tables permanently - re-run with --force")
			}
			projectName, err := resolveProject(project)
			if err != nil {
				return err
			}
			if err := wire.ScenarioService().PurgeScenario(context.Background(), projectName, args[0]); err != nil {
				return err
			}
			fmt.Printf("✓ Purged scenario %q\n", args[0])
			return nil
		},
	}
	cmd.Flags().StringVarP(&project, "project", "p", "", "Project name")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Confirm permanent removal")

	return cmd
}

func scenarioVisibilityCmd() *cobra.Command {
	var (
		project string
		hide    bool
	)

	cmd := &cobra.Command{
		Use:   "visibility [scenario] [layer]",
		Short: "Show or change layer visibility in a scenario",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			projectName, err := resolveProject(project)
			if err != nil {
				return err
			}
			ctx := context.Background()

			if len(args) == 1 {
				flags, err := wire.ScenarioService().GetLayerVisibility(ctx, projectName, args[0])
				if err != nil {
					return err
				}
				if len(flags) == 0 {
					fmt.Println("No visibility flags recorded")
					return nil
				}
				for layer, visible := range flags {
					marker := "hidden"
					if visible {
						marker = "visible"
					}
					fmt.Printf("%-25s %s\n", layer, marker)
				}
				return nil
			}

			err = wire.ScenarioService().SetLayerVisibility(ctx, primary.SetLayerVisibilityRequest{
				ProjectName:  projectName,
				ScenarioName: args[0],
				LayerName:    args[1],
				Visible:      !hide,
			})
			if err != nil {
				return err
			}
			state := "visible"
			if hide {
				state = "hidden"
			}
			fmt.Printf("✓ %s is now %s in %s\n", args[1], state, args[0])
			return nil
		},
	}
	cmd.Flags().StringVarP(&project, "project", "p", "", "Project name")
	cmd.Flags().BoolVar(&hide, "hide", false, "Hide the layer instead of showing it")

	return cmd
}
