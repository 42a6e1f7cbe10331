package cli

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/example/strata/internal/config"
	"github.com/example/strata/internal/wire"
)

// StatusCmd returns the status command
func StatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show an overview of all projects",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			projects, err := wire.ProjectService().ListProjects(ctx)
			if err != nil {
				return err
			}
			if len(projects) == 0 {
				fmt.Println("No projects. Create one with 'strata project create <name>'.")
				return nil
			}

			current := currentProjectName()

			fmt.Println()
			for _, project := range projects {
				marker := ""
				if project.Name == current {
					marker = color.New(color.FgHiMagenta).Sprint(" ← current")
				}
				fmt.Printf("%s%s\n", color.New(color.FgHiBlue).Sprint(project.Name), marker)
				if project.Description != "" {
					fmt.Printf("  %s\n", project.Description)
				}

				scenarios, err := wire.ScenarioService().ListScenarios(ctx, project.Name)
				if err != nil {
					fmt.Printf("  %s\n", color.New(color.FgRed).Sprintf("scenarios unavailable: %v", err))
					continue
				}
				for _, scenario := range scenarios {
					target := "-"
					if scenario.TargetLayer != nil {
						target = scenario.TargetLayer.Name
					}
					outputs := ""
					if n := len(scenario.OutputTables); n > 0 {
						outputs = color.New(color.FgHiGreen).Sprintf(" [%d outputs]", n)
					}
					fmt.Printf("  - %s (target: %s)%s\n", scenario.Name, target, outputs)
				}
			}
			fmt.Println()

			return nil
		},
	}
}

func currentProjectName() string {
	home, err := config.HomeDir()
	if err != nil {
		return ""
	}
	cfg, err := config.LoadConfig(home)
	if err != nil {
		return ""
	}
	return cfg.CurrentProject
}
