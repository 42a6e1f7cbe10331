package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/strata/internal/config"
	"github.com/example/strata/internal/wire"
)

// ProjectCmd returns the project command
func ProjectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "project",
		Short: "Manage projects (one spatial store each)",
		Long:  "Create, list, inspect, and remove projects. Each project owns one SpatiaLite store file.",
	}

	cmd.AddCommand(projectCreateCmd())
	cmd.AddCommand(projectListCmd())
	cmd.AddCommand(projectShowCmd())
	cmd.AddCommand(projectUseCmd())
	cmd.AddCommand(projectDeleteCmd())
	cmd.AddCommand(projectPurgeCmd())

	return cmd
}

func projectCreateCmd() *cobra.Command {
	var description string

	cmd := &cobra.Command{
		Use:   "create [name]",
		Short: "Create a new project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return wire.ProjectAdapter().Create(context.Background(), args[0], description)
		},
	}
	cmd.Flags().StringVarP(&description, "description", "d", "", "Project description")

	return cmd
}

func projectListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List projects",
		RunE: func(cmd *cobra.Command, args []string) error {
			return wire.ProjectAdapter().List(context.Background())
		},
	}
}

func projectShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show [name]",
		Short: "Show project status",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return wire.ProjectAdapter().Show(context.Background(), args[0])
		},
	}
}

func projectUseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "use [name]",
		Short: "Select the project used when --project is omitted",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			// Fail early when the project does not exist.
			if _, err := wire.ProjectService().GetProject(context.Background(), args[0]); err != nil {
				return err
			}

			home, err := config.HomeDir()
			if err != nil {
				return err
			}
			cfg, err := config.LoadConfig(home)
			if err != nil {
				cfg = config.Default()
			}
			cfg.CurrentProject = args[0]
			if err := config.SaveConfig(home, cfg); err != nil {
				return err
			}

			fmt.Printf("✓ Current project is now %q\n", args[0])
			return nil
		},
	}
}

func projectDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete [name]",
		Short: "Soft-delete a project (metadata kept)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return wire.ProjectAdapter().Delete(context.Background(), args[0])
		},
	}
}

func projectPurgeCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "purge [name]",
		Short: "Permanently remove a project and its spatial store",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !force {
				return fmt.Errorf("purge removes the store file permanently - re-run with --force")
			}
			return wire.ProjectAdapter().Purge(context.Background(), args[0])
		},
	}
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Confirm permanent removal")

	return cmd
}
