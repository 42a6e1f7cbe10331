package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/strata/internal/wire"
)

// ConfigCmd returns the config command
func ConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Read and write application settings",
		Long: `Settings live in the metadata database and apply to every project.

Known keys: plugin_version, default_project_dir, default_base_layers_group,
output_group_name, symbology_defaults, misc.`,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "get [key]",
		Short: "Print one setting",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			value, err := wire.AdminService().GetSetting(context.Background(), args[0])
			if err != nil {
				return err
			}
			fmt.Println(value)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "set [key] [value]",
		Short: "Update one setting",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := wire.AdminService().SetSetting(context.Background(), args[0], args[1]); err != nil {
				return err
			}
			fmt.Printf("✓ %s = %s\n", args[0], args[1])
			return nil
		},
	})

	return cmd
}
