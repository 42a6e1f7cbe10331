package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/strata/internal/ports/primary"
	"github.com/example/strata/internal/wire"
)

// LayerCmd returns the layer command
func LayerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "layer",
		Short: "Manage base layers and spatial tables",
	}

	cmd.AddCommand(layerImportCmd())
	cmd.AddCommand(layerListCmd())
	cmd.AddCommand(layerTablesCmd())
	cmd.AddCommand(layerDropCmd())

	return cmd
}

func layerImportCmd() *cobra.Command {
	var (
		project string
		table   string
	)

	cmd := &cobra.Command{
		Use:   "import [geojson-file]",
		Short: "Import a GeoJSON file as a base layer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			projectName, err := resolveProject(project)
			if err != nil {
				return err
			}

			resp, err := wire.LayerService().ImportLayer(context.Background(), primary.ImportLayerRequest{
				ProjectName: projectName,
				SourcePath:  args[0],
				TableName:   table,
			})
			if err != nil {
				return err
			}

			layer := resp.Layer
			fmt.Printf("✓ Imported %s into %s (%d features, %s, SRID %d)\n",
				args[0], layer.TableName, layer.FeatureCount, layer.GeometryType, layer.SRID)
			if resp.Updated > 0 || resp.Unchanged > 0 {
				fmt.Printf("  %d new, %d updated, %d unchanged\n", resp.Inserted, resp.Updated, resp.Unchanged)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&project, "project", "p", "", "Project name")
	cmd.Flags().StringVarP(&table, "table", "t", "", "Table name (defaults to the file name)")

	return cmd
}

func layerListCmd() *cobra.Command {
	var project string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List registered base layers",
		RunE: func(cmd *cobra.Command, args []string) error {
			projectName, err := resolveProject(project)
			if err != nil {
				return err
			}

			layers, err := wire.LayerService().ListLayers(context.Background(), projectName)
			if err != nil {
				return err
			}
			if len(layers) == 0 {
				fmt.Println("No base layers registered")
				return nil
			}

			fmt.Printf("\n%-20s %-15s %-6s %s\n", "TABLE", "GEOMETRY", "SRID", "FEATURES")
			fmt.Println("────────────────────────────────────────────────────────────────")
			for _, layer := range layers {
				fmt.Printf("%-20s %-15s %-6d %d\n",
					layer.TableName, layer.GeometryType, layer.SRID, layer.FeatureCount)
			}
			fmt.Println()

			return nil
		},
	}
	cmd.Flags().StringVarP(&project, "project", "p", "", "Project name")

	return cmd
}

func layerTablesCmd() *cobra.Command {
	var project string

	cmd := &cobra.Command{
		Use:   "tables",
		Short: "List all spatial tables in the project store",
		RunE: func(cmd *cobra.Command, args []string) error {
			projectName, err := resolveProject(project)
			if err != nil {
				return err
			}

			tables, err := wire.LayerService().ListTables(context.Background(), projectName)
			if err != nil {
				return err
			}
			if len(tables) == 0 {
				fmt.Println("Store is empty")
				return nil
			}
			for _, table := range tables {
				fmt.Println(table)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&project, "project", "p", "", "Project name")

	return cmd
}

func layerDropCmd() *cobra.Command {
	var (
		project string
		force   bool
	)

	cmd := &cobra.Command{
		Use:   "drop [table]",
		Short: "Drop a table from the project store",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !force {
				return fmt.Errorf("drop removes the table permanently - re-run with --force")
			}
			projectName, err := resolveProject(project)
			if err != nil {
				return err
			}
			if err := wire.LayerService().DropTable(context.Background(), projectName, args[0]); err != nil {
				return err
			}
			fmt.Printf("✓ Dropped %s\n", args[0])
			return nil
		},
	}
	cmd.Flags().StringVarP(&project, "project", "p", "", "Project name")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Confirm permanent removal")

	return cmd
}
