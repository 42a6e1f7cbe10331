package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/strata/internal/ports/primary"
	"github.com/example/strata/internal/wire"
)

// AdminCmd returns the admin command
func AdminCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Administrative operations",
	}

	cmd.AddCommand(adminImportLegacyCmd())

	return cmd
}

func adminImportLegacyCmd() *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "import-legacy [db-file]",
		Short: "Import projects from a legacy metadata database",
		Long: `Copy projects, scenarios, provenance, and tasks from an older metadata
database. Projects whose name is already taken are skipped together with
everything under them. Ids are reassigned; legacy ids do not survive.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := wire.AdminService().ImportLegacy(context.Background(), primary.ImportLegacyRequest{
				SourcePath: args[0],
				DryRun:     dryRun,
			})
			if err != nil {
				return err
			}

			verb := "Imported"
			if dryRun {
				verb = "Would import"
			}
			fmt.Printf("✓ %s %d projects, %d scenarios, %d tasks\n",
				verb, resp.ProjectsImported, resp.ScenariosImported, resp.TasksImported)
			if len(resp.Skipped) > 0 {
				fmt.Println("Skipped:")
				for _, note := range resp.Skipped {
					fmt.Printf("  - %s\n", note)
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Report what would be imported without writing")

	return cmd
}
