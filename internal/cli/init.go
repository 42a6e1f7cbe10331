package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/strata/internal/config"
	"github.com/example/strata/internal/db"
)

// InitCmd returns the init command
func InitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize the strata metadata database",
		Long:  `Initialize the metadata database at ~/.strata/strata.db and the projects directory.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			dbPath, err := db.GetDBPath()
			if err != nil {
				return fmt.Errorf("failed to get database path: %w", err)
			}

			fmt.Printf("Initializing strata database at %s\n", dbPath)

			if err := db.InitSchema(); err != nil {
				return fmt.Errorf("failed to initialize schema: %w", err)
			}
			fmt.Println("✓ Database initialized successfully")

			projectsDir, err := db.ProjectsDir()
			if err != nil {
				return err
			}
			if err := os.MkdirAll(projectsDir, 0755); err != nil {
				return fmt.Errorf("failed to create projects directory: %w", err)
			}
			fmt.Printf("✓ Projects directory ready at %s\n", projectsDir)

			if err := initConfig(); err != nil {
				return fmt.Errorf("failed to initialize config: %w", err)
			}
			fmt.Println("✓ Config file created at ~/.strata/config.json")
			fmt.Println()
			fmt.Println("Next steps:")
			fmt.Println("  strata project create \"My First Project\"")
			fmt.Println("  strata status")

			return nil
		},
	}
}

// initConfig creates the initial config.json file
func initConfig() error {
	home, err := config.HomeDir()
	if err != nil {
		return err
	}

	// Keep an existing config untouched.
	if _, err := config.LoadConfig(home); err == nil {
		return nil
	}
	return config.SaveConfig(home, config.Default())
}
