package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/example/strata/internal/adapters/spatial"
	"github.com/example/strata/internal/config"
	"github.com/example/strata/internal/db"
)

// CheckResult represents the outcome of a single check
type CheckResult struct {
	Name    string
	Status  string // "✓", "⚠", "✗"
	Details string // Only shown if Status != "✓"
}

// DoctorCmd returns the doctor command for environment validation
func DoctorCmd() *cobra.Command {
	var quiet bool

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Validate the strata environment",
		Long: `Environment health check for strata.

Validates:
- Directory structure (~/.strata/, projects/)
- Metadata database and config file
- SpatiaLite extension availability

Examples:
  strata doctor              # Run full health check
  strata doctor --quiet      # Exit code only (0=healthy, 1=issues)`,
		RunE: func(cmd *cobra.Command, args []string) error {
			results := []CheckResult{
				checkDirectories(),
				checkDatabase(),
				checkConfig(),
				checkSpatialite(),
			}

			hasErrors := false
			for _, r := range results {
				if r.Status == "✗" {
					hasErrors = true
					break
				}
			}

			if !quiet {
				fmt.Println()
				fmt.Println("Check              Status")
				fmt.Println("─────────────────────────")
				for _, r := range results {
					fmt.Printf("%-18s %s\n", r.Name, r.Status)
				}
				fmt.Println()

				hasDetails := false
				for _, r := range results {
					if r.Status != "✓" && r.Details != "" {
						if !hasDetails {
							fmt.Println("Details:")
							hasDetails = true
						}
						fmt.Printf("\n%s:\n%s\n", r.Name, r.Details)
					}
				}

				if hasErrors {
					fmt.Println("\n⚠ Issues found. Run 'strata init' to set up the environment.")
				} else {
					fmt.Println("All checks passed.")
				}
			}

			if hasErrors {
				return fmt.Errorf("environment validation failed")
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Quiet mode - exit code only")

	return cmd
}

// checkDirectories validates the required directory structure
func checkDirectories() CheckResult {
	home, err := config.HomeDir()
	if err != nil {
		return CheckResult{Name: "Directories", Status: "✗", Details: "  Cannot get home directory"}
	}

	missing := []string{}
	if _, err := os.Stat(home); err != nil {
		missing = append(missing, home)
	}
	projectsDir, err := db.ProjectsDir()
	if err == nil {
		if _, err := os.Stat(projectsDir); err != nil {
			missing = append(missing, projectsDir)
		}
	}

	if len(missing) > 0 {
		details := ""
		for _, dir := range missing {
			details += fmt.Sprintf("  missing: %s\n", dir)
		}
		return CheckResult{Name: "Directories", Status: "✗", Details: details}
	}
	return CheckResult{Name: "Directories", Status: "✓"}
}

// checkDatabase validates that the metadata database exists
func checkDatabase() CheckResult {
	dbPath, err := db.GetDBPath()
	if err != nil {
		return CheckResult{Name: "Database", Status: "✗", Details: "  " + err.Error()}
	}
	if _, err := os.Stat(dbPath); err != nil {
		return CheckResult{Name: "Database", Status: "✗", Details: fmt.Sprintf("  %s not found", dbPath)}
	}
	return CheckResult{Name: "Database", Status: "✓"}
}

// checkConfig validates the config file
func checkConfig() CheckResult {
	home, err := config.HomeDir()
	if err != nil {
		return CheckResult{Name: "Config", Status: "✗", Details: "  " + err.Error()}
	}
	if _, err := config.LoadConfig(home); err != nil {
		return CheckResult{Name: "Config", Status: "⚠", Details: "  config.json missing, defaults apply"}
	}
	return CheckResult{Name: "Config", Status: "✓"}
}

// checkSpatialite probes for the SpatiaLite extension by opening a scratch
// store. Without the extension overlays fail; bookkeeping still works.
func checkSpatialite() CheckResult {
	dir, err := os.MkdirTemp("", "strata-doctor-*")
	if err != nil {
		return CheckResult{Name: "SpatiaLite", Status: "✗", Details: "  " + err.Error()}
	}
	defer os.RemoveAll(dir)

	session, err := spatial.NewStore().OpenSession(context.Background(), filepath.Join(dir, "probe.sqlite"))
	if err != nil {
		return CheckResult{Name: "SpatiaLite", Status: "✗", Details: "  " + err.Error()}
	}
	defer session.Close()

	if !session.Spatialite() {
		return CheckResult{
			Name:    "SpatiaLite",
			Status:  "⚠",
			Details: "  extension not loadable - overlays disabled, install mod_spatialite",
		}
	}
	return CheckResult{Name: "SpatiaLite", Status: "✓"}
}
