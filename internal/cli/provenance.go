package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/example/strata/internal/core/tasktree"
	"github.com/example/strata/internal/ports/primary"
	"github.com/example/strata/internal/wire"
)

// ProvenanceCmd returns the provenance command
func ProvenanceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "provenance",
		Short: "Record and inspect operation provenance",
		Long:  "Provenance groups the tasks of one processing run under a scenario.",
	}

	cmd.AddCommand(provenanceCreateCmd())
	cmd.AddCommand(provenanceListCmd())
	cmd.AddCommand(provenanceTreeCmd())
	cmd.AddCommand(taskAddCmd())
	cmd.AddCommand(taskFinishCmd())

	return cmd
}

func provenanceCreateCmd() *cobra.Command {
	var (
		project     string
		scenario    string
		description string
	)

	cmd := &cobra.Command{
		Use:   "create [name]",
		Short: "Create a provenance record under a scenario",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			projectName, err := resolveProject(project)
			if err != nil {
				return err
			}

			resp, err := wire.ProvenanceService().CreateProvenance(context.Background(), primary.CreateProvenanceRequest{
				ProjectName:  projectName,
				ScenarioName: scenario,
				Name:         args[0],
				Description:  description,
			})
			if err != nil {
				return err
			}

			fmt.Printf("✓ Created provenance %d: %s\n", resp.Provenance.ID, resp.Provenance.Name)
			return nil
		},
	}
	cmd.Flags().StringVarP(&project, "project", "p", "", "Project name")
	cmd.Flags().StringVarP(&scenario, "scenario", "s", "", "Scenario name")
	cmd.Flags().StringVarP(&description, "description", "d", "", "Description")
	cmd.MarkFlagRequired("scenario")

	return cmd
}

func provenanceListCmd() *cobra.Command {
	var (
		project  string
		scenario string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List provenance records of a scenario",
		RunE: func(cmd *cobra.Command, args []string) error {
			projectName, err := resolveProject(project)
			if err != nil {
				return err
			}

			records, err := wire.ProvenanceService().ListProvenance(context.Background(), projectName, scenario)
			if err != nil {
				return err
			}
			if len(records) == 0 {
				fmt.Println("No provenance records found")
				return nil
			}

			fmt.Printf("\n%-5s %-25s %s\n", "ID", "NAME", "CREATED")
			fmt.Println("────────────────────────────────────────────────────────────────")
			for _, record := range records {
				fmt.Printf("%-5d %-25s %s\n", record.ID, record.Name, record.CreatedAt.Format("2006-01-02 15:04"))
			}
			fmt.Println()

			return nil
		},
	}
	cmd.Flags().StringVarP(&project, "project", "p", "", "Project name")
	cmd.Flags().StringVarP(&scenario, "scenario", "s", "", "Scenario name")
	cmd.MarkFlagRequired("scenario")

	return cmd
}

func provenanceTreeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tree [provenance-id]",
		Short: "Show the task tree of a provenance record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			provenanceID, err := parseID(args[0])
			if err != nil {
				return err
			}

			forest, err := wire.ProvenanceService().TaskTree(context.Background(), provenanceID)
			if err != nil {
				return err
			}
			if len(forest) == 0 {
				fmt.Println("No tasks recorded")
				return nil
			}

			tasktree.Walk(forest, func(n *tasktree.Node, depth int) {
				indent := strings.Repeat("  ", depth)
				duration := ""
				if n.Task.DurationMS > 0 {
					duration = fmt.Sprintf(" (%dms)", n.Task.DurationMS)
				}
				fmt.Printf("%s- [%d] %s%s\n", indent, n.Task.ID, n.Task.Operation, duration)
				if len(n.Task.OutputTables) > 0 {
					fmt.Printf("%s    → %s\n", indent, strings.Join(n.Task.OutputTables, ", "))
				}
			})

			return nil
		},
	}
}

func taskAddCmd() *cobra.Command {
	var (
		provenanceID int64
		parentID     int64
		category     string
		inputs       []string
		outputs      []string
		parameters   string
		comments     string
	)

	cmd := &cobra.Command{
		Use:   "add-task [operation]",
		Short: "Record one task under a provenance record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := wire.ProvenanceService().AddTask(context.Background(), primary.AddTaskRequest{
				ProvenanceID: provenanceID,
				ParentTaskID: parentID,
				Operation:    args[0],
				Category:     category,
				InputTables:  inputs,
				OutputTables: outputs,
				Parameters:   parameters,
				Comments:     comments,
			})
			if err != nil {
				return err
			}

			fmt.Printf("✓ Recorded task %d: %s (step %d)\n", resp.Task.ID, resp.Task.Operation, resp.Task.StepOrder)
			return nil
		},
	}
	cmd.Flags().Int64Var(&provenanceID, "provenance", 0, "Provenance id (required)")
	cmd.Flags().Int64Var(&parentID, "parent", 0, "Parent task id (omit for a root task)")
	cmd.Flags().StringVarP(&category, "category", "c", "", "Task category")
	cmd.Flags().StringSliceVarP(&inputs, "input", "i", nil, "Input tables")
	cmd.Flags().StringSliceVarP(&outputs, "output", "o", nil, "Output tables")
	cmd.Flags().StringVar(&parameters, "parameters", "", "Operation parameters (free form)")
	cmd.Flags().StringVar(&comments, "comments", "", "Comments")
	cmd.MarkFlagRequired("provenance")

	return cmd
}

func taskFinishCmd() *cobra.Command {
	var durationMS int64

	cmd := &cobra.Command{
		Use:   "finish-task [task-id]",
		Short: "Backfill the duration of a recorded task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			taskID, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := wire.ProvenanceService().FinishTask(context.Background(), taskID, durationMS); err != nil {
				return err
			}
			fmt.Printf("✓ Task %d took %dms\n", taskID, durationMS)
			return nil
		},
	}
	cmd.Flags().Int64Var(&durationMS, "duration-ms", 0, "Duration in milliseconds")
	cmd.MarkFlagRequired("duration-ms")

	return cmd
}
