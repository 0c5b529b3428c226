package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/xvierd/pomo-cli/internal/services"
)

var (
	editTitle string
	editEst   int
)

// editCmd represents the edit command
var editCmd = &cobra.Command{
	Use:   "edit [task]",
	Short: "Change a task's title or estimate",
	Long: `Change the title and/or the estimated number of focus sessions of a task.
Lowering the estimate below the completed count lowers the completed count too.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		req := services.EditTaskRequest{Ref: args[0]}
		if cmd.Flags().Changed("title") {
			req.Title = &editTitle
		}
		if cmd.Flags().Changed("est") {
			req.EstPomodoros = &editEst
		}
		if req.Title == nil && req.EstPomodoros == nil {
			return errors.New("nothing to change: pass --title and/or --est")
		}

		task, err := app.tasks.EditTask(req)
		if err != nil {
			return fmt.Errorf("failed to edit task: %w", err)
		}

		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), taskJSON(task))
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✏️  Task updated: %s (%d/%d)\n", task.Title, task.CompletedPomodoros, task.EstPomodoros)
		return nil
	},
}

func init() {
	editCmd.Flags().StringVar(&editTitle, "title", "", "New title")
	editCmd.Flags().IntVarP(&editEst, "est", "e", 1, "New estimate")
}
