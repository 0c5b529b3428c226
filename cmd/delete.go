package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// deleteCmd represents the delete command
var deleteCmd = &cobra.Command{
	Use:     "delete [task]",
	Aliases: []string{"rm"},
	Short:   "Delete a task",
	Long:    `Delete a task by ID, ID prefix or title. Deleting the current task clears it.`,
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		task, err := app.tasks.DeleteTask(args[0])
		if err != nil {
			return fmt.Errorf("failed to delete task: %w", err)
		}

		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), map[string]interface{}{
				"deleted": true,
				"id":      task.ID,
				"title":   task.Title,
			})
		}
		fmt.Fprintf(cmd.OutOrStdout(), "🗑️  Task deleted: %s\n", task.Title)
		return nil
	},
}
