package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/xvierd/pomo-cli/internal/adapters/tui"
	"github.com/xvierd/pomo-cli/internal/services"
)

// doneCmd represents the done command
var doneCmd = &cobra.Command{
	Use:   "done [task]",
	Short: "Toggle a task between active and completed",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		task, err := app.tasks.ToggleTask(args[0])
		if err != nil {
			return fmt.Errorf("failed to toggle task: %w", err)
		}

		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), taskJSON(task))
		}
		if task.Completed {
			fmt.Fprintf(cmd.OutOrStdout(), "✅ Task completed: %s\n", task.Title)
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "↩️  Task reopened: %s\n", task.Title)
		}
		return nil
	},
}

// selectCmd represents the select command
var selectCmd = &cobra.Command{
	Use:   "select [task]",
	Short: "Make a task current",
	Long: `Make a task current so finished focus sessions are credited to it.
Without an argument an interactive picker of active tasks is shown.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ref := ""
		if len(args) == 1 {
			ref = args[0]
		} else {
			active := app.tasks.ListTasks(services.ListTasksRequest{})
			if len(active) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No active tasks. Add one with: pomo add <title>")
				return nil
			}
			res := tui.RunPicker("Task:", tui.TaskItems(active), &app.config.Theme)
			if res.Aborted {
				return nil
			}
			ref = active[res.Index].ID
		}

		task, err := app.tasks.SelectTask(ref)
		if err != nil {
			return fmt.Errorf("failed to select task: %w", err)
		}

		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), taskJSON(task))
		}
		fmt.Fprintf(cmd.OutOrStdout(), "🎯 Current task: %s\n", task.Title)
		return nil
	},
}

// unselectCmd represents the unselect command
var unselectCmd = &cobra.Command{
	Use:   "unselect",
	Short: "Clear the current task",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app.tasks.ClearCurrent()
		fmt.Fprintln(cmd.OutOrStdout(), "Current task cleared")
		return nil
	},
}
