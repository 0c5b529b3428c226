package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/xvierd/pomo-cli/internal/domain"
	"github.com/xvierd/pomo-cli/internal/services"
)

var (
	listCompleted bool
	listAll       bool
)

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List tasks",
	Long:    `List active tasks (oldest first), completed tasks (newest first) or both.`,
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		tasks := app.tasks.ListTasks(services.ListTasksRequest{
			Completed: listCompleted,
			All:       listAll,
		})
		out := cmd.OutOrStdout()

		if jsonOutput {
			taskList := make([]map[string]interface{}, 0, len(tasks))
			for _, task := range tasks {
				taskList = append(taskList, taskJSON(task))
			}
			return printJSON(out, map[string]interface{}{
				"tasks": taskList,
				"count": len(taskList),
			})
		}

		if len(tasks) == 0 {
			fmt.Fprintln(out, "No tasks found.")
			return nil
		}

		current := app.tasks.CurrentTask()
		fmt.Fprintf(out, "📋 Tasks (%d):\n\n", len(tasks))
		for _, task := range tasks {
			marker := " "
			if current != nil && current.ID == task.ID {
				marker = "★"
			}
			fmt.Fprintf(out, "%s %s %s  %d/%d  (ID: %s)\n",
				marker, taskIcon(task), task.Title, task.CompletedPomodoros, task.EstPomodoros, task.ShortID())
		}
		return nil
	},
}

func init() {
	listCmd.Flags().BoolVarP(&listCompleted, "completed", "c", false, "List completed tasks instead of active ones")
	listCmd.Flags().BoolVarP(&listAll, "all", "a", false, "List active and completed tasks")
}

func taskIcon(t *domain.Task) string {
	if t.Completed {
		return "✅"
	}
	if t.CompletedPomodoros > 0 {
		return "▶️"
	}
	return "⏳"
}
