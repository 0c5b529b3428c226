package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/xvierd/pomo-cli/internal/adapters/tui"
	"github.com/xvierd/pomo-cli/internal/domain"
	"github.com/xvierd/pomo-cli/internal/services"
)

var (
	addEst    int
	addSelect bool
)

// addCmd represents the add command
var addCmd = &cobra.Command{
	Use:   "add [title]",
	Short: "Add a new task",
	Long:  `Add a new task. Without a title an input prompt is shown.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		title := strings.Join(args, " ")
		if len(args) == 0 {
			res := tui.RunTextPrompt("Task:", "What are you working on?", &app.config.Theme)
			if res.Aborted {
				return nil
			}
			title = res.Value
		}

		task, err := app.tasks.AddTask(services.AddTaskRequest{
			Title:        title,
			EstPomodoros: addEst,
			Select:       addSelect,
		})
		if err != nil {
			return fmt.Errorf("failed to add task: %w", err)
		}

		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), taskJSON(task))
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✅ Task added: %s (ID: %s, est. %d)\n", task.Title, task.ShortID(), task.EstPomodoros)
		return nil
	},
}

func init() {
	addCmd.Flags().IntVarP(&addEst, "est", "e", 1, "Estimated number of focus sessions")
	addCmd.Flags().BoolVarP(&addSelect, "select", "s", false, "Make the new task current")
}

// taskJSON is the JSON shape of a task in CLI output.
func taskJSON(t *domain.Task) map[string]interface{} {
	return map[string]interface{}{
		"id":                  t.ID,
		"title":               t.Title,
		"est_pomodoros":       t.EstPomodoros,
		"completed_pomodoros": t.CompletedPomodoros,
		"completed":           t.Completed,
		"created_at":          t.CreatedAt.Format("2006-01-02T15:04:05"),
	}
}
