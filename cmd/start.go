package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	startTask  string
	startNoTUI bool
)

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start or resume the countdown",
	Long: `Start the countdown of the current phase (or resume it when paused)
and open the interactive timer. With --no-tui the running state is saved and
the command returns; the countdown advances the next time the timer opens.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if startTask != "" {
			if _, err := app.tasks.SelectTask(startTask); err != nil {
				return fmt.Errorf("failed to select task: %w", err)
			}
		}

		dispatch(app.pomodoro.Start())

		if startNoTUI {
			return printStatus(cmd.OutOrStdout(), "▶️  Timer started")
		}
		return launchTUI()
	},
}

func init() {
	startCmd.Flags().StringVarP(&startTask, "task", "t", "", "Task (ID, ID prefix or title) to work on")
	startCmd.Flags().BoolVar(&startNoTUI, "no-tui", false, "Start without opening the interactive timer")
}
