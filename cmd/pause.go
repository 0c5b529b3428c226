package cmd

import (
	"github.com/spf13/cobra"
	"github.com/xvierd/pomo-cli/internal/domain"
)

// pauseCmd represents the pause command
var pauseCmd = &cobra.Command{
	Use:   "pause",
	Short: "Pause the running countdown",
	Long:  `Pause the running countdown. Pausing an idle or paused timer does nothing.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if app.pomodoro.Status().Status != domain.StatusRunning {
			return printStatus(cmd.OutOrStdout(), "Timer is not running")
		}
		dispatch(app.pomodoro.Pause())
		return printStatus(cmd.OutOrStdout(), "⏸️  Timer paused")
	},
}
