package cmd

import (
	"github.com/spf13/cobra"
)

// resetCmd represents the reset command
var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Restore the full duration of the current phase",
	Long:  `Stop the countdown and restore the full duration of the current phase. Nothing is recorded.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		dispatch(app.pomodoro.Reset())
		return printStatus(cmd.OutOrStdout(), "🔄 Timer reset")
	},
}

// skipCmd represents the skip command
var skipCmd = &cobra.Command{
	Use:   "skip",
	Short: "Advance to the next phase without recording progress",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		dispatch(app.pomodoro.Skip())
		return printStatus(cmd.OutOrStdout(), "⏭️  Skipped to the next phase")
	},
}
