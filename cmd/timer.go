package cmd

import (
	"github.com/spf13/cobra"
	"github.com/xvierd/pomo-cli/internal/adapters/tui"
)

// timerCmd represents the timer command
var timerCmd = &cobra.Command{
	Use:   "timer",
	Short: "Open the interactive timer",
	Long:  `Open the full-screen timer. The countdown only advances while the timer (or "pomo mcp") is running.`,
	Args:  cobra.NoArgs,
	RunE:  runTimer,
}

func runTimer(cmd *cobra.Command, args []string) error {
	return launchTUI()
}

// launchTUI runs the interactive timer until the user quits or an
// interrupt arrives. State changes are autosaved while it runs.
func launchTUI() error {
	ctx := setupSignalHandler()
	timer := tui.NewTimer(app.pomodoro, app.tasks, app.dispatcher, &app.config.Theme, app.logger)
	return timer.Run(ctx)
}
