package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/xvierd/pomo-cli/internal/adapters/tui"
	"github.com/xvierd/pomo-cli/internal/domain"
)

// phaseCmd represents the phase command
var phaseCmd = &cobra.Command{
	Use:   "phase [work|short|long]",
	Short: "Jump to a phase",
	Long: `Jump to a phase with its full duration, stopped. The cycle counter is
kept. Without an argument an interactive picker is shown.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var phase domain.Phase
		if len(args) == 1 {
			p, err := domain.ParsePhase(args[0])
			if err != nil {
				return fmt.Errorf("%w: %q (want work, short or long)", err, args[0])
			}
			phase = p
		} else {
			res := tui.RunPicker("Phase:", tui.PhaseItems(app.pomodoro.Settings()), &app.config.Theme)
			if res.Aborted {
				return nil
			}
			phase = domain.Phases[res.Index]
		}

		effects, err := app.pomodoro.SelectPhase(phase)
		if err != nil {
			return err
		}
		dispatch(effects)
		return printStatus(cmd.OutOrStdout(), fmt.Sprintf("%s Switched to %s", phase.Icon(), phase.Label()))
	},
}
