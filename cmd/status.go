package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/xvierd/pomo-cli/internal/domain"
)

// statusCmd represents the status command
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show current status",
	Long:  `Display the timer state, the current task and today's statistics.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return printStatus(cmd.OutOrStdout(), "")
	},
}

// printStatus writes the timer status, preceded by headline when set.
// With --json only the status object is written.
func printStatus(w io.Writer, headline string) error {
	status := app.pomodoro.Status()
	if jsonOutput {
		return printJSON(w, status)
	}
	if headline != "" {
		fmt.Fprintln(w, headline)
	}
	writeStatus(w, status)
	return nil
}

func writeStatus(w io.Writer, s domain.Status) {
	fmt.Fprintf(w, "%s %s · %s\n", s.Phase.Icon(), s.PhaseLabel, s.Status.Label())
	fmt.Fprintf(w, "   Remaining: %s (%d min left)\n", s.Remaining, s.MinutesLeft)
	fmt.Fprintf(w, "   Progress: %.0f%%\n", s.Progress*100)
	fmt.Fprintf(w, "   Cycle: %d/%d until long break\n", s.WorkSessionsSinceLongBreak, s.LongBreakEvery)
	if s.Ambient != "" {
		fmt.Fprintf(w, "   Ambient: %s\n", s.Ambient.Label())
	}

	if t := s.CurrentTask; t != nil {
		fmt.Fprintf(w, "\n📋 当前任务: %s (%d/%d)\n", t.Title, t.CompletedPomodoros, t.EstPomodoros)
	} else {
		fmt.Fprintf(w, "\n📋 当前任务: 未选择任务\n")
	}

	fmt.Fprintf(w, "\n📊 今日专注: %d 分钟 · 完成番茄: %d\n", s.Today.FocusMinutes, s.Today.CompletedPomodoros)
}
