package cmd

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/xvierd/pomo-cli/internal/services"
	"github.com/xvierd/pomo-cli/internal/stats"
)

var (
	exportFormat string
	exportRange  string
	exportOutput string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export daily statistics",
	Long:  "Export the per-day focus history as CSV, or as JSON together with the task list.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := stats.ParseTimeRange(exportRange)
		if err != nil {
			return err
		}

		w := cmd.OutOrStdout()
		if exportOutput != "" {
			f, err := os.Create(exportOutput)
			if err != nil {
				return fmt.Errorf("failed to create export file: %w", err)
			}
			defer func() { _ = f.Close() }()
			w = f
		}

		report := app.stats.Report(r)
		switch exportFormat {
		case "csv":
			err = exportCSV(w, report)
		case "json":
			err = printJSON(w, map[string]interface{}{
				"range":  report.Range,
				"points": report.Points,
				"totals": report.Totals,
				"tasks":  app.tasks.ListTasks(services.ListTasksRequest{All: true}),
			})
		default:
			return fmt.Errorf("unknown export format %q (want csv or json)", exportFormat)
		}
		if err != nil {
			return err
		}

		if exportOutput != "" {
			fmt.Fprintf(cmd.ErrOrStderr(), "📤 Exported %d days to %s\n", len(report.Points), exportOutput)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "csv", "Output format: csv or json")
	exportCmd.Flags().StringVarP(&exportRange, "range", "r", "all", "Time range: 7days, 30days or all")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Write to a file instead of stdout")
}

func exportCSV(w io.Writer, report stats.Report) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{"date", "focus_minutes", "completed_pomodoros"}); err != nil {
		return fmt.Errorf("failed to write csv: %w", err)
	}
	for _, p := range report.Points {
		if err := cw.Write([]string{
			p.Date,
			strconv.Itoa(p.FocusMinutes),
			strconv.Itoa(p.CompletedPomodoros),
		}); err != nil {
			return fmt.Errorf("failed to write csv: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}
