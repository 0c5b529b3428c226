package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"
	"github.com/xvierd/pomo-cli/internal/domain"
	"github.com/xvierd/pomo-cli/internal/stats"
	"github.com/xvierd/pomo-cli/internal/timeutil"
)

var statsRange string

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show daily focus statistics",
	Long:  `Display focus minutes and finished focus sessions per day, with totals and a bar chart.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := stats.ParseTimeRange(statsRange)
		if err != nil {
			return err
		}
		report := app.stats.Report(r)

		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), report)
		}
		renderDashboard(cmd.OutOrStdout(), report, terminalWidth(), app.stats.FormatDate)
		return nil
	},
}

func init() {
	statsCmd.Flags().StringVarP(&statsRange, "range", "r", "7days", "Time range: 7days, 30days or all")
	rootCmd.AddCommand(statsCmd)
}

// terminalWidth returns the stdout width, or 80 when stdout is not a terminal.
func terminalWidth() int {
	w, _, err := term.GetSize(os.Stdout.Fd())
	if err != nil || w <= 0 {
		return 80
	}
	return w
}

func renderDashboard(w io.Writer, report stats.Report, width int, formatDate func(string) string) {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#E05D5D"))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	valueStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#F4A261"))

	fmt.Fprintf(w, "\n  %s\n", titleStyle.Render(report.Range.Label()))
	fmt.Fprintf(w, "  %s\n\n", dimStyle.Render(strings.Repeat("─", 40)))

	fmt.Fprintf(w, "  专注合计: %s · 完成番茄: %s\n",
		valueStyle.Render(fmt.Sprintf("%d 分钟", report.Totals.TotalMinutes)),
		valueStyle.Render(fmt.Sprintf("%d", report.Totals.TotalSessions)),
	)
	fmt.Fprintf(w, "  %s\n",
		dimStyle.Render(fmt.Sprintf("%d active days · avg %.1f min/day", report.ActiveDays, report.DailyAvgMin)))
	if report.BestDay != nil {
		fmt.Fprintf(w, "  %s %s\n",
			dimStyle.Render("Best day:"),
			valueStyle.Render(fmt.Sprintf("%s (%d 分钟)", formatDate(report.BestDay.Date), report.BestDay.FocusMinutes)))
	}
	fmt.Fprintln(w)

	if report.Totals.TotalSessions == 0 {
		fmt.Fprintf(w, "  %s\n\n", dimStyle.Render("No finished focus sessions in this range."))
		return
	}

	fmt.Fprintln(w, indent(renderChart(report.Points, width, formatDate), "  "))
	fmt.Fprintln(w)

	fmt.Fprintf(w, "  %s\n", dimStyle.Render("History"))
	for _, p := range stats.NewestFirst(report.Points) {
		line := fmt.Sprintf("%-8s %4d 分钟  %2d 番茄", formatDate(p.Date), p.FocusMinutes, p.CompletedPomodoros)
		if p.CompletedPomodoros == 0 {
			fmt.Fprintf(w, "  %s\n", dimStyle.Render(line))
		} else {
			fmt.Fprintf(w, "  %s\n", line)
		}
	}
	fmt.Fprintln(w)
}

// renderChart draws focus minutes per day as a bar chart sized to width.
func renderChart(points []domain.DailyStat, width int, formatDate func(string) string) string {
	chartWidth := min(max(width-4, 20), 100)
	chart := barchart.New(chartWidth, 10)

	barStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#E05D5D"))
	bars := make([]barchart.BarData, 0, len(points))
	for _, p := range points {
		bars = append(bars, barchart.BarData{
			Label: chartLabel(p.Date, len(points), formatDate),
			Values: []barchart.BarValue{{
				Name:  "focus",
				Value: float64(p.FocusMinutes),
				Style: barStyle,
			}},
		})
	}

	chart.PushAll(bars)
	chart.Draw()
	return chart.View()
}

// chartLabel keeps labels short enough to fit under narrow bars.
func chartLabel(key string, n int, formatDate func(string) string) string {
	if n <= 7 {
		return formatDate(key)
	}
	t, err := timeutil.ParseDateKey(key, time.Local)
	if err != nil {
		return key
	}
	return t.Format("02")
}

func indent(s, prefix string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = prefix + l
	}
	return strings.Join(lines, "\n")
}
