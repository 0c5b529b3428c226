package cmd

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"github.com/xvierd/pomo-cli/internal/domain"
)

var settingsCmd = &cobra.Command{
	Use:     "settings",
	Aliases: []string{"config"},
	Short:   "Show or change timer settings",
	Long: `Show or change the timer settings stored with the timer state.

Keys: ` + strings.Join(domain.SettingKeys, ", "),
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return showSettings(cmd.OutOrStdout())
	},
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the current settings",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return showSettings(cmd.OutOrStdout())
	},
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change one setting",
	Long: `Change one setting. Durations are clamped to 1-120 minutes and the
long break cadence to 2-8 focus sessions. Dashes in keys are accepted.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key := strings.ReplaceAll(strings.ToLower(args[0]), "-", "_")
		if phase, ok := durationKeys[key]; ok {
			effects, err := app.pomodoro.UpdateDuration(phase, float64(domain.ParseMinutes(args[1])))
			if err != nil {
				return err
			}
			dispatch(effects)
		} else {
			next, err := app.pomodoro.Settings().Set(key, args[1])
			if err != nil {
				return err
			}
			dispatch(app.pomodoro.ApplySettings(next))
		}

		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), app.pomodoro.Settings())
		}
		value, _ := app.pomodoro.Settings().Get(key)
		fmt.Fprintf(cmd.OutOrStdout(), "⚙️  %s = %s\n", key, value)
		return nil
	},
}

var settingsEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Edit settings in an interactive form",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		next, err := editSettings(app.pomodoro.Settings())
		if errors.Is(err, huh.ErrUserAborted) {
			fmt.Fprintln(cmd.OutOrStdout(), "Settings unchanged")
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to edit settings: %w", err)
		}
		if err := applyEdited(app.pomodoro.Settings(), next); err != nil {
			return err
		}
		return showSettings(cmd.OutOrStdout())
	},
}

// durationKeys maps the duration settings to the phase they time.
var durationKeys = map[string]domain.Phase{
	"work_minutes":        domain.PhaseWork,
	"short_break_minutes": domain.PhaseShortBreak,
	"long_break_minutes":  domain.PhaseLongBreak,
}

// durationEditor is the part of the timer that applies settings edits.
type durationEditor interface {
	ApplySettings(s domain.Settings) []domain.Effect
	UpdateDuration(p domain.Phase, minutes float64) ([]domain.Effect, error)
}

// applyEdited installs the non-duration fields of next as a whole and
// each changed duration through UpdateDuration, so an edited active
// phase restarts its countdown.
func applyEdited(current, next domain.Settings) error {
	return applySettingsEdit(app.pomodoro, current, next, dispatch)
}

func applySettingsEdit(ed durationEditor, current, next domain.Settings, run func([]domain.Effect)) error {
	rest := next
	rest.WorkMinutes = current.WorkMinutes
	rest.ShortBreakMinutes = current.ShortBreakMinutes
	rest.LongBreakMinutes = current.LongBreakMinutes
	run(ed.ApplySettings(rest))

	for _, p := range domain.Phases {
		if next.PhaseMinutes(p) == current.PhaseMinutes(p) {
			continue
		}
		effects, err := ed.UpdateDuration(p, float64(next.PhaseMinutes(p)))
		if err != nil {
			return err
		}
		run(effects)
	}
	return nil
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsEditCmd)
}

func showSettings(w io.Writer) error {
	s := app.pomodoro.Settings()
	if jsonOutput {
		return printJSON(w, s)
	}
	writeSettings(w, s)
	return nil
}

func writeSettings(w io.Writer, s domain.Settings) {
	fmt.Fprintln(w, "⚙️  Settings:")
	for _, key := range domain.SettingKeys {
		value, _ := s.Get(key)
		fmt.Fprintf(w, "  %-20s %s\n", key, value)
	}
}

// settingsForm binds the editable fields as text so that out-of-range input
// still reaches the clamping in Settings.Set.
type settingsForm struct {
	work, short, long, every string
	autoStart, sound, noise  bool
	noiseType                string
	mini, tray               bool
}

func newSettingsForm(s domain.Settings) *settingsForm {
	return &settingsForm{
		work:      strconv.Itoa(s.WorkMinutes),
		short:     strconv.Itoa(s.ShortBreakMinutes),
		long:      strconv.Itoa(s.LongBreakMinutes),
		every:     strconv.Itoa(s.LongBreakEvery),
		autoStart: s.AutoStartNext,
		sound:     s.SoundEnabled,
		noise:     s.WhiteNoiseEnabled,
		noiseType: string(s.WhiteNoiseType),
		mini:      s.MiniMode,
		tray:      s.MinimizeToTray,
	}
}

// apply folds the form values back into s.
func (f *settingsForm) apply(s domain.Settings) (domain.Settings, error) {
	values := map[string]string{
		"work_minutes":        f.work,
		"short_break_minutes": f.short,
		"long_break_minutes":  f.long,
		"long_break_every":    f.every,
		"auto_start_next":     strconv.FormatBool(f.autoStart),
		"sound_enabled":       strconv.FormatBool(f.sound),
		"white_noise_enabled": strconv.FormatBool(f.noise),
		"white_noise_type":    f.noiseType,
		"mini_mode":           strconv.FormatBool(f.mini),
		"minimize_to_tray":    strconv.FormatBool(f.tray),
	}
	var err error
	for _, key := range domain.SettingKeys {
		if s, err = s.Set(key, values[key]); err != nil {
			return s, err
		}
	}
	return s, nil
}

func editSettings(current domain.Settings) (domain.Settings, error) {
	f := newSettingsForm(current)

	noiseOptions := make([]huh.Option[string], len(domain.NoiseTypes))
	for i, n := range domain.NoiseTypes {
		noiseOptions[i] = huh.NewOption(n.Label(), string(n))
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("专注 (min)").Value(&f.work),
			huh.NewInput().Title("短休息 (min)").Value(&f.short),
			huh.NewInput().Title("长休息 (min)").Value(&f.long),
			huh.NewInput().Title("Focus sessions before long break").Value(&f.every),
		).Title("Durations"),
		huh.NewGroup(
			huh.NewConfirm().Title("Auto-start next phase").Value(&f.autoStart),
			huh.NewConfirm().Title("Completion chime").Value(&f.sound),
			huh.NewConfirm().Title("Ambient noise during focus").Value(&f.noise),
			huh.NewSelect[string]().Title("Noise").Options(noiseOptions...).Value(&f.noiseType),
			huh.NewConfirm().Title("Mini mode").Value(&f.mini),
			huh.NewConfirm().Title("Minimize to tray").Value(&f.tray),
		).Title("Behavior"),
	).WithShowHelp(true)

	if err := form.Run(); err != nil {
		return current, err
	}
	return f.apply(current)
}
