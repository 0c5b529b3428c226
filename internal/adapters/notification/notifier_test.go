package notification

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/xvierd/pomo-cli/internal/config"
	"github.com/xvierd/pomo-cli/internal/domain"
)

func TestNotifier_Gated(t *testing.T) {
	var sent []string
	fake := func(title, message string) error {
		sent = append(sent, title+"|"+message)
		return nil
	}

	disabled := &Notifier{cfg: &config.NotificationConfig{Enabled: false}, send: fake}
	assert.NoError(t, disabled.Notify("t", "b"))
	assert.False(t, disabled.IsEnabled())

	none := &Notifier{send: fake}
	assert.NoError(t, none.Notify("t", "b"))
	assert.Empty(t, sent)

	enabled := &Notifier{cfg: &config.NotificationConfig{Enabled: true}, send: fake}
	assert.NoError(t, enabled.Notify(domain.PhaseSwitchTitle, "专注结束，准备进入短休息。"))
	assert.Equal(t, []string{"阶段切换|专注结束，准备进入短休息。"}, sent)
}

func TestChime_Play(t *testing.T) {
	type tone struct {
		freq float64
		ms   int
	}
	var played []tone
	c := &Chime{notes: domain.ChimeNotes, beep: func(freq float64, ms int) error {
		played = append(played, tone{freq, ms})
		return nil
	}}

	assert.NoError(t, c.Play())
	assert.Equal(t, []tone{{523.25, 150}, {659.25, 150}, {783.99, 300}}, played)

	c.beep = func(float64, int) error { return errors.New("no speaker") }
	assert.Error(t, c.Play())
}

func TestAmbient(t *testing.T) {
	a := NewAmbient(nil)
	assert.Empty(t, a.Current())

	assert.NoError(t, a.Start(domain.NoiseRain))
	assert.Equal(t, domain.NoiseRain, a.Current())
	assert.NoError(t, a.Start(domain.NoiseFire))
	assert.Equal(t, domain.NoiseFire, a.Current())

	assert.NoError(t, a.Stop())
	assert.Empty(t, a.Current())
	assert.NoError(t, a.Stop())
}
