package services

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/xvierd/pomo-cli/internal/domain"
	"github.com/xvierd/pomo-cli/internal/ports"
)

// EffectDispatcher executes transition effects against the notification and
// audio ports. Failures are logged and never reach the timer.
type EffectDispatcher struct {
	notifier ports.Notifier
	chime    ports.Chime
	ambient  ports.Ambient
	logger   *log.Logger
}

// NewEffectDispatcher creates a dispatcher. Any port may be nil.
func NewEffectDispatcher(notifier ports.Notifier, chime ports.Chime, ambient ports.Ambient, logger *log.Logger) *EffectDispatcher {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &EffectDispatcher{notifier: notifier, chime: chime, ambient: ambient, logger: logger}
}

// Dispatch runs effects in order.
func (d *EffectDispatcher) Dispatch(effects []domain.Effect) {
	if d == nil {
		return
	}
	for _, e := range effects {
		var err error
		switch e.Kind {
		case domain.EffectNotify:
			if d.notifier != nil {
				err = d.notifier.Notify(e.Title, e.Body)
			}
		case domain.EffectChime:
			if d.chime != nil {
				err = d.chime.Play()
			}
		case domain.EffectStartAmbient:
			if d.ambient != nil {
				err = d.ambient.Start(e.Noise)
			}
		case domain.EffectStopAmbient:
			if d.ambient != nil {
				err = d.ambient.Stop()
			}
		default:
			d.logger.Warn("unknown effect", "kind", e.Kind)
			continue
		}
		if err != nil {
			d.logger.Warn("effect failed", "kind", e.Kind, "err", err)
		}
	}
}
