package notification

import (
	"math"

	"github.com/gen2brain/beeep"
	"github.com/xvierd/pomo-cli/internal/domain"
	"github.com/xvierd/pomo-cli/internal/ports"
)

// Chime plays the phase-change tones through the system beeper.
type Chime struct {
	notes []domain.ChimeNote
	beep  func(freq float64, ms int) error
}

// Ensure Chime implements ports.Chime.
var _ ports.Chime = (*Chime)(nil)

// NewChime creates a chime playing domain.ChimeNotes.
func NewChime() *Chime {
	return &Chime{notes: domain.ChimeNotes, beep: beeep.Beep}
}

// Play sounds every note in order and stops at the first failure.
func (c *Chime) Play() error {
	for _, note := range c.notes {
		if err := c.beep(note.Frequency, int(math.Round(note.Seconds*1000))); err != nil {
			return err
		}
	}
	return nil
}
