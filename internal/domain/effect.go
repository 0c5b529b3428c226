package domain

import "fmt"

// EffectKind names a side effect requested by a timer transition.
type EffectKind string

const (
	EffectNotify       EffectKind = "notify"
	EffectChime        EffectKind = "chime"
	EffectStartAmbient EffectKind = "start_ambient"
	EffectStopAmbient  EffectKind = "stop_ambient"
)

// PhaseSwitchTitle is the notification title used for every phase change.
const PhaseSwitchTitle = "阶段切换"

// Effect is a side effect for the application shell to execute after a
// transition has been applied. Transitions never perform I/O themselves.
type Effect struct {
	Kind  EffectKind `json:"kind"`
	Title string     `json:"title,omitempty"`
	Body  string     `json:"body,omitempty"`
	Noise NoiseType  `json:"noise,omitempty"`
}

// NotifyEffect builds the phase-switch notification for a completed phase.
func NotifyEffect(completed, next Phase, autoStarted bool) Effect {
	var body string
	if autoStarted {
		body = fmt.Sprintf("%s结束，%s已开始。", completed.Label(), next.Label())
	} else {
		body = fmt.Sprintf("%s结束，准备进入%s。", completed.Label(), next.Label())
	}
	return Effect{Kind: EffectNotify, Title: PhaseSwitchTitle, Body: body}
}

// ChimeNote is one tone of the phase-change chime.
type ChimeNote struct {
	Frequency float64
	Seconds   float64
}

// ChimeNotes is the ascending C5, E5, G5 phrase played on phase change.
var ChimeNotes = []ChimeNote{
	{Frequency: 523.25, Seconds: 0.15},
	{Frequency: 659.25, Seconds: 0.15},
	{Frequency: 783.99, Seconds: 0.3},
}
