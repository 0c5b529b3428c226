package domain

import (
	"testing"
)

func TestNextPhase(t *testing.T) {
	tests := []struct {
		name      string
		current   Phase
		count     int
		every     int
		completed bool
		wantPhase Phase
		wantCount int
	}{
		{"work completes below cadence", PhaseWork, 0, 4, true, PhaseShortBreak, 1},
		{"work completes at cadence", PhaseWork, 3, 4, true, PhaseLongBreak, 0},
		{"work skipped keeps count", PhaseWork, 3, 4, false, PhaseShortBreak, 3},
		{"short break returns to work", PhaseShortBreak, 2, 4, false, PhaseWork, 2},
		{"long break returns to work", PhaseLongBreak, 0, 4, true, PhaseWork, 0},
		{"cadence of two", PhaseWork, 1, 2, true, PhaseLongBreak, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			phase, count := NextPhase(tt.current, tt.count, tt.every, tt.completed)
			if phase != tt.wantPhase || count != tt.wantCount {
				t.Errorf("NextPhase() = (%v, %d), want (%v, %d)", phase, count, tt.wantPhase, tt.wantCount)
			}
		})
	}
}

func TestNextPhase_CycleWithCadenceFour(t *testing.T) {
	want := []Phase{
		PhaseShortBreak, PhaseWork,
		PhaseShortBreak, PhaseWork,
		PhaseShortBreak, PhaseWork,
		PhaseLongBreak, PhaseWork,
	}

	phase, count := PhaseWork, 0
	for i, w := range want {
		phase, count = NextPhase(phase, count, 4, true)
		if phase != w {
			t.Fatalf("step %d: phase = %v, want %v", i, phase, w)
		}
		if count < 0 || count >= 4 {
			t.Fatalf("step %d: count %d out of range", i, count)
		}
	}
	if count != 0 {
		t.Errorf("count after a full cycle = %d, want 0", count)
	}
}

func TestNewSession(t *testing.T) {
	s := NewSession(DefaultSettings())
	if s.Phase != PhaseWork || s.Status != StatusIdle {
		t.Errorf("NewSession() = %+v", s)
	}
	if s.RemainingSeconds != 1500 {
		t.Errorf("RemainingSeconds = %d, want 1500", s.RemainingSeconds)
	}
}

func TestSession_Progress(t *testing.T) {
	settings := DefaultSettings()
	tests := []struct {
		remaining int
		want      float64
	}{
		{1500, 0},
		{750, 0.5},
		{0, 1},
		{3000, 0},
	}

	for _, tt := range tests {
		s := Session{Phase: PhaseWork, RemainingSeconds: tt.remaining}
		if got := s.Progress(settings); got != tt.want {
			t.Errorf("Progress(remaining=%d) = %v, want %v", tt.remaining, got, tt.want)
		}
	}
}

func TestNotifyEffect(t *testing.T) {
	auto := NotifyEffect(PhaseWork, PhaseShortBreak, true)
	if auto.Title != "阶段切换" {
		t.Errorf("Title = %q", auto.Title)
	}
	if auto.Body != "专注结束，短休息已开始。" {
		t.Errorf("auto-start body = %q", auto.Body)
	}

	ready := NotifyEffect(PhaseLongBreak, PhaseWork, false)
	if ready.Body != "长休息结束，准备进入专注。" {
		t.Errorf("ready body = %q", ready.Body)
	}
}
