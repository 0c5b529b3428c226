package services

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/xvierd/pomo-cli/internal/domain"
	"github.com/xvierd/pomo-cli/internal/ports"
	"github.com/xvierd/pomo-cli/internal/snapshot"
	"github.com/xvierd/pomo-cli/internal/timeutil"
)

// PomodoroService is the session controller. It exclusively owns the
// countdown, the cycle counter, the task collection and the daily history,
// and applies every transition under one lock so a phase completion is
// observed either entirely or not at all.
type PomodoroService struct {
	mu       sync.Mutex
	settings domain.Settings
	session  domain.Session
	tasks    *domain.TaskStore
	history  domain.StatsHistory

	// ambient tracks what the ambient port was last told to play.
	ambientOn    bool
	ambientNoise domain.NoiseType

	store    ports.StateStore
	logger   *log.Logger
	now      func() time.Time
	onChange func()
}

// Option configures a PomodoroService.
type Option func(*PomodoroService)

// WithStore sets the snapshot store used by Load and Save.
func WithStore(store ports.StateStore) Option {
	return func(s *PomodoroService) { s.store = store }
}

// WithLogger sets the diagnostics logger.
func WithLogger(logger *log.Logger) Option {
	return func(s *PomodoroService) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock overrides the wall clock used for day keys and task timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *PomodoroService) {
		if now != nil {
			s.now = now
		}
	}
}

// NewPomodoroService creates a controller in the first-run state for settings.
func NewPomodoroService(settings domain.Settings, opts ...Option) *PomodoroService {
	settings = settings.Normalize()
	s := &PomodoroService{
		settings: settings,
		session:  domain.NewSession(settings),
		tasks:    domain.NewTaskStore(),
		history:  domain.StatsHistory{},
		logger:   log.New(io.Discard),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.tasks.SetClock(s.now)
	return s
}

// SetOnChange registers a hook called after every state change, outside the lock.
func (s *PomodoroService) SetOnChange(fn func()) {
	s.mu.Lock()
	s.onChange = fn
	s.mu.Unlock()
}

// Load replaces the in-memory state with the persisted snapshot.
// Malformed data is repaired and logged; a missing snapshot keeps defaults.
func (s *PomodoroService) Load(ctx context.Context) error {
	if s.store == nil {
		return nil
	}
	data, err := s.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load state: %w", err)
	}

	s.mu.Lock()
	base := s.settings
	s.mu.Unlock()

	res, err := snapshot.Decode(data, base)
	for _, w := range res.Warnings {
		s.logger.Warn(w)
	}
	if err != nil {
		s.logger.Warn("discarding unreadable snapshot", "err", err)
	}

	s.mu.Lock()
	s.restore(res.State)
	s.mu.Unlock()
	return nil
}

// restore installs state. The caller holds the lock.
func (s *PomodoroService) restore(state domain.State) {
	s.settings = state.Settings
	s.session = state.Session
	s.tasks = domain.RestoreTaskStore(state.Tasks, state.CurrentTaskID)
	s.tasks.SetClock(s.now)
	s.history = state.History
	if s.history == nil {
		s.history = domain.StatsHistory{}
	}
	s.ambientOn = false
	s.ambientNoise = ""
}

// Save writes the current snapshot to the store.
func (s *PomodoroService) Save(ctx context.Context) error {
	if s.store == nil {
		return nil
	}
	data, err := snapshot.Encode(s.State())
	if err != nil {
		return err
	}
	if err := s.store.Save(ctx, data); err != nil {
		return fmt.Errorf("failed to save state: %w", err)
	}
	return nil
}

// State returns a deep copy of the complete state.
func (s *PomodoroService) State() domain.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.State{
		Settings:      s.settings,
		Session:       s.session,
		Tasks:         s.tasks.All(),
		CurrentTaskID: s.tasks.CurrentID(),
		History:       s.history.Clone(),
	}
}

// Settings returns the current settings.
func (s *PomodoroService) Settings() domain.Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings
}

// History returns a copy of the daily statistics.
func (s *PomodoroService) History() domain.StatsHistory {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.history.Clone()
}

// Status returns the presentation view of the timer.
func (s *PomodoroService) Status() domain.Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.statusLocked()
}

func (s *PomodoroService) statusLocked() domain.Status {
	total := s.settings.PhaseSeconds(s.session.Phase)
	st := domain.Status{
		Phase:                      s.session.Phase,
		PhaseLabel:                 s.session.Phase.Label(),
		Status:                     s.session.Status,
		RemainingSeconds:           s.session.RemainingSeconds,
		TotalSeconds:               total,
		Remaining:                  timeutil.FormatSeconds(s.session.RemainingSeconds),
		MinutesLeft:                timeutil.MinutesLeft(s.session.RemainingSeconds),
		Progress:                   s.session.Progress(s.settings),
		WorkSessionsSinceLongBreak: s.session.WorkSessionsSinceLongBreak,
		LongBreakEvery:             s.settings.LongBreakEvery,
		CurrentTask:                s.tasks.Current(),
		Today:                      s.history.Get(s.todayKey()),
	}
	if s.ambientOn {
		st.Ambient = s.ambientNoise
	}
	return st
}

func (s *PomodoroService) todayKey() string {
	return timeutil.FormatDateKey(s.now())
}

// mutate runs fn under the lock, appends ambient effects for any change in
// the ambient condition, then fires the change hook.
func (s *PomodoroService) mutate(fn func() []domain.Effect) []domain.Effect {
	s.mu.Lock()
	effects := fn()
	effects = append(effects, s.ambientEffects()...)
	hook := s.onChange
	s.mu.Unlock()

	if hook != nil {
		hook()
	}
	return effects
}

// ambientEffects reconciles the ambient port with the current state.
func (s *PomodoroService) ambientEffects() []domain.Effect {
	want := s.settings.AmbientActive(s.session.Status, s.session.Phase)
	noise := s.settings.WhiteNoiseType

	switch {
	case want && (!s.ambientOn || s.ambientNoise != noise):
		s.ambientOn, s.ambientNoise = true, noise
		return []domain.Effect{{Kind: domain.EffectStartAmbient, Noise: noise}}
	case !want && s.ambientOn:
		s.ambientOn, s.ambientNoise = false, ""
		return []domain.Effect{{Kind: domain.EffectStopAmbient}}
	}
	return nil
}

// Start moves Idle or Paused to Running. If the countdown already sits at
// zero the completion transition runs immediately.
func (s *PomodoroService) Start() []domain.Effect {
	return s.mutate(func() []domain.Effect {
		if s.session.Status == domain.StatusRunning {
			return nil
		}
		s.session.Status = domain.StatusRunning
		if s.session.RemainingSeconds <= 0 {
			return s.completeLocked(true)
		}
		return nil
	})
}

// Pause moves Running to Paused. It is a no-op in any other status.
func (s *PomodoroService) Pause() []domain.Effect {
	return s.mutate(func() []domain.Effect {
		if s.session.Status == domain.StatusRunning {
			s.session.Status = domain.StatusPaused
		}
		return nil
	})
}

// Toggle starts a stopped timer or pauses a running one.
func (s *PomodoroService) Toggle() []domain.Effect {
	s.mu.Lock()
	running := s.session.Status == domain.StatusRunning
	s.mu.Unlock()
	if running {
		return s.Pause()
	}
	return s.Start()
}

// Reset restores the full duration of the current phase and stops the timer.
func (s *PomodoroService) Reset() []domain.Effect {
	return s.mutate(func() []domain.Effect {
		s.session.RemainingSeconds = s.settings.PhaseSeconds(s.session.Phase)
		s.session.Status = domain.StatusIdle
		return nil
	})
}

// Tick advances a running countdown by one second. Reaching zero completes
// the phase within the same locked step.
func (s *PomodoroService) Tick() []domain.Effect {
	s.mu.Lock()
	if s.session.Status != domain.StatusRunning {
		s.mu.Unlock()
		return nil
	}
	s.mu.Unlock()

	return s.mutate(func() []domain.Effect {
		if s.session.Status != domain.StatusRunning {
			return nil
		}
		s.session.RemainingSeconds = max(0, s.session.RemainingSeconds-1)
		if s.session.RemainingSeconds == 0 {
			return s.completeLocked(true)
		}
		return nil
	})
}

// Skip advances to the next phase without crediting statistics or task
// progress. It emits no notification or chime.
func (s *PomodoroService) Skip() []domain.Effect {
	return s.mutate(func() []domain.Effect {
		s.advanceLocked(false)
		return nil
	})
}

// SelectPhase jumps to phase p with its full duration, stopped.
func (s *PomodoroService) SelectPhase(p domain.Phase) ([]domain.Effect, error) {
	if !p.IsValid() {
		return nil, domain.ErrInvalidPhase
	}
	return s.mutate(func() []domain.Effect {
		s.session.Phase = p
		s.session.RemainingSeconds = s.settings.PhaseSeconds(p)
		s.session.Status = domain.StatusIdle
		return nil
	}), nil
}

// CompletePhase forces completion of the current phase as if the countdown
// had reached zero.
func (s *PomodoroService) CompletePhase() []domain.Effect {
	return s.mutate(func() []domain.Effect {
		return s.completeLocked(true)
	})
}

// completeLocked applies the completion transition. The caller holds the lock.
//
// A finished work phase credits today's statistics and the current task
// before the next phase is computed. The phase-switch notification and,
// when enabled, the chime are requested as effects.
func (s *PomodoroService) completeLocked(completedWork bool) []domain.Effect {
	finished := s.session.Phase

	if finished == domain.PhaseWork && completedWork {
		key := s.todayKey()
		stat := s.history.RecordFocus(key, s.settings.WorkMinutes)
		s.logger.Debug("focus session recorded", "date", key, "minutes", stat.FocusMinutes, "sessions", stat.CompletedPomodoros)

		if task := s.tasks.CreditPomodoro(); task != nil {
			s.logger.Debug("task credited", "task", task.ShortID(), "done", task.CompletedPomodoros, "est", task.EstPomodoros)
		}
	}

	s.advanceLocked(completedWork)

	effects := []domain.Effect{domain.NotifyEffect(finished, s.session.Phase, s.settings.AutoStartNext)}
	if s.settings.SoundEnabled {
		effects = append(effects, domain.Effect{Kind: domain.EffectChime})
	}
	return effects
}

// advanceLocked moves to the next phase. The caller holds the lock.
func (s *PomodoroService) advanceLocked(completedWork bool) {
	next, count := domain.NextPhase(s.session.Phase, s.session.WorkSessionsSinceLongBreak, s.settings.LongBreakEvery, completedWork)
	s.session.Phase = next
	s.session.WorkSessionsSinceLongBreak = count
	s.session.RemainingSeconds = s.settings.PhaseSeconds(next)
	if s.settings.AutoStartNext {
		s.session.Status = domain.StatusRunning
	} else {
		s.session.Status = domain.StatusIdle
	}
}

// ApplySettings replaces the settings. Bounded fields are clamped. When the
// timer is not running and the duration of the active phase changed, the
// countdown is re-derived from the new duration; a running countdown is
// never truncated.
func (s *PomodoroService) ApplySettings(next domain.Settings) []domain.Effect {
	next = next.Normalize()
	return s.mutate(func() []domain.Effect {
		prev := s.settings
		s.settings = next

		if s.session.Status != domain.StatusRunning && prev.PhaseMinutes(s.session.Phase) != next.PhaseMinutes(s.session.Phase) {
			s.session.RemainingSeconds = next.PhaseSeconds(s.session.Phase)
		}
		s.session.WorkSessionsSinceLongBreak = min(s.session.WorkSessionsSinceLongBreak, next.LongBreakEvery-1)
		return nil
	})
}

// UpdateDuration sets the duration of one phase from raw user input. When
// the timer is not running and p is the active phase, the countdown restarts
// from the new duration even if the value did not change.
func (s *PomodoroService) UpdateDuration(p domain.Phase, minutes float64) ([]domain.Effect, error) {
	if !p.IsValid() {
		return nil, domain.ErrInvalidPhase
	}
	v := domain.ClampMinutes(minutes)
	return s.mutate(func() []domain.Effect {
		switch p {
		case domain.PhaseWork:
			s.settings.WorkMinutes = v
		case domain.PhaseShortBreak:
			s.settings.ShortBreakMinutes = v
		default:
			s.settings.LongBreakMinutes = v
		}
		if s.session.Status != domain.StatusRunning && s.session.Phase == p {
			s.session.RemainingSeconds = s.settings.PhaseSeconds(p)
		}
		return nil
	}), nil
}

// UpdateLongBreakEvery sets the long-break cadence from raw user input.
func (s *PomodoroService) UpdateLongBreakEvery(v float64) []domain.Effect {
	settings := s.Settings()
	settings.LongBreakEvery = domain.ClampLongBreakEvery(v)
	return s.ApplySettings(settings)
}

// WithTasks runs fn against the task store under the controller lock and
// fires the change hook when fn succeeds.
func (s *PomodoroService) WithTasks(fn func(store *domain.TaskStore) error) error {
	s.mu.Lock()
	err := fn(s.tasks)
	hook := s.onChange
	s.mu.Unlock()

	if err == nil && hook != nil {
		hook()
	}
	return err
}

// ReadTasks runs fn against the task store under the lock without
// signalling a change.
func (s *PomodoroService) ReadTasks(fn func(store *domain.TaskStore)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.tasks)
}
