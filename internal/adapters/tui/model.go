// Package tui provides the terminal user interface implementation
// using the Bubbletea framework.
package tui

import (
	"reflect"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/xvierd/pomo-cli/internal/config"
	"github.com/xvierd/pomo-cli/internal/domain"
	"github.com/xvierd/pomo-cli/internal/services"
)

// Controller is the timer surface driven by the model.
type Controller interface {
	Status() domain.Status
	Settings() domain.Settings
	Toggle() []domain.Effect
	Reset() []domain.Effect
	Skip() []domain.Effect
	Tick() []domain.Effect
	SelectPhase(p domain.Phase) ([]domain.Effect, error)
	ApplySettings(s domain.Settings) []domain.Effect
}

// TaskManager is the task surface driven by the model.
type TaskManager interface {
	AddTask(req services.AddTaskRequest) (*domain.Task, error)
	DeleteTask(ref string) (*domain.Task, error)
	ToggleTask(ref string) (*domain.Task, error)
	SelectTask(ref string) (*domain.Task, error)
	ClearCurrent()
	ListTasks(req services.ListTasksRequest) []*domain.Task
}

// resolveTheme fills any empty string fields in the given ThemeConfig with defaults.
// If theme is nil, returns the full default theme.
func resolveTheme(theme *config.ThemeConfig) config.ThemeConfig {
	defaults := config.DefaultThemeConfig()
	if theme == nil {
		return defaults
	}
	resolved := *theme
	rv := reflect.ValueOf(&resolved).Elem()
	dv := reflect.ValueOf(defaults)
	for i := 0; i < rv.NumField(); i++ {
		f := rv.Field(i)
		if f.Kind() == reflect.String && f.String() == "" {
			f.SetString(dv.Field(i).String())
		}
	}
	return resolved
}

// tickMsg is sent once per second while the countdown runs. A tick whose
// generation no longer matches the model's is stale and ignored.
type tickMsg struct {
	gen int
}

// Model represents the TUI state.
type Model struct {
	ctrl     Controller
	tasks    TaskManager
	dispatch func([]domain.Effect)
	theme    config.ThemeConfig

	status   domain.Status
	settings domain.Settings
	list     []*domain.Task

	progress progress.Model
	help     help.Model
	input    textinput.Model
	width    int
	height   int

	tickGen int
	ticking bool

	cursor        int
	showCompleted bool
	adding        bool
	lastError     string
}

// NewModel creates a new TUI model. dispatch receives the side effects of
// every transition and may be nil.
func NewModel(ctrl Controller, tasks TaskManager, dispatch func([]domain.Effect), theme *config.ThemeConfig) Model {
	t := resolveTheme(theme)

	input := textinput.New()
	input.Placeholder = "任务名称"
	input.CharLimit = 120
	input.Width = 40

	m := Model{
		ctrl:     ctrl,
		tasks:    tasks,
		dispatch: dispatch,
		theme:    t,
		progress: progress.New(progress.WithGradient(t.WorkGradientStart, t.WorkGradientEnd), progress.WithoutPercentage()),
		help:     help.New(),
		input:    input,
	}
	m.refresh()
	return m
}

// Init initializes the TUI. A countdown restored as running resumes at once.
func (m Model) Init() tea.Cmd {
	if m.status.Status == domain.StatusRunning {
		return tickCmd(m.tickGen)
	}
	return nil
}

func tickCmd(gen int) tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		return tickMsg{gen: gen}
	})
}

// refresh reloads the cached views from the controller.
func (m *Model) refresh() {
	m.status = m.ctrl.Status()
	m.settings = m.ctrl.Settings()
	if m.tasks != nil {
		m.list = m.tasks.ListTasks(services.ListTasksRequest{Completed: m.showCompleted})
	}
	if m.cursor >= len(m.list) {
		m.cursor = max(0, len(m.list)-1)
	}
	m.progress = m.phaseProgress()
}

func (m Model) phaseProgress() progress.Model {
	start, end := m.theme.WorkGradientStart, m.theme.WorkGradientEnd
	switch {
	case m.status.Status == domain.StatusPaused:
		start, end = m.theme.PausedGradientStart, m.theme.PausedGradientEnd
	case m.status.Phase.IsBreak():
		start, end = m.theme.BreakGradientStart, m.theme.BreakGradientEnd
	}
	p := progress.New(progress.WithGradient(start, end), progress.WithoutPercentage())
	p.Width = m.progress.Width
	if p.Width == 0 {
		p.Width = 40
	}
	return p
}

// apply executes effects, refreshes the view and keeps exactly one tick in
// flight while the countdown runs.
func (m Model) apply(effects []domain.Effect) (Model, tea.Cmd) {
	if len(effects) > 0 && m.dispatch != nil {
		m.dispatch(effects)
	}
	m.refresh()
	return m.syncTick()
}

func (m Model) syncTick() (Model, tea.Cmd) {
	running := m.status.Status == domain.StatusRunning
	switch {
	case running && !m.ticking:
		m.tickGen++
		m.ticking = true
		return m, tickCmd(m.tickGen)
	case !running && m.ticking:
		m.tickGen++
		m.ticking = false
	}
	return m, nil
}

func (m Model) selectedTask() *domain.Task {
	if m.cursor < 0 || m.cursor >= len(m.list) {
		return nil
	}
	return m.list[m.cursor]
}

func (m *Model) setError(err error) {
	if err != nil {
		m.lastError = err.Error()
	} else {
		m.lastError = ""
	}
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.progress.Width = min(max(msg.Width-8, 10), 60)
		return m, nil

	case tickMsg:
		if msg.gen != m.tickGen || !m.ticking {
			return m, nil
		}
		m.ticking = false
		return m.apply(m.ctrl.Tick())

	case tea.KeyMsg:
		if m.adding {
			return m.updateAdding(msg)
		}
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m Model) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(msg, keys.Toggle):
		return m.apply(m.ctrl.Toggle())
	case key.Matches(msg, keys.Reset):
		return m.apply(m.ctrl.Reset())
	case key.Matches(msg, keys.Skip):
		return m.apply(m.ctrl.Skip())
	case key.Matches(msg, keys.Work):
		return m.selectPhase(domain.PhaseWork)
	case key.Matches(msg, keys.ShortBreak):
		return m.selectPhase(domain.PhaseShortBreak)
	case key.Matches(msg, keys.LongBreak):
		return m.selectPhase(domain.PhaseLongBreak)
	case key.Matches(msg, keys.Mini):
		s := m.settings
		s.MiniMode = !s.MiniMode
		return m.apply(m.ctrl.ApplySettings(s))
	}

	if m.tasks == nil {
		return m, nil
	}

	switch {
	case key.Matches(msg, keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, keys.Down):
		if m.cursor < len(m.list)-1 {
			m.cursor++
		}
	case key.Matches(msg, keys.Filter):
		m.showCompleted = !m.showCompleted
		m.cursor = 0
		m.refresh()
	case key.Matches(msg, keys.Select):
		if t := m.selectedTask(); t != nil && !t.Completed {
			_, err := m.tasks.SelectTask(t.ID)
			m.setError(err)
			m.refresh()
		}
	case key.Matches(msg, keys.Complete):
		if t := m.selectedTask(); t != nil {
			_, err := m.tasks.ToggleTask(t.ID)
			m.setError(err)
			m.refresh()
		}
	case key.Matches(msg, keys.Delete):
		if t := m.selectedTask(); t != nil {
			_, err := m.tasks.DeleteTask(t.ID)
			m.setError(err)
			m.refresh()
		}
	case key.Matches(msg, keys.Unselect):
		m.tasks.ClearCurrent()
		m.refresh()
	case key.Matches(msg, keys.Add):
		m.adding = true
		m.input.Reset()
		m.input.Focus()
		return m, textinput.Blink
	}
	return m, nil
}

func (m Model) selectPhase(p domain.Phase) (tea.Model, tea.Cmd) {
	effects, err := m.ctrl.SelectPhase(p)
	m.setError(err)
	return m.apply(effects)
}

func (m Model) updateAdding(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Cancel):
		m.adding = false
		m.input.Blur()
		return m, nil
	case key.Matches(msg, keys.Confirm):
		_, err := m.tasks.AddTask(services.AddTaskRequest{Title: m.input.Value(), EstPomodoros: 1})
		m.setError(err)
		m.adding = false
		m.input.Blur()
		m.showCompleted = false
		m.refresh()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}
