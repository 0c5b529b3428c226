package domain

// State is the complete persisted application state.
type State struct {
	Settings      Settings
	Session       Session
	Tasks         []*Task
	CurrentTaskID string
	History       StatsHistory
}

// DefaultState is the state of a first run.
func DefaultState() State {
	settings := DefaultSettings()
	return State{
		Settings: settings,
		Session:  NewSession(settings),
		Tasks:    []*Task{},
		History:  StatsHistory{},
	}
}

// CurrentTask resolves the current task id against the task list.
// A dangling id resolves to nil.
func (s State) CurrentTask() *Task {
	if s.CurrentTaskID == "" {
		return nil
	}
	for _, t := range s.Tasks {
		if t.ID == s.CurrentTaskID {
			return t
		}
	}
	return nil
}
