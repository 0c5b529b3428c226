package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/xvierd/pomo-cli/internal/domain"
)

// visibleTasks caps the task list so the countdown stays on screen.
const visibleTasks = 6

// View renders the TUI.
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}
	if m.settings.MiniMode {
		return m.viewMini()
	}

	var sections []string

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(m.theme.ColorTitle)).MarginBottom(1)
	sections = append(sections, titleStyle.Render(fmt.Sprintf("%s %s  %s", m.theme.IconApp, m.status.PhaseLabel, m.runLabel())))

	color := m.phaseColor()
	sections = append(sections, renderBigTime(m.status.Remaining, color, m.width))
	sections = append(sections, lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.ColorHelp)).
		Render(fmt.Sprintf("%d min left", m.status.MinutesLeft)))
	sections = append(sections, m.progress.ViewAs(m.status.Progress))

	descStyle := lipgloss.NewStyle().Faint(true)
	sections = append(sections, descStyle.Render(m.status.Phase.Description()))
	sections = append(sections, m.cycleDots())

	if m.status.Ambient != "" {
		noiseStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.ColorTask))
		sections = append(sections, noiseStyle.Render(fmt.Sprintf("%s %s", m.theme.IconNoise, m.status.Ambient.Label())))
	}

	sections = append(sections, "", m.viewCurrentTask(), m.viewToday(), "")

	if m.tasks != nil {
		sections = append(sections, m.viewTasks())
	}

	if m.lastError != "" {
		errStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.ColorWork))
		sections = append(sections, errStyle.Render("Error: "+m.lastError))
	}

	sections = append(sections, "", m.help.View(keys))

	content := lipgloss.JoinVertical(lipgloss.Center, sections...)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}

// viewMini is the single-line compact layout.
func (m Model) viewMini() string {
	color := m.phaseColor()
	timeStyle := lipgloss.NewStyle().Bold(true).Foreground(color)
	dim := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.ColorHelp))

	parts := []string{
		m.status.Phase.Icon(),
		timeStyle.Render(m.status.Remaining),
		m.runLabel(),
	}
	if t := m.status.CurrentTask; t != nil {
		parts = append(parts, dim.Render(t.Title))
	}
	parts = append(parts, dim.Render("[m] 展开"))
	return strings.Join(parts, "  ")
}

func (m Model) runLabel() string {
	icon := m.status.Phase.Icon()
	if m.status.Status == domain.StatusRunning {
		return icon + " 进行中"
	}
	if m.status.Status == domain.StatusPaused {
		return m.theme.IconPaused + " 已暂停"
	}
	return icon + " 就绪"
}

func (m Model) phaseColor() lipgloss.Color {
	switch {
	case m.status.Status == domain.StatusPaused:
		return lipgloss.Color(m.theme.ColorPaused)
	case m.status.Phase.IsBreak():
		return lipgloss.Color(m.theme.ColorBreak)
	default:
		return lipgloss.Color(m.theme.ColorWork)
	}
}

// cycleDots shows progress toward the next long break.
func (m Model) cycleDots() string {
	every := max(m.status.LongBreakEvery, 1)
	done := min(m.status.WorkSessionsSinceLongBreak, every)
	dots := strings.Repeat("●", done) + strings.Repeat("○", every-done)
	return lipgloss.NewStyle().Foreground(m.phaseColor()).Render(dots)
}

func (m Model) viewCurrentTask() string {
	label := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.ColorTitle))
	value := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.ColorTask))

	t := m.status.CurrentTask
	if t == nil {
		return label.Render(m.theme.IconTask+" 当前任务  ") + value.Faint(true).Render("未选择任务")
	}
	return label.Render(m.theme.IconTask+" 当前任务  ") +
		value.Render(fmt.Sprintf("%s  %d/%d", t.Title, t.CompletedPomodoros, t.EstPomodoros))
}

func (m Model) viewToday() string {
	label := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.ColorTitle))
	value := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.ColorTask))
	today := m.status.Today
	return label.Render(m.theme.IconStats+" 今日专注  ") +
		value.Render(fmt.Sprintf("%d 分钟", today.FocusMinutes)) +
		label.Render("  完成番茄  ") +
		value.Render(fmt.Sprintf("%d", today.CompletedPomodoros))
}

func (m Model) viewTasks() string {
	var b strings.Builder

	header := "进行中的任务"
	if m.showCompleted {
		header = "已完成的任务"
	}
	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(m.theme.ColorTitle))
	b.WriteString(headerStyle.Render(header))
	b.WriteString("\n")

	if m.adding {
		b.WriteString(m.input.View())
		b.WriteString("\n")
	}

	if len(m.list) == 0 {
		b.WriteString(lipgloss.NewStyle().Faint(true).Render("暂无任务"))
		return b.String()
	}

	start := 0
	if m.cursor >= visibleTasks {
		start = m.cursor - visibleTasks + 1
	}
	end := min(start+visibleTasks, len(m.list))

	activeStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.ColorWork)).Bold(true)
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.ColorTask))

	currentID := ""
	if m.status.CurrentTask != nil {
		currentID = m.status.CurrentTask.ID
	}

	for i := start; i < end; i++ {
		t := m.list[i]
		check := "[ ]"
		if t.Completed {
			check = "[x]"
		}
		marker := " "
		if t.ID == currentID {
			marker = "★"
		}
		line := fmt.Sprintf("%s %s %s  %d/%d", marker, check, t.Title, t.CompletedPomodoros, t.EstPomodoros)
		if i == m.cursor {
			b.WriteString(activeStyle.Render("▸ " + line))
		} else {
			b.WriteString(dimStyle.Render("  " + line))
		}
		if i < end-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}
