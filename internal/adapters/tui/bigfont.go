package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const glyphRows = 3

// segmentFont draws each character as a three-row seven-segment glyph.
var segmentFont = map[rune][glyphRows]string{
	'0': {"┏━┓", "┃ ┃", "┗━┛"},
	'1': {"  ╻", "  ┃", "  ╹"},
	'2': {"╺━┓", "┏━┛", "┗━╸"},
	'3': {"╺━┓", " ━┫", "╺━┛"},
	'4': {"╻ ╻", "┗━┫", "  ╹"},
	'5': {"┏━╸", "┗━┓", "╺━┛"},
	'6': {"┏━╸", "┣━┓", "┗━┛"},
	'7': {"╺━┓", "  ┃", "  ╹"},
	'8': {"┏━┓", "┣━┫", "┗━┛"},
	'9': {"┏━┓", "┗━┫", "╺━┛"},
	':': {" ", "•", "•"},
}

// renderBigTime draws a countdown like "24:59" in the segment font. Narrow
// terminals and characters outside the font get the plain bold string.
func renderBigTime(timeStr string, color lipgloss.Color, width int) string {
	style := lipgloss.NewStyle().Bold(true).Foreground(color)
	if width < 30 {
		return style.Render(timeStr)
	}

	var rows [glyphRows][]string
	for _, ch := range timeStr {
		glyph, ok := segmentFont[ch]
		if !ok {
			return style.Render(timeStr)
		}
		for i := range rows {
			rows[i] = append(rows[i], glyph[i])
		}
	}

	lines := make([]string, glyphRows)
	for i, parts := range rows {
		lines[i] = style.Render(strings.Join(parts, " "))
	}
	return strings.Join(lines, "\n")
}
