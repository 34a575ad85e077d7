package cmd

import "github.com/charmbracelet/lipgloss"

// LipGloss signature purple/pink palette
var (
	headerColor  = lipgloss.Color("#F780FF") // Bright pink/magenta
	labelColor   = lipgloss.Color("#BD93F9") // Purple
	numberColor  = lipgloss.Color("#FF79C6") // Pink
	textColor    = lipgloss.Color("#E9E9F4") // Light purple/white
	borderColor  = lipgloss.Color("#6272A4") // Muted purple
	summaryColor = lipgloss.Color("#8BE9FD") // Cyan accent
	queryColor   = lipgloss.Color("#8BE9FD") // Cyan
	contextColor = lipgloss.Color("#6272A4") // Muted purple
	successColor = lipgloss.Color("#50FA7B") // Green
	errorColor   = lipgloss.Color("#FF5555") // Red
)

var (
	headerStyle = lipgloss.NewStyle().
			Foreground(headerColor).
			Bold(true)

	borderStyle = lipgloss.NewStyle().Foreground(borderColor)

	summaryStyle = lipgloss.NewStyle().
			Foreground(summaryColor).
			Italic(true)

	queryStyle = lipgloss.NewStyle().
			Foreground(queryColor).
			Italic(true)

	chunkStyle = lipgloss.NewStyle().Foreground(textColor)

	scoreStyle = lipgloss.NewStyle().
			Foreground(numberColor).
			Bold(true)

	contextStyle = lipgloss.NewStyle().
			Foreground(contextColor).
			Italic(true)

	successStyle = lipgloss.NewStyle().Foreground(successColor)

	errorStyle = lipgloss.NewStyle().
			Foreground(errorColor).
			Bold(true)
)

// preview flattens text to one line and truncates it to width runes.
func preview(text string, width int) string {
	runes := []rune(flatten(text))
	if len(runes) <= width {
		return string(runes)
	}
	if width <= 1 {
		return string(runes[:width])
	}
	return string(runes[:width-1]) + "…"
}

func flatten(text string) string {
	out := make([]rune, 0, len(text))
	space := false
	for _, r := range text {
		if r == '\n' || r == '\t' || r == '\r' || r == ' ' {
			if !space && len(out) > 0 {
				out = append(out, ' ')
			}
			space = true
			continue
		}
		space = false
		out = append(out, r)
	}
	if len(out) > 0 && out[len(out)-1] == ' ' {
		out = out[:len(out)-1]
	}
	return string(out)
}
