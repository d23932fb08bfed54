package output

import "github.com/charmbracelet/lipgloss"

// Palette
var (
	green  = lipgloss.Color("42")
	red    = lipgloss.Color("196")
	blue   = lipgloss.Color("39")
	yellow = lipgloss.Color("214")
	cyan   = lipgloss.Color("51")
	gray   = lipgloss.Color("245")
)

type styles struct {
	successMark lipgloss.Style
	errorMark   lipgloss.Style
	infoMark    lipgloss.Style
	warnMark    lipgloss.Style
	label       lipgloss.Style
	heading     lipgloss.Style
	header      lipgloss.Style
	cell        lipgloss.Style
	border      lipgloss.Style
	muted       lipgloss.Style
	user        lipgloss.Style
	assistant   lipgloss.Style
}

func newStyles(r *lipgloss.Renderer) styles {
	return styles{
		successMark: r.NewStyle().Foreground(green),
		errorMark:   r.NewStyle().Foreground(red),
		infoMark:    r.NewStyle().Foreground(blue),
		warnMark:    r.NewStyle().Foreground(yellow),
		label:       r.NewStyle().Foreground(cyan),
		heading:     r.NewStyle().Foreground(cyan).Bold(true),
		header:      r.NewStyle().Foreground(cyan).Bold(true).Padding(0, 1),
		cell:        r.NewStyle().Padding(0, 1),
		border:      r.NewStyle().Foreground(gray),
		muted:       r.NewStyle().Foreground(gray),
		user:        r.NewStyle().Foreground(blue).Bold(true),
		assistant:   r.NewStyle().Foreground(green).Bold(true),
	}
}
