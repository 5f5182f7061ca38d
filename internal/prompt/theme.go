package prompt

import (
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/roach88/acvinq/internal/config"
)

// Palette holds the colours of one theme.
type Palette struct {
	Accent lipgloss.Color
	Text   lipgloss.Color
	Muted  lipgloss.Color
	OK     lipgloss.Color
	Error  lipgloss.Color
}

var (
	gruvboxDark = Palette{
		Accent: lipgloss.Color("#fabd2f"), // yellow
		Text:   lipgloss.Color("#ebdbb2"), // fg
		Muted:  lipgloss.Color("#a89984"), // gray
		OK:     lipgloss.Color("#b8bb26"), // green
		Error:  lipgloss.Color("#fb4934"), // red
	}
	gruvboxLight = Palette{
		Accent: lipgloss.Color("#b57614"),
		Text:   lipgloss.Color("#3c3836"),
		Muted:  lipgloss.Color("#7c6f64"),
		OK:     lipgloss.Color("#79740e"),
		Error:  lipgloss.Color("#9d0006"),
	}
)

// PaletteFor returns the palette of theme, falling back to GruvboxDark.
func PaletteFor(theme config.Theme) Palette {
	if theme == config.ThemeGruvboxLight {
		return gruvboxLight
	}
	return gruvboxDark
}

// Styles are the lipgloss styles derived from a palette for one writer.
type Styles struct {
	Title   lipgloss.Style
	Prompt  lipgloss.Style
	Hint    lipgloss.Style
	Notice  lipgloss.Style
	Warning lipgloss.Style
}

// NewStyles binds the palette of theme to a renderer for w, so colour
// support is detected on the writer actually used.
func NewStyles(w io.Writer, theme config.Theme) Styles {
	r := lipgloss.NewRenderer(w)
	p := PaletteFor(theme)
	return Styles{
		Title:   r.NewStyle().Bold(true).Foreground(p.Accent),
		Prompt:  r.NewStyle().Foreground(p.Text),
		Hint:    r.NewStyle().Foreground(p.Muted).Italic(true),
		Notice:  r.NewStyle().Foreground(p.OK),
		Warning: r.NewStyle().Foreground(p.Error),
	}
}
