// # internal/output/style.go
package output

import (
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
)

// ColorEnabled resolves a color mode ("auto", "always", "never") for w.
// Auto colors only terminals and honors NO_COLOR.
func ColorEnabled(mode string, w io.Writer) bool {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "always":
		return true
	case "never":
		return false
	}
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

type palette struct {
	enabled bool

	title     lipgloss.Style
	path      lipgloss.Style
	large     lipgloss.Style
	medium    lipgloss.Style
	truncated lipgloss.Style
	marker    lipgloss.Style
	muted     lipgloss.Style
}

func newPalette(enabled bool) palette {
	r := lipgloss.NewRenderer(io.Discard)
	r.SetColorProfile(termenv.ANSI256)

	return palette{
		enabled:   enabled,
		title:     r.NewStyle().Bold(true).Foreground(lipgloss.Color("#3B82F6")),
		path:      r.NewStyle().Foreground(lipgloss.Color("#E2E8F0")),
		large:     r.NewStyle().Bold(true).Foreground(lipgloss.Color("#F87171")),
		medium:    r.NewStyle().Foreground(lipgloss.Color("#FBBF24")),
		truncated: r.NewStyle().Foreground(lipgloss.Color("#64748B")),
		marker:    r.NewStyle().Italic(true).Foreground(lipgloss.Color("#F87171")),
		muted:     r.NewStyle().Foreground(lipgloss.Color("#64748B")),
	}
}

func (p palette) paint(style lipgloss.Style, s string) string {
	if !p.enabled || s == "" {
		return s
	}
	return style.Render(s)
}
