package dashboard

import "github.com/charmbracelet/lipgloss"

// Styles controls how watch lines are emphasized.
type Styles struct {
	// Low is applied to the "PERIPHERAL REGISTER (address): " prefix.
	Low lipgloss.Style

	// Changed is applied to a value that changed on this refresh.
	Changed lipgloss.Style
}

// NewStyles builds the default palette for a renderer. The renderer decides
// whether escape sequences are emitted at all.
func NewStyles(r *lipgloss.Renderer) Styles {
	return Styles{
		Low:     r.NewStyle().Foreground(lipgloss.Color("244")),
		Changed: r.NewStyle().Bold(true).Foreground(lipgloss.Color("214")),
	}
}

// DefaultStyles returns the palette for the process' standard output.
func DefaultStyles() Styles {
	return NewStyles(lipgloss.DefaultRenderer())
}

// PlainStyles returns styles that leave text untouched.
func PlainStyles() Styles {
	return Styles{Low: lipgloss.NewStyle(), Changed: lipgloss.NewStyle()}
}
