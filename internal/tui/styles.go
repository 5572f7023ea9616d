package tui

import "github.com/charmbracelet/lipgloss"

// Styles holds the lipgloss styles for one TUI model
type Styles struct {
	Header     lipgloss.Style
	Pane       lipgloss.Style
	FocusPane  lipgloss.Style
	HandLabel  lipgloss.Style
	Actions    lipgloss.Style
	RedCard    lipgloss.Style
	BlackCard  lipgloss.Style
	HiddenCard lipgloss.Style
	Success    lipgloss.Style
	Error      lipgloss.Style
	Warning    lipgloss.Style
	Info       lipgloss.Style
	Help       lipgloss.Style
}

type palette struct {
	text, accent, border, focus, red, black, green, yellow, muted lipgloss.Color
}

var palettes = map[string]palette{
	"default": {
		text: "#FAFAFA", accent: "#7D56F4", border: "#626262", focus: "#04B575",
		red: "#FF6B6B", black: "#000000", green: "#96CEB4", yellow: "#FFEAA7", muted: "#626262",
	},
	"dark": {
		text: "#FAFAFA", accent: "#7D56F4", border: "#444444", focus: "#04B575",
		red: "#FF6B6B", black: "#D0D0D0", green: "#96CEB4", yellow: "#FFD700", muted: "#808080",
	},
	"light": {
		text: "#1A1A1A", accent: "#5A3FC0", border: "#B0B0B0", focus: "#027A4F",
		red: "#C0392B", black: "#1A1A1A", green: "#2E7D32", yellow: "#B7791F", muted: "#7A7A7A",
	},
}

// NewStyles builds the styles for a theme using renderer r. Unknown themes
// fall back to "default".
func NewStyles(r *lipgloss.Renderer, theme string) Styles {
	p, ok := palettes[theme]
	if !ok {
		p = palettes["default"]
	}

	return Styles{
		Header: r.NewStyle().
			Foreground(p.text).
			Background(p.accent).
			Bold(true).
			Padding(0, 1),
		Pane: r.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.border),
		FocusPane: r.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.focus),
		HandLabel: r.NewStyle().
			Foreground(p.green).
			Bold(true),
		Actions: r.NewStyle().
			Foreground(p.yellow).
			Bold(true),
		RedCard: r.NewStyle().
			Foreground(p.red).
			Bold(true),
		BlackCard: r.NewStyle().
			Foreground(p.black).
			Bold(true),
		HiddenCard: r.NewStyle().
			Foreground(p.muted),
		Success: r.NewStyle().
			Foreground(p.green).
			Bold(true),
		Error: r.NewStyle().
			Foreground(p.red).
			Bold(true),
		Warning: r.NewStyle().
			Foreground(p.yellow).
			Bold(true),
		Info: r.NewStyle().
			Foreground(p.text),
		Help: r.NewStyle().
			Foreground(p.muted),
	}
}
