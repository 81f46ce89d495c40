package themes

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Theme defines the visual style for the editor.
type Theme struct {
	Title         lipgloss.Style
	Subtitle      lipgloss.Style
	Normal        lipgloss.Style
	Bold          lipgloss.Style
	Selected      lipgloss.Style
	Highlighted   lipgloss.Style
	Marked        lipgloss.Style
	Header        lipgloss.Style
	TabActive     lipgloss.Style
	TabInactive   lipgloss.Style
	RoundedBox    lipgloss.Style
	BorderedBox   lipgloss.Style
	StatusSuccess lipgloss.Style
	StatusWarning lipgloss.Style
	StatusError   lipgloss.Style
	StatusInfo    lipgloss.Style
	Rise          lipgloss.Style
	Fall          lipgloss.Style
	Primary       lipgloss.Color
	Muted         lipgloss.Color
	Border        lipgloss.Color
	Foreground    lipgloss.Color
}

// Names lists the selectable themes.
var Names = []string{"default", "light"}

// Lookup returns the theme registered under name.
func Lookup(name string) (Theme, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "default":
		return Default, nil
	case "light":
		return Light, nil
	default:
		return Theme{}, fmt.Errorf("unknown theme %q (want one of %s)", name, strings.Join(Names, ", "))
	}
}

type palette struct {
	primary    string
	secondary  string
	success    string
	warning    string
	danger     string
	info       string
	foreground string
	subtle     string
	border     string
	muted      string
	rise       string
	fall       string
}

func build(p palette) Theme {
	fg := lipgloss.Color(p.foreground)
	return Theme{
		Primary:    lipgloss.Color(p.primary),
		Muted:      lipgloss.Color(p.muted),
		Border:     lipgloss.Color(p.border),
		Foreground: fg,

		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(fg),
		Subtitle: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.muted)),
		Normal: lipgloss.NewStyle().
			Foreground(fg),
		Bold: lipgloss.NewStyle().
			Bold(true).
			Foreground(fg),
		Selected: lipgloss.NewStyle().
			Background(lipgloss.Color(p.primary)).
			Foreground(lipgloss.Color("#fafafa")).
			Bold(true),
		Highlighted: lipgloss.NewStyle().
			Background(lipgloss.Color(p.subtle)).
			Foreground(fg),
		Marked: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.secondary)).
			Bold(true),
		Header: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(p.secondary)).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(lipgloss.Color(p.border)),
		TabActive: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#fafafa")).
			Background(lipgloss.Color(p.primary)).
			Padding(0, 1),
		TabInactive: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.muted)).
			Padding(0, 1),
		RoundedBox: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(p.border)).
			Padding(0, 1),
		BorderedBox: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color(p.border)).
			Padding(0, 1),

		StatusSuccess: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.success)).
			Bold(true),
		StatusWarning: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.warning)).
			Bold(true),
		StatusError: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.danger)).
			Bold(true),
		StatusInfo: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.info)).
			Bold(true),
		Rise: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.rise)).
			Bold(true),
		Fall: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.fall)).
			Bold(true),
	}
}

// Default is the dark theme.
var Default = build(palette{
	primary:    "#7c3aed",
	secondary:  "#a78bfa",
	success:    "#10b981",
	warning:    "#f59e0b",
	danger:     "#ef4444",
	info:       "#3b82f6",
	foreground: "#fafafa",
	subtle:     "#404040",
	border:     "#404040",
	muted:      "#737373",
	rise:       "#ef4444",
	fall:       "#3b82f6",
})

// Light suits terminals with a light background.
var Light = build(palette{
	primary:    "#4f46e5",
	secondary:  "#6d28d9",
	success:    "#047857",
	warning:    "#b45309",
	danger:     "#b91c1c",
	info:       "#1d4ed8",
	foreground: "#171717",
	subtle:     "#e5e5e5",
	border:     "#a3a3a3",
	muted:      "#525252",
	rise:       "#b91c1c",
	fall:       "#1d4ed8",
})
