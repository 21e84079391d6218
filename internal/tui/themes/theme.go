// Package themes holds the color palettes used by the browse view.
package themes

import (
	"hash/fnv"

	"github.com/charmbracelet/lipgloss"
)

// Theme defines the visual style for the TUI.
type Theme struct {
	Title         lipgloss.Style
	Subtitle      lipgloss.Style
	Normal        lipgloss.Style
	Bold          lipgloss.Style
	Selected      lipgloss.Style
	Highlighted   lipgloss.Style
	RoundedBox    lipgloss.Style
	StatusError   lipgloss.Style
	StatusWarning lipgloss.Style
	StatusSuccess lipgloss.Style
	StatusInfo    lipgloss.Style
	Primary       lipgloss.Color
	Muted         lipgloss.Color
	Border        lipgloss.Color
	Income        lipgloss.Color
	Expense       lipgloss.Color
	// Categories is the palette category names are hashed onto.
	Categories []lipgloss.Color
}

// CategoryStyle returns a stable color for a category name.
func (t Theme) CategoryStyle(category string) lipgloss.Style {
	if len(t.Categories) == 0 {
		return t.Normal
	}
	h := fnv.New32a()
	_, _ = h.Write([]byte(category))
	return lipgloss.NewStyle().Foreground(t.Categories[h.Sum32()%uint32(len(t.Categories))])
}

func newTheme(primary, fg, subtle, border, income, expense, warning, info lipgloss.Color, categories []lipgloss.Color) Theme {
	return Theme{
		Primary:    primary,
		Muted:      subtle,
		Border:     border,
		Income:     income,
		Expense:    expense,
		Categories: categories,

		Title:    lipgloss.NewStyle().Bold(true).Foreground(fg),
		Subtitle: lipgloss.NewStyle().Foreground(subtle),
		Normal:   lipgloss.NewStyle().Foreground(fg),
		Bold:     lipgloss.NewStyle().Bold(true).Foreground(fg),
		Selected: lipgloss.NewStyle().
			Background(primary).
			Foreground(fg).
			Bold(true),
		Highlighted: lipgloss.NewStyle().
			Background(border).
			Foreground(fg),
		RoundedBox: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(border).
			Padding(0, 1),

		StatusSuccess: lipgloss.NewStyle().Foreground(income).Bold(true),
		StatusWarning: lipgloss.NewStyle().Foreground(warning).Bold(true),
		StatusError:   lipgloss.NewStyle().Foreground(expense).Bold(true),
		StatusInfo:    lipgloss.NewStyle().Foreground(info).Bold(true),
	}
}

// Default is the default theme.
var Default = newTheme(
	lipgloss.Color("#7c3aed"),
	lipgloss.Color("#fafafa"),
	lipgloss.Color("#737373"),
	lipgloss.Color("#404040"),
	lipgloss.Color("#10b981"),
	lipgloss.Color("#ef4444"),
	lipgloss.Color("#f59e0b"),
	lipgloss.Color("#3b82f6"),
	[]lipgloss.Color{"#f472b6", "#60a5fa", "#34d399", "#fbbf24", "#a78bfa", "#f87171", "#2dd4bf", "#fb923c"},
)

// CatppuccinMocha is the Catppuccin Mocha theme.
var CatppuccinMocha = newTheme(
	lipgloss.Color("#cba6f7"),
	lipgloss.Color("#cdd6f4"),
	lipgloss.Color("#6c7086"),
	lipgloss.Color("#45475a"),
	lipgloss.Color("#a6e3a1"),
	lipgloss.Color("#f38ba8"),
	lipgloss.Color("#f9e2af"),
	lipgloss.Color("#89dceb"),
	[]lipgloss.Color{"#f5c2e7", "#89b4fa", "#94e2d5", "#fab387", "#b4befe", "#eba0ac", "#a6e3a1", "#f9e2af"},
)

// ByName returns the named theme, falling back to Default.
func ByName(name string) Theme {
	switch name {
	case "catppuccin", "catppuccin-mocha":
		return CatppuccinMocha
	default:
		return Default
	}
}
