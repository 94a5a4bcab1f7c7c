package viz

import "github.com/charmbracelet/lipgloss"

// Theme holds the terminal colours of a lane grid.
type Theme struct {
	Name      string
	Visited   lipgloss.Color
	Successor lipgloss.Color
	Goal      lipgloss.Color
	Path      lipgloss.Color
	Wall      lipgloss.Color
	PathCell  lipgloss.Color
	Empty     lipgloss.Color
	Text      lipgloss.Color
	Muted     lipgloss.Color
}

var (
	// ThemeClassic uses the video colours.
	ThemeClassic = Theme{
		Name:      "classic",
		Visited:   lipgloss.Color("#ff0000"),
		Successor: lipgloss.Color("#0000ff"),
		Goal:      lipgloss.Color("#ffff00"),
		Path:      lipgloss.Color("#90ee90"),
		Wall:      lipgloss.Color("#666666"),
		PathCell:  lipgloss.Color("#ff8000"),
		Empty:     lipgloss.Color("#333333"),
		Text:      lipgloss.Color("#ffffff"),
		Muted:     lipgloss.Color("#888888"),
	}

	ThemeOcean = Theme{
		Name:      "ocean",
		Visited:   lipgloss.Color("#ff6b6b"),
		Successor: lipgloss.Color("#00a8cc"),
		Goal:      lipgloss.Color("#ffd700"),
		Path:      lipgloss.Color("#00ff88"),
		Wall:      lipgloss.Color("#4488aa"),
		PathCell:  lipgloss.Color("#ffcc00"),
		Empty:     lipgloss.Color("#1a3350"),
		Text:      lipgloss.Color("#e0f0ff"),
		Muted:     lipgloss.Color("#4488aa"),
	}

	ThemeRetroGreen = Theme{
		Name:      "retro",
		Visited:   lipgloss.Color("#00cc00"),
		Successor: lipgloss.Color("#005500"),
		Goal:      lipgloss.Color("#ffff00"),
		Path:      lipgloss.Color("#88ff88"),
		Wall:      lipgloss.Color("#00ff00"),
		PathCell:  lipgloss.Color("#ffaa00"),
		Empty:     lipgloss.Color("#002200"),
		Text:      lipgloss.Color("#00ff00"),
		Muted:     lipgloss.Color("#005500"),
	}

	Themes = []Theme{
		ThemeClassic,
		ThemeOcean,
		ThemeRetroGreen,
	}
)

// GetTheme returns a theme by name
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeClassic
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}
