package viz

import "github.com/charmbracelet/lipgloss"

// Theme colours the heatmap by sign of the field and the surrounding chrome.
type Theme struct {
	Name     string
	Positive lipgloss.Color
	Negative lipgloss.Color
	Accent   lipgloss.Color
	Text     lipgloss.Color
	Muted    lipgloss.Color
}

var (
	ThemeThermal = Theme{
		Name:     "thermal",
		Positive: lipgloss.Color("#ff5f3f"),
		Negative: lipgloss.Color("#3fa9ff"),
		Accent:   lipgloss.Color("#ffd23f"),
		Text:     lipgloss.Color("#f0f0f0"),
		Muted:    lipgloss.Color("#666688"),
	}

	ThemeRetro = Theme{
		Name:     "retro",
		Positive: lipgloss.Color("#00ff00"),
		Negative: lipgloss.Color("#008800"),
		Accent:   lipgloss.Color("#88ff88"),
		Text:     lipgloss.Color("#00ff00"),
		Muted:    lipgloss.Color("#005500"),
	}

	ThemeOcean = Theme{
		Name:     "ocean",
		Positive: lipgloss.Color("#e0f0ff"),
		Negative: lipgloss.Color("#0077be"),
		Accent:   lipgloss.Color("#ffd700"),
		Text:     lipgloss.Color("#e0f0ff"),
		Muted:    lipgloss.Color("#4488aa"),
	}

	ThemeMono = Theme{
		Name:     "mono",
		Positive: lipgloss.Color("#ffffff"),
		Negative: lipgloss.Color("#888888"),
		Accent:   lipgloss.Color("#0088ff"),
		Text:     lipgloss.Color("#ffffff"),
		Muted:    lipgloss.Color("#555555"),
	}

	Themes = []Theme{ThemeThermal, ThemeRetro, ThemeOcean, ThemeMono}
)

// GetTheme returns the named theme, or the first theme if there is none.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return Themes[0]
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}

// nextTheme cycles through Themes.
func nextTheme(current Theme) Theme {
	for i, t := range Themes {
		if t.Name == current.Name {
			return Themes[(i+1)%len(Themes)]
		}
	}
	return Themes[0]
}
