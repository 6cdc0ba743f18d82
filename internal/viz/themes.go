package viz

import "github.com/charmbracelet/lipgloss"

// Theme is a palette for the tree and the stats pane.
type Theme struct {
	Name       string
	Foliage    lipgloss.Color
	FoliageLit lipgloss.Color
	Trunk      lipgloss.Color
	Star       lipgloss.Color
	Photo      lipgloss.Color
	Primary    lipgloss.Color
	Secondary  lipgloss.Color
	Text       lipgloss.Color
	Muted      lipgloss.Color
	Success    lipgloss.Color
	Warning    lipgloss.Color
	Error      lipgloss.Color

	// Mono draws ornaments in Secondary instead of their own colours.
	Mono bool
}

// Available themes
var (
	ThemeEvergreen = Theme{
		Name:       "evergreen",
		Foliage:    lipgloss.Color("#046307"), // Emerald
		FoliageLit: lipgloss.Color("#2E8B57"),
		Trunk:      lipgloss.Color("#8B4513"),
		Star:       lipgloss.Color("#FFD700"),
		Photo:      lipgloss.Color("#FAFAFA"),
		Primary:    lipgloss.Color("#FFD700"),
		Secondary:  lipgloss.Color("#C41E3A"),
		Text:       lipgloss.Color("#F5F5F5"),
		Muted:      lipgloss.Color("#5B7065"),
		Success:    lipgloss.Color("#3CB371"),
		Warning:    lipgloss.Color("#FFB347"),
		Error:      lipgloss.Color("#E0434B"),
	}

	ThemeFrost = Theme{
		Name:       "frost",
		Foliage:    lipgloss.Color("#7FB3D5"),
		FoliageLit: lipgloss.Color("#D6EAF8"),
		Trunk:      lipgloss.Color("#5D6D7E"),
		Star:       lipgloss.Color("#FFFFFF"),
		Photo:      lipgloss.Color("#E0F0FF"),
		Primary:    lipgloss.Color("#00a8cc"),
		Secondary:  lipgloss.Color("#E0F0FF"),
		Text:       lipgloss.Color("#EAF4FB"),
		Muted:      lipgloss.Color("#6E8CA0"),
		Success:    lipgloss.Color("#76D7C4"),
		Warning:    lipgloss.Color("#F9E79F"),
		Error:      lipgloss.Color("#F1948A"),
	}

	ThemeCandy = Theme{
		Name:       "candy",
		Foliage:    lipgloss.Color("#ff6b6b"), // Coral
		FoliageLit: lipgloss.Color("#fff5f5"),
		Trunk:      lipgloss.Color("#8b6b8c"),
		Star:       lipgloss.Color("#feca57"),
		Photo:      lipgloss.Color("#ff9ff3"),
		Primary:    lipgloss.Color("#ff6b6b"),
		Secondary:  lipgloss.Color("#ff9ff3"),
		Text:       lipgloss.Color("#FFF0F5"),
		Muted:      lipgloss.Color("#9C7A97"),
		Success:    lipgloss.Color("#7BED9F"),
		Warning:    lipgloss.Color("#FECA57"),
		Error:      lipgloss.Color("#EE5253"),
	}

	ThemeMinimal = Theme{
		Name:       "minimal",
		Foliage:    lipgloss.Color("#888888"),
		FoliageLit: lipgloss.Color("#ffffff"),
		Trunk:      lipgloss.Color("#555555"),
		Star:       lipgloss.Color("#ffffff"),
		Photo:      lipgloss.Color("#cccccc"),
		Primary:    lipgloss.Color("#FFFFFF"),
		Secondary:  lipgloss.Color("#BBBBBB"),
		Text:       lipgloss.Color("#EEEEEE"),
		Muted:      lipgloss.Color("#777777"),
		Success:    lipgloss.Color("#DDDDDD"),
		Warning:    lipgloss.Color("#AAAAAA"),
		Error:      lipgloss.Color("#FFFFFF"),
		Mono:       true,
	}

	// Default theme
	CurrentTheme = ThemeEvergreen

	// All available themes
	Themes = []Theme{
		ThemeEvergreen,
		ThemeFrost,
		ThemeCandy,
		ThemeMinimal,
	}
)

// GetTheme looks up a theme, falling back to evergreen.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeEvergreen
}

func SetTheme(name string) {
	CurrentTheme = GetTheme(name)
}

// NextTheme switches to the theme after the current one.
func NextTheme() {
	for i, t := range Themes {
		if t.Name == CurrentTheme.Name {
			CurrentTheme = Themes[(i+1)%len(Themes)]
			return
		}
	}
}

func ThemeNames() []string {
	var names []string
	for _, t := range Themes {
		names = append(names, t.Name)
	}
	return names
}
