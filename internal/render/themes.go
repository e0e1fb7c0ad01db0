package render

import "github.com/charmbracelet/glamour/styles"

// Markdown theme names accepted in markdown.style
const (
	ThemeDark       = "dark"
	ThemeSierra     = "sierra"
	ThemeLight      = "light"
	ThemeTokyoNight = "tokyonight"
	ThemeDracula    = "dracula"
	ThemePink       = "pink"
	ThemeNoTTY      = "notty"
	ThemeASCII      = "ascii"
)

// glamourStyle maps a theme name to the glamour standard style name.
// Anything else is treated as a path to a JSON style file.
func glamourStyle(name string) (string, bool) {
	switch name {
	case "", ThemeDark, ThemeSierra:
		return styles.DarkStyle, true
	case ThemeLight:
		return styles.LightStyle, true
	case ThemeTokyoNight, styles.TokyoNightStyle:
		return styles.TokyoNightStyle, true
	case ThemeDracula:
		return styles.DraculaStyle, true
	case ThemePink:
		return styles.PinkStyle, true
	case ThemeNoTTY:
		return styles.NoTTYStyle, true
	case ThemeASCII:
		return styles.AsciiStyle, true
	default:
		return "", false
	}
}

// IsBuiltinStyle reports whether style names a bundled theme rather than a file.
func IsBuiltinStyle(style string) bool {
	_, ok := glamourStyle(style)
	return ok
}

// ThemeInfo contains information about a theme for display purposes.
type ThemeInfo struct {
	Name        string
	Description string
}

// AvailableThemes lists the bundled markdown themes.
func AvailableThemes() []ThemeInfo {
	return []ThemeInfo{
		{Name: ThemeDark, Description: "Dark theme (default)"},
		{Name: ThemeSierra, Description: "Dark theme, matches the sierra TUI theme"},
		{Name: ThemeLight, Description: "Light theme for bright terminals"},
		{Name: ThemeTokyoNight, Description: "Tokyo Night color scheme"},
		{Name: ThemeDracula, Description: "Dracula color scheme"},
		{Name: ThemePink, Description: "Pink accents"},
		{Name: ThemeNoTTY, Description: "Plain text (no styling)"},
		{Name: ThemeASCII, Description: "ASCII-only output"},
	}
}

// ThemeNames returns just the theme names for selection.
func ThemeNames() []string {
	themes := AvailableThemes()
	names := make([]string, len(themes))
	for i, t := range themes {
		names[i] = t.Name
	}
	return names
}
