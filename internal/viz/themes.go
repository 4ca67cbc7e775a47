package viz

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
)

// Theme colors the viewport and the sidebar. Body hues run from Light for
// the lightest bodies to Heavy for the heaviest.
type Theme struct {
	Name       string
	Accent     lipgloss.Color
	Secondary  lipgloss.Color
	Text       lipgloss.Color
	Muted      lipgloss.Color
	Background lipgloss.Color
	Success    lipgloss.Color
	Warning    lipgloss.Color
	Error      lipgloss.Color

	Light, Heavy float64
}

func hcl(h, c, l float64) lipgloss.Color {
	return lipgloss.Color(colorful.Hcl(h, c, l).Clamped().Hex())
}

// newTheme derives a palette around hue. Status colors stay green, amber
// and red whatever the hue.
func newTheme(name string, hue, light, heavy float64) Theme {
	return Theme{
		Name:       name,
		Accent:     hcl(hue, 0.6, 0.88),
		Secondary:  hcl(hue+40, 0.5, 0.72),
		Text:       hcl(hue, 0.05, 0.95),
		Muted:      hcl(hue, 0.15, 0.45),
		Background: hcl(hue, 0.08, 0.06),
		Success:    hcl(140, 0.6, 0.82),
		Warning:    hcl(70, 0.7, 0.8),
		Error:      hcl(20, 0.8, 0.6),
		Light:      light,
		Heavy:      heavy,
	}
}

var (
	ThemeDeepSpace  = newTheme("space", 250, 220, 20)
	ThemeRetroGreen = newTheme("retro", 135, 150, 100)
	ThemeSunset     = newTheme("sunset", 330, 60, 340)

	CurrentTheme = ThemeDeepSpace

	Themes = []Theme{
		ThemeDeepSpace,
		ThemeRetroGreen,
		ThemeSunset,
	}
)

func GetTheme(name string) (Theme, bool) {
	for _, t := range Themes {
		if t.Name == name {
			return t, true
		}
	}
	return Theme{}, false
}

// NextTheme returns the theme after t, wrapping around.
func NextTheme(t Theme) Theme {
	for i, th := range Themes {
		if th.Name == t.Name {
			return Themes[(i+1)%len(Themes)]
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
