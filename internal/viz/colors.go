package viz

import (
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// massDecades is the span of log10(mass) the hue ramp covers.
const massDecades = 9.0

// BodyColor maps a mass onto the theme's hue ramp, light bodies at
// t.Light and heavy ones at t.Heavy.
func BodyColor(t Theme, mass float64) string {
	f := 0.0
	if mass > 1 {
		f = math.Min(math.Log10(mass)/massDecades, 1)
	}
	h := t.Light + (t.Heavy-t.Light)*f
	h = math.Mod(h+360, 360)
	return colorful.Hcl(h, 0.55, 0.75).Clamped().Hex()
}

// TrailColor fades a body color towards the background.
func TrailColor(t Theme, body string) string {
	c, err := colorful.Hex(body)
	if err != nil {
		return string(t.Muted)
	}
	bg, err := colorful.Hex(string(t.Background))
	if err != nil {
		return body
	}
	return c.BlendLab(bg, 0.55).Clamped().Hex()
}
