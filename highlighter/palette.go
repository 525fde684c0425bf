package highlighter

import colorful "github.com/lucasb-eyer/go-colorful"

// DefaultColor is the marker background used when a spec names no
// color or an invalid one.
const DefaultColor = "#ffeb3b"

// hoverDarken scales lightness for the hover shade.
const hoverDarken = 0.85

// ValidColor returns s when it parses as a hex web color ("#rgb" or
// "#rrggbb"), otherwise DefaultColor. Highlighting with a bad color
// should degrade, not fail.
func ValidColor(s string) string {
	if s == "" {
		return DefaultColor
	}
	if _, err := colorful.Hex(s); err != nil {
		return DefaultColor
	}
	return s
}

// HoverColor derives the hover shade of base by darkening it in HCL
// space, which keeps the perceived hue steady as lightness drops.
func HoverColor(base string) string {
	c, err := colorful.Hex(ValidColor(base))
	if err != nil {
		c, _ = colorful.Hex(DefaultColor)
	}
	h, chroma, l := c.Hcl()
	return colorful.Hcl(h, chroma, l*hoverDarken).Clamped().Hex()
}
