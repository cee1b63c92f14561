package mapper

import (
	"github.com/lucasb-eyer/go-colorful"

	"floorplan/internal/converter/models"
)

// ============================================================
// Palette
// ============================================================

// DefaultWallWidth is the wall stroke width in plan units.
const DefaultWallWidth = 22.0

// Palette resolves the color and stroke roles carried by primitives.
type Palette struct {
	Colors  map[models.ColorRole]colorful.Color
	Strokes map[models.StrokeRole]float64
}

func DefaultPalette() Palette {
	return Palette{
		Colors: map[models.ColorRole]colorful.Color{
			models.ColorWall:       mustHex("#3E3E3E"),
			models.ColorDimension:  mustHex("#666666"),
			models.ColorBackground: mustHex("#FAFAFA"),
			models.ColorFixture:    mustHex("#888888"),
			models.ColorAreaText:   mustHex("#666666"),
			models.ColorLabelText:  mustHex("#333333"),
		},
		Strokes: map[models.StrokeRole]float64{
			models.StrokeWall:      DefaultWallWidth,
			models.StrokeDimension: 1.0,
			models.StrokeFixture:   1.5,
			models.StrokeAreaText:  11,
			models.StrokeLabelText: 14,
			models.StrokeDimText:   10,
		},
	}
}

func mustHex(hex string) colorful.Color {
	c, err := colorful.Hex(hex)
	if err != nil {
		panic(err)
	}
	return c
}

// WithWallWidth returns a copy of the palette with another wall width.
// Non-positive widths are ignored.
func (p Palette) WithWallWidth(width float64) Palette {
	if width <= 0 {
		return p
	}

	strokes := make(map[models.StrokeRole]float64, len(p.Strokes))
	for role, w := range p.Strokes {
		strokes[role] = w
	}
	strokes[models.StrokeWall] = width

	return Palette{Colors: p.Colors, Strokes: strokes}
}

// WithColor returns a copy of the palette with role set to the hex color.
func (p Palette) WithColor(role models.ColorRole, hex string) (Palette, error) {
	c, err := colorful.Hex(hex)
	if err != nil {
		return p, err
	}

	colors := make(map[models.ColorRole]colorful.Color, len(p.Colors))
	for r, existing := range p.Colors {
		colors[r] = existing
	}
	colors[role] = c

	return Palette{Colors: colors, Strokes: p.Strokes}, nil
}

// Color returns the color of a role, black when the role is unknown.
func (p Palette) Color(role models.ColorRole) colorful.Color {
	return p.Colors[role]
}

func (p Palette) Hex(role models.ColorRole) string {
	return p.Color(role).Hex()
}

func (p Palette) Width(role models.StrokeRole) float64 {
	return p.Strokes[role]
}
