package mapper

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"floorplan/internal/converter/models"
)

func TestDefaultPalette(t *testing.T) {
	p := DefaultPalette()
	assert.Equal(t, "#3e3e3e", p.Hex(models.ColorWall))
	assert.Equal(t, "#fafafa", p.Hex(models.ColorBackground))
	assert.Equal(t, DefaultWallWidth, p.Width(models.StrokeWall))
	assert.Equal(t, 1.5, p.Width(models.StrokeFixture))
}

func TestPalette_WithWallWidth(t *testing.T) {
	base := DefaultPalette()

	wide := base.WithWallWidth(30)
	assert.Equal(t, 30.0, wide.Width(models.StrokeWall))
	assert.Equal(t, DefaultWallWidth, base.Width(models.StrokeWall))
	assert.Equal(t, base.Width(models.StrokeDimension), wide.Width(models.StrokeDimension))

	assert.Equal(t, DefaultWallWidth, base.WithWallWidth(0).Width(models.StrokeWall))
	assert.Equal(t, DefaultWallWidth, base.WithWallWidth(-4).Width(models.StrokeWall))
}

func TestPalette_WithColor(t *testing.T) {
	base := DefaultPalette()

	red, err := base.WithColor(models.ColorWall, "#ff0000")
	require.NoError(t, err)
	assert.Equal(t, "#ff0000", red.Hex(models.ColorWall))
	assert.Equal(t, "#3e3e3e", base.Hex(models.ColorWall))

	_, err = base.WithColor(models.ColorWall, "red")
	assert.Error(t, err)
}

func TestMustHex(t *testing.T) {
	assert.Equal(t, "#3e3e3e", mustHex("#3E3E3E").Hex())
	assert.Panics(t, func() { mustHex("#zz0000") })
}
