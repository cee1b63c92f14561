package graph

import (
	"testing"

	"github.com/golang/geo/r2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"floorplan/internal/converter/models"
)

func TestPlannerBuilder_SharedVertices(t *testing.T) {
	b := NewPlannerBuilder(200, r2.Point{})
	b.AddWalls([]models.Segment{
		segment("w1", r2.Point{X: 0, Y: 0}, r2.Point{X: 800, Y: 0}),
		segment("w2", r2.Point{X: 801, Y: 1}, r2.Point{X: 800, Y: 600}),
	})

	require.Len(t, b.Lines(), 2)
	require.Len(t, b.Vertices(), 3)

	corner := b.Vertices()["v2"]
	assert.InDelta(t, 400, corner.X, 1e-9)
	assert.ElementsMatch(t, []string{"w1", "w2"}, corner.Lines)
	assert.Equal(t, []string{"v1", "v2"}, b.Lines()["w1"].Vertices)
}

func TestPlannerBuilder_DropsCollapsedWall(t *testing.T) {
	b := NewPlannerBuilder(200, r2.Point{})
	b.AddWalls([]models.Segment{segment("tiny", r2.Point{X: 0, Y: 0}, r2.Point{X: 1, Y: 0})})
	assert.Empty(t, b.Lines())
}

func TestPlannerBuilder_AttachHole(t *testing.T) {
	b := NewPlannerBuilder(200, r2.Point{})
	b.AddWalls([]models.Segment{
		segment("w1", r2.Point{X: 0, Y: 0}, r2.Point{X: 800, Y: 0}),
		segment("w2", r2.Point{X: 800, Y: 0}, r2.Point{X: 800, Y: 600}),
	})

	door := segment("d1", r2.Point{X: 300, Y: 0}, r2.Point{X: 500, Y: 0})
	door.Category = models.CategoryDoor
	door.ParentID = "w1"

	hole, ok := b.AttachHole(door, "door")
	require.True(t, ok)
	assert.Equal(t, "w1", hole.Line)
	assert.InDelta(t, 0.5, hole.Offset, 1e-9)
	assert.Equal(t, map[string]any{"length": 100.0}, hole.Properties["width"])
	assert.Contains(t, b.Lines()["w1"].Holes, "d1")

	window := segment("win", r2.Point{X: 790, Y: 200}, r2.Point{X: 790, Y: 400})
	window.Category = models.CategoryWindow

	hole, ok = b.AttachHole(window, "window")
	require.True(t, ok)
	assert.Equal(t, "w2", hole.Line)
	assert.InDelta(t, 0.5, hole.Offset, 1e-9)
}

func TestPlannerBuilder_AttachHoleWithoutWalls(t *testing.T) {
	b := NewPlannerBuilder(200, r2.Point{})
	_, ok := b.AttachHole(segment("d", r2.Point{}, r2.Point{X: 100}), "door")
	assert.False(t, ok)
}

func TestPlannerBuilder_AreaVertices(t *testing.T) {
	b := NewPlannerBuilder(200, r2.Point{})
	b.AddWalls([]models.Segment{segment("w1", r2.Point{X: 0, Y: 0}, r2.Point{X: 800, Y: 0})})

	ids := b.AddAreaVertices([]r2.Point{{X: 0, Y: 0}, {X: 800, Y: 0}, {X: 800, Y: 600}}, "area_0")
	assert.Equal(t, []string{"v1", "v2", "v3"}, ids)
	assert.Equal(t, []string{"area_0"}, b.Vertices()["v3"].Areas)
	assert.Equal(t, []string{"w1"}, b.Vertices()["v1"].Lines)
}

func TestPlannerBuilder_Origin(t *testing.T) {
	b := NewPlannerBuilder(200, r2.Point{X: -400, Y: -200})
	b.AddWalls([]models.Segment{segment("w", r2.Point{X: -400, Y: -200}, r2.Point{X: 0, Y: -200})})

	v := b.Vertices()["v1"]
	assert.InDelta(t, 0, v.X, 1e-9)
	assert.InDelta(t, 0, v.Y, 1e-9)
	assert.InDelta(t, 200, b.Vertices()["v2"].X, 1e-9)
}
