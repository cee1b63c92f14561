package graph

import (
	"fmt"
	"math"

	"github.com/golang/geo/r2"

	"floorplan/internal/converter/models"
)

// ============================================================
// Planner graph builder
// ============================================================

const (
	vertexTolerance  = 2.0  // cm, endpoints closer than this share a vertex
	defaultThickness = 20.0 // cm
	wallHeight       = 300.0
)

// PlannerBuilder assembles react-planner vertices and lines from plan
// segments. Coordinates are shifted so origin maps to (0, 0) and converted
// from plan units to centimeters.
type PlannerBuilder struct {
	vertices  map[string]models.Vertex
	lines     map[string]models.Line
	lineOrder []string
	vertexID  int
	origin    r2.Point
	toCm      float64
}

func NewPlannerBuilder(scale float64, origin r2.Point) *PlannerBuilder {
	return &PlannerBuilder{
		vertices: make(map[string]models.Vertex),
		lines:    make(map[string]models.Line),
		origin:   origin,
		toCm:     100 / scale,
	}
}

// AddWalls creates one line per wall. Walls whose endpoints collapse onto
// the same vertex are dropped.
func (g *PlannerBuilder) AddWalls(walls []models.Segment) {
	for _, wall := range walls {
		v1 := g.findOrCreateVertex(wall.A)
		v2 := g.findOrCreateVertex(wall.B)
		if v1 == v2 {
			continue
		}

		id := wall.ID
		if _, exists := g.lines[id]; exists {
			id = fmt.Sprintf("%s_%d", wall.ID, wall.Index)
		}

		g.lines[id] = models.Line{
			ID:         id,
			Name:       wall.ID,
			Type:       "wall",
			Prototype:  "lines",
			Vertices:   []string{v1, v2},
			Holes:      []string{},
			Properties: defaultWallProperties(defaultThickness),
		}
		g.lineOrder = append(g.lineOrder, id)
		g.attachLineToVertex(v1, id)
		g.attachLineToVertex(v2, id)
	}
}

// AttachHole places a door or window on its parent wall, or on the nearest
// wall when the parent is unknown. It reports false when there are no walls.
func (g *PlannerBuilder) AttachHole(seg models.Segment, holeType string) (models.Hole, bool) {
	center := g.toPlanner(seg.Midpoint())

	lineID, offset := "", 0.0
	if line, ok := g.lines[seg.ParentID]; ok && seg.ParentID != "" {
		lineID = line.ID
		_, offset = pointSegmentDistance(center, g.vertexPoint(line.Vertices[0]), g.vertexPoint(line.Vertices[1]))
	} else {
		lineID, offset = g.nearestLine(center)
	}
	if lineID == "" {
		return models.Hole{}, false
	}

	line := g.lines[lineID]
	if !contains(line.Holes, seg.ID) {
		line.Holes = append(line.Holes, seg.ID)
	}
	g.lines[lineID] = line

	return models.Hole{
		ID:         seg.ID,
		Name:       seg.ID,
		Type:       holeType,
		Prototype:  "holes",
		Line:       lineID,
		Offset:     offset,
		Properties: defaultHoleProperties(holeType, seg.Length*100),
	}, true
}

// AddAreaVertices registers the polygon of an area and returns its vertex IDs.
func (g *PlannerBuilder) AddAreaVertices(points []r2.Point, areaID string) []string {
	ids := make([]string, 0, len(points))
	for _, p := range points {
		id := g.findOrCreateVertex(p)
		vertex := g.vertices[id]
		if !contains(vertex.Areas, areaID) {
			vertex.Areas = append(vertex.Areas, areaID)
		}
		g.vertices[id] = vertex
		ids = append(ids, id)
	}
	return ids
}

func (g *PlannerBuilder) Vertices() map[string]models.Vertex {
	return g.vertices
}

func (g *PlannerBuilder) Lines() map[string]models.Line {
	return g.lines
}

func (g *PlannerBuilder) toPlanner(p r2.Point) r2.Point {
	return p.Sub(g.origin).Mul(g.toCm)
}

func (g *PlannerBuilder) findOrCreateVertex(planPoint r2.Point) string {
	p := g.toPlanner(planPoint)

	// Vertex IDs are sequential, so scanning in creation order keeps the
	// choice deterministic.
	for n := 1; n <= g.vertexID; n++ {
		id := fmt.Sprintf("v%d", n)
		v, ok := g.vertices[id]
		if ok && p.Sub(r2.Point{X: v.X, Y: v.Y}).Norm() < vertexTolerance {
			return id
		}
	}

	g.vertexID++
	id := fmt.Sprintf("v%d", g.vertexID)
	g.vertices[id] = models.Vertex{
		ID:        id,
		Name:      "Vertex",
		Type:      "vertex",
		Prototype: "vertices",
		X:         p.X,
		Y:         p.Y,
		Lines:     []string{},
		Areas:     []string{},
	}
	return id
}

func (g *PlannerBuilder) nearestLine(p r2.Point) (string, float64) {
	nearestID, nearestOffset := "", 0.0
	minDist := math.MaxFloat64

	for _, id := range g.lineOrder {
		line := g.lines[id]
		dist, offset := pointSegmentDistance(p, g.vertexPoint(line.Vertices[0]), g.vertexPoint(line.Vertices[1]))
		if dist < minDist {
			minDist = dist
			nearestID = id
			nearestOffset = offset
		}
	}
	return nearestID, nearestOffset
}

func (g *PlannerBuilder) vertexPoint(id string) r2.Point {
	v := g.vertices[id]
	return r2.Point{X: v.X, Y: v.Y}
}

func (g *PlannerBuilder) attachLineToVertex(vertexID, lineID string) {
	vertex := g.vertices[vertexID]
	if !contains(vertex.Lines, lineID) {
		vertex.Lines = append(vertex.Lines, lineID)
	}
	g.vertices[vertexID] = vertex
}

func contains(list []string, target string) bool {
	for _, item := range list {
		if item == target {
			return true
		}
	}
	return false
}

func defaultWallProperties(thickness float64) map[string]any {
	return map[string]any{
		"height":    map[string]any{"length": wallHeight},
		"thickness": map[string]any{"length": thickness},
		"textureA":  "bricks",
		"textureB":  "bricks",
	}
}

func defaultHoleProperties(holeType string, widthCm float64) map[string]any {
	switch holeType {
	case "door":
		return map[string]any{
			"width":           map[string]any{"length": widthCm},
			"height":          map[string]any{"length": 215.0},
			"altitude":        map[string]any{"length": 0.0},
			"thickness":       map[string]any{"length": 30.0},
			"flip_orizzontal": false,
		}
	case "window":
		return map[string]any{
			"width":     map[string]any{"length": widthCm},
			"height":    map[string]any{"length": 100.0},
			"altitude":  map[string]any{"length": 90.0},
			"thickness": map[string]any{"length": 10.0},
		}
	default:
		return map[string]any{}
	}
}
