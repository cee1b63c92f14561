package mapper

import (
	"fmt"

	"github.com/golang/geo/r2"

	"floorplan/internal/converter/graph"
	"floorplan/internal/converter/models"
)

// ============================================================
// react-planner export
// ============================================================

const plannerLayerID = "layer-1"

// ExportPlanner converts a plan into a react-planner scene. Walls become
// lines, doors and windows become holes and rooms with a known area become
// areas outlined by their hull.
func ExportPlanner(plan models.Plan) *models.PlannerScene {
	origin := r2.Point{X: plan.Bounds.MinX, Y: plan.Bounds.MinY}
	builder := graph.NewPlannerBuilder(plan.Scale, origin)
	builder.AddWalls(plan.Walls)

	holes := make(map[string]models.Hole)
	for _, door := range plan.Doors {
		if hole, ok := builder.AttachHole(door, "door"); ok {
			holes[hole.ID] = hole
		}
	}
	for _, window := range plan.Windows {
		if hole, ok := builder.AttachHole(window, "window"); ok {
			holes[hole.ID] = hole
		}
	}

	areas := make(map[string]models.Area)
	for i, room := range plan.Rooms {
		if !room.Area.Known || len(room.Area.Polygon) < 3 {
			continue
		}

		id := fmt.Sprintf("area_%d", i)
		areas[id] = models.Area{
			ID:         id,
			Name:       room.Label,
			Type:       "area",
			Prototype:  "areas",
			Vertices:   builder.AddAreaVertices(room.Area.Polygon, id),
			Holes:      []string{},
			Properties: defaultAreaProperties(),
		}
	}

	layer := models.Layer{
		ID:       plannerLayerID,
		Altitude: 0,
		Order:    0,
		Opacity:  1,
		Name:     "default",
		Visible:  true,
		Vertices: builder.Vertices(),
		Lines:    builder.Lines(),
		Holes:    holes,
		Areas:    areas,
		Items:    map[string]any{},
		Selected: models.ElementsSet{Vertices: []string{}, Lines: []string{}, Holes: []string{}, Areas: []string{}, Items: []string{}},
	}

	toCm := 100 / plan.Scale
	return &models.PlannerScene{
		Unit:          "cm",
		Layers:        map[string]models.Layer{plannerLayerID: layer},
		SelectedLayer: plannerLayerID,
		Grids:         defaultGrids(),
		Groups:        map[string]any{},
		Width:         plan.Bounds.Width() * toCm,
		Height:        plan.Bounds.Height() * toCm,
		Meta:          map[string]any{},
		Guides:        defaultGuides(),
	}
}

// ============================================================
// Defaults
// ============================================================

func defaultAreaProperties() map[string]any {
	return map[string]any{
		"patternColor": "#F5F5F5",
		"thickness":    map[string]any{"length": 0.0},
	}
}

func defaultGrids() map[string]models.Grid {
	return map[string]models.Grid{
		"h1": {
			ID:   "h1",
			Type: "horizontal-streak",
			Properties: map[string]any{
				"step":   20,
				"colors": []string{"#808080", "#ddd", "#ddd", "#ddd", "#ddd"},
			},
		},
		"v1": {
			ID:   "v1",
			Type: "vertical-streak",
			Properties: map[string]any{
				"step":   20,
				"colors": []string{"#808080", "#ddd", "#ddd", "#ddd", "#ddd"},
			},
		},
	}
}

func defaultGuides() models.Guides {
	return models.Guides{
		Horizontal: map[string]any{},
		Vertical:   map[string]any{},
		Circular:   map[string]any{},
	}
}
