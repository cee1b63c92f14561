package mapper

import (
	"github.com/samber/lo"

	"floorplan/internal/converter/models"
)

// ComputeStatistics summarizes a plan. Perimeter is the sum of the final
// wall lengths in meters; every section counts as a room, placed or not.
func ComputeStatistics(plan models.Plan) models.Statistics {
	return models.Statistics{
		Walls:   len(plan.Walls),
		Doors:   len(plan.Doors),
		Windows: len(plan.Windows),
		Rooms:   len(plan.Rooms),
		RoomNames: lo.Map(plan.Rooms, func(r models.Room, _ int) string {
			return r.Label
		}),
		Perimeter: lo.SumBy(plan.Walls, func(w models.Segment) float64 {
			return w.Length
		}),
		RoomAreas: lo.Map(plan.Rooms, func(r models.Room, _ int) models.RoomSummary {
			return models.RoomSummary{Label: r.Label, Area: r.Area}
		}),
	}
}
