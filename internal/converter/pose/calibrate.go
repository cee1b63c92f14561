package pose

import (
	"math"

	"floorplan/internal/converter/models"
)

// PlanRotation derives the single rotation applied to the whole plan from the
// first floor's transform, so that the plan is drawn along the capture's
// primary axis. It returns 0 when there is no usable floor.
func PlanRotation(floors []models.Floor) float64 {
	if len(floors) == 0 {
		return 0
	}
	t := floors[0].Transform
	if !Valid(t) {
		return 0
	}
	return -math.Atan2(t[0], t[2]) - math.Pi/2
}
