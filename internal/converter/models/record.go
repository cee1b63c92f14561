package models

// PlanSummary is the listing view of a stored conversion.
type PlanSummary struct {
	ID        string   `json:"id"`
	CreatedAt string   `json:"created_at"`
	Walls     int      `json:"walls"`
	Doors     int      `json:"doors"`
	Windows   int      `json:"windows"`
	Rooms     int      `json:"rooms"`
	RoomNames []string `json:"room_names"`
	Perimeter float64  `json:"perimeter"`
}
