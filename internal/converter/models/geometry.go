package models

import (
	"github.com/golang/geo/r2"
)

// ============================================================
// Projected geometry
// ============================================================

// Segment is the 2D line of a projected element. Coordinates are in scaled
// units, Length is in meters.
type Segment struct {
	Category Category  `json:"category"`
	ID       string    `json:"id"`
	ParentID string    `json:"parentId,omitempty"`
	Index    int       `json:"index"`
	A        r2.Point  `json:"a"`
	B        r2.Point  `json:"b"`
	Center   r2.Point  `json:"center"`
	Rotation float64   `json:"rotation"`
	Length   float64   `json:"length"`
	Swing    *r2.Point `json:"swing,omitempty"`
}

// Midpoint of the current endpoints. It differs from Center once a plan
// rotation has been applied.
func (s Segment) Midpoint() r2.Point {
	return s.A.Add(s.B).Mul(0.5)
}

// Direction returns B - A.
func (s Segment) Direction() r2.Point {
	return s.B.Sub(s.A)
}

// AreaEstimate distinguishes a measured room area from a room whose area
// could not be derived from the captured walls.
type AreaEstimate struct {
	Known        bool       `json:"known"`
	SquareMeters float64    `json:"m2,omitempty"`
	Reason       string     `json:"reason,omitempty"`
	Polygon      []r2.Point `json:"polygon,omitempty"`
}

const (
	ReasonNoCenter           = "section has no 3D center"
	ReasonInsufficientWalls  = "fewer than 3 walls near room center"
	ReasonInsufficientPoints = "fewer than 3 distinct wall endpoints"
	ReasonDegenerate         = "wall endpoints do not enclose an area"
)

func KnownArea(m2 float64, polygon []r2.Point) AreaEstimate {
	return AreaEstimate{Known: true, SquareMeters: m2, Polygon: polygon}
}

func UnknownArea(reason string) AreaEstimate {
	return AreaEstimate{Reason: reason}
}

// Value returns the area and whether it is known.
func (a AreaEstimate) Value() (float64, bool) {
	return a.SquareMeters, a.Known
}

// Room is a section placed on the plan.
type Room struct {
	Label  string       `json:"label"`
	Center r2.Point     `json:"center"`
	Placed bool         `json:"placed"`
	Area   AreaEstimate `json:"area"`
}

// Plan holds the outputs of every pipeline stage. Segments and room centers
// are already rotated about Center by Rotation.
type Plan struct {
	Scale    float64   `json:"scale"`
	Center   r2.Point  `json:"center"`
	Rotation float64   `json:"rotation"`
	Walls    []Segment `json:"walls"`
	Doors    []Segment `json:"doors"`
	Windows  []Segment `json:"windows"`
	Openings []Segment `json:"openings"`
	Rooms    []Room    `json:"rooms"`
	Bounds   Bounds    `json:"bounds"`
}
