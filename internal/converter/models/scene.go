package models

import (
	"github.com/golang/geo/r2"
)

// ============================================================
// Scene
// ============================================================

type Bounds struct {
	MinX float64 `json:"minX"`
	MaxX float64 `json:"maxX"`
	MinY float64 `json:"minY"`
	MaxY float64 `json:"maxY"`
}

func (b Bounds) Width() float64  { return b.MaxX - b.MinX }
func (b Bounds) Height() float64 { return b.MaxY - b.MinY }

type PrimitiveKind string

const (
	KindLine PrimitiveKind = "line"
	KindText PrimitiveKind = "text"
)

// ColorRole names a color the renderer resolves from its palette.
type ColorRole string

const (
	ColorWall       ColorRole = "wall"
	ColorDimension  ColorRole = "dimension"
	ColorBackground ColorRole = "background"
	ColorFixture    ColorRole = "fixture"
	ColorAreaText   ColorRole = "area-text"
	ColorLabelText  ColorRole = "label-text"
)

// StrokeRole names a line width (or font size for text) the renderer resolves.
type StrokeRole string

const (
	StrokeWall      StrokeRole = "wall"
	StrokeDimension StrokeRole = "dimension"
	StrokeFixture   StrokeRole = "fixture"
	StrokeAreaText  StrokeRole = "area-text"
	StrokeLabelText StrokeRole = "label-text"
	StrokeDimText   StrokeRole = "dimension-text"
)

type CapStyle string

const (
	CapButt       CapStyle = "butt"
	CapProjecting CapStyle = "projecting"
)

// Z-order layers, back to front.
const (
	ZDimension = -1
	ZWall      = 0
	ZErase     = 1
	ZFixture   = 10
	ZLabel     = 30
)

// Primitive is one drawing instruction. Lines use Points (two of them),
// text uses Anchor, Text and Rotation (degrees).
type Primitive struct {
	Kind     PrimitiveKind `json:"kind"`
	Points   []r2.Point    `json:"points,omitempty"`
	Anchor   r2.Point      `json:"anchor,omitempty"`
	Text     string        `json:"text,omitempty"`
	Rotation float64       `json:"rotation,omitempty"`
	Color    ColorRole     `json:"color"`
	Stroke   StrokeRole    `json:"stroke"`
	Cap      CapStyle      `json:"cap,omitempty"`
	ZOrder   int           `json:"z"`
}

type Scene struct {
	Primitives []Primitive `json:"primitives"`
	Bounds     Bounds      `json:"bounds"`
}

// ============================================================
// Statistics
// ============================================================

type RoomSummary struct {
	Label string       `json:"label"`
	Area  AreaEstimate `json:"area"`
}

type Statistics struct {
	Walls     int           `json:"walls"`
	Doors     int           `json:"doors"`
	Windows   int           `json:"windows"`
	Rooms     int           `json:"rooms"`
	RoomNames []string      `json:"room_names"`
	Perimeter float64       `json:"perimeter"`
	RoomAreas []RoomSummary `json:"room_areas"`
}

// Result is everything one conversion produces.
type Result struct {
	ID         string           `json:"id,omitempty"`
	Plan       Plan             `json:"plan"`
	Scene      Scene            `json:"scene"`
	Statistics Statistics       `json:"stats"`
	Skipped    []SkippedElement `json:"skipped,omitempty"`
}
