package models

// ============================================================
// Capture record
// ============================================================

// Category tags a structural element. It is resolved once during ingestion.
type Category int

const (
	CategoryUnknown Category = iota
	CategoryWall
	CategoryDoor
	CategoryWindow
	CategoryOpening
)

func (c Category) String() string {
	switch c {
	case CategoryWall:
		return "wall"
	case CategoryDoor:
		return "door"
	case CategoryWindow:
		return "window"
	case CategoryOpening:
		return "opening"
	default:
		return "unknown"
	}
}

// MarshalText lets categories appear by name in JSON output.
func (c Category) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *Category) UnmarshalText(text []byte) error {
	*c = ParseCategory(string(text))
	return nil
}

// ParseCategory maps a capture category key to a Category.
// "doorway" is the capture's name for a door without a leaf.
func ParseCategory(key string) Category {
	switch key {
	case "wall":
		return CategoryWall
	case "door", "doorway":
		return CategoryDoor
	case "window":
		return CategoryWindow
	case "opening":
		return CategoryOpening
	default:
		return CategoryUnknown
	}
}

// Element is a wall, door, window or opening as captured.
type Element struct {
	Category   Category
	ID         string
	ParentID   string
	Dimensions []float64
	Transform  []float64
}

// Width returns the local X extent in meters, 1.0 when dimensions are missing.
func (e Element) Width() float64 {
	if len(e.Dimensions) == 0 {
		return 1.0
	}
	if e.Dimensions[0] < 0 {
		return -e.Dimensions[0]
	}
	return e.Dimensions[0]
}

type Floor struct {
	Transform []float64
}

// Section is a labelled room with a 3D center.
type Section struct {
	Label  string
	Center []float64
}

// SkippedElement records an element dropped during ingestion.
type SkippedElement struct {
	Array  string `json:"array"`
	Index  int    `json:"index"`
	Reason string `json:"reason"`
}

type Capture struct {
	Walls    []Element
	Doors    []Element
	Windows  []Element
	Openings []Element
	Floors   []Floor
	Sections []Section
	Skipped  []SkippedElement
}
