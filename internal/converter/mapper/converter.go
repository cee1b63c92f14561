package mapper

import (
	"errors"

	"github.com/golang/geo/r2"
	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/stat"

	"floorplan/internal/converter/area"
	"floorplan/internal/converter/graph"
	"floorplan/internal/converter/models"
	"floorplan/internal/converter/pose"
	"floorplan/internal/converter/projector"
)

// ============================================================
// Converter
// ============================================================

// DefaultPadding is added around the plan bounds, in plan units.
const DefaultPadding = 200.0

// defaultBounds frame a plan with nothing to draw.
var defaultBounds = models.Bounds{MinX: -1000, MaxX: 1000, MinY: -1000, MaxY: 1000}

type Options struct {
	Scale            float64
	Normalize        bool
	NormalizeOptions graph.NormalizeOptions
	Merge            bool
	MergeOptions     graph.MergeOptions
	AreaDistance     float64
	Padding          float64
	Logger           zerolog.Logger
}

func DefaultOptions() Options {
	return Options{
		Scale:            projector.DefaultScale,
		NormalizeOptions: graph.DefaultNormalizeOptions(),
		MergeOptions:     graph.DefaultMergeOptions(),
		AreaDistance:     area.DefaultDistance,
		Padding:          DefaultPadding,
		Logger:           zerolog.Nop(),
	}
}

// Converter turns capture records into plans and scenes. It keeps no state
// between conversions and may be shared by concurrent requests.
type Converter struct {
	opts Options
}

func New(opts Options) *Converter {
	if opts.Scale <= 0 {
		opts.Scale = projector.DefaultScale
	}
	opts.NormalizeOptions.Scale = opts.Scale
	opts.MergeOptions.Scale = opts.Scale
	return &Converter{opts: opts}
}

func (c *Converter) Options() Options {
	return c.opts
}

// Convert runs the full pipeline: projection, optional normalization and
// merging, plan rotation, room areas, bounds, primitives and statistics.
func (c *Converter) Convert(capture *models.Capture) (*models.Result, error) {
	if capture == nil {
		return nil, errors.New("capture is nil")
	}

	log := c.opts.Logger
	scale := c.opts.Scale

	walls := projector.ProjectAll(capture.Walls, scale)
	doors := projector.ProjectAll(capture.Doors, scale)
	windows := projector.ProjectAll(capture.Windows, scale)
	openings := projector.ProjectAll(capture.Openings, scale)

	log.Debug().
		Int("walls", len(walls)).
		Int("doors", len(doors)).
		Int("windows", len(windows)).
		Int("openings", len(openings)).
		Msg("projected elements")

	if c.opts.Normalize {
		walls = graph.NormalizeAngles(walls, c.opts.NormalizeOptions)
	}
	if c.opts.Merge {
		before := len(walls)
		walls = graph.MergeCollinear(walls, c.opts.MergeOptions)
		log.Debug().Int("before", before).Int("after", len(walls)).Msg("merged collinear walls")
	}

	center := planCenter(walls, doors, windows, openings)
	rotation := pose.PlanRotation(capture.Floors)

	plan := models.Plan{
		Scale:    scale,
		Center:   center,
		Rotation: rotation,
		Walls:    rotateSegments(walls, center, rotation),
		Doors:    rotateSegments(doors, center, rotation),
		Windows:  rotateSegments(windows, center, rotation),
		Openings: rotateSegments(openings, center, rotation),
	}
	plan.Rooms = c.placeRooms(capture.Sections, plan)
	plan.Bounds = planBounds(plan, c.opts.Padding)

	log.Debug().
		Float64("rotation", rotation).
		Int("rooms", len(plan.Rooms)).
		Msg("plan assembled")

	return &models.Result{
		Plan:       plan,
		Scene:      BuildScene(plan),
		Statistics: ComputeStatistics(plan),
		Skipped:    capture.Skipped,
	}, nil
}

// placeRooms projects section centers into the rotated plan and estimates
// each room's area against the final walls.
func (c *Converter) placeRooms(sections []models.Section, plan models.Plan) []models.Room {
	opts := area.Options{Distance: c.opts.AreaDistance, Scale: plan.Scale}

	rooms := make([]models.Room, 0, len(sections))
	for _, s := range sections {
		room := models.Room{Label: s.Label}
		if len(s.Center) < 3 {
			room.Area = models.UnknownArea(models.ReasonNoCenter)
			rooms = append(rooms, room)
			continue
		}

		p := projector.Center(s.Center[0], s.Center[2], plan.Scale)
		room.Center = projector.RotateAbout(p, plan.Center, plan.Rotation)
		room.Placed = true
		room.Area = area.Estimate(room.Center, plan.Walls, opts)
		rooms = append(rooms, room)
	}
	return rooms
}

// ============================================================
// Geometry helpers
// ============================================================

// planCenter is the mean of every segment endpoint, or the origin.
func planCenter(groups ...[]models.Segment) r2.Point {
	var xs, ys []float64
	for _, group := range groups {
		for _, seg := range group {
			xs = append(xs, seg.A.X, seg.B.X)
			ys = append(ys, seg.A.Y, seg.B.Y)
		}
	}
	if len(xs) == 0 {
		return r2.Point{}
	}
	return r2.Point{X: stat.Mean(xs, nil), Y: stat.Mean(ys, nil)}
}

func rotateSegments(segments []models.Segment, center r2.Point, angle float64) []models.Segment {
	out := make([]models.Segment, len(segments))
	for i, seg := range segments {
		seg.A = projector.RotateAbout(seg.A, center, angle)
		seg.B = projector.RotateAbout(seg.B, center, angle)
		seg.Center = projector.RotateAbout(seg.Center, center, angle)
		seg.Rotation += angle
		if seg.Swing != nil {
			swing := projector.RotateAbout(*seg.Swing, center, angle)
			seg.Swing = &swing
		}
		out[i] = seg
	}
	return out
}

// planBounds frames every endpoint and placed room center. Door swing
// points are not included.
func planBounds(plan models.Plan, padding float64) models.Bounds {
	var points []r2.Point
	for _, group := range [][]models.Segment{plan.Walls, plan.Doors, plan.Windows, plan.Openings} {
		for _, seg := range group {
			points = append(points, seg.A, seg.B)
		}
	}
	for _, room := range plan.Rooms {
		if room.Placed {
			points = append(points, room.Center)
		}
	}
	if len(points) == 0 {
		return defaultBounds
	}

	rect := r2.RectFromPoints(points...).ExpandedByMargin(padding)
	return models.Bounds{MinX: rect.X.Lo, MaxX: rect.X.Hi, MinY: rect.Y.Lo, MaxY: rect.Y.Hi}
}
