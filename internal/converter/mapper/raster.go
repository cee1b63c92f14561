package mapper

import (
	"fmt"
	"io"
	"math"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"github.com/golang/geo/r2"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/goregular"

	"floorplan/internal/converter/models"
)

// ============================================================
// PNG renderer
// ============================================================

// Default canvas, 16x14 inches at 100 dpi.
const (
	DefaultPNGWidth  = 1600
	DefaultPNGHeight = 1400
)

var (
	regularFont = mustParseFont(goregular.TTF)
	boldFont    = mustParseFont(gobold.TTF)
	italicFont  = mustParseFont(goitalic.TTF)
)

func mustParseFont(ttf []byte) *truetype.Font {
	f, err := truetype.Parse(ttf)
	if err != nil {
		panic(err)
	}
	return f
}

type PNGRenderer struct {
	palette Palette
	Width   int
	Height  int
}

func NewPNGRenderer(palette Palette) *PNGRenderer {
	return &PNGRenderer{palette: palette, Width: DefaultPNGWidth, Height: DefaultPNGHeight}
}

// Render rasterizes the scene, fitted and centered in the canvas, and
// writes it as PNG.
func (r *PNGRenderer) Render(scene *models.Scene, w io.Writer) error {
	if scene == nil {
		return fmt.Errorf("scene is nil")
	}
	b := scene.Bounds
	if b.Width() <= 0 || b.Height() <= 0 {
		return fmt.Errorf("scene has empty bounds")
	}

	// Pixels per plan unit, and the offset that centers the plan.
	k := math.Min(float64(r.Width)/b.Width(), float64(r.Height)/b.Height())
	offset := r2.Point{
		X: (float64(r.Width) - b.Width()*k) / 2,
		Y: (float64(r.Height) - b.Height()*k) / 2,
	}
	toCanvas := func(p r2.Point) r2.Point {
		return r2.Point{X: offset.X + (p.X-b.MinX)*k, Y: offset.Y + (p.Y-b.MinY)*k}
	}
	pointPx := unitsPerPoint(b) * k

	dc := gg.NewContext(r.Width, r.Height)
	dc.SetColor(r.palette.Color(models.ColorBackground))
	dc.Clear()

	faces := make(map[faceKey]font.Face)
	defer func() {
		for _, f := range faces {
			f.Close()
		}
	}()

	for _, p := range scene.Primitives {
		switch p.Kind {
		case models.KindLine:
			if len(p.Points) < 2 {
				continue
			}
			a, c := toCanvas(p.Points[0]), toCanvas(p.Points[1])
			setLineCap(dc, p.Cap)
			dc.SetColor(r.palette.Color(p.Color))
			dc.SetLineWidth(r.palette.Width(p.Stroke) * pointPx)
			dc.DrawLine(a.X, a.Y, c.X, c.Y)
			dc.Stroke()

		case models.KindText:
			key := faceKey{style: p.Stroke, size: r.palette.Width(p.Stroke) * pointPx}
			face, ok := faces[key]
			if !ok {
				face = truetype.NewFace(fontFor(p.Stroke), &truetype.Options{Size: key.size})
				faces[key] = face
			}

			at := toCanvas(p.Anchor)
			dc.SetFontFace(face)
			dc.SetColor(r.palette.Color(p.Color))
			dc.Push()
			dc.RotateAbout(gg.Radians(uprightAngle(p.Rotation)), at.X, at.Y)
			dc.DrawStringAnchored(p.Text, at.X, at.Y, 0.5, 0.5)
			dc.Pop()
		}
	}

	if err := dc.EncodePNG(w); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

type faceKey struct {
	style models.StrokeRole
	size  float64
}

func fontFor(role models.StrokeRole) *truetype.Font {
	switch role {
	case models.StrokeLabelText, models.StrokeDimText:
		return boldFont
	case models.StrokeAreaText:
		return italicFont
	default:
		return regularFont
	}
}

func setLineCap(dc *gg.Context, c models.CapStyle) {
	if c == models.CapProjecting {
		dc.SetLineCapSquare()
		return
	}
	dc.SetLineCapButt()
}
