package geometry

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"math"

	"golang.org/x/image/draw"
	"golang.org/x/image/math/f64"

	"github.com/bookshelf-labs/shelfscan/internal/models"
)

// MinSpineDim is the smallest width or height, in pixels, a detected
// region may have and still be worth sending to extraction.
const MinSpineDim = 10

// extractionSide is the target length of the crop's longer side before
// it is handed to the vision model.
const extractionSide = 1024

// Crop is an upright spine image cut out of the source photo, plus the
// geometry recorded on the resulting spine record.
type Crop struct {
	Image        image.Image
	Center       models.Point
	Width        float64
	Height       float64
	AngleDegrees float64
	Bounds       models.CropBounds
}

// Normalize rotates the source photo so the region's first edge lies
// horizontal and cuts out the axis-aligned box around the region. The
// second return value is false when the region is too small or
// degenerate to crop.
//
// The rotation angle is taken from the corner 0 -> corner 1 edge, the
// pivot is the corner centroid, and the canvas is sized from the
// region's own rotated bounding box with the centroid moved to the
// canvas center.
func Normalize(src image.Image, region models.DetectedRegion) (*Crop, bool) {
	c := region.Corners

	angle := math.Atan2(c[1].Y-c[0].Y, c[1].X-c[0].X) * 180 / math.Pi
	cx := (c[0].X + c[1].X + c[2].X + c[3].X) / 4
	cy := (c[0].Y + c[1].Y + c[2].Y + c[3].Y) / 4

	width := math.Hypot(c[1].X-c[0].X, c[1].Y-c[0].Y)
	height := math.Hypot(c[2].X-c[1].X, c[2].Y-c[1].Y)
	if width < MinSpineDim || height < MinSpineDim {
		return nil, false
	}

	m := rotationAbout(cx, cy, angle)

	rad := angle * math.Pi / 180
	sin := math.Abs(math.Sin(rad))
	cos := math.Abs(math.Cos(rad))
	canvasW := int(height*sin + width*cos)
	canvasH := int(height*cos + width*sin)
	if canvasW <= 0 || canvasH <= 0 {
		return nil, false
	}

	// Recenter: the region centroid lands on the canvas center.
	m[2] += float64(canvasW)/2 - cx
	m[5] += float64(canvasH)/2 - cy

	dst := image.NewRGBA(image.Rect(0, 0, canvasW, canvasH))
	draw.BiLinear.Transform(dst, m, src, src.Bounds(), draw.Src, nil)

	xMin, yMin := math.Inf(1), math.Inf(1)
	xMax, yMax := math.Inf(-1), math.Inf(-1)
	for _, p := range c {
		x := m[0]*p.X + m[1]*p.Y + m[2]
		y := m[3]*p.X + m[4]*p.Y + m[5]
		xMin = math.Min(xMin, x)
		yMin = math.Min(yMin, y)
		xMax = math.Max(xMax, x)
		yMax = math.Max(yMax, y)
	}

	x0 := clamp(int(xMin), 0, canvasW)
	y0 := clamp(int(yMin), 0, canvasH)
	x1 := clamp(int(xMax), 0, canvasW)
	y1 := clamp(int(yMax), 0, canvasH)
	if x1 <= x0 || y1 <= y0 {
		return nil, false
	}

	return &Crop{
		Image:        dst.SubImage(image.Rect(x0, y0, x1, y1)),
		Center:       models.Point{X: cx, Y: cy},
		Width:        width,
		Height:       height,
		AngleDegrees: angle,
		Bounds:       models.CropBounds{XMin: x0, YMin: y0, XMax: x1, YMax: y1},
	}, true
}

// rotationAbout builds the affine matrix rotating the plane by angleDeg
// about (cx, cy), in image coordinates (y grows down). It maps a point
// on a line tilted by angleDeg onto the horizontal through the pivot.
func rotationAbout(cx, cy, angleDeg float64) f64.Aff3 {
	rad := angleDeg * math.Pi / 180
	cos, sin := math.Cos(rad), math.Sin(rad)
	return f64.Aff3{
		cos, sin, (1-cos)*cx - sin*cy,
		-sin, cos, sin*cx + (1-cos)*cy,
	}
}

// ResizeForExtraction scales the crop so its longer side is 1024 px and
// JPEG-encodes it for the vision model.
func ResizeForExtraction(crop image.Image) ([]byte, error) {
	b := crop.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("empty crop %dx%d", w, h)
	}

	longer := w
	if h > longer {
		longer = h
	}
	scale := float64(extractionSide) / float64(longer)
	nw := int(float64(w) * scale)
	nh := int(float64(h) * scale)
	if nw < 1 {
		nw = 1
	}
	if nh < 1 {
		nh = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, nw, nh))
	draw.CatmullRom.Scale(dst, dst.Bounds(), crop, b, draw.Src, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: 95}); err != nil {
		return nil, fmt.Errorf("failed to encode crop: %w", err)
	}
	return buf.Bytes(), nil
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
