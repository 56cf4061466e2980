package geometry

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"testing"

	"github.com/bookshelf-labs/shelfscan/internal/models"
)

func corners(pts ...[2]float64) [4]models.Point {
	var c [4]models.Point
	for i, p := range pts {
		c[i] = models.Point{X: p[0], Y: p[1]}
	}
	return c
}

func TestNormalizeAxisAligned(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 400, 400))
	for y := 0; y < 400; y++ {
		for x := 0; x < 400; x++ {
			src.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 128, A: 255})
		}
	}

	region := models.DetectedRegion{
		Corners:    corners([2]float64{0, 0}, [2]float64{100, 0}, [2]float64{100, 300}, [2]float64{0, 300}),
		Confidence: 0.9,
	}

	crop, ok := Normalize(src, region)
	if !ok {
		t.Fatal("Normalize rejected an axis-aligned region")
	}

	if crop.AngleDegrees != 0 {
		t.Errorf("angle = %v, want 0", crop.AngleDegrees)
	}
	if crop.Width != 100 || crop.Height != 300 {
		t.Errorf("dims = %vx%v, want 100x300", crop.Width, crop.Height)
	}
	if crop.Center.X != 50 || crop.Center.Y != 150 {
		t.Errorf("center = %v, want (50,150)", crop.Center)
	}

	want := models.CropBounds{XMin: 0, YMin: 0, XMax: 100, YMax: 300}
	if crop.Bounds != want {
		t.Errorf("crop bounds = %+v, want %+v", crop.Bounds, want)
	}

	b := crop.Image.Bounds()
	if b.Dx() != 100 || b.Dy() != 300 {
		t.Errorf("crop image = %dx%d, want 100x300", b.Dx(), b.Dy())
	}
}

func TestNormalizeRejectsSmallRegions(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 200, 200))

	tests := []struct {
		name    string
		corners [4]models.Point
		wantOK  bool
	}{
		{
			name:    "narrow width",
			corners: corners([2]float64{10, 10}, [2]float64{15, 10}, [2]float64{15, 100}, [2]float64{10, 100}),
			wantOK:  false,
		},
		{
			name:    "short height",
			corners: corners([2]float64{10, 10}, [2]float64{100, 10}, [2]float64{100, 15}, [2]float64{10, 15}),
			wantOK:  false,
		},
		{
			name:    "exactly at threshold",
			corners: corners([2]float64{10, 10}, [2]float64{20, 10}, [2]float64{20, 20}, [2]float64{10, 20}),
			wantOK:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := Normalize(src, models.DetectedRegion{Corners: tt.corners})
			if ok != tt.wantOK {
				t.Errorf("Normalize ok = %v, want %v", ok, tt.wantOK)
			}
		})
	}
}

func TestNormalizeRotatedRegion(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 400, 400))

	// A 100x20 box tilted slightly around (200, 200).
	region := models.DetectedRegion{
		Corners: corners(
			[2]float64{150, 190},
			[2]float64{249, 200},
			[2]float64{247, 220},
			[2]float64{148, 210},
		),
	}

	crop, ok := Normalize(src, region)
	if !ok {
		t.Fatal("Normalize rejected a tilted region")
	}

	if crop.AngleDegrees <= 0 || crop.AngleDegrees > 10 {
		t.Errorf("angle = %v, want a small positive tilt", crop.AngleDegrees)
	}

	// After undoing the tilt, the crop should be close to the box's own
	// 100x20 shape.
	b := crop.Image.Bounds()
	if b.Dx() < 95 || b.Dx() > 105 {
		t.Errorf("crop width = %d, want ~100", b.Dx())
	}
	if b.Dy() < 15 || b.Dy() > 25 {
		t.Errorf("crop height = %d, want ~20", b.Dy())
	}
}

func TestResizeForExtraction(t *testing.T) {
	tests := []struct {
		name  string
		w, h  int
		wantW int
		wantH int
	}{
		{"tall spine", 200, 800, 256, 1024},
		{"wide crop", 800, 200, 1024, 256},
		{"upscale small crop", 100, 50, 1024, 512},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := image.NewRGBA(image.Rect(0, 0, tt.w, tt.h))
			data, err := ResizeForExtraction(src)
			if err != nil {
				t.Fatalf("ResizeForExtraction: %v", err)
			}

			cfg, err := jpeg.DecodeConfig(bytes.NewReader(data))
			if err != nil {
				t.Fatalf("output is not a valid JPEG: %v", err)
			}
			if cfg.Width != tt.wantW || cfg.Height != tt.wantH {
				t.Errorf("resized to %dx%d, want %dx%d", cfg.Width, cfg.Height, tt.wantW, tt.wantH)
			}
		})
	}
}
