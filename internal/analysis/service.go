package analysis

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"log/slog"
	"sort"

	// Register decoders for the upload formats.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/bookshelf-labs/shelfscan/internal/categorizer"
	"github.com/bookshelf-labs/shelfscan/internal/extraction"
	"github.com/bookshelf-labs/shelfscan/internal/geometry"
	"github.com/bookshelf-labs/shelfscan/internal/models"
)

// Detector finds candidate spine regions in a photo.
type Detector interface {
	Detect(ctx context.Context, imageData []byte) ([]models.DetectedRegion, error)
}

// Service runs the full per-photo pipeline: detect spines, normalize
// each region, extract and validate its text, then categorize the
// batch.
type Service struct {
	detector    Detector
	extractor   *extraction.Client
	categorizer *categorizer.Categorizer
}

// NewService wires the pipeline stages together.
func NewService(detector Detector, extractor *extraction.Client, cat *categorizer.Categorizer) *Service {
	return &Service{
		detector:    detector,
		extractor:   extractor,
		categorizer: cat,
	}
}

// AnalyzeImage analyzes one bookshelf photo. Regions are processed
// strictly one at a time; a region that fails extraction still yields
// an (invalid) record, while regions too small to crop are skipped.
// The returned records are ordered left to right across the shelf.
func (s *Service) AnalyzeImage(ctx context.Context, imageData []byte) ([]models.SpineRecord, error) {
	img, _, err := image.Decode(bytes.NewReader(imageData))
	if err != nil {
		return nil, fmt.Errorf("unreadable image: %w", err)
	}

	regions, err := s.detector.Detect(ctx, imageData)
	if err != nil {
		return nil, fmt.Errorf("spine detection failed: %w", err)
	}
	slog.Info("Detected spine regions", "count", len(regions))

	books := make([]models.SpineRecord, 0, len(regions))
	for i, region := range regions {
		crop, ok := geometry.Normalize(img, region)
		if !ok {
			slog.Debug("Skipping degenerate region", "region", i+1)
			continue
		}

		rec := s.extractor.ExtractSpine(ctx, crop.Image, i+1)
		rec.BookNumber = i + 1
		rec.BBox = region.Corners
		rec.Center = crop.Center
		rec.Width = crop.Width
		rec.Height = crop.Height
		rec.AngleDegrees = crop.AngleDegrees
		rec.CropBounds = crop.Bounds
		books = append(books, rec)
	}

	// Present books in shelf order.
	sort.SliceStable(books, func(i, j int) bool {
		return books[i].MinX() < books[j].MinX()
	})

	books = s.categorizer.CategorizeBooks(ctx, books)
	return books, nil
}

// CountValid returns how many records passed validation.
func CountValid(books []models.SpineRecord) int {
	n := 0
	for _, b := range books {
		if b.IsValid {
			n++
		}
	}
	return n
}
