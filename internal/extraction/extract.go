package extraction

import (
	"context"
	"image"
	"log/slog"

	"github.com/bookshelf-labs/shelfscan/internal/geometry"
	"github.com/bookshelf-labs/shelfscan/internal/models"
	"github.com/bookshelf-labs/shelfscan/internal/providers"
)

// extractionTemperature keeps spine reading factual.
const extractionTemperature = 0.1

// Client reads book spines with a vision-capable LLM.
type Client struct {
	vision providers.Vision
}

// NewClient returns a spine extraction client backed by the given
// vision provider.
func NewClient(vision providers.Vision) *Client {
	return &Client{vision: vision}
}

// ExtractSpine resizes the crop, sends it to the vision model and
// parses the answer. Failures never abort the batch: they produce an
// invalid record carrying the diagnostic in its uncertainty notes.
func (c *Client) ExtractSpine(ctx context.Context, crop image.Image, bookNumber int) models.SpineRecord {
	imageData, err := geometry.ResizeForExtraction(crop)
	if err != nil {
		slog.Error("Failed to prepare spine crop", "book", bookNumber, "err", err)
		return failedRecord("image preparation failed: " + err.Error())
	}

	text, err := c.vision.GenerateFromImage(ctx, imageData, Prompt(), providers.Config{
		Temperature: extractionTemperature,
	})
	if err != nil {
		slog.Error("Spine extraction failed", "book", bookNumber, "err", err)
		return failedRecord("extraction failed: " + err.Error())
	}

	return ParseResponse(text)
}

// failedRecord is the invalid record produced when extraction itself
// fails rather than the model hedging.
func failedRecord(note string) models.SpineRecord {
	return models.SpineRecord{
		UncertaintyNotes: note,
		IsValid:          false,
		Confidence:       models.ConfidenceLow,
	}
}
