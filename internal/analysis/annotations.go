package analysis

import (
	"fmt"

	"github.com/bookshelf-labs/shelfscan/internal/models"
)

// annotationPalette cycles per book so adjacent spines draw in
// different colors.
var annotationPalette = []string{
	"#FF0000", "#FF7F00", "#FFFF00", "#00FF00",
	"#0000FF", "#7F00FF", "#FF00FF",
}

// maxLabelLen keeps box labels short enough to draw over a spine.
const maxLabelLen = 20

// Annotations builds the drawable overlay for the analyzed photo: one
// colored box per record with a numbered, truncated title label.
func Annotations(books []models.SpineRecord) []models.Annotation {
	out := make([]models.Annotation, len(books))
	for i, b := range books {
		title := b.Title
		if title == "" {
			title = "Unknown"
		}
		if runes := []rune(title); len(runes) > maxLabelLen {
			title = string(runes[:maxLabelLen]) + "..."
		}
		out[i] = models.Annotation{
			BBox:  b.BBox,
			Color: annotationPalette[i%len(annotationPalette)],
			Label: fmt.Sprintf("%d. %s", i+1, title),
		}
	}
	return out
}
