package extraction

import (
	"strings"

	"github.com/bookshelf-labs/shelfscan/internal/models"
)

// ParseResponse turns the model's line-oriented answer into a spine
// record and validates it. Lines without a known prefix are ignored, so
// chatty preambles do not break parsing.
func ParseResponse(text string) models.SpineRecord {
	var rec models.SpineRecord

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(line, "TITLE:"):
			rec.Title = strings.TrimSpace(strings.TrimPrefix(line, "TITLE:"))
		case strings.HasPrefix(line, "AUTHOR:"):
			rec.Author = strings.TrimSpace(strings.TrimPrefix(line, "AUTHOR:"))
		case strings.HasPrefix(line, "GENRE:"):
			primary, secondary, tertiary := parseGenreList(strings.TrimSpace(strings.TrimPrefix(line, "GENRE:")))
			rec.PrimaryGenre = primary
			rec.SecondaryGenre = secondary
			rec.TertiaryGenre = tertiary
		case strings.HasPrefix(line, "SPINE_APPEARANCE:"):
			rec.SpineAppearance = strings.TrimSpace(strings.TrimPrefix(line, "SPINE_APPEARANCE:"))
		case strings.HasPrefix(line, "REASONING:"):
			rec.Reasoning = strings.TrimSpace(strings.TrimPrefix(line, "REASONING:"))
		case strings.HasPrefix(line, "UNCERTAINTY_NOTES:"):
			rec.UncertaintyNotes = strings.TrimSpace(strings.TrimPrefix(line, "UNCERTAINTY_NOTES:"))
		}
	}

	// genre mirrors the primary genre until the categorizer refines it.
	rec.Genre = rec.PrimaryGenre

	rec.IsValid = Validate(rec)
	if rec.IsValid {
		rec.Confidence = models.ConfidenceHigh
	} else {
		rec.Confidence = models.ConfidenceLow
	}
	return rec
}

// parseGenreList splits a "[a, b, c]" genre list into up to three
// genres. Only a bracket-delimited value is split on commas; anything
// else is taken whole as the primary genre, commas included.
func parseGenreList(value string) (primary, secondary, tertiary string) {
	value = strings.TrimSpace(value)
	if !strings.HasPrefix(value, "[") || !strings.HasSuffix(value, "]") {
		return value, "", ""
	}
	value = strings.TrimPrefix(value, "[")
	value = strings.TrimSuffix(value, "]")

	parts := strings.Split(value, ",")
	genres := make([]string, 0, 3)
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		genres = append(genres, p)
		if len(genres) == 3 {
			break
		}
	}

	if len(genres) > 0 {
		primary = genres[0]
	}
	if len(genres) > 1 {
		secondary = genres[1]
	}
	if len(genres) > 2 {
		tertiary = genres[2]
	}
	return primary, secondary, tertiary
}
