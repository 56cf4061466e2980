package recommend

import (
	"github.com/bookshelf-labs/shelfscan/internal/categorizer"
	"github.com/bookshelf-labs/shelfscan/internal/models"
)

// maxSuggestions caps the genre suggestion list shown to the user.
const maxSuggestions = 5

// SuggestGenres returns the distinct genres seen among the detected
// books, in detection order, capped at five. With no usable genres it
// falls back to the head of the canonical list.
func SuggestGenres(books []models.SpineRecord) []string {
	seen := make(map[string]bool)
	var out []string
	for _, b := range books {
		g := b.Genre
		if g == "" || g == "Unknown" || seen[g] {
			continue
		}
		seen[g] = true
		out = append(out, g)
		if len(out) == maxSuggestions {
			return out
		}
	}

	if len(out) == 0 {
		return append(out, categorizer.CanonicalGenres[:maxSuggestions]...)
	}
	return out
}
