package categorizer

import "github.com/bookshelf-labs/shelfscan/internal/models"

// CountBy counts records by an arbitrary key. Empty keys are counted
// under "Unknown".
func CountBy(books []models.SpineRecord, key func(models.SpineRecord) string) map[string]int {
	stats := make(map[string]int)
	for _, book := range books {
		k := key(book)
		if k == "" {
			k = "Unknown"
		}
		stats[k]++
	}
	return stats
}

// GenreStatistics is the genre distribution of a book list.
func GenreStatistics(books []models.SpineRecord) map[string]int {
	return CountBy(books, func(b models.SpineRecord) string { return b.Genre })
}

// AuthorStatistics is the author distribution of a book list.
func AuthorStatistics(books []models.SpineRecord) map[string]int {
	return CountBy(books, func(b models.SpineRecord) string { return b.Author })
}

// ConfidenceStatistics is the confidence-label distribution of a book list.
func ConfidenceStatistics(books []models.SpineRecord) map[string]int {
	return CountBy(books, func(b models.SpineRecord) string { return b.Confidence })
}
