package recommend

import (
	"sort"
	"strings"

	"github.com/bookshelf-labs/shelfscan/internal/models"
)

// GenresMatch reports whether a book genre satisfies a preference under
// the symmetric case-insensitive substring rule: either string
// containing the other counts. The test is literal containment, so
// "Sci-Fi" does not match "Science Fiction".
func GenresMatch(bookGenre, preference string) bool {
	g := strings.ToLower(strings.TrimSpace(bookGenre))
	p := strings.ToLower(strings.TrimSpace(preference))
	if g == "" || p == "" {
		return false
	}
	return strings.Contains(g, p) || strings.Contains(p, g)
}

// MatchPreferences scores each record against the selected genres and
// returns the matching records sorted by score, best first (stable, so
// detection order breaks ties), plus a per-preference hit count. A
// record's score is the fraction of selected genres any of its three
// genre fields matched; zero-match records are excluded.
func MatchPreferences(books []models.SpineRecord, selected []string) ([]models.SpineRecord, map[string]int) {
	genreMatches := make(map[string]int)
	if len(selected) == 0 {
		return nil, genreMatches
	}

	var matched []models.SpineRecord
	for _, book := range books {
		bookGenres := book.GenreFields()

		var hits []string
		for _, pref := range selected {
			for _, g := range bookGenres {
				if GenresMatch(g, pref) {
					hits = append(hits, pref)
					break
				}
			}
		}
		if len(hits) == 0 {
			continue
		}

		book.MatchingGenres = hits
		book.MatchScore = float64(len(hits)) / float64(len(selected))
		matched = append(matched, book)

		for _, pref := range hits {
			genreMatches[pref]++
		}
	}

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].MatchScore > matched[j].MatchScore
	})
	return matched, genreMatches
}
