package recommend

import (
	"sort"
	"strings"

	"github.com/bookshelf-labs/shelfscan/internal/models"
)

// Recommendation is one suggested book, from either the curated catalog
// or the generator.
type Recommendation struct {
	Title  string  `json:"title"`
	Author string  `json:"author"`
	Genre  string  `json:"genre"`
	Rating float64 `json:"rating,omitempty"`
	Reason string  `json:"reason,omitempty"`
	Source string  `json:"source"`
}

// Curated picks candidates from the embedded catalog in priority tiers:
// genres both detected on the shelf and preferred, then preferred-only,
// then detected-only as fill-in when the result is still short. Within
// a tier higher-rated books come first. Books whose title already
// appears on the shelf are skipped.
func Curated(detectedGenres, preferredGenres, detectedTitles []string, max int) []Recommendation {
	detected := toSet(detectedGenres)
	preferred := toSet(preferredGenres)

	seen := make(map[string]bool, len(detectedTitles))
	for _, t := range detectedTitles {
		seen[strings.ToLower(t)] = true
	}

	var both, preferredOnly, detectedOnly []models.RecommendationCandidate
	for _, c := range Catalog() {
		if seen[strings.ToLower(c.Title)] {
			continue
		}
		inDetected := detected[c.Genre]
		inPreferred := preferred[c.Genre]
		switch {
		case inDetected && inPreferred:
			both = append(both, c)
		case inPreferred:
			preferredOnly = append(preferredOnly, c)
		case inDetected:
			detectedOnly = append(detectedOnly, c)
		}
	}

	byRating := func(tier []models.RecommendationCandidate) {
		sort.SliceStable(tier, func(i, j int) bool { return tier[i].Rating > tier[j].Rating })
	}
	byRating(both)
	byRating(preferredOnly)
	byRating(detectedOnly)

	picks := append(both, preferredOnly...)
	if len(picks) < max {
		picks = append(picks, detectedOnly...)
	}
	if len(picks) > max {
		picks = picks[:max]
	}

	out := make([]Recommendation, len(picks))
	for i, c := range picks {
		out[i] = Recommendation{
			Title:  c.Title,
			Author: c.Author,
			Genre:  c.Genre,
			Rating: c.Rating,
			Reason: c.Reason,
			Source: "curated",
		}
	}
	return out
}

func toSet(values []string) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		if v != "" {
			set[v] = true
		}
	}
	return set
}
