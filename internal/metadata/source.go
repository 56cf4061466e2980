package metadata

import "context"

// SourceResult is the shape every bibliographic source resolves to.
// Zero-valued fields mean the source did not know.
type SourceResult struct {
	Title         string
	Authors       []string
	PublishedDate string
	Description   string
	PageCount     int
	Categories    []string
	Subjects      []string
	ISBN10        string
	ISBN13        string
	CoverURL      string
	AverageRating float64
	RatingsCount  int
}

// Source is a black-box bibliographic lookup. Lookup returns nil when
// the service has no match; errors are degraded to absent by the
// merger, never surfaced to callers.
type Source interface {
	Name() string
	Lookup(ctx context.Context, title, author string) (*SourceResult, error)
}
