package metadata

import (
	"context"
	"log/slog"
	"math"
	"strings"

	"github.com/bookshelf-labs/shelfscan/internal/models"
)

// maxJoinedAuthors caps how many author names end up in the display
// author string.
const maxJoinedAuthors = 3

// maxCategories caps the kept category and subject lists.
const maxCategories = 5

// Merger enriches title/author pairs by combining an ordered list of
// bibliographic sources. The first source that answers is
// authoritative; later sources only fill the gaps it left.
type Merger struct {
	sources []Source
}

// NewMerger returns a merger over the given sources, in precedence
// order.
func NewMerger(sources ...Source) *Merger {
	return &Merger{sources: sources}
}

// DefaultMerger wires Google Books ahead of Open Library, each behind
// its own rate limiter.
func DefaultMerger() *Merger {
	return NewMerger(
		NewGoogleBooks(NewRateLimiter(minLookupInterval)),
		NewOpenLibrary(NewRateLimiter(minLookupInterval)),
	)
}

// Enrich looks the book up in every source and merges the answers. It
// never fails: a source that errors or has no match is treated as
// absent, and when every source is absent the input comes back with
// source "unknown".
func (m *Merger) Enrich(ctx context.Context, title, author string) models.EnrichedBook {
	book := models.EnrichedBook{
		Title:  title,
		Author: author,
		Source: "unknown",
	}
	if book.Author == "" {
		book.Author = "Unknown"
	}

	authoritative := true
	for _, src := range m.sources {
		result, err := src.Lookup(ctx, title, author)
		if err != nil {
			slog.Warn("Metadata lookup failed", "source", src.Name(), "title", title, "err", err)
			continue
		}
		if result == nil {
			continue
		}

		m.apply(&book, result, src.Name(), authoritative)
		authoritative = false
	}

	m.finalize(&book)
	return book
}

// EnrichBooks enriches a batch sequentially. The per-source rate
// limiters pace the underlying calls.
func (m *Merger) EnrichBooks(ctx context.Context, pairs []models.EnrichedBook) []models.EnrichedBook {
	out := make([]models.EnrichedBook, len(pairs))
	for i, p := range pairs {
		out[i] = m.Enrich(ctx, p.Title, p.Author)
	}
	return out
}

// apply merges one source's answer into the book. The authoritative
// source overwrites; fillers only set fields that are still empty. A
// filler that supplies the still-missing cover also takes over the
// source label, so the cover's origin is attributable.
func (m *Merger) apply(book *models.EnrichedBook, result *SourceResult, name string, authoritative bool) {
	setString := func(dst *string, v string) {
		if v != "" && (authoritative || *dst == "") {
			*dst = v
		}
	}

	setString(&book.Title, result.Title)
	setString(&book.PublishedDate, result.PublishedDate)
	setString(&book.Description, result.Description)
	setString(&book.ISBN10, result.ISBN10)
	setString(&book.ISBN13, result.ISBN13)

	if len(result.Authors) > 0 && (authoritative || len(book.Authors) == 0) {
		book.Authors = result.Authors
	}
	if len(result.Categories) > 0 && (authoritative || len(book.Categories) == 0) {
		book.Categories = result.Categories
	}
	if len(result.Subjects) > 0 && (authoritative || len(book.Subjects) == 0) {
		book.Subjects = result.Subjects
	}
	if result.PageCount > 0 && (authoritative || book.PageCount == 0) {
		book.PageCount = result.PageCount
	}
	if result.AverageRating > 0 && (authoritative || book.AverageRating == 0) {
		book.AverageRating = result.AverageRating
		book.RatingsCount = result.RatingsCount
	}

	if result.CoverURL != "" && (authoritative || book.CoverURL == "") {
		book.CoverURL = result.CoverURL
		if !authoritative {
			book.Source = name
		}
	}

	if authoritative {
		book.Source = name
	}
}

// finalize applies the display rules: join up to three authors, cap the
// category and subject lists, round the rating to one decimal.
func (m *Merger) finalize(book *models.EnrichedBook) {
	if len(book.Authors) > 0 {
		authors := book.Authors
		if len(authors) > maxJoinedAuthors {
			authors = authors[:maxJoinedAuthors]
		}
		book.Author = strings.Join(authors, ", ")
	}

	if len(book.Categories) > maxCategories {
		book.Categories = book.Categories[:maxCategories]
	}
	if len(book.Subjects) > maxCategories {
		book.Subjects = book.Subjects[:maxCategories]
	}

	if book.AverageRating > 0 {
		book.AverageRating = math.Round(book.AverageRating*10) / 10
	}
}
