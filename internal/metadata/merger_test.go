package metadata

import (
	"context"
	"errors"
	"testing"
)

type fakeSource struct {
	name   string
	result *SourceResult
	err    error
	calls  int
}

func (f *fakeSource) Name() string { return f.name }

func (f *fakeSource) Lookup(ctx context.Context, title, author string) (*SourceResult, error) {
	f.calls++
	return f.result, f.err
}

func TestEnrichFirstSourceAuthoritative(t *testing.T) {
	a := &fakeSource{name: "a", result: &SourceResult{
		Title:         "Dune",
		Authors:       []string{"Frank Herbert"},
		PublishedDate: "1965",
		Description:   "Desert planet epic",
		AverageRating: 4.2345,
		RatingsCount:  1000,
	}}
	b := &fakeSource{name: "b", result: &SourceResult{
		Title:         "Dune (Reissue)",
		PublishedDate: "1990",
		Description:   "Some other description",
		PageCount:     412,
		CoverURL:      "https://covers.example/dune.jpg",
	}}

	book := NewMerger(a, b).Enrich(context.Background(), "Dune", "Frank Herbert")

	if book.Source != "b" {
		// b supplied the missing cover, so the source label moves to b.
		t.Errorf("source = %q, want b (cover provider)", book.Source)
	}
	if book.Title != "Dune" || book.PublishedDate != "1965" || book.Description != "Desert planet epic" {
		t.Errorf("authoritative fields overwritten: %+v", book)
	}
	if book.PageCount != 412 {
		t.Errorf("page count = %d, want the gap filled with 412", book.PageCount)
	}
	if book.CoverURL != "https://covers.example/dune.jpg" {
		t.Errorf("cover = %q, want the filler's cover", book.CoverURL)
	}
	if book.AverageRating != 4.2 {
		t.Errorf("rating = %v, want 4.2 (rounded)", book.AverageRating)
	}
	if a.calls != 1 || b.calls != 1 {
		t.Errorf("calls = %d/%d, want both sources called exactly once", a.calls, b.calls)
	}
}

func TestEnrichSourceLabelWithoutCoverException(t *testing.T) {
	a := &fakeSource{name: "a", result: &SourceResult{
		Title:    "Dune",
		CoverURL: "https://covers.example/a.jpg",
	}}
	b := &fakeSource{name: "b", result: &SourceResult{
		CoverURL: "https://covers.example/b.jpg",
	}}

	book := NewMerger(a, b).Enrich(context.Background(), "Dune", "")

	if book.Source != "a" {
		t.Errorf("source = %q, want a (cover already present)", book.Source)
	}
	if book.CoverURL != "https://covers.example/a.jpg" {
		t.Errorf("cover = %q, want the authoritative cover kept", book.CoverURL)
	}
}

func TestEnrichFailedSourceDegradesToAbsent(t *testing.T) {
	a := &fakeSource{name: "a", err: errors.New("timeout")}
	b := &fakeSource{name: "b", result: &SourceResult{
		Title:   "Dune",
		Authors: []string{"Frank Herbert"},
	}}

	book := NewMerger(a, b).Enrich(context.Background(), "Dune", "Frank Herbert")

	if book.Source != "b" {
		t.Errorf("source = %q, want b to become authoritative", book.Source)
	}
	if b.calls != 1 {
		t.Error("second source must still be called after the first fails")
	}
}

func TestEnrichAllSourcesAbsent(t *testing.T) {
	a := &fakeSource{name: "a"}
	b := &fakeSource{name: "b", err: errors.New("down")}

	book := NewMerger(a, b).Enrich(context.Background(), "Obscure Zine", "")

	if book.Source != "unknown" {
		t.Errorf("source = %q, want unknown", book.Source)
	}
	if book.Title != "Obscure Zine" {
		t.Errorf("title = %q, want the query title kept", book.Title)
	}
	if book.Author != "Unknown" {
		t.Errorf("author = %q, want Unknown placeholder", book.Author)
	}
}

func TestEnrichDisplayRules(t *testing.T) {
	a := &fakeSource{name: "a", result: &SourceResult{
		Title:      "Big Anthology",
		Authors:    []string{"One", "Two", "Three", "Four", "Five"},
		Categories: []string{"c1", "c2", "c3", "c4", "c5", "c6", "c7"},
		Subjects:   []string{"s1", "s2", "s3", "s4", "s5", "s6"},
	}}

	book := NewMerger(a).Enrich(context.Background(), "Big Anthology", "")

	if book.Author != "One, Two, Three" {
		t.Errorf("author = %q, want the first three joined", book.Author)
	}
	if len(book.Categories) != 5 {
		t.Errorf("categories = %d entries, want 5", len(book.Categories))
	}
	if len(book.Subjects) != 5 {
		t.Errorf("subjects = %d entries, want 5", len(book.Subjects))
	}
}
