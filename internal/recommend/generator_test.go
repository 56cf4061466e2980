package recommend

import (
	"context"
	"errors"
	"testing"

	"github.com/bookshelf-labs/shelfscan/internal/models"
	"github.com/bookshelf-labs/shelfscan/internal/providers"
)

type fakeText struct {
	response string
	err      error
}

func (f *fakeText) GenerateText(ctx context.Context, prompt string, config providers.Config) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

func TestGeneratorParsesModelOutput(t *testing.T) {
	text := &fakeText{response: "```json\n" + `[
		{"title": "Hyperion", "author": "Dan Simmons", "genre": "Science Fiction", "rating": 4.2, "reason": "Epic far-future pilgrimage"},
		{"title": "No Genre", "author": "Anon", "genre": "", "reason": "dropped"},
		{"title": "Wrong Genre", "author": "Anon", "genre": "Cooking", "reason": "dropped"}
	]` + "\n```"}

	recs := NewGenerator(text).Recommend(context.Background(), nil, []string{"Science Fiction"}, 5)

	if len(recs) != 1 {
		t.Fatalf("got %d recommendations, want 1 valid", len(recs))
	}
	if recs[0].Title != "Hyperion" || recs[0].Source != "model" {
		t.Errorf("rec = %+v, want Hyperion from the model", recs[0])
	}
}

func TestGeneratorFallsBackOnProviderError(t *testing.T) {
	text := &fakeText{err: errors.New("quota exceeded")}
	detected := []models.SpineRecord{{Title: "Dune", Genre: "Science Fiction"}}

	recs := NewGenerator(text).Recommend(context.Background(), detected, []string{"Science Fiction"}, 5)

	if len(recs) == 0 {
		t.Fatal("fallback must produce recommendations")
	}
	for _, r := range recs {
		if r.Source != "curated" {
			t.Errorf("source = %q, want curated", r.Source)
		}
		if r.Title == "Dune" {
			t.Error("detected title must not be recommended")
		}
	}
}

func TestGeneratorFallsBackOnMalformedJSON(t *testing.T) {
	text := &fakeText{response: "I'd suggest reading more fantasy!"}

	recs := NewGenerator(text).Recommend(context.Background(), nil, []string{"Fantasy"}, 5)

	if len(recs) == 0 {
		t.Fatal("fallback must produce recommendations")
	}
	if recs[0].Source != "curated" {
		t.Errorf("source = %q, want curated", recs[0].Source)
	}
}

func TestGeneratorNilProviderUsesCurated(t *testing.T) {
	recs := NewGenerator(nil).Recommend(context.Background(), nil, []string{"Mystery"}, 2)

	if len(recs) != 2 {
		t.Fatalf("got %d recommendations, want 2", len(recs))
	}
	if recs[0].Genre != "Mystery" {
		t.Errorf("genre = %q, want Mystery", recs[0].Genre)
	}
}

func TestGeneratorTruncates(t *testing.T) {
	text := &fakeText{response: `[
		{"title": "A", "author": "a", "genre": "Poetry"},
		{"title": "B", "author": "b", "genre": "Poetry"},
		{"title": "C", "author": "c", "genre": "Poetry"}
	]`}

	recs := NewGenerator(text).Recommend(context.Background(), nil, []string{"Poetry"}, 2)
	if len(recs) != 2 {
		t.Errorf("got %d recommendations, want 2", len(recs))
	}
}

func TestSuggestGenres(t *testing.T) {
	books := []models.SpineRecord{
		{Genre: "Fantasy"},
		{Genre: "Fantasy"},
		{Genre: "Unknown"},
		{Genre: ""},
		{Genre: "Mystery"},
	}

	got := SuggestGenres(books)
	if len(got) != 2 || got[0] != "Fantasy" || got[1] != "Mystery" {
		t.Errorf("SuggestGenres = %v, want [Fantasy Mystery]", got)
	}
}

func TestSuggestGenresFallback(t *testing.T) {
	got := SuggestGenres(nil)
	if len(got) != 5 {
		t.Errorf("fallback suggestions = %v, want 5 canonical genres", got)
	}
}

func TestSuggestGenresCap(t *testing.T) {
	books := []models.SpineRecord{
		{Genre: "Fiction"}, {Genre: "Mystery"}, {Genre: "Fantasy"},
		{Genre: "Romance"}, {Genre: "History"}, {Genre: "Poetry"},
	}
	got := SuggestGenres(books)
	if len(got) != 5 {
		t.Errorf("got %d suggestions, want 5", len(got))
	}
}
