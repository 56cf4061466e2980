package categorizer

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/bookshelf-labs/shelfscan/internal/models"
	"github.com/bookshelf-labs/shelfscan/internal/providers"
)

// CanonicalGenres is the closed genre vocabulary every book ends up in.
var CanonicalGenres = []string{
	"Fiction", "Non-Fiction", "Mystery", "Science Fiction",
	"Fantasy", "Romance", "Thriller", "Biography", "History",
	"Self-Help", "Business", "Technology", "Art", "Poetry", "Drama",
}

// defaultGenre is assigned when nothing better can be determined.
const defaultGenre = "Fiction"

const classificationTemperature = 0.1

// synonymEntry maps a substring of the model's answer to a canonical
// genre. Entries are checked in order; the first match wins, so more
// specific names come before generic ones.
type synonymEntry struct {
	match string
	genre string
}

var synonymTable = []synonymEntry{
	// Fiction subcategories
	{"literary fiction", "Fiction"},
	{"contemporary fiction", "Fiction"},
	{"classic fiction", "Fiction"},
	{"general fiction", "Fiction"},
	{"fiction", "Fiction"},

	// Mystery/Thriller
	{"mystery", "Mystery"},
	{"detective", "Mystery"},
	{"crime", "Mystery"},
	{"thriller", "Thriller"},
	{"suspense", "Thriller"},
	{"psychological thriller", "Thriller"},

	// Science Fiction/Fantasy
	{"science fiction", "Science Fiction"},
	{"sci-fi", "Science Fiction"},
	{"speculative fiction", "Science Fiction"},
	{"fantasy", "Fantasy"},
	{"urban fantasy", "Fantasy"},
	{"epic fantasy", "Fantasy"},
	{"high fantasy", "Fantasy"},

	// Romance
	{"romance", "Romance"},
	{"romantic fiction", "Romance"},
	{"contemporary romance", "Romance"},
	{"historical romance", "Romance"},

	// Non-Fiction
	{"non-fiction", "Non-Fiction"},
	{"nonfiction", "Non-Fiction"},
	{"biography", "Biography"},
	{"autobiography", "Biography"},
	{"memoir", "Biography"},
	{"history", "History"},
	{"historical", "History"},
	{"self-help", "Self-Help"},
	{"self help", "Self-Help"},
	{"personal development", "Self-Help"},
	{"business", "Business"},
	{"entrepreneurship", "Business"},
	{"management", "Business"},
	{"technology", "Technology"},
	{"programming", "Technology"},
	{"computer science", "Technology"},
	{"art", "Art"},
	{"art history", "Art"},
	{"design", "Art"},
	{"poetry", "Poetry"},
	{"poems", "Poetry"},
	{"verse", "Poetry"},
	{"drama", "Drama"},
	{"plays", "Drama"},
	{"theater", "Drama"},
	{"theatre", "Drama"},
}

// Categorizer assigns each book one canonical genre, using an LLM when
// available and a deterministic keyword fallback otherwise.
type Categorizer struct {
	text providers.Text
}

// New returns a categorizer backed by the given text provider. A nil
// provider is allowed; every book then takes the fallback path.
func New(text providers.Text) *Categorizer {
	return &Categorizer{text: text}
}

// CategorizeBooks assigns a canonical genre to every record. It never
// fails: classification errors degrade that record to the keyword
// fallback with genre_confidence low and the error recorded.
func (c *Categorizer) CategorizeBooks(ctx context.Context, books []models.SpineRecord) []models.SpineRecord {
	out := make([]models.SpineRecord, len(books))
	for i, book := range books {
		genre, confidence, errNote := c.categorize(ctx, book.Title, book.Author)
		book.Genre = genre
		book.GenreConfidence = confidence
		book.GenreError = errNote
		out[i] = book
	}
	return out
}

func (c *Categorizer) categorize(ctx context.Context, title, author string) (genre, confidence, errNote string) {
	if title == "" {
		return defaultGenre, models.ConfidenceHigh, ""
	}

	if c.text == nil {
		return FallbackGenre(title), models.ConfidenceLow, "classifier not available"
	}

	resp, err := c.text.GenerateText(ctx, classificationPrompt(title, author), providers.Config{
		Temperature: classificationTemperature,
	})
	if err != nil {
		slog.Warn("Genre classification failed, using keyword fallback", "title", title, "err", err)
		return FallbackGenre(title), models.ConfidenceLow, err.Error()
	}

	genre = MapGenre(resp)
	slog.Info("Categorized book", "title", title, "genre", genre)
	return genre, models.ConfidenceHigh, ""
}

func classificationPrompt(title, author string) string {
	return fmt.Sprintf(`Analyze the following book and determine its most appropriate genre from the predefined list.

Book Title: %q
Author: %q

Please categorize this book into ONE of the following genres:
%s

Consider the following factors:
1. The book's title and any genre indicators
2. The author's known works and typical genres
3. Common genre patterns in book titles
4. The most likely primary genre for this book

Respond with ONLY the genre name from the list above, nothing else.`,
		title, author, strings.Join(CanonicalGenres, ", "))
}

// MapGenre maps a raw model answer onto the canonical vocabulary:
// case-insensitive exact match first, then the ordered synonym table,
// then the default.
func MapGenre(raw string) string {
	clean := strings.ToLower(strings.TrimSpace(raw))

	for _, genre := range CanonicalGenres {
		if strings.ToLower(genre) == clean {
			return genre
		}
	}

	for _, entry := range synonymTable {
		if strings.Contains(clean, entry.match) {
			return entry.genre
		}
	}

	slog.Warn("Could not map genre response to the canonical list", "response", raw)
	return defaultGenre
}

// fallbackRule pairs title keywords with the genre they imply. Checked
// in order; the first rule with any matching keyword wins.
type fallbackRule struct {
	keywords []string
	genre    string
}

var fallbackRules = []fallbackRule{
	{[]string{"mystery", "murder", "detective", "crime"}, "Mystery"},
	{[]string{"love", "romance", "heart"}, "Romance"},
	{[]string{"space", "future", "robot", "alien", "sci-fi"}, "Science Fiction"},
	{[]string{"magic", "dragon", "fantasy", "wizard"}, "Fantasy"},
	{[]string{"history", "historical", "war", "battle"}, "History"},
	{[]string{"business", "management", "entrepreneur"}, "Business"},
	{[]string{"programming", "code", "software", "tech"}, "Technology"},
	{[]string{"self-help", "success", "motivation", "habits"}, "Self-Help"},
	{[]string{"biography", "life of", "memoir"}, "Biography"},
	{[]string{"poetry", "poems", "verse"}, "Poetry"},
	{[]string{"art", "painting", "design"}, "Art"},
	{[]string{"drama", "play", "theater"}, "Drama"},
}

// FallbackGenre categorizes a book from title keywords alone. Used when
// no classifier is reachable.
func FallbackGenre(title string) string {
	titleLower := strings.ToLower(title)
	for _, rule := range fallbackRules {
		for _, kw := range rule.keywords {
			if strings.Contains(titleLower, kw) {
				return rule.genre
			}
		}
	}
	return defaultGenre
}
