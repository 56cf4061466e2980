package metadata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// openLibrarySearchURL is a var so tests can point the client at a
// local server.
var openLibrarySearchURL = "https://openlibrary.org/search.json"

const openLibraryCoversURL = "https://covers.openlibrary.org/b/id"

// maxSubjects caps how many Open Library subject headings are kept.
const maxSubjects = 5

// OpenLibrary looks up books on the Open Library search API.
type OpenLibrary struct {
	httpClient *http.Client
	limiter    *RateLimiter
}

// NewOpenLibrary returns a rate-limited Open Library client.
func NewOpenLibrary(limiter *RateLimiter) *OpenLibrary {
	return &OpenLibrary{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		limiter:    limiter,
	}
}

func (o *OpenLibrary) Name() string {
	return "open_library"
}

type openLibraryResponse struct {
	NumFound int `json:"numFound"`
	Docs     []struct {
		Title            string   `json:"title"`
		AuthorName       []string `json:"author_name"`
		FirstPublishYear int      `json:"first_publish_year"`
		ISBN             []string `json:"isbn"`
		CoverID          int      `json:"cover_i"`
		RatingsAverage   float64  `json:"ratings_average"`
		RatingsCount     int      `json:"ratings_count"`
		Subject          []string `json:"subject"`
	} `json:"docs"`
}

// Lookup searches for the book and returns the best (first) document,
// or nil when Open Library has no match.
func (o *OpenLibrary) Lookup(ctx context.Context, title, author string) (*SourceResult, error) {
	o.limiter.Wait()

	params := url.Values{}
	params.Set("title", title)
	if author != "" {
		params.Set("author", author)
	}
	params.Set("limit", "5")
	params.Set("fields", "title,author_name,first_publish_year,isbn,cover_i,ratings_average,ratings_count,subject")

	body, err := fetchJSON(ctx, o.httpClient, openLibrarySearchURL+"?"+params.Encode())
	if err != nil {
		return nil, err
	}

	var response openLibraryResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("failed to decode open library response: %w", err)
	}

	if response.NumFound == 0 || len(response.Docs) == 0 {
		return nil, nil
	}

	doc := response.Docs[0]
	result := &SourceResult{
		Title:         doc.Title,
		Authors:       doc.AuthorName,
		AverageRating: doc.RatingsAverage,
		RatingsCount:  doc.RatingsCount,
	}

	if doc.FirstPublishYear > 0 {
		result.PublishedDate = fmt.Sprintf("%d", doc.FirstPublishYear)
	}

	if doc.CoverID > 0 {
		result.CoverURL = fmt.Sprintf("%s/%d-L.jpg", openLibraryCoversURL, doc.CoverID)
	}

	// ISBNs come back as one mixed list; pick by length.
	for _, isbn := range doc.ISBN {
		switch len(isbn) {
		case 10:
			if result.ISBN10 == "" {
				result.ISBN10 = isbn
			}
		case 13:
			if result.ISBN13 == "" {
				result.ISBN13 = isbn
			}
		}
	}

	if len(doc.Subject) > maxSubjects {
		result.Subjects = doc.Subject[:maxSubjects]
	} else {
		result.Subjects = doc.Subject
	}

	return result, nil
}
