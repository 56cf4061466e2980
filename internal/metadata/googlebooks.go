package metadata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/avast/retry-go/v4"
)

// googleBooksBaseURL is a var so tests can point the client at a local
// server.
var googleBooksBaseURL = "https://www.googleapis.com/books/v1/volumes"

// GoogleBooks looks up volumes on the Google Books API.
type GoogleBooks struct {
	httpClient *http.Client
	limiter    *RateLimiter
}

// NewGoogleBooks returns a rate-limited Google Books client.
func NewGoogleBooks(limiter *RateLimiter) *GoogleBooks {
	return &GoogleBooks{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		limiter:    limiter,
	}
}

func (g *GoogleBooks) Name() string {
	return "google_books"
}

type googleBooksResponse struct {
	TotalItems int `json:"totalItems"`
	Items      []struct {
		VolumeInfo struct {
			Title               string   `json:"title"`
			Authors             []string `json:"authors"`
			PublishedDate       string   `json:"publishedDate"`
			Description         string   `json:"description"`
			PageCount           int      `json:"pageCount"`
			Categories          []string `json:"categories"`
			AverageRating       float64  `json:"averageRating"`
			RatingsCount        int      `json:"ratingsCount"`
			IndustryIdentifiers []struct {
				Type       string `json:"type"`
				Identifier string `json:"identifier"`
			} `json:"industryIdentifiers"`
			ImageLinks struct {
				Large     string `json:"large"`
				Medium    string `json:"medium"`
				Small     string `json:"small"`
				Thumbnail string `json:"thumbnail"`
			} `json:"imageLinks"`
		} `json:"volumeInfo"`
	} `json:"items"`
}

// Lookup searches for the book and returns the best (first) volume, or
// nil when Google Books has no match.
func (g *GoogleBooks) Lookup(ctx context.Context, title, author string) (*SourceResult, error) {
	g.limiter.Wait()

	q := title
	if author != "" {
		q += " inauthor:" + author
	}

	params := url.Values{}
	params.Set("q", q)
	params.Set("maxResults", "5")
	params.Set("printType", "books")

	body, err := fetchJSON(ctx, g.httpClient, googleBooksBaseURL+"?"+params.Encode())
	if err != nil {
		return nil, err
	}

	var response googleBooksResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("failed to decode google books response: %w", err)
	}

	if response.TotalItems == 0 || len(response.Items) == 0 {
		return nil, nil
	}

	info := response.Items[0].VolumeInfo
	result := &SourceResult{
		Title:         info.Title,
		Authors:       info.Authors,
		PublishedDate: info.PublishedDate,
		Description:   info.Description,
		PageCount:     info.PageCount,
		Categories:    info.Categories,
		AverageRating: info.AverageRating,
		RatingsCount:  info.RatingsCount,
	}

	for _, id := range info.IndustryIdentifiers {
		switch id.Type {
		case "ISBN_10":
			result.ISBN10 = id.Identifier
		case "ISBN_13":
			result.ISBN13 = id.Identifier
		}
	}

	// Largest available cover wins.
	for _, cover := range []string{info.ImageLinks.Large, info.ImageLinks.Medium, info.ImageLinks.Small, info.ImageLinks.Thumbnail} {
		if cover != "" {
			result.CoverURL = cover
			break
		}
	}

	return result, nil
}

// fetchJSON GETs a URL with a short transient retry and returns the
// response body.
func fetchJSON(ctx context.Context, client *http.Client, rawURL string) ([]byte, error) {
	var body []byte

	err := retry.Do(
		func() error {
			req, err := http.NewRequestWithContext(ctx, "GET", rawURL, nil)
			if err != nil {
				return retry.Unrecoverable(err)
			}

			resp, err := client.Do(req)
			if err != nil {
				return fmt.Errorf("request failed: %w", err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != http.StatusOK {
				return fmt.Errorf("received non-200 status code: %d", resp.StatusCode)
			}

			body, err = io.ReadAll(resp.Body)
			if err != nil {
				return fmt.Errorf("failed to read response body: %w", err)
			}
			return nil
		},
		retry.Attempts(2),
		retry.Delay(200*time.Millisecond),
		retry.Context(ctx),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		return nil, err
	}
	return body, nil
}
