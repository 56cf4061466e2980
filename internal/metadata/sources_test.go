package metadata

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func testLimiter() *RateLimiter {
	l := NewRateLimiter(time.Millisecond)
	l.sleep = func(time.Duration) {}
	return l
}

func TestGoogleBooksLookup(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if got := q.Get("q"); got != "Dune inauthor:Frank Herbert" {
			t.Errorf("q = %q", got)
		}
		if q.Get("maxResults") != "5" || q.Get("printType") != "books" {
			t.Errorf("unexpected query params: %v", q)
		}

		if _, err := w.Write([]byte(`{
			"totalItems": 1,
			"items": [{
				"volumeInfo": {
					"title": "Dune",
					"authors": ["Frank Herbert"],
					"publishedDate": "1965-08-01",
					"description": "Desert planet epic",
					"pageCount": 412,
					"categories": ["Fiction"],
					"averageRating": 4.25,
					"ratingsCount": 5000,
					"industryIdentifiers": [
						{"type": "ISBN_10", "identifier": "0441013597"},
						{"type": "ISBN_13", "identifier": "9780441013593"}
					],
					"imageLinks": {
						"small": "https://books.example/small.jpg",
						"thumbnail": "https://books.example/thumb.jpg"
					}
				}
			}]
		}`)); err != nil {
			t.Fatalf("write: %v", err)
		}
	}))
	defer server.Close()

	orig := googleBooksBaseURL
	googleBooksBaseURL = server.URL
	defer func() { googleBooksBaseURL = orig }()

	result, err := NewGoogleBooks(testLimiter()).Lookup(context.Background(), "Dune", "Frank Herbert")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if result == nil {
		t.Fatal("result is nil, want a match")
	}

	if result.Title != "Dune" || result.PublishedDate != "1965-08-01" || result.PageCount != 412 {
		t.Errorf("unexpected result: %+v", result)
	}
	if result.ISBN10 != "0441013597" || result.ISBN13 != "9780441013593" {
		t.Errorf("isbns = %q/%q", result.ISBN10, result.ISBN13)
	}
	if result.CoverURL != "https://books.example/small.jpg" {
		t.Errorf("cover = %q, want the largest available size", result.CoverURL)
	}
}

func TestGoogleBooksNoMatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := w.Write([]byte(`{"totalItems": 0}`)); err != nil {
			t.Fatalf("write: %v", err)
		}
	}))
	defer server.Close()

	orig := googleBooksBaseURL
	googleBooksBaseURL = server.URL
	defer func() { googleBooksBaseURL = orig }()

	result, err := NewGoogleBooks(testLimiter()).Lookup(context.Background(), "No Such Book", "")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if result != nil {
		t.Errorf("result = %+v, want nil for no match", result)
	}
}

func TestOpenLibraryLookup(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("title") != "Dune" || q.Get("author") != "Frank Herbert" {
			t.Errorf("unexpected query params: %v", q)
		}
		if q.Get("limit") != "5" {
			t.Errorf("limit = %q", q.Get("limit"))
		}

		if _, err := w.Write([]byte(`{
			"numFound": 1,
			"docs": [{
				"title": "Dune",
				"author_name": ["Frank Herbert"],
				"first_publish_year": 1965,
				"isbn": ["0441013597", "9780441013593", "123"],
				"cover_i": 12345,
				"ratings_average": 4.3,
				"ratings_count": 900,
				"subject": ["Science fiction", "Deserts", "Politics", "Ecology", "Religion", "Sandworms"]
			}]
		}`)); err != nil {
			t.Fatalf("write: %v", err)
		}
	}))
	defer server.Close()

	orig := openLibrarySearchURL
	openLibrarySearchURL = server.URL
	defer func() { openLibrarySearchURL = orig }()

	result, err := NewOpenLibrary(testLimiter()).Lookup(context.Background(), "Dune", "Frank Herbert")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if result == nil {
		t.Fatal("result is nil, want a match")
	}

	if result.PublishedDate != "1965" {
		t.Errorf("published date = %q, want 1965", result.PublishedDate)
	}
	if result.ISBN10 != "0441013597" || result.ISBN13 != "9780441013593" {
		t.Errorf("isbns = %q/%q", result.ISBN10, result.ISBN13)
	}
	if result.CoverURL != "https://covers.openlibrary.org/b/id/12345-L.jpg" {
		t.Errorf("cover = %q", result.CoverURL)
	}
	if len(result.Subjects) != 5 {
		t.Errorf("subjects = %d entries, want capped at 5", len(result.Subjects))
	}
}

func TestOpenLibraryNoMatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := w.Write([]byte(`{"numFound": 0, "docs": []}`)); err != nil {
			t.Fatalf("write: %v", err)
		}
	}))
	defer server.Close()

	orig := openLibrarySearchURL
	openLibrarySearchURL = server.URL
	defer func() { openLibrarySearchURL = orig }()

	result, err := NewOpenLibrary(testLimiter()).Lookup(context.Background(), "No Such Book", "")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if result != nil {
		t.Errorf("result = %+v, want nil for no match", result)
	}
}

func TestFetchJSONRetriesThenFails(t *testing.T) {
	var hits int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	_, err := fetchJSON(context.Background(), server.Client(), server.URL)
	if err == nil {
		t.Fatal("expected an error after retries are exhausted")
	}
	if hits != 2 {
		t.Errorf("server hit %d times, want 2 attempts", hits)
	}
}
