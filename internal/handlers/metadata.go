package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/bookshelf-labs/shelfscan/internal/models"
)

type bookQuery struct {
	Title  string `json:"title"`
	Author string `json:"author"`
}

// HandleBookMetadata enriches a single title/author pair.
func (h *Handler) HandleBookMetadata(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var request bookQuery
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		h.writeError(w, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}
	if request.Title == "" {
		h.writeError(w, "title is required", http.StatusBadRequest)
		return
	}

	h.writeJSON(w, h.merger.Enrich(r.Context(), request.Title, request.Author))
}

// HandleBooksMetadata enriches a batch of title/author pairs. The
// per-service rate limiters pace the underlying API calls.
func (h *Handler) HandleBooksMetadata(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var request struct {
		Books []bookQuery `json:"books"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		h.writeError(w, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}
	if len(request.Books) == 0 {
		h.writeError(w, "books is required", http.StatusBadRequest)
		return
	}

	pairs := make([]models.EnrichedBook, len(request.Books))
	for i, b := range request.Books {
		pairs[i] = models.EnrichedBook{Title: b.Title, Author: b.Author}
	}

	h.writeJSON(w, map[string]any{
		"books": h.merger.EnrichBooks(r.Context(), pairs),
		"total": len(request.Books),
	})
}
