package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/bookshelf-labs/shelfscan/internal/analysis"
	"github.com/bookshelf-labs/shelfscan/internal/categorizer"
	"github.com/bookshelf-labs/shelfscan/internal/models"
	"github.com/bookshelf-labs/shelfscan/internal/recommend"
	"github.com/bookshelf-labs/shelfscan/internal/storage"
)

// HandleAnalyzeBooks runs the full pipeline on a previously uploaded
// photo and persists the result artifact.
func (h *Handler) HandleAnalyzeBooks(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var request struct {
		FileID         string   `json:"file_id"`
		SelectedGenres []string `json:"selected_genres"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		h.writeError(w, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}
	if request.FileID == "" {
		h.writeError(w, "file_id is required", http.StatusBadRequest)
		return
	}

	imageData, err := h.store.ReadUpload(request.FileID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			h.writeError(w, "File not found", http.StatusNotFound)
		} else {
			h.writeError(w, "Failed to read upload: "+err.Error(), http.StatusInternalServerError)
		}
		return
	}

	books, err := h.analysis.AnalyzeImage(r.Context(), imageData)
	if err != nil {
		h.writeError(w, "Analysis failed: "+err.Error(), http.StatusInternalServerError)
		return
	}

	result := &models.AnalysisResult{
		RequestID:       uuid.New().String(),
		FileID:          request.FileID,
		Books:           books,
		SelectedGenres:  request.SelectedGenres,
		GenreStatistics: categorizer.GenreStatistics(books),
		Annotations:     analysis.Annotations(books),
		TotalDetected:   len(books),
		TotalValid:      analysis.CountValid(books),
		CreatedAt:       time.Now().UTC(),
	}

	if len(request.SelectedGenres) > 0 {
		result.FilteredBooks, result.GenreMatches = recommend.MatchPreferences(books, request.SelectedGenres)
	}

	if err := h.store.SaveResult(result); err != nil {
		h.writeError(w, "Failed to persist analysis: "+err.Error(), http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, result)
}

// HandleAnalysisDetail serves the per-result subtree:
//
//	GET    /api/analyze/books/{id}            stored result
//	DELETE /api/analyze/books/{id}            remove result
//	GET    /api/analyze/books/{id}/statistics distributions
//	POST   /api/analyze/books/{id}/filter     re-filter stored books
func (h *Handler) HandleAnalysisDetail(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/analyze/books/")
	parts := strings.SplitN(rest, "/", 2)
	requestID := parts[0]
	sub := ""
	if len(parts) == 2 {
		sub = parts[1]
	}
	if requestID == "" {
		h.writeError(w, "Invalid request id", http.StatusBadRequest)
		return
	}

	switch sub {
	case "":
		switch r.Method {
		case "GET":
			result, ok := h.getResultOrError(w, requestID)
			if !ok {
				return
			}
			h.writeJSON(w, result)
		case "DELETE":
			if err := h.store.DeleteResult(requestID); err != nil {
				h.writeError(w, "Failed to delete analysis: "+err.Error(), http.StatusInternalServerError)
				return
			}
			h.writeJSON(w, map[string]any{"deleted": requestID})
		default:
			h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		}

	case "statistics":
		if r.Method != "GET" {
			h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		result, ok := h.getResultOrError(w, requestID)
		if !ok {
			return
		}
		h.writeJSON(w, map[string]any{
			"request_id":     requestID,
			"total_detected": result.TotalDetected,
			"total_valid":    result.TotalValid,
			"genres":         categorizer.GenreStatistics(result.Books),
			"authors":        categorizer.AuthorStatistics(result.Books),
			"confidence":     categorizer.ConfidenceStatistics(result.Books),
		})

	case "filter":
		if r.Method != "POST" {
			h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		var request struct {
			Genres []string `json:"genres"`
		}
		if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
			h.writeError(w, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
			return
		}
		result, ok := h.getResultOrError(w, requestID)
		if !ok {
			return
		}
		// Unlike preference matching, the filter is exact on the
		// canonical genre.
		selected := make(map[string]bool, len(request.Genres))
		for _, g := range request.Genres {
			selected[g] = true
		}
		filtered := make([]models.SpineRecord, 0)
		for _, b := range result.Books {
			if selected[b.Genre] {
				filtered = append(filtered, b)
			}
		}
		h.writeJSON(w, map[string]any{
			"request_id": requestID,
			"genres":     request.Genres,
			"books":      filtered,
			"total":      len(filtered),
		})

	default:
		h.writeError(w, "Not found", http.StatusNotFound)
	}
}

// HandleAvailableGenres returns the canonical genre vocabulary.
func (h *Handler) HandleAvailableGenres(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	h.writeJSON(w, map[string]any{"genres": categorizer.CanonicalGenres})
}
