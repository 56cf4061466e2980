package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/bookshelf-labs/shelfscan/internal/models"
	"github.com/bookshelf-labs/shelfscan/internal/recommend"
)

// defaultMaxRecommendations bounds recommendation answers when the
// client does not say.
const defaultMaxRecommendations = 10

// recommendRequest identifies the shelf either by a stored analysis or
// by inline records.
type recommendRequest struct {
	RequestID      string               `json:"request_id"`
	Books          []models.SpineRecord `json:"books"`
	SelectedGenres []string             `json:"selected_genres"`
	Max            int                  `json:"max_recommendations"`
}

// resolveBooks returns the detected books for a recommendation request,
// loading the stored analysis when a request id is given.
func (h *Handler) resolveBooks(w http.ResponseWriter, req recommendRequest) ([]models.SpineRecord, bool) {
	if req.RequestID == "" {
		return req.Books, true
	}
	result, ok := h.getResultOrError(w, req.RequestID)
	if !ok {
		return nil, false
	}
	return result.Books, true
}

// HandleRecommendGenres suggests genres to explore based on the books
// detected on the shelf.
func (h *Handler) HandleRecommendGenres(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var request recommendRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		h.writeError(w, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}

	books, ok := h.resolveBooks(w, request)
	if !ok {
		return
	}

	h.writeJSON(w, map[string]any{"genres": recommend.SuggestGenres(books)})
}

// enrichedRecommendation is a recommendation plus the bibliographic
// details the metadata merger could attach.
type enrichedRecommendation struct {
	recommend.Recommendation
	CoverURL      string `json:"cover_url,omitempty"`
	ISBN13        string `json:"isbn_13,omitempty"`
	PublishedDate string `json:"published_date,omitempty"`
}

// HandleRecommendBooks produces reading recommendations for the
// selected genres and enriches each one with cover and edition details.
func (h *Handler) HandleRecommendBooks(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var request recommendRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		h.writeError(w, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}
	if len(request.SelectedGenres) == 0 {
		h.writeError(w, "selected_genres is required", http.StatusBadRequest)
		return
	}
	if request.Max <= 0 {
		request.Max = defaultMaxRecommendations
	}

	books, ok := h.resolveBooks(w, request)
	if !ok {
		return
	}

	recs := h.generator.Recommend(r.Context(), books, request.SelectedGenres, request.Max)

	enriched := make([]enrichedRecommendation, len(recs))
	for i, rec := range recs {
		enriched[i] = enrichedRecommendation{Recommendation: rec}
		meta := h.merger.Enrich(r.Context(), rec.Title, rec.Author)
		enriched[i].CoverURL = meta.CoverURL
		enriched[i].ISBN13 = meta.ISBN13
		enriched[i].PublishedDate = meta.PublishedDate
	}

	h.writeJSON(w, map[string]any{
		"recommendations": enriched,
		"selected_genres": request.SelectedGenres,
		"total":           len(enriched),
	})
}
