package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"os"

	"github.com/bookshelf-labs/shelfscan/internal/analysis"
	"github.com/bookshelf-labs/shelfscan/internal/categorizer"
	"github.com/bookshelf-labs/shelfscan/internal/detector"
	"github.com/bookshelf-labs/shelfscan/internal/extraction"
	"github.com/bookshelf-labs/shelfscan/internal/gemini"
	"github.com/bookshelf-labs/shelfscan/internal/metadata"
	"github.com/bookshelf-labs/shelfscan/internal/models"
	"github.com/bookshelf-labs/shelfscan/internal/ollama"
	"github.com/bookshelf-labs/shelfscan/internal/openai"
	"github.com/bookshelf-labs/shelfscan/internal/providers"
	"github.com/bookshelf-labs/shelfscan/internal/recommend"
	"github.com/bookshelf-labs/shelfscan/internal/storage"
)

type Handler struct {
	store     *storage.Store
	analysis  *analysis.Service
	merger    *metadata.Merger
	generator *recommend.Generator
}

// New wires the full pipeline from environment configuration.
func New() (*Handler, error) {
	store, err := storage.New(storage.DefaultDataDir())
	if err != nil {
		return nil, err
	}

	vision := visionProvider()
	text := textProvider()

	return NewWithDeps(
		store,
		analysis.NewService(detector.New(), extraction.NewClient(vision), categorizer.New(text)),
		metadata.DefaultMerger(),
		recommend.NewGenerator(text),
	), nil
}

// NewWithDeps builds a handler over explicit collaborators. Tests use
// this to swap in fakes.
func NewWithDeps(store *storage.Store, svc *analysis.Service, merger *metadata.Merger, generator *recommend.Generator) *Handler {
	return &Handler{
		store:     store,
		analysis:  svc,
		merger:    merger,
		generator: generator,
	}
}

// visionProvider picks the spine-reading provider from
// SHELFSCAN_PROVIDER (openai, ollama or gemini).
func visionProvider() providers.Vision {
	switch os.Getenv("SHELFSCAN_PROVIDER") {
	case "ollama":
		return ollama.New()
	case "gemini":
		return gemini.New()
	default:
		return openai.New()
	}
}

// textProvider picks the classification/generation provider from
// SHELFSCAN_CLASSIFIER, falling back to the vision provider setting.
func textProvider() providers.Text {
	classifier := os.Getenv("SHELFSCAN_CLASSIFIER")
	if classifier == "" {
		classifier = os.Getenv("SHELFSCAN_PROVIDER")
	}
	switch classifier {
	case "ollama":
		return ollama.New()
	case "gemini":
		return gemini.New()
	default:
		return openai.New()
	}
}

// Response helpers
func (h *Handler) writeJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("Unable to encode JSON response", "err", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, message string, code int) {
	slog.Error(message)
	http.Error(w, message, code)
}

// getResultOrError loads a stored analysis result, writing a 404 when
// it does not exist.
func (h *Handler) getResultOrError(w http.ResponseWriter, requestID string) (*models.AnalysisResult, bool) {
	result, err := h.store.LoadResult(requestID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			h.writeError(w, "Analysis not found", http.StatusNotFound)
		} else {
			h.writeError(w, "Failed to load analysis: "+err.Error(), http.StatusInternalServerError)
		}
		return nil, false
	}
	return result, true
}
