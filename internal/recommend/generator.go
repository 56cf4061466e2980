package recommend

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/bookshelf-labs/shelfscan/internal/models"
	"github.com/bookshelf-labs/shelfscan/internal/providers"
)

// generationTemperature allows some variety in suggested titles.
const generationTemperature = 0.7

// Generator produces reading recommendations with an LLM, falling back
// to the curated catalog whenever the model path fails. Recommend never
// returns an empty answer for a non-empty genre selection.
type Generator struct {
	text providers.Text
}

// NewGenerator returns a generator backed by the given text provider.
// A nil provider always takes the curated path.
func NewGenerator(text providers.Text) *Generator {
	return &Generator{text: text}
}

// Recommend suggests up to max books for the selected genres, steering
// away from titles already detected on the shelf.
func (g *Generator) Recommend(ctx context.Context, detected []models.SpineRecord, selected []string, max int) []Recommendation {
	recs, err := g.generate(ctx, detected, selected, max)
	if err != nil {
		slog.Warn("Model recommendations unavailable, using curated catalog", "err", err)
		return g.fallback(detected, selected, max)
	}
	return recs
}

func (g *Generator) fallback(detected []models.SpineRecord, selected []string, max int) []Recommendation {
	var detectedGenres, detectedTitles []string
	for _, b := range detected {
		if b.Genre != "" && b.Genre != "Unknown" {
			detectedGenres = append(detectedGenres, b.Genre)
		}
		if b.Title != "" {
			detectedTitles = append(detectedTitles, b.Title)
		}
	}
	return Curated(detectedGenres, selected, detectedTitles, max)
}

func (g *Generator) generate(ctx context.Context, detected []models.SpineRecord, selected []string, max int) ([]Recommendation, error) {
	if g.text == nil {
		return nil, fmt.Errorf("text provider not available")
	}
	if len(selected) == 0 {
		return nil, fmt.Errorf("no genres selected")
	}

	raw, err := g.text.GenerateText(ctx, generationPrompt(detected, selected, max), providers.Config{
		Temperature: generationTemperature,
	})
	if err != nil {
		return nil, fmt.Errorf("generation failed: %w", err)
	}

	recs, err := parseRecommendations(raw, selected)
	if err != nil {
		return nil, err
	}
	if len(recs) > max {
		recs = recs[:max]
	}
	return recs, nil
}

func generationPrompt(detected []models.SpineRecord, selected []string, max int) string {
	var shelf strings.Builder
	for _, b := range detected {
		if b.Title == "" {
			continue
		}
		fmt.Fprintf(&shelf, "- %q by %s (%s)\n", b.Title, orUnknown(b.Author), orUnknown(b.Genre))
	}
	if shelf.Len() == 0 {
		shelf.WriteString("- (no books detected)\n")
	}

	return fmt.Sprintf(`You are a book recommendation expert. A reader's bookshelf contains:

%s
The reader wants recommendations in these genres: %s.

Recommend up to %d real, well-regarded books. Do NOT recommend books already on the shelf. Every recommendation's genre must be one of the requested genres, spelled exactly as given.

Respond with ONLY a JSON array, no prose, in this form:
[
  {"title": "...", "author": "...", "genre": "...", "rating": 4.5, "reason": "one sentence on why it fits"}
]`,
		shelf.String(), strings.Join(selected, ", "), max)
}

// parseRecommendations decodes the model's JSON array and keeps only
// well-formed entries whose genre is one of the selected genres.
func parseRecommendations(raw string, selected []string) ([]Recommendation, error) {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)

	var recs []Recommendation
	if err := json.Unmarshal([]byte(cleaned), &recs); err != nil {
		return nil, fmt.Errorf("failed to decode recommendations: %w", err)
	}

	allowed := toSet(selected)
	valid := recs[:0]
	for _, r := range recs {
		if r.Title == "" || r.Author == "" || r.Genre == "" {
			continue
		}
		if !allowed[r.Genre] {
			continue
		}
		r.Source = "model"
		valid = append(valid, r)
	}

	if len(valid) == 0 {
		return nil, fmt.Errorf("no valid recommendations in model output")
	}
	return valid, nil
}

func orUnknown(s string) string {
	if s == "" {
		return "Unknown"
	}
	return s
}
