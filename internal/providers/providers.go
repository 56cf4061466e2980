package providers

import (
	"context"
)

// Config represents the generation parameters for an LLM call. An empty
// Model means the provider's default.
type Config struct {
	Model       string
	Temperature float64
}

// Text is an LLM capability that turns a prompt into text. Used for
// genre classification and recommendation generation.
type Text interface {
	GenerateText(ctx context.Context, prompt string, config Config) (string, error)
}

// Vision is an LLM capability that answers a prompt about an image.
// Used for reading book spines.
type Vision interface {
	GenerateFromImage(ctx context.Context, imageData []byte, prompt string, config Config) (string, error)
}
