package gemini

import (
	"context"
	"fmt"
	"os"

	"github.com/bookshelf-labs/shelfscan/internal/providers"
	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// Gemini is a provider for Google Gemini
type Gemini struct{}

// New returns a new Gemini provider
func New() *Gemini {
	return &Gemini{}
}

func defaultModel() string {
	model := os.Getenv("GEMINI_MODEL")
	if model == "" {
		return "gemini-1.5-flash"
	}
	return model
}

// GenerateText generates text from the given prompt using Gemini
func (g *Gemini) GenerateText(ctx context.Context, prompt string, config providers.Config) (string, error) {
	return g.generate(ctx, config, genai.Text(prompt))
}

// GenerateFromImage answers the prompt about the given JPEG image using
// Gemini's multimodal input
func (g *Gemini) GenerateFromImage(ctx context.Context, imageData []byte, prompt string, config providers.Config) (string, error) {
	return g.generate(ctx, config, genai.ImageData("jpeg", imageData), genai.Text(prompt))
}

func (g *Gemini) generate(ctx context.Context, config providers.Config, parts ...genai.Part) (string, error) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return "", fmt.Errorf("GEMINI_API_KEY environment variable not set")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return "", fmt.Errorf("failed to create new gemini client: %w", err)
	}
	defer client.Close()

	modelName := config.Model
	if modelName == "" {
		modelName = defaultModel()
	}

	model := client.GenerativeModel(modelName)
	model.SetTemperature(float32(config.Temperature))

	resp, err := model.GenerateContent(ctx, parts...)
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("no candidates returned from Gemini")
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", fmt.Errorf("empty content returned from Gemini")
	}

	if txt, ok := candidate.Content.Parts[0].(genai.Text); ok {
		return string(txt), nil
	}

	return "", fmt.Errorf("unexpected response format from Gemini")
}
