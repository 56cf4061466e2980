package ollama

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/bookshelf-labs/shelfscan/internal/providers"
)

// Ollama is a provider for Ollama
type Ollama struct{}

// New returns a new Ollama provider
func New() *Ollama {
	return &Ollama{}
}

func baseURL() string {
	ollamaURL := os.Getenv("OLLAMA_URL")
	if ollamaURL == "" {
		ollamaURL = "http://localhost:11434"
	}
	return ollamaURL
}

func defaultModel() string {
	model := os.Getenv("OLLAMA_MODEL")
	if model == "" {
		return "llama3.2-vision"
	}
	return model
}

// GenerateText generates text from the given prompt using Ollama
func (o *Ollama) GenerateText(ctx context.Context, prompt string, config providers.Config) (string, error) {
	model := config.Model
	if model == "" {
		model = defaultModel()
	}

	requestBody := map[string]interface{}{
		"model":  model,
		"prompt": prompt,
		"stream": false,
		"options": map[string]interface{}{
			"temperature": config.Temperature,
		},
	}

	return o.generate(ctx, requestBody)
}

// GenerateFromImage answers the prompt about the given JPEG image using
// Ollama's multimodal input
func (o *Ollama) GenerateFromImage(ctx context.Context, imageData []byte, prompt string, config providers.Config) (string, error) {
	model := config.Model
	if model == "" {
		model = defaultModel()
	}

	requestBody := map[string]interface{}{
		"model":  model,
		"prompt": prompt,
		"images": []string{base64.StdEncoding.EncodeToString(imageData)},
		"stream": false,
		"options": map[string]interface{}{
			"temperature": config.Temperature,
		},
	}

	return o.generate(ctx, requestBody)
}

func (o *Ollama) generate(ctx context.Context, requestBody map[string]interface{}) (string, error) {
	jsonData, err := json.Marshal(requestBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", baseURL()+"/api/generate", bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("received non-200 status code: %d - %s", resp.StatusCode, string(body))
	}

	var response struct {
		Response string `json:"response"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return "", fmt.Errorf("failed to decode response body: %w", err)
	}

	return response.Response, nil
}
