package openai

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

const chatCompletionsURL = "https://api.openai.com/v1/chat/completions"

// OpenAI is a provider for OpenAI
type OpenAI struct{}

// New returns a new OpenAI provider
func New() *OpenAI {
	return &OpenAI{}
}

func defaultModel() string {
	model := os.Getenv("OPENAI_MODEL")
	if model == "" {
		return "gpt-4o-mini"
	}
	return model
}

// GenerateText generates text from the given prompt using OpenAI
func (o *OpenAI) GenerateText(ctx context.Context, prompt string, config providers.Config) (string, error) {
	model := config.Model
	if model == "" {
		model = defaultModel()
	}

	requestBody := map[string]interface{}{
		"model": model,
		"messages": []map[string]string{
			{
				"role":    "user",
				"content": prompt,
			},
		},
		"temperature": config.Temperature,
	}

	return o.complete(ctx, requestBody)
}

// GenerateFromImage answers the prompt about the given JPEG image using
// OpenAI's vision input
func (o *OpenAI) GenerateFromImage(ctx context.Context, imageData []byte, prompt string, config providers.Config) (string, error) {
	model := config.Model
	if model == "" {
		model = defaultModel()
	}

	base64Image := base64.StdEncoding.EncodeToString(imageData)

	requestBody := map[string]interface{}{
		"model": model,
		"messages": []map[string]interface{}{
			{
				"role": "user",
				"content": []map[string]interface{}{
					{
						"type": "text",
						"text": prompt,
					},
					{
						"type": "image_url",
						"image_url": map[string]string{
							"url": "data:image/jpeg;base64," + base64Image,
						},
					},
				},
			},
		},
		"max_tokens":  1000,
		"temperature": config.Temperature,
	}

	return o.complete(ctx, requestBody)
}

func (o *OpenAI) complete(ctx context.Context, requestBody map[string]interface{}) (string, error) {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return "", fmt.Errorf("OPENAI_API_KEY environment variable not set")
	}

	jsonData, err := json.Marshal(requestBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", chatCompletionsURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+apiKey)

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
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return "", fmt.Errorf("failed to decode response body: %w", err)
	}

	if len(response.Choices) == 0 {
		return "", fmt.Errorf("no choices returned from OpenAI")
	}

	return response.Choices[0].Message.Content, nil
}
