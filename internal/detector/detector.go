package detector

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/bookshelf-labs/shelfscan/internal/models"
)

// minConfidence is the detection confidence threshold the spine model
// was tuned for.
const minConfidence = 0.5

// Client talks to the external spine-detection inference service. The
// service takes a photo and returns oriented bounding boxes, one per
// candidate spine.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New returns a detector client configured from DETECTOR_URL. The URL
// is checked at call time so the server can start without a detector
// and surface the failure per request.
func New() *Client {
	return &Client{
		baseURL:    strings.TrimRight(os.Getenv("DETECTOR_URL"), "/"),
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
}

type detectRequest struct {
	Image         string  `json:"image"`
	MinConfidence float64 `json:"min_confidence"`
}

type detectResponse struct {
	Detections []struct {
		Corners    [][2]float64 `json:"corners"`
		Confidence float64      `json:"confidence"`
	} `json:"detections"`
}

// Detect runs spine detection on the photo. Zero detections is a valid
// empty result, not an error.
func (c *Client) Detect(ctx context.Context, imageData []byte) ([]models.DetectedRegion, error) {
	if c.baseURL == "" {
		return nil, fmt.Errorf("DETECTOR_URL environment variable not set")
	}

	jsonData, err := json.Marshal(detectRequest{
		Image:         base64.StdEncoding.EncodeToString(imageData),
		MinConfidence: minConfidence,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/detect", bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call detector: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("detector returned status %d: %s", resp.StatusCode, string(body))
	}

	var response detectResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("failed to decode detector response: %w", err)
	}

	regions := make([]models.DetectedRegion, 0, len(response.Detections))
	for _, d := range response.Detections {
		if len(d.Corners) != 4 {
			continue
		}
		var region models.DetectedRegion
		for i, p := range d.Corners {
			region.Corners[i] = models.Point{X: p[0], Y: p[1]}
		}
		region.Confidence = d.Confidence
		regions = append(regions, region)
	}
	return regions, nil
}
