// Package detector talks to the pose landmark service, which runs the landmark
// model and returns one normalized skeleton per image.
package detector

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"github.com/kozaktomas/pose-coach/internal/pose"
)

const (
	defaultLandmarkURL = "http://localhost:8000"
	landmarksEndpoint  = "/pose/landmarks"
)

// ErrNoDetection is returned when the service found no body in the image.
var ErrNoDetection = errors.New("no pose detected")

// Client sends images to the landmark service.
type Client struct {
	baseURL      string
	maxFrameSize int
	client       *http.Client
}

// NewClient creates a landmark client. Images larger than maxFrameSize on their long
// side are downscaled before upload; zero disables resizing.
func NewClient(baseURL string, maxFrameSize int) *Client {
	if baseURL == "" {
		baseURL = defaultLandmarkURL
	}
	return &Client{
		baseURL:      strings.TrimSuffix(baseURL, "/"),
		maxFrameSize: maxFrameSize,
		client:       &http.Client{Timeout: 30 * time.Second},
	}
}

// landmarksResponse represents the response from the landmark service
type landmarksResponse struct {
	Landmarks map[string]pose.Landmark `json:"landmarks"`
	Width     int                      `json:"width"`
	Height    int                      `json:"height"`
	Model     string                   `json:"model"`
}

// postMultipartImage posts the image as the "file" form field and returns the response body.
// A 404 from the service means no body was found.
func (c *Client) postMultipartImage(ctx context.Context, endpoint string, imageData []byte) ([]byte, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="file"; filename="frame.jpg"`)
	h.Set("Content-Type", detectMIMEType(imageData))
	part, err := writer.CreatePart(h)
	if err != nil {
		return nil, fmt.Errorf("failed to create form file: %w", err)
	}

	if _, err := part.Write(imageData); err != nil {
		return nil, fmt.Errorf("failed to write image data: %w", err)
	}

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to close multipart writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+endpoint, &buf)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNoDetection
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(body))
	}

	return body, nil
}

// Detect returns the skeleton found in the image, or ErrNoDetection.
func (c *Client) Detect(ctx context.Context, imageData []byte) (pose.Skeleton, error) {
	if c.maxFrameSize > 0 {
		resized, err := ResizeFrame(imageData, c.maxFrameSize)
		if err != nil {
			return nil, err
		}
		imageData = resized
	}

	body, err := c.postMultipartImage(ctx, landmarksEndpoint, imageData)
	if err != nil {
		return nil, err
	}

	var lmResp landmarksResponse
	if err := json.Unmarshal(body, &lmResp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if len(lmResp.Landmarks) == 0 {
		return nil, ErrNoDetection
	}

	skeleton := make(pose.Skeleton, len(lmResp.Landmarks))
	for name, lm := range lmResp.Landmarks {
		skeleton[strings.ToLower(name)] = lm
	}
	return skeleton, nil
}

// detectMIMEType detects the MIME type from image data
func detectMIMEType(data []byte) string {
	if len(data) < 8 {
		return "application/octet-stream"
	}
	// JPEG: FF D8 FF
	if data[0] == 0xFF && data[1] == 0xD8 && data[2] == 0xFF {
		return "image/jpeg"
	}
	// PNG: 89 50 4E 47
	if data[0] == 0x89 && data[1] == 0x50 && data[2] == 0x4E && data[3] == 0x47 {
		return "image/png"
	}
	return "application/octet-stream"
}
