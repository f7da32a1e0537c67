package genai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"
)

// Generator is the surface the generation handlers depend on, so tests can
// substitute a canned model.
type Generator interface {
	GenerateContent(ctx context.Context, model string, contents []Content, cfg *GenerationConfig) (*GenerateContentResponse, error)
}

type Client struct {
	config     *Config
	httpClient *http.Client
}

func NewClient(config *Config) *Client {
	return &Client{
		config: config,
		httpClient: &http.Client{
			// Image generation is slow; well above the text-API norm.
			Timeout: 120 * time.Second,
		},
	}
}

func (c *Client) GenerateContent(ctx context.Context, model string, contents []Content, cfg *GenerationConfig) (*GenerateContentResponse, error) {
	reqBody := GenerateContentRequest{
		Contents:         contents,
		GenerationConfig: cfg,
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent", c.config.BaseURL, model)
	log.Printf("genai request: model=%s parts=%d", model, countParts(contents))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.config.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Printf("genai request failed: %v", err)
		return nil, fmt.Errorf("http post: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		log.Printf("genai api error: status %d, body: %s", resp.StatusCode, truncate(string(body), 500))
		return nil, fmt.Errorf("genai api error: status %d", resp.StatusCode)
	}

	var result GenerateContentResponse
	if err := json.Unmarshal(body, &result); err != nil {
		log.Printf("genai unmarshal failed: %v", err)
		return nil, fmt.Errorf("unmarshal: %w", err)
	}

	log.Printf("genai response: %d bytes", len(body))
	return &result, nil
}

func countParts(contents []Content) int {
	n := 0
	for _, c := range contents {
		n += len(c.Parts)
	}
	return n
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
