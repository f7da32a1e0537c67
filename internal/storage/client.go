package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ObjectStore is the surface the gallery code depends on.
type ObjectStore interface {
	Upload(ctx context.Context, data []byte, userID, mimeType, namePrefix string) (string, error)
	Delete(ctx context.Context, publicURL string) error
}

// Client talks to the Google Cloud Storage JSON API directly.
type Client struct {
	config     *Config
	httpClient *http.Client
}

func NewClient(config *Config) *Client {
	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// ObjectName builds a per-user object path with a fresh random identifier,
// e.g. users/42/outfit-tryon-2f9a....png.
func ObjectName(userID, mimeType, namePrefix string) string {
	ext := "png"
	if i := strings.Index(mimeType, "/"); i >= 0 && i+1 < len(mimeType) {
		ext = mimeType[i+1:]
	}
	if namePrefix == "" {
		namePrefix = "image"
	}
	return fmt.Sprintf("users/%s/%s-%s.%s", userID, namePrefix, uuid.NewString(), ext)
}

// Upload stores the bytes under the user's prefix, marks the object publicly
// readable, and returns the public URL.
func (c *Client) Upload(ctx context.Context, data []byte, userID, mimeType, namePrefix string) (string, error) {
	if !c.config.Configured() {
		return "", fmt.Errorf("object storage not configured")
	}

	object := ObjectName(userID, mimeType, namePrefix)

	params := url.Values{}
	params.Set("uploadType", "media")
	params.Set("name", object)
	params.Set("predefinedAcl", "publicRead")

	endpoint := fmt.Sprintf("%s/b/%s/o?%s", c.config.UploadBaseURL, c.config.Bucket, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", mimeType)
	if c.config.AccessToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.config.AccessToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("http post: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		log.Printf("storage upload error: status %d, body: %s", resp.StatusCode, string(body))
		return "", fmt.Errorf("storage upload error: status %d", resp.StatusCode)
	}

	publicURL := fmt.Sprintf("%s/%s/%s", c.config.PublicBaseURL, c.config.Bucket, object)
	log.Printf("storage upload: %d bytes -> %s", len(data), publicURL)
	return publicURL, nil
}

// Delete removes the object a public URL points at. The object path is
// recovered from the URL the way Upload built it.
func (c *Client) Delete(ctx context.Context, publicURL string) error {
	if !c.config.Configured() {
		return fmt.Errorf("object storage not configured")
	}

	object, err := c.objectFromURL(publicURL)
	if err != nil {
		return err
	}

	endpoint := fmt.Sprintf("%s/b/%s/o/%s", c.config.ObjectBaseURL, c.config.Bucket, url.PathEscape(object))

	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, endpoint, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if c.config.AccessToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.config.AccessToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("http delete: %w", err)
	}
	defer resp.Body.Close()

	// 404 counts as done; the object is gone either way.
	if resp.StatusCode != http.StatusNoContent && resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNotFound {
		body, _ := io.ReadAll(resp.Body)
		log.Printf("storage delete error: status %d, body: %s", resp.StatusCode, string(body))
		return fmt.Errorf("storage delete error: status %d", resp.StatusCode)
	}

	return nil
}

func (c *Client) objectFromURL(publicURL string) (string, error) {
	marker := "/" + c.config.Bucket + "/"
	i := strings.Index(publicURL, marker)
	if i < 0 {
		return "", fmt.Errorf("url %q does not reference bucket %q", publicURL, c.config.Bucket)
	}
	object := publicURL[i+len(marker):]
	if object == "" {
		return "", fmt.Errorf("url %q carries no object path", publicURL)
	}
	return object, nil
}
