// Package notion is a small client for the Notion REST API covering the
// calls needed to provision survey databases and store responses.
package notion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"math"
	"net/http"
	"time"

	"surveyforge/internal/config"
)

// Client wraps Notion API calls
type Client struct {
	baseURL    string
	token      string
	version    string
	httpClient *http.Client
	maxRetries int
	backoff    func(attempt int) time.Duration
}

// NewClient creates a new Notion API client
func NewClient(cfg config.NotionConfig) *Client {
	if cfg.Token == "" {
		log.Println("[Notion Client] Warning: NOTION_TOKEN not set")
	}

	return &Client{
		baseURL: cfg.BaseURL,
		token:   cfg.Token,
		version: cfg.Version,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		maxRetries: 5,
		backoff: func(attempt int) time.Duration {
			return time.Duration(math.Pow(2, float64(attempt))) * time.Second
		},
	}
}

// IsConfigured returns true if an integration token is set
func (c *Client) IsConfigured() bool {
	return c.token != ""
}

// doRequest sends a JSON request and decodes the response into out.
// Rate-limited calls are retried with exponential backoff; any other
// error status is returned as *APIError.
func (c *Client) doRequest(ctx context.Context, method, path string, body interface{}, out interface{}) error {
	if !c.IsConfigured() {
		return fmt.Errorf("notion token: %w", config.ErrNotConfigured)
	}

	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
	}

	url := c.baseURL + path
	log.Printf("[Notion Client] %s %s", method, path)

	var lastErr error
	for attempt := 0; attempt < c.maxRetries; attempt++ {
		if attempt > 0 {
			log.Printf("[Notion Client] Retry attempt %d/%d for %s %s", attempt, c.maxRetries, method, path)
		}

		var reader io.Reader
		if payload != nil {
			reader = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, method, url, reader)
		if err != nil {
			return fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+c.token)
		req.Header.Set("Notion-Version", c.version)
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			log.Printf("[Notion Client] ERROR: HTTP request failed: %v", err)
			return fmt.Errorf("notion request failed: %w", err)
		}

		respBody, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return fmt.Errorf("failed to read response body: %w", err)
		}

		log.Printf("[Notion Client] Response status: %d, body length: %d bytes", resp.StatusCode, len(respBody))

		if resp.StatusCode == http.StatusTooManyRequests {
			lastErr = parseAPIError(resp.StatusCode, respBody)
			wait := c.backoff(attempt)
			log.Printf("[Notion Client] RATE LIMITED: Retry %d/%d in %v", attempt+1, c.maxRetries, wait)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
			}
			continue
		}

		if resp.StatusCode >= 400 {
			apiErr := parseAPIError(resp.StatusCode, respBody)
			log.Printf("[Notion Client] ERROR: %v", apiErr)
			return apiErr
		}

		if out != nil {
			if err := json.Unmarshal(respBody, out); err != nil {
				return fmt.Errorf("failed to parse response: %w", err)
			}
		}
		return nil
	}

	log.Printf("[Notion Client] ERROR: Max retries (%d) exceeded for %s %s", c.maxRetries, method, path)
	return fmt.Errorf("max retries exceeded: %w", lastErr)
}

func parseAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{}
	if err := json.Unmarshal(body, apiErr); err != nil || apiErr.Message == "" {
		apiErr.Message = string(body)
	}
	apiErr.Status = status
	return apiErr
}
