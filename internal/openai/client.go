// Package openai contains minimal bindings for the two OpenAI endpoints
// this service consumes: audio transcription and chat completions.
package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const defaultBaseURL = "https://api.openai.com/v1"

type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

type ClientConfig struct {
	APIKey string
	// BaseURL overrides the production API URL, mainly for tests.
	BaseURL string
	// HTTPClient is optional and defaults to a client with a generous
	// timeout sized for audio uploads.
	HTTPClient *http.Client
}

func NewClient(cfg ClientConfig) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: 5 * time.Minute}
	}
	return &Client{
		apiKey:     cfg.APIKey,
		baseURL:    cfg.BaseURL,
		httpClient: cfg.HTTPClient,
	}
}

// Error is a structured response indicating a non-2xx HTTP response.
type Error struct {
	StatusCode int
	Type       string `json:"type"`
	Message    string `json:"message"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("openai: status=%d %s: %s", e.StatusCode, e.Type, e.Message)
}

type errorEnvelope struct {
	Error *Error `json:"error"`
}

func (c *Client) newRequest(ctx context.Context, method, path, contentType string, body io.Reader) (*http.Request, error) {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	return req, nil
}

// do executes an API request and unmarshals the response into v. Error
// responses are decoded into a typed *Error.
func (c *Client) do(req *http.Request, v any) error {
	res, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	resBody, err := io.ReadAll(res.Body)
	if err != nil {
		return err
	}

	if res.StatusCode >= 400 {
		var envelope errorEnvelope
		if err := json.Unmarshal(resBody, &envelope); err != nil || envelope.Error == nil {
			envelope.Error = &Error{Message: string(resBody)}
		}
		envelope.Error.StatusCode = res.StatusCode
		return envelope.Error
	}

	if v != nil {
		return json.Unmarshal(resBody, v)
	}
	return nil
}
