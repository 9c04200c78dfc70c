package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Sentinel errors for the rewrite stage; callers match with errors.Is.
var (
	ErrUnreachable       = errors.New("ollama endpoint unreachable")
	ErrModelNotFound     = errors.New("ollama model not found")
	ErrMalformedResponse = errors.New("unexpected ollama response")
)

// maxRawPayload bounds the response excerpt quoted in malformed-response errors
const maxRawPayload = 500

// listTimeout bounds the /api/tags call independently of the generate timeout
const listTimeout = 15 * time.Second

// Client is the Ollama API client
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Config holds client configuration
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// DefaultConfig returns default configuration
func DefaultConfig() Config {
	return Config{
		BaseURL: "http://localhost:11434",
		Timeout: 120 * time.Second,
	}
}

// NewClient creates a new Ollama client
func NewClient(cfg Config) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// BaseURL returns the endpoint the client talks to
func (c *Client) BaseURL() string {
	return c.baseURL
}

// GenerateRequest represents a generate request
type GenerateRequest struct {
	Model   string                 `json:"model"`
	Prompt  string                 `json:"prompt"`
	Stream  bool                   `json:"stream"`
	Options map[string]interface{} `json:"options,omitempty"`
}

// GenerateResponse represents a generate response
type GenerateResponse struct {
	Model         string    `json:"model"`
	CreatedAt     time.Time `json:"created_at"`
	Response      string    `json:"response"`
	Done          bool      `json:"done"`
	TotalDuration int64     `json:"total_duration,omitempty"`
	EvalCount     int       `json:"eval_count,omitempty"`
}

// ModelInfo represents model information
type ModelInfo struct {
	Name       string    `json:"name"`
	ModifiedAt time.Time `json:"modified_at"`
	Size       int64     `json:"size"`
	Digest     string    `json:"digest"`
	Details    struct {
		Format            string   `json:"format"`
		Family            string   `json:"family"`
		Families          []string `json:"families"`
		ParameterSize     string   `json:"parameter_size"`
		QuantizationLevel string   `json:"quantization_level"`
	} `json:"details"`
}

// ListModelsResponse represents a list models response
type ListModelsResponse struct {
	Models []ModelInfo `json:"models"`
}

// Generate generates text from a prompt. The response must carry a
// "response" field; a 200 body without one is reported as malformed.
func (c *Client) Generate(ctx context.Context, req *GenerateRequest) (*GenerateResponse, error) {
	req.Stream = false

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := c.baseURL + "/api/generate"
	httpReq, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to reach Ollama at %s: %v: %w", url, err, ErrUnreachable)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		if resp.StatusCode == http.StatusNotFound && strings.Contains(strings.ToLower(string(bodyBytes)), "not found") {
			return nil, fmt.Errorf("Ollama says the model %q is not found (run: ollama pull %s), raw response: %s: %w",
				req.Model, req.Model, string(bodyBytes), ErrModelNotFound)
		}
		return nil, fmt.Errorf("request failed with status %d: %s", resp.StatusCode, string(bodyBytes))
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(bodyBytes, &raw); err != nil {
		return nil, fmt.Errorf("failed to decode response: %v: %w", err, ErrMalformedResponse)
	}
	if _, ok := raw["response"]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrMalformedResponse, truncate(bodyBytes, maxRawPayload))
	}

	var result GenerateResponse
	if err := json.Unmarshal(bodyBytes, &result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &result, nil
}

// ListModels lists installed models via /api/tags
func (c *Client) ListModels(ctx context.Context) (*ListModelsResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, listTimeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+"/api/tags", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to reach Ollama at %s: %v: %w", c.baseURL, err, ErrUnreachable)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("request failed with status %d: %s", resp.StatusCode, string(bodyBytes))
	}

	var result ListModelsResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &result, nil
}

// ModelNames returns the installed model names (name:tag). A listing
// failure yields an empty slice alongside the error, so presence checks
// can still report "(none detected)".
func (c *Client) ModelNames(ctx context.Context) ([]string, error) {
	resp, err := c.ListModels(ctx)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(resp.Models))
	for _, m := range resp.Models {
		if m.Name != "" {
			names = append(names, m.Name)
		}
	}
	return names, nil
}

// Ping checks if Ollama is available
func (c *Client) Ping(ctx context.Context) error {
	httpReq, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+"/", nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("connection failed: %v: %w", err, ErrUnreachable)
	}
	defer resp.Body.Close()

	return nil
}

// truncate shortens a payload excerpt to at most n bytes
func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n])
}
