package grok

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/menta2k/photo-screener/pkg/client"
	"github.com/menta2k/photo-screener/pkg/config"
	"github.com/menta2k/photo-screener/pkg/types"
)

// Client is the xAI Grok vision adapter. Grok exposes an OpenAI-compatible
// chat completions endpoint, so the wire types below follow that shape.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	log        zerolog.Logger
}

// OpenAI-compatible message format
type Message struct {
	Role    string      `json:"role"`
	Content interface{} `json:"content"` // Can be string or []ContentPart
}

type ContentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *ImageURL `json:"image_url,omitempty"`
}

type ImageURL struct {
	URL string `json:"url"`
}

// OpenAI-compatible chat completion request
type ChatCompletionRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature,omitempty"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
	Stream      bool      `json:"stream"`
}

// OpenAI-compatible chat completion response
type ChatCompletionResponse struct {
	ID      string   `json:"id"`
	Object  string   `json:"object"`
	Created int64    `json:"created"`
	Model   string   `json:"model"`
	Choices []Choice `json:"choices"`
}

type Choice struct {
	Index        int     `json:"index"`
	Message      Message `json:"message"`
	FinishReason string  `json:"finish_reason,omitempty"`
}

// NewClient creates a Grok adapter. A missing API key is a fatal
// configuration error, surfaced here before any I/O happens.
func NewClient(cfg config.ProviderConfig, log zerolog.Logger) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("XAI_API_KEY must be set in environment or passed as parameter")
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://api.x.ai/v1"
	}

	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		apiKey:  cfg.APIKey,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		log: log.With().Str("provider", config.ProviderGrok).Logger(),
	}, nil
}

// Name identifies the provider in run results and output filenames.
func (c *Client) Name() string { return config.ProviderGrok }

// Analyze submits the photos and prompt in a single chat completion call.
// Transport failures, including non-2xx statuses and timeouts, are captured
// in the response rather than returned as errors.
func (c *Client) Analyze(ctx context.Context, req types.AnalysisRequest) types.RawResponse {
	if len(req.Photos) == 0 {
		return client.EmptyInputResponse()
	}

	content := []ContentPart{
		{
			Type: "text",
			Text: req.Prompt,
		},
	}
	for _, photo := range req.Photos {
		content = append(content, ContentPart{
			Type:     "image_url",
			ImageURL: &ImageURL{URL: photo.DataURL()},
		})
	}

	payload := ChatCompletionRequest{
		Model: req.Model,
		Messages: []Message{
			{
				Role:    "user",
				Content: content,
			},
		},
		Temperature: config.SamplingTemperature,
		MaxTokens:   config.MaxOutputTokens,
		Stream:      false,
	}

	c.log.Info().Int("photos", len(req.Photos)).Str("model", req.Model).Msg("analyzing photos")

	status, respBody, err := c.sendRequest(ctx, "/chat/completions", payload)
	if err != nil {
		c.log.Warn().Err(err).Msg("request failed")
		return client.TransportError(0, err.Error())
	}
	if status != http.StatusOK {
		c.log.Warn().Int("status", status).Msg("non-success HTTP status")
		return client.TransportError(status, fmt.Sprintf("HTTP %d: %s", status, string(respBody)))
	}

	var resp ChatCompletionResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return client.TransportError(0, fmt.Sprintf("failed to parse response: %v", err))
	}
	if len(resp.Choices) == 0 {
		return client.TransportError(0, "no choices in response")
	}

	body := extractText(resp.Choices[0].Message.Content)
	if body == "" {
		return client.TransportError(0, "no text content in response")
	}

	c.log.Debug().Str("body", body).Msg("raw response")
	return types.RawResponse{Status: types.StatusSuccess, Body: body}
}

func (c *Client) sendRequest(ctx context.Context, endpoint string, payload interface{}) (int, []byte, error) {
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to marshal request: %v", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+endpoint, bytes.NewReader(jsonData))
	if err != nil {
		return 0, nil, fmt.Errorf("failed to create request: %v", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to send request: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("failed to read response: %v", err)
	}

	return resp.StatusCode, body, nil
}

// extractText pulls the text out of a message content field, which the API
// may return either as a plain string or as an array of typed parts.
func extractText(content interface{}) string {
	switch v := content.(type) {
	case string:
		return strings.TrimSpace(v)
	case []interface{}:
		for _, item := range v {
			if partMap, ok := item.(map[string]interface{}); ok {
				if text, ok := partMap["text"].(string); ok && text != "" {
					return strings.TrimSpace(text)
				}
			}
		}
	}
	return ""
}
