package ollama

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ollama/ollama/api"
	"github.com/rs/zerolog"

	"github.com/menta2k/photo-screener/pkg/client"
	"github.com/menta2k/photo-screener/pkg/config"
	"github.com/menta2k/photo-screener/pkg/types"
)

// Client is a local Ollama vision adapter. It needs no credential and lets
// the pipeline run offline against a locally served vision model.
type Client struct {
	api     *api.Client
	timeout time.Duration
	log     zerolog.Logger
}

// NewClient creates an Ollama adapter for the given server URL.
func NewClient(cfg config.ProviderConfig, log zerolog.Logger) (*Client, error) {
	parsedURL, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid URL: %v", err)
	}

	// Base URL only; any path such as /api/chat is stripped
	baseURL := &url.URL{
		Scheme: parsedURL.Scheme,
		Host:   parsedURL.Host,
	}

	return &Client{
		api:     api.NewClient(baseURL, http.DefaultClient),
		timeout: cfg.Timeout,
		log:     log.With().Str("provider", config.ProviderOllama).Logger(),
	}, nil
}

// Name identifies the provider in run results and output filenames.
func (c *Client) Name() string { return config.ProviderOllama }

// Analyze submits the photos and prompt in a single chat call. Transport
// failures are captured in the response, never returned as errors.
func (c *Client) Analyze(ctx context.Context, req types.AnalysisRequest) types.RawResponse {
	if len(req.Photos) == 0 {
		return client.EmptyInputResponse()
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	images := make([]api.ImageData, 0, len(req.Photos))
	for _, photo := range req.Photos {
		imgBytes, err := base64.StdEncoding.DecodeString(photo.Base64)
		if err != nil {
			return client.TransportError(0, fmt.Sprintf("failed to decode photo %s: %v", photo.Filename, err))
		}
		images = append(images, api.ImageData(imgBytes))
	}

	streamFalse := false
	chatReq := &api.ChatRequest{
		Model: req.Model,
		Messages: []api.Message{
			{
				Role:    "user",
				Content: req.Prompt,
				Images:  images,
			},
		},
		Stream: &streamFalse,
		Options: map[string]any{
			"temperature": config.SamplingTemperature,
			"num_predict": config.MaxOutputTokens,
		},
	}

	c.log.Info().Int("photos", len(req.Photos)).Str("model", req.Model).Msg("analyzing photos")

	var responseContent string
	err := c.api.Chat(ctx, chatReq, func(resp api.ChatResponse) error {
		responseContent = resp.Message.Content
		return nil
	})
	if err != nil {
		c.log.Warn().Err(err).Msg("ollama chat failed")
		return client.TransportError(0, fmt.Sprintf("ollama chat error: %v", err))
	}

	body := strings.TrimSpace(responseContent)
	if body == "" {
		return client.TransportError(0, "empty response from ollama")
	}

	c.log.Debug().Str("body", body).Msg("raw response")
	return types.RawResponse{Status: types.StatusSuccess, Body: body}
}
