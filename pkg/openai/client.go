package openai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	oai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/rs/zerolog"

	"github.com/menta2k/photo-screener/pkg/client"
	"github.com/menta2k/photo-screener/pkg/config"
	"github.com/menta2k/photo-screener/pkg/types"
)

// Client is the OpenAI vision adapter, built on the official SDK.
type Client struct {
	api     oai.Client
	timeout time.Duration
	log     zerolog.Logger
}

// NewClient creates an OpenAI adapter. A missing API key is a fatal
// configuration error, surfaced here before any I/O happens.
func NewClient(cfg config.ProviderConfig, log zerolog.Logger) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY must be set in environment or passed as parameter")
	}

	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	return &Client{
		api:     oai.NewClient(opts...),
		timeout: cfg.Timeout,
		log:     log.With().Str("provider", config.ProviderOpenAI).Logger(),
	}, nil
}

// Name identifies the provider in run results and output filenames.
func (c *Client) Name() string { return config.ProviderOpenAI }

// Analyze submits the photos and prompt in a single chat completion call.
// Transport failures are captured in the response, never returned as errors.
func (c *Client) Analyze(ctx context.Context, req types.AnalysisRequest) types.RawResponse {
	if len(req.Photos) == 0 {
		return client.EmptyInputResponse()
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	parts := make([]oai.ChatCompletionContentPartUnionParam, 0, len(req.Photos)+1)
	parts = append(parts, oai.ChatCompletionContentPartUnionParam{
		OfText: &oai.ChatCompletionContentPartTextParam{Text: req.Prompt},
	})
	for _, photo := range req.Photos {
		parts = append(parts, oai.ChatCompletionContentPartUnionParam{
			OfImageURL: &oai.ChatCompletionContentPartImageParam{
				ImageURL: oai.ChatCompletionContentPartImageImageURLParam{
					URL:    photo.DataURL(),
					Detail: "auto",
				},
			},
		})
	}

	c.log.Info().Int("photos", len(req.Photos)).Str("model", req.Model).Msg("analyzing photos")

	resp, err := c.api.Chat.Completions.New(ctx, oai.ChatCompletionNewParams{
		Model: oai.ChatModel(req.Model),
		Messages: []oai.ChatCompletionMessageParamUnion{
			{
				OfUser: &oai.ChatCompletionUserMessageParam{
					Content: oai.ChatCompletionUserMessageParamContentUnion{
						OfArrayOfContentParts: parts,
					},
				},
			},
		},
		MaxCompletionTokens: oai.Int(config.MaxOutputTokens),
		Temperature:         oai.Float(config.SamplingTemperature),
	})
	if err != nil {
		c.log.Warn().Err(err).Msg("chat completion failed")
		var apiErr *oai.Error
		if errors.As(err, &apiErr) {
			return client.TransportError(apiErr.StatusCode,
				fmt.Sprintf("HTTP %d: %s", apiErr.StatusCode, apiErr.Message))
		}
		return client.TransportError(0, err.Error())
	}

	if len(resp.Choices) == 0 {
		return client.TransportError(0, "no choices in response")
	}

	body := strings.TrimSpace(resp.Choices[0].Message.Content)
	c.log.Debug().Str("body", body).Msg("raw response")
	return types.RawResponse{Status: types.StatusSuccess, Body: body}
}
