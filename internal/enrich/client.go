package enrich

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"

	"tradebook/internal/analysis"
	"tradebook/internal/errors"
	"tradebook/internal/models"
)

// maxProjectedTrades caps the number of trades sent per request; the most
// recent ones carry the signal.
const maxProjectedTrades = 200

// Client implements analysis.Enricher over a chat-completion API.
type Client struct {
	client  *openai.Client
	model   string
	timeout time.Duration
	logger  zerolog.Logger
}

// Config configures the enrichment client.
type Config struct {
	APIKey  string
	Model   string
	BaseURL string // empty uses the default OpenAI endpoint
	Timeout time.Duration
}

// NewClient creates a new enrichment client.
func NewClient(cfg Config, logger zerolog.Logger) *Client {
	ocfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		ocfg.BaseURL = cfg.BaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		client:  openai.NewClientWithConfig(ocfg),
		model:   cfg.Model,
		timeout: timeout,
		logger:  logger,
	}
}

// Enrich sends the sanitized trade projection to the model and parses the
// narrative reply. One best-effort request, no retries; every failure is
// returned as an EnrichmentError for the analyzer to swallow.
func (c *Client) Enrich(ctx context.Context, trades []models.Trade) (*analysis.Enrichment, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	recent := models.RecentN(trades, maxProjectedTrades)
	userPrompt, err := buildUserPrompt(projectTrades(recent))
	if err != nil {
		return nil, errors.NewEnrichmentError("request", err)
	}

	c.logger.Debug().Int("trades", len(recent)).Str("model", c.model).
		Msg("Requesting enrichment")

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt},
		},
	})
	if err != nil {
		return nil, errors.NewEnrichmentError("request", err)
	}
	if len(resp.Choices) == 0 {
		return nil, errors.NewEnrichmentError("decode", fmt.Errorf("model returned no choices"))
	}

	enr, err := parseResponse(resp.Choices[0].Message.Content)
	if err != nil {
		return nil, errors.NewEnrichmentError("validate", err)
	}

	return enr, nil
}
