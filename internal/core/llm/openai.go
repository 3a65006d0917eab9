package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/sashabaranov/go-openai"
	"golang.org/x/time/rate"

	"github.com/sachan-rai/healthtrack-pro/internal/core/domain"
	"github.com/sachan-rai/healthtrack-pro/internal/platform/observability"
)

// ErrCircuitBreakerOpen indicates the circuit breaker is open.
var ErrCircuitBreakerOpen = errors.New("circuit breaker is open")

// ErrEmptyCompletion indicates the model returned no choices.
var ErrEmptyCompletion = errors.New("empty completion response")

const (
	circuitBreakerThreshold = 5
	circuitBreakerTimeout   = 1 * time.Minute
	rateLimiterBurst        = 5

	completionTemperature = 0.2

	errRateLimiter = "rate limiter: %w"
)

// OpenAIConfig holds configuration for the OpenAI client.
type OpenAIConfig struct {
	APIKey    string
	Model     string
	RateLimit int // requests per second
}

type openaiClient struct {
	client      *openai.Client
	model       string
	logger      *zerolog.Logger
	rateLimiter *rate.Limiter

	// Circuit breaker state
	consecutiveFailures int
	circuitOpenUntil    time.Time
	mu                  sync.Mutex
}

// NewOpenAI creates a Client backed by the OpenAI chat completion API.
func NewOpenAI(cfg OpenAIConfig, logger *zerolog.Logger) Client {
	if cfg.Model == "" {
		cfg.Model = DefaultChatModel
	}

	if cfg.RateLimit <= 0 {
		cfg.RateLimit = 1
	}

	return &openaiClient{
		client:      openai.NewClient(cfg.APIKey),
		model:       cfg.Model,
		logger:      logger,
		rateLimiter: rate.NewLimiter(rate.Limit(float64(cfg.RateLimit)), rateLimiterBurst),
	}
}

func (c *openaiClient) checkCircuit() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if time.Now().Before(c.circuitOpenUntil) {
		return fmt.Errorf("%w until %v", ErrCircuitBreakerOpen, c.circuitOpenUntil)
	}

	return nil
}

func (c *openaiClient) recordSuccess() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.consecutiveFailures = 0
}

func (c *openaiClient) recordFailure() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.consecutiveFailures++
	if c.consecutiveFailures >= circuitBreakerThreshold {
		c.circuitOpenUntil = time.Now().Add(circuitBreakerTimeout)
		c.logger.Warn().
			Int("consecutive_failures", c.consecutiveFailures).
			Time("open_until", c.circuitOpenUntil).
			Msg("Circuit breaker opened")
	}
}

func (c *openaiClient) SummarizeEvidence(ctx context.Context, goal string, evidence []domain.EvidenceItem) (string, error) {
	if len(evidence) == 0 {
		return "", nil
	}

	var b strings.Builder

	for _, item := range evidence {
		fmt.Fprintf(&b, "- %s\n  [Source: %s p.%d]\n\n", item.Text, item.Source, item.Page)
	}

	content, err := c.complete(ctx, summarizeSystemPrompt,
		fmt.Sprintf(summarizeUserPromptFmt, goal, b.String()), nil)
	if err != nil {
		return "", fmt.Errorf("summarize evidence: %w", err)
	}

	return strings.TrimSpace(content), nil
}

// planEnvelope matches the JSON shape requested from the model.
type planEnvelope struct {
	Plan domain.GeneratedPlan `json:"plan"`
}

func (c *openaiClient) DraftPlan(ctx context.Context, goal string, evidenceSummary string, days int) (*domain.GeneratedPlan, error) {
	format := &openai.ChatCompletionResponseFormat{
		Type: openai.ChatCompletionResponseFormatTypeJSONObject,
	}

	content, err := c.complete(ctx, systemPrompt,
		fmt.Sprintf(draftUserPromptFmt, goal, evidenceSummary, days), format)
	if err != nil {
		return nil, fmt.Errorf("draft plan: %w", err)
	}

	var envelope planEnvelope
	if err := json.Unmarshal([]byte(content), &envelope); err != nil {
		return nil, fmt.Errorf("parse plan response: %w", err)
	}

	return &envelope.Plan, nil
}

func (c *openaiClient) complete(ctx context.Context, system, user string, format *openai.ChatCompletionResponseFormat) (string, error) {
	if err := c.checkCircuit(); err != nil {
		return "", err
	}

	if err := c.rateLimiter.Wait(ctx); err != nil {
		return "", fmt.Errorf(errRateLimiter, err)
	}

	start := time.Now()

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
		ResponseFormat: format,
		Temperature:    completionTemperature,
	})
	if err != nil {
		c.recordFailure()

		return "", fmt.Errorf("chat completion: %w", err)
	}

	c.recordSuccess()
	observability.LLMRequestDuration.WithLabelValues(c.model).Observe(time.Since(start).Seconds())
	c.logger.Debug().
		Str("model", c.model).
		Dur("duration", time.Since(start)).
		Msg("LLM request completed")

	if len(resp.Choices) == 0 {
		return "", ErrEmptyCompletion
	}

	return resp.Choices[0].Message.Content, nil
}
