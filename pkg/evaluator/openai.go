package evaluator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/essayforge/essay-api/internal/exam"
	"github.com/essayforge/essay-api/pkg/textmetrics"
)

var (
	evalDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "essay",
		Subsystem: "evaluator",
		Name:      "request_duration_seconds",
		Help:      "Duration of evaluator requests",
	}, []string{"model"})

	evalFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "essay",
		Subsystem: "evaluator",
		Name:      "request_failures_total",
		Help:      "Number of failed evaluator requests",
	}, []string{"model"})

	evalRetries = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "essay",
		Subsystem: "evaluator",
		Name:      "request_retries_total",
		Help:      "Number of retried evaluator requests",
	}, []string{"model"})
)

// Config defines configuration options for the OpenAI-compatible
// evaluator client. BaseURL allows pointing the client at any
// chat-completion compatible gateway.
type Config struct {
	APIKey       string
	BaseURL      string
	Model        string
	MaxTokens    int
	Temperature  float32
	Timeout      time.Duration
	MaxAttempts  int
	RetryBackoff time.Duration
	Logger       zerolog.Logger
}

// Client scores essays through a chat-completion API and parses the
// free-text reply with an Extractor.
type Client struct {
	api       *openai.Client
	cfg       Config
	extractor *Extractor
	tracer    trace.Tracer
	logger    zerolog.Logger
}

// NewClient builds an evaluator client from the provided configuration.
// The API key is mandatory; everything else has sensible defaults.
func NewClient(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("evaluator api key is required")
	}

	if cfg.Model == "" {
		cfg.Model = "gpt-4o-mini"
	}

	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = 1024
	}

	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}

	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 3
	}

	if cfg.RetryBackoff <= 0 {
		cfg.RetryBackoff = time.Second
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	logger := cfg.Logger
	if logger.GetLevel() == zerolog.Disabled {
		logger = zerolog.Nop()
	}

	return &Client{
		api:       openai.NewClientWithConfig(clientConfig),
		cfg:       cfg,
		extractor: NewExtractor(),
		tracer:    otel.Tracer("github.com/essayforge/essay-api/pkg/evaluator"),
		logger:    logger.With().Str("component", "evaluator").Logger(),
	}, nil
}

// Evaluate sends the essay to the scoring service and extracts a
// structured evaluation from the reply. Transient failures (timeouts,
// network errors, 5xx) are retried with exponential backoff up to the
// configured attempt budget.
func (c *Client) Evaluate(parent context.Context, family exam.Family, essayText string) (Evaluation, error) {
	ctx, span := c.tracer.Start(parent, "evaluator.evaluate", trace.WithAttributes(
		attribute.String("model", c.cfg.Model),
		attribute.String("exam_family", string(family)),
	))
	defer span.End()

	request := openai.ChatCompletionRequest{
		Model:       c.cfg.Model,
		MaxTokens:   c.cfg.MaxTokens,
		Temperature: c.cfg.Temperature,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: systemPrompt,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: buildUserPrompt(family, essayText),
			},
		},
	}

	start := time.Now()
	resp, err := c.completeWithRetry(ctx, request)
	evalDuration.WithLabelValues(c.cfg.Model).Observe(time.Since(start).Seconds())
	if err != nil {
		evalFailures.WithLabelValues(c.cfg.Model).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return Evaluation{}, err
	}

	if len(resp.Choices) == 0 {
		evalFailures.WithLabelValues(c.cfg.Model).Inc()
		err := fmt.Errorf("%w: no choices returned", ErrInvalidResponse)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return Evaluation{}, err
	}

	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if content == "" {
		evalFailures.WithLabelValues(c.cfg.Model).Inc()
		err := fmt.Errorf("%w: empty completion", ErrInvalidResponse)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return Evaluation{}, err
	}

	extraction := c.extractor.Extract(content, family)
	if extraction.Degraded {
		c.logger.Warn().
			Str("exam_family", string(family)).
			Str("matched_pattern", extraction.MatchedPattern).
			Msg("score extraction degraded, defaulting to zero")
	}

	return Evaluation{
		Score:          extraction.Score,
		Feedback:       extraction.Feedback,
		WordCount:      textmetrics.WordCount(essayText),
		CharacterCount: textmetrics.CharacterCount(essayText),
		Raw: map[string]interface{}{
			"evaluation_text": content,
			"matched_pattern": extraction.MatchedPattern,
			"degraded":        extraction.Degraded,
			"usage":           resp.Usage,
		},
	}, nil
}

// completeWithRetry runs the chat completion inside a bounded retry
// loop. Each attempt gets its own timeout; only transient failures are
// retried.
func (c *Client) completeWithRetry(ctx context.Context, request openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	var lastErr error

	for attempt := 1; attempt <= c.cfg.MaxAttempts; attempt++ {
		attemptCtx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
		resp, err := c.api.CreateChatCompletion(attemptCtx, request)
		cancel()

		if err == nil {
			return resp, nil
		}

		lastErr = err
		if !retriable(err) {
			return openai.ChatCompletionResponse{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
		}

		if attempt == c.cfg.MaxAttempts {
			break
		}

		evalRetries.WithLabelValues(c.cfg.Model).Inc()
		c.logger.Warn().Err(err).Int("attempt", attempt).Msg("evaluator request failed, retrying")

		backoff := c.cfg.RetryBackoff << (attempt - 1)
		select {
		case <-ctx.Done():
			return openai.ChatCompletionResponse{}, fmt.Errorf("%w: %v", ErrUnavailable, ctx.Err())
		case <-time.After(backoff):
		}
	}

	return openai.ChatCompletionResponse{}, fmt.Errorf("%w: retries exhausted: %v", ErrUnavailable, lastErr)
}

// retriable reports whether the failure is worth another attempt.
// Client errors (4xx) are terminal; timeouts, network failures, and
// server errors are not.
func retriable(err error) bool {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode >= 500
	}

	return true
}

const systemPrompt = "You are an expert essay evaluator. Grade the essay against the rubric you are given " +
	"and reply in plain text using exactly this layout:\n" +
	"1. Score: [score] out of [maximum]\n" +
	"2. Detailed Feedback:\n" +
	"   - Content Analysis\n" +
	"   - Structure Analysis\n" +
	"   - Grammar and Style\n" +
	"3. Word Count: [word count]\n" +
	"4. Areas for Improvement:\n" +
	"   - [specific areas]\n" +
	"Be thorough in your evaluation."

func buildUserPrompt(family exam.Family, essayText string) string {
	builder := strings.Builder{}
	builder.WriteString("## Exam\n")
	builder.WriteString(string(family))
	builder.WriteString("\n\n## Rubric\n")
	builder.WriteString(family.Rubric())
	builder.WriteString("\n\n## Essay\n\"\"\"\n")
	builder.WriteString(essayText)
	builder.WriteString("\n\"\"\"\n")
	return builder.String()
}
