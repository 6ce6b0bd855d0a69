package generation

import (
	"context"
	stderrors "errors"
	"fmt"
	"math"
	"net/http"
	"time"

	"github.com/sashabaranov/go-openai"
	"github.com/vytor/flashdeck/internal/errors"
	"github.com/vytor/flashdeck/internal/logger"
	"github.com/vytor/flashdeck/internal/models"
	"golang.org/x/time/rate"
)

// Config holds the generation service settings.
type Config struct {
	BaseURL       string
	APIKey        string
	Model         string
	Timeout       time.Duration
	MaxRetries    int
	RatePerMinute int
	// RetryBackoff is the wait before the first retry; it doubles per attempt.
	RetryBackoff time.Duration
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		BaseURL:       "https://api.openai.com/v1",
		Model:         openai.GPT4oMini,
		Timeout:       30 * time.Second,
		MaxRetries:    3,
		RatePerMinute: 30,
		RetryBackoff:  time.Second,
	}
}

type Client struct {
	chat    ChatCompleter
	config  Config
	limiter *rate.Limiter
	now     func() time.Time
}

// New creates a Client talking to an OpenAI compatible endpoint.
func New(cfg Config) *Client {
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}
	return NewWithChat(openai.NewClientWithConfig(clientConfig), cfg)
}

// NewWithChat creates a Client over an existing chat completer.
func NewWithChat(chat ChatCompleter, cfg Config) *Client {
	def := DefaultConfig()
	if cfg.Model == "" {
		cfg.Model = def.Model
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = def.Timeout
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 1
	}
	if cfg.RetryBackoff <= 0 {
		cfg.RetryBackoff = def.RetryBackoff
	}

	limit := rate.Inf
	if cfg.RatePerMinute > 0 {
		limit = rate.Every(time.Minute / time.Duration(cfg.RatePerMinute))
	}

	return &Client{
		chat:    chat,
		config:  cfg,
		limiter: rate.NewLimiter(limit, 1),
		now:     time.Now,
	}
}

func (c *Client) FromTopic(ctx context.Context, topic string) ([]models.Flashcard, error) {
	return c.generate(ctx, TopicPrompt(topic))
}

func (c *Client) FromText(ctx context.Context, text string) ([]models.Flashcard, error) {
	return c.generate(ctx, TextPrompt(text))
}

func (c *Client) generate(ctx context.Context, prompt string) ([]models.Flashcard, error) {
	log := logger.FromContext(ctx).WithPrefix("generation")
	start := time.Now()

	reply, err := c.complete(ctx, prompt)
	if err != nil {
		log.Error("generation request failed: %v", err)
		return nil, err
	}
	log.Debug("generation reply received in %v, length=%d", time.Since(start), len(reply))

	cards, err := Parse(reply, c.now())
	if err != nil {
		log.Warn("generation reply rejected: %v", err)
		return nil, err
	}
	log.Info("generated %d flashcards", len(cards))
	return cards, nil
}

func (c *Client) complete(ctx context.Context, prompt string) (string, error) {
	var reply string
	err := c.doWithRetry(ctx, func() error {
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}

		callCtx, cancel := context.WithTimeout(ctx, c.config.Timeout)
		defer cancel()

		resp, err := c.chat.CreateChatCompletion(callCtx, openai.ChatCompletionRequest{
			Model: c.config.Model,
			Messages: []openai.ChatCompletionMessage{
				{Role: openai.ChatMessageRoleUser, Content: prompt},
			},
		})
		if err != nil {
			return err
		}
		if len(resp.Choices) == 0 {
			return fmt.Errorf("empty chat response")
		}
		reply = resp.Choices[0].Message.Content
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	return reply, nil
}

// doWithRetry runs fn with exponential backoff until it succeeds, a
// permanent error is returned, or ctx ends.
func (c *Client) doWithRetry(ctx context.Context, fn func() error) error {
	log := logger.FromContext(ctx).WithPrefix("generation")
	var lastErr error
	for attempt := 0; attempt < c.config.MaxRetries; attempt++ {
		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if !retryable(err) || attempt == c.config.MaxRetries-1 {
			break
		}

		wait := time.Duration(math.Pow(2, float64(attempt))) * c.config.RetryBackoff
		log.Debug("generation request failed, retrying: attempt=%d, wait=%v, error=%v", attempt+1, wait, err)
		select {
		case <-time.After(wait):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return lastErr
}

// retryable treats client errors other than rate limiting as permanent.
func retryable(err error) bool {
	if errors.Is(err, context.Canceled) {
		return false
	}
	var apiErr *openai.APIError
	if stderrors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode == http.StatusTooManyRequests || apiErr.HTTPStatusCode >= 500
	}
	var reqErr *openai.RequestError
	if stderrors.As(err, &reqErr) {
		return reqErr.HTTPStatusCode == http.StatusTooManyRequests || reqErr.HTTPStatusCode >= 500
	}
	return true
}
