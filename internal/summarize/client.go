package summarize

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/obsoletenerd/changeblogger/internal/git"
)

const (
	// DefaultEndpoint is the OpenAI chat completions URL.
	DefaultEndpoint = "https://api.openai.com/v1/chat/completions"
	// DefaultModel is a cost-effective model that handles short summaries well.
	DefaultModel       = "gpt-4o-mini"
	DefaultMaxTokens   = 300
	DefaultTemperature = 0.3
	DefaultTimeout     = 30 * time.Second

	// maxErrorBody bounds how much of an error response is read.
	maxErrorBody = 64 << 10
)

// Options configure a Client. Zero values fall back to the defaults above.
type Options struct {
	APIKey       string
	Model        string
	Endpoint     string
	MaxTokens    int
	Temperature  float64
	Timeout      time.Duration
	PromptBudget int
	HTTPClient   *http.Client
	Logger       *zap.Logger
}

// Client is a minimal HTTP client for OpenAI's chat completions API.
type Client struct {
	apiKey       string
	model        string
	endpoint     string
	maxTokens    int
	temperature  float64
	promptBudget int
	httpClient   *http.Client
	log          *zap.Logger
}

// NewClient builds a Client. It does not contact the API.
func NewClient(opts Options) *Client {
	c := &Client{
		apiKey:       opts.APIKey,
		model:        opts.Model,
		endpoint:     opts.Endpoint,
		maxTokens:    opts.MaxTokens,
		temperature:  opts.Temperature,
		promptBudget: opts.PromptBudget,
		httpClient:   opts.HTTPClient,
		log:          opts.Logger,
	}
	if c.model == "" {
		c.model = DefaultModel
	}
	if c.endpoint == "" {
		c.endpoint = DefaultEndpoint
	}
	if c.maxTokens == 0 {
		c.maxTokens = DefaultMaxTokens
	}
	if c.temperature == 0 {
		c.temperature = DefaultTemperature
	}
	if c.httpClient == nil {
		timeout := opts.Timeout
		if timeout == 0 {
			timeout = DefaultTimeout
		}
		c.httpClient = &http.Client{Timeout: timeout}
	}
	if c.log == nil {
		c.log = zap.NewNop()
	}
	return c
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

type apiErrorBody struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// Summarize sends one request with the prompt built from cs and returns the
// narrative plus file lists. It never retries.
func (c *Client) Summarize(ctx context.Context, cs *git.ChangeSet) (*Result, error) {
	userPrompt := BuildPrompt(cs, c.promptBudget)

	raw, err := c.complete(ctx, SystemPrompt, userPrompt)
	if err != nil {
		return nil, err
	}

	narrative := ExtractNarrative(raw)
	if narrative == "" {
		return nil, fmt.Errorf("%w: reply contained no narrative text", ErrMalformedResponse)
	}

	return NewResult(cs, narrative), nil
}

// complete performs the chat completions exchange and returns the first choice.
func (c *Client) complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	c.log.Debug("sending summarization request",
		zap.String("endpoint", c.endpoint),
		zap.String("model", c.model),
		zap.Int("prompt_bytes", len(userPrompt)),
	)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	defer resp.Body.Close()

	c.log.Debug("summarization response",
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", statusError(resp)
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("%w: decode body: %v", ErrMalformedResponse, err)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("%w: no choices returned", ErrMalformedResponse)
	}

	return parsed.Choices[0].Message.Content, nil
}

// statusError builds a StatusError from a non-2xx response.
func statusError(resp *http.Response) error {
	se := &StatusError{
		Kind:       classifyStatus(resp.StatusCode),
		StatusCode: resp.StatusCode,
	}

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	var apiErr apiErrorBody
	if json.Unmarshal(raw, &apiErr) == nil && apiErr.Error.Message != "" {
		se.Message = apiErr.Error.Message
	} else {
		se.Message = strings.TrimSpace(string(raw))
	}

	if errors.Is(se.Kind, ErrRateLimited) {
		se.RetryAfter = parseRetryAfter(resp.Header.Get("Retry-After"))
	}
	return se
}

// parseRetryAfter accepts the delay-seconds form of Retry-After.
func parseRetryAfter(v string) time.Duration {
	secs, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || secs <= 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}
