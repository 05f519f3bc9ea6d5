// Package explain asks an OpenAI-compatible chat completion endpoint why a
// post might carry the sentiment it does.
package explain

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	defaultBaseURL = "https://api.openai.com/v1"
	defaultModel   = "gpt-3.5-turbo"
)

// Config configures the chat completion client.
type Config struct {
	BaseURL    string
	APIKeyEnv  string
	Model      string
	Timeout    time.Duration
	MaxRetries int
}

// Client requests explanations from a chat completion API.
type Client struct {
	baseURL    string
	apiKey     string
	model      string
	client     *http.Client
	maxRetries int
	backoff    func(attempt int) time.Duration
}

// NewClient creates a client reading its API key from the environment
// variable named in cfg.APIKeyEnv.
func NewClient(cfg Config) (*Client, error) {
	key := os.Getenv(cfg.APIKeyEnv)
	if key == "" {
		return nil, fmt.Errorf("missing API key in env %s", cfg.APIKeyEnv)
	}
	if cfg.MaxRetries < 0 {
		return nil, fmt.Errorf("max retries must not be negative, got %d", cfg.MaxRetries)
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = defaultModel
	}
	t := cfg.Timeout
	if t == 0 {
		t = 30 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     key,
		model:      cfg.Model,
		client:     &http.Client{Timeout: t},
		maxRetries: cfg.MaxRetries,
		backoff:    retryDelay,
	}, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Explain asks for a sentiment verdict on text and then for the cues behind
// it. The result is "<verdict>: <explanation>".
func (c *Client) Explain(ctx context.Context, text string) (string, error) {
	verdictPrompt := fmt.Sprintf(
		"Using the %q please determine the sentiment either positive or negative and tell me by saying Positive Sentiment, or Negative Sentiment", text)
	verdict, err := c.complete(ctx, []chatMessage{{Role: "user", Content: verdictPrompt}})
	if err != nil {
		return "", fmt.Errorf("requesting verdict: %w", err)
	}

	followUp := "In one or two sentences, which words or cues in that text made you choose that sentiment, and what could make a word-counting classifier read it the other way?"
	explanation, err := c.complete(ctx, []chatMessage{
		{Role: "user", Content: verdictPrompt},
		{Role: "assistant", Content: verdict},
		{Role: "user", Content: followUp},
	})
	if err != nil {
		return "", fmt.Errorf("requesting explanation: %w", err)
	}

	return verdict + ": " + explanation, nil
}

func (c *Client) complete(ctx context.Context, messages []chatMessage) (string, error) {
	body, err := json.Marshal(chatRequest{Model: c.model, Messages: messages, Temperature: 0})
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}
	url := c.baseURL + "/chat/completions"

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			if err := sleep(ctx, c.backoff(attempt-1)); err != nil {
				return "", err
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
		if err != nil {
			return "", fmt.Errorf("creating request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+c.apiKey)

		resp, err := c.client.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return "", ctx.Err()
			}
			lastErr = fmt.Errorf("calling chat completion API: %w", err)
			continue
		}

		payload, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = fmt.Errorf("reading response: %w", err)
			continue
		}

		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			lastErr = fmt.Errorf("chat completion API returned status %d: %s", resp.StatusCode, string(payload))
			if secs, err := strconv.Atoi(resp.Header.Get("Retry-After")); err == nil && attempt < c.maxRetries {
				if err := sleep(ctx, time.Duration(secs)*time.Second); err != nil {
					return "", err
				}
			}
			continue
		}
		if resp.StatusCode != http.StatusOK {
			return "", fmt.Errorf("chat completion API returned status %d: %s", resp.StatusCode, string(payload))
		}

		var out chatResponse
		if err := json.Unmarshal(payload, &out); err != nil {
			return "", fmt.Errorf("parsing response: %w", err)
		}
		if len(out.Choices) == 0 {
			return "", errors.New("empty response from chat completion API")
		}
		return strings.TrimSpace(out.Choices[0].Message.Content), nil
	}
	if lastErr == nil {
		lastErr = errors.New("no request was attempted")
	}
	return "", lastErr
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// retryDelay is an exponential backoff starting at 200ms and capped at 5s.
func retryDelay(attempt int) time.Duration {
	if attempt < 0 {
		attempt = 0
	}
	if attempt > 5 {
		return 5 * time.Second
	}
	d := 200 * time.Millisecond << attempt
	if d > 5*time.Second {
		d = 5 * time.Second
	}
	return d
}
