package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// HTTPOptions configures an HTTPCompleter.
type HTTPOptions struct {
	APIKey  string
	BaseURL string        // e.g. https://ai.gateway.lovable.dev/v1
	Timeout time.Duration // whole-request timeout; 0 means 120s
	Client  *http.Client  // optional; overrides Timeout when set
}

// HTTPCompleter talks to an OpenAI-compatible POST {base}/chat/completions.
type HTTPCompleter struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// NewHTTPCompleter builds an HTTPCompleter. A missing key is reported on
// Complete, not here, so the server can start without AI configured.
func NewHTTPCompleter(opts HTTPOptions) *HTTPCompleter {
	hc := opts.Client
	if hc == nil {
		to := opts.Timeout
		if to <= 0 {
			to = 120 * time.Second
		}
		hc = &http.Client{Timeout: to}
	}
	return &HTTPCompleter{
		apiKey:  strings.TrimSpace(opts.APIKey),
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		client:  hc,
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Complete performs one chat-completion call.
func (c *HTTPCompleter) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	if c.apiKey == "" {
		return "", ErrMissingCredential
	}

	msgs := make([]chatMessage, 0, 2)
	if strings.TrimSpace(req.System) != "" {
		msgs = append(msgs, chatMessage{Role: "system", Content: req.System})
	}
	msgs = append(msgs, chatMessage{Role: "user", Content: req.Prompt})

	payload, err := json.Marshal(chatRequest{
		Model:       req.Model,
		Messages:    msgs,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("gateway: marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("gateway: build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	start := time.Now()
	resp, err := c.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrGateway, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return "", fmt.Errorf("%w: read body: %v", ErrGateway, err)
	}
	log.Debug().
		Str("model", req.Model).
		Int("status", resp.StatusCode).
		Dur("latency", time.Since(start)).
		Int("bytes", len(body)).
		Msg("gateway: chat completion")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", classify(resp.StatusCode, string(body))
	}

	var out chatResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("%w: decode response: %v", ErrGateway, err)
	}
	if len(out.Choices) == 0 || strings.TrimSpace(out.Choices[0].Message.Content) == "" {
		return "", ErrEmptyCompletion
	}
	return out.Choices[0].Message.Content, nil
}
