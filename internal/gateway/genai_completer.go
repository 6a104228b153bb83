package gateway

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// GenAIOptions configures a GenAICompleter.
type GenAIOptions struct {
	APIKey  string
	BaseURL string // optional override of the Gemini API endpoint
}

// GenAICompleter serves the Completer contract through Google's GenAI SDK.
type GenAICompleter struct {
	models generator
}

// generator is the slice of *genai.Models the completer uses.
type generator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// NewGenAICompleter creates the SDK client. A blank key yields
// ErrMissingCredential.
func NewGenAICompleter(ctx context.Context, opts GenAIOptions) (*GenAICompleter, error) {
	if strings.TrimSpace(opts.APIKey) == "" {
		return nil, ErrMissingCredential
	}
	cc := &genai.ClientConfig{
		APIKey:  opts.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if opts.BaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: opts.BaseURL}
	}
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("gateway: create genai client: %w", err)
	}
	return &GenAICompleter{models: client.Models}, nil
}

// Complete performs one GenerateContent call.
func (g *GenAICompleter) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	cfg := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(float32(req.Temperature)),
		MaxOutputTokens: int32(req.MaxTokens),
	}
	if strings.TrimSpace(req.System) != "" {
		cfg.SystemInstruction = genai.NewContentFromText(req.System, genai.RoleUser)
	}

	resp, err := g.models.GenerateContent(ctx, genaiModel(req.Model),
		[]*genai.Content{genai.NewContentFromText(req.Prompt, genai.RoleUser)}, cfg)
	if err != nil {
		return "", classifyGenAI(err)
	}
	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyCompletion
	}
	return text, nil
}

// genaiModel drops a gateway-style vendor prefix ("google/gemini-…").
func genaiModel(m string) string {
	if i := strings.Index(m, "/"); i >= 0 && !strings.HasPrefix(m, "models/") {
		return m[i+1:]
	}
	return m
}

func classifyGenAI(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return classify(apiErr.Code, apiErr.Message)
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
		return classify(apiErrPtr.Code, apiErrPtr.Message)
	}
	return fmt.Errorf("%w: %v", ErrGateway, err)
}
