// Package openai provides a synchronous client for the OpenAI chat
// completions API.
package openai

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"
	"github.com/tiktoken-go/tokenizer"

	"github.com/coslynx/AI-Response-Wrapper-MVP/pkg/models"
)

const defaultBaseURL = "https://api.openai.com/v1"

// UpstreamError reports a failure of the external generation service:
// transport errors, non-2xx statuses, and malformed or empty responses.
type UpstreamError struct {
	StatusCode int // 0 when the request never produced a response
	Message    string
}

func (e *UpstreamError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("upstream status %d: %s", e.StatusCode, e.Message)
	}
	return e.Message
}

// GenerationRequest describes a single generation call.
type GenerationRequest struct {
	Model  string
	Prompt string
	// Params carries optional sampling parameters. Known keys (max_tokens,
	// temperature, top_p, frequency_penalty, presence_penalty) are lifted
	// into the upstream request; everything else is ignored.
	Params models.Params
}

// Config holds client configuration.
type Config struct {
	APIKey  string
	BaseURL string        // default: https://api.openai.com/v1
	Timeout time.Duration // default: 60s
}

// Client calls the chat completions endpoint. One attempt per invocation;
// no retries.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	codec      tokenizer.Codec // best-effort token estimates, may be nil
}

// NewClient creates a Client. The tokenizer is optional: if it fails to
// initialize, token estimates are simply skipped.
func NewClient(cfg Config) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second // long timeout for LLM generation
	}

	codec, err := tokenizer.Get(tokenizer.Cl100kBase)
	if err != nil {
		log.Warn().Err(err).Msg("Tokenizer unavailable, token estimates disabled")
		codec = nil
	}

	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		apiKey:     cfg.APIKey,
		codec:      codec,
	}
}

type chatCompletionRequest struct {
	Model            string                  `json:"model"`
	Messages         []chatCompletionMessage `json:"messages"`
	MaxTokens        *int                    `json:"max_tokens,omitempty"`
	Temperature      *float64                `json:"temperature,omitempty"`
	TopP             *float64                `json:"top_p,omitempty"`
	FrequencyPenalty *float64                `json:"frequency_penalty,omitempty"`
	PresencePenalty  *float64                `json:"presence_penalty,omitempty"`
}

type chatCompletionMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionResponse struct {
	Choices []chatCompletionChoice `json:"choices"`
}

type chatCompletionChoice struct {
	Message chatCompletionMessage `json:"message"`
}

type errorResponse struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Generate performs a single chat completion call and returns the
// generated text. Every failure mode is reported as *UpstreamError.
func (c *Client) Generate(ctx context.Context, genReq GenerationRequest) (string, error) {
	body := chatCompletionRequest{
		Model: genReq.Model,
		Messages: []chatCompletionMessage{
			{Role: "user", Content: genReq.Prompt},
		},
	}
	applyParams(&body, genReq.Params)

	if c.codec != nil {
		if ids, _, err := c.codec.Encode(genReq.Prompt); err == nil {
			log.Debug().
				Str("model", genReq.Model).
				Int("prompt_tokens_estimate", len(ids)).
				Msg("Sending generation request")
		}
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return "", &UpstreamError{Message: fmt.Sprintf("encode request: %v", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", &UpstreamError{Message: fmt.Sprintf("build request: %v", err)}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &UpstreamError{Message: err.Error()}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &UpstreamError{StatusCode: resp.StatusCode, Message: err.Error()}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &UpstreamError{
			StatusCode: resp.StatusCode,
			Message:    upstreamMessage(data, resp.StatusCode),
		}
	}

	var completion chatCompletionResponse
	if err := json.Unmarshal(data, &completion); err != nil {
		return "", &UpstreamError{StatusCode: resp.StatusCode, Message: "malformed completion response"}
	}
	if len(completion.Choices) == 0 {
		return "", &UpstreamError{StatusCode: resp.StatusCode, Message: "completion returned no choices"}
	}

	return completion.Choices[0].Message.Content, nil
}

// applyParams lifts known sampling keys from the free-form parameters map
// into the typed request body.
func applyParams(req *chatCompletionRequest, params models.Params) {
	if v, ok := params.Int("max_tokens"); ok {
		req.MaxTokens = &v
	}
	if v, ok := params.Float("temperature"); ok {
		req.Temperature = &v
	}
	if v, ok := params.Float("top_p"); ok {
		req.TopP = &v
	}
	if v, ok := params.Float("frequency_penalty"); ok {
		req.FrequencyPenalty = &v
	}
	if v, ok := params.Float("presence_penalty"); ok {
		req.PresencePenalty = &v
	}
}

// upstreamMessage extracts the error message from an OpenAI error body,
// falling back to the HTTP status text.
func upstreamMessage(data []byte, statusCode int) string {
	var errResp errorResponse
	if err := json.Unmarshal(data, &errResp); err == nil && errResp.Error.Message != "" {
		return errResp.Error.Message
	}
	return http.StatusText(statusCode)
}
