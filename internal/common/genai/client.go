// Package genai is the narrow request/response client for the external
// content-generation service: ask for content matching a schema, receive
// JSON or fail.
package genai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"bizgen/internal/common/config"
	pipelineerrors "bizgen/internal/common/errors"
	"bizgen/internal/common/logger"
)

// Completer captures the ability to ask the generation service for content.
type Completer interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
	CompleteJSON(ctx context.Context, systemPrompt, userPrompt, schema string, out interface{}) error
}

// Client is a thin wrapper around the generation service's REST API.
type Client struct {
	baseURL     string
	apiKey      string
	model       string
	maxTokens   int
	temperature float64
	httpClient  *http.Client
	log         logger.Logger
}

// NewClient constructs a client from the GenAI config section.
func NewClient(cfg config.GenAIConfig, log logger.Logger, opts ...func(*Client)) *Client {
	c := &Client{
		baseURL:     cfg.BaseURL,
		apiKey:      cfg.APIKey,
		model:       cfg.Model,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
		// No client-level timeout; callers bound each call with a context.
		httpClient: &http.Client{},
		log:        log.WithFields(map[string]interface{}{"client": "genai"}),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// WithHTTPClient overrides the internal HTTP client.
func WithHTTPClient(hc *http.Client) func(*Client) {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithBaseURL overrides the service base URL (useful for tests).
func WithBaseURL(url string) func(*Client) {
	return func(c *Client) {
		if url != "" {
			c.baseURL = url
		}
	}
}

// Complete sends one prompt pair and returns the raw completion text.
func (c *Client) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	requestBody := map[string]interface{}{
		"model":           c.model,
		"system":          systemPrompt,
		"prompt":          userPrompt,
		"response_format": "json",
		"max_tokens":      c.maxTokens,
		"temperature":     c.temperature,
	}

	body, _ := json.Marshal(requestBody)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/ai/generate", bytes.NewBuffer(body))
	if err != nil {
		return "", pipelineerrors.NewGenerationFailedError("request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return "", pipelineerrors.NewGenerationTimeoutError("complete")
		}
		return "", pipelineerrors.NewGenerationFailedError("complete", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return "", pipelineerrors.NewGenerationFailedError("complete",
			fmt.Errorf("status %d: %s", resp.StatusCode, string(data)))
	}

	var apiResponse struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&apiResponse); err != nil {
		return "", pipelineerrors.NewMalformedResponseError("complete", err)
	}

	return apiResponse.Text, nil
}

// CompleteJSON asks for content conforming to the given JSON schema and
// unmarshals the validated payload into out. An empty or non-conforming
// payload is a malformed-response error, which callers resolve with
// fallback values rather than treating as a failure.
func (c *Client) CompleteJSON(ctx context.Context, systemPrompt, userPrompt, schema string, out interface{}) error {
	text, err := c.Complete(ctx, systemPrompt, userPrompt)
	if err != nil {
		return err
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return pipelineerrors.NewMalformedResponseError("complete-json", fmt.Errorf("empty completion"))
	}

	schemaLoader := gojsonschema.NewStringLoader(schema)
	documentLoader := gojsonschema.NewStringLoader(text)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return pipelineerrors.NewMalformedResponseError("complete-json", err)
	}
	if !result.Valid() {
		descs := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			descs[i] = desc.String()
		}
		c.log.Debug("completion failed schema validation", map[string]interface{}{
			"violations": descs,
		})
		return pipelineerrors.NewMalformedResponseError("complete-json",
			fmt.Errorf("schema violations: %v", descs))
	}

	if err := json.Unmarshal([]byte(text), out); err != nil {
		return pipelineerrors.NewMalformedResponseError("complete-json", err)
	}
	return nil
}
