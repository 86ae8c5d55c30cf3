// Package registry is the client for the primary business registry source.
package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	pipelineerrors "bizgen/internal/common/errors"
	"bizgen/internal/common/logger"
	"bizgen/internal/models"
)

// StatusActive is the registry's enumerator for an operating business.
const StatusActive = "active"

// LookupQuery filters a paginated registry search.
type LookupQuery struct {
	Query           string
	Status          string
	Category        string
	RegisteredAfter string // ISO date
	Page            int
	PageSize        int
}

// Client talks to the registry's REST API. The registry may be unreachable
// at any time; transport failures come back as retryable transient errors.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	log        logger.Logger
}

// NewClient constructs a registry client with sane defaults.
func NewClient(baseURL, apiKey string, timeout time.Duration, log logger.Logger, opts ...func(*Client)) *Client {
	c := &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
		log:        log.WithFields(map[string]interface{}{"client": "registry"}),
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

// Lookup runs a filtered, paginated search against the registry.
func (c *Client) Lookup(ctx context.Context, q LookupQuery) ([]models.ExternalBusinessRecord, error) {
	params := url.Values{}
	if q.Query != "" {
		params.Set("q", q.Query)
	}
	if q.Status != "" {
		params.Set("status", q.Status)
	}
	if q.Category != "" {
		params.Set("category", q.Category)
	}
	if q.RegisteredAfter != "" {
		params.Set("registered_after", q.RegisteredAfter)
	}
	if q.Page > 0 {
		params.Set("page", strconv.Itoa(q.Page))
	}
	if q.PageSize > 0 {
		params.Set("page_size", strconv.Itoa(q.PageSize))
	}

	var payload struct {
		Records []models.ExternalBusinessRecord `json:"records"`
		Total   int                             `json:"total"`
	}
	if err := c.get(ctx, "/api/v1/companies?"+params.Encode(), &payload); err != nil {
		return nil, err
	}

	c.log.Debug("registry lookup completed", map[string]interface{}{
		"returned": len(payload.Records),
		"total":    payload.Total,
	})
	return payload.Records, nil
}

// GetByID fetches a single record. A missing record is a typed not-found
// error, distinct from the registry being unreachable.
func (c *Client) GetByID(ctx context.Context, id string) (models.ExternalBusinessRecord, error) {
	var rec models.ExternalBusinessRecord
	if err := c.get(ctx, "/api/v1/companies/"+url.PathEscape(id), &rec); err != nil {
		return nil, err
	}
	if len(rec) == 0 {
		return nil, pipelineerrors.NewRecordNotFoundError(id)
	}
	return rec, nil
}

func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return pipelineerrors.NewRegistryUnreachableError(err)
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return pipelineerrors.NewRegistryUnreachableError(err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return pipelineerrors.NewRecordNotFoundError(path)
	case resp.StatusCode >= 300:
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return pipelineerrors.NewRegistryUnreachableError(
			fmt.Errorf("registry status %d: %s", resp.StatusCode, string(data)))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return pipelineerrors.NewRegistryUnreachableError(fmt.Errorf("decode response: %w", err))
	}
	return nil
}
