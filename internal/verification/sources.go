// Package verification implements the multi-source trust scoring engine.
package verification

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	pipelineerrors "bizgen/internal/common/errors"
	"bizgen/internal/common/logger"
	"bizgen/internal/common/registry"
	"bizgen/internal/models"
)

// Source is one independent verification check. A (nil, nil) return means
// the source responded but did not confirm the business; a non-nil error
// means the source could not be checked at all. In both cases the engine
// contributes zero weight and moves on.
type Source interface {
	ID() string
	Weight() int
	Check(ctx context.Context, biz models.NormalizedBusiness) (*models.SourceCheck, error)
}

// ==========================================================================
// Primary registry source
// ==========================================================================

type registrySource struct {
	client    *registry.Client
	publicURL string
}

// NewRegistrySource verifies active status against the primary registry.
func NewRegistrySource(client *registry.Client, publicURL string) Source {
	return &registrySource{client: client, publicURL: publicURL}
}

func (s *registrySource) ID() string  { return "primary_registry" }
func (s *registrySource) Weight() int { return models.PrimaryRegistryWeight }

func (s *registrySource) Check(ctx context.Context, biz models.NormalizedBusiness) (*models.SourceCheck, error) {
	rec, err := s.client.GetByID(ctx, biz.ID)
	if err != nil {
		if pipelineerrors.IsNotFound(err) {
			return nil, nil
		}
		return nil, pipelineerrors.NewSourceCheckFailedError(s.ID(), err)
	}

	status := rec.Status()
	if status != registry.StatusActive {
		return nil, nil
	}

	raw, _ := json.Marshal(rec)
	return &models.SourceCheck{
		SourceID:        s.ID(),
		Status:          status,
		VerificationURL: s.publicURL + "/companies/" + url.PathEscape(biz.ID),
		CheckedAt:       time.Now().UTC(),
		RawPayload:      raw,
	}, nil
}

// ==========================================================================
// Legal registry source
// ==========================================================================

type legalSource struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	log        logger.Logger
}

// NewLegalSource cross-checks the business against the legal-entity
// registry.
func NewLegalSource(baseURL, apiKey string, log logger.Logger) Source {
	return &legalSource{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		log:        log,
	}
}

func (s *legalSource) ID() string  { return "legal_registry" }
func (s *legalSource) Weight() int { return models.LegalRegistryWeight }

func (s *legalSource) Check(ctx context.Context, biz models.NormalizedBusiness) (*models.SourceCheck, error) {
	var payload struct {
		Registered bool   `json:"registered"`
		Status     string `json:"status"`
	}
	endpoint := s.baseURL + "/api/v1/entities/" + url.PathEscape(biz.ID)
	raw, err := getJSON(ctx, s.httpClient, endpoint, s.apiKey, &payload)
	if err != nil {
		return nil, pipelineerrors.NewSourceCheckFailedError(s.ID(), err)
	}
	if !payload.Registered {
		return nil, nil
	}

	status := payload.Status
	if status == "" {
		status = "registered"
	}
	return &models.SourceCheck{
		SourceID:        s.ID(),
		Status:          status,
		VerificationURL: endpoint,
		CheckedAt:       time.Now().UTC(),
		RawPayload:      raw,
	}, nil
}

// ==========================================================================
// Location source
// ==========================================================================

type locationSource struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	log        logger.Logger
}

// NewLocationSource confirms the business address resolves to a real
// location.
func NewLocationSource(baseURL, apiKey string, log logger.Logger) Source {
	return &locationSource{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		log:        log,
	}
}

func (s *locationSource) ID() string  { return "location" }
func (s *locationSource) Weight() int { return models.LocationWeight }

func (s *locationSource) Check(ctx context.Context, biz models.NormalizedBusiness) (*models.SourceCheck, error) {
	if biz.Address == "" {
		return nil, nil
	}

	params := url.Values{}
	params.Set("name", biz.Name)
	params.Set("address", biz.Address)
	if biz.City != "" {
		params.Set("city", biz.City)
	}

	var payload struct {
		Matched    bool    `json:"matched"`
		Confidence float64 `json:"confidence"`
	}
	endpoint := s.baseURL + "/api/v1/verify?" + params.Encode()
	raw, err := getJSON(ctx, s.httpClient, endpoint, s.apiKey, &payload)
	if err != nil {
		return nil, pipelineerrors.NewSourceCheckFailedError(s.ID(), err)
	}
	if !payload.Matched {
		return nil, nil
	}

	return &models.SourceCheck{
		SourceID:        s.ID(),
		Status:          "matched",
		VerificationURL: endpoint,
		CheckedAt:       time.Now().UTC(),
		RawPayload:      raw,
	}, nil
}

func getJSON(ctx context.Context, hc *http.Client, endpoint, apiKey string, out interface{}) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	if apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+apiKey)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := hc.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(data, out); err != nil {
		return nil, err
	}
	return data, nil
}
