// Package storage persists published content bundles and caches
// verification results.
package storage

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"bizgen/internal/common/database"
	pipelineerrors "bizgen/internal/common/errors"
	"bizgen/internal/common/logger"
	"bizgen/internal/content"
	"bizgen/internal/models"
	"bizgen/internal/validation"
)

const insertContentQuery = `
INSERT INTO published_content (id, business_id, slug, bundle, verification, validation, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $7)
ON CONFLICT (business_id) DO UPDATE
SET bundle = EXCLUDED.bundle,
    verification = EXCLUDED.verification,
    validation = EXCLUDED.validation,
    updated_at = EXCLUDED.updated_at
RETURNING id, slug`

const selectSlugQuery = `SELECT slug FROM published_content WHERE business_id = $1`

// PublishedContent identifies one stored bundle and its canonical address.
type PublishedContent struct {
	ContentID string `json:"content_id"`
	URL       string `json:"url"`
}

// ContentStore writes finished bundles to Postgres and mirrors them into
// the search index. Postgres is the source of truth; a failed index write
// is logged and dropped.
type ContentStore struct {
	db            *sql.DB
	es            *database.ElasticsearchClient
	publicBaseURL string
	contentIndex  string
	log           logger.Logger
}

// NewContentStore builds a store over the given connections. es may be nil
// when search indexing is not configured.
func NewContentStore(db *sql.DB, es *database.ElasticsearchClient, publicBaseURL, contentIndex string, log logger.Logger) *ContentStore {
	return &ContentStore{
		db:            db,
		es:            es,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
		contentIndex:  contentIndex,
		log:           log.WithFields(map[string]interface{}{"component": "storage"}),
	}
}

// CanonicalURL returns the public URL the business's content lives at. It
// matches what Save returns for the same business, so copy referencing the
// URL can be generated before the bundle is persisted. An already-published
// business keeps its original slug even after a rename, so the stored slug
// wins over one derived from the current name.
func (s *ContentStore) CanonicalURL(ctx context.Context, biz models.NormalizedBusiness) string {
	var slug string
	if err := s.db.QueryRowContext(ctx, selectSlugQuery, biz.ID).Scan(&slug); err != nil {
		slug = slugify(biz.Name)
	}
	return s.publicBaseURL + "/" + slug
}

// Save upserts the bundle for a business and returns its canonical content
// identity. Re-publishing the same business keeps the original content ID
// and slug so the public URL never changes.
func (s *ContentStore) Save(
	ctx context.Context,
	biz models.NormalizedBusiness,
	bundle *content.Bundle,
	verification *models.VerificationResult,
	validationResult *validation.Result,
) (*PublishedContent, error) {
	bundleJSON, err := json.Marshal(bundle)
	if err != nil {
		return nil, pipelineerrors.NewStorageInsertFailedError(err)
	}
	verificationJSON, _ := json.Marshal(verification)
	validationJSON, _ := json.Marshal(validationResult)

	var (
		contentID string
		slug      string
	)
	err = s.db.QueryRowContext(ctx, insertContentQuery,
		uuid.New().String(),
		biz.ID,
		slugify(biz.Name),
		bundleJSON,
		verificationJSON,
		validationJSON,
		time.Now().UTC(),
	).Scan(&contentID, &slug)
	if err != nil {
		return nil, pipelineerrors.NewStorageInsertFailedError(err)
	}

	published := &PublishedContent{
		ContentID: contentID,
		URL:       s.publicBaseURL + "/" + slug,
	}

	s.index(ctx, contentID, biz, bundle, published.URL)

	s.log.Info("content published", map[string]interface{}{
		"business_id": biz.ID,
		"content_id":  contentID,
		"url":         published.URL,
	})
	return published, nil
}

// index mirrors the published bundle into the search index. Failures are
// logged and swallowed.
func (s *ContentStore) index(ctx context.Context, contentID string, biz models.NormalizedBusiness, bundle *content.Bundle, url string) {
	if s.es == nil || s.contentIndex == "" {
		return
	}

	doc, err := json.Marshal(map[string]interface{}{
		"content_id":    contentID,
		"business_id":   biz.ID,
		"business_name": biz.Name,
		"category":      biz.Category,
		"city":          biz.City,
		"hero_title":    bundle.HeroTitle,
		"about":         bundle.About,
		"template_type": bundle.TemplateType,
		"url":           url,
		"indexed_at":    time.Now().UTC(),
	})
	if err != nil {
		return
	}

	client := s.es.Client
	res, err := client.Index(
		s.contentIndex,
		bytes.NewReader(doc),
		client.Index.WithDocumentID(contentID),
		client.Index.WithContext(ctx),
	)
	if err != nil {
		s.log.WithError(pipelineerrors.NewSearchIndexFailedError(s.contentIndex, err)).
			Warn("search indexing failed", map[string]interface{}{"content_id": contentID})
		return
	}
	defer res.Body.Close()

	if res.IsError() {
		s.log.Warn("search indexing rejected", map[string]interface{}{
			"content_id": contentID,
			"status":     res.Status(),
		})
	}
}

var slugInvalid = regexp.MustCompile(`[^a-z0-9]+`)

func slugify(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	slug = slugInvalid.ReplaceAllString(slug, "-")
	slug = strings.Trim(slug, "-")
	if slug == "" {
		slug = "business"
	}
	return slug
}
