package storage

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"bizgen/internal/common/logger"
	"bizgen/internal/models"
)

const verificationKeyPrefix = "verification:"

// VerificationCache keeps recent verification results in Redis so repeated
// runs for the same business within the TTL skip the external source
// checks. Cache failures degrade to a miss.
type VerificationCache struct {
	client *redis.Client
	ttl    time.Duration
	log    logger.Logger
}

// NewVerificationCache builds a cache with the given result TTL.
func NewVerificationCache(client *redis.Client, ttl time.Duration, log logger.Logger) *VerificationCache {
	return &VerificationCache{
		client: client,
		ttl:    ttl,
		log:    log.WithFields(map[string]interface{}{"component": "verification-cache"}),
	}
}

// Get returns the cached result for a business, if present and decodable.
func (c *VerificationCache) Get(ctx context.Context, businessID string) (*models.VerificationResult, bool) {
	data, err := c.client.Get(ctx, verificationKeyPrefix+businessID).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		c.log.WithError(err).Warn("verification cache read failed", map[string]interface{}{
			"business_id": businessID,
		})
		return nil, false
	}

	var result models.VerificationResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, false
	}
	return &result, true
}

// Put stores the result under the business ID for the configured TTL.
func (c *VerificationCache) Put(ctx context.Context, businessID string, result *models.VerificationResult) {
	data, err := json.Marshal(result)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, verificationKeyPrefix+businessID, data, c.ttl).Err(); err != nil {
		c.log.WithError(err).Warn("verification cache write failed", map[string]interface{}{
			"business_id": businessID,
		})
	}
}
