// internal/models/verification.go
package models

import (
	"encoding/json"
	"time"
)

// Trust-score weights per verification source. One active-status
// confirmation from the primary registry is worth 40 points; the legal
// registry and location confirmations are worth 30 each. Verified means the
// weighted sum reached VerifiedThreshold.
const (
	PrimaryRegistryWeight = 40
	LegalRegistryWeight   = 30
	LocationWeight        = 30

	VerifiedThreshold = 70
	MaxTrustScore     = 100
)

// SourceCheck records one successful, passing source confirmation. The
// verification URL is deterministic and user-followable so results stay
// independently auditable. Sources that failed to respond are omitted from
// the result rather than recorded as failed entries.
type SourceCheck struct {
	SourceID        string          `json:"source_id"`
	Status          string          `json:"status"`
	VerificationURL string          `json:"verification_url"`
	CheckedAt       time.Time       `json:"checked_at"`
	RawPayload      json.RawMessage `json:"raw_payload,omitempty"`
}

// VerificationResult is created once per verification request and immutable
// afterward. Invariant: Verified == (TrustScore >= VerifiedThreshold).
type VerificationResult struct {
	Verified   bool          `json:"verified"`
	Sources    []SourceCheck `json:"sources"`
	TrustScore int           `json:"trust_score"`
	VerifiedAt time.Time     `json:"verified_at"`
}
