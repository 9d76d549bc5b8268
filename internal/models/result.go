package models

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// EvaluationResult captures one scored evaluation of an essay. EssayID
// is nil for evaluate-only requests, which score the text without
// persisting an essay row. Rows are never mutated; cache hits return
// them verbatim.
type EvaluationResult struct {
	ID             uint              `gorm:"primaryKey" json:"id"`
	EssayID        *uint             `gorm:"index" json:"essay_id"`
	UserID         string            `gorm:"size:64;not null;index:idx_results_user_hash" json:"user_id"`
	EssayText      string            `gorm:"type:text;not null" json:"-"`
	TextHash       string            `gorm:"size:64;not null;index:idx_results_user_hash" json:"-"`
	Score          float64           `gorm:"not null" json:"score"`
	Feedback       string            `gorm:"type:text;not null" json:"feedback"`
	WordCount      int               `gorm:"not null" json:"word_count"`
	CharacterCount int               `gorm:"not null" json:"character_count"`
	Raw            datatypes.JSONMap `json:"raw,omitempty"`
	CreatedAt      time.Time         `json:"created_at"`
}

// BeforeCreate fills the text digest so every persisted result can be
// found by the dedup lookup.
func (r *EvaluationResult) BeforeCreate(*gorm.DB) error {
	if r.TextHash == "" {
		r.TextHash = TextDigest(r.EssayText)
	}
	return nil
}

// TextDigest returns the hex SHA-256 of the text. Essay bodies are too
// large to index directly, so dedup lookups go through this digest and
// confirm with an exact text comparison.
func TextDigest(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}
