package models

import "time"

// Essay is a practice essay submitted by a user. Rows are created once
// at submission time and never mutated.
type Essay struct {
	ID        uint              `gorm:"primaryKey" json:"id"`
	ExamID    string            `gorm:"size:32;not null" json:"exam_id"`
	UserID    string            `gorm:"size:64;not null;index" json:"user_id"`
	EssayText string            `gorm:"type:text;not null" json:"essay_text"`
	CreatedAt time.Time         `json:"created_at"`
	Result    *EvaluationResult `gorm:"foreignKey:EssayID" json:"result,omitempty"`
}
