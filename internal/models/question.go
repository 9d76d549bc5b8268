package models

import "time"

// Question is a practice prompt for one exam. The API only reads
// questions; authoring happens elsewhere.
type Question struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	ExamID       string    `gorm:"size:32;not null;index" json:"exam_id"`
	QuestionText string    `gorm:"type:text;not null" json:"question_text"`
	CreatedAt    time.Time `json:"created_at"`
}
