package models

import "time"

// FeedbackEntry is one rating+comment left against a model. The list is
// append-only; entries keep the model name so they outlive a deleted record.
type FeedbackEntry struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	ModelID   uint64    `gorm:"index" json:"modelId"`
	ModelName string    `gorm:"size:255" json:"modelName"`
	Rating    int       `gorm:"not null" json:"rating"`
	Comment   string    `json:"comment"`
	User      string    `gorm:"size:128" json:"user"`
	CreatedAt time.Time `json:"createdAt"`
}

// TableName overrides the table name for FeedbackEntry
func (FeedbackEntry) TableName() string {
	return "feedback_entries"
}
