package models

import "time"

// Doc categories used by the documentation board. The set is open ended;
// these are the seeded defaults.
var DocCategories = []string{"User Guide", "Technical Doc", "Operations Guide", "API Doc", "FAQ"}

// DocRecord is one entry on the documentation board. There is no update or
// delete path; documents are append-only and accrue views.
type DocRecord struct {
	ID           uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	Title        string    `gorm:"size:255;not null" json:"title"`
	Category     string    `gorm:"size:64;index" json:"category"`
	Author       string    `gorm:"size:128" json:"author"`
	Content      string    `json:"content"`
	Views        uint64    `gorm:"default:0" json:"views"`
	FileAttached bool      `gorm:"default:false" json:"fileAttached"`
	CreatedAt    time.Time `json:"createdAt"`
}

// TableName overrides the table name for DocRecord
func (DocRecord) TableName() string {
	return "doc_records"
}
