package models

import "time"

// ModelFile is the binary blob attached to a model record, keyed by the
// record's id. Deleting the record cascades to this row.
type ModelFile struct {
	ModelRecordID uint64    `gorm:"primaryKey" json:"modelRecordId"`
	Filename      string    `gorm:"size:255;not null" json:"filename"`
	MimeType      string    `gorm:"size:128" json:"mimeType"`
	Data          []byte    `json:"-"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// TableName overrides the table name for ModelFile
func (ModelFile) TableName() string {
	return "model_files"
}
