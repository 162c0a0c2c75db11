package models

import (
	"time"

	"github.com/mlsechub/modelhub/internal/types"
)

// Model lifecycle statuses.
const (
	StatusActive  = "active"
	StatusPending = "pending"
	StatusTest    = "test"
)

// Model learning types.
const (
	TypeSupervised   = "supervised"
	TypeUnsupervised = "unsupervised"
)

// LogTypes is the fixed set of log sources a detection model can consume.
var LogTypes = []string{"WAF", "WEB", "Firewall", "IDS", "Syslog", "Network", "EDR"}

// ModelRecord is a catalog entry describing one detection model's metadata.
// The trained binary itself lives in the file store, keyed by ID.
type ModelRecord struct {
	ID              uint64          `gorm:"primaryKey;autoIncrement" json:"id"`
	ModelID         string          `gorm:"uniqueIndex;size:64" json:"modelId"`
	Name            string          `gorm:"size:255;not null" json:"name"`
	Algorithm       string          `gorm:"size:128" json:"algorithm"`
	ModelType       string          `gorm:"size:32" json:"modelType"`
	LogType         string          `gorm:"size:32" json:"logType"`
	Version         string          `gorm:"size:32" json:"version"`
	Size            string          `gorm:"size:32" json:"size"`
	Summary         string          `gorm:"size:512" json:"summary"`
	Description     string          `json:"description"`
	DetectionTarget string          `gorm:"size:255" json:"detectionTarget"`
	Status          string          `gorm:"size:16;default:active;index" json:"status"`
	ThreatTags      StringList      `json:"threatTags"`
	RequiredFields  StringList      `json:"requiredFields"`
	Features        StringList      `json:"features"`
	MitreTactics    StringList      `json:"mitreTactics"`
	MitreTechniques StringList      `json:"mitreTechniques"`
	Parameters      types.RawJSON   `gorm:"type:text" json:"parameters"`
	DatasetSettings JSON            `json:"datasetSettings"`
	TriggerSettings JSON            `json:"triggerSettings"`
	Downloads       uint64          `gorm:"default:0" json:"downloads"`
	Views           uint64          `gorm:"default:0" json:"views"`
	HasFile         bool            `gorm:"default:false" json:"hasFile"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

// TableName overrides the table name for ModelRecord
func (ModelRecord) TableName() string {
	return "model_records"
}

// TriggerValue returns one key of the trigger settings block, or the empty
// string when the block is missing or malformed.
func (m *ModelRecord) TriggerValue(key string) interface{} {
	settings := m.TriggerSettings.Map()
	if v, ok := settings[key]; ok {
		return v
	}
	return ""
}
