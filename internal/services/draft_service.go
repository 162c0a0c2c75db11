package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/mlsechub/modelhub/internal/models"
	"github.com/mlsechub/modelhub/internal/types"
)

// Draft is one user's working copy of a model's rule configuration. Text
// always holds the last text that parsed as JSON; a failed edit flips
// Invalid and records the parse error without touching Text.
type Draft struct {
	User      string    `json:"user"`
	ModelID   uint64    `json:"modelId"`
	Text      string    `json:"text"`
	Invalid   bool      `json:"invalid"`
	LastError string    `json:"lastError,omitempty"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ExportArtifact is a named downloadable byte sequence.
type ExportArtifact struct {
	Filename string
	MimeType string
	Data     []byte
}

// DraftService keeps at most one live draft per (user, model) pair.
// Drafts are process-local scratch state and are not persisted.
type DraftService struct {
	mu     sync.Mutex
	drafts map[string]*Draft
}

func NewDraftService() *DraftService {
	return &DraftService{drafts: make(map[string]*Draft)}
}

func draftKey(user string, modelID uint64) string {
	return fmt.Sprintf("%s_%d", user, modelID)
}

// GetOrCreate returns the live draft for (user, record), deriving a fresh
// one when none exists. Derivation prefers the stored config file when it
// holds valid JSON and falls back to a default config synthesized from
// the record's metadata.
func (s *DraftService) GetOrCreate(user string, rec *models.ModelRecord, file *models.ModelFile) (Draft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := draftKey(user, rec.ID)
	if d, ok := s.drafts[key]; ok {
		return *d, nil
	}

	text, err := deriveDraftText(rec, file)
	if err != nil {
		return Draft{}, err
	}
	d := &Draft{
		User:      user,
		ModelID:   rec.ID,
		Text:      text,
		UpdatedAt: time.Now(),
	}
	s.drafts[key] = d
	return *d, nil
}

// Replace swaps the draft text with rawText when it parses as JSON. On a
// parse failure the previous text is retained unchanged, the draft is
// flagged invalid and a parse error is returned alongside the unchanged
// draft. Retrying the same bad text is harmless.
func (s *DraftService) Replace(user string, modelID uint64, rawText string) (Draft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := draftKey(user, modelID)
	d, ok := s.drafts[key]
	if !ok {
		return Draft{}, types.NewNotFoundError("no draft for this model; load the editor first")
	}

	var parsed interface{}
	if err := json.Unmarshal([]byte(rawText), &parsed); err != nil {
		d.Invalid = true
		d.LastError = describeParseError(rawText, err)
		return *d, types.NewParseError(d.LastError)
	}

	d.Text = rawText
	d.Invalid = false
	d.LastError = ""
	d.UpdatedAt = time.Now()
	return *d, nil
}

// Reset discards the draft. The next GetOrCreate re-derives from source.
func (s *DraftService) Reset(user string, modelID uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.drafts, draftKey(user, modelID))
}

// Export serializes the draft as pretty-printed UTF-8 JSON. Indentation is
// normalized to two spaces; key order and non-ASCII text survive because
// the stored bytes are re-indented, never re-marshaled through a map.
// A draft whose last edit failed to parse cannot be exported.
func (s *DraftService) Export(user string, rec *models.ModelRecord) (*ExportArtifact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.drafts[draftKey(user, rec.ID)]
	if !ok {
		return nil, types.NewNotFoundError("no draft for this model")
	}
	if d.Invalid {
		return nil, types.NewConflictError("draft has an unresolved JSON error; fix it before exporting")
	}

	var buf bytes.Buffer
	if err := json.Indent(&buf, []byte(d.Text), "", "  "); err != nil {
		return nil, types.NewParseError(describeParseError(d.Text, err))
	}

	return &ExportArtifact{
		Filename: ConfigFilename(rec.Name),
		MimeType: "application/json",
		Data:     buf.Bytes(),
	}, nil
}

// ConfigFilename derives the download name for a model's config.
func ConfigFilename(modelName string) string {
	return strings.ReplaceAll(modelName, " ", "_") + "_config.json"
}

// deriveDraftText builds the initial draft text for a record.
func deriveDraftText(rec *models.ModelRecord, file *models.ModelFile) (string, error) {
	if file != nil && json.Valid(file.Data) {
		var buf bytes.Buffer
		if err := json.Indent(&buf, file.Data, "", "  "); err == nil {
			return buf.String(), nil
		}
	}
	return synthesizeDraftText(rec)
}

// draftRule mirrors the rule-config layout the detection platform consumes.
// Field order here fixes the key order of synthesized drafts.
type draftRule struct {
	RuleName          string                 `json:"ruleName"`
	Note              string                 `json:"note"`
	Algorithm         string                 `json:"algorithm"`
	AlgorithmSettings map[string]interface{} `json:"algorithmSettings"`
	LogType           []string               `json:"logType"`
	FormatTime        draftFormatTime        `json:"formatTime"`
	DatasetSettings   map[string]interface{} `json:"datasetSettings"`
	FadingFactor      interface{}            `json:"fadingFactor"`
	BoundType         interface{}            `json:"boundType"`
	Sensitivity       interface{}            `json:"sensitivity"`
	Options           draftOptions           `json:"options"`
}

type draftFormatTime struct {
	Unit   string `json:"unit"`
	Amount string `json:"amount"`
}

type draftOptions struct {
	Mitre []draftMitre `json:"mitre"`
}

type draftMitre struct {
	TacticsID    string `json:"tacticsId"`
	TechniquesID string `json:"techniquesId"`
}

type draftConfig struct {
	Data       []draftRule       `json:"data"`
	Rulegroups []draftRulegroup  `json:"rulegroups"`
	Fields     []json.RawMessage `json:"fields"`
}

type draftRulegroup struct {
	Name string `json:"name"`
}

func synthesizeDraftText(rec *models.ModelRecord) (string, error) {
	mitre := make([]draftMitre, 0, len(rec.MitreTactics))
	for _, t := range rec.MitreTactics {
		mitre = append(mitre, draftMitre{TacticsID: t})
	}

	cfg := draftConfig{
		Data: []draftRule{{
			RuleName:          rec.Name,
			Note:              rec.Summary,
			Algorithm:         strings.ToLower(strings.ReplaceAll(rec.Algorithm, " ", "")),
			AlgorithmSettings: rec.Parameters.ObjectOrEmpty(),
			LogType:           []string{strings.ToLower(rec.LogType)},
			FormatTime:        draftFormatTime{Unit: "MINUTE", Amount: "10"},
			DatasetSettings:   rec.DatasetSettings.Map(),
			FadingFactor:      rec.TriggerValue("fadingFactor"),
			BoundType:         rec.TriggerValue("boundType"),
			Sensitivity:       rec.TriggerValue("sensitivity"),
			Options:           draftOptions{Mitre: mitre},
		}},
		Rulegroups: []draftRulegroup{{Name: rec.DetectionTarget}},
		Fields:     []json.RawMessage{},
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(cfg); err != nil {
		return "", fmt.Errorf("failed to synthesize draft config: %w", err)
	}
	// Encoder appends a trailing newline
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

// describeParseError includes the failure location when the decoder
// reports one.
func describeParseError(text string, err error) string {
	if syn, ok := err.(*json.SyntaxError); ok {
		line := 1 + strings.Count(text[:min(int(syn.Offset), len(text))], "\n")
		return fmt.Sprintf("invalid JSON at line %d (offset %d): %s", line, syn.Offset, syn.Error())
	}
	return fmt.Sprintf("invalid JSON: %v", err)
}
