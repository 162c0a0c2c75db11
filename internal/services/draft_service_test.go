package services_test

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"

	"github.com/mlsechub/modelhub/internal/models"
	"github.com/mlsechub/modelhub/internal/services"
	"github.com/mlsechub/modelhub/internal/types"
)

func testRecord() *models.ModelRecord {
	return &models.ModelRecord{
		ID:              7,
		Name:            "WAF SQL Injection Detector",
		Algorithm:       "Random Forest",
		LogType:         "WAF",
		Summary:         "Detects SQL injection in WAF logs",
		DetectionTarget: "SQL injection attack patterns",
		Parameters:      types.RawJSON(`{"max_depth": 10, "n_estimators": 100}`),
		MitreTactics:    models.StringList{"TA0001"},
		TriggerSettings: models.NewJSON([]byte(`{"fadingFactor": 0.9, "boundType": "UPPER", "sensitivity": 0.85}`)),
	}
}

func TestGetOrCreateSynthesizesDefault(t *testing.T) {
	svc := services.NewDraftService()

	draft, err := svc.GetOrCreate("hub", testRecord(), nil)
	if err != nil {
		t.Fatalf("GetOrCreate failed: %v", err)
	}
	if draft.Invalid {
		t.Fatal("Fresh draft must be valid")
	}

	var cfg struct {
		Data []struct {
			RuleName   string                 `json:"ruleName"`
			Algorithm  string                 `json:"algorithm"`
			Settings   map[string]interface{} `json:"algorithmSettings"`
			LogType    []string               `json:"logType"`
			FormatTime map[string]string      `json:"formatTime"`
			Options    struct {
				Mitre []map[string]string `json:"mitre"`
			} `json:"options"`
		} `json:"data"`
		Rulegroups []struct {
			Name string `json:"name"`
		} `json:"rulegroups"`
		Fields []interface{} `json:"fields"`
	}
	if err := json.Unmarshal([]byte(draft.Text), &cfg); err != nil {
		t.Fatalf("Synthesized draft is not valid JSON: %v\n%s", err, draft.Text)
	}

	rule := cfg.Data[0]
	if rule.RuleName != "WAF SQL Injection Detector" {
		t.Errorf("ruleName = %q", rule.RuleName)
	}
	if rule.Algorithm != "randomforest" {
		t.Errorf("algorithm = %q, want lowercased without spaces", rule.Algorithm)
	}
	if rule.Settings["max_depth"] != float64(10) {
		t.Errorf("algorithmSettings not carried over: %v", rule.Settings)
	}
	if len(rule.LogType) != 1 || rule.LogType[0] != "waf" {
		t.Errorf("logType = %v", rule.LogType)
	}
	if rule.FormatTime["unit"] != "MINUTE" || rule.FormatTime["amount"] != "10" {
		t.Errorf("formatTime = %v", rule.FormatTime)
	}
	if len(rule.Options.Mitre) != 1 || rule.Options.Mitre[0]["tacticsId"] != "TA0001" {
		t.Errorf("mitre = %v", rule.Options.Mitre)
	}
	if rule.Options.Mitre[0]["techniquesId"] != "" {
		t.Errorf("techniquesId must synthesize empty, got %q", rule.Options.Mitre[0]["techniquesId"])
	}
	if cfg.Rulegroups[0].Name != "SQL injection attack patterns" {
		t.Errorf("rulegroups[0].name = %q", cfg.Rulegroups[0].Name)
	}
	if cfg.Fields == nil || len(cfg.Fields) != 0 {
		t.Errorf("fields must be an empty array, got %v", cfg.Fields)
	}
}

func TestGetOrCreatePrefersStoredFile(t *testing.T) {
	svc := services.NewDraftService()
	file := &models.ModelFile{
		ModelRecordID: 7,
		Filename:      "cfg.json",
		MimeType:      "application/json",
		Data:          []byte(`{"zulu":1,"alpha":{"beta":"감지"}}`),
	}

	draft, err := svc.GetOrCreate("hub", testRecord(), file)
	if err != nil {
		t.Fatalf("GetOrCreate failed: %v", err)
	}

	// Re-indented, key order and non-ASCII text preserved
	want := "{\n  \"zulu\": 1,\n  \"alpha\": {\n    \"beta\": \"감지\"\n  }\n}"
	if draft.Text != want {
		t.Errorf("Draft text:\n%s\nwant:\n%s", draft.Text, want)
	}
}

func TestGetOrCreateFallsBackOnInvalidFile(t *testing.T) {
	svc := services.NewDraftService()
	file := &models.ModelFile{ModelRecordID: 7, Data: []byte("not json")}

	draft, err := svc.GetOrCreate("hub", testRecord(), file)
	if err != nil {
		t.Fatalf("GetOrCreate failed: %v", err)
	}
	if !strings.Contains(draft.Text, `"ruleName"`) {
		t.Errorf("Expected synthesized default, got:\n%s", draft.Text)
	}
}

func TestReplaceInvalidRetainsDraft(t *testing.T) {
	svc := services.NewDraftService()
	rec := testRecord()

	before, err := svc.GetOrCreate("hub", rec, nil)
	if err != nil {
		t.Fatalf("GetOrCreate failed: %v", err)
	}

	// Twice: retries with the same bad text must not corrupt anything
	for i := 0; i < 2; i++ {
		draft, err := svc.Replace("hub", rec.ID, `{"a":1`)
		if err == nil {
			t.Fatal("Expected a parse error")
		}
		ce, ok := err.(*types.CustomError)
		if !ok || ce.Type != types.ErrTypeParse || ce.Code != 422 {
			t.Fatalf("Expected a 422 parse error, got %v", err)
		}
		if draft.Text != before.Text {
			t.Fatal("Failed replace must not change the draft text")
		}
		if !draft.Invalid {
			t.Fatal("Draft must be flagged invalid after a failed replace")
		}
	}

	after, err := svc.GetOrCreate("hub", rec, nil)
	if err != nil {
		t.Fatalf("GetOrCreate failed: %v", err)
	}
	if after.Text != before.Text {
		t.Error("GetOrCreate after a failed replace must return the prior draft")
	}
}

func TestReplaceValidClearsError(t *testing.T) {
	svc := services.NewDraftService()
	rec := testRecord()

	if _, err := svc.GetOrCreate("hub", rec, nil); err != nil {
		t.Fatalf("GetOrCreate failed: %v", err)
	}
	if _, err := svc.Replace("hub", rec.ID, `{"a":1`); err == nil {
		t.Fatal("Expected a parse error")
	}

	draft, err := svc.Replace("hub", rec.ID, `{"a": 1}`)
	if err != nil {
		t.Fatalf("Valid replace failed: %v", err)
	}
	if draft.Invalid || draft.LastError != "" {
		t.Errorf("Valid replace must clear the error state: %+v", draft)
	}
	if draft.Text != `{"a": 1}` {
		t.Errorf("Draft text = %q", draft.Text)
	}
}

func TestReplaceWithoutDraft(t *testing.T) {
	svc := services.NewDraftService()
	_, err := svc.Replace("hub", 99, `{}`)
	ce, ok := err.(*types.CustomError)
	if !ok || ce.Type != types.ErrTypeNotFound {
		t.Fatalf("Expected a not_found error, got %v", err)
	}
}

func TestExportRoundTrip(t *testing.T) {
	svc := services.NewDraftService()
	rec := testRecord()

	if _, err := svc.GetOrCreate("hub", rec, nil); err != nil {
		t.Fatalf("GetOrCreate failed: %v", err)
	}
	if _, err := svc.Replace("hub", rec.ID, `{"zulu":[1,2],"alpha":"탐지 대상"}`); err != nil {
		t.Fatalf("Replace failed: %v", err)
	}

	artifact, err := svc.Export("hub", rec)
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	if artifact.Filename != "WAF_SQL_Injection_Detector_config.json" {
		t.Errorf("Filename = %q", artifact.Filename)
	}
	if artifact.MimeType != "application/json" {
		t.Errorf("MimeType = %q", artifact.MimeType)
	}
	if !strings.Contains(string(artifact.Data), "탐지 대상") {
		t.Errorf("Non-ASCII text must survive unescaped:\n%s", artifact.Data)
	}
	if !strings.HasPrefix(string(artifact.Data), "{\n  \"zulu\"") {
		t.Errorf("Export must be 2-space indented with key order preserved:\n%s", artifact.Data)
	}

	var exported, draft interface{}
	if err := json.Unmarshal(artifact.Data, &exported); err != nil {
		t.Fatalf("Exported artifact is not valid JSON: %v", err)
	}
	if err := json.Unmarshal([]byte(`{"zulu":[1,2],"alpha":"탐지 대상"}`), &draft); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(exported, draft) {
		t.Errorf("Export round trip mismatch: %v != %v", exported, draft)
	}
}

func TestExportRejectedWhileInvalid(t *testing.T) {
	svc := services.NewDraftService()
	rec := testRecord()

	if _, err := svc.GetOrCreate("hub", rec, nil); err != nil {
		t.Fatalf("GetOrCreate failed: %v", err)
	}
	if _, err := svc.Replace("hub", rec.ID, `{"a":1`); err == nil {
		t.Fatal("Expected a parse error")
	}

	_, err := svc.Export("hub", rec)
	ce, ok := err.(*types.CustomError)
	if !ok || ce.Type != types.ErrTypeConflict || ce.Code != 409 {
		t.Fatalf("Expected a 409 conflict, got %v", err)
	}
}

func TestResetRederives(t *testing.T) {
	svc := services.NewDraftService()
	rec := testRecord()

	original, err := svc.GetOrCreate("hub", rec, nil)
	if err != nil {
		t.Fatalf("GetOrCreate failed: %v", err)
	}
	if _, err := svc.Replace("hub", rec.ID, `{"edited": true}`); err != nil {
		t.Fatalf("Replace failed: %v", err)
	}

	svc.Reset("hub", rec.ID)

	fresh, err := svc.GetOrCreate("hub", rec, nil)
	if err != nil {
		t.Fatalf("GetOrCreate failed: %v", err)
	}
	if fresh.Text != original.Text {
		t.Error("Reset must discard edits and re-derive from source")
	}
}

func TestDraftsAreScopedPerUserAndModel(t *testing.T) {
	svc := services.NewDraftService()
	rec := testRecord()

	if _, err := svc.GetOrCreate("alice", rec, nil); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.GetOrCreate("bob", rec, nil); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Replace("alice", rec.ID, `{"mine": 1}`); err != nil {
		t.Fatalf("Replace failed: %v", err)
	}

	bobs, err := svc.GetOrCreate("bob", rec, nil)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(bobs.Text, "mine") {
		t.Error("One user's edits leaked into another user's draft")
	}
}
