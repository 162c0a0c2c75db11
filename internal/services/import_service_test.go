package services_test

import (
	"reflect"
	"testing"

	"github.com/mlsechub/modelhub/internal/models"
	"github.com/mlsechub/modelhub/internal/services"
	"github.com/mlsechub/modelhub/internal/types"
)

func TestParseConfigImport(t *testing.T) {
	doc := []byte(`{
		"data": [{
			"ruleName": "Net DDoS Analyzer",
			"note": "Flags volumetric attacks",
			"algorithm": "RobustRandomCutForest",
			"algorithmSettings": {"num_trees": 100, "shingle_size": 4},
			"logType": ["fw"],
			"formatTime": {"unit": "MINUTE", "amount": "10"},
			"datasetAnalyzeType": "realtime",
			"datasetSettings": {
				"features": ["packet_rate", "bytes_per_sec"],
				"keyFields": ["src_ip"],
				"anomalySubject": ["dst_ip"]
			},
			"fadingFactor": 0.8,
			"boundType": "UPPER",
			"options": {
				"mitre": [
					{"tacticsId": "TA0040", "techniquesId": "T1498"},
					{"tacticsId": "TA0001", "techniquesId": ""}
				]
			}
		}],
		"rulegroups": [{"name": "DDoS attack traffic"}],
		"fields": [],
		"someVendorKey": true
	}`)

	imp, err := services.ParseConfigImport(doc)
	if err != nil {
		t.Fatalf("ParseConfigImport failed: %v", err)
	}

	if imp.Name != "Net DDoS Analyzer" {
		t.Errorf("Name = %q", imp.Name)
	}
	if imp.Summary != "Flags volumetric attacks" {
		t.Errorf("Summary = %q", imp.Summary)
	}
	if imp.DetectionTarget != "DDoS attack traffic" {
		t.Errorf("DetectionTarget = %q", imp.DetectionTarget)
	}
	if imp.Algorithm != "RRCF" {
		t.Errorf("Algorithm = %q, want canonical RRCF", imp.Algorithm)
	}
	if imp.ModelType != models.TypeUnsupervised {
		t.Errorf("ModelType = %q", imp.ModelType)
	}
	if imp.LogType != "Firewall" {
		t.Errorf("LogType = %q, want Firewall for platform id fw", imp.LogType)
	}
	if !reflect.DeepEqual(imp.MitreTactics, []string{"TA0040", "TA0001"}) {
		t.Errorf("MitreTactics = %v", imp.MitreTactics)
	}
	if !reflect.DeepEqual(imp.MitreTechniques, []string{"T1498"}) {
		t.Errorf("MitreTechniques = %v (empty ids must be dropped)", imp.MitreTechniques)
	}
	if !reflect.DeepEqual(imp.RequiredFields, []string{"packet_rate", "bytes_per_sec", "src_ip", "dst_ip"}) {
		t.Errorf("RequiredFields = %v", imp.RequiredFields)
	}

	params, err := imp.Parameters.Object()
	if err != nil {
		t.Fatalf("Parameters not valid JSON: %v", err)
	}
	if params["num_trees"] != float64(100) {
		t.Errorf("Parameters = %v", params)
	}

	ds := imp.DatasetSettings.Map()
	if ds["datasetAnalyzeType"] != "realtime" {
		t.Errorf("DatasetSettings composite = %v", ds)
	}

	trigger := imp.TriggerSettings.Map()
	if trigger["fadingFactor"] != float64(0.8) {
		t.Errorf("fadingFactor = %v (numeric form must round-trip)", trigger["fadingFactor"])
	}
	if trigger["boundType"] != "UPPER" {
		t.Errorf("boundType = %v", trigger["boundType"])
	}
	if _, ok := trigger["sensitivity"]; ok {
		t.Error("sensitivity was absent from the config and must stay absent")
	}
}

// Configs from older exports wrap data and rulegroups as single objects.
func TestParseConfigImportObjectWrappers(t *testing.T) {
	doc := []byte(`{
		"data": {"ruleName": "Single", "algorithm": "randomforest", "logType": "waf"},
		"rulegroups": {"name": "One group"}
	}`)

	imp, err := services.ParseConfigImport(doc)
	if err != nil {
		t.Fatalf("ParseConfigImport failed: %v", err)
	}
	if imp.Name != "Single" {
		t.Errorf("Name = %q", imp.Name)
	}
	if imp.DetectionTarget != "One group" {
		t.Errorf("DetectionTarget = %q", imp.DetectionTarget)
	}
	if imp.Algorithm != "Random Forest" || imp.ModelType != models.TypeSupervised {
		t.Errorf("Algorithm/ModelType = %q/%q", imp.Algorithm, imp.ModelType)
	}
	if imp.LogType != "WAF" {
		t.Errorf("LogType = %q", imp.LogType)
	}
}

func TestParseConfigImportDefaults(t *testing.T) {
	imp, err := services.ParseConfigImport([]byte(`{}`))
	if err != nil {
		t.Fatalf("ParseConfigImport failed: %v", err)
	}
	if imp.Name != "" {
		t.Errorf("Name = %q", imp.Name)
	}
	if imp.LogType != "WAF" {
		t.Errorf("LogType = %q, want the first catalog log type", imp.LogType)
	}
	if imp.ModelType != models.TypeSupervised {
		t.Errorf("ModelType = %q", imp.ModelType)
	}
	if !reflect.DeepEqual(imp.RequiredFields, []string{"timestamp", "src_ip", "dst_ip"}) {
		t.Errorf("RequiredFields = %v, want conventional defaults", imp.RequiredFields)
	}
}

func TestParseConfigImportRuleGroupNameFallback(t *testing.T) {
	doc := []byte(`{"data": [{"ruleName": "X", "ruleGroupName": "From rule"}]}`)
	imp, err := services.ParseConfigImport(doc)
	if err != nil {
		t.Fatalf("ParseConfigImport failed: %v", err)
	}
	if imp.DetectionTarget != "From rule" {
		t.Errorf("DetectionTarget = %q, want the rule-level fallback", imp.DetectionTarget)
	}
}

func TestParseConfigImportMalformed(t *testing.T) {
	_, err := services.ParseConfigImport([]byte(`{"data": [`))
	ce, ok := err.(*types.CustomError)
	if !ok || ce.Type != types.ErrTypeParse {
		t.Fatalf("Expected a parse error, got %v", err)
	}
}
