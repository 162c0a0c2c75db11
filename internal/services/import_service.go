package services

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/spf13/cast"

	"github.com/mlsechub/modelhub/internal/models"
	"github.com/mlsechub/modelhub/internal/types"
)

// configDocument is the accepted shape of an uploaded rule-config file.
// Unrecognized top-level keys are ignored; "data" and "rulegroups" may be
// wrapped as a single object or an array, only the first element counts.
type configDocument struct {
	Data       types.FlexList[configRule]      `json:"data"`
	Rulegroups types.FlexList[configRulegroup] `json:"rulegroups"`
	Fields     []json.RawMessage               `json:"fields"`
}

type configRule struct {
	RuleName           string                 `json:"ruleName"`
	Note               string                 `json:"note"`
	RuleGroupName      string                 `json:"ruleGroupName"`
	Algorithm          string                 `json:"algorithm"`
	AlgorithmSettings  map[string]interface{} `json:"algorithmSettings"`
	LogType            types.FlexList[string] `json:"logType"`
	FormatTime         map[string]interface{} `json:"formatTime"`
	DatasetAnalyzeType string                 `json:"datasetAnalyzeType"`
	DatasetSettings    map[string]interface{} `json:"datasetSettings"`
	FadingFactor       types.FlexString       `json:"fadingFactor"`
	BoundType          types.FlexString       `json:"boundType"`
	Sensitivity        types.FlexString       `json:"sensitivity"`
	Options            configOptions          `json:"options"`
}

type configOptions struct {
	Mitre []configMitre `json:"mitre"`
}

type configMitre struct {
	TacticsID    string `json:"tacticsId"`
	TechniquesID string `json:"techniquesId"`
}

type configRulegroup struct {
	Name string `json:"name"`
}

// Platform algorithm identifiers mapped onto catalog display names.
var algorithmNames = map[string]string{
	"robustrandomcutforest": "RRCF",
	"rrcf":                  "RRCF",
	"isolationforest":       "Isolation Forest",
	"randomforest":          "Random Forest",
	"svm":                   "SVM",
	"xgboost":               "XGBoost",
	"autoencoder":           "Autoencoder",
	"dbscan":                "DBSCAN",
	"decisiontree":          "Decision Tree",
	"logisticregression":    "Logistic Regression",
	"oneclasssvm":           "One-Class SVM",
}

var supervisedAlgorithms = map[string]bool{
	"randomforest":       true,
	"svm":                true,
	"logisticregression": true,
	"xgboost":            true,
	"decisiontree":       true,
}

var unsupervisedAlgorithms = map[string]bool{
	"isolationforest":       true,
	"robustrandomcutforest": true,
	"rrcf":                  true,
	"autoencoder":           true,
	"dbscan":                true,
	"oneclasssvm":           true,
}

// Platform log-source identifiers mapped onto catalog log types.
var logTypeNames = map[string]string{
	"fw":      "Firewall",
	"waf":     "WAF",
	"web":     "WEB",
	"ids":     "IDS",
	"ips":     "IDS",
	"syslog":  "Syslog",
	"network": "Network",
	"edr":     "EDR",
}

// ConfigImport is the registration prefill extracted from an uploaded
// rule-config document, plus the normalized raw document for storage.
type ConfigImport struct {
	Name            string          `json:"name"`
	Summary         string          `json:"summary"`
	DetectionTarget string          `json:"detectionTarget"`
	Algorithm       string          `json:"algorithm"`
	ModelType       string          `json:"modelType"`
	LogType         string          `json:"logType"`
	MitreTactics    []string        `json:"mitreTactics"`
	MitreTechniques []string        `json:"mitreTechniques"`
	RequiredFields  []string        `json:"requiredFields"`
	Parameters      types.RawJSON   `json:"parameters"`
	DatasetSettings models.JSON     `json:"datasetSettings"`
	TriggerSettings models.JSON     `json:"triggerSettings"`
	Raw             json.RawMessage `json:"-"`
}

// ParseConfigImport extracts registration prefill values from an uploaded
// rule-config document. Returns a parse error for malformed JSON; missing
// sections degrade to empty values, never to an error.
func ParseConfigImport(raw []byte) (*ConfigImport, error) {
	var doc configDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, types.NewParseError(describeParseError(string(raw), err))
	}

	rule := doc.Data.First()
	group := doc.Rulegroups.First()

	target := group.Name
	if target == "" {
		target = rule.RuleGroupName
	}

	imp := &ConfigImport{
		Name:            rule.RuleName,
		Summary:         rule.Note,
		DetectionTarget: target,
		Algorithm:       mapAlgorithm(rule.Algorithm),
		ModelType:       inferModelType(rule.Algorithm),
		LogType:         mapLogType(rule.LogType.First()),
		RequiredFields:  datasetFields(rule.DatasetSettings),
		Raw:             normalizeRaw(raw),
	}

	for _, m := range rule.Options.Mitre {
		if m.TacticsID != "" {
			imp.MitreTactics = append(imp.MitreTactics, m.TacticsID)
		}
		if m.TechniquesID != "" {
			imp.MitreTechniques = append(imp.MitreTechniques, m.TechniquesID)
		}
	}

	if len(rule.AlgorithmSettings) > 0 {
		if b, err := json.Marshal(rule.AlgorithmSettings); err == nil {
			imp.Parameters = types.RawJSON(b)
		}
	}

	imp.DatasetSettings = compositeDatasetSettings(&rule)
	imp.TriggerSettings = triggerSettings(&rule)

	return imp, nil
}

func mapAlgorithm(platformName string) string {
	if display, ok := algorithmNames[strings.ToLower(platformName)]; ok {
		return display
	}
	return platformName
}

func inferModelType(platformName string) string {
	name := strings.ToLower(platformName)
	switch {
	case supervisedAlgorithms[name]:
		return models.TypeSupervised
	case unsupervisedAlgorithms[name]:
		return models.TypeUnsupervised
	default:
		return models.TypeSupervised
	}
}

func mapLogType(platformName string) string {
	if display, ok := logTypeNames[strings.ToLower(platformName)]; ok {
		return display
	}
	return models.LogTypes[0]
}

// datasetFields flattens the log fields the dataset section references:
// features, key fields and the anomaly subject (older configs call it
// anomalySplit). Absent sections yield the conventional default.
func datasetFields(ds map[string]interface{}) []string {
	var fields []string
	fields = append(fields, cast.ToStringSlice(ds["features"])...)
	fields = append(fields, cast.ToStringSlice(ds["keyFields"])...)
	if subject, ok := ds["anomalySubject"]; ok {
		fields = append(fields, cast.ToStringSlice(subject)...)
	} else {
		fields = append(fields, cast.ToStringSlice(ds["anomalySplit"])...)
	}
	if len(fields) == 0 {
		return []string{"timestamp", "src_ip", "dst_ip"}
	}
	return fields
}

// compositeDatasetSettings re-wraps the dataset-related sections of the
// rule into the blob the catalog stores per record.
func compositeDatasetSettings(rule *configRule) models.JSON {
	composite := struct {
		LogType            []string               `json:"logType"`
		FormatTime         map[string]interface{} `json:"formatTime"`
		DatasetAnalyzeType string                 `json:"datasetAnalyzeType"`
		DatasetSettings    map[string]interface{} `json:"datasetSettings"`
	}{
		LogType:            rule.LogType.Slice(),
		FormatTime:         rule.FormatTime,
		DatasetAnalyzeType: rule.DatasetAnalyzeType,
		DatasetSettings:    rule.DatasetSettings,
	}
	b, err := json.Marshal(composite)
	if err != nil {
		return models.JSON{}
	}
	return models.NewJSON(b)
}

// triggerSettings collects the trigger hyperparameters present in the
// rule. Keys the config omits stay out of the blob entirely.
func triggerSettings(rule *configRule) models.JSON {
	trigger := map[string]types.FlexString{}
	if rule.FadingFactor != "" {
		trigger["fadingFactor"] = rule.FadingFactor
	}
	if rule.BoundType != "" {
		trigger["boundType"] = rule.BoundType
	}
	if rule.Sensitivity != "" {
		trigger["sensitivity"] = rule.Sensitivity
	}
	if len(trigger) == 0 {
		return models.JSON{}
	}
	b, err := json.Marshal(trigger)
	if err != nil {
		return models.JSON{}
	}
	return models.NewJSON(b)
}

// normalizeRaw re-indents the uploaded document so the stored config file
// is always two-space pretty-printed, preserving key order.
func normalizeRaw(raw []byte) json.RawMessage {
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return json.RawMessage(raw)
	}
	return buf.Bytes()
}
