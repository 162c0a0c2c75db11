package database

import (
	"log"
	"time"

	"github.com/mlsechub/modelhub/internal/models"
	"gorm.io/gorm"
)

func day(value string) time.Time {
	t, _ := time.Parse("2006-01-02", value)
	return t
}

// Seed inserts the starter catalog when the store is empty. Running it
// against a populated database is a no-op.
func Seed(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.ModelRecord{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	seedModels := []models.ModelRecord{
		{
			Name:            "WAF SQL Injection Detector",
			ModelID:         "waf_sql_001",
			Algorithm:       "Random Forest",
			ModelType:       models.TypeSupervised,
			LogType:         "WAF",
			Version:         "v1.2.1",
			Size:            "15.2 MB",
			Summary:         "Detects SQL injection attacks from WAF logs",
			Description:     "Analyzes web application firewall logs to detect SQL injection attacks in real time.",
			DetectionTarget: "SQL injection attack patterns",
			Status:          models.StatusActive,
			ThreatTags:      models.StringList{"SQL Injection", "Web Attack"},
			Features:        models.StringList{"request_uri", "user_agent", "payload_length", "special_chars"},
			RequiredFields:  models.StringList{"timestamp", "src_ip", "request_uri", "user_agent"},
			MitreTactics:    models.StringList{"TA0001"},
			MitreTechniques: models.StringList{"T1190"},
			Parameters:      `{"max_depth": 10, "n_estimators": 100, "min_samples_split": 5}`,
			DatasetSettings: models.NewJSON([]byte(`{"logType":["waf"],"features":["sent_bytes_sum"]}`)),
			TriggerSettings: models.NewJSON([]byte(`{"fadingFactor":0.9,"boundType":"UPPER","sensitivity":0.85}`)),
			Downloads:       243,
			Views:           1205,
			HasFile:         false,
			CreatedAt:       day("2024-01-15"),
			UpdatedAt:       day("2024-02-05"),
		},
		{
			Name:            "Network DDoS Pattern Analyzer",
			ModelID:         "net_ddos_001",
			Algorithm:       "RRCF",
			ModelType:       models.TypeUnsupervised,
			LogType:         "Network",
			Version:         "v2.0.0",
			Size:            "8.7 MB",
			Summary:         "Analyzes DDoS attack patterns from network traffic",
			Description:     "Analyzes network logs in real time to detect and report DDoS attack patterns.",
			DetectionTarget: "DDoS attack traffic",
			Status:          models.StatusActive,
			ThreatTags:      models.StringList{"DDoS", "Network Attack"},
			Features:        models.StringList{"packet_rate", "bytes_per_sec", "connection_count"},
			RequiredFields:  models.StringList{"timestamp", "src_ip", "dst_ip", "protocol", "packet_size"},
			MitreTactics:    models.StringList{"TA0040"},
			MitreTechniques: models.StringList{"T1498"},
			Parameters:      `{"num_trees": 100, "shingle_size": 4, "sample_size": 512}`,
			DatasetSettings: models.NewJSON([]byte(`{"logType":["network"],"features":["packet_count"]}`)),
			TriggerSettings: models.NewJSON([]byte(`{"fadingFactor":0.8,"boundType":"UPPER","sensitivity":0.9}`)),
			Downloads:       156,
			Views:           834,
			HasFile:         false,
			CreatedAt:       day("2024-01-20"),
			UpdatedAt:       day("2024-02-08"),
		},
		{
			Name:            "IDS Brute Force Detection",
			ModelID:         "ids_brute_001",
			Algorithm:       "Isolation Forest",
			ModelType:       models.TypeUnsupervised,
			LogType:         "IDS",
			Version:         "v1.1.0",
			Size:            "12.3 MB",
			Summary:         "Detects brute force attacks from IDS logs",
			Description:     "Analyzes IDS event logs to detect credential brute forcing.",
			DetectionTarget: "Brute force attacks",
			Status:          models.StatusActive,
			ThreatTags:      models.StringList{"Brute Force", "Authentication"},
			Features:        models.StringList{"login_attempts", "source_diversity", "time_pattern"},
			RequiredFields:  models.StringList{"timestamp", "src_ip", "username", "auth_result"},
			MitreTactics:    models.StringList{"TA0006"},
			MitreTechniques: models.StringList{"T1110"},
			Parameters:      `{"contamination": 0.1, "n_estimators": 200}`,
			DatasetSettings: models.NewJSON([]byte(`{"logType":["ids"],"features":["login_count"]}`)),
			TriggerSettings: models.NewJSON([]byte(`{"fadingFactor":0.95,"boundType":"UPPER","sensitivity":0.7}`)),
			Downloads:       89,
			Views:           456,
			HasFile:         false,
			CreatedAt:       day("2024-02-01"),
			UpdatedAt:       day("2024-02-09"),
		},
	}

	seedDocs := []models.DocRecord{
		{
			Title:     "Getting started with the AI Model Hub",
			Category:  "User Guide",
			Author:    "admin",
			Content:   "The AI Model Hub is a platform for managing and distributing AI models for security threat detection from a central catalog.",
			Views:     45,
			CreatedAt: day("2024-02-11"),
		},
		{
			Title:        "JSON config file structure guide",
			Category:     "Technical Doc",
			Author:       "dev team",
			Content:      "A JSON config file is made up of algorithm, algorithmSettings, logType, datasetSettings and triggerSettings sections.",
			Views:        32,
			FileAttached: true,
			CreatedAt:    day("2024-02-10"),
		},
		{
			Title:     "Per-environment log field mapping guide",
			Category:  "Operations Guide",
			Author:    "ops team",
			Content:   "Log field names can differ per environment. Example: sent_bytes vs bytes_sent vs send_byte.",
			Views:     28,
			CreatedAt: day("2024-02-09"),
		},
		{
			Title:        "How to upload ExD models",
			Category:     "Operations Guide",
			Author:       "admin",
			Content:      "Register the model in the Management menu, then upload the JSON config file and the model binary.",
			Views:        19,
			FileAttached: true,
			CreatedAt:    day("2024-02-08"),
		},
	}

	if err := db.Create(&seedModels).Error; err != nil {
		return err
	}
	if err := db.Create(&seedDocs).Error; err != nil {
		return err
	}

	log.Printf("Seeded catalog: %d models, %d docs", len(seedModels), len(seedDocs))
	return nil
}
