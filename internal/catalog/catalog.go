// Package catalog implements the pure list pipeline: filter, sort and
// paginate a snapshot of model records. It holds no state and never
// mutates its input.
package catalog

import (
	"sort"
	"strings"

	"github.com/mlsechub/modelhub/internal/models"
)

// PageSize is the fixed card-grid page size.
const PageSize = 9

// Filter is a conjunctive filter specification. Every supplied criterion
// must hold; empty criteria are skipped. An empty StatusIn means active
// records only.
type Filter struct {
	StatusIn   []string
	SearchText string
	LogTypes   []string
	ModelTypes []string
	ThreatTags []string
}

// SortKey selects the list ordering.
type SortKey string

const (
	SortUpdated   SortKey = "updated"
	SortCreated   SortKey = "created"
	SortDownloads SortKey = "downloads"
	SortViews     SortKey = "views"
	SortName      SortKey = "name"
)

// ParseSortKey maps a query value onto a sort key, defaulting to the
// latest-update ordering for anything unrecognized.
func ParseSortKey(value string) SortKey {
	switch SortKey(value) {
	case SortCreated, SortDownloads, SortViews, SortName:
		return SortKey(value)
	default:
		return SortUpdated
	}
}

// Page is one page of results plus pagination metadata.
type Page struct {
	Items      []models.ModelRecord `json:"models"`
	Total      int                  `json:"total"`
	TotalPages int                  `json:"totalPages"`
	Page       int                  `json:"page"`
}

// Query runs the full pipeline. The requested page is clamped to
// [1, TotalPages]; an empty result is a normal outcome with TotalPages 1.
func Query(records []models.ModelRecord, filter Filter, key SortKey, page int) Page {
	filtered := Apply(records, filter)
	SortRecords(filtered, key)
	return Paginate(filtered, page)
}

// Apply returns the records satisfying every supplied criterion, in input
// order.
func Apply(records []models.ModelRecord, filter Filter) []models.ModelRecord {
	out := make([]models.ModelRecord, 0, len(records))
	for _, rec := range records {
		if Matches(&rec, filter) {
			out = append(out, rec)
		}
	}
	return out
}

// Matches reports whether one record satisfies the filter.
func Matches(rec *models.ModelRecord, filter Filter) bool {
	statuses := filter.StatusIn
	if len(statuses) == 0 {
		statuses = []string{models.StatusActive}
	}
	if !containsString(statuses, rec.Status) {
		return false
	}
	if filter.SearchText != "" && !matchesSearch(rec, filter.SearchText) {
		return false
	}
	if len(filter.LogTypes) > 0 && !containsString(filter.LogTypes, rec.LogType) {
		return false
	}
	if len(filter.ModelTypes) > 0 && !containsString(filter.ModelTypes, rec.ModelType) {
		return false
	}
	if len(filter.ThreatTags) > 0 && !anyTagMatch(filter.ThreatTags, rec.ThreatTags) {
		return false
	}
	return true
}

// matchesSearch is the disjunctive case-insensitive substring match across
// the record's descriptive fields and threat tags.
func matchesSearch(rec *models.ModelRecord, text string) bool {
	q := strings.ToLower(text)
	for _, field := range []string{
		rec.Name, rec.Summary, rec.Description,
		rec.LogType, rec.Algorithm, rec.DetectionTarget,
	} {
		if strings.Contains(strings.ToLower(field), q) {
			return true
		}
	}
	for _, tag := range rec.ThreatTags {
		if strings.Contains(strings.ToLower(tag), q) {
			return true
		}
	}
	return false
}

// SortRecords orders records in place. The sort is stable: ties keep the
// input order.
func SortRecords(records []models.ModelRecord, key SortKey) {
	var less func(a, b *models.ModelRecord) bool
	switch key {
	case SortCreated:
		less = func(a, b *models.ModelRecord) bool { return a.CreatedAt.After(b.CreatedAt) }
	case SortDownloads:
		less = func(a, b *models.ModelRecord) bool { return a.Downloads > b.Downloads }
	case SortViews:
		less = func(a, b *models.ModelRecord) bool { return a.Views > b.Views }
	case SortName:
		less = func(a, b *models.ModelRecord) bool { return a.Name < b.Name }
	default:
		less = func(a, b *models.ModelRecord) bool { return a.UpdatedAt.After(b.UpdatedAt) }
	}
	sort.SliceStable(records, func(i, j int) bool {
		return less(&records[i], &records[j])
	})
}

// Paginate slices one page out of the filtered result.
func Paginate(records []models.ModelRecord, page int) Page {
	total := len(records)
	totalPages := (total + PageSize - 1) / PageSize
	if totalPages < 1 {
		totalPages = 1
	}
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}
	start := (page - 1) * PageSize
	end := start + PageSize
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}
	return Page{
		Items:      records[start:end],
		Total:      total,
		TotalPages: totalPages,
		Page:       page,
	}
}

func containsString(haystack []string, needle string) bool {
	for _, v := range haystack {
		if v == needle {
			return true
		}
	}
	return false
}

func anyTagMatch(wanted []string, tags models.StringList) bool {
	for _, w := range wanted {
		if tags.Contains(w) {
			return true
		}
	}
	return false
}
