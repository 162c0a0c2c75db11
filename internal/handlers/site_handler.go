package handlers

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/mlsechub/modelhub/internal/catalog"
	"github.com/mlsechub/modelhub/internal/config"
	"github.com/mlsechub/modelhub/internal/models"
	"github.com/mlsechub/modelhub/internal/services"
	"github.com/mlsechub/modelhub/internal/store"
	"github.com/mlsechub/modelhub/internal/utils"
)

// SiteHandler handles the home page, statistics, notices and health routes
type SiteHandler struct {
	Config *config.Config
	DB     *gorm.DB
	Stores *store.Stores
}

const homeWidgetSize = 4

// HomeResponse carries the two home-page widgets.
type HomeResponse struct {
	RecentlyAdded   []models.ModelRecord `json:"recentlyAdded"`
	RecentlyUpdated []models.ModelRecord `json:"recentlyUpdated"`
}

// StatsResponse is the management statistics tab.
type StatsResponse struct {
	Total       int            `json:"total"`
	ByStatus    map[string]int `json:"byStatus"`
	ByLogType   map[string]int `json:"byLogType"`
	ByModelType map[string]int `json:"byModelType"`
	Downloads   uint64         `json:"downloads"`
	Views       uint64         `json:"views"`
}

// Notice is one operational announcement.
type Notice struct {
	Title     string `json:"title"`
	Date      string `json:"date"`
	Author    string `json:"author"`
	Content   string `json:"content"`
	Important bool   `json:"important"`
}

var notices = []Notice{
	{
		Title:     "AI Model Hub v2.0 released",
		Date:      "2024-02-11",
		Author:    "admin",
		Content:   "Overhauled catalog with improved search and filtering, a web based JSON config editor and a feedback system.",
		Important: true,
	},
	{
		Title:     "JSON config editing added",
		Date:      "2024-02-10",
		Author:    "admin",
		Content:   "Per-user config drafts let you adjust log field names per environment before downloading a config file.",
		Important: false,
	},
	{
		Title:     "Scheduled maintenance",
		Date:      "2024-02-08",
		Author:    "admin",
		Content:   "Maintenance window on 2024-02-15 from 02:00 to 06:00.",
		Important: false,
	},
}

// GetHome handles GET /api/home
// @Summary Home page widgets
// @Description Four most recently added and four most recently updated active models
// @Tags Site
// @Produce json
// @Success 200 {object} HomeResponse
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /home [get]
func (h *SiteHandler) GetHome(c *fiber.Ctx) error {
	records, err := h.Stores.Models.List()
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "getHome")
	}

	// Home widgets only surface live models.
	active := catalog.Apply(records, catalog.Filter{StatusIn: []string{models.StatusActive}})

	added := make([]models.ModelRecord, len(active))
	copy(added, active)
	catalog.SortRecords(added, catalog.SortCreated)

	updated := make([]models.ModelRecord, len(active))
	copy(updated, active)
	catalog.SortRecords(updated, catalog.SortUpdated)

	return c.Status(fiber.StatusOK).JSON(HomeResponse{
		RecentlyAdded:   firstN(added, homeWidgetSize),
		RecentlyUpdated: firstN(updated, homeWidgetSize),
	})
}

// GetStats handles GET /api/stats
// @Summary Catalog statistics
// @Description Totals and per-status, per-log-type and per-model-type counts
// @Tags Site
// @Produce json
// @Success 200 {object} StatsResponse
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /stats [get]
func (h *SiteHandler) GetStats(c *fiber.Ctx) error {
	records, err := h.Stores.Models.List()
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "getStats")
	}

	stats := StatsResponse{
		Total:       len(records),
		ByStatus:    map[string]int{},
		ByLogType:   map[string]int{},
		ByModelType: map[string]int{},
	}
	for i := range records {
		rec := &records[i]
		stats.ByStatus[rec.Status]++
		stats.ByLogType[rec.LogType]++
		stats.ByModelType[rec.ModelType]++
		stats.Downloads += rec.Downloads
		stats.Views += rec.Views
	}

	return c.Status(fiber.StatusOK).JSON(stats)
}

// GetNotices handles GET /api/notices
// @Summary Operational notices
// @Tags Site
// @Produce json
// @Success 200 {array} Notice
// @Router /notices [get]
func (h *SiteHandler) GetNotices(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(notices)
}

// GetHealth handles GET /health
// @Summary Service health
// @Description Database and authorizer connectivity
// @Tags Site
// @Produce json
// @Success 200 {object} services.HealthCheckResult
// @Failure 503 {object} services.HealthCheckResult
// @Router /health [get]
func (h *SiteHandler) GetHealth(c *fiber.Ctx) error {
	result := services.HealthCheck(h.Config, h.DB)
	status := fiber.StatusOK
	if result.Status != "healthy" {
		status = fiber.StatusServiceUnavailable
	}
	return c.Status(status).JSON(result)
}

func firstN(records []models.ModelRecord, n int) []models.ModelRecord {
	if len(records) > n {
		return records[:n]
	}
	return records
}
