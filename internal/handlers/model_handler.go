package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/mlsechub/modelhub/internal/catalog"
	"github.com/mlsechub/modelhub/internal/models"
	"github.com/mlsechub/modelhub/internal/services"
	"github.com/mlsechub/modelhub/internal/store"
	"github.com/mlsechub/modelhub/internal/types"
	"github.com/mlsechub/modelhub/internal/utils"
)

// ModelHandler handles model catalog routes
type ModelHandler struct {
	Stores *store.Stores
}

// ModelPayload is the request body for registering or editing a model.
type ModelPayload struct {
	Name            string          `json:"name"`
	Version         string          `json:"version"`
	ModelType       string          `json:"modelType"`
	Algorithm       string          `json:"algorithm"`
	LogType         string          `json:"logType"`
	Summary         string          `json:"summary"`
	Description     string          `json:"description"`
	DetectionTarget string          `json:"detectionTarget"`
	Status          string          `json:"status"`
	ThreatTags      []string        `json:"threatTags"`
	RequiredFields  []string        `json:"requiredFields"`
	Features        []string        `json:"features"`
	MitreTactics    []string        `json:"mitreTactics"`
	MitreTechniques []string        `json:"mitreTechniques"`
	Parameters      string          `json:"parameters"`
	DatasetSettings json.RawMessage `json:"datasetSettings"`
	TriggerSettings json.RawMessage `json:"triggerSettings"`
	File            *FilePayload    `json:"file,omitempty"`
	ConfigJSON      json.RawMessage `json:"configJson,omitempty"`
}

// FilePayload carries an uploaded model binary; Data is base64 in JSON.
type FilePayload struct {
	Filename string `json:"filename"`
	MimeType string `json:"mimeType"`
	Data     []byte `json:"data"`
}

// validate reports the required fields the payload is missing. Nothing is
// written to the store while this returns a non-empty list.
func (p *ModelPayload) validate() []string {
	var missing []string
	if strings.TrimSpace(p.Name) == "" {
		missing = append(missing, "name")
	}
	if strings.TrimSpace(p.DetectionTarget) == "" {
		missing = append(missing, "detectionTarget")
	}
	if len(p.ThreatTags) == 0 {
		missing = append(missing, "threatTags")
	}
	if strings.TrimSpace(p.Summary) == "" {
		missing = append(missing, "summary")
	}
	return missing
}

func validStatus(status string) bool {
	switch status {
	case models.StatusActive, models.StatusPending, models.StatusTest:
		return true
	}
	return false
}

// ListModels handles GET /api/models
// @Summary List models
// @Description Filter, sort and paginate the model catalog
// @Tags Models
// @Produce json
// @Param search query string false "Free-text search"
// @Param statuses query string false "Comma-separated statuses (default active,test)"
// @Param log_types query string false "Comma-separated log types"
// @Param model_types query string false "Comma-separated model types"
// @Param threats query string false "Comma-separated threat tags"
// @Param sort query string false "Sort key: updated|created|downloads|views|name"
// @Param p query int false "Page number (1-based)"
// @Success 200 {object} catalog.Page
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /models [get]
func (h *ModelHandler) ListModels(c *fiber.Ctx) error {
	records, err := h.Stores.Models.List()
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "listModels")
	}

	statuses := parseCSVParam(c, "statuses")
	if len(statuses) == 0 {
		// The list view shows live and testing models; pending stays hidden
		// unless asked for.
		statuses = []string{models.StatusActive, models.StatusTest}
	}

	filter := catalog.Filter{
		StatusIn:   statuses,
		SearchText: c.Query("search"),
		LogTypes:   parseCSVParam(c, "log_types"),
		ModelTypes: parseCSVParam(c, "model_types"),
		ThreatTags: parseCSVParam(c, "threats"),
	}

	page := catalog.Query(records, filter, catalog.ParseSortKey(c.Query("sort")), parsePageParam(c))
	return c.Status(fiber.StatusOK).JSON(page)
}

// GetModel handles GET /api/models/:id
// @Summary Get model detail
// @Description Get one model record and count the view
// @Tags Models
// @Produce json
// @Param id path int true "Model ID"
// @Success 200 {object} models.ModelRecord
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /models/{id} [get]
func (h *ModelHandler) GetModel(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return err
	}

	if err := h.Stores.Models.IncrementViews(id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return utils.NotFoundResponse(c, fmt.Sprintf("Model %d not found", id))
		}
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "getModel")
	}

	rec, err := h.Stores.Models.Get(id)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "getModel")
	}

	return c.Status(fiber.StatusOK).JSON(rec)
}

// RegisterModel handles POST /api/models
// @Summary Register a model
// @Description Register a new model record; optional file or config payload lands in the file store
// @Tags Models
// @Accept json
// @Produce json
// @Param model body ModelPayload true "Model fields"
// @Success 201 {object} models.ModelRecord
// @Failure 400 {object} utils.ErrorResponseStruct
// @Router /models [post]
func (h *ModelHandler) RegisterModel(c *fiber.Ctx) error {
	var payload ModelPayload
	if err := c.BodyParser(&payload); err != nil {
		return types.NewParseError("invalid request body: " + err.Error())
	}

	if missing := payload.validate(); len(missing) > 0 {
		return types.NewValidationError("missing required fields: " + strings.Join(missing, ", "))
	}
	if payload.Status != "" && !validStatus(payload.Status) {
		return types.NewValidationError("invalid status: " + payload.Status)
	}

	rec := recordFromPayload(&payload)
	rec.HasFile = payload.File != nil || len(payload.ConfigJSON) > 0

	if err := h.Stores.Models.Create(rec); err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "registerModel")
	}

	if err := h.storeAttachment(rec, &payload); err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "registerModel")
	}

	return c.Status(fiber.StatusCreated).JSON(rec)
}

// UpdateModel handles PUT /api/models/:id
// @Summary Edit a model
// @Description Replace a model's editable fields; bumps the update time
// @Tags Models
// @Accept json
// @Produce json
// @Param id path int true "Model ID"
// @Param model body ModelPayload true "Model fields"
// @Success 200 {object} models.ModelRecord
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /models/{id} [put]
func (h *ModelHandler) UpdateModel(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return err
	}

	var payload ModelPayload
	if err := c.BodyParser(&payload); err != nil {
		return types.NewParseError("invalid request body: " + err.Error())
	}

	if missing := payload.validate(); len(missing) > 0 {
		return types.NewValidationError("missing required fields: " + strings.Join(missing, ", "))
	}
	if payload.Status != "" && !validStatus(payload.Status) {
		return types.NewValidationError("invalid status: " + payload.Status)
	}

	rec, err := h.Stores.Models.Update(id, func(rec *models.ModelRecord) error {
		applyPayload(rec, &payload)
		return nil
	})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return utils.NotFoundResponse(c, fmt.Sprintf("Model %d not found", id))
		}
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "updateModel")
	}

	if payload.File != nil {
		if err := h.storeAttachment(rec, &payload); err != nil {
			return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "updateModel")
		}
		rec, err = h.Stores.Models.Update(id, func(rec *models.ModelRecord) error {
			rec.HasFile = true
			rec.Size = fileSize(len(payload.File.Data))
			return nil
		})
		if err != nil {
			return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "updateModel")
		}
	}

	return c.Status(fiber.StatusOK).JSON(rec)
}

// UpdateModelStatus handles PUT /api/models/:id/status
// @Summary Change model status
// @Tags Models
// @Accept json
// @Produce json
// @Param id path int true "Model ID"
// @Param status body object{status=string} true "New status"
// @Success 200 {object} models.ModelRecord
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /models/{id}/status [put]
func (h *ModelHandler) UpdateModelStatus(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return err
	}

	var payload struct {
		Status string `json:"status"`
	}
	if err := c.BodyParser(&payload); err != nil {
		return types.NewParseError("invalid request body: " + err.Error())
	}
	if !validStatus(payload.Status) {
		return types.NewValidationError("invalid status: " + payload.Status)
	}

	rec, err := h.Stores.Models.Update(id, func(rec *models.ModelRecord) error {
		rec.Status = payload.Status
		return nil
	})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return utils.NotFoundResponse(c, fmt.Sprintf("Model %d not found", id))
		}
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "updateModelStatus")
	}

	return c.Status(fiber.StatusOK).JSON(rec)
}

// DeleteModel handles DELETE /api/models/:id
// @Summary Delete a model
// @Description Delete a model record; the stored file blob cascades
// @Tags Models
// @Produce json
// @Param id path int true "Model ID"
// @Success 200 {object} utils.SuccessResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /models/{id} [delete]
func (h *ModelHandler) DeleteModel(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return err
	}

	if err := h.Stores.Models.Delete(id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return utils.NotFoundResponse(c, fmt.Sprintf("Model %d not found", id))
		}
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "deleteModel")
	}

	return utils.MutationSuccessResponse(c, id, 1)
}

// DownloadModel handles GET /api/models/:id/download
// @Summary Download the model file
// @Description Stream the stored model file and count the download
// @Tags Models
// @Produce octet-stream
// @Param id path int true "Model ID"
// @Success 200 {file} binary
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /models/{id}/download [get]
func (h *ModelHandler) DownloadModel(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return err
	}

	file, err := h.Stores.Files.Get(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return utils.NotFoundResponse(c, fmt.Sprintf("No file stored for model %d", id))
		}
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "downloadModel")
	}

	if err := h.Stores.Models.IncrementDownloads(id); err != nil && !errors.Is(err, store.ErrNotFound) {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "downloadModel")
	}

	return utils.DownloadResponse(c, file.Filename, file.MimeType, file.Data)
}

// ImportModelConfig handles POST /api/models/import
// @Summary Parse a rule-config file into a registration prefill
// @Description Extract registration fields from an uploaded rule configuration document
// @Tags Models
// @Accept json
// @Produce json
// @Success 200 {object} services.ConfigImport
// @Failure 422 {object} utils.ErrorResponseStruct
// @Router /models/import [post]
func (h *ModelHandler) ImportModelConfig(c *fiber.Ctx) error {
	imp, err := services.ParseConfigImport(c.Body())
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(imp)
}

// storeAttachment persists the registration's file payload: an uploaded
// binary when present, otherwise the imported config document.
func (h *ModelHandler) storeAttachment(rec *models.ModelRecord, payload *ModelPayload) error {
	switch {
	case payload.File != nil:
		return h.Stores.Files.Put(&models.ModelFile{
			ModelRecordID: rec.ID,
			Filename:      payload.File.Filename,
			MimeType:      payload.File.MimeType,
			Data:          payload.File.Data,
		})
	case len(payload.ConfigJSON) > 0:
		return h.Stores.Files.Put(&models.ModelFile{
			ModelRecordID: rec.ID,
			Filename:      services.ConfigFilename(rec.Name),
			MimeType:      "application/json",
			Data:          payload.ConfigJSON,
		})
	}
	return nil
}

func recordFromPayload(payload *ModelPayload) *models.ModelRecord {
	version := payload.Version
	if version == "" {
		version = "v1.0.0"
	}
	size := "0 MB"
	if payload.File != nil {
		size = fileSize(len(payload.File.Data))
	}
	rec := &models.ModelRecord{
		Version: version,
		Size:    size,
		Status:  payload.Status,
	}
	applyPayload(rec, payload)
	return rec
}

// applyPayload copies the editable fields onto the record. Settings blobs
// that fail to parse are skipped rather than rejected, matching the
// lenient handling of the advanced-settings form.
func applyPayload(rec *models.ModelRecord, payload *ModelPayload) {
	rec.Name = payload.Name
	rec.Algorithm = payload.Algorithm
	rec.ModelType = payload.ModelType
	rec.LogType = payload.LogType
	rec.Summary = payload.Summary
	rec.Description = payload.Description
	rec.DetectionTarget = payload.DetectionTarget
	rec.ThreatTags = models.StringList(payload.ThreatTags)
	rec.RequiredFields = models.StringList(payload.RequiredFields)
	rec.Features = models.StringList(payload.Features)
	rec.MitreTactics = models.StringList(payload.MitreTactics)
	rec.MitreTechniques = models.StringList(payload.MitreTechniques)
	rec.Parameters = types.RawJSON(payload.Parameters)
	if payload.Version != "" {
		rec.Version = payload.Version
	}
	if payload.Status != "" {
		rec.Status = payload.Status
	}
	if json.Valid(payload.DatasetSettings) {
		rec.DatasetSettings = models.NewJSON(payload.DatasetSettings)
	}
	if json.Valid(payload.TriggerSettings) {
		rec.TriggerSettings = models.NewJSON(payload.TriggerSettings)
	}
}

func fileSize(n int) string {
	return fmt.Sprintf("%.2f MB", float64(n)/(1024*1024))
}
