package handlers

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/mlsechub/modelhub/internal/highlight"
	"github.com/mlsechub/modelhub/internal/middleware"
	"github.com/mlsechub/modelhub/internal/models"
	"github.com/mlsechub/modelhub/internal/services"
	"github.com/mlsechub/modelhub/internal/store"
	"github.com/mlsechub/modelhub/internal/types"
	"github.com/mlsechub/modelhub/internal/utils"
)

// DraftHandler handles the per-user config draft editor routes
type DraftHandler struct {
	Stores *store.Stores
	Drafts *services.DraftService
}

// DraftResponse is the editor view: the raw draft text plus the annotated
// lines the viewer renders.
type DraftResponse struct {
	Draft    services.Draft   `json:"draft"`
	Filename string           `json:"filename"`
	Lines    []highlight.Line `json:"lines"`
}

func (h *DraftHandler) record(c *fiber.Ctx) (*models.ModelRecord, error) {
	id, err := parseIDParam(c)
	if err != nil {
		return nil, err
	}
	rec, err := h.Stores.Models.Get(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, types.NewNotFoundError(fmt.Sprintf("Model %d not found", id))
		}
		return nil, err
	}
	return rec, nil
}

// GetDraft handles GET /api/models/:id/draft
// @Summary Load the config draft
// @Description Return the user's draft for this model, creating it from the stored config file or synthesized defaults
// @Tags Drafts
// @Produce json
// @Param id path int true "Model ID"
// @Param q query string false "Search term to highlight"
// @Success 200 {object} DraftResponse
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /models/{id}/draft [get]
func (h *DraftHandler) GetDraft(c *fiber.Ctx) error {
	rec, err := h.record(c)
	if err != nil {
		return err
	}

	file, err := h.Stores.Files.Get(rec.ID)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "getDraft")
	}

	draft, err := h.Drafts.GetOrCreate(middleware.Username(c), rec, file)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "getDraft")
	}

	return c.Status(fiber.StatusOK).JSON(DraftResponse{
		Draft:    draft,
		Filename: services.ConfigFilename(rec.Name),
		Lines:    highlight.Highlight(draft.Text, c.Query("q")),
	})
}

// ReplaceDraft handles PUT /api/models/:id/draft
// @Summary Replace the config draft
// @Description Swap the draft text; invalid JSON leaves the previous draft untouched and returns a parse error
// @Tags Drafts
// @Accept json
// @Produce json
// @Param id path int true "Model ID"
// @Param body body object{text=string} true "New draft text"
// @Success 200 {object} DraftResponse
// @Failure 422 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /models/{id}/draft [put]
func (h *DraftHandler) ReplaceDraft(c *fiber.Ctx) error {
	rec, err := h.record(c)
	if err != nil {
		return err
	}

	var payload struct {
		Text string `json:"text"`
	}
	if err := c.BodyParser(&payload); err != nil {
		return types.NewParseError("invalid request body: " + err.Error())
	}

	draft, err := h.Drafts.Replace(middleware.Username(c), rec.ID, payload.Text)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(DraftResponse{
		Draft:    draft,
		Filename: services.ConfigFilename(rec.Name),
		Lines:    highlight.Highlight(draft.Text, c.Query("q")),
	})
}

// ResetDraft handles DELETE /api/models/:id/draft
// @Summary Discard the config draft
// @Description Drop the user's draft; the next load re-derives it from source
// @Tags Drafts
// @Produce json
// @Param id path int true "Model ID"
// @Success 200 {object} utils.SuccessResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /models/{id}/draft [delete]
func (h *DraftHandler) ResetDraft(c *fiber.Ctx) error {
	rec, err := h.record(c)
	if err != nil {
		return err
	}

	h.Drafts.Reset(middleware.Username(c), rec.ID)
	return utils.MutationSuccessResponse(c, rec.ID, 1)
}

// ExportDraft handles GET /api/models/:id/draft/export
// @Summary Export the config draft
// @Description Download the draft as pretty-printed JSON; rejected while the draft holds a parse error
// @Tags Drafts
// @Produce json
// @Param id path int true "Model ID"
// @Success 200 {file} binary
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 409 {object} utils.ErrorResponseStruct
// @Router /models/{id}/draft/export [get]
func (h *DraftHandler) ExportDraft(c *fiber.Ctx) error {
	rec, err := h.record(c)
	if err != nil {
		return err
	}

	artifact, err := h.Drafts.Export(middleware.Username(c), rec)
	if err != nil {
		return err
	}

	return utils.DownloadResponse(c, artifact.Filename, artifact.MimeType, artifact.Data)
}
