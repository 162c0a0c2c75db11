package handlers

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/mlsechub/modelhub/internal/middleware"
	"github.com/mlsechub/modelhub/internal/models"
	"github.com/mlsechub/modelhub/internal/store"
	"github.com/mlsechub/modelhub/internal/types"
	"github.com/mlsechub/modelhub/internal/utils"
)

// FeedbackHandler handles model feedback routes
type FeedbackHandler struct {
	Stores *store.Stores
}

// FeedbackPayload is the request body for leaving feedback.
type FeedbackPayload struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

// FeedbackListResponse bundles the log with its aggregates.
type FeedbackListResponse struct {
	Entries []models.FeedbackEntry `json:"entries"`
	Stats   store.FeedbackStats    `json:"stats"`
}

// CreateFeedback handles POST /api/models/:id/feedback
// @Summary Leave feedback on a model
// @Tags Feedback
// @Accept json
// @Produce json
// @Param id path int true "Model ID"
// @Param feedback body FeedbackPayload true "Rating and comment"
// @Success 201 {object} models.FeedbackEntry
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /models/{id}/feedback [post]
func (h *FeedbackHandler) CreateFeedback(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return err
	}

	var payload FeedbackPayload
	if err := c.BodyParser(&payload); err != nil {
		return types.NewParseError("invalid request body: " + err.Error())
	}
	if payload.Rating < 1 || payload.Rating > 5 {
		return types.NewValidationError("rating must be between 1 and 5")
	}
	if strings.TrimSpace(payload.Comment) == "" {
		return types.NewValidationError("comment must not be blank")
	}

	rec, err := h.Stores.Models.Get(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return utils.NotFoundResponse(c, fmt.Sprintf("Model %d not found", id))
		}
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "createFeedback")
	}

	entry := &models.FeedbackEntry{
		ModelID:   rec.ID,
		ModelName: rec.Name,
		Rating:    payload.Rating,
		Comment:   payload.Comment,
		User:      middleware.Username(c),
	}
	if err := h.Stores.Feedback.Append(entry); err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "createFeedback")
	}

	return c.Status(fiber.StatusCreated).JSON(entry)
}

// ListFeedback handles GET /api/feedback
// @Summary List feedback
// @Description All feedback entries newest first, with count and average rating
// @Tags Feedback
// @Produce json
// @Success 200 {object} FeedbackListResponse
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /feedback [get]
func (h *FeedbackHandler) ListFeedback(c *fiber.Ctx) error {
	entries, err := h.Stores.Feedback.List()
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "listFeedback")
	}
	stats, err := h.Stores.Feedback.Stats()
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "listFeedback")
	}

	return c.Status(fiber.StatusOK).JSON(FeedbackListResponse{Entries: entries, Stats: stats})
}
