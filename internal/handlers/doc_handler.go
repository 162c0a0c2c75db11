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

// DocHandler handles the documentation board routes
type DocHandler struct {
	Stores *store.Stores
}

// DocPayload is the request body for writing a document.
type DocPayload struct {
	Title        string `json:"title"`
	Category     string `json:"category"`
	Content      string `json:"content"`
	FileAttached bool   `json:"fileAttached"`
}

// ListDocs handles GET /api/docs
// @Summary List documents
// @Tags Docs
// @Produce json
// @Param category query string false "Filter by category"
// @Success 200 {array} models.DocRecord
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /docs [get]
func (h *DocHandler) ListDocs(c *fiber.Ctx) error {
	docs, err := h.Stores.Docs.List(c.Query("category"))
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "listDocs")
	}
	return c.Status(fiber.StatusOK).JSON(docs)
}

// GetDoc handles GET /api/docs/:id
// @Summary Read a document
// @Description Read one document and count the view
// @Tags Docs
// @Produce json
// @Param id path int true "Document ID"
// @Success 200 {object} models.DocRecord
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /docs/{id} [get]
func (h *DocHandler) GetDoc(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return err
	}

	if err := h.Stores.Docs.IncrementViews(id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return utils.NotFoundResponse(c, fmt.Sprintf("Document %d not found", id))
		}
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "getDoc")
	}

	doc, err := h.Stores.Docs.Get(id)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "getDoc")
	}

	return c.Status(fiber.StatusOK).JSON(doc)
}

// CreateDoc handles POST /api/docs
// @Summary Write a document
// @Tags Docs
// @Accept json
// @Produce json
// @Param doc body DocPayload true "Document fields"
// @Success 201 {object} models.DocRecord
// @Failure 400 {object} utils.ErrorResponseStruct
// @Router /docs [post]
func (h *DocHandler) CreateDoc(c *fiber.Ctx) error {
	var payload DocPayload
	if err := c.BodyParser(&payload); err != nil {
		return types.NewParseError("invalid request body: " + err.Error())
	}

	var missing []string
	if strings.TrimSpace(payload.Title) == "" {
		missing = append(missing, "title")
	}
	if strings.TrimSpace(payload.Content) == "" {
		missing = append(missing, "content")
	}
	if len(missing) > 0 {
		return types.NewValidationError("missing required fields: " + strings.Join(missing, ", "))
	}

	category := payload.Category
	if category == "" {
		category = models.DocCategories[0]
	}

	doc := &models.DocRecord{
		Title:        payload.Title,
		Category:     category,
		Author:       middleware.Username(c),
		Content:      payload.Content,
		FileAttached: payload.FileAttached,
	}
	if err := h.Stores.Docs.Create(doc); err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "createDoc")
	}

	return c.Status(fiber.StatusCreated).JSON(doc)
}

// GetDocAttachment handles GET /api/docs/:id/attachment
// @Summary Download a document attachment
// @Description Download the document content as a markdown artifact
// @Tags Docs
// @Produce octet-stream
// @Param id path int true "Document ID"
// @Success 200 {file} binary
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /docs/{id}/attachment [get]
func (h *DocHandler) GetDocAttachment(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return err
	}

	doc, err := h.Stores.Docs.Get(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return utils.NotFoundResponse(c, fmt.Sprintf("Document %d not found", id))
		}
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "getDocAttachment")
	}
	if !doc.FileAttached {
		return utils.NotFoundResponse(c, fmt.Sprintf("Document %d has no attachment", id))
	}

	return utils.DownloadResponse(c, doc.Title+".md", "text/markdown", []byte(doc.Content))
}
