package control

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	catalogApp "github.com/orris-inc/ticketry/internal/application/catalog"
	"github.com/orris-inc/ticketry/internal/application/catalog/dto"
	"github.com/orris-inc/ticketry/internal/interfaces/http/middleware"
	"github.com/orris-inc/ticketry/internal/shared/errors"
	"github.com/orris-inc/ticketry/internal/shared/logger"
	"github.com/orris-inc/ticketry/internal/shared/utils"
)

// CatalogHandler manages categories, items, questions and quotas of an
// event.
type CatalogHandler struct {
	service *catalogApp.ServiceDDD
	logger  logger.Interface
}

func NewCatalogHandler(service *catalogApp.ServiceDDD, logger logger.Interface) *CatalogHandler {
	return &CatalogHandler{service: service, logger: logger}
}

// ListCategories returns the categories in display order
// GET /control/event/:organizer/:event/categories
func (h *CatalogHandler) ListCategories(c *gin.Context) {
	eventID, ok := controlEventID(c)
	if !ok {
		return
	}
	resp, err := h.service.ListCategories(c.Request.Context(), eventID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "", resp)
}

// CreateCategory appends a category
// POST /control/event/:organizer/:event/categories
func (h *CatalogHandler) CreateCategory(c *gin.Context) {
	eventID, ok := controlEventID(c)
	if !ok {
		return
	}
	var req dto.CategoryRequest
	if !bindJSON(c, h.logger, "create category", &req) {
		return
	}
	resp, err := h.service.CreateCategory(c.Request.Context(), eventID, req)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.CreatedResponse(c, resp, "Category created successfully")
}

// UpdateCategory renames a category
// PUT /control/event/:organizer/:event/categories/:id
func (h *CatalogHandler) UpdateCategory(c *gin.Context) {
	eventID, id, ok := controlEventAndID(c)
	if !ok {
		return
	}
	var req dto.CategoryRequest
	if !bindJSON(c, h.logger, "update category", &req) {
		return
	}
	resp, err := h.service.UpdateCategory(c.Request.Context(), eventID, id, req)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "Category updated successfully", resp)
}

// DeleteCategory removes a category; its items stay without category
// DELETE /control/event/:organizer/:event/categories/:id
func (h *CatalogHandler) DeleteCategory(c *gin.Context) {
	eventID, id, ok := controlEventAndID(c)
	if !ok {
		return
	}
	if err := h.service.DeleteCategory(c.Request.Context(), eventID, id); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.NoContentResponse(c)
}

// MoveCategory swaps a category with its neighbour
// POST /control/event/:organizer/:event/categories/:id/move
func (h *CatalogHandler) MoveCategory(c *gin.Context) {
	eventID, id, ok := controlEventAndID(c)
	if !ok {
		return
	}
	up, ok := moveDirection(c, h.logger)
	if !ok {
		return
	}
	resp, err := h.service.MoveCategory(c.Request.Context(), eventID, id, up)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "", resp)
}

// ListItems returns the items with their variations
// GET /control/event/:organizer/:event/items
func (h *CatalogHandler) ListItems(c *gin.Context) {
	eventID, ok := controlEventID(c)
	if !ok {
		return
	}
	resp, err := h.service.ListItems(c.Request.Context(), eventID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "", resp)
}

// GET /control/event/:organizer/:event/items/:id
func (h *CatalogHandler) GetItem(c *gin.Context) {
	eventID, id, ok := controlEventAndID(c)
	if !ok {
		return
	}
	resp, err := h.service.GetItem(c.Request.Context(), eventID, id)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "", resp)
}

// POST /control/event/:organizer/:event/items
func (h *CatalogHandler) CreateItem(c *gin.Context) {
	eventID, ok := controlEventID(c)
	if !ok {
		return
	}
	var req dto.ItemRequest
	if !bindJSON(c, h.logger, "create item", &req) {
		return
	}
	resp, err := h.service.CreateItem(c.Request.Context(), eventID, req)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.CreatedResponse(c, resp, "Item created successfully")
}

// UpdateItem replaces the item fields and applies the variation changes
// PUT /control/event/:organizer/:event/items/:id
func (h *CatalogHandler) UpdateItem(c *gin.Context) {
	eventID, id, ok := controlEventAndID(c)
	if !ok {
		return
	}
	var req dto.ItemRequest
	if !bindJSON(c, h.logger, "update item", &req) {
		return
	}
	resp, err := h.service.UpdateItem(c.Request.Context(), eventID, id, req)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "Item updated successfully", resp)
}

// DeleteItem deletes an item, or deactivates it when it was ordered
// DELETE /control/event/:organizer/:event/items/:id
func (h *CatalogHandler) DeleteItem(c *gin.Context) {
	eventID, id, ok := controlEventAndID(c)
	if !ok {
		return
	}
	resp, err := h.service.DeleteItem(c.Request.Context(), eventID, id)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	msg := "Item deleted successfully"
	if resp.Deactivated {
		msg = "Item was ordered before and has been deactivated instead"
	}
	utils.SuccessResponse(c, http.StatusOK, msg, resp)
}

// POST /control/event/:organizer/:event/items/:id/move
func (h *CatalogHandler) MoveItem(c *gin.Context) {
	eventID, id, ok := controlEventAndID(c)
	if !ok {
		return
	}
	up, ok := moveDirection(c, h.logger)
	if !ok {
		return
	}
	resp, err := h.service.MoveItem(c.Request.Context(), eventID, id, up)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "", resp)
}

// GET /control/event/:organizer/:event/questions
func (h *CatalogHandler) ListQuestions(c *gin.Context) {
	eventID, ok := controlEventID(c)
	if !ok {
		return
	}
	resp, err := h.service.ListQuestions(c.Request.Context(), eventID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "", resp)
}

// POST /control/event/:organizer/:event/questions
func (h *CatalogHandler) CreateQuestion(c *gin.Context) {
	eventID, ok := controlEventID(c)
	if !ok {
		return
	}
	var req dto.QuestionRequest
	if !bindJSON(c, h.logger, "create question", &req) {
		return
	}
	resp, err := h.service.CreateQuestion(c.Request.Context(), eventID, req)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.CreatedResponse(c, resp, "Question created successfully")
}

// PUT /control/event/:organizer/:event/questions/:id
func (h *CatalogHandler) UpdateQuestion(c *gin.Context) {
	eventID, id, ok := controlEventAndID(c)
	if !ok {
		return
	}
	var req dto.QuestionRequest
	if !bindJSON(c, h.logger, "update question", &req) {
		return
	}
	resp, err := h.service.UpdateQuestion(c.Request.Context(), eventID, id, req)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "Question updated successfully", resp)
}

// DELETE /control/event/:organizer/:event/questions/:id
func (h *CatalogHandler) DeleteQuestion(c *gin.Context) {
	eventID, id, ok := controlEventAndID(c)
	if !ok {
		return
	}
	if err := h.service.DeleteQuestion(c.Request.Context(), eventID, id); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.NoContentResponse(c)
}

// POST /control/event/:organizer/:event/questions/:id/move
func (h *CatalogHandler) MoveQuestion(c *gin.Context) {
	eventID, id, ok := controlEventAndID(c)
	if !ok {
		return
	}
	up, ok := moveDirection(c, h.logger)
	if !ok {
		return
	}
	resp, err := h.service.MoveQuestion(c.Request.Context(), eventID, id, up)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "", resp)
}

// QuestionStats counts the given answers, optionally for one order status
// GET /control/event/:organizer/:event/questions/:id/stats?status=p
func (h *CatalogHandler) QuestionStats(c *gin.Context) {
	eventID, id, ok := controlEventAndID(c)
	if !ok {
		return
	}
	resp, err := h.service.QuestionStats(c.Request.Context(), eventID, id, c.Query("status"))
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "", resp)
}

// GET /control/event/:organizer/:event/quotas
func (h *CatalogHandler) ListQuotas(c *gin.Context) {
	eventID, ok := controlEventID(c)
	if !ok {
		return
	}
	resp, err := h.service.ListQuotas(c.Request.Context(), eventID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "", resp)
}

// POST /control/event/:organizer/:event/quotas
func (h *CatalogHandler) CreateQuota(c *gin.Context) {
	eventID, ok := controlEventID(c)
	if !ok {
		return
	}
	var req dto.QuotaRequest
	if !bindJSON(c, h.logger, "create quota", &req) {
		return
	}
	resp, err := h.service.CreateQuota(c.Request.Context(), eventID, req)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.CreatedResponse(c, resp, "Quota created successfully")
}

// PUT /control/event/:organizer/:event/quotas/:id
func (h *CatalogHandler) UpdateQuota(c *gin.Context) {
	eventID, id, ok := controlEventAndID(c)
	if !ok {
		return
	}
	var req dto.QuotaRequest
	if !bindJSON(c, h.logger, "update quota", &req) {
		return
	}
	resp, err := h.service.UpdateQuota(c.Request.Context(), eventID, id, req)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "Quota updated successfully", resp)
}

// DELETE /control/event/:organizer/:event/quotas/:id
func (h *CatalogHandler) DeleteQuota(c *gin.Context) {
	eventID, id, ok := controlEventAndID(c)
	if !ok {
		return
	}
	if err := h.service.DeleteQuota(c.Request.Context(), eventID, id); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.NoContentResponse(c)
}

// QuotaAvailability reports paid, pending and remaining capacity
// GET /control/event/:organizer/:event/quotas/:id/availability
func (h *CatalogHandler) QuotaAvailability(c *gin.Context) {
	eventID, id, ok := controlEventAndID(c)
	if !ok {
		return
	}
	resp, err := h.service.QuotaAvailability(c.Request.Context(), eventID, id)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "", resp)
}

func controlEventID(c *gin.Context) (uint, bool) {
	scope := middleware.GetEventScope(c)
	if scope == nil {
		utils.ErrorResponseWithError(c, errors.NewInternalError("event context missing"))
		return 0, false
	}
	return scope.Event.ID(), true
}

func controlEventAndID(c *gin.Context) (uint, uint, bool) {
	eventID, ok := controlEventID(c)
	if !ok {
		return 0, 0, false
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		utils.ErrorResponseWithError(c, errors.NewValidationError("invalid id", c.Param("id")))
		return 0, 0, false
	}
	return eventID, uint(id), true
}

func bindJSON(c *gin.Context, log logger.Interface, action string, target any) bool {
	if err := c.ShouldBindJSON(target); err != nil {
		log.Warnw("invalid request body for "+action, "error", err)
		utils.ErrorResponseWithError(c, errors.NewValidationError("invalid request body", err.Error()))
		return false
	}
	return true
}

func moveDirection(c *gin.Context, log logger.Interface) (bool, bool) {
	var req dto.MoveRequest
	if !bindJSON(c, log, "move", &req) {
		return false, false
	}
	return req.Direction == "up", true
}
