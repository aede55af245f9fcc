package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/blognest/blognest-backend/internal/common"
	"github.com/blognest/blognest-backend/internal/domain"
	"github.com/blognest/blognest-backend/internal/service"
	"github.com/gin-gonic/gin"
)

// CrosspostHandler handles crosspost trigger and history requests
type CrosspostHandler struct {
	service       service.CrosspostService
	targetService service.TargetService
}

// NewCrosspostHandler creates a new CrosspostHandler
func NewCrosspostHandler(svc service.CrosspostService, targetSvc service.TargetService) *CrosspostHandler {
	return &CrosspostHandler{service: svc, targetService: targetSvc}
}

// crosspostBody is the request body; the post id comes from the path
type crosspostBody struct {
	Platforms      []domain.Platform            `json:"platforms,omitempty"`
	CustomMessages map[domain.Platform]string   `json:"custom_messages,omitempty"`
}

// Publish godoc
// @Summary      Crosspost a post
// @Description  Publishes the post to its target platforms and returns per-platform results
// @Tags         crosspost
// @Accept       json
// @Produce      json
// @Param        id    path      int            true   "Post ID"
// @Param        body  body      crosspostBody  false  "Platform selection and per-platform message overrides"
// @Success      200  {object}  common.APIResponse{data=domain.CrosspostResponse}
// @Failure      400  {object}  common.APIResponse
// @Failure      404  {object}  common.APIResponse
// @Security     BearerAuth
// @Router       /posts/{id}/crosspost [post]
func (h *CrosspostHandler) Publish(c *gin.Context) {
	id, err := paramUint64(c, "id")
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid post ID", err)
		return
	}

	var body crosspostBody
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&body); err != nil {
			common.ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err)
			return
		}
	}

	resp, err := h.service.Publish(c.Request.Context(), &domain.CrosspostRequest{
		ContentID:      id,
		Platforms:      body.Platforms,
		CustomMessages: body.CustomMessages,
	})
	if err != nil {
		if errors.Is(err, common.ErrPostNotFound) {
			common.ErrorResponse(c, http.StatusNotFound, "Post not found", err)
			return
		}
		if errors.Is(err, common.ErrInvalidInput) {
			common.ErrorResponse(c, http.StatusBadRequest, "Invalid request", err)
			return
		}
		common.ErrorResponse(c, http.StatusInternalServerError, "Crosspost failed", err)
		return
	}

	common.SuccessResponse(c, resp, nil)
}

// GetDeliveries godoc
// @Summary      Crosspost delivery history
// @Description  Returns the delivery ledger rows for a post
// @Tags         crosspost
// @Produce      json
// @Param        id  path  int  true  "Post ID"
// @Success      200  {object}  common.APIResponse{data=[]domain.DeliveryResponse}
// @Failure      400  {object}  common.APIResponse
// @Security     BearerAuth
// @Router       /posts/{id}/deliveries [get]
func (h *CrosspostHandler) GetDeliveries(c *gin.Context) {
	id, err := paramUint64(c, "id")
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid post ID", err)
		return
	}

	deliveries, err := h.service.GetDeliveries(id)
	if err != nil {
		common.ErrorResponse(c, http.StatusInternalServerError, "Failed to fetch deliveries", err)
		return
	}

	common.SuccessResponse(c, deliveries, nil)
}

// ListTargets godoc
// @Summary      List crosspost targets
// @Tags         crosspost
// @Produce      json
// @Param        id  path  int  true  "Post ID"
// @Success      200  {object}  common.APIResponse{data=[]domain.CrosspostTarget}
// @Security     BearerAuth
// @Router       /posts/{id}/crosspost/targets [get]
func (h *CrosspostHandler) ListTargets(c *gin.Context) {
	id, err := paramUint64(c, "id")
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid post ID", err)
		return
	}

	targets, err := h.targetService.List(id)
	if err != nil {
		common.ErrorResponse(c, http.StatusInternalServerError, "Failed to fetch targets", err)
		return
	}

	common.SuccessResponse(c, targets, nil)
}

// UpsertTarget godoc
// @Summary      Create or update a crosspost target
// @Tags         crosspost
// @Accept       json
// @Produce      json
// @Param        id    path  int                          true  "Post ID"
// @Param        body  body  domain.UpsertTargetRequest   true  "Target settings"
// @Success      200  {object}  common.APIResponse{data=domain.CrosspostTarget}
// @Failure      400  {object}  common.APIResponse
// @Security     BearerAuth
// @Router       /posts/{id}/crosspost/targets [put]
func (h *CrosspostHandler) UpsertTarget(c *gin.Context) {
	id, err := paramUint64(c, "id")
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid post ID", err)
		return
	}

	var req domain.UpsertTargetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	target, err := h.targetService.Upsert(id, &req)
	if err != nil {
		if errors.Is(err, common.ErrUnsupportedPlatform) {
			common.ErrorResponse(c, http.StatusBadRequest, "Unsupported platform", err)
			return
		}
		if errors.Is(err, common.ErrPostNotFound) {
			common.ErrorResponse(c, http.StatusNotFound, "Post not found", err)
			return
		}
		common.ErrorResponse(c, http.StatusInternalServerError, "Failed to save target", err)
		return
	}

	common.SuccessResponse(c, target, nil)
}

// DeleteTarget godoc
// @Summary      Remove a crosspost target
// @Tags         crosspost
// @Produce      json
// @Param        id        path  int     true  "Post ID"
// @Param        platform  path  string  true  "Platform name"
// @Success      200  {object}  common.APIResponse
// @Security     BearerAuth
// @Router       /posts/{id}/crosspost/targets/{platform} [delete]
func (h *CrosspostHandler) DeleteTarget(c *gin.Context) {
	id, err := paramUint64(c, "id")
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid post ID", err)
		return
	}

	if err := h.targetService.Delete(id, domain.Platform(c.Param("platform"))); err != nil {
		if errors.Is(err, common.ErrUnsupportedPlatform) {
			common.ErrorResponse(c, http.StatusBadRequest, "Unsupported platform", err)
			return
		}
		common.ErrorResponse(c, http.StatusInternalServerError, "Failed to delete target", err)
		return
	}

	common.SuccessResponse(c, gin.H{"deleted": true}, nil)
}

// paramUint64 parses a positive integer path parameter
func paramUint64(c *gin.Context, name string) (uint64, error) {
	return strconv.ParseUint(c.Param(name), 10, 64)
}
