package handler

import (
	"errors"
	"net/http"

	"github.com/blognest/blognest-backend/internal/common"
	"github.com/blognest/blognest-backend/internal/domain"
	"github.com/blognest/blognest-backend/internal/service"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// CredentialHandler handles admin credential management
type CredentialHandler struct {
	service service.CredentialService
}

// NewCredentialHandler creates a new CredentialHandler
func NewCredentialHandler(svc service.CredentialService) *CredentialHandler {
	return &CredentialHandler{service: svc}
}

// List godoc
// @Summary      List platform credentials
// @Description  Returns every configured credential with masked tokens
// @Tags         admin
// @Produce      json
// @Success      200  {object}  common.APIResponse{data=[]domain.CredentialResponse}
// @Security     BearerAuth
// @Router       /admin/credentials [get]
func (h *CredentialHandler) List(c *gin.Context) {
	creds, err := h.service.List(c.Request.Context())
	if err != nil {
		common.ErrorResponse(c, http.StatusInternalServerError, "Failed to fetch credentials", err)
		return
	}
	common.SuccessResponse(c, creds, nil)
}

// Upsert godoc
// @Summary      Create or rotate a platform credential
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        body  body  domain.UpsertCredentialRequest  true  "Credential (plaintext tokens, encrypted at rest)"
// @Success      200  {object}  common.APIResponse{data=domain.CredentialResponse}
// @Failure      400  {object}  common.APIResponse
// @Security     BearerAuth
// @Router       /admin/credentials [put]
func (h *CredentialHandler) Upsert(c *gin.Context) {
	var req domain.UpsertCredentialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	resp, err := h.service.Upsert(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, common.ErrUnsupportedPlatform) || errors.Is(err, common.ErrInvalidInput) {
			common.ErrorResponse(c, http.StatusBadRequest, "Invalid credential", err)
			return
		}
		common.ErrorResponse(c, http.StatusInternalServerError, "Failed to save credential", err)
		return
	}

	common.SuccessResponse(c, resp, nil)
}

// SetActive godoc
// @Summary      Activate or deactivate a platform credential
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        platform  path  string  true  "Platform name"
// @Param        body      body  object{is_active=bool}  true  "Activation flag"
// @Success      200  {object}  common.APIResponse
// @Failure      404  {object}  common.APIResponse
// @Security     BearerAuth
// @Router       /admin/credentials/{platform} [patch]
func (h *CredentialHandler) SetActive(c *gin.Context) {
	var body struct {
		IsActive *bool `json:"is_active" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	platform := domain.Platform(c.Param("platform"))
	if err := h.service.SetActive(c.Request.Context(), platform, *body.IsActive); err != nil {
		if errors.Is(err, common.ErrUnsupportedPlatform) {
			common.ErrorResponse(c, http.StatusBadRequest, "Unsupported platform", err)
			return
		}
		if errors.Is(err, gorm.ErrRecordNotFound) {
			common.ErrorResponse(c, http.StatusNotFound, "Credential not found", err)
			return
		}
		common.ErrorResponse(c, http.StatusInternalServerError, "Failed to update credential", err)
		return
	}

	common.SuccessResponse(c, gin.H{"platform": platform, "is_active": *body.IsActive}, nil)
}
