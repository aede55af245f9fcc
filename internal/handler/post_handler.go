package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/blognest/blognest-backend/internal/common"
	"github.com/blognest/blognest-backend/internal/service"
	"github.com/gin-gonic/gin"
)

// PostHandler serves the content store read model
type PostHandler struct {
	service service.PostService
}

// NewPostHandler creates a new PostHandler
func NewPostHandler(svc service.PostService) *PostHandler {
	return &PostHandler{service: svc}
}

// GetPost godoc
// @Summary      Get a post
// @Tags         posts
// @Produce      json
// @Param        id  path  int  true  "Post ID"
// @Success      200  {object}  common.APIResponse{data=domain.PostResponse}
// @Failure      404  {object}  common.APIResponse
// @Router       /posts/{id} [get]
func (h *PostHandler) GetPost(c *gin.Context) {
	id, err := paramUint64(c, "id")
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid post ID", err)
		return
	}

	post, err := h.service.GetPost(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, common.ErrPostNotFound) {
			common.ErrorResponse(c, http.StatusNotFound, "Post not found", err)
			return
		}
		common.ErrorResponse(c, http.StatusInternalServerError, "Failed to fetch post", err)
		return
	}

	common.SuccessResponse(c, post, nil)
}

// ListPosts godoc
// @Summary      List published posts
// @Tags         posts
// @Produce      json
// @Param        page   query  int  false  "Page number"
// @Param        limit  query  int  false  "Page size"
// @Success      200  {object}  common.APIResponse{data=[]domain.PostResponse}
// @Router       /posts [get]
func (h *PostHandler) ListPosts(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	posts, total, err := h.service.ListPosts(page, limit)
	if err != nil {
		common.ErrorResponse(c, http.StatusInternalServerError, "Failed to fetch posts", err)
		return
	}

	common.SuccessResponse(c, posts, common.NewMeta(page, limit, total))
}
