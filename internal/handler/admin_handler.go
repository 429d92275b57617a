package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lumora/memoria-backend/internal/common"
	"github.com/lumora/memoria-backend/internal/middleware"
	"github.com/lumora/memoria-backend/internal/service"
	"github.com/lumora/memoria-backend/pkg/ginutil"
)

// AdminHandler handles HTTP requests for site administration
type AdminHandler struct {
	service service.AdminService
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(service service.AdminService) *AdminHandler {
	return &AdminHandler{service: service}
}

type setVisibilityRequest struct {
	Hidden bool `json:"hidden"`
}

type setAdminRequest struct {
	IsAdmin bool `json:"is_admin"`
}

// SetVisibility godoc
// @Summary      Hide or unhide a memorial
// @Description  Hidden memorials are unavailable to everyone except site
// @Description  admins, the owner included.
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path  string                true  "Memorial ID"
// @Param        request  body  setVisibilityRequest  true  "Target visibility"
// @Success      200  {object}  common.APIResponse
// @Failure      404  {object}  common.APIResponse
// @Router       /admin/memorials/{id}/visibility [put]
func (h *AdminHandler) SetVisibility(c *gin.Context) {
	var req setVisibilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	err := h.service.SetVisibility(c.Request.Context(), c.Param("id"), req.Hidden, middleware.GetUserID(c))
	if errors.Is(err, common.ErrMemorialNotFound) {
		common.ErrorResponse(c, http.StatusNotFound, "Memorial not found", err)
		return
	}
	if err != nil {
		common.ErrorResponse(c, http.StatusInternalServerError, "Failed to change visibility", err)
		return
	}

	common.SuccessResponse(c, gin.H{"hidden": req.Hidden}, nil)
}

// SetMemberAdmin godoc
// @Summary      Grant or revoke site admin
// @Description  Also refreshes the owner-admin flag stored on the member's
// @Description  memorials so their pages stay reachable without a paid plan.
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path  string           true  "Member ID"
// @Param        request  body  setAdminRequest  true  "Admin flag"
// @Success      200  {object}  common.APIResponse
// @Failure      404  {object}  common.APIResponse
// @Router       /admin/members/{id}/admin [put]
func (h *AdminHandler) SetMemberAdmin(c *gin.Context) {
	var req setAdminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	err := h.service.SetMemberAdmin(c.Request.Context(), c.Param("id"), req.IsAdmin, middleware.GetUserID(c))
	if errors.Is(err, common.ErrUserNotFound) {
		common.ErrorResponse(c, http.StatusNotFound, "Member not found", err)
		return
	}
	if err != nil {
		common.ErrorResponse(c, http.StatusInternalServerError, "Failed to change admin flag", err)
		return
	}

	common.SuccessResponse(c, gin.H{"is_admin": req.IsAdmin}, nil)
}

// ListMemorials godoc
// @Summary      List all memorials
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        page   query  int  false  "Page"   default(1)
// @Param        limit  query  int  false  "Limit"  default(20)
// @Success      200  {object}  common.APIResponse{data=[]domain.MemorialSummary}
// @Router       /admin/memorials [get]
func (h *AdminHandler) ListMemorials(c *gin.Context) {
	page := ginutil.QueryInt(c, "page", 1)
	limit := ginutil.QueryInt(c, "limit", 20)

	summaries, total, err := h.service.ListMemorials(c.Request.Context(), page, limit)
	if err != nil {
		common.ErrorResponse(c, http.StatusInternalServerError, "Failed to list memorials", err)
		return
	}

	common.SuccessResponse(c, summaries, &common.Meta{Page: page, Limit: limit, Total: total})
}
