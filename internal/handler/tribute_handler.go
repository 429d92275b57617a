package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lumora/memoria-backend/internal/common"
	"github.com/lumora/memoria-backend/internal/domain"
	"github.com/lumora/memoria-backend/internal/middleware"
	"github.com/lumora/memoria-backend/internal/service"
	"github.com/lumora/memoria-backend/pkg/ginutil"
)

// TributeHandler handles HTTP requests for tributes and stories
type TributeHandler struct {
	service service.TributeService
}

// NewTributeHandler creates a new TributeHandler
func NewTributeHandler(service service.TributeService) *TributeHandler {
	return &TributeHandler{service: service}
}

// CreateTribute godoc
// @Summary      Leave a tribute
// @Description  Visitors may leave a tribute on any page they can view.
// @Description  Tributes await owner approval before they appear publicly.
// @Tags         tributes
// @Accept       json
// @Produce      json
// @Param        id       path  string                       true  "Memorial ID"
// @Param        request  body  domain.CreateTributeRequest  true  "Tribute"
// @Success      201  {object}  common.APIResponse{data=domain.Tribute}
// @Failure      402  {object}  common.APIResponse
// @Failure      404  {object}  common.APIResponse
// @Router       /memorials/{id}/tributes [post]
func (h *TributeHandler) CreateTribute(c *gin.Context) {
	var req domain.CreateTributeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	tribute, err := h.service.Create(c.Request.Context(), c.Param("id"), &req, middleware.GetViewer(c))
	if err != nil {
		respondTributeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, common.APIResponse{Data: tribute})
}

// ListTributes godoc
// @Summary      List tributes
// @Description  Owners and admins see pending entries too; everyone else
// @Description  sees approved tributes only.
// @Tags         tributes
// @Produce      json
// @Param        id     path   string  true   "Memorial ID"
// @Param        page   query  int     false  "Page"   default(1)
// @Param        limit  query  int     false  "Limit"  default(20)
// @Success      200  {object}  common.APIResponse{data=[]domain.Tribute}
// @Failure      404  {object}  common.APIResponse
// @Router       /memorials/{id}/tributes [get]
func (h *TributeHandler) ListTributes(c *gin.Context) {
	page := ginutil.QueryInt(c, "page", 1)
	limit := ginutil.QueryInt(c, "limit", 20)

	tributes, meta, err := h.service.List(c.Request.Context(), c.Param("id"), middleware.GetViewer(c), page, limit)
	if err != nil {
		respondTributeError(c, err)
		return
	}

	common.SuccessResponse(c, tributes, meta)
}

// ApproveTribute godoc
// @Summary      Approve a pending tribute
// @Tags         tributes
// @Produce      json
// @Security     BearerAuth
// @Param        id          path  string  true  "Memorial ID"
// @Param        tribute_id  path  int     true  "Tribute ID"
// @Success      200  {object}  common.APIResponse
// @Failure      403  {object}  common.APIResponse
// @Failure      404  {object}  common.APIResponse
// @Router       /memorials/{id}/tributes/{tribute_id}/approve [post]
func (h *TributeHandler) ApproveTribute(c *gin.Context) {
	tributeID, err := ginutil.ParamInt64(c, "tribute_id")
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid tribute ID", err)
		return
	}

	if err := h.service.Approve(c.Request.Context(), c.Param("id"), tributeID, middleware.GetViewer(c)); err != nil {
		respondTributeError(c, err)
		return
	}

	common.SuccessResponse(c, gin.H{"approved": true}, nil)
}

// RemoveTribute godoc
// @Summary      Remove a tribute
// @Tags         tributes
// @Produce      json
// @Security     BearerAuth
// @Param        id          path  string  true  "Memorial ID"
// @Param        tribute_id  path  int     true  "Tribute ID"
// @Success      200  {object}  common.APIResponse
// @Failure      403  {object}  common.APIResponse
// @Failure      404  {object}  common.APIResponse
// @Router       /memorials/{id}/tributes/{tribute_id} [delete]
func (h *TributeHandler) RemoveTribute(c *gin.Context) {
	tributeID, err := ginutil.ParamInt64(c, "tribute_id")
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid tribute ID", err)
		return
	}

	if err := h.service.Remove(c.Request.Context(), c.Param("id"), tributeID, middleware.GetViewer(c)); err != nil {
		respondTributeError(c, err)
		return
	}

	common.SuccessResponse(c, gin.H{"removed": true}, nil)
}

func respondTributeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, common.ErrMemorialNotFound):
		common.ErrorResponse(c, http.StatusNotFound, "Memorial not found", err)
	case errors.Is(err, common.ErrTributeNotFound):
		common.ErrorResponse(c, http.StatusNotFound, "Tribute not found", err)
	case errors.Is(err, common.ErrMemorialDeactivated):
		common.ErrorResponse(c, http.StatusGone, "This memorial has been deactivated", err)
	case errors.Is(err, common.ErrMemorialExpired), errors.Is(err, common.ErrMemorialPrivate):
		common.ErrorResponse(c, http.StatusPaymentRequired, "This memorial is not publicly viewable", err)
	case errors.Is(err, common.ErrForbidden):
		common.ErrorResponse(c, http.StatusForbidden, "Not allowed to moderate this memorial", err)
	default:
		common.ErrorResponse(c, http.StatusInternalServerError, "Tribute operation failed", err)
	}
}
