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

// MemorialHandler handles HTTP requests for memorial pages
type MemorialHandler struct {
	service service.MemorialService
	qr      service.QRService
}

// NewMemorialHandler creates a new MemorialHandler
func NewMemorialHandler(service service.MemorialService, qr service.QRService) *MemorialHandler {
	return &MemorialHandler{service: service, qr: qr}
}

// GetMemorial godoc
// @Summary      View a memorial page
// @Description  Returns the page when the viewer may see it. Hidden pages
// @Description  return 410, private or lapsed pages return 402.
// @Tags         memorials
// @Produce      json
// @Param        id  path  string  true  "Memorial ID"
// @Success      200  {object}  common.APIResponse{data=service.MemorialPage}
// @Failure      402  {object}  common.APIResponse
// @Failure      404  {object}  common.APIResponse
// @Failure      410  {object}  common.APIResponse
// @Router       /memorials/{id} [get]
func (h *MemorialHandler) GetMemorial(c *gin.Context) {
	id := c.Param("id")
	viewer := middleware.GetViewer(c)

	page, err := h.service.ViewPage(c.Request.Context(), id, viewer)
	switch {
	case errors.Is(err, common.ErrMemorialNotFound):
		middleware.CountAccessDecision("not_found")
		common.ErrorResponse(c, http.StatusNotFound, "Memorial not found", err)
		return
	case errors.Is(err, common.ErrMemorialDeactivated):
		middleware.CountAccessDecision("deactivated")
		common.ErrorResponse(c, http.StatusGone, "This memorial has been deactivated", err)
		return
	case errors.Is(err, common.ErrMemorialExpired):
		middleware.CountAccessDecision("expired")
		common.ErrorResponse(c, http.StatusPaymentRequired, "This memorial's plan has expired", err)
		return
	case errors.Is(err, common.ErrMemorialPrivate):
		middleware.CountAccessDecision("private")
		common.ErrorResponse(c, http.StatusPaymentRequired, "This memorial is private", err)
		return
	case err != nil:
		common.ErrorResponse(c, http.StatusInternalServerError, "Failed to load memorial", err)
		return
	}

	middleware.CountAccessDecision("granted")
	middleware.CountMemorialView()
	common.SuccessResponse(c, page, nil)
}

// CreateMemorial godoc
// @Summary      Create a memorial
// @Tags         memorials
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body  domain.CreateMemorialRequest  true  "Memorial"
// @Success      201  {object}  common.APIResponse{data=domain.MemorialResponse}
// @Failure      400  {object}  common.APIResponse
// @Failure      401  {object}  common.APIResponse
// @Router       /memorials [post]
func (h *MemorialHandler) CreateMemorial(c *gin.Context) {
	var req domain.CreateMemorialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	owner := &domain.Member{
		ID:      middleware.GetUserID(c),
		IsAdmin: middleware.IsAdmin(c),
	}

	resp, err := h.service.Create(c.Request.Context(), &req, owner)
	if err != nil {
		common.ErrorResponse(c, http.StatusInternalServerError, "Failed to create memorial", err)
		return
	}

	c.JSON(http.StatusCreated, common.APIResponse{Data: resp})
}

// UpdateMemorial godoc
// @Summary      Edit memorial content
// @Tags         memorials
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path  string                        true  "Memorial ID"
// @Param        request  body  domain.UpdateMemorialRequest  true  "Changes"
// @Success      200  {object}  common.APIResponse
// @Failure      403  {object}  common.APIResponse
// @Failure      404  {object}  common.APIResponse
// @Router       /memorials/{id} [patch]
func (h *MemorialHandler) UpdateMemorial(c *gin.Context) {
	id := c.Param("id")

	var req domain.UpdateMemorialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	err := h.service.Update(c.Request.Context(), id, &req, middleware.GetUserID(c))
	switch {
	case errors.Is(err, common.ErrMemorialNotFound):
		common.ErrorResponse(c, http.StatusNotFound, "Memorial not found", err)
		return
	case errors.Is(err, common.ErrForbidden):
		common.ErrorResponse(c, http.StatusForbidden, "Only the owner can edit this memorial", err)
		return
	case err != nil:
		common.ErrorResponse(c, http.StatusInternalServerError, "Failed to update memorial", err)
		return
	}

	common.SuccessResponse(c, gin.H{"updated": true}, nil)
}

// ListMine godoc
// @Summary      List my memorials
// @Description  Dashboard listing with view counts and last-visited times
// @Tags         memorials
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  common.APIResponse{data=[]domain.MemorialSummary}
// @Router       /dashboard/memorials [get]
func (h *MemorialHandler) ListMine(c *gin.Context) {
	summaries, err := h.service.ListMine(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		common.ErrorResponse(c, http.StatusInternalServerError, "Failed to list memorials", err)
		return
	}
	common.SuccessResponse(c, summaries, nil)
}

// GetQRCode godoc
// @Summary      Share QR code
// @Description  PNG QR code pointing at the memorial's public page
// @Tags         memorials
// @Produce      png
// @Param        id    path   string  true   "Memorial ID"
// @Param        size  query  int     false  "Image size in pixels"  default(256)
// @Success      200  {file}  binary
// @Failure      404  {object}  common.APIResponse
// @Router       /memorials/{id}/qr [get]
func (h *MemorialHandler) GetQRCode(c *gin.Context) {
	id := c.Param("id")
	size := ginutil.QueryInt(c, "size", 256)

	png, err := h.qr.MemorialQR(c.Request.Context(), id, size)
	if errors.Is(err, common.ErrMemorialNotFound) {
		common.ErrorResponse(c, http.StatusNotFound, "Memorial not found", err)
		return
	}
	if err != nil {
		common.ErrorResponse(c, http.StatusInternalServerError, "Failed to render QR code", err)
		return
	}

	c.Data(http.StatusOK, "image/png", png)
}
