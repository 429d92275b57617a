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

// MediaHandler handles HTTP requests for memorial photos
type MediaHandler struct {
	service service.MediaService
}

// NewMediaHandler creates a new MediaHandler
func NewMediaHandler(service service.MediaService) *MediaHandler {
	return &MediaHandler{service: service}
}

// UploadPhoto godoc
// @Summary      Upload a photo
// @Tags         media
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string  true   "Memorial ID"
// @Param        file     formData  file    true   "Image file"
// @Param        caption  formData  string  false  "Caption"
// @Success      201  {object}  common.APIResponse{data=domain.Photo}
// @Failure      400  {object}  common.APIResponse
// @Failure      403  {object}  common.APIResponse
// @Router       /memorials/{id}/photos [post]
func (h *MediaHandler) UploadPhoto(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "No file provided", err)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Failed to read file", err)
		return
	}
	defer file.Close()

	photo, err := h.service.UploadPhoto(
		c.Request.Context(),
		c.Param("id"),
		middleware.GetUserID(c),
		fileHeader.Filename,
		fileHeader.Header.Get("Content-Type"),
		fileHeader.Size,
		file,
		c.PostForm("caption"),
	)
	switch {
	case errors.Is(err, common.ErrMemorialNotFound):
		common.ErrorResponse(c, http.StatusNotFound, "Memorial not found", err)
		return
	case errors.Is(err, common.ErrForbidden):
		common.ErrorResponse(c, http.StatusForbidden, "Only the owner can upload photos", err)
		return
	case errors.Is(err, common.ErrInvalidInput):
		common.ErrorResponse(c, http.StatusBadRequest, "Rejected file", err)
		return
	case err != nil:
		common.ErrorResponse(c, http.StatusInternalServerError, "Upload failed", err)
		return
	}

	c.JSON(http.StatusCreated, common.APIResponse{Data: photo})
}

// DeletePhoto godoc
// @Summary      Delete a photo
// @Tags         media
// @Produce      json
// @Security     BearerAuth
// @Param        id        path  string  true  "Memorial ID"
// @Param        photo_id  path  int     true  "Photo ID"
// @Success      200  {object}  common.APIResponse
// @Failure      403  {object}  common.APIResponse
// @Failure      404  {object}  common.APIResponse
// @Router       /memorials/{id}/photos/{photo_id} [delete]
func (h *MediaHandler) DeletePhoto(c *gin.Context) {
	photoID, err := ginutil.ParamInt64(c, "photo_id")
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid photo ID", err)
		return
	}

	err = h.service.DeletePhoto(c.Request.Context(), c.Param("id"), photoID, middleware.GetUserID(c), middleware.IsAdmin(c))
	switch {
	case errors.Is(err, common.ErrNotFound):
		common.ErrorResponse(c, http.StatusNotFound, "Photo not found", err)
		return
	case errors.Is(err, common.ErrMemorialNotFound):
		common.ErrorResponse(c, http.StatusNotFound, "Memorial not found", err)
		return
	case errors.Is(err, common.ErrForbidden):
		common.ErrorResponse(c, http.StatusForbidden, "Not allowed to delete this photo", err)
		return
	case err != nil:
		common.ErrorResponse(c, http.StatusInternalServerError, "Delete failed", err)
		return
	}

	common.SuccessResponse(c, gin.H{"deleted": true}, nil)
}
