package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lumora/memoria-backend/internal/common"
	"github.com/lumora/memoria-backend/internal/domain"
	"github.com/lumora/memoria-backend/internal/middleware"
	"github.com/lumora/memoria-backend/internal/service"
)

// PaymentHandler handles HTTP requests for plan upgrades
type PaymentHandler struct {
	service service.PaymentService
}

// NewPaymentHandler creates a new PaymentHandler
func NewPaymentHandler(service service.PaymentService) *PaymentHandler {
	return &PaymentHandler{service: service}
}

// VerifyPayment godoc
// @Summary      Verify a payment and upgrade the plan
// @Description  Confirms the gateway reference, then moves the memorial to
// @Description  the purchased plan with an expiry derived from the plan's
// @Description  duration. Verifying the same reference twice is rejected.
// @Tags         payments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body  domain.VerifyPaymentRequest  true  "Payment reference and target plan"
// @Success      200  {object}  common.APIResponse{data=domain.UpgradeResponse}
// @Failure      400  {object}  common.APIResponse
// @Failure      402  {object}  common.APIResponse
// @Failure      403  {object}  common.APIResponse
// @Failure      409  {object}  common.APIResponse
// @Router       /payments/verify [post]
func (h *PaymentHandler) VerifyPayment(c *gin.Context) {
	var req domain.VerifyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	resp, err := h.service.VerifyAndUpgrade(c.Request.Context(), &req, middleware.GetUserID(c))
	switch {
	case errors.Is(err, common.ErrInvalidPlan):
		common.ErrorResponse(c, http.StatusBadRequest, "Unknown or non-purchasable plan", err)
		return
	case errors.Is(err, common.ErrMemorialNotFound):
		common.ErrorResponse(c, http.StatusNotFound, "Memorial not found", err)
		return
	case errors.Is(err, common.ErrForbidden):
		common.ErrorResponse(c, http.StatusForbidden, "Only the owner can upgrade this memorial", err)
		return
	case errors.Is(err, common.ErrPaymentAlreadyApplied):
		common.ErrorResponse(c, http.StatusConflict, "This payment has already been applied", err)
		return
	case errors.Is(err, common.ErrPaymentNotVerified):
		common.ErrorResponse(c, http.StatusPaymentRequired, "Payment could not be verified", err)
		return
	case errors.Is(err, common.ErrAmountMismatch):
		common.ErrorResponse(c, http.StatusPaymentRequired, "Paid amount does not match the plan price", err)
		return
	case errors.Is(err, common.ErrUpgradeFailed):
		common.ErrorResponse(c, http.StatusInternalServerError, "Payment verified but the upgrade failed, contact support", err)
		return
	case err != nil:
		common.ErrorResponse(c, http.StatusInternalServerError, "Payment verification failed", err)
		return
	}

	common.SuccessResponse(c, resp, nil)
}

// ListTransactions godoc
// @Summary      List payment history for a memorial
// @Tags         payments
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "Memorial ID"
// @Success      200  {object}  common.APIResponse{data=[]domain.PaymentTransaction}
// @Failure      403  {object}  common.APIResponse
// @Failure      404  {object}  common.APIResponse
// @Router       /memorials/{id}/payments [get]
func (h *PaymentHandler) ListTransactions(c *gin.Context) {
	txs, err := h.service.ListTransactions(c.Request.Context(), c.Param("id"), middleware.GetUserID(c))
	switch {
	case errors.Is(err, common.ErrMemorialNotFound):
		common.ErrorResponse(c, http.StatusNotFound, "Memorial not found", err)
		return
	case errors.Is(err, common.ErrForbidden):
		common.ErrorResponse(c, http.StatusForbidden, "Only the owner can view payment history", err)
		return
	case err != nil:
		common.ErrorResponse(c, http.StatusInternalServerError, "Failed to list payments", err)
		return
	}

	common.SuccessResponse(c, txs, nil)
}
