package handler

import (
	orderapp "github.com/boutique/backend/internal/application/order"
	"github.com/gin-gonic/gin"
)

// PaymentHandler handles payment-proof upload, submission, and admin review
type PaymentHandler struct {
	BaseHandler
	paymentService *orderapp.PaymentService
}

// NewPaymentHandler creates a new PaymentHandler
func NewPaymentHandler(paymentService *orderapp.PaymentService) *PaymentHandler {
	return &PaymentHandler{
		paymentService: paymentService,
	}
}

// ProofUploadRequest asks for a presigned upload slot for a payment proof
type ProofUploadRequest struct {
	ContentType string `json:"content_type" binding:"required"`
}

// RequestProofUpload godoc
// @Summary      Request a payment proof upload URL
// @Description  Returns a presigned URL the client PUTs the proof file to,
//               plus the storage key to submit afterwards
// @Tags         payments
// @Accept       json
// @Produce      json
// @Param        id path string true "Order ID"
// @Param        request body ProofUploadRequest true "Upload request"
// @Success      200 {object} dto.Response{data=orderapp.ProofUploadResponse}
// @Failure      415 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /orders/{id}/payment/proof-upload [post]
func (h *PaymentHandler) RequestProofUpload(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	orderID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid order ID format")
		return
	}

	var req ProofUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.paymentService.RequestProofUpload(c.Request.Context(), orderID, userID, req.ContentType)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// SubmitProof godoc
// @Summary      Submit an uploaded payment proof
// @Description  Attaches the uploaded proof to the order and moves it to review
// @Tags         payments
// @Accept       json
// @Produce      json
// @Param        id path string true "Order ID"
// @Param        request body orderapp.SubmitProofInput true "Proof submission"
// @Success      200 {object} dto.Response{data=orderapp.OrderResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /orders/{id}/payment/proof [post]
func (h *PaymentHandler) SubmitProof(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	orderID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid order ID format")
		return
	}

	var input orderapp.SubmitProofInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.paymentService.SubmitProof(c.Request.Context(), orderID, userID, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// ProofDownloadURL godoc
// @Summary      Get a download URL for a submitted proof
// @Tags         admin-orders
// @Produce      json
// @Param        id path string true "Order ID"
// @Success      200 {object} dto.Response{data=orderapp.ProofDownloadResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/orders/{id}/payment/proof [get]
func (h *PaymentHandler) ProofDownloadURL(c *gin.Context) {
	orderID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid order ID format")
		return
	}

	resp, err := h.paymentService.ProofDownloadURL(c.Request.Context(), orderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// Approve godoc
// @Summary      Approve a submitted payment
// @Description  Marks the order paid, accrues loyalty points, and records
//               coupon usage
// @Tags         admin-orders
// @Produce      json
// @Param        id path string true "Order ID"
// @Success      200 {object} dto.Response{data=orderapp.OrderResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/orders/{id}/payment/approve [post]
func (h *PaymentHandler) Approve(c *gin.Context) {
	orderID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid order ID format")
		return
	}

	resp, err := h.paymentService.Approve(c.Request.Context(), orderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// Reject godoc
// @Summary      Reject a submitted payment
// @Description  Returns the order to awaiting payment with a reason the
//               customer can see
// @Tags         admin-orders
// @Accept       json
// @Produce      json
// @Param        id path string true "Order ID"
// @Param        request body orderapp.RejectPaymentInput true "Rejection reason"
// @Success      200 {object} dto.Response{data=orderapp.OrderResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/orders/{id}/payment/reject [post]
func (h *PaymentHandler) Reject(c *gin.Context) {
	orderID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid order ID format")
		return
	}

	var input orderapp.RejectPaymentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.paymentService.Reject(c.Request.Context(), orderID, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// UpdateShipping godoc
// @Summary      Update an order's shipping status
// @Tags         admin-orders
// @Accept       json
// @Produce      json
// @Param        id path string true "Order ID"
// @Param        request body orderapp.UpdateShippingInput true "Shipping status update"
// @Success      200 {object} dto.Response{data=orderapp.OrderResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/orders/{id}/shipping [put]
func (h *PaymentHandler) UpdateShipping(c *gin.Context) {
	orderID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid order ID format")
		return
	}

	var input orderapp.UpdateShippingInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.paymentService.UpdateShipping(c.Request.Context(), orderID, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}
