package handler

import (
	"strconv"

	couponapp "github.com/boutique/backend/internal/application/coupon"
	"github.com/gin-gonic/gin"
)

// CouponHandler handles coupon preview and admin management
type CouponHandler struct {
	BaseHandler
	couponService *couponapp.CouponService
}

// NewCouponHandler creates a new CouponHandler
func NewCouponHandler(couponService *couponapp.CouponService) *CouponHandler {
	return &CouponHandler{
		couponService: couponService,
	}
}

// Preview godoc
// @Summary      Preview a coupon against a subtotal
// @Description  Validates the coupon for the current user and returns the
//               discount it would produce, without consuming a use
// @Tags         coupons
// @Accept       json
// @Produce      json
// @Param        request body couponapp.PreviewInput true "Preview request"
// @Success      200 {object} dto.Response{data=couponapp.PreviewResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /coupons/preview [post]
func (h *CouponHandler) Preview(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var input couponapp.PreviewInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.couponService.Preview(c.Request.Context(), userID, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// GetByCode godoc
// @Summary      Get a coupon by code
// @Tags         coupons
// @Produce      json
// @Param        code path string true "Coupon code"
// @Success      200 {object} dto.Response{data=couponapp.CouponResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /coupons/{code} [get]
func (h *CouponHandler) GetByCode(c *gin.Context) {
	resp, err := h.couponService.GetByCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// Create godoc
// @Summary      Create a coupon
// @Tags         admin-coupons
// @Accept       json
// @Produce      json
// @Param        request body couponapp.CreateCouponInput true "Coupon creation request"
// @Success      201 {object} dto.Response{data=couponapp.CouponResponse}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/coupons [post]
func (h *CouponHandler) Create(c *gin.Context) {
	var input couponapp.CreateCouponInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.couponService.Create(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, resp)
}

// List godoc
// @Summary      List coupons
// @Tags         admin-coupons
// @Produce      json
// @Param        page query int false "Page number"
// @Param        page_size query int false "Page size"
// @Success      200 {object} dto.Response{data=[]couponapp.CouponResponse}
// @Security     BearerAuth
// @Router       /admin/coupons [get]
func (h *CouponHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	result, err := h.couponService.List(c.Request.Context(), page, pageSize)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// Deactivate godoc
// @Summary      Deactivate a coupon
// @Tags         admin-coupons
// @Produce      json
// @Param        id path string true "Coupon ID"
// @Success      204
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/coupons/{id}/deactivate [post]
func (h *CouponHandler) Deactivate(c *gin.Context) {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid coupon ID format")
		return
	}

	if err := h.couponService.Deactivate(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// Delete godoc
// @Summary      Delete a coupon and its usage records
// @Tags         admin-coupons
// @Produce      json
// @Param        id path string true "Coupon ID"
// @Success      204
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/coupons/{id} [delete]
func (h *CouponHandler) Delete(c *gin.Context) {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid coupon ID format")
		return
	}

	if err := h.couponService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
