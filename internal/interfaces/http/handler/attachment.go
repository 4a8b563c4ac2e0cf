package handler

import (
	catalogapp "github.com/boutique/backend/internal/application/catalog"
	"github.com/gin-gonic/gin"
)

// AttachmentHandler handles product image upload tickets
type AttachmentHandler struct {
	BaseHandler
	attachmentService *catalogapp.AttachmentService
}

// NewAttachmentHandler creates a new AttachmentHandler
func NewAttachmentHandler(attachmentService *catalogapp.AttachmentService) *AttachmentHandler {
	return &AttachmentHandler{
		attachmentService: attachmentService,
	}
}

// ImageUploadRequest asks for a presigned upload slot for a product image
type ImageUploadRequest struct {
	ContentType string `json:"content_type" binding:"required"`
}

// RemoveImageRequest identifies a stored image to delete
type RemoveImageRequest struct {
	StorageKey string `json:"storage_key" binding:"required,max=500"`
}

// RequestImageUpload godoc
// @Summary      Request a product image upload URL
// @Description  Returns a presigned URL to PUT the image to, plus the
//               storage key for the image set
// @Tags         admin-products
// @Accept       json
// @Produce      json
// @Param        id path string true "Product ID"
// @Param        request body ImageUploadRequest true "Upload request"
// @Success      200 {object} dto.Response{data=catalogapp.UploadTicket}
// @Failure      415 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/products/{id}/images/upload [post]
func (h *AttachmentHandler) RequestImageUpload(c *gin.Context) {
	productID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid product ID format")
		return
	}

	var req ImageUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	ticket, err := h.attachmentService.RequestImageUpload(c.Request.Context(), productID, req.ContentType)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, ticket)
}

// RemoveImage godoc
// @Summary      Delete a stored product image
// @Tags         admin-products
// @Accept       json
// @Produce      json
// @Param        request body RemoveImageRequest true "Image to remove"
// @Success      204
// @Security     BearerAuth
// @Router       /admin/products/images [delete]
func (h *AttachmentHandler) RemoveImage(c *gin.Context) {
	var req RemoveImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	if err := h.attachmentService.RemoveImage(c.Request.Context(), req.StorageKey); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
