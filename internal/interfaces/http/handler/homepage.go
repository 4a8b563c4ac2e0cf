package handler

import (
	homepageapp "github.com/boutique/backend/internal/application/homepage"
	"github.com/gin-gonic/gin"
)

// HomepageHandler serves the assembled homepage sections
type HomepageHandler struct {
	BaseHandler
	sectionService *homepageapp.SectionService
}

// NewHomepageHandler creates a new HomepageHandler
func NewHomepageHandler(sectionService *homepageapp.SectionService) *HomepageHandler {
	return &HomepageHandler{
		sectionService: sectionService,
	}
}

// GetSections godoc
// @Summary      Get homepage sections
// @Description  Returns the ordered homepage sections with their products.
//               The payload is cached server-side; a cache miss rebuilds it.
// @Tags         storefront
// @Produce      json
// @Success      200 {object} dto.Response{data=homepageapp.Response}
// @Router       /storefront/homepage [get]
func (h *HomepageHandler) GetSections(c *gin.Context) {
	resp, err := h.sectionService.GetSections(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// Invalidate godoc
// @Summary      Invalidate the homepage cache
// @Description  Drops the cached section payload so the next request rebuilds it
// @Tags         admin-catalog
// @Produce      json
// @Success      204
// @Security     BearerAuth
// @Router       /admin/homepage/invalidate [post]
func (h *HomepageHandler) Invalidate(c *gin.Context) {
	h.sectionService.Invalidate()
	h.NoContent(c)
}
