package handler

import (
	"strconv"

	walletapp "github.com/boutique/backend/internal/application/wallet"
	"github.com/gin-gonic/gin"
)

// WalletHandler handles wallet balance, ledger, and admin credit endpoints
type WalletHandler struct {
	BaseHandler
	walletService *walletapp.WalletService
}

// NewWalletHandler creates a new WalletHandler
func NewWalletHandler(walletService *walletapp.WalletService) *WalletHandler {
	return &WalletHandler{
		walletService: walletService,
	}
}

// Get godoc
// @Summary      Get own wallet
// @Tags         wallet
// @Produce      json
// @Success      200 {object} dto.Response{data=walletapp.WalletResponse}
// @Security     BearerAuth
// @Router       /wallet [get]
func (h *WalletHandler) Get(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	resp, err := h.walletService.Get(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// Transactions godoc
// @Summary      List own wallet transactions
// @Tags         wallet
// @Produce      json
// @Param        page query int false "Page number"
// @Param        page_size query int false "Page size"
// @Success      200 {object} dto.Response{data=[]walletapp.TransactionResponse}
// @Security     BearerAuth
// @Router       /wallet/transactions [get]
func (h *WalletHandler) Transactions(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	result, err := h.walletService.Transactions(c.Request.Context(), userID, page, pageSize)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// Credit godoc
// @Summary      Credit a user's wallet
// @Description  Administrative top-up, e.g. for goodwill refunds
// @Tags         admin-wallets
// @Accept       json
// @Produce      json
// @Param        userId path string true "User ID"
// @Param        request body walletapp.CreditInput true "Credit request"
// @Success      200 {object} dto.Response{data=walletapp.WalletResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/wallets/{userId}/credit [post]
func (h *WalletHandler) Credit(c *gin.Context) {
	userID, err := parseUUIDParam(c, "userId")
	if err != nil {
		h.BadRequest(c, "Invalid user ID format")
		return
	}

	var input walletapp.CreditInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.walletService.Credit(c.Request.Context(), userID, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}
