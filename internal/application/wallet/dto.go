package wallet

import (
	"time"

	"github.com/boutique/backend/internal/domain/wallet"
)

// CreditInput adds funds to a wallet
type CreditInput struct {
	Amount      string `json:"amount" binding:"required"`
	Description string `json:"description" binding:"max=500"`
	Reference   string `json:"reference" binding:"max=100"`
}

// WalletResponse is the wallet projection
type WalletResponse struct {
	Balance       float64 `json:"balance"`
	LoyaltyPoints int     `json:"loyalty_points"`
}

// TransactionResponse is a single ledger entry
type TransactionResponse struct {
	ID            string    `json:"id"`
	Type          string    `json:"type"`
	Amount        float64   `json:"amount"`
	Points        int       `json:"points"`
	BalanceBefore float64   `json:"balance_before"`
	BalanceAfter  float64   `json:"balance_after"`
	Description   string    `json:"description"`
	Reference     string    `json:"reference"`
	CreatedAt     time.Time `json:"created_at"`
}

// NewWalletResponse projects a wallet entity
func NewWalletResponse(w *wallet.Wallet) WalletResponse {
	balance, _ := w.Balance.Float64()
	return WalletResponse{
		Balance:       balance,
		LoyaltyPoints: w.LoyaltyPoints,
	}
}

// NewTransactionResponse projects a ledger entry
func NewTransactionResponse(tx *wallet.Transaction) TransactionResponse {
	amount, _ := tx.Amount.Float64()
	before, _ := tx.BalanceBefore.Float64()
	after, _ := tx.BalanceAfter.Float64()
	return TransactionResponse{
		ID:            tx.ID.String(),
		Type:          string(tx.Type),
		Amount:        amount,
		Points:        tx.Points,
		BalanceBefore: before,
		BalanceAfter:  after,
		Description:   tx.Description,
		Reference:     tx.Reference,
		CreatedAt:     tx.CreatedAt,
	}
}
