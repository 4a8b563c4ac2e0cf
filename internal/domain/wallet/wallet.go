package wallet

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/boutique/backend/internal/domain/shared"
)

// TransactionType categorizes wallet movements
type TransactionType string

const (
	TransactionTypeCredit   TransactionType = "credit"
	TransactionTypeDebit    TransactionType = "debit"
	TransactionTypeRefund   TransactionType = "refund"
	TransactionTypePurchase TransactionType = "purchase"
)

// Wallet holds a user's store credit and loyalty points, one per user
type Wallet struct {
	shared.BaseEntity
	UserID        uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	Balance       decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"balance"`
	LoyaltyPoints int             `gorm:"not null;default:0" json:"loyalty_points"`
}

// Transaction is an immutable wallet ledger entry capturing the balance
// before and after the movement
type Transaction struct {
	shared.BaseEntity
	WalletID      uuid.UUID       `gorm:"type:uuid;not null;index" json:"wallet_id"`
	Type          TransactionType `gorm:"type:varchar(20);not null" json:"type"`
	Amount        decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"amount"`
	Points        int             `gorm:"not null;default:0" json:"points"`
	BalanceBefore decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"balance_before"`
	BalanceAfter  decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"balance_after"`
	Description   string          `gorm:"type:varchar(500)" json:"description"`
	Reference     string          `gorm:"type:varchar(100)" json:"reference"`
}

// TableName returns the table name for GORM
func (Transaction) TableName() string {
	return "wallet_transactions"
}

// NewWallet creates an empty wallet for the user
func NewWallet(userID uuid.UUID) *Wallet {
	return &Wallet{
		BaseEntity: shared.NewBaseEntity(),
		UserID:     userID,
		Balance:    decimal.Zero,
	}
}

// Credit adds funds and returns the ledger entry
func (w *Wallet) Credit(amount decimal.Decimal, txType TransactionType, description, reference string) (*Transaction, error) {
	if !amount.IsPositive() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Credit amount must be positive")
	}
	before := w.Balance
	w.Balance = w.Balance.Add(amount)
	w.Touch()
	return w.entry(txType, amount, before, description, reference), nil
}

// Debit removes funds and returns the ledger entry
func (w *Wallet) Debit(amount decimal.Decimal, txType TransactionType, description, reference string) (*Transaction, error) {
	if !amount.IsPositive() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Debit amount must be positive")
	}
	if w.Balance.LessThan(amount) {
		return nil, shared.ErrInsufficientBalance
	}
	before := w.Balance
	w.Balance = w.Balance.Sub(amount)
	w.Touch()
	return w.entry(txType, amount.Neg(), before, description, reference), nil
}

// AddPoints accrues loyalty points
func (w *Wallet) AddPoints(points int) error {
	if points <= 0 {
		return shared.NewDomainError("INVALID_AMOUNT", "Points must be positive")
	}
	w.LoyaltyPoints += points
	w.Touch()
	return nil
}

func (w *Wallet) entry(txType TransactionType, amount, before decimal.Decimal, description, reference string) *Transaction {
	return &Transaction{
		BaseEntity:    shared.NewBaseEntity(),
		WalletID:      w.ID,
		Type:          txType,
		Amount:        amount,
		BalanceBefore: before,
		BalanceAfter:  w.Balance,
		Description:   description,
		Reference:     reference,
	}
}
