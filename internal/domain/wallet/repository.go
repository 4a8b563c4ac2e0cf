package wallet

import (
	"context"

	"github.com/google/uuid"

	"github.com/boutique/backend/internal/domain/shared"
)

// Repository persists wallets and their ledger
type Repository interface {
	FindByUserID(ctx context.Context, userID uuid.UUID) (*Wallet, error)
	Save(ctx context.Context, wallet *Wallet) error
	SaveTransaction(ctx context.Context, tx *Transaction) error
	FindTransactions(ctx context.Context, walletID uuid.UUID, filter shared.Filter) ([]Transaction, error)
	CountTransactions(ctx context.Context, walletID uuid.UUID) (int64, error)
}
