package wallet

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/boutique/backend/internal/domain/shared"
	"github.com/boutique/backend/internal/domain/wallet"
)

// WalletService serves wallet balances and the transaction ledger
type WalletService struct {
	wallets wallet.Repository
	logger  *zap.Logger
}

// NewWalletService creates a new wallet service
func NewWalletService(wallets wallet.Repository, logger *zap.Logger) *WalletService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WalletService{wallets: wallets, logger: logger}
}

// Get returns the user's wallet, creating an empty one on first access
func (s *WalletService) Get(ctx context.Context, userID uuid.UUID) (*WalletResponse, error) {
	w, err := s.loadOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	resp := NewWalletResponse(w)
	return &resp, nil
}

// Transactions returns the user's ledger entries, newest first
func (s *WalletService) Transactions(ctx context.Context, userID uuid.UUID, page, pageSize int) (*shared.Paginated[TransactionResponse], error) {
	w, err := s.wallets.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	filter := shared.DefaultFilter()
	if page > 0 {
		filter.Page = page
	}
	if pageSize > 0 {
		filter.PageSize = pageSize
	}

	transactions, err := s.wallets.FindTransactions(ctx, w.ID, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.wallets.CountTransactions(ctx, w.ID)
	if err != nil {
		return nil, err
	}

	items := make([]TransactionResponse, 0, len(transactions))
	for i := range transactions {
		items = append(items, NewTransactionResponse(&transactions[i]))
	}
	result := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &result, nil
}

// Credit adds funds to a user's wallet. Admin operation, used for manual
// top-ups and goodwill credits.
func (s *WalletService) Credit(ctx context.Context, userID uuid.UUID, input CreditInput) (*WalletResponse, error) {
	amount, err := decimal.NewFromString(input.Amount)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Invalid amount")
	}

	w, err := s.loadOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	tx, err := w.Credit(amount, wallet.TransactionTypeCredit, input.Description, input.Reference)
	if err != nil {
		return nil, err
	}
	if err := s.wallets.Save(ctx, w); err != nil {
		return nil, err
	}
	if err := s.wallets.SaveTransaction(ctx, tx); err != nil {
		return nil, err
	}

	s.logger.Info("Wallet credited",
		zap.String("user_id", userID.String()),
		zap.String("amount", amount.String()))

	resp := NewWalletResponse(w)
	return &resp, nil
}

func (s *WalletService) loadOrCreate(ctx context.Context, userID uuid.UUID) (*wallet.Wallet, error) {
	w, err := s.wallets.FindByUserID(ctx, userID)
	if err == nil {
		return w, nil
	}
	if !shared.IsNotFound(err) {
		return nil, err
	}
	w = wallet.NewWallet(userID)
	if err := s.wallets.Save(ctx, w); err != nil {
		return nil, err
	}
	return w, nil
}
