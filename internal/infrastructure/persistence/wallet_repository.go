package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/boutique/backend/internal/domain/shared"
	"github.com/boutique/backend/internal/domain/wallet"
)

// GormWalletRepository implements wallet.Repository using GORM
type GormWalletRepository struct {
	db *gorm.DB
}

// NewGormWalletRepository creates a new GormWalletRepository
func NewGormWalletRepository(db *gorm.DB) *GormWalletRepository {
	return &GormWalletRepository{db: db}
}

// FindByUserID finds a user's wallet
func (r *GormWalletRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*wallet.Wallet, error) {
	var w wallet.Wallet
	if err := r.db.WithContext(ctx).First(&w, "user_id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &w, nil
}

// Save creates or updates a wallet
func (r *GormWalletRepository) Save(ctx context.Context, w *wallet.Wallet) error {
	return r.db.WithContext(ctx).Save(w).Error
}

// SaveTransaction appends a ledger entry
func (r *GormWalletRepository) SaveTransaction(ctx context.Context, tx *wallet.Transaction) error {
	return r.db.WithContext(ctx).Save(tx).Error
}

// FindTransactions returns a page of the wallet's ledger, newest first
func (r *GormWalletRepository) FindTransactions(ctx context.Context, walletID uuid.UUID, filter shared.Filter) ([]wallet.Transaction, error) {
	var transactions []wallet.Transaction
	query := r.db.WithContext(ctx).
		Model(&wallet.Transaction{}).
		Where("wallet_id = ?", walletID).
		Order("created_at DESC")

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	if err := query.Find(&transactions).Error; err != nil {
		return nil, err
	}
	return transactions, nil
}

// CountTransactions counts the wallet's ledger entries
func (r *GormWalletRepository) CountTransactions(ctx context.Context, walletID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&wallet.Transaction{}).
		Where("wallet_id = ?", walletID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
