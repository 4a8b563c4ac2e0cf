package telemetry

import (
	"context"

	"gorm.io/gorm"
)

// GormStoreMetricsProvider implements StoreMetricsProvider with direct SQL
// queries, bypassing the repositories to keep the collection loop cheap.
type GormStoreMetricsProvider struct {
	db *gorm.DB
}

// NewGormStoreMetricsProvider creates a provider backed by the given database
func NewGormStoreMetricsProvider(db *gorm.DB) *GormStoreMetricsProvider {
	return &GormStoreMetricsProvider{db: db}
}

// LowStockCount counts displayable products at or below the stock threshold
func (p *GormStoreMetricsProvider) LowStockCount(ctx context.Context, threshold int) (int64, error) {
	var count int64
	err := p.db.WithContext(ctx).
		Table("products").
		Where("status = ?", "active").
		Where("is_deleted = ?", false).
		Where("stock <= ?", threshold).
		Count(&count).Error
	return count, err
}

// PendingProofCount counts orders whose payment proof awaits review
func (p *GormStoreMetricsProvider) PendingProofCount(ctx context.Context) (int64, error) {
	var count int64
	err := p.db.WithContext(ctx).
		Table("orders").
		Where("payment_status = ?", "proof_submitted").
		Count(&count).Error
	return count, err
}
