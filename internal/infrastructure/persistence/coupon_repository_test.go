package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/boutique/backend/internal/domain/coupon"
	"github.com/boutique/backend/internal/domain/shared"
)

// setupCouponTestDB creates an in-memory SQLite database for testing
func setupCouponTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.Exec(`
		CREATE TABLE coupons (
			id TEXT PRIMARY KEY,
			code TEXT NOT NULL UNIQUE,
			description TEXT,
			discount_type TEXT NOT NULL,
			discount_value NUMERIC NOT NULL,
			min_purchase NUMERIC NOT NULL DEFAULT 0,
			max_discount NUMERIC,
			usage_limit INTEGER,
			usage_per_user INTEGER NOT NULL DEFAULT 1,
			times_used INTEGER NOT NULL DEFAULT 0,
			valid_from DATETIME NOT NULL,
			valid_until DATETIME NOT NULL,
			is_active INTEGER NOT NULL DEFAULT 1,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		)
	`).Error
	require.NoError(t, err)

	err = db.Exec(`
		CREATE TABLE coupon_usages (
			id TEXT PRIMARY KEY,
			coupon_id TEXT NOT NULL,
			user_id TEXT NOT NULL,
			order_id TEXT,
			discount_amount NUMERIC NOT NULL,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		)
	`).Error
	require.NoError(t, err)

	return db
}

func seedCoupon(t *testing.T, repo *GormCouponRepository, code string) *coupon.Coupon {
	t.Helper()
	c, err := coupon.NewCoupon(code, coupon.DiscountTypePercentage, decimal.NewFromInt(10),
		time.Now().Add(-time.Hour), time.Now().Add(24*time.Hour))
	require.NoError(t, err)
	require.NoError(t, repo.Save(context.Background(), c))
	return c
}

func TestGormCouponRepository_SaveAndFindByCode(t *testing.T) {
	db := setupCouponTestDB(t)
	repo := NewGormCouponRepository(db)
	ctx := context.Background()

	c := seedCoupon(t, repo, "WELCOME10")

	// Lookup normalizes case and whitespace
	retrieved, err := repo.FindByCode(ctx, "  welcome10 ")
	require.NoError(t, err)
	assert.Equal(t, c.ID, retrieved.ID)
	assert.Equal(t, coupon.DiscountTypePercentage, retrieved.DiscountType)

	_, err = repo.FindByCode(ctx, "MISSING")
	assert.Equal(t, shared.ErrNotFound, err)
}

func TestGormCouponRepository_FindAll(t *testing.T) {
	db := setupCouponTestDB(t)
	repo := NewGormCouponRepository(db)
	ctx := context.Background()

	seedCoupon(t, repo, "SPRING")
	seedCoupon(t, repo, "WINTER")

	coupons, err := repo.FindAll(ctx, shared.DefaultFilter())
	require.NoError(t, err)
	assert.Len(t, coupons, 2)

	count, err := repo.Count(ctx, shared.DefaultFilter())
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestGormCouponRepository_UsageTracking(t *testing.T) {
	db := setupCouponTestDB(t)
	repo := NewGormCouponRepository(db)
	ctx := context.Background()

	c := seedCoupon(t, repo, "LOYAL")
	userID := uuid.New()

	count, err := repo.CountUsagesByUser(ctx, c.ID, userID)
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	usage := &coupon.CouponUsage{
		BaseEntity:     shared.NewBaseEntity(),
		CouponID:       c.ID,
		UserID:         userID,
		DiscountAmount: decimal.RequireFromString("15.00"),
	}
	require.NoError(t, repo.SaveUsage(ctx, usage))

	count, err = repo.CountUsagesByUser(ctx, c.ID, userID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	// Another user is unaffected
	count, err = repo.CountUsagesByUser(ctx, c.ID, uuid.New())
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestGormCouponRepository_DeleteRemovesUsages(t *testing.T) {
	db := setupCouponTestDB(t)
	repo := NewGormCouponRepository(db)
	ctx := context.Background()

	c := seedCoupon(t, repo, "GONE")
	require.NoError(t, repo.SaveUsage(ctx, &coupon.CouponUsage{
		BaseEntity:     shared.NewBaseEntity(),
		CouponID:       c.ID,
		UserID:         uuid.New(),
		DiscountAmount: decimal.RequireFromString("5.00"),
	}))

	require.NoError(t, repo.Delete(ctx, c.ID))

	_, err := repo.FindByID(ctx, c.ID)
	assert.Equal(t, shared.ErrNotFound, err)

	var count int64
	db.Table("coupon_usages").Count(&count)
	assert.Equal(t, int64(0), count)

	assert.Equal(t, shared.ErrNotFound, repo.Delete(ctx, uuid.New()))
}
