// Package telemetry provides OpenTelemetry integration for metrics collection.
package telemetry

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// StoreMetrics tracks storefront activity: checkouts, payment review
// outcomes, coupon redemptions, and catalog stock health.
type StoreMetrics struct {
	meter  metric.Meter
	logger *zap.Logger

	// Counter metrics (monotonically increasing)
	orderCreatedTotal  *Counter
	orderAmountTotal   *Counter
	paymentReviewTotal *Counter
	couponAppliedTotal *Counter

	// Gauge metrics (point-in-time values)
	lowStockCount     *Gauge
	pendingProofCount *Gauge

	// Periodic collector
	stopChan    chan struct{}
	stopOnce    sync.Once
	collectOnce sync.Once

	provider StoreMetricsProvider
}

// StoreMetricsProvider supplies point-in-time gauge values for periodic
// collection. The telemetry layer queries store state through this interface
// instead of depending on the catalog and order domains directly.
type StoreMetricsProvider interface {
	// LowStockCount returns the number of displayable products at or below
	// the stock threshold.
	LowStockCount(ctx context.Context, threshold int) (int64, error)

	// PendingProofCount returns the number of orders waiting for a payment
	// proof decision.
	PendingProofCount(ctx context.Context) (int64, error)
}

// StoreMetricsConfig holds configuration for store metrics.
type StoreMetricsConfig struct {
	Meter             metric.Meter
	Logger            *zap.Logger
	CollectInterval   time.Duration // Default: 5 minutes
	LowStockThreshold int           // Default: 5
	Provider          StoreMetricsProvider
}

// NewStoreMetrics creates a new StoreMetrics instance.
func NewStoreMetrics(cfg StoreMetricsConfig) (*StoreMetrics, error) {
	if cfg.Meter == nil {
		return nil, ErrMeterNil
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	sm := &StoreMetrics{
		meter:    cfg.Meter,
		logger:   logger,
		stopChan: make(chan struct{}),
		provider: cfg.Provider,
	}

	var err error

	sm.orderCreatedTotal, err = NewCounter(
		cfg.Meter,
		"store_order_created_total",
		"Total number of orders placed at checkout",
		"{orders}",
	)
	if err != nil {
		return nil, err
	}

	sm.orderAmountTotal, err = NewCounter(
		cfg.Meter,
		"store_order_amount_total",
		"Total order amount in lisente (hundredths of LSL)",
		"{lisente}",
	)
	if err != nil {
		return nil, err
	}

	sm.paymentReviewTotal, err = NewCounter(
		cfg.Meter,
		"store_payment_review_total",
		"Total number of payment proof review decisions",
		"{reviews}",
	)
	if err != nil {
		return nil, err
	}

	sm.couponAppliedTotal, err = NewCounter(
		cfg.Meter,
		"store_coupon_applied_total",
		"Total number of coupons redeemed at checkout",
		"{coupons}",
	)
	if err != nil {
		return nil, err
	}

	sm.lowStockCount, err = NewGauge(
		cfg.Meter,
		"store_low_stock_count",
		"Number of displayable products at or below the stock threshold",
		"{products}",
	)
	if err != nil {
		return nil, err
	}

	sm.pendingProofCount, err = NewGauge(
		cfg.Meter,
		"store_pending_proof_count",
		"Number of orders awaiting a payment proof decision",
		"{orders}",
	)
	if err != nil {
		return nil, err
	}

	return sm, nil
}

// PaymentOutcome labels a payment proof review decision.
type PaymentOutcome string

const (
	PaymentOutcomeApproved PaymentOutcome = "approved"
	PaymentOutcomeRejected PaymentOutcome = "rejected"
)

// RecordOrderCreated records a completed checkout with its payable total.
func (sm *StoreMetrics) RecordOrderCreated(ctx context.Context, total decimal.Decimal) {
	sm.orderCreatedTotal.Inc(ctx)

	lisente := total.Mul(decimal.NewFromInt(100)).IntPart()
	sm.orderAmountTotal.Add(ctx, lisente)
}

// RecordPaymentReview records an admin decision on a payment proof.
func (sm *StoreMetrics) RecordPaymentReview(ctx context.Context, outcome PaymentOutcome) {
	sm.paymentReviewTotal.Inc(ctx, AttrPaymentOutcome.String(string(outcome)))
}

// RecordCouponApplied records a coupon redeemed at checkout.
func (sm *StoreMetrics) RecordCouponApplied(ctx context.Context, code string) {
	sm.couponAppliedTotal.Inc(ctx, AttrCouponCode.String(code))
}

// StartPeriodicCollection starts periodic collection of gauge metrics.
// Non-blocking; use Stop() to stop collection.
func (sm *StoreMetrics) StartPeriodicCollection(ctx context.Context, interval time.Duration, lowStockThreshold int) {
	sm.collectOnce.Do(func() {
		if interval <= 0 {
			interval = 5 * time.Minute
		}
		if lowStockThreshold <= 0 {
			lowStockThreshold = 5
		}

		go sm.runPeriodicCollection(ctx, interval, lowStockThreshold)
	})
}

func (sm *StoreMetrics) runPeriodicCollection(ctx context.Context, interval time.Duration, threshold int) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	// Collect immediately on start
	sm.collectGauges(ctx, threshold)

	for {
		select {
		case <-sm.stopChan:
			sm.logger.Info("Stopping periodic store metrics collection")
			return
		case <-ctx.Done():
			sm.logger.Info("Context cancelled, stopping periodic store metrics collection")
			return
		case <-ticker.C:
			sm.collectGauges(ctx, threshold)
		}
	}
}

func (sm *StoreMetrics) collectGauges(ctx context.Context, threshold int) {
	if sm.provider == nil {
		sm.logger.Debug("No store metrics provider configured, skipping gauge collection")
		return
	}

	lowStock, err := sm.provider.LowStockCount(ctx, threshold)
	if err != nil {
		sm.logger.Warn("Failed to collect low stock count", zap.Error(err))
	} else {
		sm.lowStockCount.Record(ctx, lowStock)
	}

	pending, err := sm.provider.PendingProofCount(ctx)
	if err != nil {
		sm.logger.Warn("Failed to collect pending proof count", zap.Error(err))
	} else {
		sm.pendingProofCount.Record(ctx, pending)
	}
}

// Stop stops the periodic collection.
func (sm *StoreMetrics) Stop() {
	sm.stopOnce.Do(func() {
		close(sm.stopChan)
	})
}

// ErrMeterNil is returned when meter is nil.
var ErrMeterNil = &MetricsError{Op: "NewStoreMetrics", Err: "meter cannot be nil"}

// MetricsError represents a metrics-related error.
type MetricsError struct {
	Op  string
	Err string
}

func (e *MetricsError) Error() string {
	return e.Op + ": " + e.Err
}
