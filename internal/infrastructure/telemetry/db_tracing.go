package telemetry

import (
	"context"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DBTracingConfig holds database tracing configuration.
type DBTracingConfig struct {
	Enabled          bool
	LogFullSQL       bool          // include full SQL in spans, dev only
	SlowQueryThresh  time.Duration // default 200ms
	DBSystem         string        // default "postgresql"
	WithoutVariables bool          // strip bind variables from the statement
}

// DefaultDBTracingConfig returns the defaults. Full SQL stays off so bind
// values never leak into spans.
func DefaultDBTracingConfig() DBTracingConfig {
	return DBTracingConfig{
		Enabled:          false,
		LogFullSQL:       false,
		SlowQueryThresh:  200 * time.Millisecond,
		DBSystem:         "postgresql",
		WithoutVariables: true,
	}
}

// DBTracingPlugin registers otelgorm plus slow-query and error annotation
// callbacks on a gorm DB.
type DBTracingPlugin struct {
	config DBTracingConfig
	logger *zap.Logger
}

// NewDBTracingPlugin creates a plugin with the given configuration.
func NewDBTracingPlugin(cfg DBTracingConfig, logger *zap.Logger) *DBTracingPlugin {
	return &DBTracingPlugin{
		config: cfg,
		logger: logger,
	}
}

// RegisterOtelGorm installs the otelgorm plugin together with timing and
// slow-query callbacks. A no-op when tracing is disabled.
func (p *DBTracingPlugin) RegisterOtelGorm(db *gorm.DB) error {
	if !p.config.Enabled {
		p.logger.Debug("Database tracing disabled, skipping otelgorm registration")
		return nil
	}

	opts := []otelgorm.Option{
		otelgorm.WithDBName(p.config.DBSystem),
	}
	if !p.config.LogFullSQL {
		opts = append(opts, otelgorm.WithoutQueryVariables())
	}

	if err := db.Use(otelgorm.NewPlugin(opts...)); err != nil {
		return err
	}

	// before callbacks stamp the start time, after callbacks annotate the
	// otelgorm span
	if err := registerGormCallbacks(db, "otel_timing:before_", true, stampQueryStart); err != nil {
		return err
	}
	if err := registerGormCallbacks(db, "otel_slow_query:", false, p.annotateSpan); err != nil {
		return err
	}

	p.logger.Info("Database tracing enabled",
		zap.Bool("log_full_sql", p.config.LogFullSQL),
		zap.Duration("slow_query_threshold", p.config.SlowQueryThresh),
		zap.String("db_system", p.config.DBSystem),
	)

	return nil
}

func stampQueryStart(db *gorm.DB) {
	if db.Statement.Context != nil {
		db.Statement.Context = context.WithValue(db.Statement.Context, queryStartTimeKey, time.Now())
	}
}

func (p *DBTracingPlugin) annotateSpan(db *gorm.DB) {
	annotateQuerySpan(db, p.config.SlowQueryThresh)
}

// registerGormCallbacks registers fn on every operation type, before or
// after the builtin gorm callback.
func registerGormCallbacks(db *gorm.DB, namePrefix string, before bool, fn func(*gorm.DB)) error {
	register := func(op string, reg func(string, func(*gorm.DB)) error) error {
		return reg(namePrefix+op, fn)
	}

	var err error
	if before {
		err = firstErr(
			register("create", db.Callback().Create().Before("gorm:create").Register),
			register("query", db.Callback().Query().Before("gorm:query").Register),
			register("update", db.Callback().Update().Before("gorm:update").Register),
			register("delete", db.Callback().Delete().Before("gorm:delete").Register),
			register("row", db.Callback().Row().Before("gorm:row").Register),
			register("raw", db.Callback().Raw().Before("gorm:raw").Register),
		)
	} else {
		err = firstErr(
			register("create", db.Callback().Create().After("gorm:create").Register),
			register("query", db.Callback().Query().After("gorm:query").Register),
			register("update", db.Callback().Update().After("gorm:update").Register),
			register("delete", db.Callback().Delete().After("gorm:delete").Register),
			register("row", db.Callback().Row().After("gorm:row").Register),
			register("raw", db.Callback().Raw().After("gorm:raw").Register),
		)
	}
	return err
}

func firstErr(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

// annotateQuerySpan adds rows-affected, table and slow-query attributes to
// the active span and marks real errors (not-found is expected and skipped).
func annotateQuerySpan(db *gorm.DB, slowThresh time.Duration) {
	ctx := db.Statement.Context
	if ctx == nil {
		return
	}

	span := trace.SpanFromContext(ctx)
	if span == nil || !span.IsRecording() {
		return
	}

	if db.Statement.RowsAffected >= 0 {
		span.SetAttributes(attribute.Int64("db.rows_affected", db.Statement.RowsAffected))
	}
	if db.Statement.Table != "" {
		span.SetAttributes(attribute.String("db.sql.table", db.Statement.Table))
	}
	if db.Error != nil && db.Error != gorm.ErrRecordNotFound {
		span.SetStatus(codes.Error, db.Error.Error())
		span.RecordError(db.Error)
	}

	if startTime, ok := ctx.Value(queryStartTimeKey).(time.Time); ok {
		elapsed := time.Since(startTime)
		if elapsed > slowThresh {
			span.SetAttributes(
				attribute.Bool("db.slow_query", true),
				attribute.Int64("db.query_duration_ms", elapsed.Milliseconds()),
			)
			span.AddEvent("slow_query_warning", trace.WithAttributes(
				attribute.Int64("duration_ms", elapsed.Milliseconds()),
				attribute.Int64("threshold_ms", slowThresh.Milliseconds()),
			))
		}
	}
}

type contextKey string

const queryStartTimeKey contextKey = "otel_query_start_time"

// WithQueryStartTime stamps the query start time used by slow-query
// detection.
func WithQueryStartTime(ctx context.Context) context.Context {
	return context.WithValue(ctx, queryStartTimeKey, time.Now())
}

// DBTracingCallback is the standalone timing callback pair, usable without
// the otelgorm plugin.
type DBTracingCallback struct {
	slowQueryThresh time.Duration
}

// NewDBTracingCallback creates a timing callback with the given threshold.
func NewDBTracingCallback(slowQueryThresh time.Duration) *DBTracingCallback {
	return &DBTracingCallback{
		slowQueryThresh: slowQueryThresh,
	}
}

// BeforeCallback stamps the query start time.
func (c *DBTracingCallback) BeforeCallback(db *gorm.DB) {
	stampQueryStart(db)
}

// AfterCallback annotates the active span with the query outcome.
func (c *DBTracingCallback) AfterCallback(db *gorm.DB) {
	annotateQuerySpan(db, c.slowQueryThresh)
}

// RegisterCallbacks installs both callbacks on every operation type.
func (c *DBTracingCallback) RegisterCallbacks(db *gorm.DB) error {
	if err := registerGormCallbacks(db, "otel_timing:before_", true, c.BeforeCallback); err != nil {
		return err
	}
	return registerGormCallbacks(db, "otel_timing:after_", false, c.AfterCallback)
}
