package scheduler

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	homepageapp "github.com/boutique/backend/internal/application/homepage"
)

// SectionSource rebuilds homepage sections on demand
type SectionSource interface {
	GetSections(ctx context.Context) (*homepageapp.Response, error)
}

// WarmerConfig holds configuration for the section warmer
type WarmerConfig struct {
	// Interval is how often the warmer checks the section cache.
	// Keep it well below the cache TTL so expiry happens between
	// storefront requests instead of on one.
	Interval time.Duration

	// BuildTimeout bounds a single rebuild
	BuildTimeout time.Duration
}

// DefaultWarmerConfig returns default warmer configuration
func DefaultWarmerConfig() WarmerConfig {
	return WarmerConfig{
		Interval:     2 * time.Minute,
		BuildTimeout: 30 * time.Second,
	}
}

// SectionWarmer periodically touches the homepage section cache so an
// expired snapshot is rebuilt in the background rather than on the first
// storefront request that hits it.
type SectionWarmer struct {
	config WarmerConfig
	source SectionSource
	logger *zap.Logger

	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool
}

// NewSectionWarmer creates a new section warmer
func NewSectionWarmer(config WarmerConfig, source SectionSource, logger *zap.Logger) *SectionWarmer {
	if config.Interval <= 0 {
		config.Interval = DefaultWarmerConfig().Interval
	}
	if config.BuildTimeout <= 0 {
		config.BuildTimeout = DefaultWarmerConfig().BuildTimeout
	}
	return &SectionWarmer{
		config: config,
		source: source,
		logger: logger,
	}
}

// Start starts the warmer and performs an initial warm-up
func (w *SectionWarmer) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.isRunning {
		w.mu.Unlock()
		return nil
	}
	w.isRunning = true
	w.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	w.cancel = cancel

	w.wg.Add(1)
	go w.runLoop(ctx)

	w.logger.Info("Homepage section warmer started",
		zap.Duration("interval", w.config.Interval),
		zap.Duration("build_timeout", w.config.BuildTimeout),
	)

	return nil
}

// Stop stops the warmer and waits for an in-flight rebuild to finish
func (w *SectionWarmer) Stop(ctx context.Context) error {
	w.mu.Lock()
	if !w.isRunning {
		w.mu.Unlock()
		return nil
	}
	w.isRunning = false
	w.mu.Unlock()

	if w.cancel != nil {
		w.cancel()
	}

	done := make(chan struct{})
	go func() {
		w.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		w.logger.Info("Homepage section warmer stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (w *SectionWarmer) runLoop(ctx context.Context) {
	defer w.wg.Done()

	w.warm(ctx)

	ticker := time.NewTicker(w.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.warm(ctx)
		}
	}
}

func (w *SectionWarmer) warm(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, w.config.BuildTimeout)
	defer cancel()

	if _, err := w.source.GetSections(ctx); err != nil {
		w.logger.Warn("Homepage cache warm-up failed", zap.Error(err))
	}
}
