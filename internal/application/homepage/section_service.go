package homepage

import (
	"context"
	"sort"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/boutique/backend/internal/domain/catalog"
	"github.com/boutique/backend/internal/domain/homepage"
	"github.com/boutique/backend/internal/infrastructure/telemetry"
)

// Config tunes the homepage section builder
type Config struct {
	SectionLimit       int
	MinSectionSize     int
	MaxDynamicSections int
	SampleSize         int
	TopRatedMinRating  float64
	TopRatedMinCount   int
	CacheTTL           time.Duration
}

// DefaultConfig returns the builder defaults
func DefaultConfig() Config {
	return Config{
		SectionLimit:       12,
		MinSectionSize:     3,
		MaxDynamicSections: 12,
		SampleSize:         500,
		TopRatedMinRating:  4.0,
		TopRatedMinCount:   3,
		CacheTTL:           10 * time.Minute,
	}
}

// Response is the homepage sections payload
type Response struct {
	Sections      []homepage.Section `json:"sections"`
	TotalSections int                `json:"total_sections"`
}

type snapshot struct {
	sections []homepage.Section
	builtAt  time.Time
}

// SectionService assembles the homepage sections and caches the result.
// The cached snapshot is swapped atomically; when concurrent requests race
// past an expired snapshot each rebuilds and the last write wins.
type SectionService struct {
	products   catalog.ProductRepository
	classifier *homepage.Classifier
	cfg        Config
	logger     *zap.Logger

	now  func() time.Time
	snap atomic.Pointer[snapshot]
}

// NewSectionService creates a section service. Zero-valued config fields
// fall back to the defaults.
func NewSectionService(
	products catalog.ProductRepository,
	classifier *homepage.Classifier,
	cfg Config,
	logger *zap.Logger,
) *SectionService {
	def := DefaultConfig()
	if cfg.SectionLimit <= 0 {
		cfg.SectionLimit = def.SectionLimit
	}
	if cfg.MinSectionSize <= 0 {
		cfg.MinSectionSize = def.MinSectionSize
	}
	if cfg.MaxDynamicSections <= 0 {
		cfg.MaxDynamicSections = def.MaxDynamicSections
	}
	if cfg.SampleSize <= 0 {
		cfg.SampleSize = def.SampleSize
	}
	if cfg.TopRatedMinRating <= 0 {
		cfg.TopRatedMinRating = def.TopRatedMinRating
	}
	if cfg.TopRatedMinCount <= 0 {
		cfg.TopRatedMinCount = def.TopRatedMinCount
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = def.CacheTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SectionService{
		products:   products,
		classifier: classifier,
		cfg:        cfg,
		logger:     logger,
		now:        time.Now,
	}
}

// GetSections returns the homepage sections, rebuilding when the cached
// snapshot is missing or older than the TTL. A failed rebuild never serves
// a partial result.
func (s *SectionService) GetSections(ctx context.Context) (*Response, error) {
	if snap := s.snap.Load(); snap != nil && s.now().Sub(snap.builtAt) < s.cfg.CacheTTL {
		return &Response{Sections: snap.sections, TotalSections: len(snap.sections)}, nil
	}

	ctx, span := telemetry.StartServiceSpan(ctx, "homepage", "build_sections")
	defer span.End()

	start := s.now()
	sections, err := s.build(ctx)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	telemetry.SetAttribute(span, telemetry.SpanAttrSectionCount, len(sections))
	s.snap.Store(&snapshot{sections: sections, builtAt: s.now()})
	s.logger.Info("homepage sections rebuilt",
		zap.Int("sections", len(sections)),
		zap.Duration("took", s.now().Sub(start)))

	return &Response{Sections: sections, TotalSections: len(sections)}, nil
}

// Invalidate drops the cached snapshot so the next request rebuilds
func (s *SectionService) Invalidate() {
	s.snap.Store(nil)
}

func (s *SectionService) build(ctx context.Context) ([]homepage.Section, error) {
	sections := make([]homepage.Section, 0, 4+s.cfg.MaxDynamicSections)

	curated := []struct {
		key, title, subtitle, theme, viewAll string
		badge                                *string
		fetch                                func(context.Context) ([]catalog.Product, error)
	}{
		{
			key: "flash_deals", title: "Flash Deals", subtitle: "Biggest discounts right now",
			theme: "red", viewAll: "/store?sort=discount", badge: badge("SALE"),
			fetch: func(ctx context.Context) ([]catalog.Product, error) {
				return s.products.FindDiscounted(ctx, s.cfg.SectionLimit)
			},
		},
		{
			key: "new_arrivals", title: "New Arrivals", subtitle: "Fresh styles just landed",
			theme: "green", viewAll: "/store?sort=newest", badge: badge("NEW"),
			fetch: func(ctx context.Context) ([]catalog.Product, error) {
				return s.products.FindNewest(ctx, s.cfg.SectionLimit)
			},
		},
		{
			key: "best_sellers", title: "Best Sellers", subtitle: "What everyone is buying",
			theme: "gold", viewAll: "/store?sort=popular",
			fetch: func(ctx context.Context) ([]catalog.Product, error) {
				return s.products.FindBestSellers(ctx, s.cfg.SectionLimit)
			},
		},
		{
			key: "top_rated", title: "Top Rated", subtitle: "Highest rated by customers",
			theme: "gold", viewAll: "/store?sort=rating",
			fetch: func(ctx context.Context) ([]catalog.Product, error) {
				return s.products.FindTopRated(ctx, s.cfg.TopRatedMinRating, s.cfg.TopRatedMinCount, s.cfg.SectionLimit)
			},
		},
	}

	for _, c := range curated {
		products, err := c.fetch(ctx)
		if err != nil {
			return nil, err
		}
		if len(products) == 0 {
			continue
		}
		sections = append(sections, homepage.Section{
			Key:      c.key,
			Title:    c.title,
			Subtitle: c.subtitle,
			Badge:    c.badge,
			Theme:    c.theme,
			ViewAll:  c.viewAll,
			Products: cards(products),
		})
	}

	dynamic, err := s.buildDynamic(ctx)
	if err != nil {
		return nil, err
	}
	return append(sections, dynamic...), nil
}

type bucket struct {
	name  string
	cards []homepage.Card
}

func (s *SectionService) buildDynamic(ctx context.Context) ([]homepage.Section, error) {
	sample, err := s.products.SampleDisplayable(ctx, s.cfg.SampleSize)
	if err != nil {
		return nil, err
	}

	var buckets []*bucket
	index := make(map[string]*bucket)
	for i := range sample {
		p := &sample[i]
		name := s.classifier.Classify(homepage.ProductText{
			Category:         p.Category,
			MainCategory:     p.MainCategory,
			Title:            p.Title,
			Brand:            p.Brand,
			ShortDescription: p.ShortDescription,
		})
		b, ok := index[name]
		if !ok {
			b = &bucket{name: name}
			index[name] = b
			buckets = append(buckets, b)
		}
		// first-come wins once the bucket is full
		if len(b.cards) < s.cfg.SectionLimit {
			b.cards = append(b.cards, homepage.NewCard(p))
		}
	}

	kept := buckets[:0]
	for _, b := range buckets {
		if len(b.cards) >= s.cfg.MinSectionSize {
			kept = append(kept, b)
		}
	}
	// size descending; first-seen order breaks ties
	sort.SliceStable(kept, func(i, j int) bool {
		return len(kept[i].cards) > len(kept[j].cards)
	})
	if len(kept) > s.cfg.MaxDynamicSections {
		kept = kept[:s.cfg.MaxDynamicSections]
	}

	sections := make([]homepage.Section, 0, len(kept))
	for i, b := range kept {
		sections = append(sections, homepage.NewDynamicSection(b.name, i, b.cards))
	}
	return sections, nil
}

func cards(products []catalog.Product) []homepage.Card {
	out := make([]homepage.Card, 0, len(products))
	for i := range products {
		out = append(out, homepage.NewCard(&products[i]))
	}
	return out
}

func badge(s string) *string {
	return &s
}
