package season

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"github.com/evermarks/evermark-minter/internal/adapter"
	"github.com/evermarks/evermark-minter/internal/domain"
	"github.com/evermarks/evermark-minter/internal/logger"
	"github.com/evermarks/evermark-minter/internal/store"
)

// ErrSeasonUnknown is returned when neither the store nor the calendar can place a time
var ErrSeasonUnknown = errors.New("season unknown")

// Config holds the fallback calendar
type Config struct {
	// Genesis is the start of season 1; zero disables the calendar
	Genesis  time.Time
	Length   time.Duration
	CacheTTL time.Duration
}

// Oracle resolves the season a point in time belongs to
//
//go:generate mockgen -source=oracle.go -destination=../mocks/season_oracle.go -package=mocks -mock_names=Oracle=MockSeasonOracle
type Oracle interface {
	// CurrentSeason returns the season containing now
	CurrentSeason(ctx context.Context) (domain.Season, error)

	// SeasonAt returns the season containing t
	SeasonAt(ctx context.Context, t time.Time) (domain.Season, error)
}

type oracle struct {
	cfg   Config
	store store.Store
	clock adapter.Clock
	cache *cache.Cache
}

// NewOracle creates a season oracle backed by the seasons table
func NewOracle(cfg Config, st store.Store, clock adapter.Clock) Oracle {
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 5 * time.Minute
	}
	return &oracle{
		cfg:   cfg,
		store: st,
		clock: clock,
		cache: cache.New(cfg.CacheTTL, 2*cfg.CacheTTL),
	}
}

func (o *oracle) CurrentSeason(ctx context.Context) (domain.Season, error) {
	return o.SeasonAt(ctx, o.clock.Now())
}

func (o *oracle) SeasonAt(ctx context.Context, t time.Time) (domain.Season, error) {
	t = t.UTC()

	// Seasons are long-lived, so the cached window usually contains t
	if x, found := o.cache.Get(cacheKey(t, o.cfg.CacheTTL)); found {
		if s, ok := x.(domain.Season); ok && s.Contains(t) {
			return s, nil
		}
	}

	s, err := o.lookup(ctx, t)
	if err != nil {
		return domain.Season{}, err
	}

	o.cache.Set(cacheKey(t, o.cfg.CacheTTL), s, cache.DefaultExpiration)
	return s, nil
}

func (o *oracle) lookup(ctx context.Context, t time.Time) (domain.Season, error) {
	row, storeErr := o.store.GetSeasonAt(ctx, t)
	if storeErr != nil {
		logger.WarnCtx(ctx, "Season lookup failed, using calendar", zap.Error(storeErr))
	} else if row != nil {
		return store.ToDomainSeason(row), nil
	}

	s, err := o.calendar(t)
	if err != nil {
		return domain.Season{}, err
	}

	// Persist the computed window so the store becomes the source of truth
	if storeErr == nil {
		if upsertErr := o.store.UpsertSeason(ctx, s); upsertErr != nil {
			logger.WarnCtx(ctx, "Failed to record calendar season", zap.Int("season", s.Number), zap.Error(upsertErr))
		}
	}
	return s, nil
}

// calendar places t on the fixed-length calendar starting at Genesis
func (o *oracle) calendar(t time.Time) (domain.Season, error) {
	if o.cfg.Genesis.IsZero() || o.cfg.Length <= 0 {
		return domain.Season{}, fmt.Errorf("%w: no calendar configured", ErrSeasonUnknown)
	}
	if t.Before(o.cfg.Genesis) {
		return domain.Season{}, fmt.Errorf("%w: %s is before genesis", ErrSeasonUnknown, t.Format(time.RFC3339))
	}

	index := int(t.Sub(o.cfg.Genesis) / o.cfg.Length)
	start := o.cfg.Genesis.Add(time.Duration(index) * o.cfg.Length).UTC()
	return domain.Season{
		Number:    index + 1,
		StartTime: start,
		EndTime:   start.Add(o.cfg.Length),
	}, nil
}

// cacheKey buckets lookups by TTL so one entry serves a whole window
func cacheKey(t time.Time, ttl time.Duration) string {
	return fmt.Sprintf("season:%d", t.Truncate(ttl).Unix())
}
