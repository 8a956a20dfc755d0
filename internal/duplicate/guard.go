package duplicate

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"github.com/evermarks/evermark-minter/internal/domain"
	"github.com/evermarks/evermark-minter/internal/logger"
	"github.com/evermarks/evermark-minter/internal/store"
	"github.com/evermarks/evermark-minter/internal/store/schema"
	"github.com/evermarks/evermark-minter/internal/types"
)

const candidateLimit = 20

// Config holds the duplicate guard settings
type Config struct {
	// LookupTimeout bounds a single index store read
	LookupTimeout time.Duration
	// MaxRetries is the number of retries before the guard degrades to "allow"
	MaxRetries uint64
	// InitialInterval is the first retry delay
	InitialInterval time.Duration
}

// Guard grades how likely a content reference is already preserved.
// It is advisory: the index store enforces no uniqueness on content.
//
//go:generate mockgen -source=guard.go -destination=../mocks/duplicate_guard.go -package=mocks -mock_names=Guard=MockDuplicateGuard
type Guard interface {
	// Check never fails; an unreachable index store yields a degraded {false, low} verdict
	Check(ctx context.Context, ref domain.ContentReference, title string) domain.DuplicateVerdict
}

type guard struct {
	store store.Store
	cfg   Config
}

// NewGuard creates a duplicate guard backed by the index store
func NewGuard(s store.Store, cfg Config) Guard {
	if cfg.LookupTimeout <= 0 {
		cfg.LookupTimeout = 5 * time.Second
	}
	if cfg.InitialInterval <= 0 {
		cfg.InitialInterval = 200 * time.Millisecond
	}
	return &guard{store: s, cfg: cfg}
}

func (g *guard) Check(ctx context.Context, ref domain.ContentReference, title string) domain.DuplicateVerdict {
	key := ref.Normalize()
	if key == "" {
		return domain.DuplicateVerdict{Exists: false, Confidence: domain.DuplicateConfidenceLow}
	}

	byKey, err := g.lookup(ctx, func(ctx context.Context) ([]schema.Evermark, error) {
		return g.store.FindEvermarksByNormalizedKey(ctx, key, candidateLimit)
	})
	if err != nil {
		return g.degraded(ctx, key, err)
	}

	if match := exactMatch(ref, key, byKey); match != nil {
		return verdict(domain.DuplicateConfidenceExact, match)
	}
	if len(byKey) > 0 {
		return verdict(domain.DuplicateConfidenceHigh, &byKey[0])
	}

	title = strings.TrimSpace(title)
	host := ref.Host()
	if title == "" || host == "" {
		return domain.DuplicateVerdict{Exists: false, Confidence: domain.DuplicateConfidenceLow}
	}

	byTitle, err := g.lookup(ctx, func(ctx context.Context) ([]schema.Evermark, error) {
		return g.store.FindEvermarksByHostAndTitle(ctx, host, title, candidateLimit)
	})
	if err != nil {
		return g.degraded(ctx, key, err)
	}
	if len(byTitle) > 0 {
		v := verdict(domain.DuplicateConfidenceMedium, &byTitle[0])
		logger.InfoCtx(ctx, "Possible duplicate evermark",
			zap.String("normalized_key", key),
			zap.String("matched_record_id", types.SafeString(v.MatchedRecordID)))
		return v
	}

	return domain.DuplicateVerdict{Exists: false, Confidence: domain.DuplicateConfidenceLow}
}

// exactMatch returns the candidate that is the same submission. Identifier
// keys (DOI, ISBN) are canonical so any match is exact; URL keys also need
// the same raw query.
func exactMatch(ref domain.ContentReference, key string, candidates []schema.Evermark) *schema.Evermark {
	identifierKey := strings.HasPrefix(key, "doi:") || strings.HasPrefix(key, "isbn:")
	query := ref.RawQuery()
	for i := range candidates {
		if identifierKey || candidates[i].SourceQuery == query {
			return &candidates[i]
		}
	}
	return nil
}

func verdict(confidence domain.DuplicateConfidence, match *schema.Evermark) domain.DuplicateVerdict {
	v := domain.DuplicateVerdict{Exists: true, Confidence: confidence}
	if match != nil {
		id := types.SafeString(match.TokenID)
		if id == "" {
			id = match.TxHash
		}
		v.MatchedRecordID = &id
	}
	return v
}

func (g *guard) lookup(ctx context.Context, read func(ctx context.Context) ([]schema.Evermark, error)) ([]schema.Evermark, error) {
	var result []schema.Evermark

	operation := func() error {
		readCtx, cancel := context.WithTimeout(ctx, g.cfg.LookupTimeout)
		defer cancel()

		rows, err := read(readCtx)
		if err != nil {
			if errors.Is(err, context.Canceled) && ctx.Err() != nil {
				return backoff.Permanent(err)
			}
			return err
		}
		result = rows
		return nil
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = g.cfg.InitialInterval
	policy := backoff.WithContext(backoff.WithMaxRetries(b, g.cfg.MaxRetries), ctx)

	if err := backoff.Retry(operation, policy); err != nil {
		return nil, fmt.Errorf("duplicate lookup failed: %w", err)
	}
	return result, nil
}

func (g *guard) degraded(ctx context.Context, key string, err error) domain.DuplicateVerdict {
	logger.WarnCtx(ctx, "Index store unavailable, duplicate check degraded to allow",
		zap.String("normalized_key", key),
		zap.Error(err))
	return domain.DuplicateVerdict{Exists: false, Confidence: domain.DuplicateConfidenceLow, Degraded: true}
}
