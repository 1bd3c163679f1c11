package cache

import (
	"context"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/erp/ledgerreport/internal/domain/ledger"
	"go.uber.org/zap"
)

// CachedLookupRepository decorates a LookupRepository, reading currencies,
// party names and party naming settings through a ScalarCache. Fiscal years
// and schema detection always go to the wrapped repository.
//
// Cache failures are logged and fall through to the repository; only
// non-empty values are cached.
type CachedLookupRepository struct {
	next   ledger.LookupRepository
	cache  ScalarCache
	ttl    time.Duration
	logger *zap.Logger

	hits   int64
	misses int64
}

var _ ledger.LookupRepository = (*CachedLookupRepository)(nil)

// CachedLookupOption is a functional option for configuring the decorator
type CachedLookupOption func(*CachedLookupRepository)

// WithTTL sets how long lookups stay cached
func WithTTL(ttl time.Duration) CachedLookupOption {
	return func(r *CachedLookupRepository) {
		r.ttl = ttl
	}
}

// WithLookupLogger sets the logger used for cache failures
func WithLookupLogger(logger *zap.Logger) CachedLookupOption {
	return func(r *CachedLookupRepository) {
		r.logger = logger
	}
}

// NewCachedLookupRepository wraps next with cache
func NewCachedLookupRepository(next ledger.LookupRepository, cache ScalarCache, opts ...CachedLookupOption) *CachedLookupRepository {
	r := &CachedLookupRepository{
		next:   next,
		cache:  cache,
		ttl:    5 * time.Minute,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// CompanyCurrency returns the cached default currency of company
func (r *CachedLookupRepository) CompanyCurrency(ctx context.Context, company string) (string, error) {
	return r.cached(ctx, cacheKey("company_currency", company), func() (string, error) {
		return r.next.CompanyCurrency(ctx, company)
	})
}

// AccountCurrency returns the cached currency of account
func (r *CachedLookupRepository) AccountCurrency(ctx context.Context, account string) (string, error) {
	return r.cached(ctx, cacheKey("account_currency", account), func() (string, error) {
		return r.next.AccountCurrency(ctx, account)
	})
}

// PartyDisplayName returns the cached display name of party
func (r *CachedLookupRepository) PartyDisplayName(ctx context.Context, partyType ledger.PartyType, party string) (string, error) {
	return r.cached(ctx, cacheKey("party_name", string(partyType), party), func() (string, error) {
		return r.next.PartyDisplayName(ctx, partyType, party)
	})
}

// PartyNamingBySeries returns the cached naming setting of partyType
func (r *CachedLookupRepository) PartyNamingBySeries(ctx context.Context, partyType ledger.PartyType) (bool, error) {
	value, err := r.cached(ctx, cacheKey("party_naming_by_series", string(partyType)), func() (string, error) {
		bySeries, err := r.next.PartyNamingBySeries(ctx, partyType)
		if err != nil {
			return "", err
		}
		return strconv.FormatBool(bySeries), nil
	})
	if err != nil {
		return false, err
	}
	return value == "true", nil
}

// FiscalYear is not cached
func (r *CachedLookupRepository) FiscalYear(ctx context.Context, name string) (*ledger.FiscalYear, error) {
	return r.next.FiscalYear(ctx, name)
}

// HasProjectSubject is not cached
func (r *CachedLookupRepository) HasProjectSubject(ctx context.Context) (bool, error) {
	return r.next.HasProjectSubject(ctx)
}

// Stats returns the number of cache hits and misses so far
func (r *CachedLookupRepository) Stats() (hits, misses int64) {
	return atomic.LoadInt64(&r.hits), atomic.LoadInt64(&r.misses)
}

func (r *CachedLookupRepository) cached(ctx context.Context, key string, load func() (string, error)) (string, error) {
	if r.cache == nil {
		return load()
	}

	value, ok, err := r.cache.Get(ctx, key)
	if err != nil {
		r.logger.Warn("Lookup cache read failed", zap.String("key", key), zap.Error(err))
	}
	if ok {
		atomic.AddInt64(&r.hits, 1)
		return value, nil
	}
	atomic.AddInt64(&r.misses, 1)

	value, err = load()
	if err != nil {
		return "", err
	}
	if value != "" {
		if err := r.cache.Set(ctx, key, value, r.ttl); err != nil {
			r.logger.Warn("Lookup cache write failed", zap.String("key", key), zap.Error(err))
		}
	}
	return value, nil
}

func cacheKey(kind string, parts ...string) string {
	return kind + ":" + strings.Join(parts, ":")
}
