// Package bootstrap assembles the report services from configuration. It is
// shared by the HTTP server and the command line client.
package bootstrap

import (
	"errors"
	"fmt"

	reportapp "github.com/erp/ledgerreport/internal/application/report"
	"github.com/erp/ledgerreport/internal/domain/ledger"
	"github.com/erp/ledgerreport/internal/infrastructure/cache"
	"github.com/erp/ledgerreport/internal/infrastructure/config"
	"github.com/erp/ledgerreport/internal/infrastructure/i18n"
	"github.com/erp/ledgerreport/internal/infrastructure/logger"
	"github.com/erp/ledgerreport/internal/infrastructure/persistence"
	"github.com/erp/ledgerreport/internal/infrastructure/telemetry"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Services holds the wired report services
type Services struct {
	Matrix         *reportapp.MatrixService
	ProjectBalance *reportapp.ProjectBalanceService
	Translator     *i18n.Translator

	lookupCache  cache.ScalarCache
	cachedLookup *cache.CachedLookupRepository
	logger       *zap.Logger
}

// NewServices builds repositories, the lookup cache, the label translator and
// the report services over db. meter may be nil to skip report metrics.
func NewServices(db *gorm.DB, cfg *config.Config, log *zap.Logger, meter metric.Meter) (*Services, error) {
	if log == nil {
		log = zap.NewNop()
	}

	parties := ledger.NewPartyTypeRegistry()
	if err := parties.RegisterSpecs(cfg.Report.ExtraPartyTypes); err != nil {
		return nil, fmt.Errorf("failed to register party types: %w", err)
	}
	log.Debug("Party types registered", zap.Stringers("party_types", parties.Types()))

	dimensions := persistence.NewGormDimensionRepository(db, parties)
	gl := persistence.NewGormLedgerRepository(db, dimensions)

	var lookup ledger.LookupRepository = persistence.NewGormLookupRepository(db, parties)
	var cachedLookup *cache.CachedLookupRepository
	lookupCache, err := cache.NewScalarCacheFactory(cfg.Redis, cfg.Cache, cache.WithLogger(log)).CreateCache()
	if err != nil {
		return nil, err
	}
	if lookupCache != nil {
		cachedLookup = cache.NewCachedLookupRepository(lookup, lookupCache,
			cache.WithTTL(cfg.Cache.TTL),
			cache.WithLookupLogger(log),
		)
		lookup = cachedLookup
	}

	translator := i18n.New(cfg.Report.DefaultLanguage, reportapp.LanguageFromContext)

	var metrics reportapp.Metrics
	if meter != nil {
		rm, err := telemetry.NewReportMetrics(meter)
		if err != nil {
			if lookupCache != nil {
				_ = lookupCache.Close()
			}
			return nil, fmt.Errorf("failed to create report metrics: %w", err)
		}
		metrics = rm
	}

	return &Services{
		Matrix:         reportapp.NewMatrixService(dimensions, gl, translator, metrics, log),
		ProjectBalance: reportapp.NewProjectBalanceService(dimensions, gl, lookup, translator, metrics, log),
		Translator:     translator,
		lookupCache:    lookupCache,
		cachedLookup:   cachedLookup,
		logger:         log,
	}, nil
}

// Close reports lookup cache effectiveness and releases the cache
func (s *Services) Close() error {
	if s.lookupCache == nil {
		return nil
	}
	if s.cachedLookup != nil {
		hits, misses := s.cachedLookup.Stats()
		s.logger.Info("Lookup cache closed", zap.Int64("hits", hits), zap.Int64("misses", misses))
	}
	return s.lookupCache.Close()
}

// OpenDatabase connects to the configured database with SQL logging at the
// configured level and registers query tracing when enabled.
func OpenDatabase(cfg *config.Config, log *zap.Logger) (*persistence.Database, error) {
	db, err := persistence.NewDatabase(&cfg.Database, log, logger.GormLevel(cfg.Log.Level))
	if err != nil {
		return nil, err
	}

	tracing := telemetry.DefaultDBTracingConfig()
	tracing.Enabled = cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled
	tracing.LogFullSQL = cfg.Telemetry.DBLogFullSQL
	if cfg.Database.SlowThreshold > 0 {
		tracing.SlowQueryThresh = cfg.Database.SlowThreshold
	}
	if err := telemetry.NewDBTracingPlugin(tracing, log).RegisterOtelGorm(db.DB); err != nil {
		return nil, errors.Join(fmt.Errorf("failed to register database tracing: %w", err), db.Close())
	}
	return db, nil
}
