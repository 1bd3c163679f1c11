//go:build integration

package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/erp/ledgerreport/internal/domain/ledger"
	"github.com/erp/ledgerreport/internal/infrastructure/config"
	"github.com/erp/ledgerreport/internal/infrastructure/migration"
	"github.com/erp/ledgerreport/migrations"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap/zaptest"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newPostgresLedgerDB starts PostgreSQL, applies the embedded migrations and
// seeds the same fixture as newLedgerDB.
func newPostgresLedgerDB(t *testing.T) *gorm.DB {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("ledger_test"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err, "Failed to start PostgreSQL container")
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := Open(postgres.Open(dsn), &config.DatabaseConfig{MaxOpenConns: 4, MaxIdleConns: 2}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	sqlDB, err := db.DB.DB()
	require.NoError(t, err)
	migrator, err := migration.New(sqlDB, migrations.FS, "", zaptest.NewLogger(t))
	require.NoError(t, err)
	require.NoError(t, migrator.Up())

	version, dirty, err := migrator.Version()
	require.NoError(t, err)
	assert.Equal(t, uint(3), version)
	assert.False(t, dirty)

	seedLedger(t, db.DB)
	return db.DB
}

func TestPostgres_LedgerRepository(t *testing.T) {
	db := newPostgresLedgerDB(t)
	dimensions := NewGormDimensionRepository(db, nil)
	repo := NewGormLedgerRepository(db, dimensions)
	ctx := context.Background()

	rows, err := repo.SumByKey(ctx, januaryQuery(ledger.WindowPeriod), false)
	require.NoError(t, err)
	got := byKey(t, rows)
	assertAmounts(t, "50", "10", got["PRJ-1/"])
	assertAmounts(t, "0", "20", got["PRJ-2/"])

	entries, err := repo.ListEntries(ctx, januaryQuery(ledger.WindowPeriod))
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "JV-GL-5", entries[0].VoucherNo)

	balance, err := repo.BalanceOn(ctx, ledger.BalanceQuery{Account: receivables, CostCenter: "Main - ACME", AsOf: day(2024, 1, 31)})
	require.NoError(t, err)
	assertDecimal(t, "20", balance)

	expanded, err := dimensions.CostCenterWithDescendants(ctx, []string{"Ops - ACME"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Field - ACME", "Ops - ACME"}, expanded)
}

func TestPostgres_LookupRepository(t *testing.T) {
	db := newPostgresLedgerDB(t)
	repo := NewGormLookupRepository(db, nil)
	ctx := context.Background()

	has, err := repo.HasProjectSubject(ctx)
	require.NoError(t, err)
	assert.True(t, has)

	name, err := repo.PartyDisplayName(ctx, ledger.PartyTypeCustomer, "CUST-1")
	require.NoError(t, err)
	assert.Equal(t, "Globex", name)

	bySeries, err := repo.PartyNamingBySeries(ctx, ledger.PartyTypeCustomer)
	require.NoError(t, err)
	assert.True(t, bySeries)
}

func TestPostgres_BuiltInPartyTypes(t *testing.T) {
	assertBuiltInPartyTypes(t, newPostgresLedgerDB(t))
}
