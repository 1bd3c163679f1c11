package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/erp/ledgerreport/internal/domain/ledger"
	"github.com/erp/ledgerreport/internal/domain/shared"
	"github.com/erp/ledgerreport/internal/infrastructure/persistence/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLedgerRepository(t *testing.T) *GormLedgerRepository {
	t.Helper()
	db := newLedgerDB(t)
	return NewGormLedgerRepository(db, NewGormDimensionRepository(db, nil))
}

func januaryQuery(window ledger.EntryWindow) ledger.EntryQuery {
	return ledger.EntryQuery{
		Company:  acme,
		Account:  receivables,
		FromDate: day(2024, 1, 1),
		ToDate:   day(2024, 1, 31),
		Window:   window,
	}
}

// byKey indexes SumByKey results as "project/party"
func byKey(t *testing.T, rows []ledger.KeyedAmounts) map[string]ledger.Amounts {
	t.Helper()
	out := make(map[string]ledger.Amounts, len(rows))
	for _, row := range rows {
		key := row.Project + "/" + row.Party
		require.NotContains(t, out, key)
		out[key] = row.Amounts
	}
	return out
}

func assertAmounts(t *testing.T, debit, credit string, got ledger.Amounts) {
	t.Helper()
	assertDecimal(t, debit, got.Debit)
	assertDecimal(t, credit, got.Credit)
}

func TestGormLedgerRepository_SumByKey(t *testing.T) {
	repo := newLedgerRepository(t)
	ctx := context.Background()

	t.Run("opening by project", func(t *testing.T) {
		rows, err := repo.SumByKey(ctx, januaryQuery(ledger.WindowOpening), false)
		require.NoError(t, err)
		got := byKey(t, rows)
		require.Len(t, got, 1)
		assertAmounts(t, "100", "30", got["PRJ-1/"])
	})

	t.Run("opening by project and party", func(t *testing.T) {
		q := januaryQuery(ledger.WindowOpening)
		q.PartyType = ledger.PartyTypeCustomer
		rows, err := repo.SumByKey(ctx, q, true)
		require.NoError(t, err)
		got := byKey(t, rows)
		require.Len(t, got, 2)
		assertAmounts(t, "100", "0", got["PRJ-1/CUST-1"])
		assertAmounts(t, "0", "30", got["PRJ-1/CUST-2"])
	})

	t.Run("period excludes opening and cancelled entries", func(t *testing.T) {
		rows, err := repo.SumByKey(ctx, januaryQuery(ledger.WindowPeriod), false)
		require.NoError(t, err)
		got := byKey(t, rows)
		require.Len(t, got, 2)
		assertAmounts(t, "50", "10", got["PRJ-1/"])
		assertAmounts(t, "0", "20", got["PRJ-2/"])
	})

	t.Run("base currency amounts", func(t *testing.T) {
		q := januaryQuery(ledger.WindowPeriod)
		q.BaseCurrency = true
		rows, err := repo.SumByKey(ctx, q, false)
		require.NoError(t, err)
		assertAmounts(t, "100", "10", byKey(t, rows)["PRJ-1/"])
	})

	t.Run("cost center filter", func(t *testing.T) {
		q := januaryQuery(ledger.WindowPeriod)
		q.CostCenters = []string{"Field - ACME"}
		rows, err := repo.SumByKey(ctx, q, false)
		require.NoError(t, err)
		got := byKey(t, rows)
		require.Len(t, got, 1)
		assertAmounts(t, "50", "0", got["PRJ-1/"])
	})

	t.Run("project and party filters", func(t *testing.T) {
		q := januaryQuery(ledger.WindowPeriod)
		q.Projects = []string{"PRJ-1"}
		q.PartyType = ledger.PartyTypeCustomer
		q.Parties = []string{"CUST-2"}
		rows, err := repo.SumByKey(ctx, q, true)
		require.NoError(t, err)
		got := byKey(t, rows)
		require.Len(t, got, 1)
		assertAmounts(t, "0", "10", got["PRJ-1/CUST-2"])
	})

	t.Run("other company sees nothing", func(t *testing.T) {
		q := januaryQuery(ledger.WindowPeriod)
		q.Company = "BETA"
		rows, err := repo.SumByKey(ctx, q, false)
		require.NoError(t, err)
		assert.Empty(t, rows)
	})

	t.Run("unknown window", func(t *testing.T) {
		_, err := repo.SumByKey(ctx, januaryQuery(0), false)
		assert.Error(t, err)
	})
}

func TestGormLedgerRepository_ListEntries(t *testing.T) {
	repo := newLedgerRepository(t)

	entries, err := repo.ListEntries(context.Background(), januaryQuery(ledger.WindowPeriod))
	require.NoError(t, err)
	require.Len(t, entries, 3)

	vouchers := make([]string, len(entries))
	for i, e := range entries {
		vouchers[i] = e.VoucherNo
	}
	assert.Equal(t, []string{"JV-GL-5", "JV-GL-3", "JV-GL-4"}, vouchers)

	first := entries[0]
	assert.True(t, first.PostingDate.Equal(day(2024, 1, 10)))
	assert.Equal(t, "PRJ-1", first.Project)
	assert.Equal(t, ledger.PartyTypeCustomer, first.PartyType)
	assert.Equal(t, "CUST-2", first.Party)
	assert.Equal(t, "Journal Entry", first.VoucherType)
	assertAmounts(t, "0", "10", first.Amounts)

	opening, err := repo.ListEntries(context.Background(), januaryQuery(ledger.WindowOpening))
	require.NoError(t, err)
	require.Len(t, opening, 2)
	assert.Equal(t, "JV-GL-1", opening[0].VoucherNo)
	assert.Equal(t, "JV-GL-2", opening[1].VoucherNo)
}

func TestGormLedgerRepository_BalanceOn(t *testing.T) {
	repo := newLedgerRepository(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		query ledger.BalanceQuery
		want  string
	}{
		{"balance sheet account", ledger.BalanceQuery{Account: receivables, AsOf: day(2024, 1, 31)}, "90"},
		{"later date includes later postings", ledger.BalanceQuery{Account: receivables, AsOf: day(2024, 2, 5)}, "97"},
		{"cost center subtree", ledger.BalanceQuery{Account: receivables, CostCenter: "Main - ACME", AsOf: day(2024, 1, 31)}, "20"},
		{"inner cost center", ledger.BalanceQuery{Account: receivables, CostCenter: "Ops - ACME", AsOf: day(2024, 1, 31)}, "50"},
		{"company filter", ledger.BalanceQuery{Account: receivables, Company: "BETA", AsOf: day(2024, 1, 31)}, "0"},
		{"profit and loss starts at the fiscal year", ledger.BalanceQuery{Account: fuel, AsOf: day(2024, 6, 30)}, "25"},
		{"profit and loss without a fiscal year", ledger.BalanceQuery{Account: fuel, AsOf: day(2023, 12, 31)}, "40"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.BalanceOn(ctx, tt.query)
			require.NoError(t, err)
			assertDecimal(t, tt.want, got)
		})
	}

	t.Run("defaults to today", func(t *testing.T) {
		repo.now = func() time.Time { return time.Date(2024, 1, 31, 18, 30, 0, 0, time.UTC) }
		got, err := repo.BalanceOn(ctx, ledger.BalanceQuery{Account: receivables})
		require.NoError(t, err)
		assertDecimal(t, "90", got)
	})

	t.Run("profit and loss ignores period closing vouchers", func(t *testing.T) {
		var closing models.GLEntryModel
		closing.FromDomain(ledger.GLEntry{
			Name:                    "GL-PCV",
			Company:                 acme,
			Account:                 fuel,
			CostCenter:              "Office - ACME",
			PostingDate:             day(2024, 12, 31),
			VoucherType:             ledger.VoucherTypePeriodClosing,
			VoucherNo:               "PCV-2024",
			Credit:                  dec("25"),
			CreditInAccountCurrency: dec("25"),
			Modified:                day(2024, 12, 31),
		})
		require.NoError(t, repo.db.Create(&closing).Error)

		got, err := repo.BalanceOn(ctx, ledger.BalanceQuery{Account: fuel, AsOf: day(2024, 12, 31)})
		require.NoError(t, err)
		assertDecimal(t, "25", got)
	})

	t.Run("missing account", func(t *testing.T) {
		_, err := repo.BalanceOn(ctx, ledger.BalanceQuery{Account: "Nope"})
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, shared.CodeNotFound, domainErr.Code)
	})
}

func TestGormLedgerRepository_QueryFailure(t *testing.T) {
	db, mock, mockDB := newMockDatabase(t)
	defer mockDB.Close()

	mock.ExpectPrepare(`SELECT .* FROM "gl_entries"`).WillReturnError(assert.AnError)

	repo := NewGormLedgerRepository(db.DB, NewGormDimensionRepository(db.DB, nil))
	_, err := repo.SumByKey(context.Background(), januaryQuery(ledger.WindowPeriod), false)
	assert.ErrorIs(t, err, assert.AnError)
	assert.ErrorContains(t, err, "sum gl entries")
}
