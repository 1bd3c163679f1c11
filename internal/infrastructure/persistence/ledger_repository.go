package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/erp/ledgerreport/internal/domain/ledger"
	"github.com/erp/ledgerreport/internal/domain/shared"
	"github.com/erp/ledgerreport/internal/infrastructure/persistence/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormLedgerRepository implements ledger.LedgerRepository over gl_entries
type GormLedgerRepository struct {
	db         *gorm.DB
	dimensions ledger.DimensionRepository
	now        func() time.Time
}

var _ ledger.LedgerRepository = (*GormLedgerRepository)(nil)

// NewGormLedgerRepository creates a new GormLedgerRepository. dimensions
// expands cost center filters of balance lookups to their subtree.
func NewGormLedgerRepository(db *gorm.DB, dimensions ledger.DimensionRepository) *GormLedgerRepository {
	return &GormLedgerRepository{db: db, dimensions: dimensions, now: time.Now}
}

type amountSums struct {
	Debit  decimal.Decimal
	Credit decimal.Decimal
}

// BalanceOn returns debit minus credit in account currency up to and
// including q.AsOf. Profit and loss accounts only count the fiscal year
// containing q.AsOf, when one is defined, without its period closing
// vouchers.
func (r *GormLedgerRepository) BalanceOn(ctx context.Context, q ledger.BalanceQuery) (decimal.Decimal, error) {
	asOf := dateOnly(q.AsOf)
	if q.AsOf.IsZero() {
		asOf = dateOnly(r.now())
	}

	var account models.AccountModel
	err := r.db.WithContext(ctx).Select("name", "report_type").Where("name = ?", q.Account).Take(&account).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return decimal.Zero, shared.NewNotFoundError("Account", q.Account)
	}
	if err != nil {
		return decimal.Zero, fmt.Errorf("get account %s: %w", q.Account, err)
	}

	query := r.db.WithContext(ctx).Model(&models.GLEntryModel{}).
		Where("account = ? AND is_cancelled = ? AND posting_date <= ?", q.Account, false, asOf)
	if q.Company != "" {
		query = query.Where("company = ?", q.Company)
	}

	if ledger.ReportType(account.ReportType) == ledger.ReportTypeProfitLoss {
		var fy models.FiscalYearModel
		err := r.db.WithContext(ctx).
			Where("year_start_date <= ? AND year_end_date >= ?", asOf, asOf).
			Order("year_start_date DESC").
			Take(&fy).Error
		switch {
		case err == nil:
			query = query.Where("posting_date >= ? AND COALESCE(voucher_type, '') <> ?",
				fy.YearStartDate, ledger.VoucherTypePeriodClosing)
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return decimal.Zero, fmt.Errorf("get fiscal year of %s: %w", asOf.Format(time.DateOnly), err)
		}
	}

	if q.CostCenter != "" {
		costCenters, err := r.dimensions.CostCenterWithDescendants(ctx, []string{q.CostCenter})
		if err != nil {
			return decimal.Zero, err
		}
		query = query.Where("cost_center IN ?", costCenters)
	}

	var sums amountSums
	if err := query.Select(
		"COALESCE(SUM(debit_in_account_currency), 0) AS debit, " +
			"COALESCE(SUM(credit_in_account_currency), 0) AS credit",
	).Scan(&sums).Error; err != nil {
		return decimal.Zero, fmt.Errorf("sum balance of %s: %w", q.Account, err)
	}
	return ledger.NewAmounts(sums.Debit, sums.Credit).Net(), nil
}

type keyedSums struct {
	Project string
	Party   string
	Debit   decimal.Decimal
	Credit  decimal.Decimal
}

// SumByKey totals the window's postings per project, or per project and party
func (r *GormLedgerRepository) SumByKey(ctx context.Context, q ledger.EntryQuery, byParty bool) ([]ledger.KeyedAmounts, error) {
	debit, credit := amountColumns(q.BaseCurrency)

	keys := "COALESCE(project, '') AS project, '' AS party"
	group := "project"
	if byParty {
		keys = "COALESCE(project, '') AS project, COALESCE(party, '') AS party"
		group = "project, party"
	}

	query, err := r.entryScope(ctx, q)
	if err != nil {
		return nil, err
	}

	var rows []keyedSums
	if err := query.
		Select(fmt.Sprintf("%s, COALESCE(SUM(%s), 0) AS debit, COALESCE(SUM(%s), 0) AS credit", keys, debit, credit)).
		Group(group).
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("sum gl entries: %w", err)
	}

	out := make([]ledger.KeyedAmounts, len(rows))
	for i, row := range rows {
		out[i] = ledger.KeyedAmounts{
			Project: row.Project,
			Party:   row.Party,
			Amounts: ledger.NewAmounts(row.Debit, row.Credit),
		}
	}
	return out, nil
}

type postingRow struct {
	PostingDate time.Time
	Project     string
	PartyType   string
	Party       string
	VoucherType string
	VoucherNo   string
	Debit       decimal.Decimal
	Credit      decimal.Decimal
}

// ListEntries returns the window's postings ordered by posting date, then
// modification time
func (r *GormLedgerRepository) ListEntries(ctx context.Context, q ledger.EntryQuery) ([]ledger.Posting, error) {
	debit, credit := amountColumns(q.BaseCurrency)

	query, err := r.entryScope(ctx, q)
	if err != nil {
		return nil, err
	}

	var rows []postingRow
	if err := query.
		Select(fmt.Sprintf(
			"posting_date, COALESCE(project, '') AS project, COALESCE(party_type, '') AS party_type, "+
				"COALESCE(party, '') AS party, COALESCE(voucher_type, '') AS voucher_type, "+
				"COALESCE(voucher_no, '') AS voucher_no, %s AS debit, %s AS credit", debit, credit)).
		Order("posting_date, modified").
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("list gl entries: %w", err)
	}

	out := make([]ledger.Posting, len(rows))
	for i, row := range rows {
		out[i] = ledger.Posting{
			PostingDate: row.PostingDate,
			Project:     row.Project,
			PartyType:   ledger.PartyType(row.PartyType),
			Party:       row.Party,
			VoucherType: row.VoucherType,
			VoucherNo:   row.VoucherNo,
			Amounts:     ledger.NewAmounts(row.Debit, row.Credit),
		}
	}
	return out, nil
}

// entryScope builds the WHERE clause shared by SumByKey and ListEntries
func (r *GormLedgerRepository) entryScope(ctx context.Context, q ledger.EntryQuery) (*gorm.DB, error) {
	from, to := dateOnly(q.FromDate), dateOnly(q.ToDate)

	query := r.db.WithContext(ctx).Model(&models.GLEntryModel{}).
		Where("company = ? AND account = ? AND is_cancelled = ? AND posting_date <= ?", q.Company, q.Account, false, to)

	switch q.Window {
	case ledger.WindowOpening:
		query = query.Where("(posting_date < ? OR COALESCE(is_opening, ?) = ?)", from, models.OpeningNo, models.OpeningYes)
	case ledger.WindowPeriod:
		query = query.Where("posting_date >= ? AND COALESCE(is_opening, ?) = ?", from, models.OpeningNo, models.OpeningNo)
	default:
		return nil, fmt.Errorf("unknown entry window %d", q.Window)
	}

	if len(q.Projects) > 0 {
		query = query.Where("project IN ?", q.Projects)
	}
	if q.PartyType != "" {
		query = query.Where("party_type = ?", string(q.PartyType))
	}
	if len(q.Parties) > 0 {
		query = query.Where("party IN ?", q.Parties)
	}
	if len(q.CostCenters) > 0 {
		query = query.Where("cost_center IN ?", q.CostCenters)
	}
	return query, nil
}

func amountColumns(baseCurrency bool) (debit, credit string) {
	if baseCurrency {
		return "debit", "credit"
	}
	return "debit_in_account_currency", "credit_in_account_currency"
}

// dateOnly drops the clock so dates compare against DATE columns
func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
