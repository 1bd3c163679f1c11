package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/erp/ledgerreport/internal/domain/ledger"
	"github.com/erp/ledgerreport/internal/infrastructure/config"
	"github.com/erp/ledgerreport/internal/infrastructure/persistence/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const (
	acme        = "ACME"
	receivables = "Receivables - ACME"
	fuel        = "Fuel - ACME"
)

// openSQLite opens a private in-memory database. A single connection keeps
// every query on the same database.
func openSQLite(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := Open(sqlite.Open(":memory:"), &config.DatabaseConfig{MaxOpenConns: 1, MaxIdleConns: 1}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db.DB
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.Truef(t, dec(want).Equal(got), "want %s, got %s", want, got)
}

type glSeed struct {
	name        string
	account     string
	costCenter  string
	project     string
	party       string
	date        time.Time
	debit       string
	credit      string
	baseDebit   string
	isOpening   bool
	isCancelled bool
	modified    time.Time
}

// newLedgerDB migrates the schema and seeds a small ledger:
//
//	Receivables - ACME (Balance Sheet)
//	  GL-1 2023-12-15 PRJ-1 CUST-1 Dr 100
//	  GL-2 2024-01-01 PRJ-1 CUST-2 Cr 30 opening
//	  GL-3 2024-01-10 PRJ-1 CUST-1 Dr 50 (company Dr 100) Field
//	  GL-4 2024-01-20 PRJ-2 CUST-1 Cr 20 Office
//	  GL-5 2024-01-10 PRJ-1 CUST-2 Cr 10 Office, modified before GL-3
//	  GL-6 2024-01-15 PRJ-1 CUST-1 Dr 999 cancelled
//	  GL-7 2024-02-05 PRJ-1 CUST-1 Dr 7
//	Fuel - ACME (Profit and Loss)
//	  GL-8 2023-11-01 Dr 40
//	  GL-9 2024-03-01 Dr 25
func newLedgerDB(t *testing.T) *gorm.DB {
	t.Helper()
	db := openSQLite(t)
	require.NoError(t, db.AutoMigrate(models.AllModels()...))
	seedLedger(t, db)
	return db
}

// seedLedger inserts the fixture of newLedgerDB into an existing schema
func seedLedger(t *testing.T, db *gorm.DB) {
	t.Helper()
	seed := []any{
		&models.CompanyModel{Name: acme, DefaultCurrency: "USD"},
		&models.CompanyModel{Name: "BETA", DefaultCurrency: "EUR"},
		&[]models.AccountModel{
			{Name: "Assets - ACME", Company: acme, IsGroup: true, RootType: "Asset", ReportType: "Balance Sheet"},
			{Name: receivables, Company: acme, AccountCurrency: "USD", RootType: "Asset", ReportType: "Balance Sheet", ParentAccount: "Assets - ACME"},
			{Name: "Expenses - ACME", Company: acme, IsGroup: true, RootType: "Expense", ReportType: "Profit and Loss"},
			{Name: fuel, Company: acme, AccountCurrency: "EUR", RootType: "Expense", ReportType: "Profit and Loss", ParentAccount: "Expenses - ACME"},
			{Name: "Rent - ACME", Company: acme, AccountCurrency: "USD", RootType: "Expense", ReportType: "Profit and Loss", ParentAccount: "Expenses - ACME"},
			{Name: "Cash - BETA", Company: "BETA", AccountCurrency: "EUR", RootType: "Asset", ReportType: "Balance Sheet"},
		},
		&[]models.CostCenterModel{
			{Name: "Main - ACME", Company: acme, IsGroup: true},
			{Name: "Ops - ACME", Company: acme, IsGroup: true, ParentCostCenter: "Main - ACME"},
			{Name: "Field - ACME", Company: acme, ParentCostCenter: "Ops - ACME"},
			{Name: "Office - ACME", Company: acme, ParentCostCenter: "Main - ACME"},
			{Name: "Main - BETA", Company: "BETA"},
		},
		&models.FiscalYearModel{Name: "FY2024", YearStartDate: day(2024, 1, 1), YearEndDate: day(2024, 12, 31)},
		&[]models.ProjectModel{
			{Name: "PRJ-1", ProjectName: "Bridge", Subject: "Steel works"},
			{Name: "PRJ-2", ProjectName: "Tunnel"},
		},
		&[]models.CustomerModel{
			{Name: "CUST-1", CustomerName: "Globex"},
			{Name: "CUST-2", CustomerName: "Initech"},
		},
		&models.SupplierModel{Name: "SUP-1", SupplierName: "Umbrella"},
		&models.EmployeeModel{Name: "EMP-1", EmployeeName: "Ada Lovelace"},
		&models.MemberModel{Name: "MEM-1", MemberName: "Grace Hopper"},
		&models.StudentModel{Name: "STU-1", FirstName: "Alan", LastName: "Turing"},
		&models.ShareholderModel{Name: "SH-1", Title: "Hooli Holdings"},
		&models.PartyNamingSettingModel{PartyType: "Customer", NamingBy: models.NamingSeries},
		&models.PartyNamingSettingModel{PartyType: "Supplier", NamingBy: "Supplier Name"},
	}
	for _, s := range seed {
		require.NoError(t, db.Create(s).Error)
	}

	base := day(2024, 6, 1)
	entries := []glSeed{
		{name: "GL-1", account: receivables, project: "PRJ-1", party: "CUST-1", date: day(2023, 12, 15), debit: "100"},
		{name: "GL-2", account: receivables, project: "PRJ-1", party: "CUST-2", date: day(2024, 1, 1), credit: "30", isOpening: true},
		{name: "GL-3", account: receivables, costCenter: "Field - ACME", project: "PRJ-1", party: "CUST-1", date: day(2024, 1, 10), debit: "50", baseDebit: "100", modified: base.Add(2 * time.Hour)},
		{name: "GL-4", account: receivables, costCenter: "Office - ACME", project: "PRJ-2", party: "CUST-1", date: day(2024, 1, 20), credit: "20"},
		{name: "GL-5", account: receivables, costCenter: "Office - ACME", project: "PRJ-1", party: "CUST-2", date: day(2024, 1, 10), credit: "10", modified: base.Add(time.Hour)},
		{name: "GL-6", account: receivables, project: "PRJ-1", party: "CUST-1", date: day(2024, 1, 15), debit: "999", isCancelled: true},
		{name: "GL-7", account: receivables, project: "PRJ-1", party: "CUST-1", date: day(2024, 2, 5), debit: "7"},
		{name: "GL-8", account: fuel, costCenter: "Office - ACME", date: day(2023, 11, 1), debit: "40"},
		{name: "GL-9", account: fuel, costCenter: "Office - ACME", date: day(2024, 3, 1), debit: "25"},
	}
	for _, e := range entries {
		var m models.GLEntryModel
		m.FromDomain(e.toDomain(base))
		require.NoError(t, db.Create(&m).Error)
	}
}

func (s glSeed) toDomain(base time.Time) ledger.GLEntry {
	amount := func(v string) decimal.Decimal {
		if v == "" {
			return decimal.Zero
		}
		return dec(v)
	}
	baseDebit := s.baseDebit
	if baseDebit == "" {
		baseDebit = s.debit
	}
	modified := s.modified
	if modified.IsZero() {
		modified = base
	}
	partyType := ledger.PartyType("")
	if s.party != "" {
		partyType = ledger.PartyTypeCustomer
	}
	return ledger.GLEntry{
		Name:                    s.name,
		Company:                 acme,
		Account:                 s.account,
		CostCenter:              s.costCenter,
		Project:                 s.project,
		PartyType:               partyType,
		Party:                   s.party,
		PostingDate:             s.date,
		VoucherType:             "Journal Entry",
		VoucherNo:               "JV-" + s.name,
		Debit:                   amount(baseDebit),
		Credit:                  amount(s.credit),
		DebitInAccountCurrency:  amount(s.debit),
		CreditInAccountCurrency: amount(s.credit),
		IsOpening:               s.isOpening,
		IsCancelled:             s.isCancelled,
		Modified:                modified,
	}
}

// builtInParties holds one seeded party per built-in party type and its
// expected display name
var builtInParties = []struct {
	partyType   ledger.PartyType
	party       string
	displayName string
}{
	{ledger.PartyTypeCustomer, "CUST-1", "Globex"},
	{ledger.PartyTypeSupplier, "SUP-1", "Umbrella"},
	{ledger.PartyTypeEmployee, "EMP-1", "Ada Lovelace"},
	{ledger.PartyTypeMember, "MEM-1", "Grace Hopper"},
	{ledger.PartyTypeStudent, "STU-1", "Alan"},
	{ledger.PartyTypeShareholder, "SH-1", "Hooli Holdings"},
}

// assertBuiltInPartyTypes lists and names a party of every built-in party
// type against the schema of db
func assertBuiltInPartyTypes(t *testing.T, db *gorm.DB) {
	t.Helper()
	registry := ledger.NewPartyTypeRegistry()
	dimensions := NewGormDimensionRepository(db, registry)
	lookup := NewGormLookupRepository(db, registry)
	ctx := context.Background()

	require.Len(t, builtInParties, len(registry.Types()))
	for _, tt := range builtInParties {
		t.Run(tt.partyType.String(), func(t *testing.T) {
			parties, err := dimensions.ListParties(ctx, ledger.PartyQuery{
				PartyType:       tt.partyType,
				Names:           []string{tt.party},
				WithDisplayName: true,
			})
			require.NoError(t, err)
			require.Len(t, parties, 1)
			assert.Equal(t, ledger.Party{Type: tt.partyType, Name: tt.party, DisplayName: tt.displayName}, parties[0])

			name, err := lookup.PartyDisplayName(ctx, tt.partyType, tt.party)
			require.NoError(t, err)
			assert.Equal(t, tt.displayName, name)
		})
	}
}
