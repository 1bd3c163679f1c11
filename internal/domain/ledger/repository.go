package ledger

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// AccountQuery selects leaf accounts
type AccountQuery struct {
	Company       string
	RootType      RootType
	ReportType    ReportType
	ParentAccount string
}

// CostCenterQuery selects leaf cost centers
type CostCenterQuery struct {
	Company          string
	ParentCostCenter string
}

// ProjectQuery selects projects. An empty Names list selects all projects.
type ProjectQuery struct {
	Names       []string
	WithSubject bool
}

// PartyQuery selects parties of one type. An empty Names list selects all.
type PartyQuery struct {
	PartyType       PartyType
	Names           []string
	WithDisplayName bool
}

// DimensionRepository lists dimension master data matching a filter
type DimensionRepository interface {
	// ListAccounts returns leaf accounts ordered by name
	ListAccounts(ctx context.Context, q AccountQuery) ([]Account, error)

	// ListCostCenters returns leaf cost centers ordered by name
	ListCostCenters(ctx context.Context, q CostCenterQuery) ([]CostCenter, error)

	// ListProjects returns projects ordered by name
	ListProjects(ctx context.Context, q ProjectQuery) ([]Project, error)

	// ListParties returns parties of one type ordered by name
	ListParties(ctx context.Context, q PartyQuery) ([]Party, error)

	// CostCenterWithDescendants expands cost centers to themselves plus every descendant
	CostCenterWithDescendants(ctx context.Context, names []string) ([]string, error)
}

// BalanceQuery scopes a single balance lookup
type BalanceQuery struct {
	Account    string
	CostCenter string
	Company    string
	// AsOf is the inclusive upper posting date; zero means today.
	AsOf time.Time
}

// EntryWindow selects which postings an EntryQuery covers
type EntryWindow int

const (
	// WindowOpening covers postings dated before FromDate or flagged as opening,
	// up to ToDate.
	WindowOpening EntryWindow = iota + 1
	// WindowPeriod covers non-opening postings dated within [FromDate, ToDate].
	WindowPeriod
)

// EntryQuery scopes GL entry reads for one account of one company.
// Cancelled entries are always excluded.
type EntryQuery struct {
	Company      string
	Account      string
	Projects     []string
	PartyType    PartyType
	Parties      []string
	CostCenters  []string
	FromDate     time.Time
	ToDate       time.Time
	Window       EntryWindow
	BaseCurrency bool
}

// LedgerRepository reads balances from the general ledger
type LedgerRepository interface {
	// BalanceOn returns debit minus credit in account currency for the scope
	BalanceOn(ctx context.Context, q BalanceQuery) (decimal.Decimal, error)

	// SumByKey totals debit and credit grouped by project, or by project and party
	SumByKey(ctx context.Context, q EntryQuery, byParty bool) ([]KeyedAmounts, error)

	// ListEntries returns individual postings ordered by posting date then modification time
	ListEntries(ctx context.Context, q EntryQuery) ([]Posting, error)
}

// LookupRepository resolves single scalar values
type LookupRepository interface {
	CompanyCurrency(ctx context.Context, company string) (string, error)
	AccountCurrency(ctx context.Context, account string) (string, error)
	PartyDisplayName(ctx context.Context, partyType PartyType, party string) (string, error)
	FiscalYear(ctx context.Context, name string) (*FiscalYear, error)
	// HasProjectSubject reports whether the project schema carries a subject field
	HasProjectSubject(ctx context.Context) (bool, error)
	// PartyNamingBySeries reports whether parties of the type get generated
	// identifiers, in which case their display name differs from the identifier
	PartyNamingBySeries(ctx context.Context, partyType PartyType) (bool, error)
}
