// Package ledger holds the read models of the general ledger and its
// dimensions (accounts, cost centers, projects, parties) together with the
// repository ports the report layer reads them through.
package ledger

import "time"

// RootType is the top-level classification of an account
type RootType string

const (
	RootTypeAsset     RootType = "Asset"
	RootTypeLiability RootType = "Liability"
	RootTypeEquity    RootType = "Equity"
	RootTypeIncome    RootType = "Income"
	RootTypeExpense   RootType = "Expense"
)

// IsValid checks if the root type is one of the known values
func (r RootType) IsValid() bool {
	switch r {
	case RootTypeAsset, RootTypeLiability, RootTypeEquity, RootTypeIncome, RootTypeExpense:
		return true
	}
	return false
}

// ReportType tells which financial statement an account belongs to
type ReportType string

const (
	ReportTypeBalanceSheet ReportType = "Balance Sheet"
	ReportTypeProfitLoss   ReportType = "Profit and Loss"
)

// IsValid checks if the report type is one of the known values
func (r ReportType) IsValid() bool {
	return r == ReportTypeBalanceSheet || r == ReportTypeProfitLoss
}

// Account is a node of the chart of accounts. Only leaf accounts (IsGroup
// false) carry postings and are reportable.
type Account struct {
	Name          string
	Company       string
	Currency      string
	IsGroup       bool
	RootType      RootType
	ReportType    ReportType
	ParentAccount string
}

// CostCenter is a node of the cost center tree
type CostCenter struct {
	Name             string
	Company          string
	IsGroup          bool
	ParentCostCenter string
}

// Company is the legal entity the books belong to
type Company struct {
	Name            string
	DefaultCurrency string
}

// FiscalYear bounds a financial year
type FiscalYear struct {
	Name      string
	StartDate time.Time
	EndDate   time.Time
}

// Contains reports whether d falls inside the fiscal year, bounds included
func (f FiscalYear) Contains(d time.Time) bool {
	return !d.Before(f.StartDate) && !d.After(f.EndDate)
}
