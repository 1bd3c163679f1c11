package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/erp/ledgerreport/internal/domain/ledger"
	"github.com/erp/ledgerreport/internal/domain/shared"
)

// DateLayout is the calendar date format used in filters and messages
const DateLayout = "2006-01-02"

// GroupBy is the aggregation mode of the project balance statement
type GroupBy string

const (
	// GroupByNone produces the detailed per-entry statement
	GroupByNone    GroupBy = ""
	GroupByProject GroupBy = "Group by Project"
	GroupByParty   GroupBy = "Group by Party"
)

// IsValid checks if the grouping mode is known
func (g GroupBy) IsValid() bool {
	return g == GroupByNone || g == GroupByProject || g == GroupByParty
}

// IsGrouped reports whether rows are aggregated
func (g GroupBy) IsGrouped() bool {
	return g != GroupByNone
}

// ShowsParty reports whether the party dimension is part of the output
func (g GroupBy) ShowsParty() bool {
	return g != GroupByProject
}

// MatrixFilter scopes the account by cost center matrix reports
type MatrixFilter struct {
	Company    string
	RootType   ledger.RootType
	ReportType ledger.ReportType
	// Account restricts rows or columns to children of this parent account
	Account string
	// CostCenter restricts cost centers to children of this parent
	CostCenter string
	// AsOf is the balance date; zero means today
	AsOf time.Time
}

// ProjectBalanceFilter holds every option of the project balance statement.
// Zero values are the defaults.
type ProjectBalanceFilter struct {
	Company          string
	Account          string
	FiscalYear       string
	FromDate         *time.Time
	ToDate           *time.Time
	Projects         []string
	PartyType        ledger.PartyType
	Parties          []string
	CostCenters      []string
	GroupBy          GroupBy
	ShowBaseCurrency bool
	ShowZeroValues   bool
}

// ValidateRequired checks the mandatory fields
func (f *ProjectBalanceFilter) ValidateRequired() error {
	if strings.TrimSpace(f.Company) == "" {
		return shared.NewValidationError("%s is mandatory", "Company")
	}
	if strings.TrimSpace(f.Account) == "" {
		return shared.NewValidationError("%s is mandatory", "Account")
	}
	if !f.GroupBy.IsValid() {
		return shared.NewValidationError("Unknown grouping %q", string(f.GroupBy))
	}
	return nil
}

// ValidateGrouping enforces the constraints of the selected grouping mode
func (f *ProjectBalanceFilter) ValidateGrouping() error {
	switch f.GroupBy {
	case GroupByNone:
		if len(f.Projects) != 1 {
			return shared.NewValidationError("Choose One Project for detailed report")
		}
	case GroupByParty:
		if f.PartyType == "" {
			return shared.NewValidationError("Party Type is required, if grouped by party")
		}
	}
	return nil
}

// From returns the start date; it is only meaningful after validation
func (f *ProjectBalanceFilter) From() time.Time {
	if f.FromDate == nil {
		return time.Time{}
	}
	return *f.FromDate
}

// To returns the end date; it is only meaningful after validation
func (f *ProjectBalanceFilter) To() time.Time {
	if f.ToDate == nil {
		return time.Time{}
	}
	return *f.ToDate
}

// ValidateTrialBalanceFilter normalizes the date range the way every trial
// balance style report does. When fy is given, missing dates default to its
// bounds and out-of-year dates are clamped onto it; the returned message
// tells the user about each clamp. Without a fiscal year both dates are
// required.
func ValidateTrialBalanceFilter(f *ProjectBalanceFilter, fy *ledger.FiscalYear) (string, error) {
	if fy == nil {
		if f.FromDate == nil {
			return "", shared.NewValidationError("%s is mandatory", "From Date")
		}
		if f.ToDate == nil {
			return "", shared.NewValidationError("%s is mandatory", "To Date")
		}
		if f.FromDate.After(*f.ToDate) {
			return "", shared.NewValidationError("From Date cannot be greater than To Date")
		}
		return "", nil
	}

	if f.FromDate == nil {
		from := fy.StartDate
		f.FromDate = &from
	}
	if f.ToDate == nil {
		to := fy.EndDate
		f.ToDate = &to
	}
	if f.FromDate.After(*f.ToDate) {
		return "", shared.NewValidationError("From Date cannot be greater than To Date")
	}

	var notes []string
	if !fy.Contains(*f.FromDate) {
		from := fy.StartDate
		f.FromDate = &from
		notes = append(notes, fmt.Sprintf("From Date should be within the Fiscal Year. Assuming From Date = %s", from.Format(DateLayout)))
	}
	if !fy.Contains(*f.ToDate) {
		to := fy.EndDate
		f.ToDate = &to
		notes = append(notes, fmt.Sprintf("To Date should be within the Fiscal Year. Assuming To Date = %s", to.Format(DateLayout)))
	}
	return strings.Join(notes, "\n"), nil
}
