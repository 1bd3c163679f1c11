package dto

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/erp/ledgerreport/internal/domain/ledger"
	"github.com/erp/ledgerreport/internal/domain/report"
	"github.com/shopspring/decimal"
)

// MatrixReportRequest is the query string of both account by cost center reports
type MatrixReportRequest struct {
	Company    string `form:"company" binding:"required"`
	RootType   string `form:"root_type" binding:"omitempty,oneof=Asset Liability Equity Income Expense"`
	ReportType string `form:"report_type" binding:"omitempty,oneof='Balance Sheet' 'Profit and Loss'"`
	Account    string `form:"account"`
	CostCenter string `form:"cost_center"`
	AsOf       string `form:"as_of" binding:"omitempty,datetime=2006-01-02"`
}

// ToFilter converts the request to the domain filter. Dates are validated by binding.
func (r MatrixReportRequest) ToFilter() report.MatrixFilter {
	f := report.MatrixFilter{
		Company:    r.Company,
		RootType:   ledger.RootType(r.RootType),
		ReportType: ledger.ReportType(r.ReportType),
		Account:    r.Account,
		CostCenter: r.CostCenter,
	}
	if d := parseDate(r.AsOf); d != nil {
		f.AsOf = *d
	}
	return f
}

// ProjectBalanceRequest is the query string of the project balance statement.
// The list filters accept repeated parameters or a single JSON array.
type ProjectBalanceRequest struct {
	Company          string   `form:"company" binding:"required"`
	Account          string   `form:"account" binding:"required"`
	FiscalYear       string   `form:"fiscal_year"`
	FromDate         string   `form:"from_date" binding:"omitempty,datetime=2006-01-02"`
	ToDate           string   `form:"to_date" binding:"omitempty,datetime=2006-01-02"`
	Projects         []string `form:"project"`
	PartyType        string   `form:"party_type"`
	Parties          []string `form:"party"`
	CostCenters      []string `form:"cost_center"`
	GroupBy          string   `form:"group_by" binding:"omitempty,oneof='Group by Project' 'Group by Party'"`
	ShowBaseCurrency bool     `form:"show_base_currency"`
	ShowZeroValues   bool     `form:"show_zero_values"`
}

// ToFilter converts the request to the domain filter
func (r ProjectBalanceRequest) ToFilter() report.ProjectBalanceFilter {
	return report.ProjectBalanceFilter{
		Company:          r.Company,
		Account:          r.Account,
		FiscalYear:       r.FiscalYear,
		FromDate:         parseDate(r.FromDate),
		ToDate:           parseDate(r.ToDate),
		Projects:         ExpandList(r.Projects),
		PartyType:        ledger.PartyType(r.PartyType),
		Parties:          ExpandList(r.Parties),
		CostCenters:      ExpandList(r.CostCenters),
		GroupBy:          report.GroupBy(r.GroupBy),
		ShowBaseCurrency: r.ShowBaseCurrency,
		ShowZeroValues:   r.ShowZeroValues,
	}
}

// ExpandList flattens list parameters. A value that is a JSON array is
// decoded into its elements; any other value is kept as one element. Blank
// values are dropped.
func ExpandList(values []string) []string {
	var out []string
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if strings.HasPrefix(v, "[") {
			var items []string
			if err := json.Unmarshal([]byte(v), &items); err == nil {
				for _, item := range items {
					if item = strings.TrimSpace(item); item != "" {
						out = append(out, item)
					}
				}
				continue
			}
		}
		out = append(out, v)
	}
	return out
}

func parseDate(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := time.Parse(report.DateLayout, s)
	if err != nil {
		return nil
	}
	return &t
}

// ReportResponse is the JSON form of a report result
type ReportResponse struct {
	Columns      []report.Column  `json:"columns"`
	Rows         []map[string]any `json:"rows"`
	Message      string           `json:"message,omitempty"`
	SkipTotalRow bool             `json:"skip_total_row"`
}

// ToReportResponse renders amounts as exact JSON numbers and dates as YYYY-MM-DD
func ToReportResponse(result *report.Result) ReportResponse {
	resp := ReportResponse{
		Columns:      result.Columns,
		Rows:         make([]map[string]any, 0, len(result.Rows)),
		Message:      result.Message,
		SkipTotalRow: result.SkipTotalRow,
	}
	if resp.Columns == nil {
		resp.Columns = []report.Column{}
	}
	for _, row := range result.Rows {
		out := make(map[string]any, len(row))
		for field, value := range row {
			out[field] = jsonValue(value)
		}
		resp.Rows = append(resp.Rows, out)
	}
	return resp
}

func jsonValue(v any) any {
	switch val := v.(type) {
	case decimal.Decimal:
		return json.Number(val.String())
	case time.Time:
		if val.IsZero() {
			return nil
		}
		return val.Format(report.DateLayout)
	case *time.Time:
		if val == nil || val.IsZero() {
			return nil
		}
		return val.Format(report.DateLayout)
	default:
		return v
	}
}
