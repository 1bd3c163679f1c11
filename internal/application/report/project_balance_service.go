package report

import (
	"context"
	"fmt"
	"time"

	"github.com/erp/ledgerreport/internal/domain/ledger"
	"github.com/erp/ledgerreport/internal/domain/report"
	"github.com/erp/ledgerreport/internal/domain/shared"
	"github.com/erp/ledgerreport/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// Row fields of the project balance statement that carry amounts
var amountFields = []string{"opening_debit", "opening_credit", "debit", "credit", "closing_debit", "closing_credit"}

// ProjectBalanceService builds the project/party balance statement, either
// as a per-entry ledger for one project or grouped by project or by
// project and party.
type ProjectBalanceService struct {
	dimensions ledger.DimensionRepository
	ledger     ledger.LedgerRepository
	lookup     ledger.LookupRepository
	translator Translator
	metrics    Metrics
	logger     *zap.Logger
}

// NewProjectBalanceService creates a new ProjectBalanceService. translator and metrics may be nil.
func NewProjectBalanceService(
	dimensions ledger.DimensionRepository,
	gl ledger.LedgerRepository,
	lookup ledger.LookupRepository,
	translator Translator,
	metrics Metrics,
	logger *zap.Logger,
) *ProjectBalanceService {
	if translator == nil {
		translator = IdentityTranslator{}
	}
	if metrics == nil {
		metrics = noopMetrics{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProjectBalanceService{
		dimensions: dimensions,
		ledger:     gl,
		lookup:     lookup,
		translator: translator,
		metrics:    metrics,
		logger:     logger,
	}
}

// Execute validates the filter and produces the statement. Validation
// failures are returned as validation domain errors before any ledger query
// runs; backend failures are returned wrapped.
func (s *ProjectBalanceService) Execute(ctx context.Context, filter report.ProjectBalanceFilter) (result *report.Result, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "report", ReportProjectBalance,
		telemetry.WithAttribute(telemetry.SpanAttrReport, ReportProjectBalance),
		telemetry.WithAttribute(telemetry.SpanAttrCompany, filter.Company),
		telemetry.WithAttribute(telemetry.SpanAttrGroupBy, string(filter.GroupBy)))
	defer span.End()
	start := time.Now()
	defer func() {
		rows := 0
		if result != nil {
			rows = len(result.Rows)
		}
		s.metrics.RecordExecution(ctx, ReportProjectBalance, rows, time.Since(start), err)
		telemetry.SetAttributes(span, telemetry.SpanAttrRowCount, rows)
		telemetry.RecordError(span, err)
	}()

	message, err := s.validate(ctx, &filter)
	if err != nil {
		return nil, err
	}

	layout, err := s.layout(ctx, filter)
	if err != nil {
		return nil, err
	}

	rows, err := s.buildRows(ctx, filter, layout)
	if err != nil {
		s.logger.Error("Failed to build project balance", zap.String("account", filter.Account), zap.Error(err))
		return nil, err
	}

	s.logger.Debug("Project balance executed",
		zap.String("company", filter.Company),
		zap.String("account", filter.Account),
		zap.String("group_by", string(filter.GroupBy)),
		zap.Strings("projects", filter.Projects),
		zap.Int("rows", len(rows)))

	return &report.Result{
		Columns:      s.buildColumns(ctx, filter, layout),
		Rows:         rows,
		Message:      message,
		SkipTotalRow: !filter.GroupBy.IsGrouped(),
	}, nil
}

func (s *ProjectBalanceService) validate(ctx context.Context, filter *report.ProjectBalanceFilter) (string, error) {
	if err := filter.ValidateRequired(); err != nil {
		return "", err
	}

	var fy *ledger.FiscalYear
	if filter.FiscalYear != "" {
		found, err := s.lookup.FiscalYear(ctx, filter.FiscalYear)
		if err != nil {
			return "", fmt.Errorf("get fiscal year: %w", err)
		}
		if found == nil {
			return "", shared.NewValidationError("Fiscal Year %s does not exist", filter.FiscalYear)
		}
		fy = found
	}

	message, err := report.ValidateTrialBalanceFilter(filter, fy)
	if err != nil {
		return "", err
	}
	if err := filter.ValidateGrouping(); err != nil {
		return "", err
	}
	return message, nil
}

func (s *ProjectBalanceService) layout(ctx context.Context, filter report.ProjectBalanceFilter) (columnLayout, error) {
	hasSubject, err := s.lookup.HasProjectSubject(ctx)
	if err != nil {
		return columnLayout{}, fmt.Errorf("inspect project schema: %w", err)
	}
	showName, err := s.partyNameVisible(ctx, filter.PartyType)
	if err != nil {
		return columnLayout{}, err
	}
	return columnLayout{
		showProjectSubject: hasSubject,
		showParty:          filter.GroupBy.ShowsParty(),
		showPartyType:      filter.PartyType == "",
		showPartyName:      showName,
	}, nil
}

// partyNameVisible hides the party name for customers and suppliers whose
// identifier already is their name, that is when they are not numbered by a
// naming series.
func (s *ProjectBalanceService) partyNameVisible(ctx context.Context, partyType ledger.PartyType) (bool, error) {
	if partyType != ledger.PartyTypeCustomer && partyType != ledger.PartyTypeSupplier {
		return true, nil
	}
	bySeries, err := s.lookup.PartyNamingBySeries(ctx, partyType)
	if err != nil {
		return false, fmt.Errorf("get %s naming setting: %w", partyType, err)
	}
	return bySeries, nil
}

func (s *ProjectBalanceService) buildRows(ctx context.Context, filter report.ProjectBalanceFilter, layout columnLayout) ([]report.Row, error) {
	projects, err := s.dimensions.ListProjects(ctx, ledger.ProjectQuery{
		Names:       filter.Projects,
		WithSubject: layout.showProjectSubject,
	})
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}

	parties := []ledger.Party{{}}
	if filter.GroupBy == report.GroupByParty {
		parties, err = s.dimensions.ListParties(ctx, ledger.PartyQuery{
			PartyType:       filter.PartyType,
			Names:           filter.Parties,
			WithDisplayName: layout.showPartyName,
		})
		if err != nil {
			return nil, fmt.Errorf("list parties: %w", err)
		}
	}

	query, err := s.entryQuery(ctx, filter)
	if err != nil {
		return nil, err
	}

	opening, err := s.openingBalances(ctx, filter, query)
	if err != nil {
		return nil, err
	}

	currency, err := s.currency(ctx, filter)
	if err != nil {
		return nil, err
	}

	if filter.GroupBy.IsGrouped() {
		query.Window = ledger.WindowPeriod
		sums, err := s.ledger.SumByKey(ctx, query, filter.GroupBy == report.GroupByParty)
		if err != nil {
			return nil, fmt.Errorf("sum period balances: %w", err)
		}
		period := report.NewBalances(filter.GroupBy, sums, false)

		var rows []report.Row
		for _, project := range projects {
			for _, party := range parties {
				base := baseRow(project, party, currency, layout)
				rows = appendRow(rows, groupedRow(base, filter.GroupBy, opening, period), filter.ShowZeroValues)
			}
		}
		return rows, nil
	}

	query.Window = ledger.WindowPeriod
	entries, err := s.ledger.ListEntries(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list period entries: %w", err)
	}

	var rows []report.Row
	for _, project := range projects {
		base := baseRow(project, ledger.Party{}, currency, layout)
		detailed, err := s.detailedRows(ctx, base, opening.Get(report.KeyFor(filter.GroupBy, project.Name, "")), entries, filter.ShowZeroValues)
		if err != nil {
			return nil, err
		}
		rows = append(rows, detailed...)
	}
	return rows, nil
}

func (s *ProjectBalanceService) entryQuery(ctx context.Context, filter report.ProjectBalanceFilter) (ledger.EntryQuery, error) {
	query := ledger.EntryQuery{
		Company:      filter.Company,
		Account:      filter.Account,
		Projects:     filter.Projects,
		FromDate:     filter.From(),
		ToDate:       filter.To(),
		BaseCurrency: filter.ShowBaseCurrency,
	}
	if filter.GroupBy.ShowsParty() {
		query.PartyType = filter.PartyType
		query.Parties = filter.Parties
	}
	if len(filter.CostCenters) > 0 {
		costCenters, err := s.dimensions.CostCenterWithDescendants(ctx, filter.CostCenters)
		if err != nil {
			return ledger.EntryQuery{}, fmt.Errorf("expand cost centers: %w", err)
		}
		query.CostCenters = costCenters
	}
	return query, nil
}

func (s *ProjectBalanceService) openingBalances(ctx context.Context, filter report.ProjectBalanceFilter, query ledger.EntryQuery) (report.Balances, error) {
	query.Window = ledger.WindowOpening
	sums, err := s.ledger.SumByKey(ctx, query, filter.GroupBy == report.GroupByParty)
	if err != nil {
		return nil, fmt.Errorf("sum opening balances: %w", err)
	}
	return report.NewBalances(filter.GroupBy, sums, true), nil
}

func (s *ProjectBalanceService) currency(ctx context.Context, filter report.ProjectBalanceFilter) (string, error) {
	if filter.ShowBaseCurrency {
		currency, err := s.lookup.CompanyCurrency(ctx, filter.Company)
		if err != nil {
			return "", fmt.Errorf("get company currency: %w", err)
		}
		return currency, nil
	}
	currency, err := s.lookup.AccountCurrency(ctx, filter.Account)
	if err != nil {
		return "", fmt.Errorf("get account currency: %w", err)
	}
	return currency, nil
}

func baseRow(project ledger.Project, party ledger.Party, currency string, layout columnLayout) report.Row {
	row := report.Row{
		"project":      project.Name,
		"project_name": project.ProjectName,
		"party":        party.Name,
		"party_name":   party.DisplayName,
		"currency":     currency,
	}
	if layout.showProjectSubject {
		row["project_subject"] = project.Subject
	}
	return row
}

func groupedRow(base report.Row, groupBy report.GroupBy, opening, period report.Balances) report.Row {
	key := report.KeyFor(groupBy, base.String("project"), base.String("party"))
	open := opening.Get(key)
	moved := period.Get(key)
	closing := open.Add(moved).Toggle()

	row := base.Clone()
	setAmounts(row, "opening_debit", "opening_credit", open)
	setAmounts(row, "debit", "credit", moved)
	setAmounts(row, "closing_debit", "closing_credit", closing)
	return row
}

// detailedRows emits a synthetic opening row followed by one row per
// posting, each carrying the running closing balance. Every row keeps the
// statement's opening amounts.
func (s *ProjectBalanceService) detailedRows(ctx context.Context, base report.Row, opening ledger.Amounts, entries []ledger.Posting, showZero bool) ([]report.Row, error) {
	base = base.Clone()
	setAmounts(base, "opening_debit", "opening_credit", opening)

	var rows []report.Row

	openingRow := base.Clone()
	openingRow["project"] = s.translator.Translate(ctx, "Opening")
	openingRow["project_name"] = ""
	setAmounts(openingRow, "debit", "credit", opening)
	setAmounts(openingRow, "closing_debit", "closing_credit", opening)
	rows = appendRow(rows, openingRow, showZero)

	running := report.NewRunningBalance(opening)
	for _, entry := range entries {
		closing := running.Post(entry.Amounts)

		row := base.Clone()
		row["posting_date"] = entry.PostingDate
		row["project"] = entry.Project
		row["party_type"] = string(entry.PartyType)
		row["party"] = entry.Party
		row["voucher_type"] = entry.VoucherType
		row["voucher_no"] = entry.VoucherNo
		if entry.PartyType != "" && entry.Party != "" {
			name, err := s.lookup.PartyDisplayName(ctx, entry.PartyType, entry.Party)
			if err != nil {
				return nil, fmt.Errorf("get party name of %s: %w", entry.Party, err)
			}
			row["party_name"] = name
		}
		setAmounts(row, "debit", "credit", entry.Amounts)
		setAmounts(row, "closing_debit", "closing_credit", closing)
		rows = appendRow(rows, row, showZero)
	}
	return rows, nil
}

func setAmounts(row report.Row, debitField, creditField string, a ledger.Amounts) {
	row[debitField] = a.Debit
	row[creditField] = a.Credit
}

// appendRow drops rows whose amounts are all zero unless showZero is set
func appendRow(rows []report.Row, row report.Row, showZero bool) []report.Row {
	if showZero || hasValue(row) {
		return append(rows, row)
	}
	return rows
}

func hasValue(row report.Row) bool {
	for _, field := range amountFields {
		if a, ok := row[field].(interface{ IsZero() bool }); ok && !a.IsZero() {
			return true
		}
	}
	return false
}
