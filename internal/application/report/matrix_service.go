package report

import (
	"context"
	"fmt"
	"time"

	"github.com/erp/ledgerreport/internal/domain/ledger"
	"github.com/erp/ledgerreport/internal/domain/report"
	"github.com/erp/ledgerreport/internal/infrastructure/telemetry"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// Report names, used for spans, metrics and routing
const (
	ReportAccountCostCenter = "account_cost_center"
	ReportCostCenterAccount = "cost_center_account"
	ReportProjectBalance    = "project_balance"
)

const (
	dimensionColumnWidth = 300
	balanceColumnWidth   = 200
)

// MatrixService builds the account by cost center balance matrices
type MatrixService struct {
	dimensions ledger.DimensionRepository
	ledger     ledger.LedgerRepository
	translator Translator
	metrics    Metrics
	logger     *zap.Logger
}

// NewMatrixService creates a new MatrixService. translator and metrics may be nil.
func NewMatrixService(
	dimensions ledger.DimensionRepository,
	gl ledger.LedgerRepository,
	translator Translator,
	metrics Metrics,
	logger *zap.Logger,
) *MatrixService {
	if translator == nil {
		translator = IdentityTranslator{}
	}
	if metrics == nil {
		metrics = noopMetrics{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MatrixService{
		dimensions: dimensions,
		ledger:     gl,
		translator: translator,
		metrics:    metrics,
		logger:     logger,
	}
}

// AccountByCostCenter returns one row per leaf account and one balance
// column per leaf cost center.
func (s *MatrixService) AccountByCostCenter(ctx context.Context, filter report.MatrixFilter) (result *report.Result, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "report", ReportAccountCostCenter,
		telemetry.WithAttribute(telemetry.SpanAttrReport, ReportAccountCostCenter),
		telemetry.WithAttribute(telemetry.SpanAttrCompany, filter.Company))
	defer span.End()
	start := time.Now()
	defer func() {
		s.finish(ctx, span, ReportAccountCostCenter, result, start, err)
	}()

	accounts, costCenters, err := s.dimensionSets(ctx, ledger.AccountQuery{
		Company:       filter.Company,
		RootType:      filter.RootType,
		ReportType:    filter.ReportType,
		ParentAccount: filter.Account,
	}, filter)
	if err != nil {
		return nil, err
	}

	columns := make([]report.Column, 0, len(costCenters)+1)
	columns = append(columns, report.Column{
		Fieldname: "account",
		Label:     s.translator.Translate(ctx, "Account"),
		FieldType: report.FieldTypeLink,
		Options:   "Account",
		Width:     dimensionColumnWidth,
	})
	for _, cc := range costCenters {
		columns = append(columns, report.Column{
			Fieldname: cc.Name,
			Label:     s.translator.Translate(ctx, cc.Name),
			FieldType: report.FieldTypeCurrency,
			Width:     balanceColumnWidth,
		})
	}

	rows := make([]report.Row, 0, len(accounts))
	for _, account := range accounts {
		row := report.Row{"account": account.Name}
		for _, cc := range costCenters {
			balance, err := s.ledger.BalanceOn(ctx, ledger.BalanceQuery{
				Account:    account.Name,
				CostCenter: cc.Name,
				Company:    filter.Company,
				AsOf:       filter.AsOf,
			})
			if err != nil {
				return nil, fmt.Errorf("balance of %s on %s: %w", account.Name, cc.Name, err)
			}
			row[cc.Name] = balance
		}
		rows = append(rows, row)
	}

	return &report.Result{Columns: columns, Rows: rows}, nil
}

// CostCenterByAccount is the transpose of AccountByCostCenter: one row per
// leaf cost center and one balance column per leaf account. Accounts default
// to the Profit and Loss statement and are not scoped by parent account.
func (s *MatrixService) CostCenterByAccount(ctx context.Context, filter report.MatrixFilter) (result *report.Result, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "report", ReportCostCenterAccount,
		telemetry.WithAttribute(telemetry.SpanAttrReport, ReportCostCenterAccount),
		telemetry.WithAttribute(telemetry.SpanAttrCompany, filter.Company))
	defer span.End()
	start := time.Now()
	defer func() {
		s.finish(ctx, span, ReportCostCenterAccount, result, start, err)
	}()

	reportType := filter.ReportType
	if reportType == "" {
		reportType = ledger.ReportTypeProfitLoss
	}
	accounts, costCenters, err := s.dimensionSets(ctx, ledger.AccountQuery{
		Company:    filter.Company,
		RootType:   filter.RootType,
		ReportType: reportType,
	}, filter)
	if err != nil {
		return nil, err
	}

	columns := make([]report.Column, 0, len(accounts)+1)
	columns = append(columns, report.Column{
		Fieldname: "cost_center",
		Label:     s.translator.Translate(ctx, "Cost Center"),
		FieldType: report.FieldTypeLink,
		Options:   "Cost Center",
		Width:     dimensionColumnWidth,
	})
	for _, account := range accounts {
		columns = append(columns, report.Column{
			Fieldname: account.Name,
			Label:     s.translator.Translate(ctx, account.Name+" "+account.Currency),
			FieldType: report.FieldTypeCurrency,
			Width:     balanceColumnWidth,
		})
	}

	rows := make([]report.Row, 0, len(costCenters))
	for _, cc := range costCenters {
		row := report.Row{"cost_center": cc.Name}
		for _, account := range accounts {
			balance, err := s.ledger.BalanceOn(ctx, ledger.BalanceQuery{
				Account:    account.Name,
				CostCenter: cc.Name,
				Company:    filter.Company,
				AsOf:       filter.AsOf,
			})
			if err != nil {
				return nil, fmt.Errorf("balance of %s on %s: %w", account.Name, cc.Name, err)
			}
			row[account.Name] = balance
		}
		rows = append(rows, row)
	}

	return &report.Result{Columns: columns, Rows: rows}, nil
}

func (s *MatrixService) dimensionSets(ctx context.Context, accountQuery ledger.AccountQuery, filter report.MatrixFilter) ([]ledger.Account, []ledger.CostCenter, error) {
	costCenters, err := s.dimensions.ListCostCenters(ctx, ledger.CostCenterQuery{
		Company:          filter.Company,
		ParentCostCenter: filter.CostCenter,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("list cost centers: %w", err)
	}
	accounts, err := s.dimensions.ListAccounts(ctx, accountQuery)
	if err != nil {
		return nil, nil, fmt.Errorf("list accounts: %w", err)
	}
	return accounts, costCenters, nil
}

func (s *MatrixService) finish(ctx context.Context, span trace.Span, name string, result *report.Result, start time.Time, err error) {
	rows := 0
	if result != nil {
		rows = len(result.Rows)
	}
	elapsed := time.Since(start)
	s.metrics.RecordExecution(ctx, name, rows, elapsed, err)
	telemetry.SetAttributes(span, telemetry.SpanAttrRowCount, rows)
	telemetry.RecordError(span, err)
	if err != nil {
		s.logger.Error("Report failed", zap.String("report", name), zap.Error(err))
		return
	}
	s.logger.Debug("Report executed",
		zap.String("report", name),
		zap.Int("rows", rows),
		zap.Duration("elapsed", elapsed))
}
