package handler

import (
	"context"

	reportapp "github.com/erp/ledgerreport/internal/application/report"
	"github.com/erp/ledgerreport/internal/domain/report"
	"github.com/erp/ledgerreport/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// MatrixReporter runs the account by cost center matrix reports
type MatrixReporter interface {
	AccountByCostCenter(ctx context.Context, filter report.MatrixFilter) (*report.Result, error)
	CostCenterByAccount(ctx context.Context, filter report.MatrixFilter) (*report.Result, error)
}

// ProjectBalanceReporter runs the project balance statement
type ProjectBalanceReporter interface {
	Execute(ctx context.Context, filter report.ProjectBalanceFilter) (*report.Result, error)
}

// ReportHandler serves the ledger reports
type ReportHandler struct {
	BaseHandler
	matrix         MatrixReporter
	projectBalance ProjectBalanceReporter
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(matrix MatrixReporter, projectBalance ProjectBalanceReporter) *ReportHandler {
	return &ReportHandler{
		matrix:         matrix,
		projectBalance: projectBalance,
	}
}

// AccountByCostCenter godoc
// @ID           getAccountCostCenterReport
// @Summary      Account balances by cost center
// @Description  One row per leaf account, one column per leaf cost center, each cell the balance as of the given date
// @Tags         reports
// @Produce      json
// @Param        company query string true "Company"
// @Param        root_type query string false "Root type" Enums(Asset, Liability, Equity, Income, Expense)
// @Param        report_type query string false "Report type" Enums(Balance Sheet, Profit and Loss)
// @Param        account query string false "Parent account"
// @Param        cost_center query string false "Parent cost center"
// @Param        as_of query string false "Balance date (YYYY-MM-DD), defaults to today"
// @Param        Accept-Language header string false "Label language"
// @Success      200 {object} dto.Response{data=dto.ReportResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /reports/account-cost-center [get]
func (h *ReportHandler) AccountByCostCenter(c *gin.Context) {
	h.runMatrix(c, h.matrix.AccountByCostCenter)
}

// CostCenterByAccount godoc
// @ID           getCostCenterAccountReport
// @Summary      Cost center balances by account
// @Description  Transposed matrix: one row per leaf cost center, one column per leaf account. Report type defaults to Profit and Loss.
// @Tags         reports
// @Produce      json
// @Param        company query string true "Company"
// @Param        root_type query string false "Root type" Enums(Asset, Liability, Equity, Income, Expense)
// @Param        report_type query string false "Report type" Enums(Balance Sheet, Profit and Loss)
// @Param        account query string false "Parent account"
// @Param        cost_center query string false "Parent cost center"
// @Param        as_of query string false "Balance date (YYYY-MM-DD), defaults to today"
// @Param        Accept-Language header string false "Label language"
// @Success      200 {object} dto.Response{data=dto.ReportResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /reports/cost-center-account [get]
func (h *ReportHandler) CostCenterByAccount(c *gin.Context) {
	h.runMatrix(c, h.matrix.CostCenterByAccount)
}

func (h *ReportHandler) runMatrix(c *gin.Context, run func(context.Context, report.MatrixFilter) (*report.Result, error)) {
	var req dto.MatrixReportRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	result, err := run(requestContext(c), req.ToFilter())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.ToReportResponse(result))
}

// ProjectBalance godoc
// @ID           getProjectBalanceReport
// @Summary      Project balance statement
// @Description  Opening, period and closing balances of one account per project, per project and party, or per posting of a single project
// @Tags         reports
// @Produce      json
// @Param        company query string true "Company"
// @Param        account query string true "Account"
// @Param        fiscal_year query string false "Fiscal year; bounds and clamps the dates"
// @Param        from_date query string false "Start date (YYYY-MM-DD), required without fiscal_year"
// @Param        to_date query string false "End date (YYYY-MM-DD), required without fiscal_year"
// @Param        project query []string false "Projects" collectionFormat(multi)
// @Param        party_type query string false "Party type"
// @Param        party query []string false "Parties" collectionFormat(multi)
// @Param        cost_center query []string false "Cost centers, including their descendants" collectionFormat(multi)
// @Param        group_by query string false "Grouping" Enums(Group by Project, Group by Party)
// @Param        show_base_currency query bool false "Amounts in company currency"
// @Param        show_zero_values query bool false "Keep rows whose amounts are all zero"
// @Param        Accept-Language header string false "Label language"
// @Success      200 {object} dto.Response{data=dto.ReportResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /reports/project-balance [get]
func (h *ReportHandler) ProjectBalance(c *gin.Context) {
	var req dto.ProjectBalanceRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	result, err := h.projectBalance.Execute(requestContext(c), req.ToFilter())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.ToReportResponse(result))
}

// requestContext carries the Accept-Language header to the label translator
func requestContext(c *gin.Context) context.Context {
	ctx := c.Request.Context()
	if lang := c.GetHeader("Accept-Language"); lang != "" {
		ctx = reportapp.WithLanguage(ctx, lang)
	}
	return ctx
}
