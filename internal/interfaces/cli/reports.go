package cli

import (
	"context"
	"fmt"
	"reflect"
	"strings"

	"github.com/erp/ledgerreport/internal/domain/report"
	"github.com/erp/ledgerreport/internal/interfaces/http/dto"
	"github.com/erp/ledgerreport/internal/interfaces/http/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/cobra"
)

// requestValidator checks the same binding rules as the HTTP API and names
// fields by their query parameter
var requestValidator = newRequestValidator()

func newRequestValidator() *validator.Validate {
	v := validator.New()
	v.SetTagName("binding")
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		return strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
	})
	return v
}

// validateRequest reports binding failures against flag names
func validateRequest(req any) error {
	err := requestValidator.Struct(req)
	if err == nil {
		return nil
	}
	resp := middleware.FormatValidationErrors(err, "")
	if len(resp.Error.Details) == 0 {
		return fmt.Errorf("invalid arguments: %s", resp.Error.Message)
	}
	msgs := make([]string, 0, len(resp.Error.Details))
	for _, d := range resp.Error.Details {
		msgs = append(msgs, fmt.Sprintf("--%s: %s", strings.ReplaceAll(d.Field, "_", "-"), d.Message))
	}
	return fmt.Errorf("invalid arguments: %s", strings.Join(msgs, "; "))
}

func addMatrixFlags(cmd *cobra.Command, req *dto.MatrixReportRequest) {
	cmd.Flags().StringVar(&req.Company, "company", "", "company to report on (required)")
	cmd.Flags().StringVar(&req.Account, "account", "", "restrict to one account")
	cmd.Flags().StringVar(&req.CostCenter, "cost-center", "", "restrict to one cost center")
	cmd.Flags().StringVar(&req.AsOf, "as-of", "", "balance date as YYYY-MM-DD (default: today)")
	_ = cmd.MarkFlagRequired("company")
}

func newAccountCostCenterCommand(a *app) *cobra.Command {
	var req dto.MatrixReportRequest

	cmd := &cobra.Command{
		Use:   "account-cost-center",
		Short: "Balance of every leaf account per leaf cost center",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateRequest(req); err != nil {
				return err
			}
			return a.runReport(cmd, func(ctx context.Context, r *Reporters) (*report.Result, error) {
				return r.Matrix.AccountByCostCenter(ctx, req.ToFilter())
			})
		},
	}

	addMatrixFlags(cmd, &req)
	cmd.Flags().StringVar(&req.RootType, "root-type", "", "Asset, Liability, Equity, Income or Expense")

	return cmd
}

func newCostCenterAccountCommand(a *app) *cobra.Command {
	var req dto.MatrixReportRequest

	cmd := &cobra.Command{
		Use:   "cost-center-account",
		Short: "Balance of every leaf cost center per leaf account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateRequest(req); err != nil {
				return err
			}
			return a.runReport(cmd, func(ctx context.Context, r *Reporters) (*report.Result, error) {
				return r.Matrix.CostCenterByAccount(ctx, req.ToFilter())
			})
		},
	}

	addMatrixFlags(cmd, &req)
	cmd.Flags().StringVar(&req.ReportType, "report-type", "", "'Balance Sheet' or 'Profit and Loss' (default: Profit and Loss)")

	return cmd
}

// groupByAliases lets --group-by take the short forms project and party
var groupByAliases = map[string]report.GroupBy{
	"project": report.GroupByProject,
	"party":   report.GroupByParty,
}

func newProjectBalanceCommand(a *app) *cobra.Command {
	var req dto.ProjectBalanceRequest

	cmd := &cobra.Command{
		Use:   "project-balance",
		Short: "Opening, period and closing balances of an account by project and party",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if g, ok := groupByAliases[strings.ToLower(req.GroupBy)]; ok {
				req.GroupBy = string(g)
			}
			if err := validateRequest(req); err != nil {
				return err
			}
			return a.runReport(cmd, func(ctx context.Context, r *Reporters) (*report.Result, error) {
				return r.ProjectBalance.Execute(ctx, req.ToFilter())
			})
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&req.Company, "company", "", "company to report on (required)")
	flags.StringVar(&req.Account, "account", "", "account to report on (required)")
	flags.StringVar(&req.FiscalYear, "fiscal-year", "", "fiscal year that bounds the period")
	flags.StringVar(&req.FromDate, "from-date", "", "period start as YYYY-MM-DD")
	flags.StringVar(&req.ToDate, "to-date", "", "period end as YYYY-MM-DD")
	flags.StringArrayVar(&req.Projects, "project", nil, "project to include, repeatable")
	flags.StringVar(&req.PartyType, "party-type", "", "party type, such as Customer or Supplier")
	flags.StringArrayVar(&req.Parties, "party", nil, "party to include, repeatable")
	flags.StringArrayVar(&req.CostCenters, "cost-center", nil, "cost center to include, repeatable")
	flags.StringVar(&req.GroupBy, "group-by", "", "project or party (default: one row per posting)")
	flags.BoolVar(&req.ShowBaseCurrency, "show-base-currency", false, "report amounts in the company currency")
	flags.BoolVar(&req.ShowZeroValues, "show-zero-values", false, "keep rows whose balances are all zero")
	_ = cmd.MarkFlagRequired("company")
	_ = cmd.MarkFlagRequired("account")

	return cmd
}
