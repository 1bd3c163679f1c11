package report

import (
	"context"

	"github.com/erp/ledgerreport/internal/domain/report"
)

const (
	amountColumnWidth = 120
	partyColumnWidth  = 150
)

// columnLayout captures the filter-dependent switches of the project balance columns
type columnLayout struct {
	showProjectSubject bool
	showParty          bool
	showPartyType      bool
	showPartyName      bool
}

func (s *ProjectBalanceService) buildColumns(ctx context.Context, filter report.ProjectBalanceFilter, layout columnLayout) []report.Column {
	t := func(msg string) string { return s.translator.Translate(ctx, msg) }

	columns := []report.Column{
		{Fieldname: "project", Label: t("Project"), FieldType: report.FieldTypeLink, Options: "Project", Width: 200},
		{Fieldname: "project_name", Label: t("Project Name"), FieldType: report.FieldTypeData, Width: 200, Hidden: true},
	}
	if layout.showProjectSubject {
		columns = append(columns, report.Column{
			Fieldname: "project_subject", Label: t("Project Subject"), FieldType: report.FieldTypeData, Width: 150,
		})
	}

	if layout.showParty {
		if layout.showPartyType {
			columns = append(columns,
				report.Column{Fieldname: "party_type", Label: t("Party Type"), FieldType: report.FieldTypeData, Width: amountColumnWidth},
				report.Column{Fieldname: "party", Label: t("Party"), FieldType: report.FieldTypeDynamicLink, Options: "party_type", Width: partyColumnWidth},
			)
		} else {
			partyType := string(filter.PartyType)
			columns = append(columns, report.Column{
				Fieldname: "party", Label: t(partyType), FieldType: report.FieldTypeLink, Options: partyType, Width: partyColumnWidth,
			})
		}

		if layout.showPartyName {
			prefix := string(filter.PartyType)
			if prefix == "" {
				prefix = "Party"
			}
			columns = append(columns, report.Column{
				Fieldname: "party_name", Label: t(prefix + " Name"), FieldType: report.FieldTypeData, Width: partyColumnWidth,
			})
		}
	}

	if filter.GroupBy.IsGrouped() {
		columns = append(columns,
			currencyColumn("opening_debit", t("Opening (Dr)")),
			currencyColumn("opening_credit", t("Opening (Cr)")),
		)
	} else {
		columns = append([]report.Column{{
			Fieldname: "posting_date", Label: t("Posting Date"), FieldType: report.FieldTypeDate, Width: amountColumnWidth,
		}}, columns...)
	}

	columns = append(columns,
		currencyColumn("debit", t("Debit")),
		currencyColumn("credit", t("Credit")),
		currencyColumn("closing_debit", t("Closing (Dr)")),
		currencyColumn("closing_credit", t("Closing (Cr)")),
		report.Column{Fieldname: "currency", Label: t("Currency"), FieldType: report.FieldTypeLink, Options: "Currency", Hidden: true},
	)

	if !filter.GroupBy.IsGrouped() {
		columns = append(columns,
			report.Column{Fieldname: "voucher_type", Label: t("Voucher Type"), Width: amountColumnWidth},
			report.Column{Fieldname: "voucher_no", Label: t("Voucher No"), FieldType: report.FieldTypeDynamicLink, Options: "voucher_type", Width: 180},
		)
	}

	return columns
}

func currencyColumn(fieldname, label string) report.Column {
	return report.Column{
		Fieldname: fieldname,
		Label:     label,
		FieldType: report.FieldTypeCurrency,
		Options:   "currency",
		Width:     amountColumnWidth,
	}
}
