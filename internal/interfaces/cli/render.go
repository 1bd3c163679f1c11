package cli

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/Rhymond/go-money"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/erp/ledgerreport/internal/domain/report"
	"github.com/erp/ledgerreport/internal/interfaces/http/dto"
	"github.com/shopspring/decimal"
)

// Format selects how a report is written
type Format string

const (
	FormatTable    Format = "table"
	FormatMarkdown Format = "markdown"
	FormatJSON     Format = "json"
	FormatCSV      Format = "csv"
)

// ParseFormat validates an output format name
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatTable, FormatMarkdown, FormatJSON, FormatCSV:
		return f, nil
	default:
		return "", fmt.Errorf("unknown output format %q (want table, markdown, json or csv)", s)
	}
}

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle    = lipgloss.NewStyle().Padding(0, 1)
	borderStyle  = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#878787", Dark: "#5F5F5F"})
	messageStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#5FAFFF", Dark: "#5FAFFF"})
)

// Renderer writes report results in one format
type Renderer struct {
	Format Format
	// MarkdownStyle is a glamour standard style name. Empty picks one from the terminal.
	MarkdownStyle string
	WordWrap      int
}

// Render writes result to w
func (r Renderer) Render(w io.Writer, result *report.Result) error {
	switch r.Format {
	case FormatJSON:
		return renderJSON(w, result)
	case FormatCSV:
		return renderCSV(w, result)
	case FormatMarkdown:
		return r.renderMarkdown(w, result)
	default:
		return renderTable(w, result)
	}
}

func renderJSON(w io.Writer, result *report.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(dto.ToReportResponse(result))
}

// renderCSV keeps amounts unformatted so spreadsheets can sum them
func renderCSV(w io.Writer, result *report.Result) error {
	columns := visibleColumns(result.Columns)
	cw := csv.NewWriter(w)
	header := make([]string, len(columns))
	for i, c := range columns {
		header[i] = c.Label
	}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, row := range result.Rows {
		record := make([]string, len(columns))
		for i, c := range columns {
			record[i] = rawCell(row[c.Fieldname])
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func renderTable(w io.Writer, result *report.Result) error {
	if result.Message != "" {
		if _, err := fmt.Fprintln(w, messageStyle.Render(result.Message)); err != nil {
			return err
		}
	}
	columns := visibleColumns(result.Columns)
	if len(columns) == 0 {
		return nil
	}

	headers, rows := displayCells(columns, result.Rows)
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if col < len(columns) && columns[col].FieldType == report.FieldTypeCurrency {
				return cellStyle.Align(lipgloss.Right)
			}
			return cellStyle
		})
	_, err := fmt.Fprintln(w, t.Render())
	return err
}

func (r Renderer) renderMarkdown(w io.Writer, result *report.Result) error {
	opts := []glamour.TermRendererOption{glamour.WithWordWrap(r.wordWrap())}
	if r.MarkdownStyle != "" {
		opts = append(opts, glamour.WithStandardStyle(r.MarkdownStyle))
	} else {
		opts = append(opts, glamour.WithAutoStyle())
	}
	tr, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return fmt.Errorf("failed to create markdown renderer: %w", err)
	}
	out, err := tr.Render(MarkdownTable(result))
	if err != nil {
		return fmt.Errorf("failed to render markdown: %w", err)
	}
	_, err = io.WriteString(w, out)
	return err
}

func (r Renderer) wordWrap() int {
	if r.WordWrap > 0 {
		return r.WordWrap
	}
	return 160
}

// MarkdownTable returns result as a GitHub flavored markdown table, preceded
// by the report message when there is one.
func MarkdownTable(result *report.Result) string {
	var b strings.Builder
	if result.Message != "" {
		b.WriteString(result.Message)
		b.WriteString("\n\n")
	}
	columns := visibleColumns(result.Columns)
	if len(columns) == 0 {
		return b.String()
	}

	headers, rows := displayCells(columns, result.Rows)
	writeMarkdownRow(&b, headers)
	b.WriteString("|")
	for _, c := range columns {
		if c.FieldType == report.FieldTypeCurrency {
			b.WriteString(" ---: |")
		} else {
			b.WriteString(" --- |")
		}
	}
	b.WriteString("\n")
	for _, row := range rows {
		writeMarkdownRow(&b, row)
	}
	return b.String()
}

func writeMarkdownRow(b *strings.Builder, cells []string) {
	b.WriteString("|")
	for _, cell := range cells {
		b.WriteString(" ")
		b.WriteString(strings.ReplaceAll(cell, "|", `\|`))
		b.WriteString(" |")
	}
	b.WriteString("\n")
}

func visibleColumns(columns []report.Column) []report.Column {
	out := make([]report.Column, 0, len(columns))
	for _, c := range columns {
		if !c.Hidden {
			out = append(out, c)
		}
	}
	return out
}

func displayCells(columns []report.Column, rows []report.Row) ([]string, [][]string) {
	headers := make([]string, len(columns))
	for i, c := range columns {
		headers[i] = c.Label
	}
	cells := make([][]string, 0, len(rows))
	for _, row := range rows {
		line := make([]string, len(columns))
		for i, c := range columns {
			line[i] = displayCell(c, row)
		}
		cells = append(cells, line)
	}
	return headers, cells
}

// displayCell formats amounts of currency columns in the currency named by the
// column's currency field
func displayCell(c report.Column, row report.Row) string {
	amount, ok := row[c.Fieldname].(decimal.Decimal)
	if !ok {
		return rawCell(row[c.Fieldname])
	}
	if c.FieldType == report.FieldTypeCurrency && c.Options != "" {
		return FormatAmount(amount, row.String(c.Options))
	}
	return amount.StringFixed(2)
}

func rawCell(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case decimal.Decimal:
		return val.String()
	case time.Time:
		if val.IsZero() {
			return ""
		}
		return val.Format(report.DateLayout)
	case *time.Time:
		if val == nil || val.IsZero() {
			return ""
		}
		return val.Format(report.DateLayout)
	default:
		return fmt.Sprint(val)
	}
}

// FormatAmount renders amount with the symbol and minor units of the ISO 4217
// currency code. Unknown codes fall back to two decimals.
func FormatAmount(amount decimal.Decimal, code string) string {
	cur := money.GetCurrency(strings.ToUpper(code))
	if cur == nil {
		return amount.StringFixed(2)
	}
	minor := amount.Shift(int32(cur.Fraction)).Round(0).IntPart()
	return money.New(minor, cur.Code).Display()
}
