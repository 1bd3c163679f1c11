package cli

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/erp/ledgerreport/internal/domain/report"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleResult() *report.Result {
	return &report.Result{
		Columns: []report.Column{
			{Fieldname: "project", Label: "Project", FieldType: report.FieldTypeLink, Options: "Project"},
			{Fieldname: "posting_date", Label: "Posting Date", FieldType: report.FieldTypeDate},
			{Fieldname: "closing", Label: "Closing", FieldType: report.FieldTypeCurrency, Options: "currency"},
			{Fieldname: "currency", Label: "Currency", FieldType: report.FieldTypeLink, Options: "Currency", Hidden: true},
		},
		Rows: []report.Row{
			{
				"project":      "Bridge | North",
				"posting_date": time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
				"closing":      decimal.RequireFromString("1234.5"),
				"currency":     "USD",
			},
			{
				"project":  "Tunnel",
				"closing":  decimal.RequireFromString("-20"),
				"currency": "ZZZ",
			},
		},
	}
}

func TestParseFormat(t *testing.T) {
	for _, in := range []string{"table", "markdown", "json", "csv", " JSON "} {
		_, err := ParseFormat(in)
		assert.NoError(t, err, in)
	}
	_, err := ParseFormat("xml")
	assert.Error(t, err)
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "$1,234.50", FormatAmount(decimal.RequireFromString("1234.5"), "USD"))
	assert.Equal(t, "$0.01", FormatAmount(decimal.RequireFromString("0.005"), "usd"))
	assert.Equal(t, "12.30", FormatAmount(decimal.RequireFromString("12.3"), "ZZZ"))
	assert.Equal(t, "7.00", FormatAmount(decimal.NewFromInt(7), ""))
}

func TestMarkdownTable(t *testing.T) {
	result := sampleResult()
	result.Message = "Opening balances are included"

	want := "Opening balances are included\n\n" +
		"| Project | Posting Date | Closing |\n" +
		"| --- | --- | ---: |\n" +
		"| Bridge \\| North | 2024-03-01 | $1,234.50 |\n" +
		"| Tunnel |  | -20.00 |\n"
	assert.Equal(t, want, MarkdownTable(result))
}

func TestMarkdownTable_NoColumns(t *testing.T) {
	assert.Equal(t, "", MarkdownTable(&report.Result{}))
	assert.Equal(t, "nothing\n\n", MarkdownTable(&report.Result{Message: "nothing"}))
}

func TestRenderer_Table(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Renderer{Format: FormatTable}.Render(&buf, sampleResult()))

	out := buf.String()
	assert.Contains(t, out, "Project")
	assert.Contains(t, out, "Closing")
	assert.Contains(t, out, "$1,234.50")
	assert.Contains(t, out, "2024-03-01")
	assert.NotContains(t, out, "Currency")
}

func TestRenderer_Markdown(t *testing.T) {
	var buf bytes.Buffer
	r := Renderer{Format: FormatMarkdown, MarkdownStyle: "notty"}
	require.NoError(t, r.Render(&buf, sampleResult()))

	out := buf.String()
	assert.Contains(t, out, "Tunnel")
	assert.Contains(t, out, "$1,234.50")
}

func TestRenderer_JSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Renderer{Format: FormatJSON}.Render(&buf, sampleResult()))

	var decoded struct {
		Columns []report.Column  `json:"columns"`
		Rows    []map[string]any `json:"rows"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Len(t, decoded.Columns, 4)
	require.Len(t, decoded.Rows, 2)
	assert.Equal(t, 1234.5, decoded.Rows[0]["closing"])
	assert.Equal(t, "2024-03-01", decoded.Rows[0]["posting_date"])
}

func TestRenderer_CSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Renderer{Format: FormatCSV}.Render(&buf, sampleResult()))

	want := "Project,Posting Date,Closing\n" +
		"Bridge | North,2024-03-01,1234.5\n" +
		"Tunnel,,-20\n"
	assert.Equal(t, want, buf.String())
}
