// Package report holds the tabular report model shared by the ledger reports:
// column descriptors, rows, results and the filter structures each report
// accepts.
package report

// FieldType is the datatype hint attached to a column
type FieldType string

const (
	FieldTypeData        FieldType = "Data"
	FieldTypeLink        FieldType = "Link"
	FieldTypeDynamicLink FieldType = "Dynamic Link"
	FieldTypeCurrency    FieldType = "Currency"
	FieldTypeDate        FieldType = "Date"
)

// Column describes one report column. Options names the linked entity for
// Link columns, the field holding the entity type for Dynamic Link columns
// and the field holding the currency for Currency columns.
type Column struct {
	Fieldname string    `json:"fieldname"`
	Label     string    `json:"label"`
	FieldType FieldType `json:"fieldtype,omitempty"`
	Options   string    `json:"options,omitempty"`
	Width     int       `json:"width,omitempty"`
	Hidden    bool      `json:"hidden,omitempty"`
}

// Row maps a column fieldname to its value. Values are strings,
// decimal.Decimal amounts or time.Time dates.
type Row map[string]any

// Clone returns a shallow copy of the row
func (r Row) Clone() Row {
	out := make(Row, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// String returns the value of field as a string, or "" when absent
func (r Row) String(field string) string {
	s, _ := r[field].(string)
	return s
}

// Result is the output of a report execution
type Result struct {
	Columns      []Column `json:"columns"`
	Rows         []Row    `json:"rows"`
	Message      string   `json:"message,omitempty"`
	SkipTotalRow bool     `json:"skip_total_row"`
}

// Fieldnames returns the column fieldnames in order
func (r *Result) Fieldnames() []string {
	names := make([]string, len(r.Columns))
	for i, c := range r.Columns {
		names[i] = c.Fieldname
	}
	return names
}
