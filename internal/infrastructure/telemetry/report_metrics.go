package telemetry

import (
	"context"
	"time"

	"github.com/erp/ledgerreport/internal/domain/shared"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metric attribute keys
const (
	AttrReport = attribute.Key("report")
	AttrStatus = attribute.Key("status")
)

// Execution outcomes
const (
	StatusOK      = "ok"
	StatusInvalid = "invalid"
	StatusError   = "error"
)

// ReportMetrics counts report executions and records their latency and size.
type ReportMetrics struct {
	executions *Counter
	duration   *Histogram
	rows       *Histogram
}

// NewReportMetrics creates the report instruments on meter.
func NewReportMetrics(meter metric.Meter) (*ReportMetrics, error) {
	executions, err := NewCounter(meter,
		"report_executions_total",
		"Report executions by report and outcome",
		"{execution}",
	)
	if err != nil {
		return nil, err
	}

	duration, err := NewHistogram(meter, HistogramOpts{
		Name:        "report_duration_seconds",
		Description: "Report execution latency",
		Unit:        "s",
		Boundaries:  ReportDurationBuckets,
	})
	if err != nil {
		return nil, err
	}

	rows, err := NewHistogram(meter, HistogramOpts{
		Name:        "report_rows",
		Description: "Rows returned per successful report execution",
		Unit:        "{row}",
		Boundaries:  RowCountBuckets,
	})
	if err != nil {
		return nil, err
	}

	return &ReportMetrics{executions: executions, duration: duration, rows: rows}, nil
}

// RecordExecution records one report run. Validation failures are counted
// separately from internal errors.
func (m *ReportMetrics) RecordExecution(ctx context.Context, reportName string, rows int, elapsed time.Duration, err error) {
	status := StatusOK
	switch {
	case shared.IsValidationError(err):
		status = StatusInvalid
	case err != nil:
		status = StatusError
	}

	attrs := []attribute.KeyValue{AttrReport.String(reportName), AttrStatus.String(status)}
	m.executions.Inc(ctx, attrs...)
	m.duration.RecordDuration(ctx, elapsed, attrs...)
	if err == nil {
		m.rows.Record(ctx, float64(rows), AttrReport.String(reportName))
	}
}
