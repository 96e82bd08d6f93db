// Package memory is an in-process ReportExporter used in tests and when no
// spreadsheet is configured.
package memory

import (
	"context"
	"fmt"
	"sync"

	"bilancio/internal/reporting"
	ports "bilancio/internal/sheets"
)

type Exporter struct {
	mu      sync.Mutex
	Reports []reporting.Report
}

var _ ports.ReportExporter = (*Exporter)(nil)

func New() *Exporter {
	return &Exporter{}
}

func (e *Exporter) ExportStatsReport(ctx context.Context, report reporting.Report) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.Reports = append(e.Reports, report)
	return fmt.Sprintf("mem:%d", len(e.Reports)), nil
}
