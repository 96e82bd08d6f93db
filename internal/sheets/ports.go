package sheets

import (
	"context"

	"bilancio/internal/reporting"
)

// ReportExporter is the outbound port for pushing a built stats report to an
// external spreadsheet. Implementations append rows; they never read the
// report back.
type ReportExporter interface {
	// ExportStatsReport appends the report and returns an opaque reference
	// to where it landed (a range ref for sheets, a synthetic ref in tests).
	ExportStatsReport(ctx context.Context, report reporting.Report) (string, error)
}
