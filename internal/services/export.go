package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/xuri/excelize/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/tbourn/powerwise-backend/internal/repo"
)

// ExportSheet is the worksheet name of the export workbook.
const ExportSheet = "Recommendations"

// ExportColumns are the fixed export headers, in order.
var ExportColumns = []string{
	"Client Name", "Email", "Phone", "Location", "Solution",
	"System Capacity (kW)", "Total Cost (₦)", "ROI (Months)", "Date",
}

// XLSXContentType is the media type of the export.
const XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Export renders every row matching q (search and sort apply; pagination does
// not) into an .xlsx workbook.
func (s *ListingService) Export(ctx context.Context, q Query) (string, []byte, error) {
	ctx, span := otel.Tracer("services/ListingService").Start(ctx, "Export")
	defer span.End()

	q, err := q.normalize()
	if err != nil {
		return "", nil, err
	}
	rows, err := repo.ListRecommendationRows(ctx, s.DB, repo.ListFilter{
		Search: q.Search,
		SortBy: q.SortBy,
		Desc:   q.Desc,
	}, 0, -1)
	if err != nil {
		return "", nil, err
	}
	span.SetAttributes(attribute.Int("export.rows", len(rows)))

	xl := excelize.NewFile()
	defer func() { _ = xl.Close() }()

	if err := xl.SetSheetName(xl.GetSheetName(0), ExportSheet); err != nil {
		return "", nil, fmt.Errorf("export: rename sheet: %w", err)
	}
	header := make([]any, len(ExportColumns))
	for i, h := range ExportColumns {
		header[i] = h
		col, _ := excelize.ColumnNumberToName(i + 1)
		_ = xl.SetColWidth(ExportSheet, col, col, float64(max(len([]rune(h)), 15)))
	}
	if err := xl.SetSheetRow(ExportSheet, "A1", &header); err != nil {
		return "", nil, fmt.Errorf("export: header: %w", err)
	}

	for i, r := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		record := exportRecord(r)
		if err := xl.SetSheetRow(ExportSheet, cell, &record); err != nil {
			return "", nil, fmt.Errorf("export: row %d: %w", i+1, err)
		}
	}

	buf, err := xl.WriteToBuffer()
	if err != nil {
		return "", nil, fmt.Errorf("export: write workbook: %w", err)
	}
	name := "power-recommendations-" + s.Now().Format("2006-01-02") + ".xlsx"
	log.Info().Int("rows", len(rows)).Str("search", q.Search).Msg("listing: export generated")
	return name, buf.Bytes(), nil
}

func exportRecord(r repo.RecommendationRow) []any {
	var roi any = "-"
	if r.ROIMonths != nil {
		roi = *r.ROIMonths
	}
	return []any{
		r.ClientName,
		r.ClientEmail,
		r.ClientPhone,
		r.Location,
		r.PrimarySolution,
		r.SystemCapacityKW,
		r.TotalCostNGN,
		roi,
		r.GeneratedAt.UTC().Format("2 Jan 2006"),
	}
}
