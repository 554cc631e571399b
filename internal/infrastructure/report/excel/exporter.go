// Package excel writes review reports as XLSX workbooks, one file per
// completed analysis.
package excel

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/MaxKamachee/openrecord/internal/core/domain"
)

const (
	detectionsSheet = "Detections"
	summarySheet    = "Summary"
)

type Exporter struct {
	outputDir string
	logger    *slog.Logger
}

func New(outputDir string, logger *slog.Logger) (*Exporter, error) {
	if outputDir == "" {
		outputDir = "./data/reports"
	}
	if logger == nil {
		logger = slog.Default()
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("create reports dir: %w", err)
	}
	return &Exporter{outputDir: outputDir, logger: logger}, nil
}

// Export writes the workbook and returns its path.
func (e *Exporter) Export(ctx context.Context, doc *domain.Document, analysis *domain.Analysis) (string, error) {
	start := time.Now()

	f := excelize.NewFile()
	defer f.Close()

	if err := e.writeDetections(f, analysis); err != nil {
		return "", err
	}
	if err := e.writeSummary(f, doc, analysis); err != nil {
		return "", err
	}

	defaultSheet := f.GetSheetName(0)
	if defaultSheet != detectionsSheet && defaultSheet != summarySheet {
		_ = f.DeleteSheet(defaultSheet)
	}
	if index, err := f.GetSheetIndex(detectionsSheet); err == nil {
		f.SetActiveSheet(index)
	}

	path := filepath.Join(e.outputDir, reportFilename(doc, analysis))
	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("xlsx write: %w", err)
	}

	e.logger.Info("report.export.ok",
		"analysis_id", analysis.ID,
		"document_id", analysis.DocumentID,
		"detections", len(analysis.Detections),
		"path", path,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return path, nil
}

func (e *Exporter) writeDetections(f *excelize.File, analysis *domain.Analysis) error {
	if _, err := f.NewSheet(detectionsSheet); err != nil {
		return fmt.Errorf("create detections sheet: %w", err)
	}

	headers := []string{"Page", "Category", "Text", "Confidence", "Approved", "Reason", "Pattern"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(detectionsSheet, cell, h)
	}

	row := 2
	for _, d := range analysis.Detections {
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(detectionsSheet, cell, v)
		}
		write(1, d.PageNumber)
		write(2, string(d.Category))
		write(3, d.Text)
		write(4, d.Confidence)
		write(5, d.Approved)
		write(6, d.DetectionReason)
		write(7, d.PatternName)
		row++
	}

	_ = f.SetColWidth(detectionsSheet, "B", "B", 26)
	_ = f.SetColWidth(detectionsSheet, "C", "C", 40)
	_ = f.SetColWidth(detectionsSheet, "F", "F", 32)
	return nil
}

func (e *Exporter) writeSummary(f *excelize.File, doc *domain.Document, analysis *domain.Analysis) error {
	if _, err := f.NewSheet(summarySheet); err != nil {
		return fmt.Errorf("create summary sheet: %w", err)
	}

	rows := [][2]any{
		{"Document", doc.Filename},
		{"Pages", doc.PageCount},
		{"Analysis", analysis.ID},
		{"Total detections", analysis.TotalDetections},
		{"High confidence", analysis.HighConfidenceCount},
		{"Approved", len(analysis.ApprovedDetections())},
		{"Categories", joinCategories(analysis.Categories)},
		{"Processing time (s)", analysis.ProcessingTime},
	}
	for i, r := range rows {
		keyCell, _ := excelize.CoordinatesToCellName(1, i+1)
		valCell, _ := excelize.CoordinatesToCellName(2, i+1)
		_ = f.SetCellValue(summarySheet, keyCell, r[0])
		_ = f.SetCellValue(summarySheet, valCell, r[1])
	}

	_ = f.SetColWidth(summarySheet, "A", "A", 22)
	_ = f.SetColWidth(summarySheet, "B", "B", 48)
	return nil
}

func reportFilename(doc *domain.Document, analysis *domain.Analysis) string {
	base := strings.TrimSuffix(doc.Filename, filepath.Ext(doc.Filename))
	if base == "" {
		base = doc.ID
	}
	return fmt.Sprintf("%s_%s.xlsx", base, analysis.ID)
}

func joinCategories(categories []domain.Category) string {
	parts := make([]string, 0, len(categories))
	for _, c := range categories {
		parts = append(parts, string(c))
	}
	return strings.Join(parts, ", ")
}
