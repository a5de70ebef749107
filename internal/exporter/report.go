package exporter

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"estimmo/internal/dataprocessing"
	"estimmo/internal/model"
)

// WriteQualityReport saves the cleaning quality report as indented JSON.
func WriteQualityReport(path string, report *dataprocessing.QualityReport) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating reports directory: %w", err)
	}
	raw, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding quality report: %w", err)
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return fmt.Errorf("writing quality report: %w", err)
	}
	return nil
}

const (
	summarySheet  = "Summary"
	examplesSheet = "Examples"
)

// WriteEvaluationWorkbook saves a training evaluation as an Excel
// workbook with a metrics summary sheet and a holdout prediction sheet.
func WriteEvaluationWorkbook(path string, eval *model.Evaluation) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating reports directory: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return fmt.Errorf("renaming summary sheet: %w", err)
	}
	if _, err := f.NewSheet(examplesSheet); err != nil {
		return fmt.Errorf("creating examples sheet: %w", err)
	}

	writeSummarySheet(f, eval.Meta)
	writeExamplesSheet(f, eval.Examples)

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("saving workbook: %w", err)
	}
	return nil
}

func writeSummarySheet(f *excelize.File, meta model.Metadata) {
	rows := []struct {
		label string
		value interface{}
	}{
		{"Trained at", meta.TrainedAt.Format("2006-01-02 15:04:05 UTC")},
		{"Bundle version", meta.Version},
		{"Seed", meta.Seed},
		{"Training rows", meta.TrainRows},
		{"Holdout rows", meta.TestRows},
		{"Holdout R2", meta.TestR2},
		{"Training R2", meta.TrainR2},
		{"Overfit gap", meta.Overfit},
		{"Mean absolute error", meta.MAE},
		{"Mean squared error", meta.MSE},
		{"Bias factor", meta.BiasFactor},
		{"Reference period", fmt.Sprintf("%04d-%02d", meta.ReferenceYear, meta.ReferenceMonth)},
	}

	f.SetCellValue(summarySheet, "A1", "Metric")
	f.SetCellValue(summarySheet, "B1", "Value")
	for i, row := range rows {
		f.SetCellValue(summarySheet, fmt.Sprintf("A%d", i+2), row.label)
		f.SetCellValue(summarySheet, fmt.Sprintf("B%d", i+2), row.value)
	}
}

func writeExamplesSheet(f *excelize.File, examples []model.ExamplePrediction) {
	headers := []string{"Department", "Type", "Surface", "Rooms", "Actual", "Predicted", "Error %"}
	for i, h := range headers {
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetCellValue(examplesSheet, col+"1", h)
	}

	for i, ex := range examples {
		row := i + 2
		errorPct := 0.0
		if ex.Actual != 0 {
			errorPct = (ex.Predicted - ex.Actual) / ex.Actual * 100
		}
		values := []interface{}{ex.Department, ex.PropertyType, ex.Surface, ex.Rooms, ex.Actual, ex.Predicted, errorPct}
		for j, v := range values {
			col, _ := excelize.ColumnNumberToName(j + 1)
			f.SetCellValue(examplesSheet, fmt.Sprintf("%s%d", col, row), v)
		}
	}
}
