package export

import (
	"fmt"

	"github.com/piwi3910/jigsnap/internal/model"
	"github.com/piwi3910/jigsnap/internal/project"
	"github.com/xuri/excelize/v2"
)

const (
	resultsSheet = "Results"
	bestSheet    = "Best Times"
)

var resultHeaders = []string{"ID", "Stage", "Label", "Image", "Rows", "Cols", "Pieces", "Seconds", "Time", "Completed"}

// ExportResultsXLSX writes the results history to an Excel workbook with a
// sheet of every completion and a sheet of the best time per grid size.
func ExportResultsXLSX(path string, history project.ResultsHistory) error {
	if len(history.Results) == 0 {
		return fmt.Errorf("no results to export")
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), resultsSheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}
	header, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"E6E6E6"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	rows := make([][]interface{}, 0, len(history.Results))
	for _, r := range history.Results {
		rows = append(rows, []interface{}{
			r.ID, r.Stage + 1, r.Label, r.Image, r.Rows, r.Cols, r.Rows * r.Cols,
			r.Elapsed.Seconds(), model.FormatElapsed(r.Elapsed), r.CompletedAt.Format("2006-01-02 15:04:05"),
		})
	}
	if err := writeTable(f, resultsSheet, resultHeaders, rows, header); err != nil {
		return err
	}

	if _, err := f.NewSheet(bestSheet); err != nil {
		return fmt.Errorf("failed to add sheet: %w", err)
	}
	best := history.BestTimes()
	bestRows := make([][]interface{}, 0, len(best))
	for _, bt := range best {
		bestRows = append(bestRows, []interface{}{bt.Grid, bt.Pieces, bt.Runs, bt.Elapsed.Seconds(), model.FormatElapsed(bt.Elapsed)})
	}
	if err := writeTable(f, bestSheet, []string{"Grid", "Pieces", "Runs", "Best Seconds", "Best Time"}, bestRows, header); err != nil {
		return err
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

// writeTable writes a styled header row followed by data rows.
func writeTable(f *excelize.File, sheet string, headers []string, rows [][]interface{}, headerStyle int) error {
	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return fmt.Errorf("failed to write %s!%s: %w", sheet, cell, err)
		}
	}
	last, err := excelize.CoordinatesToCellName(len(headers), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", last, headerStyle); err != nil {
		return fmt.Errorf("failed to style %s header: %w", sheet, err)
	}

	for r, row := range rows {
		for c, v := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return fmt.Errorf("failed to write %s!%s: %w", sheet, cell, err)
			}
		}
	}
	return nil
}
