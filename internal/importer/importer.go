// Package importer reads stage plans from CSV, Excel and DXF files.
// Spreadsheet imports detect the delimiter automatically, map columns by
// header name and accept common aliases in any case.
package importer

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/piwi3910/jigsnap/internal/model"
	"github.com/xuri/excelize/v2"
)

// ImportResult holds the results of an import operation.
type ImportResult struct {
	Stages   []model.Stage
	Errors   []string
	Warnings []string
}

// ColumnMapping maps semantic column roles to their indices in the data.
type ColumnMapping struct {
	Label int
	Image int
	Rows  int
	Cols  int
	Grid  int // Single "RxC" column, used when Rows or Cols is absent
}

// headerAliases maps canonical column names to their accepted aliases (all lowercase).
var headerAliases = map[string][]string{
	"label": {"label", "name", "stage", "title", "description"},
	"image": {"image", "picture", "photo", "file", "path", "img"},
	"rows":  {"rows", "row", "r", "down", "pieces down"},
	"cols":  {"cols", "columns", "col", "c", "across", "pieces across"},
	"grid":  {"grid", "size", "grid size", "layout"},
}

// maxGridSide bounds a grid side before a warning is issued.
const maxGridSide = 32

// DetectCSVDelimiter reads the file content and determines the most likely CSV delimiter.
// It tries comma, semicolon, tab, and pipe. The delimiter that produces the most
// consistent (non-one) column count across lines wins.
func DetectCSVDelimiter(data []byte) rune {
	candidates := []rune{',', ';', '\t', '|'}
	bestDelimiter := ','
	bestScore := 0

	for _, delim := range candidates {
		reader := csv.NewReader(bytes.NewReader(data))
		reader.Comma = delim
		reader.LazyQuotes = true
		reader.FieldsPerRecord = -1

		records, err := reader.ReadAll()
		if err != nil || len(records) < 1 {
			continue
		}

		firstCols := len(records[0])
		if firstCols < 2 {
			continue
		}

		score := 0
		for _, row := range records {
			if len(row) == firstCols {
				score++
			}
		}

		// Prefer delimiters with higher consistency and more columns
		weighted := score*10 + firstCols
		if weighted > bestScore {
			bestScore = weighted
			bestDelimiter = delim
		}
	}

	return bestDelimiter
}

// DetectColumns examines a header row and returns a ColumnMapping.
// It performs case-insensitive matching against known aliases for each column role.
// Returns the mapping and true if a header was detected, or a default positional
// mapping (Label, Image, Rows, Cols) and false if no header was found.
func DetectColumns(row []string) (ColumnMapping, bool) {
	mapping := ColumnMapping{Label: -1, Image: -1, Rows: -1, Cols: -1, Grid: -1}
	slots := map[string]*int{
		"label": &mapping.Label,
		"image": &mapping.Image,
		"rows":  &mapping.Rows,
		"cols":  &mapping.Cols,
		"grid":  &mapping.Grid,
	}

	isHeader := false
	for i, cell := range row {
		normalized := strings.ToLower(strings.TrimSpace(cell))
		for role, aliases := range headerAliases {
			for _, alias := range aliases {
				if normalized != alias {
					continue
				}
				isHeader = true
				if slot := slots[role]; *slot == -1 {
					*slot = i
				}
			}
		}
	}

	if !isHeader {
		return ColumnMapping{Label: 0, Image: 1, Rows: 2, Cols: 3, Grid: -1}, false
	}
	return mapping, true
}

// ParseGrid parses a grid size written "RxC", "R x C" or "R*C".
func ParseGrid(s string) (rows, cols int, err error) {
	norm := strings.ToLower(strings.ReplaceAll(s, " ", ""))
	norm = strings.ReplaceAll(norm, "*", "x")
	norm = strings.ReplaceAll(norm, "×", "x")
	r, c, ok := strings.Cut(norm, "x")
	if !ok {
		return 0, 0, fmt.Errorf("grid %q: expected RxC", s)
	}
	if rows, err = strconv.Atoi(r); err != nil {
		return 0, 0, fmt.Errorf("grid %q: rows: %w", s, err)
	}
	if cols, err = strconv.Atoi(c); err != nil {
		return 0, 0, fmt.Errorf("grid %q: cols: %w", s, err)
	}
	return rows, cols, nil
}

// getCell safely retrieves a cell value from a row by column index.
// Returns empty string if the index is out of range or negative.
func getCell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// parseRow extracts a Stage from a row using the given column mapping.
// Returns the stage, any error message, and any warning message.
func parseRow(row []string, mapping ColumnMapping, rowLabel string, stageCount int) (model.Stage, string, string) {
	stage := model.Stage{
		Label: getCell(row, mapping.Label),
		Image: getCell(row, mapping.Image),
	}

	if mapping.Rows >= 0 && mapping.Cols >= 0 {
		rowsStr := getCell(row, mapping.Rows)
		if rowsStr == "" {
			return model.Stage{}, fmt.Sprintf("%s: Missing rows value", rowLabel), ""
		}
		rows, err := strconv.Atoi(rowsStr)
		if err != nil {
			return model.Stage{}, fmt.Sprintf("%s: Invalid rows '%s'", rowLabel, rowsStr), ""
		}
		colsStr := getCell(row, mapping.Cols)
		if colsStr == "" {
			return model.Stage{}, fmt.Sprintf("%s: Missing cols value", rowLabel), ""
		}
		cols, err := strconv.Atoi(colsStr)
		if err != nil {
			return model.Stage{}, fmt.Sprintf("%s: Invalid cols '%s'", rowLabel, colsStr), ""
		}
		stage.Rows, stage.Cols = rows, cols
	} else {
		gridStr := getCell(row, mapping.Grid)
		if gridStr == "" {
			return model.Stage{}, fmt.Sprintf("%s: Missing grid value", rowLabel), ""
		}
		rows, cols, err := ParseGrid(gridStr)
		if err != nil {
			return model.Stage{}, fmt.Sprintf("%s: Invalid grid '%s'", rowLabel, gridStr), ""
		}
		stage.Rows, stage.Cols = rows, cols
	}

	if stage.Rows <= 0 || stage.Cols <= 0 {
		return model.Stage{}, fmt.Sprintf("%s: Rows and cols must be positive", rowLabel), ""
	}
	if stage.Label == "" {
		stage.Label = fmt.Sprintf("Stage %d", stageCount+1)
	}

	var warning string
	if stage.Rows > maxGridSide || stage.Cols > maxGridSide {
		warning = fmt.Sprintf("%s: Large grid %s, pieces will be very small", rowLabel, stage.GridLabel())
	}
	return stage, "", warning
}

// isEmptyRow returns true if the row has no meaningful content.
func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// Import dispatches on the file extension.
func Import(path string) ImportResult {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm", ".xls":
		return ImportExcel(path)
	case ".dxf":
		return ImportDXF(path)
	default:
		return ImportCSV(path)
	}
}

// ImportCSV imports stages from a CSV file.
// It automatically detects the delimiter and maps columns by header names.
// Supports comma, semicolon, tab, and pipe delimiters.
func ImportCSV(path string) ImportResult {
	result := ImportResult{}

	data, err := os.ReadFile(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open file: %v", err))
		return result
	}

	if len(bytes.TrimSpace(data)) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	delimiter := DetectCSVDelimiter(data)
	if delimiter != ',' {
		delimName := map[rune]string{';': "semicolon", '\t': "tab", '|': "pipe"}[delimiter]
		result.Warnings = append(result.Warnings, fmt.Sprintf("Detected %s delimiter", delimName))
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = delimiter
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read CSV: %v", err))
		return result
	}

	return importFromRows(records, "Line", result.Warnings)
}

// ImportCSVFromReader imports stages from a CSV reader with a specific delimiter.
func ImportCSVFromReader(reader io.Reader, delimiter rune) ImportResult {
	result := ImportResult{}

	csvReader := csv.NewReader(reader)
	csvReader.Comma = delimiter
	csvReader.LazyQuotes = true
	csvReader.FieldsPerRecord = -1

	records, err := csvReader.ReadAll()
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read CSV: %v", err))
		return result
	}

	if len(records) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	return importFromRows(records, "Line", nil)
}

// ImportExcel imports stages from an Excel (.xlsx) file.
// Reads the first sheet and auto-detects column mapping from headers.
func ImportExcel(path string) ImportResult {
	result := ImportResult{}

	f, err := excelize.OpenFile(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open Excel file: %v", err))
		return result
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		result.Errors = append(result.Errors, "Excel file has no sheets")
		return result
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read Excel data: %v", err))
		return result
	}

	if len(rows) == 0 {
		result.Errors = append(result.Errors, "Sheet is empty")
		return result
	}

	return importFromRows(rows, "Row", nil)
}

// importFromRows is the shared import logic for both CSV and Excel data.
// It detects headers, maps columns, and parses each row into a stage.
func importFromRows(rows [][]string, rowPrefix string, initialWarnings []string) ImportResult {
	result := ImportResult{
		Warnings: initialWarnings,
	}

	if len(rows) == 0 {
		result.Errors = append(result.Errors, "No data rows found")
		return result
	}

	mapping, hasHeader := DetectColumns(rows[0])
	startRow := 0
	if hasHeader {
		startRow = 1
		result.Warnings = append(result.Warnings, "Detected header row, skipping")

		if (mapping.Rows == -1 || mapping.Cols == -1) && mapping.Grid == -1 {
			missing := []string{}
			if mapping.Rows == -1 {
				missing = append(missing, "Rows")
			}
			if mapping.Cols == -1 {
				missing = append(missing, "Cols")
			}
			result.Errors = append(result.Errors, fmt.Sprintf("Required columns not found in header: %s", strings.Join(missing, ", ")))
			return result
		}
	} else if len(rows[0]) >= 4 {
		if _, err := strconv.Atoi(strings.TrimSpace(rows[0][2])); err != nil {
			// Unrecognized header: skip it but keep positional mapping
			startRow = 1
			result.Warnings = append(result.Warnings, "Detected header row, skipping")
		}
	}

	for i := startRow; i < len(rows); i++ {
		row := rows[i]
		lineNum := i + 1

		if isEmptyRow(row) {
			continue
		}

		rowLabel := fmt.Sprintf("%s %d", rowPrefix, lineNum)
		stage, errMsg, warning := parseRow(row, mapping, rowLabel, len(result.Stages))

		if errMsg != "" {
			result.Errors = append(result.Errors, errMsg)
			continue
		}
		if warning != "" {
			result.Warnings = append(result.Warnings, warning)
		}

		result.Stages = append(result.Stages, stage)
	}

	if len(result.Stages) == 0 && len(result.Errors) == 0 {
		result.Errors = append(result.Errors, "No data rows found")
	}
	return result
}
