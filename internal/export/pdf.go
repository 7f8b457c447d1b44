// Package export writes stage results and printable puzzle material to PDF,
// Excel and DXF files.
package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/piwi3910/jigsnap/internal/model"
	qrcode "github.com/skip2/go-qrcode"
)

// pieceColor represents an RGB fill for one grid cell.
type pieceColor struct {
	R, G, B int
}

// pieceColors mirrors the highlight palette used by the board widget.
var pieceColors = []pieceColor{
	{R: 76, G: 175, B: 80},  // green
	{R: 33, G: 150, B: 243}, // blue
	{R: 255, G: 152, B: 0},  // orange
	{R: 156, G: 39, B: 176}, // purple
	{R: 0, G: 188, B: 212},  // cyan
	{R: 244, G: 67, B: 54},  // red
	{R: 255, G: 235, B: 59}, // yellow
	{R: 121, G: 85, B: 72},  // brown
}

// Page layout constants (A4 landscape in mm).
const (
	pageWidth    = 297.0
	pageHeight   = 210.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 15.0
	headerHeight = 12.0
	statsHeight  = 20.0
	drawAreaTop  = marginTop + headerHeight + 5.0
	resultQRSize = 40.0
)

// ExportPDF generates a results report. Each solved stage gets a page with
// its grid diagram, its time and a QR code carrying the result as JSON,
// followed by a summary page.
func ExportPDF(path string, results []model.StageResult) error {
	if len(results) == 0 {
		return fmt.Errorf("no results to export")
	}

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, marginBottom)

	for i, r := range results {
		pdf.AddPage()
		if err := renderStagePage(pdf, r, i); err != nil {
			return fmt.Errorf("failed to render stage %d: %w", r.Stage+1, err)
		}
	}

	pdf.AddPage()
	renderSummaryPage(pdf, results)

	return pdf.OutputFileAndClose(path)
}

// renderStagePage draws a single stage result on the current PDF page.
func renderStagePage(pdf *fpdf.Fpdf, r model.StageResult, page int) error {
	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetXY(marginLeft, marginTop)
	title := fmt.Sprintf("Stage %d: %s (%s)", r.Stage+1, r.Label, r.GridLabel())
	pdf.CellFormat(pageWidth-marginLeft-marginRight, headerHeight, title, "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetXY(marginLeft, marginTop+headerHeight)
	stats := fmt.Sprintf("Pieces: %d | Time: %s | Completed: %s",
		r.Rows*r.Cols, model.FormatElapsed(r.Elapsed), r.CompletedAt.Local().Format("2006-01-02 15:04"))
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 5, stats, "", 0, "L", false, 0, "")

	drawWidth := pageWidth - marginLeft - marginRight - resultQRSize - 10
	drawHeight := pageHeight - drawAreaTop - marginBottom - statsHeight
	drawGrid(pdf, r.Rows, r.Cols, marginLeft, drawAreaTop, drawWidth, drawHeight)

	qrPNG, err := resultQR(r)
	if err != nil {
		return err
	}
	imgName := fmt.Sprintf("qr_result_%d_%s", page, r.ID)
	pdf.RegisterImageOptionsReader(imgName, fpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(qrPNG))
	qrX := pageWidth - marginRight - resultQRSize
	pdf.ImageOptions(imgName, qrX, drawAreaTop, resultQRSize, resultQRSize, false, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	pdf.SetTextColor(100, 100, 100)
	pdf.SetXY(qrX, drawAreaTop+resultQRSize+1)
	pdf.CellFormat(resultQRSize, 4, "Result "+r.ID, "", 0, "C", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
	return nil
}

// resultQR encodes a stage result as a QR code PNG.
func resultQR(r model.StageResult) ([]byte, error) {
	data, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}
	png, err := qrcode.Encode(string(data), qrcode.Medium, 256)
	if err != nil {
		return nil, fmt.Errorf("failed to generate QR code: %w", err)
	}
	return png, nil
}

// drawGrid draws the solved grid scaled to fit the given area, each cell
// numbered with its piece id.
func drawGrid(pdf *fpdf.Fpdf, rows, cols int, x, y, w, h float64) {
	cell := math.Min(w/float64(cols), h/float64(rows))
	gridW := cell * float64(cols)
	offsetX := x + (w-gridW)/2

	pdf.SetDrawColor(30, 30, 30)
	pdf.SetLineWidth(0.3)
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			id := row*cols + col
			c := pieceColors[(row+col)%len(pieceColors)]
			px := offsetX + float64(col)*cell
			py := y + float64(row)*cell

			pdf.SetFillColor(c.R, c.G, c.B)
			pdf.Rect(px, py, cell, cell, "FD")

			if cell > 8 {
				pdf.SetFont("Helvetica", "", labelFontSize(cell, cell))
				label := fmt.Sprintf("%d", id)
				labelW := pdf.GetStringWidth(label)
				pdf.SetXY(px+(cell-labelW)/2, py+cell/2-2)
				pdf.CellFormat(labelW, 4, label, "", 0, "C", false, 0, "")
			}
		}
	}

	pdf.SetFont("Helvetica", "", 8)
	pdf.SetTextColor(80, 80, 80)
	dims := fmt.Sprintf("%d cols x %d rows", cols, rows)
	dimsW := pdf.GetStringWidth(dims)
	pdf.SetXY(offsetX+(gridW-dimsW)/2, y+cell*float64(rows)+1)
	pdf.CellFormat(dimsW, 4, dims, "", 0, "C", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
}

// renderSummaryPage draws the final summary page with overall statistics.
func renderSummaryPage(pdf *fpdf.Fpdf, results []model.StageResult) {
	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetXY(marginLeft, marginTop)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 10, "Puzzle Results Summary", "", 0, "L", false, 0, "")

	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.5)
	pdf.Line(marginLeft, marginTop+12, pageWidth-marginRight, marginTop+12)

	y := marginTop + 18

	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(100, 7, "Overall Statistics", "", 0, "L", false, 0, "")
	y += 9

	summaryItems := []struct {
		label string
		value string
	}{
		{"Stages Solved", fmt.Sprintf("%d", len(results))},
		{"Pieces Placed", fmt.Sprintf("%d", countPieces(results))},
		{"Total Time", model.FormatElapsed(totalElapsed(results))},
	}

	pdf.SetFont("Helvetica", "", 10)
	for _, item := range summaryItems {
		pdf.SetXY(marginLeft+5, y)
		pdf.CellFormat(60, 6, item.label+":", "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(40, 6, item.value, "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		y += 7
	}

	y += 5

	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(100, 7, "Stage Breakdown", "", 0, "L", false, 0, "")
	y += 9

	colWidths := []float64{20, 60, 60, 30, 40, 55}
	headers := []string{"Stage", "Label", "Image", "Grid", "Time", "Completed"}

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	xPos := marginLeft
	for i, header := range headers {
		pdf.SetXY(xPos, y)
		pdf.CellFormat(colWidths[i], 6, header, "1", 0, "C", true, 0, "")
		xPos += colWidths[i]
	}
	y += 6

	pdf.SetFont("Helvetica", "", 9)
	for i, r := range results {
		xPos = marginLeft
		rowData := []string{
			fmt.Sprintf("%d", r.Stage+1),
			r.Label,
			r.Image,
			r.GridLabel(),
			model.FormatElapsed(r.Elapsed),
			r.CompletedAt.Local().Format("2006-01-02 15:04"),
		}

		// Alternate row background
		if i%2 == 0 {
			pdf.SetFillColor(245, 245, 245)
		} else {
			pdf.SetFillColor(255, 255, 255)
		}

		for j, cell := range rowData {
			pdf.SetXY(xPos, y)
			pdf.CellFormat(colWidths[j], 6, cell, "1", 0, "C", true, 0, "")
			xPos += colWidths[j]
		}
		y += 6
		if y > pageHeight-marginBottom-10 {
			pdf.AddPage()
			y = marginTop
		}
	}

	pdf.SetFont("Helvetica", "I", 8)
	pdf.SetTextColor(120, 120, 120)
	pdf.SetXY(marginLeft, pageHeight-marginBottom)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 4, "Generated by JigSnap", "", 0, "C", false, 0, "")
}

// labelFontSize returns an appropriate font size based on the rectangle dimensions.
func labelFontSize(w, h float64) float64 {
	minDim := math.Min(w, h)
	switch {
	case minDim > 40:
		return 8
	case minDim > 20:
		return 7
	default:
		return 6
	}
}

// countPieces returns the number of pieces across all results.
func countPieces(results []model.StageResult) int {
	total := 0
	for _, r := range results {
		total += r.Rows * r.Cols
	}
	return total
}

func totalElapsed(results []model.StageResult) time.Duration {
	var total time.Duration
	for _, r := range results {
		total += r.Elapsed
	}
	return total
}
