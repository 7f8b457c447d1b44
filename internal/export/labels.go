package export

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/go-pdf/fpdf"
	"github.com/piwi3910/jigsnap/internal/engine"
	"github.com/piwi3910/jigsnap/internal/model"
	qrcode "github.com/skip2/go-qrcode"
)

// LabelInfo holds the data encoded into each piece label's QR code.
type LabelInfo struct {
	StageLabel string                  `json:"stage"`
	Grid       string                  `json:"grid"`
	Piece      int                     `json:"piece"`
	Row        int                     `json:"row"`
	Col        int                     `json:"col"`
	Neighbors  [model.NumNeighbors]int `json:"neighbors"` // Left, Right, Top, Bottom; -1 for none
}

// Label layout constants for Avery 5160-compatible labels (3 columns, 10 rows per page).
// Each label cell is approximately 66.7mm x 25.4mm on US Letter paper.
const (
	labelMarginTop  = 12.7 // mm
	labelMarginLeft = 4.8  // mm
	labelWidth      = 66.7 // mm per label
	labelHeight     = 25.4 // mm per label
	labelCols       = 3
	labelRows       = 10
	labelsPerPage   = labelCols * labelRows
	qrSize          = 20.0 // QR code size in mm
	labelPadding    = 2.0  // mm internal padding
)

// CollectLabelInfos cuts the stage grid and returns one label per piece in
// id order.
func CollectLabelInfos(stage model.Stage) ([]LabelInfo, error) {
	board, err := engine.NewBoard(stage.Rows, stage.Cols)
	if err != nil {
		return nil, err
	}
	labels := make([]LabelInfo, 0, board.Len())
	for id := 0; id < board.Len(); id++ {
		p, err := board.Piece(id)
		if err != nil {
			return nil, err
		}
		labels = append(labels, LabelInfo{
			StageLabel: stage.Label,
			Grid:       stage.GridLabel(),
			Piece:      id,
			Row:        id / stage.Cols,
			Col:        id % stage.Cols,
			Neighbors:  p.Neighbors,
		})
	}
	return labels, nil
}

// ExportLabels generates a PDF of QR-coded labels for the pieces of a stage
// printed and cut by hand. Each label names the piece, its grid cell and its
// neighbors. Labels are laid out on a standard label sheet format
// (Avery 5160 / 3 columns x 10 rows on US Letter).
func ExportLabels(path string, stage model.Stage) error {
	labels, err := CollectLabelInfos(stage)
	if err != nil {
		return fmt.Errorf("cannot label stage %q: %w", stage.Label, err)
	}

	pdf := fpdf.New("P", "mm", "Letter", "")
	pdf.SetAutoPageBreak(false, 0)

	for i, label := range labels {
		if i%labelsPerPage == 0 {
			pdf.AddPage()
		}

		posOnPage := i % labelsPerPage
		col := posOnPage % labelCols
		row := posOnPage / labelCols

		x := labelMarginLeft + float64(col)*labelWidth
		y := labelMarginTop + float64(row)*labelHeight

		if err := renderLabel(pdf, x, y, label); err != nil {
			return fmt.Errorf("failed to render label for piece %d: %w", label.Piece, err)
		}
	}

	return pdf.OutputFileAndClose(path)
}

// renderLabel draws a single label at the given position.
func renderLabel(pdf *fpdf.Fpdf, x, y float64, info LabelInfo) error {
	// Light border as a cutting guide
	pdf.SetDrawColor(200, 200, 200)
	pdf.SetLineWidth(0.1)
	pdf.Rect(x, y, labelWidth, labelHeight, "D")

	qrData, err := json.Marshal(info)
	if err != nil {
		return fmt.Errorf("failed to marshal label info: %w", err)
	}

	qrPNG, err := qrcode.Encode(string(qrData), qrcode.Medium, 256)
	if err != nil {
		return fmt.Errorf("failed to generate QR code: %w", err)
	}

	imgName := fmt.Sprintf("qr_%s_%d", info.Grid, info.Piece)
	pdf.RegisterImageOptionsReader(imgName, fpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(qrPNG))

	qrX := x + labelWidth - qrSize - labelPadding
	qrY := y + (labelHeight-qrSize)/2
	pdf.ImageOptions(imgName, qrX, qrY, qrSize, qrSize, false, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")

	textX := x + labelPadding
	textW := labelWidth - qrSize - 3*labelPadding

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(textX, y+labelPadding)
	pdf.CellFormat(textW, 4.5, fmt.Sprintf("Piece %d", info.Piece), "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	pdf.SetXY(textX, y+labelPadding+5)
	cell := fmt.Sprintf("Row %d, col %d of %s", info.Row+1, info.Col+1, info.Grid)
	pdf.CellFormat(textW, 3.5, cell, "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 6)
	pdf.SetTextColor(100, 100, 100)
	pdf.SetXY(textX, y+labelPadding+9)
	pdf.CellFormat(textW, 3, neighborLine(info.Neighbors), "", 1, "L", false, 0, "")

	// Truncate the stage label if too long
	stageLabel := info.StageLabel
	if stageLabel != "" {
		if pdf.GetStringWidth(stageLabel) > textW {
			for len(stageLabel) > 0 && pdf.GetStringWidth(stageLabel+"...") > textW {
				stageLabel = stageLabel[:len(stageLabel)-1]
			}
			stageLabel += "..."
		}
		pdf.SetXY(textX, y+labelPadding+12.5)
		pdf.SetFont("Helvetica", "I", 6)
		pdf.CellFormat(textW, 3, stageLabel, "", 0, "L", false, 0, "")
	}

	pdf.SetTextColor(0, 0, 0)
	return nil
}

// neighborLine renders neighbor ids as "L- R1 T- B4".
func neighborLine(n [model.NumNeighbors]int) string {
	var buf bytes.Buffer
	for i, d := range model.Directions {
		if i > 0 {
			buf.WriteByte(' ')
		}
		buf.WriteString(d.String()[:1])
		if n[d] == model.NoNeighbor {
			buf.WriteByte('-')
		} else {
			fmt.Fprintf(&buf, "%d", n[d])
		}
	}
	return buf.String()
}
