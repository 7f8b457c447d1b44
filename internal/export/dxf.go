package export

import (
	"fmt"

	"github.com/piwi3910/jigsnap/internal/model"
	"github.com/yofu/dxf"
)

// DefaultCellSize is the side of one printed piece in millimetres.
const DefaultCellSize = 40.0

// CutLayer holds every cut line of a pattern.
const CutLayer = "CUT"

// ExportCutPattern writes a DXF drawing of the straight cuts that split a
// printed stage image into its pieces: the outer border plus one line per
// row and column boundary, each spanning the full image. The image's top
// left corner is at the origin with y growing downward, matching the print.
func ExportCutPattern(path string, stage model.Stage, cellSize float64) error {
	if stage.Rows <= 0 || stage.Cols <= 0 {
		return fmt.Errorf("cannot cut stage %q: invalid grid %s", stage.Label, stage.GridLabel())
	}
	if cellSize <= 0 {
		cellSize = DefaultCellSize
	}

	d := dxf.NewDrawing()
	if _, err := d.AddLayer(CutLayer, dxf.DefaultColor, dxf.DefaultLineType, true); err != nil {
		return fmt.Errorf("failed to add layer: %w", err)
	}

	w := float64(stage.Cols) * cellSize
	h := float64(stage.Rows) * cellSize
	for c := 0; c <= stage.Cols; c++ {
		x := float64(c) * cellSize
		if _, err := d.Line(x, 0, 0, x, -h, 0); err != nil {
			return fmt.Errorf("failed to draw column cut %d: %w", c, err)
		}
	}
	for r := 0; r <= stage.Rows; r++ {
		y := -float64(r) * cellSize
		if _, err := d.Line(0, y, 0, w, y, 0); err != nil {
			return fmt.Errorf("failed to draw row cut %d: %w", r, err)
		}
	}

	if err := d.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save DXF: %w", err)
	}
	return nil
}
