package importer

import (
	"path/filepath"
	"testing"

	"github.com/yofu/dxf"
)

// writeGrid draws a rows x cols cut grid of size-unit cells as LINE entities.
func writeGrid(t *testing.T, rows, cols int, size float64) string {
	t.Helper()
	d := dxf.NewDrawing()
	w, h := float64(cols)*size, float64(rows)*size
	for c := 0; c <= cols; c++ {
		x := float64(c) * size
		if _, err := d.Line(x, 0, 0, x, h, 0); err != nil {
			t.Fatalf("line: %v", err)
		}
	}
	for r := 0; r <= rows; r++ {
		y := float64(r) * size
		if _, err := d.Line(0, y, 0, w, y, 0); err != nil {
			t.Fatalf("line: %v", err)
		}
	}
	// A diagonal alignment mark is not a cut
	if _, err := d.Line(0, 0, 0, size, size, 0); err != nil {
		t.Fatalf("line: %v", err)
	}

	path := filepath.Join(t.TempDir(), "castle.dxf")
	if err := d.SaveAs(path); err != nil {
		t.Fatalf("save: %v", err)
	}
	return path
}

func TestImportDXF_RecoversGrid(t *testing.T) {
	path := writeGrid(t, 3, 5, 40)

	result := Import(path)

	if len(result.Errors) > 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if len(result.Stages) != 1 {
		t.Fatalf("expected 1 stage, got %d", len(result.Stages))
	}
	s := result.Stages[0]
	if s.Rows != 3 || s.Cols != 5 {
		t.Errorf("expected 3x5, got %s", s.GridLabel())
	}
	if s.Label != "castle" {
		t.Errorf("expected label from file name, got %q", s.Label)
	}
	if len(result.Warnings) != 1 {
		t.Errorf("expected one warning for the diagonal, got %v", result.Warnings)
	}
}

func TestImportDXF_FileNotFound(t *testing.T) {
	result := ImportDXF(filepath.Join(t.TempDir(), "missing.dxf"))
	if len(result.Errors) == 0 {
		t.Error("expected error for missing file")
	}
}

func TestClusterCoords(t *testing.T) {
	got := clusterCoords([]float64{10, 0, 10.004, 20, 0.001}, cutTolerance)
	if len(got) != 3 {
		t.Fatalf("expected 3 clusters, got %v", got)
	}
	if got[0] != 0 || got[1] != 10 || got[2] != 20 {
		t.Errorf("unexpected clusters %v", got)
	}
}
