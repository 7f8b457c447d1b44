package export

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/piwi3910/jigsnap/internal/model"
)

// buildTestResults creates a realistic campaign run for testing.
func buildTestResults() []model.StageResult {
	done := time.Date(2026, 10, 15, 14, 30, 0, 0, time.UTC)
	stages := model.DefaultStages()
	times := []time.Duration{95 * time.Second, 4 * time.Minute, 11*time.Minute + 3*time.Second, time.Second}
	results := make([]model.StageResult, len(stages))
	for i, s := range stages {
		results[i] = model.NewStageResult(i, s, times[i], done.Add(time.Duration(i)*time.Minute))
	}
	return results
}

func TestExportPDF_CreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.pdf")

	if err := ExportPDF(path, buildTestResults()); err != nil {
		t.Fatalf("ExportPDF returned error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("PDF file was not created: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Error("output does not start with a PDF header")
	}
	// Four stage pages with QR images plus a summary
	if len(data) < 2000 {
		t.Errorf("PDF file seems too small: %d bytes", len(data))
	}
}

func TestExportPDF_EmptyResults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.pdf")

	if err := ExportPDF(path, nil); err == nil {
		t.Fatal("expected error for empty results, got nil")
	}
}

func TestExportPDF_LargeGrid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "large.pdf")
	r := model.NewStageResult(0, model.Stage{Label: "Huge", Rows: 30, Cols: 40}, time.Hour, time.Now())

	if err := ExportPDF(path, []model.StageResult{r}); err != nil {
		t.Fatalf("ExportPDF returned error: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("PDF file was not created: %v", err)
	}
}

func TestCountPiecesAndTotal(t *testing.T) {
	results := buildTestResults()
	if got := countPieces(results); got != 16+25+49+1 {
		t.Errorf("countPieces() = %d, want 91", got)
	}
	want := 95*time.Second + 4*time.Minute + 11*time.Minute + 3*time.Second + time.Second
	if got := totalElapsed(results); got != want {
		t.Errorf("totalElapsed() = %v, want %v", got, want)
	}
}

func TestLabelFontSize(t *testing.T) {
	tests := []struct {
		w, h float64
		want float64
	}{
		{50, 50, 8},
		{30, 25, 7},
		{10, 15, 6},
	}
	for _, tt := range tests {
		got := labelFontSize(tt.w, tt.h)
		if got != tt.want {
			t.Errorf("labelFontSize(%v, %v) = %v, want %v", tt.w, tt.h, got, tt.want)
		}
	}
}
