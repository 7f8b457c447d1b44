package ui

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/piwi3910/jigsnap/internal/model"
	"github.com/piwi3910/jigsnap/internal/project"
)

var bestTimesHeaders = []string{"Grid", "Pieces", "Best Time", "Solves"}

// bestTimesCell returns the text of one cell of the best-times table.
// Row 0 is the header.
func bestTimesCell(times []project.BestTime, row, col int) string {
	if row == 0 {
		return bestTimesHeaders[col]
	}
	bt := times[row-1]
	switch col {
	case 0:
		return bt.Grid
	case 1:
		return fmt.Sprintf("%d", bt.Pieces)
	case 2:
		return model.FormatElapsed(bt.Elapsed)
	default:
		return fmt.Sprintf("%d", bt.Runs)
	}
}

// showBestTimesDialog lists the fastest recorded solve for each grid size.
func (a *App) showBestTimesDialog() {
	history, err := project.LoadResults(a.resultsPath)
	if err != nil {
		dialog.ShowError(err, a.window)
		return
	}
	times := history.BestTimes()
	if len(times) == 0 {
		dialog.ShowInformation("Best Times", "No solved stages have been recorded yet.", a.window)
		return
	}

	table := widget.NewTable(
		func() (int, int) { return len(times) + 1, len(bestTimesHeaders) },
		func() fyne.CanvasObject { return widget.NewLabel("000min 00sec") },
		func(id widget.TableCellID, obj fyne.CanvasObject) {
			label := obj.(*widget.Label)
			label.TextStyle = fyne.TextStyle{Bold: id.Row == 0}
			label.SetText(bestTimesCell(times, id.Row, id.Col))
		},
	)

	d := dialog.NewCustom("Best Times", "Close", table, a.window)
	d.Resize(fyne.NewSize(480, 360))
	d.Show()
}
