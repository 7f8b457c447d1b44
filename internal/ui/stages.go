package ui

import (
	"fmt"
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/piwi3910/jigsnap/internal/model"
)

// showStageEditor opens a window for editing the stage plan. Saving the plan
// starts a new game with it.
func (a *App) showStageEditor() {
	w := fyne.CurrentApp().NewWindow("Stage Plan")
	w.Resize(fyne.NewSize(600, 450))

	stages := make([]model.Stage, len(a.config.Stages))
	copy(stages, a.config.Stages)
	selectedIdx := -1

	var listWidget *widget.List
	listWidget = widget.NewList(
		func() int {
			return len(stages)
		},
		func() fyne.CanvasObject {
			return container.NewHBox(
				widget.NewIcon(theme.MediaPhotoIcon()),
				widget.NewLabel("Stage Label"),
				layout.NewSpacer(),
				widget.NewLabel("00x00"),
			)
		},
		func(id widget.ListItemID, obj fyne.CanvasObject) {
			box := obj.(*fyne.Container)
			nameLabel := box.Objects[1].(*widget.Label)
			gridLabel := box.Objects[3].(*widget.Label)
			st := stages[id]
			name := st.Label
			if name == "" {
				name = st.Image
			}
			nameLabel.SetText(fmt.Sprintf("%d. %s", id+1, name))
			gridLabel.SetText(st.GridLabel())
		},
	)
	listWidget.OnSelected = func(id widget.ListItemID) { selectedIdx = id }
	listWidget.OnUnselected = func(widget.ListItemID) { selectedIdx = -1 }

	refresh := func() {
		listWidget.UnselectAll()
		listWidget.Refresh()
	}

	addBtn := widget.NewButtonWithIcon("Add", theme.ContentAddIcon(), func() {
		a.showStageForm(w, "Add Stage", model.Stage{Rows: 4, Cols: 4}, func(st model.Stage) {
			stages = append(stages, st)
			refresh()
		})
	})

	editBtn := widget.NewButtonWithIcon("Edit", theme.DocumentCreateIcon(), func() {
		if selectedIdx < 0 || selectedIdx >= len(stages) {
			dialog.ShowInformation("No Selection", "Select a stage to edit.", w)
			return
		}
		idx := selectedIdx
		a.showStageForm(w, "Edit Stage", stages[idx], func(st model.Stage) {
			stages[idx] = st
			refresh()
		})
	})

	upBtn := widget.NewButtonWithIcon("", theme.MoveUpIcon(), func() {
		if selectedIdx <= 0 || selectedIdx >= len(stages) {
			return
		}
		idx := selectedIdx
		stages[idx-1], stages[idx] = stages[idx], stages[idx-1]
		listWidget.Refresh()
		listWidget.Select(idx - 1)
	})

	downBtn := widget.NewButtonWithIcon("", theme.MoveDownIcon(), func() {
		if selectedIdx < 0 || selectedIdx >= len(stages)-1 {
			return
		}
		idx := selectedIdx
		stages[idx+1], stages[idx] = stages[idx], stages[idx+1]
		listWidget.Refresh()
		listWidget.Select(idx + 1)
	})

	deleteBtn := widget.NewButtonWithIcon("Delete", theme.DeleteIcon(), func() {
		if selectedIdx < 0 || selectedIdx >= len(stages) {
			dialog.ShowInformation("No Selection", "Select a stage to delete.", w)
			return
		}
		if len(stages) == 1 {
			dialog.ShowInformation("Cannot Delete", "A game needs at least one stage.", w)
			return
		}
		idx := selectedIdx
		dialog.ShowConfirm("Delete Stage",
			fmt.Sprintf("Delete stage %d?", idx+1),
			func(ok bool) {
				if !ok {
					return
				}
				stages = append(stages[:idx], stages[idx+1:]...)
				refresh()
			}, w)
	})

	saveBtn := widget.NewButtonWithIcon("Save and Restart", theme.DocumentSaveIcon(), func() {
		a.applyStages(stages)
		w.Close()
	})
	saveBtn.Importance = widget.HighImportance

	cancelBtn := widget.NewButton("Cancel", func() { w.Close() })

	toolbar := container.NewHBox(addBtn, editBtn, deleteBtn, upBtn, downBtn)
	footer := container.NewHBox(layout.NewSpacer(), cancelBtn, saveBtn)

	w.SetContent(container.NewBorder(toolbar, footer, nil, nil, listWidget))
	w.Show()
}

// showStageForm edits a single stage and passes the result to onSave.
func (a *App) showStageForm(parent fyne.Window, title string, st model.Stage, onSave func(model.Stage)) {
	labelEntry := widget.NewEntry()
	labelEntry.SetText(st.Label)
	labelEntry.SetPlaceHolder("Castle")

	imageEntry := widget.NewEntry()
	imageEntry.SetText(st.Image)
	imageEntry.SetPlaceHolder("castle.jpg (empty for a generated image)")

	rowsEntry := widget.NewEntry()
	rowsEntry.SetText(strconv.Itoa(st.Rows))
	colsEntry := widget.NewEntry()
	colsEntry.SetText(strconv.Itoa(st.Cols))

	browseBtn := widget.NewButtonWithIcon("", theme.FolderOpenIcon(), func() {
		dialog.ShowFileOpen(func(reader fyne.URIReadCloser, err error) {
			if err != nil || reader == nil {
				return
			}
			defer reader.Close()
			imageEntry.SetText(reader.URI().Path())
		}, parent)
	})

	form := dialog.NewForm(title, "Save", "Cancel",
		[]*widget.FormItem{
			widget.NewFormItem("Label", labelEntry),
			widget.NewFormItem("Image", container.NewBorder(nil, nil, nil, browseBtn, imageEntry)),
			widget.NewFormItem("Rows", rowsEntry),
			widget.NewFormItem("Columns", colsEntry),
		},
		func(ok bool) {
			if !ok {
				return
			}
			rows, err := strconv.Atoi(rowsEntry.Text)
			if err != nil || rows < 1 {
				dialog.ShowError(fmt.Errorf("rows must be a positive whole number"), parent)
				return
			}
			cols, err := strconv.Atoi(colsEntry.Text)
			if err != nil || cols < 1 {
				dialog.ShowError(fmt.Errorf("columns must be a positive whole number"), parent)
				return
			}
			onSave(model.Stage{
				Label: labelEntry.Text,
				Image: imageEntry.Text,
				Rows:  rows,
				Cols:  cols,
			})
		}, parent)
	form.Resize(fyne.NewSize(450, 280))
	form.Show()
}
