package ui

import (
	"fmt"
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/piwi3910/jigsnap/internal/model"
)

// themeOptions lists the theme names accepted by ThemeFor.
var themeOptions = []string{"system", "light", "dark"}

// showSettingsDialog edits a copy of the preferences and applies it on Save.
// Gameplay settings take effect from the next stage that starts.
func (a *App) showSettingsDialog() {
	s := a.config

	floatEntry := func(val *float64) *widget.Entry {
		e := widget.NewEntry()
		e.SetText(strconv.FormatFloat(*val, 'f', -1, 64))
		e.OnChanged = func(text string) {
			if v, err := strconv.ParseFloat(text, 64); err == nil {
				*val = v
			}
		}
		return e
	}

	stringEntry := func(val *string, placeholder string) *widget.Entry {
		e := widget.NewEntry()
		e.SetPlaceHolder(placeholder)
		e.SetText(*val)
		e.OnChanged = func(text string) { *val = text }
		return e
	}

	// --- Gameplay ---
	scrambleCheck := widget.NewCheck("", func(b bool) { s.ScrambleOnStart = b })
	scrambleCheck.Checked = s.ScrambleOnStart

	gameplaySection := widget.NewCard("Gameplay",
		"Snap threshold is in scene units; the whole board spans 2.0",
		container.NewGridWithColumns(2,
			widget.NewLabel("Snap Threshold"), floatEntry(&s.SnapThreshold),
			widget.NewLabel("Scatter Pieces on Start"), scrambleCheck,
		))

	// --- Appearance ---
	themeSelect := widget.NewSelect(themeOptions, func(selected string) {
		s.Theme = selected
	})
	themeSelect.SetSelected(s.Theme)

	appearanceSection := widget.NewCard("Appearance", "",
		container.NewGridWithColumns(2,
			widget.NewLabel("Theme"), themeSelect,
		))

	// --- Folders ---
	folderSection := widget.NewCard("Folders",
		"Relative stage images are looked up in the image folder",
		container.NewGridWithColumns(2,
			widget.NewLabel("Image Folder"), stringEntry(&s.ImageDir, "Working directory"),
			widget.NewLabel("Export Folder"), stringEntry(&s.ExportDir, "Last used"),
		))

	content := container.NewVScroll(container.NewVBox(
		gameplaySection,
		appearanceSection,
		folderSection,
	))

	d := dialog.NewCustomConfirm("Settings", "Save", "Cancel", content, func(save bool) {
		if !save {
			return
		}
		if err := validateSettings(s); err != nil {
			dialog.ShowError(err, a.window)
			return
		}
		a.applySettings(s)
	}, a.window)
	d.Resize(fyne.NewSize(520, 420))
	d.Show()
}

// validateSettings rejects values Normalize would silently replace.
func validateSettings(cfg model.AppConfig) error {
	if !model.ValidThreshold(cfg.SnapThreshold) {
		return fmt.Errorf("snap threshold must be a positive number, got %g", cfg.SnapThreshold)
	}
	return nil
}

// applySettings stores the new preferences and switches theme immediately.
func (a *App) applySettings(cfg model.AppConfig) {
	cfg.Normalize()
	a.config = cfg
	a.app.Settings().SetTheme(ThemeFor(cfg.Theme))
	a.saveConfig()
	a.statusLabel.SetText("Settings saved")
}
