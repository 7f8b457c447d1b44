package ui

import (
	"fmt"
	"image"
	"io"
	"log"
	"strings"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	fynetooltip "github.com/dweymouth/fyne-tooltip"

	"github.com/piwi3910/jigsnap/internal/engine"
	"github.com/piwi3910/jigsnap/internal/export"
	"github.com/piwi3910/jigsnap/internal/importer"
	"github.com/piwi3910/jigsnap/internal/model"
	"github.com/piwi3910/jigsnap/internal/project"
	"github.com/piwi3910/jigsnap/internal/ui/widgets"
)

// tickInterval is how often the stage clock is redrawn and completion polled.
const tickInterval = 100 * time.Millisecond

// Options configures an App.
type Options struct {
	Config      model.AppConfig
	ConfigPath  string
	ResultsPath string
	Seed        int64 // 0 seeds from the clock
	Debug       bool
	Logger      *log.Logger
}

// App holds all application state and UI references.
type App struct {
	app    fyne.App
	window fyne.Window
	logger *log.Logger

	config      model.AppConfig
	configPath  string
	resultsPath string
	seed        int64
	debug       bool

	campaign *engine.Campaign
	// Set between a stage completing and the player moving on
	awaitingAdvance bool

	// UI references for dynamic updates
	board       *widgets.PuzzleBoard
	stageLabel  *widget.Label
	timerLabel  *widget.Label
	statusLabel *widget.Label

	stop chan struct{}
}

func NewApp(application fyne.App, window fyne.Window, opts Options) *App {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	cfg := opts.Config
	cfg.Normalize()
	return &App{
		app:         application,
		window:      window,
		logger:      logger,
		config:      cfg,
		configPath:  opts.ConfigPath,
		resultsPath: opts.ResultsPath,
		seed:        opts.Seed,
		debug:       opts.Debug,
		stop:        make(chan struct{}),
	}
}

// SetupMenus creates the native menu bar for the application.
func (a *App) SetupMenus() {
	gameMenu := fyne.NewMenu("Game",
		fyne.NewMenuItem("New Game", func() {
			a.newGame()
		}),
		fyne.NewMenuItem("Restart Stage", func() {
			a.restartStage()
		}),
		fyne.NewMenuItem("Scramble", func() {
			a.scramble()
		}),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Best Times...", func() {
			a.showBestTimesDialog()
		}),
		fyne.NewMenuItem("Settings...", func() {
			a.showSettingsDialog()
		}),
	)

	stagesMenu := fyne.NewMenu("Stages",
		fyne.NewMenuItem("Edit Stages...", func() {
			a.showStageEditor()
		}),
		fyne.NewMenuItem("Import Stage Plan...", func() {
			a.importStagePlan()
		}),
		fyne.NewMenuItem("Reset to Default Stages", func() {
			a.applyStages(model.DefaultStages())
		}),
	)

	exportMenu := fyne.NewMenu("Export",
		fyne.NewMenuItem("Results Report (PDF)...", func() {
			a.exportResultsPDF()
		}),
		fyne.NewMenuItem("Results History (Excel)...", func() {
			a.exportResultsXLSX()
		}),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Piece Labels (PDF)...", func() {
			a.exportPieceLabels()
		}),
		fyne.NewMenuItem("Cut Pattern (DXF)...", func() {
			a.exportCutPattern()
		}),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Back Up All Data...", func() {
			a.exportAllData()
		}),
		fyne.NewMenuItem("Restore Backup...", func() {
			a.importAllData()
		}),
	)

	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("How to Play", func() {
			a.showHelpDialog()
		}),
		fyne.NewMenuItem("About", func() {
			a.showAboutDialog()
		}),
	)

	a.window.SetMainMenu(fyne.NewMainMenu(gameMenu, stagesMenu, exportMenu, helpMenu))
}

func (a *App) showAboutDialog() {
	dialog.ShowInformation(
		"About JigSnap",
		"JigSnap: Jigsaw Puzzle\n\n"+
			"Drag the pieces into place; neighbors snap together\n"+
			"and move as one once joined.\n\n"+
			"Version 1.0.0",
		a.window,
	)
}

func (a *App) showHelpDialog() {
	dialog.ShowInformation(
		"How to Play",
		"Drag a piece with the left mouse button. Drop it next to a piece it\n"+
			"belongs beside and the two lock together.\n\n"+
			"S  scatter every piece and break all groups\n"+
			"D  write every piece's group size to the log\n\n"+
			"A stage is solved when every piece is joined.",
		a.window,
	)
}

// Build constructs the full UI and returns the root container.
func (a *App) Build() fyne.CanvasObject {
	a.board = widgets.NewPuzzleBoard()
	a.board.SetOnRelease(a.onRelease)

	a.stageLabel = widget.NewLabelWithStyle("", fyne.TextAlignLeading, fyne.TextStyle{Bold: true})
	a.timerLabel = widget.NewLabelWithStyle(model.FormatElapsed(0), fyne.TextAlignTrailing, fyne.TextStyle{Monospace: true})
	a.statusLabel = widget.NewLabel("")

	toolbar := container.NewHBox(
		a.stageLabel,
		layout.NewSpacer(),
		a.timerLabel,
		newIconButtonWithTooltip(theme.ViewRefreshIcon(), "Scramble (S)", a.scramble),
		newIconButtonWithTooltip(theme.MediaReplayIcon(), "Restart stage", a.restartStage),
		newIconButtonWithTooltip(theme.HelpIcon(), "How to play", a.showHelpDialog),
	)

	content := container.NewBorder(toolbar, a.statusLabel, nil, nil, a.board)
	return fynetooltip.AddWindowToolTipLayer(content, a.window.Canvas())
}

// Start begins a new game, hooks up the keyboard and starts the clock.
func (a *App) Start() {
	if dc, ok := a.window.Canvas().(desktop.Canvas); ok {
		dc.SetOnKeyDown(func(ev *fyne.KeyEvent) { a.handleKey(ev, true) })
		dc.SetOnKeyUp(func(ev *fyne.KeyEvent) { a.handleKey(ev, false) })
	} else {
		a.window.Canvas().SetOnTypedKey(func(ev *fyne.KeyEvent) { a.handleKey(ev, true) })
	}

	a.newGame()

	ticker := time.NewTicker(tickInterval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case now := <-ticker.C:
				fyne.Do(func() { a.tick(now) })
			case <-a.stop:
				return
			}
		}
	}()
}

// Stop halts the clock. It is safe to call more than once.
func (a *App) Stop() {
	select {
	case <-a.stop:
	default:
		close(a.stop)
	}
}

// ─── Game Flow ─────────────────────────────────────────────

func (a *App) campaignOptions() engine.CampaignOptions {
	seed := a.seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return engine.CampaignOptions{
		Threshold: a.config.SnapThreshold,
		Scramble:  a.config.ScrambleOnStart,
		Seed:      seed,
		Logger:    a.logger,
		Debug:     a.debug,
	}
}

func (a *App) newGame() {
	c, err := engine.NewCampaign(a.config.Stages, a.campaignOptions())
	if err != nil {
		dialog.ShowError(err, a.window)
		return
	}
	s, err := c.Start(time.Now())
	if err != nil {
		dialog.ShowError(err, a.window)
		return
	}
	a.campaign = c
	a.awaitingAdvance = false
	a.showStage(s)
}

func (a *App) restartStage() {
	if a.campaign == nil {
		a.newGame()
		return
	}
	s, err := a.campaign.Restart(time.Now())
	if err != nil {
		dialog.ShowError(err, a.window)
		return
	}
	a.awaitingAdvance = false
	a.showStage(s)
}

func (a *App) scramble() {
	s := a.board.Session()
	if s == nil || a.awaitingAdvance {
		return
	}
	s.Scramble()
	a.board.Refresh()
	a.statusLabel.SetText("Pieces scattered")
}

// showStage loads the stage image, falling back to a generated picture,
// and puts the session on the board.
func (a *App) showStage(s *engine.Session) {
	stage := s.Stage()
	a.board.SetSession(s, a.stageImage(stage, s.Index()))

	label := stage.Label
	if label == "" {
		label = stage.Image
	}
	a.stageLabel.SetText(fmt.Sprintf("Stage %d of %d: %s (%s)",
		s.Index()+1, len(a.campaign.Stages()), label, stage.GridLabel()))
	a.timerLabel.SetText(model.FormatElapsed(0))
	a.statusLabel.SetText(fmt.Sprintf("%d pieces", stage.Pieces()))
}

func (a *App) stageImage(stage model.Stage, index int) image.Image {
	if stage.Image == "" {
		return widgets.Placeholder(stage, widgets.PlaceholderSize)
	}
	path := project.ResolveImage(a.config.ImageDir, stage.Image)
	img, err := widgets.LoadImage(path)
	if err != nil {
		a.logger.Printf("stage %d: image unavailable, using placeholder: %v", index+1, err)
		return widgets.Placeholder(stage, widgets.PlaceholderSize)
	}
	return img
}

// tick redraws the clock and checks for completion. It runs on the UI goroutine.
func (a *App) tick(now time.Time) {
	if a.campaign == nil || a.campaign.Session() == nil {
		return
	}
	a.timerLabel.SetText(model.FormatElapsed(a.campaign.Session().Elapsed(now)))
	if a.awaitingAdvance {
		return
	}
	if result, ok := a.campaign.Poll(now); ok {
		a.stageComplete(result)
	}
}

func (a *App) stageComplete(r model.StageResult) {
	a.awaitingAdvance = true
	if a.resultsPath != "" {
		if _, err := project.AppendResult(a.resultsPath, r); err != nil {
			a.logger.Printf("cannot record result: %v", err)
		}
	}

	if a.campaign.Finished() {
		a.showFinished()
		return
	}

	msg := fmt.Sprintf("Stage %d solved in %s.", r.Stage+1, model.FormatElapsed(r.Elapsed))
	d := dialog.NewInformation("Stage Complete", msg, a.window)
	d.SetOnClosed(a.advance)
	d.Show()
}

func (a *App) advance() {
	// A restart while the dialog was open already replaced the stage
	if !a.awaitingAdvance {
		return
	}
	s, more, err := a.campaign.Advance(time.Now())
	if err != nil {
		dialog.ShowError(err, a.window)
		return
	}
	if !more {
		a.showFinished()
		return
	}
	a.awaitingAdvance = false
	a.showStage(s)
}

func (a *App) showFinished() {
	results := a.campaign.Results()
	lines := make([]string, 0, len(results)+2)
	for _, r := range results {
		lines = append(lines, fmt.Sprintf("Stage %d (%s): %s", r.Stage+1, r.GridLabel(), model.FormatElapsed(r.Elapsed)))
	}
	lines = append(lines, "", "Total: "+model.FormatElapsed(a.campaign.TotalElapsed()))
	a.statusLabel.SetText("All stages complete")

	content := widget.NewLabel(strings.Join(lines, "\n"))
	dialog.ShowCustomConfirm("Puzzle Complete", "Play Again", "Close", content, func(again bool) {
		if again {
			a.newGame()
		}
	}, a.window)
}

// ─── Input ─────────────────────────────────────────────────

func (a *App) handleKey(ev *fyne.KeyEvent, pressed bool) {
	s := a.board.Session()
	if s == nil || a.awaitingAdvance {
		return
	}
	reports := s.OnKey(engine.Key(ev.Name), pressed)
	if !pressed {
		return
	}
	switch engine.Key(ev.Name) {
	case engine.KeyScramble:
		a.board.Refresh()
		a.statusLabel.SetText("Pieces scattered")
	case engine.KeyDebugDump:
		grouped := 0
		for _, r := range reports {
			if r.GroupSize > 0 {
				grouped++
			}
		}
		a.statusLabel.SetText(fmt.Sprintf("%d of %d pieces grouped (details in log)", grouped, len(reports)))
	}
}

func (a *App) onRelease(snaps []engine.Snap, err error) {
	if err != nil {
		a.logger.Printf("placement failed: %v", err)
		dialog.ShowError(err, a.window)
		return
	}
	if len(snaps) > 0 {
		a.statusLabel.SetText(fmt.Sprintf("Piece %d snapped to piece %d", snaps[0].Piece, snaps[0].Neighbor))
	}
}

// ─── Config ────────────────────────────────────────────────

func (a *App) saveConfig() {
	if a.configPath == "" {
		return
	}
	if err := project.SaveAppConfig(a.configPath, a.config); err != nil {
		dialog.ShowError(fmt.Errorf("failed to save settings: %w", err), a.window)
	}
}

// applyStages replaces the stage plan, saves it and starts a new game.
func (a *App) applyStages(stages []model.Stage) {
	a.config.Stages = stages
	a.config.Normalize()
	a.saveConfig()
	a.newGame()
}

// ─── Import / Export ───────────────────────────────────────

func (a *App) importStagePlan() {
	dialog.ShowFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		defer reader.Close()

		a.handleImportResult(importer.Import(reader.URI().Path()))
	}, a.window)
}

func (a *App) handleImportResult(result importer.ImportResult) {
	if len(result.Errors) > 0 {
		errorMsg := "Errors encountered during import:\n\n" + strings.Join(result.Errors, "\n")
		dialog.ShowError(fmt.Errorf("%s", errorMsg), a.window)
	}

	if len(result.Warnings) > 0 {
		a.logger.Printf("import warnings: %v", result.Warnings)
	}

	if len(result.Stages) == 0 {
		return
	}
	msg := fmt.Sprintf("Replace the stage plan with %d imported stages and start a new game?", len(result.Stages))
	if len(result.Errors) > 0 {
		msg += fmt.Sprintf("\n\n%d rows had errors and were skipped.", len(result.Errors))
	}
	dialog.ShowConfirm("Import Stage Plan", msg, func(ok bool) {
		if ok {
			a.applyStages(result.Stages)
		}
	}, a.window)
}

// saveFile asks for a destination and passes its path to write.
func (a *App) saveFile(defaultName string, write func(path string) error) {
	d := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		defer writer.Close()
		path := writer.URI().Path()
		if err := write(path); err != nil {
			dialog.ShowError(err, a.window)
			return
		}
		dialog.ShowInformation("Export Complete", fmt.Sprintf("Saved to %s", path), a.window)
	}, a.window)
	if a.config.ExportDir != "" {
		if dir, err := storage.ListerForURI(storage.NewFileURI(a.config.ExportDir)); err == nil {
			d.SetLocation(dir)
		}
	}
	d.SetFileName(defaultName)
	d.Show()
}

func (a *App) currentStage() (model.Stage, bool) {
	if a.campaign == nil || a.campaign.Session() == nil {
		return model.Stage{}, false
	}
	return a.campaign.Session().Stage(), true
}

func (a *App) exportResultsPDF() {
	if a.campaign == nil || len(a.campaign.Results()) == 0 {
		dialog.ShowInformation("No results", "Solve at least one stage before exporting a report.", a.window)
		return
	}
	results := a.campaign.Results()
	a.saveFile("jigsnap-results.pdf", func(path string) error {
		return export.ExportPDF(path, results)
	})
}

func (a *App) exportResultsXLSX() {
	history, err := project.LoadResults(a.resultsPath)
	if err != nil {
		dialog.ShowError(err, a.window)
		return
	}
	if len(history.Results) == 0 {
		dialog.ShowInformation("No results", "No solved stages have been recorded yet.", a.window)
		return
	}
	a.saveFile("jigsnap-results.xlsx", func(path string) error {
		return export.ExportResultsXLSX(path, history)
	})
}

func (a *App) exportPieceLabels() {
	stage, ok := a.currentStage()
	if !ok {
		return
	}
	a.saveFile(fmt.Sprintf("labels-%s.pdf", stage.GridLabel()), func(path string) error {
		return export.ExportLabels(path, stage)
	})
}

func (a *App) exportCutPattern() {
	stage, ok := a.currentStage()
	if !ok {
		return
	}
	a.saveFile(fmt.Sprintf("cut-%s.dxf", stage.GridLabel()), func(path string) error {
		return export.ExportCutPattern(path, stage, export.DefaultCellSize)
	})
}

func (a *App) exportAllData() {
	history, err := project.LoadResults(a.resultsPath)
	if err != nil {
		dialog.ShowError(err, a.window)
		return
	}
	a.saveFile("jigsnap-backup.json", func(path string) error {
		return project.ExportAllData(path, a.config, history)
	})
}

func (a *App) importAllData() {
	dialog.ShowFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		defer reader.Close()

		backup, err := project.ImportAllData(reader.URI().Path())
		if err != nil {
			dialog.ShowError(err, a.window)
			return
		}
		if a.resultsPath != "" {
			if err := project.SaveResults(a.resultsPath, project.ResultsHistory{Results: backup.Results}); err != nil {
				dialog.ShowError(err, a.window)
				return
			}
		}
		a.config = backup.Config
		a.app.Settings().SetTheme(ThemeFor(a.config.Theme))
		a.applyStages(a.config.Stages)
	}, a.window)
}
