// JigSnap: Jigsaw Puzzle with Neighbor Snapping
//
// A cross-platform desktop jigsaw game. Each stage cuts an image into a grid
// of pieces; pieces dropped next to their true neighbors lock together and
// move as one group until the whole picture is assembled.
//
// Build:
//   go build -o jigsnap ./cmd/jigsnap
//
// Cross-compile:
//   GOOS=windows GOARCH=amd64 go build -o jigsnap.exe ./cmd/jigsnap
//   GOOS=darwin  GOARCH=amd64 go build -o jigsnap-darwin ./cmd/jigsnap
//
// Using fyne-cross (recommended for proper packaging):
//   go install github.com/fyne-io/fyne-cross@latest
//   fyne-cross windows -arch=amd64
//   fyne-cross darwin  -arch=amd64,arm64

package main

import (
	"flag"
	"log"
	"os"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"

	"github.com/piwi3910/jigsnap/internal/config"
	"github.com/piwi3910/jigsnap/internal/model"
	"github.com/piwi3910/jigsnap/internal/project"
	"github.com/piwi3910/jigsnap/internal/ui"
)

func main() {
	log.SetPrefix("[JIGSNAP] ")
	log.SetFlags(log.LstdFlags | log.Lmsgprefix)

	proc, err := config.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	cfg, err := project.LoadAppConfig(proc.ConfigPath)
	if err != nil {
		log.Printf("using default settings: %v", err)
		cfg = model.DefaultAppConfig()
	}
	proc.Apply(&cfg)

	application := app.NewWithID("com.piwi3910.jigsnap")
	application.Settings().SetTheme(ui.ThemeFor(cfg.Theme))
	window := application.NewWindow("JigSnap")

	appUI := ui.NewApp(application, window, ui.Options{
		Config:      cfg,
		ConfigPath:  proc.ConfigPath,
		ResultsPath: proc.ResultsPath,
		Seed:        proc.Seed,
		Debug:       proc.Debug,
		Logger:      log.Default(),
	})
	appUI.SetupMenus()
	window.SetContent(appUI.Build())
	window.Resize(fyne.NewSize(cfg.WindowWidth, cfg.WindowHeight))
	window.CenterOnScreen()
	window.SetOnClosed(appUI.Stop)

	appUI.Start()
	window.ShowAndRun()
}
