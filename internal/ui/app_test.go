package ui

import (
	"math"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/test"

	"github.com/piwi3910/jigsnap/internal/model"
	"github.com/piwi3910/jigsnap/internal/project"
)

func newTestApp(t *testing.T, stages []model.Stage) *App {
	t.Helper()
	application := test.NewTempApp(t)
	w := application.NewWindow("JigSnap")
	dir := t.TempDir()

	cfg := model.DefaultAppConfig()
	cfg.Stages = stages
	cfg.ScrambleOnStart = false

	a := NewApp(application, w, Options{
		Config:      cfg,
		ConfigPath:  filepath.Join(dir, "config.json"),
		ResultsPath: filepath.Join(dir, "results.json"),
		Seed:        1,
	})
	w.SetContent(a.Build())
	t.Cleanup(a.Stop)
	return a
}

func TestNewGameShowsFirstStage(t *testing.T) {
	a := newTestApp(t, []model.Stage{
		{Label: "Castle", Rows: 2, Cols: 3},
		{Label: "Done", Rows: 1, Cols: 1},
	})
	a.newGame()

	if got := a.stageLabel.Text; got != "Stage 1 of 2: Castle (2x3)" {
		t.Errorf("stage label = %q", got)
	}
	if got := a.statusLabel.Text; got != "6 pieces" {
		t.Errorf("status = %q", got)
	}
	if a.board.Session() == nil {
		t.Fatal("expected board to hold a session")
	}
}

func TestStageFlowRecordsResults(t *testing.T) {
	a := newTestApp(t, []model.Stage{
		{Label: "One", Rows: 1, Cols: 1},
		{Label: "Two", Rows: 1, Cols: 1},
	})
	a.newGame()

	// A single piece is solved as soon as it is polled
	a.tick(time.Now().Add(5 * time.Second))
	if !a.awaitingAdvance {
		t.Fatal("expected stage 1 to complete")
	}
	if a.campaign.Finished() {
		t.Fatal("campaign should not be finished after stage 1")
	}

	a.advance()
	if a.awaitingAdvance {
		t.Error("expected play to resume on stage 2")
	}
	if !strings.HasPrefix(a.stageLabel.Text, "Stage 2 of 2") {
		t.Errorf("stage label = %q", a.stageLabel.Text)
	}

	a.tick(time.Now().Add(3 * time.Second))
	if !a.campaign.Finished() {
		t.Fatal("expected campaign to be finished")
	}
	if got := a.statusLabel.Text; got != "All stages complete" {
		t.Errorf("status = %q", got)
	}

	history, err := project.LoadResults(a.resultsPath)
	if err != nil {
		t.Fatalf("LoadResults: %v", err)
	}
	if len(history.Results) != 2 {
		t.Fatalf("expected 2 recorded results, got %d", len(history.Results))
	}
	if history.Results[0].Label != "One" || history.Results[1].Label != "Two" {
		t.Errorf("unexpected results order: %+v", history.Results)
	}
}

func TestTickIgnoredWhileAwaitingAdvance(t *testing.T) {
	a := newTestApp(t, []model.Stage{{Rows: 1, Cols: 1}, {Rows: 1, Cols: 1}})
	a.newGame()
	now := time.Now().Add(time.Second)
	a.tick(now)
	a.tick(now.Add(time.Second))

	if got := len(a.campaign.Results()); got != 1 {
		t.Errorf("expected one result, got %d", got)
	}
}

func TestHandleKeyDebugDump(t *testing.T) {
	a := newTestApp(t, []model.Stage{{Rows: 2, Cols: 2}})
	a.newGame()

	a.handleKey(&fyne.KeyEvent{Name: "D"}, true)
	if got := a.statusLabel.Text; got != "0 of 4 pieces grouped (details in log)" {
		t.Errorf("status = %q", got)
	}

	a.statusLabel.SetText("")
	a.handleKey(&fyne.KeyEvent{Name: "D"}, false)
	if a.statusLabel.Text != "" {
		t.Errorf("release should not act, status = %q", a.statusLabel.Text)
	}
}

func TestHandleKeyScramble(t *testing.T) {
	a := newTestApp(t, []model.Stage{{Rows: 3, Cols: 3}})
	a.newGame()
	before := a.board.Session().Frame()

	a.handleKey(&fyne.KeyEvent{Name: "S"}, true)
	if got := a.statusLabel.Text; got != "Pieces scattered" {
		t.Errorf("status = %q", got)
	}

	moved := false
	for i, q := range a.board.Session().Frame() {
		if q.Pos != before[i].Pos {
			moved = true
			break
		}
	}
	if !moved {
		t.Error("expected scramble to move pieces")
	}
}

func TestApplyStagesSavesConfig(t *testing.T) {
	a := newTestApp(t, []model.Stage{{Rows: 2, Cols: 2}})
	a.newGame()

	a.applyStages([]model.Stage{{Label: "Big", Rows: 6, Cols: 6}, {Rows: 0, Cols: 3}})

	if got := len(a.campaign.Stages()); got != 1 {
		t.Fatalf("expected invalid stage to be dropped, got %d stages", got)
	}
	cfg, err := project.LoadAppConfig(a.configPath)
	if err != nil {
		t.Fatalf("LoadAppConfig: %v", err)
	}
	if len(cfg.Stages) != 1 || cfg.Stages[0].Label != "Big" {
		t.Errorf("saved stages = %+v", cfg.Stages)
	}
}

func TestApplySettings(t *testing.T) {
	a := newTestApp(t, []model.Stage{{Rows: 2, Cols: 2}})
	cfg := a.config
	cfg.SnapThreshold = 0.05
	cfg.Theme = "dark"

	a.applySettings(cfg)

	if a.config.SnapThreshold != 0.05 {
		t.Errorf("threshold = %v", a.config.SnapThreshold)
	}
	saved, err := project.LoadAppConfig(a.configPath)
	if err != nil {
		t.Fatalf("LoadAppConfig: %v", err)
	}
	if saved.Theme != "dark" || saved.SnapThreshold != 0.05 {
		t.Errorf("saved config = %+v", saved)
	}
	if opts := a.campaignOptions(); opts.Threshold != 0.05 {
		t.Errorf("campaign threshold = %v", opts.Threshold)
	}
}

func TestBestTimesCell(t *testing.T) {
	times := []project.BestTime{{Grid: "4x4", Pieces: 16, Elapsed: 83 * time.Second, Runs: 2}}

	if got := bestTimesCell(times, 0, 2); got != "Best Time" {
		t.Errorf("header = %q", got)
	}
	want := []string{"4x4", "16", "1min 23sec", "2"}
	for col, w := range want {
		if got := bestTimesCell(times, 1, col); got != w {
			t.Errorf("col %d = %q, want %q", col, got, w)
		}
	}
}

func TestRestartWhileCompleteDialogOpenKeepsStage(t *testing.T) {
	a := newTestApp(t, []model.Stage{{Label: "One", Rows: 1, Cols: 1}, {Label: "Two", Rows: 1, Cols: 1}})
	a.newGame()
	a.tick(time.Now().Add(time.Second))
	if !a.awaitingAdvance {
		t.Fatal("expected stage 1 to complete")
	}

	a.restartStage()
	// The completion dialog closing afterwards must not skip the restarted stage
	a.advance()

	if got := a.campaign.Current(); got != 0 {
		t.Errorf("expected to stay on stage 1, got stage %d", got+1)
	}
	if !strings.HasPrefix(a.stageLabel.Text, "Stage 1 of 2") {
		t.Errorf("stage label = %q", a.stageLabel.Text)
	}
}

func TestValidateSettingsRejectsNonFiniteThreshold(t *testing.T) {
	cfg := model.DefaultAppConfig()
	if err := validateSettings(cfg); err != nil {
		t.Errorf("defaults should be valid: %v", err)
	}
	for _, v := range []float64{math.NaN(), math.Inf(1), 0, -0.1} {
		cfg.SnapThreshold = v
		if err := validateSettings(cfg); err == nil {
			t.Errorf("expected threshold %v to be rejected", v)
		}
	}
}
