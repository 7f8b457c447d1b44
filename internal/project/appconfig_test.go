package project

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/piwi3910/jigsnap/internal/model"
)

func TestSaveAndLoadAppConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")

	cfg := model.DefaultAppConfig()
	cfg.SnapThreshold = 0.05
	cfg.Theme = "dark"
	cfg.ScrambleOnStart = false
	cfg.Stages = []model.Stage{{Label: "Big", Image: "big.png", Rows: 9, Cols: 12}}

	if err := SaveAppConfig(path, cfg); err != nil {
		t.Fatalf("SaveAppConfig failed: %v", err)
	}

	loaded, err := LoadAppConfig(path)
	if err != nil {
		t.Fatalf("LoadAppConfig failed: %v", err)
	}

	if loaded.SnapThreshold != 0.05 {
		t.Errorf("expected SnapThreshold=0.05, got %f", loaded.SnapThreshold)
	}
	if loaded.Theme != "dark" {
		t.Errorf("expected Theme=dark, got %s", loaded.Theme)
	}
	if loaded.ScrambleOnStart {
		t.Error("expected ScrambleOnStart=false")
	}
	if len(loaded.Stages) != 1 || loaded.Stages[0].GridLabel() != "9x12" {
		t.Errorf("expected one 9x12 stage, got %+v", loaded.Stages)
	}
}

func TestLoadAppConfigMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nonexistent", "config.json")

	cfg, err := LoadAppConfig(path)
	if err != nil {
		t.Fatalf("expected no error for missing file, got: %v", err)
	}

	if cfg.SnapThreshold != model.DefaultSnapThreshold {
		t.Errorf("expected default threshold %f, got %f", model.DefaultSnapThreshold, cfg.SnapThreshold)
	}
	if cfg.Theme != "system" {
		t.Errorf("expected theme=system, got %s", cfg.Theme)
	}
	if len(cfg.Stages) != 4 {
		t.Errorf("expected 4 default stages, got %d", len(cfg.Stages))
	}
}

func TestLoadAppConfigInvalidJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")

	if err := os.WriteFile(path, []byte("not valid json{{{"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := LoadAppConfig(path)
	if err == nil {
		t.Fatal("expected error for invalid JSON, got nil")
	}
}

func TestSaveAppConfigCreatesDirectories(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sub", "dir", "config.json")

	cfg := model.DefaultAppConfig()
	if err := SaveAppConfig(path, cfg); err != nil {
		t.Fatalf("SaveAppConfig should create parent dirs: %v", err)
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Fatal("config file was not created")
	}
}

func TestLoadAppConfigFillsDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")

	// Partial config with a broken stage
	data := []byte(`{"theme":"light","stages":[{"rows":0,"cols":3}]}`)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadAppConfig(path)
	if err != nil {
		t.Fatalf("LoadAppConfig failed: %v", err)
	}
	if cfg.Theme != "light" {
		t.Errorf("expected Theme=light, got %s", cfg.Theme)
	}
	if cfg.SnapThreshold != model.DefaultSnapThreshold {
		t.Errorf("expected default threshold, got %f", cfg.SnapThreshold)
	}
	if len(cfg.Stages) != len(model.DefaultStages()) {
		t.Errorf("expected default stages when none are valid, got %d", len(cfg.Stages))
	}
}

func TestResolveImage(t *testing.T) {
	abs := filepath.Join(t.TempDir(), "castle.jpg")
	tests := []struct {
		dir, image, want string
	}{
		{"", "castle.jpg", "castle.jpg"},
		{"/pics", "castle.jpg", filepath.Join("/pics", "castle.jpg")},
		{"/pics", abs, abs},
		{"/pics", "", ""},
	}
	for _, tt := range tests {
		if got := ResolveImage(tt.dir, tt.image); got != tt.want {
			t.Errorf("ResolveImage(%q, %q) = %q, want %q", tt.dir, tt.image, got, tt.want)
		}
	}
}
