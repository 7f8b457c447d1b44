package config

import (
	"flag"
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/piwi3910/jigsnap/internal/model"
	"github.com/piwi3910/jigsnap/internal/project"
)

// Config holds process configuration. Values set here override the
// persisted application config for this run only.
type Config struct {
	ConfigPath  string  `env:"JIGSNAP_CONFIG"`
	ResultsPath string  `env:"JIGSNAP_RESULTS"`
	ImageDir    string  `env:"JIGSNAP_IMAGE_DIR"`
	Seed        int64   `env:"JIGSNAP_SEED"`      // 0 seeds from the clock
	Threshold   float64 `env:"JIGSNAP_THRESHOLD"` // Non-positive or non-finite keeps the configured threshold
	Debug       bool    `env:"JIGSNAP_DEBUG"`
	NoScramble  bool    `env:"JIGSNAP_NO_SCRAMBLE"`
}

// ParseConfig reads the environment and then flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	fs.StringVar(&cfg.ConfigPath, "config", cfg.ConfigPath, "path to config.json")
	fs.StringVar(&cfg.ResultsPath, "results", cfg.ResultsPath, "path to results.json")
	fs.StringVar(&cfg.ImageDir, "images", cfg.ImageDir, "directory holding stage images")
	fs.Int64Var(&cfg.Seed, "seed", cfg.Seed, "scramble seed (0 uses the clock)")
	fs.Float64Var(&cfg.Threshold, "threshold", cfg.Threshold, "snap threshold in scene units")
	fs.BoolVar(&cfg.Debug, "debug", cfg.Debug, "log every snap")
	fs.BoolVar(&cfg.NoScramble, "no-scramble", cfg.NoScramble, "start stages with pieces in place")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	if cfg.ConfigPath == "" {
		cfg.ConfigPath = project.DefaultConfigPath()
	}
	if cfg.ResultsPath == "" {
		cfg.ResultsPath = project.DefaultResultsPath()
	}
	return cfg, nil
}

// Apply overrides app with the values set on cfg.
func (cfg Config) Apply(app *model.AppConfig) {
	if model.ValidThreshold(cfg.Threshold) {
		app.SnapThreshold = cfg.Threshold
	}
	if cfg.ImageDir != "" {
		app.ImageDir = cfg.ImageDir
	}
	if cfg.NoScramble {
		app.ScrambleOnStart = false
	}
}
