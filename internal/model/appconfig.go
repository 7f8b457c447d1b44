package model

// AppConfig holds application-wide preferences and the stage plan.
type AppConfig struct {
	SnapThreshold   float64 `json:"snap_threshold"`    // Normalized scene units
	ScrambleOnStart bool    `json:"scramble_on_start"` // Scatter pieces when a stage begins
	Stages          []Stage `json:"stages"`

	// Window and presentation preferences
	WindowWidth  float32 `json:"window_width"`
	WindowHeight float32 `json:"window_height"`
	Theme        string  `json:"theme"` // "light", "dark", "system"
	ExportDir    string  `json:"export_dir"`
	ImageDir     string  `json:"image_dir"` // Stage images with relative paths are resolved here
}

// DefaultAppConfig returns an AppConfig populated with the built-in settings.
func DefaultAppConfig() AppConfig {
	return AppConfig{
		SnapThreshold:   DefaultSnapThreshold,
		ScrambleOnStart: true,
		Stages:          DefaultStages(),
		WindowWidth:     800,
		WindowHeight:    600,
		Theme:           "system",
	}
}

// Normalize fills zero or invalid fields with their defaults.
// Stages with a non-positive dimension are dropped.
func (c *AppConfig) Normalize() {
	defaults := DefaultAppConfig()
	if !ValidThreshold(c.SnapThreshold) {
		c.SnapThreshold = defaults.SnapThreshold
	}
	if c.WindowWidth <= 0 {
		c.WindowWidth = defaults.WindowWidth
	}
	if c.WindowHeight <= 0 {
		c.WindowHeight = defaults.WindowHeight
	}
	if c.Theme == "" {
		c.Theme = defaults.Theme
	}

	valid := make([]Stage, 0, len(c.Stages))
	for _, s := range c.Stages {
		if s.Rows > 0 && s.Cols > 0 {
			valid = append(valid, s)
		}
	}
	c.Stages = valid
	if len(c.Stages) == 0 {
		c.Stages = defaults.Stages
	}
}
