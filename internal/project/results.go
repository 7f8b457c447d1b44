package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/piwi3910/jigsnap/internal/model"
)

// ResultsHistory is every stage completion recorded on this machine.
type ResultsHistory struct {
	Results []model.StageResult `json:"results"`
}

// DefaultResultsPath returns the default path for the results history.
func DefaultResultsPath() string {
	return filepath.Join(DefaultConfigDir(), "results.json")
}

// LoadResults reads the results history. A missing file yields an empty history.
func LoadResults(path string) (ResultsHistory, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return ResultsHistory{Results: []model.StageResult{}}, nil
		}
		return ResultsHistory{}, fmt.Errorf("failed to read results: %w", err)
	}
	var h ResultsHistory
	if err := json.Unmarshal(data, &h); err != nil {
		return ResultsHistory{}, fmt.Errorf("failed to parse results: %w", err)
	}
	if h.Results == nil {
		h.Results = []model.StageResult{}
	}
	return h, nil
}

// SaveResults writes the results history, creating parent directories.
func SaveResults(path string, h ResultsHistory) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create results directory: %w", err)
	}
	data, err := json.MarshalIndent(h, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// AppendResult loads the history at path, adds r, and saves it back.
func AppendResult(path string, r model.StageResult) (ResultsHistory, error) {
	h, err := LoadResults(path)
	if err != nil {
		return h, err
	}
	h.Results = append(h.Results, r)
	return h, SaveResults(path, h)
}

// BestTime is the fastest recorded completion of one grid size.
type BestTime struct {
	Grid    string
	Pieces  int
	Elapsed time.Duration
	Runs    int
}

// BestTimes returns the best time per grid size, smallest grid first.
func (h ResultsHistory) BestTimes() []BestTime {
	byGrid := make(map[string]*BestTime)
	for _, r := range h.Results {
		grid := r.GridLabel()
		bt, ok := byGrid[grid]
		if !ok {
			byGrid[grid] = &BestTime{Grid: grid, Pieces: r.Rows * r.Cols, Elapsed: r.Elapsed, Runs: 1}
			continue
		}
		bt.Runs++
		if r.Elapsed < bt.Elapsed {
			bt.Elapsed = r.Elapsed
		}
	}

	out := make([]BestTime, 0, len(byGrid))
	for _, bt := range byGrid {
		out = append(out, *bt)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Pieces != out[j].Pieces {
			return out[i].Pieces < out[j].Pieces
		}
		return out[i].Grid < out[j].Grid
	})
	return out
}
