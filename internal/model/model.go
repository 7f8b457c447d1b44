package model

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
)

// NoNeighbor marks a piece edge that lies on the grid boundary.
const NoNeighbor = -1

// NumNeighbors is the number of edges each piece has.
const NumNeighbors = 4

// DefaultSnapThreshold is the snapping distance in normalized scene units.
// It does not depend on the grid size.
const DefaultSnapThreshold = 0.02

// ValidThreshold reports whether t is usable as a snapping distance: positive
// and finite.
func ValidThreshold(t float64) bool {
	return t > 0 && !math.IsInf(t, 0)
}

// Direction indexes a piece's neighbor slots.
type Direction int

const (
	Left   Direction = iota // Neighbor to the left (column - 1)
	Right                   // Neighbor to the right (column + 1)
	Top                     // Neighbor above (row - 1)
	Bottom                  // Neighbor below (row + 1)
)

// Directions lists every valid direction in slot order.
var Directions = [NumNeighbors]Direction{Left, Right, Top, Bottom}

// Valid reports whether d is one of the four neighbor slots.
func (d Direction) Valid() bool {
	return d >= Left && d <= Bottom
}

func (d Direction) String() string {
	switch d {
	case Left:
		return "Left"
	case Right:
		return "Right"
	case Top:
		return "Top"
	case Bottom:
		return "Bottom"
	default:
		return fmt.Sprintf("Direction(%d)", int(d))
	}
}

// Point2D represents a 2D coordinate in normalized scene units.
type Point2D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Add returns p + q.
func (p Point2D) Add(q Point2D) Point2D {
	return Point2D{X: p.X + q.X, Y: p.Y + q.Y}
}

// Sub returns p - q.
func (p Point2D) Sub(q Point2D) Point2D {
	return Point2D{X: p.X - q.X, Y: p.Y - q.Y}
}

// Neg returns -p.
func (p Point2D) Neg() Point2D {
	return Point2D{X: -p.X, Y: -p.Y}
}

// Piece is a single jigsaw unit.
//
// Group maps the id of every piece rigidly joined with this one to that
// piece's position relative to this one (other.Pos - this.Pos), captured
// when the two were merged.
type Piece struct {
	ID        int
	Pos       Point2D
	Depth     int
	Tex       Point2D // Top-left of the source sub-rectangle, as image fractions
	Neighbors [NumNeighbors]int
	Group     map[int]Point2D
}

// Neighbor returns the neighbor id stored in slot d.
func (p *Piece) Neighbor(d Direction) (int, bool) {
	if !d.Valid() {
		return NoNeighbor, false
	}
	return p.Neighbors[d], true
}

// GroupSize returns the number of pieces directly grouped with p.
func (p *Piece) GroupSize() int {
	return len(p.Group)
}

// Stage describes one puzzle of a campaign.
type Stage struct {
	Label string `json:"label"`
	Image string `json:"image"` // Path to a PNG or JPEG; empty or missing uses a generated image
	Rows  int    `json:"rows"`
	Cols  int    `json:"cols"`
}

// Pieces returns the number of pieces the stage is cut into.
func (s Stage) Pieces() int {
	return s.Rows * s.Cols
}

// GridLabel returns the grid size as "RxC".
func (s Stage) GridLabel() string {
	return fmt.Sprintf("%dx%d", s.Rows, s.Cols)
}

// DefaultStages returns the built-in stage progression:
// three puzzles of growing size followed by a single-piece closing card.
func DefaultStages() []Stage {
	return []Stage{
		{Label: "Warm-up", Image: "testimage.jpg", Rows: 4, Cols: 4},
		{Label: "Castle", Image: "castle.jpg", Rows: 5, Cols: 5},
		{Label: "Chick", Image: "chick.jpg", Rows: 7, Cols: 7},
		{Label: "Done", Image: "done.jpg", Rows: 1, Cols: 1},
	}
}

// StageResult records a solved stage.
type StageResult struct {
	ID          string        `json:"id"`
	Stage       int           `json:"stage"` // Zero-based index into the campaign
	Label       string        `json:"label"`
	Image       string        `json:"image"`
	Rows        int           `json:"rows"`
	Cols        int           `json:"cols"`
	Elapsed     time.Duration `json:"elapsed_ns"`
	CompletedAt time.Time     `json:"completed_at"`
}

func NewStageResult(index int, stage Stage, elapsed time.Duration, completedAt time.Time) StageResult {
	return StageResult{
		ID:          uuid.New().String()[:8],
		Stage:       index,
		Label:       stage.Label,
		Image:       stage.Image,
		Rows:        stage.Rows,
		Cols:        stage.Cols,
		Elapsed:     elapsed,
		CompletedAt: completedAt,
	}
}

// GridLabel returns the solved grid size as "RxC".
func (r StageResult) GridLabel() string {
	return fmt.Sprintf("%dx%d", r.Rows, r.Cols)
}

// FormatElapsed renders a duration the way the game reports it: "3min 7sec".
func FormatElapsed(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	minutes := int(d / time.Minute)
	seconds := int(d/time.Second) % 60
	return fmt.Sprintf("%dmin %dsec", minutes, seconds)
}
