package engine

import (
	"fmt"
	"io"
	"log"
	"math/rand"
	"time"

	"github.com/piwi3910/jigsnap/internal/model"
)

// Key identifies a keyboard action understood by a Session.
type Key string

const (
	KeyScramble  Key = "S" // Reset every group and scatter the pieces
	KeyDebugDump Key = "D" // List each piece's group size
)

// Quad is one piece to draw: a textured rectangle of PieceSize centered on
// Pos, sampling the source image from Tex.
type Quad struct {
	ID  int
	Pos model.Point2D
	Tex model.Point2D
}

// GroupReport is one line of the debug dump.
type GroupReport struct {
	ID        int
	GroupSize int
}

// SessionConfig configures a Session.
type SessionConfig struct {
	Stage     model.Stage
	Index     int     // Position of the stage in its campaign
	Threshold float64 // Snap threshold; <= 0 uses model.DefaultSnapThreshold
	Scramble  bool    // Scatter the pieces before play starts
	Rand      *rand.Rand
	Logger    *log.Logger
	Debug     bool // Log every snap
	Start     time.Time
}

// Session is the state of one stage in play. The presentation layer feeds it
// pointer and key events in normalized scene coordinates and draws Frame()
// each frame. A Session is not safe for concurrent use; all calls must come
// from the goroutine that handles input and rendering.
type Session struct {
	stage model.Stage
	index int

	board  *Board
	placer *Placer
	drag   *DragController
	done   *CompletionDetector

	rng    *rand.Rand
	logger *log.Logger
	debug  bool
}

// NewSession cuts the stage grid and starts its clock.
func NewSession(cfg SessionConfig) (*Session, error) {
	board, err := NewBoard(cfg.Stage.Rows, cfg.Stage.Cols)
	if err != nil {
		return nil, fmt.Errorf("stage %d: %w", cfg.Index+1, err)
	}

	rng := cfg.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	start := cfg.Start
	if start.IsZero() {
		start = time.Now()
	}

	placer := NewPlacer(board, cfg.Threshold)
	s := &Session{
		stage:  cfg.Stage,
		index:  cfg.Index,
		board:  board,
		placer: placer,
		drag:   NewDragController(board, placer),
		done:   NewCompletionDetector(board, start),
		rng:    rng,
		logger: logger,
		debug:  cfg.Debug,
	}
	if cfg.Scramble {
		board.ResetAndScramble(rng)
	}
	return s, nil
}

// Stage returns the stage being played.
func (s *Session) Stage() model.Stage { return s.stage }

// Index returns the stage's position in its campaign.
func (s *Session) Index() int { return s.index }

// Board exposes the piece registry.
func (s *Session) Board() *Board { return s.board }

// PieceSize returns the size of every quad in normalized scene units.
func (s *Session) PieceSize() (w, h float64) { return s.board.PieceSize() }

// Dragging reports whether a piece is currently held.
func (s *Session) Dragging() bool { return s.drag.State() == Dragging }

// OnPointerDown starts a drag if (x, y) hits a piece.
func (s *Session) OnPointerDown(x, y float64) bool {
	return s.drag.Press(x, y)
}

// OnPointerMove updates the held piece and its group.
func (s *Session) OnPointerMove(x, y float64) {
	s.drag.Move(x, y)
}

// OnPointerUp ends a drag and snaps the released group onto any neighbors
// within threshold.
func (s *Session) OnPointerUp() ([]Snap, error) {
	snaps, err := s.drag.Release()
	if err != nil {
		return snaps, fmt.Errorf("stage %d: %w", s.index+1, err)
	}
	if s.debug {
		for _, sn := range snaps {
			s.logger.Printf("piece %d snapped to %s neighbor %d", sn.Piece, sn.Direction, sn.Neighbor)
		}
	}
	return snaps, nil
}

// OnKey handles a key transition. Actions fire on press only. The debug
// dump is logged and returned; every other key returns nil.
func (s *Session) OnKey(key Key, pressed bool) []GroupReport {
	if !pressed {
		return nil
	}
	switch key {
	case KeyScramble:
		s.Scramble()
	case KeyDebugDump:
		return s.Dump()
	}
	return nil
}

// Scramble clears every group and scatters the pieces.
func (s *Session) Scramble() {
	s.drag.Cancel()
	s.board.ResetAndScramble(s.rng)
}

// Dump lists every piece's group size in id order and logs it.
func (s *Session) Dump() []GroupReport {
	reports := make([]GroupReport, 0, s.board.Len())
	for i := range s.board.pieces {
		p := &s.board.pieces[i]
		reports = append(reports, GroupReport{ID: p.ID, GroupSize: p.GroupSize()})
		s.logger.Printf("piece %d has been grouped with %d pieces", p.ID, p.GroupSize())
	}
	return reports
}

// Frame returns the quads to draw this frame, lowest depth first.
func (s *Session) Frame() []Quad {
	quads := make([]Quad, 0, len(s.board.order))
	for _, p := range s.board.order {
		quads = append(quads, Quad{ID: p.ID, Pos: p.Pos, Tex: p.Tex})
	}
	return quads
}

// Solved reports whether the puzzle is complete.
func (s *Session) Solved() bool {
	return s.done.Solved()
}

// Elapsed returns the stage time at now, frozen once the stage completes.
func (s *Session) Elapsed(now time.Time) time.Duration {
	return s.done.Elapsed(now)
}

// Poll is called once per frame. It returns the stage result and true the
// first time the puzzle is observed solved, and false otherwise.
func (s *Session) Poll(now time.Time) (model.StageResult, bool) {
	elapsed, ok := s.done.Poll(now)
	if !ok {
		return model.StageResult{}, false
	}
	s.logger.Printf("stage %d complete in %s", s.index+1, model.FormatElapsed(elapsed))
	return model.NewStageResult(s.index, s.stage, elapsed, now), true
}
