package engine

import "time"

// CompletionDetector reports when every piece has joined a single group.
// It signals completion once per stage.
type CompletionDetector struct {
	board   *Board
	start   time.Time
	fired   bool
	elapsed time.Duration
}

// NewCompletionDetector starts the stage clock at start.
func NewCompletionDetector(board *Board, start time.Time) *CompletionDetector {
	return &CompletionDetector{board: board, start: start}
}

// Solved reports whether every piece is directly grouped with every other piece.
func (cd *CompletionDetector) Solved() bool {
	total := cd.board.Len()
	for i := range cd.board.pieces {
		if cd.board.pieces[i].GroupSize() != total-1 {
			return false
		}
	}
	return true
}

// Poll checks for completion. The first call that observes a solved board
// returns the time since the stage started and true; every other call
// returns false.
func (cd *CompletionDetector) Poll(now time.Time) (time.Duration, bool) {
	if cd.fired || !cd.Solved() {
		return 0, false
	}
	cd.fired = true
	cd.elapsed = now.Sub(cd.start)
	return cd.elapsed, true
}

// Fired reports whether completion has been signalled, and the elapsed time
// that was reported.
func (cd *CompletionDetector) Fired() (time.Duration, bool) {
	return cd.elapsed, cd.fired
}

// Elapsed returns the running stage time, frozen once completion fired.
func (cd *CompletionDetector) Elapsed(now time.Time) time.Duration {
	if cd.fired {
		return cd.elapsed
	}
	return now.Sub(cd.start)
}
