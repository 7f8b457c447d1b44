package engine

import "github.com/piwi3910/jigsnap/internal/model"

// DragState is the state of a DragController.
type DragState int

const (
	Idle     DragState = iota // No piece is held
	Dragging                  // A piece and its group follow the pointer
)

func (s DragState) String() string {
	if s == Dragging {
		return "Dragging"
	}
	return "Idle"
}

// DragController turns pointer input into position updates for the held
// piece and every piece grouped with it.
type DragController struct {
	board  *Board
	placer *Placer

	state  DragState
	active *model.Piece
	grab   model.Point2D // Press point relative to the active piece's center
}

func NewDragController(board *Board, placer *Placer) *DragController {
	return &DragController{board: board, placer: placer}
}

// State returns the current drag state.
func (dc *DragController) State() DragState {
	return dc.state
}

// Active returns the id of the held piece and whether a piece is held.
func (dc *DragController) Active() (int, bool) {
	if dc.state != Dragging || dc.active == nil {
		return model.NoNeighbor, false
	}
	return dc.active.ID, true
}

// Press picks the top-most piece under (x, y), lifts it and its group above
// every other piece, and starts a drag. It reports whether a piece was hit.
func (dc *DragController) Press(x, y float64) bool {
	p := dc.hitTest(x, y)
	if p == nil {
		return false
	}

	dc.active = p
	dc.grab = model.Point2D{X: x - p.Pos.X, Y: y - p.Pos.Y}

	top := dc.board.TopDepth() + 1
	p.Depth = top
	for id := range p.Group {
		dc.board.pieces[id].Depth = top
	}
	dc.board.sortByDepth()

	dc.state = Dragging
	return true
}

// hitTest returns the highest-depth piece whose bounding box contains
// (x, y), using half-open bounds, or nil.
func (dc *DragController) hitTest(x, y float64) *model.Piece {
	halfW, halfH := dc.board.width/2, dc.board.height/2
	for i := len(dc.board.order) - 1; i >= 0; i-- {
		p := dc.board.order[i]
		if x >= p.Pos.X-halfW && x < p.Pos.X+halfW &&
			y >= p.Pos.Y-halfH && y < p.Pos.Y+halfH {
			return p
		}
	}
	return nil
}

// Move places the held piece under the pointer, keeping the original grab
// offset and clamping its center to the visible range [-1,1]. Every grouped
// piece follows at its stored offset. Move is ignored while Idle.
func (dc *DragController) Move(x, y float64) {
	if dc.state != Dragging {
		return
	}

	pos := model.Point2D{
		X: clamp(x-dc.grab.X, -1, 1),
		Y: clamp(y-dc.grab.Y, -1, 1),
	}
	dc.active.Pos = pos
	for id, off := range dc.active.Group {
		dc.board.pieces[id].Pos = pos.Add(off)
	}
}

// Release drops the held piece, runs placement for it and its group, and
// returns to Idle. Releasing while Idle does nothing.
func (dc *DragController) Release() ([]Snap, error) {
	if dc.state != Dragging {
		return nil, nil
	}
	active := dc.active
	dc.state = Idle
	dc.active = nil
	return dc.placer.Place(active.ID)
}

// Cancel returns to Idle without running placement.
func (dc *DragController) Cancel() {
	dc.state = Idle
	dc.active = nil
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
