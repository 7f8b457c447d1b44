package engine

import (
	"fmt"
	"math/rand"
	"sort"

	"github.com/piwi3910/jigsnap/internal/model"
)

// Board is the piece registry for one stage. It owns every piece in an
// arena indexed by piece id and keeps a separate draw order sorted by depth.
type Board struct {
	rows   int
	cols   int
	width  float64 // Piece width in normalized scene units
	height float64 // Piece height in normalized scene units

	pieces []model.Piece  // Indexed by id; never grows after construction
	order  []*model.Piece // Depth ascending
}

// NewBoard cuts a rows x cols grid into pieces in reading order
// (left to right, top to bottom) at their solved positions.
func NewBoard(rows, cols int) (*Board, error) {
	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("%dx%d: %w", rows, cols, ErrInvalidGrid)
	}

	total := rows * cols
	perRow := total / rows
	b := &Board{
		rows:   rows,
		cols:   cols,
		width:  2.0 / float64(cols),
		height: 2.0 / float64(rows),
		pieces: make([]model.Piece, total),
		order:  make([]*model.Piece, total),
	}

	for i := 0; i < total; i++ {
		col := i % perRow
		row := i / perRow

		p := &b.pieces[i]
		p.ID = i
		p.Pos = b.HomePosition(i)
		p.Depth = i
		p.Tex = model.Point2D{
			X: b.width * float64(col) / 2,
			Y: b.height * float64(row) / 2,
		}
		p.Group = make(map[int]model.Point2D)

		p.Neighbors[model.Left] = i - 1
		if col == 0 {
			p.Neighbors[model.Left] = model.NoNeighbor
		}
		p.Neighbors[model.Right] = i + 1
		if col == perRow-1 {
			p.Neighbors[model.Right] = model.NoNeighbor
		}
		p.Neighbors[model.Top] = i - perRow
		if row == 0 {
			p.Neighbors[model.Top] = model.NoNeighbor
		}
		p.Neighbors[model.Bottom] = i + perRow
		if row == rows-1 {
			p.Neighbors[model.Bottom] = model.NoNeighbor
		}

		b.order[i] = p
	}

	if err := b.validateTopology(); err != nil {
		return nil, err
	}
	return b, nil
}

// validateTopology checks that every neighbor id resolves to a piece.
func (b *Board) validateTopology() error {
	for i := range b.pieces {
		p := &b.pieces[i]
		for _, d := range model.Directions {
			n := p.Neighbors[d]
			if n == model.NoNeighbor {
				continue
			}
			if _, err := b.Piece(n); err != nil {
				return fmt.Errorf("piece %d %s neighbor: %w", p.ID, d, err)
			}
		}
	}
	return nil
}

// Rows returns the number of grid rows.
func (b *Board) Rows() int { return b.rows }

// Cols returns the number of grid columns.
func (b *Board) Cols() int { return b.cols }

// Len returns the total number of pieces.
func (b *Board) Len() int { return len(b.pieces) }

// PieceSize returns the width and height of every piece.
func (b *Board) PieceSize() (w, h float64) {
	return b.width, b.height
}

// HomePosition returns the solved position of piece id. The grid is
// centered in [-1,1]x[-1,1] with row 0 at the top.
func (b *Board) HomePosition(id int) model.Point2D {
	col := id % b.cols
	row := id / b.cols
	return model.Point2D{
		X: -1 + b.width/2 + b.width*float64(col),
		Y: 1 - b.height/2 - b.height*float64(row),
	}
}

// Piece looks up a piece by id. The returned pointer stays valid for the
// lifetime of the board.
func (b *Board) Piece(id int) (*model.Piece, error) {
	if id < 0 || id >= len(b.pieces) {
		return nil, fmt.Errorf("id %d: %w", id, ErrUnknownPiece)
	}
	return &b.pieces[id], nil
}

// Neighbor returns the id of the correct neighbor of piece id in direction d,
// or model.NoNeighbor on a boundary edge.
func (b *Board) Neighbor(id int, d model.Direction) (int, error) {
	p, err := b.Piece(id)
	if err != nil {
		return model.NoNeighbor, err
	}
	n, ok := p.Neighbor(d)
	if !ok {
		return model.NoNeighbor, fmt.Errorf("piece %d slot %d: %w", id, int(d), ErrInvalidDirection)
	}
	return n, nil
}

// Pieces returns every piece in draw order (depth ascending).
func (b *Board) Pieces() []*model.Piece {
	out := make([]*model.Piece, len(b.order))
	copy(out, b.order)
	return out
}

// TopDepth returns the highest depth on the board.
func (b *Board) TopDepth() int {
	return b.order[len(b.order)-1].Depth
}

// sortByDepth restores the depth-ascending draw order. Pieces sharing a
// depth keep their relative order.
func (b *Board) sortByDepth() {
	sort.SliceStable(b.order, func(i, j int) bool {
		return b.order[i].Depth < b.order[j].Depth
	})
}

// ResetAndScramble clears every group and scatters the pieces uniformly at
// random. Bounds are shrunk by half a piece on each side so every piece
// stays fully on the canvas.
func (b *Board) ResetAndScramble(rng *rand.Rand) {
	minX, maxX := -1+b.width/2, 1-b.width/2
	minY, maxY := -1+b.height/2, 1-b.height/2

	for i := range b.pieces {
		p := &b.pieces[i]
		p.Pos = model.Point2D{
			X: minX + rng.Float64()*(maxX-minX),
			Y: minY + rng.Float64()*(maxY-minY),
		}
		clear(p.Group)
	}
}
