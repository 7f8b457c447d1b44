package engine

import (
	"testing"

	"github.com/piwi3910/jigsnap/internal/model"
	"github.com/stretchr/testify/require"
)

func newTestBoard(t *testing.T, rows, cols int) *Board {
	t.Helper()
	b, err := NewBoard(rows, cols)
	require.NoError(t, err)
	return b
}

// moveTo places piece id at (x, y) without touching its group.
func moveTo(t *testing.T, b *Board, id int, x, y float64) {
	t.Helper()
	p, err := b.Piece(id)
	require.NoError(t, err)
	p.Pos = model.Point2D{X: x, Y: y}
}

func posOf(t *testing.T, b *Board, id int) model.Point2D {
	t.Helper()
	p, err := b.Piece(id)
	require.NoError(t, err)
	return p.Pos
}

func groupOf(t *testing.T, b *Board, id int) map[int]model.Point2D {
	t.Helper()
	p, err := b.Piece(id)
	require.NoError(t, err)
	return p.Group
}

// directedEntries counts every membership entry on the board.
func directedEntries(b *Board) int {
	total := 0
	for i := range b.pieces {
		total += len(b.pieces[i].Group)
	}
	return total
}
