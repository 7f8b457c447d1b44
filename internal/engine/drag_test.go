package engine

import (
	"sort"
	"testing"

	"github.com/piwi3910/jigsnap/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDrag(t *testing.T, rows, cols int) (*Board, *DragController) {
	t.Helper()
	b := newTestBoard(t, rows, cols)
	return b, NewDragController(b, NewPlacer(b, 0))
}

func TestPress_MissStaysIdle(t *testing.T) {
	b, dc := newTestDrag(t, 2, 2)
	moveTo(t, b, 0, 5, 5)

	assert.False(t, dc.Press(-0.9, 0.9))
	assert.Equal(t, Idle, dc.State())
	_, ok := dc.Active()
	assert.False(t, ok)
}

func TestPress_PicksTopMostPiece(t *testing.T) {
	b, dc := newTestDrag(t, 2, 2)
	moveTo(t, b, 0, 0, 0)
	moveTo(t, b, 3, 0.1, 0.1)

	require.True(t, dc.Press(0.05, 0.05))

	id, ok := dc.Active()
	require.True(t, ok)
	assert.Equal(t, 3, id, "highest depth wins on overlap")
	assert.Equal(t, Dragging, dc.State())
}

func TestPress_HalfOpenBounds(t *testing.T) {
	b, dc := newTestDrag(t, 2, 2)
	scatterExcept(t, b, 0)

	// Piece 0 spans [-1,0) x [0,1).
	assert.False(t, dc.Press(0, 0.5), "right edge is exclusive")
	assert.False(t, dc.Press(-0.5, 1), "top edge is exclusive")
	assert.True(t, dc.Press(-1, 0), "left and bottom edges are inclusive")
}

func TestPress_RaisesWholeGroup(t *testing.T) {
	b, dc := newTestDrag(t, 3, 3)
	require.NoError(t, b.CloseGroup([]int{0, 4, 8}))
	before := b.TopDepth()

	center := posOf(t, b, 0)
	require.True(t, dc.Press(center.X, center.Y))

	for _, id := range []int{0, 4, 8} {
		p, err := b.Piece(id)
		require.NoError(t, err)
		assert.Equal(t, before+1, p.Depth, "piece %d", id)
	}
	pieces := b.Pieces()
	assert.True(t, sort.SliceIsSorted(pieces, func(i, j int) bool {
		return pieces[i].Depth < pieces[j].Depth
	}))
	for _, p := range pieces[:6] {
		assert.Less(t, p.Depth, before+1, "unlifted piece %d must stay below", p.ID)
	}
}

func TestPress_RepeatedLiftsKeepIncreasing(t *testing.T) {
	b, dc := newTestDrag(t, 2, 2)
	scatterExcept(t, b, 0)

	require.True(t, dc.Press(-0.5, 0.5))
	first := b.TopDepth()
	_, err := dc.Release()
	require.NoError(t, err)
	require.True(t, dc.Press(-0.5, 0.5))

	assert.Equal(t, first+1, b.TopDepth())
}

func TestMove_KeepsGrabOffset(t *testing.T) {
	b, dc := newTestDrag(t, 2, 2)
	scatterExcept(t, b, 0)

	require.True(t, dc.Press(-0.375, 0.625)) // 1/8 right of and above center
	dc.Move(-0.125, 0.125)

	assert.Equal(t, model.Point2D{X: -0.25, Y: 0}, posOf(t, b, 0))
}

func TestMove_RigidGroupMotion(t *testing.T) {
	b, dc := newTestDrag(t, 3, 3)
	moveTo(t, b, 1, 0.137, 0.291)
	moveTo(t, b, 5, -0.203, -0.77)
	require.NoError(t, b.CloseGroup([]int{4, 1, 5}))
	offsets := map[int]model.Point2D{}
	for id, off := range groupOf(t, b, 4) {
		offsets[id] = off
	}

	start := posOf(t, b, 4)
	require.True(t, dc.Press(start.X, start.Y))
	for _, step := range []model.Point2D{{X: 0.1, Y: -0.05}, {X: -0.33, Y: 0.21}, {X: 0.07, Y: 0.4}} {
		dc.Move(step.X, step.Y)
		active := posOf(t, b, 4)
		for id, off := range offsets {
			assert.Equal(t, active.Add(off), posOf(t, b, id), "partner %d follows exactly", id)
		}
	}
	assert.Equal(t, offsets, groupOf(t, b, 4), "offsets are untouched while dragging")
}

func TestMove_ClampsToScene(t *testing.T) {
	b, dc := newTestDrag(t, 2, 2)
	scatterExcept(t, b, 0)

	require.True(t, dc.Press(-0.5, 0.5))
	dc.Move(5, -7)
	assert.Equal(t, model.Point2D{X: 1, Y: -1}, posOf(t, b, 0))

	dc.Move(-3, 3)
	assert.Equal(t, model.Point2D{X: -1, Y: 1}, posOf(t, b, 0))
}

func TestMove_IgnoredWhileIdle(t *testing.T) {
	b, dc := newTestDrag(t, 2, 2)
	before := posOf(t, b, 0)

	dc.Move(0.3, 0.3)
	assert.Equal(t, before, posOf(t, b, 0))
}

func TestRelease_RunsPlacementAndReturnsToIdle(t *testing.T) {
	b, dc := newTestDrag(t, 2, 2)
	scatterExcept(t, b, 0, 1)
	moveTo(t, b, 1, 5, 5)

	require.True(t, dc.Press(5, 5))
	dc.Move(0.51, 0.49)
	snaps, err := dc.Release()
	require.NoError(t, err)

	assert.Len(t, snaps, 1)
	assert.Equal(t, Idle, dc.State())
	assert.Equal(t, model.Point2D{X: 0.5, Y: 0.5}, posOf(t, b, 1))
}

func TestRelease_WhileIdleIsNoop(t *testing.T) {
	_, dc := newTestDrag(t, 2, 2)

	snaps, err := dc.Release()
	assert.NoError(t, err)
	assert.Nil(t, snaps)
}

func TestDragStateString(t *testing.T) {
	assert.Equal(t, "Idle", Idle.String())
	assert.Equal(t, "Dragging", Dragging.String())
}
