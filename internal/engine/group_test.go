package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMerge_OffsetsAreAntisymmetric(t *testing.T) {
	b := newTestBoard(t, 3, 3)
	moveTo(t, b, 2, 0.137, -0.42)
	moveTo(t, b, 6, -0.61, 0.29)

	require.NoError(t, b.Merge(2, 6))

	g2, g6 := groupOf(t, b, 2), groupOf(t, b, 6)
	require.Contains(t, g2, 6)
	require.Contains(t, g6, 2)
	assert.Equal(t, posOf(t, b, 6).Sub(posOf(t, b, 2)), g2[6])
	assert.Equal(t, g2[6].Neg(), g6[2])
}

func TestMerge_IdempotentWithoutMovement(t *testing.T) {
	b := newTestBoard(t, 2, 2)
	moveTo(t, b, 1, 0.3, 0.2)

	require.NoError(t, b.Merge(0, 1))
	first := groupOf(t, b, 0)[1]
	require.NoError(t, b.Merge(0, 1))
	require.NoError(t, b.Merge(1, 0))

	assert.Equal(t, first, groupOf(t, b, 0)[1])
	assert.Len(t, groupOf(t, b, 0), 1)
	assert.Len(t, groupOf(t, b, 1), 1)
}

func TestMerge_OverwritesPriorOffset(t *testing.T) {
	b := newTestBoard(t, 2, 2)
	require.NoError(t, b.Merge(0, 1))

	moveTo(t, b, 1, 0.75, 0.25)
	require.NoError(t, b.Merge(0, 1))

	assert.Equal(t, posOf(t, b, 1).Sub(posOf(t, b, 0)), groupOf(t, b, 0)[1])
	assert.Equal(t, posOf(t, b, 0).Sub(posOf(t, b, 1)), groupOf(t, b, 1)[0])
}

func TestMerge_SelfAndUnknown(t *testing.T) {
	b := newTestBoard(t, 2, 2)

	require.NoError(t, b.Merge(3, 3))
	assert.Empty(t, groupOf(t, b, 3))

	assert.ErrorIs(t, b.Merge(0, 4), ErrUnknownPiece)
	assert.ErrorIs(t, b.Merge(-2, 0), ErrUnknownPiece)
}

func TestCloseGroup_ProducesCompleteGraph(t *testing.T) {
	for k := 1; k <= 5; k++ {
		b := newTestBoard(t, 3, 3)
		members := make([]int, 0, k)
		for i := 0; i < k; i++ {
			members = append(members, i*2)
		}

		require.NoError(t, b.CloseGroup(members))

		assert.Equal(t, k*(k-1), directedEntries(b), "k=%d", k)
		for _, m := range members {
			assert.Len(t, groupOf(t, b, m), k-1)
		}
	}
}

func TestCloseGroup_IgnoresDuplicates(t *testing.T) {
	b := newTestBoard(t, 3, 3)

	require.NoError(t, b.CloseGroup([]int{4, 0, 4, 8, 0}))

	assert.Equal(t, 6, directedEntries(b))
}

func TestCloseGroup_UnknownMemberFails(t *testing.T) {
	b := newTestBoard(t, 2, 2)

	err := b.CloseGroup([]int{0, 1, 17})
	assert.ErrorIs(t, err, ErrUnknownPiece)
	assert.Equal(t, 0, directedEntries(b), "nothing is merged when a member is unknown")
}

func TestIsFullyGrouped(t *testing.T) {
	b := newTestBoard(t, 2, 2)

	require.NoError(t, b.CloseGroup([]int{0, 1, 2}))
	for id := 0; id < 3; id++ {
		ok, err := b.IsFullyGrouped(id, b.Len())
		require.NoError(t, err)
		assert.False(t, ok, "piece %d", id)
	}

	require.NoError(t, b.CloseGroup([]int{0, 1, 2, 3}))
	for id := 0; id < 4; id++ {
		ok, err := b.IsFullyGrouped(id, b.Len())
		require.NoError(t, err)
		assert.True(t, ok, "piece %d", id)
	}

	_, err := b.IsFullyGrouped(12, b.Len())
	assert.ErrorIs(t, err, ErrUnknownPiece)
}

func TestMembers_ActiveFirstThenAscending(t *testing.T) {
	b := newTestBoard(t, 3, 3)
	require.NoError(t, b.CloseGroup([]int{7, 2, 5}))

	p, err := b.Piece(5)
	require.NoError(t, err)
	assert.Equal(t, []int{5, 2, 7}, b.members(p))
}
