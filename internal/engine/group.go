package engine

import (
	"fmt"

	"github.com/piwi3910/jigsnap/internal/model"
)

// Merge joins pieces first and second directly, storing each one's offset relative to
// the other at their current positions. A prior offset between the same
// pair is overwritten, so merging twice without moving is a no-op.
func (b *Board) Merge(first, second int) error {
	p1, err := b.Piece(first)
	if err != nil {
		return fmt.Errorf("merge: %w", err)
	}
	p2, err := b.Piece(second)
	if err != nil {
		return fmt.Errorf("merge: %w", err)
	}
	if first == second {
		return nil
	}
	merge(p1, p2)
	return nil
}

func merge(a, b *model.Piece) {
	b.Group[a.ID] = a.Pos.Sub(b.Pos)
	a.Group[b.ID] = b.Pos.Sub(a.Pos)
}

// CloseGroup merges every ordered pair of distinct members so the cluster
// becomes a complete graph. Movement only follows direct memberships, so a
// spanning structure is not enough. Duplicate ids are ignored.
func (b *Board) CloseGroup(members []int) error {
	seen := make(map[int]bool, len(members))
	cluster := make([]*model.Piece, 0, len(members))
	for _, id := range members {
		if seen[id] {
			continue
		}
		p, err := b.Piece(id)
		if err != nil {
			return fmt.Errorf("close group: %w", err)
		}
		seen[id] = true
		cluster = append(cluster, p)
	}

	for _, p1 := range cluster {
		for _, p2 := range cluster {
			if p1.ID == p2.ID {
				continue
			}
			merge(p1, p2)
		}
	}
	return nil
}

// GroupSize returns the number of pieces directly grouped with piece id.
func (b *Board) GroupSize(id int) (int, error) {
	p, err := b.Piece(id)
	if err != nil {
		return 0, err
	}
	return p.GroupSize(), nil
}

// IsFullyGrouped reports whether piece id is directly grouped with every
// other piece of a puzzle of total pieces.
func (b *Board) IsFullyGrouped(id, total int) (bool, error) {
	size, err := b.GroupSize(id)
	if err != nil {
		return false, err
	}
	return size == total-1, nil
}

// members returns piece p followed by every piece directly grouped with it,
// in ascending id order.
func (b *Board) members(p *model.Piece) []int {
	ids := make([]int, 0, len(p.Group)+1)
	ids = append(ids, p.ID)
	for i := range b.pieces {
		if _, ok := p.Group[i]; ok {
			ids = append(ids, i)
		}
	}
	return ids
}
