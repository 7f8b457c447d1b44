package engine

import (
	"fmt"
	"math"

	"github.com/piwi3910/jigsnap/internal/model"
)

type axis int

const (
	axisX axis = iota
	axisY
)

func (a axis) of(p model.Point2D) float64 {
	if a == axisX {
		return p.X
	}
	return p.Y
}

func (a axis) other() axis {
	if a == axisX {
		return axisY
	}
	return axisX
}

// point builds a position from its coordinate along a and across a.
func (a axis) point(along, across float64) model.Point2D {
	if a == axisX {
		return model.Point2D{X: along, Y: across}
	}
	return model.Point2D{X: across, Y: along}
}

// side describes where a neighbor sits relative to a piece: the axis the
// two pieces meet along and the sign of the step from the piece to the
// neighbor on that axis (scene y grows upward).
type side struct {
	axis axis
	sign float64
}

var sides = [model.NumNeighbors]side{
	model.Left:   {axis: axisX, sign: -1},
	model.Right:  {axis: axisX, sign: +1},
	model.Top:    {axis: axisY, sign: +1},
	model.Bottom: {axis: axisY, sign: -1},
}

func sideFor(d model.Direction) (side, error) {
	if !d.Valid() {
		return side{}, fmt.Errorf("slot %d: %w", int(d), ErrInvalidDirection)
	}
	return sides[d], nil
}

// gaps returns the distance between the facing edges of p and its neighbor n
// along the snapping axis, and the distance between their centers across it.
func (s side) gaps(p, n model.Point2D, size float64) (edge, align float64) {
	pEdge := s.axis.of(p) + s.sign*size/2
	nEdge := s.axis.of(n) - s.sign*size/2
	edge = math.Abs(nEdge - pEdge)
	align = math.Abs(s.axis.other().of(n) - s.axis.other().of(p))
	return edge, align
}

// target returns the position at which p touches n with zero gap and
// centers aligned across the snapping axis.
func (s side) target(n model.Point2D, size float64) model.Point2D {
	return s.axis.point(s.axis.of(n)-s.sign*size, s.axis.other().of(n))
}

// Snap records one successful snap of a released piece onto a neighbor.
type Snap struct {
	Piece     int
	Neighbor  int
	Direction model.Direction
	Delta     model.Point2D // Translation applied to Piece and its group
}

// Placer decides, when a drag ends, which released pieces snap onto their
// correct neighbors, and merges the resulting groups.
type Placer struct {
	board     *Board
	threshold float64
}

// NewPlacer creates a Placer. A non-positive or non-finite threshold uses
// model.DefaultSnapThreshold.
func NewPlacer(board *Board, threshold float64) *Placer {
	if !model.ValidThreshold(threshold) {
		threshold = model.DefaultSnapThreshold
	}
	return &Placer{board: board, threshold: threshold}
}

// Threshold returns the snapping distance in use.
func (pl *Placer) Threshold() float64 {
	return pl.threshold
}

// Place evaluates every neighbor slot of the released piece and of each piece
// grouped with it at release time. Several snaps may happen in one call.
func (pl *Placer) Place(active int) ([]Snap, error) {
	p, err := pl.board.Piece(active)
	if err != nil {
		return nil, fmt.Errorf("place: %w", err)
	}

	var snaps []Snap
	for _, id := range pl.board.members(p) {
		ap, err := pl.board.Piece(id)
		if err != nil {
			return snaps, fmt.Errorf("place: %w", err)
		}
		for _, d := range model.Directions {
			snap, ok, err := pl.trySnap(ap, d)
			if err != nil {
				return snaps, fmt.Errorf("place piece %d: %w", id, err)
			}
			if ok {
				snaps = append(snaps, snap)
			}
		}
	}
	return snaps, nil
}

// trySnap tests piece p against its neighbor in direction d and snaps it
// when both gaps are within threshold.
func (pl *Placer) trySnap(p *model.Piece, d model.Direction) (Snap, bool, error) {
	s, err := sideFor(d)
	if err != nil {
		return Snap{}, false, err
	}
	nid := p.Neighbors[d]
	if nid == model.NoNeighbor {
		return Snap{}, false, nil
	}
	if _, joined := p.Group[nid]; joined {
		return Snap{}, false, nil
	}
	n, err := pl.board.Piece(nid)
	if err != nil {
		return Snap{}, false, fmt.Errorf("%s neighbor: %w", d, err)
	}

	size := pl.board.width
	if s.axis == axisY {
		size = pl.board.height
	}

	edge, align := s.gaps(p.Pos, n.Pos, size)
	if edge > pl.threshold || align > pl.threshold {
		return Snap{}, false, nil
	}

	target := s.target(n.Pos, size)
	delta := target.Sub(p.Pos)
	p.Pos = target
	for gid := range p.Group {
		g := &pl.board.pieces[gid]
		g.Pos = g.Pos.Add(delta)
	}

	merge(p, n)
	cluster := append(pl.board.members(n), pl.board.members(p)...)
	if err := pl.board.CloseGroup(cluster); err != nil {
		return Snap{}, false, err
	}

	return Snap{Piece: p.ID, Neighbor: n.ID, Direction: d, Delta: delta}, true, nil
}
