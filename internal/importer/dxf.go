package importer

import (
	"fmt"
	"math"
	"path/filepath"
	"sort"
	"strings"

	"github.com/piwi3910/jigsnap/internal/model"
	"github.com/yofu/dxf"
	"github.com/yofu/dxf/entity"
)

// cutTolerance is the distance under which two cut coordinates are the same
// line, and the slope under which a segment counts as axis aligned.
const cutTolerance = 0.01

// segment is a straight cut between two points.
type segment struct {
	start model.Point2D
	end   model.Point2D
}

// ImportDXF reads a straight-cut pattern such as the one written by the
// export package and recovers its grid as a single stage. Vertical cuts give
// the columns and horizontal cuts give the rows; the outer border counts as a
// cut on each side. Sloped segments are ignored with a warning.
func ImportDXF(path string) ImportResult {
	result := ImportResult{}

	drawing, err := dxf.Open(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open DXF file: %v", err))
		return result
	}

	entities := drawing.Entities()
	if len(entities) == 0 {
		result.Errors = append(result.Errors, "DXF file contains no entities")
		return result
	}

	var segments []segment
	for _, ent := range entities {
		switch e := ent.(type) {
		case *entity.Line:
			segments = append(segments, segment{
				start: model.Point2D{X: e.Start[0], Y: e.Start[1]},
				end:   model.Point2D{X: e.End[0], Y: e.End[1]},
			})
		case *entity.LwPolyline:
			segments = append(segments, lwPolylineSegments(e)...)
		default:
			// Unsupported entity types are silently skipped
		}
	}

	var xs, ys []float64
	sloped := 0
	for _, s := range segments {
		dx, dy := s.end.X-s.start.X, s.end.Y-s.start.Y
		switch {
		case math.Abs(dx) < cutTolerance && math.Abs(dy) >= cutTolerance:
			xs = append(xs, s.start.X)
		case math.Abs(dy) < cutTolerance && math.Abs(dx) >= cutTolerance:
			ys = append(ys, s.start.Y)
		default:
			sloped++
		}
	}
	if sloped > 0 {
		result.Warnings = append(result.Warnings, fmt.Sprintf("Skipped %d segments that are not straight cuts", sloped))
	}

	cols := len(clusterCoords(xs, cutTolerance)) - 1
	rows := len(clusterCoords(ys, cutTolerance)) - 1
	if rows < 1 || cols < 1 {
		result.Errors = append(result.Errors, "No rectangular cut grid found in DXF file")
		return result
	}

	label := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	result.Stages = append(result.Stages, model.Stage{Label: label, Rows: rows, Cols: cols})
	return result
}

// lwPolylineSegments splits a polyline into its edges, closing it back to
// the first vertex.
func lwPolylineSegments(lw *entity.LwPolyline) []segment {
	n := len(lw.Vertices)
	if n < 2 {
		return nil
	}
	segs := make([]segment, 0, n)
	for i := 0; i < n; i++ {
		v, next := lw.Vertices[i], lw.Vertices[(i+1)%n]
		segs = append(segs, segment{
			start: model.Point2D{X: v[0], Y: v[1]},
			end:   model.Point2D{X: next[0], Y: next[1]},
		})
	}
	return segs
}

// clusterCoords sorts coordinates and merges those closer than tol,
// returning one representative per cluster.
func clusterCoords(coords []float64, tol float64) []float64 {
	if len(coords) == 0 {
		return nil
	}
	sorted := append([]float64(nil), coords...)
	sort.Float64s(sorted)

	out := []float64{sorted[0]}
	for _, c := range sorted[1:] {
		if c-out[len(out)-1] >= tol {
			out = append(out, c)
		}
	}
	return out
}
