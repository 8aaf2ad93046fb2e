package importer

import (
	"fmt"
	"math"
	"sort"

	"github.com/yofu/dxf"
	"github.com/yofu/dxf/entity"

	"github.com/piwi3910/RollCut/internal/model"
)

type point struct{ X, Y float64 }

// shape is a closed outline read from a drawing.
type shape []point

func (s shape) bounds() (minP, maxP point) {
	minP = point{math.Inf(1), math.Inf(1)}
	maxP = point{math.Inf(-1), math.Inf(-1)}
	for _, p := range s {
		minP.X, minP.Y = math.Min(minP.X, p.X), math.Min(minP.Y, p.Y)
		maxP.X, maxP.Y = math.Max(maxP.X, p.X), math.Max(maxP.Y, p.Y)
	}
	return minP, maxP
}

// area computes the absolute polygon area using the shoelace formula.
func (s shape) area() float64 {
	n := len(s)
	if n < 3 {
		return 0
	}
	var a float64
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		a += s[i].X*s[j].Y - s[j].X*s[i].Y
	}
	return math.Abs(a) / 2
}

type segment struct{ start, end point }

// chainTolerance is the largest gap in drawing units between two endpoints
// that still joins them.
const chainTolerance = 0.01

// ImportDXF imports pieces from a DXF drawing. Every closed shape
// (LWPOLYLINE, CIRCLE, or chain of LINEs and ARCs) contributes its bounding
// box, rounded to whole millimetres. Shapes with the same size are merged
// into one piece type.
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

	var shapes []shape
	var segments []segment
	for _, ent := range entities {
		switch e := ent.(type) {
		case *entity.LwPolyline:
			if s := lwPolylineShape(e); len(s) >= 3 {
				shapes = append(shapes, s)
			} else {
				result.Warnings = append(result.Warnings, "Skipped LWPOLYLINE with fewer than 3 vertices")
			}
		case *entity.Circle:
			c := point{e.Center[0], e.Center[1]}
			r := e.Radius
			shapes = append(shapes, shape{{c.X - r, c.Y - r}, {c.X + r, c.Y - r}, {c.X + r, c.Y + r}, {c.X - r, c.Y + r}})
		case *entity.Arc:
			segments = append(segments, arcSegments(e, 32)...)
		case *entity.Line:
			segments = append(segments, segment{
				start: point{e.Start[0], e.Start[1]},
				end:   point{e.End[0], e.End[1]},
			})
		}
	}

	shapes = append(shapes, chainSegments(segments, chainTolerance)...)
	if len(shapes) == 0 {
		result.Errors = append(result.Errors, "No closed shapes found in DXF file")
		return result
	}

	bySize := map[[2]int]int{} // size -> index into result.Pieces
	merged := 0
	for _, s := range shapes {
		lo, hi := s.bounds()
		w, h := hi.X-lo.X, hi.Y-lo.Y
		width, height := int(math.Round(w)), int(math.Round(h))
		if width < 1 || height < 1 {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("Skipped degenerate shape (%.2f x %.2f mm)", w, h))
			continue
		}

		key := [2]int{width, height}
		if i, ok := bySize[key]; ok {
			result.Pieces[i].Quantity++
			merged++
			continue
		}
		bySize[key] = len(result.Pieces)
		label := fmt.Sprintf("DXF Piece %d", len(result.Pieces)+1)
		result.Pieces = append(result.Pieces, model.NewPieceType(label, width, height, 1))
	}

	if len(result.Pieces) == 0 {
		result.Errors = append(result.Errors, "No usable shapes found in DXF file")
	} else if merged > 0 {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("Merged %d shapes into %d piece types by size", len(result.Pieces)+merged, len(result.Pieces)))
	}
	return result
}

// lwPolylineShape converts an LWPOLYLINE into a shape. Bulged vertices are
// expanded into arc points.
func lwPolylineShape(lw *entity.LwPolyline) shape {
	var s shape
	for i, v := range lw.Vertices {
		cur := point{v[0], v[1]}
		bulge := 0.0
		if i < len(lw.Bulges) {
			bulge = lw.Bulges[i]
		}
		if math.Abs(bulge) < 1e-9 {
			s = append(s, cur)
			continue
		}
		nv := lw.Vertices[(i+1)%len(lw.Vertices)]
		arc := bulgeArcPoints(cur, point{nv[0], nv[1]}, bulge, 32)
		s = append(s, arc[:len(arc)-1]...)
	}
	return s
}

// bulgeArcPoints generates points along the arc between p1 and p2 described
// by a DXF bulge (tangent of a quarter of the included angle).
func bulgeArcPoints(p1, p2 point, bulge float64, steps int) []point {
	dx, dy := p2.X-p1.X, p2.Y-p1.Y
	chord := math.Hypot(dx, dy)
	if chord < 1e-9 {
		return []point{p1, p2}
	}

	sagitta := math.Abs(bulge) * chord / 2
	radius := (chord*chord/(4*sagitta) + sagitta) / 2

	px, py := -dy/chord, dx/chord
	if bulge > 0 {
		px, py = -px, -py
	}
	dist := radius - sagitta
	cx := (p1.X+p2.X)/2 + px*dist
	cy := (p1.Y+p2.Y)/2 + py*dist

	start := math.Atan2(p1.Y-cy, p1.X-cx)
	end := math.Atan2(p2.Y-cy, p2.X-cx)
	if bulge < 0 && end > start {
		end -= 2 * math.Pi
	} else if bulge > 0 && end < start {
		end += 2 * math.Pi
	}

	pts := make([]point, steps+1)
	for i := range pts {
		a := start + float64(i)/float64(steps)*(end-start)
		pts[i] = point{cx + radius*math.Cos(a), cy + radius*math.Sin(a)}
	}
	return pts
}

// arcSegments approximates an ARC entity (angles in degrees) with segments.
func arcSegments(a *entity.Arc, steps int) []segment {
	cx, cy, r := a.Circle.Center[0], a.Circle.Center[1], a.Circle.Radius
	start := a.Angle[0] * math.Pi / 180
	end := a.Angle[1] * math.Pi / 180
	if end <= start {
		end += 2 * math.Pi
	}

	segs := make([]segment, 0, steps)
	prev := point{cx + r*math.Cos(start), cy + r*math.Sin(start)}
	for i := 1; i <= steps; i++ {
		ang := start + float64(i)/float64(steps)*(end-start)
		next := point{cx + r*math.Cos(ang), cy + r*math.Sin(ang)}
		segs = append(segs, segment{prev, next})
		prev = next
	}
	return segs
}

func pointsClose(a, b point, tolerance float64) bool {
	return math.Hypot(a.X-b.X, a.Y-b.Y) <= tolerance
}

// chainSegments connects loose segments into closed shapes, largest first.
// Chains that do not close are dropped.
func chainSegments(segs []segment, tolerance float64) []shape {
	used := make([]bool, len(segs))
	var shapes []shape

	for first := range segs {
		if used[first] {
			continue
		}
		used[first] = true
		chain := shape{segs[first].start, segs[first].end}

		for extended := true; extended; {
			extended = false
			tail := chain[len(chain)-1]
			for i, seg := range segs {
				if used[i] {
					continue
				}
				switch {
				case pointsClose(tail, seg.start, tolerance):
					chain = append(chain, seg.end)
				case pointsClose(tail, seg.end, tolerance):
					chain = append(chain, seg.start)
				default:
					continue
				}
				used[i] = true
				extended = true
				break
			}
		}

		if len(chain) >= 4 && pointsClose(chain[0], chain[len(chain)-1], tolerance) {
			shapes = append(shapes, chain[:len(chain)-1])
		}
	}

	sort.SliceStable(shapes, func(i, j int) bool {
		return shapes[i].area() > shapes[j].area()
	})
	return shapes
}
