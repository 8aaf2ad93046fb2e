package importer

import (
	"math"
	"testing"
)

func rectSegments(x, y, w, h float64) []segment {
	a, b, c, d := point{x, y}, point{x + w, y}, point{x + w, y + h}, point{x, y + h}
	return []segment{{a, b}, {c, b}, {c, d}, {d, a}}
}

func TestChainSegments_Rectangles(t *testing.T) {
	segs := append(rectSegments(0, 0, 100, 50), rectSegments(200, 0, 300, 400)...)
	shapes := chainSegments(segs, chainTolerance)

	if len(shapes) != 2 {
		t.Fatalf("expected 2 shapes, got %d", len(shapes))
	}
	lo, hi := shapes[0].bounds()
	if hi.X-lo.X != 300 || hi.Y-lo.Y != 400 {
		t.Errorf("expected largest shape 300x400 first, got %vx%v", hi.X-lo.X, hi.Y-lo.Y)
	}
	if got := shapes[1].area(); got != 5000 {
		t.Errorf("expected area 5000, got %v", got)
	}
}

func TestChainSegments_OpenChainDropped(t *testing.T) {
	segs := rectSegments(0, 0, 100, 50)[:3]
	if shapes := chainSegments(segs, chainTolerance); len(shapes) != 0 {
		t.Errorf("open chain should not become a shape, got %d", len(shapes))
	}
}

func TestBulgeArcPoints_Semicircle(t *testing.T) {
	// A bulge of 1 is a half circle over the chord.
	pts := bulgeArcPoints(point{0, 0}, point{100, 0}, 1, 16)
	if len(pts) != 17 {
		t.Fatalf("expected 17 points, got %d", len(pts))
	}
	for _, p := range pts {
		if r := math.Hypot(p.X-50, p.Y); math.Abs(r-50) > 1e-6 {
			t.Fatalf("point %v is not on the arc (r=%v)", p, r)
		}
	}
	mid := pts[8]
	if math.Abs(math.Abs(mid.Y)-50) > 1e-6 {
		t.Errorf("expected arc apex 50 from the chord, got %v", mid)
	}
}

func TestImportDXF_FileNotFound(t *testing.T) {
	if r := ImportDXF("/nonexistent/file.dxf"); len(r.Errors) == 0 {
		t.Error("expected error for nonexistent file")
	}
}
