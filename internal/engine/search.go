package engine

import (
	"context"
	"sync/atomic"

	"github.com/piwi3910/RollCut/internal/model"
)

// Candidate is one valid subset of orientations examined during a row search.
type Candidate struct {
	Size  int                 // number of pieces in the subset
	Fill  int                 // sum of placed widths
	Items []model.Orientation // in enumeration order
}

// SearchObserver watches the row search. Evaluated is called for every valid
// subset in enumeration order; Improved whenever a subset becomes the new best.
// Observers are called synchronously from the packing goroutine.
type SearchObserver interface {
	Evaluated(c Candidate)
	Improved(c Candidate)
}

// CountingObserver counts evaluated candidates and improvements.
// It is safe to share between concurrent packs.
type CountingObserver struct {
	evaluated atomic.Int64
	improved  atomic.Int64
}

// Evaluated counts one valid subset.
func (c *CountingObserver) Evaluated(Candidate) { c.evaluated.Add(1) }

// Improved counts one new best fill.
func (c *CountingObserver) Improved(Candidate) { c.improved.Add(1) }

// EvaluatedCount returns the number of valid subsets seen so far.
func (c *CountingObserver) EvaluatedCount() int64 { return c.evaluated.Load() }

// ImprovedCount returns the number of best-fill improvements seen so far.
func (c *CountingObserver) ImprovedCount() int64 { return c.improved.Load() }

// ctxCheckInterval is how many evaluated subsets pass between context checks.
const ctxCheckInterval = 1 << 12

// SearchBound returns the number of subsets the row search may enumerate for n
// orientations and a cap of k pieces per row: sum over r=1..min(k,n) of C(n, r).
// The result is a float64 because it grows as O(n^k).
func SearchBound(n, k int) float64 {
	if k > n {
		k = n
	}
	var total float64
	c := 1.0
	for r := 1; r <= k; r++ {
		c = c * float64(n-r+1) / float64(r)
		total += c
	}
	return total
}

// rowSearch finds the subset of orientations with the largest width sum not
// exceeding rollWidth, using at most one orientation per instance.
//
// Subsets are visited by ascending size, then in lexicographic index order
// within a size. Prefixes that are already invalid (repeated instance or width
// overflow) are pruned; since widths are positive no extension of such a prefix
// can become valid, so the order of valid subsets is unchanged.
type rowSearch struct {
	ctx       context.Context
	orients   []model.Orientation
	rollWidth int
	observer  SearchObserver

	size      int
	picked    []int
	used      map[int]bool
	best      []int
	bestFill  int
	perfect   bool
	evaluated int
	err       error
}

func newRowSearch(ctx context.Context, orients []model.Orientation, rollWidth int, observer SearchObserver) *rowSearch {
	return &rowSearch{
		ctx:       ctx,
		orients:   orients,
		rollWidth: rollWidth,
		observer:  observer,
		used:      make(map[int]bool),
		bestFill:  -1,
	}
}

// run searches subset sizes 1..maxSize and returns the chosen orientations,
// or nil when no subset is valid.
func (s *rowSearch) run(maxSize int) ([]model.Orientation, error) {
	if err := s.ctx.Err(); err != nil {
		return nil, err
	}
	k := min(maxSize, len(s.orients))
	for r := 1; r <= k; r++ {
		s.size = r
		s.walk(0, 0)
		if s.err != nil {
			return nil, s.err
		}
		if s.perfect {
			break
		}
	}
	if s.best == nil {
		return nil, nil
	}
	return s.pick(s.best), nil
}

func (s *rowSearch) stopped() bool {
	return s.perfect || s.err != nil
}

func (s *rowSearch) walk(start, width int) {
	if len(s.picked) == s.size {
		s.evaluate(width)
		return
	}
	need := s.size - len(s.picked)
	for i := start; i <= len(s.orients)-need; i++ {
		if s.stopped() {
			return
		}
		o := s.orients[i]
		id := o.Instance.ID
		if s.used[id] || width+o.PlacedWidth > s.rollWidth {
			continue
		}
		s.used[id] = true
		s.picked = append(s.picked, i)
		s.walk(i+1, width+o.PlacedWidth)
		s.picked = s.picked[:len(s.picked)-1]
		delete(s.used, id)
	}
}

func (s *rowSearch) evaluate(width int) {
	s.evaluated++
	if s.evaluated%ctxCheckInterval == 0 {
		if err := s.ctx.Err(); err != nil {
			s.err = err
			return
		}
	}
	if s.observer != nil {
		s.observer.Evaluated(s.candidate(s.picked, width))
	}
	if width <= s.bestFill {
		return
	}
	s.bestFill = width
	s.best = append(s.best[:0], s.picked...)
	if s.observer != nil {
		s.observer.Improved(s.candidate(s.best, width))
	}
	if width == s.rollWidth {
		s.perfect = true
	}
}

func (s *rowSearch) candidate(idx []int, width int) Candidate {
	return Candidate{Size: len(idx), Fill: width, Items: s.pick(idx)}
}

func (s *rowSearch) pick(idx []int) []model.Orientation {
	out := make([]model.Orientation, len(idx))
	for i, j := range idx {
		out[i] = s.orients[j]
	}
	return out
}
