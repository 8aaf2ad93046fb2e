package model

import (
	"sort"
	"strconv"

	"github.com/google/uuid"
)

// OffcutKind tells where in a row a remnant was found.
type OffcutKind string

const (
	OffcutRowEnd   OffcutKind = "row_end"   // strip to the right of the last piece
	OffcutBelowCut OffcutKind = "below_cut" // space under a piece shorter than its row
)

// Offcut represents a rectangular remnant left over after cutting a row.
type Offcut struct {
	ID     string     `json:"id"`
	Row    int        `json:"row"`    // 1-based row number
	Kind   OffcutKind `json:"kind"`   // where the remnant sits
	X      int        `json:"x"`      // mm from the left roll edge
	Y      int        `json:"y"`      // mm from the start of the plan
	Width  int        `json:"width"`  // mm
	Height int        `json:"height"` // mm
}

// Area returns the area of the offcut in square mm.
func (o Offcut) Area() int {
	return o.Width * o.Height
}

// ToPieceType converts an offcut into a piece type so it can be tracked as stock.
func (o Offcut) ToPieceType() PieceType {
	return NewPieceType("Offcut row "+strconv.Itoa(o.Row), o.Width, o.Height, 1)
}

// MinOffcutDimension is the minimum width or height (in mm) for a remnant
// to be considered a usable offcut. Remnants smaller than this are waste.
const MinOffcutDimension = 50

// MinOffcutArea is the minimum area (in sq mm) for a remnant to be considered usable.
const MinOffcutArea = 10000 // 100mm x 100mm equivalent

func usable(w, h int) bool {
	return w >= MinOffcutDimension && h >= MinOffcutDimension && w*h >= MinOffcutArea
}

// DetectOffcuts finds the usable remnants of one row starting at offset y.
func DetectOffcuts(row Row, rowNum, y, rollWidth int) []Offcut {
	var offcuts []Offcut

	if w := row.Leftover(rollWidth); usable(w, row.Height) {
		offcuts = append(offcuts, Offcut{
			ID:     uuid.New().String()[:8],
			Row:    rowNum,
			Kind:   OffcutRowEnd,
			X:      row.UsedWidth,
			Y:      y,
			Width:  w,
			Height: row.Height,
		})
	}

	x := 0
	for _, it := range row.Items {
		if h := row.Height - it.PlacedHeight; usable(it.PlacedWidth, h) {
			offcuts = append(offcuts, Offcut{
				ID:     uuid.New().String()[:8],
				Row:    rowNum,
				Kind:   OffcutBelowCut,
				X:      x,
				Y:      y + it.PlacedHeight,
				Width:  it.PlacedWidth,
				Height: h,
			})
		}
		x += it.PlacedWidth
	}

	return offcuts
}

// DetectAllOffcuts finds offcuts across all rows, largest first.
func DetectAllOffcuts(rows []Row, rollWidth int) []Offcut {
	var all []Offcut
	y := 0
	for i, row := range rows {
		all = append(all, DetectOffcuts(row, i+1, y, rollWidth)...)
		y += row.Height
	}
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].Area() > all[j].Area()
	})
	return all
}

// TotalOffcutArea returns the total area of all offcuts in square mm.
func TotalOffcutArea(offcuts []Offcut) int {
	var total int
	for _, o := range offcuts {
		total += o.Area()
	}
	return total
}
