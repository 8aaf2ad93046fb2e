package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// PieceType is one line of the cut list: a rectangle and how many of it are needed.
type PieceType struct {
	ID       string `json:"id"`
	Label    string `json:"label"`
	Width    int    `json:"width"`  // mm
	Height   int    `json:"height"` // mm
	Quantity int    `json:"quantity"`
}

func NewPieceType(label string, w, h, qty int) PieceType {
	return PieceType{
		ID:       uuid.New().String()[:8],
		Label:    label,
		Width:    w,
		Height:   h,
		Quantity: qty,
	}
}

// Area returns the area of a single piece of this type in square mm.
func (p PieceType) Area() int {
	return p.Width * p.Height
}

// String renders the type as "WxH" in mm.
func (p PieceType) String() string {
	return fmt.Sprintf("%dx%d", p.Width, p.Height)
}

// PieceInstance is one physical piece to be cut.
// Width and Height are the original, unrotated dimensions.
type PieceInstance struct {
	ID     int    `json:"id"` // sequence number, unique within one packing run
	TypeID string `json:"type_id"`
	Label  string `json:"label"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// Square reports whether the piece has a single orientation.
func (p PieceInstance) Square() bool {
	return p.Width == p.Height
}

// Fits reports whether at least one orientation of the piece fits the roll width.
func (p PieceInstance) Fits(rollWidth int) bool {
	return p.Width <= rollWidth || p.Height <= rollWidth
}

// Orientation is a candidate placement of one instance.
type Orientation struct {
	Instance     PieceInstance `json:"instance"`
	PlacedWidth  int           `json:"placed_width"`
	PlacedHeight int           `json:"placed_height"`
	Rotated      bool          `json:"rotated"`
}

// Orientations returns the unrotated orientation of p, followed by the rotated
// one when p is not square.
func (p PieceInstance) Orientations() []Orientation {
	o := []Orientation{{Instance: p, PlacedWidth: p.Width, PlacedHeight: p.Height}}
	if !p.Square() {
		o = append(o, Orientation{Instance: p, PlacedWidth: p.Height, PlacedHeight: p.Width, Rotated: true})
	}
	return o
}

// Place turns a chosen orientation into a placed item.
func (o Orientation) Place() PlacedItem {
	return PlacedItem{
		InstanceID:     o.Instance.ID,
		TypeID:         o.Instance.TypeID,
		Label:          o.Instance.Label,
		PlacedWidth:    o.PlacedWidth,
		PlacedHeight:   o.PlacedHeight,
		OriginalWidth:  o.Instance.Width,
		OriginalHeight: o.Instance.Height,
		Rotated:        o.Rotated,
	}
}

// PlacedItem is one piece inside an emitted row.
type PlacedItem struct {
	InstanceID     int    `json:"instance_id"`
	TypeID         string `json:"type_id"`
	Label          string `json:"label"`
	PlacedWidth    int    `json:"placed_width"`
	PlacedHeight   int    `json:"placed_height"`
	OriginalWidth  int    `json:"original_width"`
	OriginalHeight int    `json:"original_height"`
	Rotated        bool   `json:"rotated"`
}

// Area returns the placed area, which always equals the original area.
func (p PlacedItem) Area() int {
	return p.PlacedWidth * p.PlacedHeight
}

// Row is one full-width strip cut across the roll.
type Row struct {
	Items     []PlacedItem `json:"items"`
	UsedWidth int          `json:"used_width"` // sum of placed widths
	Height    int          `json:"height"`     // tallest placed height
}

// NewRow builds a row from chosen orientations, in the given order.
func NewRow(chosen []Orientation) Row {
	row := Row{Items: make([]PlacedItem, 0, len(chosen))}
	for _, o := range chosen {
		row.Items = append(row.Items, o.Place())
		row.UsedWidth += o.PlacedWidth
		if o.PlacedHeight > row.Height {
			row.Height = o.PlacedHeight
		}
	}
	return row
}

// UsedArea returns the total area of the pieces in the row.
func (r Row) UsedArea() int {
	var total int
	for _, it := range r.Items {
		total += it.Area()
	}
	return total
}

// Leftover returns the unused width at the end of the row.
func (r Row) Leftover(rollWidth int) int {
	return rollWidth - r.UsedWidth
}

// Fill returns the used-width percentage of the row.
func (r Row) Fill(rollWidth int) float64 {
	if rollWidth <= 0 {
		return 0
	}
	return float64(r.UsedWidth) / float64(rollWidth) * 100.0
}

// PackingResult holds the emitted rows and the pieces that could not be placed.
type PackingResult struct {
	Rows     []Row           `json:"rows"`
	Unplaced []PieceInstance `json:"unplaced"`
}

// Complete reports whether every piece was placed.
func (r PackingResult) Complete() bool {
	return len(r.Unplaced) == 0
}

// PieceCount returns the number of placed pieces.
func (r PackingResult) PieceCount() int {
	n := 0
	for _, row := range r.Rows {
		n += len(row.Items)
	}
	return n
}

// Metrics summarizes material consumption of a packing result.
type Metrics struct {
	TotalLength int     `json:"total_length"` // mm of roll consumed
	TotalArea   int     `json:"total_area"`   // sq mm
	UsedArea    int     `json:"used_area"`    // sq mm
	WasteArea   int     `json:"waste_area"`   // sq mm
	Utilization float64 `json:"utilization"`  // fraction 0..1
}

// UtilizationPercent returns Utilization as a percentage.
func (m Metrics) UtilizationPercent() float64 {
	return m.Utilization * 100.0
}

// Policy decides what the packer does when no row can be built.
type Policy string

const (
	PolicyAbandon  Policy = "abandon"   // stop and report the whole pending pool as unplaced
	PolicySetAside Policy = "set-aside" // drop only unfittable pieces and keep packing
)

// Policies lists the known NO_FIT policies.
var Policies = []Policy{PolicyAbandon, PolicySetAside}

// Valid reports whether p is a known policy.
func (p Policy) Valid() bool {
	for _, known := range Policies {
		if p == known {
			return true
		}
	}
	return false
}

// DefaultMaxRowPieces bounds the number of pieces tried together in one row.
const DefaultMaxRowPieces = 6

// MaxRowPiecesLimit is the highest accepted MaxRowPieces value.
const MaxRowPiecesLimit = 10

// MaxPieces caps the total number of pieces in one job, summed over quantities.
const MaxPieces = 10000

// DefaultRollWidth is the width of a standard 1050 mm roll.
const DefaultRollWidth = 1050

// DefaultRollLength is the default usable length of one roll.
const DefaultRollLength = 50000

// PackSettings holds the row packer configuration.
type PackSettings struct {
	RollWidth    int    `json:"roll_width" toml:"roll_width"`         // mm
	MaxRowPieces int    `json:"max_row_pieces" toml:"max_row_pieces"` // subset size cap per row
	Policy       Policy `json:"policy" toml:"policy"`
}

func DefaultSettings() PackSettings {
	return PackSettings{
		RollWidth:    DefaultRollWidth,
		MaxRowPieces: DefaultMaxRowPieces,
		Policy:       PolicyAbandon,
	}
}

// Job ties a cut list to its roll and packer configuration for save/load.
type Job struct {
	Name       string         `json:"name"`
	Pieces     []PieceType    `json:"pieces"`
	RollLength int            `json:"roll_length"` // mm; used for validation and display only
	Settings   PackSettings   `json:"settings"`
	Result     *PackingResult `json:"result,omitempty"`
}

func NewJob() Job {
	return Job{
		Name:       "Untitled",
		Pieces:     []PieceType{},
		RollLength: DefaultRollLength,
		Settings:   DefaultSettings(),
	}
}

// PieceCount returns the total number of pieces requested by the job.
func (j Job) PieceCount() int {
	n := 0
	for _, p := range j.Pieces {
		n += p.Quantity
	}
	return n
}

// RequiredArea returns the total area of all requested pieces in square mm.
func (j Job) RequiredArea() int {
	total := 0
	for _, p := range j.Pieces {
		total += p.Area() * p.Quantity
	}
	return total
}

// Plan is a packed job together with everything the presentation layers need.
type Plan struct {
	Name        string        `json:"name"`
	RollWidth   int           `json:"roll_width"`
	RollLength  int           `json:"roll_length"`
	Pieces      []PieceType   `json:"pieces"`
	Result      PackingResult `json:"result"`
	Metrics     Metrics       `json:"metrics"`
	Offcuts     []Offcut      `json:"offcuts"`
	GeneratedAt time.Time     `json:"generated_at"`
}
