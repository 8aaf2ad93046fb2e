package engine

import (
	"context"
	"io"

	"github.com/charmbracelet/log"

	"github.com/piwi3910/RollCut/internal/model"
)

// Packer groups pieces into full-width rows across a roll.
//
// Each call to Pack owns a private pending pool, so one Packer may be used by
// several goroutines as long as Observer is safe for concurrent use.
type Packer struct {
	Settings model.PackSettings
	Logger   *log.Logger
	Observer SearchObserver
}

func New(settings model.PackSettings) *Packer {
	return &Packer{
		Settings: settings,
		Logger:   log.New(io.Discard),
	}
}

func (p *Packer) maxRowPieces() int {
	if p.Settings.MaxRowPieces <= 0 {
		return model.DefaultMaxRowPieces
	}
	return p.Settings.MaxRowPieces
}

func (p *Packer) logger() *log.Logger {
	if p.Logger == nil {
		return log.New(io.Discard)
	}
	return p.Logger
}

// Pack builds rows from instances until none remain or no row can be built.
//
// Every iteration picks, among all subsets of at most MaxRowPieces
// orientations of the pending pieces, the one with the largest width sum that
// still fits the roll; ties keep the first subset found. A subset filling the
// roll exactly ends the search at once.
//
// When no subset fits, PolicyAbandon stops and reports the whole pending pool
// as unplaced. PolicySetAside instead removes the pieces that fit in neither
// orientation up front and packs the rest.
//
// The only error returned is ctx.Err(); the result then holds the rows built
// so far and the remaining pool as unplaced.
func (p *Packer) Pack(ctx context.Context, instances []model.PieceInstance) (model.PackingResult, error) {
	logger := p.logger()
	rollWidth := p.Settings.RollWidth
	maxPieces := p.maxRowPieces()

	result := model.PackingResult{}
	pending := make([]model.PieceInstance, len(instances))
	copy(pending, instances)

	if p.Settings.Policy == model.PolicySetAside {
		fitting := pending[:0:0]
		for _, inst := range pending {
			if inst.Fits(rollWidth) {
				fitting = append(fitting, inst)
				continue
			}
			logger.Warn("setting aside piece wider than the roll", "piece", inst.ID, "size", sizeOf(inst), "roll_width", rollWidth)
			result.Unplaced = append(result.Unplaced, inst)
		}
		pending = fitting
	}

	for len(pending) > 0 {
		orients := orientationSet(pending)
		logger.Debug("searching row",
			"row", len(result.Rows)+1,
			"pending", len(pending),
			"orientations", len(orients),
			"bound", SearchBound(len(orients), maxPieces))

		search := newRowSearch(ctx, orients, rollWidth, p.Observer)
		chosen, err := search.run(maxPieces)
		if err != nil {
			result.Unplaced = append(result.Unplaced, pending...)
			return result, err
		}
		if chosen == nil {
			logger.Warn("no row fits the remaining pieces", "unplaced", len(pending), "roll_width", rollWidth)
			result.Unplaced = append(result.Unplaced, pending...)
			break
		}

		row := model.NewRow(chosen)
		result.Rows = append(result.Rows, row)
		pending = removeChosen(pending, chosen)

		logger.Debug("row emitted",
			"row", len(result.Rows),
			"pieces", len(row.Items),
			"used_width", row.UsedWidth,
			"height", row.Height,
			"evaluated", search.evaluated)
	}

	return result, nil
}

// orientationSet lists the unrotated orientation of every pending piece,
// each followed by its rotated orientation when the piece is not square.
func orientationSet(pending []model.PieceInstance) []model.Orientation {
	orients := make([]model.Orientation, 0, 2*len(pending))
	for _, inst := range pending {
		orients = append(orients, inst.Orientations()...)
	}
	return orients
}

// removeChosen drops the chosen instances by identity, keeping pool order.
func removeChosen(pending []model.PieceInstance, chosen []model.Orientation) []model.PieceInstance {
	ids := make(map[int]bool, len(chosen))
	for _, o := range chosen {
		ids[o.Instance.ID] = true
	}
	kept := pending[:0]
	for _, inst := range pending {
		if !ids[inst.ID] {
			kept = append(kept, inst)
		}
	}
	return kept
}

func sizeOf(inst model.PieceInstance) string {
	return model.PieceType{Width: inst.Width, Height: inst.Height}.String()
}
