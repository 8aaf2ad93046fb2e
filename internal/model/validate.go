package model

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidJob is matched by every error returned from ValidateJob.
var ErrInvalidJob = errors.New("invalid job")

// ValidationError describes one rejected field of a job.
type ValidationError struct {
	Piece  int    // index into Job.Pieces, -1 for job-level fields
	Field  string // e.g. "width", "roll_width"
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Piece >= 0 {
		return fmt.Sprintf("piece %d: %s: %s", e.Piece+1, e.Field, e.Reason)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// Is lets errors.Is(err, ErrInvalidJob) match any validation error.
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidJob
}

// ValidateJob checks a job before it is handed to the packer.
// All problems are reported together, joined with errors.Join.
func ValidateJob(job Job) error {
	var errs []error
	add := func(piece int, field, format string, args ...any) {
		errs = append(errs, &ValidationError{Piece: piece, Field: field, Reason: fmt.Sprintf(format, args...)})
	}

	s := job.Settings
	if s.RollWidth <= 0 {
		add(-1, "roll_width", "must be greater than zero, got %d", s.RollWidth)
	}
	if job.RollLength < 0 {
		add(-1, "roll_length", "must not be negative, got %d", job.RollLength)
	}
	if s.MaxRowPieces < 1 || s.MaxRowPieces > MaxRowPiecesLimit {
		add(-1, "max_row_pieces", "must be between 1 and %d, got %d", MaxRowPiecesLimit, s.MaxRowPieces)
	}
	if !s.Policy.Valid() {
		add(-1, "policy", "unknown policy %q", s.Policy)
	}
	if len(job.Pieces) == 0 {
		add(-1, "pieces", "at least one piece is required")
	}

	errs = append(errs, pieceErrors(job.Pieces, s.RollWidth)...)

	return errors.Join(errs...)
}

// ValidatePieces checks piece sizes and quantities against a roll width.
// A non-positive rollWidth skips the fit check.
func ValidatePieces(pieces []PieceType, rollWidth int) error {
	return errors.Join(pieceErrors(pieces, rollWidth)...)
}

func pieceErrors(pieces []PieceType, rollWidth int) []error {
	var errs []error
	add := func(piece int, field, format string, args ...any) {
		errs = append(errs, &ValidationError{Piece: piece, Field: field, Reason: fmt.Sprintf(format, args...)})
	}

	total := 0
	for i, p := range pieces {
		if p.Width <= 0 {
			add(i, "width", "must be greater than zero, got %d", p.Width)
		}
		if p.Height <= 0 {
			add(i, "height", "must be greater than zero, got %d", p.Height)
		}
		switch {
		case p.Quantity <= 0:
			add(i, "quantity", "must be greater than zero, got %d", p.Quantity)
		case p.Quantity > MaxPieces:
			add(i, "quantity", "must be at most %d, got %d", MaxPieces, p.Quantity)
		default:
			total += p.Quantity
		}
		if rollWidth > 0 && p.Width > rollWidth && p.Height > rollWidth {
			add(i, "size", "%dx%d mm does not fit a %d mm roll, not even rotated", p.Width, p.Height, rollWidth)
		}
	}
	if total > MaxPieces {
		add(-1, "pieces", "at most %d pieces per job, got %d", MaxPieces, total)
	}
	return errs
}

// ValidationErrors flattens an error returned by ValidateJob or
// ValidatePieces, including errors joined more than once.
func ValidationErrors(err error) []*ValidationError {
	var joined interface{ Unwrap() []error }
	if errors.As(err, &joined) {
		var out []*ValidationError
		for _, e := range joined.Unwrap() {
			out = append(out, ValidationErrors(e)...)
		}
		return out
	}
	var ve *ValidationError
	if errors.As(err, &ve) {
		return []*ValidationError{ve}
	}
	return nil
}

// CheckRollLength returns a warning when the plan consumes more than one roll.
// An empty string means the plan fits, or the roll length is unlimited (0).
func CheckRollLength(plan Plan) string {
	if plan.RollLength <= 0 || plan.Metrics.TotalLength <= plan.RollLength {
		return ""
	}
	rolls := (plan.Metrics.TotalLength + plan.RollLength - 1) / plan.RollLength
	var b strings.Builder
	fmt.Fprintf(&b, "plan needs %d mm of material but one roll holds %d mm", plan.Metrics.TotalLength, plan.RollLength)
	fmt.Fprintf(&b, " (%d rolls)", rolls)
	return b.String()
}
