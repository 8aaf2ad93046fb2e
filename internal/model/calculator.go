package model

import "math"

// RollEstimate holds the results of a material purchasing calculation.
type RollEstimate struct {
	TotalPieceArea  int     `json:"total_piece_area"`  // Total area of all pieces (sq mm)
	MinLength       int     `json:"min_length"`        // Lower bound of roll length: area / roll width (mm)
	LengthWithWaste int     `json:"length_with_waste"` // Lower bound plus waste factor (mm)
	RollsNeededMin  int     `json:"rolls_needed_min"`  // Rolls for MinLength (0 if roll length unlimited)
	RollsWithWaste  int     `json:"rolls_with_waste"`  // Rolls for LengthWithWaste (0 if roll length unlimited)
	WastePercent    float64 `json:"waste_percent"`     // Waste factor applied (e.g., 15 for 15%)
	EstimatedCost   float64 `json:"estimated_cost"`    // LengthWithWaste priced per metre
	PricePerMeter   float64 `json:"price_per_meter"`   // Price used for estimation
}

// CalculateRollEstimate computes how much roll material to buy for a cut list
// before packing it. Only the area is considered, so the result is a lower
// bound that the packed plan can only meet or exceed.
func CalculateRollEstimate(pieces []PieceType, rollWidth, rollLength int, wastePercent, pricePerMeter float64) RollEstimate {
	var totalArea int
	for _, p := range pieces {
		totalArea += p.Area() * p.Quantity
	}

	est := RollEstimate{
		TotalPieceArea: totalArea,
		WastePercent:   wastePercent,
		PricePerMeter:  pricePerMeter,
	}
	if rollWidth <= 0 {
		return est
	}

	est.MinLength = ceilDiv(totalArea, rollWidth)

	// Apply waste factor; the epsilon keeps 3000*1.1 from rounding up to 3301.
	wasteFactor := 1.0 + (wastePercent / 100.0)
	exact := float64(totalArea) / float64(rollWidth)
	est.LengthWithWaste = int(math.Ceil(exact*wasteFactor - 1e-9))
	if est.LengthWithWaste < est.MinLength {
		est.LengthWithWaste = est.MinLength
	}

	if rollLength > 0 {
		est.RollsNeededMin = ceilDiv(est.MinLength, rollLength)
		est.RollsWithWaste = ceilDiv(est.LengthWithWaste, rollLength)
	}

	est.EstimatedCost = float64(est.LengthWithWaste) / 1000.0 * pricePerMeter
	return est
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}
