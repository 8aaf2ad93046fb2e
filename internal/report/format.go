package report

import "fmt"

// FormatLength renders a length in mm, switching to metres from 1000 mm.
func FormatLength(mm int) string {
	if mm >= 1000 {
		return fmt.Sprintf("%.1f m", float64(mm)/1000)
	}
	return fmt.Sprintf("%d mm", mm)
}

// FormatArea renders an area given in square mm as m², or cm² below 1 m².
func FormatArea(mm2 int) string {
	m2 := float64(mm2) / 1_000_000
	if m2 >= 1 {
		return fmt.Sprintf("%.2f m²", m2)
	}
	return fmt.Sprintf("%.1f cm²", m2*10_000)
}

// Rating grades material utilization.
type Rating string

const (
	Excellent Rating = "Excellent"
	Good      Rating = "Good"
	Fair      Rating = "Fair"
	Low       Rating = "Low"
)

// Rate grades a utilization given in percent.
func Rate(percent float64) Rating {
	switch {
	case percent >= 90:
		return Excellent
	case percent >= 80:
		return Good
	case percent >= 70:
		return Fair
	default:
		return Low
	}
}

// Advice is the one-line verdict shown next to a rating.
func (r Rating) Advice() string {
	switch r {
	case Excellent:
		return "almost all of the material is used"
	case Good:
		return "utilization is satisfactory"
	case Fair:
		return "there is room for improvement"
	default:
		return "a lot of material is wasted"
	}
}
