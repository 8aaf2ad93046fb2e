package engine

import "github.com/piwi3910/RollCut/internal/model"

// Expand turns piece types into individual instances, in input order and then
// repetition order. Instance IDs are sequential from 0.
func Expand(types []model.PieceType) []model.PieceInstance {
	var instances []model.PieceInstance
	for _, t := range types {
		for i := 0; i < t.Quantity; i++ {
			instances = append(instances, model.PieceInstance{
				ID:     len(instances),
				TypeID: t.ID,
				Label:  t.Label,
				Width:  t.Width,
				Height: t.Height,
			})
		}
	}
	return instances
}
