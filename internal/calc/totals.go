package calc

// Figures are the numeric inputs a line contributes to table totals.
type Figures struct {
	Weight              float64
	PrevWeight          float64
	EvaluationScore     float64
	PrevEvaluationScore float64
}

// Line is anything that can report its Figures.
type Line interface {
	Figures() Figures
}

// Summary holds the rounded aggregate totals for one table.
type Summary struct {
	WeightTotal       float64 `json:"weightTotal"`
	PrevWeightTotal   float64 `json:"prevWeightTotal"`
	CurrentScoreTotal float64 `json:"currentScoreTotal"`
	PrevScoreTotal    float64 `json:"prevScoreTotal"`
	Difference        float64 `json:"difference"`
}

// Totals sums the lines and rounds only at the aggregate boundary: weights
// to one decimal, scores and their difference to two.
func Totals[L Line](lines []L) Summary {
	var weight, prevWeight, current, prev float64
	for _, line := range lines {
		f := line.Figures()
		weight += orZero(f.Weight)
		prevWeight += orZero(f.PrevWeight)
		current += orZero(f.EvaluationScore)
		prev += orZero(f.PrevEvaluationScore)
	}

	return Summary{
		WeightTotal:       Round(weight, WeightPlaces),
		PrevWeightTotal:   Round(prevWeight, WeightPlaces),
		CurrentScoreTotal: Round(current, ScorePlaces),
		PrevScoreTotal:    Round(prev, ScorePlaces),
		Difference:        Round(current-prev, ScorePlaces),
	}
}
