package registry

import (
	"github.com/Veraticus/scorecard/internal/calc"
)

// GlobalSummary is the cross-tab score average shown on every tab.
type GlobalSummary struct {
	PrevAvg    float64 `json:"prevAvg"`
	CurrentAvg float64 `json:"currentAvg"`
	Diff       float64 `json:"diff"`
	TabCount   int     `json:"tabCount"`
}

// TabDisplay is what one tab shows in its summary area: weight totals of
// that tab alone next to score figures averaged over all tabs.
type TabDisplay struct {
	Global          GlobalSummary
	WeightTotal     float64
	PrevWeightTotal float64
}

// GlobalSummary averages the per-tab score totals over every tab, active or
// not. The divisor is never below one.
func (r *Registry) GlobalSummary() GlobalSummary {
	var prevSum, currentSum float64
	for _, tab := range r.tabs {
		totals := tab.TableData.Totals()
		prevSum += totals.PrevScoreTotal
		currentSum += totals.CurrentScoreTotal
	}

	count := max(1, len(r.tabs))
	prevAvg := prevSum / float64(count)
	currentAvg := currentSum / float64(count)

	return GlobalSummary{
		PrevAvg:    prevAvg,
		CurrentAvg: currentAvg,
		Diff:       currentAvg - prevAvg,
		TabCount:   count,
	}
}

// Display returns the summary figures for one tab.
func (r *Registry) Display(tabID string) (TabDisplay, error) {
	tab, err := r.Tab(tabID)
	if err != nil {
		return TabDisplay{}, err
	}
	local := tab.TableData.Totals()
	return TabDisplay{
		WeightTotal:     local.WeightTotal,
		PrevWeightTotal: local.PrevWeightTotal,
		Global:          r.GlobalSummary(),
	}, nil
}

// LocalTotals returns the full per-tab totals.
func (r *Registry) LocalTotals(tabID string) (calc.Summary, error) {
	tab, err := r.Tab(tabID)
	if err != nil {
		return calc.Summary{}, err
	}
	return tab.TableData.Totals(), nil
}
