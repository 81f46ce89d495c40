package registry

import (
	"testing"

	"github.com/Veraticus/scorecard/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scoredTab(name string, current, prev float64) model.Tab {
	return model.Tab{Name: name, TableData: model.Table{
		{ID: name + "-1", Weight: 100, Score: current, EvaluationScore: current,
			PrevWeight: 100, PrevScore: prev, PrevEvaluationScore: prev},
	}}
}

func TestGlobalSummary_AveragesAcrossTabs(t *testing.T) {
	r := New()
	r.Load([]model.Tab{scoredTab("A", 80, 60), scoredTab("B", 40, 20)})

	got := r.GlobalSummary()

	assert.Equal(t, 60.0, got.CurrentAvg)
	assert.Equal(t, 40.0, got.PrevAvg)
	assert.Equal(t, 20.0, got.Diff)
	assert.Equal(t, 2, got.TabCount)
}

func TestDisplay_LocalWeightsGlobalScores(t *testing.T) {
	r := New()
	a := scoredTab("A", 80, 60)
	a.TableData = append(a.TableData, model.Row{ID: "extra", Weight: 20, PrevWeight: 5})
	r.Load([]model.Tab{a, scoredTab("B", 40, 20)})
	tabs := r.Tabs()

	first, err := r.Display(tabs[0].ID)
	require.NoError(t, err)
	second, err := r.Display(tabs[1].ID)
	require.NoError(t, err)

	assert.Equal(t, 120.0, first.WeightTotal)
	assert.Equal(t, 105.0, first.PrevWeightTotal)
	assert.Equal(t, 100.0, second.WeightTotal)
	assert.Equal(t, first.Global, second.Global)
	assert.Equal(t, 60.0, second.Global.CurrentAvg)

	_, err = r.Display("tab-9")
	assert.ErrorIs(t, err, ErrTabNotFound)
}

func TestGlobalSummary_IncludesInactiveAndEmptyTabs(t *testing.T) {
	r := New()
	r.Load([]model.Tab{scoredTab("A", 90, 30), {Name: "empty"}})
	require.NoError(t, r.Activate(r.Tabs()[1].ID))

	got := r.GlobalSummary()

	assert.Equal(t, 45.0, got.CurrentAvg)
	assert.Equal(t, 15.0, got.PrevAvg)
	assert.Equal(t, 30.0, got.Diff)
}
