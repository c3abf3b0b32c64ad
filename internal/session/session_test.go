package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spiraldrift/spiraldrift/internal/drift"
	"github.com/spiraldrift/spiraldrift/internal/marker"
	"github.com/spiraldrift/spiraldrift/internal/scorer"
)

var testOrder = []marker.Category{marker.Beige, marker.Orange, marker.Gruen}

func result(scores map[marker.Category]float64) scorer.Result {
	full := make(map[marker.Category]float64, len(testOrder))
	for _, cat := range testOrder {
		full[cat] = scores[cat]
	}
	return scorer.Result{Scores: full}
}

func TestAggregateEmptyTranscript(t *testing.T) {
	_, err := Aggregate(testOrder, nil, nil)
	require.ErrorIs(t, err, ErrEmptyTranscript)
}

func TestAggregateMeans(t *testing.T) {
	results := []scorer.Result{
		result(map[marker.Category]float64{marker.Orange: 1.0}),
		result(map[marker.Category]float64{marker.Orange: 0}),
	}
	p, err := Aggregate(testOrder, results, nil)
	require.NoError(t, err)

	assert.Equal(t, 2, p.Texts)
	assert.InDelta(t, 0.5, p.Means[marker.Orange], 1e-9)
	assert.Zero(t, p.Means[marker.Beige])
	assert.Equal(t, marker.Orange, p.Dominant)
	assert.NotEmpty(t, p.ID)
}

func TestAggregateTieBreaksByDeclarationOrder(t *testing.T) {
	// Beige and Gruen end up with identical means; Beige is declared
	// earlier and must win, on every run.
	results := []scorer.Result{
		result(map[marker.Category]float64{marker.Beige: 1.0, marker.Gruen: 1.0}),
	}
	for i := 0; i < 50; i++ {
		p, err := Aggregate(testOrder, results, nil)
		require.NoError(t, err)
		assert.Equal(t, marker.Beige, p.Dominant)
	}
}

func TestAggregateConfidence(t *testing.T) {
	cases := []struct {
		name    string
		results []scorer.Result
		want    float64
	}{
		{
			name: "single active category",
			results: []scorer.Result{
				result(map[marker.Category]float64{marker.Orange: 1.0}),
			},
			want: 1.0,
		},
		{
			name: "split evenly across two",
			results: []scorer.Result{
				result(map[marker.Category]float64{marker.Beige: 1.0, marker.Orange: 1.0}),
			},
			want: 0.5,
		},
		{
			name: "dominant mean not positive",
			results: []scorer.Result{
				result(map[marker.Category]float64{marker.Beige: -0.5}),
			},
			want: 0,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p, err := Aggregate(testOrder, tc.results, nil)
			require.NoError(t, err)
			assert.InDelta(t, tc.want, p.Confidence, 1e-9)
		})
	}
}

func TestAggregateTrend(t *testing.T) {
	rising := []scorer.Result{
		result(map[marker.Category]float64{marker.Gruen: 0}),
		result(map[marker.Category]float64{marker.Gruen: 0}),
		result(map[marker.Category]float64{marker.Gruen: 1.0}),
		result(map[marker.Category]float64{marker.Gruen: 1.0}),
	}
	p, err := Aggregate(testOrder, rising, nil)
	require.NoError(t, err)
	assert.Equal(t, TrendRising, p.Trend)

	falling := []scorer.Result{rising[2], rising[3], rising[0], rising[1]}
	p, err = Aggregate(testOrder, falling, nil)
	require.NoError(t, err)
	assert.Equal(t, TrendFalling, p.Trend)

	single := rising[:1]
	p, err = Aggregate(testOrder, single, nil)
	require.NoError(t, err)
	assert.Equal(t, TrendStable, p.Trend)
}

func TestAggregateAttachesDriftUnmodified(t *testing.T) {
	events := []drift.Event{
		{Index: 1, Group: "Transition_Markers", Kind: drift.KindTransition, Pattern: "frueher dachte ich"},
		{Index: 2, Group: "Resistance_Markers", Kind: drift.KindResistance, Pattern: "da bleibe ich bei"},
	}
	p, err := Aggregate(testOrder, []scorer.Result{result(nil)}, events)
	require.NoError(t, err)
	assert.Equal(t, events, p.Drift)
}
