// Package session turns per-text score results and drift events into a
// session profile: mean category scores, the dominant value stage, a
// confidence estimate and the drift trend over the transcript.
package session

import (
	"errors"
	"math"

	"github.com/google/uuid"

	"github.com/spiraldrift/spiraldrift/internal/drift"
	"github.com/spiraldrift/spiraldrift/internal/marker"
	"github.com/spiraldrift/spiraldrift/internal/scorer"
)

// ErrEmptyTranscript is returned when aggregation is asked to profile zero
// text units. Callers recover by retrying with a non-empty transcript.
var ErrEmptyTranscript = errors.New("session: empty transcript")

// Trend describes how the dominant category develops over the transcript.
type Trend string

const (
	TrendRising  Trend = "rising"
	TrendFalling Trend = "falling"
	TrendStable  Trend = "stable"
)

// trendEpsilon is the half-to-half mean difference below which the dominant
// category counts as stable.
const trendEpsilon = 0.05

// Profile is the aggregate over one transcript. Built in one pass and frozen
// before it is returned; never partially observable.
type Profile struct {
	ID         string                      `json:"id"`
	Texts      int                         `json:"texts"`
	Means      map[marker.Category]float64 `json:"means"`
	Dominant   marker.Category             `json:"dominant"`
	Confidence float64                     `json:"confidence"`
	Trend      Trend                       `json:"trend"`
	Intensity  float64                     `json:"intensity"`
	Drift      []drift.Event               `json:"drift,omitempty"`
}

// Aggregate combines per-text results into a Profile. Aggregation policy is
// the arithmetic mean of per-text scores (fixed, not configurable). The
// dominant category is the maximum mean; ties break toward the category
// declared earlier in the taxonomy, so results are reproducible across runs.
// Drift events are attached unmodified.
func Aggregate(order []marker.Category, results []scorer.Result, events []drift.Event) (*Profile, error) {
	if len(results) == 0 {
		return nil, ErrEmptyTranscript
	}

	p := &Profile{
		ID:    uuid.NewString(),
		Texts: len(results),
		Means: make(map[marker.Category]float64, len(order)),
		Drift: events,
	}

	var intensitySum float64
	for _, res := range results {
		for cat, score := range res.Scores {
			p.Means[cat] += score
		}
		intensitySum += float64(res.Intensity)
	}
	n := float64(len(results))
	for cat := range p.Means {
		p.Means[cat] /= n
	}
	for _, cat := range order {
		if _, ok := p.Means[cat]; !ok {
			p.Means[cat] = 0
		}
	}
	p.Intensity = intensitySum / n

	p.Dominant = dominant(order, p.Means)
	p.Confidence = confidence(p.Means, p.Dominant)
	p.Trend = trend(results, p.Dominant)

	return p, nil
}

// dominant picks the category with the maximum mean. Iteration follows
// declaration order, and a strictly-greater comparison keeps the earlier
// category on ties.
func dominant(order []marker.Category, means map[marker.Category]float64) marker.Category {
	if len(order) == 0 {
		return ""
	}
	best := order[0]
	for _, cat := range order[1:] {
		if means[cat] > means[best] {
			best = cat
		}
	}
	return best
}

// confidence is the dominant mean's share of all positive means: 1.0 when it
// is the only active category, approaching 0 when activity is spread evenly.
// Zero when the dominant mean itself is not positive.
func confidence(means map[marker.Category]float64, dom marker.Category) float64 {
	domMean := means[dom]
	if domMean <= 0 {
		return 0
	}
	var positiveSum float64
	for _, m := range means {
		if m > 0 {
			positiveSum += m
		}
	}
	return domMean / positiveSum
}

// trend compares the dominant category's mean over the first and second half
// of the transcript.
func trend(results []scorer.Result, dom marker.Category) Trend {
	if len(results) < 2 {
		return TrendStable
	}
	half := len(results) / 2
	first := meanOf(results[:half], dom)
	second := meanOf(results[half:], dom)

	switch diff := second - first; {
	case diff > trendEpsilon:
		return TrendRising
	case diff < -trendEpsilon:
		return TrendFalling
	default:
		return TrendStable
	}
}

func meanOf(results []scorer.Result, cat marker.Category) float64 {
	if len(results) == 0 {
		return 0
	}
	var sum float64
	for _, res := range results {
		sum += res.Scores[cat]
	}
	return sum / float64(len(results))
}

// RoundMeans returns a copy of the profile means rounded to places decimal
// digits, for stable report output.
func (p *Profile) RoundMeans(places int) map[marker.Category]float64 {
	factor := math.Pow10(places)
	out := make(map[marker.Category]float64, len(p.Means))
	for cat, m := range p.Means {
		out[cat] = math.Round(m*factor) / factor
	}
	return out
}
