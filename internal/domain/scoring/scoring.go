// Package scoring classifies scores into named bands and ranks records by score.
package scoring

import (
	"math"
	"sort"

	"github.com/okian/execdash/internal/domain/model"
	"github.com/okian/execdash/internal/domain/normalize"
)

// NA labels an unscorable entry or a missing top/bottom record.
const NA = "N/A"

// Composite weights for total scores.
const (
	PrimaryWeight   = 0.7
	SecondaryWeight = 0.3
)

// Band is a named closed interval [Low, High].
type Band struct {
	Name string  `json:"name"`
	Low  float64 `json:"low"`
	High float64 `json:"high"`
}

// Contains reports whether score lies inside the closed interval.
func (b Band) Contains(score float64) bool {
	return score >= b.Low && score <= b.High
}

// Bands is an ordered band table. Overlaps and gaps are not validated;
// the first matching band wins.
type Bands []Band

// Classify returns the name of the first band containing score, or NA when
// score is NaN or falls in no band.
func (bs Bands) Classify(score float64) string {
	if math.IsNaN(score) {
		return NA
	}
	for _, b := range bs {
		if b.Contains(score) {
			return b.Name
		}
	}
	return NA
}

// Names returns the band names in configured order.
func (bs Bands) Names() []string {
	out := make([]string, len(bs))
	for i, b := range bs {
		out[i] = b.Name
	}
	return out
}

// Distribution classifies every score. Counts include an NA bucket; percentages
// cover the configured bands only and are taken over scorable entries, so they
// sum to 100 (or are all 0 when nothing is scorable).
func Distribution(scores []float64, bands Bands) (map[string]int, map[string]float64) {
	counts := make(map[string]int, len(bands)+1)
	for _, b := range bands {
		counts[b.Name] = 0
	}
	counts[NA] = 0

	scorable := 0
	for _, s := range scores {
		name := bands.Classify(s)
		counts[name]++
		if name != NA {
			scorable++
		}
	}

	pct := make(map[string]float64, len(bands))
	for _, b := range bands {
		if scorable == 0 {
			pct[b.Name] = 0
			continue
		}
		pct[b.Name] = float64(counts[b.Name]) / float64(scorable) * 100
	}
	return counts, pct
}

// TopBottom returns the labels of the maximal and minimal scores, skipping NaN.
// Ties go to the first occurrence. Both are NA when no score remains.
func TopBottom(labels []string, scores []float64) (top, bottom string) {
	topIdx, botIdx := -1, -1
	for i, s := range scores {
		if math.IsNaN(s) || i >= len(labels) {
			continue
		}
		if topIdx < 0 || s > scores[topIdx] {
			topIdx = i
		}
		if botIdx < 0 || s < scores[botIdx] {
			botIdx = i
		}
	}
	if topIdx < 0 {
		return NA, NA
	}
	return labels[topIdx], labels[botIdx]
}

// TopBottomBy parses scoreCol of t, drops unparsable entries and returns the
// labelCol values of the best and worst rows. Both are NA when either column
// is absent.
func TopBottomBy(t model.Table, scoreCol, labelCol string) (top, bottom string) {
	if !t.HasColumn(scoreCol) || !t.HasColumn(labelCol) {
		return NA, NA
	}
	scores, _ := normalize.OptionalColumn(t.Column(scoreCol))
	return TopBottom(t.Column(labelCol), scores)
}

// Composite returns wp*primary + ws*secondary element-wise. Entries where
// either side is NaN (or secondary is shorter) are NaN.
func Composite(primary, secondary []float64, wp, ws float64) []float64 {
	out := make([]float64, len(primary))
	for i, p := range primary {
		if i >= len(secondary) || math.IsNaN(p) || math.IsNaN(secondary[i]) {
			out[i] = math.NaN()
			continue
		}
		out[i] = wp*p + ws*secondary[i]
	}
	return out
}

// Finite returns the non-NaN, non-infinite values in order.
func Finite(vals []float64) []float64 {
	out := make([]float64, 0, len(vals))
	for _, v := range vals {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			out = append(out, v)
		}
	}
	return out
}

// Mean returns the average of the finite values, or NaN when there are none.
func Mean(vals []float64) float64 {
	f := Finite(vals)
	if len(f) == 0 {
		return math.NaN()
	}
	sum := 0.0
	for _, v := range f {
		sum += v
	}
	return sum / float64(len(f))
}

// Median returns the median of the finite values, or NaN when there are none.
func Median(vals []float64) float64 {
	f := Finite(vals)
	if len(f) == 0 {
		return math.NaN()
	}
	sort.Float64s(f)
	mid := len(f) / 2
	if len(f)%2 == 1 {
		return f[mid]
	}
	return (f[mid-1] + f[mid]) / 2
}

// Sum adds the finite values.
func Sum(vals []float64) float64 {
	sum := 0.0
	for _, v := range Finite(vals) {
		sum += v
	}
	return sum
}

// Ratio returns num/den, or 0 when den is 0 or the result is not finite.
func Ratio(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	r := num / den
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return 0
	}
	return r
}

// Percent returns Ratio(num, den) * 100.
func Percent(num, den float64) float64 {
	return Ratio(num, den) * 100
}
