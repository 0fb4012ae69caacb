package rental

import (
	"math"
	"sort"
)

// MinDistinctValues is the fewest distinct values a column needs before it can
// be split into quantile buckets at all. Columns below it land in a single
// bucket and their Binning is marked Collapsed.
const MinDistinctValues = 2

// quantileSorted returns the q-th quantile (0 <= q <= 1) of an ascending slice,
// interpolating linearly between the closest ranks.
func quantileSorted(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}

	index := q * float64(len(sorted)-1)
	lower := int(math.Floor(index))
	upper := int(math.Ceil(index))
	if lower == upper {
		return sorted[lower]
	}

	frac := index - float64(lower)
	return sorted[lower] + (sorted[upper]-sorted[lower])*frac
}

// quantileEdges computes the edges at the given probabilities. Edges are
// non-decreasing and may repeat when the data has ties.
func quantileEdges(values []float64, probs []float64) []float64 {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	edges := make([]float64, len(probs))
	for i, p := range probs {
		edges[i] = quantileSorted(sorted, p)
	}
	return edges
}

// equalProbs returns n+1 evenly spaced probabilities from 0 to 1.
func equalProbs(n int) []float64 {
	probs := make([]float64, n+1)
	for i := range probs {
		probs[i] = float64(i) / float64(n)
	}
	return probs
}

// dedupe drops repeated values from a non-decreasing slice.
func dedupe(edges []float64) []float64 {
	out := make([]float64, 0, len(edges))
	for i, e := range edges {
		if i > 0 && e == out[len(out)-1] {
			continue
		}
		out = append(out, e)
	}
	return out
}

// bucketOf places v into right-closed intervals (e0,e1], (e1,e2], ... with the
// first interval also holding e0. Values above the last edge go to the last bucket.
func bucketOf(edges []float64, v float64) int {
	if len(edges) < 2 {
		return 0
	}
	upper := edges[1:]
	i := sort.SearchFloat64s(upper, v)
	if i >= len(upper) {
		i = len(upper) - 1
	}
	return i
}

// qcut splits values into up to q equal-population buckets numbered from 0 in
// ascending value order. Duplicate edges collapse, so fewer than q buckets may result.
func qcut(column string, values []float64, q int) ([]int, Binning) {
	edges := dedupe(quantileEdges(values, equalProbs(q)))

	bin := Binning{
		Column:    column,
		Requested: q,
		Edges:     edges,
	}

	buckets := make([]int, len(values))
	if len(edges) < MinDistinctValues {
		bin.Effective = 1
		bin.Collapsed = true
		return buckets, bin
	}

	bin.Effective = len(edges) - 1
	bin.Collapsed = bin.Effective < q
	for i, v := range values {
		buckets[i] = bucketOf(edges, v)
	}
	return buckets, bin
}

// cutQuantiles labels values by the quantile edges at probs, keeping duplicate
// edges so that tied intervals simply stay empty.
func cutQuantiles(column string, values []float64, probs []float64, labels []string) ([]string, Binning) {
	edges := quantileEdges(values, probs)
	distinct := len(dedupe(edges))

	bin := Binning{
		Column:    column,
		Requested: len(labels),
		Edges:     edges,
		Effective: distinct - 1,
	}
	if bin.Effective < 1 {
		bin.Effective = 1
	}
	bin.Collapsed = bin.Effective < len(labels)

	out := make([]string, len(values))
	for i, v := range values {
		out[i] = labels[bucketOf(edges, v)]
	}
	return out, bin
}

// cutFixed labels v by constant edges; values outside [edges[0], edges[last]] get "".
func cutFixed(v float64, edges []float64, labels []string) string {
	if math.IsNaN(v) || v < edges[0] || v > edges[len(edges)-1] {
		return ""
	}
	return labels[bucketOf(edges, v)]
}
