package rental

import (
	"math"
	"sort"
	"strconv"
)

// ScoreBuckets is the number of quantile buckets behind each R/F/M score.
const ScoreBuckets = 5

var (
	tempEdges     = []float64{0, 0.2, 0.5, 0.7, 1.0}
	humidityEdges = []float64{0, 0.33, 0.66, 1.0}
	volumeProbs   = []float64{0, 0.25, 0.5, 0.75, 1}
)

// Derive builds the immutable table from raw daily records, appending recency,
// R/F/M scores, the RFM code, the segment and the three categorical bins.
// The input slice is not modified.
func Derive(records []Record) (*Table, error) {
	if len(records) == 0 {
		return nil, ErrEmptyTable
	}

	rows := make([]Record, len(records))
	copy(rows, records)
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Date.Before(rows[j].Date)
	})

	latest := rows[len(rows)-1].Date

	recency := make([]float64, len(rows))
	counts := make([]float64, len(rows))
	for i := range rows {
		days := int(math.Round(latest.Sub(rows[i].Date).Hours() / 24))
		rows[i].Recency = days
		recency[i] = float64(days)
		counts[i] = float64(rows[i].Count)
	}

	rBuckets, rBin := qcut("recency", recency, ScoreBuckets)
	fBuckets, fBin := qcut("count", counts, ScoreBuckets)
	volumes, vBin := cutQuantiles("count", counts, volumeProbs, RentalVolumeOrder)

	for i := range rows {
		r := &rows[i]

		// Smaller recency sits in a lower bucket and earns a higher score.
		r.RScore = ScoreBuckets - rBuckets[i]
		// Frequency and monetary both stand in for daily volume.
		r.FScore = fBuckets[i] + 1
		r.MScore = fBuckets[i] + 1

		r.RFMCode = strconv.Itoa(r.RScore) + strconv.Itoa(r.FScore) + strconv.Itoa(r.MScore)
		r.Segment = SegmentFor(r.RScore, r.FScore, r.MScore)

		r.TempCategory = cutFixed(r.Temperature, tempEdges, TempOrder)
		r.HumCategory = cutFixed(r.Humidity, humidityEdges, HumidityOrder)
		r.RentalVolumeCategory = volumes[i]
	}

	return &Table{
		Diagnostics: Diagnostics{
			Recency:      rBin,
			Frequency:    fBin,
			RentalVolume: vBin,
		},
		Options: facetOptions(rows),
		Period:  Period{Start: rows[0].Date, End: latest},
		rows:    rows,
	}, nil
}

// facetOptions lists every distinct facet value present, in display order.
func facetOptions(rows []Record) FacetOptions {
	years := map[int]struct{}{}
	seasons := map[string]struct{}{}
	weather := map[string]struct{}{}
	dayTypes := map[string]struct{}{}

	for _, r := range rows {
		years[r.Year] = struct{}{}
		seasons[r.Season] = struct{}{}
		weather[r.Weather] = struct{}{}
		dayTypes[r.DayType] = struct{}{}
	}

	opts := FacetOptions{
		Seasons:  orderKeys(keysOf(seasons), SeasonOrder),
		Weather:  orderKeys(keysOf(weather), WeatherOrder),
		DayTypes: orderKeys(keysOf(dayTypes), DayTypeOrder),
	}
	for y := range years {
		opts.Years = append(opts.Years, y)
	}
	sort.Ints(opts.Years)
	return opts
}

func keysOf(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}

// orderKeys sorts keys by their position in domain; unknown keys follow in
// lexical order.
func orderKeys(keys []string, domain []string) []string {
	rank := make(map[string]int, len(domain))
	for i, d := range domain {
		rank[d] = i
	}

	out := make([]string, len(keys))
	copy(out, keys)
	sort.SliceStable(out, func(i, j int) bool {
		ri, iKnown := rank[out[i]]
		rj, jKnown := rank[out[j]]
		switch {
		case iKnown && jKnown:
			return ri < rj
		case iKnown != jKnown:
			return iKnown
		default:
			return out[i] < out[j]
		}
	})
	return out
}
