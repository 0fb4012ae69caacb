package rental

import (
	"fmt"
	"sort"
	"strconv"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Dimension is a categorical column a view can be grouped by.
type Dimension string

const (
	BySeason       Dimension = "season"
	ByWeather      Dimension = "weather"
	ByWeekday      Dimension = "weekday"
	ByDayType      Dimension = "day_type"
	ByTemperature  Dimension = "temp_category"
	ByHumidity     Dimension = "hum_category"
	ByRentalVolume Dimension = "rental_volume_category"
	BySegment      Dimension = "segment"
	ByYear         Dimension = "year"
)

// Dimensions lists every supported grouping key.
var Dimensions = []Dimension{
	BySeason, ByWeather, ByWeekday, ByDayType, ByTemperature,
	ByHumidity, ByRentalVolume, BySegment, ByYear,
}

// ParseDimension resolves a dimension name; "weather_condition" is accepted
// as an alias of weather.
func ParseDimension(s string) (Dimension, error) {
	if s == "weather_condition" {
		return ByWeather, nil
	}
	for _, d := range Dimensions {
		if string(d) == s {
			return d, nil
		}
	}
	return "", fmt.Errorf("unknown dimension %q", s)
}

func (d Dimension) key(r Record) string {
	switch d {
	case BySeason:
		return r.Season
	case ByWeather:
		return r.Weather
	case ByWeekday:
		return r.Weekday
	case ByDayType:
		return r.DayType
	case ByTemperature:
		return r.TempCategory
	case ByHumidity:
		return r.HumCategory
	case ByRentalVolume:
		return r.RentalVolumeCategory
	case BySegment:
		return r.Segment
	case ByYear:
		return strconv.Itoa(r.Year)
	default:
		return ""
	}
}

// order returns keys in the fixed display order of the dimension's domain.
func (d Dimension) order(keys []string) []string {
	switch d {
	case BySeason:
		return orderKeys(keys, SeasonOrder)
	case ByWeather:
		return orderKeys(keys, WeatherOrder)
	case ByWeekday:
		return orderKeys(keys, WeekdayOrder)
	case ByDayType:
		return orderKeys(keys, DayTypeOrder)
	case ByTemperature:
		return orderKeys(keys, TempOrder)
	case ByHumidity:
		return orderKeys(keys, HumidityOrder)
	case ByRentalVolume:
		return orderKeys(keys, RentalVolumeOrder)
	case BySegment:
		return orderKeys(keys, SegmentOrder)
	}

	out := make([]string, len(keys))
	copy(out, keys)
	sort.Slice(out, func(i, j int) bool {
		a, errA := strconv.Atoi(out[i])
		b, errB := strconv.Atoi(out[j])
		if errA == nil && errB == nil {
			return a < b
		}
		return out[i] < out[j]
	})
	return out
}

// MeasureStats summarizes one numeric measure within a group.
type MeasureStats struct {
	Mean float64 `json:"mean"`
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
	Sum  float64 `json:"sum"`
}

func measure(values []float64) MeasureStats {
	if len(values) == 0 {
		return MeasureStats{}
	}
	return MeasureStats{
		Mean: stat.Mean(values, nil),
		Min:  floats.Min(values),
		Max:  floats.Max(values),
		Sum:  floats.Sum(values),
	}
}

// Group is the summary row of one category.
type Group struct {
	Key         string       `json:"key"`
	Days        int          `json:"days"`
	Count       MeasureStats `json:"count"`
	Casual      MeasureStats `json:"casual"`
	Registered  MeasureStats `json:"registered"`
	MeanRecency float64      `json:"mean_recency"`
	MeanRScore  float64      `json:"mean_r_score"`
	MeanFScore  float64      `json:"mean_f_score"`
	MeanMScore  float64      `json:"mean_m_score"`
}

// partition splits the view rows by dimension key, dropping uncategorized rows.
func partition(v View, d Dimension) (map[string][]Record, []string) {
	parts := make(map[string][]Record)
	for _, r := range v.rows {
		k := d.key(r)
		if k == "" {
			continue
		}
		parts[k] = append(parts[k], r)
	}

	keys := make([]string, 0, len(parts))
	for k := range parts {
		keys = append(keys, k)
	}
	return parts, d.order(keys)
}

// GroupBy returns one summary row per category present in v, in display order.
// Categories absent from v are absent from the result.
func GroupBy(v View, d Dimension) []Group {
	parts, keys := partition(v, d)

	groups := make([]Group, 0, len(keys))
	for _, k := range keys {
		rows := parts[k]
		n := len(rows)

		var (
			counts     = make([]float64, n)
			casual     = make([]float64, n)
			registered = make([]float64, n)
			recency    = make([]float64, n)
			rScores    = make([]float64, n)
			fScores    = make([]float64, n)
			mScores    = make([]float64, n)
		)
		for i, r := range rows {
			counts[i] = float64(r.Count)
			casual[i] = float64(r.Casual)
			registered[i] = float64(r.Registered)
			recency[i] = float64(r.Recency)
			rScores[i] = float64(r.RScore)
			fScores[i] = float64(r.FScore)
			mScores[i] = float64(r.MScore)
		}

		groups = append(groups, Group{
			Key:         k,
			Days:        n,
			Count:       measure(counts),
			Casual:      measure(casual),
			Registered:  measure(registered),
			MeanRecency: stat.Mean(recency, nil),
			MeanRScore:  stat.Mean(rScores, nil),
			MeanFScore:  stat.Mean(fScores, nil),
			MeanMScore:  stat.Mean(mScores, nil),
		})
	}
	return groups
}

// Summary holds the headline metrics of a view. All fields are zero when
// the view is empty.
type Summary struct {
	Days         int     `json:"days"`
	TotalRentals int     `json:"total_rentals"`
	MeanRentals  float64 `json:"mean_rentals"`
	MaxRentals   int     `json:"max_rentals"`
	MinRentals   int     `json:"min_rentals"`
}

// Summarize computes the headline metrics of v.
func Summarize(v View) Summary {
	s := Summary{Days: len(v.rows)}
	if s.Days == 0 {
		return s
	}

	s.MinRentals = v.rows[0].Count
	for _, r := range v.rows {
		s.TotalRentals += r.Count
		if r.Count > s.MaxRentals {
			s.MaxRentals = r.Count
		}
		if r.Count < s.MinRentals {
			s.MinRentals = r.Count
		}
	}
	s.MeanRentals = float64(s.TotalRentals) / float64(s.Days)
	return s
}

// Distribution is the five-number summary of daily rentals within a category.
type Distribution struct {
	Key    string  `json:"key"`
	Days   int     `json:"days"`
	Min    float64 `json:"min"`
	Q1     float64 `json:"q1"`
	Median float64 `json:"median"`
	Q3     float64 `json:"q3"`
	Max    float64 `json:"max"`
}

// DistributionBy returns the spread of daily rentals per category of d.
func DistributionBy(v View, d Dimension) []Distribution {
	parts, keys := partition(v, d)

	out := make([]Distribution, 0, len(keys))
	for _, k := range keys {
		rows := parts[k]
		counts := make([]float64, len(rows))
		for i, r := range rows {
			counts[i] = float64(r.Count)
		}
		sort.Float64s(counts)

		out = append(out, Distribution{
			Key:    k,
			Days:   len(rows),
			Min:    counts[0],
			Q1:     quantileSorted(counts, 0.25),
			Median: quantileSorted(counts, 0.5),
			Q3:     quantileSorted(counts, 0.75),
			Max:    counts[len(counts)-1],
		})
	}
	return out
}
