package rental

import (
	"fmt"
	"strings"
)

// DayTypeFilter is the single-select day type facet.
type DayTypeFilter string

const (
	DayTypeAll         DayTypeFilter = "All"
	DayTypeOnlyWeekday DayTypeFilter = "Weekday"
	DayTypeOnlyWeekend DayTypeFilter = "Weekend"
)

// ParseDayTypeFilter accepts All, Weekday or Weekend in any case. An empty
// string means All.
func ParseDayTypeFilter(s string) (DayTypeFilter, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all":
		return DayTypeAll, nil
	case DayTypeWeekday:
		return DayTypeOnlyWeekday, nil
	case DayTypeWeekend:
		return DayTypeOnlyWeekend, nil
	default:
		return "", fmt.Errorf("invalid day type %q: want All, Weekday or Weekend", s)
	}
}

func (d DayTypeFilter) matches(dayType string) bool {
	if d == "" || d == DayTypeAll {
		return true
	}
	return strings.EqualFold(string(d), dayType)
}

// Selection is one set of facet choices. Nil and empty slices both select
// nothing on that facet.
type Selection struct {
	Years   []int         `json:"years"`
	Seasons []string      `json:"seasons"`
	Weather []string      `json:"weather"`
	DayType DayTypeFilter `json:"day_type"`
}

// DefaultSelection picks every option offered by the table and day type All.
func DefaultSelection(t *Table) Selection {
	sel := Selection{DayType: DayTypeAll}
	sel.Years = append(sel.Years, t.Options.Years...)
	sel.Seasons = append(sel.Seasons, t.Options.Seasons...)
	sel.Weather = append(sel.Weather, t.Options.Weather...)
	return sel
}

// Apply returns the rows of v matching every facet. v itself is left untouched.
func (s Selection) Apply(v View) View {
	years := make(map[int]struct{}, len(s.Years))
	for _, y := range s.Years {
		years[y] = struct{}{}
	}
	seasons := stringSet(s.Seasons, SeasonOrder)
	weather := stringSet(s.Weather, WeatherOrder)

	var out []Record
	for _, r := range v.rows {
		if _, ok := years[r.Year]; !ok {
			continue
		}
		if _, ok := seasons[r.Season]; !ok {
			continue
		}
		if _, ok := weather[r.Weather]; !ok {
			continue
		}
		if !s.DayType.matches(r.DayType) {
			continue
		}
		out = append(out, r)
	}
	return View{rows: out}
}

// stringSet canonicalizes selected values the same way the loader does, so a
// request for "Light-Rain" finds rows stored as "light rain".
func stringSet(values []string, domain []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[canonical(v, domain)] = struct{}{}
	}
	return set
}

// View is a read-only subset of a table.
type View struct {
	rows []Record
}

// Len returns the number of rows in the view.
func (v View) Len() int {
	return len(v.rows)
}

// Records returns a copy of the rows in date order.
func (v View) Records() []Record {
	out := make([]Record, len(v.rows))
	copy(out, v.rows)
	return out
}
