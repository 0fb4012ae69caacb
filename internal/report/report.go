// Package report turns a filtered view of the rental table into the fixed
// dashboard page: sections of charts, stat tables and commentary.
package report

import (
	"time"

	"github.com/i474232898/bikeshare-dashboard/internal/rental"
)

const (
	SectionSeason      = "season"
	SectionWeather     = "weather"
	SectionDayType     = "daytype"
	SectionRFM         = "rfm"
	SectionCategories  = "categories"
	SectionConclusions = "conclusions"
)

// sectionIDs is the page order.
var sectionIDs = []string{
	SectionSeason, SectionWeather, SectionDayType, SectionRFM, SectionCategories, SectionConclusions,
}

// Chart names.
const (
	ChartSeasonMean      = "season-mean"
	ChartWeatherMean     = "weather-mean"
	ChartWeatherUsers    = "weather-users"
	ChartDayTypeMean     = "daytype-mean"
	ChartWeekdayMean     = "weekday-mean"
	ChartSegmentDays     = "segment-days"
	ChartTemperatureDays = "temperature-days"
	ChartHumidityDays    = "humidity-days"
	ChartVolumeDays      = "volume-days"
)

// Report is the complete dashboard for one selection.
type Report struct {
	TableID   string               `json:"table_id"`
	Selection rental.Selection     `json:"selection"`
	Sidebar   Sidebar              `json:"sidebar"`
	Metrics   rental.Summary       `json:"metrics"`
	Sections  []Section            `json:"sections"`
	Charts    map[string]ChartData `json:"charts"`
}

// Sidebar holds facts about the whole dataset, independent of the selection.
type Sidebar struct {
	TotalDays   int                 `json:"total_days"`
	PeriodStart time.Time           `json:"period_start"`
	PeriodEnd   time.Time           `json:"period_end"`
	MeanRentals float64             `json:"mean_rentals"`
	Options     rental.FacetOptions `json:"options"`
}

// Section is one block of the page.
type Section struct {
	ID         string      `json:"id"`
	Title      string      `json:"title"`
	Charts     []string    `json:"charts,omitempty"`
	Tables     []StatTable `json:"tables,omitempty"`
	Narratives []Narrative `json:"narratives,omitempty"`
}

// StatTable is a small labelled grid of numbers, rounded to two decimals.
type StatTable struct {
	ID      string    `json:"id"`
	Title   string    `json:"title"`
	Columns []string  `json:"columns"`
	Rows    []StatRow `json:"rows"`
}

type StatRow struct {
	Label  string    `json:"label"`
	Values []float64 `json:"values"`
}

// ChartData is the data behind one bar chart. Stacked charts carry one value
// per series in each bar; simple charts have a single series.
type ChartData struct {
	Name    string   `json:"name"`
	Title   string   `json:"title"`
	XLabel  string   `json:"x_label"`
	YLabel  string   `json:"y_label"`
	Series  []string `json:"series"`
	Stacked bool     `json:"stacked"`
	Bars    []Bar    `json:"bars"`
}

type Bar struct {
	Label  string    `json:"label"`
	Values []float64 `json:"values"`
}

// Empty reports whether the chart has nothing to draw.
func (c ChartData) Empty() bool {
	return len(c.Bars) == 0
}

// Build assembles the dashboard for a rendered snapshot.
func Build(snap rental.Snapshot) Report {
	t := snap.Table
	v := snap.View

	rep := Report{
		TableID:   snap.TableID,
		Selection: snap.Selection,
		Metrics:   snap.Summary,
		Charts:    make(map[string]ChartData),
	}
	if t != nil {
		rep.Sidebar = Sidebar{
			TotalDays:   t.Len(),
			PeriodStart: t.Period.Start,
			PeriodEnd:   t.Period.End,
			MeanRentals: t.MeanCount(),
			Options:     t.Options,
		}
	}

	bySeason := rental.GroupBy(v, rental.BySeason)
	byWeather := rental.GroupBy(v, rental.ByWeather)
	bySegment := rental.GroupBy(v, rental.BySegment)

	rep.addChart(meanChart(ChartSeasonMean, "Average rentals per season", "Season", rental.BySeason, bySeason))
	rep.addChart(meanChart(ChartWeatherMean, "Average rentals per weather condition", "Weather", rental.ByWeather, byWeather))
	rep.addChart(usersChart(byWeather))
	rep.addChart(meanChart(ChartDayTypeMean, "Weekday vs weekend", "Day type", rental.ByDayType, rental.GroupBy(v, rental.ByDayType)))
	rep.addChart(meanChart(ChartWeekdayMean, "Average rentals per day of week", "Day", rental.ByWeekday, rental.GroupBy(v, rental.ByWeekday)))
	rep.addChart(daysChart(ChartSegmentDays, "RFM segment distribution", "Segment", rental.BySegment, bySegment))
	rep.addChart(daysChart(ChartTemperatureDays, "Days per temperature category", "Temperature", rental.ByTemperature, rental.GroupBy(v, rental.ByTemperature)))
	rep.addChart(daysChart(ChartHumidityDays, "Days per humidity category", "Humidity", rental.ByHumidity, rental.GroupBy(v, rental.ByHumidity)))
	rep.addChart(daysChart(ChartVolumeDays, "Days per rental volume category", "Rental volume", rental.ByRentalVolume, rental.GroupBy(v, rental.ByRentalVolume)))

	rep.Sections = []Section{
		{
			ID:         SectionSeason,
			Title:      sectionTitle(SectionSeason),
			Charts:     []string{ChartSeasonMean},
			Tables:     []StatTable{seasonTable(bySeason), distributionTable(v)},
			Narratives: narrativesFor("season"),
		},
		{
			ID:         SectionWeather,
			Title:      sectionTitle(SectionWeather),
			Charts:     []string{ChartWeatherMean, ChartWeatherUsers},
			Tables:     []StatTable{weatherTable(byWeather)},
			Narratives: narrativesFor("weather"),
		},
		{
			ID:         SectionDayType,
			Title:      sectionTitle(SectionDayType),
			Charts:     []string{ChartDayTypeMean, ChartWeekdayMean},
			Narratives: narrativesFor("daytype"),
		},
		{
			ID:         SectionRFM,
			Title:      sectionTitle(SectionRFM),
			Charts:     []string{ChartSegmentDays},
			Tables:     []StatTable{segmentTable(bySegment)},
			Narratives: narrativesFor("rfm"),
		},
		{
			ID:         SectionCategories,
			Title:      sectionTitle(SectionCategories),
			Charts:     []string{ChartTemperatureDays, ChartHumidityDays, ChartVolumeDays},
			Narratives: narrativesFor("temperature", "humidity", "volume"),
		},
		{
			ID:         SectionConclusions,
			Title:      sectionTitle(SectionConclusions),
			Narratives: narrativesFor("conclusion_season", "conclusion_weather", "recommendations"),
		},
	}
	return rep
}

func (r *Report) addChart(c ChartData) {
	r.Charts[c.Name] = c
}

// Tables returns every stat table of the report in page order.
func (r Report) Tables() []StatTable {
	var out []StatTable
	for _, s := range r.Sections {
		out = append(out, s.Tables...)
	}
	return out
}

func meanChart(name, title, xLabel string, d rental.Dimension, groups []rental.Group) ChartData {
	c := ChartData{Name: name, Title: title, XLabel: xLabel, YLabel: "Average rentals", Series: []string{"count"}}
	for _, g := range groups {
		c.Bars = append(c.Bars, Bar{Label: DisplayName(d, g.Key), Values: []float64{round2(g.Count.Mean)}})
	}
	return c
}

func daysChart(name, title, xLabel string, d rental.Dimension, groups []rental.Group) ChartData {
	c := ChartData{Name: name, Title: title, XLabel: xLabel, YLabel: "Days", Series: []string{"days"}}
	for _, g := range groups {
		c.Bars = append(c.Bars, Bar{Label: DisplayName(d, g.Key), Values: []float64{float64(g.Days)}})
	}
	return c
}

func usersChart(groups []rental.Group) ChartData {
	c := ChartData{
		Name:    ChartWeatherUsers,
		Title:   "Casual vs registered per weather condition",
		XLabel:  "Weather",
		YLabel:  "Share of average rentals",
		Series:  []string{"casual", "registered"},
		Stacked: true,
	}
	for _, g := range groups {
		c.Bars = append(c.Bars, Bar{
			Label:  DisplayName(rental.ByWeather, g.Key),
			Values: []float64{round2(g.Casual.Mean), round2(g.Registered.Mean)},
		})
	}
	return c
}

func seasonTable(groups []rental.Group) StatTable {
	t := StatTable{
		ID:      "season-stats",
		Title:   "Rental statistics per season",
		Columns: []string{"Casual (mean)", "Registered (mean)", "Max", "Min", "Mean"},
	}
	for _, g := range groups {
		t.Rows = append(t.Rows, statRow(DisplayName(rental.BySeason, g.Key),
			g.Casual.Mean, g.Registered.Mean, g.Count.Max, g.Count.Min, g.Count.Mean))
	}
	return t
}

func distributionTable(v rental.View) StatTable {
	t := StatTable{
		ID:      "season-distribution",
		Title:   "Rental distribution per season",
		Columns: []string{"Min", "Q1", "Median", "Q3", "Max"},
	}
	for _, d := range rental.DistributionBy(v, rental.BySeason) {
		t.Rows = append(t.Rows, statRow(DisplayName(rental.BySeason, d.Key), d.Min, d.Q1, d.Median, d.Q3, d.Max))
	}
	return t
}

func weatherTable(groups []rental.Group) StatTable {
	t := StatTable{
		ID:      "weather-stats",
		Title:   "Rental statistics per weather condition",
		Columns: []string{"Max", "Min", "Mean", "Total", "Casual (mean)", "Registered (mean)"},
	}
	for _, g := range groups {
		t.Rows = append(t.Rows, statRow(DisplayName(rental.ByWeather, g.Key),
			g.Count.Max, g.Count.Min, g.Count.Mean, g.Count.Sum, g.Casual.Mean, g.Registered.Mean))
	}
	return t
}

func segmentTable(groups []rental.Group) StatTable {
	t := StatTable{
		ID:      "segment-detail",
		Title:   "RFM segment detail",
		Columns: []string{"Mean", "Min", "Max", "Recency", "R", "F", "M"},
	}
	for _, g := range groups {
		t.Rows = append(t.Rows, statRow(g.Key,
			g.Count.Mean, g.Count.Min, g.Count.Max, g.MeanRecency, g.MeanRScore, g.MeanFScore, g.MeanMScore))
	}
	return t
}

func statRow(label string, values ...float64) StatRow {
	row := StatRow{Label: label, Values: make([]float64, len(values))}
	for i, v := range values {
		row.Values[i] = round2(v)
	}
	return row
}
