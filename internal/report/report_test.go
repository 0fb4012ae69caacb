package report

import (
	"bytes"
	"errors"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/i474232898/bikeshare-dashboard/internal/rental"
)

func record(date string, season, weather, dayType, weekday string, temp, hum float64, casual, registered int) rental.Record {
	d, err := time.Parse("2006-01-02", date)
	if err != nil {
		panic(err)
	}
	return rental.Record{
		Date: d, Year: d.Year(), Season: season, Weather: weather, DayType: dayType, Weekday: weekday,
		Temperature: temp, Humidity: hum, Casual: casual, Registered: registered, Count: casual + registered,
	}
}

func snapshot(t *testing.T, edit func(*rental.Selection)) rental.Snapshot {
	t.Helper()

	tbl, err := rental.Derive([]rental.Record{
		record("2011-01-01", "spring", "clear", "weekend", "saturday", 0.10, 0.80, 300, 700),
		record("2011-01-03", "spring", "mist", "weekday", "monday", 0.15, 0.50, 100, 1900),
		record("2011-04-04", "summer", "clear", "weekday", "monday", 0.55, 0.40, 500, 3500),
		record("2011-07-10", "fall", "clear", "weekend", "sunday", 0.75, 0.30, 1500, 4500),
		record("2011-10-12", "winter", "light rain", "weekday", "wednesday", 0.35, 0.90, 50, 950),
		record("2012-04-07", "summer", "mist", "weekend", "saturday", 0.60, 0.60, 1200, 3800),
		record("2012-07-11", "fall", "clear", "weekday", "wednesday", 0.72, 0.45, 900, 6100),
		record("2012-12-31", "winter", "mist", "weekday", "monday", 0.25, 0.70, 200, 2800),
	})
	require.NoError(t, err)
	tbl.ID = "table-1"

	sel := rental.DefaultSelection(tbl)
	if edit != nil {
		edit(&sel)
	}
	view := sel.Apply(tbl.View())
	return rental.Snapshot{
		TableID:   tbl.ID,
		Selection: sel,
		Summary:   rental.Summarize(view),
		Table:     tbl,
		View:      view,
	}
}

func TestBuildSections(t *testing.T) {
	rep := Build(snapshot(t, nil))

	var ids []string
	for _, s := range rep.Sections {
		ids = append(ids, s.ID)
		assert.NotEmpty(t, s.Title, s.ID)
		assert.NotEmpty(t, s.Narratives, s.ID)
		for _, c := range s.Charts {
			assert.Contains(t, rep.Charts, c)
		}
	}
	assert.Equal(t, sectionIDs, ids)

	assert.Equal(t, "table-1", rep.TableID)
	assert.Equal(t, 8, rep.Sidebar.TotalDays)
	assert.InDelta(t, 3625, rep.Sidebar.MeanRentals, 1e-9)
	assert.Equal(t, 29000, rep.Metrics.TotalRentals)
}

func TestBuildSeasonTable(t *testing.T) {
	rep := Build(snapshot(t, nil))

	season := rep.Sections[0].Tables[0]
	require.Equal(t, "season-stats", season.ID)
	require.Len(t, season.Rows, 4)

	var labels []string
	for _, r := range season.Rows {
		labels = append(labels, r.Label)
	}
	assert.Equal(t, []string{"Spring", "Summer", "Fall", "Winter"}, labels)

	// Fall: casual mean, registered mean, max, min, mean.
	assert.Equal(t, []float64{1200, 5300, 7000, 6000, 6500}, season.Rows[2].Values)
}

func TestBuildSidebarIgnoresSelection(t *testing.T) {
	rep := Build(snapshot(t, func(s *rental.Selection) { s.Years = []int{2012} }))

	assert.Equal(t, 8, rep.Sidebar.TotalDays)
	assert.Equal(t, 3, rep.Metrics.Days)
	assert.Equal(t, []int{2011, 2012}, rep.Sidebar.Options.Years)
}

func TestBuildEmptySelection(t *testing.T) {
	rep := Build(snapshot(t, func(s *rental.Selection) { s.Seasons = nil }))

	assert.Equal(t, rental.Summary{}, rep.Metrics)
	for name, c := range rep.Charts {
		assert.True(t, c.Empty(), name)
	}
	for _, tbl := range rep.Tables() {
		assert.Empty(t, tbl.Rows, tbl.ID)
	}
}

func TestChartRendersSVG(t *testing.T) {
	full := Build(snapshot(t, nil))
	empty := Build(snapshot(t, func(s *rental.Selection) { s.Weather = []string{} }))

	for name := range full.Charts {
		var buf bytes.Buffer
		require.NoError(t, Chart(&buf, full, name), name)
		assert.Contains(t, buf.String(), "<svg", name)

		buf.Reset()
		require.NoError(t, Chart(&buf, empty, name), name)
		assert.Contains(t, buf.String(), "No data for the current filters", name)
	}

	err := Chart(&bytes.Buffer{}, full, "pie")
	assert.True(t, errors.Is(err, ErrUnknownChart))
}

func TestRenderHTML(t *testing.T) {
	rep := Build(snapshot(t, func(s *rental.Selection) {
		s.Seasons = []string{"fall"}
		s.DayType = rental.DayTypeOnlyWeekday
	}))

	var buf bytes.Buffer
	require.NoError(t, RenderHTML(&buf, rep, url.Values{"season": {"fall"}, "day_type": {"Weekday"}}))
	page := buf.String()

	assert.Contains(t, page, "Bike Sharing")
	assert.Contains(t, page, `value="fall" checked`)
	assert.NotContains(t, page, `value="spring" checked`)
	assert.Contains(t, page, `value="Weekday" checked`)
	assert.Contains(t, page, "/charts/season-mean.svg?day_type=Weekday&amp;season=fall")
	assert.Contains(t, page, "Business recommendations")
	assert.Equal(t, 1, strings.Count(page, `<input type="hidden" name="season" value="">`))
}

func TestWriteXLSX(t *testing.T) {
	snap := snapshot(t, nil)
	rep := Build(snap)

	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, rep, snap.View.Records()))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	sheets := f.GetSheetList()
	assert.Equal(t, summarySheet, sheets[0])
	assert.Contains(t, sheets, "season-stats")
	assert.Contains(t, sheets, "segment-detail")
	assert.Contains(t, sheets, "Records")

	total, err := f.GetCellValue(summarySheet, "B8")
	require.NoError(t, err)
	assert.Equal(t, "29000", total)

	rows, err := f.GetRows("Records")
	require.NoError(t, err)
	assert.Len(t, rows, 9)
	assert.Equal(t, "2011-01-01", rows[1][0])
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "Light Rain", DisplayName(rental.ByWeather, "light rain"))
	assert.Equal(t, "Fall", DisplayName(rental.BySeason, "fall"))
	assert.Equal(t, "Medium", DisplayName(rental.ByHumidity, "Medium Humidity"))
	assert.Equal(t, "Wednesday", DisplayName(rental.ByWeekday, "wednesday"))
	assert.Equal(t, "monsoon", DisplayName(rental.BySeason, "monsoon"))
}

func TestParseNarrativesRequiresSectionTitles(t *testing.T) {
	_, err := parseNarratives([]byte("sections:\n  season: Seasons\n"))
	assert.Error(t, err)

	doc, err := parseNarratives(narrativeYAML)
	require.NoError(t, err)
	assert.Len(t, doc.Narratives["recommendations"].Points, 5)
}
