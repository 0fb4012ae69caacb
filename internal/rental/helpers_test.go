package rental

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func rec(date string, year int, season, weather, dayType string, temp, hum float64, casual, registered int) Record {
	return Record{
		Date:        day(date),
		Year:        year,
		Season:      season,
		Weather:     weather,
		DayType:     dayType,
		Weekday:     day(date).Weekday().String(),
		Temperature: temp,
		Humidity:    hum,
		Casual:      casual,
		Registered:  registered,
		Count:       casual + registered,
	}
}

// sampleRecords covers both years, every season, every weather condition and both day types.
func sampleRecords() []Record {
	return []Record{
		rec("2011-01-01", 2011, SeasonSpring, WeatherClear, DayTypeWeekend, 0.10, 0.80, 300, 700),
		rec("2011-01-03", 2011, SeasonSpring, WeatherMist, DayTypeWeekday, 0.15, 0.50, 100, 1900),
		rec("2011-04-04", 2011, SeasonSummer, WeatherClear, DayTypeWeekday, 0.55, 0.40, 500, 3500),
		rec("2011-07-10", 2011, SeasonFall, WeatherClear, DayTypeWeekend, 0.75, 0.30, 1500, 4500),
		rec("2011-10-12", 2011, SeasonWinter, WeatherLightRain, DayTypeWeekday, 0.35, 0.90, 50, 950),
		rec("2012-04-07", 2012, SeasonSummer, WeatherMist, DayTypeWeekend, 0.60, 0.60, 1200, 3800),
		rec("2012-07-11", 2012, SeasonFall, WeatherClear, DayTypeWeekday, 0.72, 0.45, 900, 6100),
		rec("2012-12-31", 2012, SeasonWinter, WeatherMist, DayTypeWeekday, 0.25, 0.70, 200, 2800),
	}
}

func sampleTable(t *testing.T) *Table {
	t.Helper()
	tbl, err := Derive(sampleRecords())
	require.NoError(t, err)
	return tbl
}
