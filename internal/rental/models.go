package rental

import (
	"strings"
	"time"

	"github.com/i474232898/bikeshare-dashboard/internal/common"
)

// Known categorical values as they appear in the cleaned daily dataset.
const (
	SeasonSpring = "spring"
	SeasonSummer = "summer"
	SeasonFall   = "fall"
	SeasonWinter = "winter"

	WeatherClear     = "clear"
	WeatherMist      = "mist"
	WeatherLightRain = "light rain"

	DayTypeWeekday = "weekday"
	DayTypeWeekend = "weekend"
)

// Segment labels.
const (
	SegmentBest           = "Best Days"
	SegmentGood           = "Good Days"
	SegmentRegular        = "Regular Days"
	SegmentNeedsAttention = "Needs Attention"
	SegmentLost           = "Lost Days"
)

// Display orderings per category domain. Categories outside these lists
// (unrecognized spellings) sort after the known ones.
var (
	SeasonOrder       = []string{SeasonSpring, SeasonSummer, SeasonFall, SeasonWinter}
	WeatherOrder      = []string{WeatherClear, WeatherMist, WeatherLightRain}
	DayTypeOrder      = []string{DayTypeWeekday, DayTypeWeekend}
	WeekdayOrder      = []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}
	TempOrder         = []string{"Cold", "Mild", "Warm", "Hot"}
	HumidityOrder     = []string{"Low Humidity", "Medium Humidity", "High Humidity"}
	RentalVolumeOrder = []string{"Low Rentals", "Medium Rentals", "High Rentals", "Very High Rentals"}
	SegmentOrder      = []string{SegmentBest, SegmentGood, SegmentRegular, SegmentNeedsAttention, SegmentLost}
)

// Record is one calendar day of rentals plus the attributes derived from the whole table.
type Record struct {
	Date        time.Time `json:"date"`
	Year        int       `json:"year"`
	Season      string    `json:"season"`
	Weather     string    `json:"weather_condition"`
	DayType     string    `json:"day_type"`
	Weekday     string    `json:"weekday"`
	Temperature float64   `json:"temperature"`
	Humidity    float64   `json:"humidity"`
	Casual      int       `json:"casual"`
	Registered  int       `json:"registered"`
	Count       int       `json:"count"`

	Recency              int    `json:"recency"`
	RScore               int    `json:"r_score"`
	FScore               int    `json:"f_score"`
	MScore               int    `json:"m_score"`
	RFMCode              string `json:"rfm_code"`
	Segment              string `json:"segment"`
	TempCategory         string `json:"temp_category"`
	HumCategory          string `json:"hum_category"`
	RentalVolumeCategory string `json:"rental_volume_category"`
}

// Binning describes how a quantile-binned column was actually split.
type Binning struct {
	Column    string    `json:"column"`
	Requested int       `json:"requested"`
	Effective int       `json:"effective"`
	Edges     []float64 `json:"edges"`
	Collapsed bool      `json:"collapsed"`
}

// Diagnostics collects the data-dependent binning outcomes of a derivation.
type Diagnostics struct {
	Recency      Binning `json:"recency"`
	Frequency    Binning `json:"frequency"`
	RentalVolume Binning `json:"rental_volume"`
}

// FacetOptions lists the values a user can pick for each facet.
type FacetOptions struct {
	Years    []int    `json:"years"`
	Seasons  []string `json:"seasons"`
	Weather  []string `json:"weather"`
	DayTypes []string `json:"day_types"`
}

// Period is the inclusive date range covered by the table.
type Period struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// LoadInfo summarizes one dataset load.
type LoadInfo struct {
	ID          string    `json:"id"`
	Source      string    `json:"source"`
	Fingerprint string    `json:"fingerprint"`
	Rows        int       `json:"rows"`
	LoadedAt    time.Time `json:"loaded_at"`
}

// Table is the immutable derived dataset. It is built once per load and
// only ever read afterwards.
type Table struct {
	ID          string
	Source      string
	Fingerprint string
	LoadedAt    time.Time

	Diagnostics Diagnostics
	Options     FacetOptions
	Period      Period

	rows []Record
}

// Len returns the number of days in the table.
func (t *Table) Len() int {
	return len(t.rows)
}

// View returns a read-only view over every row.
func (t *Table) View() View {
	return View{rows: t.rows}
}

// MeanCount is the table-wide mean of daily rentals.
func (t *Table) MeanCount() float64 {
	return Summarize(t.View()).MeanRentals
}

// Info returns the load metadata of the table.
func (t *Table) Info() LoadInfo {
	return LoadInfo{
		ID:          t.ID,
		Source:      t.Source,
		Fingerprint: t.Fingerprint,
		Rows:        len(t.rows),
		LoadedAt:    t.LoadedAt,
	}
}

// canonical maps a raw categorical value onto its known spelling in domain,
// or returns the trimmed value unchanged when it is not recognized.
func canonical(raw string, domain []string) string {
	key := common.NormalizeKey(raw)
	for _, known := range domain {
		if common.NormalizeKey(known) == key {
			return known
		}
	}
	return strings.TrimSpace(raw)
}
