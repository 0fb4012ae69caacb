package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Dataset load metrics
var (
	// DatasetLoadsTotal counts load attempts by source and outcome
	DatasetLoadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bikeshare_dataset_loads_total",
			Help: "Total number of dataset load attempts",
		},
		[]string{"source", "status"},
	)

	// DatasetLoadDuration tracks fetch, parse and derivation time
	DatasetLoadDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "bikeshare_dataset_load_duration_seconds",
			Help:    "Duration of dataset loads in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"source"},
	)

	// DatasetRows is the row count of the table currently served
	DatasetRows = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "bikeshare_dataset_rows",
			Help: "Number of daily records in the current table",
		},
	)

	// DatasetLastLoad records when the current table was loaded
	DatasetLastLoad = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "bikeshare_dataset_last_load_timestamp_seconds",
			Help: "Unix timestamp of the last successful dataset load",
		},
	)
)

// Render metrics
var (
	// RendersTotal counts rendered views by kind (page, report, chart, export...)
	RendersTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bikeshare_renders_total",
			Help: "Total number of rendered dashboard views",
		},
		[]string{"view"},
	)

	// RenderDuration tracks how long a filtered view took to build
	RenderDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "bikeshare_render_duration_seconds",
			Help:    "Duration of filter and aggregate passes in seconds",
			Buckets: []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25},
		},
		[]string{"view"},
	)

	// FilteredRows tracks the size of filtered views
	FilteredRows = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "bikeshare_filtered_rows",
			Help:    "Number of rows left after applying a selection",
			Buckets: []float64{0, 10, 50, 100, 250, 500, 750},
		},
	)
)

// RecordLoad records a dataset load attempt
func RecordLoad(source string, duration time.Duration, rows int, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	DatasetLoadsTotal.WithLabelValues(source, status).Inc()
	DatasetLoadDuration.WithLabelValues(source).Observe(duration.Seconds())
	if err == nil {
		DatasetRows.Set(float64(rows))
		DatasetLastLoad.SetToCurrentTime()
	}
}

// RecordRender records one filter and aggregate pass
func RecordRender(view string, duration time.Duration, rows int) {
	RendersTotal.WithLabelValues(view).Inc()
	RenderDuration.WithLabelValues(view).Observe(duration.Seconds())
	FilteredRows.Observe(float64(rows))
}
